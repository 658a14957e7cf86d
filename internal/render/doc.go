// Package render applies band-spec style descriptors to source frames and
// composites them into a single RGBA image.
//
// The frame model (internal/frame) decides WHICH frames are composited and
// HOW (palette, intensity bounds); this package is the rendering backend
// that executes that style descriptor:
//
//	comp := render.NewCompositor()
//	img, err := comp.Composite(ctx, model.BandSpecs(), func(ctx context.Context, n int) (image.Image, error) {
//	    return client.GetImage(ctx, frameURL(n))
//	})
//
// Each band is read as grayscale, rescaled through its min/max window when
// the spec carries one (specs omit the bounds at defaults, and the rescale
// pass is skipped entirely), mapped through its palette, and blended
// additively with the bands before it.
//
// The package also provides thumbnail resizing (x/image CatmullRom) and
// per-frame intensity statistics (min/max scan and histogram) used to
// auto-window channels.
package render
