package render

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"frameview/internal/frame"
)

// FrameSource fetches the grayscale source image for one linear frame
// number. The viewer wires this to an HTTP frame/thumbnail fetch; tests
// supply synthetic images.
type FrameSource func(ctx context.Context, frameNumber int) (image.Image, error)

// Compositor renders a band-spec style descriptor into an RGBA image.
type Compositor struct{}

// NewCompositor creates a new Compositor.
func NewCompositor() *Compositor {
	return &Compositor{}
}

// Composite fetches every band's frame and blends them in spec order.
//
// Per band:
//   - the source pixel is read as a normalized grayscale intensity;
//   - when the spec carries min/max, the intensity is windowed to that
//     range ((v-min)/(max-min), clamped); specs omit the bounds at the
//     defaults, in which case the rescale pass is skipped;
//   - the intensity is mapped through the band's palette (black-to-color
//     ramp for a single false color, black-to-white without a palette);
//   - the result is added onto the canvas, channel-wise saturating.
//
// All frames must share the same bounds. Returns an error if specs is
// empty, a fetch fails, or bounds differ.
func (c *Compositor) Composite(ctx context.Context, specs []frame.BandSpec, src FrameSource) (*image.NRGBA, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no bands to composite")
	}

	var canvas *image.NRGBA
	for _, spec := range specs {
		img, err := src(ctx, spec.Frame)
		if err != nil {
			return nil, fmt.Errorf("fetching frame %d: %w", spec.Frame, err)
		}

		palette := grayPalette
		if spec.Palette != "" {
			palette, err = NewPalette(spec.Palette)
			if err != nil {
				return nil, fmt.Errorf("band for frame %d: %w", spec.Frame, err)
			}
		}

		if canvas == nil {
			canvas = image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
		} else if img.Bounds().Dx() != canvas.Bounds().Dx() || img.Bounds().Dy() != canvas.Bounds().Dy() {
			return nil, fmt.Errorf("frame %d size %v does not match composite size %v",
				spec.Frame, img.Bounds().Size(), canvas.Bounds().Size())
		}

		addBand(canvas, img, spec, palette)
	}
	return canvas, nil
}

// addBand blends one band onto the canvas.
func addBand(canvas *image.NRGBA, img image.Image, spec frame.BandSpec, palette *Palette) {
	bounds := img.Bounds()
	rescale := spec.Min != nil && spec.Max != nil && *spec.Max > *spec.Min

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			v := grayValue(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if rescale {
				v = (v - *spec.Min) / (*spec.Max - *spec.Min)
				if v < 0 {
					v = 0
				} else if v > 1 {
					v = 1
				}
			}

			c := palette.At(v)
			if c.A == 0 {
				continue
			}

			i := canvas.PixOffset(x, y)
			// additive blend, weighted by the stop alpha
			canvas.Pix[i+0] = satAdd(canvas.Pix[i+0], scale8(c.R, c.A))
			canvas.Pix[i+1] = satAdd(canvas.Pix[i+1], scale8(c.G, c.A))
			canvas.Pix[i+2] = satAdd(canvas.Pix[i+2], scale8(c.B, c.A))
			canvas.Pix[i+3] = satAdd(canvas.Pix[i+3], c.A)
		}
	}
}

// grayValue returns the pixel's luminance normalized to [0, 1], computed
// from the premultiplied 16-bit channels.
func grayValue(c interface{ RGBA() (r, g, b, a uint32) }) float64 {
	r, g, b, _ := c.RGBA()
	return float64(299*r+587*g+114*b) / (1000 * 65535)
}

func satAdd(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 0xff {
		return 0xff
	}
	return uint8(s)
}

func scale8(v, alpha uint8) uint8 {
	return uint8(uint16(v) * uint16(alpha) / 0xff)
}

// Resize scales an image to fit within the given maximum dimensions,
// preserving aspect ratio. Images already within the bounds are returned
// re-drawn at their original size.
//
// Catmull-Rom is used for high-quality scaling.
func Resize(img image.Image, maxWidth, maxHeight int) *image.NRGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
