package render

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ScanMinMax returns the smallest and largest normalized intensity in the
// image. Used to auto-window a channel whose metadata carries no value
// range.
func ScanMinMax(img image.Image) (min, max float64) {
	samples := graySamples(img)
	if len(samples) == 0 {
		return 0, 0
	}
	return floats.Min(samples), floats.Max(samples)
}

// Histogram buckets the image's normalized intensities into the given
// number of equal-width bins over [0, 1] and returns the per-bin counts.
func Histogram(img image.Image, bins int) []float64 {
	if bins < 1 {
		bins = 1
	}
	samples := graySamples(img)

	// stat.Histogram needs sorted samples and bins+1 dividers spanning
	// them; the last divider is nudged past 1 so a full-intensity pixel
	// lands in the final bin.
	dividers := make([]float64, bins+1)
	floats.Span(dividers, 0, 1)
	dividers[bins] = 1 + 1e-9

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	counts := make([]float64, bins)
	return stat.Histogram(counts, dividers, sorted, nil)
}

func graySamples(img image.Image) []float64 {
	bounds := img.Bounds()
	samples := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			samples = append(samples, grayValue(img.At(x, y)))
		}
	}
	return samples
}
