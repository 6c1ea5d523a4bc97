package renderer

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels       int     // Total number of pixels rendered
	TotalSamples      int     // Total number of samples taken
	AverageSamples    float64 // Average samples per pixel
	MaxSamples        int     // Maximum samples allowed per pixel
	MinSamples        int     // Minimum samples taken per pixel
	MaxSamplesUsed    int     // Maximum samples actually used by any pixel
	MeanLuminance     float64 // Mean linear luminance over all pixels
	MeanPixelVariance float64 // Mean per-pixel sample variance of luminance

	luminances []float64
	variances  []float64
}

func newRenderStats(totalPixels, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: totalPixels,
		MaxSamples:  maxSamples,
		MinSamples:  maxSamples, // Start with max, will be reduced
		luminances:  make([]float64, 0, totalPixels),
		variances:   make([]float64, 0, totalPixels),
	}
}

// addSamples records the number of samples a single pixel received
func (s *RenderStats) addSamples(samplesUsed int) {
	s.TotalSamples += samplesUsed
	s.MinSamples = min(s.MinSamples, samplesUsed)
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, samplesUsed)
}

// addPixel folds one pixel's accumulators into the statistics
func (s *RenderStats) addPixel(ps *PixelStats) {
	s.addSamples(ps.SampleCount)
	s.luminances = append(s.luminances, ps.GetColor().Luminance())
	s.variances = append(s.variances, ps.LuminanceVariance())
}

// finalize calculates the derived statistics once every pixel was added
func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
	if len(s.luminances) > 0 {
		s.MeanLuminance = stat.Mean(s.luminances, nil)
		s.MeanPixelVariance = stat.Mean(s.variances, nil)
	}
	s.luminances = nil
	s.variances = nil
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// LuminanceVariance returns the population variance of the luminance samples
func (ps *PixelStats) LuminanceVariance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	return max(0, ps.LuminanceSqAccum/n-mean*mean)
}

// CalculateAverageLuminance returns the mean luminance of an encoded
// image, with channels mapped linearly to [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	luminances := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixel := core.NewVec3(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
			luminances = append(luminances, pixel.Luminance())
		}
	}

	return stat.Mean(luminances, nil)
}
