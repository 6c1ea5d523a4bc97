package renderer

import (
	"image"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// TileRenderer handles the actual rendering of individual tiles
type TileRenderer struct {
	raytracer *Raytracer
}

// NewTileRenderer creates a new tile renderer for the given scene
func NewTileRenderer(scene Scene) *TileRenderer {
	return &TileRenderer{
		raytracer: NewRaytracer(scene),
	}
}

// RenderTileBounds tops up every pixel within bounds to targetSamples samples.
// Pixels are written into the shared pixelStats array in image coordinates;
// callers must hand disjoint bounds to concurrent invocations.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			initialSampleCount := ps.SampleCount
			for ps.SampleCount < targetSamples {
				ps.AddSample(tr.raytracer.SamplePixel(i, j, sampler))
			}
			stats.addSamples(ps.SampleCount - initialSampleCount)
		}
	}

	stats.finalize()
	return stats
}
