package qrcode

import (
	"image"

	"github.com/fogleman/gg"
)

// Rasterize draws the asset into a new Size x Size RGBA image.
func (a *Asset) Rasterize() *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, a.Size, a.Size))
	dc := gg.NewContextForRGBA(im)

	dc.SetColor(a.Background)
	dc.Clear()

	scale := float64(a.Size) / float64(a.Extent)
	for _, s := range a.Shapes {
		x, y := float64(s.X)*scale, float64(s.Y)*scale
		if s.Radius > 0 {
			dc.DrawRoundedRectangle(x, y, scale, scale, s.Radius*scale)
		} else {
			dc.DrawRectangle(x, y, scale, scale)
		}
	}

	// all modules share one path so adjacent squares fill without seams
	if g := a.Paint.Gradient; g != nil {
		edge := float64(a.Size)
		grad := gg.NewLinearGradient(g.X1*edge, g.Y1*edge, g.X2*edge, g.Y2*edge)
		grad.AddColorStop(0, g.From)
		grad.AddColorStop(1, g.To)
		dc.SetFillStyle(grad)
	} else {
		dc.SetColor(a.Paint.Solid)
	}
	dc.Fill()

	return im
}
