package qrcode

import (
	"image/color"

	"github.com/dmitrymomot/permaqr/pkg/contrast"
)

const (
	// QuietZone is the blank margin, in modules, on every side of the symbol.
	QuietZone = 4
	// moduleRadius is the corner radius of rounded data modules, in modules.
	moduleRadius = 0.3
)

// Shape is one dark module in asset coordinates (quiet zone included).
// Radius is in module units; zero means a square.
type Shape struct {
	X, Y   int
	Radius float64
	Region Region
}

// LinearGradient spans the asset bounding box. Endpoints are fractions of the
// asset edge, so (0,0)-(1,1) is the top-left to bottom-right diagonal.
type LinearGradient struct {
	From, To       color.RGBA
	X1, Y1, X2, Y2 float64
}

// Paint is the single fill source used for every dark module.
type Paint struct {
	Solid    color.RGBA
	Gradient *LinearGradient
}

// Asset is the resolution-independent description of a styled symbol.
type Asset struct {
	Size       int
	Extent     int
	Background color.RGBA
	Paint      Paint
	Shapes     []Shape
	Rounded    bool
}

// Render styles grid according to opts. It performs no I/O.
func Render(grid *Grid, opts Options) (*Asset, error) {
	if grid == nil {
		return nil, ErrNilGrid
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	bg, _ := contrast.ParseHex(opts.Background)
	a := &Asset{
		Size:       opts.Size,
		Extent:     grid.Size() + 2*QuietZone,
		Background: bg,
		Paint:      paintFor(opts),
		Rounded:    opts.Rounded,
	}

	for y := range grid.Size() {
		for x := range grid.Size() {
			m := grid.At(x, y)
			if !m.Dark {
				continue
			}
			s := Shape{X: x + QuietZone, Y: y + QuietZone, Region: m.Region}
			if opts.Rounded && !m.Region.Structural() {
				s.Radius = moduleRadius
			}
			a.Shapes = append(a.Shapes, s)
		}
	}
	return a, nil
}

func paintFor(opts Options) Paint {
	if opts.Gradient == nil {
		c, _ := contrast.ParseHex(opts.Color)
		return Paint{Solid: c}
	}
	from, _ := contrast.ParseHex(opts.Gradient.From)
	to, _ := contrast.ParseHex(opts.Gradient.To)
	g := &LinearGradient{From: from, To: to}
	switch opts.Gradient.Direction {
	case DirectionHorizontal:
		g.X2 = 1
	case DirectionVertical:
		g.Y2 = 1
	default:
		g.X2, g.Y2 = 1, 1
	}
	return Paint{Gradient: g}
}
