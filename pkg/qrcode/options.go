package qrcode

import (
	"errors"

	"github.com/dmitrymomot/permaqr/pkg/validator"
)

const (
	MinSize          = 128
	MaxSize          = 4096
	MinLogoScale     = 0.10
	MaxLogoScale     = 0.25
	MaxContentLength = 2048
)

// Level is a QR error-correction level.
type Level string

const (
	LevelL Level = "L" // ~7% recovery
	LevelM Level = "M" // ~15%
	LevelQ Level = "Q" // ~25%
	LevelH Level = "H" // ~30%
)

// Levels lists the accepted error-correction levels.
var Levels = []Level{LevelL, LevelM, LevelQ, LevelH}

// Direction selects the axis of a linear gradient across the asset.
type Direction string

const (
	DirectionDiagonal   Direction = "diagonal" // top-left to bottom-right
	DirectionHorizontal Direction = "horizontal"
	DirectionVertical   Direction = "vertical"
)

// Directions lists the accepted gradient directions. The empty value means diagonal.
var Directions = []Direction{"", DirectionDiagonal, DirectionHorizontal, DirectionVertical}

// Gradient paints dark modules from From to To.
type Gradient struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Direction Direction `json:"direction,omitempty"`
}

// Options controls rendering. Use Validate before handing it to the pipeline.
type Options struct {
	Size            int       `json:"size"`
	Color           string    `json:"color"`
	Background      string    `json:"background"`
	Gradient        *Gradient `json:"gradient,omitempty"`
	Rounded         bool      `json:"rounded"`
	LogoScale       float64   `json:"logoScale"`
	ErrorCorrection Level     `json:"errorCorrection"`
}

// DefaultOptions returns black-on-white 512px options at level M.
func DefaultOptions() Options {
	return Options{
		Size:            512,
		Color:           "#000000",
		Background:      "#ffffff",
		LogoScale:       0.2,
		ErrorCorrection: LevelM,
	}
}

// Validate checks every field. Values are never clamped.
func (o Options) Validate() error {
	rules := []validator.Rule{
		validator.RangeNum("size", o.Size, MinSize, MaxSize),
		validator.HexColor("color", o.Color),
		validator.HexColor("background", o.Background),
		validator.RangeNum("logoScale", o.LogoScale, MinLogoScale, MaxLogoScale),
		validator.InList("errorCorrection", o.ErrorCorrection, Levels),
	}
	if o.Gradient != nil {
		rules = append(rules,
			validator.HexColor("gradient.from", o.Gradient.From),
			validator.HexColor("gradient.to", o.Gradient.To),
			validator.InList("gradient.direction", o.Gradient.Direction, Directions),
		)
	}
	if err := validator.Apply(rules...); err != nil {
		return errors.Join(ErrInvalidOptions, err)
	}
	return nil
}
