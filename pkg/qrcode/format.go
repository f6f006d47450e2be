package qrcode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"strings"
)

// JPEGQuality is the quality used for JPEG exports.
const JPEGQuality = 90

// Format is an export target. The set is closed: every format implements the
// unexported export method, so adding one is a compile-checked change.
type Format interface {
	Name() string
	ContentType() string
	Extension() string
	export(ctx context.Context, c *Compositor, a *Asset, logo logoRequest) (*Image, error)
}

type logoRequest struct {
	url   string
	scale float64
}

var (
	FormatSVG  Format = svgFormat{}
	FormatPNG  Format = pngFormat{}
	FormatJPEG Format = jpegFormat{}
)

// Formats returns every supported format.
func Formats() []Format { return []Format{FormatSVG, FormatPNG, FormatJPEG} }

// ParseFormat maps a case-insensitive name ("svg", "png", "jpeg" or "jpg").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return nil, fmt.Errorf("%w: %q (supported: svg, png, jpeg)", ErrUnknownFormat, name)
}

type svgFormat struct{}

func (svgFormat) Name() string        { return "svg" }
func (svgFormat) ContentType() string { return "image/svg+xml" }
func (svgFormat) Extension() string   { return ".svg" }

// Logos are raster-only: the vector document is returned without one and the
// omission is flagged on the Image.
func (f svgFormat) export(_ context.Context, _ *Compositor, a *Asset, logo logoRequest) (*Image, error) {
	return &Image{
		Data:        a.SVG(),
		ContentType: f.ContentType(),
		Format:      f,
		Width:       a.Size,
		Height:      a.Size,
		LogoOmitted: logo.url != "",
	}, nil
}

type pngFormat struct{}

func (pngFormat) Name() string        { return "png" }
func (pngFormat) ContentType() string { return "image/png" }
func (pngFormat) Extension() string   { return ".png" }

func (f pngFormat) export(ctx context.Context, c *Compositor, a *Asset, logo logoRequest) (*Image, error) {
	im, err := raster(ctx, c, a, logo)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, im); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &Image{Data: buf.Bytes(), ContentType: f.ContentType(), Format: f, Width: a.Size, Height: a.Size}, nil
}

type jpegFormat struct{}

func (jpegFormat) Name() string        { return "jpeg" }
func (jpegFormat) ContentType() string { return "image/jpeg" }
func (jpegFormat) Extension() string   { return ".jpg" }

func (f jpegFormat) export(ctx context.Context, c *Compositor, a *Asset, logo logoRequest) (*Image, error) {
	im, err := raster(ctx, c, a, logo)
	if err != nil {
		return nil, err
	}
	// JPEG has no alpha: flatten onto the background first
	flat := image.NewRGBA(im.Bounds())
	draw.Draw(flat, flat.Bounds(), image.NewUniform(a.Background), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), im, im.Bounds().Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return &Image{Data: buf.Bytes(), ContentType: f.ContentType(), Format: f, Width: a.Size, Height: a.Size}, nil
}

func raster(ctx context.Context, c *Compositor, a *Asset, logo logoRequest) (*image.RGBA, error) {
	im := a.Rasterize()
	if logo.url == "" {
		return im, nil
	}
	if err := c.Composite(ctx, im, logo.url, logo.scale, a.Background); err != nil {
		return nil, err
	}
	return im, nil
}
