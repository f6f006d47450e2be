package qrcode

import (
	"context"
	"fmt"
)

// ExportRequest describes one export.
type ExportRequest struct {
	Content string
	Options Options
	Format  Format
	// Size overrides Options.Size when non-zero.
	Size int
	// LogoURL, when set, is composited onto raster formats.
	LogoURL string
}

// Image is an encoded export.
type Image struct {
	Data        []byte
	ContentType string
	Format      Format
	Width       int
	Height      int
	// LogoOmitted is set when a logo was requested for a vector format.
	LogoOmitted bool
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithCompositor sets the compositor used for logos.
func WithCompositor(c *Compositor) ExporterOption {
	return func(e *Exporter) {
		if c != nil {
			e.compositor = c
		}
	}
}

// WithLogoFetcher builds the compositor around f.
func WithLogoFetcher(f LogoFetcher) ExporterOption {
	return func(e *Exporter) {
		if f != nil {
			e.compositor = NewCompositor(f)
		}
	}
}

// Exporter runs the encode, render, composite and encode-to-bytes pipeline.
// It holds no mutable state; one instance serves concurrent requests.
type Exporter struct {
	compositor *Compositor
}

// NewExporter returns an Exporter with an HTTP logo fetcher unless overridden.
func NewExporter(opts ...ExporterOption) *Exporter {
	e := &Exporter{}
	for _, opt := range opts {
		opt(e)
	}
	if e.compositor == nil {
		e.compositor = NewCompositor(nil)
	}
	return e
}

// Export validates the request before doing any rendering work.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (*Image, error) {
	if req.Format == nil {
		return nil, fmt.Errorf("%w: no format given", ErrUnknownFormat)
	}
	opts := req.Options
	if req.Size != 0 {
		opts.Size = req.Size
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	grid, err := Encode(req.Content, opts.ErrorCorrection)
	if err != nil {
		return nil, err
	}
	asset, err := Render(grid, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return req.Format.export(ctx, e.compositor, asset, logoRequest{url: req.LogoURL, scale: opts.LogoScale})
}
