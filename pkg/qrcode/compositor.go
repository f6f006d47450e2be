package qrcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

const (
	// LogoBezelMargin is the padding, in pixels, of the bezel around the logo box.
	LogoBezelMargin = 4
	// MaxLogoBytes caps the logo download.
	MaxLogoBytes int64 = 5 << 20

	defaultFetchTimeout = 10 * time.Second
)

var errLogoTooLarge = fmt.Errorf("logo exceeds %d bytes", MaxLogoBytes)

// LogoFetcher retrieves and decodes a logo image.
type LogoFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithFetchTimeout bounds each download. Non-positive values are ignored.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxLogoBytes caps the downloaded body. Non-positive values are ignored.
func WithMaxLogoBytes(n int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// HTTPFetcher downloads logos over HTTP(S) and decodes JPEG, PNG or WebP.
type HTTPFetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// NewHTTPFetcher returns a fetcher with a 10s timeout and a 5 MiB cap.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{client: http.DefaultClient, timeout: defaultFetchTimeout, maxBytes: MaxLogoBytes}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements LogoFetcher. Cancelling ctx aborts the download.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/png, image/jpeg, image/webp")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBytes {
		return nil, errLogoTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// Compositor places a fetched logo at the center of a raster.
type Compositor struct {
	fetcher LogoFetcher
}

// NewCompositor returns a Compositor using f, or an HTTPFetcher when f is nil.
func NewCompositor(f LogoFetcher) *Compositor {
	if f == nil {
		f = NewHTTPFetcher()
	}
	return &Compositor{fetcher: f}
}

// Composite fetches the logo at url and draws it onto dst with a bezel.
// Any fetch or decode failure is returned as *LogoFetchError and dst is left
// untouched.
func (c *Compositor) Composite(ctx context.Context, dst *image.RGBA, url string, scale float64, bezel color.Color) error {
	logo, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(ctxErr, err)
		}
		return &LogoFetchError{URL: url, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	DrawLogo(dst, logo, scale, bezel)
	return nil
}

// LogoBounds returns the square the logo occupies in a size x size raster:
// edge floor(size*scale), centered.
func LogoBounds(size int, scale float64) image.Rectangle {
	edge := int(math.Floor(float64(size)*scale + 1e-9))
	off := (size - edge) / 2
	return image.Rect(off, off, off+edge, off+edge)
}

// DrawLogo paints the bezel and the aspect-preserving resized logo onto dst.
func DrawLogo(dst *image.RGBA, logo image.Image, scale float64, bezel color.Color) {
	size := dst.Bounds().Dx()
	box := LogoBounds(size, scale)
	edge := box.Dx()
	if edge <= 0 {
		return
	}

	dc := gg.NewContextForRGBA(dst)
	dc.SetColor(bezel)
	dc.DrawRectangle(
		float64(box.Min.X-LogoBezelMargin), float64(box.Min.Y-LogoBezelMargin),
		float64(edge+2*LogoBezelMargin), float64(edge+2*LogoBezelMargin),
	)
	dc.Fill()

	w, h := fitInside(logo.Bounds().Dx(), logo.Bounds().Dy(), edge)
	resized := resize.Resize(uint(w), uint(h), logo, resize.Lanczos3)

	// transparent padding centers the resized logo inside the edge x edge box
	at := image.Pt(box.Min.X+(edge-w)/2, box.Min.Y+(edge-h)/2)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}, resized, resized.Bounds().Min, draw.Over)
}

func fitInside(w, h, edge int) (int, int) {
	if w <= 0 || h <= 0 {
		return edge, edge
	}
	if w >= h {
		return edge, max(1, int(math.Round(float64(h)*float64(edge)/float64(w))))
	}
	return max(1, int(math.Round(float64(w)*float64(edge)/float64(h)))), edge
}
