package qrcode_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permaqr/pkg/qrcode"
)

func renderV1(t *testing.T, modify func(*qrcode.Options)) *qrcode.Asset {
	t.Helper()
	grid, err := qrcode.Encode("x", qrcode.LevelL)
	require.NoError(t, err)
	require.Equal(t, 1, grid.Version())

	opts := qrcode.DefaultOptions()
	opts.ErrorCorrection = qrcode.LevelL
	opts.Size = 290
	if modify != nil {
		modify(&opts)
	}
	asset, err := qrcode.Render(grid, opts)
	require.NoError(t, err)
	return asset
}

func TestRender_Geometry(t *testing.T) {
	t.Parallel()

	asset := renderV1(t, nil)
	assert.Equal(t, 21+2*qrcode.QuietZone, asset.Extent)
	assert.Equal(t, 290, asset.Size)
	require.NotEmpty(t, asset.Shapes)

	for _, s := range asset.Shapes {
		assert.GreaterOrEqual(t, s.X, qrcode.QuietZone)
		assert.GreaterOrEqual(t, s.Y, qrcode.QuietZone)
		assert.Less(t, s.X, asset.Extent-qrcode.QuietZone)
		assert.Less(t, s.Y, asset.Extent-qrcode.QuietZone)
		assert.Zero(t, s.Radius)
	}
}

func TestRender_RoundedOnlyDataModules(t *testing.T) {
	t.Parallel()

	asset := renderV1(t, func(o *qrcode.Options) { o.Rounded = true })

	var rounded, square int
	for _, s := range asset.Shapes {
		if s.Radius > 0 {
			rounded++
			assert.Equal(t, qrcode.RegionData, s.Region)
			continue
		}
		square++
		assert.True(t, s.Region.Structural(), "data module at %d,%d not rounded", s.X, s.Y)
	}
	assert.Positive(t, rounded)
	assert.Positive(t, square)
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	_, err := qrcode.Render(nil, qrcode.DefaultOptions())
	assert.ErrorIs(t, err, qrcode.ErrNilGrid)

	grid, err := qrcode.Encode("x", qrcode.LevelM)
	require.NoError(t, err)
	opts := qrcode.DefaultOptions()
	opts.Background = "white"
	_, err = qrcode.Render(grid, opts)
	assert.True(t, errors.Is(err, qrcode.ErrInvalidOptions))
}

func TestAsset_SVG(t *testing.T) {
	t.Parallel()

	t.Run("well formed and sized", func(t *testing.T) {
		t.Parallel()
		asset := renderV1(t, nil)
		doc := asset.SVG()
		assertWellFormedXML(t, doc)

		s := string(doc)
		assert.Contains(t, s, `width="290" height="290"`)
		assert.Contains(t, s, `viewBox="0 0 29 29"`)
		assert.Contains(t, s, `<rect width="29" height="29" fill="#ffffff"/>`)
		assert.Contains(t, s, `<g fill="#000000" shape-rendering="crispEdges">`)
		assert.NotContains(t, s, "rx=")
		assert.Equal(t, len(asset.Shapes)+1, strings.Count(s, "<rect"))
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		a := renderV1(t, func(o *qrcode.Options) { o.Rounded = true })
		b := renderV1(t, func(o *qrcode.Options) { o.Rounded = true })
		assert.True(t, bytes.Equal(a.SVG(), b.SVG()))
	})

	t.Run("rounded", func(t *testing.T) {
		t.Parallel()
		asset := renderV1(t, func(o *qrcode.Options) { o.Rounded = true })
		doc := asset.SVG()
		assertWellFormedXML(t, doc)
		s := string(doc)
		assert.Equal(t, len(asset.Shapes)+1, strings.Count(s, "<rect"))

		// Finder, timing and alignment modules stay crisp; only the
		// rounded data modules are anti-aliased.
		crispStart := strings.Index(s, `<g fill="#000000" shape-rendering="crispEdges">`)
		require.NotEqual(t, -1, crispStart)
		crisp := s[crispStart : crispStart+strings.Index(s[crispStart:], "</g>")]
		assert.NotContains(t, crisp, "rx=")
		assert.Contains(t, crisp, `<rect x="4" y="4" width="1" height="1"/>`, "top-left finder corner")

		smoothStart := strings.Index(s, `<g fill="#000000">`)
		require.Greater(t, smoothStart, crispStart)
		smooth := s[smoothStart:]
		assert.Contains(t, smooth, `rx="0.3" ry="0.3"`)
		assert.NotContains(t, smooth, `width="1" height="1"/>`)
	})

	t.Run("gradient", func(t *testing.T) {
		t.Parallel()
		asset := renderV1(t, func(o *qrcode.Options) {
			o.Gradient = &qrcode.Gradient{From: "#FF0000", To: "#0000ff", Direction: qrcode.DirectionHorizontal}
		})
		doc := asset.SVG()
		assertWellFormedXML(t, doc)

		s := string(doc)
		assert.Contains(t, s, `<linearGradient id="qr-fill" gradientUnits="userSpaceOnUse" x1="0" y1="0" x2="29" y2="0">`)
		assert.Contains(t, s, `<stop offset="0" stop-color="#ff0000"/>`)
		assert.Contains(t, s, `<stop offset="1" stop-color="#0000ff"/>`)
		assert.Contains(t, s, `<g fill="url(#qr-fill)"`)
	})
}

func TestAsset_Rasterize(t *testing.T) {
	t.Parallel()

	t.Run("solid", func(t *testing.T) {
		t.Parallel()
		im := renderV1(t, nil).Rasterize()
		assert.Equal(t, 290, im.Bounds().Dx())
		assert.Equal(t, 290, im.Bounds().Dy())

		// 10px per module: (5,5) is quiet zone, (45,45) is the finder corner
		bg := im.RGBAAt(5, 5)
		assert.Equal(t, uint8(255), bg.R)
		assert.Equal(t, uint8(255), bg.B)
		fg := im.RGBAAt(45, 45)
		assert.Equal(t, uint8(0), fg.R)
		assert.Equal(t, uint8(255), fg.A)
	})

	t.Run("horizontal gradient", func(t *testing.T) {
		t.Parallel()
		im := renderV1(t, func(o *qrcode.Options) {
			o.Gradient = &qrcode.Gradient{From: "#ff0000", To: "#0000ff", Direction: qrcode.DirectionHorizontal}
		}).Rasterize()

		left := im.RGBAAt(45, 45)   // top-left finder
		right := im.RGBAAt(245, 45) // top-right finder
		assert.Greater(t, left.R, left.B)
		assert.Greater(t, right.B, right.R)
	})

	t.Run("adjacent modules have no seams", func(t *testing.T) {
		t.Parallel()
		im := renderV1(t, nil).Rasterize()
		// the finder's outer ring is seven dark modules in a row
		for x := 41; x < 110; x++ {
			assert.Equal(t, uint8(0), im.RGBAAt(x, 45).R, "x=%d", x)
		}
	})
}

func assertWellFormedXML(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}
