package qrcode

import (
	"bytes"
	"strconv"

	"github.com/dmitrymomot/permaqr/pkg/contrast"
)

const gradientID = "qr-fill"

// SVG serializes the asset. The output depends only on the asset, so equal
// assets produce byte-identical documents.
func (a *Asset) SVG() []byte {
	var b bytes.Buffer
	b.Grow(256 + len(a.Shapes)*48)

	ext := strconv.Itoa(a.Extent)
	size := strconv.Itoa(a.Size)

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="` + size + `" height="` + size +
		`" viewBox="0 0 ` + ext + ` ` + ext + `">`)

	fill := contrast.Hex(a.Paint.Solid)
	if g := a.Paint.Gradient; g != nil {
		b.WriteString(`<defs><linearGradient id="` + gradientID + `" gradientUnits="userSpaceOnUse"`)
		b.WriteString(` x1="` + num(g.X1*float64(a.Extent)) + `" y1="` + num(g.Y1*float64(a.Extent)) + `"`)
		b.WriteString(` x2="` + num(g.X2*float64(a.Extent)) + `" y2="` + num(g.Y2*float64(a.Extent)) + `">`)
		b.WriteString(`<stop offset="0" stop-color="` + contrast.Hex(g.From) + `"/>`)
		b.WriteString(`<stop offset="1" stop-color="` + contrast.Hex(g.To) + `"/>`)
		b.WriteString(`</linearGradient></defs>`)
		fill = "url(#" + gradientID + ")"
	}

	b.WriteString(`<rect width="` + ext + `" height="` + ext + `" fill="` + contrast.Hex(a.Background) + `"/>`)

	// Square modules keep crisp edges so adjacent ones do not seam; rounded
	// data modules go in a second, anti-aliased group.
	b.WriteString(`<g fill="` + fill + `" shape-rendering="crispEdges">`)
	rounded := 0
	for _, s := range a.Shapes {
		if s.Radius > 0 {
			rounded++
			continue
		}
		writeModule(&b, s)
	}
	b.WriteString(`</g>`)
	if rounded > 0 {
		b.WriteString(`<g fill="` + fill + `">`)
		for _, s := range a.Shapes {
			if s.Radius > 0 {
				writeModule(&b, s)
			}
		}
		b.WriteString(`</g>`)
	}
	b.WriteString(`</svg>`)
	return b.Bytes()
}

func writeModule(b *bytes.Buffer, s Shape) {
	b.WriteString(`<rect x="` + strconv.Itoa(s.X) + `" y="` + strconv.Itoa(s.Y) + `" width="1" height="1"`)
	if s.Radius > 0 {
		r := num(s.Radius)
		b.WriteString(` rx="` + r + `" ry="` + r + `"`)
	}
	b.WriteString(`/>`)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
