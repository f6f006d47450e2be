// Package qrcode turns text into styled QR code images.
//
// The package is built around github.com/skip2/go-qrcode for the symbol
// encoding and github.com/fogleman/gg for rasterization, and adds typed
// structural regions, styling, logo compositing and multi-format export.
//
// # Architecture
//
// The pipeline is a chain of pure steps with one isolated I/O step:
//
//	content, Options
//	    -> Encode   -> *Grid    modules annotated with their Region
//	    -> Render   -> *Asset   vector description: shapes + one Paint
//	    -> Format   -> *Image   svg, png or jpeg bytes
//
// For raster formats with a logo, the Compositor fetches the logo through a
// LogoFetcher and draws it at the center over a bezel painted in the
// background color. The fetch is the only step that performs I/O and the only
// one that observes the context.
//
// Grid regions let the renderer round data modules while keeping finder,
// alignment, timing and format modules square, so scanners can still locate
// and calibrate the symbol.
//
// # Usage
//
//	import "github.com/dmitrymomot/permaqr/pkg/qrcode"
//
//	opts := qrcode.DefaultOptions()
//	opts.Rounded = true
//	opts.Gradient = &qrcode.Gradient{From: "#1e3a8a", To: "#7c3aed"}
//
//	exp := qrcode.NewExporter()
//	img, err := exp.Export(ctx, qrcode.ExportRequest{
//		Content: "https://example.com",
//		Options: opts,
//		Format:  qrcode.FormatPNG,
//		Size:    1024,
//	})
//	if err != nil {
//		// handle error
//	}
//	w.Header().Set("Content-Type", img.ContentType)
//	w.Write(img.Data)
//
// # Formats
//
// FormatSVG serializes the asset directly and never composites a logo; when a
// logo was requested the returned Image has LogoOmitted set. FormatPNG
// rasterizes at the requested size and composites the logo. FormatJPEG is the
// PNG pipeline flattened onto the background and encoded at quality 90.
//
// # Error Handling
//
//   - ErrInvalidOptions   – wraps validator.ValidationErrors for bad Options.
//   - ErrInvalidContent   – content is empty or longer than MaxContentLength.
//   - ErrUnknownFormat    – unsupported export format.
//   - *CapacityError      – content does not fit at the requested level
//     (errors.Is ErrCapacityExceeded).
//   - *LogoFetchError     – the logo could not be downloaded or decoded
//     (errors.Is ErrLogoFetch). No logo-less fallback is produced.
package qrcode
