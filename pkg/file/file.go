package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"slices"
	"strings"
)

// MaxLogoBytes is the upload limit for logos.
const MaxLogoBytes int64 = 5 << 20

// LogoMIMETypes lists the accepted logo formats.
var LogoMIMETypes = []string{"image/jpeg", "image/png", "image/webp"}

// Object describes a stored file.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	URL         string
}

// Storage persists files under slash-separated keys and exposes them at a
// public URL.
type Storage interface {
	Save(ctx context.Context, key, contentType string, data []byte) (*Object, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Upload is a validated logo ready to store.
type Upload struct {
	Data        []byte
	ContentType string
}

// Extension maps the detected content type to a file extension.
func (u Upload) Extension() string {
	return Extension(u.ContentType)
}

// ValidateLogo reads fh and checks it against MaxLogoBytes and
// LogoMIMETypes. The type is sniffed from the content; the client-declared
// Content-Type and file name are ignored.
func ValidateLogo(fh *multipart.FileHeader) (*Upload, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	if fh.Size > MaxLogoBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrFileTooLarge, fh.Size, MaxLogoBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	defer func() { _ = src.Close() }()

	return ValidateLogoReader(src)
}

// ValidateLogoReader applies the ValidateLogo rules to raw content.
func ValidateLogoReader(r io.Reader) (*Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > MaxLogoBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, MaxLogoBytes)
	}

	ct := http.DetectContentType(data[:min(len(data), 512)])
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !slices.Contains(LogoMIMETypes, ct) {
		return nil, fmt.Errorf("%w: %s (allowed: %s)", ErrMIMETypeNotAllowed, ct, strings.Join(LogoMIMETypes, ", "))
	}
	return &Upload{Data: data, ContentType: ct}, nil
}

// Extension returns the conventional extension for an image content type,
// or "" when unknown.
func Extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ""
}

// cleanKey normalizes key to a relative slash path and rejects traversal.
func cleanKey(key string) (string, error) {
	k := strings.TrimPrefix(strings.ReplaceAll(key, "\\", "/"), "/")
	if k == "" || slices.Contains(strings.Split(k, "/"), "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	k = path.Clean(k)
	if k == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}
