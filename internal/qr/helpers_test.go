package qr_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	gozxingqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permaqr/internal/qr"
	"github.com/dmitrymomot/permaqr/pkg/file"
)

const baseURL = "https://qr.example.com"

// redLogo answers every fetch with a solid red square.
type redLogo struct {
	calls atomic.Int32
}

func (f *redLogo) Fetch(context.Context, string) (image.Image, error) {
	f.calls.Add(1)
	im := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := range 64 {
		for x := range 64 {
			im.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	return im, nil
}

type env struct {
	svc     *qr.Service
	repo    *qr.MemoryRepository
	cache   *qr.MemoryCache
	storage *file.LocalStorage
	logos   *redLogo
	dir     string
}

func newEnv(t *testing.T, opts ...qr.ServiceOption) *env {
	t.Helper()
	return newEnvWithConfig(t, nil, opts...)
}

// newEnvWithConfig lets a test adjust the service config before it is built.
func newEnvWithConfig(t *testing.T, tune func(*qr.Config), opts ...qr.ServiceOption) *env {
	t.Helper()

	dir := t.TempDir()
	storage, err := file.NewLocalStorage(file.LocalConfig{Dir: dir, BaseURL: "http://logos.test/"})
	require.NoError(t, err)

	e := &env{
		repo:    qr.NewMemoryRepository(),
		cache:   qr.NewMemoryCache(64, 32<<20, time.Hour),
		storage: storage,
		logos:   &redLogo{},
		dir:     dir,
	}
	cfg := qr.Config{
		PublicBaseURL:        baseURL + "/",
		LogoFetchTimeout:     time.Second,
		MaxConcurrentFetches: 2,
		LogoCacheSize:        8,
		LogoCacheTTL:         time.Minute,
		SlugAttempts:         5,
	}
	if tune != nil {
		tune(&cfg)
	}
	opts = append([]qr.ServiceOption{
		qr.WithExportCache(e.cache),
		qr.WithLogoFetcher(e.logos),
	}, opts...)
	e.svc = qr.NewService(cfg, e.repo, storage, opts...)
	return e
}

func ptr[T any](v T) *T { return &v }

func decode(t *testing.T, data []byte) string {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	res, err := gozxingqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

func pngLogo(t *testing.T) []byte {
	t.Helper()
	im := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, im))
	return buf.Bytes()
}

// multipartBody builds a form with one "logo" file field.
func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("logo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body, ct := multipartBody(t, filename, content)
	req := &http.Request{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": []string{ct}},
		Body:   io.NopCloser(body),
	}
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["logo"][0]
}
