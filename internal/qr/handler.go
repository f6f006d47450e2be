package qr

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/permaqr/pkg/clientip"
	"github.com/dmitrymomot/permaqr/pkg/contrast"
	"github.com/dmitrymomot/permaqr/pkg/logger"
	"github.com/dmitrymomot/permaqr/pkg/ratelimit"
	"github.com/dmitrymomot/permaqr/pkg/token"
)

const (
	maxJSONBody          = 64 << 10
	defaultMaxUpload     = 6 << 20
	multipartMemoryLimit = 8 << 20
)

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithMaxUploadBytes bounds the whole multipart request for logo uploads.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// WithRateLimit limits anonymous writes (create and logo upload) per client
// address. Requests must pass through clientip's middleware first.
func WithRateLimit(l ratelimit.Limiter) HandlerOption {
	return func(h *Handler) { h.limiter = l }
}

// Handler exposes Service over HTTP.
type Handler struct {
	svc       *Service
	log       *slog.Logger
	maxUpload int64
	limiter   ratelimit.Limiter
}

func NewHandler(svc *Service, opts ...HandlerOption) *Handler {
	h := &Handler{svc: svc, log: slog.Default(), maxUpload: defaultMaxUpload}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the API and the public scan route on r.
func (h *Handler) Routes(r chi.Router) {
	limited := h.rateLimited()
	r.Route("/api", func(r chi.Router) {
		r.Post("/contrast", h.checkContrast)
		r.Route("/qr", func(r chi.Router) {
			r.With(limited).Post("/", h.create)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", h.get)
				r.Patch("/", h.update)
				r.Delete("/", h.delete)
				r.Post("/pause", h.setPaused(true))
				r.Post("/resume", h.setPaused(false))
				r.Post("/rotate-token", h.rotateToken)
				r.With(limited).Put("/logo", h.attachLogo)
				r.Delete("/logo", h.removeLogo)
				r.Get("/export", h.export)
			})
		})
	})
	r.Get("/r/{slug}", h.resolve)
}

func (h *Handler) rateLimited() func(http.Handler) http.Handler {
	if h.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimit.Middleware(h.limiter, clientip.FromRequest,
		ratelimit.WithOnLimitReached(func(w http.ResponseWriter, r *http.Request, _ *ratelimit.Result) {
			writeError(r.Context(), w, h.log, errRateLimited)
		}),
		ratelimit.WithOnError(func(r *http.Request, err error) {
			h.log.WarnContext(r.Context(), "rate limit store failed", logger.Component("http"), logger.Error(err))
		}),
	)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	out, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Location", "/api/qr/"+out.Slug)
	writeData(w, http.StatusCreated, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Get(r.Context(), chi.URLParam(r, "slug"), editToken(r))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	v, err := h.svc.Update(r.Context(), chi.URLParam(r, "slug"), editToken(r), in)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) setPaused(paused bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := h.svc.SetPaused(r.Context(), chi.URLParam(r, "slug"), editToken(r), paused)
		if err != nil {
			writeError(r.Context(), w, h.log, err)
			return
		}
		writeData(w, http.StatusOK, v)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "slug"), editToken(r)); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rotateToken(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.RotateToken(r.Context(), chi.URLParam(r, "slug"), editToken(r))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeData(w, http.StatusOK, out)
}

func (h *Handler) attachLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(r.Context(), w, h.log, errBodyTooLarge)
			return
		}
		writeError(r.Context(), w, h.log, errMissingLogo)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["logo"]
	if len(files) == 0 {
		writeError(r.Context(), w, h.log, errMissingLogo)
		return
	}
	v, err := h.svc.AttachLogo(r.Context(), chi.URLParam(r, "slug"), editToken(r), files[0])
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) removeLogo(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.RemoveLogo(r.Context(), chi.URLParam(r, "slug"), editToken(r))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "png"
	}
	var size int
	if s := q.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(r.Context(), w, h.log, errBadSize)
			return
		}
		size = n
	}

	slugValue := chi.URLParam(r, "slug")
	img, err := h.svc.Export(r.Context(), slugValue, format, size)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Content-Disposition", `inline; filename="`+slugValue+img.Format.Extension()+`"`)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if img.LogoOmitted {
		w.Header().Set("X-Logo-Omitted", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}

type contrastRequest struct {
	Color      string `json:"color"`
	Background string `json:"background"`
}

func (h *Handler) checkContrast(w http.ResponseWriter, r *http.Request) {
	var in contrastRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	res, err := contrast.Check(in.Color, in.Background)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

var textPage = template.Must(template.New("text").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>QR code</title>
<style>body{font-family:system-ui,sans-serif;max-width:40rem;margin:3rem auto;padding:0 1rem;line-height:1.5}pre{white-space:pre-wrap;word-break:break-word;font:inherit}</style>
</head>
<body><pre>{{.}}</pre></body>
</html>
`))

// resolve redirects url codes and renders text codes. Redirects are 302 so
// scanners always see the current destination.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Resolve(r.Context(), chi.URLParam(r, "slug"))
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrPaused):
		http.Error(w, "This QR code has been paused by its owner.", http.StatusGone)
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "resolve failed", logger.Component("http"), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	if v.Kind == KindURL {
		http.Redirect(w, r, v.Content, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := textPage.Execute(w, v.Content); err != nil {
		h.log.ErrorContext(r.Context(), "render text page", logger.Component("http"), logger.Error(err))
	}
}

func editToken(r *http.Request) string {
	return token.FromHeader(r.Header.Get("X-Edit-Token"), r.Header.Get("Authorization"))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return errBadJSON
	}
	return nil
}

// LogRequests writes one structured line per request.
func LogRequests(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.Log(r.Context(), level, "http request",
				logger.Component("http"),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
