package qr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/permaqr/pkg/contrast"
	"github.com/dmitrymomot/permaqr/pkg/file"
	"github.com/dmitrymomot/permaqr/pkg/logger"
	"github.com/dmitrymomot/permaqr/pkg/qrcode"
	"github.com/dmitrymomot/permaqr/pkg/slug"
	"github.com/dmitrymomot/permaqr/pkg/token"
	"github.com/dmitrymomot/permaqr/pkg/validator"
)

// envelope is the body of every JSON response.
type envelope struct {
	Data  any          `json:"data,omitempty"`
	Meta  any          `json:"meta,omitempty"`
	Error *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// httpError is a client-facing error with a stable code.
type httpError struct {
	status  int
	code    string
	message string
}

func (e httpError) Error() string { return e.message }

var (
	errBadJSON      = httpError{http.StatusBadRequest, "bad_request", "request body must be valid JSON"}
	errBadSize      = httpError{http.StatusBadRequest, "invalid_size", "size must be an integer"}
	errMissingLogo  = httpError{http.StatusBadRequest, "missing_file", `multipart field "logo" is required`}
	errBodyTooLarge = httpError{http.StatusRequestEntityTooLarge, "request_entity_too_large", "request body is too large"}
	errRateLimited  = httpError{http.StatusTooManyRequests, "rate_limited", "too many requests, try again later"}
)

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

// writeError maps err to a status and a stable code. Anything unrecognized
// is logged in full and reported as a generic 500.
func writeError(ctx context.Context, w http.ResponseWriter, log *slog.Logger, err error) {
	status, detail, meta := classify(err)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(ctx, "request failed", logger.Component("http"), logger.Error(err))
	}
	writeJSON(w, status, envelope{Error: detail, Meta: meta})
}

func classify(err error) (int, *errorDetail, any) {
	var (
		he      httpError
		ce      *contrast.Error
		capErr  *qrcode.CapacityError
		maxErr  *http.MaxBytesError
		details = validator.ExtractValidationErrors(err)
	)

	switch {
	case errors.As(err, &he):
		return he.status, &errorDetail{Code: he.code, Message: he.message}, nil
	case errors.As(err, &maxErr), errors.Is(err, file.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, &errorDetail{Code: "file_too_large", Message: err.Error()}, nil
	case details != nil:
		return http.StatusUnprocessableEntity, &errorDetail{
			Code:    "validation_error",
			Message: "validation failed",
			Details: details.Map(),
		}, nil
	case errors.As(err, &ce):
		return http.StatusUnprocessableEntity,
			&errorDetail{Code: "insufficient_contrast", Message: ce.Error()},
			map[string]any{"ratio": ce.Ratio, "minimum": contrast.MinRatio}
	case errors.Is(err, contrast.ErrInvalidColor):
		return http.StatusUnprocessableEntity, &errorDetail{Code: "invalid_color", Message: err.Error()}, nil
	case errors.As(err, &capErr):
		return http.StatusUnprocessableEntity, &errorDetail{Code: "capacity_exceeded", Message: capErr.Error()}, nil
	case errors.Is(err, qrcode.ErrInvalidContent), errors.Is(err, qrcode.ErrInvalidOptions):
		return http.StatusUnprocessableEntity, &errorDetail{Code: "validation_error", Message: err.Error()}, nil
	case errors.Is(err, qrcode.ErrUnknownFormat):
		return http.StatusBadRequest, &errorDetail{Code: "unknown_format", Message: err.Error()}, nil
	case errors.Is(err, ErrLogoRequiresHighEC):
		return http.StatusUnprocessableEntity, &errorDetail{Code: "logo_requires_high_ec", Message: err.Error()}, nil
	case errors.Is(err, file.ErrMIMETypeNotAllowed):
		return http.StatusUnsupportedMediaType, &errorDetail{Code: "unsupported_media_type", Message: err.Error()}, nil
	case errors.Is(err, file.ErrEmptyFile), errors.Is(err, file.ErrNilFileHeader):
		return http.StatusBadRequest, &errorDetail{Code: "invalid_file", Message: err.Error()}, nil
	case errors.Is(err, token.ErrInvalidToken):
		return http.StatusUnauthorized, &errorDetail{Code: "invalid_token", Message: token.ErrInvalidToken.Error()}, nil
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, &errorDetail{Code: "not_found", Message: err.Error()}, nil
	case errors.Is(err, ErrNoLogo):
		return http.StatusNotFound, &errorDetail{Code: "logo_not_found", Message: err.Error()}, nil
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, &errorDetail{Code: "conflict", Message: "the qr code was changed by another request, reload and retry"}, nil
	case errors.Is(err, ErrPaused):
		return http.StatusGone, &errorDetail{Code: "paused", Message: err.Error()}, nil
	case errors.Is(err, qrcode.ErrLogoFetch):
		return http.StatusBadGateway, &errorDetail{Code: "logo_fetch_failed", Message: "the logo could not be fetched, try again later"}, nil
	case errors.Is(err, slug.ErrAllocationExhausted):
		return http.StatusServiceUnavailable, &errorDetail{Code: "slug_allocation_failed", Message: "could not allocate a short code, try again"}, nil
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, &errorDetail{Code: "timeout", Message: "the request took too long"}, nil
	}
	return http.StatusInternalServerError, &errorDetail{Code: "internal_error", Message: "internal server error"}, nil
}
