package qr

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/permaqr/pkg/qrcode"
)

// Kind selects what a scan does.
type Kind string

const (
	// KindURL redirects scanners to Content.
	KindURL Kind = "url"
	// KindText shows Content on a plain page.
	KindText Kind = "text"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindURL, KindText}

// Record is a stored QR code.
type Record struct {
	ID            uuid.UUID
	Slug          string
	Kind          Kind
	Content       string
	Options       qrcode.Options
	LogoURL       string
	LogoKey       string
	EditTokenHash string
	Paused        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	// Version is bumped by every Repository.Update and guards against
	// lost updates.
	Version int64
}

// HasLogo reports whether a logo is attached.
func (r *Record) HasLogo() bool { return r.LogoURL != "" }

// View is the public representation of a Record. The token hash never
// leaves the service.
type View struct {
	ID        uuid.UUID      `json:"id"`
	Slug      string         `json:"slug"`
	Kind      Kind           `json:"kind"`
	Content   string         `json:"content"`
	Options   qrcode.Options `json:"options"`
	LogoURL   string         `json:"logoUrl,omitempty"`
	Paused    bool           `json:"paused"`
	ScanURL   string         `json:"scanUrl"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Created is returned once by Service.Create. EditToken is the only copy of
// the raw token.
type Created struct {
	View
	EditToken string `json:"editToken"`
}

// Rotated carries a freshly issued token.
type Rotated struct {
	Slug      string `json:"slug"`
	EditToken string `json:"editToken"`
}
