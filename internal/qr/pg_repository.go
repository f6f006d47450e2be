package qr

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/permaqr/pkg/pg"
	"github.com/dmitrymomot/permaqr/pkg/slug"
)

const (
	slugConstraint = "qr_codes_slug_key"
	idConstraint   = "qr_codes_pkey"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRepository stores records in the qr_codes table.
type PGRepository struct {
	db DBTX
}

func NewPGRepository(db DBTX) *PGRepository {
	return &PGRepository{db: db}
}

const insertSQL = `
INSERT INTO qr_codes (id, slug, kind, content, options, logo_url, logo_key, edit_token_hash, paused, created_at, updated_at, version)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (r *PGRepository) Insert(ctx context.Context, rec *Record) error {
	opts, err := json.Marshal(rec.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	_, err = r.db.Exec(ctx, insertSQL,
		rec.ID, rec.Slug, string(rec.Kind), rec.Content, opts,
		rec.LogoURL, rec.LogoKey, rec.EditTokenHash, rec.Paused,
		rec.CreatedAt, rec.UpdatedAt, rec.Version,
	)
	if pg.IsDuplicateKeyError(err, slugConstraint) {
		return fmt.Errorf("%w: %s", slug.ErrTaken, rec.Slug)
	}
	if pg.IsDuplicateKeyError(err, idConstraint) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}
	if err != nil {
		return fmt.Errorf("insert qr code: %w", err)
	}
	return nil
}

const selectBySlugSQL = `
SELECT id, slug, kind, content, options, logo_url, logo_key, edit_token_hash, paused, created_at, updated_at, version
FROM qr_codes WHERE slug = $1`

func (r *PGRepository) GetBySlug(ctx context.Context, s string) (*Record, error) {
	var (
		rec  Record
		kind string
		opts []byte
	)
	err := r.db.QueryRow(ctx, selectBySlugSQL, s).Scan(
		&rec.ID, &rec.Slug, &kind, &rec.Content, &opts,
		&rec.LogoURL, &rec.LogoKey, &rec.EditTokenHash, &rec.Paused,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.Version,
	)
	if pg.IsNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select qr code: %w", err)
	}
	rec.Kind = Kind(kind)
	if err := json.Unmarshal(opts, &rec.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return &rec, nil
}

const updateSQL = `
UPDATE qr_codes
SET kind = $2, content = $3, options = $4, logo_url = $5, logo_key = $6,
    edit_token_hash = $7, paused = $8, updated_at = $9, version = version + 1
WHERE id = $1 AND version = $10
RETURNING version`

func (r *PGRepository) Update(ctx context.Context, rec *Record) error {
	opts, err := json.Marshal(rec.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	var version int64
	err = r.db.QueryRow(ctx, updateSQL,
		rec.ID, string(rec.Kind), rec.Content, opts, rec.LogoURL, rec.LogoKey,
		rec.EditTokenHash, rec.Paused, rec.UpdatedAt, rec.Version,
	).Scan(&version)
	if pg.IsNotFoundError(err) {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM qr_codes WHERE id = $1)`, rec.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check qr code: %w", err)
		}
		if exists {
			return ErrConflict
		}
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update qr code: %w", err)
	}
	rec.Version = version
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM qr_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete qr code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var (
	_ Repository = (*PGRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
