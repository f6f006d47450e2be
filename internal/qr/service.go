package qr

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/permaqr/pkg/contrast"
	"github.com/dmitrymomot/permaqr/pkg/file"
	"github.com/dmitrymomot/permaqr/pkg/logger"
	"github.com/dmitrymomot/permaqr/pkg/qrcode"
	"github.com/dmitrymomot/permaqr/pkg/sanitizer"
	"github.com/dmitrymomot/permaqr/pkg/slug"
	"github.com/dmitrymomot/permaqr/pkg/token"
	"github.com/dmitrymomot/permaqr/pkg/validator"
)

// scanPath is the public route scanners land on.
const scanPath = "/r/"

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithExportCache(c ExportCache) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogoFetcher replaces the HTTP logo fetcher. The concurrency bound,
// Config.LogoFetchTimeout and the decoded-logo cache still apply.
func WithLogoFetcher(f qrcode.LogoFetcher) ServiceOption {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

func WithSlugGenerator(g *slug.Generator) ServiceOption {
	return func(s *Service) {
		if g != nil {
			s.slugs = g
		}
	}
}

func WithTokenManager(m *token.Manager) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.tokens = m
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now. Timestamps are truncated to microseconds to
// match what Postgres stores.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service implements QR code management on top of a Repository, a logo
// Storage and the rendering pipeline. It is safe for concurrent use.
type Service struct {
	cfg      Config
	repo     Repository
	storage  file.Storage
	cache    ExportCache
	fetcher  qrcode.LogoFetcher
	logos    *qrcode.CachingFetcher
	exporter *qrcode.Exporter
	slugs    *slug.Generator
	tokens   *token.Manager
	log      *slog.Logger
	now      func() time.Time
}

func NewService(cfg Config, repo Repository, storage file.Storage, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:     cfg,
		repo:    repo,
		storage: storage,
		cache:   NopCache{},
		tokens:  token.NewManager(),
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.slugs == nil {
		s.slugs = slug.NewGenerator(
			slug.WithMaxAttempts(cfg.SlugAttempts),
			slug.WithRetryHook(func(attempt int) {
				slugRetriesTotal.Inc()
				s.log.Warn("slug collision", logger.Component("qr"), logger.Attempt(attempt))
			}),
		)
	}
	if s.fetcher == nil {
		s.fetcher = qrcode.NewHTTPFetcher(qrcode.WithFetchTimeout(cfg.LogoFetchTimeout))
	}
	s.logos = qrcode.NewCachingFetcher(
		newBoundedFetcher(s.fetcher, cfg.MaxConcurrentFetches, cfg.LogoFetchTimeout),
		cfg.LogoCacheSize, cfg.LogoCacheTTL,
	)
	s.exporter = qrcode.NewExporter(qrcode.WithLogoFetcher(s.logos))
	return s
}

// Create validates the input, issues a slug and an edit token and stores
// the record. The raw token is only ever returned here and by RotateToken.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Created, error) {
	kind := in.Kind
	if kind == "" {
		kind = KindURL
	}
	content := normalizeContent(kind, in.Content)
	opts := in.Options.Apply(qrcode.DefaultOptions())

	if err := validateContent(kind, content); err != nil {
		return nil, err
	}
	if err := validateOptions(opts, false); err != nil {
		return nil, err
	}
	if _, err := qrcode.Encode(s.payload(kind, content, strings.Repeat("0", slug.Length)), opts.ErrorCorrection); err != nil {
		return nil, err
	}

	raw, err := s.tokens.GenerateEditToken()
	if err != nil {
		return nil, err
	}
	hash, err := s.tokens.Hash(raw)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	rec := &Record{
		ID:            uuid.New(),
		Kind:          kind,
		Content:       content,
		Options:       opts,
		EditTokenHash: hash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.slugs.Allocate(ctx, func(ctx context.Context, candidate string) error {
		rec.Slug = candidate
		return s.repo.Insert(ctx, rec)
	}); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "qr code created",
		logger.Component("qr"), logger.Slug(rec.Slug), logger.CodeID(rec.ID),
		slog.String("kind", string(kind)),
	)
	return &Created{View: s.view(rec), EditToken: raw}, nil
}

// Get returns the record behind slug after verifying the edit token.
func (s *Service) Get(ctx context.Context, slugValue, editToken string) (*View, error) {
	rec, err := s.authorize(ctx, slugValue, editToken)
	if err != nil {
		return nil, err
	}
	v := s.view(rec)
	return &v, nil
}

// Update applies a partial update. Colors are re-checked for contrast and
// the logo rule is enforced against the resulting options.
func (s *Service) Update(ctx context.Context, slugValue, editToken string, in UpdateInput) (*View, error) {
	rec, err := s.authorize(ctx, slugValue, editToken)
	if err != nil {
		return nil, err
	}
	if in.empty() {
		v := s.view(rec)
		return &v, nil
	}

	kind, content := rec.Kind, rec.Content
	if in.Kind != nil {
		kind = *in.Kind
	}
	if in.Content != nil {
		content = normalizeContent(kind, *in.Content)
	}
	opts := in.Options.Apply(rec.Options)

	if err := validateContent(kind, content); err != nil {
		return nil, err
	}
	if err := validateOptions(opts, rec.HasLogo()); err != nil {
		return nil, err
	}
	if _, err := qrcode.Encode(s.payload(kind, content, rec.Slug), opts.ErrorCorrection); err != nil {
		return nil, err
	}

	rec.Kind, rec.Content, rec.Options = kind, content, opts
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}
	v := s.view(rec)
	return &v, nil
}

// SetPaused toggles whether scans resolve.
func (s *Service) SetPaused(ctx context.Context, slugValue, editToken string, paused bool) (*View, error) {
	rec, err := s.authorize(ctx, slugValue, editToken)
	if err != nil {
		return nil, err
	}
	if rec.Paused != paused {
		rec.Paused = paused
		if err := s.save(ctx, rec); err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "qr code pause state changed",
			logger.Component("qr"), logger.Slug(rec.Slug), slog.Bool("paused", paused))
	}
	v := s.view(rec)
	return &v, nil
}

// Delete removes the record, its stored logo and its cached exports.
func (s *Service) Delete(ctx context.Context, slugValue, editToken string) error {
	rec, err := s.authorize(ctx, slugValue, editToken)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, rec.ID); err != nil {
		return err
	}
	if rec.LogoKey != "" {
		s.deleteLogo(ctx, rec.LogoKey, rec.LogoURL)
	}
	s.invalidate(ctx, rec)
	s.log.InfoContext(ctx, "qr code deleted", logger.Component("qr"), logger.Slug(rec.Slug), logger.CodeID(rec.ID))
	return nil
}

// RotateToken replaces the stored hash; the previous token stops working
// immediately.
func (s *Service) RotateToken(ctx context.Context, slugValue, editToken string) (*Rotated, error) {
	rec, err := s.authorize(ctx, slugValue, editToken)
	if err != nil {
		return nil, err
	}
	raw, err := s.tokens.GenerateEditToken()
	if err != nil {
		return nil, err
	}
	hash, err := s.tokens.Hash(raw)
	if err != nil {
		return nil, err
	}
	rec.EditTokenHash = hash
	// The image does not change, so UpdatedAt (and with it the cache key) stays.
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "edit token rotated", logger.Component("qr"), logger.Slug(rec.Slug))
	return &Rotated{Slug: rec.Slug, EditToken: raw}, nil
}

// AttachLogo validates and stores an uploaded logo, replacing any previous
// one. The record must already use error correction level H.
func (s *Service) AttachLogo(ctx context.Context, slugValue, editToken string, fh *multipart.FileHeader) (*View, error) {
	rec, err := s.authorize(ctx, slugValue, editToken)
	if err != nil {
		return nil, err
	}
	if rec.Options.ErrorCorrection != qrcode.LevelH {
		return nil, ErrLogoRequiresHighEC
	}
	up, err := file.ValidateLogo(fh)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("codes/%s/logo-%s%s", rec.ID, uuid.NewString(), up.Extension())
	obj, err := s.storage.Save(ctx, key, up.ContentType, up.Data)
	if err != nil {
		return nil, fmt.Errorf("store logo: %w", err)
	}

	oldKey, oldURL := rec.LogoKey, rec.LogoURL
	rec.LogoKey, rec.LogoURL = obj.Key, obj.URL
	if err := s.save(ctx, rec); err != nil {
		s.deleteLogo(context.WithoutCancel(ctx), obj.Key, obj.URL)
		return nil, err
	}
	if oldKey != "" {
		s.deleteLogo(ctx, oldKey, oldURL)
	}

	s.log.InfoContext(ctx, "logo attached",
		logger.Component("qr"), logger.Slug(rec.Slug),
		slog.String("content_type", up.ContentType), slog.Int("bytes", len(up.Data)))
	v := s.view(rec)
	return &v, nil
}

// RemoveLogo detaches and deletes the stored logo.
func (s *Service) RemoveLogo(ctx context.Context, slugValue, editToken string) (*View, error) {
	rec, err := s.authorize(ctx, slugValue, editToken)
	if err != nil {
		return nil, err
	}
	if !rec.HasLogo() {
		return nil, ErrNoLogo
	}
	oldKey, oldURL := rec.LogoKey, rec.LogoURL
	rec.LogoKey, rec.LogoURL = "", ""
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}
	if oldKey != "" {
		s.deleteLogo(ctx, oldKey, oldURL)
	}
	v := s.view(rec)
	return &v, nil
}

// Export renders the code behind slug. size 0 means the stored Options.Size.
// Results are cached per record version, format and size.
func (s *Service) Export(ctx context.Context, slugValue, formatName string, size int) (*qrcode.Image, error) {
	format, err := qrcode.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	rec, err := s.lookup(ctx, slugValue)
	if err != nil {
		return nil, err
	}

	opts := rec.Options
	if size != 0 {
		opts.Size = size
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	key := exportKey(rec, format.Name(), opts.Size)
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.WarnContext(ctx, "export cache read failed", logger.Component("qr"), logger.Error(err))
	} else if ok {
		exportsTotal.WithLabelValues(format.Name(), "cached").Inc()
		return &qrcode.Image{
			Data:        data,
			ContentType: format.ContentType(),
			Format:      format,
			Width:       opts.Size,
			Height:      opts.Size,
			LogoOmitted: format == qrcode.FormatSVG && rec.HasLogo(),
		}, nil
	}

	start := time.Now()
	img, err := s.exporter.Export(ctx, qrcode.ExportRequest{
		Content: s.payload(rec.Kind, rec.Content, rec.Slug),
		Options: opts,
		Format:  format,
		LogoURL: rec.LogoURL,
	})
	if err != nil {
		exportsTotal.WithLabelValues(format.Name(), "error").Inc()
		return nil, err
	}
	elapsed := time.Since(start)
	exportDuration.WithLabelValues(format.Name()).Observe(elapsed.Seconds())
	exportsTotal.WithLabelValues(format.Name(), "rendered").Inc()
	s.log.DebugContext(ctx, "qr code exported",
		logger.Component("qr"), logger.Slug(rec.Slug), logger.ExportFormat(format.Name()),
		slog.Int("size", opts.Size), logger.Duration(elapsed))

	if err := s.cache.Set(ctx, key, img.Data); err != nil {
		s.log.WarnContext(ctx, "export cache write failed", logger.Component("qr"), logger.Error(err))
	}
	return img, nil
}

// Resolve is the public scan lookup. Paused codes return ErrPaused.
func (s *Service) Resolve(ctx context.Context, slugValue string) (*View, error) {
	rec, err := s.lookup(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if rec.Paused {
		return nil, ErrPaused
	}
	v := s.view(rec)
	return &v, nil
}

// ScanURL is the address encoded into url-kind codes.
func (s *Service) ScanURL(slugValue string) string {
	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + scanPath + slugValue
}

// payload is what the symbol encodes: the permanent scan URL for url codes,
// so the destination stays editable, and the text itself for text codes.
func (s *Service) payload(kind Kind, content, slugValue string) string {
	if kind == KindText {
		return content
	}
	return s.ScanURL(slugValue)
}

func (s *Service) lookup(ctx context.Context, slugValue string) (*Record, error) {
	if !slug.Valid(slugValue) {
		return nil, ErrNotFound
	}
	return s.repo.GetBySlug(ctx, slugValue)
}

// authorize loads the record and checks the presented token. Every failure
// mode of the token itself collapses into token.ErrInvalidToken.
func (s *Service) authorize(ctx context.Context, slugValue, editToken string) (*Record, error) {
	if editToken == "" {
		tokenFailuresTotal.Inc()
		return nil, token.ErrInvalidToken
	}
	rec, err := s.lookup(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if !s.tokens.Verify(editToken, rec.EditTokenHash) {
		tokenFailuresTotal.Inc()
		s.log.WarnContext(ctx, "edit token rejected", logger.Component("qr"), logger.Slug(slugValue))
		return nil, token.ErrInvalidToken
	}
	return rec, nil
}

// save bumps UpdatedAt, persists rec and drops exports of older versions.
func (s *Service) save(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = s.timestamp()
	if err := s.repo.Update(ctx, rec); err != nil {
		return err
	}
	s.invalidate(ctx, rec)
	return nil
}

func (s *Service) invalidate(ctx context.Context, rec *Record) {
	if err := s.cache.InvalidateRecord(ctx, rec.ID); err != nil {
		s.log.WarnContext(ctx, "export cache invalidation failed",
			logger.Component("qr"), logger.CodeID(rec.ID), logger.Error(err))
	}
}

func (s *Service) deleteLogo(ctx context.Context, key, url string) {
	s.logos.Forget(url)
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.ErrorContext(ctx, "failed to delete stored logo",
			logger.Component("qr"), slog.String("key", key), logger.Error(err))
	}
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Service) view(rec *Record) View {
	return View{
		ID:        rec.ID,
		Slug:      rec.Slug,
		Kind:      rec.Kind,
		Content:   rec.Content,
		Options:   rec.Options,
		LogoURL:   rec.LogoURL,
		Paused:    rec.Paused,
		ScanURL:   s.ScanURL(rec.Slug),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// normalizeContent trims URLs and puts text into NFC so visually identical
// input encodes identically.
func normalizeContent(kind Kind, content string) string {
	if kind == KindURL {
		return sanitizer.URL(content)
	}
	return sanitizer.Text(content)
}

func validateContent(kind Kind, content string) error {
	rules := []validator.Rule{
		validator.InList("kind", kind, Kinds),
		validator.LenRange("content", content, 1, qrcode.MaxContentLength),
	}
	if kind == KindURL {
		rules = append(rules, validator.ValidURLWithScheme("content", content, []string{"http", "https"}))
	}
	return validator.Apply(rules...)
}

// validateOptions runs field validation, the contrast check for every dark
// color against the background, and the logo rule.
func validateOptions(opts qrcode.Options, hasLogo bool) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.Gradient != nil {
		if err := contrast.Validate(opts.Gradient.From, opts.Background); err != nil {
			return err
		}
		if err := contrast.Validate(opts.Gradient.To, opts.Background); err != nil {
			return err
		}
	} else if err := contrast.Validate(opts.Color, opts.Background); err != nil {
		return err
	}
	if hasLogo && opts.ErrorCorrection != qrcode.LevelH {
		return ErrLogoRequiresHighEC
	}
	return nil
}
