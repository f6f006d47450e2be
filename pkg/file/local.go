package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type LocalConfig struct {
	Dir     string `env:"STORAGE_LOCAL_DIR" envDefault:"./data/logos"`
	BaseURL string `env:"STORAGE_LOCAL_BASE_URL" envDefault:"/logos/"`
}

// LocalStorage keeps files under a base directory. Keys never escape it.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates cfg.Dir if needed.
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: empty directory", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}
	base := cfg.BaseURL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &LocalStorage{baseDir: abs, baseURL: base}, nil
}

// Save writes data to a temporary file and renames it into place, so readers
// never observe a partial logo.
func (s *LocalStorage) Save(ctx context.Context, key, contentType string, data []byte) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, dst, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	return &Object{Key: k, ContentType: contentType, Size: int64(len(data)), URL: s.URL(k)}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	k, err := cleanKey(key)
	if err != nil {
		return ""
	}
	return s.baseURL + k
}

// Handler serves stored files. Mount it at the path component of BaseURL.
func (s *LocalStorage) Handler() http.Handler {
	return http.StripPrefix(s.Path(), http.FileServer(http.Dir(s.baseDir)))
}

// Path is the URL path component of the base URL, always ending in "/".
func (s *LocalStorage) Path() string {
	prefix := s.baseURL
	if i := strings.Index(prefix, "://"); i >= 0 {
		if j := strings.IndexByte(prefix[i+3:], '/'); j >= 0 {
			prefix = prefix[i+3+j:]
		} else {
			prefix = "/"
		}
	}
	return prefix
}

func (s *LocalStorage) resolve(key string) (string, string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", "", err
	}
	p := filepath.Join(s.baseDir, filepath.FromSlash(k))
	if !strings.HasPrefix(p, s.baseDir+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, p, nil
}
