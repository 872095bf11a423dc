package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes objects under a directory and returns URLs under
// baseURL. Meant for development, with the directory served by the app.
type LocalUploader struct {
	baseDir string
	baseURL string
}

type LocalConfig struct {
	Dir     string `env:"MEDIA_LOCAL_DIR" envDefault:"./data/media"`
	BaseURL string `env:"MEDIA_LOCAL_BASE_URL" envDefault:"http://localhost:8080/media/"`
}

func NewLocalUploader(cfg LocalConfig) (*LocalUploader, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: local media dir is required", ErrInvalidConfig)
	}

	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	baseURL := cfg.BaseURL
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalUploader{baseDir: abs, baseURL: baseURL}, nil
}

// Dir is the absolute directory objects are written to.
func (u *LocalUploader) Dir() string { return u.baseDir }

func (u *LocalUploader) Upload(ctx context.Context, obj Object) (string, error) {
	if err := obj.validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(obj.Name, "/")))
	full := filepath.Join(u.baseDir, name)
	if !strings.HasPrefix(full, u.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, obj.Name)
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.WriteFile(full, obj.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return u.baseURL + filepath.ToSlash(name), nil
}
