package media

import (
	"context"
	"fmt"
)

// Provider names accepted by Config.Provider.
const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
	ProviderLocal      = "local"
)

type Config struct {
	Provider   string `env:"MEDIA_PROVIDER" envDefault:"local"`
	Prefix     string `env:"MEDIA_PREFIX" envDefault:"postcards"`
	Cloudinary CloudinaryConfig
	S3         S3Config
	Local      LocalConfig
}

// NewFromConfig builds the uploader selected by cfg.Provider.
func NewFromConfig(ctx context.Context, cfg Config) (Uploader, error) {
	switch cfg.Provider {
	case ProviderCloudinary:
		return NewCloudinaryUploader(cfg.Cloudinary)
	case ProviderS3:
		return NewS3Uploader(ctx, cfg.S3)
	case ProviderLocal, "":
		return NewLocalUploader(cfg.Local)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
