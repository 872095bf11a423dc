package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// CloudinaryConfig targets an unsigned upload preset.
type CloudinaryConfig struct {
	CloudName     string        `env:"CLOUDINARY_CLOUD_NAME"`
	UploadPreset  string        `env:"CLOUDINARY_UPLOAD_PRESET" envDefault:"postcard_uploads"`
	UploadPrefix  string        `env:"CLOUDINARY_UPLOAD_PREFIX" envDefault:"https://api.cloudinary.com"`
	UploadTimeout time.Duration `env:"CLOUDINARY_UPLOAD_TIMEOUT" envDefault:"30s"`
}

// CloudinaryUploader sends images to an unsigned upload preset and returns
// the secure_url of the stored asset.
type CloudinaryUploader struct {
	cld     *cloudinary.Cloudinary
	preset  string
	timeout time.Duration
}

func NewCloudinaryUploader(cfg CloudinaryConfig) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil, fmt.Errorf("%w: cloud name and upload preset are required", ErrInvalidConfig)
	}

	conf, err := config.NewFromParams(cfg.CloudName, "", "")
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if cfg.UploadPrefix != "" {
		conf.API.UploadPrefix = strings.TrimSuffix(cfg.UploadPrefix, "/")
	}

	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &CloudinaryUploader{
		cld:     cld,
		preset:  cfg.UploadPreset,
		timeout: cfg.UploadTimeout,
	}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, obj Object) (string, error) {
	if err := obj.validate(); err != nil {
		return "", err
	}

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	// Cloudinary appends the format to the public id itself.
	publicID := strings.TrimSuffix(strings.TrimPrefix(obj.Name, "/"), path.Ext(obj.Name))

	resp, err := u.cld.Upload.UnsignedUpload(ctx, bytes.NewReader(obj.Data), u.preset, uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return "", errors.Join(ErrUploadFailed, ErrOperationTimeout, err)
		case errors.Is(err, context.Canceled):
			return "", errors.Join(ErrUploadFailed, ErrOperationCanceled, err)
		}
		return "", errors.Join(ErrUploadFailed, err)
	}

	if resp == nil {
		return "", errors.Join(ErrUploadFailed, ErrUnexpectedResponse)
	}
	if resp.Error.Message != "" {
		return "", errors.Join(ErrUploadFailed, fmt.Errorf("%w: %s", ErrUnexpectedResponse, resp.Error.Message))
	}
	if resp.SecureURL == "" {
		return "", errors.Join(ErrUploadFailed, fmt.Errorf("%w: empty secure_url", ErrUnexpectedResponse))
	}

	return resp.SecureURL, nil
}
