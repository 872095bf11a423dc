package email

import (
	"fmt"
	"log/slog"
)

const (
	ProviderPostmark = "postmark"
	ProviderDev      = "dev"
)

// Config holds email service configuration.
// Postmark tokens are only needed when Provider is "postmark"; the dev
// provider writes messages to DevDir instead of sending them.
type Config struct {
	Provider             string `env:"EMAIL_PROVIDER" envDefault:"dev"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	TemplateAlias        string `env:"POSTMARK_TEMPLATE_ALIAS" envDefault:"postcard"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"postcards@example.com"`
	SupportEmail         string `env:"SUPPORT_EMAIL"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./data/emails"`
}

// NewFromConfig builds the Sender selected by cfg.Provider.
func NewFromConfig(cfg Config, log *slog.Logger) (Sender, error) {
	switch cfg.Provider {
	case ProviderPostmark:
		return NewPostmarkSender(cfg, WithLogger(log))
	case ProviderDev, "":
		return NewDevSender(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
