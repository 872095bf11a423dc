package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/postcard/pkg/logger"
	"github.com/dmitrymomot/postcard/pkg/validator"
)

// TemplateClient is the part of *postmark.Client the sender uses.
type TemplateClient interface {
	SendTemplatedEmail(ctx context.Context, email postmark.TemplatedEmail) (postmark.EmailResponse, error)
}

// PostmarkSender sends postcards through a Postmark template.
type PostmarkSender struct {
	client TemplateClient
	config Config
	log    *slog.Logger
}

type PostmarkOption func(*PostmarkSender)

// WithTemplateClient replaces the Postmark API client, mainly for tests.
func WithTemplateClient(c TemplateClient) PostmarkOption {
	return func(s *PostmarkSender) {
		s.client = c
	}
}

func WithLogger(log *slog.Logger) PostmarkOption {
	return func(s *PostmarkSender) {
		if log != nil {
			s.log = log
		}
	}
}

// NewPostmarkSender validates cfg and creates a Postmark-backed sender.
// The server token is required unless a client is injected.
func NewPostmarkSender(cfg Config, opts ...PostmarkOption) (*PostmarkSender, error) {
	s := &PostmarkSender{
		config: cfg,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		if cfg.PostmarkServerToken == "" {
			return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
		}
		s.client = postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	}
	if cfg.TemplateAlias == "" {
		return nil, fmt.Errorf("%w: TemplateAlias is required", ErrInvalidConfig)
	}
	if err := validator.Apply(validator.ValidEmail("SenderEmail", cfg.SenderEmail)); err != nil {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if cfg.SupportEmail != "" {
		if err := validator.Apply(validator.ValidEmail("SupportEmail", cfg.SupportEmail)); err != nil {
			return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
		}
	}

	return s, nil
}

// SendPostcard implements Sender. Replies go to the postcard's author when
// known, otherwise to the support address.
func (s *PostmarkSender) SendPostcard(ctx context.Context, p PostcardEmail) error {
	if err := p.Validate(); err != nil {
		return err
	}

	replyTo := s.config.SupportEmail
	if p.FromEmail != "" {
		replyTo = p.FromEmail
	}

	resp, err := s.client.SendTemplatedEmail(ctx, postmark.TemplatedEmail{
		TemplateAlias: s.config.TemplateAlias,
		TemplateModel: p.Fields(),
		From:          s.config.SenderEmail,
		To:            p.ToEmail,
		ReplyTo:       replyTo,
		Tag:           "postcard",
		TrackOpens:    true,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "postmark request failed",
			logger.Component("email"),
			logger.Error(err),
		)
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}

	s.log.InfoContext(ctx, "postcard email sent",
		logger.Component("email"),
		logger.MessageID(resp.MessageID),
	)
	return nil
}
