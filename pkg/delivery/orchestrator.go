package delivery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postcard/pkg/email"
	"github.com/dmitrymomot/postcard/pkg/logger"
	"github.com/dmitrymomot/postcard/pkg/media"
	"github.com/dmitrymomot/postcard/pkg/postcard"
	"github.com/dmitrymomot/postcard/pkg/rategate"
	"github.com/dmitrymomot/postcard/pkg/validator"
)

const (
	RendererCompositor = "compositor"
	RendererMarkup     = "markup"
)

// RateGate is the part of *rategate.Gate the orchestrator uses.
type RateGate interface {
	Check(ctx context.Context, email string) (rategate.Decision, error)
	Record(ctx context.Context, email string)
}

// Orchestrator runs validate, rate check, render, upload and email for one
// request at a time per call. It holds no per-attempt state and is safe for
// concurrent use.
type Orchestrator struct {
	gate       RateGate
	compositor postcard.Renderer
	markup     postcard.Renderer
	uploader   media.Uploader
	sender     email.Sender

	fonts      *postcard.Fonts
	renderOpts postcard.RenderOptions
	prefix     string
	now        func() time.Time
	newID      func() string
	observers  []Observer
	log        *slog.Logger
}

type Option func(*Orchestrator)

// WithMarkupRenderer enables the high-fidelity path for mobile and
// high-fidelity requests.
func WithMarkupRenderer(r postcard.Renderer) Option {
	return func(o *Orchestrator) {
		o.markup = r
	}
}

func WithFonts(f *postcard.Fonts) Option {
	return func(o *Orchestrator) {
		if f != nil {
			o.fonts = f
		}
	}
}

// WithRenderOptions overrides postcard.EmailOptions for the emailed image.
func WithRenderOptions(opts postcard.RenderOptions) Option {
	return func(o *Orchestrator) {
		o.renderOpts = opts.Normalize()
	}
}

// WithObjectPrefix sets the key prefix of uploaded images.
func WithObjectPrefix(prefix string) Option {
	return func(o *Orchestrator) {
		o.prefix = prefix
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// New wires an orchestrator. The compositor is the default renderer and is
// required, as are the other collaborators.
func New(gate RateGate, compositor postcard.Renderer, uploader media.Uploader, sender email.Sender, opts ...Option) (*Orchestrator, error) {
	if gate == nil || compositor == nil || uploader == nil || sender == nil {
		return nil, ErrNotConfigured
	}

	o := &Orchestrator{
		gate:       gate,
		compositor: compositor,
		uploader:   uploader,
		sender:     sender,
		fonts:      postcard.DefaultFonts(),
		renderOpts: postcard.EmailOptions(),
		prefix:     "postcards",
		now:        time.Now,
		newID:      uuid.NewString,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Send runs one attempt to a terminal stage. The returned attempt is never
// nil; on failure the error is the attempt's *Error. Usage is recorded only
// after the email has been accepted.
func (o *Orchestrator) Send(ctx context.Context, req Request) (*Attempt, error) {
	a := newAttempt(o.newID(), o.now())
	log := o.log.With(logger.Component("delivery"), logger.AttemptID(a.ID))

	steps := []struct {
		stage Stage
		run   func(context.Context, *Attempt, Request) error
	}{
		{StageValidating, o.validate},
		{StageRateChecking, o.checkRate},
		{StageRendering, o.render},
		{StageUploading, o.upload},
		{StageEmailing, o.email},
	}

	for _, step := range steps {
		if err := o.advance(a, step.stage); err != nil {
			return a, o.fail(ctx, log, a, err)
		}
		if err := step.run(ctx, a, req); err != nil {
			return a, o.fail(ctx, log, a, err)
		}
	}

	if err := o.advance(a, StageSent); err != nil {
		return a, o.fail(ctx, log, a, err)
	}
	o.finish(a)

	o.gate.Record(context.WithoutCancel(ctx), req.SenderEmail)

	log.InfoContext(ctx, "postcard delivered",
		logger.Sender(rategate.NormalizeEmail(req.SenderEmail)),
		logger.Renderer(a.Renderer()),
		logger.Duration(a.Duration()),
	)
	return a, nil
}

func (o *Orchestrator) advance(a *Attempt, to Stage) error {
	t, err := a.lc.fire(to, o.now())
	if err != nil {
		return err
	}
	for _, fn := range o.observers {
		fn(a, t)
	}
	return nil
}

// fail moves the attempt to StageFailed and records the cause against the
// stage that was running.
func (o *Orchestrator) fail(ctx context.Context, log *slog.Logger, a *Attempt, cause error) *Error {
	derr := &Error{Stage: a.Stage(), Err: cause}

	a.mu.Lock()
	a.failure = derr
	a.mu.Unlock()

	if err := o.advance(a, StageFailed); err != nil {
		derr.Err = errors.Join(cause, err)
	}
	o.finish(a)

	level := slog.LevelError
	if errors.Is(cause, ErrValidation) || errors.Is(cause, ErrRateLimited) {
		level = slog.LevelInfo
	}
	log.Log(ctx, level, "postcard delivery failed",
		logger.Stage(derr.Stage),
		logger.Error(cause),
		logger.Duration(a.Duration()),
	)
	return derr
}

func (o *Orchestrator) finish(a *Attempt) {
	a.mu.Lock()
	a.finishedAt = o.now()
	a.mu.Unlock()
}

func (o *Orchestrator) validate(_ context.Context, _ *Attempt, req Request) error {
	if err := req.Spec.Validate(); err != nil {
		return errors.Join(ErrValidation, err)
	}

	err := validator.Apply(
		validator.ValidEmail("senderEmail", req.SenderEmail),
		validator.ValidEmail("recipientEmail", req.RecipientEmail),
	)
	if err != nil {
		return errors.Join(ErrValidation, err)
	}

	if err := req.Spec.CheckLines(o.fonts); err != nil {
		return errors.Join(ErrValidation, err)
	}
	return nil
}

func (o *Orchestrator) checkRate(ctx context.Context, a *Attempt, req Request) error {
	d, err := o.gate.Check(ctx, req.SenderEmail)

	a.mu.Lock()
	a.decision = d
	a.mu.Unlock()

	if err != nil {
		return err
	}
	if !d.Allowed {
		return ErrRateLimited
	}
	return nil
}

func (o *Orchestrator) render(ctx context.Context, a *Attempt, req Request) error {
	r, name := o.compositor, RendererCompositor
	if o.markup != nil && (req.Mobile || req.HighFidelity) {
		r, name = o.markup, RendererMarkup
	}

	out, err := r.Render(ctx, req.Spec, o.renderOpts)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.renderer = name
	a.rendered = out
	a.mu.Unlock()
	return nil
}

func (o *Orchestrator) upload(ctx context.Context, a *Attempt, _ Request) error {
	img := a.Rendered()

	url, err := o.uploader.Upload(ctx, media.Object{
		Name:        media.ObjectName(o.prefix, o.now(), img.Format.Extension()),
		Data:        img.Data,
		ContentType: img.ContentType(),
	})
	if err != nil {
		return errors.Join(ErrUploadFailed, err)
	}

	a.mu.Lock()
	a.imageURL = url
	a.mu.Unlock()
	return nil
}

func (o *Orchestrator) email(ctx context.Context, a *Attempt, req Request) error {
	err := o.sender.SendPostcard(ctx, email.PostcardEmail{
		ToEmail:    req.RecipientEmail,
		ToName:     req.Spec.RecipientName,
		FromEmail:  req.SenderEmail,
		FromHandle: req.Spec.SenderHandle,
		Message:    req.Spec.Message,
		ImageURL:   a.ImageURL(),
		Subject:    req.Subject,
	})
	if err != nil {
		return errors.Join(ErrEmailFailed, err)
	}
	return nil
}
