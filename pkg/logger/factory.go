package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format is the record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Deployment environments recognised by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type config struct {
	level          slog.Level
	format         Format
	output         io.Writer
	attrs          []slog.Attr
	handlerOptions *slog.HandlerOptions
	extractors     []ContextExtractor
}

// Option configures New.
type Option func(*config)

// New returns a logger writing JSON at info level to stdout unless options
// say otherwise. Context extractors run on every record.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	hopts := cfg.handlerOptions
	if hopts == nil {
		hopts = &slog.HandlerOptions{Level: cfg.level}
	}

	var h slog.Handler = slog.NewJSONHandler(cfg.output, hopts)
	if cfg.format == FormatText {
		h = slog.NewTextHandler(cfg.output, hopts)
	}
	if len(cfg.attrs) > 0 {
		h = h.WithAttrs(cfg.attrs)
	}

	return slog.New(NewLogHandlerDecorator(h, cfg.extractors...))
}

// SetAsDefault installs l as the slog default logger.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat panics on anything but FormatJSON or FormatText.
func WithFormat(f Format) Option {
	if f != FormatJSON && f != FormatText {
		panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
	}
	return func(c *config) { c.format = f }
}

func WithTextFormatter() Option { return WithFormat(FormatText) }

func WithJSONFormatter() Option { return WithFormat(FormatJSON) }

// WithOutput ignores a nil writer.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithHandlerOptions replaces the handler options, level included.
func WithHandlerOptions(opts *slog.HandlerOptions) Option {
	return func(c *config) {
		if opts != nil {
			c.handlerOptions = opts
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithContextExtractors registers extractors; nil entries are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name whenever it is set.
func WithContextValue(name string, key any) Option {
	return func(c *config) {
		if name == "" || key == nil {
			return
		}
		c.extractors = append(c.extractors, func(ctx context.Context) (slog.Attr, bool) {
			v := ctx.Value(key)
			if v == nil {
				return slog.Attr{}, false
			}
			return slog.Any(name, v), true
		})
	}
}

type preset struct {
	env    string
	level  slog.Level
	format Format
}

var (
	development = preset{env: EnvDevelopment, level: slog.LevelDebug, format: FormatText}
	staging     = preset{env: EnvStaging, level: slog.LevelInfo, format: FormatJSON}
	production  = preset{env: EnvProduction, level: slog.LevelInfo, format: FormatJSON}
)

func (p preset) option(service string) Option {
	return func(c *config) {
		if service == "" {
			return
		}
		c.level = p.level
		c.format = p.format
		c.attrs = append(c.attrs,
			slog.String("service", service),
			slog.String("env", p.env),
		)
	}
}

// WithDevelopment is debug-level text output tagged with service and env.
func WithDevelopment(service string) Option { return development.option(service) }

// WithStaging is info-level JSON output tagged with service and env.
func WithStaging(service string) Option { return staging.option(service) }

// WithProduction is info-level JSON output tagged with service and env.
func WithProduction(service string) Option { return production.option(service) }

// WithEnvironment maps APP_ENV to a preset. Unknown values fall back to
// development.
func WithEnvironment(env string, service string) Option {
	switch env {
	case EnvProduction, "prod":
		return production.option(service)
	case EnvStaging, "stage":
		return staging.option(service)
	default:
		return development.option(service)
	}
}
