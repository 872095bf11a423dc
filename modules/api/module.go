package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/postcard/handler"
	"github.com/dmitrymomot/postcard/pkg/binder"
	"github.com/dmitrymomot/postcard/pkg/clientip"
	"github.com/dmitrymomot/postcard/pkg/delivery"
	"github.com/dmitrymomot/postcard/pkg/httpserver"
	"github.com/dmitrymomot/postcard/pkg/postcard"
	"github.com/dmitrymomot/postcard/pkg/rategate"
	"github.com/dmitrymomot/postcard/pkg/requestid"
)

// MaxBodySize bounds request bodies. Photos and signatures arrive inline as
// data URLs.
const MaxBodySize = 50 << 20

// HealthMessage is reported by GET /api/health.
const HealthMessage = "Postcard backend is running"

var ErrNotConfigured = errors.New("api module is missing a collaborator")

// LimitChecker answers quota questions for a sender.
type LimitChecker interface {
	Check(ctx context.Context, email string) (rategate.Decision, error)
}

// Deliverer runs the full send pipeline.
type Deliverer interface {
	Send(ctx context.Context, req delivery.Request) (*delivery.Attempt, error)
}

// Module serves the postcard JSON API.
type Module struct {
	gate       LimitChecker
	compositor postcard.Renderer
	markup     postcard.Renderer
	deliverer  Deliverer
	readiness  []httpserver.Check
	throttle   func(http.Handler) http.Handler
	mediaDir   string
	fonts      *postcard.Fonts
	maxBody    int64
	log        *slog.Logger
}

type Option func(*Module)

// WithMarkupRenderer makes /api/generate-postcard render through the
// headless browser instead of the compositor.
func WithMarkupRenderer(r postcard.Renderer) Option {
	return func(m *Module) {
		if r != nil {
			m.markup = r
		}
	}
}

// WithDeliverer mounts POST /api/send-postcard.
func WithDeliverer(d Deliverer) Option {
	return func(m *Module) {
		if d != nil {
			m.deliverer = d
		}
	}
}

// WithReadinessChecks are run by GET /api/db-test.
func WithReadinessChecks(checks ...httpserver.Check) Option {
	return func(m *Module) {
		m.readiness = append(m.readiness, checks...)
	}
}

// WithRenderThrottle guards the rendering routes, typically with
// ratelimiter.Middleware.
func WithRenderThrottle(mw func(http.Handler) http.Handler) Option {
	return func(m *Module) {
		m.throttle = mw
	}
}

// WithMediaDir serves locally stored postcard images under /media/.
func WithMediaDir(dir string) Option {
	return func(m *Module) {
		m.mediaDir = dir
	}
}

// WithFonts sets the faces used to measure message wrapping. They should be
// the ones the renderers draw with.
func WithFonts(f *postcard.Fonts) Option {
	return func(m *Module) {
		if f != nil {
			m.fonts = f
		}
	}
}

func WithMaxBodySize(n int64) Option {
	return func(m *Module) {
		if n > 0 {
			m.maxBody = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

// New builds the module. The gate and the compositor are required.
func New(gate LimitChecker, compositor postcard.Renderer, opts ...Option) (*Module, error) {
	if gate == nil || compositor == nil {
		return nil, ErrNotConfigured
	}

	m := &Module{
		gate:       gate,
		compositor: compositor,
		fonts:      postcard.DefaultFonts(),
		maxBody:    MaxBodySize,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Handle returns the router with CORS open to every origin.
//
//	srv.Run(ctx, module.Handle())
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestid.Header},
		MaxAge:         300,
	}))

	errorHandler := handler.NewErrorHandler(m.log)
	bind := binder.JSON(binder.WithMaxSize(m.maxBody), binder.AllowUnknownFields())

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", httpserver.HealthCheckHandler(m.log, HealthMessage))
		api.Get("/db-test", httpserver.HealthCheckHandler(m.log, "Database connection successful", m.readiness...))

		api.Post("/check-email-limit", handler.Wrap(m.checkEmailLimit,
			handler.WithBinder[handler.Context, CheckLimitRequest](bind),
			handler.WithErrorHandler[handler.Context, CheckLimitRequest](errorHandler),
		))

		api.Group(func(render chi.Router) {
			if m.throttle != nil {
				render.Use(m.throttle)
			}

			render.Post("/generate-postcard", handler.Wrap(m.generatePostcard,
				handler.WithBinder[handler.Context, GenerateRequest](bind),
				handler.WithErrorHandler[handler.Context, GenerateRequest](errorHandler),
			))
			if m.deliverer != nil {
				render.Post("/send-postcard", handler.Wrap(m.sendPostcard,
					handler.WithBinder[handler.Context, SendRequest](bind),
					handler.WithErrorHandler[handler.Context, SendRequest](errorHandler),
				))
			}
		})
	})

	if m.mediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(m.mediaDir))))
	}

	return r
}
