package rategate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/postcard/pkg/logger"
)

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Remaining int
	Unlimited bool
	Creator   bool
}

// MarshalJSON renders remaining as "unlimited" for allow-listed senders.
func (d Decision) MarshalJSON() ([]byte, error) {
	var remaining any = d.Remaining
	if d.Unlimited {
		remaining = "unlimited"
	}
	return json.Marshal(struct {
		Allowed   bool `json:"allowed"`
		Remaining any  `json:"remaining"`
		IsCreator bool `json:"isCreator"`
	}{d.Allowed, remaining, d.Creator})
}

// Gate enforces the daily email quota per sender.
type Gate struct {
	store     Store
	quota     int
	allowList map[string]struct{}
	now       func() time.Time
	log       *slog.Logger
}

type Option func(*Gate)

func WithPolicy(p Policy) Option {
	return func(g *Gate) {
		g.quota = p.DailyQuota
		g.allowList = make(map[string]struct{}, len(p.AllowList))
		for _, e := range p.AllowList {
			if e = NormalizeEmail(e); e != "" {
				g.allowList[e] = struct{}{}
			}
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.log = l
		}
	}
}

func New(store Store, opts ...Option) (*Gate, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	g := &Gate{
		store:     store,
		quota:     DefaultDailyQuota,
		allowList: map[string]struct{}{},
		now:       time.Now,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Check reports whether email may send another postcard today.
// If the store cannot be read the decision is a denial and the error wraps
// ErrStoreUnavailable.
func (g *Gate) Check(ctx context.Context, email string) (Decision, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return Decision{}, ErrEmailRequired
	}

	if g.IsAllowListed(email) {
		return Decision{Allowed: true, Unlimited: true, Creator: true}, nil
	}

	from, to := DayWindow(g.now())
	n, err := g.store.Count(ctx, email, from, to)
	if err != nil {
		return Decision{}, errors.Join(ErrStoreUnavailable, err)
	}

	remaining := max(0, g.quota-n)
	return Decision{Allowed: remaining > 0, Remaining: remaining}, nil
}

// Record counts one sent postcard against email. Allow-listed senders are
// never recorded. Store failures are logged and otherwise ignored.
func (g *Gate) Record(ctx context.Context, email string) {
	email = NormalizeEmail(email)
	if email == "" || g.IsAllowListed(email) {
		return
	}

	if err := g.store.Record(ctx, email, g.now().UTC()); err != nil {
		g.log.ErrorContext(ctx, "failed to record postcard usage",
			logger.Component("rategate"),
			logger.Error(err),
		)
	}
}

func (g *Gate) IsAllowListed(email string) bool {
	_, ok := g.allowList[NormalizeEmail(email)]
	return ok
}

func (g *Gate) Quota() int { return g.quota }
