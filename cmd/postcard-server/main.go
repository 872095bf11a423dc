package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/postcard/modules/api"
	"github.com/dmitrymomot/postcard/pkg/browserpool"
	"github.com/dmitrymomot/postcard/pkg/clientip"
	"github.com/dmitrymomot/postcard/pkg/compositor"
	"github.com/dmitrymomot/postcard/pkg/config"
	"github.com/dmitrymomot/postcard/pkg/delivery"
	"github.com/dmitrymomot/postcard/pkg/email"
	"github.com/dmitrymomot/postcard/pkg/httpserver"
	"github.com/dmitrymomot/postcard/pkg/logger"
	"github.com/dmitrymomot/postcard/pkg/markup"
	"github.com/dmitrymomot/postcard/pkg/media"
	"github.com/dmitrymomot/postcard/pkg/mongo"
	"github.com/dmitrymomot/postcard/pkg/postcard"
	"github.com/dmitrymomot/postcard/pkg/rategate"
	"github.com/dmitrymomot/postcard/pkg/ratelimiter"
	"github.com/dmitrymomot/postcard/pkg/redis"
	"github.com/dmitrymomot/postcard/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "postcard-server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if len(cfg.EnvFiles) > 0 {
		if err := config.LoadEnv(cfg.EnvFiles...); err != nil {
			return err
		}
		if err := config.ForceReloadConfig(&cfg); err != nil {
			return err
		}
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	store, checks, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	policy, err := cfg.Rate.Policy()
	if err != nil {
		return err
	}
	gate, err := rategate.New(store, rategate.WithPolicy(policy), rategate.WithLogger(log))
	if err != nil {
		return err
	}

	uploader, err := media.NewFromConfig(ctx, cfg.Media)
	if err != nil {
		return err
	}
	sender, err := email.NewFromConfig(cfg.Email, log)
	if err != nil {
		return err
	}

	fonts := postcard.DefaultFonts()
	comp := compositor.New(compositor.WithFonts(fonts), compositor.WithLogger(log))

	deliveryOpts := []delivery.Option{
		delivery.WithFonts(fonts),
		delivery.WithObjectPrefix(cfg.Media.Prefix),
		delivery.WithLogger(log),
	}
	apiOpts := []api.Option{
		api.WithFonts(fonts),
		api.WithLogger(log),
		api.WithReadinessChecks(checks...),
	}

	var pool *browserpool.Pool
	if cfg.Browser.Enabled {
		pool = browserpool.NewFromConfig(cfg.Browser, browserpool.WithLogger(log))
		if cfg.Browser.WarmOnStart {
			if err := pool.Warm(ctx); err != nil {
				log.WarnContext(ctx, "browser warm-up failed, will launch on first render",
					logger.Component("browserpool"),
					logger.Error(err),
				)
			}
		}

		mr := markup.New(pool,
			markup.WithFonts(fonts),
			markup.WithSettleTimeout(cfg.Markup.SettleTimeout),
			markup.WithLogger(log),
		)
		deliveryOpts = append(deliveryOpts, delivery.WithMarkupRenderer(mr))
		apiOpts = append(apiOpts, api.WithMarkupRenderer(mr))
	}

	orchestrator, err := delivery.New(gate, comp, uploader, sender, deliveryOpts...)
	if err != nil {
		return err
	}
	apiOpts = append(apiOpts, api.WithDeliverer(orchestrator))

	var throttleStore *ratelimiter.MemoryStore
	if cfg.Throttle.Enabled {
		throttleStore = ratelimiter.NewMemoryStore()
		bucket, err := ratelimiter.NewBucket(throttleStore, cfg.Throttle)
		if err != nil {
			return err
		}
		apiOpts = append(apiOpts, api.WithRenderThrottle(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP, log)))
	}

	if local, ok := uploader.(*media.LocalUploader); ok {
		apiOpts = append(apiOpts, api.WithMediaDir(local.Dir()))
	}

	module, err := api.New(gate, comp, apiOpts...)
	if err != nil {
		return err
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(ctx context.Context, log *slog.Logger) {
			if pool != nil {
				if err := pool.Shutdown(ctx); err != nil {
					log.ErrorContext(ctx, "browser pool shutdown failed", logger.Error(err))
				}
			}
			if throttleStore != nil {
				throttleStore.Close()
			}
			if err := closeStore(ctx); err != nil {
				log.ErrorContext(ctx, "usage store shutdown failed", logger.Error(err))
			}
		}),
	)

	return srv.Run(ctx, module.Handle())
}

// newStore connects the usage store selected by RATE_STORE and returns its
// readiness checks and a close function.
func newStore(ctx context.Context, cfg appConfig, log *slog.Logger) (rategate.Store, []httpserver.Check, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Rate.Store {
	case storeMemory, "":
		log.WarnContext(ctx, "usage counts are kept in memory and reset on restart",
			logger.Component("rategate"),
		)
		return rategate.NewMemoryStore(), nil, noop, nil

	case storeMongo:
		client, err := mongo.New(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(rategate.CollectionName)
		if err := rategate.EnsureIndexes(ctx, coll); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, nil, err
		}
		checks := []httpserver.Check{{Name: "mongo", Check: mongo.Healthcheck(client)}}
		return rategate.NewMongoStore(coll), checks, client.Disconnect, nil

	case storeRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		checks := []httpserver.Check{{Name: "redis", Check: redis.Healthcheck(client)}}
		closeFn := func(context.Context) error { return client.Close() }
		return rategate.NewRedisStore(client), checks, closeFn, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown RATE_STORE %q", cfg.Rate.Store)
	}
}
