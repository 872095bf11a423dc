package main

import (
	"github.com/dmitrymomot/postcard/pkg/browserpool"
	"github.com/dmitrymomot/postcard/pkg/email"
	"github.com/dmitrymomot/postcard/pkg/httpserver"
	"github.com/dmitrymomot/postcard/pkg/markup"
	"github.com/dmitrymomot/postcard/pkg/media"
	"github.com/dmitrymomot/postcard/pkg/mongo"
	"github.com/dmitrymomot/postcard/pkg/rategate"
	"github.com/dmitrymomot/postcard/pkg/ratelimiter"
	"github.com/dmitrymomot/postcard/pkg/redis"
)

// Rate store backends accepted by RATE_STORE.
const (
	storeMemory = "memory"
	storeMongo  = "mongo"
	storeRedis  = "redis"
)

type appConfig struct {
	Env      string   `env:"APP_ENV" envDefault:"development"`
	Service  string   `env:"APP_NAME" envDefault:"postcard"`
	EnvFiles []string `env:"APP_ENV_FILES" envSeparator:","` // loaded after .env, later files win

	HTTP     httpserver.Config
	Rate     rategate.Config
	Mongo    mongo.Config
	Redis    redis.Config
	Media    media.Config
	Email    email.Config
	Browser  browserpool.Config
	Markup   markup.Config
	Throttle ratelimiter.Config
}
