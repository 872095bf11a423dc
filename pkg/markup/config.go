package markup

import "time"

const DefaultSettleTimeout = 5 * time.Second

type Config struct {
	SettleTimeout time.Duration `env:"RENDER_SETTLE_TIMEOUT" envDefault:"5s"`
}
