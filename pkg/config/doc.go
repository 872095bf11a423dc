// Package config parses environment variables into typed structs with
// github.com/caarlos0/env/v11 and caches the result per type.
//
//	type RateConfig struct {
//		Store      string `env:"RATE_STORE" envDefault:"memory"`
//		DailyQuota int    `env:"DAILY_QUOTA" envDefault:"3"`
//	}
//
//	var cfg RateConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// The first Load reads .env from the working directory when present. LoadEnv
// reads an explicit list of files through github.com/joho/godotenv, later
// files overriding earlier ones; call ForceReloadConfig afterwards so cached
// structs pick up the new values. ResetCache clears everything and exists for
// tests.
package config
