package browserpool

import "time"

// Config drives ChromeLauncher and the pool.
type Config struct {
	Enabled        bool          `env:"CHROME_ENABLED" envDefault:"false"`
	ExecPath       string        `env:"CHROME_PATH"`
	NoSandbox      bool          `env:"CHROME_NO_SANDBOX" envDefault:"true"`
	LaunchTimeout  time.Duration `env:"CHROME_LAUNCH_TIMEOUT" envDefault:"30s"`
	CaptureTimeout time.Duration `env:"CHROME_CAPTURE_TIMEOUT" envDefault:"30s"`
	WarmOnStart    bool          `env:"CHROME_WARM_ON_START" envDefault:"false"`
}
