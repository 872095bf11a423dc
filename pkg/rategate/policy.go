package rategate

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDailyQuota is the number of postcards a sender may email per UTC day.
const DefaultDailyQuota = 3

// Policy is the quota and the senders exempt from it.
type Policy struct {
	DailyQuota int      `yaml:"daily_quota"`
	AllowList  []string `yaml:"allow_list"`
}

func DefaultPolicy() Policy {
	return Policy{DailyQuota: DefaultDailyQuota}
}

func (p Policy) Validate() error {
	if p.DailyQuota < 0 {
		return fmt.Errorf("%w: daily_quota must not be negative, got %d", ErrInvalidPolicy, p.DailyQuota)
	}
	for _, e := range p.AllowList {
		if NormalizeEmail(e) == "" {
			return fmt.Errorf("%w: empty allow_list entry", ErrInvalidPolicy)
		}
	}
	return nil
}

// ParsePolicy decodes a YAML policy. Missing keys keep their defaults.
func ParsePolicy(data []byte) (Policy, error) {
	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, errors.Join(ErrInvalidPolicy, err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, errors.Join(ErrInvalidPolicy, err)
	}
	return ParsePolicy(data)
}

// Config is the environment form of the policy. PolicyFile, when set,
// takes precedence over DailyQuota and CreatorEmails.
type Config struct {
	DailyQuota    int      `env:"DAILY_QUOTA" envDefault:"3"`
	CreatorEmails []string `env:"CREATOR_EMAILS" envSeparator:","`
	PolicyFile    string   `env:"RATE_POLICY_FILE"`
	Store         string   `env:"RATE_STORE" envDefault:"memory"` // memory, mongo or redis
}

func (c Config) Policy() (Policy, error) {
	if c.PolicyFile != "" {
		return LoadPolicy(c.PolicyFile)
	}

	p := Policy{DailyQuota: c.DailyQuota, AllowList: c.CreatorEmails}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
