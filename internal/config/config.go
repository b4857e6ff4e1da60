package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"

	"llm-notify-bridge/internal/integrations/llm"
	"llm-notify-bridge/internal/integrations/paramstore"
)

// Required environment keys. Their names are the deployment contract.
const (
	KeyWebhookURL = "SLACK_WEBHOOK_URL"
	KeyMessage    = "SLACK_WEBHOOK_MSG"
	KeyLLMURL     = "LLM_URL"
	KeyLLMKey     = "LLM_KEY"

	// KeyConfigFile optionally names a TOML file read before the environment.
	KeyConfigFile = "BRIDGE_CONFIG"
)

const (
	ExtractJSON = "json"
	ExtractScan = "scan"
)

// Config holds everything a single relay run needs.
type Config struct {
	WebhookURL string `toml:"webhook_url" env:"SLACK_WEBHOOK_URL"`
	Message    string `toml:"message" env:"SLACK_WEBHOOK_MSG"`
	LLMURL     string `toml:"llm_url" env:"LLM_URL"`
	LLMKey     string `toml:"llm_key" env:"LLM_KEY"`

	Model          string        `toml:"model" env:"LLM_MODEL"`
	LLMTimeout     time.Duration `toml:"llm_timeout" env:"LLM_TIMEOUT"`
	WebhookTimeout time.Duration `toml:"webhook_timeout" env:"WEBHOOK_TIMEOUT"`
	ExtractMode    string        `toml:"extract_mode" env:"EXTRACT_MODE"`
	LogLevel       string        `toml:"log_level" env:"LOG_LEVEL"`
}

// MissingError lists required keys that were absent or blank.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "config: missing required value(s): " + strings.Join(e.Keys, ", ")
}

// Default returns a Config with every optional value set.
func Default() Config {
	return Config{
		Model:          llm.DefaultModel,
		LLMTimeout:     30 * time.Second,
		WebhookTimeout: 10 * time.Second,
		ExtractMode:    ExtractJSON,
		LogLevel:       "info",
	}
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom reads configuration from environ. Values from the TOML file named
// by BRIDGE_CONFIG are applied first and environment values override them.
func LoadFrom(environ map[string]string) (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(environ[KeyConfigFile]); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	c.LLMURL = strings.TrimSpace(c.LLMURL)
	c.LLMKey = strings.TrimSpace(c.LLMKey)
	c.Model = strings.TrimSpace(c.Model)
	c.ExtractMode = strings.ToLower(strings.TrimSpace(c.ExtractMode))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate reports every missing required key, then checks optional values.
func (c Config) Validate() error {
	var missing []string
	for _, f := range c.required() {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}

	if c.Model == "" {
		return errors.New("config: LLM_MODEL must not be blank")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("config: invalid LLM_TIMEOUT: %s", c.LLMTimeout)
	}
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("config: invalid WEBHOOK_TIMEOUT: %s", c.WebhookTimeout)
	}
	switch c.ExtractMode {
	case ExtractJSON, ExtractScan:
	default:
		return fmt.Errorf("config: invalid EXTRACT_MODE: %q (must be json or scan)", c.ExtractMode)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid LOG_LEVEL: %q (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}

type requiredField struct {
	key   string
	value string
}

func (c Config) required() []requiredField {
	return []requiredField{
		{KeyWebhookURL, c.WebhookURL},
		{KeyMessage, c.Message},
		{KeyLLMURL, c.LLMURL},
		{KeyLLMKey, c.LLMKey},
	}
}

type secretField struct {
	key string
	dst *string
}

// secrets returns the values that may be written as Parameter Store
// references. The message is prompt text and is always taken literally.
func (c *Config) secrets() []secretField {
	return []secretField{
		{KeyWebhookURL, &c.WebhookURL},
		{KeyLLMURL, &c.LLMURL},
		{KeyLLMKey, &c.LLMKey},
	}
}

// HasParamRefs reports whether any secret value points at Parameter Store.
func (c Config) HasParamRefs() bool {
	for _, s := range c.secrets() {
		if paramstore.IsRef(*s.dst) {
			return true
		}
	}
	return false
}

// ResolveParams replaces Parameter Store references in the secret values.
func (c *Config) ResolveParams(ctx context.Context, getter paramstore.Getter) error {
	for _, s := range c.secrets() {
		v, err := paramstore.Resolve(ctx, getter, *s.dst)
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", s.key, err)
		}
		*s.dst = v
	}
	return c.Validate()
}
