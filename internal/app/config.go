package app

import (
	"fmt"
	"time"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Extraction
	URL string
	Tag string

	// Export
	PDFPath  string
	Title    string
	PageSize string
	JSON     bool

	// Fetch
	UserAgent       string
	Timeout         time.Duration
	RedirectMaxHops int
	MaxBodyBytes    int64

	// Server
	Addr               string
	RateLimitRPS       float64
	RateLimitBurst     int
	FetchMaxConcurrent int
	FetchRPS           float64

	// Behavior
	Verbose bool
}

const (
	defaultTag            = "p"
	defaultTimeout        = 30 * time.Second
	defaultRedirectHops   = 10
	defaultAddr           = ":8080"
	defaultRateLimitRPS   = 2
	defaultRateLimitBurst = 5
	defaultFetchConc      = 8
)

// ApplyDefaults fills zero-valued fields with built-in defaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Tag == "" {
		cfg.Tag = defaultTag
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RedirectMaxHops == 0 {
		cfg.RedirectMaxHops = defaultRedirectHops
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = defaultRateLimitRPS
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}
	if cfg.FetchMaxConcurrent == 0 {
		cfg.FetchMaxConcurrent = defaultFetchConc
	}
}

// MergeConfig copies every non-zero field of src over dst. Flags are applied
// this way last so they win over env and file values.
func MergeConfig(dst *Config, src Config) {
	if dst == nil {
		return
	}
	str := func(d *string, v string) {
		if v != "" {
			*d = v
		}
	}
	str(&dst.URL, src.URL)
	str(&dst.Tag, src.Tag)
	str(&dst.PDFPath, src.PDFPath)
	str(&dst.Title, src.Title)
	str(&dst.PageSize, src.PageSize)
	str(&dst.UserAgent, src.UserAgent)
	str(&dst.Addr, src.Addr)
	if src.JSON {
		dst.JSON = true
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.RedirectMaxHops != 0 {
		dst.RedirectMaxHops = src.RedirectMaxHops
	}
	if src.MaxBodyBytes != 0 {
		dst.MaxBodyBytes = src.MaxBodyBytes
	}
	if src.RateLimitRPS != 0 {
		dst.RateLimitRPS = src.RateLimitRPS
	}
	if src.RateLimitBurst != 0 {
		dst.RateLimitBurst = src.RateLimitBurst
	}
	if src.FetchMaxConcurrent != 0 {
		dst.FetchMaxConcurrent = src.FetchMaxConcurrent
	}
	if src.FetchRPS != 0 {
		dst.FetchRPS = src.FetchRPS
	}
	if src.Verbose {
		dst.Verbose = true
	}
}

// Resolve builds the effective configuration with precedence
// flags > environment > config file > defaults. envFiles are loaded into the
// process environment first; missing ones are skipped.
func Resolve(configPath string, envFiles []string, flags Config) (Config, error) {
	if err := LoadEnvFiles(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	var cfg Config
	if configPath != "" {
		fc, err := LoadConfigFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", configPath, err)
		}
		ApplyFileConfig(&cfg, fc)
	}
	ApplyEnvOverrides(&cfg)
	MergeConfig(&cfg, flags)
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
