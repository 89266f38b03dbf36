package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnvToConfig and ApplyEnvOverrides.
const (
	EnvURL             = "TAGSCRAPE_URL"
	EnvTag             = "TAGSCRAPE_TAG"
	EnvPDF             = "TAGSCRAPE_PDF"
	EnvTitle           = "TAGSCRAPE_TITLE"
	EnvPageSize        = "TAGSCRAPE_PAGE_SIZE"
	EnvUserAgent       = "TAGSCRAPE_USER_AGENT"
	EnvTimeout         = "TAGSCRAPE_TIMEOUT"
	EnvRedirectMaxHops = "TAGSCRAPE_REDIRECT_MAX_HOPS"
	EnvMaxBodyBytes    = "TAGSCRAPE_MAX_BODY_BYTES"
	EnvAddr            = "TAGSCRAPE_ADDR"
	EnvRateLimit       = "TAGSCRAPE_RATE_LIMIT"
	EnvFetchRPS        = "TAGSCRAPE_FETCH_RPS"
	EnvVerbose         = "TAGSCRAPE_VERBOSE"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, key string) {
		if *dst == "" {
			*dst = strings.TrimSpace(os.Getenv(key))
		}
	}
	setString(&cfg.URL, EnvURL)
	setString(&cfg.Tag, EnvTag)
	setString(&cfg.PDFPath, EnvPDF)
	setString(&cfg.Title, EnvTitle)
	setString(&cfg.PageSize, EnvPageSize)
	setString(&cfg.UserAgent, EnvUserAgent)
	setString(&cfg.Addr, EnvAddr)

	if cfg.Timeout == 0 {
		if d, ok := envDuration(EnvTimeout); ok {
			cfg.Timeout = d
		}
	}
	if cfg.RedirectMaxHops == 0 {
		if n, ok := envInt(EnvRedirectMaxHops); ok {
			cfg.RedirectMaxHops = n
		}
	}
	if cfg.MaxBodyBytes == 0 {
		if n, ok := envInt(EnvMaxBodyBytes); ok {
			cfg.MaxBodyBytes = int64(n)
		}
	}
	if cfg.FetchRPS == 0 {
		if f, ok := envFloat(EnvFetchRPS); ok {
			cfg.FetchRPS = f
		}
	}

	// TAGSCRAPE_RATE_LIMIT can be "<rps>" or "<rps>,<burst>"
	if cfg.RateLimitRPS == 0 || cfg.RateLimitBurst == 0 {
		rps, burst, ok := parseRateLimit(os.Getenv(EnvRateLimit))
		if ok && cfg.RateLimitRPS == 0 {
			cfg.RateLimitRPS = rps
		}
		if ok && burst > 0 && cfg.RateLimitBurst == 0 {
			cfg.RateLimitBurst = burst
		}
	}

	if !cfg.Verbose {
		if v, ok := envBool(EnvVerbose); ok {
			cfg.Verbose = v
		}
	}
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when the corresponding env vars are set. This is used to let env take
// precedence over values coming from a config file while still allowing flags
// to remain highest precedence.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.URL, EnvURL)
	setString(&cfg.Tag, EnvTag)
	setString(&cfg.PDFPath, EnvPDF)
	setString(&cfg.Title, EnvTitle)
	setString(&cfg.PageSize, EnvPageSize)
	setString(&cfg.UserAgent, EnvUserAgent)
	setString(&cfg.Addr, EnvAddr)

	if d, ok := envDuration(EnvTimeout); ok {
		cfg.Timeout = d
	}
	if n, ok := envInt(EnvRedirectMaxHops); ok {
		cfg.RedirectMaxHops = n
	}
	if n, ok := envInt(EnvMaxBodyBytes); ok {
		cfg.MaxBodyBytes = int64(n)
	}
	if f, ok := envFloat(EnvFetchRPS); ok {
		cfg.FetchRPS = f
	}
	if rps, burst, ok := parseRateLimit(os.Getenv(EnvRateLimit)); ok {
		cfg.RateLimitRPS = rps
		if burst > 0 {
			cfg.RateLimitBurst = burst
		}
	}
	if v, ok := envBool(EnvVerbose); ok {
		cfg.Verbose = v
	}
}

func parseRateLimit(s string) (float64, int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	parts := strings.Split(s, ",")
	rps, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || rps <= 0 {
		return 0, 0, false
	}
	burst := 0
	if len(parts) >= 2 {
		if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && n > 0 {
			burst = n
		}
	}
	return rps, burst, true
}

func envDuration(key string) (time.Duration, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	return d, err == nil
}

func envInt(key string) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func envFloat(key string) (float64, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
