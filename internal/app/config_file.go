package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/tagscrape/internal/report"
)

// FileConfig represents the single-file configuration schema.
// Nested sections improve readability and map naturally to flags/env.
type FileConfig struct {
	URL string `yaml:"url" json:"url"`
	Tag string `yaml:"tag" json:"tag"`

	Report struct {
		PDF      string `yaml:"pdf" json:"pdf"`
		Title    string `yaml:"title" json:"title"`
		PageSize string `yaml:"pageSize" json:"pageSize"`
	} `yaml:"report" json:"report"`

	Fetch struct {
		UserAgent       string        `yaml:"userAgent" json:"userAgent"`
		Timeout         time.Duration `yaml:"timeout" json:"timeout"`
		RedirectMaxHops int           `yaml:"redirectMaxHops" json:"redirectMaxHops"`
		MaxBodyBytes    int64         `yaml:"maxBodyBytes" json:"maxBodyBytes"`
		MaxConcurrent   int           `yaml:"maxConcurrent" json:"maxConcurrent"`
		RPS             float64       `yaml:"rps" json:"rps"`
	} `yaml:"fetch" json:"fetch"`

	Server struct {
		Addr      string `yaml:"addr" json:"addr"`
		RateLimit struct {
			RPS   float64 `yaml:"rps" json:"rps"`
			Burst int     `yaml:"burst" json:"burst"`
		} `yaml:"rateLimit" json:"rateLimit"`
	} `yaml:"server" json:"server"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg, so explicit flags are preserved.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	str := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	str(&cfg.URL, fc.URL)
	str(&cfg.Tag, fc.Tag)
	str(&cfg.PDFPath, fc.Report.PDF)
	str(&cfg.Title, fc.Report.Title)
	str(&cfg.PageSize, fc.Report.PageSize)
	str(&cfg.UserAgent, fc.Fetch.UserAgent)
	str(&cfg.Addr, fc.Server.Addr)

	if cfg.Timeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.Timeout = fc.Fetch.Timeout
	}
	if cfg.RedirectMaxHops == 0 && fc.Fetch.RedirectMaxHops > 0 {
		cfg.RedirectMaxHops = fc.Fetch.RedirectMaxHops
	}
	if cfg.MaxBodyBytes == 0 && fc.Fetch.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = fc.Fetch.MaxBodyBytes
	}
	if cfg.FetchMaxConcurrent == 0 && fc.Fetch.MaxConcurrent > 0 {
		cfg.FetchMaxConcurrent = fc.Fetch.MaxConcurrent
	}
	if cfg.FetchRPS == 0 && fc.Fetch.RPS > 0 {
		cfg.FetchRPS = fc.Fetch.RPS
	}
	if cfg.RateLimitRPS == 0 && fc.Server.RateLimit.RPS > 0 {
		cfg.RateLimitRPS = fc.Server.RateLimit.RPS
	}
	if cfg.RateLimitBurst == 0 && fc.Server.RateLimit.Burst > 0 {
		cfg.RateLimitBurst = fc.Server.RateLimit.Burst
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation. The URL is checked by
// the command that needs it, not here, so the server can start without one.
func ValidateConfig(cfg Config) error {
	if cfg.Timeout < 0 || cfg.RedirectMaxHops < 0 || cfg.MaxBodyBytes < 0 {
		return errors.New("config: negative fetch limits are not allowed")
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 || cfg.FetchRPS < 0 || cfg.FetchMaxConcurrent < 0 {
		return errors.New("config: negative rate limits are not allowed")
	}
	if !report.ValidPageSize(cfg.PageSize) {
		return fmt.Errorf("config: unknown page size %q (want Letter, A4 or Legal)", cfg.PageSize)
	}
	return nil
}
