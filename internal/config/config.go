// Package config loads pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all knobs for a scrape run, loaded from defaults, an
// optional config file, and LEADS_-prefixed environment variables.
type Config struct {
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Search  SearchConfig  `mapstructure:"search"`
	Enrich  EnrichConfig  `mapstructure:"enrich"`
	Store   StoreConfig   `mapstructure:"store"`
	Export  ExportConfig  `mapstructure:"export"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ScrapeConfig governs the discovery and crawl pipeline.
type ScrapeConfig struct {
	Keywords      []string `mapstructure:"keywords"`
	Locations     []string `mapstructure:"locations"`
	LimitPerCombo int      `mapstructure:"limit_per_combo"`
	MaxRuntimeMin int      `mapstructure:"max_runtime_min"`
	Workers       int      `mapstructure:"workers"`
	Strict        bool     `mapstructure:"strict"`
}

// FetchConfig configures the HTTP fetch layer.
type FetchConfig struct {
	TimeoutSeconds  int      `mapstructure:"timeout_seconds"`
	RateSeconds     float64  `mapstructure:"rate_seconds"`
	MaxAttempts     int      `mapstructure:"max_attempts"`
	Fingerprint     string   `mapstructure:"fingerprint"`
	AcceptLanguage  string   `mapstructure:"accept_language"`
	UserAgentExtras []string `mapstructure:"user_agent_extras"`
}

// SearchConfig selects and credentials the SERP providers.
type SearchConfig struct {
	Sources    []string `mapstructure:"sources"`
	SerpAPIKey string   `mapstructure:"serpapi_key"`
	SerperKey  string   `mapstructure:"serper_key"`
}

// EnrichConfig holds enrichment API credentials.
type EnrichConfig struct {
	HunterKey   string `mapstructure:"hunter_key"`
	ClearbitKey string `mapstructure:"clearbit_key"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
}

// ExportConfig sets where CSV exports land.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Load builds a Config from defaults, the optional file at path, and the
// environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Keys without a meaningful default still need registering so
	// AutomaticEnv can populate them during Unmarshal.
	v.SetDefault("scrape.keywords", []string{})
	v.SetDefault("scrape.locations", []string{})
	v.SetDefault("search.serpapi_key", "")
	v.SetDefault("search.serper_key", "")
	v.SetDefault("enrich.hunter_key", "")
	v.SetDefault("enrich.clearbit_key", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("scrape.limit_per_combo", 12)
	v.SetDefault("scrape.max_runtime_min", 15)
	v.SetDefault("scrape.workers", 24)
	v.SetDefault("scrape.strict", true)
	v.SetDefault("fetch.timeout_seconds", 12)
	v.SetDefault("fetch.rate_seconds", 0.6)
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("fetch.fingerprint", "chrome")
	v.SetDefault("fetch.accept_language", "en-IN,en;q=0.9")
	v.SetDefault("search.sources", []string{"serpapi", "serper"})
	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.path", "leads.db")
	v.SetDefault("export.dir", "exports")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Scrape.LimitPerCombo <= 0 {
		return fmt.Errorf("scrape.limit_per_combo must be > 0")
	}
	if c.Scrape.Workers <= 0 {
		return fmt.Errorf("scrape.workers must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.RateSeconds < 0 {
		return fmt.Errorf("fetch.rate_seconds must be >= 0")
	}
	switch c.Store.Backend {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("store.backend must be sqlite or postgres, got %q", c.Store.Backend)
	}
	if c.Store.Backend == "postgres" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn must be set for the postgres backend")
	}
	if c.Metrics.Enabled && c.Metrics.Port <= 0 {
		return fmt.Errorf("metrics.port must be > 0 when metrics are enabled")
	}
	if len(c.Search.Sources) == 0 {
		return fmt.Errorf("search.sources must name at least one provider")
	}
	for _, s := range c.Search.Sources {
		switch s {
		case "serpapi", "serper":
		default:
			return fmt.Errorf("unknown search source %q", s)
		}
	}
	return nil
}

// FetchTimeout returns the fetch timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// HostInterval returns the per-host pacing interval as a duration.
func (c Config) HostInterval() time.Duration {
	return time.Duration(c.Fetch.RateSeconds * float64(time.Second))
}

// MaxRuntime returns the soft run deadline, or zero for no deadline.
func (c Config) MaxRuntime() time.Duration {
	if c.Scrape.MaxRuntimeMin <= 0 {
		return 0
	}
	return time.Duration(c.Scrape.MaxRuntimeMin) * time.Minute
}
