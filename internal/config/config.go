// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	archgcs "github.com/harborlight/ipsearch/internal/archive/gcs"
	archlocal "github.com/harborlight/ipsearch/internal/archive/local"
	"github.com/harborlight/ipsearch/internal/fetch"
	histpg "github.com/harborlight/ipsearch/internal/history/postgres"
	"github.com/harborlight/ipsearch/internal/policy/humanize"
	"github.com/harborlight/ipsearch/internal/policy/ratelimit"
	"github.com/harborlight/ipsearch/internal/records"
	"github.com/harborlight/ipsearch/internal/source/browser"
	"github.com/harborlight/ipsearch/internal/source/delegate"
	"github.com/harborlight/ipsearch/internal/source/gpatents"
	"github.com/harborlight/ipsearch/internal/status"
	"github.com/harborlight/ipsearch/internal/telemetry"
)

// Config captures every service knob loaded via Viper. Component configs are
// embedded as-is so their mapstructure tags define the file layout.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Logging   LoggingConfig    `mapstructure:"logging"`
	Search    SearchConfig     `mapstructure:"search"`
	Browser   browser.Config   `mapstructure:"browser"`
	Index     gpatents.Config  `mapstructure:"index"`
	Delegate  delegate.Config  `mapstructure:"delegate"`
	Fetch     fetch.Config     `mapstructure:"fetch"`
	Humanize  humanize.Config  `mapstructure:"humanize"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
	Status    status.Config    `mapstructure:"status"`
	History   HistoryConfig    `mapstructure:"history"`
	Archive   ArchiveConfig    `mapstructure:"archive"`
	Events    EventsConfig     `mapstructure:"events"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	APIKey          string        `mapstructure:"api_key"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// SearchConfig governs the orchestration loop. Order lists adapter
// identifiers in priority order.
type SearchConfig struct {
	Order          []string      `mapstructure:"order"`
	AdapterTimeout time.Duration `mapstructure:"adapter_timeout"`
	PersistTimeout time.Duration `mapstructure:"persist_timeout"`
}

// HistoryConfig selects and configures the search history store.
type HistoryConfig struct {
	Provider string        `mapstructure:"provider"`
	Capacity int           `mapstructure:"capacity"`
	Postgres histpg.Config `mapstructure:"postgres"`
}

// ArchiveConfig selects and configures the raw payload archive.
type ArchiveConfig struct {
	Provider string           `mapstructure:"provider"`
	Local    archlocal.Config `mapstructure:"local"`
	GCS      archgcs.Config   `mapstructure:"gcs"`
}

// EventsConfig selects and configures the search event publisher.
type EventsConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("IPSEARCH")
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
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout", 150*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.development", true)
	v.SetDefault("search.order", []string{records.SourceBrowser, records.SourceIndex, records.SourceDelegate})
	v.SetDefault("search.adapter_timeout", 2*time.Minute)
	v.SetDefault("search.persist_timeout", 5*time.Second)
	v.SetDefault("index.enrich", false)
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.max_attempts", 2)
	v.SetDefault("rate_limit.default_rps", 2)
	v.SetDefault("rate_limit.default_burst", 4)
	v.SetDefault("history.provider", "noop")
	v.SetDefault("history.capacity", 100)
	v.SetDefault("archive.provider", "noop")
	v.SetDefault("events.provider", "log")
	v.SetDefault("telemetry.service_name", "ipsearch")
}

var adapterNames = map[string]bool{
	records.SourceBrowser:  true,
	records.SourceIndex:    true,
	records.SourceDelegate: true,
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set")
	}
	if len(c.Search.Order) == 0 {
		return fmt.Errorf("search.order must name at least one adapter")
	}
	seen := map[string]bool{}
	for _, name := range c.Search.Order {
		if !adapterNames[name] {
			return fmt.Errorf("search.order: unknown adapter %q", name)
		}
		if seen[name] {
			return fmt.Errorf("search.order: adapter %q listed twice", name)
		}
		seen[name] = true
	}

	switch c.History.Provider {
	case "noop", "memory":
	case "postgres":
		if c.History.Postgres.DSN == "" {
			return fmt.Errorf("history.postgres.dsn must be set when history.provider is postgres")
		}
	default:
		return fmt.Errorf("unknown history provider: %s", c.History.Provider)
	}

	switch c.Archive.Provider {
	case "noop", "memory":
	case "local":
		if c.Archive.Local.BaseDir == "" {
			return fmt.Errorf("archive.local.base_dir must be set when archive.provider is local")
		}
	case "gcs":
		if c.Archive.GCS.Bucket == "" {
			return fmt.Errorf("archive.gcs.bucket must be set when archive.provider is gcs")
		}
	default:
		return fmt.Errorf("unknown archive provider: %s", c.Archive.Provider)
	}

	switch c.Events.Provider {
	case "noop", "log", "memory":
	case "pubsub":
		if c.Events.ProjectID == "" || c.Events.TopicID == "" {
			return fmt.Errorf("events.project_id and events.topic_id must be set when events.provider is pubsub")
		}
	default:
		return fmt.Errorf("unknown events provider: %s", c.Events.Provider)
	}

	return nil
}
