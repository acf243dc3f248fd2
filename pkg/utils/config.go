package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration shared by every binary.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Engine   EngineConfig   `yaml:"engine"`
}

type ProviderConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"` // 0 keeps cached editions forever
	Cache    bool          `yaml:"cache"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // empty uses database.DefaultConfig
}

type ServerConfig struct {
	HTTPAddr       string        `yaml:"http_addr"`
	TCPAddr        string        `yaml:"tcp_addr"`
	GRPCAddr       string        `yaml:"grpc_addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // websocket origins; empty means same-origin only, "*" any
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl"`
	MaxSessions    int           `yaml:"max_sessions"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // "prod" or "dev"
}

type EngineConfig struct {
	DefaultLanguage string        `yaml:"default_language"`
	BatchSize       int           `yaml:"batch_size"`
	InitialPage     int           `yaml:"initial_page"`
	PageStep        int           `yaml:"page_step"`
	SearchDebounce  time.Duration `yaml:"search_debounce"`
	CuratedCap      int           `yaml:"curated_cap"`
	FetchParallel   int           `yaml:"fetch_parallel"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			BaseURL:  "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1",
			Timeout:  30 * time.Second,
			CacheTTL: 7 * 24 * time.Hour,
			Cache:    true,
		},
		Server: ServerConfig{
			HTTPAddr:       ":8080",
			TCPAddr:        ":9090",
			GRPCAddr:       ":9091",
			SessionIdleTTL: 30 * time.Minute,
			MaxSessions:    1000,
		},
		Log: LogConfig{Mode: "dev"},
		Engine: EngineConfig{
			DefaultLanguage: "english",
			BatchSize:       25,
			InitialPage:     50,
			PageStep:        25,
			SearchDebounce:  500 * time.Millisecond,
			CuratedCap:      50,
			FetchParallel:   4,
		},
	}
}

// ConfigPath is where LoadConfig looks for the YAML file.
func ConfigPath() string {
	if p := os.Getenv("HADITHHUB_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".hadithhub", "config.yaml")
}

// LoadConfig reads defaults, then the YAML file at ConfigPath if present,
// then environment variables. Later sources win.
func LoadConfig() (Config, error) {
	return LoadConfigFile(ConfigPath())
}

// LoadConfigFile is LoadConfig with an explicit file path. A missing file is
// not an error.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("HADITHHUB_PROVIDER_URL", &cfg.Provider.BaseURL)
	str("HADITHHUB_DB_PATH", &cfg.Database.Path)
	str("HADITHHUB_HTTP_ADDR", &cfg.Server.HTTPAddr)
	str("HADITHHUB_TCP_ADDR", &cfg.Server.TCPAddr)
	str("HADITHHUB_GRPC_ADDR", &cfg.Server.GRPCAddr)
	str("HADITHHUB_LOG_MODE", &cfg.Log.Mode)
	str("HADITHHUB_LANGUAGE", &cfg.Engine.DefaultLanguage)

	for key, dst := range map[string]*time.Duration{
		"HADITHHUB_FETCH_TIMEOUT":   &cfg.Provider.Timeout,
		"HADITHHUB_CACHE_TTL":       &cfg.Provider.CacheTTL,
		"HADITHHUB_SEARCH_DEBOUNCE": &cfg.Engine.SearchDebounce,
		"HADITHHUB_SESSION_TTL":     &cfg.Server.SessionIdleTTL,
	} {
		v := getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	if v := getenv("HADITHHUB_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, o)
			}
		}
	}
	if v := getenv("HADITHHUB_MAX_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HADITHHUB_MAX_SESSIONS: %w", err)
		}
		cfg.Server.MaxSessions = n
	}

	if v := getenv("HADITHHUB_CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HADITHHUB_CACHE: %w", err)
		}
		cfg.Provider.Cache = b
	}
	return nil
}
