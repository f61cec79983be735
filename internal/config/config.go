package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	LogLevel       string `mapstructure:"log_level"`
	ProfilesFile   string `mapstructure:"profiles_file"`
	SinksFile      string `mapstructure:"sinks_file"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int64  `mapstructure:"timeout_seconds"`
	VerifyTLS      bool   `mapstructure:"verify_tls"`

	HistoryType            string        `mapstructure:"history_type"`
	HistoryPath            string        `mapstructure:"history_path"`
	HistoryTTLSeconds      int64         `mapstructure:"history_ttl_seconds"`
	HistoryCleanupSeconds  int64         `mapstructure:"history_cleanup_interval_seconds"`
	Timeout                time.Duration `mapstructure:"-"`
	HistoryTTL             time.Duration `mapstructure:"-"`
	HistoryCleanupInterval time.Duration `mapstructure:"-"`
}

// EnvPrefix namespaces environment overrides, e.g. RESTKIT_LOG_LEVEL.
const EnvPrefix = "restkit"

// Load reads configuration from configs/.env, environment variables and, when
// non-nil, the given flag set. Flags win over environment, which wins over defaults.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "restkit")
	v.SetDefault("log_level", "warn")
	v.SetDefault("profiles_file", "./configs/profiles.yaml")
	v.SetDefault("sinks_file", "")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout_seconds", 30)
	v.SetDefault("verify_tls", true)
	v.SetDefault("history_type", "none")
	v.SetDefault("history_path", "./data/history.db")
	v.SetDefault("history_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("history_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if isConfigKey(key) {
				if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
					bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
				}
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid timeout_seconds (must not be negative)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	if cfg.HistoryTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid history_ttl_seconds (must be positive seconds)")
	}
	if cfg.HistoryCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid history_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.HistoryTTL = time.Duration(cfg.HistoryTTLSeconds) * time.Second
	cfg.HistoryCleanupInterval = time.Duration(cfg.HistoryCleanupSeconds) * time.Second

	return &cfg, nil
}

var configKeys = map[string]struct{}{
	"log_level":                        {},
	"profiles_file":                    {},
	"sinks_file":                       {},
	"base_url":                         {},
	"timeout_seconds":                  {},
	"verify_tls":                       {},
	"history_type":                     {},
	"history_path":                     {},
	"history_ttl_seconds":              {},
	"history_cleanup_interval_seconds": {},
}

func isConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}
