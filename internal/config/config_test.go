package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %s", cfg.Timeout)
	}
	if !cfg.VerifyTLS {
		t.Fatalf("expected verify_tls default true")
	}
	if cfg.HistoryType != "none" {
		t.Fatalf("HistoryType = %q", cfg.HistoryType)
	}
	if cfg.HistoryTTL != 7*24*time.Hour {
		t.Fatalf("HistoryTTL = %s", cfg.HistoryTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RESTKIT_TIMEOUT_SECONDS", "5")
	t.Setenv("RESTKIT_VERIFY_TLS", "false")
	t.Setenv("RESTKIT_LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != 5*time.Second || cfg.VerifyTLS || cfg.LogLevel != "debug" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadFlagsWinOverEnv(t *testing.T) {
	t.Setenv("RESTKIT_BASE_URL", "http://env.test")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-url", "", "")
	flags.Int64("timeout-seconds", 30, "")
	flags.Bool("unrelated", false, "")
	if err := flags.Parse([]string{"--base-url", "http://flag.test", "--timeout-seconds", "9"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://flag.test" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 9*time.Second {
		t.Fatalf("Timeout = %s", cfg.Timeout)
	}
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	t.Setenv("RESTKIT_HISTORY_TTL_SECONDS", "0")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}
