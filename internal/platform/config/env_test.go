package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	MaxDice int    `env:"ROLLBOT_TEST_MAX_DICE" envDefault:"123"`
	Locale  string `env:"ROLLBOT_TEST_LOCALE" envDefault:"en-US"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.MaxDice != 123 {
		t.Fatalf("expected default max dice 123, got %d", cfg.MaxDice)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("expected default locale en-US, got %q", cfg.Locale)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("ROLLBOT_TEST_LOCALE", "pt-BR")
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("expected locale pt-BR, got %q", cfg.Locale)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("ROLLBOT_TEST_MAX_DICE", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
