package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: test
clickhouse:
  host: localhost
`

func TestLoadAppliesModelDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultModelConfig()
	if cfg.Model != def {
		t.Fatalf("model defaults not applied: %+v", cfg.Model)
	}
	if len(cfg.Personas) == 0 {
		t.Fatal("default personas missing")
	}
	if cfg.Cache.ForecastTTL == 0 {
		t.Fatal("default forecast TTL missing")
	}
}

func TestLoadRejectsBadSmoothingConstant(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
model:
  alpha: 1.5
`))
	if err == nil {
		t.Fatal("alpha outside (0,1) must be rejected")
	}
}

func TestLoadRejectsUnknownAlertSeverity(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
alerts:
  - id: r1
    condition: churn_risk_above
    severity: extreme
    action: email
`))
	if err == nil {
		t.Fatal("unknown severity must be rejected")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("CLICKHOUSE_HOST", "warehouse.internal")
	t.Setenv("PERSONAS", "contractor,reseller")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ClickHouse.Host != "warehouse.internal" {
		t.Fatalf("host = %q", cfg.ClickHouse.Host)
	}
	if len(cfg.Personas) != 2 || cfg.Personas[1] != "reseller" {
		t.Fatalf("personas = %v", cfg.Personas)
	}
}
