package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		ForecastTTL time.Duration `yaml:"forecast_ttl"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		AlertsTopic  string   `yaml:"alerts_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Model    ModelConfig `yaml:"model"`
	Personas []string    `yaml:"personas"`
	Stream   struct {
		RefreshInterval time.Duration `yaml:"refresh_interval"`
	} `yaml:"stream"`
	Alerts []AlertRuleConfig `yaml:"alerts"`
}

// ModelConfig carries the tuning constants of the forecast pipeline. It is
// loaded once and passed to the pipeline as an immutable value.
type ModelConfig struct {
	Alpha           float64 `yaml:"alpha"`
	Beta            float64 `yaml:"beta"`
	Gamma           float64 `yaml:"gamma"`
	EWMAAlpha       float64 `yaml:"ewma_alpha"`
	AROrder         int     `yaml:"ar_order"`
	SeasonalPeriod  int     `yaml:"seasonal_period"`
	ConfidenceLevel float64 `yaml:"confidence_level"`
	LookbackDays    int     `yaml:"lookback_days"`
	ChurnThreshold  float64 `yaml:"churn_threshold"`
	MinConfidence   float64 `yaml:"min_confidence"`
}

// AlertRuleConfig is the static, read-only definition of one alert rule.
type AlertRuleConfig struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Condition string  `yaml:"condition"`
	Threshold float64 `yaml:"threshold"`
	Severity  string  `yaml:"severity"`
	Action    string  `yaml:"action"`
	Enabled   bool    `yaml:"enabled"`
}

// DefaultModelConfig returns the tuning constants used when the config file
// leaves the model section empty.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Alpha:           0.3,
		Beta:            0.1,
		Gamma:           0.2,
		EWMAAlpha:       0.35,
		AROrder:         3,
		SeasonalPeriod:  7,
		ConfidenceLevel: 0.8,
		LookbackDays:    90,
		ChurnThreshold:  0.6,
		MinConfidence:   0.2,
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyModelDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_ALERTS_TOPIC"); v != "" {
		c.Kafka.AlertsTopic = v
	}
	if v := os.Getenv("PERSONAS"); v != "" {
		c.Personas = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyModelDefaults() {
	def := DefaultModelConfig()
	if c.Model.Alpha == 0 {
		c.Model.Alpha = def.Alpha
	}
	if c.Model.Beta == 0 {
		c.Model.Beta = def.Beta
	}
	if c.Model.Gamma == 0 {
		c.Model.Gamma = def.Gamma
	}
	if c.Model.EWMAAlpha == 0 {
		c.Model.EWMAAlpha = def.EWMAAlpha
	}
	if c.Model.AROrder == 0 {
		c.Model.AROrder = def.AROrder
	}
	if c.Model.SeasonalPeriod == 0 {
		c.Model.SeasonalPeriod = def.SeasonalPeriod
	}
	if c.Model.ConfidenceLevel == 0 {
		c.Model.ConfidenceLevel = def.ConfidenceLevel
	}
	if c.Model.LookbackDays == 0 {
		c.Model.LookbackDays = def.LookbackDays
	}
	if c.Model.ChurnThreshold == 0 {
		c.Model.ChurnThreshold = def.ChurnThreshold
	}
	if c.Model.MinConfidence == 0 {
		c.Model.MinConfidence = def.MinConfidence
	}
	if len(c.Personas) == 0 {
		c.Personas = []string{"contractor", "homeowner", "property_manager", "reseller"}
	}
	if c.Stream.RefreshInterval == 0 {
		c.Stream.RefreshInterval = 30 * time.Second
	}
	if c.Cache.ForecastTTL == 0 {
		c.Cache.ForecastTTL = 5 * time.Minute
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	m := c.Model
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"model.alpha", m.Alpha},
		{"model.beta", m.Beta},
		{"model.gamma", m.Gamma},
		{"model.ewma_alpha", m.EWMAAlpha},
	} {
		if v.val <= 0 || v.val >= 1 {
			return fmt.Errorf("%s must be in (0,1), got %v", v.name, v.val)
		}
	}
	if m.ConfidenceLevel <= 0 || m.ConfidenceLevel >= 1 {
		return fmt.Errorf("model.confidence_level must be in (0,1), got %v", m.ConfidenceLevel)
	}
	if m.AROrder < 1 {
		return fmt.Errorf("model.ar_order must be >= 1, got %d", m.AROrder)
	}
	if m.SeasonalPeriod < 2 {
		return fmt.Errorf("model.seasonal_period must be >= 2, got %d", m.SeasonalPeriod)
	}
	if m.LookbackDays < 1 {
		return fmt.Errorf("model.lookback_days must be >= 1, got %d", m.LookbackDays)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.AlertsTopic == "" {
		return fmt.Errorf("kafka.alerts_topic is required when kafka is enabled")
	}
	for i, r := range c.Alerts {
		if r.ID == "" {
			return fmt.Errorf("alerts[%d].id is required", i)
		}
		switch r.Severity {
		case "low", "medium", "high", "critical":
		default:
			return fmt.Errorf("alerts[%d].severity must be low|medium|high|critical, got %q", i, r.Severity)
		}
		switch r.Action {
		case "email", "hubspot", "webhook":
		default:
			return fmt.Errorf("alerts[%d].action must be email|hubspot|webhook, got %q", i, r.Action)
		}
	}
	return nil
}
