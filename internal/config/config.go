package config

import (
	"fmt"
	"time"

	"github.com/Dan9191/taxflow/internal/tax"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port             string        `mapstructure:"port"`
	DBDriver         string        `mapstructure:"db_driver"`
	DBConn           string        `mapstructure:"db_conn"`
	LogLevel         string        `mapstructure:"log_level"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	Regime           string        `mapstructure:"tax_regime"`
	Rounding         string        `mapstructure:"tax_rounding"`
	ProfileRetention time.Duration `mapstructure:"profile_retention"`
	PurgeSchedule    string        `mapstructure:"purge_schedule"`
	SMTPHost         string        `mapstructure:"smtp_host"`
	SMTPPort         string        `mapstructure:"smtp_port"`
	SMTPUsername     string        `mapstructure:"smtp_username"`
	SMTPPassword     string        `mapstructure:"smtp_password"`
	SenderEmail      string        `mapstructure:"sender_email"`
}

var defaults = map[string]any{
	"port":              "8080",
	"db_driver":         "postgres",
	"db_conn":           "host=localhost port=5436 user=test password=test dbname=taxflow sslmode=disable",
	"log_level":         "INFO",
	"jwt_secret":        "secret",
	"tax_regime":        tax.DefaultRegime,
	"tax_rounding":      "half-even",
	"profile_retention": "0s",
	"purge_schedule":    "@daily",
	"smtp_host":         "localhost",
	"smtp_port":         "25",
	"smtp_username":     "",
	"smtp_password":     "",
	"sender_email":      "taxflow@localhost",
}

// NewConfig loads configuration from environment variables and, when
// TAXFLOW_CONFIG names a file, from that YAML file. Environment wins.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.AllowEmptyEnv(true)
	for key, val := range defaults {
		v.SetDefault(key, val)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}
	if err := v.BindEnv("config_file", "TAXFLOW_CONFIG"); err != nil {
		return nil, fmt.Errorf("binding config file: %w", err)
	}
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if _, err := tax.LookupRegime(c.Regime); err != nil {
		return fmt.Errorf("TAX_REGIME: %w", err)
	}
	if _, err := tax.ParseRoundingMode(c.Rounding); err != nil {
		return fmt.Errorf("TAX_ROUNDING: %w", err)
	}
	if c.ProfileRetention < 0 {
		return fmt.Errorf("PROFILE_RETENTION must not be negative")
	}
	return nil
}

// Calculator builds the tax calculator selected by Regime and Rounding.
func (c *Config) Calculator() (*tax.Calculator, error) {
	regime, err := tax.LookupRegime(c.Regime)
	if err != nil {
		return nil, err
	}
	mode, err := tax.ParseRoundingMode(c.Rounding)
	if err != nil {
		return nil, err
	}
	return tax.NewCalculator(regime, tax.WithRounding(mode))
}
