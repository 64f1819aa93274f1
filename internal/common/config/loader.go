// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"costguard/internal/common/errors"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like COSTGUARD_RATEBOOK_PATH
	viper.SetEnvPrefix("costguard")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overrides, ignored if not present
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, errors.NewConfigInvalidError(err.Error())
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, errors.NewConfigInvalidError(err.Error())
	}

	return &cfg, nil
}

// loadEnvFile tries .env in the usual run locations before falling back to
// the process environment.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "costguard"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}
	if cfg.Engines.SoftMatchVariancePercent == 0 {
		cfg.Engines.SoftMatchVariancePercent = 8
	}
	if cfg.Engines.ExactMatchTolerance == 0 {
		cfg.Engines.ExactMatchTolerance = 0.01
	}
	if cfg.Engines.TaxTrapBandLowPercent == 0 {
		cfg.Engines.TaxTrapBandLowPercent = 4
	}
	if cfg.Engines.TaxTrapBandHighPercent == 0 {
		cfg.Engines.TaxTrapBandHighPercent = 12
	}
	if cfg.Engines.QuantityTolerancePercent == 0 {
		cfg.Engines.QuantityTolerancePercent = 10
	}
	if cfg.Ratebook.Region == "" {
		cfg.Ratebook.Region = "us-national"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Engines.SoftMatchVariancePercent < 0 || cfg.Engines.SoftMatchVariancePercent > 100 {
		return fmt.Errorf("engines.soft_match_variance_percent must be between 0 and 100, got %v",
			cfg.Engines.SoftMatchVariancePercent)
	}
	if cfg.Engines.ExactMatchTolerance < 0 {
		return fmt.Errorf("engines.exact_match_tolerance must not be negative, got %v",
			cfg.Engines.ExactMatchTolerance)
	}
	if cfg.Engines.TaxTrapBandLowPercent >= cfg.Engines.TaxTrapBandHighPercent {
		return fmt.Errorf("engines.tax_trap_band_low_percent (%v) must be below tax_trap_band_high_percent (%v)",
			cfg.Engines.TaxTrapBandLowPercent, cfg.Engines.TaxTrapBandHighPercent)
	}
	if cfg.Engines.QuantityTolerancePercent < 0 {
		return fmt.Errorf("engines.quantity_tolerance_percent must not be negative, got %v",
			cfg.Engines.QuantityTolerancePercent)
	}
	return nil
}
