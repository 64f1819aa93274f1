// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Engines  EnginesConfig  `mapstructure:"engines"`
	Ratebook RatebookConfig `mapstructure:"ratebook"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// EnginesConfig holds the safety thresholds shared by the engines. These are
// tunable but ship with the defaults the safety rules were calibrated
// against; changing them changes what the engines consider safe.
type EnginesConfig struct {
	SoftMatchVariancePercent float64 `mapstructure:"soft_match_variance_percent"`
	ExactMatchTolerance      float64 `mapstructure:"exact_match_tolerance"`
	TaxTrapBandLowPercent    float64 `mapstructure:"tax_trap_band_low_percent"`
	TaxTrapBandHighPercent   float64 `mapstructure:"tax_trap_band_high_percent"`
	QuantityTolerancePercent float64 `mapstructure:"quantity_tolerance_percent"`
}

// RatebookConfig points at the regional ratebook file. An empty path means
// the built-in national table is used.
type RatebookConfig struct {
	Path   string `mapstructure:"path"`
	Region string `mapstructure:"region"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
