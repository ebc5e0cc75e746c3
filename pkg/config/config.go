// Package config reads application configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Extract ExtractConfig
	Report  ReportConfig
	Logging LoggingConfig
}

// ExtractConfig controls PDF rasterization and chart decoding.
type ExtractConfig struct {
	DPI          float64 // rasterization resolution, must match the calibration
	AllowRescale bool    // rescale pages that differ from the calibration reference
}

// ReportConfig controls aggregation thresholds and report output.
type ReportConfig struct {
	OutputDir     string
	OvertimeLimit float64 // daily hours above which work counts as overtime
	RestLimit24h  float64 // rest-violation threshold for the 24h window
	RestLimit7d   float64 // rest-violation threshold for the 7d window
	Month         int     // month for the positional average report, 0 = first record's month
	Format        string  // "excel", "csv" or "both"
	Charts        bool    // render bar charts alongside the tables
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string // "debug", "info", "warn" or "error"
	JSON  bool
}

// Report output formats.
const (
	FormatExcel = "excel"
	FormatCSV   = "csv"
	FormatBoth  = "both"
)

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Extract: ExtractConfig{
			DPI:          getEnvAsFloat("WATCHKEEPER_DPI", 200),
			AllowRescale: getEnvAsBool("WATCHKEEPER_ALLOW_RESCALE", false),
		},
		Report: ReportConfig{
			OutputDir:     getEnv("WATCHKEEPER_OUTPUT_DIR", "./reports"),
			OvertimeLimit: getEnvAsFloat("WATCHKEEPER_OVERTIME_LIMIT", 8),
			RestLimit24h:  getEnvAsFloat("WATCHKEEPER_REST_LIMIT_24H", 10),
			RestLimit7d:   getEnvAsFloat("WATCHKEEPER_REST_LIMIT_7D", 77),
			Month:         getEnvAsInt("WATCHKEEPER_REPORT_MONTH", 0),
			Format:        getEnv("WATCHKEEPER_REPORT_FORMAT", FormatBoth),
			Charts:        getEnvAsBool("WATCHKEEPER_CHARTS", true),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			JSON:  getEnvAsBool("LOG_JSON", false),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Report.Format {
	case FormatExcel, FormatCSV, FormatBoth:
	default:
		return fmt.Errorf("invalid report format %q, want %q, %q or %q",
			c.Report.Format, FormatExcel, FormatCSV, FormatBoth)
	}
	if c.Report.Month < 0 || c.Report.Month > 12 {
		return fmt.Errorf("invalid report month %d, want 1-12 or 0 for automatic", c.Report.Month)
	}
	if c.Extract.DPI <= 0 {
		return fmt.Errorf("invalid DPI %v, must be positive", c.Extract.DPI)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
