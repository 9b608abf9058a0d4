package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultFields is the ordered column selection exported when the caller
// supplies none. It covers the acquisition parameters the clinic tracks for
// CBCT dose statistics.
var DefaultFields = []string{
	"AccessionNumber", "SeriesInstanceUID", "StudyDate", "StudyTime",
	"PatientBirthDate", "PatientSex",
	"KVP", "XRayTubeCurrent", "ExposureTime", "AcquiredImageAreaDoseProduct",
	"Columns", "Rows", "PixelSpacing", "ImagesInAcquisition", "SliceThickness",
	"Manufacturer", "StationName", "ManufacturerModelName",
	"ImageComments",
}

// Config represents the complete application configuration
type Config struct {
	Extract ExtractConfig `yaml:"extract" envconfig:"EXTRACT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// ExtractConfig contains the extraction pipeline configuration
type ExtractConfig struct {
	InputDir   string   `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`
	OutputFile string   `yaml:"output_file" envconfig:"OUTPUT_FILE" validate:"required"`
	Format     string   `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx"`
	Fields     []string `yaml:"fields" envconfig:"FIELDS" validate:"min=1,dive,required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load builds the configuration in layers: defaults, then an optional YAML
// file, then CBCT_* environment variables. Validation is deferred to
// Validate so that CLI flags can still override loaded values.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := cfg.loadFromFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables take precedence over the file
	if err := envconfig.Process("CBCT", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// Validate fills derivable fields and checks the configuration after all
// overrides have been applied.
func (c *Config) Validate() error {
	if c.Extract.Format == "" {
		c.Extract.Format = InferFormat(c.Extract.OutputFile)
	}
	if len(c.Extract.Fields) == 0 {
		c.Extract.Fields = append([]string(nil), DefaultFields...)
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// InferFormat derives the output format from the output file extension,
// defaulting to csv.
func InferFormat(outputFile string) string {
	if strings.EqualFold(filepath.Ext(outputFile), ".xlsx") {
		return "xlsx"
	}
	return "csv"
}

// loadFromFile overlays configuration from a YAML file
func (c *Config) loadFromFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// findConfigFile returns the path to the config file
func findConfigFile() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			Format: "csv",
			Fields: append([]string(nil), DefaultFields...),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/cbctstats.log",
		},
	}
}
