package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "crimelens/internal/errors"
)

// Config represents the complete application configuration. Every tunable
// the pipeline depends on lives here and is passed down explicitly; no
// package keeps mutable module-level state.
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Charts   ChartsConfig   `yaml:"charts" envconfig:"CHARTS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig describes where the raw incident file lives and where run
// artifacts are written.
type InputConfig struct {
	File      string `yaml:"file" envconfig:"FILE" default:"data/crimes.csv" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"results" validate:"required"`
}

// CleaningConfig contains the documented cleaning policy knobs.
type CleaningConfig struct {
	// Plausible human age range, inclusive. Ages outside it are treated
	// as missing, the row is retained for non-age aggregates.
	MinAge int `yaml:"min_age" envconfig:"MIN_AGE" default:"1" validate:"min=1"`
	MaxAge int `yaml:"max_age" envconfig:"MAX_AGE" default:"110" validate:"min=1,max=150"`
}

// AnalysisConfig contains aggregation parameters.
type AnalysisConfig struct {
	TopCrimeTypes int `yaml:"top_crime_types" envconfig:"TOP_CRIME_TYPES" default:"10" validate:"min=1"`
	TopNightAreas int `yaml:"top_night_areas" envconfig:"TOP_NIGHT_AREAS" default:"10" validate:"min=1"`
	// Hours counted as "night" for the night-crime area breakdown.
	NightHours []int `yaml:"night_hours" envconfig:"NIGHT_HOURS" default:"22,23,0,1,2,3" validate:"min=1,dive,min=0,max=23"`
}

// ChartsConfig controls rendered image dimensions (inches).
type ChartsConfig struct {
	Width  float64 `yaml:"width" envconfig:"WIDTH" default:"10" validate:"gt=0"`
	Height float64 `yaml:"height" envconfig:"HEIGHT" default:"6" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/crimereport.log"`
}

// Load builds the configuration from defaults, CRIMELENS_-prefixed
// environment variables and an optional YAML file, then validates it.
// File values take precedence over environment values.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Defaults come from the envconfig struct tags.
	if err := envconfig.Process("CRIMELENS", &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("config file not readable: %s", configFile), err)
		}
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file: %s", configFile), err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays non-zero file values on top of the env/default
// config.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	if fileConfig.Input.File != "" {
		merged.Input.File = fileConfig.Input.File
	}
	if fileConfig.Input.OutputDir != "" {
		merged.Input.OutputDir = fileConfig.Input.OutputDir
	}
	if fileConfig.Cleaning.MinAge != 0 {
		merged.Cleaning.MinAge = fileConfig.Cleaning.MinAge
	}
	if fileConfig.Cleaning.MaxAge != 0 {
		merged.Cleaning.MaxAge = fileConfig.Cleaning.MaxAge
	}
	if fileConfig.Analysis.TopCrimeTypes != 0 {
		merged.Analysis.TopCrimeTypes = fileConfig.Analysis.TopCrimeTypes
	}
	if fileConfig.Analysis.TopNightAreas != 0 {
		merged.Analysis.TopNightAreas = fileConfig.Analysis.TopNightAreas
	}
	if len(fileConfig.Analysis.NightHours) != 0 {
		merged.Analysis.NightHours = fileConfig.Analysis.NightHours
	}
	if fileConfig.Charts.Width != 0 {
		merged.Charts.Width = fileConfig.Charts.Width
	}
	if fileConfig.Charts.Height != 0 {
		merged.Charts.Height = fileConfig.Charts.Height
	}
	if fileConfig.Logging.Level != "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" {
		merged.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}

	return merged
}

// Validate checks structural constraints plus the cross-field rules the
// tag syntax cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if c.Cleaning.MaxAge <= c.Cleaning.MinAge {
		return apperrors.NewConfigError(
			fmt.Sprintf("max_age (%d) must be greater than min_age (%d)", c.Cleaning.MaxAge, c.Cleaning.MinAge), nil)
	}

	seen := make(map[int]bool, len(c.Analysis.NightHours))
	for _, h := range c.Analysis.NightHours {
		if seen[h] {
			return apperrors.NewConfigError(fmt.Sprintf("night_hours contains duplicate hour %d", h), nil)
		}
		seen[h] = true
	}

	return nil
}
