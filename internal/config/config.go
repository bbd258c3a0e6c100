// Package config loads and validates the pipeline configuration.
//
// Configuration merges three sources in increasing precedence: built-in
// defaults, an optional YAML file, and PANEL_-prefixed environment
// variables. Validation is strict and runs at startup: an invalid threshold
// or window silently corrupts every downstream row, so it is the one class
// of problem that aborts the run rather than degrading to missing values.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"panelcli/pkg/contracts/domain"
)

// Config is the complete pipeline configuration.
type Config struct {
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Thresholds ThresholdsConfig `yaml:"thresholds" envconfig:"THRESHOLDS"`
	Prenatal   PrenatalConfig   `yaml:"prenatal" envconfig:"PRENATAL"`
	Waves      []int            `yaml:"waves" envconfig:"WAVES"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// PathsConfig locates the raw extracts and output directory.
type PathsConfig struct {
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"data/raw" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data/panel" validate:"required"`
}

// ThresholdsConfig holds the scoring thresholds. The binary K10 cutoff and
// the prenatal severe cutoff are distinct semantic thresholds and stay
// independently configurable.
type ThresholdsConfig struct {
	K10Binary   int `yaml:"k10_binary" envconfig:"K10_BINARY" default:"20" validate:"min=10,max=50"`
	MinK10Items int `yaml:"min_k10_items" envconfig:"MIN_K10_ITEMS" default:"8" validate:"min=1,max=10"`
}

// PrenatalConfig holds the in-utero exposure parameters.
type PrenatalConfig struct {
	WindowMonths    float64 `yaml:"window_months" envconfig:"WINDOW_MONTHS" default:"9" validate:"gt=0,lte=12"`
	SevereThreshold int     `yaml:"severe_threshold" envconfig:"SEVERE_THRESHOLD" default:"30" validate:"min=10,max=50"`
	MinBirthYear    int     `yaml:"min_birth_year" envconfig:"MIN_BIRTH_YEAR" default:"1900" validate:"min=1800"`
	FieldworkEnd    string  `yaml:"fieldwork_end" envconfig:"FIELDWORK_END"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

// Load builds the configuration from defaults, the optional YAML file at
// path (empty string skips it), and PANEL_ environment variables, then
// validates it. Any validation failure is fatal to the run by design.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PANEL", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if len(cfg.Waves) == 0 {
		cfg.Waves = []int{1, 2, 3}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// envconfig fills built-in defaults into every unset field, so each field
// checks its own variable to tell an explicit override apart from a default
// the file should replace.
func mergeConfigs(fileConfig, envConfig Config) Config {
	envSet := func(name string) bool {
		_, ok := os.LookupEnv(name)
		return ok
	}

	if fileConfig.Paths.InputDir != "" && !envSet("PANEL_PATHS_INPUT_DIR") {
		envConfig.Paths.InputDir = fileConfig.Paths.InputDir
	}
	if fileConfig.Paths.OutputDir != "" && !envSet("PANEL_PATHS_OUTPUT_DIR") {
		envConfig.Paths.OutputDir = fileConfig.Paths.OutputDir
	}
	if fileConfig.Thresholds.K10Binary != 0 && !envSet("PANEL_THRESHOLDS_K10_BINARY") {
		envConfig.Thresholds.K10Binary = fileConfig.Thresholds.K10Binary
	}
	if fileConfig.Thresholds.MinK10Items != 0 && !envSet("PANEL_THRESHOLDS_MIN_K10_ITEMS") {
		envConfig.Thresholds.MinK10Items = fileConfig.Thresholds.MinK10Items
	}
	if fileConfig.Prenatal.WindowMonths != 0 && !envSet("PANEL_PRENATAL_WINDOW_MONTHS") {
		envConfig.Prenatal.WindowMonths = fileConfig.Prenatal.WindowMonths
	}
	if fileConfig.Prenatal.SevereThreshold != 0 && !envSet("PANEL_PRENATAL_SEVERE_THRESHOLD") {
		envConfig.Prenatal.SevereThreshold = fileConfig.Prenatal.SevereThreshold
	}
	if fileConfig.Prenatal.MinBirthYear != 0 && !envSet("PANEL_PRENATAL_MIN_BIRTH_YEAR") {
		envConfig.Prenatal.MinBirthYear = fileConfig.Prenatal.MinBirthYear
	}
	if fileConfig.Prenatal.FieldworkEnd != "" && !envSet("PANEL_PRENATAL_FIELDWORK_END") {
		envConfig.Prenatal.FieldworkEnd = fileConfig.Prenatal.FieldworkEnd
	}
	if len(fileConfig.Waves) > 0 && !envSet("PANEL_WAVES") {
		envConfig.Waves = fileConfig.Waves
	}
	if fileConfig.Logging.Level != "" && !envSet("PANEL_LOGGING_LEVEL") {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && !envSet("PANEL_LOGGING_FORMAT") {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	return envConfig
}

// Validate applies the struct tags plus the cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	seen := make(map[int]bool)
	for _, w := range c.Waves {
		if w < 1 {
			return fmt.Errorf("wave numbers must be positive, got %d", w)
		}
		if seen[w] {
			return fmt.Errorf("duplicate wave %d", w)
		}
		seen[w] = true
	}

	if _, err := c.FieldworkEnd(); err != nil {
		return err
	}
	return nil
}

// FieldworkEnd parses the configured fieldwork end date; zero when unset.
func (c *Config) FieldworkEnd() (time.Time, error) {
	if c.Prenatal.FieldworkEnd == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.Prenatal.FieldworkEnd)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse fieldwork_end: %w", err)
	}
	return t, nil
}

// WaveList converts the configured wave numbers to domain waves.
func (c *Config) WaveList() []domain.Wave {
	waves := make([]domain.Wave, len(c.Waves))
	for i, w := range c.Waves {
		waves[i] = domain.Wave(w)
	}
	return waves
}
