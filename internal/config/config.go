package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the settings read from transcheck.yaml.
type Config struct {
	Root       string   `yaml:"root"`
	Exclude    []string `yaml:"exclude"`
	Workers    int      `yaml:"workers"`
	Format     string   `yaml:"format"`
	OutputFile string   `yaml:"output_file"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Root: "src/assets/i18n",
		Exclude: []string{
			".git/",
			"node_modules/",
			"*.tmp.json",
			".DS_Store",
		},
		Workers: runtime.NumCPU() * 2,
		Format:  FormatText,
	}
}

// LoadConfig reads a YAML config file. A missing file yields DefaultConfig;
// keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize Exclude slice if nil (explicit empty list in the file)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings and fills in a default worker count.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("invalid format %q: must be %q or %q", c.Format, FormatText, FormatJSON)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d: must not be negative", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU() * 2
	}
	if c.Root == "" {
		return fmt.Errorf("root must not be empty")
	}
	return nil
}
