package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models ws.yml.
type Config struct {
	Organization struct {
		Name        string `yaml:"name"`
		CompanySize int    `yaml:"company_size"`
	} `yaml:"organization"`
	Generation struct {
		Seed       uint64 `yaml:"seed"`
		WindowDays int    `yaml:"window_days"`
	} `yaml:"generation"`
	Database struct {
		Path       string `yaml:"path"`
		ResetOnRun bool   `yaml:"reset_on_run"`
	} `yaml:"database"`
	Research struct {
		Dir string `yaml:"dir"`
	} `yaml:"research"`
	Server struct {
		Addr     string `yaml:"addr"`
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
}

const maxCompanySize = 20000

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Organization.CompanySize < 0 {
		return fmt.Errorf("config.organization.company_size must not be negative")
	}
	if c.Organization.CompanySize > maxCompanySize {
		return fmt.Errorf("config.organization.company_size must not exceed %d", maxCompanySize)
	}
	if c.Generation.WindowDays < 1 {
		return fmt.Errorf("config.generation.window_days must be at least 1")
	}
	if c.Generation.WindowDays > 3650 {
		return fmt.Errorf("config.generation.window_days must not exceed 3650")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config.server.addr is required")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "ws.yml")
}

// Default returns the built-in config.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(defaultTemplate), &cfg); err != nil {
		panic(fmt.Sprintf("default config template: %v", err))
	}
	return &cfg
}

// GenerateDefault returns the default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// LoadOptional returns the built-in defaults if no ws.yml exists in the
// workspace.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes. Omitted
// sections keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `organization:
  # Empty name picks a company profile at random; company_size 0 samples a
  # headcount between 5000 and 10000.
  name: ""
  company_size: 0

generation:
  seed: 42
  window_days: 180

database:
  # Empty path stores the database under <workspace>/.worksim/worksim.db.
  path: ""
  reset_on_run: false

research:
  # Directory of benchmark and corpus YAML overrides; empty uses the
  # embedded defaults.
  dir: ""

server:
  addr: 127.0.0.1:8642
  base_path: /api/v1
`
