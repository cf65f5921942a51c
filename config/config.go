// Package config provides configuration loading and management for brdgen.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete brdgen configuration
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
}

// OutputConfig configures the generated document
type OutputConfig struct {
	// Title is the document title
	Title string `yaml:"title"`
	// Path is where the markdown document is written (empty = stdout)
	Path string `yaml:"path"`
	// IncludeReferences enables per-requirement evidence blocks
	IncludeReferences bool `yaml:"includeReferences"`
	// IncludeOpenQuestions enables the trailing open-questions section
	IncludeOpenQuestions bool `yaml:"includeOpenQuestions"`
}

// TaxonomyConfig configures the section taxonomy source
type TaxonomyConfig struct {
	// Path is the taxonomy configuration file (JSON)
	Path string `yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Title:                "Canonical Requirements",
			Path:                 "",
			IncludeReferences:    false,
			IncludeOpenQuestions: false,
		},
		Taxonomy: TaxonomyConfig{
			Path: "brd_sections.json",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Title == "" {
		return fmt.Errorf("output.title is required")
	}
	if c.Taxonomy.Path == "" {
		return fmt.Errorf("taxonomy.path is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Output
	if other.Output.Title != "" {
		c.Output.Title = other.Output.Title
	}
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}
	if other.Output.IncludeReferences {
		c.Output.IncludeReferences = true
	}
	if other.Output.IncludeOpenQuestions {
		c.Output.IncludeOpenQuestions = true
	}

	// Taxonomy
	if other.Taxonomy.Path != "" {
		c.Taxonomy.Path = other.Taxonomy.Path
	}
}
