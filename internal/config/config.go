package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default scoring thresholds
const (
	// DefaultMinScoreGate is the file score below which the check command
	// fails. Files at or above this score pass.
	DefaultMinScoreGate = 70

	// DefaultReportMinScore reports every file regardless of score
	DefaultReportMinScore = 0
)

// Config represents the main configuration structure
type Config struct {
	// Testability holds testability analysis configuration
	Testability TestabilityConfig `json:"testability" mapstructure:"testability" yaml:"testability"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds general analysis configuration
	Analysis AnalysisConfig `json:"analysis,omitempty" mapstructure:"analysis" yaml:"analysis"`
}

// TestabilityConfig holds configuration for testability analysis
type TestabilityConfig struct {
	// Enabled controls whether testability analysis is performed
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// MinScoreGate is the file score below which the check command fails
	MinScoreGate int `json:"min_score_gate" mapstructure:"min_score_gate" yaml:"min_score_gate"`

	// AllowRedFlags controls whether the check command tolerates red flags
	AllowRedFlags bool `json:"allow_red_flags" mapstructure:"allow_red_flags" yaml:"allow_red_flags"`

	// ExcludeRules lists rule names to skip during analysis
	ExcludeRules []string `json:"exclude_rules" mapstructure:"exclude_rules" yaml:"exclude_rules"`

	// IncludeTests controls whether test files are analyzed
	IncludeTests bool `json:"include_tests" mapstructure:"include_tests" yaml:"include_tests"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to show detailed breakdown
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// SortBy specifies how to sort results: score, name, location, violations
	SortBy string `json:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`

	// MinScore reports only files scoring at or below this value; 0 reports all
	MinScore int `json:"min_score" mapstructure:"min_score" yaml:"min_score"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// FollowSymlinks controls whether to follow symbolic links
	FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Testability: TestabilityConfig{
			Enabled:       true,
			MinScoreGate:  DefaultMinScoreGate,
			AllowRedFlags: false,
			ExcludeRules:  []string{},
			IncludeTests:  false,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
			SortBy:      "score",
			MinScore:    DefaultReportMinScore,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{
				// Virtual environments
				"venv",
				".venv",
				"env",
				// Caches
				"__pycache__",
				".mypy_cache",
				".pytest_cache",
				".tox",
				// Build outputs
				"build",
				"dist",
				"*.egg-info",
				// Installed packages
				"site-packages",
				// Version control
				".git",
			},
			Recursive:      true,
			FollowSymlinks: false,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// discoverConfigFile finds the appropriate config file path
func discoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = discoverConfigFile(targetPath)
	}

	return loadConfigFromFile(configPath)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the path being analyzed (e.g., the Python file or directory).
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		"tscan.yaml",
		"tscan.yml",
		".tscan.toml",
		".tscan.yml",
		"tscan.json",
		".tscan.json",
	}

	// If targetPath is provided, search from there upward
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			// Search from target directory up to root with robust termination.
			// Handle Windows edge cases: volume roots (C:\), UNC paths.
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory (Linux/Mac standard)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "tscan"), candidates); config != "" {
			return config
		}
	}

	// Check ~/.config/tscan/ (XDG default)
	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", "tscan")
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}

		// Check home directory (backward compatibility)
		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	// Check TSCAN_CONFIG environment variable as fallback
	if envConfig := os.Getenv("TSCAN_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Testability.MinScoreGate < 0 || c.Testability.MinScoreGate > 100 {
		return fmt.Errorf("testability.min_score_gate must be between 0 and 100, got %d",
			c.Testability.MinScoreGate)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}

	validSortBy := map[string]bool{
		"score":      true,
		"name":       true,
		"location":   true,
		"violations": true,
	}

	if !validSortBy[c.Output.SortBy] {
		return fmt.Errorf("invalid output.sort_by '%s', must be one of: score, name, location, violations", c.Output.SortBy)
	}

	if c.Output.MinScore < 0 || c.Output.MinScore > 100 {
		return fmt.Errorf("output.min_score must be between 0 and 100, got %d", c.Output.MinScore)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	return nil
}

// IsRuleExcluded reports whether the named rule is disabled in configuration
func (c *TestabilityConfig) IsRuleExcluded(name string) bool {
	for _, excluded := range c.ExcludeRules {
		if excluded == name {
			return true
		}
	}
	return false
}

// PassesGate reports whether a file score meets the configured minimum
func (c *TestabilityConfig) PassesGate(score int) bool {
	return score >= c.MinScoreGate
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("testability", config.Testability)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}
