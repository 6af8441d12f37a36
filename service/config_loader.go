package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/tscan/domain"
	"github.com/ludo-technologies/tscan/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.TestabilityRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToTestabilityRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration, first checking for a
// discoverable config file
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.TestabilityRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return c.convertToTestabilityRequest(cfg)
	}

	// Fall back to hardcoded default configuration
	cfg = config.DefaultConfig()
	return c.convertToTestabilityRequest(cfg)
}

// FindDefaultConfigFile searches for a default configuration file
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	// List of possible config file names in order of preference
	configFiles := []string{
		"tscan.config.json",
		".tscanrc.json",
		".tscanrc",
		"tscan.yaml",
		"tscan.yml",
		".tscan.toml",
		".tscan.yml",
		"tscan.json",
		".tscan.json",
	}

	// Check current directory
	for _, file := range configFiles {
		if _, err := os.Stat(file); err == nil {
			return file
		}
	}

	// Check parent directories up to root
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, file := range configFiles {
			configPath := filepath.Join(currentDir, file)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move to parent directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// MergeConfig merges CLI flags with configuration file
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.TestabilityRequest, override *domain.TestabilityRequest) *domain.TestabilityRequest {
	// Start with base configuration
	merged := *base

	// Override with non-zero values from override
	// Always override paths as they come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	// Output configuration
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	// Only override if values differ from defaults
	if override.ShowDetails {
		merged.ShowDetails = override.ShowDetails
	}

	// Filtering and sorting - override if non-default
	if override.MinScore > 0 {
		merged.MinScore = override.MinScore
	}

	if override.SortBy != "" && override.SortBy != domain.SortByScore {
		merged.SortBy = override.SortBy
	}

	if override.IncludeTests != nil {
		merged.IncludeTests = override.IncludeTests
	}

	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}

	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	// Config path is always from override if provided
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// convertToTestabilityRequest converts a Config to TestabilityRequest
func (c *ConfigurationLoaderImpl) convertToTestabilityRequest(cfg *config.Config) *domain.TestabilityRequest {
	return &domain.TestabilityRequest{
		// Paths are set by the caller, not from config
		Paths: []string{},

		// Output settings
		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,
		SortBy:       domain.SortCriteria(cfg.Output.SortBy),
		MinScore:     cfg.Output.MinScore,

		// Analysis settings
		Recursive:       cfg.Analysis.Recursive,
		IncludeTests:    domain.BoolPtr(cfg.Testability.IncludeTests),
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
	}
}

// ValidateConfig validates the configuration
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.TestabilityRequest) error {
	if req.MinScore < 0 || req.MinScore > 100 {
		return fmt.Errorf("min_score must be between 0 and 100, got %d", req.MinScore)
	}

	// Validate output format
	validFormats := map[domain.OutputFormat]bool{
		domain.OutputFormatText: true,
		domain.OutputFormatJSON: true,
		domain.OutputFormatYAML: true,
		domain.OutputFormatCSV:  true,
	}

	if !validFormats[req.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml, csv)",
			req.OutputFormat)
	}

	// Validate sort criteria
	validSort := map[domain.SortCriteria]bool{
		domain.SortByScore:      true,
		domain.SortByName:       true,
		domain.SortByLocation:   true,
		domain.SortByViolations: true,
	}

	if !validSort[req.SortBy] {
		return fmt.Errorf("invalid sort criteria: %s (must be one of: score, name, location, violations)",
			req.SortBy)
	}

	return nil
}
