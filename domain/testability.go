package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// SortCriteria represents the criteria for sorting results
type SortCriteria string

const (
	SortByScore      SortCriteria = "score"
	SortByName       SortCriteria = "name"
	SortByLocation   SortCriteria = "location"
	SortByViolations SortCriteria = "violations"
)

// TestabilityRequest represents a request for testability analysis
type TestabilityRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool

	// Filtering and sorting
	MinScore int // Only report files scoring at or below this value; 0 means no filter
	SortBy   SortCriteria

	// Configuration
	ConfigPath string

	// Analysis options
	Recursive       bool
	IncludeTests    *bool
	IncludePatterns []string
	ExcludePatterns []string
}

// BoolPtr returns a pointer to the given bool, for optional request fields
func BoolPtr(b bool) *bool {
	return &b
}

// Violation represents a single testability finding
type Violation struct {
	RuleName       string `json:"rule_name" yaml:"rule_name"`
	Description    string `json:"description" yaml:"description"`
	PointsDeducted int    `json:"points_deducted" yaml:"points_deducted"`
	LineNumber     int    `json:"line_number" yaml:"line_number"`
	FunctionName   string `json:"function_name" yaml:"function_name"`
	IsRedFlag      bool   `json:"is_red_flag" yaml:"is_red_flag"`
}

// FunctionScore represents the analysis result for a single function
type FunctionScore struct {
	Name           string      `json:"name" yaml:"name"`
	LineNumber     int         `json:"line_number" yaml:"line_number"`
	BaselineScore  int         `json:"baseline_score" yaml:"baseline_score"`
	FinalScore     int         `json:"final_score" yaml:"final_score"`
	Classification string      `json:"classification,omitempty" yaml:"classification,omitempty"`
	Violations     []Violation `json:"violations" yaml:"violations"`
}

// ClassScore represents the analysis result for a class
type ClassScore struct {
	Name                  string          `json:"name" yaml:"name"`
	LineNumber            int             `json:"line_number" yaml:"line_number"`
	ConstructorViolations []Violation     `json:"constructor_violations" yaml:"constructor_violations"`
	Methods               []FunctionScore `json:"methods" yaml:"methods"`

	// Derived score, present only when the constructor has violations
	ConstructorScore *int `json:"constructor_score,omitempty" yaml:"constructor_score,omitempty"`
}

// RuleViolations summarizes the violations of one rule in a score breakdown
type RuleViolations struct {
	Count       int               `json:"count" yaml:"count"`
	TotalPoints int               `json:"total_points" yaml:"total_points"`
	Violations  []ViolationDetail `json:"violations" yaml:"violations"`
}

// ViolationDetail is a compact violation entry used in score breakdowns
type ViolationDetail struct {
	Line        int    `json:"line" yaml:"line"`
	Function    string `json:"function" yaml:"function"`
	Description string `json:"description" yaml:"description"`
	Points      int    `json:"points" yaml:"points"`
}

// ScoreBreakdown explains how a file's final score was reached
type ScoreBreakdown struct {
	BaselineScore    int                       `json:"baseline_score" yaml:"baseline_score"`
	TotalDeductions  int                       `json:"total_deductions" yaml:"total_deductions"`
	ViolationsByRule map[string]RuleViolations `json:"violations_by_rule" yaml:"violations_by_rule"`
	RedFlagCount     int                       `json:"red_flag_count" yaml:"red_flag_count"`
	FinalScore       int                       `json:"final_score" yaml:"final_score"`
}

// FileResult represents the complete analysis result for one file
type FileResult struct {
	Path           string          `json:"path" yaml:"path"`
	OverallScore   int             `json:"overall_score" yaml:"overall_score"`
	Classification string          `json:"classification" yaml:"classification"`
	RedFlags       []Violation     `json:"red_flags" yaml:"red_flags"`
	Functions      []FunctionScore `json:"functions" yaml:"functions"`
	Classes        []ClassScore    `json:"classes" yaml:"classes"`

	// Present only when details were requested
	ScoreBreakdown *ScoreBreakdown `json:"score_breakdown,omitempty" yaml:"score_breakdown,omitempty"`
}

// ScoreStatistics represents aggregate score statistics across files
type ScoreStatistics struct {
	Average float64 `json:"average" yaml:"average"`
	Minimum int     `json:"minimum" yaml:"minimum"`
	Maximum int     `json:"maximum" yaml:"maximum"`
}

// TestabilitySummary represents aggregate statistics for a whole run
type TestabilitySummary struct {
	TotalFiles      int             `json:"total_files" yaml:"total_files"`
	TotalFunctions  int             `json:"total_functions" yaml:"total_functions"`
	TotalClasses    int             `json:"total_classes" yaml:"total_classes"`
	TotalViolations int             `json:"total_violations" yaml:"total_violations"`
	TotalRedFlags   int             `json:"total_red_flags" yaml:"total_red_flags"`
	ScoreStatistics ScoreStatistics `json:"score_statistics" yaml:"score_statistics"`

	// Classification name to file count
	Classifications map[string]int `json:"classifications" yaml:"classifications"`
}

// ReportMetadata identifies the tool run that produced a report
type ReportMetadata struct {
	Tool          string `json:"tool" yaml:"tool"`
	Version       string `json:"version" yaml:"version"`
	Timestamp     string `json:"timestamp" yaml:"timestamp"`
	FormatVersion string `json:"format_version" yaml:"format_version"`
}

// TestabilityResponse represents the complete analysis result
type TestabilityResponse struct {
	Metadata ReportMetadata     `json:"metadata" yaml:"metadata"`
	Summary  TestabilitySummary `json:"summary" yaml:"summary"`
	Files    []FileResult       `json:"files" yaml:"files"`

	// Warnings and issues
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata
	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Version     string      `json:"version" yaml:"version"`
	Config      interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// TestabilityService defines the core business logic for testability analysis
type TestabilityService interface {
	// Analyze performs testability analysis on the given request
	Analyze(ctx context.Context, req TestabilityRequest) (*TestabilityResponse, error)

	// AnalyzeFile analyzes a single Python file
	AnalyzeFile(ctx context.Context, filePath string, req TestabilityRequest) (*TestabilityResponse, error)
}

// FileReader defines the interface for reading and collecting files
type FileReader interface {
	// CollectPythonFiles recursively finds all Python files in the given paths
	CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidPythonFile checks if a file is a valid Python file
	IsValidPythonFile(path string) bool

	// FileExists checks if a file exists and returns an error if not
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting analysis results
type OutputFormatter interface {
	// Format formats the analysis response according to the specified format
	Format(response *TestabilityResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *TestabilityResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*TestabilityRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *TestabilityRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *TestabilityRequest, override *TestabilityRequest) *TestabilityRequest
}
