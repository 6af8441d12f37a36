package constants

// Tool metadata
const (
	ToolName       = "tscan"
	ConfigFileName = ".tscan.toml"
	EnvVarPrefix   = "TSCAN"
)

// Scoring
const (
	// BaselineScore is the score every function starts from before deductions.
	BaselineScore = 100
	// MinScore is the floor a score is clamped to.
	MinScore = 0
)

// Analysis defaults
const (
	DefaultMaxConcurrency = 4
	DefaultMinScore       = 0
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// File discovery
const (
	PythonFileExt = ".py"
)
