package domain

// CheckResult represents the result of a quality gate run
type CheckResult struct {
	Passed      bool             `json:"passed"`
	ExitCode    int              `json:"exit_code"`
	Violations  []CheckViolation `json:"violations"`
	Summary     CheckSummary     `json:"summary"`
	Duration    int64            `json:"duration_ms"`
	GeneratedAt string           `json:"generated_at"`
	Version     string           `json:"version"`
}

// CheckViolation represents a single threshold violation
type CheckViolation struct {
	Category  string `json:"category"`            // score, redflags, parse
	Rule      string `json:"rule"`                // min-score, no-red-flags, etc.
	Severity  string `json:"severity"`            // error, warning
	Message   string `json:"message"`             // Human-readable description
	Location  string `json:"location,omitempty"`  // File:line if applicable
	Actual    string `json:"actual"`              // Actual value
	Threshold string `json:"threshold,omitempty"` // Configured threshold
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesAnalyzed   int  `json:"files_analyzed"`
	TotalViolations int  `json:"total_violations"`
	ScoreChecked    bool `json:"score_checked"`
	RedFlagsChecked bool `json:"redflags_checked"`
	LowScoreFiles   int  `json:"low_score_files"`
	RedFlagCount    int  `json:"red_flag_count"`
	ParseErrors     int  `json:"parse_errors"`
}
