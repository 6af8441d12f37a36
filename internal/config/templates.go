package config

import "strconv"

// ProjectType represents the type of Python project
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeWeb     ProjectType = "web"
	ProjectTypeData    ProjectType = "data"
	ProjectTypeLibrary ProjectType = "library"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds configuration presets for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds score gates for different strictness levels
type StrictnessPreset struct {
	MinScoreGate  int
	AllowRedFlags bool
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{
				"**/*.py",
			},
			ExcludePatterns: []string{
				"**/venv/**",
				"**/.venv/**",
				"**/__pycache__/**",
				"**/build/**",
				"**/dist/**",
			},
		},
		ProjectTypeWeb: {
			IncludePatterns: []string{
				"**/*.py",
			},
			ExcludePatterns: []string{
				"**/venv/**",
				"**/.venv/**",
				"**/__pycache__/**",
				"**/migrations/**",
				"**/static/**",
				"**/build/**",
				"**/dist/**",
			},
		},
		ProjectTypeData: {
			IncludePatterns: []string{
				"**/*.py",
			},
			ExcludePatterns: []string{
				"**/venv/**",
				"**/.venv/**",
				"**/__pycache__/**",
				"**/notebooks/**",
				"**/data/**",
				"**/build/**",
				"**/dist/**",
			},
		},
		ProjectTypeLibrary: {
			IncludePatterns: []string{
				"**/*.py",
			},
			ExcludePatterns: []string{
				"**/venv/**",
				"**/.venv/**",
				"**/__pycache__/**",
				"**/docs/**",
				"**/examples/**",
				"**/build/**",
				"**/dist/**",
				"**/*.egg-info/**",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MinScoreGate:  40,
			AllowRedFlags: true,
		},
		StrictnessStandard: {
			MinScoreGate:  DefaultMinScoreGate,
			AllowRedFlags: false,
		},
		StrictnessStrict: {
			MinScoreGate:  80,
			AllowRedFlags: false,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as JSONC
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	projectPresets := GetProjectPresets()
	strictnessPresets := GetStrictnessPresets()

	preset := projectPresets[projectType]
	strict := strictnessPresets[strictness]

	// Build include patterns string
	includePatterns := formatJSONArray(preset.IncludePatterns)
	excludePatterns := formatJSONArray(preset.ExcludePatterns)

	return `{
  // tscan Configuration
  // Documentation: https://github.com/ludo-technologies/tscan

  // ============================================================================
  // TESTABILITY ANALYSIS
  // ============================================================================
  // Scores how hard each function and file is to test, starting from a
  // baseline of 100 and deducting points per detected anti-pattern
  "testability": {
    // Enable/disable testability analysis
    "enabled": true,

    // Minimum file score for the check command to pass (0-100)
    // Files scoring below this value fail CI gating
    "min_score_gate": ` + strconv.Itoa(strict.MinScoreGate) + `,

    // Allow red-flag violations (constructor side effects, global state
    // mutation, time usage, mixed I/O, exception-driven control flow)
    // without failing the check command
    "allow_red_flags": ` + strconv.FormatBool(strict.AllowRedFlags) + `,

    // Rule names to skip entirely, e.g. ["Low Observability"]
    "exclude_rules": [],

    // Analyze test files (test_*.py, *_test.py, conftest.py)
    "include_tests": false
  },

  // ============================================================================
  // OUTPUT SETTINGS
  // ============================================================================
  "output": {
    // Output format: "text", "json", "yaml", "csv"
    "format": "text",

    // Show per-rule score breakdown and refactoring suggestions
    "show_details": false,

    // Sort results by: "score", "name", "location", "violations"
    "sort_by": "score",

    // Report only files scoring at or below this value (0 = report all)
    "min_score": 0
  },

  // ============================================================================
  // ANALYSIS SCOPE
  // ============================================================================
  // Controls which files are analyzed
  "analysis": {
    // File patterns to include (glob patterns)
    "include_patterns": ` + includePatterns + `,

    // File patterns to exclude (glob patterns)
    "exclude_patterns": ` + excludePatterns + `,

    // Recurse into subdirectories
    "recursive": true,

    // Follow symbolic links while collecting files
    "follow_symlinks": false
  }
}
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `{
  // tscan Configuration (minimal)
  // See full options: https://github.com/ludo-technologies/tscan

  "testability": {
    "enabled": true,
    "min_score_gate": 70,
    "allow_red_flags": false
  },

  "output": {
    "format": "text",
    "sort_by": "score"
  },

  "analysis": {
    "include_patterns": ["**/*.py"],
    "exclude_patterns": ["**/venv/**", "**/__pycache__/**"]
  }
}
`
}

// formatJSONArray formats a string slice as a JSON array with proper indentation
func formatJSONArray(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	result := "[\n"
	for i, item := range items {
		result += `      "` + item + `"`
		if i < len(items)-1 {
			result += ","
		}
		result += "\n"
	}
	result += "    ]"
	return result
}
