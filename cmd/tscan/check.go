package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ludo-technologies/tscan/app"
	"github.com/ludo-technologies/tscan/domain"
	"github.com/ludo-technologies/tscan/internal/config"
	"github.com/ludo-technologies/tscan/internal/version"
	"github.com/ludo-technologies/tscan/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMinScore      int
	checkAllowRedFlags bool
	checkIncludeTests  bool
	checkVerbose       bool
	checkJSON          bool
	checkConfigPath    string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Fast testability gate for CI/CD pipelines",
		Long: `Run the testability gate against configurable thresholds for CI/CD integration.

Exit codes:
  0 - All checks pass
  1 - Quality threshold(s) violated
  2 - Analysis error (file not found, no files, etc.)

Examples:
  # Basic check with defaults
  tscan check src/

  # Strict score gate
  tscan check --min-score 85 src/

  # Tolerate red flags, gate on score only
  tscan check --allow-red-flags src/

  # JSON output for machine parsing
  tscan check --json src/`,
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().IntVar(&checkMinScore, "min-score", config.DefaultMinScoreGate,
		"Minimum file score required to pass (0-100)")
	cmd.Flags().BoolVar(&checkAllowRedFlags, "allow-red-flags", false,
		"Allow red-flag violations without failing")
	cmd.Flags().BoolVar(&checkIncludeTests, "include-tests", false,
		"Check test files and package init files too")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: 2, Message: "no paths specified"}
	}

	startTime := time.Now()

	// Load configuration
	cfg, err := config.LoadConfigWithTarget(checkConfigPath, args[0])
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	// Apply config values for flags not explicitly set on CLI
	if !cmd.Flags().Changed("min-score") {
		checkMinScore = cfg.Testability.MinScoreGate
	}
	if !cmd.Flags().Changed("allow-red-flags") {
		checkAllowRedFlags = cfg.Testability.AllowRedFlags
	}
	if !cmd.Flags().Changed("include-tests") {
		checkIncludeTests = cfg.Testability.IncludeTests
	}

	// Collect Python files (using exclude patterns from config)
	helper := app.NewFileHelper()
	files, err := helper.CollectPythonFiles(args, cfg.Analysis.Recursive, cfg.Analysis.IncludePatterns, cfg.Analysis.ExcludePatterns)
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to collect files: %v", err)}
	}
	if !checkIncludeTests {
		files = helper.FilterTestFiles(files)
	}

	if len(files) == 0 {
		return &CheckExitError{Code: 2, Message: "no Python files found"}
	}

	// Create progress manager (auto-disabled for JSON output or non-TTY/CI)
	pm := service.NewProgressManager(!checkJSON)
	defer pm.Close()

	// Initialize result
	result := &domain.CheckResult{
		Passed:     true,
		ExitCode:   0,
		Violations: []domain.CheckViolation{},
		Summary: domain.CheckSummary{
			FilesAnalyzed: len(files),
		},
	}

	svc := service.NewTestabilityServiceWithProgress(&cfg.Testability, pm)
	resp, err := svc.Analyze(context.Background(), domain.TestabilityRequest{
		Paths:  files,
		SortBy: domain.SortByScore,
	})
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("testability analysis failed: %v", err)}
	}

	checkScores(resp, result)
	checkRedFlags(resp, result)
	checkParseErrors(resp, result)

	return outputCheckResult(result, startTime)
}

// checkScores fails files scoring below the configured gate
func checkScores(resp *domain.TestabilityResponse, result *domain.CheckResult) {
	result.Summary.ScoreChecked = true

	for _, file := range resp.Files {
		if file.Classification == "Parse Error" {
			continue
		}
		if file.OverallScore < checkMinScore {
			result.Passed = false
			result.Summary.LowScoreFiles++
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "score",
				Rule:      "min-score",
				Severity:  "error",
				Message:   fmt.Sprintf("File '%s' scored %d (%s)", file.Path, file.OverallScore, file.Classification),
				Location:  file.Path,
				Actual:    strconv.Itoa(file.OverallScore),
				Threshold: strconv.Itoa(checkMinScore),
			})
		}
	}
}

// checkRedFlags fails on red-flag violations unless tolerated
func checkRedFlags(resp *domain.TestabilityResponse, result *domain.CheckResult) {
	result.Summary.RedFlagsChecked = true

	for _, file := range resp.Files {
		result.Summary.RedFlagCount += len(file.RedFlags)

		if checkAllowRedFlags {
			continue
		}

		for _, flag := range file.RedFlags {
			result.Passed = false
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  "redflags",
				Rule:      "no-red-flags",
				Severity:  "error",
				Message:   fmt.Sprintf("%s: %s", flag.RuleName, flag.Description),
				Location:  fmt.Sprintf("%s:%d", file.Path, flag.LineNumber),
				Actual:    flag.RuleName,
				Threshold: "none allowed",
			})
		}
	}
}

// checkParseErrors fails files that could not be parsed
func checkParseErrors(resp *domain.TestabilityResponse, result *domain.CheckResult) {
	for _, file := range resp.Files {
		if file.Classification != "Parse Error" {
			continue
		}
		result.Passed = false
		result.Summary.ParseErrors++
		result.Violations = append(result.Violations, domain.CheckViolation{
			Category: "parse",
			Rule:     "must-parse",
			Severity: "error",
			Message:  fmt.Sprintf("File '%s' could not be parsed", file.Path),
			Location: file.Path,
			Actual:   "syntax error",
		})
	}
}

func outputCheckResult(result *domain.CheckResult, startTime time.Time) error {
	result.Duration = time.Since(startTime).Milliseconds()
	result.GeneratedAt = time.Now().Format(time.RFC3339)
	result.Version = version.Version
	result.ExitCode = 0
	if !result.Passed {
		result.ExitCode = 1
	}
	result.Summary.TotalViolations = len(result.Violations)

	if checkJSON {
		return outputCheckJSON(result)
	}

	return outputCheckText(result)
}

func outputCheckText(result *domain.CheckResult) error {
	if result.Passed {
		fmt.Println("PASS: All quality checks passed")
		if checkVerbose {
			fmt.Printf("  Files analyzed: %d\n", result.Summary.FilesAnalyzed)
			fmt.Printf("  Duration: %dms\n", result.Duration)
			fmt.Printf("  Score gate: %d\n", checkMinScore)
			if checkAllowRedFlags {
				fmt.Printf("  Red flags: tolerated (%d found)\n", result.Summary.RedFlagCount)
			} else {
				fmt.Printf("  Red flags: checked\n")
			}
		}
		return nil
	}

	fmt.Println("FAIL: Quality check failed")
	fmt.Printf("  Violations: %d\n", result.Summary.TotalViolations)

	// Print violations
	for _, v := range result.Violations {
		severity := "ERROR"
		if v.Severity == "warning" {
			severity = "WARN"
		}
		fmt.Printf("  [%s] %s: %s\n", severity, v.Category, v.Message)
		if checkVerbose && v.Location != "" {
			fmt.Printf("         at %s\n", v.Location)
		}
	}

	if checkVerbose {
		fmt.Printf("\nSummary:\n")
		fmt.Printf("  Files: %d\n", result.Summary.FilesAnalyzed)
		fmt.Printf("  Low score files: %d\n", result.Summary.LowScoreFiles)
		fmt.Printf("  Red flags: %d\n", result.Summary.RedFlagCount)
		fmt.Printf("  Parse errors: %d\n", result.Summary.ParseErrors)
		fmt.Printf("  Duration: %dms\n", result.Duration)
	}

	return &CheckExitError{Code: 1, Message: ""}
}

func outputCheckJSON(result *domain.CheckResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
	}

	if !result.Passed {
		return &CheckExitError{Code: 1, Message: ""}
	}
	return nil
}
