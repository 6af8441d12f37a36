package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/tscan/app"
	"github.com/ludo-technologies/tscan/domain"
	"github.com/ludo-technologies/tscan/internal/config"
	"github.com/ludo-technologies/tscan/service"
	"github.com/spf13/cobra"
)

var (
	analyzeFormat       string
	analyzeJSON         bool
	analyzeVerbose      bool
	analyzeMinScore     int
	analyzeSortBy       string
	analyzeIncludeTests bool
	analyzeConfigPath   string
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Analyze Python files for testability",
		Long: `Analyze Python files and score how hard each function and file is to test.

Every function starts from a baseline of 100 points and loses points for
each detected anti-pattern. A file's score is its worst function score.

Examples:
  tscan analyze src/
  tscan analyze --verbose src/
  tscan analyze --json src/
  tscan analyze --min-score 60 --sort violations src/`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text",
		"Output format: text, json, yaml, csv")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false,
		"Show score breakdowns and refactoring suggestions")
	cmd.Flags().IntVar(&analyzeMinScore, "min-score", 0,
		"Report only files scoring at or below this value (0 = report all)")
	cmd.Flags().StringVar(&analyzeSortBy, "sort", "score",
		"Sort results by: score, name, location, violations")
	cmd.Flags().BoolVar(&analyzeIncludeTests, "include-tests", false,
		"Analyze test files and package init files too")
	cmd.Flags().StringVarP(&analyzeConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	// Load configuration
	cfg, err := config.LoadConfigWithTarget(analyzeConfigPath, args[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Determine output format; explicit flags win over the config file
	format := domain.OutputFormat(cfg.Output.Format)
	if cmd.Flags().Changed("format") {
		format = domain.OutputFormat(analyzeFormat)
	}
	if analyzeJSON {
		format = domain.OutputFormatJSON
	}

	req := buildAnalyzeRequest(cmd, cfg, args, format)

	// Create progress manager (auto-disabled for machine-readable output)
	pm := service.NewProgressManager(format == domain.OutputFormatText)
	defer pm.Close()

	uc, err := app.NewTestabilityUseCaseBuilder().
		WithService(service.NewTestabilityServiceWithProgress(&cfg.Testability, pm)).
		WithFormatter(service.NewOutputFormatterWithDetails(req.ShowDetails)).
		WithConfigLoader(service.NewConfigurationLoader()).
		Build()
	if err != nil {
		return err
	}

	return uc.Execute(context.Background(), req)
}

// buildAnalyzeRequest merges config file values with CLI flags. Flags set
// explicitly on the command line win.
func buildAnalyzeRequest(cmd *cobra.Command, cfg *config.Config, paths []string, format domain.OutputFormat) domain.TestabilityRequest {
	req := domain.TestabilityRequest{
		Paths:           paths,
		OutputFormat:    format,
		OutputWriter:    os.Stdout,
		ShowDetails:     analyzeVerbose || cfg.Output.ShowDetails,
		MinScore:        cfg.Output.MinScore,
		SortBy:          domain.SortCriteria(cfg.Output.SortBy),
		ConfigPath:      analyzeConfigPath,
		Recursive:       cfg.Analysis.Recursive,
		IncludeTests:    domain.BoolPtr(cfg.Testability.IncludeTests),
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
	}

	if cmd.Flags().Changed("min-score") {
		req.MinScore = analyzeMinScore
	}
	if cmd.Flags().Changed("sort") {
		req.SortBy = domain.SortCriteria(analyzeSortBy)
	}
	if cmd.Flags().Changed("include-tests") {
		req.IncludeTests = domain.BoolPtr(analyzeIncludeTests)
	}
	if req.SortBy == "" {
		req.SortBy = domain.SortByScore
	}

	return req
}
