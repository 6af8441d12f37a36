package service

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/ludo-technologies/tscan/domain"
	"github.com/ludo-technologies/tscan/internal/analyzer"
	"github.com/ludo-technologies/tscan/internal/config"
	"github.com/ludo-technologies/tscan/internal/parser"
	"github.com/ludo-technologies/tscan/internal/version"
)

// FormatVersion identifies the report schema emitted by this build
const FormatVersion = "1.0"

// ToolDisplayName is the report-facing name of the analyzer
const ToolDisplayName = "Testability Analyzer"

// TestabilityServiceImpl implements the TestabilityService interface
type TestabilityServiceImpl struct {
	config   *config.TestabilityConfig
	progress domain.ProgressManager
}

// NewTestabilityService creates a new testability service implementation
func NewTestabilityService(cfg *config.TestabilityConfig) *TestabilityServiceImpl {
	return &TestabilityServiceImpl{
		config: cfg,
	}
}

// NewTestabilityServiceWithProgress creates a new testability service with progress reporting
func NewTestabilityServiceWithProgress(cfg *config.TestabilityConfig, pm domain.ProgressManager) *TestabilityServiceImpl {
	return &TestabilityServiceImpl{
		config:   cfg,
		progress: pm,
	}
}

// fileAnalysisTask scores one file as a unit of parallel work
type fileAnalysisTask struct {
	service  *TestabilityServiceImpl
	analyzer *analyzer.TestabilityAnalyzer
	path     string
	req      domain.TestabilityRequest
	results  []*domain.FileResult
	index    int
}

func (t *fileAnalysisTask) Name() string { return t.path }

func (t *fileAnalysisTask) IsEnabled() bool { return true }

func (t *fileAnalysisTask) Execute(ctx context.Context) (interface{}, error) {
	result, err := t.service.analyzeFile(t.analyzer, t.path, t.req)
	t.results[t.index] = result
	return result, err
}

// Analyze performs testability analysis on multiple files
func (s *TestabilityServiceImpl) Analyze(ctx context.Context, req domain.TestabilityRequest) (*domain.TestabilityResponse, error) {
	var warnings []string
	var errors []string

	a := s.buildAnalyzer()

	results := make([]*domain.FileResult, len(req.Paths))
	tasks := make([]domain.ExecutableTask, len(req.Paths))
	for i, filePath := range req.Paths {
		tasks[i] = &fileAnalysisTask{
			service:  s,
			analyzer: a,
			path:     filePath,
			req:      req,
			results:  results,
			index:    i,
		}
	}

	executor := NewParallelExecutorWithProgress(DefaultMaxConcurrency, DefaultTimeout, s.progress)
	if execErr := executor.Execute(ctx, tasks); execErr != nil {
		if aggregated, ok := execErr.(*AggregatedError); ok {
			for _, taskErr := range aggregated.Errors {
				errors = append(errors, taskErr.Error())
			}
		} else {
			errors = append(errors, execErr.Error())
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("testability analysis cancelled: %w", err)
	}

	var files []domain.FileResult
	for _, result := range results {
		if result != nil {
			files = append(files, *result)
		}
	}

	if len(files) == 0 && len(errors) > 0 {
		return nil, domain.NewAnalysisError("no files could be analyzed", nil)
	}

	filtered := s.filterFiles(files, req)
	sorted := s.sortFiles(filtered, req.SortBy)
	summary := s.generateSummary(sorted)

	now := time.Now().Format(time.RFC3339)
	return &domain.TestabilityResponse{
		Metadata: domain.ReportMetadata{
			Tool:          ToolDisplayName,
			Version:       version.Version,
			Timestamp:     now,
			FormatVersion: FormatVersion,
		},
		Summary:     summary,
		Files:       sorted,
		Warnings:    warnings,
		Errors:      errors,
		GeneratedAt: now,
		Version:     version.Version,
		Config:      s.buildConfigForResponse(req),
	}, nil
}

// AnalyzeFile analyzes a single Python file
func (s *TestabilityServiceImpl) AnalyzeFile(ctx context.Context, filePath string, req domain.TestabilityRequest) (*domain.TestabilityResponse, error) {
	singleFileReq := req
	singleFileReq.Paths = []string{filePath}

	return s.Analyze(ctx, singleFileReq)
}

// buildAnalyzer constructs the analyzer, honoring configured rule exclusions
func (s *TestabilityServiceImpl) buildAnalyzer() *analyzer.TestabilityAnalyzer {
	if s.config != nil && len(s.config.ExcludeRules) > 0 {
		registry := analyzer.NewRuleRegistryExcluding(s.config.ExcludeRules)
		return analyzer.NewTestabilityAnalyzerWithRegistry(registry)
	}
	return analyzer.NewTestabilityAnalyzer()
}

// analyzeFile scores one file. A file that cannot be read produces an error
// and no result; a file that cannot be parsed produces an error plus a
// zero-score result so it still fails CI gating.
func (s *TestabilityServiceImpl) analyzeFile(a *analyzer.TestabilityAnalyzer, filePath string, req domain.TestabilityRequest) (*domain.FileResult, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("Failed to read file: %v", err)
	}

	root, err := parser.ParseSource(filePath, content)
	if err != nil {
		result := s.convertFileScore(analyzer.ParseErrorScore(filePath), a, req.ShowDetails)
		return result, fmt.Errorf("Failed to parse: %v", err)
	}

	score := a.Analyze(root, filePath)
	return s.convertFileScore(score, a, req.ShowDetails), nil
}

// convertFileScore maps the analyzer result onto the domain model
func (s *TestabilityServiceImpl) convertFileScore(score *analyzer.FileScore, a *analyzer.TestabilityAnalyzer, showDetails bool) *domain.FileResult {
	result := &domain.FileResult{
		Path:           score.FilePath,
		OverallScore:   score.OverallScore,
		Classification: score.Classification,
		RedFlags:       convertViolations(score.RedFlags),
		Functions:      make([]domain.FunctionScore, 0, len(score.FunctionScores)),
		Classes:        make([]domain.ClassScore, 0, len(score.ClassScores)),
	}

	for _, fn := range score.FunctionScores {
		result.Functions = append(result.Functions, s.convertFunctionScore(fn, a, showDetails))
	}

	for _, cls := range score.ClassScores {
		converted := domain.ClassScore{
			Name:                  cls.Name,
			LineNumber:            cls.LineNumber,
			ConstructorViolations: convertViolations(cls.ConstructorViolations),
			Methods:               make([]domain.FunctionScore, 0, len(cls.MethodScores)),
		}
		if len(cls.ConstructorViolations) > 0 {
			ctorScore := cls.ConstructorScore()
			converted.ConstructorScore = &ctorScore
		}
		for _, m := range cls.MethodScores {
			converted.Methods = append(converted.Methods, s.convertFunctionScore(m, a, showDetails))
		}
		result.Classes = append(result.Classes, converted)
	}

	if showDetails {
		result.ScoreBreakdown = s.buildScoreBreakdown(score, a)
	}

	return result
}

func (s *TestabilityServiceImpl) convertFunctionScore(fn analyzer.FunctionScore, a *analyzer.TestabilityAnalyzer, showDetails bool) domain.FunctionScore {
	converted := domain.FunctionScore{
		Name:          fn.Name,
		LineNumber:    fn.LineNumber,
		BaselineScore: fn.BaselineScore,
		FinalScore:    fn.FinalScore,
		Violations:    convertViolations(fn.Violations),
	}
	if showDetails {
		converted.Classification = a.Classifier().ClassifyFunctionScore(fn.FinalScore)
	}
	return converted
}

// buildScoreBreakdown accounts the file score from top-level function and
// constructor violations. Method violations stay local to their class and are
// not part of the file-level breakdown.
func (s *TestabilityServiceImpl) buildScoreBreakdown(score *analyzer.FileScore, a *analyzer.TestabilityAnalyzer) *domain.ScoreBreakdown {
	var violations []analyzer.Violation
	for _, fn := range score.FunctionScores {
		violations = append(violations, fn.Violations...)
	}
	for _, cls := range score.ClassScores {
		violations = append(violations, cls.ConstructorViolations...)
	}

	raw := a.Calculator().GetScoreBreakdown(violations)

	byRule := make(map[string]domain.RuleViolations, len(raw.ViolationsByRule))
	for rule, entry := range raw.ViolationsByRule {
		details := make([]domain.ViolationDetail, 0, len(entry.Violations))
		for _, v := range entry.Violations {
			details = append(details, domain.ViolationDetail{
				Line:        v.Line,
				Function:    v.Function,
				Description: v.Description,
				Points:      v.Points,
			})
		}
		byRule[rule] = domain.RuleViolations{
			Count:       entry.Count,
			TotalPoints: entry.TotalPoints,
			Violations:  details,
		}
	}

	// Deductions are reported relative to the file score, which is capped at
	// zero even when the raw point total exceeds the baseline
	deductions := raw.Baseline - score.OverallScore
	if deductions < 0 {
		deductions = 0
	}

	return &domain.ScoreBreakdown{
		BaselineScore:    raw.Baseline,
		TotalDeductions:  deductions,
		ViolationsByRule: byRule,
		RedFlagCount:     raw.RedFlagCount,
		FinalScore:       score.OverallScore,
	}
}

func convertViolations(violations []analyzer.Violation) []domain.Violation {
	converted := make([]domain.Violation, 0, len(violations))
	for _, v := range violations {
		converted = append(converted, domain.Violation{
			RuleName:       v.RuleName,
			Description:    v.Description,
			PointsDeducted: v.PointsDeducted,
			LineNumber:     v.LineNumber,
			FunctionName:   v.FunctionName,
			IsRedFlag:      v.IsRedFlag,
		})
	}
	return converted
}

// filterFiles keeps only files scoring at or below the requested ceiling
func (s *TestabilityServiceImpl) filterFiles(files []domain.FileResult, req domain.TestabilityRequest) []domain.FileResult {
	if req.MinScore <= 0 {
		return files
	}

	var filtered []domain.FileResult
	for _, file := range files {
		if file.OverallScore <= req.MinScore {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

// sortFiles sorts results based on the specified criteria
func (s *TestabilityServiceImpl) sortFiles(files []domain.FileResult, sortBy domain.SortCriteria) []domain.FileResult {
	sorted := make([]domain.FileResult, len(files))
	copy(sorted, files)

	switch sortBy {
	case domain.SortByName, domain.SortByLocation:
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Path < sorted[j].Path
		})
	case domain.SortByViolations:
		sort.Slice(sorted, func(i, j int) bool {
			return countReportedViolations(&sorted[i]) > countReportedViolations(&sorted[j])
		})
	default:
		// Worst score first
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].OverallScore != sorted[j].OverallScore {
				return sorted[i].OverallScore < sorted[j].OverallScore
			}
			return sorted[i].Path < sorted[j].Path
		})
	}

	return sorted
}

// countReportedViolations counts the violations that feed the file score:
// top-level function violations plus constructor violations
func countReportedViolations(file *domain.FileResult) int {
	count := 0
	for _, fn := range file.Functions {
		count += len(fn.Violations)
	}
	for _, cls := range file.Classes {
		count += len(cls.ConstructorViolations)
	}
	return count
}

// generateSummary aggregates statistics across all reported files
func (s *TestabilityServiceImpl) generateSummary(files []domain.FileResult) domain.TestabilitySummary {
	summary := domain.TestabilitySummary{
		TotalFiles:      len(files),
		Classifications: make(map[string]int),
	}

	if len(files) == 0 {
		return summary
	}

	total := 0
	minimum := files[0].OverallScore
	maximum := files[0].OverallScore

	for i := range files {
		file := &files[i]
		summary.TotalFunctions += len(file.Functions)
		summary.TotalClasses += len(file.Classes)
		summary.TotalViolations += countReportedViolations(file)
		summary.TotalRedFlags += len(file.RedFlags)
		summary.Classifications[file.Classification]++

		total += file.OverallScore
		if file.OverallScore < minimum {
			minimum = file.OverallScore
		}
		if file.OverallScore > maximum {
			maximum = file.OverallScore
		}
	}

	average := float64(total) / float64(len(files))
	summary.ScoreStatistics = domain.ScoreStatistics{
		Average: math.Round(average*10) / 10,
		Minimum: minimum,
		Maximum: maximum,
	}

	return summary
}

// buildConfigForResponse builds the configuration section for the response
func (s *TestabilityServiceImpl) buildConfigForResponse(req domain.TestabilityRequest) map[string]interface{} {
	cfg := map[string]interface{}{
		"sort_by":   req.SortBy,
		"min_score": req.MinScore,
	}
	if s.config != nil {
		cfg["min_score_gate"] = s.config.MinScoreGate
		cfg["allow_red_flags"] = s.config.AllowRedFlags
		cfg["exclude_rules"] = s.config.ExcludeRules
	}
	return cfg
}
