package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/tscan/domain"
)

// TestabilityUseCase orchestrates the testability analysis workflow
type TestabilityUseCase struct {
	service      domain.TestabilityService
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
	fileHelper   *FileHelper
}

// NewTestabilityUseCase creates a new testability use case
func NewTestabilityUseCase(
	service domain.TestabilityService,
	formatter domain.OutputFormatter,
	configLoader domain.ConfigurationLoader,
) *TestabilityUseCase {
	return &TestabilityUseCase{
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		fileHelper:   NewFileHelper(),
	}
}

// Execute performs the complete testability analysis workflow and writes the
// formatted report to the request's writer
func (uc *TestabilityUseCase) Execute(ctx context.Context, req domain.TestabilityRequest) error {
	response, err := uc.Analyze(ctx, req)
	if err != nil {
		return err
	}

	if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}

	return nil
}

// Analyze resolves the request's paths and runs the analysis without writing
// a report, for callers that consume the response directly
func (uc *TestabilityUseCase) Analyze(ctx context.Context, req domain.TestabilityRequest) (*domain.TestabilityResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}

	if !includeTests(req) {
		files = uc.fileHelper.FilterTestFiles(files)
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Python files found in the specified paths", nil)
	}

	req.Paths = files

	response, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, domain.NewAnalysisError("testability analysis failed", err)
	}

	return response, nil
}

// AnalyzeFile analyzes a single file
func (uc *TestabilityUseCase) AnalyzeFile(ctx context.Context, filePath string, req domain.TestabilityRequest) (*domain.TestabilityResponse, error) {
	if !uc.fileHelper.IsValidPythonFile(filePath) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a valid Python file: %s", filePath), nil)
	}

	exists, err := uc.fileHelper.FileExists(filePath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(filePath, fmt.Errorf("file does not exist"))
	}

	req.Paths = []string{filePath}

	return uc.service.Analyze(ctx, req)
}

// validateRequest validates the testability request
func (uc *TestabilityUseCase) validateRequest(req domain.TestabilityRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.MinScore < 0 || req.MinScore > 100 {
		return fmt.Errorf("min score must be between 0 and 100")
	}

	switch req.SortBy {
	case "", domain.SortByScore, domain.SortByName, domain.SortByLocation, domain.SortByViolations:
	default:
		return fmt.Errorf("invalid sort criteria: %s", req.SortBy)
	}

	return nil
}

func includeTests(req domain.TestabilityRequest) bool {
	return req.IncludeTests != nil && *req.IncludeTests
}

// TestabilityUseCaseBuilder provides a builder pattern for creating TestabilityUseCase
type TestabilityUseCaseBuilder struct {
	service      domain.TestabilityService
	formatter    domain.OutputFormatter
	configLoader domain.ConfigurationLoader
	fileHelper   *FileHelper
}

// NewTestabilityUseCaseBuilder creates a new builder
func NewTestabilityUseCaseBuilder() *TestabilityUseCaseBuilder {
	return &TestabilityUseCaseBuilder{}
}

// WithService sets the testability service
func (b *TestabilityUseCaseBuilder) WithService(service domain.TestabilityService) *TestabilityUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *TestabilityUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *TestabilityUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *TestabilityUseCaseBuilder) WithConfigLoader(loader domain.ConfigurationLoader) *TestabilityUseCaseBuilder {
	b.configLoader = loader
	return b
}

// WithFileHelper sets the file helper
func (b *TestabilityUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *TestabilityUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the TestabilityUseCase with the configured dependencies
func (b *TestabilityUseCaseBuilder) Build() (*TestabilityUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("testability service is required")
	}

	uc := &TestabilityUseCase{
		service:      b.service,
		formatter:    b.formatter,
		configLoader: b.configLoader,
		fileHelper:   b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}

// UseCaseOptions provides configuration options for the use case
type UseCaseOptions struct {
	EnableProgress   bool
	ProgressInterval time.Duration
	MaxConcurrency   int
	TimeoutPerFile   time.Duration
}

// DefaultUseCaseOptions returns default options
func DefaultUseCaseOptions() UseCaseOptions {
	return UseCaseOptions{
		EnableProgress:   true,
		ProgressInterval: 100 * time.Millisecond,
		MaxConcurrency:   4,
		TimeoutPerFile:   30 * time.Second,
	}
}

// WriteOutput is a helper interface for writing output
type WriteOutput interface {
	Write(writer io.Writer, response *domain.TestabilityResponse, format domain.OutputFormat) error
}
