package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/tscan/domain"
	"github.com/ludo-technologies/tscan/internal/analyzer"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	// ShowDetails enables verbose output: per-violation listings and
	// refactoring suggestions in the text format
	ShowDetails bool
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// NewOutputFormatterWithDetails creates a formatter with verbose output enabled
func NewOutputFormatterWithDetails(showDetails bool) *OutputFormatterImpl {
	return &OutputFormatterImpl{ShowDetails: showDetails}
}

// Score color bands for terminal output
var (
	healthyColor  = color.New(color.FgGreen)
	cautionColor  = color.New(color.FgYellow)
	frictionColor = color.New(color.FgMagenta)
	refactorColor = color.New(color.FgRed, color.Bold)
	redFlagColor  = color.New(color.FgRed, color.Bold)
)

// colorizeScore returns the score string colored by band
func colorizeScore(score int) string {
	s := strconv.Itoa(score)
	switch {
	case score >= 80:
		return healthyColor.Sprint(s)
	case score >= 60:
		return cautionColor.Sprint(s)
	case score >= 40:
		return frictionColor.Sprint(s)
	default:
		return refactorColor.Sprint(s)
	}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Format formats the analysis response according to the specified format
func (f *OutputFormatterImpl) Format(response *domain.TestabilityResponse, format domain.OutputFormat) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(response, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write writes the analysis response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.TestabilityResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return f.writeYAML(response, writer)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeYAML writes the response as YAML
func (f *OutputFormatterImpl) writeYAML(response *domain.TestabilityResponse, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()
	return encoder.Encode(response)
}

// writeCSV writes one record per file
func (f *OutputFormatterImpl) writeCSV(response *domain.TestabilityResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	defer w.Flush()

	header := []string{
		"path",
		"overall_score",
		"classification",
		"red_flags",
		"functions",
		"classes",
		"violations",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, file := range response.Files {
		violations := 0
		for _, fn := range file.Functions {
			violations += len(fn.Violations)
		}
		for _, cls := range file.Classes {
			violations += len(cls.ConstructorViolations)
		}

		rec := []string{
			file.Path,
			strconv.Itoa(file.OverallScore),
			file.Classification,
			strconv.Itoa(len(file.RedFlags)),
			strconv.Itoa(len(file.Functions)),
			strconv.Itoa(len(file.Classes)),
			strconv.Itoa(violations),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	return w.Error()
}

// writeText writes the human-readable report
func (f *OutputFormatterImpl) writeText(response *domain.TestabilityResponse, writer io.Writer) error {
	var sections []string

	sections = append(sections, f.formatHeader())
	sections = append(sections, f.formatSummary(&response.Summary))

	if f.ShowDetails && len(response.Files) > 1 {
		sections = append(sections, f.formatFileOverview(response.Files))
	}

	for i := range response.Files {
		sections = append(sections, f.formatFile(&response.Files[i]))
	}

	if len(response.Warnings) > 0 {
		sections = append(sections, f.formatIssueList("Warnings:", response.Warnings))
	}
	if len(response.Errors) > 0 {
		sections = append(sections, f.formatIssueList("Errors:", response.Errors))
	}

	sections = append(sections, f.formatFooter())

	_, err := fmt.Fprintln(writer, strings.Join(sections, "\n\n"))
	return err
}

func (f *OutputFormatterImpl) formatHeader() string {
	return "Testability Analysis Report\n" + strings.Repeat("=", 50)
}

func (f *OutputFormatterImpl) formatSummary(summary *domain.TestabilitySummary) string {
	var b strings.Builder
	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "  Files analyzed: %d\n", summary.TotalFiles)
	fmt.Fprintf(&b, "  Functions analyzed: %d\n", summary.TotalFunctions)
	fmt.Fprintf(&b, "  Classes analyzed: %d\n", summary.TotalClasses)
	fmt.Fprintf(&b, "  Average score: %.1f", summary.ScoreStatistics.Average)
	return b.String()
}

// formatFileOverview renders a compact ranking table across all files
func (f *OutputFormatterImpl) formatFileOverview(files []domain.FileResult) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.Header([]string{"Rank", "Path", "Score", "Classification", "Red Flags"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, file := range files {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			file.Path,
			strconv.Itoa(file.OverallScore),
			file.Classification,
			strconv.Itoa(len(file.RedFlags)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return ""
	}
	if err := table.Render(); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (f *OutputFormatterImpl) formatFile(file *domain.FileResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📁 %s\n", file.Path)
	fmt.Fprintf(&b, "Score: %s | Classification: %s\n", colorizeScore(file.OverallScore), file.Classification)

	if len(file.RedFlags) > 0 {
		b.WriteString("\n")
		b.WriteString(redFlagColor.Sprint("🚨 RED FLAGS:"))
		b.WriteString("\n")
		for _, v := range file.RedFlags {
			fmt.Fprintf(&b, "  • %s (line %d) - %s [-%d points]\n",
				v.RuleName, v.LineNumber, v.Description, v.PointsDeducted)
		}
	}

	if len(file.Functions) > 0 {
		b.WriteString("\nFunctions:\n")
		for _, fn := range file.Functions {
			fmt.Fprintf(&b, "  %s(): %s\n", fn.Name, colorizeScore(fn.FinalScore))
			if f.ShowDetails {
				f.writeViolationDetails(&b, fn.Violations)
			}
		}
	}

	if len(file.Classes) > 0 {
		b.WriteString("\nClasses:\n")
		for _, cls := range file.Classes {
			if len(cls.ConstructorViolations) > 0 {
				fmt.Fprintf(&b, "  %s (constructor):\n", cls.Name)
				for _, v := range cls.ConstructorViolations {
					fmt.Fprintf(&b, "    • %s (line %d) - %s [-%d points]\n",
						v.RuleName, v.LineNumber, v.Description, v.PointsDeducted)
				}
			}
			for _, m := range cls.Methods {
				fmt.Fprintf(&b, "  %s.%s(): %s\n", cls.Name, m.Name, colorizeScore(m.FinalScore))
				if f.ShowDetails {
					f.writeViolationDetails(&b, m.Violations)
				}
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// writeViolationDetails lists non-red-flag violations with refactoring hints
func (f *OutputFormatterImpl) writeViolationDetails(b *strings.Builder, violations []domain.Violation) {
	classifier := analyzer.NewThresholdClassifier()
	for _, v := range violations {
		if v.IsRedFlag {
			continue
		}
		fmt.Fprintf(b, "    • %s (line %d) - %s [-%d points]\n",
			v.RuleName, v.LineNumber, v.Description, v.PointsDeducted)
		suggestions := classifier.RefactoringSuggestions([]analyzer.Violation{{RuleName: v.RuleName}})
		for _, suggestion := range suggestions[v.RuleName] {
			fmt.Fprintf(b, "      - %s\n", suggestion)
		}
	}
}

func (f *OutputFormatterImpl) formatIssueList(title string, items []string) string {
	var b strings.Builder
	b.WriteString(title)
	for _, item := range items {
		b.WriteString("\n  - ")
		b.WriteString(item)
	}
	return b.String()
}

func (f *OutputFormatterImpl) formatFooter() string {
	footer := "Report generated by Testability Analyzer"
	if !f.ShowDetails {
		footer += "\nFor detailed refactoring suggestions, run with --verbose"
	}
	return footer
}
