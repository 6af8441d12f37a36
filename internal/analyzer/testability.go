package analyzer

import (
	"github.com/ludo-technologies/tscan/internal/constants"
	"github.com/ludo-technologies/tscan/internal/parser"
)

// FunctionScore holds the analysis result for a single function
type FunctionScore struct {
	Name          string      `json:"name" yaml:"name"`
	LineNumber    int         `json:"line_number" yaml:"line_number"`
	BaselineScore int         `json:"baseline_score" yaml:"baseline_score"`
	FinalScore    int         `json:"final_score" yaml:"final_score"`
	Violations    []Violation `json:"violations" yaml:"violations"`
}

// ClassScore holds the analysis result for a class: its constructor's
// violations plus the scores of its other methods
type ClassScore struct {
	Name                  string          `json:"name" yaml:"name"`
	LineNumber            int             `json:"line_number" yaml:"line_number"`
	ConstructorViolations []Violation     `json:"constructor_violations" yaml:"constructor_violations"`
	MethodScores          []FunctionScore `json:"method_scores" yaml:"method_scores"`
}

// ConstructorScore derives a score from the constructor violations, or the
// baseline when the constructor is clean
func (c *ClassScore) ConstructorScore() int {
	penalty := 0
	for _, v := range c.ConstructorViolations {
		penalty += v.PointsDeducted
	}
	score := constants.BaselineScore - penalty
	if score < constants.MinScore {
		return constants.MinScore
	}
	return score
}

// FileScore is the complete analysis result for one file
type FileScore struct {
	FilePath       string          `json:"file_path" yaml:"file_path"`
	OverallScore   int             `json:"overall_score" yaml:"overall_score"`
	Classification string          `json:"classification" yaml:"classification"`
	FunctionScores []FunctionScore `json:"function_scores" yaml:"function_scores"`
	ClassScores    []ClassScore    `json:"class_scores" yaml:"class_scores"`
	RedFlags       []Violation     `json:"red_flags" yaml:"red_flags"`
}

// AllViolations flattens every violation recorded in the file, including
// method and constructor violations
func (f *FileScore) AllViolations() []Violation {
	var all []Violation
	for _, fn := range f.FunctionScores {
		all = append(all, fn.Violations...)
	}
	for _, cls := range f.ClassScores {
		all = append(all, cls.ConstructorViolations...)
		for _, m := range cls.MethodScores {
			all = append(all, m.Violations...)
		}
	}
	return all
}

// ParseErrorScore is the result recorded for a file that could not be parsed
func ParseErrorScore(filePath string) *FileScore {
	return &FileScore{
		FilePath:       filePath,
		OverallScore:   0,
		Classification: "Parse Error",
		FunctionScores: []FunctionScore{},
		ClassScores:    []ClassScore{},
		RedFlags:       []Violation{},
	}
}

// TestabilityAnalyzer runs the full pipeline for one file: rule evaluation
// over the syntax tree, scoring, and classification
type TestabilityAnalyzer struct {
	registry   *RuleRegistry
	calculator *ScoreCalculator
	classifier *ThresholdClassifier
}

// NewTestabilityAnalyzer creates an analyzer with the default rules, scoring,
// and bands
func NewTestabilityAnalyzer() *TestabilityAnalyzer {
	return &TestabilityAnalyzer{
		registry:   NewRuleRegistry(),
		calculator: NewScoreCalculator(),
		classifier: NewThresholdClassifier(),
	}
}

// NewTestabilityAnalyzerWithRegistry creates an analyzer using a custom rule
// registry, keeping the default scoring and bands
func NewTestabilityAnalyzerWithRegistry(registry *RuleRegistry) *TestabilityAnalyzer {
	return &TestabilityAnalyzer{
		registry:   registry,
		calculator: NewScoreCalculator(),
		classifier: NewThresholdClassifier(),
	}
}

// Registry exposes the analyzer's rule registry
func (a *TestabilityAnalyzer) Registry() *RuleRegistry {
	return a.registry
}

// Classifier exposes the analyzer's threshold classifier
func (a *TestabilityAnalyzer) Classifier() *ThresholdClassifier {
	return a.classifier
}

// Calculator exposes the analyzer's score calculator
func (a *TestabilityAnalyzer) Calculator() *ScoreCalculator {
	return a.calculator
}

// Analyze evaluates every rule against the module tree and aggregates the
// results into a FileScore. The file score is the worst score among top-level
// functions, methods, and penalized constructors; a file with none of those
// keeps the baseline.
func (a *TestabilityAnalyzer) Analyze(root *parser.Node, filePath string) *FileScore {
	ctx := BuildContext(root)

	functionScores := a.analyzeFunctions(root, ctx)
	classScores := a.analyzeClasses(root, ctx)

	var allScores []int
	for _, fn := range functionScores {
		allScores = append(allScores, fn.FinalScore)
	}
	for _, cls := range classScores {
		for _, m := range cls.MethodScores {
			allScores = append(allScores, m.FinalScore)
		}
		if len(cls.ConstructorViolations) > 0 {
			allScores = append(allScores, cls.ConstructorScore())
		}
	}

	overall := a.calculator.AggregateFileScore(allScores)

	redFlags := []Violation{}
	for _, fn := range functionScores {
		for _, v := range fn.Violations {
			if v.IsRedFlag {
				redFlags = append(redFlags, v)
			}
		}
	}
	for _, cls := range classScores {
		redFlags = append(redFlags, cls.ConstructorViolations...)
	}

	return &FileScore{
		FilePath:       filePath,
		OverallScore:   overall,
		Classification: a.classifier.ClassifyFileScore(overall),
		FunctionScores: functionScores,
		ClassScores:    classScores,
		RedFlags:       redFlags,
	}
}

// evaluateAll runs every registered rule against one node
func (a *TestabilityAnalyzer) evaluateAll(node *parser.Node, ctx *AnalysisContext) []Violation {
	var violations []Violation
	for _, rule := range a.registry.AllRules() {
		violations = append(violations, rule.Evaluate(node, ctx)...)
	}
	return violations
}

func (a *TestabilityAnalyzer) scoreFunction(node *parser.Node, violations []Violation) FunctionScore {
	return FunctionScore{
		Name:          node.Name,
		LineNumber:    node.Location.StartLine,
		BaselineScore: a.calculator.Baseline(),
		FinalScore:    a.calculator.CalculateFinalScore(violations),
		Violations:    violations,
	}
}

// analyzeFunctions scores the module's top-level functions. Methods are
// handled through their classes so they are not counted twice.
func (a *TestabilityAnalyzer) analyzeFunctions(root *parser.Node, ctx *AnalysisContext) []FunctionScore {
	scores := []FunctionScore{}
	for _, stmt := range root.Body {
		if !isFunctionNode(stmt) {
			continue
		}
		violations := a.evaluateAll(stmt, ctx)
		scores = append(scores, a.scoreFunction(stmt, violations))
	}
	return scores
}

// analyzeClasses scores every class definition in the file, including classes
// nested inside functions or other classes. Constructor rules see both the
// class definition and its init method; remaining methods are scored like
// functions.
func (a *TestabilityAnalyzer) analyzeClasses(root *parser.Node, ctx *AnalysisContext) []ClassScore {
	scores := []ClassScore{}
	root.Walk(func(n *parser.Node) bool {
		if n.Type != parser.NodeClassDef {
			return true
		}

		constructorViolations := a.evaluateAll(n, ctx)
		var methodScores []FunctionScore

		for _, item := range n.Body {
			if !isFunctionNode(item) {
				continue
			}
			if item.Name == "__init__" {
				constructorViolations = append(constructorViolations, a.evaluateAll(item, ctx)...)
				continue
			}
			violations := a.evaluateAll(item, ctx)
			methodScores = append(methodScores, a.scoreFunction(item, violations))
		}

		scores = append(scores, ClassScore{
			Name:                  n.Name,
			LineNumber:            n.Location.StartLine,
			ConstructorViolations: constructorViolations,
			MethodScores:          methodScores,
		})
		return true
	})
	return scores
}
