package analyzer

import (
	"strings"

	"github.com/ludo-technologies/tscan/internal/parser"
)

// Violation represents a single testability finding
type Violation struct {
	RuleName       string `json:"rule_name" yaml:"rule_name"`
	Description    string `json:"description" yaml:"description"`
	PointsDeducted int    `json:"points_deducted" yaml:"points_deducted"`
	LineNumber     int    `json:"line_number" yaml:"line_number"`
	FunctionName   string `json:"function_name" yaml:"function_name"`
	IsRedFlag      bool   `json:"is_red_flag" yaml:"is_red_flag"`
}

// Rule evaluates a function or class node against one testability concern.
// Implementations hold only immutable lookup data and are safe for
// concurrent use.
type Rule interface {
	// Name returns the rule's display name
	Name() string

	// PenaltyPoints returns the points deducted per violation
	PenaltyPoints() int

	// Evaluate inspects a definition node and returns any violations found.
	// Nodes of a kind the rule does not apply to yield no violations.
	Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation
}

// isFunctionNode reports whether the node is a sync or async function definition
func isFunctionNode(node *parser.Node) bool {
	if node == nil {
		return false
	}
	return node.Type == parser.NodeFunctionDef || node.Type == parser.NodeAsyncFunctionDef
}

// nameTokens splits an identifier into lowercase alphanumeric tokens
func nameTokens(name string) []string {
	lowered := strings.ToLower(name)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// containsToken reports whether any token equals one of the given words
func containsToken(tokens []string, words ...string) bool {
	for _, token := range tokens {
		for _, word := range words {
			if token == word {
				return true
			}
		}
	}
	return false
}

// topLevelModule returns the first segment of a dotted module path
func topLevelModule(module string) string {
	if idx := strings.Index(module, "."); idx >= 0 {
		return module[:idx]
	}
	return module
}
