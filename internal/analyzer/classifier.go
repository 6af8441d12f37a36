package analyzer

// scoreBand is a named inclusive score range
type scoreBand struct {
	name string
	min  int
	max  int
}

// ThresholdClassifier maps scores into named bands and produces
// band-appropriate recommendations
type ThresholdClassifier struct {
	fileBands     []scoreBand
	functionBands []scoreBand
}

// NewThresholdClassifier creates a classifier with the default score bands
func NewThresholdClassifier() *ThresholdClassifier {
	return &ThresholdClassifier{
		fileBands: []scoreBand{
			{"Healthy", 80, 100},
			{"Caution", 60, 79},
			{"High Friction", 40, 59},
			{"Refactor First", 0, 39},
		},
		functionBands: []scoreBand{
			{"Easy", 75, 100},
			{"Testable", 55, 74},
			{"Hard", 35, 54},
			{"Painful", 0, 34},
		},
	}
}

func classify(bands []scoreBand, score int) string {
	for _, band := range bands {
		if score >= band.min && score <= band.max {
			return band.name
		}
	}
	return "Unknown"
}

// ClassifyFileScore places a file-level score into its band
func (c *ThresholdClassifier) ClassifyFileScore(score int) string {
	return classify(c.fileBands, score)
}

// ClassifyFunctionScore places a function-level score into its band
func (c *ThresholdClassifier) ClassifyFunctionScore(score int) string {
	return classify(c.functionBands, score)
}

var fileRecommendations = map[string][]string{
	"Healthy": {
		"Maintain current testability practices",
		"Consider adding more unit tests for edge cases",
		"Document any complex business logic",
	},
	"Caution": {
		"Review functions with low scores for refactoring opportunities",
		"Extract complex logic into separate, testable functions",
		"Reduce dependencies on external systems",
		"Add comprehensive unit tests",
	},
	"High Friction": {
		"Prioritize refactoring of functions with red flags",
		"Break down large functions into smaller, focused ones",
		"Eliminate global state mutations",
		"Separate I/O operations from business logic",
		"Consider dependency injection for better testability",
	},
	"Refactor First": {
		"Major refactoring required before adding new features",
		"Focus on eliminating structural red flags first",
		"Consider rewriting complex functions from scratch",
		"Implement comprehensive integration tests",
		"Establish testability guidelines for the team",
	},
}

var functionRecommendations = map[string][]string{
	"Easy": {
		"Function is well-structured and testable",
		"Add edge case tests if not already present",
	},
	"Testable": {
		"Consider reducing parameter count if > 5",
		"Extract any remaining complex logic",
		"Add more comprehensive test coverage",
	},
	"Hard": {
		"Refactor to reduce complexity",
		"Eliminate side effects and global state usage",
		"Separate concerns (I/O vs logic)",
		"Reduce branching complexity",
	},
	"Painful": {
		"Complete rewrite recommended",
		"Break into multiple smaller functions",
		"Eliminate all non-deterministic behavior",
		"Remove all side effects from business logic",
	},
}

// FileRecommendations returns the guidance for a file-level band
func (c *ThresholdClassifier) FileRecommendations(band string) []string {
	if recs, ok := fileRecommendations[band]; ok {
		return recs
	}
	return []string{"No specific recommendations available"}
}

// FunctionRecommendations returns the guidance for a function-level band
func (c *ThresholdClassifier) FunctionRecommendations(band string) []string {
	if recs, ok := functionRecommendations[band]; ok {
		return recs
	}
	return []string{"No specific recommendations available"}
}

// DetectRedFlags filters down to the red flag violations regardless of score
func (c *ThresholdClassifier) DetectRedFlags(violations []Violation) []Violation {
	var flagged []Violation
	for _, v := range violations {
		if redFlagRuleNames[v.RuleName] {
			flagged = append(flagged, v)
		}
	}
	return flagged
}

var refactoringSuggestions = map[string][]string{
	"External Dependency Count": {
		"Use dependency injection to make dependencies explicit",
		"Create interfaces for external systems",
		"Mock external dependencies in tests",
	},
	"Direct File I/O in Logic": {
		"Separate file operations from business logic",
		"Use repository pattern for data access",
		"Pass file handles as parameters instead of opening inside functions",
	},
	"Non-Deterministic Time Usage": {
		"Inject time as a parameter for testing",
		"Use time abstraction layer",
		"Avoid time-based logic in business rules",
	},
	"Randomness Usage": {
		"Inject random number generator as parameter",
		"Use deterministic seeds for testing",
		"Separate random logic from business logic",
	},
	"Global State Mutation": {
		"Use dependency injection instead of globals",
		"Create stateless functions when possible",
		"Encapsulate state in objects with clear interfaces",
	},
	"Mixed I/O and Logic": {
		"Separate I/O operations from business logic",
		"Use command/query separation pattern",
		"Create pure functions for business logic",
	},
	"Branch Explosion Risk": {
		"Extract complex conditions into separate functions",
		"Use strategy pattern for complex branching",
		"Consider lookup tables instead of complex conditionals",
	},
	"Exception-Driven Control Flow": {
		"Use return values or status codes instead of exceptions",
		"Validate inputs before processing",
		"Handle expected errors without exceptions",
	},
	"Constructor Side Effects": {
		"Move side effects to separate methods",
		"Use factory pattern for complex initialization",
		"Keep constructors simple and focused",
	},
	"Hidden Dependencies via Imports-in-Function": {
		"Move imports to module level",
		"Document all dependencies explicitly",
		"Use dependency injection for better testability",
	},
	"Excessive Parameter Count": {
		"Group related parameters into objects",
		"Use configuration objects for many options",
		"Consider method chaining for complex operations",
	},
	"Low Observability": {
		"Add meaningful return values",
		"Include logging for important operations",
		"Add assertions for critical invariants",
		"Make side effects explicit and observable",
	},
}

// RefactoringSuggestions maps each violated rule to its refactoring guidance
func (c *ThresholdClassifier) RefactoringSuggestions(violations []Violation) map[string][]string {
	result := make(map[string][]string)
	for _, v := range violations {
		if suggestions, ok := refactoringSuggestions[v.RuleName]; ok {
			result[v.RuleName] = suggestions
		}
	}
	return result
}
