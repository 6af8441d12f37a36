package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/tscan/internal/parser"
)

// MixedIOLogicRule flags functions that interleave I/O operations with
// business logic
type MixedIOLogicRule struct {
	fileOps    map[string]bool
	consoleOps map[string]bool
	ioModules  map[string]bool
	skipWords  []string
}

// NewMixedIOLogicRule creates the rule with its lookup tables
func NewMixedIOLogicRule() *MixedIOLogicRule {
	return &MixedIOLogicRule{
		fileOps:    stringSet("open", "read", "write", "close", "seek", "tell", "remove", "mkdir"),
		consoleOps: stringSet("print", "input", "raw_input"),
		ioModules: stringSet(
			"os", "pathlib", "shutil", "io", "tempfile",
			"requests", "urllib", "socket", "http", "https",
			"sqlite3", "psycopg2", "mysql", "mongodb",
		),
		skipWords: []string{
			"read", "write", "open", "close", "fetch", "send", "receive",
			"connect", "download", "upload", "import", "export", "print", "display",
		},
	}
}

func (r *MixedIOLogicRule) Name() string       { return "Mixed I/O and Logic" }
func (r *MixedIOLogicRule) PenaltyPoints() int { return 8 }

// Evaluate counts I/O operations and logic operations in a function body and
// flags the function once when both are present. Functions whose name marks
// them as I/O code are exempt.
func (r *MixedIOLogicRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	lowered := strings.ToLower(node.Name)
	for _, word := range r.skipWords {
		if strings.Contains(lowered, word) {
			return nil
		}
	}

	ioCount := 0
	logicCount := 0

	node.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeCallExpression:
			if name := n.CalleeName(); name != "" {
				if r.fileOps[name] || r.consoleOps[name] {
					ioCount++
				} else {
					logicCount++
				}
				return true
			}
			if object, _ := n.CalleeObjectAndAttr(); object != "" && r.ioModules[object] {
				ioCount++
			}

		case parser.NodeIfStatement, parser.NodeForStatement, parser.NodeAsyncForStatement,
			parser.NodeWhileStatement, parser.NodeTryStatement:
			logicCount++

		case parser.NodeBinaryExpression:
			switch n.Operator {
			case "+", "-", "*", "/", "%":
				logicCount++
			}

		case parser.NodeComparisonExpression:
			logicCount++
		}
		return true
	})

	if ioCount == 0 || logicCount == 0 {
		return nil
	}

	return []Violation{{
		RuleName:       r.Name(),
		Description:    "Mixed I/O and business logic makes testing difficult",
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     node.Location.StartLine,
		FunctionName:   node.Name,
		IsRedFlag:      true,
	}}
}

// BranchExplosionRule flags functions whose branch count exceeds a threshold,
// with a penalty growing per excess branch
type BranchExplosionRule struct {
	branchThreshold  int
	penaltyPerBranch int
}

// NewBranchExplosionRule creates the rule with its thresholds
func NewBranchExplosionRule() *BranchExplosionRule {
	return &BranchExplosionRule{
		branchThreshold:  3,
		penaltyPerBranch: 2,
	}
}

func (r *BranchExplosionRule) Name() string       { return "Branch Explosion Risk" }
func (r *BranchExplosionRule) PenaltyPoints() int { return r.penaltyPerBranch }

// Evaluate counts branches in a function and deducts points for each branch
// beyond the threshold
func (r *BranchExplosionRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	branchCount := CountBranches(node)
	if branchCount <= r.branchThreshold {
		return nil
	}

	excess := branchCount - r.branchThreshold
	return []Violation{{
		RuleName: r.Name(),
		Description: fmt.Sprintf("Excessive branching: %d branches (threshold: %d)",
			branchCount, r.branchThreshold),
		PointsDeducted: excess * r.penaltyPerBranch,
		LineNumber:     node.Location.StartLine,
		FunctionName:   node.Name,
		IsRedFlag:      false,
	}}
}

// CountBranches counts the branching constructs in a subtree: an if and each
// of its elif arms, loops, a try and each of its except clauses, conditional
// expressions, and a match and each of its case clauses
func CountBranches(node *parser.Node) int {
	count := 0
	node.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeIfStatement:
			count += 1 + len(n.Elifs)
		case parser.NodeForStatement, parser.NodeAsyncForStatement, parser.NodeWhileStatement:
			count++
		case parser.NodeTryStatement:
			count += 1 + len(n.Handlers)
		case parser.NodeConditionalExpression:
			count++
		case parser.NodeMatchStatement:
			count += 1 + len(n.Cases)
		}
		return true
	})
	return count
}

// ExceptionControlFlowRule flags functions that use exceptions as a control
// flow mechanism
type ExceptionControlFlowRule struct {
	controlFlowExceptions map[string]bool
	broadExceptions       map[string]bool
}

// NewExceptionControlFlowRule creates the rule with its lookup tables
func NewExceptionControlFlowRule() *ExceptionControlFlowRule {
	return &ExceptionControlFlowRule{
		controlFlowExceptions: stringSet(
			"ValueError", "TypeError", "KeyError", "IndexError", "AttributeError",
			"StopIteration", "LookupError", "RuntimeError", "AssertionError",
		),
		broadExceptions: stringSet("Exception", "BaseException"),
	}
}

func (r *ExceptionControlFlowRule) Name() string       { return "Exception-Driven Control Flow" }
func (r *ExceptionControlFlowRule) PenaltyPoints() int { return 5 }

// Evaluate flags the first try statement used for control flow: empty or
// overly broad handlers, handlers catching exceptions commonly raised as
// control flow, or exception-based loop exits
func (r *ExceptionControlFlowRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	var line int
	node.Walk(func(n *parser.Node) bool {
		if n.Type == parser.NodeTryStatement && r.isExceptionControlFlow(n) {
			line = n.Location.StartLine
			return false
		}
		return true
	})

	if line == 0 {
		return nil
	}

	return []Violation{{
		RuleName:       r.Name(),
		Description:    "Exception-driven control flow makes testing difficult",
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     line,
		FunctionName:   node.Name,
		IsRedFlag:      true,
	}}
}

func (r *ExceptionControlFlowRule) isExceptionControlFlow(try *parser.Node) bool {
	for _, handler := range try.Handlers {
		if r.isEmptyHandler(handler) {
			return true
		}
	}
	for _, handler := range try.Handlers {
		if r.isBroadHandler(handler) {
			return true
		}
	}
	for _, handler := range try.Handlers {
		if r.catchesControlFlowException(handler) {
			return true
		}
	}
	return r.hasExceptionBasedLoop(try)
}

// isEmptyHandler reports whether an except clause does nothing beyond pass
// statements or bare string literals
func (r *ExceptionControlFlowRule) isEmptyHandler(handler *parser.Node) bool {
	if len(handler.Body) == 0 {
		return true
	}
	for _, stmt := range handler.Body {
		switch stmt.Type {
		case parser.NodePassStatement, parser.NodeStringLiteral:
			continue
		default:
			return false
		}
	}
	return true
}

// isBroadHandler reports whether an except clause catches everything
func (r *ExceptionControlFlowRule) isBroadHandler(handler *parser.Node) bool {
	if handler.Test == nil {
		return true
	}
	return r.handlerCatches(handler, r.broadExceptions)
}

func (r *ExceptionControlFlowRule) catchesControlFlowException(handler *parser.Node) bool {
	if handler.Test == nil {
		return false
	}
	return r.handlerCatches(handler, r.controlFlowExceptions)
}

// handlerCatches reports whether the handler's exception expression names one
// of the given exception types, directly or inside a tuple
func (r *ExceptionControlFlowRule) handlerCatches(handler *parser.Node, names map[string]bool) bool {
	test := handler.Test
	if test == nil {
		return false
	}
	if test.Type == parser.NodeIdentifier {
		return names[test.Name]
	}
	if test.Type == parser.NodeTupleExpression {
		for _, elt := range test.Children {
			if elt.Type == parser.NodeIdentifier && names[elt.Name] {
				return true
			}
		}
	}
	return false
}

// hasExceptionBasedLoop reports whether the try statement is used as a loop
// control mechanism
func (r *ExceptionControlFlowRule) hasExceptionBasedLoop(try *parser.Node) bool {
	for _, handler := range try.Handlers {
		if handler.Test != nil && handler.Test.Type == parser.NodeIdentifier &&
			handler.Test.Name == "StopIteration" {
			return true
		}
	}

	hasLoop := false
	for _, stmt := range try.Body {
		if stmt.Type == parser.NodeForStatement || stmt.Type == parser.NodeAsyncForStatement ||
			stmt.Type == parser.NodeWhileStatement {
			hasLoop = true
			break
		}
	}
	if !hasLoop {
		return false
	}

	for _, handler := range try.Handlers {
		for _, stmt := range handler.Body {
			if stmt.Type == parser.NodeBreakStatement || stmt.Type == parser.NodeContinueStatement {
				return true
			}
		}
	}
	return false
}

// ParameterCountRule flags functions with too many parameters
type ParameterCountRule struct {
	parameterThreshold int
}

// NewParameterCountRule creates the rule with its threshold
func NewParameterCountRule() *ParameterCountRule {
	return &ParameterCountRule{parameterThreshold: 5}
}

func (r *ParameterCountRule) Name() string       { return "Excessive Parameter Count" }
func (r *ParameterCountRule) PenaltyPoints() int { return 5 }

// Evaluate counts effective parameters, exempting self, with splat parameters
// each counting as one
func (r *ParameterCountRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	paramCount := 0
	for _, param := range node.Params {
		if param.Name == "self" {
			continue
		}
		paramCount++
	}

	if paramCount <= r.parameterThreshold {
		return nil
	}

	return []Violation{{
		RuleName: r.Name(),
		Description: fmt.Sprintf("Excessive parameters: %d (threshold: %d)",
			paramCount, r.parameterThreshold),
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     node.Location.StartLine,
		FunctionName:   node.Name,
		IsRedFlag:      false,
	}}
}

// ObservabilityRule flags functions whose outcomes cannot be observed: no
// return values, no logging, no assertions, and no observable side effects
type ObservabilityRule struct {
	loggingMethods    map[string]bool
	observableCalls   map[string]bool
	observableMethods map[string]bool
}

// NewObservabilityRule creates the rule with its lookup tables
func NewObservabilityRule() *ObservabilityRule {
	return &ObservabilityRule{
		loggingMethods:    stringSet("debug", "info", "warning", "error", "critical"),
		observableCalls:   stringSet("write", "print", "save", "commit"),
		observableMethods: stringSet("write", "save", "commit", "send", "publish"),
	}
}

func (r *ObservabilityRule) Name() string       { return "Low Observability" }
func (r *ObservabilityRule) PenaltyPoints() int { return 5 }

// Evaluate flags a function only when every observability signal is absent
func (r *ObservabilityRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	if r.hasReturnValue(node) || r.hasLogging(node) || r.hasAssertions(node) || r.hasObservableSideEffects(node) {
		return nil
	}

	return []Violation{{
		RuleName:       r.Name(),
		Description:    "Low observability: function lacks return values, logging, or assertions",
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     node.Location.StartLine,
		FunctionName:   node.Name,
		IsRedFlag:      false,
	}}
}

// hasReturnValue reports whether the function returns a value anywhere; a
// bare return does not count
func (r *ObservabilityRule) hasReturnValue(node *parser.Node) bool {
	found := false
	node.Walk(func(n *parser.Node) bool {
		if n.Type == parser.NodeReturnStatement && n.Value != nil {
			found = true
			return false
		}
		return true
	})
	return found
}

func (r *ObservabilityRule) hasLogging(node *parser.Node) bool {
	found := false
	node.Walk(func(n *parser.Node) bool {
		if n.Type != parser.NodeCallExpression {
			return true
		}
		if n.CalleeName() == "print" {
			found = true
			return false
		}
		if object, attr := n.CalleeObjectAndAttr(); object == "logging" && r.loggingMethods[attr] {
			found = true
			return false
		}
		return true
	})
	return found
}

func (r *ObservabilityRule) hasAssertions(node *parser.Node) bool {
	found := false
	node.Walk(func(n *parser.Node) bool {
		if n.Type == parser.NodeAssertStatement {
			found = true
			return false
		}
		return true
	})
	return found
}

func (r *ObservabilityRule) hasObservableSideEffects(node *parser.Node) bool {
	found := false
	node.Walk(func(n *parser.Node) bool {
		if n.Type != parser.NodeCallExpression {
			return true
		}
		if name := n.CalleeName(); name != "" && r.observableCalls[name] {
			found = true
			return false
		}
		if object, attr := n.CalleeObjectAndAttr(); object != "" && r.observableMethods[attr] {
			found = true
			return false
		}
		return true
	})
	return found
}
