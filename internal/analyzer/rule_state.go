package analyzer

import (
	"github.com/ludo-technologies/tscan/internal/parser"
)

// GlobalStateRule flags functions that mutate state outside their own scope
type GlobalStateRule struct {
	globalObjects   map[string]bool
	mutatingMethods map[string]bool
	mutatedObjects  map[string]bool
}

// NewGlobalStateRule creates the rule with its lookup tables
func NewGlobalStateRule() *GlobalStateRule {
	return &GlobalStateRule{
		globalObjects:   stringSet("os", "sys", "config", "settings"),
		mutatingMethods: stringSet("register", "unregister", "update", "set", "clear", "append", "extend"),
		mutatedObjects:  stringSet("registry", "cache", "pool", "manager"),
	}
}

func (r *GlobalStateRule) Name() string       { return "Global State Mutation" }
func (r *GlobalStateRule) PenaltyPoints() int { return 10 }

// Evaluate flags the first global state mutation in a function: an explicit
// global declaration, an assignment to a known global or imported name, an
// attribute write on a well-known global object, or a mutating call on a
// registry-like object
func (r *GlobalStateRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	var line int
	node.Walk(func(n *parser.Node) bool {
		if r.isGlobalMutation(n, ctx) {
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
		Description:    "Global state mutation makes testing unpredictable",
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     line,
		FunctionName:   node.Name,
		IsRedFlag:      true,
	}}
}

func (r *GlobalStateRule) isGlobalMutation(n *parser.Node, ctx *AnalysisContext) bool {
	switch n.Type {
	case parser.NodeGlobalStatement:
		return true

	case parser.NodeAssign, parser.NodeAnnAssign:
		for _, target := range n.Targets {
			if r.isGlobalTarget(target, ctx) {
				return true
			}
		}

	case parser.NodeAugAssign:
		for _, target := range n.Targets {
			if target.Type == parser.NodeIdentifier && ctx != nil && ctx.IsGlobal(target.Name) {
				return true
			}
		}

	case parser.NodeCallExpression:
		if object, attr := n.CalleeObjectAndAttr(); object != "" {
			if r.mutatingMethods[attr] && r.mutatedObjects[object] {
				return true
			}
		}
	}

	return false
}

// isGlobalTarget reports whether an assignment target writes global state
func (r *GlobalStateRule) isGlobalTarget(target *parser.Node, ctx *AnalysisContext) bool {
	switch target.Type {
	case parser.NodeIdentifier:
		if ctx == nil {
			return false
		}
		if ctx.IsGlobal(target.Name) {
			return true
		}
		// Rebinding an imported module name shadows module state
		for module := range ctx.Imports {
			if target.Name == topLevelModule(module) {
				return true
			}
		}

	case parser.NodeAttribute:
		if target.Object != nil && target.Object.Type == parser.NodeIdentifier {
			return r.globalObjects[target.Object.Name]
		}
	}

	return false
}

// ConstructorSideEffectsRule flags classes whose __init__ performs work with
// observable side effects
type ConstructorSideEffectsRule struct {
	sideEffectCalls   map[string]bool
	sideEffectMethods map[string]bool
	sideEffectModules map[string]bool
	concurrencyTypes  map[string]bool
	mutatedObjects    map[string]bool
}

// NewConstructorSideEffectsRule creates the rule with its lookup tables
func NewConstructorSideEffectsRule() *ConstructorSideEffectsRule {
	return &ConstructorSideEffectsRule{
		sideEffectCalls: stringSet(
			"open", "write", "read", "remove", "mkdir",
			"connect", "send", "receive", "request",
			"execute", "commit", "cursor",
			"start", "stop", "kill", "run",
			"join", "lock", "acquire",
			"register", "unregister", "update", "modify",
		),
		sideEffectMethods: stringSet(
			"open", "write", "read", "connect", "start", "stop",
			"register", "unregister", "update", "modify", "execute",
			"commit", "cursor", "send", "receive",
		),
		sideEffectModules: stringSet(
			"os", "pathlib", "shutil", "requests", "urllib", "socket",
			"sqlite3", "psycopg2", "mysql", "threading", "multiprocessing",
			"logging", "subprocess", "sys",
		),
		concurrencyTypes: stringSet("Thread", "Process", "Pool", "Lock", "Semaphore"),
		mutatedObjects:   stringSet("registry", "cache", "pool", "manager", "globals"),
	}
}

func (r *ConstructorSideEffectsRule) Name() string       { return "Constructor Side Effects" }
func (r *ConstructorSideEffectsRule) PenaltyPoints() int { return 15 }

// Evaluate inspects a class definition and flags its __init__ once when any
// side effect is found in it
func (r *ConstructorSideEffectsRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if node == nil || node.Type != parser.NodeClassDef {
		return nil
	}

	var initMethod *parser.Node
	for _, item := range node.Body {
		if item.Type == parser.NodeFunctionDef && item.Name == "__init__" {
			initMethod = item
			break
		}
	}
	if initMethod == nil {
		return nil
	}

	hasSideEffect := false
	initMethod.Walk(func(n *parser.Node) bool {
		if r.isSideEffect(n) {
			hasSideEffect = true
			return false
		}
		return true
	})

	if !hasSideEffect {
		return nil
	}

	return []Violation{{
		RuleName:       r.Name(),
		Description:    "Constructor has side effects that make testing difficult",
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     initMethod.Location.StartLine,
		FunctionName:   node.Name + ".__init__",
		IsRedFlag:      true,
	}}
}

func (r *ConstructorSideEffectsRule) isSideEffect(n *parser.Node) bool {
	switch n.Type {
	case parser.NodeCallExpression:
		if name := n.CalleeName(); name != "" {
			if r.sideEffectCalls[name] || r.concurrencyTypes[name] {
				return true
			}
		}
		if object, attr := n.CalleeObjectAndAttr(); object != "" {
			if r.sideEffectModules[object] || r.sideEffectMethods[attr] {
				return true
			}
		}

	case parser.NodeAssign, parser.NodeAnnAssign:
		for _, target := range n.Targets {
			if target.Type == parser.NodeAttribute &&
				target.Object != nil && target.Object.Type == parser.NodeIdentifier &&
				r.mutatedObjects[target.Object.Name] {
				return true
			}
		}

	case parser.NodeImport, parser.NodeImportFrom:
		// Imports inside a constructor can run arbitrary module-level code
		return true
	}

	return false
}
