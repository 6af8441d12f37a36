package analyzer

import (
	"github.com/ludo-technologies/tscan/internal/parser"
)

// TimeUsageRule flags non-deterministic clock access in functions
type TimeUsageRule struct {
	timeFunctions map[string]bool
	timeModules   map[string]bool
}

// NewTimeUsageRule creates the rule with its lookup tables
func NewTimeUsageRule() *TimeUsageRule {
	return &TimeUsageRule{
		timeFunctions: stringSet(
			"time.time", "time.sleep", "time.monotonic", "time.perf_counter",
			"time.process_time", "time.thread_time", "time.time_ns",
			"datetime.now", "datetime.today", "datetime.utcnow", "datetime.timestamp",
			"date.today",
			"datetime.datetime.now", "datetime.datetime.today", "datetime.datetime.utcnow",
		),
		timeModules: stringSet("time", "datetime", "date"),
	}
}

func (r *TimeUsageRule) Name() string       { return "Non-Deterministic Time Usage" }
func (r *TimeUsageRule) PenaltyPoints() int { return 10 }

// Evaluate flags the first clock access or time-module import in a function
func (r *TimeUsageRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	// A time-module import anywhere in the body is itself a finding,
	// attributed to the function
	if importsAnyModule(node, r.timeModules) {
		return []Violation{r.violation(node, node.Location.StartLine)}
	}

	var line int
	node.Walk(func(n *parser.Node) bool {
		if n.Type != parser.NodeCallExpression {
			return true
		}
		if name := n.DottedCalleeName(); name != "" && r.timeFunctions[name] {
			line = n.Location.StartLine
			return false
		}
		return true
	})

	if line == 0 {
		return nil
	}
	return []Violation{r.violation(node, line)}
}

func (r *TimeUsageRule) violation(fn *parser.Node, line int) Violation {
	return Violation{
		RuleName:       r.Name(),
		Description:    "Non-deterministic time usage makes testing difficult",
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     line,
		FunctionName:   fn.Name,
		IsRedFlag:      true,
	}
}

// RandomnessRule flags random number generation in functions
type RandomnessRule struct {
	randomFunctions map[string]bool
	randomModules   map[string]bool
	bareNames       map[string]bool
}

// NewRandomnessRule creates the rule with its lookup tables
func NewRandomnessRule() *RandomnessRule {
	return &RandomnessRule{
		randomFunctions: stringSet(
			"random.random", "random.randint", "random.randrange", "random.choice",
			"random.shuffle", "random.sample", "random.uniform", "random.triangular",
			"random.betavariate", "random.expovariate", "random.gammavariate",
			"random.gauss", "random.lognormvariate", "random.normalvariate",
			"random.paretovariate", "random.vonmisesvariate", "random.weibullvariate",
			"random.getrandbits", "random.seed", "random.getstate", "random.setstate",
			"numpy.random.random", "numpy.random.randint", "numpy.random.rand",
			"numpy.random.randn", "numpy.random.choice", "numpy.random.shuffle",
			"numpy.random.uniform", "numpy.random.normal", "numpy.random.binomial",
			"numpy.random.poisson", "numpy.random.exponential",
			"secrets.randbelow", "secrets.choice", "secrets.token_bytes",
			"secrets.token_hex", "secrets.token_urlsafe", "secrets.compare_digest",
			"uuid.uuid1", "uuid.uuid3", "uuid.uuid4", "uuid.uuid5",
			"os.urandom", "os.getrandom",
		),
		randomModules: stringSet("random", "numpy", "secrets", "uuid", "os"),
		bareNames:     stringSet("random", "randint", "choice", "shuffle"),
	}
}

func (r *RandomnessRule) Name() string       { return "Randomness Usage" }
func (r *RandomnessRule) PenaltyPoints() int { return 10 }

// Evaluate flags the first randomness operation or module import in a function
func (r *RandomnessRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	if importsAnyModule(node, r.randomModules) {
		return []Violation{r.violation(node, node.Location.StartLine)}
	}

	var line int
	node.Walk(func(n *parser.Node) bool {
		if n.Type != parser.NodeCallExpression {
			return true
		}
		if name := n.CalleeName(); name != "" && r.bareNames[name] {
			line = n.Location.StartLine
			return false
		}
		if name := n.DottedCalleeName(); name != "" {
			if r.randomModules[topLevelModule(name)] && r.randomFunctions[name] {
				line = n.Location.StartLine
				return false
			}
		}
		return true
	})

	if line == 0 {
		return nil
	}
	return []Violation{r.violation(node, line)}
}

func (r *RandomnessRule) violation(fn *parser.Node, line int) Violation {
	return Violation{
		RuleName:       r.Name(),
		Description:    "Randomness usage makes testing non-deterministic",
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     line,
		FunctionName:   fn.Name,
		IsRedFlag:      true,
	}
}

// importsAnyModule reports whether the subtree imports one of the named modules
func importsAnyModule(node *parser.Node, modules map[string]bool) bool {
	found := false
	node.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeImport:
			for _, name := range n.Names {
				if modules[name] {
					found = true
					return false
				}
			}
		case parser.NodeImportFrom:
			if n.Module != "" && modules[n.Module] {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
