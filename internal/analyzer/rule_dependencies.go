package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/tscan/internal/parser"
)

// dependencyCategory groups the call and module names that identify one kind
// of external dependency
type dependencyCategory struct {
	name      string
	functions map[string]bool
	modules   []string
}

// ExternalDependencyRule deducts points per distinct category of external
// dependency referenced in a function body
type ExternalDependencyRule struct {
	categories []dependencyCategory
}

// NewExternalDependencyRule creates the rule with its category tables.
// Category order is fixed so that a call matching several categories is
// always attributed to the same one.
func NewExternalDependencyRule() *ExternalDependencyRule {
	return &ExternalDependencyRule{
		categories: []dependencyCategory{
			{
				name:      "File System",
				functions: stringSet("open", "read", "write", "remove", "mkdir", "rmdir", "exists", "isfile", "isdir"),
				modules:   []string{"os", "pathlib", "shutil"},
			},
			{
				name:      "Environment",
				functions: stringSet("getenv", "environ"),
				modules:   []string{"os"},
			},
			{
				name:      "Network",
				functions: stringSet("requests", "urlopen", "urllib.request", "socket", "connect"),
				modules:   []string{"requests", "urllib", "socket", "http", "https"},
			},
			{
				name:      "Os Level",
				functions: stringSet("subprocess", "system", "exec", "popen"),
				modules:   []string{"subprocess", "os", "sys"},
			},
			{
				name:      "Singletons",
				functions: stringSet("getInstance", "instance", "current"),
				modules:   []string{"logging", "threading", "multiprocessing"},
			},
		},
	}
}

func (r *ExternalDependencyRule) Name() string       { return "External Dependency Count" }
func (r *ExternalDependencyRule) PenaltyPoints() int { return 5 }

// Evaluate flags each distinct dependency category once, regardless of how
// many calls reference it
func (r *ExternalDependencyRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	found := make(map[string]bool)
	node.Walk(func(n *parser.Node) bool {
		if n.Type != parser.NodeCallExpression {
			return true
		}
		if category := r.classifyCall(n); category != "" {
			found[category] = true
		}
		return true
	})

	var violations []Violation
	for _, category := range r.categories {
		if !found[category.name] {
			continue
		}
		violations = append(violations, Violation{
			RuleName:       r.Name(),
			Description:    fmt.Sprintf("External dependency: %s", category.name),
			PointsDeducted: r.PenaltyPoints(),
			LineNumber:     node.Location.StartLine,
			FunctionName:   node.Name,
			IsRedFlag:      false,
		})
	}

	return violations
}

// classifyCall returns the first category the call matches, or ""
func (r *ExternalDependencyRule) classifyCall(call *parser.Node) string {
	if name := call.CalleeName(); name != "" {
		for _, category := range r.categories {
			if category.functions[name] {
				return category.name
			}
			for _, module := range category.modules {
				if strings.Contains(name, module) {
					return category.name
				}
			}
		}
		return ""
	}

	if object, _ := call.CalleeObjectAndAttr(); object != "" {
		for _, category := range r.categories {
			for _, module := range category.modules {
				if object == module {
					return category.name
				}
			}
		}
	}

	return ""
}

// FileIORule flags direct file or directory access inside functions whose
// name does not indicate an I/O purpose
type FileIORule struct {
	ioFunctions map[string]bool
	ioModules   map[string]bool
	ioClasses   map[string]bool
}

// NewFileIORule creates the rule with its lookup tables
func NewFileIORule() *FileIORule {
	return &FileIORule{
		ioFunctions: stringSet(
			"open", "read", "write", "close", "seek", "tell",
			"remove", "mkdir", "rmdir", "exists", "isfile", "isdir",
			"listdir", "scandir", "walk", "glob", "rglob",
		),
		ioModules: stringSet("os", "pathlib", "shutil", "io", "tempfile"),
		ioClasses: stringSet(
			"Path", "PurePath", "PosixPath", "WindowsPath",
			"FileIO", "TextIOWrapper", "BufferedReader", "BufferedWriter",
			"TemporaryFile", "NamedTemporaryFile",
		),
	}
}

func (r *FileIORule) Name() string       { return "Direct File I/O in Logic" }
func (r *FileIORule) PenaltyPoints() int { return 10 }

// Evaluate flags the first file I/O operation in a function. Functions whose
// name tokens mark them as I/O code (read, write, file, dir, path, io, temp)
// are exempt.
func (r *FileIORule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	if containsToken(nameTokens(node.Name), "read", "write", "file", "dir", "path", "io", "temp") {
		return nil
	}

	// A bare reference to an I/O module anywhere in the body counts,
	// attributed to the function itself
	moduleHit := false
	node.Walk(func(n *parser.Node) bool {
		if n.Type == parser.NodeIdentifier && r.ioModules[n.Name] {
			moduleHit = true
			return false
		}
		return true
	})
	if moduleHit {
		return []Violation{r.violation(node, node.Location.StartLine)}
	}

	var line int
	node.Walk(func(n *parser.Node) bool {
		if n.Type != parser.NodeCallExpression {
			return true
		}
		if name := n.CalleeName(); name != "" && r.ioFunctions[name] {
			line = n.Location.StartLine
			return false
		}
		if object, _ := n.CalleeObjectAndAttr(); object != "" && r.ioClasses[object] {
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

func (r *FileIORule) violation(fn *parser.Node, line int) Violation {
	return Violation{
		RuleName:       r.Name(),
		Description:    "Direct file I/O in business logic",
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     line,
		FunctionName:   fn.Name,
		IsRedFlag:      false,
	}
}

// HiddenImportsRule flags functions that import external dependencies inside
// their body instead of at module level
type HiddenImportsRule struct {
	allowedImports map[string]bool
	externalNames  map[string]bool
}

// NewHiddenImportsRule creates the rule with its lookup tables
func NewHiddenImportsRule() *HiddenImportsRule {
	return &HiddenImportsRule{
		allowedImports: stringSet(
			"typing", "collections", "itertools", "functools",
			"datetime", "re", "json", "csv", "math", "random",
		),
		externalNames: stringSet(
			"requests", "numpy", "pandas", "scipy", "matplotlib",
			"flask", "django", "fastapi", "sqlalchemy", "pytest",
			"click", "black", "pylint", "mypy", "setuptools",
		),
	}
}

func (r *HiddenImportsRule) Name() string       { return "Hidden Dependencies via Imports-in-Function" }
func (r *HiddenImportsRule) PenaltyPoints() int { return 5 }

// Evaluate flags the first problematic import statement in a function body
func (r *HiddenImportsRule) Evaluate(node *parser.Node, ctx *AnalysisContext) []Violation {
	if !isFunctionNode(node) {
		return nil
	}

	var violations []Violation
	node.Walk(func(n *parser.Node) bool {
		if len(violations) > 0 {
			return false
		}

		switch n.Type {
		case parser.NodeImport:
			for _, name := range n.Names {
				if r.isExternalDependency(name) {
					violations = append(violations, r.violation(node, n.Location.StartLine))
					return false
				}
			}
		case parser.NodeImportFrom:
			if n.Module != "" && r.isExternalDependency(n.Module) {
				violations = append(violations, r.violation(node, n.Location.StartLine))
				return false
			}
		}
		return true
	})

	return violations
}

// isExternalDependency reports whether the module is a known third-party
// package rather than an allowed standard library module
func (r *HiddenImportsRule) isExternalDependency(module string) bool {
	topLevel := topLevelModule(module)
	if r.allowedImports[topLevel] {
		return false
	}
	return r.externalNames[topLevel]
}

func (r *HiddenImportsRule) violation(fn *parser.Node, line int) Violation {
	return Violation{
		RuleName:       r.Name(),
		Description:    "Hidden dependency via import inside function",
		PointsDeducted: r.PenaltyPoints(),
		LineNumber:     line,
		FunctionName:   fn.Name,
		IsRedFlag:      false,
	}
}

// stringSet builds a membership set from its arguments
func stringSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
