package analyzer

import (
	"github.com/ludo-technologies/tscan/internal/parser"
)

// AnalysisContext holds file-level facts gathered in a single tree traversal
// and consumed read-only by every rule
type AnalysisContext struct {
	Imports         map[string]bool
	GlobalVariables map[string]bool
	Functions       []string
	Classes         []string
}

// NewAnalysisContext creates an empty analysis context
func NewAnalysisContext() *AnalysisContext {
	return &AnalysisContext{
		Imports:         make(map[string]bool),
		GlobalVariables: make(map[string]bool),
		Functions:       []string{},
		Classes:         []string{},
	}
}

// HasImport reports whether the module imports the given dotted name
func (c *AnalysisContext) HasImport(name string) bool {
	return c.Imports[name]
}

// IsGlobal reports whether the name was declared global anywhere in the file
func (c *AnalysisContext) IsGlobal(name string) bool {
	return c.GlobalVariables[name]
}

// BuildContext traverses the AST once and collects imports, declared globals,
// and the flat inventory of function and class names
func BuildContext(root *parser.Node) *AnalysisContext {
	ctx := NewAnalysisContext()
	if root == nil {
		return ctx
	}

	root.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeImport:
			for _, name := range n.Names {
				ctx.Imports[name] = true
			}
		case parser.NodeImportFrom:
			if n.Module != "" {
				ctx.Imports[n.Module] = true
			}
		case parser.NodeGlobalStatement:
			for _, name := range n.Names {
				ctx.GlobalVariables[name] = true
			}
		case parser.NodeFunctionDef, parser.NodeAsyncFunctionDef:
			ctx.Functions = append(ctx.Functions, n.Name)
		case parser.NodeClassDef:
			ctx.Classes = append(ctx.Classes, n.Name)
		}
		return true
	})

	return ctx
}
