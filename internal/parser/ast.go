package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// Python AST node types
const (
	// Module structure
	NodeModule NodeType = "Module"

	// Definitions
	NodeFunctionDef      NodeType = "FunctionDef"
	NodeAsyncFunctionDef NodeType = "AsyncFunctionDef"
	NodeClassDef         NodeType = "ClassDef"
	NodeParameter        NodeType = "Parameter"
	NodeDecorator        NodeType = "Decorator"
	NodeLambda           NodeType = "Lambda"

	// Control flow statements
	NodeIfStatement       NodeType = "IfStatement"
	NodeElifClause        NodeType = "ElifClause"
	NodeElseClause        NodeType = "ElseClause"
	NodeForStatement      NodeType = "ForStatement"
	NodeAsyncForStatement NodeType = "AsyncForStatement"
	NodeWhileStatement    NodeType = "WhileStatement"
	NodeMatchStatement    NodeType = "MatchStatement"
	NodeCaseClause        NodeType = "CaseClause"
	NodeBreakStatement    NodeType = "BreakStatement"
	NodeContinueStatement NodeType = "ContinueStatement"
	NodeReturnStatement   NodeType = "ReturnStatement"
	NodePassStatement     NodeType = "PassStatement"

	// Exception handling
	NodeTryStatement    NodeType = "TryStatement"
	NodeExceptClause    NodeType = "ExceptClause"
	NodeFinallyClause   NodeType = "FinallyClause"
	NodeRaiseStatement  NodeType = "RaiseStatement"
	NodeAssertStatement NodeType = "AssertStatement"

	// Context managers
	NodeWithStatement      NodeType = "WithStatement"
	NodeAsyncWithStatement NodeType = "AsyncWithStatement"

	// Imports and scope declarations
	NodeImport            NodeType = "Import"
	NodeImportFrom        NodeType = "ImportFrom"
	NodeGlobalStatement   NodeType = "GlobalStatement"
	NodeNonlocalStatement NodeType = "NonlocalStatement"

	// Assignments
	NodeAssign    NodeType = "Assign"
	NodeAugAssign NodeType = "AugAssign"
	NodeAnnAssign NodeType = "AnnAssign"

	// Expressions
	NodeExpressionStatement   NodeType = "ExpressionStatement"
	NodeCallExpression        NodeType = "CallExpression"
	NodeAttribute             NodeType = "Attribute"
	NodeIdentifier            NodeType = "Identifier"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeBooleanExpression     NodeType = "BooleanExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeComparisonExpression  NodeType = "ComparisonExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeAwaitExpression       NodeType = "AwaitExpression"
	NodeYieldExpression       NodeType = "YieldExpression"
	NodeStarredExpression     NodeType = "StarredExpression"
	NodeSubscript             NodeType = "Subscript"
	NodeSlice                 NodeType = "Slice"

	// Comprehensions
	NodeListComprehension   NodeType = "ListComprehension"
	NodeSetComprehension    NodeType = "SetComprehension"
	NodeDictComprehension   NodeType = "DictComprehension"
	NodeGeneratorExpression NodeType = "GeneratorExpression"

	// Literals and containers
	NodeLiteral         NodeType = "Literal"
	NodeStringLiteral   NodeType = "StringLiteral"
	NodeNumberLiteral   NodeType = "NumberLiteral"
	NodeBooleanLiteral  NodeType = "BooleanLiteral"
	NodeNoneLiteral     NodeType = "NoneLiteral"
	NodeTupleExpression NodeType = "TupleExpression"
	NodeListExpression  NodeType = "ListExpression"
	NodeSetExpression   NodeType = "SetExpression"
	NodeDictExpression  NodeType = "DictExpression"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Common fields for various node types
	Name string // For function/class/parameter names

	// Function and class fields
	Params     []*Node // Function parameters
	Body       []*Node // Function/class/block body
	Decorators []*Node // Applied decorators
	Async      bool    // Async function/loop/with

	// Control flow fields
	Test      *Node   // Condition for if/while/elif, handler exception type
	Elifs     []*Node // Elif arms of an if statement
	Alternate *Node   // Else clause
	Cases     []*Node // Match statement case clauses
	Subject   *Node   // Match statement subject

	// Try-except fields
	Handlers  []*Node // Except clauses
	Finalizer *Node   // Finally clause

	// Expression fields
	Left      *Node   // Left operand, loop target, assignment target
	Right     *Node   // Right operand, loop iterable
	Operator  string  // Operator (+, -, and, not, etc.)
	Arguments []*Node // Function call arguments
	Func      *Node   // Function being called
	Object    *Node   // Object in attribute access
	Attr      string  // Attribute name in attribute access
	Value     *Node   // Return/assign/yield value

	// Assignment fields
	Targets []*Node // Assignment targets

	// Import and scope fields
	Module string   // Source module of a from-import
	Names  []string // Imported names, global/nonlocal declarations

	// Utility fields
	Raw string // Raw literal value
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type:       nodeType,
		Children:   []*Node{},
		Params:     []*Node{},
		Body:       []*Node{},
		Decorators: []*Node{},
		Elifs:      []*Node{},
		Cases:      []*Node{},
		Handlers:   []*Node{},
		Arguments:  []*Node{},
		Targets:    []*Node{},
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first and calls the visitor function for each node
// If the visitor returns false, traversal of that branch is stopped
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
	for _, param := range n.Params {
		param.Walk(visitor)
	}
	for _, stmt := range n.Body {
		stmt.Walk(visitor)
	}
	for _, dec := range n.Decorators {
		dec.Walk(visitor)
	}
	for _, elif := range n.Elifs {
		elif.Walk(visitor)
	}
	for _, caseNode := range n.Cases {
		caseNode.Walk(visitor)
	}
	for _, handler := range n.Handlers {
		handler.Walk(visitor)
	}
	for _, arg := range n.Arguments {
		arg.Walk(visitor)
	}
	for _, target := range n.Targets {
		target.Walk(visitor)
	}

	// Walk individual nodes
	if n.Test != nil {
		n.Test.Walk(visitor)
	}
	if n.Alternate != nil {
		n.Alternate.Walk(visitor)
	}
	if n.Subject != nil {
		n.Subject.Walk(visitor)
	}
	if n.Finalizer != nil {
		n.Finalizer.Walk(visitor)
	}
	if n.Left != nil {
		n.Left.Walk(visitor)
	}
	if n.Right != nil {
		n.Right.Walk(visitor)
	}
	if n.Func != nil {
		n.Func.Walk(visitor)
	}
	if n.Object != nil {
		n.Object.Walk(visitor)
	}
	if n.Value != nil {
		n.Value.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsStatement returns true if the node is a statement
func (n *Node) IsStatement() bool {
	switch n.Type {
	case NodeIfStatement, NodeForStatement, NodeAsyncForStatement,
		NodeWhileStatement, NodeMatchStatement,
		NodeTryStatement, NodeReturnStatement, NodeRaiseStatement,
		NodeBreakStatement, NodeContinueStatement, NodePassStatement,
		NodeAssertStatement, NodeWithStatement, NodeAsyncWithStatement,
		NodeImport, NodeImportFrom, NodeGlobalStatement, NodeNonlocalStatement,
		NodeAssign, NodeAugAssign, NodeAnnAssign, NodeExpressionStatement:
		return true
	}
	return false
}

// IsExpression returns true if the node is an expression
func (n *Node) IsExpression() bool {
	switch n.Type {
	case NodeCallExpression, NodeAttribute, NodeIdentifier,
		NodeBinaryExpression, NodeBooleanExpression, NodeUnaryExpression,
		NodeComparisonExpression, NodeConditionalExpression,
		NodeAwaitExpression, NodeYieldExpression, NodeSubscript,
		NodeLambda, NodeLiteral, NodeStringLiteral, NodeNumberLiteral,
		NodeBooleanLiteral, NodeNoneLiteral,
		NodeTupleExpression, NodeListExpression, NodeSetExpression, NodeDictExpression,
		NodeListComprehension, NodeSetComprehension, NodeDictComprehension,
		NodeGeneratorExpression:
		return true
	}
	return false
}

// IsFunction returns true if the node is a function definition
func (n *Node) IsFunction() bool {
	switch n.Type {
	case NodeFunctionDef, NodeAsyncFunctionDef, NodeLambda:
		return true
	}
	return false
}

// CalleeName returns the identifier name of a direct call like open(...),
// or "" when the callee is not a plain identifier
func (n *Node) CalleeName() string {
	if n.Type != NodeCallExpression || n.Func == nil {
		return ""
	}
	if n.Func.Type == NodeIdentifier {
		return n.Func.Name
	}
	return ""
}

// CalleeObjectAndAttr returns the receiver name and method name of a call
// like os.remove(...). Both are "" when the callee is not a simple
// identifier.attribute pair
func (n *Node) CalleeObjectAndAttr() (string, string) {
	if n.Type != NodeCallExpression || n.Func == nil {
		return "", ""
	}
	f := n.Func
	if f.Type == NodeAttribute && f.Object != nil && f.Object.Type == NodeIdentifier {
		return f.Object.Name, f.Attr
	}
	return "", ""
}

// DottedCalleeName returns the full dotted callee of a call, e.g.
// "datetime.datetime.now", or "" when the callee is not a chain of
// identifiers and attributes
func (n *Node) DottedCalleeName() string {
	if n.Type != NodeCallExpression || n.Func == nil {
		return ""
	}
	return dottedName(n.Func)
}

func dottedName(n *Node) string {
	switch n.Type {
	case NodeIdentifier:
		return n.Name
	case NodeAttribute:
		if n.Object == nil {
			return ""
		}
		prefix := dottedName(n.Object)
		if prefix == "" {
			return ""
		}
		return prefix + "." + n.Attr
	}
	return ""
}
