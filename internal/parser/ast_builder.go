package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds our internal AST from tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	node := b.buildNode(tsNode)
	return node
}

// buildNode converts a tree-sitter node to our internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "module":
		return b.buildModule(tsNode)
	case "decorated_definition":
		return b.buildDecoratedDefinition(tsNode)
	case "function_definition":
		return b.buildFunctionDefinition(tsNode)
	case "class_definition":
		return b.buildClassDefinition(tsNode)
	case "if_statement":
		return b.buildIfStatement(tsNode)
	case "elif_clause":
		return b.buildElifClause(tsNode)
	case "else_clause":
		return b.buildElseClause(tsNode)
	case "for_statement":
		return b.buildForStatement(tsNode)
	case "while_statement":
		return b.buildWhileStatement(tsNode)
	case "try_statement":
		return b.buildTryStatement(tsNode)
	case "except_clause", "except_group_clause":
		return b.buildExceptClause(tsNode)
	case "finally_clause":
		return b.buildFinallyClause(tsNode)
	case "with_statement":
		return b.buildWithStatement(tsNode)
	case "match_statement":
		return b.buildMatchStatement(tsNode)
	case "case_clause":
		return b.buildCaseClause(tsNode)
	case "return_statement":
		return b.buildReturnStatement(tsNode)
	case "raise_statement":
		return b.buildRaiseStatement(tsNode)
	case "assert_statement":
		return b.buildAssertStatement(tsNode)
	case "pass_statement":
		return b.buildSimpleStatement(tsNode, NodePassStatement)
	case "break_statement":
		return b.buildSimpleStatement(tsNode, NodeBreakStatement)
	case "continue_statement":
		return b.buildSimpleStatement(tsNode, NodeContinueStatement)
	case "import_statement":
		return b.buildImportStatement(tsNode)
	case "import_from_statement":
		return b.buildImportFromStatement(tsNode)
	case "global_statement":
		return b.buildScopeStatement(tsNode, NodeGlobalStatement)
	case "nonlocal_statement":
		return b.buildScopeStatement(tsNode, NodeNonlocalStatement)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "assignment":
		return b.buildAssignment(tsNode)
	case "augmented_assignment":
		return b.buildAugmentedAssignment(tsNode)
	case "call":
		return b.buildCall(tsNode)
	case "attribute":
		return b.buildAttribute(tsNode)
	case "identifier":
		return b.buildIdentifier(tsNode)
	case "binary_operator":
		return b.buildBinaryOperator(tsNode)
	case "boolean_operator":
		return b.buildBooleanOperator(tsNode)
	case "not_operator", "unary_operator":
		return b.buildUnaryOperator(tsNode)
	case "comparison_operator":
		return b.buildComparisonOperator(tsNode)
	case "conditional_expression":
		return b.buildConditionalExpression(tsNode)
	case "lambda":
		return b.buildLambda(tsNode)
	case "await":
		return b.buildAwait(tsNode)
	case "yield":
		return b.buildYield(tsNode)
	case "string", "concatenated_string", "integer", "float", "true", "false", "none":
		return b.buildLiteral(tsNode)
	case "tuple", "tuple_pattern":
		return b.buildContainer(tsNode, NodeTupleExpression)
	case "list":
		return b.buildContainer(tsNode, NodeListExpression)
	case "set":
		return b.buildContainer(tsNode, NodeSetExpression)
	case "dictionary":
		return b.buildContainer(tsNode, NodeDictExpression)
	case "list_comprehension":
		return b.buildContainer(tsNode, NodeListComprehension)
	case "set_comprehension":
		return b.buildContainer(tsNode, NodeSetComprehension)
	case "dictionary_comprehension":
		return b.buildContainer(tsNode, NodeDictComprehension)
	case "generator_expression":
		return b.buildContainer(tsNode, NodeGeneratorExpression)
	case "subscript":
		return b.buildSubscript(tsNode)
	case "parenthesized_expression":
		return b.buildParenthesizedExpression(tsNode)
	default:
		// For unknown nodes, create a generic node and process children
		return b.buildGenericNode(tsNode)
	}
}

// buildModule builds the module root node
func (b *ASTBuilder) buildModule(tsNode *sitter.Node) *Node {
	node := NewNode(NodeModule)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) {
			childNode := b.buildNode(child)
			if childNode != nil {
				node.Body = append(node.Body, childNode)
			}
		}
	}

	return node
}

// buildDecoratedDefinition unwraps a decorated function or class definition,
// attaching the decorators to the inner definition
func (b *ASTBuilder) buildDecoratedDefinition(tsNode *sitter.Node) *Node {
	var decorators []*Node

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "decorator" {
			dec := NewNode(NodeDecorator)
			dec.Location = b.getLocation(child)
			for j := 0; j < int(child.ChildCount()); j++ {
				grandchild := child.Child(j)
				if grandchild != nil && !b.isTrivia(grandchild) && grandchild.Type() != "@" {
					dec.AddChild(b.buildNode(grandchild))
				}
			}
			decorators = append(decorators, dec)
		}
	}

	defNode := b.getChildByFieldName(tsNode, "definition")
	if defNode == nil {
		return b.buildGenericNode(tsNode)
	}

	node := b.buildNode(defNode)
	if node != nil {
		node.Decorators = append(node.Decorators, decorators...)
	}

	return node
}

// buildFunctionDefinition builds a function definition node
func (b *ASTBuilder) buildFunctionDefinition(tsNode *sitter.Node) *Node {
	node := NewNode(NodeFunctionDef)
	node.Location = b.getLocation(tsNode)

	// An async def has a leading "async" keyword child
	if tsNode.ChildCount() > 0 {
		firstChild := tsNode.Child(0)
		if firstChild != nil && firstChild.Type() == "async" {
			node.Type = NodeAsyncFunctionDef
			node.Async = true
		}
	}

	// Extract function name
	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	// Extract parameters
	if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}

	// Extract body
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildBlock(bodyNode)
	}

	return node
}

// buildClassDefinition builds a class definition node
func (b *ASTBuilder) buildClassDefinition(tsNode *sitter.Node) *Node {
	node := NewNode(NodeClassDef)
	node.Location = b.getLocation(tsNode)

	// Extract class name
	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	// Extract base classes
	if superNode := b.getChildByFieldName(tsNode, "superclasses"); superNode != nil {
		for i := 0; i < int(superNode.ChildCount()); i++ {
			child := superNode.Child(i)
			if child != nil && !b.isTrivia(child) && child.Type() != "(" && child.Type() != ")" && child.Type() != "," {
				baseNode := b.buildNode(child)
				if baseNode != nil {
					node.Arguments = append(node.Arguments, baseNode)
				}
			}
		}
	}

	// Extract class body
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildBlock(bodyNode)
	}

	return node
}

// buildIfStatement builds an if statement node
func (b *ASTBuilder) buildIfStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIfStatement)
	node.Location = b.getLocation(tsNode)

	// Extract condition
	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Test = b.buildNode(condNode)
	}

	// Extract consequence (then branch)
	if consNode := b.getChildByFieldName(tsNode, "consequence"); consNode != nil {
		node.Body = b.buildBlock(consNode)
	}

	// Extract elif arms and else clause
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "elif_clause":
			elifNode := b.buildNode(child)
			if elifNode != nil {
				node.Elifs = append(node.Elifs, elifNode)
			}
		case "else_clause":
			node.Alternate = b.buildNode(child)
		}
	}

	return node
}

// buildElifClause builds an elif arm node
func (b *ASTBuilder) buildElifClause(tsNode *sitter.Node) *Node {
	node := NewNode(NodeElifClause)
	node.Location = b.getLocation(tsNode)

	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Test = b.buildNode(condNode)
	}
	if consNode := b.getChildByFieldName(tsNode, "consequence"); consNode != nil {
		node.Body = b.buildBlock(consNode)
	}

	return node
}

// buildElseClause builds an else clause node
func (b *ASTBuilder) buildElseClause(tsNode *sitter.Node) *Node {
	node := NewNode(NodeElseClause)
	node.Location = b.getLocation(tsNode)

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildBlock(bodyNode)
	}

	return node
}

// buildForStatement builds a for statement node
func (b *ASTBuilder) buildForStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeForStatement)
	node.Location = b.getLocation(tsNode)

	if tsNode.ChildCount() > 0 {
		firstChild := tsNode.Child(0)
		if firstChild != nil && firstChild.Type() == "async" {
			node.Type = NodeAsyncForStatement
			node.Async = true
		}
	}

	// Extract loop target
	if leftNode := b.getChildByFieldName(tsNode, "left"); leftNode != nil {
		node.Left = b.buildNode(leftNode)
	}

	// Extract iterable
	if rightNode := b.getChildByFieldName(tsNode, "right"); rightNode != nil {
		node.Right = b.buildNode(rightNode)
	}

	// Extract body
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildBlock(bodyNode)
	}

	// Extract loop else clause
	if altNode := b.getChildByFieldName(tsNode, "alternative"); altNode != nil {
		node.Alternate = b.buildNode(altNode)
	}

	return node
}

// buildWhileStatement builds a while statement node
func (b *ASTBuilder) buildWhileStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeWhileStatement)
	node.Location = b.getLocation(tsNode)

	// Extract condition
	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Test = b.buildNode(condNode)
	}

	// Extract body
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildBlock(bodyNode)
	}

	// Extract loop else clause
	if altNode := b.getChildByFieldName(tsNode, "alternative"); altNode != nil {
		node.Alternate = b.buildNode(altNode)
	}

	return node
}

// buildTryStatement builds a try statement node
func (b *ASTBuilder) buildTryStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeTryStatement)
	node.Location = b.getLocation(tsNode)

	// Extract try body
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildBlock(bodyNode)
	}

	// Extract except clauses, else clause, and finally clause
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "except_clause", "except_group_clause":
			handler := b.buildNode(child)
			if handler != nil {
				node.Handlers = append(node.Handlers, handler)
			}
		case "else_clause":
			node.Alternate = b.buildNode(child)
		case "finally_clause":
			node.Finalizer = b.buildNode(child)
		}
	}

	return node
}

// buildExceptClause builds an except clause node
func (b *ASTBuilder) buildExceptClause(tsNode *sitter.Node) *Node {
	node := NewNode(NodeExceptClause)
	node.Location = b.getLocation(tsNode)

	// The clause has no field names: skip keywords and punctuation, take
	// the exception expression (if any) and the handler block
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		switch child.Type() {
		case "except", "except*", ":":
			continue
		case "block":
			node.Body = b.buildBlock(child)
		case "as_pattern":
			// except ValueError as e: the exception type is the first child
			if child.ChildCount() > 0 {
				node.Test = b.buildNode(child.Child(0))
			}
		default:
			if node.Test == nil {
				node.Test = b.buildNode(child)
			}
		}
	}

	return node
}

// buildFinallyClause builds a finally clause node
func (b *ASTBuilder) buildFinallyClause(tsNode *sitter.Node) *Node {
	node := NewNode(NodeFinallyClause)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "block" {
			node.Body = b.buildBlock(child)
		}
	}

	return node
}

// buildWithStatement builds a with statement node
func (b *ASTBuilder) buildWithStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeWithStatement)
	node.Location = b.getLocation(tsNode)

	if tsNode.ChildCount() > 0 {
		firstChild := tsNode.Child(0)
		if firstChild != nil && firstChild.Type() == "async" {
			node.Type = NodeAsyncWithStatement
			node.Async = true
		}
	}

	// Extract context manager expressions
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "with_clause" {
			for j := 0; j < int(child.ChildCount()); j++ {
				item := child.Child(j)
				if item != nil && item.Type() == "with_item" {
					itemNode := b.buildGenericNode(item)
					if itemNode != nil {
						node.Arguments = append(node.Arguments, itemNode)
					}
				}
			}
		}
	}

	// Extract body
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildBlock(bodyNode)
	}

	return node
}

// buildMatchStatement builds a match statement node
func (b *ASTBuilder) buildMatchStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeMatchStatement)
	node.Location = b.getLocation(tsNode)

	// Extract subject
	if subjectNode := b.getChildByFieldName(tsNode, "subject"); subjectNode != nil {
		node.Subject = b.buildNode(subjectNode)
	}

	// Extract case clauses
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		for i := 0; i < int(bodyNode.ChildCount()); i++ {
			child := bodyNode.Child(i)
			if child != nil && child.Type() == "case_clause" {
				caseNode := b.buildNode(child)
				if caseNode != nil {
					node.Cases = append(node.Cases, caseNode)
				}
			}
		}
	}

	return node
}

// buildCaseClause builds a match case clause node
func (b *ASTBuilder) buildCaseClause(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCaseClause)
	node.Location = b.getLocation(tsNode)

	if consNode := b.getChildByFieldName(tsNode, "consequence"); consNode != nil {
		node.Body = b.buildBlock(consNode)
	}

	// Extract case patterns and optional guard
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		switch child.Type() {
		case "case", ":", ",", "block":
			continue
		case "if_clause":
			node.Test = b.buildGenericNode(child)
		default:
			node.AddChild(b.buildNode(child))
		}
	}

	return node
}

// buildReturnStatement builds a return statement node
func (b *ASTBuilder) buildReturnStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeReturnStatement)
	node.Location = b.getLocation(tsNode)

	// Extract return value
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "return" {
			node.Value = b.buildNode(child)
			break
		}
	}

	return node
}

// buildRaiseStatement builds a raise statement node
func (b *ASTBuilder) buildRaiseStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeRaiseStatement)
	node.Location = b.getLocation(tsNode)

	// Extract raised value
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "raise" && child.Type() != "from" {
			node.Value = b.buildNode(child)
			break
		}
	}

	return node
}

// buildAssertStatement builds an assert statement node
func (b *ASTBuilder) buildAssertStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAssertStatement)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "assert" && child.Type() != "," {
			node.AddChild(b.buildNode(child))
		}
	}

	return node
}

// buildSimpleStatement builds a statement node with no operands
func (b *ASTBuilder) buildSimpleStatement(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)
	return node
}

// buildImportStatement builds an import statement node
func (b *ASTBuilder) buildImportStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeImport)
	node.Location = b.getLocation(tsNode)

	// Collect imported module names, ignoring "as" aliases
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			node.Names = append(node.Names, child.Content(b.source))
		case "aliased_import":
			if nameNode := b.getChildByFieldName(child, "name"); nameNode != nil {
				node.Names = append(node.Names, nameNode.Content(b.source))
			}
		}
	}

	return node
}

// buildImportFromStatement builds a from-import statement node
func (b *ASTBuilder) buildImportFromStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeImportFrom)
	node.Location = b.getLocation(tsNode)

	// Extract the source module
	if moduleNode := b.getChildByFieldName(tsNode, "module_name"); moduleNode != nil {
		node.Module = moduleNode.Content(b.source)
	}

	// Collect imported names, ignoring "as" aliases
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || tsNode.FieldNameForChild(i) == "module_name" {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			node.Names = append(node.Names, child.Content(b.source))
		case "aliased_import":
			if nameNode := b.getChildByFieldName(child, "name"); nameNode != nil {
				node.Names = append(node.Names, nameNode.Content(b.source))
			}
		case "wildcard_import":
			node.Names = append(node.Names, "*")
		}
	}

	return node
}

// buildScopeStatement builds a global or nonlocal statement node
func (b *ASTBuilder) buildScopeStatement(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "identifier" {
			node.Names = append(node.Names, child.Content(b.source))
		}
	}

	return node
}

// buildExpressionStatement builds an expression statement node
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeExpressionStatement)
	node.Location = b.getLocation(tsNode)

	// Unwrap single expression statements
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != ";" {
			return b.buildNode(child)
		}
	}

	return node
}

// buildAssignment builds an assignment node
func (b *ASTBuilder) buildAssignment(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAssign)
	node.Location = b.getLocation(tsNode)

	// Extract targets; a pattern list target assigns each element
	if leftNode := b.getChildByFieldName(tsNode, "left"); leftNode != nil {
		if leftNode.Type() == "pattern_list" || leftNode.Type() == "tuple_pattern" {
			for i := 0; i < int(leftNode.ChildCount()); i++ {
				child := leftNode.Child(i)
				if child != nil && !b.isTrivia(child) && child.Type() != "," && child.Type() != "(" && child.Type() != ")" {
					target := b.buildNode(child)
					if target != nil {
						node.Targets = append(node.Targets, target)
					}
				}
			}
		} else {
			target := b.buildNode(leftNode)
			if target != nil {
				node.Targets = append(node.Targets, target)
			}
		}
	}

	// An annotated assignment carries a type field we don't need beyond
	// distinguishing the node type
	if typeNode := b.getChildByFieldName(tsNode, "type"); typeNode != nil {
		node.Type = NodeAnnAssign
	}

	// Extract value
	if rightNode := b.getChildByFieldName(tsNode, "right"); rightNode != nil {
		node.Value = b.buildNode(rightNode)
	}

	return node
}

// buildAugmentedAssignment builds an augmented assignment node
func (b *ASTBuilder) buildAugmentedAssignment(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAugAssign)
	node.Location = b.getLocation(tsNode)

	if leftNode := b.getChildByFieldName(tsNode, "left"); leftNode != nil {
		target := b.buildNode(leftNode)
		if target != nil {
			node.Targets = append(node.Targets, target)
		}
	}

	if opNode := b.getChildByFieldName(tsNode, "operator"); opNode != nil {
		node.Operator = opNode.Content(b.source)
	}

	if rightNode := b.getChildByFieldName(tsNode, "right"); rightNode != nil {
		node.Value = b.buildNode(rightNode)
	}

	return node
}

// buildCall builds a call expression node
func (b *ASTBuilder) buildCall(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCallExpression)
	node.Location = b.getLocation(tsNode)

	// Extract function being called
	if funcNode := b.getChildByFieldName(tsNode, "function"); funcNode != nil {
		node.Func = b.buildNode(funcNode)
	}

	// Extract arguments
	if argsNode := b.getChildByFieldName(tsNode, "arguments"); argsNode != nil {
		for i := 0; i < int(argsNode.ChildCount()); i++ {
			child := argsNode.Child(i)
			if child != nil && !b.isTrivia(child) && child.Type() != "(" && child.Type() != ")" && child.Type() != "," {
				argNode := b.buildNode(child)
				if argNode != nil {
					node.Arguments = append(node.Arguments, argNode)
				}
			}
		}
	}

	return node
}

// buildAttribute builds an attribute access node
func (b *ASTBuilder) buildAttribute(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAttribute)
	node.Location = b.getLocation(tsNode)

	// Extract object
	if objNode := b.getChildByFieldName(tsNode, "object"); objNode != nil {
		node.Object = b.buildNode(objNode)
	}

	// Extract attribute name
	if attrNode := b.getChildByFieldName(tsNode, "attribute"); attrNode != nil {
		node.Attr = attrNode.Content(b.source)
	}

	return node
}

// buildIdentifier builds an identifier node
func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIdentifier)
	node.Location = b.getLocation(tsNode)
	node.Name = tsNode.Content(b.source)
	return node
}

// buildBinaryOperator builds a binary expression node
func (b *ASTBuilder) buildBinaryOperator(tsNode *sitter.Node) *Node {
	node := NewNode(NodeBinaryExpression)
	node.Location = b.getLocation(tsNode)

	if leftNode := b.getChildByFieldName(tsNode, "left"); leftNode != nil {
		node.Left = b.buildNode(leftNode)
	}
	if opNode := b.getChildByFieldName(tsNode, "operator"); opNode != nil {
		node.Operator = opNode.Content(b.source)
	}
	if rightNode := b.getChildByFieldName(tsNode, "right"); rightNode != nil {
		node.Right = b.buildNode(rightNode)
	}

	return node
}

// buildBooleanOperator builds a boolean expression node (and/or)
func (b *ASTBuilder) buildBooleanOperator(tsNode *sitter.Node) *Node {
	node := NewNode(NodeBooleanExpression)
	node.Location = b.getLocation(tsNode)

	if leftNode := b.getChildByFieldName(tsNode, "left"); leftNode != nil {
		node.Left = b.buildNode(leftNode)
	}
	if opNode := b.getChildByFieldName(tsNode, "operator"); opNode != nil {
		node.Operator = opNode.Content(b.source)
	}
	if rightNode := b.getChildByFieldName(tsNode, "right"); rightNode != nil {
		node.Right = b.buildNode(rightNode)
	}

	return node
}

// buildUnaryOperator builds a unary expression node
func (b *ASTBuilder) buildUnaryOperator(tsNode *sitter.Node) *Node {
	node := NewNode(NodeUnaryExpression)
	node.Location = b.getLocation(tsNode)

	if tsNode.Type() == "not_operator" {
		node.Operator = "not"
		if argNode := b.getChildByFieldName(tsNode, "argument"); argNode != nil {
			node.Value = b.buildNode(argNode)
		}
		return node
	}

	if opNode := b.getChildByFieldName(tsNode, "operator"); opNode != nil {
		node.Operator = opNode.Content(b.source)
	}
	if argNode := b.getChildByFieldName(tsNode, "argument"); argNode != nil {
		node.Value = b.buildNode(argNode)
	}

	return node
}

// buildComparisonOperator builds a comparison expression node
func (b *ASTBuilder) buildComparisonOperator(tsNode *sitter.Node) *Node {
	node := NewNode(NodeComparisonExpression)
	node.Location = b.getLocation(tsNode)

	// Comparisons may chain (a < b < c); keep all operands as children
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		if tsNode.FieldNameForChild(i) == "operators" {
			if node.Operator == "" {
				node.Operator = child.Content(b.source)
			}
			continue
		}
		node.AddChild(b.buildNode(child))
	}

	return node
}

// buildConditionalExpression builds a conditional expression node (x if c else y)
func (b *ASTBuilder) buildConditionalExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeConditionalExpression)
	node.Location = b.getLocation(tsNode)

	// The grammar has no field names here: named children are the
	// consequence, the condition, and the alternative in source order
	var exprs []*Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "if" && child.Type() != "else" {
			exprs = append(exprs, b.buildNode(child))
		}
	}

	if len(exprs) > 0 {
		node.Value = exprs[0]
	}
	if len(exprs) > 1 {
		node.Test = exprs[1]
	}
	if len(exprs) > 2 {
		node.Alternate = exprs[2]
	}

	return node
}

// buildLambda builds a lambda node
func (b *ASTBuilder) buildLambda(tsNode *sitter.Node) *Node {
	node := NewNode(NodeLambda)
	node.Location = b.getLocation(tsNode)

	if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Value = b.buildNode(bodyNode)
	}

	return node
}

// buildAwait builds an await expression node
func (b *ASTBuilder) buildAwait(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAwaitExpression)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "await" {
			node.Value = b.buildNode(child)
			break
		}
	}

	return node
}

// buildYield builds a yield expression node
func (b *ASTBuilder) buildYield(tsNode *sitter.Node) *Node {
	node := NewNode(NodeYieldExpression)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "yield" && child.Type() != "from" {
			node.Value = b.buildNode(child)
			break
		}
	}

	return node
}

// buildLiteral builds a literal node
func (b *ASTBuilder) buildLiteral(tsNode *sitter.Node) *Node {
	node := NewNode(NodeLiteral)
	node.Location = b.getLocation(tsNode)
	node.Raw = tsNode.Content(b.source)

	switch tsNode.Type() {
	case "string", "concatenated_string":
		node.Type = NodeStringLiteral
	case "integer", "float":
		node.Type = NodeNumberLiteral
	case "true", "false":
		node.Type = NodeBooleanLiteral
	case "none":
		node.Type = NodeNoneLiteral
	}

	return node
}

// buildContainer builds a container or comprehension node from its named children
func (b *ASTBuilder) buildContainer(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !b.isTrivia(child) {
			childNode := b.buildNode(child)
			if childNode != nil {
				node.AddChild(childNode)
			}
		}
	}

	return node
}

// buildSubscript builds a subscript node
func (b *ASTBuilder) buildSubscript(tsNode *sitter.Node) *Node {
	node := NewNode(NodeSubscript)
	node.Location = b.getLocation(tsNode)

	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Object = b.buildNode(valueNode)
	}
	if subNode := b.getChildByFieldName(tsNode, "subscript"); subNode != nil {
		node.Value = b.buildNode(subNode)
	}

	return node
}

// buildParenthesizedExpression unwraps a parenthesized expression
func (b *ASTBuilder) buildParenthesizedExpression(tsNode *sitter.Node) *Node {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !b.isTrivia(child) {
			return b.buildNode(child)
		}
	}
	return b.buildGenericNode(tsNode)
}

// buildGenericNode builds a generic node for unknown types
func (b *ASTBuilder) buildGenericNode(tsNode *sitter.Node) *Node {
	node := NewNode(NodeType(tsNode.Type()))
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !b.isTrivia(child) {
			childNode := b.buildNode(child)
			if childNode != nil {
				node.AddChild(childNode)
			}
		}
	}

	return node
}

// buildBlock builds the statement list of a block node
func (b *ASTBuilder) buildBlock(tsNode *sitter.Node) []*Node {
	var body []*Node

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) {
			childNode := b.buildNode(child)
			if childNode != nil {
				body = append(body, childNode)
			}
		}
	}

	return body
}

// buildParameters builds the parameter list from a parameters node
func (b *ASTBuilder) buildParameters(tsNode *sitter.Node) []*Node {
	var params []*Node

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}

		switch child.Type() {
		case "(", ")", ",", "positional_separator", "keyword_separator", "/", "*":
			continue
		case "identifier":
			params = append(params, b.buildParameter(child, child.Content(b.source)))
		case "typed_parameter":
			// First child holds the parameter pattern
			if child.ChildCount() > 0 {
				inner := child.Child(0)
				if inner != nil {
					params = append(params, b.buildParameter(child, b.parameterName(inner)))
				}
			}
		case "default_parameter", "typed_default_parameter":
			if nameNode := b.getChildByFieldName(child, "name"); nameNode != nil {
				params = append(params, b.buildParameter(child, b.parameterName(nameNode)))
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, b.buildParameter(child, b.parameterName(child)))
		}
	}

	return params
}

// buildParameter builds a single parameter node
func (b *ASTBuilder) buildParameter(tsNode *sitter.Node, name string) *Node {
	node := NewNode(NodeParameter)
	node.Location = b.getLocation(tsNode)
	node.Name = name
	return node
}

// parameterName extracts the identifier name from a parameter pattern,
// stripping any * or ** splat markers
func (b *ASTBuilder) parameterName(tsNode *sitter.Node) string {
	if tsNode.Type() == "identifier" {
		return tsNode.Content(b.source)
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "identifier" {
			return child.Content(b.source)
		}
	}
	return tsNode.Content(b.source)
}

// Helper methods

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// isTrivia checks if a node is trivia (comments, whitespace)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "line_continuation" ||
		nodeType == ""
}
