package parser

import (
	"context"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps tree-sitter parser for Python
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

// NewParser creates a new Python parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := python.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
	}
}

// ParseFile parses Python source code belonging to the named file
func (p *Parser) ParseFile(filename string, source []byte) (*Node, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("file %s is not valid UTF-8", filename)
	}

	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	// A tree containing error nodes means the source has syntax errors
	if rootNode.HasError() {
		return nil, fmt.Errorf("syntax error in %s", filename)
	}

	// Build our internal AST from tree-sitter CST
	builder := NewASTBuilder(filename, source)
	ast := builder.Build(rootNode)

	return ast, nil
}

// Parse parses Python source code
func (p *Parser) Parse(source []byte) (*Node, error) {
	return p.ParseFile("<input>", source)
}

// ParseString parses Python source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.Parse([]byte(source))
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseSource parses Python source with a one-shot parser
func ParseSource(filename string, source []byte) (*Node, error) {
	parser := NewParser()
	defer parser.Close()

	return parser.ParseFile(filename, source)
}
