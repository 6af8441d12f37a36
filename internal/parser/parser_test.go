package parser

import (
	"testing"
)

func TestParseSimpleFunction(t *testing.T) {
	code := `def hello():
    return 42
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ast == nil {
		t.Fatal("AST is nil")
	}

	if ast.Type != NodeModule {
		t.Errorf("Expected NodeModule, got %s", ast.Type)
	}

	if len(ast.Body) == 0 {
		t.Fatal("Expected at least one statement in body")
	}

	// Check if first statement is a function
	funcNode := ast.Body[0]
	if funcNode.Type != NodeFunctionDef {
		t.Errorf("Expected NodeFunctionDef, got %s", funcNode.Type)
	}

	if funcNode.Name != "hello" {
		t.Errorf("Expected function name 'hello', got '%s'", funcNode.Name)
	}
}

func TestParseIfElifElse(t *testing.T) {
	code := `
def greet(name):
    if name == "a":
        return "Hello, a"
    elif name == "b":
        return "Hello, b"
    else:
        return "Hello, stranger"
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ast == nil || len(ast.Body) == 0 {
		t.Fatal("AST is nil or empty")
	}

	funcNode := ast.Body[0]
	if funcNode.Name != "greet" {
		t.Errorf("Expected function name 'greet', got '%s'", funcNode.Name)
	}

	var ifNode *Node
	funcNode.Walk(func(n *Node) bool {
		if n.Type == NodeIfStatement {
			ifNode = n
			return false
		}
		return true
	})

	if ifNode == nil {
		t.Fatal("Expected to find if statement in function body")
	}
	if ifNode.Test == nil {
		t.Error("Expected if statement to have condition")
	}
	if len(ifNode.Elifs) != 1 {
		t.Errorf("Expected 1 elif arm, got %d", len(ifNode.Elifs))
	}
	if ifNode.Alternate == nil {
		t.Error("Expected if statement to have else clause")
	}
}

func TestParseAsyncFunction(t *testing.T) {
	code := `
async def fetch(url):
    return await get(url)
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeAsyncFunctionDef {
			found = true
			if !n.Async {
				t.Error("Expected async flag on async def")
			}
			if len(n.Params) != 1 {
				t.Errorf("Expected 1 parameter, got %d", len(n.Params))
			}
			return false
		}
		return true
	})

	if !found {
		t.Error("Expected to find async function definition")
	}
}

func TestParseClassWithInit(t *testing.T) {
	code := `
class Worker:
    def __init__(self, name):
        self.name = name

    def run(self):
        return self.name
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var classNode *Node
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeClassDef {
			classNode = n
			return false
		}
		return true
	})

	if classNode == nil {
		t.Fatal("Expected to find class definition")
	}
	if classNode.Name != "Worker" {
		t.Errorf("Expected class name 'Worker', got '%s'", classNode.Name)
	}

	methods := 0
	for _, stmt := range classNode.Body {
		if stmt.IsFunction() {
			methods++
		}
	}
	if methods != 2 {
		t.Errorf("Expected 2 methods in class body, got %d", methods)
	}
}

func TestParseForLoop(t *testing.T) {
	code := `
for i in range(10):
    print(i)
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeForStatement {
			found = true
			if n.Left == nil {
				t.Error("Expected for loop to have target")
			}
			if n.Right == nil {
				t.Error("Expected for loop to have iterable")
			}
			if len(n.Body) == 0 {
				t.Error("Expected for loop to have body")
			}
			return false
		}
		return true
	})

	if !found {
		t.Error("Expected to find for statement")
	}
}

func TestParseTryExceptFinally(t *testing.T) {
	code := `
try:
    risky()
except ValueError as e:
    handle(e)
except (KeyError, IndexError):
    pass
finally:
    cleanup()
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeTryStatement {
			found = true
			if len(n.Handlers) != 2 {
				t.Errorf("Expected 2 except clauses, got %d", len(n.Handlers))
			}
			if n.Finalizer == nil {
				t.Error("Expected try statement to have finally clause")
			}
			if len(n.Handlers) > 0 && n.Handlers[0].Test == nil {
				t.Error("Expected first except clause to carry exception type")
			}
			return false
		}
		return true
	})

	if !found {
		t.Error("Expected to find try statement")
	}
}

func TestParseImports(t *testing.T) {
	code := `
import os
import numpy as np
from datetime import datetime
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var imports []string
	var fromModules []string
	ast.Walk(func(n *Node) bool {
		switch n.Type {
		case NodeImport:
			imports = append(imports, n.Names...)
		case NodeImportFrom:
			fromModules = append(fromModules, n.Module)
		}
		return true
	})

	if len(imports) != 2 {
		t.Fatalf("Expected 2 plain imports, got %d (%v)", len(imports), imports)
	}
	if imports[0] != "os" || imports[1] != "numpy" {
		t.Errorf("Expected module names without aliases, got %v", imports)
	}
	if len(fromModules) != 1 || fromModules[0] != "datetime" {
		t.Errorf("Expected from-import of 'datetime', got %v", fromModules)
	}
}

func TestParseGlobalStatement(t *testing.T) {
	code := `
counter = 0

def bump():
    global counter
    counter += 1
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeGlobalStatement {
			found = true
			if len(n.Names) != 1 || n.Names[0] != "counter" {
				t.Errorf("Expected global declaration of 'counter', got %v", n.Names)
			}
			return false
		}
		return true
	})

	if !found {
		t.Error("Expected to find global statement")
	}
}

func TestParseCallExpressions(t *testing.T) {
	code := `
def work():
    open("data.txt")
    os.remove("data.txt")
    datetime.datetime.now()
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var simple, dotted []string
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeCallExpression {
			if name := n.CalleeName(); name != "" {
				simple = append(simple, name)
			}
			if name := n.DottedCalleeName(); name != "" {
				dotted = append(dotted, name)
			}
		}
		return true
	})

	if len(simple) != 1 || simple[0] != "open" {
		t.Errorf("Expected one direct call to 'open', got %v", simple)
	}

	wantDotted := map[string]bool{"open": true, "os.remove": true, "datetime.datetime.now": true}
	for _, name := range dotted {
		if !wantDotted[name] {
			t.Errorf("Unexpected dotted callee %q", name)
		}
	}
	if len(dotted) != 3 {
		t.Errorf("Expected 3 dotted callees, got %v", dotted)
	}
}

func TestParseDecoratedFunction(t *testing.T) {
	code := `
@cached
@retry(3)
def compute(x):
    return x * 2
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	funcNode := ast.Body[0]
	if funcNode.Type != NodeFunctionDef {
		t.Fatalf("Expected NodeFunctionDef after decorator unwrapping, got %s", funcNode.Type)
	}
	if funcNode.Name != "compute" {
		t.Errorf("Expected function name 'compute', got '%s'", funcNode.Name)
	}
	if len(funcNode.Decorators) != 2 {
		t.Errorf("Expected 2 decorators, got %d", len(funcNode.Decorators))
	}
}

func TestParseParameters(t *testing.T) {
	code := `
def configure(self, host, port=8080, *args, timeout=30, **kwargs):
    pass
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	funcNode := ast.Body[0]
	if len(funcNode.Params) != 6 {
		t.Fatalf("Expected 6 parameters, got %d", len(funcNode.Params))
	}

	want := []string{"self", "host", "port", "args", "timeout", "kwargs"}
	for i, param := range funcNode.Params {
		if param.Name != want[i] {
			t.Errorf("Parameter %d: expected %q, got %q", i, want[i], param.Name)
		}
	}
}

func TestParseMatchStatement(t *testing.T) {
	code := `
def route(cmd):
    match cmd:
        case "start":
            return 1
        case "stop":
            return 2
        case _:
            return 0
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeMatchStatement {
			found = true
			if len(n.Cases) != 3 {
				t.Errorf("Expected 3 case clauses, got %d", len(n.Cases))
			}
			return false
		}
		return true
	})

	if !found {
		t.Error("Expected to find match statement")
	}
}

func TestParseConditionalExpression(t *testing.T) {
	code := `x = 1 if flag else 2`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeConditionalExpression {
			found = true
			if n.Test == nil {
				t.Error("Expected conditional expression to have condition")
			}
			return false
		}
		return true
	})

	if !found {
		t.Error("Expected to find conditional expression")
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	code := `
a = 1
b, c = 2, 3
os.environ = {}
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var assigns []*Node
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeAssign {
			assigns = append(assigns, n)
		}
		return true
	})

	if len(assigns) != 3 {
		t.Fatalf("Expected 3 assignments, got %d", len(assigns))
	}
	if len(assigns[1].Targets) != 2 {
		t.Errorf("Expected tuple assignment to have 2 targets, got %d", len(assigns[1].Targets))
	}
	last := assigns[2]
	if len(last.Targets) != 1 || last.Targets[0].Type != NodeAttribute {
		t.Errorf("Expected attribute assignment target, got %v", last.Targets)
	}
}

func TestParseLineNumbers(t *testing.T) {
	code := `import os


def later():
    pass
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var funcNode *Node
	ast.Walk(func(n *Node) bool {
		if n.Type == NodeFunctionDef {
			funcNode = n
			return false
		}
		return true
	})

	if funcNode == nil {
		t.Fatal("Expected to find function definition")
	}
	if funcNode.Location.StartLine != 4 {
		t.Errorf("Expected function on line 4, got %d", funcNode.Location.StartLine)
	}
}

func TestParser_ParseString_Empty(t *testing.T) {
	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString("")
	if err != nil {
		t.Fatalf("Parsing empty string failed: %v", err)
	}
	if ast == nil {
		t.Error("AST should not be nil for empty input")
	}
	if len(ast.Body) != 0 {
		t.Errorf("Expected empty module body, got %d statements", len(ast.Body))
	}
}

func TestParser_SyntaxError(t *testing.T) {
	parser := NewParser()
	defer parser.Close()

	_, err := parser.ParseString("def broken(:\n    pass\n")
	if err == nil {
		t.Error("Expected error for source with syntax errors")
	}
}

func TestParser_InvalidUTF8(t *testing.T) {
	parser := NewParser()
	defer parser.Close()

	_, err := parser.Parse([]byte{0xff, 0xfe, 0xfd})
	if err == nil {
		t.Error("Expected error for invalid UTF-8 input")
	}
}

func TestParseSource(t *testing.T) {
	ast, err := ParseSource("sample.py", []byte("x = 1\n"))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if ast == nil {
		t.Fatal("AST should not be nil")
	}
	if ast.Location.File != "sample.py" {
		t.Errorf("Expected location file 'sample.py', got %q", ast.Location.File)
	}
}

func TestWalkVisitsTopLevelStatementsOnce(t *testing.T) {
	code := `def main():
    pass

class App:
    pass
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	functions := 0
	classes := 0
	ast.Walk(func(n *Node) bool {
		switch n.Type {
		case NodeFunctionDef:
			functions++
		case NodeClassDef:
			classes++
		}
		return true
	})

	if functions != 1 {
		t.Errorf("Expected 1 function visit, got %d", functions)
	}
	if classes != 1 {
		t.Errorf("Expected 1 class visit, got %d", classes)
	}
}

func TestWalkVisitsAugmentedAssignmentValueOnce(t *testing.T) {
	code := `def f(x, c):
    x += 1 if c else 2
`

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	conditionals := 0
	targets := 0
	ast.Walk(func(n *Node) bool {
		switch n.Type {
		case NodeConditionalExpression:
			conditionals++
		case NodeIdentifier:
			if n.Name == "x" {
				targets++
			}
		}
		return true
	})

	if conditionals != 1 {
		t.Errorf("Expected 1 conditional expression visit, got %d", conditionals)
	}
	if targets != 1 {
		t.Errorf("Expected 1 visit of identifier x, got %d", targets)
	}
}
