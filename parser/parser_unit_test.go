// ==============================================================================================
// FILE: parser/parser_unit_test.go
// ==============================================================================================
// PURPOSE: Unit tests for individual parser components. Verifies that specific
//          grammar rules (let/assign, arithmetic, control flow) are parsed
//          correctly into isolated AST nodes.
// ==============================================================================================

package parser

import (
	"testing"

	"neuro/ast"
	"neuro/lexer"
	"neuro/token"
)

// Helper: initializes a parser from an input string, failing the test if
// construction itself errors.
func newParser(t *testing.T, input string) *Parser {
	t.Helper()
	l := lexer.New(input)
	p, err := New(l)
	if err != nil {
		t.Fatalf("parser construction failed: %v", err)
	}
	return p
}

func TestLetStatements(t *testing.T) {
	input := `
fn main() {
	let x = 5;
	let mut y: int = 10;
	let name = "Amogh";
	let flag = true;
	let pi: float = 3.14;
}
`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	if len(fn.Body.Statements) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(fn.Body.Statements))
	}

	tests := []struct {
		name    string
		mutable bool
	}{
		{"x", false}, {"y", true}, {"name", false}, {"flag", false}, {"pi", false},
	}
	for i, stmt := range fn.Body.Statements {
		let, ok := stmt.(*ast.LetStatement)
		if !ok {
			t.Fatalf("stmt[%d] is not *ast.LetStatement. got=%T", i, stmt)
		}
		if let.Name != tests[i].name {
			t.Errorf("stmt[%d] - expected name %s, got %s", i, tests[i].name, let.Name)
		}
		if let.Mutable != tests[i].mutable {
			t.Errorf("stmt[%d] - expected mutable=%v, got %v", i, tests[i].mutable, let.Mutable)
		}
	}
}

// TestValStatements exercises the spec's literal end-to-end scenarios (S2,
// S3), which bind with `val` rather than `let`. `val` must parse identically
// to `let` - same statement node, same mutability handling.
func TestValStatements(t *testing.T) {
	input := `
func add(a: i32, b: i32) -> i32 { return a + b; }
func main() -> i32 { val r: i32 = add(5, 3); return r; }
`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	mainFn := program.Items[1].(*ast.FunctionItem)
	let, ok := mainFn.Body.Statements[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("stmt[0] is not *ast.LetStatement. got=%T", mainFn.Body.Statements[0])
	}
	if let.Name != "r" || let.Mutable {
		t.Errorf("expected immutable binding named r, got name=%s mutable=%v", let.Name, let.Mutable)
	}

	input2 := `func main() -> i32 { val x: i32 = 10; return x; }`
	p2 := newParser(t, input2)
	if _, err := p2.ParseProgram(); err != nil {
		t.Fatalf("unexpected parse error for val statement: %v", err)
	}
}

func TestValKeywordLexesDistinctFromLet(t *testing.T) {
	l := lexer.New("val")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if tok.Type != token.VAL {
		t.Errorf("expected token.VAL, got %s", tok.Type)
	}
}

func TestAssignStatement(t *testing.T) {
	input := `fn main() { x = 5; }`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	assign, ok := fn.Body.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("statement is not *ast.AssignStatement. got=%T", fn.Body.Statements[0])
	}
	if assign.Target != "x" {
		t.Errorf("expected target 'x', got %s", assign.Target)
	}
}

func TestPrefixExpressions(t *testing.T) {
	input := `
fn main() {
	let a = -5;
	let b = !true;
}
`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)

	letA := fn.Body.Statements[0].(*ast.LetStatement)
	unary, ok := letA.Value.(*ast.UnaryExpr)
	if !ok {
		t.Fatalf("letA.Value is not *ast.UnaryExpr. got=%T", letA.Value)
	}
	if unary.Operator != token.MINUS {
		t.Errorf("operator is not MINUS. got=%s", unary.Operator)
	}

	letB := fn.Body.Statements[1].(*ast.LetStatement)
	unaryB, ok := letB.Value.(*ast.UnaryExpr)
	if !ok {
		t.Fatalf("letB.Value is not *ast.UnaryExpr. got=%T", letB.Value)
	}
	if unaryB.Operator != token.BANG {
		t.Errorf("operator is not BANG. got=%s", unaryB.Operator)
	}
}

func TestInfixExpressions(t *testing.T) {
	input := `
fn main() {
	let x = a + b;
	let y = c < d;
	let z = e == f;
}
`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	for _, stmt := range fn.Body.Statements {
		let, ok := stmt.(*ast.LetStatement)
		if !ok {
			t.Fatalf("stmt is not *ast.LetStatement. got=%T", stmt)
		}
		if _, ok := let.Value.(*ast.BinaryExpr); !ok {
			t.Errorf("let.Value is not *ast.BinaryExpr. got=%T", let.Value)
		}
	}
}

func TestFunctionAndCall(t *testing.T) {
	input := `
fn add(x: int, y: int) -> int {
	return x + y;
}
fn main() {
	let result = add(1, 2);
}
`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(program.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(program.Items))
	}

	addFn := program.Items[0].(*ast.FunctionItem)
	if addFn.Name != "add" || len(addFn.Params) != 2 {
		t.Fatalf("unexpected add() signature: %+v", addFn)
	}

	mainFn := program.Items[1].(*ast.FunctionItem)
	let := mainFn.Body.Statements[0].(*ast.LetStatement)
	if _, ok := let.Value.(*ast.CallExpr); !ok {
		t.Errorf("expected CallExpr, got=%T", let.Value)
	}
}

func TestIfStatement(t *testing.T) {
	input := `
fn main() {
	if x < y {
		print(x);
	} else {
		print(y);
	}
}
`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	ifStmt, ok := fn.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got=%T", fn.Body.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Errorf("expected an else block")
	}
}

func TestLoopStatements(t *testing.T) {
	input := `
fn main() {
	while flag {
		flag = false;
	}
	for i in xs {
		print(i);
	}
}
`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	if len(fn.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(fn.Body.Statements))
	}
	if _, ok := fn.Body.Statements[0].(*ast.WhileStatement); !ok {
		t.Errorf("expected *ast.WhileStatement, got %T", fn.Body.Statements[0])
	}
	if _, ok := fn.Body.Statements[1].(*ast.ForStatement); !ok {
		t.Errorf("expected *ast.ForStatement, got %T", fn.Body.Statements[1])
	}
}

func TestBreakAndContinue(t *testing.T) {
	input := `
fn main() {
	while true {
		break;
		continue;
	}
}
`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	whileStmt := fn.Body.Statements[0].(*ast.WhileStatement)
	if _, ok := whileStmt.Body.Statements[0].(*ast.BreakStatement); !ok {
		t.Errorf("expected *ast.BreakStatement, got %T", whileStmt.Body.Statements[0])
	}
	if _, ok := whileStmt.Body.Statements[1].(*ast.ContinueStatement); !ok {
		t.Errorf("expected *ast.ContinueStatement, got %T", whileStmt.Body.Statements[1])
	}
}

func TestStructDefinition(t *testing.T) {
	input := `struct Node { value: int, next: Node, }`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	stmt := program.Items[0].(*ast.StructItem)
	if stmt.Name != "Node" {
		t.Errorf("expected struct name Node, got %s", stmt.Name)
	}
	if len(stmt.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(stmt.Fields))
	}
}

func TestImportItem(t *testing.T) {
	input := `import std::math;`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	imp := program.Items[0].(*ast.ImportItem)
	if imp.Path != "std::math" {
		t.Errorf("expected path 'std::math', got %s", imp.Path)
	}
}

func TestFieldAccess(t *testing.T) {
	input := `fn main() { let x = user.name; }`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	let := fn.Body.Statements[0].(*ast.LetStatement)
	member, ok := let.Value.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("expected *ast.MemberExpr, got %T", let.Value)
	}
	if member.Field != "name" {
		t.Errorf("expected field name 'name', got %s", member.Field)
	}
}

func TestIndexExpression(t *testing.T) {
	input := `fn main() { let x = xs[0]; }`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	let := fn.Body.Statements[0].(*ast.LetStatement)
	if _, ok := let.Value.(*ast.IndexExpr); !ok {
		t.Fatalf("expected *ast.IndexExpr, got %T", let.Value)
	}
}

func TestTensorLiteral(t *testing.T) {
	input := `fn main() { let xs = [1, 2, 3]; }`
	p := newParser(t, input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	let := fn.Body.Statements[0].(*ast.LetStatement)
	tensor, ok := let.Value.(*ast.TensorLiteral)
	if !ok {
		t.Fatalf("expected *ast.TensorLiteral, got %T", let.Value)
	}
	if len(tensor.Elements) != 3 {
		t.Errorf("expected 3 elements, got %d", len(tensor.Elements))
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
	}{
		{"fn main() { let x = a + b * c; }"},
		{"fn main() { let x = a * b + c; }"},
		{"fn main() { let x = -a * b; }"},
		{"fn main() { let x = !a == b; }"},
		{"fn main() { let x = a || b && c; }"},
	}
	for _, tt := range tests {
		p := newParser(t, tt.input)
		if _, err := p.ParseProgram(); err != nil {
			t.Errorf("input %q: unexpected parse error: %v", tt.input, err)
		}
	}
}

func TestPrecedenceShapeAdditionBeforeMultiplication(t *testing.T) {
	// a + b * c should bind as a + (b * c): the top-level node is the '+'.
	p := newParser(t, "fn main() { let x = a + b * c; }")
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	fn := program.Items[0].(*ast.FunctionItem)
	let := fn.Body.Statements[0].(*ast.LetStatement)
	top, ok := let.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr, got %T", let.Value)
	}
	if top.Operator != token.PLUS {
		t.Fatalf("expected top operator PLUS, got %s", top.Operator)
	}
	if _, ok := top.Right.(*ast.BinaryExpr); !ok {
		t.Errorf("expected right side to be the nested '*' expression, got %T", top.Right)
	}
}
