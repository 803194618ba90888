// ==============================================================================================
// FILE: parser/parser_integration_test.go
// ==============================================================================================
// PURPOSE: Integration tests for the Parser. Validates the parsing of complete,
//          multi-part logical structures like recursive functions and structs.
// ==============================================================================================

package parser

import (
	"testing"

	"neuro/ast"
	"neuro/lexer"
	"neuro/token"
)

func TestIntegrationFactorialFunction(t *testing.T) {
	input := `
fn factorial(n: int) -> int {
	if n <= 1 {
		return 1;
	} else {
		return n * factorial(n - 1);
	}
}

fn main() {
	let result = factorial(5);
}
`
	l := lexer.New(input)
	p, err := New(l)
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(program.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(program.Items))
	}

	factorial, ok := program.Items[0].(*ast.FunctionItem)
	if !ok {
		t.Fatalf("item 0 not *ast.FunctionItem, got %T", program.Items[0])
	}
	if factorial.Name != "factorial" {
		t.Errorf("expected function name 'factorial', got %s", factorial.Name)
	}
	if len(factorial.Params) != 1 || factorial.Params[0].Name != "n" {
		t.Errorf("expected 1 parameter 'n', got %+v", factorial.Params)
	}

	ifStmt, ok := factorial.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", factorial.Body.Statements[0])
	}
	elseReturn := ifStmt.Else.Statements[0].(*ast.ReturnStatement)
	binary, ok := elseReturn.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr, got %T", elseReturn.Value)
	}
	if binary.Operator != token.STAR {
		t.Errorf("expected STAR operator, got %s", binary.Operator)
	}
	call, ok := binary.Right.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", binary.Right)
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || callee.Name != "factorial" {
		t.Errorf("expected call to 'factorial', got %+v", call.Callee)
	}

	main := program.Items[1].(*ast.FunctionItem)
	let := main.Body.Statements[0].(*ast.LetStatement)
	if _, ok := let.Value.(*ast.CallExpr); !ok {
		t.Errorf("expected a call expression in main, got %T", let.Value)
	}
}

func TestIntegrationStructsAndFieldAccess(t *testing.T) {
	input := `
struct User {
	name: string,
	age: int,
}

fn main() {
	if user.age > 18 {
		print(user.name);
	}
}
`
	l := lexer.New(input)
	p, err := New(l)
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(program.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(program.Items))
	}

	structItem, ok := program.Items[0].(*ast.StructItem)
	if !ok {
		t.Fatalf("expected *ast.StructItem, got %T", program.Items[0])
	}
	if len(structItem.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(structItem.Fields))
	}

	main := program.Items[1].(*ast.FunctionItem)
	ifStmt, ok := main.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", main.Body.Statements[0])
	}
	cond, ok := ifStmt.Condition.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("condition not *ast.BinaryExpr, got %T", ifStmt.Condition)
	}
	if cond.Operator != token.GT {
		t.Errorf("expected GT operator, got %s", cond.Operator)
	}
	if _, ok := cond.Left.(*ast.MemberExpr); !ok {
		t.Errorf("left side of condition expected *ast.MemberExpr, got %T", cond.Left)
	}
}
