// ==============================================================================================
// FILE: lexer/lexer_unit_test.go
// ==============================================================================================
// PURPOSE: Validates that the Lexer correctly identifies all token types and
//          literals for the NEURO grammar.
// ==============================================================================================

package lexer

import (
	"testing"

	"neuro/token"
)

type expectedToken struct {
	typ     token.TokenType
	literal string
}

func runLexerTest(t *testing.T, input string, expected []expectedToken) {
	t.Helper()
	l := New(input)
	for i, e := range expected {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected lexer error: %v", i, err)
		}
		if tok.Type != e.typ {
			t.Fatalf("tests[%d] - token type mismatch. expected=%q, got=%q", i, e.typ, tok.Type)
		}
		if tok.Literal != e.literal {
			t.Fatalf("tests[%d] - token literal mismatch. expected=%q, got=%q", i, e.literal, tok.Literal)
		}
	}
}

func TestIdentifiersBindingsAndLiterals(t *testing.T) {
	input := `
let x = 10;
let mut y: int = 20;
let name = "Amogh";
let flag = true;
let pi: float = 3.14;
`
	expected := []expectedToken{
		{token.NEWLINE, "\n"},
		{token.LET, "let"}, {token.IDENT, "x"}, {token.ASSIGN, "="}, {token.INT, "10"}, {token.SEMICOLON, ";"}, {token.NEWLINE, "\n"},
		{token.LET, "let"}, {token.MUT, "mut"}, {token.IDENT, "y"}, {token.COLON, ":"}, {token.IDENT, "int"}, {token.ASSIGN, "="}, {token.INT, "20"}, {token.SEMICOLON, ";"}, {token.NEWLINE, "\n"},
		{token.LET, "let"}, {token.IDENT, "name"}, {token.ASSIGN, "="}, {token.STRING, "Amogh"}, {token.SEMICOLON, ";"}, {token.NEWLINE, "\n"},
		{token.LET, "let"}, {token.IDENT, "flag"}, {token.ASSIGN, "="}, {token.BOOL, "true"}, {token.SEMICOLON, ";"}, {token.NEWLINE, "\n"},
		{token.LET, "let"}, {token.IDENT, "pi"}, {token.COLON, ":"}, {token.IDENT, "float"}, {token.ASSIGN, "="}, {token.FLOAT, "3.14"}, {token.SEMICOLON, ";"}, {token.NEWLINE, "\n"},
		{token.EOF, ""},
	}
	runLexerTest(t, input, expected)
}

func TestArithmeticOperators(t *testing.T) {
	input := "a + b c - d e * f g / h i % j"
	expected := []expectedToken{
		{token.IDENT, "a"}, {token.PLUS, "+"}, {token.IDENT, "b"},
		{token.IDENT, "c"}, {token.MINUS, "-"}, {token.IDENT, "d"},
		{token.IDENT, "e"}, {token.STAR, "*"}, {token.IDENT, "f"},
		{token.IDENT, "g"}, {token.SLASH, "/"}, {token.IDENT, "h"},
		{token.IDENT, "i"}, {token.PERCENT, "%"}, {token.IDENT, "j"},
		{token.EOF, ""},
	}
	runLexerTest(t, input, expected)
}

func TestComparisonOperators(t *testing.T) {
	input := "x == y a != b c > d e < f g >= h i <= j"
	expected := []expectedToken{
		{token.IDENT, "x"}, {token.EQ, "=="}, {token.IDENT, "y"},
		{token.IDENT, "a"}, {token.NEQ, "!="}, {token.IDENT, "b"},
		{token.IDENT, "c"}, {token.GT, ">"}, {token.IDENT, "d"},
		{token.IDENT, "e"}, {token.LT, "<"}, {token.IDENT, "f"},
		{token.IDENT, "g"}, {token.GE, ">="}, {token.IDENT, "h"},
		{token.IDENT, "i"}, {token.LE, "<="}, {token.IDENT, "j"},
		{token.EOF, ""},
	}
	runLexerTest(t, input, expected)
}

func TestLogicalOperators(t *testing.T) {
	input := "x && y a || b !flag"
	expected := []expectedToken{
		{token.IDENT, "x"}, {token.ANDAND, "&&"}, {token.IDENT, "y"},
		{token.IDENT, "a"}, {token.OROR, "||"}, {token.IDENT, "b"},
		{token.BANG, "!"}, {token.IDENT, "flag"},
		{token.EOF, ""},
	}
	runLexerTest(t, input, expected)
}

func TestControlFlowKeywords(t *testing.T) {
	input := `if x == 10 { print(x); } else { print(y); } return x;`
	expected := []expectedToken{
		{token.IF, "if"}, {token.IDENT, "x"}, {token.EQ, "=="}, {token.INT, "10"},
		{token.LBRACE, "{"},
		{token.IDENT, "print"}, {token.LPAREN, "("}, {token.IDENT, "x"}, {token.RPAREN, ")"}, {token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.IDENT, "print"}, {token.LPAREN, "("}, {token.IDENT, "y"}, {token.RPAREN, ")"}, {token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RETURN, "return"}, {token.IDENT, "x"}, {token.SEMICOLON, ";"},
		{token.EOF, ""},
	}
	runLexerTest(t, input, expected)
}

func TestRadixIntegers(t *testing.T) {
	input := "0x1F 0o17 0b1010 1_000_000"
	expected := []expectedToken{
		{token.INT, "0x1F"}, {token.INT, "0o17"}, {token.INT, "0b1010"}, {token.INT, "1000000"},
		{token.EOF, ""},
	}
	runLexerTest(t, input, expected)
}

func TestFloatExponent(t *testing.T) {
	input := "1e10 2.5e-3 6E+2"
	expected := []expectedToken{
		{token.FLOAT, "1e10"}, {token.FLOAT, "2.5e-3"}, {token.FLOAT, "6E+2"},
		{token.EOF, ""},
	}
	runLexerTest(t, input, expected)
}

func TestMLKeywords(t *testing.T) {
	input := "Tensor grad kernel gpu Arc Pool"
	expected := []expectedToken{
		{token.TENSOR, "Tensor"}, {token.GRAD, "grad"}, {token.KERNEL, "kernel"}, {token.GPU, "gpu"},
		{token.ARC, "Arc"}, {token.POOL, "Pool"},
		{token.EOF, ""},
	}
	runLexerTest(t, input, expected)
}

func TestMultiCharPunctuation(t *testing.T) {
	input := "a::b c..d e..=f g->h"
	expected := []expectedToken{
		{token.IDENT, "a"}, {token.COLONCOLON, "::"}, {token.IDENT, "b"},
		{token.IDENT, "c"}, {token.DOTDOT, ".."}, {token.IDENT, "d"},
		{token.IDENT, "e"}, {token.DOTDOTEQ, "..="}, {token.IDENT, "f"},
		{token.IDENT, "g"}, {token.ARROW, "->"}, {token.IDENT, "h"},
		{token.EOF, ""},
	}
	runLexerTest(t, input, expected)
}

func TestStringEscapes(t *testing.T) {
	l := New(`"line\nbreak\ttab\\slash\"quote\x41\u{1F600}"`)
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "line\nbreak\ttab\\slash\"quoteA\U0001F600"
	if tok.Literal != want {
		t.Fatalf("got %q, want %q", tok.Literal, want)
	}
}

func TestInvalidEscapeIsError(t *testing.T) {
	l := New(`"bad\qescape"`)
	if _, err := l.NextToken(); err == nil {
		t.Fatalf("expected an error for invalid escape sequence")
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	l := New(`"never closed`)
	if _, err := l.NextToken(); err == nil {
		t.Fatalf("expected an error for unterminated string")
	}
}
