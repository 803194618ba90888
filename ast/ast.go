// ==============================================================================================
// PACKAGE: ast
// PURPOSE: Abstract syntax tree node definitions produced by the parser and
//          consumed by the semantic analyzer, interpreter, and IR emitter.
// ==============================================================================================

package ast

import "neuro/token"

// Node is the root interface every AST node implements.
type Node interface {
	Span() token.Span
}

// Item is a top-level declaration: a function, a struct, or an import.
type Item interface {
	Node
	itemNode()
}

// Statement is anything that can appear inside a block.
type Statement interface {
	Node
	statementNode()
}

// Expression is anything that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// ----------------------------------------------------------------------------------------------
// Program and items
// ----------------------------------------------------------------------------------------------

// Program is the root node: an ordered sequence of top-level items.
type Program struct {
	Items    []Item
	SpanInfo token.Span
}

func (p *Program) Span() token.Span { return p.SpanInfo }

// Param is a single function parameter: a name with an optional type
// annotation (grammar allows `NAME (: TYPE)?`).
type Param struct {
	Name     string
	Type     *TypeExpr // nil if untyped
	SpanInfo token.Span
}

func (p *Param) Span() token.Span { return p.SpanInfo }

// TypeExpr is a source-level type reference: a single identifier, mapped by
// the analyzer to a built-in or a generic (struct) name.
type TypeExpr struct {
	Name     string
	SpanInfo token.Span
}

func (t *TypeExpr) Span() token.Span { return t.SpanInfo }

// FunctionItem is a top-level function declaration.
type FunctionItem struct {
	Name       string
	Params     []*Param
	ReturnType *TypeExpr // nil means no declared return type (void)
	Body       *Block
	SpanInfo   token.Span
}

func (f *FunctionItem) itemNode()        {}
func (f *FunctionItem) Span() token.Span { return f.SpanInfo }

// StructField is a single `NAME: TYPE` entry in a struct declaration.
type StructField struct {
	Name     string
	Type     *TypeExpr
	SpanInfo token.Span
}

func (f *StructField) Span() token.Span { return f.SpanInfo }

// StructItem is a top-level struct declaration.
type StructItem struct {
	Name     string
	Fields   []*StructField
	SpanInfo token.Span
}

func (s *StructItem) itemNode()        {}
func (s *StructItem) Span() token.Span { return s.SpanInfo }

// ImportItem is a top-level import. Path is either a single string literal
// or a `::`-separated identifier path, joined with "::" either way so
// downstream consumers see one canonical form.
type ImportItem struct {
	Path     string
	IsString bool
	SpanInfo token.Span
}

func (i *ImportItem) itemNode()        {}
func (i *ImportItem) Span() token.Span { return i.SpanInfo }

// ----------------------------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------------------------

// Block is an ordered sequence of statements delimited by `{` `}`.
type Block struct {
	Statements []Statement
	SpanInfo   token.Span
}

func (b *Block) statementNode()     {}
func (b *Block) Span() token.Span   { return b.SpanInfo }

// ExprStatement wraps an expression used for its side effect.
type ExprStatement struct {
	Expr     Expression
	SpanInfo token.Span
}

func (s *ExprStatement) statementNode()   {}
func (s *ExprStatement) Span() token.Span { return s.SpanInfo }

// LetStatement declares a new binding: `let [mut] NAME (: TYPE)? (= EXPR)? ;`.
type LetStatement struct {
	Name     string
	Mutable  bool
	Type     *TypeExpr   // nil if no annotation
	Value    Expression  // nil if no initializer
	SpanInfo token.Span
}

func (s *LetStatement) statementNode()   {}
func (s *LetStatement) Span() token.Span { return s.SpanInfo }

// AssignStatement assigns a new value to an existing binding: `NAME = EXPR ;`.
type AssignStatement struct {
	Target   string
	Value    Expression
	SpanInfo token.Span
}

func (s *AssignStatement) statementNode()   {}
func (s *AssignStatement) Span() token.Span { return s.SpanInfo }

// ReturnStatement returns from the enclosing function, with an optional value.
type ReturnStatement struct {
	Value    Expression // nil for a bare `return;`
	SpanInfo token.Span
}

func (s *ReturnStatement) statementNode()   {}
func (s *ReturnStatement) Span() token.Span { return s.SpanInfo }

// IfStatement is a conditional with an optional else block.
type IfStatement struct {
	Condition Expression
	Then      *Block
	Else      *Block // nil if no else branch
	SpanInfo  token.Span
}

func (s *IfStatement) statementNode()   {}
func (s *IfStatement) Span() token.Span { return s.SpanInfo }

// WhileStatement is a condition-checked loop.
type WhileStatement struct {
	Condition Expression
	Body      *Block
	SpanInfo  token.Span
}

func (s *WhileStatement) statementNode()   {}
func (s *WhileStatement) Span() token.Span { return s.SpanInfo }

// ForStatement iterates LoopVar over Iterable.
type ForStatement struct {
	LoopVar  string
	Iterable Expression
	Body     *Block
	SpanInfo token.Span
}

func (s *ForStatement) statementNode()   {}
func (s *ForStatement) Span() token.Span { return s.SpanInfo }

// BreakStatement exits the innermost enclosing loop.
type BreakStatement struct {
	SpanInfo token.Span
}

func (s *BreakStatement) statementNode()   {}
func (s *BreakStatement) Span() token.Span { return s.SpanInfo }

// ContinueStatement resumes the innermost enclosing loop's next iteration.
type ContinueStatement struct {
	SpanInfo token.Span
}

func (s *ContinueStatement) statementNode()   {}
func (s *ContinueStatement) Span() token.Span { return s.SpanInfo }

// BlockStatement is a bare nested block `{ ... }` used as a statement.
type BlockStatement struct {
	Body     *Block
	SpanInfo token.Span
}

func (s *BlockStatement) statementNode()   {}
func (s *BlockStatement) Span() token.Span { return s.SpanInfo }

// ----------------------------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------------------------

// LiteralKind distinguishes the literal variants.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
)

// Literal is an integer, float, string, or boolean literal.
type Literal struct {
	Kind        LiteralKind
	IntValue    int64
	FloatValue  float64
	StringValue string
	BoolValue   bool
	SpanInfo    token.Span
}

func (e *Literal) expressionNode()  {}
func (e *Literal) Span() token.Span { return e.SpanInfo }

// Identifier is a name reference.
type Identifier struct {
	Name     string
	SpanInfo token.Span
}

func (e *Identifier) expressionNode()  {}
func (e *Identifier) Span() token.Span { return e.SpanInfo }

// BinaryExpr is a binary operator expression.
type BinaryExpr struct {
	Operator token.TokenType
	Left     Expression
	Right    Expression
	SpanInfo token.Span
}

func (e *BinaryExpr) expressionNode()  {}
func (e *BinaryExpr) Span() token.Span { return e.SpanInfo }

// UnaryExpr is a unary operator expression (negate or logical-not).
type UnaryExpr struct {
	Operator token.TokenType
	Operand  Expression
	SpanInfo token.Span
}

func (e *UnaryExpr) expressionNode()  {}
func (e *UnaryExpr) Span() token.Span { return e.SpanInfo }

// CallExpr is a function call.
type CallExpr struct {
	Callee   Expression
	Args     []Expression
	SpanInfo token.Span
}

func (e *CallExpr) expressionNode()  {}
func (e *CallExpr) Span() token.Span { return e.SpanInfo }

// IndexExpr is a subscript expression: `expr [ expr ]`.
type IndexExpr struct {
	Target   Expression
	Index    Expression
	SpanInfo token.Span
}

func (e *IndexExpr) expressionNode()  {}
func (e *IndexExpr) Span() token.Span { return e.SpanInfo }

// MemberExpr is a field-access expression: `expr . NAME`.
type MemberExpr struct {
	Target   Expression
	Field    string
	SpanInfo token.Span
}

func (e *MemberExpr) expressionNode()  {}
func (e *MemberExpr) Span() token.Span { return e.SpanInfo }

// TensorLiteral is a Tensor type literal: an element list with implied shape.
type TensorLiteral struct {
	Elements []Expression
	SpanInfo token.Span
}

func (e *TensorLiteral) expressionNode()  {}
func (e *TensorLiteral) Span() token.Span { return e.SpanInfo }
