// ----------------------------------------------------------------------------
// FILE: sema/sema.go
// ----------------------------------------------------------------------------
// PACKAGE: sema
// PURPOSE: Two-pass semantic analysis over a parsed program: name resolution,
//          scope management, and strict static typing. Unlike the lexer and
//          parser, analysis never aborts early — every independently
//          detectable error accumulates into a diagnostics collector so a
//          single run reports as many problems as it can find.
// ----------------------------------------------------------------------------
package sema

import (
	"fmt"

	"neuro/ast"
	"neuro/diag"
	"neuro/token"
	"neuro/types"
)

// SymbolKind distinguishes what a name in scope refers to.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymFunction
)

// Symbol is a resolved name: a variable's type and mutability, or a
// function's parameter/return signature.
type Symbol struct {
	Kind     SymbolKind
	Type     types.Type
	Mutable  bool
	Params   []types.Type
	Return   types.Type
}

// Scope is a lexical symbol table with a parent link; lookups walk
// outward until the root scope is exhausted.
type Scope struct {
	parent  *Scope
	symbols map[string]Symbol
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string]Symbol)}
}

func (s *Scope) define(name string, sym Symbol) {
	s.symbols[name] = sym
}

func (s *Scope) definedLocally(name string) bool {
	_, ok := s.symbols[name]
	return ok
}

func (s *Scope) resolve(name string) (Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Analyzer walks a program AST, building a root-scope symbol table in
// Pass 1 and type-checking every function body in Pass 2.
type Analyzer struct {
	collector *diag.Collector
	root      *Scope
	current   *Scope
	// expectedReturn is the declared return type of the function whose
	// body is currently being checked.
	expectedReturn types.Type
	// structs maps a struct name to its field name -> type table, built in
	// Pass 1 from every ast.StructItem.
	structs map[string]map[string]types.Type
}

// New constructs an Analyzer with a fresh root scope.
func New() *Analyzer {
	return &Analyzer{
		collector: diag.NewCollector(),
		root:      newScope(nil),
		structs:   make(map[string]map[string]types.Type),
	}
}

// Analyze runs both passes over the program and returns the accumulated
// diagnostics. The zero value (no errors) means the program is well-typed.
func Analyze(program *ast.Program) *diag.Collector {
	a := New()
	a.current = a.root
	a.registerDeclarations(program)
	a.checkBodies(program)
	return a.collector
}

func (a *Analyzer) errorf(span token.Span, code diag.Code, format string, args ...interface{}) {
	a.collector.Add(diag.NewError(code, fmt.Sprintf(format, args...)).WithSpan(span))
}

// ---------------------------------------------------------------------------
// Pass 1 — declarations
// ---------------------------------------------------------------------------

func (a *Analyzer) registerDeclarations(program *ast.Program) {
	// Struct field tables are registered before any type expression is
	// resolved, so a function signature referencing a struct name defined
	// later in the file still resolves.
	for _, item := range program.Items {
		st, ok := item.(*ast.StructItem)
		if !ok {
			continue
		}
		if _, exists := a.structs[st.Name]; exists {
			a.errorf(st.Span(), diag.NameError, "struct %q is already defined", st.Name)
			continue
		}
		fields := make(map[string]types.Type, len(st.Fields))
		for _, f := range st.Fields {
			fields[f.Name] = a.resolveTypeExpr(f.Type)
		}
		a.structs[st.Name] = fields
	}

	for _, item := range program.Items {
		fn, ok := item.(*ast.FunctionItem)
		if !ok {
			continue
		}
		if a.root.definedLocally(fn.Name) {
			a.errorf(fn.Span(), diag.NameError, "function %q is already defined", fn.Name)
			continue
		}
		paramTypes := make([]types.Type, len(fn.Params))
		for i, p := range fn.Params {
			paramTypes[i] = a.resolveTypeExpr(p.Type)
		}
		retType := types.TVoid
		if fn.ReturnType != nil {
			retType = a.resolveTypeExpr(fn.ReturnType)
		}
		a.root.define(fn.Name, Symbol{Kind: SymFunction, Params: paramTypes, Return: retType})
	}
}

// resolveTypeExpr maps a parsed type name to a semantic type, reporting
// unknown-type-name for anything the type system doesn't recognize.
func (a *Analyzer) resolveTypeExpr(t *ast.TypeExpr) types.Type {
	if t == nil {
		return types.TVoid
	}
	if resolved, ok := types.FromSourceName(t.Name); ok {
		return resolved
	}
	if _, ok := a.structs[t.Name]; ok {
		return types.NewStruct(t.Name)
	}
	a.errorf(t.Span(), diag.TypeError, "unknown type name %q", t.Name)
	return types.TUnk
}

// ---------------------------------------------------------------------------
// Pass 2 — bodies
// ---------------------------------------------------------------------------

func (a *Analyzer) checkBodies(program *ast.Program) {
	for _, item := range program.Items {
		fn, ok := item.(*ast.FunctionItem)
		if !ok {
			continue
		}
		a.checkFunction(fn)
	}
}

func (a *Analyzer) checkFunction(fn *ast.FunctionItem) {
	sym, _ := a.root.resolve(fn.Name)
	a.expectedReturn = sym.Return

	fnScope := newScope(a.root)
	for i, p := range fn.Params {
		if fnScope.definedLocally(p.Name) {
			a.errorf(p.Span(), diag.NameError, "variable %q is already defined", p.Name)
			continue
		}
		fnScope.define(p.Name, Symbol{Kind: SymVariable, Type: sym.Params[i], Mutable: false})
	}

	a.current = fnScope
	a.checkBlock(fn.Body)
	a.current = a.root
}

func (a *Analyzer) pushScope() { a.current = newScope(a.current) }
func (a *Analyzer) popScope()  { a.current = a.current.parent }

func (a *Analyzer) checkBlock(block *ast.Block) {
	a.pushScope()
	for _, stmt := range block.Statements {
		a.checkStatement(stmt)
	}
	a.popScope()
}

func (a *Analyzer) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		a.checkLet(s)
	case *ast.AssignStatement:
		a.checkAssign(s)
	case *ast.ReturnStatement:
		a.checkReturn(s)
	case *ast.ExprStatement:
		a.checkExpression(s.Expr)
	case *ast.IfStatement:
		a.checkIf(s)
	case *ast.WhileStatement:
		a.checkWhile(s)
	case *ast.ForStatement:
		a.checkFor(s)
	case *ast.BlockStatement:
		a.checkBlock(s.Body)
	case *ast.BreakStatement, *ast.ContinueStatement:
		// No additional validation: loop-nesting checks are not required.
	}
}

func (a *Analyzer) checkLet(s *ast.LetStatement) {
	if a.current.definedLocally(s.Name) {
		a.errorf(s.Span(), diag.NameError, "variable %q is already defined", s.Name)
		return
	}

	var declared types.Type
	hasDeclared := s.Type != nil
	if hasDeclared {
		declared = a.resolveTypeExpr(s.Type)
	}

	var valueType types.Type
	hasValue := s.Value != nil
	if hasValue {
		valueType = a.checkExpression(s.Value)
	}

	var varType types.Type
	switch {
	case hasDeclared && hasValue:
		if !declared.IsUnknown() && !valueType.IsUnknown() && !declared.IsCompatibleWith(valueType) {
			a.errorf(s.Value.Span(), diag.TypeError, "cannot assign value of type %s to variable of type %s", valueType, declared)
		}
		varType = declared
	case hasDeclared:
		varType = declared
	case hasValue:
		varType = valueType
	default:
		a.errorf(s.Span(), diag.TypeError, "let binding %q requires a type annotation or an initializer", s.Name)
		varType = types.TUnk
	}

	a.current.define(s.Name, Symbol{Kind: SymVariable, Type: varType, Mutable: s.Mutable})
}

func (a *Analyzer) checkAssign(s *ast.AssignStatement) {
	valueType := a.checkExpression(s.Value)

	sym, ok := a.current.resolve(s.Target)
	if !ok {
		a.errorf(s.Span(), diag.NameError, "undefined variable %q", s.Target)
		return
	}
	if sym.Kind == SymFunction {
		a.errorf(s.Span(), diag.TypeError, "cannot assign to function %q", s.Target)
		return
	}
	if !sym.Mutable {
		a.errorf(s.Span(), diag.TypeError, "cannot assign to immutable variable %q", s.Target)
		return
	}
	if !sym.Type.IsUnknown() && !valueType.IsUnknown() && !sym.Type.IsCompatibleWith(valueType) {
		a.errorf(s.Value.Span(), diag.TypeError, "cannot assign value of type %s to variable of type %s", valueType, sym.Type)
	}
}

func (a *Analyzer) checkReturn(s *ast.ReturnStatement) {
	if s.Value == nil {
		if !a.expectedReturn.IsUnknown() && a.expectedReturn.Kind != types.Void {
			a.errorf(s.Span(), diag.TypeError, "expected a return value of type %s", a.expectedReturn)
		}
		return
	}
	valueType := a.checkExpression(s.Value)
	if !a.expectedReturn.IsUnknown() && !valueType.IsUnknown() && !a.expectedReturn.IsCompatibleWith(valueType) {
		a.errorf(s.Value.Span(), diag.TypeError, "return type mismatch: expected %s, found %s", a.expectedReturn, valueType)
	}
}

func (a *Analyzer) checkIf(s *ast.IfStatement) {
	a.checkCondition(s.Condition)
	a.checkBlock(s.Then)
	if s.Else != nil {
		a.checkBlock(s.Else)
	}
}

func (a *Analyzer) checkWhile(s *ast.WhileStatement) {
	a.checkCondition(s.Condition)
	a.checkBlock(s.Body)
}

func (a *Analyzer) checkFor(s *ast.ForStatement) {
	iterType := a.checkExpression(s.Iterable)
	if !iterType.IsUnknown() && iterType.Kind != types.Tensor && !iterType.IsInteger() {
		a.errorf(s.Iterable.Span(), diag.TypeError, "cannot iterate over %s", iterType)
	}
	a.pushScope()
	a.current.define(s.LoopVar, Symbol{Kind: SymVariable, Type: types.TI32, Mutable: false})
	for _, stmt := range s.Body.Statements {
		a.checkStatement(stmt)
	}
	a.popScope()
}

func (a *Analyzer) checkCondition(cond ast.Expression) {
	t := a.checkExpression(cond)
	if !t.IsUnknown() && t.Kind != types.Bool {
		a.errorf(cond.Span(), diag.TypeError, "condition must be bool, found %s", t)
	}
}

// ---------------------------------------------------------------------------
// Expression typing
// ---------------------------------------------------------------------------

func (a *Analyzer) checkExpression(expr ast.Expression) types.Type {
	switch e := expr.(type) {
	case *ast.Literal:
		return a.literalType(e)
	case *ast.Identifier:
		return a.checkIdentifier(e)
	case *ast.BinaryExpr:
		return a.checkBinary(e)
	case *ast.UnaryExpr:
		return a.checkUnary(e)
	case *ast.CallExpr:
		return a.checkCall(e)
	case *ast.IndexExpr:
		target := a.checkExpression(e.Target)
		indexType := a.checkExpression(e.Index)
		if !indexType.IsUnknown() && !indexType.IsInteger() {
			a.errorf(e.Index.Span(), diag.TypeError, "tensor index must be an integer, found %s", indexType)
		}
		if target.IsUnknown() {
			return types.TUnk
		}
		if target.Kind != types.Tensor {
			a.errorf(e.Target.Span(), diag.TypeError, "cannot index into %s", target)
			return types.TUnk
		}
		return *target.Elem
	case *ast.MemberExpr:
		return a.checkMember(e)
	case *ast.TensorLiteral:
		elem := types.TI32
		for i, el := range e.Elements {
			t := a.checkExpression(el)
			if i == 0 && !t.IsUnknown() {
				elem = t
			}
		}
		return types.NewTensor(elem, []int{len(e.Elements)})
	default:
		return types.TUnk
	}
}

func (a *Analyzer) literalType(lit *ast.Literal) types.Type {
	switch lit.Kind {
	case ast.IntLiteral:
		return types.TI32
	case ast.FloatLiteral:
		return types.TF32
	case ast.BoolLiteral:
		return types.TBool
	case ast.StringLiteral:
		return types.TString
	default:
		return types.TUnk
	}
}

func (a *Analyzer) checkIdentifier(id *ast.Identifier) types.Type {
	sym, ok := a.current.resolve(id.Name)
	if !ok {
		a.errorf(id.Span(), diag.NameError, "undefined variable %q", id.Name)
		return types.TUnk
	}
	if sym.Kind == SymFunction {
		a.errorf(id.Span(), diag.TypeError, "%q is a function, not a variable", id.Name)
		return types.TUnk
	}
	return sym.Type
}

// checkMember resolves a field-access expression against the struct table
// built in Pass 1. The target must have a statically known struct type.
func (a *Analyzer) checkMember(e *ast.MemberExpr) types.Type {
	target := a.checkExpression(e.Target)
	if target.IsUnknown() {
		return types.TUnk
	}
	if target.Kind != types.Struct {
		a.errorf(e.Target.Span(), diag.TypeError, "cannot access field %q on non-struct type %s", e.Field, target)
		return types.TUnk
	}
	fields, ok := a.structs[target.Name]
	if !ok {
		return types.TUnk
	}
	fieldType, ok := fields[e.Field]
	if !ok {
		a.errorf(e.Span(), diag.TypeError, "struct %q has no field %q", target.Name, e.Field)
		return types.TUnk
	}
	return fieldType
}

func (a *Analyzer) checkBinary(bin *ast.BinaryExpr) types.Type {
	left := a.checkExpression(bin.Left)
	right := a.checkExpression(bin.Right)

	switch bin.Operator {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		if left.IsUnknown() || right.IsUnknown() {
			return types.TUnk
		}
		if !left.IsNumeric() || !right.IsNumeric() || !left.IsCompatibleWith(right) {
			a.errorf(bin.Span(), diag.TypeError, "invalid operand types %s and %s for operator %s", left, right, bin.Operator)
			return types.TUnk
		}
		return left

	case token.EQ, token.NEQ:
		if left.IsUnknown() || right.IsUnknown() {
			return types.TBool
		}
		if !left.IsCompatibleWith(right) {
			a.errorf(bin.Span(), diag.TypeError, "cannot compare %s and %s for equality", left, right)
		}
		return types.TBool

	case token.LT, token.LE, token.GT, token.GE:
		if left.IsUnknown() || right.IsUnknown() {
			return types.TBool
		}
		if !left.IsNumeric() || !right.IsNumeric() || !left.IsCompatibleWith(right) {
			a.errorf(bin.Span(), diag.TypeError, "invalid operand types %s and %s for operator %s", left, right, bin.Operator)
		}
		return types.TBool

	case token.ANDAND, token.OROR:
		if !left.IsUnknown() && left.Kind != types.Bool {
			a.errorf(bin.Left.Span(), diag.TypeError, "operand of %s must be bool, found %s", bin.Operator, left)
		}
		if !right.IsUnknown() && right.Kind != types.Bool {
			a.errorf(bin.Right.Span(), diag.TypeError, "operand of %s must be bool, found %s", bin.Operator, right)
		}
		return types.TBool

	default:
		a.errorf(bin.Span(), diag.TypeError, "invalid binary operator %s", bin.Operator)
		return types.TUnk
	}
}

func (a *Analyzer) checkUnary(un *ast.UnaryExpr) types.Type {
	operand := a.checkExpression(un.Operand)
	switch un.Operator {
	case token.MINUS:
		if operand.IsUnknown() {
			return types.TUnk
		}
		if !operand.IsNumeric() {
			a.errorf(un.Span(), diag.TypeError, "unary - requires a numeric operand, found %s", operand)
			return types.TUnk
		}
		return operand
	case token.BANG:
		if operand.IsUnknown() {
			return types.TBool
		}
		if operand.Kind != types.Bool {
			a.errorf(un.Span(), diag.TypeError, "unary ! requires a bool operand, found %s", operand)
		}
		return types.TBool
	default:
		a.errorf(un.Span(), diag.TypeError, "invalid unary operator %s", un.Operator)
		return types.TUnk
	}
}

// builtinReturn reports the return type of a builtin function by name, and
// whether the name refers to a builtin at all. Builtins accept a single
// argument of any type, so they bypass the declared-signature arity check.
func builtinReturn(name string) (types.Type, bool) {
	switch name {
	case "print":
		return types.TVoid, true
	case "type_of":
		return types.TString, true
	default:
		return types.Type{}, false
	}
}

func (a *Analyzer) checkCall(call *ast.CallExpr) types.Type {
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok {
		for _, arg := range call.Args {
			a.checkExpression(arg)
		}
		return types.TUnk
	}

	if ret, isBuiltin := builtinReturn(ident.Name); isBuiltin {
		if len(call.Args) != 1 {
			a.errorf(call.Span(), diag.TypeError, "%q expects 1 argument, got %d", ident.Name, len(call.Args))
		}
		for _, arg := range call.Args {
			a.checkExpression(arg)
		}
		return ret
	}

	sym, ok := a.current.resolve(ident.Name)
	if !ok {
		a.errorf(call.Span(), diag.NameError, "undefined function %q", ident.Name)
		for _, arg := range call.Args {
			a.checkExpression(arg)
		}
		return types.TUnk
	}
	if sym.Kind != SymFunction {
		a.errorf(call.Span(), diag.TypeError, "%q is not a function", ident.Name)
		for _, arg := range call.Args {
			a.checkExpression(arg)
		}
		return types.TUnk
	}

	if len(call.Args) != len(sym.Params) {
		a.errorf(call.Span(), diag.TypeError, "%q expects %d argument(s), got %d", ident.Name, len(sym.Params), len(call.Args))
	}
	for i, arg := range call.Args {
		argType := a.checkExpression(arg)
		if i >= len(sym.Params) {
			continue
		}
		if !argType.IsUnknown() && !sym.Params[i].IsUnknown() && !sym.Params[i].IsCompatibleWith(argType) {
			a.errorf(arg.Span(), diag.TypeError, "argument %d of %q: expected %s, found %s", i+1, ident.Name, sym.Params[i], argType)
		}
	}
	return sym.Return
}
