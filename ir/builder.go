// ----------------------------------------------------------------------------
// FILE: ir/builder.go
// ----------------------------------------------------------------------------
// PACKAGE: ir
// PURPOSE: Per-function lowering of a parsed, analyzed function body to
//          textual LLVM-flavored IR: SSA value naming, alloca/load/store
//          promote-to-memory discipline, and control-flow lowering to
//          labelled basic blocks.
// ----------------------------------------------------------------------------

package ir

import (
	"fmt"
	"strings"

	"neuro/ast"
	"neuro/diag"
	"neuro/token"
	"neuro/types"
)

// signature is a registered function's calling shape, built in the module
// assembler's first pass so calls to functions declared later in source
// still resolve during the second pass.
type signature struct {
	paramTypes []types.Type
	returnType types.Type
}

// slot is a local binding's storage location: a stack-allocated address and
// its declared type.
type slot struct {
	addr string
	typ  types.Type
}

// FunctionBuilder lowers a single function to LLVM-flavored IR text. One
// builder is reused across a module's functions; Build resets its state at
// the start of each call.
type FunctionBuilder struct {
	sigs         map[string]signature
	structFields map[string][]string // struct name -> field names in declaration order

	varCounter   int
	labelCounter int
	locals       map[string]slot
	lines        []string
	terminated   bool
}

// NewFunctionBuilder returns a builder that resolves calls against sigs (the
// module's two-pass signature registry) and struct field layouts against
// structFields.
func NewFunctionBuilder(sigs map[string]signature, structFields map[string][]string) *FunctionBuilder {
	return &FunctionBuilder{sigs: sigs, structFields: structFields}
}

func (b *FunctionBuilder) nextVar() string {
	name := fmt.Sprintf("%%%d", b.varCounter)
	b.varCounter++
	return name
}

func (b *FunctionBuilder) nextLabel(prefix string) string {
	name := fmt.Sprintf("%s.%d", prefix, b.labelCounter)
	b.labelCounter++
	return name
}

func (b *FunctionBuilder) emit(format string, args ...interface{}) {
	if b.terminated {
		return
	}
	b.lines = append(b.lines, "  "+fmt.Sprintf(format, args...))
}

func (b *FunctionBuilder) emitLabel(name string) {
	b.lines = append(b.lines, name+":")
	b.terminated = false
}

// llvmType maps a semantic type to its textual LLVM spelling, per the
// conventions established by function_builder.rs's map_type_to_llvm.
func llvmType(t types.Type) string {
	switch t.Kind {
	case types.I8, types.U8:
		return "i8"
	case types.I16, types.U16:
		return "i16"
	case types.I32, types.U32:
		return "i32"
	case types.I64, types.U64:
		return "i64"
	case types.F32:
		return "float"
	case types.F64:
		return "double"
	case types.Bool:
		return "i1"
	case types.String:
		return "i8*"
	case types.Void:
		return "void"
	case types.Tensor:
		return llvmType(*t.Elem) + "*"
	case types.Struct:
		return "%struct." + t.Name
	case types.Function:
		return "i8*"
	default:
		return "i32"
	}
}

func isFloatKind(t types.Type) bool { return t.IsFloat() }

// resolveTypeExpr maps a source-level type reference to its semantic type,
// consulting structFields for generic (struct) names the way sema.
// resolveTypeExpr does against its own struct table.
func (b *FunctionBuilder) resolveTypeExpr(t *ast.TypeExpr) types.Type {
	if t == nil {
		return types.TVoid
	}
	if resolved, ok := types.FromSourceName(t.Name); ok {
		return resolved
	}
	if _, ok := b.structFields[t.Name]; ok {
		return types.NewStruct(t.Name)
	}
	return types.TUnk
}

// Build lowers fn's body given its already-resolved parameter/return types
// (computed by the module assembler's signature registry, which also
// resolved every other function's signature for call resolution).
func (b *FunctionBuilder) Build(fn *ast.FunctionItem, paramTypes []types.Type, returnType types.Type) (string, error) {
	b.varCounter = 0
	b.labelCounter = 0
	b.locals = make(map[string]slot)
	b.lines = nil
	b.terminated = false

	var paramDecls []string
	for i, pt := range paramTypes {
		paramDecls = append(paramDecls, fmt.Sprintf("%s %%param_%d", llvmType(pt), i))
	}

	b.lines = append(b.lines, fmt.Sprintf("define %s @%s(%s) {", llvmType(returnType), fn.Name, strings.Join(paramDecls, ", ")))
	b.lines = append(b.lines, "entry:")

	// Promote parameters to memory: allocate a stack slot per parameter,
	// store the incoming value, and route the rest of the function through
	// the slot address so parameters behave exactly like locals.
	for i, p := range fn.Params {
		pt := paramTypes[i]
		addr := fmt.Sprintf("%%%s_addr", p.Name)
		lt := llvmType(pt)
		b.emit("%s = alloca %s", addr, lt)
		b.emit("store %s %%param_%d, %s* %s", lt, i, lt, addr)
		b.locals[p.Name] = slot{addr: addr, typ: pt}
	}

	for _, stmt := range fn.Body.Statements {
		if err := b.compileStatement(stmt); err != nil {
			return "", err
		}
	}

	b.ensureReturn(returnType)

	b.lines = append(b.lines, "}")
	return strings.Join(b.lines, "\n"), nil
}

func (b *FunctionBuilder) ensureReturn(returnType types.Type) {
	if len(b.lines) > 0 {
		last := strings.TrimSpace(b.lines[len(b.lines)-1])
		if strings.HasPrefix(last, "ret ") {
			return
		}
	}
	if returnType.Kind == types.Void {
		b.lines = append(b.lines, "  ret void")
		return
	}
	lt := llvmType(returnType)
	switch {
	case isFloatKind(returnType):
		b.lines = append(b.lines, fmt.Sprintf("  ret %s 0.0", lt))
	case returnType.Kind == types.Bool:
		b.lines = append(b.lines, "  ret i1 0")
	default:
		b.lines = append(b.lines, fmt.Sprintf("  ret %s 0", lt))
	}
}

func (b *FunctionBuilder) compileStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		return b.compileLet(s)

	case *ast.AssignStatement:
		sl, ok := b.locals[s.Target]
		if !ok {
			return codeGenError(s.Span(), "assignment to undeclared variable %q", s.Target)
		}
		val, err := b.compileExpression(s.Value)
		if err != nil {
			return err
		}
		llt := llvmType(sl.typ)
		b.emit("store %s %s, %s* %s", llt, val, llt, sl.addr)
		return nil

	case *ast.ReturnStatement:
		if s.Value == nil {
			b.emit("ret void")
			b.terminated = true
			return nil
		}
		val, err := b.compileExpression(s.Value)
		if err != nil {
			return err
		}
		rt := b.inferType(s.Value)
		b.emit("ret %s %s", llvmType(rt), val)
		b.terminated = true
		return nil

	case *ast.ExprStatement:
		_, err := b.compileExpression(s.Expr)
		return err

	case *ast.IfStatement:
		return b.compileIf(s)

	case *ast.WhileStatement:
		return b.compileWhile(s)

	case *ast.BlockStatement:
		for _, inner := range s.Body.Statements {
			if err := b.compileStatement(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.BreakStatement, *ast.ContinueStatement:
		return codeGenError(stmt.Span(), "break/continue are not yet lowered by the IR emitter")

	default:
		return codeGenError(stmt.Span(), "statement type not yet implemented in the IR emitter")
	}
}

func (b *FunctionBuilder) compileLet(s *ast.LetStatement) error {
	var lt types.Type
	switch {
	case s.Type != nil:
		lt = b.resolveTypeExpr(s.Type)
	case s.Value != nil:
		lt = b.inferType(s.Value)
	default:
		lt = types.TI32
	}

	addr := fmt.Sprintf("%%%s_addr", s.Name)
	llt := llvmType(lt)
	b.emit("%s = alloca %s", addr, llt)
	if s.Value != nil {
		val, err := b.compileExpression(s.Value)
		if err != nil {
			return err
		}
		b.emit("store %s %s, %s* %s", llt, val, llt, addr)
	}
	b.locals[s.Name] = slot{addr: addr, typ: lt}
	return nil
}

func (b *FunctionBuilder) compileIf(s *ast.IfStatement) error {
	cond, err := b.compileExpression(s.Condition)
	if err != nil {
		return err
	}
	thenLabel := b.nextLabel("then")
	mergeLabel := b.nextLabel("merge")
	elseLabel := mergeLabel
	if s.Else != nil {
		elseLabel = b.nextLabel("else")
	}

	b.emit("br i1 %s, label %%%s, label %%%s", cond, thenLabel, elseLabel)

	b.emitLabel(thenLabel)
	for _, stmt := range s.Then.Statements {
		if err := b.compileStatement(stmt); err != nil {
			return err
		}
	}
	if !b.terminated {
		b.emit("br label %%%s", mergeLabel)
	}

	if s.Else != nil {
		b.emitLabel(elseLabel)
		for _, stmt := range s.Else.Statements {
			if err := b.compileStatement(stmt); err != nil {
				return err
			}
		}
		if !b.terminated {
			b.emit("br label %%%s", mergeLabel)
		}
	}

	b.emitLabel(mergeLabel)
	return nil
}

func (b *FunctionBuilder) compileWhile(s *ast.WhileStatement) error {
	header := b.nextLabel("header")
	body := b.nextLabel("body")
	exit := b.nextLabel("exit")

	b.emit("br label %%%s", header)
	b.emitLabel(header)
	cond, err := b.compileExpression(s.Condition)
	if err != nil {
		return err
	}
	b.emit("br i1 %s, label %%%s, label %%%s", cond, body, exit)

	b.emitLabel(body)
	for _, stmt := range s.Body.Statements {
		if err := b.compileStatement(stmt); err != nil {
			return err
		}
	}
	if !b.terminated {
		b.emit("br label %%%s", header)
	}

	b.emitLabel(exit)
	return nil
}

func (b *FunctionBuilder) compileExpression(expr ast.Expression) (string, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return b.compileLiteral(e)
	case *ast.Identifier:
		return b.compileIdentifier(e)
	case *ast.BinaryExpr:
		return b.compileBinary(e)
	case *ast.UnaryExpr:
		return b.compileUnary(e)
	case *ast.CallExpr:
		return b.compileCall(e)
	case *ast.MemberExpr:
		return b.compileMember(e)
	case *ast.IndexExpr:
		return b.compileIndex(e)
	case *ast.TensorLiteral:
		return b.compileTensor(e)
	default:
		return "", codeGenError(expr.Span(), "expression type not yet implemented in the IR emitter")
	}
}

func (b *FunctionBuilder) compileLiteral(lit *ast.Literal) (string, error) {
	switch lit.Kind {
	case ast.IntLiteral:
		return fmt.Sprintf("%d", lit.IntValue), nil
	case ast.FloatLiteral:
		return fmt.Sprintf("%g", lit.FloatValue), nil
	case ast.BoolLiteral:
		if lit.BoolValue {
			return "1", nil
		}
		return "0", nil
	case ast.StringLiteral:
		return fmt.Sprintf("c%q", lit.StringValue+"\x00"), nil
	default:
		return "", codeGenError(lit.Span(), "unknown literal kind")
	}
}

func (b *FunctionBuilder) compileIdentifier(id *ast.Identifier) (string, error) {
	sl, ok := b.locals[id.Name]
	if !ok {
		return "", codeGenError(id.Span(), "undefined variable %q", id.Name)
	}
	result := b.nextVar()
	llt := llvmType(sl.typ)
	b.emit("%s = load %s, %s* %s", result, llt, llt, sl.addr)
	return result, nil
}

func (b *FunctionBuilder) compileBinary(e *ast.BinaryExpr) (string, error) {
	if e.Operator == token.ANDAND || e.Operator == token.OROR {
		return b.compileLogical(e)
	}

	left, err := b.compileExpression(e.Left)
	if err != nil {
		return "", err
	}
	right, err := b.compileExpression(e.Right)
	if err != nil {
		return "", err
	}

	lt := b.inferType(e.Left)
	result := b.nextVar()

	if isFloatKind(lt) {
		op, ok := floatOp(e.Operator)
		if !ok {
			return "", codeGenError(e.Span(), "binary operator not supported for float operands")
		}
		b.emit("%s = %s %s %s, %s", result, op, llvmType(lt), left, right)
		return result, nil
	}

	op, ok := intOp(e.Operator)
	if !ok {
		return "", codeGenError(e.Span(), "binary operator not supported for integer operands")
	}
	b.emit("%s = %s %s %s, %s", result, op, llvmType(lt), left, right)
	return result, nil
}

func intOp(op token.TokenType) (string, bool) {
	switch op {
	case token.PLUS:
		return "add", true
	case token.MINUS:
		return "sub", true
	case token.STAR:
		return "mul", true
	case token.SLASH:
		return "sdiv", true
	case token.PERCENT:
		return "srem", true
	case token.EQ:
		return "icmp eq", true
	case token.NEQ:
		return "icmp ne", true
	case token.LT:
		return "icmp slt", true
	case token.LE:
		return "icmp sle", true
	case token.GT:
		return "icmp sgt", true
	case token.GE:
		return "icmp sge", true
	default:
		return "", false
	}
}

func floatOp(op token.TokenType) (string, bool) {
	switch op {
	case token.PLUS:
		return "fadd", true
	case token.MINUS:
		return "fsub", true
	case token.STAR:
		return "fmul", true
	case token.SLASH:
		return "fdiv", true
	case token.EQ:
		return "fcmp oeq", true
	case token.NEQ:
		return "fcmp one", true
	case token.LT:
		return "fcmp olt", true
	case token.LE:
		return "fcmp ole", true
	case token.GT:
		return "fcmp ogt", true
	case token.GE:
		return "fcmp oge", true
	default:
		return "", false
	}
}

// compileLogical lowers && and || to short-circuit branches into labelled
// basic blocks, joining the result through a spilled i1 slot (keeps the
// result shape consistent with every other value in this builder, which
// lives behind an alloca rather than a phi node).
func (b *FunctionBuilder) compileLogical(e *ast.BinaryExpr) (string, error) {
	resultAddr := fmt.Sprintf("%%logical_addr.%d", b.varCounter)
	b.varCounter++
	b.emit("%s = alloca i1", resultAddr)

	left, err := b.compileExpression(e.Left)
	if err != nil {
		return "", err
	}

	rhsLabel := b.nextLabel("rhs")
	shortLabel := b.nextLabel("short")
	mergeLabel := b.nextLabel("merge")

	if e.Operator == token.ANDAND {
		b.emit("br i1 %s, label %%%s, label %%%s", left, rhsLabel, shortLabel)
	} else {
		b.emit("br i1 %s, label %%%s, label %%%s", left, shortLabel, rhsLabel)
	}

	b.emitLabel(shortLabel)
	b.emit("store i1 %s, i1* %s", left, resultAddr)
	b.emit("br label %%%s", mergeLabel)

	b.emitLabel(rhsLabel)
	right, err := b.compileExpression(e.Right)
	if err != nil {
		return "", err
	}
	b.emit("store i1 %s, i1* %s", right, resultAddr)
	b.emit("br label %%%s", mergeLabel)

	b.emitLabel(mergeLabel)
	result := b.nextVar()
	b.emit("%s = load i1, i1* %s", result, resultAddr)
	return result, nil
}

func (b *FunctionBuilder) compileUnary(e *ast.UnaryExpr) (string, error) {
	operand, err := b.compileExpression(e.Operand)
	if err != nil {
		return "", err
	}
	operandType := b.inferType(e.Operand)
	result := b.nextVar()

	switch e.Operator {
	case token.MINUS:
		if isFloatKind(operandType) {
			b.emit("%s = fneg %s %s", result, llvmType(operandType), operand)
		} else {
			b.emit("%s = sub %s 0, %s", result, llvmType(operandType), operand)
		}
		return result, nil
	case token.BANG:
		b.emit("%s = xor i1 %s, 1", result, operand)
		return result, nil
	default:
		return "", codeGenError(e.Span(), "unary operator not yet implemented")
	}
}

func (b *FunctionBuilder) compileCall(e *ast.CallExpr) (string, error) {
	id, ok := e.Callee.(*ast.Identifier)
	if !ok {
		return "", codeGenError(e.Span(), "only direct function calls are supported")
	}
	sig, ok := b.sigs[id.Name]
	if !ok {
		return "", codeGenError(e.Span(), "call to undeclared function %q", id.Name)
	}

	var argStrs []string
	for i, arg := range e.Args {
		val, err := b.compileExpression(arg)
		if err != nil {
			return "", err
		}
		at := types.TI32
		if i < len(sig.paramTypes) {
			at = sig.paramTypes[i]
		}
		argStrs = append(argStrs, fmt.Sprintf("%s %s", llvmType(at), val))
	}

	if sig.returnType.Kind == types.Void {
		b.emit("call void @%s(%s)", id.Name, strings.Join(argStrs, ", "))
		return "0", nil
	}

	result := b.nextVar()
	b.emit("%s = call %s @%s(%s)", result, llvmType(sig.returnType), id.Name, strings.Join(argStrs, ", "))
	return result, nil
}

// compileMember lowers field access to a getelementptr + load, per the
// struct-declaration supplement's flat %struct.NAME layout.
func (b *FunctionBuilder) compileMember(e *ast.MemberExpr) (string, error) {
	id, ok := e.Target.(*ast.Identifier)
	if !ok {
		return "", codeGenError(e.Span(), "field access only supported on a direct local for now")
	}
	sl, ok := b.locals[id.Name]
	if !ok || sl.typ.Kind != types.Struct {
		return "", codeGenError(e.Span(), "field access on a non-struct local %q", id.Name)
	}
	fields, ok := b.structFields[sl.typ.Name]
	if !ok {
		return "", codeGenError(e.Span(), "unknown struct type %q", sl.typ.Name)
	}
	index := -1
	for i, f := range fields {
		if f == e.Field {
			index = i
			break
		}
	}
	if index < 0 {
		return "", codeGenError(e.Span(), "struct %q has no field %q", sl.typ.Name, e.Field)
	}

	gep := b.nextVar()
	structType := llvmType(sl.typ)
	b.emit("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", gep, structType, structType, sl.addr, index)

	result := b.nextVar()
	// Struct fields carry a declared type in the AST, but collectStructFields
	// records only their names and order, so every field is loaded with the
	// same i32 load shape (see DESIGN.md's struct-field entry).
	b.emit("%s = load i32, i32* %s", result, gep)
	return result, nil
}

// compileTensor allocates a fixed-size array slot, stores each element, and
// returns the slot's address — the tensor's runtime representation is the
// pointer to its backing storage, matching llvmType's Tensor->pointer rule.
func (b *FunctionBuilder) compileTensor(e *ast.TensorLiteral) (string, error) {
	elemType := types.TI32
	for i, el := range e.Elements {
		t := b.inferType(el)
		if i == 0 && !t.IsUnknown() {
			elemType = t
		}
	}
	elemLLT := llvmType(elemType)
	n := len(e.Elements)

	addr := fmt.Sprintf("%%tensor_addr.%d", b.varCounter)
	b.varCounter++
	b.emit("%s = alloca [%d x %s]", addr, n, elemLLT)

	for i, el := range e.Elements {
		val, err := b.compileExpression(el)
		if err != nil {
			return "", err
		}
		gep := b.nextVar()
		b.emit("%s = getelementptr inbounds [%d x %s], [%d x %s]* %s, i32 0, i32 %d", gep, n, elemLLT, n, elemLLT, addr, i)
		b.emit("store %s %s, %s* %s", elemLLT, val, elemLLT, gep)
	}

	decay := b.nextVar()
	b.emit("%s = getelementptr inbounds [%d x %s], [%d x %s]* %s, i32 0, i32 0", decay, n, elemLLT, n, elemLLT, addr)
	return decay, nil
}

func (b *FunctionBuilder) compileIndex(e *ast.IndexExpr) (string, error) {
	target, err := b.compileExpression(e.Target)
	if err != nil {
		return "", err
	}
	index, err := b.compileExpression(e.Index)
	if err != nil {
		return "", err
	}
	targetType := b.inferType(e.Target)
	elemType := types.TI32
	if targetType.Kind == types.Tensor {
		elemType = *targetType.Elem
	}
	elemLLT := llvmType(elemType)

	gep := b.nextVar()
	b.emit("%s = getelementptr inbounds %s, %s* %s, i32 %s", gep, elemLLT, elemLLT, target, index)
	result := b.nextVar()
	b.emit("%s = load %s, %s* %s", result, elemLLT, elemLLT, gep)
	return result, nil
}

// inferType recovers an expression's semantic type for lowering purposes.
// The program is already analyzer-accepted by the time it reaches the IR
// emitter, so this is a best-effort re-derivation rather than a second type
// checker — it mirrors function_builder.rs's own infer_expression_type.
func (b *FunctionBuilder) inferType(expr ast.Expression) types.Type {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.IntLiteral:
			return types.TI32
		case ast.FloatLiteral:
			return types.TF32
		case ast.BoolLiteral:
			return types.TBool
		case ast.StringLiteral:
			return types.TString
		}
	case *ast.Identifier:
		if sl, ok := b.locals[e.Name]; ok {
			return sl.typ
		}
	case *ast.BinaryExpr:
		switch e.Operator {
		case token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE, token.ANDAND, token.OROR:
			return types.TBool
		default:
			return b.inferType(e.Left)
		}
	case *ast.UnaryExpr:
		if e.Operator == token.BANG {
			return types.TBool
		}
		return b.inferType(e.Operand)
	case *ast.CallExpr:
		if id, ok := e.Callee.(*ast.Identifier); ok {
			if sig, ok := b.sigs[id.Name]; ok {
				return sig.returnType
			}
		}
	case *ast.IndexExpr:
		t := b.inferType(e.Target)
		if t.Kind == types.Tensor {
			return *t.Elem
		}
	case *ast.TensorLiteral:
		elem := types.TI32
		for i, el := range e.Elements {
			t := b.inferType(el)
			if i == 0 && !t.IsUnknown() {
				elem = t
			}
		}
		return types.NewTensor(elem, []int{len(e.Elements)})
	}
	return types.TI32
}

func codeGenError(span token.Span, format string, args ...interface{}) error {
	return diag.NewError(diag.CodeGeneration, fmt.Sprintf(format, args...)).WithSpan(span)
}
