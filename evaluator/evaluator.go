// ==============================================================================================
// FILE: evaluator/evaluator.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: The tree-walking runtime. Traverses the AST and produces side
//          effects (builtin calls) or results (Objects). Handles variable
//          scoping, control-flow unwinding, and error propagation. Unlike
//          the semantic analyzer, arithmetic here is lenient: mixed
//          int/float promotes to float, and integer÷integer promotes to
//          float too.
// ==============================================================================================

package evaluator

import (
	"fmt"

	"neuro/ast"
	"neuro/object"
	"neuro/token"
)

// Eval recursively evaluates an AST node, returning the resulting runtime
// value. Control-flow unwinding (return/break/continue) and runtime errors
// are represented as ordinary Objects that the caller inspects with
// isUnwind/isError and bubbles upward without further evaluation.
func Eval(node ast.Node, env *object.Environment, builtins map[string]*object.Builtin) object.Object {
	switch node := node.(type) {

	case *ast.Program:
		return evalProgram(node, env, builtins)

	case *ast.FunctionItem:
		env.Define(node.Name, &object.Function{Name: node.Name, Parameters: node.Params, Body: node.Body, Env: env})
		return object.VOID

	case *ast.StructItem, *ast.ImportItem:
		return object.VOID

	case *ast.Block:
		return evalBlock(node, env, builtins)

	case *ast.ExprStatement:
		return Eval(node.Expr, env, builtins)

	case *ast.LetStatement:
		var val object.Object = object.VOID
		if node.Value != nil {
			val = Eval(node.Value, env, builtins)
			if isUnwind(val) {
				return val
			}
		}
		env.Define(node.Name, val)
		return object.VOID

	case *ast.AssignStatement:
		val := Eval(node.Value, env, builtins)
		if isUnwind(val) {
			return val
		}
		if !env.Assign(node.Target, val) {
			return newError("identifier not found: %s", node.Target)
		}
		return object.VOID

	case *ast.ReturnStatement:
		if node.Value == nil {
			return &object.ReturnValue{Value: object.VOID}
		}
		val := Eval(node.Value, env, builtins)
		if isUnwind(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	case *ast.IfStatement:
		return evalIfStatement(node, env, builtins)

	case *ast.WhileStatement:
		return evalWhileStatement(node, env, builtins)

	case *ast.ForStatement:
		return evalForStatement(node, env, builtins)

	case *ast.BreakStatement:
		return &object.BreakSignal{}

	case *ast.ContinueStatement:
		return &object.ContinueSignal{}

	case *ast.BlockStatement:
		return Eval(node.Body, object.NewEnclosedEnvironment(env), builtins)

	case *ast.Literal:
		return evalLiteral(node)

	case *ast.Identifier:
		return evalIdentifier(node, env)

	case *ast.BinaryExpr:
		left := Eval(node.Left, env, builtins)
		if isUnwind(left) {
			return left
		}
		right := Eval(node.Right, env, builtins)
		if isUnwind(right) {
			return right
		}
		return evalBinaryExpr(node.Operator, left, right)

	case *ast.UnaryExpr:
		right := Eval(node.Operand, env, builtins)
		if isUnwind(right) {
			return right
		}
		return evalUnaryExpr(node.Operator, right)

	case *ast.CallExpr:
		return evalCallExpr(node, env, builtins)

	case *ast.IndexExpr:
		left := Eval(node.Target, env, builtins)
		if isUnwind(left) {
			return left
		}
		index := Eval(node.Index, env, builtins)
		if isUnwind(index) {
			return index
		}
		return evalIndexExpr(left, index)

	case *ast.MemberExpr:
		left := Eval(node.Target, env, builtins)
		if isUnwind(left) {
			return left
		}
		return evalMemberExpr(left, node.Field)

	case *ast.TensorLiteral:
		elements, errObj := evalExpressions(node.Elements, env, builtins)
		if errObj != nil {
			return errObj
		}
		return &object.Tensor{Elements: elements}
	}

	return object.VOID
}

func evalProgram(p *ast.Program, env *object.Environment, builtins map[string]*object.Builtin) object.Object {
	for _, item := range p.Items {
		if fn, ok := item.(*ast.FunctionItem); ok {
			env.Define(fn.Name, &object.Function{Name: fn.Name, Parameters: fn.Params, Body: fn.Body, Env: env})
		}
	}
	return object.VOID
}

func evalBlock(b *ast.Block, env *object.Environment, builtins map[string]*object.Builtin) object.Object {
	var result object.Object = object.VOID
	for _, stmt := range b.Statements {
		result = Eval(stmt, env, builtins)
		if isUnwind(result) {
			return result
		}
	}
	return result
}

func evalIfStatement(s *ast.IfStatement, env *object.Environment, builtins map[string]*object.Builtin) object.Object {
	cond := Eval(s.Condition, env, builtins)
	if isUnwind(cond) {
		return cond
	}
	if isTruthy(cond) {
		return Eval(s.Then, object.NewEnclosedEnvironment(env), builtins)
	}
	if s.Else != nil {
		return Eval(s.Else, object.NewEnclosedEnvironment(env), builtins)
	}
	return object.VOID
}

func evalWhileStatement(s *ast.WhileStatement, env *object.Environment, builtins map[string]*object.Builtin) object.Object {
	for {
		cond := Eval(s.Condition, env, builtins)
		if isUnwind(cond) {
			return cond
		}
		if !isTruthy(cond) {
			return object.VOID
		}
		result := Eval(s.Body, object.NewEnclosedEnvironment(env), builtins)
		if _, ok := result.(*object.BreakSignal); ok {
			return object.VOID
		}
		if _, ok := result.(*object.ContinueSignal); ok {
			continue
		}
		if isUnwind(result) {
			return result
		}
	}
}

// evalForStatement iterates the loop variable over an iterable. A Tensor
// iterates element-by-element; an Integer N iterates 0..N, matching the
// "loop variable is an immutable int" rule the analyzer enforces.
func evalForStatement(s *ast.ForStatement, env *object.Environment, builtins map[string]*object.Builtin) object.Object {
	iter := Eval(s.Iterable, env, builtins)
	if isUnwind(iter) {
		return iter
	}

	var values []object.Object
	switch it := iter.(type) {
	case *object.Tensor:
		values = it.Elements
	case *object.Integer:
		values = make([]object.Object, it.Value)
		for i := range values {
			values[i] = &object.Integer{Value: int64(i)}
		}
	default:
		return newError("cannot iterate over %s", iter.Type())
	}

	for _, v := range values {
		loopEnv := object.NewEnclosedEnvironment(env)
		loopEnv.Define(s.LoopVar, v)
		result := Eval(s.Body, loopEnv, builtins)
		if _, ok := result.(*object.BreakSignal); ok {
			break
		}
		if _, ok := result.(*object.ContinueSignal); ok {
			continue
		}
		if isUnwind(result) {
			return result
		}
	}
	return object.VOID
}

func evalLiteral(lit *ast.Literal) object.Object {
	switch lit.Kind {
	case ast.IntLiteral:
		return &object.Integer{Value: lit.IntValue}
	case ast.FloatLiteral:
		return &object.Float{Value: lit.FloatValue}
	case ast.StringLiteral:
		return &object.String{Value: lit.StringValue}
	case ast.BoolLiteral:
		return object.NativeBool(lit.BoolValue)
	}
	return object.VOID
}

func evalIdentifier(id *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(id.Name); ok {
		return val
	}
	return newError("identifier not found: %s", id.Name)
}

func evalUnaryExpr(op token.TokenType, right object.Object) object.Object {
	switch op {
	case token.BANG:
		return object.NativeBool(!isTruthy(right))
	case token.MINUS:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Integer{Value: -r.Value}
		case *object.Float:
			return &object.Float{Value: -r.Value}
		}
		return newError("unknown operator: -%s", right.Type())
	}
	return newError("unknown operator: %s%s", op, right.Type())
}

func evalBinaryExpr(op token.TokenType, left, right object.Object) object.Object {
	switch op {
	case token.ANDAND, token.OROR:
		return evalLogicalExpr(op, left, right)
	}

	li, lIsInt := left.(*object.Integer)
	ri, rIsInt := right.(*object.Integer)
	lf, lIsFloat := left.(*object.Float)
	rf, rIsFloat := right.(*object.Float)

	switch {
	case lIsInt && rIsInt:
		return evalIntegerBinary(op, li, ri)
	case (lIsInt || lIsFloat) && (rIsInt || rIsFloat):
		// Mixed int/float or float/float: both operands promote to float.
		var lv, rv float64
		if lIsInt {
			lv = float64(li.Value)
		} else {
			lv = lf.Value
		}
		if rIsInt {
			rv = float64(ri.Value)
		} else {
			rv = rf.Value
		}
		return evalFloatBinary(op, lv, rv)
	}

	ls, lIsStr := left.(*object.String)
	rs, rIsStr := right.(*object.String)
	if lIsStr && rIsStr {
		return evalStringBinary(op, ls, rs)
	}

	lb, lIsBool := left.(*object.Boolean)
	rb, rIsBool := right.(*object.Boolean)
	if lIsBool && rIsBool {
		return evalBooleanBinary(op, lb, rb)
	}

	return newError("type mismatch: %s %s %s", left.Type(), op, right.Type())
}

func evalLogicalExpr(op token.TokenType, left, right object.Object) object.Object {
	lb, ok := left.(*object.Boolean)
	if !ok {
		return newError("unknown operator: %s %s %s", left.Type(), op, right.Type())
	}
	rb, ok := right.(*object.Boolean)
	if !ok {
		return newError("unknown operator: %s %s %s", left.Type(), op, right.Type())
	}
	if op == token.ANDAND {
		return object.NativeBool(lb.Value && rb.Value)
	}
	return object.NativeBool(lb.Value || rb.Value)
}

func evalIntegerBinary(op token.TokenType, l, r *object.Integer) object.Object {
	switch op {
	case token.PLUS:
		return &object.Integer{Value: l.Value + r.Value}
	case token.MINUS:
		return &object.Integer{Value: l.Value - r.Value}
	case token.STAR:
		return &object.Integer{Value: l.Value * r.Value}
	case token.SLASH:
		if r.Value == 0 {
			return newError("division by zero")
		}
		// Integer÷integer promotes to float.
		return &object.Float{Value: float64(l.Value) / float64(r.Value)}
	case token.PERCENT:
		if r.Value == 0 {
			return newError("modulo by zero")
		}
		return &object.Integer{Value: l.Value % r.Value}
	case token.EQ:
		return object.NativeBool(l.Value == r.Value)
	case token.NEQ:
		return object.NativeBool(l.Value != r.Value)
	case token.LT:
		return object.NativeBool(l.Value < r.Value)
	case token.LE:
		return object.NativeBool(l.Value <= r.Value)
	case token.GT:
		return object.NativeBool(l.Value > r.Value)
	case token.GE:
		return object.NativeBool(l.Value >= r.Value)
	}
	return newError("unknown operator: int %s int", op)
}

func evalFloatBinary(op token.TokenType, l, r float64) object.Object {
	switch op {
	case token.PLUS:
		return &object.Float{Value: l + r}
	case token.MINUS:
		return &object.Float{Value: l - r}
	case token.STAR:
		return &object.Float{Value: l * r}
	case token.SLASH:
		if r == 0 {
			return newError("division by zero")
		}
		return &object.Float{Value: l / r}
	case token.EQ:
		return object.NativeBool(l == r)
	case token.NEQ:
		return object.NativeBool(l != r)
	case token.LT:
		return object.NativeBool(l < r)
	case token.LE:
		return object.NativeBool(l <= r)
	case token.GT:
		return object.NativeBool(l > r)
	case token.GE:
		return object.NativeBool(l >= r)
	}
	return newError("unknown operator: float %s float", op)
}

func evalStringBinary(op token.TokenType, l, r *object.String) object.Object {
	switch op {
	case token.PLUS:
		return &object.String{Value: l.Value + r.Value}
	case token.EQ:
		return object.NativeBool(l.Value == r.Value)
	case token.NEQ:
		return object.NativeBool(l.Value != r.Value)
	case token.LT:
		return object.NativeBool(l.Value < r.Value)
	case token.LE:
		return object.NativeBool(l.Value <= r.Value)
	case token.GT:
		return object.NativeBool(l.Value > r.Value)
	case token.GE:
		return object.NativeBool(l.Value >= r.Value)
	}
	return newError("unknown operator: string %s string", op)
}

func evalBooleanBinary(op token.TokenType, l, r *object.Boolean) object.Object {
	switch op {
	case token.EQ:
		return object.NativeBool(l.Value == r.Value)
	case token.NEQ:
		return object.NativeBool(l.Value != r.Value)
	}
	return newError("unknown operator: bool %s bool", op)
}

func evalCallExpr(call *ast.CallExpr, env *object.Environment, builtins map[string]*object.Builtin) object.Object {
	name, ok := callee(call.Callee)
	if !ok {
		return newError("cannot call a non-identifier expression")
	}

	if b, ok := builtins[name]; ok {
		args, errObj := evalExpressions(call.Args, env, builtins)
		if errObj != nil {
			return errObj
		}
		return b.Fn(args...)
	}

	fnObj, ok := env.Get(name)
	if !ok {
		return newError("identifier not found: %s", name)
	}
	fn, ok := fnObj.(*object.Function)
	if !ok {
		return newError("not a function: %s", name)
	}

	args, errObj := evalExpressions(call.Args, env, builtins)
	if errObj != nil {
		return errObj
	}
	return applyFunction(fn, args, builtins)
}

func callee(expr ast.Expression) (string, bool) {
	id, ok := expr.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func applyFunction(fn *object.Function, args []object.Object, builtins map[string]*object.Builtin) object.Object {
	callEnv := object.NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Parameters {
		if i < len(args) {
			callEnv.Define(param.Name, args[i])
		}
	}
	result := Eval(fn.Body, callEnv, builtins)
	if rv, ok := result.(*object.ReturnValue); ok {
		return rv.Value
	}
	if isError(result) {
		return result
	}
	return object.VOID
}

func evalIndexExpr(left, index object.Object) object.Object {
	tensor, ok := left.(*object.Tensor)
	if !ok {
		return newError("index operator not supported: %s", left.Type())
	}
	idx, ok := index.(*object.Integer)
	if !ok {
		return newError("tensor index must be an integer")
	}
	if idx.Value < 0 || idx.Value >= int64(len(tensor.Elements)) {
		return newError("tensor index out of range: %d", idx.Value)
	}
	return tensor.Elements[idx.Value]
}

func evalMemberExpr(left object.Object, field string) object.Object {
	instance, ok := left.(*object.StructInstance)
	if !ok {
		return newError("not a struct instance: %s", left.Type())
	}
	val, ok := instance.Fields[field]
	if !ok {
		return newError("struct %s has no field %s", instance.TypeName, field)
	}
	return val
}

func evalExpressions(exprs []ast.Expression, env *object.Environment, builtins map[string]*object.Builtin) ([]object.Object, object.Object) {
	result := make([]object.Object, 0, len(exprs))
	for _, e := range exprs {
		val := Eval(e, env, builtins)
		if isUnwind(val) {
			return nil, val
		}
		result = append(result, val)
	}
	return result, nil
}

func isTruthy(obj object.Object) bool {
	switch v := obj.(type) {
	case *object.Boolean:
		return v.Value
	case *object.Void:
		return false
	case *object.Integer:
		return v.Value != 0
	case *object.Float:
		return v.Value != 0
	case *object.String:
		return v.Value != ""
	default:
		return true
	}
}

func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}

func isError(obj object.Object) bool {
	if obj == nil {
		return false
	}
	return obj.Type() == object.ERROR_OBJ
}

// isUnwind reports whether obj is a control-flow signal that must bubble
// upward without further evaluation: a return value, a break/continue
// signal, or a runtime error.
func isUnwind(obj object.Object) bool {
	if obj == nil {
		return false
	}
	switch obj.Type() {
	case object.RETURN_VALUE_OBJ, object.BREAK_OBJ, object.CONTINUE_OBJ, object.ERROR_OBJ:
		return true
	}
	return false
}

// Run executes main (if present), honoring the exit-code contract: the
// integer value of main's result, or 0 if main returns void or is absent.
// It returns the captured output log alongside the exit code, and a
// non-nil error only for a runtime error raised during evaluation.
func Run(program *ast.Program) (exitCode int, output []string, err error) {
	output = []string{}
	builtins := object.NewBuiltins(&output)
	env := object.NewEnvironment()

	result := Eval(program, env, builtins)
	if errObj, ok := result.(*object.Error); ok {
		return 1, output, fmt.Errorf("%s", errObj.Message)
	}

	mainObj, ok := env.Get("main")
	if !ok {
		return 0, output, nil
	}
	mainFn, ok := mainObj.(*object.Function)
	if !ok {
		return 0, output, nil
	}

	ret := applyFunction(mainFn, nil, builtins)
	if errObj, ok := ret.(*object.Error); ok {
		return 1, output, fmt.Errorf("%s", errObj.Message)
	}
	switch v := ret.(type) {
	case *object.Integer:
		return int(v.Value), output, nil
	default:
		return 0, output, nil
	}
}
