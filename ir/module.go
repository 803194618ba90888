// ----------------------------------------------------------------------------
// FILE: ir/module.go
// ----------------------------------------------------------------------------
// PACKAGE: ir
// PURPOSE: Module-level IR assembly: prelude emission, two-pass function
//          signature registration, source-order function emission, and
//          import-graph cycle detection / module linking.
// ----------------------------------------------------------------------------

package ir

import (
	"fmt"
	"strings"

	"neuro/ast"
	"neuro/diag"
	"neuro/types"
)

// Assemble lowers a fully parsed program into one textual IR module. The
// program is assumed to already be semantically accepted (the driver calls
// Analyze before CompileToIR); Assemble still returns an error for anything
// it cannot lower, per spec's code-generation/function-compilation/
// module-generation/type-conversion failure categories.
func Assemble(program *ast.Program, moduleName string) (string, error) {
	structFields, err := collectStructFields(program)
	if err != nil {
		return "", err
	}

	sigs, order, err := registerSignatures(program, structFields)
	if err != nil {
		return "", err
	}

	if cyclic, name := detectImportCycle(program); cyclic {
		return "", diag.NewError(diag.ModuleGeneration, fmt.Sprintf("circular dependency detected for module %q", name))
	}

	var out strings.Builder
	out.WriteString(prelude(moduleName))

	builder := NewFunctionBuilder(sigs, structFields)
	for i, name := range order {
		fn := findFunction(program, name)
		if fn == nil {
			continue
		}
		sig := sigs[name]
		body, err := builder.Build(fn, sig.paramTypes, sig.returnType)
		if err != nil {
			return "", err
		}
		out.WriteString(body)
		out.WriteString("\n")
		if i != len(order)-1 {
			out.WriteString("\n")
		}
	}

	return out.String(), nil
}

// prelude is the module's fixed header: module-id comment, source-filename
// directive, target-triple directive, the external printf-like declaration
// this target lowers `print` to, a global integer format string, and the
// built-in print(i32) function body, per spec.md §4.5's module-assembly
// contract.
func prelude(moduleName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "; ModuleID = '%s'\n", moduleName)
	fmt.Fprintf(&b, "source_filename = \"%s\"\n\n", moduleName)
	b.WriteString("target triple = \"x86_64-unknown-linux-gnu\"\n\n")
	b.WriteString("declare i32 @printf(i8*, ...)\n\n")
	b.WriteString("@.int_fmt = private unnamed_addr constant [4 x i8] c\"%d\\0A\\00\"\n\n")
	b.WriteString("define i32 @print(i32 %param_0) {\n")
	b.WriteString("entry:\n")
	b.WriteString("  %fmt = getelementptr inbounds [4 x i8], [4 x i8]* @.int_fmt, i32 0, i32 0\n")
	b.WriteString("  %0 = call i32 (i8*, ...) @printf(i8* %fmt, i32 %param_0)\n")
	b.WriteString("  ret i32 %0\n")
	b.WriteString("}\n\n")
	return b.String()
}

// collectStructFields builds a struct-name -> field-name list table from
// every top-level struct declaration, in declaration order (offsets into
// this slice become getelementptr indices).
func collectStructFields(program *ast.Program) (map[string][]string, error) {
	fields := make(map[string][]string)
	for _, item := range program.Items {
		st, ok := item.(*ast.StructItem)
		if !ok {
			continue
		}
		if _, exists := fields[st.Name]; exists {
			return nil, diag.NewError(diag.ModuleGeneration, fmt.Sprintf("struct %q is already defined", st.Name)).WithSpan(st.Span())
		}
		names := make([]string, len(st.Fields))
		for i, f := range st.Fields {
			names[i] = f.Name
		}
		fields[st.Name] = names
	}
	return fields, nil
}

// registerSignatures is the first pass spec.md §4.5 requires: a
// signature-only walk over every function declaration, before any body is
// emitted, so calls to functions declared later in source still resolve.
// Returns the registry plus the source order functions appear in.
func registerSignatures(program *ast.Program, structFields map[string][]string) (map[string]signature, []string, error) {
	// Seed the registry with the prelude's print(i32) -> i32 builtin so
	// calls to it resolve like any other function; sema accepts print
	// with any single argument, but the IR builtin only ever formats a
	// 32-bit integer, per spec.md §6.3.
	sigs := map[string]signature{
		"print": {paramTypes: []types.Type{types.TI32}, returnType: types.TI32},
	}
	var order []string

	resolve := func(t *ast.TypeExpr) types.Type {
		if t == nil {
			return types.TVoid
		}
		if resolved, ok := types.FromSourceName(t.Name); ok {
			return resolved
		}
		if _, ok := structFields[t.Name]; ok {
			return types.NewStruct(t.Name)
		}
		return types.TUnk
	}

	for _, item := range program.Items {
		fn, ok := item.(*ast.FunctionItem)
		if !ok {
			continue
		}
		if _, exists := sigs[fn.Name]; exists {
			return nil, nil, diag.NewError(diag.FunctionCompilation, fmt.Sprintf("function %q is already defined", fn.Name)).WithSpan(fn.Span())
		}

		paramTypes := make([]types.Type, len(fn.Params))
		for i, p := range fn.Params {
			paramTypes[i] = resolve(p.Type)
		}
		returnType := resolve(fn.ReturnType)

		sigs[fn.Name] = signature{paramTypes: paramTypes, returnType: returnType}
		order = append(order, fn.Name)
	}

	return sigs, order, nil
}

func findFunction(program *ast.Program, name string) *ast.FunctionItem {
	for _, item := range program.Items {
		if fn, ok := item.(*ast.FunctionItem); ok && fn.Name == name {
			return fn
		}
	}
	return nil
}

// detectImportCycle is a trivial cycle detector over one program's own
// import list: it reports the first import path that appears more than
// once. A single parsed program only ever describes one module's own import
// edges (module resolution itself is out of scope, per SPEC_FULL.md §3), so
// an import of the program's own module name, or a cycle running through
// other modules, is not detected.
func detectImportCycle(program *ast.Program) (bool, string) {
	seen := make(map[string]bool)
	for _, item := range program.Items {
		imp, ok := item.(*ast.ImportItem)
		if !ok {
			continue
		}
		if seen[imp.Path] {
			return true, imp.Path
		}
		seen[imp.Path] = true
	}
	return false, ""
}

// Link concatenates already-assembled per-module IR text in dependency
// order, each preceded by a `; === Module: NAME ===` comment, mirroring
// module_builder.rs's link_modules (dependencies first, main module last).
func Link(modules map[string]string, dependencyOrder []string, mainModule string) string {
	var b strings.Builder
	for _, name := range dependencyOrder {
		if name == mainModule {
			continue
		}
		if ir, ok := modules[name]; ok {
			fmt.Fprintf(&b, "; === Module: %s ===\n", name)
			b.WriteString(ir)
			b.WriteString("\n")
		}
	}
	if ir, ok := modules[mainModule]; ok {
		fmt.Fprintf(&b, "; === Module: %s ===\n", mainModule)
		b.WriteString(ir)
	}
	return b.String()
}
