// ----------------------------------------------------------------------------
// FILE: driver/driver.go
// ----------------------------------------------------------------------------
// PACKAGE: driver
// PURPOSE: Wires the compiler stages together for the CLI and REPL: lex,
//          parse, analyze, compile-to-IR, evaluate. Surfaces diagnostics
//          after each stage and stops at the first stage whose error count
//          is non-zero, except analyze, which always completes.
// ----------------------------------------------------------------------------

package driver

import (
	"fmt"
	"strings"

	"neuro/ast"
	"neuro/diag"
	"neuro/evaluator"
	"neuro/internal/buildcache"
	"neuro/internal/clog"
	"neuro/ir"
	"neuro/lexer"
	"neuro/parser"
	"neuro/sema"
	"neuro/token"
)

// Driver holds the long-lived state shared across a run: currently just the
// incremental-build cache consulted before IR emission. The zero Driver
// (cache == nil) works fine — it just recompiles every time.
type Driver struct {
	cache *buildcache.Cache
}

// New builds a Driver backed by cache. Pass nil to disable caching entirely.
func New(cache *buildcache.Cache) *Driver {
	return &Driver{cache: cache}
}

// Result accumulates everything a Run call produced, stage by stage, so a
// caller can inspect partial progress even when a later stage failed.
type Result struct {
	Tokens      []token.Token
	Program     *ast.Program
	Diagnostics []*diag.Diagnostic
	IR          string
	ExitCode    int
	Output      []string
}

// Tokenize runs the lexer to completion over source, failing fast on the
// first lexical error.
func Tokenize(source string) ([]token.Token, error) {
	return lexer.TokenizeAll(source)
}

// Parse lexes and parses source in one step, failing fast on the first
// syntax error.
func Parse(source string) (*ast.Program, error) {
	l := lexer.New(source)
	p, err := parser.New(l)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// Analyze runs the semantic analyzer. It always returns a populated
// Collector, even when diagnostics are present — the caller decides whether
// to proceed.
func Analyze(program *ast.Program) *diag.Collector {
	return sema.Analyze(program)
}

// CompileToIR lowers program to textual IR, consulting the build cache
// first. source is the original program text, used only to derive the
// cache key; callers that don't care about caching may pass a Driver built
// with a nil cache, in which case every call recompiles.
func (d *Driver) CompileToIR(source, moduleName string, program *ast.Program) (string, error) {
	var key string
	if d.cache != nil {
		key = buildcache.Key(moduleName, []byte(source))
		if entry, ok := d.cache.Lookup(key); ok {
			clog.Debug("buildcache hit", "module", moduleName, "build_id", entry.BuildID)
			if entry.Success {
				return entry.ModuleIR, nil
			}
			return "", fmt.Errorf("%s", strings.Join(entry.Errors, "; "))
		}
	}

	clog.Debug("compiling to IR", "module", moduleName)
	out, err := ir.Assemble(program, moduleName)
	if d.cache != nil {
		if err != nil {
			d.cache.Store(key, "", false, []string{err.Error()})
		} else {
			d.cache.Store(key, out, true, nil)
		}
	}
	return out, err
}

// Evaluate runs the interpreter over program. It does not require analysis
// to have succeeded; ill-typed operations surface as runtime errors instead.
func Evaluate(program *ast.Program) (exitCode int, output []string, err error) {
	return evaluator.Run(program)
}

// Run drives every stage in sequence over source, stopping at the first
// stage whose error count is non-zero. Analysis diagnostics are always
// collected and attached to Result, but only block the compile-to-IR path —
// per the interpreter's own contract, evaluate proceeds even over an
// ill-typed program. moduleName names the IR module when emitIR is true.
func (d *Driver) Run(source, moduleName string, emitIR bool) (*Result, error) {
	res := &Result{}

	tokens, err := Tokenize(source)
	if err != nil {
		clog.Error("tokenize failed", "error", err)
		return res, err
	}
	res.Tokens = tokens
	clog.Debug("tokenized", "count", len(tokens))

	program, err := Parse(source)
	if err != nil {
		clog.Error("parse failed", "error", err)
		return res, err
	}
	res.Program = program
	clog.Debug("parsed", "items", len(program.Items))

	collector := Analyze(program)
	res.Diagnostics = collector.Diagnostics()
	for _, dg := range res.Diagnostics {
		clog.Warn(dg.Error())
	}

	if emitIR {
		if collector.HasErrors() {
			return res, fmt.Errorf("semantic analysis reported errors; refusing to emit IR for %q", moduleName)
		}
		out, err := d.CompileToIR(source, moduleName, program)
		if err != nil {
			clog.Error("IR emission failed", "error", err)
			return res, err
		}
		res.IR = out
		return res, nil
	}

	exitCode, output, err := Evaluate(program)
	res.ExitCode = exitCode
	res.Output = output
	if err != nil {
		clog.Error("evaluation failed", "error", err)
	}
	return res, err
}
