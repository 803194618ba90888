// ==============================================================================================
// FILE: repl/repl.go
// ==============================================================================================
// PACKAGE: repl
// PURPOSE: The Read-Eval-Print Loop interface. It connects the user input
//          stream to the compiler pipeline (lexer -> parser -> evaluator)
//          and manages the persistent session state.
// ==============================================================================================

package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"neuro/ast"
	"neuro/evaluator"
	"neuro/lexer"
	"neuro/object"
	"neuro/parser"
	"neuro/token"
)

// ----------------------------------------------------------------------------
// UI CONSTANTS & CONFIGURATION
// ----------------------------------------------------------------------------

const (
	PROMPT = ">> "
	LOGO   = `
┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
┃  _   _ _____ _   _ ____   ___                      ┃
┃ | \ | | ____| | | |  _ \ / _ \                     ┃
┃ |  \| |  _| | | | | |_) | | | |                    ┃
┃ | |\  | |___| |_| |  _ <| |_| |                    ┃
┃ |_| \_|_____|\___/|_| \_\\___/                      ┃
┃                                                    ┃
┃ NEURO interactive shell                            ┃
┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
`
)

// ANSI Color Codes for terminal output
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
	Bold   = "\033[1m"
)

// replFunctionName wraps every typed line in a throwaway function so the
// parser's top-level grammar (function | struct | import) can still make
// sense of a bare statement or expression typed at the prompt.
const replFunctionName = "__repl_line__"

// ----------------------------------------------------------------------------
// REPL LOGIC
// ----------------------------------------------------------------------------

// Start launches the Read-Eval-Print Loop. It listens to 'in', evaluates
// code, and writes results to 'out'. env and the output log persist across
// the whole session so variables and builtin output both survive between
// lines.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	env := object.NewEnvironment()
	var output []string
	builtins := object.NewBuiltins(&output)
	debugMode := false

	fmt.Fprint(out, LOGO)
	printHelp(out)

	for {
		fmt.Fprint(out, Cyan+PROMPT+Reset)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			switch line {
			case ".exit":
				fmt.Fprintln(out, Yellow+"Goodbye!"+Reset)
				return
			case ".clear":
				env = object.NewEnvironment()
				fmt.Fprintln(out, Green+"Environment cleared (memory reset)."+Reset)
				continue
			case ".debug":
				debugMode = !debugMode
				status := "DISABLED"
				if debugMode {
					status = "ENABLED"
				}
				fmt.Fprintf(out, Gray+"Debug mode %s\n"+Reset, status)
				continue
			case ".help":
				printHelp(out)
				continue
			default:
				fmt.Fprintf(out, Red+"Unknown command: %s. Type .help for info.\n"+Reset, line)
				continue
			}
		}

		if debugMode {
			printTokens(out, line)
		}

		// A line that is itself a valid item (a function/struct/import
		// declaration) is evaluated directly, so `func`/`struct` typed at
		// the prompt registers into the session environment just like a
		// top-level declaration in a file would. Anything else is a bare
		// statement or expression, which only parses once wrapped in a
		// throwaway function (the top-level grammar admits items only).
		var result object.Object
		if program, perr := tryParseProgram(line); perr == nil && len(program.Items) > 0 {
			if debugMode {
				printItemAST(out, program.Items)
			}
			result = evalItems(program.Items, env, builtins)
		} else {
			fn, ferr := parseReplLine(line)
			if ferr != nil {
				printParserError(out, ferr)
				continue
			}
			if debugMode {
				printAST(out, fn)
			}
			result = evalStatements(fn.Body.Statements, env, builtins)
		}

		if len(output) > 0 {
			for _, o := range output {
				fmt.Fprintln(out, Gray+o+Reset)
			}
			output = output[:0]
		}
		printEvalResult(out, result)
	}
}

// tryParseProgram parses line as a standalone program (a sequence of
// function/struct/import items), with no statement wrapping.
func tryParseProgram(line string) (*ast.Program, error) {
	l := lexer.New(line)
	p, err := parser.New(l)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// parseReplLine wraps line in a synthetic function so the parser's
// item-only top-level grammar accepts a bare statement or expression, then
// returns that function's declaration for the caller to evaluate
// statement-by-statement.
func parseReplLine(line string) (*ast.FunctionItem, error) {
	wrapped := fmt.Sprintf("func %s() { %s }", replFunctionName, line)
	program, err := tryParseProgram(wrapped)
	if err != nil {
		return nil, err
	}
	if len(program.Items) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	fn, ok := program.Items[0].(*ast.FunctionItem)
	if !ok {
		return nil, fmt.Errorf("expected a wrapped function, got %T", program.Items[0])
	}
	return fn, nil
}

// evalItems registers each top-level item (typically a function
// declaration) into env, the same way evaluating a whole program does.
func evalItems(items []ast.Item, env *object.Environment, builtins map[string]*object.Builtin) object.Object {
	var last object.Object = object.VOID
	for _, item := range items {
		result := evaluator.Eval(item, env, builtins)
		if isError(result) {
			return result
		}
		if result != nil && result.Type() != object.VOID_OBJ {
			last = result
		}
	}
	return last
}

// evalStatements evaluates each statement of a wrapped REPL line in turn,
// returning the last non-void result so typing a bare expression echoes its
// value the way a REPL is expected to.
func evalStatements(stmts []ast.Statement, env *object.Environment, builtins map[string]*object.Builtin) object.Object {
	var last object.Object = object.VOID
	for _, stmt := range stmts {
		result := evaluator.Eval(stmt, env, builtins)
		if isError(result) {
			return result
		}
		if result != nil && result.Type() != object.VOID_OBJ {
			last = result
		}
	}
	return last
}

func isError(obj object.Object) bool {
	_, ok := obj.(*object.Error)
	return ok
}

// ----------------------------------------------------------------------------
// HELPER FUNCTIONS
// ----------------------------------------------------------------------------

func printHelp(out io.Writer) {
	fmt.Fprintln(out, Gray+"Commands:")
	fmt.Fprintln(out, "  .exit   Quit the REPL")
	fmt.Fprintln(out, "  .clear  Reset memory")
	fmt.Fprintln(out, "  .debug  Toggle verbose AST/Token output")
	fmt.Fprintln(out, "  .help   Show this message"+Reset)
	fmt.Fprintln(out)
}

func printTokens(out io.Writer, line string) {
	fmt.Fprintln(out, Gray+"┌── [ TOKENS ] ──────────────────────────────────────────┐"+Reset)
	l := lexer.New(line)
	for {
		tok, err := l.NextToken()
		if err != nil {
			fmt.Fprintf(out, "│ %s\n", err)
			break
		}
		if tok.Type == token.EOF {
			break
		}
		fmt.Fprintf(out, "│ %-15s : %s\n", tok.Type, tok.Literal)
	}
	fmt.Fprintln(out, Gray+"└────────────────────────────────────────────────────────┘"+Reset)
}

func printAST(out io.Writer, fn *ast.FunctionItem) {
	fmt.Fprintln(out, Gray+"┌── [ AST ] ─────────────────────────────────────────────┐"+Reset)
	fmt.Fprintf(out, "│ %d statement(s) in %s\n", len(fn.Body.Statements), fn.Name)
	for _, stmt := range fn.Body.Statements {
		fmt.Fprintf(out, "│   %T\n", stmt)
	}
	fmt.Fprintln(out, Gray+"└────────────────────────────────────────────────────────┘"+Reset)
}

func printItemAST(out io.Writer, items []ast.Item) {
	fmt.Fprintln(out, Gray+"┌── [ AST ] ─────────────────────────────────────────────┐"+Reset)
	for _, item := range items {
		fmt.Fprintf(out, "│   %T\n", item)
	}
	fmt.Fprintln(out, Gray+"└────────────────────────────────────────────────────────┘"+Reset)
}

func printParserError(out io.Writer, err error) {
	fmt.Fprintln(out, Red+Bold+"Parser error:"+Reset)
	fmt.Fprintf(out, Red+"  ✖ %s\n"+Reset, err)
}

// printEvalResult formats the output based on object type
func printEvalResult(out io.Writer, obj object.Object) {
	if obj == nil || obj.Type() == object.VOID_OBJ {
		return
	}

	str := obj.Inspect()

	switch obj := obj.(type) {
	case *object.Error:
		fmt.Fprintf(out, Red+Bold+"ERROR: "+Reset+Red+"%s\n"+Reset, obj.Message)
	case *object.Integer, *object.Float:
		fmt.Fprintf(out, Yellow+"%s\n"+Reset, str)
	case *object.Boolean:
		color := Green
		if !obj.Value {
			color = Red
		}
		fmt.Fprintf(out, color+"%s\n"+Reset, str)
	case *object.String:
		fmt.Fprintf(out, Green+"%s\n"+Reset, str)
	case *object.ReturnValue:
		printEvalResult(out, obj.Value)
	case *object.Function:
		fmt.Fprintf(out, Purple+"(function)\n"+Reset)
	case *object.Tensor:
		fmt.Fprintf(out, Blue+"%s\n"+Reset, str)
	case *object.StructInstance:
		fmt.Fprintf(out, Cyan+"%s\n"+Reset, str)
	default:
		fmt.Fprintf(out, "%s\n", str)
	}
}
