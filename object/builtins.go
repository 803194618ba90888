// ==============================================================================================
// FILE: object/builtins.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: The native function registry: print and type_of, the only two
//          builtins this language defines. print appends to a caller-owned
//          output log rather than writing to stdout directly, so a driver
//          can capture a program's output instead of letting it escape to
//          the process's real stdout.
// ==============================================================================================

package object

import "fmt"

// NewBuiltins constructs the builtin function table. output is the sink
// print appends its display-form lines to; the caller (the interpreter)
// owns its lifetime and can read it back after evaluation finishes.
func NewBuiltins(output *[]string) map[string]*Builtin {
	return map[string]*Builtin{
		"print": {Fn: func(args ...Object) Object {
			if len(args) == 1 {
				*output = append(*output, args[0].Inspect())
			}
			return VOID
		}},
		"type_of": {Fn: func(args ...Object) Object {
			if len(args) != 1 {
				return newBuiltinError("type_of expects 1 argument, got %d", len(args))
			}
			return &String{Value: TypeName(args[0])}
		}},
	}
}

// newBuiltinError constructs a runtime Error from inside this package.
func newBuiltinError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}
