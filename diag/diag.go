// ==============================================================================================
// PACKAGE: diag
// PURPOSE: Compiler diagnostics — severities, error codes, and the
//          accumulating collector every stage reports through.
// ==============================================================================================

package diag

import (
	"fmt"
	"sort"
	"strings"

	"neuro/token"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Code categorizes a diagnostic for tooling and documentation cross-reference.
type Code int

const (
	Unknown Code = iota
	SyntaxError
	TypeError
	NameError
	TypeConversion
	FunctionCompilation
	ModuleGeneration
	CodeGeneration
)

func (c Code) String() string {
	switch c {
	case SyntaxError:
		return "E0001"
	case TypeError:
		return "E0002"
	case NameError:
		return "E0003"
	case TypeConversion:
		return "E0004"
	case FunctionCompilation:
		return "E0005"
	case ModuleGeneration:
		return "E0006"
	case CodeGeneration:
		return "E0007"
	default:
		return "E0000"
	}
}

// Diagnostic is a single compiler message: a severity-tagged, code-tagged
// message optionally anchored to a source span, with zero or more
// supplementary notes.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Span     *token.Span
	Notes    []string
}

// NewError builds an error-severity diagnostic.
func NewError(code Code, message string) *Diagnostic {
	return &Diagnostic{Severity: Error, Code: code, Message: message}
}

// NewWarning builds a warning-severity diagnostic.
func NewWarning(code Code, message string) *Diagnostic {
	return &Diagnostic{Severity: Warning, Code: code, Message: message}
}

// WithSpan attaches a source span and returns the same diagnostic, for
// fluent construction at the call site.
func (d *Diagnostic) WithSpan(span token.Span) *Diagnostic {
	d.Span = &span
	return d
}

// WithNote appends a supplementary note and returns the same diagnostic.
func (d *Diagnostic) WithNote(note string) *Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// Error implements the error interface, producing the canonical
// "SEVERITY[CODE] (at START..END)?: MESSAGE(\n  note: ...)*" text layout.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s]", d.Severity, d.Code)
	if d.Span != nil {
		fmt.Fprintf(&b, " at %d..%d", d.Span.Start, d.Span.End)
	}
	fmt.Fprintf(&b, ": %s", d.Message)
	for _, note := range d.Notes {
		fmt.Fprintf(&b, "\n  note: %s", note)
	}
	return b.String()
}

// Collector accumulates diagnostics across a pass that must not abort on
// the first error (the semantic analyzer).
type Collector struct {
	diagnostics []*Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a diagnostic.
func (c *Collector) Add(d *Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// HasErrors reports whether any accumulated diagnostic is Error severity.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Diagnostics returns the accumulated diagnostics sorted by source span, so
// callers see errors in the order they appear in the file regardless of
// which analysis pass produced them.
func (c *Collector) Diagnostics() []*Diagnostic {
	sorted := make([]*Diagnostic, len(c.diagnostics))
	copy(sorted, c.diagnostics)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Span, sorted[j].Span
		if si == nil || sj == nil {
			return false
		}
		return si.Start < sj.Start
	})
	return sorted
}
