// ==============================================================================================
// PACKAGE: types
// PURPOSE: The closed semantic type set the analyzer, interpreter, and IR
//          emitter all share — width-explicit integers, no implicit
//          numeric conversion, and an `unknown` error-recovery sentinel.
// ==============================================================================================

package types

import "strings"

// Kind enumerates the closed set of semantic types.
type Kind int

const (
	Unknown Kind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
	String
	Void
	Function
	Tensor
	Struct
)

// Type is a semantic type value. Function carries Params/Return; Tensor
// carries Elem and an optional Shape; Struct carries Name, resolved by the
// analyzer's struct table. All other kinds are fully described by Kind
// alone.
type Type struct {
	Kind   Kind
	Params []Type  // Function only
	Return *Type   // Function only
	Elem   *Type   // Tensor only
	Shape  []int   // Tensor only, nil means unknown/dynamic rank
	Name   string  // Struct only
}

func Simple(k Kind) Type { return Type{Kind: k} }

var (
	TI8     = Simple(I8)
	TI16    = Simple(I16)
	TI32    = Simple(I32)
	TI64    = Simple(I64)
	TU8     = Simple(U8)
	TU16    = Simple(U16)
	TU32    = Simple(U32)
	TU64    = Simple(U64)
	TF32    = Simple(F32)
	TF64    = Simple(F64)
	TBool   = Simple(Bool)
	TString = Simple(String)
	TVoid   = Simple(Void)
	TUnk    = Simple(Unknown)
)

// NewFunction builds a function type from parameter types and a return type.
func NewFunction(params []Type, ret Type) Type {
	return Type{Kind: Function, Params: params, Return: &ret}
}

// NewTensor builds a tensor type from an element type and an optional shape
// (nil shape means rank/dims are not statically known).
func NewTensor(elem Type, shape []int) Type {
	return Type{Kind: Tensor, Elem: &elem, Shape: shape}
}

// NewStruct builds a named struct type.
func NewStruct(name string) Type {
	return Type{Kind: Struct, Name: name}
}

// IsCompatibleWith implements the spec's strict compatibility rule:
// identical kinds match exactly (no int/float mixing, no signed/unsigned
// mixing, no width coercion); unknown is compatible with everything so
// error recovery can propagate without cascading diagnostics.
func (t Type) IsCompatibleWith(other Type) bool {
	if t.Kind == Unknown || other.Kind == Unknown {
		return true
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Function:
		if len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].IsCompatibleWith(other.Params[i]) {
				return false
			}
		}
		return t.Return.IsCompatibleWith(*other.Return)
	case Tensor:
		if !t.Elem.IsCompatibleWith(*other.Elem) {
			return false
		}
		return shapeEqual(t.Shape, other.Shape)
	case Struct:
		return t.Name == other.Name
	default:
		return true
	}
}

func shapeEqual(a, b []int) bool {
	if a == nil || b == nil {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsNumeric reports whether t is any integer or float kind.
func (t Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// IsInteger reports whether t is any signed or unsigned integer kind.
func (t Type) IsInteger() bool {
	switch t.Kind {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// IsSignedInt reports whether t is a signed integer kind.
func (t Type) IsSignedInt() bool {
	switch t.Kind {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// IsUnsignedInt reports whether t is an unsigned integer kind.
func (t Type) IsUnsignedInt() bool {
	switch t.Kind {
	case U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether t is a floating-point kind.
func (t Type) IsFloat() bool {
	return t.Kind == F32 || t.Kind == F64
}

// IsBool reports whether t is the boolean kind.
func (t Type) IsBool() bool { return t.Kind == Bool }

// IsString reports whether t is the string kind.
func (t Type) IsString() bool { return t.Kind == String }

// IsUnknown reports whether t is the error-recovery sentinel.
func (t Type) IsUnknown() bool { return t.Kind == Unknown }

func (t Type) String() string {
	switch t.Kind {
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Void:
		return "void"
	case Unknown:
		return "<error>"
	case Function:
		var b strings.Builder
		b.WriteString("fn(")
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		b.WriteString(") -> ")
		b.WriteString(t.Return.String())
		return b.String()
	case Tensor:
		return "Tensor<" + t.Elem.String() + ">"
	case Struct:
		return t.Name
	default:
		return "<error>"
	}
}

// FromSourceName maps a source-level type identifier to its built-in
// semantic type: the grammar's type-name mapping (int->i32, float->f32,
// bool, string) plus the width-explicit names (i8..i64, u8..u64, f32, f64)
// and void. Any other identifier is a generic (struct) name, resolved
// against the analyzer's struct table instead.
func FromSourceName(name string) (Type, bool) {
	switch name {
	case "int":
		return TI32, true
	case "float":
		return TF32, true
	case "bool":
		return TBool, true
	case "string":
		return TString, true
	case "i8":
		return TI8, true
	case "i16":
		return TI16, true
	case "i32":
		return TI32, true
	case "i64":
		return TI64, true
	case "u8":
		return TU8, true
	case "u16":
		return TU16, true
	case "u32":
		return TU32, true
	case "u64":
		return TU64, true
	case "f32":
		return TF32, true
	case "f64":
		return TF64, true
	case "void":
		return TVoid, true
	default:
		return Type{}, false
	}
}
