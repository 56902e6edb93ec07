// Package sema describes the static information a type oracle attaches to
// syntax nodes: resolved types and symbols.
package sema

import "strings"

// TypeKind classifies a resolved type.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeClass
	TypeStruct
	TypeInterface
	TypeEnum
	TypeArray
	TypeDelegate
	TypeParameter
	TypeVoid
)

// Type is a resolved source-language type. Values are shared and must not be
// modified once handed to an oracle.
type Type struct {
	Name      string // metadata name without arity, e.g. "Dictionary"
	Namespace string // e.g. "System.Collections.Generic"
	Kind      TypeKind
	Args      []*Type
	Elem      *Type // arrays only
	Rank      int   // arrays only
	Return    *Type // delegates only; nil means the delegate returns void
}

// FullName is the namespace-qualified name without generic arguments.
func (t *Type) FullName() string {
	if t == nil {
		return ""
	}
	if t.Kind == TypeArray {
		return t.Elem.FullName() + "[" + strings.Repeat(",", max(t.Rank-1, 0)) + "]"
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// GenericName is the full name of the open generic definition, e.g.
// "System.Collections.Generic.Dictionary<,>". Non-generic types return their
// FullName.
func (t *Type) GenericName() string {
	if t == nil {
		return ""
	}
	if len(t.Args) == 0 || t.Kind == TypeArray {
		return t.FullName()
	}
	return t.FullName() + "<" + strings.Repeat(",", len(t.Args)-1) + ">"
}

// String renders the type the way C# source would spell it.
func (t *Type) String() string {
	if t == nil {
		return "<unknown>"
	}
	switch t.Kind {
	case TypeArray:
		return t.Elem.String() + "[" + strings.Repeat(",", max(t.Rank-1, 0)) + "]"
	case TypeVoid:
		return "void"
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

// IsNullable reports whether t is the Nullable<T> value wrapper.
func (t *Type) IsNullable() bool {
	return t != nil && t.Name == "Nullable" && (t.Namespace == "System" || t.Namespace == "")
}

func (t *Type) IsVoid() bool {
	return t != nil && (t.Kind == TypeVoid || (t.Namespace == "System" && t.Name == "Void"))
}

func (t *Type) IsEnum() bool {
	return t != nil && t.Kind == TypeEnum
}

func (t *Type) IsArray() bool {
	return t != nil && t.Kind == TypeArray
}

func (t *Type) IsString() bool {
	return t != nil && t.Namespace == "System" && t.Name == "String"
}

// ReturnsVoid reports whether a delegate type's invoke method returns void.
func (t *Type) ReturnsVoid() bool {
	return t == nil || t.Return == nil || t.Return.IsVoid()
}

// Underlying unwraps Nullable<T> to T and returns anything else unchanged.
func (t *Type) Underlying() *Type {
	if t.IsNullable() && len(t.Args) == 1 {
		return t.Args[0]
	}
	return t
}

// ElementType returns what indexing or enumerating t yields, or nil when t is
// not a known collection.
func (t *Type) ElementType() *Type {
	if t == nil {
		return nil
	}
	switch {
	case t.Kind == TypeArray:
		return t.Elem
	case t.IsString():
		return Char
	}
	switch t.GenericName() {
	case "System.Collections.Generic.List<>",
		"System.Collections.Generic.IList<>",
		"System.Collections.Generic.HashSet<>",
		"System.Collections.Generic.IEnumerable<>",
		"System.Collections.Generic.ICollection<>",
		"System.Collections.Generic.Queue<>",
		"System.Collections.Generic.Stack<>":
		return t.Args[0]
	case "System.Linq.IGrouping<,>":
		return t.Args[1]
	case "System.Collections.Generic.Dictionary<,>":
		return NewGeneric("System.Collections.Generic", "KeyValuePair", TypeStruct, t.Args...)
	}
	return nil
}

// NewGeneric builds a constructed generic type. Delegates named Func or Action
// get their Return filled in.
func NewGeneric(namespace, name string, kind TypeKind, args ...*Type) *Type {
	t := &Type{Name: name, Namespace: namespace, Kind: kind, Args: args}
	if namespace == "System" {
		switch name {
		case "Func":
			t.Kind = TypeDelegate
			if len(args) > 0 {
				t.Return = args[len(args)-1]
			}
		case "Action":
			t.Kind = TypeDelegate
		}
	}
	return t
}

func NewArray(elem *Type, rank int) *Type {
	if rank < 1 {
		rank = 1
	}
	return &Type{Name: "Array", Namespace: "System", Kind: TypeArray, Elem: elem, Rank: rank}
}

func NewNullable(inner *Type) *Type {
	return NewGeneric("System", "Nullable", TypeStruct, inner)
}

// NewEnum declares an enum type.
func NewEnum(namespace, name string) *Type {
	return &Type{Name: name, Namespace: namespace, Kind: TypeEnum}
}

func builtin(name string, kind TypeKind) *Type {
	return &Type{Name: name, Namespace: "System", Kind: kind}
}

// Built-in types shared by every oracle.
var (
	Void    = builtin("Void", TypeVoid)
	Object  = builtin("Object", TypeClass)
	String  = builtin("String", TypeClass)
	Boolean = builtin("Boolean", TypeStruct)
	Char    = builtin("Char", TypeStruct)
	Byte    = builtin("Byte", TypeStruct)
	SByte   = builtin("SByte", TypeStruct)
	Int16   = builtin("Int16", TypeStruct)
	UInt16  = builtin("UInt16", TypeStruct)
	Int32   = builtin("Int32", TypeStruct)
	UInt32  = builtin("UInt32", TypeStruct)
	Int64   = builtin("Int64", TypeStruct)
	UInt64  = builtin("UInt64", TypeStruct)
	Single  = builtin("Single", TypeStruct)
	Double  = builtin("Double", TypeStruct)
	Decimal = builtin("Decimal", TypeStruct)

	Exception = builtin("Exception", TypeClass)
)

var keywords = map[string]*Type{
	"void":    Void,
	"object":  Object,
	"string":  String,
	"bool":    Boolean,
	"char":    Char,
	"byte":    Byte,
	"sbyte":   SByte,
	"short":   Int16,
	"ushort":  UInt16,
	"int":     Int32,
	"uint":    UInt32,
	"long":    Int64,
	"ulong":   UInt64,
	"float":   Single,
	"double":  Double,
	"decimal": Decimal,
}

// Predefined resolves a C# keyword type such as "int" to its System type.
func Predefined(keyword string) (*Type, bool) {
	t, ok := keywords[keyword]
	return t, ok
}

// IsNumeric reports whether t is one of the built-in numeric types.
func (t *Type) IsNumeric() bool {
	if t == nil || t.Namespace != "System" {
		return false
	}
	switch t.Name {
	case "Byte", "SByte", "Int16", "UInt16", "Int32", "UInt32", "Int64", "UInt64",
		"Single", "Double", "Decimal", "Char":
		return true
	}
	return false
}
