package translator

import (
	"strings"

	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

var systemTypes = map[string]string{
	"SByte":   "Int",
	"Byte":    "Int",
	"Int16":   "Int",
	"UInt16":  "Int",
	"Int32":   "Int",
	"UInt32":  "Int",
	"Char":    "Int",
	"Int64":   "Float",
	"UInt64":  "Float",
	"Single":  "Float",
	"Double":  "Float",
	"Decimal": "Float",
	"Boolean": "Bool",
	"String":  "String",
	"Object":  "Dynamic",
	"Void":    "Void",
}

// ConvertType maps a C# type to the Haxe type spelling. Unknown types map to
// Dynamic.
func ConvertType(t *sema.Type) string {
	if t == nil {
		return "Dynamic"
	}
	switch t.Kind {
	case sema.TypeArray:
		return "Array<" + ConvertType(t.Elem) + ">"
	case sema.TypeEnum:
		return "Int"
	case sema.TypeVoid:
		return "Void"
	case sema.TypeParameter:
		return t.Name
	}
	if t.Namespace == "System" && len(t.Args) == 0 {
		if s, ok := systemTypes[t.Name]; ok {
			return s
		}
	}
	switch t.GenericName() {
	case "System.Nullable<>":
		inner := ConvertType(t.Args[0])
		switch inner {
		case "Int", "Float", "Bool":
			return "Nullable_" + inner
		}
		return "Nullable<" + inner + ">"
	case "System.Collections.Generic.List<>":
		return "Array<" + ConvertType(t.Args[0]) + ">"
	}
	if t.Kind == sema.TypeDelegate && t.Namespace == "System" && (t.Name == "Func" || t.Name == "Action") {
		return functionType(t)
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = ConvertType(a)
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

// functionType renders Func<A, B, R> as "A -> B -> R" and Action<A> as
// "A -> Void".
func functionType(t *sema.Type) string {
	params := t.Args
	ret := "Void"
	if t.Name == "Func" && len(params) > 0 {
		ret = ConvertType(params[len(params)-1])
		params = params[:len(params)-1]
	}
	parts := make([]string, 0, len(params)+1)
	if len(params) == 0 {
		parts = append(parts, "Void")
	}
	for _, p := range params {
		parts = append(parts, ConvertType(p))
	}
	return "(" + strings.Join(append(parts, ret), " -> ") + ")"
}

// RemoveGenericArguments drops a trailing "<…>" from a Haxe type name.
func RemoveGenericArguments(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return name[:i]
	}
	return name
}

// IsNativeArray reports whether t maps onto a Haxe Array, the only target
// type with bracket indexing. An unresolved type is not one.
func IsNativeArray(t *sema.Type) bool {
	return t != nil && strings.HasPrefix(ConvertType(t), "Array<")
}

// resolveType returns what the oracle knows about a type reference, falling
// back to reading its text.
func (t *Translator) resolveType(r *syntax.TypeRef) *sema.Type {
	if r == nil {
		return nil
	}
	if rt := t.typeOf(r); rt != nil {
		return rt
	}
	return sema.ParseTypeName(r.Text, nil)
}

// enumQualifiedName is how the declaration emitter names an enum's class:
// lower-cased package then the type name.
func enumQualifiedName(t *sema.Type) string {
	if t.Namespace == "" {
		return t.Name
	}
	return strings.ToLower(t.Namespace) + "." + t.Name
}
