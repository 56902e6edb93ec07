package sema

import "github.com/oxhq/cs2hx/syntax"

// SymbolKind classifies what an expression denotes.
type SymbolKind uint8

const (
	SymbolValue SymbolKind = iota
	SymbolLocal
	SymbolParameter
	SymbolField
	SymbolProperty
	SymbolMethod
	SymbolEvent
	SymbolType
)

var symbolKindNames = [...]string{
	SymbolValue:     "value",
	SymbolLocal:     "local",
	SymbolParameter: "parameter",
	SymbolField:     "field",
	SymbolProperty:  "property",
	SymbolMethod:    "method",
	SymbolEvent:     "event",
	SymbolType:      "type",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "symbol"
}

// Symbol is what a name or member access resolves to.
type Symbol struct {
	Kind SymbolKind
	Name string
	Type *Type
}

// IsEvent reports whether s is an event accessor.
func (s *Symbol) IsEvent() bool {
	return s != nil && s.Kind == SymbolEvent
}

// Oracle answers type and symbol questions about nodes of one tree. Every
// method returns nil when the information is unavailable; callers treat that
// as "use the default translation".
type Oracle interface {
	// DeclaredType is the expression's own static type.
	DeclaredType(n syntax.Node) *Type
	// ConvertedType is the type the surrounding context coerces the
	// expression to. It equals the declared type when no conversion applies.
	ConvertedType(n syntax.Node) *Type
	Symbol(n syntax.Node) *Symbol
}

// Null is an Oracle that knows nothing.
var Null Oracle = nullOracle{}

type nullOracle struct{}

func (nullOracle) DeclaredType(syntax.Node) *Type  { return nil }
func (nullOracle) ConvertedType(syntax.Node) *Type { return nil }
func (nullOracle) Symbol(syntax.Node) *Symbol      { return nil }

// StaticOracle is a map-backed Oracle. Frontends fill it while resolving a
// unit; tests build it by hand.
type StaticOracle struct {
	declared  map[syntax.Node]*Type
	converted map[syntax.Node]*Type
	symbols   map[syntax.Node]*Symbol
}

func NewStaticOracle() *StaticOracle {
	return &StaticOracle{
		declared:  make(map[syntax.Node]*Type),
		converted: make(map[syntax.Node]*Type),
		symbols:   make(map[syntax.Node]*Symbol),
	}
}

// SetType records both types of n. A nil type leaves that slot unset.
func (o *StaticOracle) SetType(n syntax.Node, declared, converted *Type) *StaticOracle {
	if declared != nil {
		o.declared[n] = declared
	}
	if converted != nil {
		o.converted[n] = converted
	}
	return o
}

// Typed records t as both the declared and converted type of n.
func (o *StaticOracle) Typed(n syntax.Node, t *Type) *StaticOracle {
	return o.SetType(n, t, t)
}

// Convert overrides the converted type of n only.
func (o *StaticOracle) Convert(n syntax.Node, t *Type) *StaticOracle {
	if t != nil {
		o.converted[n] = t
	}
	return o
}

func (o *StaticOracle) SetSymbol(n syntax.Node, s *Symbol) *StaticOracle {
	if s != nil {
		o.symbols[n] = s
	}
	return o
}

func (o *StaticOracle) DeclaredType(n syntax.Node) *Type { return o.declared[n] }

// ConvertedType falls back to the declared type when no conversion was
// recorded.
func (o *StaticOracle) ConvertedType(n syntax.Node) *Type {
	if t, ok := o.converted[n]; ok {
		return t
	}
	return o.declared[n]
}

func (o *StaticOracle) Symbol(n syntax.Node) *Symbol { return o.symbols[n] }

// Len reports how many nodes carry any information.
func (o *StaticOracle) Len() int {
	seen := make(map[syntax.Node]struct{}, len(o.declared))
	for n := range o.declared {
		seen[n] = struct{}{}
	}
	for n := range o.converted {
		seen[n] = struct{}{}
	}
	for n := range o.symbols {
		seen[n] = struct{}{}
	}
	return len(seen)
}
