package sema

import (
	"strings"
	"unicode"
)

// Lookup resolves a simple or qualified type name declared outside the
// well-known BCL set, e.g. an enum declared in the translation unit.
type Lookup func(name string) (*Type, bool)

// well-known generic and non-generic BCL types, keyed by simple name.
var wellKnown = map[string]struct {
	namespace string
	kind      TypeKind
}{
	"List":         {"System.Collections.Generic", TypeClass},
	"IList":        {"System.Collections.Generic", TypeInterface},
	"Dictionary":   {"System.Collections.Generic", TypeClass},
	"IDictionary":  {"System.Collections.Generic", TypeInterface},
	"HashSet":      {"System.Collections.Generic", TypeClass},
	"Queue":        {"System.Collections.Generic", TypeClass},
	"Stack":        {"System.Collections.Generic", TypeClass},
	"IEnumerable":  {"System.Collections.Generic", TypeInterface},
	"ICollection":  {"System.Collections.Generic", TypeInterface},
	"KeyValuePair": {"System.Collections.Generic", TypeStruct},
	"IGrouping":    {"System.Linq", TypeInterface},
	"Nullable":     {"System", TypeStruct},
	"Func":         {"System", TypeDelegate},
	"Action":       {"System", TypeDelegate},
	"EventHandler": {"System", TypeDelegate},
	"Exception":    {"System", TypeClass},
	"String":       {"System", TypeClass},
	"Object":       {"System", TypeClass},
	"Int32":        {"System", TypeStruct},
	"Int64":        {"System", TypeStruct},
	"Double":       {"System", TypeStruct},
	"Boolean":      {"System", TypeStruct},
	"Char":         {"System", TypeStruct},
}

// ParseTypeName resolves C# type syntax such as "Dictionary<string, int[]>",
// "int?" or "System.String". It returns nil for "var" and for text it cannot
// read. Names that are neither keywords, well-known BCL types nor found by
// lookup resolve to a class with no namespace.
func ParseTypeName(text string, lookup Lookup) *Type {
	p := &typeParser{src: strings.TrimSpace(text), lookup: lookup}
	if p.src == "" || p.src == "var" || p.src == "dynamic" {
		return nil
	}
	t := p.parseType()
	p.skipSpace()
	if t == nil || p.pos != len(p.src) {
		return nil
	}
	return t
}

type typeParser struct {
	src    string
	pos    int
	lookup Lookup
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) ident() string {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], "global::") {
		p.pos += len("global::")
	}
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c == '_' || c == '.' || c == '@' || unicode.IsLetter(c) || unicode.IsDigit(c) {
			p.pos++
			continue
		}
		break
	}
	return strings.TrimPrefix(p.src[start:p.pos], "@")
}

func (p *typeParser) parseType() *Type {
	if p.peek() == '(' {
		// tuples are not part of the Haxe mapping
		return nil
	}
	name := p.ident()
	if name == "" {
		return nil
	}
	var args []*Type
	if p.peek() == '<' {
		p.pos++
		for {
			arg := p.parseType()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			c := p.peek()
			p.pos++
			if c == '>' {
				break
			}
			if c != ',' {
				return nil
			}
		}
	}
	t := p.resolve(name, args)
	for {
		switch p.peek() {
		case '?':
			p.pos++
			if !t.IsNullable() && t.Kind != TypeClass && t.Kind != TypeInterface {
				t = NewNullable(t)
			}
			continue
		case '[':
			p.pos++
			rank := 1
			for p.peek() == ',' {
				p.pos++
				rank++
			}
			if p.peek() != ']' {
				return nil
			}
			p.pos++
			t = NewArray(t, rank)
			continue
		}
		return t
	}
}

func (p *typeParser) resolve(name string, args []*Type) *Type {
	if len(args) == 0 {
		if t, ok := Predefined(name); ok {
			return t
		}
	}
	if p.lookup != nil {
		if t, ok := p.lookup(name); ok {
			if len(args) == 0 {
				return t
			}
			return NewGeneric(t.Namespace, t.Name, t.Kind, args...)
		}
	}
	namespace, simple := "", name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		namespace, simple = name[:i], name[i+1:]
	}
	if known, ok := wellKnown[simple]; ok && (namespace == "" || namespace == known.namespace) {
		if len(args) == 0 && known.namespace == "System" {
			switch simple {
			case "String":
				return String
			case "Object":
				return Object
			case "Int32":
				return Int32
			case "Int64":
				return Int64
			case "Double":
				return Double
			case "Boolean":
				return Boolean
			case "Char":
				return Char
			case "Exception":
				return Exception
			}
		}
		return NewGeneric(known.namespace, simple, known.kind, args...)
	}
	return &Type{Name: simple, Namespace: namespace, Kind: TypeClass, Args: args}
}
