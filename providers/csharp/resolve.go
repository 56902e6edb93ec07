package csharp

import (
	"strings"

	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

// resolver fills a StaticOracle for one compilation unit. It knows the types
// the unit declares, a slice of the BCL, and nothing else; every other name
// stays untyped and the translator falls back to its default output.
type resolver struct {
	oracle  *sema.StaticOracle
	types   map[string]*typeInfo
	scopes  []map[string]*sema.Type
	class   *typeInfo
	returns []*sema.Type // innermost function's return type last
}

type typeInfo struct {
	typ     *sema.Type
	members map[string]*member
	ctor    []*sema.Type
}

type member struct {
	kind   sema.SymbolKind
	typ    *sema.Type // value type, or the return type of a method
	params []*sema.Type
}

func resolve(unit *syntax.CompilationUnit) *sema.StaticOracle {
	r := &resolver{oracle: sema.NewStaticOracle(), types: make(map[string]*typeInfo)}
	r.declareAll(unit.Members, "")
	r.resolveAll(unit.Members, "")
	return r.oracle
}

// Declarations

func (r *resolver) declareAll(nodes []syntax.Node, namespace string) {
	for _, n := range nodes {
		switch d := n.(type) {
		case *syntax.Namespace:
			r.declareAll(d.Members, joinName(namespace, d.Name))
		case *syntax.Class:
			r.register(&typeInfo{typ: &sema.Type{Name: d.Name, Namespace: namespace, Kind: sema.TypeClass}})
		case *syntax.Enum:
			info := &typeInfo{typ: sema.NewEnum(namespace, d.Name)}
			info.members = make(map[string]*member, len(d.Members))
			for _, m := range d.Members {
				info.members[m.Name] = &member{kind: sema.SymbolField, typ: info.typ}
			}
			r.register(info)
		}
	}
	// members refer to other types, so they go in once every name is known
	r.declareMembers(nodes, namespace)
}

func (r *resolver) declareMembers(nodes []syntax.Node, namespace string) {
	for _, n := range nodes {
		switch d := n.(type) {
		case *syntax.Namespace:
			r.declareMembers(d.Members, joinName(namespace, d.Name))
		case *syntax.Class:
			info := r.types[joinName(namespace, d.Name)]
			if info == nil || info.members != nil {
				continue
			}
			info.members = make(map[string]*member)
			for _, m := range d.Members {
				r.declareMember(info, m)
			}
		}
	}
}

func (r *resolver) declareMember(info *typeInfo, n syntax.Node) {
	switch m := n.(type) {
	case *syntax.Field:
		kind := sema.SymbolField
		if m.Event {
			kind = sema.SymbolEvent
		}
		t := r.typeOf(m.Type)
		for _, v := range m.Vars {
			info.members[v.Name] = &member{kind: kind, typ: t}
		}
	case *syntax.Property:
		info.members[m.Name] = &member{kind: sema.SymbolProperty, typ: r.typeOf(m.Type)}
	case *syntax.Method:
		if _, dup := info.members[m.Name]; dup {
			return
		}
		ret := sema.Void
		if m.ReturnType != nil {
			ret = r.typeOf(m.ReturnType)
		}
		info.members[m.Name] = &member{kind: sema.SymbolMethod, typ: ret, params: r.paramTypes(m.Params)}
	case *syntax.Constructor:
		if !m.Static && info.ctor == nil {
			info.ctor = r.paramTypes(m.Params)
		}
	}
}

func (r *resolver) register(info *typeInfo) {
	r.types[info.typ.FullName()] = info
	if _, taken := r.types[info.typ.Name]; !taken {
		r.types[info.typ.Name] = info
	}
}

func (r *resolver) lookup(name string) (*sema.Type, bool) {
	if info, ok := r.types[name]; ok {
		return info.typ, true
	}
	return nil, false
}

func (r *resolver) info(t *sema.Type) *typeInfo {
	if t == nil {
		return nil
	}
	return r.types[t.FullName()]
}

func (r *resolver) typeOf(ref *syntax.TypeRef) *sema.Type {
	if ref == nil {
		return nil
	}
	return sema.ParseTypeName(ref.Text, r.lookup)
}

func (r *resolver) paramTypes(params []*syntax.Parameter) []*sema.Type {
	out := make([]*sema.Type, len(params))
	for i, p := range params {
		out[i] = r.typeOf(p.Type)
	}
	return out
}

func joinName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// Scopes

func (r *resolver) push() { r.scopes = append(r.scopes, make(map[string]*sema.Type)) }
func (r *resolver) pop()  { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *resolver) declare(name string, t *sema.Type) {
	r.scopes[len(r.scopes)-1][name] = t
}

func (r *resolver) local(name string) (*sema.Type, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if t, ok := r.scopes[i][name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (r *resolver) returnType() *sema.Type {
	if len(r.returns) == 0 {
		return nil
	}
	return r.returns[len(r.returns)-1]
}

// function resolves a body with params in scope and ret as its return type.
func (r *resolver) function(params []*syntax.Parameter, types []*sema.Type, ret *sema.Type, body syntax.Node) {
	r.push()
	defer r.pop()
	for i, p := range params {
		t := r.typeOf(p.Type)
		if t == nil && i < len(types) {
			t = types[i]
		}
		r.declare(p.Name, t)
		if p.Type != nil {
			r.oracle.Typed(p.Type, t)
		}
	}
	r.returns = append(r.returns, ret)
	defer func() { r.returns = r.returns[:len(r.returns)-1] }()

	switch b := body.(type) {
	case nil:
	case *syntax.Block:
		r.stmt(b)
	case syntax.Expr:
		if ret.IsVoid() {
			r.expr(b, nil)
		} else {
			r.expr(b, ret)
		}
	}
}

// Bodies

func (r *resolver) resolveAll(nodes []syntax.Node, namespace string) {
	for _, n := range nodes {
		switch d := n.(type) {
		case *syntax.Namespace:
			r.resolveAll(d.Members, joinName(namespace, d.Name))
		case *syntax.Class:
			r.resolveClass(d, r.types[joinName(namespace, d.Name)])
		}
	}
}

func (r *resolver) resolveClass(c *syntax.Class, info *typeInfo) {
	prev := r.class
	r.class = info
	defer func() { r.class = prev }()

	for _, n := range c.Members {
		switch m := n.(type) {
		case *syntax.Field:
			t := r.typeOf(m.Type)
			r.oracle.Typed(m.Type, t)
			for _, v := range m.Vars {
				if v.Init != nil {
					r.expr(v.Init, t)
				}
			}
		case *syntax.Method:
			ret := sema.Void
			if m.ReturnType != nil {
				ret = r.typeOf(m.ReturnType)
				r.oracle.Typed(m.ReturnType, ret)
			}
			r.function(m.Params, nil, ret, m.Body)
		case *syntax.Constructor:
			r.function(m.Params, nil, sema.Void, m.Body)
		case *syntax.Property:
			t := r.typeOf(m.Type)
			r.oracle.Typed(m.Type, t)
			if m.Getter != nil {
				r.function(nil, nil, t, m.Getter)
			}
			if m.Setter != nil {
				r.push()
				r.declare("value", t)
				r.function(nil, nil, sema.Void, m.Setter)
				r.pop()
			}
		}
	}
}

func (r *resolver) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case nil:
	case *syntax.Block:
		if s == nil {
			return
		}
		r.push()
		for _, inner := range s.Stmts {
			r.stmt(inner)
		}
		r.pop()
	case *syntax.ExpressionStatement:
		r.expr(s.Expr, nil)
	case *syntax.LocalDeclaration:
		declared := r.typeOf(s.Type)
		for _, v := range s.Vars {
			vt := declared
			if v.Init != nil {
				if it := r.expr(v.Init, declared); vt == nil {
					vt = it
				}
			}
			r.declare(v.Name, vt)
			if s.Type != nil && vt != nil {
				// also gives `var` its inferred type
				r.oracle.Typed(s.Type, vt)
			}
		}
	case *syntax.Return:
		if s.Value != nil {
			if ret := r.returnType(); ret.IsVoid() {
				r.expr(s.Value, nil)
			} else {
				r.expr(s.Value, ret)
			}
		}
	case *syntax.If:
		r.expr(s.Cond, nil)
		r.stmt(s.Then)
		r.stmt(s.Else)
	case *syntax.While:
		r.expr(s.Cond, nil)
		r.stmt(s.Body)
	case *syntax.ForEach:
		ct := r.expr(s.Collection, nil)
		elem := r.typeOf(s.Type)
		if elem == nil {
			elem = ct.ElementType()
		}
		if s.Type != nil && elem != nil {
			r.oracle.Typed(s.Type, elem)
		}
		r.push()
		r.declare(s.Var, elem)
		r.stmt(s.Body)
		r.pop()
	case *syntax.Throw:
		if s.Value != nil {
			r.expr(s.Value, nil)
		}
	case *syntax.Try:
		r.stmt(s.Body)
		for _, c := range s.Catches {
			t := r.typeOf(c.Type)
			if c.Type != nil {
				r.oracle.Typed(c.Type, t)
			}
			if t == nil {
				t = sema.Exception
			}
			r.push()
			if c.Name != "" {
				r.declare(c.Name, t)
			}
			r.stmt(c.Body)
			r.pop()
		}
		if s.Finally != nil {
			r.stmt(s.Finally)
		}
	}
}

// expr records e's declared type, and want as its converted type when the
// context coerces it. It returns the declared type.
func (r *resolver) expr(e syntax.Expr, want *sema.Type) *sema.Type {
	if e == nil {
		return nil
	}
	t := r.declaredType(e, want)
	r.oracle.SetType(e, t, want)
	return t
}

func (r *resolver) declaredType(e syntax.Expr, want *sema.Type) *sema.Type {
	switch e := e.(type) {
	case *syntax.Literal:
		return literalType(e)
	case *syntax.Identifier:
		return r.identifier(e)
	case *syntax.This:
		if r.class != nil {
			return r.class.typ
		}
	case *syntax.TypeRef:
		t := r.typeOf(e)
		r.oracle.SetSymbol(e, &sema.Symbol{Kind: sema.SymbolType, Name: e.Text, Type: t})
		return t
	case *syntax.Parenthesized:
		return r.expr(e.Inner, want)
	case *syntax.Binary:
		return r.binary(e)
	case *syntax.ElementAccess:
		ot := r.expr(e.Object, nil)
		for _, a := range e.Args {
			r.expr(a, nil)
		}
		return indexedType(ot)
	case *syntax.MemberAccess:
		return r.memberAccess(e)
	case *syntax.Invocation:
		return r.invocation(e)
	case *syntax.ObjectCreation:
		t := r.typeOf(e.Type)
		if e.Type != nil {
			r.oracle.Typed(e.Type, t)
		}
		var params []*sema.Type
		if info := r.info(t); info != nil {
			params = info.ctor
		}
		r.args(e.Args, params)
		return t
	case *syntax.PrefixUnary:
		ot := r.expr(e.Operand, nil)
		if e.Op == "!" {
			return sema.Boolean
		}
		return ot
	case *syntax.PostfixUnary:
		return r.expr(e.Operand, nil)
	case *syntax.Conditional:
		r.expr(e.Cond, nil)
		tt := r.expr(e.Then, want)
		et := r.expr(e.Else, want)
		if tt != nil {
			return tt
		}
		return et
	case *syntax.Cast:
		t := r.typeOf(e.Type)
		if e.Type != nil {
			r.oracle.Typed(e.Type, t)
		}
		r.expr(e.Value, nil)
		return t
	case *syntax.Lambda:
		r.lambda(e, want)
		return want
	case *syntax.ThrowExpression:
		r.expr(e.Value, nil)
		return want
	}
	return nil
}

func literalType(l *syntax.Literal) *sema.Type {
	text := strings.ToLower(l.Text)
	switch l.LitKind {
	case syntax.LitInt:
		if strings.HasSuffix(text, "l") {
			return sema.Int64
		}
		if strings.HasSuffix(text, "u") {
			return sema.UInt32
		}
		return sema.Int32
	case syntax.LitReal:
		switch {
		case strings.HasSuffix(text, "f"):
			return sema.Single
		case strings.HasSuffix(text, "m"):
			return sema.Decimal
		}
		return sema.Double
	case syntax.LitString, syntax.LitVerbatimString:
		return sema.String
	case syntax.LitChar:
		return sema.Char
	case syntax.LitBool:
		return sema.Boolean
	}
	return nil
}

func (r *resolver) identifier(id *syntax.Identifier) *sema.Type {
	if t, ok := r.local(id.Name); ok {
		r.oracle.SetSymbol(id, &sema.Symbol{Kind: sema.SymbolLocal, Name: id.Name, Type: t})
		return t
	}
	if r.class != nil {
		if m, ok := r.class.members[id.Name]; ok {
			r.oracle.SetSymbol(id, &sema.Symbol{Kind: m.kind, Name: id.Name, Type: m.typ})
			if m.kind == sema.SymbolMethod {
				return nil
			}
			return m.typ
		}
	}
	if t, ok := r.lookup(id.Name); ok {
		r.oracle.SetSymbol(id, &sema.Symbol{Kind: sema.SymbolType, Name: id.Name, Type: t})
		return nil
	}
	return nil
}

func (r *resolver) binary(b *syntax.Binary) *sema.Type {
	switch b.Op {
	case syntax.OpIs, syntax.OpAs:
		r.expr(b.Left, nil)
		t := r.expr(b.Right, nil)
		if b.Op == syntax.OpIs {
			return sema.Boolean
		}
		return t
	case syntax.OpCoalesce:
		lt := r.expr(b.Left, nil).Underlying()
		r.expr(b.Right, lt)
		return lt
	case syntax.OpEq, syntax.OpNe, syntax.OpLt, syntax.OpLe, syntax.OpGt, syntax.OpGe,
		syntax.OpAndAlso, syntax.OpOrElse:
		r.expr(b.Left, nil)
		r.expr(b.Right, nil)
		return sema.Boolean
	}
	if b.Op.IsAssignment() {
		lt := r.expr(b.Left, nil)
		if b.Op == syntax.OpAssign || r.oracle.Symbol(b.Left).IsEvent() {
			r.expr(b.Right, lt)
		} else {
			r.expr(b.Right, nil)
		}
		return lt
	}
	lt := r.expr(b.Left, nil)
	rt := r.expr(b.Right, nil)
	return arithmetic(lt, rt)
}

// arithmetic is the result type of a binary arithmetic operator.
func arithmetic(lt, rt *sema.Type) *sema.Type {
	if lt.IsString() || rt.IsString() {
		return sema.String
	}
	if lt.IsEnum() {
		return lt
	}
	nullable := lt.IsNullable() || rt.IsNullable()
	l, r := lt.Underlying(), rt.Underlying()
	if !l.IsNumeric() || !r.IsNumeric() {
		if l == nil {
			return rt
		}
		return lt
	}
	t := sema.Int32
	for _, wider := range []*sema.Type{sema.Int64, sema.Single, sema.Double, sema.Decimal} {
		if l.Name == wider.Name || r.Name == wider.Name {
			t = wider
		}
	}
	if nullable {
		return sema.NewNullable(t)
	}
	return t
}

// indexedType is what t[i] yields.
func indexedType(t *sema.Type) *sema.Type {
	if t == nil {
		return nil
	}
	switch t.GenericName() {
	case "System.Collections.Generic.Dictionary<,>", "System.Collections.Generic.IDictionary<,>":
		return t.Args[1]
	}
	return t.ElementType()
}

func (r *resolver) memberAccess(m *syntax.MemberAccess) *sema.Type {
	ot := r.expr(m.Object, nil)
	if sym := r.oracle.Symbol(m.Object); sym != nil && sym.Kind == sema.SymbolType {
		ot = sym.Type
	}
	if info := r.info(ot); info != nil {
		if mem, ok := info.members[m.Name]; ok {
			r.oracle.SetSymbol(m, &sema.Symbol{Kind: mem.kind, Name: m.Name, Type: mem.typ})
			if mem.kind == sema.SymbolMethod {
				return nil
			}
			return mem.typ
		}
	}
	if ot == nil {
		return nil
	}
	switch m.Name {
	case "Length":
		if ot.IsArray() || ot.IsString() {
			return sema.Int32
		}
	case "Count":
		if ot.ElementType() != nil {
			return sema.Int32
		}
	case "HasValue":
		if ot.IsNullable() {
			return sema.Boolean
		}
	case "Value":
		if ot.IsNullable() {
			return ot.Underlying()
		}
	}
	if ot.GenericName() == "System.Collections.Generic.KeyValuePair<,>" {
		switch m.Name {
		case "Key":
			return ot.Args[0]
		case "Value":
			return ot.Args[1]
		}
	}
	return nil
}

func (r *resolver) invocation(c *syntax.Invocation) *sema.Type {
	r.expr(c.Func, nil)
	var params []*sema.Type
	var ret *sema.Type

	switch fn := c.Func.(type) {
	case *syntax.Identifier, *syntax.MemberAccess:
		sym := r.oracle.Symbol(fn)
		switch {
		case sym != nil && sym.Kind == sema.SymbolMethod:
			ret = sym.Type
			params = r.methodParams(fn)
		case sym != nil && sym.Type != nil && sym.Type.Kind == sema.TypeDelegate:
			ret, params = delegateSignature(sym.Type)
		default:
			if ma, ok := fn.(*syntax.MemberAccess); ok {
				params, ret = knownMethod(r.oracle.DeclaredType(ma.Object), ma.Name)
			}
		}
	}
	r.args(c.Args, params)
	return ret
}

func (r *resolver) methodParams(fn syntax.Expr) []*sema.Type {
	var info *typeInfo
	var name string
	switch fn := fn.(type) {
	case *syntax.Identifier:
		info, name = r.class, fn.Name
	case *syntax.MemberAccess:
		ot := r.oracle.DeclaredType(fn.Object)
		if sym := r.oracle.Symbol(fn.Object); sym != nil && sym.Kind == sema.SymbolType {
			ot = sym.Type
		}
		info, name = r.info(ot), fn.Name
	}
	if info == nil {
		return nil
	}
	if m, ok := info.members[name]; ok {
		return m.params
	}
	return nil
}

func (r *resolver) args(args []syntax.Expr, params []*sema.Type) {
	for i, a := range args {
		var want *sema.Type
		if i < len(params) {
			want = params[i]
		}
		r.expr(a, want)
	}
}

func (r *resolver) lambda(l *syntax.Lambda, delegate *sema.Type) {
	ret, params := delegateSignature(delegate)
	if ret == nil {
		ret = sema.Void
	}
	r.function(l.Params, params, ret, l.Body)
}

// delegateSignature splits Func and Action types into return and parameter
// types. Unknown delegates give nothing.
func delegateSignature(t *sema.Type) (*sema.Type, []*sema.Type) {
	if t == nil || t.Kind != sema.TypeDelegate {
		return nil, nil
	}
	switch t.Name {
	case "Func":
		if len(t.Args) == 0 {
			return nil, nil
		}
		return t.Args[len(t.Args)-1], t.Args[:len(t.Args)-1]
	case "Action":
		return sema.Void, t.Args
	case "EventHandler":
		return sema.Void, []*sema.Type{sema.Object, {Name: "EventArgs", Namespace: "System", Kind: sema.TypeClass}}
	}
	return t.Return, nil
}

// knownMethod returns parameter and return types of the BCL collection and
// string methods the translator cares about.
func knownMethod(recv *sema.Type, name string) ([]*sema.Type, *sema.Type) {
	if recv == nil {
		return nil, nil
	}
	if name == "ToString" {
		return nil, sema.String
	}
	if recv.IsString() {
		switch name {
		case "Substring", "Trim", "ToUpper", "ToLower", "Replace":
			return nil, sema.String
		case "IndexOf", "LastIndexOf":
			return nil, sema.Int32
		case "StartsWith", "EndsWith", "Contains":
			return []*sema.Type{sema.String}, sema.Boolean
		}
		return nil, nil
	}
	switch recv.GenericName() {
	case "System.Collections.Generic.List<>", "System.Collections.Generic.IList<>":
		switch name {
		case "Add", "Remove":
			return []*sema.Type{recv.Args[0]}, sema.Void
		case "Insert":
			return []*sema.Type{sema.Int32, recv.Args[0]}, sema.Void
		case "Contains":
			return []*sema.Type{recv.Args[0]}, sema.Boolean
		case "IndexOf":
			return []*sema.Type{recv.Args[0]}, sema.Int32
		case "AddRange":
			return []*sema.Type{sema.NewGeneric("System.Collections.Generic", "IEnumerable", sema.TypeInterface, recv.Args[0])}, sema.Void
		case "ToArray":
			return nil, sema.NewArray(recv.Args[0], 1)
		}
	case "System.Collections.Generic.HashSet<>":
		switch name {
		case "Add", "Remove", "Contains":
			return []*sema.Type{recv.Args[0]}, sema.Boolean
		}
	case "System.Collections.Generic.Queue<>":
		switch name {
		case "Enqueue":
			return []*sema.Type{recv.Args[0]}, sema.Void
		case "Dequeue", "Peek":
			return nil, recv.Args[0]
		}
	case "System.Collections.Generic.Stack<>":
		switch name {
		case "Push":
			return []*sema.Type{recv.Args[0]}, sema.Void
		case "Pop", "Peek":
			return nil, recv.Args[0]
		}
	case "System.Collections.Generic.Dictionary<,>", "System.Collections.Generic.IDictionary<,>":
		switch name {
		case "Add":
			return []*sema.Type{recv.Args[0], recv.Args[1]}, sema.Void
		case "ContainsKey", "Remove":
			return []*sema.Type{recv.Args[0]}, sema.Boolean
		}
	}
	return nil, nil
}
