package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/cs2hx/syntax"
)

// builder converts a tree-sitter C# tree into syntax nodes. The first
// construct it cannot represent is kept in err; conversion continues with
// placeholders so the caller gets a single diagnostic.
type builder struct {
	src  []byte
	path string
	err  *unsupported
}

type unsupported struct {
	loc      syntax.Location
	nodeType string
}

func (b *builder) fail(n *sitter.Node) {
	if b.err == nil {
		b.err = &unsupported{loc: b.loc(n), nodeType: n.Type()}
	}
}

func (b *builder) loc(n *sitter.Node) syntax.Location {
	p := n.StartPoint()
	return syntax.Location{File: b.path, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func (b *builder) span(n *sitter.Node) syntax.Span { return syntax.At(b.loc(n)) }

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(b.src)
}

// between returns the source text separating two sibling nodes, which is
// where operator tokens live.
func (b *builder) between(left, right *sitter.Node) string {
	if left == nil || right == nil || left.EndByte() > right.StartByte() {
		return ""
	}
	return strings.TrimSpace(string(b.src[left.EndByte():right.StartByte()]))
}

// field returns the first child found under any of the given field names.
// Grammar revisions renamed several fields.
func field(n *sitter.Node, names ...string) *sitter.Node {
	for _, name := range names {
		if c := n.ChildByFieldName(name); c != nil {
			return c
		}
	}
	return nil
}

func named(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := range count {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func firstOfType(n *sitter.Node, types ...string) *sitter.Node {
	for _, c := range named(n) {
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

func (b *builder) hasModifier(n *sitter.Node, mod string) bool {
	for _, c := range named(n) {
		if c.Type() == "modifier" && b.text(c) == mod {
			return true
		}
	}
	// older grammars leave modifiers as bare keyword tokens
	return hasToken(n, mod)
}

// hasToken reports whether n has an anonymous child token tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

// Declarations

func (b *builder) compilationUnit(root *sitter.Node) *syntax.CompilationUnit {
	unit := &syntax.CompilationUnit{Span: b.span(root)}
	var fileScoped *syntax.Namespace
	for _, c := range named(root) {
		switch c.Type() {
		case "using_directive", "extern_alias_directive", "global_attribute_list", "global_attribute":
			continue
		case "file_scoped_namespace_declaration":
			fileScoped = &syntax.Namespace{Span: b.span(c), Name: b.text(field(c, "name"))}
			unit.Members = append(unit.Members, fileScoped)
			// newer grammars nest the members, older ones leave them as siblings
			fileScoped.Members = append(fileScoped.Members, b.members(c)...)
			continue
		}
		members := b.member(c)
		if fileScoped != nil {
			fileScoped.Members = append(fileScoped.Members, members...)
		} else {
			unit.Members = append(unit.Members, members...)
		}
	}
	return unit
}

// members converts the type declarations directly under n.
func (b *builder) members(n *sitter.Node) []syntax.Node {
	var out []syntax.Node
	for _, c := range named(n) {
		switch c.Type() {
		case "identifier", "qualified_name", "using_directive":
			continue
		}
		out = append(out, b.member(c)...)
	}
	return out
}

func (b *builder) member(n *sitter.Node) []syntax.Node {
	switch n.Type() {
	case "namespace_declaration":
		ns := &syntax.Namespace{Span: b.span(n), Name: b.text(field(n, "name"))}
		if body := field(n, "body"); body != nil {
			ns.Members = b.members(body)
		} else if body := firstOfType(n, "declaration_list"); body != nil {
			ns.Members = b.members(body)
		}
		return []syntax.Node{ns}
	case "class_declaration", "struct_declaration":
		return []syntax.Node{b.class(n)}
	case "enum_declaration":
		return []syntax.Node{b.enum(n)}
	case "declaration_list":
		return b.members(n)
	}
	b.fail(n)
	return nil
}

func (b *builder) class(n *sitter.Node) *syntax.Class {
	class := &syntax.Class{
		Span:   b.span(n),
		Name:   b.text(field(n, "name")),
		Static: b.hasModifier(n, "static"),
	}
	body := field(n, "body")
	if body == nil {
		body = firstOfType(n, "declaration_list")
	}
	if body == nil {
		return class
	}
	for _, m := range named(body) {
		if decl := b.classMember(m); decl != nil {
			class.Members = append(class.Members, decl)
		}
	}
	return class
}

func (b *builder) classMember(n *sitter.Node) syntax.Node {
	switch n.Type() {
	case "field_declaration", "event_field_declaration":
		f := &syntax.Field{
			Span:   b.span(n),
			Static: b.hasModifier(n, "static") || b.hasModifier(n, "const"),
			Event:  n.Type() == "event_field_declaration",
		}
		if decl := firstOfType(n, "variable_declaration"); decl != nil {
			f.Type, f.Vars = b.variableDeclaration(decl)
		}
		return f
	case "method_declaration":
		m := &syntax.Method{
			Span:       b.span(n),
			Name:       b.text(field(n, "name")),
			ReturnType: b.typeRef(field(n, "returns", "type")),
			Params:     b.parameters(field(n, "parameters")),
			Static:     b.hasModifier(n, "static"),
		}
		m.Body = b.functionBody(n)
		return m
	case "constructor_declaration":
		c := &syntax.Constructor{
			Span:   b.span(n),
			Name:   b.text(field(n, "name")),
			Params: b.parameters(field(n, "parameters")),
			Static: b.hasModifier(n, "static"),
		}
		if body, ok := b.functionBody(n).(*syntax.Block); ok {
			c.Body = body
		}
		return c
	case "property_declaration":
		return b.property(n)
	case "enum_declaration", "class_declaration", "struct_declaration":
		// Haxe has no nested types
		b.fail(n)
		return nil
	}
	b.fail(n)
	return nil
}

// functionBody returns a *Block, an expression for `=>` bodies, or nil.
func (b *builder) functionBody(n *sitter.Node) syntax.Node {
	body := field(n, "body")
	if body == nil {
		body = firstOfType(n, "block", "arrow_expression_clause")
	}
	if body == nil {
		return nil
	}
	switch body.Type() {
	case "block":
		return b.block(body)
	case "arrow_expression_clause":
		if inner := named(body); len(inner) > 0 {
			return b.expr(inner[0])
		}
	}
	return nil
}

func (b *builder) property(n *sitter.Node) *syntax.Property {
	p := &syntax.Property{
		Span:   b.span(n),
		Name:   b.text(field(n, "name")),
		Type:   b.typeRef(field(n, "type")),
		Static: b.hasModifier(n, "static"),
	}
	if arrow := firstOfType(n, "arrow_expression_clause"); arrow != nil {
		if inner := named(arrow); len(inner) > 0 {
			p.Getter = b.expr(inner[0])
		}
		return p
	}
	accessors := field(n, "accessors")
	if accessors == nil {
		accessors = firstOfType(n, "accessor_list")
	}
	if accessors == nil {
		return p
	}
	for _, acc := range named(accessors) {
		if acc.Type() != "accessor_declaration" {
			continue
		}
		body := b.functionBody(acc)
		switch b.accessorKind(acc) {
		case "get":
			p.Getter = body
		case "set", "init":
			if blk, ok := body.(*syntax.Block); ok {
				p.Setter = blk
			} else if e, ok := body.(syntax.Expr); ok {
				p.Setter = &syntax.Block{Span: b.span(acc), Stmts: []syntax.Stmt{
					&syntax.ExpressionStatement{Span: b.span(acc), Expr: e},
				}}
			}
		default:
			b.fail(acc)
		}
	}
	return p
}

func (b *builder) accessorKind(acc *sitter.Node) string {
	if name := field(acc, "name"); name != nil {
		return b.text(name)
	}
	for i := range int(acc.ChildCount()) {
		switch c := acc.Child(i); c.Type() {
		case "get", "set", "init", "add", "remove":
			return c.Type()
		}
	}
	return ""
}

func (b *builder) enum(n *sitter.Node) *syntax.Enum {
	e := &syntax.Enum{Span: b.span(n), Name: b.text(field(n, "name"))}
	body := field(n, "body")
	if body == nil {
		body = firstOfType(n, "enum_member_declaration_list")
	}
	if body == nil {
		return e
	}
	for _, m := range named(body) {
		if m.Type() != "enum_member_declaration" {
			continue
		}
		member := syntax.EnumMember{Name: b.text(field(m, "name"))}
		if member.Name == "" {
			member.Name = b.text(firstOfType(m, "identifier"))
		}
		if v := field(m, "value"); v != nil {
			member.Value = b.text(v)
		} else if eq := firstOfType(m, "equals_value_clause"); eq != nil {
			if inner := named(eq); len(inner) > 0 {
				member.Value = b.text(inner[0])
			}
		}
		e.Members = append(e.Members, member)
	}
	return e
}

func (b *builder) parameters(list *sitter.Node) []*syntax.Parameter {
	if list == nil {
		return nil
	}
	var out []*syntax.Parameter
	for _, p := range named(list) {
		switch p.Type() {
		case "parameter":
			name := field(p, "name")
			if name == nil {
				name = firstOfType(p, "identifier")
			}
			out = append(out, &syntax.Parameter{
				Span: b.span(p),
				Name: b.text(name),
				Type: b.typeRef(field(p, "type")),
			})
		case "identifier", "implicit_parameter":
			out = append(out, &syntax.Parameter{Span: b.span(p), Name: b.text(p)})
		}
	}
	return out
}

func (b *builder) typeRef(n *sitter.Node) *syntax.TypeRef {
	if n == nil {
		return nil
	}
	return &syntax.TypeRef{Span: b.span(n), Text: strings.Join(strings.Fields(b.text(n)), " ")}
}

func (b *builder) variableDeclaration(n *sitter.Node) (*syntax.TypeRef, []*syntax.VariableDeclarator) {
	typ := b.typeRef(field(n, "type"))
	var vars []*syntax.VariableDeclarator
	for _, c := range named(n) {
		if c.Type() == "variable_declarator" {
			vars = append(vars, b.declarator(c))
		}
	}
	return typ, vars
}

func (b *builder) declarator(n *sitter.Node) *syntax.VariableDeclarator {
	v := &syntax.VariableDeclarator{Span: b.span(n)}
	nameNode := field(n, "name")
	if nameNode == nil {
		nameNode = firstOfType(n, "identifier")
	}
	v.Name = b.text(nameNode)

	if eq := firstOfType(n, "equals_value_clause"); eq != nil {
		if inner := named(eq); len(inner) > 0 {
			v.Init = b.expr(inner[0])
		}
		return v
	}
	seenEquals := false
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if !c.IsNamed() {
			seenEquals = seenEquals || c.Type() == "="
			continue
		}
		if seenEquals && c.Type() != "comment" {
			v.Init = b.expr(c)
			break
		}
	}
	return v
}

// Statements

func (b *builder) block(n *sitter.Node) *syntax.Block {
	blk := &syntax.Block{Span: b.span(n)}
	for _, c := range named(n) {
		if s := b.stmt(c); s != nil {
			blk.Stmts = append(blk.Stmts, s)
		}
	}
	return blk
}

func (b *builder) stmt(n *sitter.Node) syntax.Stmt {
	switch n.Type() {
	case "block":
		return b.block(n)
	case "empty_statement":
		return nil
	case "expression_statement":
		inner := named(n)
		if len(inner) == 0 {
			return nil
		}
		return &syntax.ExpressionStatement{Span: b.span(n), Expr: b.expr(inner[0])}
	case "local_declaration_statement":
		decl := firstOfType(n, "variable_declaration")
		if decl == nil || hasToken(n, "using") {
			b.fail(n)
			return nil
		}
		typ, vars := b.variableDeclaration(decl)
		return &syntax.LocalDeclaration{Span: b.span(n), Type: typ, Vars: vars}
	case "return_statement":
		r := &syntax.Return{Span: b.span(n)}
		if inner := named(n); len(inner) > 0 {
			r.Value = b.expr(inner[0])
		}
		return r
	case "if_statement":
		s := &syntax.If{
			Span: b.span(n),
			Cond: b.exprField(n, "condition"),
			Then: b.stmtField(n, "consequence"),
		}
		if alt := field(n, "alternative"); alt != nil {
			if alt.Type() == "else_clause" {
				if inner := named(alt); len(inner) > 0 {
					alt = inner[0]
				}
			}
			s.Else = b.stmt(alt)
		}
		return s
	case "while_statement":
		return &syntax.While{
			Span: b.span(n),
			Cond: b.exprField(n, "condition"),
			Body: b.stmtField(n, "body"),
		}
	case "foreach_statement":
		return &syntax.ForEach{
			Span:       b.span(n),
			Type:       b.typeRef(field(n, "type")),
			Var:        b.text(field(n, "left")),
			Collection: b.exprField(n, "right"),
			Body:       b.stmtField(n, "body"),
		}
	case "throw_statement":
		t := &syntax.Throw{Span: b.span(n)}
		if inner := named(n); len(inner) > 0 {
			t.Value = b.expr(inner[0])
		}
		return t
	case "try_statement":
		return b.try(n)
	case "break_statement":
		return &syntax.Break{Span: b.span(n)}
	case "continue_statement":
		return &syntax.Continue{Span: b.span(n)}
	}
	b.fail(n)
	return nil
}

func (b *builder) stmtField(n *sitter.Node, name string) syntax.Stmt {
	c := field(n, name)
	if c == nil {
		return &syntax.Block{Span: b.span(n)}
	}
	if s := b.stmt(c); s != nil {
		return s
	}
	return &syntax.Block{Span: b.span(c)}
}

func (b *builder) try(n *sitter.Node) *syntax.Try {
	t := &syntax.Try{Span: b.span(n)}
	if body := field(n, "body"); body != nil {
		t.Body = b.block(body)
	} else if body := firstOfType(n, "block"); body != nil {
		t.Body = b.block(body)
	}
	for _, c := range named(n) {
		switch c.Type() {
		case "catch_clause":
			t.Catches = append(t.Catches, b.catch(c))
		case "finally_clause":
			if body := firstOfType(c, "block"); body != nil {
				t.Finally = b.block(body)
			} else {
				t.Finally = &syntax.Block{Span: b.span(c)}
			}
		}
	}
	return t
}

func (b *builder) catch(n *sitter.Node) *syntax.Catch {
	c := &syntax.Catch{Span: b.span(n)}
	if filter := firstOfType(n, "catch_filter_clause"); filter != nil {
		b.fail(filter)
	}
	if decl := firstOfType(n, "catch_declaration"); decl != nil {
		c.Type = b.typeRef(field(decl, "type"))
		c.Name = b.text(field(decl, "name"))
	}
	if body := field(n, "body"); body != nil {
		c.Body = b.block(body)
	} else if body := firstOfType(n, "block"); body != nil {
		c.Body = b.block(body)
	} else {
		c.Body = &syntax.Block{Span: b.span(n)}
	}
	return c
}

// Expressions

func (b *builder) exprField(n *sitter.Node, names ...string) syntax.Expr {
	c := field(n, names...)
	if c == nil {
		b.fail(n)
		return b.placeholder(n)
	}
	return b.expr(c)
}

func (b *builder) placeholder(n *sitter.Node) syntax.Expr {
	return &syntax.Identifier{Span: b.span(n), Name: "__unsupported"}
}

var literalKinds = map[string]syntax.LiteralKind{
	"integer_literal":         syntax.LitInt,
	"real_literal":            syntax.LitReal,
	"string_literal":          syntax.LitString,
	"verbatim_string_literal": syntax.LitVerbatimString,
	"character_literal":       syntax.LitChar,
	"boolean_literal":         syntax.LitBool,
	"null_literal":            syntax.LitNull,
}

func (b *builder) expr(n *sitter.Node) syntax.Expr {
	sp := b.span(n)
	if kind, ok := literalKinds[n.Type()]; ok {
		return &syntax.Literal{Span: sp, LitKind: kind, Text: b.text(n)}
	}
	switch n.Type() {
	case "identifier":
		return &syntax.Identifier{Span: sp, Name: b.text(n)}
	case "this_expression", "this":
		return &syntax.This{Span: sp}
	case "predefined_type", "generic_name", "qualified_name", "array_type", "nullable_type":
		return b.typeRef(n)
	case "parenthesized_expression":
		if inner := named(n); len(inner) > 0 {
			return &syntax.Parenthesized{Span: sp, Inner: b.expr(inner[0])}
		}
	case "binary_expression", "assignment_expression", "as_expression", "is_expression":
		return b.binary(n)
	case "is_pattern_expression":
		pattern := typePattern(field(n, "pattern"))
		left := field(n, "expression")
		if pattern == nil || left == nil {
			break
		}
		return &syntax.Binary{Span: sp, Left: b.expr(left), Op: syntax.OpIs, Right: b.typeRef(pattern)}
	case "element_access_expression":
		return &syntax.ElementAccess{
			Span:   sp,
			Object: b.exprField(n, "expression"),
			Args:   b.arguments(field(n, "subscript")),
		}
	case "member_access_expression":
		name := field(n, "name")
		if name != nil && name.Type() == "generic_name" {
			name = firstOfType(name, "identifier")
		}
		return &syntax.MemberAccess{Span: sp, Object: b.exprField(n, "expression"), Name: b.text(name)}
	case "invocation_expression":
		return &syntax.Invocation{
			Span: sp,
			Func: b.exprField(n, "function"),
			Args: b.arguments(field(n, "arguments")),
		}
	case "object_creation_expression":
		if field(n, "initializer") != nil || firstOfType(n, "initializer_expression") != nil {
			break
		}
		return &syntax.ObjectCreation{
			Span: sp,
			Type: b.typeRef(field(n, "type")),
			Args: b.arguments(field(n, "arguments")),
		}
	case "prefix_unary_expression":
		operand := field(n, "operand")
		if operand == nil {
			inner := named(n)
			if len(inner) == 0 {
				break
			}
			operand = inner[len(inner)-1]
		}
		op := strings.TrimSpace(string(b.src[n.StartByte():operand.StartByte()]))
		return &syntax.PrefixUnary{Span: sp, Op: op, Operand: b.expr(operand)}
	case "postfix_unary_expression":
		operand := field(n, "operand")
		if operand == nil {
			inner := named(n)
			if len(inner) == 0 {
				break
			}
			operand = inner[0]
		}
		op := strings.TrimSpace(string(b.src[operand.EndByte():n.EndByte()]))
		if op == "!" {
			// null-forgiving has no runtime meaning
			return b.expr(operand)
		}
		return &syntax.PostfixUnary{Span: sp, Operand: b.expr(operand), Op: op}
	case "conditional_expression":
		return &syntax.Conditional{
			Span: sp,
			Cond: b.exprField(n, "condition"),
			Then: b.exprField(n, "consequence"),
			Else: b.exprField(n, "alternative"),
		}
	case "cast_expression":
		return &syntax.Cast{Span: sp, Type: b.typeRef(field(n, "type")), Value: b.exprField(n, "value")}
	case "lambda_expression":
		return b.lambda(n)
	case "throw_expression":
		if inner := named(n); len(inner) > 0 {
			return &syntax.ThrowExpression{Span: sp, Value: b.expr(inner[0])}
		}
	}
	b.fail(n)
	return b.placeholder(n)
}

// typePattern returns the type an is-pattern tests against, or nil when the
// pattern is anything richer. The grammar reads `o is Widget` as a constant
// pattern; a dotted constant may be an enum member, so it is not unwrapped.
func typePattern(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "type_pattern", "identifier", "generic_name", "qualified_name", "predefined_type":
		return n
	case "constant_pattern":
		if inner := named(n); len(inner) == 1 {
			switch inner[0].Type() {
			case "identifier", "generic_name", "qualified_name", "predefined_type":
				return inner[0]
			}
		}
	}
	return nil
}

func (b *builder) binary(n *sitter.Node) syntax.Expr {
	left := field(n, "left", "expression")
	right := field(n, "right", "type")
	if left == nil || right == nil {
		if inner := named(n); len(inner) >= 2 {
			left, right = inner[0], inner[len(inner)-1]
		} else {
			b.fail(n)
			return b.placeholder(n)
		}
	}
	token := b.between(left, right)
	op, ok := syntax.ParseOperator(token)
	if !ok {
		b.fail(n)
		return b.placeholder(n)
	}
	out := &syntax.Binary{Span: b.span(n), Left: b.expr(left), Op: op}
	if op == syntax.OpIs || op == syntax.OpAs {
		out.Right = b.typeRef(right)
	} else {
		out.Right = b.expr(right)
	}
	return out
}

func (b *builder) arguments(list *sitter.Node) []syntax.Expr {
	if list == nil {
		return nil
	}
	var out []syntax.Expr
	for _, arg := range named(list) {
		if arg.Type() != "argument" {
			out = append(out, b.expr(arg))
			continue
		}
		if hasToken(arg, "ref") || hasToken(arg, "out") || field(arg, "name") != nil {
			b.fail(arg)
		}
		inner := named(arg)
		if len(inner) == 0 {
			continue
		}
		out = append(out, b.expr(inner[len(inner)-1]))
	}
	return out
}

func (b *builder) lambda(n *sitter.Node) syntax.Expr {
	l := &syntax.Lambda{Span: b.span(n)}
	params := field(n, "parameters")
	if params == nil {
		params = firstOfType(n, "parameter_list", "implicit_parameter_list", "identifier", "implicit_parameter")
	}
	if params != nil {
		switch params.Type() {
		case "identifier", "implicit_parameter":
			l.Params = []*syntax.Parameter{{Span: b.span(params), Name: b.text(params)}}
		default:
			l.Params = b.parameters(params)
		}
	}
	body := field(n, "body")
	if body == nil {
		inner := named(n)
		if len(inner) == 0 {
			b.fail(n)
			return b.placeholder(n)
		}
		body = inner[len(inner)-1]
	}
	if body.Type() == "block" {
		l.Body = b.block(body)
	} else {
		l.Body = b.expr(body)
	}
	return l
}

// syntaxErrors collects ERROR and missing nodes.
func syntaxErrors(n *sitter.Node, path string, out []syntax.Location) []syntax.Location {
	if n.Type() == "ERROR" || n.IsMissing() {
		p := n.StartPoint()
		return append(out, syntax.Location{File: path, Line: int(p.Row) + 1, Column: int(p.Column) + 1})
	}
	if !n.HasError() {
		return out
	}
	for i := range int(n.ChildCount()) {
		out = syntaxErrors(n.Child(i), path, out)
	}
	return out
}
