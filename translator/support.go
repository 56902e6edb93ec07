package translator

import (
	"strconv"
	"strings"

	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

// Expressions that keep their shape.

func (t *Translator) identifier(id *syntax.Identifier) error {
	t.out.Write(id.Name)
	return nil
}

func (t *Translator) this(*syntax.This) error {
	t.out.Write("this")
	return nil
}

func (t *Translator) literal(l *syntax.Literal) error {
	t.out.Write(haxeLiteral(l))
	return nil
}

func (t *Translator) memberAccess(m *syntax.MemberAccess) error {
	if err := t.Translate(m.Object); err != nil {
		return err
	}
	t.out.Write("." + m.Name)
	return nil
}

func (t *Translator) invocation(c *syntax.Invocation) error {
	if err := t.Translate(c.Func); err != nil {
		return err
	}
	t.out.Write("(")
	if err := t.writeList(c.Args, t.WriteEnumerable); err != nil {
		return err
	}
	t.out.Write(")")
	return nil
}

func (t *Translator) objectCreation(o *syntax.ObjectCreation) error {
	name := "Dynamic"
	if o.Type != nil {
		if rt := t.resolveType(o.Type); rt != nil {
			name = ConvertType(rt)
		} else {
			name = o.Type.Text
		}
	}
	t.out.Write("new " + name + "(")
	if err := t.writeList(o.Args, t.WriteEnumerable); err != nil {
		return err
	}
	t.out.Write(")")
	return nil
}

func (t *Translator) parenthesized(p *syntax.Parenthesized) error {
	t.out.Write("(")
	if err := t.Translate(p.Inner); err != nil {
		return err
	}
	t.out.Write(")")
	return nil
}

func (t *Translator) prefixUnary(u *syntax.PrefixUnary) error {
	if done, err := t.incrementIndexer(u.Operand, u.Op); done || err != nil {
		return err
	}
	t.out.Write(u.Op)
	return t.Translate(u.Operand)
}

func (t *Translator) postfixUnary(u *syntax.PostfixUnary) error {
	if done, err := t.incrementIndexer(u.Operand, u.Op); done || err != nil {
		return err
	}
	if err := t.Translate(u.Operand); err != nil {
		return err
	}
	t.out.Write(u.Op)
	return nil
}

func (t *Translator) conditional(c *syntax.Conditional) error {
	if err := t.Translate(c.Cond); err != nil {
		return err
	}
	t.out.Write(" ? ")
	if err := t.Translate(c.Then); err != nil {
		return err
	}
	t.out.Write(" : ")
	return t.Translate(c.Else)
}

// cast writes Float-to-Int casts as Std.int, drops widening casts Haxe does
// implicitly and emits a checked cast otherwise.
func (t *Translator) cast(c *syntax.Cast) error {
	rt := t.resolveType(c.Type)
	target := ConvertType(rt)
	source := ""
	if vt := t.oracle.DeclaredType(c.Value); vt != nil {
		source = ConvertType(vt)
	}
	switch {
	case target == "Int" && source == "Float":
		t.out.Write("Std.int(")
		if err := t.Translate(c.Value); err != nil {
			return err
		}
		t.out.Write(")")
		return nil
	case source != "" && (source == target || (target == "Float" && source == "Int")):
		return t.Translate(c.Value)
	case rt == nil || rt.Kind == sema.TypeParameter || target == "Dynamic" || strings.HasPrefix(target, "("):
		t.out.Write("cast ")
		return t.Translate(c.Value)
	}
	t.out.Write("cast(")
	if err := t.Translate(c.Value); err != nil {
		return err
	}
	t.out.Write(", " + RemoveGenericArguments(target) + ")")
	return nil
}

func (t *Translator) lambda(l *syntax.Lambda) error {
	t.out.Write("function (")
	for i, p := range l.Params {
		if i > 0 {
			t.out.Write(", ")
		}
		t.out.Write(p.Name)
		if p.Type != nil {
			t.out.Write(annotation(t.resolveType(p.Type)))
		}
	}
	t.out.Write(")")
	if block, ok := l.Body.(*syntax.Block); ok {
		t.out.Write("\n")
		return t.block(block)
	}
	t.out.Write(" ")
	if !t.oracle.ConvertedType(l).ReturnsVoid() {
		t.out.Write("return ")
	}
	return t.Translate(l.Body)
}

func (t *Translator) typeRef(r *syntax.TypeRef) error {
	t.out.Write(ConvertType(t.resolveType(r)))
	return nil
}

// Statements.

func (t *Translator) block(b *syntax.Block) error {
	return t.writeBody(b)
}

func (t *Translator) expressionStatement(s *syntax.ExpressionStatement) error {
	t.out.WriteIndent()
	if err := t.Translate(s.Expr); err != nil {
		return err
	}
	t.out.Write(";\n")
	return nil
}

func (t *Translator) returnStatement(r *syntax.Return) error {
	t.out.WriteIndent()
	t.out.Write("return")
	if r.Value != nil {
		t.out.Write(" ")
		if err := t.writeBoxed(r.Value); err != nil {
			return err
		}
	}
	t.out.Write(";\n")
	return nil
}

func (t *Translator) ifStatement(s *syntax.If) error {
	t.out.WriteIndent()
	return t.ifChain(s)
}

// ifChain writes s from the "if" keyword on, so else-if chains stay flat.
func (t *Translator) ifChain(s *syntax.If) error {
	t.out.Write("if (")
	if err := t.Translate(s.Cond); err != nil {
		return err
	}
	t.out.Write(")\n")
	if err := t.writeBody(s.Then); err != nil {
		return err
	}
	if s.Else == nil {
		return nil
	}
	t.out.WriteIndent()
	if next, ok := s.Else.(*syntax.If); ok {
		t.out.Write("else ")
		return t.ifChain(next)
	}
	t.out.Write("else\n")
	return t.writeBody(s.Else)
}

func (t *Translator) whileStatement(s *syntax.While) error {
	t.out.WriteIndent()
	t.out.Write("while (")
	if err := t.Translate(s.Cond); err != nil {
		return err
	}
	t.out.Write(")\n")
	return t.writeBody(s.Body)
}

func (t *Translator) tryStatement(s *syntax.Try) error {
	if s.Finally != nil {
		return errorAt(NodeKindUnsupported, s.Finally, "finally clauses have no Haxe equivalent")
	}
	t.out.WriteIndent()
	t.out.Write("try\n")
	if err := t.writeBody(s.Body); err != nil {
		return err
	}
	for _, c := range s.Catches {
		if err := t.Translate(c); err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) catchClause(c *syntax.Catch) error {
	name := c.Name
	if name == "" {
		name = rethrowName
	}
	typ := "Dynamic"
	if c.Type != nil {
		typ = ConvertType(t.resolveType(c.Type))
	}
	t.out.WriteIndent()
	t.out.Write("catch (" + name + ":" + typ + ")\n")
	return t.writeBody(c.Body)
}

func (t *Translator) breakStatement(*syntax.Break) error {
	t.out.WriteIndent()
	t.out.Write("break;\n")
	return nil
}

func (t *Translator) continueStatement(*syntax.Continue) error {
	t.out.WriteIndent()
	t.out.Write("continue;\n")
	return nil
}

// Literals.

var charEscapes = map[string]int{
	`\'`: '\'', `\"`: '"', `\\`: '\\', `\0`: 0, `\a`: 7, `\b`: 8,
	`\f`: 12, `\n`: '\n', `\r`: '\r', `\t`: '\t', `\v`: 11,
}

func haxeLiteral(l *syntax.Literal) string {
	text := l.Text
	switch l.LitKind {
	case syntax.LitInt:
		return strings.ReplaceAll(strings.TrimRight(text, "uUlL"), "_", "")
	case syntax.LitReal:
		return strings.ReplaceAll(strings.TrimRight(text, "fFdDmM"), "_", "")
	case syntax.LitChar:
		return charCode(text)
	case syntax.LitVerbatimString:
		return verbatimString(text)
	}
	return text
}

// charCode turns a C# character literal into its code point.
func charCode(text string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "'"), "'")
	if code, ok := charEscapes[inner]; ok {
		return strconv.Itoa(code)
	}
	if len(inner) > 2 && (inner[:2] == `\u` || inner[:2] == `\x`) {
		if code, err := strconv.ParseUint(inner[2:], 16, 32); err == nil {
			return strconv.FormatUint(code, 10)
		}
	}
	for _, r := range inner {
		return strconv.Itoa(int(r))
	}
	return "0"
}

// verbatimString rewrites @"…" as a regular Haxe string literal.
func verbatimString(text string) string {
	inner := strings.TrimPrefix(text, "@")
	inner = strings.TrimSuffix(strings.TrimPrefix(inner, `"`), `"`)
	inner = strings.ReplaceAll(inner, `""`, `"`)
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(inner) + `"`
}
