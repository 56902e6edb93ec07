package translator

import (
	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

func (t *Translator) forEach(s *syntax.ForEach) error {
	t.out.WriteIndent()
	t.out.Write("for (" + s.Var + " in ")
	if err := t.writeEnumerator(s.Collection, t.typeOf(s.Collection)); err != nil {
		return err
	}
	t.out.Write(")\n")
	return t.writeBody(s.Body)
}

// writeEnumerator writes e so a Haxe for-in loop yields what C# enumeration
// of a value of type et yields.
func (t *Translator) writeEnumerator(e syntax.Expr, et *sema.Type) error {
	if et.IsString() {
		t.out.Write("Cs2Hx.ToCharArray(")
		if err := t.Translate(e); err != nil {
			return err
		}
		t.out.Write(")")
		return nil
	}
	if err := t.Translate(e); err != nil {
		return err
	}
	switch et.GenericName() {
	case "System.Collections.Generic.Dictionary<,>":
		t.out.Write(".KeyValues()")
	case "System.Collections.Generic.HashSet<>", "System.Linq.IGrouping<,>":
		t.out.Write(".Values()")
	}
	return nil
}

// WriteEnumerable writes e, applying the enumerator rewrite when the context
// converts it to IEnumerable<T>. Other targets get e unchanged.
func (t *Translator) WriteEnumerable(e syntax.Expr) error {
	converted := t.oracle.ConvertedType(e)
	declared := t.oracle.DeclaredType(e)
	if converted == nil || declared == nil ||
		converted.GenericName() != "System.Collections.Generic.IEnumerable<>" {
		return t.Translate(e)
	}
	return t.writeEnumerator(e, declared)
}

// writeBody writes a loop or branch body as a brace block. Block bodies
// contribute their statements directly.
func (t *Translator) writeBody(body syntax.Stmt) error {
	t.out.WriteOpenBrace()
	if block, ok := body.(*syntax.Block); ok {
		if block == nil {
			t.out.WriteCloseBrace()
			return nil
		}
		for _, s := range block.Stmts {
			if err := t.Translate(s); err != nil {
				return err
			}
		}
	} else if body != nil {
		if err := t.Translate(body); err != nil {
			return err
		}
	}
	t.out.WriteCloseBrace()
	return nil
}
