package translator

import "github.com/oxhq/cs2hx/syntax"

// rethrowName stands in for a catch clause that declares no identifier.
const rethrowName = "__ex"

func (t *Translator) throwStatement(s *syntax.Throw) error {
	void, err := t.returnsVoid(s)
	if err != nil {
		return err
	}
	t.out.WriteIndent()
	if !void {
		t.out.Write("return ")
	}
	t.out.Write("throw ")
	if s.Value == nil {
		name, err := t.rethrowTarget(s)
		if err != nil {
			return err
		}
		t.out.Write(name)
	} else if err := t.Translate(s.Value); err != nil {
		return err
	}
	t.out.Write(";\n")
	return nil
}

// throwExpression is never prefixed; the surrounding expression decides
// whether the result is legal Haxe.
func (t *Translator) throwExpression(e *syntax.ThrowExpression) error {
	t.out.Write("throw ")
	return t.Translate(e.Value)
}

// returnsVoid reports whether the function-like node enclosing n returns no
// value.
func (t *Translator) returnsVoid(n syntax.Node) (bool, error) {
	for anc := range t.tree.Ancestors(n) {
		switch fn := anc.(type) {
		case *syntax.Method:
			rt := t.resolveType(fn.ReturnType)
			return fn.ReturnType == nil || rt.IsVoid(), nil
		case *syntax.Property:
			return t.resolveType(fn.Type).IsVoid(), nil
		case *syntax.Constructor:
			return true, nil
		case *syntax.Lambda:
			return t.oracle.ConvertedType(fn).ReturnsVoid(), nil
		}
	}
	return false, errorAt(NoEnclosingBody, n, "throw is not inside a function body")
}

func (t *Translator) rethrowTarget(s *syntax.Throw) (string, error) {
	for anc := range t.tree.Ancestors(s) {
		if c, ok := anc.(*syntax.Catch); ok {
			if c.Name == "" {
				return rethrowName, nil
			}
			return c.Name, nil
		}
	}
	return "", errorAt(RethrowOutsideCatch, s, "bare throw is only valid inside a catch clause")
}
