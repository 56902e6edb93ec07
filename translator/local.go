package translator

import (
	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

// localDeclaration writes one Haxe var per declarator. When neither the type
// nor the initializer resolves, the annotation is left for Haxe to infer.
func (t *Translator) localDeclaration(d *syntax.LocalDeclaration) error {
	declared := t.resolveType(d.Type)
	for _, v := range d.Vars {
		vt := declared
		if vt == nil && v.Init != nil {
			vt = t.oracle.DeclaredType(v.Init)
		}
		t.out.WriteIndent()
		t.out.Write("var " + v.Name + annotation(vt))
		if v.Init != nil {
			t.out.Write(" = ")
			if err := t.writeBoxed(v.Init); err != nil {
				return err
			}
		}
		t.out.Write(";\n")
	}
	return nil
}

// annotation is the ":Type" suffix of a Haxe declaration, or "" when the type
// is unknown.
func annotation(vt *sema.Type) string {
	if vt == nil {
		return ""
	}
	return ":" + ConvertType(vt)
}
