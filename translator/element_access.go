package translator

import "github.com/oxhq/cs2hx/syntax"

func (t *Translator) elementAccess(ea *syntax.ElementAccess) error {
	if err := t.Translate(ea.Object); err != nil {
		return err
	}
	ct := t.oracle.ConvertedType(ea.Object)
	haxeType := ConvertType(ct)
	switch {
	case IsNativeArray(ct):
		if len(ea.Args) != 1 {
			return errorAt(InvalidArrayIndexArity, ea,
				"%s indexed with %d arguments", haxeType, len(ea.Args))
		}
		t.out.Write("[")
		if err := t.Translate(ea.Args[0]); err != nil {
			return err
		}
		t.out.Write("]")
	case haxeType == "String":
		t.out.Write(".charCodeAt(")
		if err := t.writeList(ea.Args, t.expr); err != nil {
			return err
		}
		t.out.Write(")")
	default:
		t.out.Write(".GetValue(")
		if err := t.writeList(ea.Args, t.expr); err != nil {
			return err
		}
		t.out.Write(")")
	}
	return nil
}

// incrementIndexer handles ++/-- applied to a non-array indexer, which Haxe
// cannot express in place. It reports false when the operand is not one.
func (t *Translator) incrementIndexer(operand syntax.Expr, op string) (bool, error) {
	ea, ok := operand.(*syntax.ElementAccess)
	if !ok || (op != "++" && op != "--") || IsNativeArray(t.oracle.ConvertedType(ea.Object)) {
		return false, nil
	}
	return true, t.writeIndexing(ea, op, func() error {
		t.out.Write("1")
		return nil
	})
}
