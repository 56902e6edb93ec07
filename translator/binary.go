package translator

import (
	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

func (t *Translator) binary(b *syntax.Binary) error {
	if ea, ok := b.Left.(*syntax.ElementAccess); ok && isIndexWriteOperator(b.Op) &&
		!IsNativeArray(t.oracle.ConvertedType(ea.Object)) {
		return t.writeIndexing(ea, b.Op.String(), func() error { return t.Translate(b.Right) })
	}

	if b.Op != syntax.OpAssign && b.Op != syntax.OpAdd {
		for _, operand := range []syntax.Expr{b.Left, b.Right} {
			if t.oracle.DeclaredType(operand).IsNullable() {
				return errorAt(NullableMisuse, b,
					"operand of %q is nullable; use .HasValue or .Value", b.Op)
			}
		}
	}

	if (b.Op == syntax.OpAddAssign || b.Op == syntax.OpSubAssign) && t.oracle.Symbol(b.Left).IsEvent() {
		if err := t.Translate(b.Left); err != nil {
			return err
		}
		if b.Op == syntax.OpAddAssign {
			t.out.Write(".Add(")
		} else {
			t.out.Write(".Remove(")
		}
		if err := t.Translate(b.Right); err != nil {
			return err
		}
		t.out.Write(")")
		return nil
	}

	switch b.Op {
	case syntax.OpAs:
		return t.asExpression(b)
	case syntax.OpIs:
		t.out.Write("Std.is(")
		if err := t.Translate(b.Left); err != nil {
			return err
		}
		t.out.Write(", ")
		if err := t.writeTypeOperand(b.Right); err != nil {
			return err
		}
		t.out.Write(")")
		return nil
	case syntax.OpAssign:
		if err := t.Translate(b.Left); err != nil {
			return err
		}
		t.out.Write(" = ")
		return t.writeBoxed(b.Right)
	case syntax.OpCoalesce:
		t.out.Write("Cs2Hx.Coalesce(")
		if err := t.Translate(b.Left); err != nil {
			return err
		}
		t.out.Write(", ")
		if err := t.Translate(b.Right); err != nil {
			return err
		}
		t.out.Write(")")
		return nil
	}

	if err := t.binaryOperand(b.Left, b.Op); err != nil {
		return err
	}
	t.out.Write(" " + b.Op.String() + " ")
	return t.binaryOperand(b.Right, b.Op)
}

func isIndexWriteOperator(op syntax.Operator) bool {
	return op == syntax.OpAssign || op == syntax.OpAddAssign || op == syntax.OpSubAssign
}

// binaryOperand stringifies enums under "+". Both numeric addition and
// concatenation take this path; the concatenation reading wins.
func (t *Translator) binaryOperand(e syntax.Expr, op syntax.Operator) error {
	if op == syntax.OpAdd {
		if et := t.oracle.DeclaredType(e); et.IsEnum() {
			t.out.Write(enumQualifiedName(et) + ".ToString(")
			if err := t.Translate(e); err != nil {
				return err
			}
			t.out.Write(")")
			return nil
		}
	}
	return t.Translate(e)
}

// asExpression writes `x as T` as a guarded cast. Only simple names qualify
// since x is evaluated twice.
func (t *Translator) asExpression(b *syntax.Binary) error {
	id, ok := b.Left.(*syntax.Identifier)
	if !ok {
		return errorAt(UnsupportedCastTarget, b,
			"left side of \"as\" must be a simple name, got %s", b.Left.Kind())
	}
	t.out.Write("(Std.is(" + id.Name + ", ")
	if err := t.writeTypeOperand(b.Right); err != nil {
		return err
	}
	t.out.Write(") ? cast(" + id.Name + ", ")
	if err := t.writeTypeOperand(b.Right); err != nil {
		return err
	}
	t.out.Write(") : null)")
	return nil
}

// writeTypeOperand writes the right side of "is" or "as" without generic
// arguments, which Haxe runtime type checks cannot carry.
func (t *Translator) writeTypeOperand(e syntax.Expr) error {
	var rt *sema.Type
	if r, ok := e.(*syntax.TypeRef); ok {
		rt = t.resolveType(r)
	} else {
		rt = t.typeOf(e)
	}
	if rt == nil {
		return t.Translate(e)
	}
	t.out.Write(RemoveGenericArguments(ConvertType(rt)))
	return nil
}

// writeBoxed writes a value stored into a Nullable<T> context, wrapping it in
// the Haxe nullable class when the value itself is not nullable.
func (t *Translator) writeBoxed(value syntax.Expr) error {
	converted := t.oracle.ConvertedType(value)
	declared := t.oracle.DeclaredType(value)
	if !converted.IsNullable() || declared.IsNullable() {
		return t.Translate(value)
	}
	t.out.Write("new " + ConvertType(converted) + "(")
	if declared != nil {
		if err := t.Translate(value); err != nil {
			return err
		}
	}
	t.out.Write(")")
	return nil
}

// WriteConverted writes an initializer or assigned value, boxing it when the
// target is nullable.
func (t *Translator) WriteConverted(value syntax.Expr) error {
	return t.writeBoxed(value)
}

// writeIndexing rewrites a write through a non-array indexer as a method
// call. value writes the assigned value or delta.
func (t *Translator) writeIndexing(ea *syntax.ElementAccess, op string, value func() error) error {
	var method string
	switch op {
	case "=":
		method = "SetValue"
	case "+=", "++":
		method = "IncrementValue"
	case "-=", "--":
		method = "DecrementValue"
	default:
		return errorAt(UnexpectedIndexOperator, ea, "operator %q on an indexer", op)
	}
	if err := t.Translate(ea.Object); err != nil {
		return err
	}
	t.out.Write("." + method + "(")
	for _, arg := range ea.Args {
		if err := t.Translate(arg); err != nil {
			return err
		}
		t.out.Write(", ")
	}
	if err := value(); err != nil {
		return err
	}
	t.out.Write(")")
	return nil
}
