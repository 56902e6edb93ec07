package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

func TestLiterals(t *testing.T) {
	tests := []struct {
		kind syntax.LiteralKind
		text string
		want string
	}{
		{syntax.LitInt, "42", "42"},
		{syntax.LitInt, "10u", "10"},
		{syntax.LitInt, "5UL", "5"},
		{syntax.LitInt, "1_000", "1000"},
		{syntax.LitInt, "0xFF", "0xFF"},
		{syntax.LitReal, "1.5f", "1.5"},
		{syntax.LitReal, "2.0d", "2.0"},
		{syntax.LitReal, "9.99m", "9.99"},
		{syntax.LitChar, "'a'", "97"},
		{syntax.LitChar, `'\n'`, "10"},
		{syntax.LitChar, `'\''`, "39"},
		{syntax.LitChar, `'\0'`, "0"},
		{syntax.LitChar, `'\u0041'`, "65"},
		{syntax.LitString, `"hi\n"`, `"hi\n"`},
		{syntax.LitVerbatimString, `@"C:\dir ""x"""`, `"C:\\dir \"x\""`},
		{syntax.LitBool, "true", "true"},
		{syntax.LitNull, "null", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			out, err := renderExpr(&syntax.Literal{LitKind: tt.kind, Text: tt.text}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestShapePreservingExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr syntax.Expr
		want string
	}{
		{"member access", &syntax.MemberAccess{Object: &syntax.This{}, Name: "count"}, "this.count"},
		{"invocation", &syntax.Invocation{
			Func: &syntax.MemberAccess{Object: ident("list"), Name: "Add"},
			Args: []syntax.Expr{intLit("1"), ident("x")},
		}, "list.Add(1, x)"},
		{"parenthesized", &syntax.Parenthesized{Inner: bin(ident("a"), syntax.OpAdd, ident("b"))}, "(a + b)"},
		{"not", &syntax.PrefixUnary{Op: "!", Operand: ident("ok")}, "!ok"},
		{"negate", &syntax.PrefixUnary{Op: "-", Operand: ident("n")}, "-n"},
		{"postfix", &syntax.PostfixUnary{Operand: ident("i"), Op: "++"}, "i++"},
		{"conditional", &syntax.Conditional{Cond: ident("c"), Then: intLit("1"), Else: intLit("2")}, "c ? 1 : 2"},
		{"object creation", &syntax.ObjectCreation{Type: tref("Widget"), Args: []syntax.Expr{ident("a")}}, "new Widget(a)"},
		{"type", tref("Dictionary<string, List<int>>"), "Dictionary<String, Array<Int>>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := renderExpr(tt.expr, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCast(t *testing.T) {
	tests := []struct {
		name   string
		target string
		value  *sema.Type
		want   string
	}{
		{"double to int", "int", sema.Double, "Std.int(v)"},
		{"int to double", "double", sema.Int32, "v"},
		{"char to int", "int", sema.Char, "v"},
		{"enum to int", "int", sema.NewEnum("", "Color"), "v"},
		{"object to class", "Widget", sema.Object, "cast(v, Widget)"},
		{"unknown value", "Widget", nil, "cast(v, Widget)"},
		{"to object", "object", sema.String, "cast v"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ident("v")
			o := sema.NewStaticOracle()
			if tt.value != nil {
				o.Typed(v, tt.value)
			}
			out, err := renderExpr(&syntax.Cast{Type: tref(tt.target), Value: v}, o)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLambda(t *testing.T) {
	t.Run("expression body returning a value", func(t *testing.T) {
		l := &syntax.Lambda{
			Params: []*syntax.Parameter{{Name: "a"}, {Name: "b"}},
			Body:   bin(ident("a"), syntax.OpAdd, ident("b")),
		}
		o := sema.NewStaticOracle().Typed(l, sema.NewGeneric("System", "Func", sema.TypeDelegate, sema.Int32, sema.Int32, sema.Int32))
		out, err := renderExpr(l, o)
		require.NoError(t, err)
		assert.Equal(t, "function (a, b) return a + b", out)
	})

	t.Run("void expression body", func(t *testing.T) {
		l := &syntax.Lambda{Params: []*syntax.Parameter{{Name: "s", Type: tref("string")}}, Body: call("Print", ident("s"))}
		out, err := renderExpr(l, nil)
		require.NoError(t, err)
		assert.Equal(t, "function (s:String) Print(s)", out)
	})

	t.Run("block body", func(t *testing.T) {
		l := &syntax.Lambda{Params: []*syntax.Parameter{{Name: "x"}}, Body: block(&syntax.Return{Value: ident("x")})}
		out, err := renderExpr(l, nil)
		require.NoError(t, err)
		assert.Equal(t, "function (x)\n{\n\treturn x;\n}\n", out)
	})
}

func TestStatements(t *testing.T) {
	assign := func(v string) syntax.Stmt { return exprStmt(bin(ident("x"), syntax.OpAssign, intLit(v))) }

	t.Run("if chain", func(t *testing.T) {
		s := &syntax.If{
			Cond: ident("a"),
			Then: block(assign("1")),
			Else: &syntax.If{Cond: ident("b"), Then: assign("2"), Else: block(assign("3"))},
		}
		out, err := render(s, s, nil)
		require.NoError(t, err)
		assert.Equal(t, "if (a)\n{\n\tx = 1;\n}\nelse if (b)\n{\n\tx = 2;\n}\nelse\n{\n\tx = 3;\n}\n", out)
	})

	t.Run("while", func(t *testing.T) {
		s := &syntax.While{Cond: &syntax.Literal{LitKind: syntax.LitBool, Text: "true"}, Body: block(&syntax.Break{})}
		out, err := render(s, s, nil)
		require.NoError(t, err)
		assert.Equal(t, "while (true)\n{\n\tbreak;\n}\n", out)
	})

	t.Run("return", func(t *testing.T) {
		bare := &syntax.Return{}
		out, err := render(bare, bare, nil)
		require.NoError(t, err)
		assert.Equal(t, "return;\n", out)

		v := intLit("7")
		boxed := &syntax.Return{Value: v}
		out, err = render(boxed, boxed, sema.NewStaticOracle().SetType(v, sema.Int32, sema.NewNullable(sema.Int32)))
		require.NoError(t, err)
		assert.Equal(t, "return new Nullable_Int(7);\n", out)
	})

	t.Run("try catch", func(t *testing.T) {
		s := &syntax.Try{
			Body: block(exprStmt(call("Work"))),
			Catches: []*syntax.Catch{
				{Type: tref("ArgumentException"), Name: "ae", Body: block(exprStmt(call("Log", ident("ae"))))},
				{Type: tref("Exception"), Body: block()},
				{Body: block(&syntax.Continue{})},
			},
		}
		out, err := render(s, s, nil)
		require.NoError(t, err)
		assert.Equal(t, "try\n{\n\tWork();\n}\n"+
			"catch (ae:ArgumentException)\n{\n\tLog(ae);\n}\n"+
			"catch (__ex:Exception)\n{\n}\n"+
			"catch (__ex:Dynamic)\n{\n\tcontinue;\n}\n", out)
	})

	t.Run("finally is rejected", func(t *testing.T) {
		s := &syntax.Try{Body: block(), Finally: block(exprStmt(call("Close")))}
		out, err := render(s, s, nil)
		assert.ErrorIs(t, err, ErrNodeKindUnsupported)
		assert.Empty(t, out)
	})
}
