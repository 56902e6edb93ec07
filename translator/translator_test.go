package translator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

// render translates n as part of the tree rooted at root.
func render(root, n syntax.Node, o sema.Oracle) (string, error) {
	w := NewWriter("")
	err := Translate(w, syntax.NewTree(root), o, n)
	return w.String(), err
}

// renderExpr translates a standalone expression.
func renderExpr(e syntax.Expr, o sema.Oracle) (string, error) {
	return render(e, e, o)
}

func ident(name string) *syntax.Identifier { return &syntax.Identifier{Name: name} }

func tref(text string) *syntax.TypeRef { return &syntax.TypeRef{Text: text} }

func intLit(text string) *syntax.Literal {
	return &syntax.Literal{LitKind: syntax.LitInt, Text: text}
}

func bin(l syntax.Expr, op syntax.Operator, r syntax.Expr) *syntax.Binary {
	return &syntax.Binary{Left: l, Op: op, Right: r}
}

func block(stmts ...syntax.Stmt) *syntax.Block { return &syntax.Block{Stmts: stmts} }

func exprStmt(e syntax.Expr) *syntax.ExpressionStatement {
	return &syntax.ExpressionStatement{Expr: e}
}

func call(name string, args ...syntax.Expr) *syntax.Invocation {
	return &syntax.Invocation{Func: ident(name), Args: args}
}

func dictOf(k, v *sema.Type) *sema.Type {
	return sema.NewGeneric("System.Collections.Generic", "Dictionary", sema.TypeClass, k, v)
}

func listOf(elem *sema.Type) *sema.Type {
	return sema.NewGeneric("System.Collections.Generic", "List", sema.TypeClass, elem)
}

func enumerableOf(elem *sema.Type) *sema.Type {
	return sema.NewGeneric("System.Collections.Generic", "IEnumerable", sema.TypeInterface, elem)
}

func TestEveryExpressionAndStatementKindHasHandler(t *testing.T) {
	for _, k := range syntax.Kinds() {
		h := handlerFor(k)
		switch {
		case k.IsExpression(), k.IsStatement():
			assert.NotNil(t, h, "no handler for %s", k)
		case k.IsDeclaration():
			assert.Nil(t, h, "declaration %s belongs to the emitter", k)
		}
	}
}

func TestDeclarationsAreUnsupported(t *testing.T) {
	class := &syntax.Class{Span: syntax.At(syntax.Location{File: "A.cs", Line: 3, Column: 1}), Name: "A"}
	_, err := render(class, class, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNodeKindUnsupported))

	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, syntax.KindClass, terr.NodeKind)
	assert.Equal(t, 3, terr.Loc.Line)
	assert.Contains(t, err.Error(), "A.cs:3:1")
	assert.Contains(t, err.Error(), "class-declaration")
}

func TestTranslateNilNode(t *testing.T) {
	err := New(NewWriter(""), nil, nil).Translate(nil)
	assert.ErrorIs(t, err, ErrNodeKindUnsupported)
}

func TestErrorKindsDoNotMatchEachOther(t *testing.T) {
	err := errorAt(NullableMisuse, nil, "x")
	assert.ErrorIs(t, err, ErrNullableMisuse)
	assert.NotErrorIs(t, err, ErrNoEnclosingBody)
	assert.Equal(t, "nullable misuse: x", err.Error())
}

func TestTranslationIsIdempotent(t *testing.T) {
	m := ident("m")
	assign := bin(&syntax.ElementAccess{Object: m, Args: []syntax.Expr{ident("k")}}, syntax.OpAssign, intLit("1"))
	foreach := &syntax.ForEach{
		Type:       tref("var"),
		Var:        "kv",
		Collection: ident("dict"),
		Body:       block(exprStmt(assign)),
	}
	o := sema.NewStaticOracle().
		Typed(m, dictOf(sema.String, sema.Int32))
	o.Typed(foreach.Collection, dictOf(sema.String, sema.Int32))

	tree := syntax.NewTree(foreach)
	w1, w2 := NewWriter(""), NewWriter("")
	require.NoError(t, Translate(w1, tree, o, foreach))
	require.NoError(t, Translate(w2, tree, o, foreach))
	assert.Equal(t, w1.String(), w2.String())
	assert.Equal(t, "for (kv in dict.KeyValues())\n{\n\tm.SetValue(k, 1);\n}\n", w1.String())
}

func TestErrorsAbortWithoutRecovery(t *testing.T) {
	bad := bin(ident("a"), syntax.OpSub, ident("b"))
	o := sema.NewStaticOracle().Typed(bad.Left, sema.NewNullable(sema.Int32))
	body := block(exprStmt(call("Before")), exprStmt(bad), exprStmt(call("After")))

	out, err := render(body, body, o)
	require.ErrorIs(t, err, ErrNullableMisuse)
	assert.NotContains(t, out, "After")
}
