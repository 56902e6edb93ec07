package syntax

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeNumbersDepthFirst(t *testing.T) {
	rethrow := &Throw{}
	catch := &Catch{Name: "ex", Body: &Block{Stmts: []Stmt{rethrow}}}
	try := &Try{Body: &Block{}, Catches: []*Catch{catch}}
	method := &Method{Name: "Run", ReturnType: &TypeRef{Text: "void"}, Body: &Block{Stmts: []Stmt{try}}}

	tree := NewTree(method)
	require.Equal(t, 8, tree.Len())
	assert.Equal(t, NodeID(1), method.ID())
	assert.Same(t, method, tree.Node(1))
	assert.Nil(t, tree.Node(0))
	assert.Nil(t, tree.Node(99))

	assert.Same(t, catch.Body, tree.Parent(rethrow))
	assert.Nil(t, tree.Parent(method))

	var kinds []Kind
	for n := range tree.Ancestors(rethrow) {
		kinds = append(kinds, n.Kind())
	}
	assert.Equal(t, []Kind{KindBlock, KindCatch, KindTry, KindBlock, KindMethod}, kinds)
}

func TestTreeContains(t *testing.T) {
	inside := &Identifier{Name: "a"}
	tree := NewTree(&ExpressionStatement{Expr: inside})
	assert.True(t, tree.Contains(inside))
	assert.False(t, tree.Contains(&Identifier{Name: "b"}))
	assert.False(t, (*Tree)(nil).Contains(inside))
	assert.Nil(t, tree.Parent(&Identifier{Name: "b"}))
}

func TestNodeBelongsToLatestTree(t *testing.T) {
	shared := &Identifier{Name: "x"}
	older := NewTree(&ExpressionStatement{Expr: shared})
	require.True(t, older.Contains(shared))

	newer := NewTree(&Block{Stmts: []Stmt{
		&ExpressionStatement{Expr: &Identifier{Name: "y"}},
		&ExpressionStatement{Expr: shared},
	}})
	assert.True(t, newer.Contains(shared))
	assert.Equal(t, NodeID(5), shared.ID())
	assert.False(t, older.Contains(shared))
	assert.Nil(t, older.Parent(shared))
}

func TestAncestorsStopsEarly(t *testing.T) {
	leaf := &Identifier{Name: "x"}
	root := &Block{Stmts: []Stmt{&ExpressionStatement{Expr: &Parenthesized{Inner: leaf}}}}
	tree := NewTree(root)

	var seen int
	for range tree.Ancestors(leaf) {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestWalkSkipsChildren(t *testing.T) {
	root := &Binary{
		Left:  &Invocation{Func: &Identifier{Name: "f"}, Args: []Expr{&Identifier{Name: "a"}}},
		Op:    OpAdd,
		Right: &Identifier{Name: "b"},
	}
	var names []string
	Walk(root, func(n Node) bool {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		return n.Kind() != KindInvocation
	})
	assert.Equal(t, []string{"b"}, names)
}

func TestChildrenSkipAbsentParts(t *testing.T) {
	assert.Empty(t, (&Return{}).Children())
	assert.Len(t, (&If{Cond: &Identifier{Name: "c"}, Then: &Block{}}).Children(), 2)
	assert.Len(t, (&Try{Body: &Block{}, Finally: &Block{}}).Children(), 2)
}

func TestOperators(t *testing.T) {
	for _, tok := range []string{"=", "+=", "??", "is", "as", "<<", ">=", "&&"} {
		op, ok := ParseOperator(tok)
		require.True(t, ok, tok)
		assert.Equal(t, tok, op.String())
	}
	_, ok := ParseOperator("=>")
	assert.False(t, ok)

	assert.True(t, OpShrAssign.IsAssignment())
	assert.False(t, OpCoalesce.IsAssignment())
	assert.Equal(t, "<invalid>", OpInvalid.String())
}

func TestKindClassification(t *testing.T) {
	kinds := Kinds()
	assert.False(t, slices.Contains(kinds, KindInvalid))
	for _, k := range kinds {
		n := 0
		for _, is := range []bool{k.IsExpression(), k.IsStatement(), k.IsDeclaration()} {
			if is {
				n++
			}
		}
		assert.Equal(t, 1, n, "kind %s must be in exactly one class", k)
		assert.NotContains(t, k.String(), "kind(")
	}
}

func TestLocation(t *testing.T) {
	assert.True(t, Location{}.IsZero())
	assert.Equal(t, "3:7", Location{Line: 3, Column: 7}.String())
	assert.Equal(t, "A.cs:3:7", Location{File: "A.cs", Line: 3, Column: 7}.String())
}
