package csharp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cs2hx/providers"
	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
	"github.com/oxhq/cs2hx/translator"
)

func parse(t *testing.T, src string) *providers.Unit {
	t.Helper()
	unit, err := New().Parse(context.Background(), "Test.cs", []byte(src))
	require.NoError(t, err)
	return unit
}

// first returns the first node of type N in depth-first order.
func first[N syntax.Node](t *testing.T, unit *providers.Unit) N {
	t.Helper()
	var found N
	var ok bool
	syntax.Walk(unit.Tree.Root, func(n syntax.Node) bool {
		if ok {
			return false
		}
		found, ok = n.(N)
		return !ok
	})
	require.True(t, ok, "no %T in tree", found)
	return found
}

func translate(t *testing.T, unit *providers.Unit, n syntax.Node) string {
	t.Helper()
	w := translator.NewWriter("\t")
	require.NoError(t, translator.Translate(w, unit.Tree, unit.Oracle, n))
	return w.String()
}

func TestProviderMetadata(t *testing.T) {
	p := New()
	assert.Equal(t, "csharp", p.Language())
	assert.Equal(t, []string{".cs"}, p.Extensions())
}

func TestParseDeclarations(t *testing.T) {
	unit := parse(t, `
namespace Game.Core
{
    public enum Color { Red, Green = 5 }

    public class Widget
    {
        public int Size;
        public static string Label = "w";
        public event System.Action Changed;
        public int Area { get; set; }
        public Widget(int size) { Size = size; }
        public int Twice() { return Size * 2; }
    }
}`)

	ns := first[*syntax.Namespace](t, unit)
	assert.Equal(t, "Game.Core", ns.Name)
	require.Len(t, ns.Members, 2)

	enum := first[*syntax.Enum](t, unit)
	assert.Equal(t, "Color", enum.Name)
	assert.Equal(t, []syntax.EnumMember{{Name: "Red"}, {Name: "Green", Value: "5"}}, enum.Members)

	class := first[*syntax.Class](t, unit)
	assert.Equal(t, "Widget", class.Name)
	require.Len(t, class.Members, 6)

	field := class.Members[0].(*syntax.Field)
	assert.Equal(t, "int", field.Type.Text)
	assert.Equal(t, "Size", field.Vars[0].Name)

	label := class.Members[1].(*syntax.Field)
	assert.True(t, label.Static)
	require.NotNil(t, label.Vars[0].Init)

	event := class.Members[2].(*syntax.Field)
	assert.True(t, event.Event)

	prop := class.Members[3].(*syntax.Property)
	assert.Equal(t, "Area", prop.Name)
	assert.Nil(t, prop.Getter)
	assert.Nil(t, prop.Setter)

	ctor := class.Members[4].(*syntax.Constructor)
	require.Len(t, ctor.Params, 1)
	assert.Equal(t, "size", ctor.Params[0].Name)

	method := class.Members[5].(*syntax.Method)
	assert.Equal(t, "Twice", method.Name)
	assert.Equal(t, "int", method.ReturnType.Text)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := New().Parse(context.Background(), "Broken.cs", []byte("class A { void F( { }"))
	var pe *providers.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Broken.cs", pe.Path)
	assert.NotEmpty(t, pe.Errors)
	assert.False(t, IsUnsupported(err))
}

func TestParseUnsupportedConstruct(t *testing.T) {
	_, err := New().Parse(context.Background(), "Loop.cs", []byte(`
class A
{
    void F()
    {
        for (int i = 0; i < 3; i++) { }
    }
}`))
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.Contains(t, err.Error(), "unsupported construct for_statement")
}

func TestForEachOverDictionary(t *testing.T) {
	unit := parse(t, `
using System.Collections.Generic;
class A
{
    void F(Dictionary<string, int> d)
    {
        foreach (var kv in d)
        {
            Use(kv.Key);
        }
    }
    void Use(string s) { }
}`)
	loop := first[*syntax.ForEach](t, unit)
	assert.Equal(t, "for (kv in d.KeyValues())\n{\n\tUse(kv.Key);\n}\n", translate(t, unit, loop))
}

func TestIndexerWritesBecomeCalls(t *testing.T) {
	unit := parse(t, `
using System.Collections.Generic;
class A
{
    void F(int[] xs)
    {
        var counts = new Dictionary<string, int>();
        counts["a"] = 1;
        counts["a"]++;
        xs[0] = counts["a"];
    }
}`)
	body := first[*syntax.Method](t, unit).Body.(*syntax.Block)
	require.Len(t, body.Stmts, 4)

	assert.Equal(t, "var counts:Dictionary<String, Int> = new Dictionary<String, Int>();\n",
		translate(t, unit, body.Stmts[0]))
	assert.Equal(t, "counts.SetValue(\"a\", 1);\n", translate(t, unit, body.Stmts[1]))
	assert.Equal(t, "counts.IncrementValue(\"a\", 1);\n", translate(t, unit, body.Stmts[2]))
	assert.Equal(t, "xs[0] = counts.GetValue(\"a\");\n", translate(t, unit, body.Stmts[3]))
}

func TestEnumerableArgumentsAreWrapped(t *testing.T) {
	unit := parse(t, `
using System.Collections.Generic;
class A
{
    void Take(IEnumerable<int> items) { }
    void F(HashSet<int> bag)
    {
        Take(bag);
    }
}`)
	var call *syntax.Invocation
	syntax.Walk(unit.Tree.Root, func(n syntax.Node) bool {
		if c, ok := n.(*syntax.Invocation); ok {
			call = c
		}
		return true
	})
	require.NotNil(t, call)
	assert.Equal(t, "Take(bag.Values())", translate(t, unit, call))
}

func TestIsAgainstTypes(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"Widget", "return Std.is(o, Widget);\n"},
		{"List<int>", "return Std.is(o, Array);\n"},
		{"Dictionary<string, int>", "return Std.is(o, Dictionary);\n"},
		{"string", "return Std.is(o, String);\n"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			unit := parse(t, `
using System.Collections.Generic;
class Widget
{
    bool F(object o) { return o is `+tt.target+`; }
}`)
			ret := first[*syntax.Return](t, unit)
			assert.Equal(t, tt.want, translate(t, unit, ret))
		})
	}
}

func TestEnumConcatenation(t *testing.T) {
	unit := parse(t, `
namespace Game
{
    enum Color { Red }
    class A
    {
        string F(Color c) { return "color " + c; }
    }
}`)
	ret := first[*syntax.Return](t, unit)
	assert.Equal(t, "return \"color \" + game.Color.ToString(c);\n", translate(t, unit, ret))
}

func TestNullableAssignmentIsBoxed(t *testing.T) {
	unit := parse(t, `
class A
{
    int? count;
    void F() { count = 3; }
}`)
	stmt := first[*syntax.ExpressionStatement](t, unit)
	assert.Equal(t, "count = new Nullable_Int(3);\n", translate(t, unit, stmt))
}

func TestThrowInValueReturningLambda(t *testing.T) {
	unit := parse(t, `
using System;
class A
{
    void F()
    {
        Func<int, int> f = x => { throw new Exception("no"); };
    }
}`)
	throw := first[*syntax.Throw](t, unit)
	assert.Equal(t, "return throw new Exception(\"no\");\n", translate(t, unit, throw))

	lambda := first[*syntax.Lambda](t, unit)
	delegate := unit.Oracle.ConvertedType(lambda)
	require.NotNil(t, delegate)
	assert.Equal(t, "System.Func<,>", delegate.GenericName())
}

func TestRethrowInUnnamedCatch(t *testing.T) {
	unit := parse(t, `
using System;
class A
{
    void F()
    {
        try { F(); }
        catch (Exception) { throw; }
    }
}`)
	try := first[*syntax.Try](t, unit)
	assert.Equal(t,
		"try\n{\n\tF();\n}\ncatch (__ex:Exception)\n{\n\tthrow __ex;\n}\n",
		translate(t, unit, try))
}

func TestVarLocalsGetInferredType(t *testing.T) {
	unit := parse(t, `
class A
{
    void F()
    {
        var n = 4;
        var s = "x" + n;
    }
}`)
	body := first[*syntax.Method](t, unit).Body.(*syntax.Block)
	assert.Equal(t, "var n:Int = 4;\n", translate(t, unit, body.Stmts[0]))
	assert.Equal(t, "var s:String = \"x\" + n;\n", translate(t, unit, body.Stmts[1]))

	decl := body.Stmts[0].(*syntax.LocalDeclaration)
	assert.Same(t, sema.Int32, unit.Oracle.DeclaredType(decl.Type))
}

func TestFileScopedNamespace(t *testing.T) {
	unit := parse(t, `
namespace Game.Ui;

class Button { }
`)
	ns := first[*syntax.Namespace](t, unit)
	assert.Equal(t, "Game.Ui", ns.Name)
	require.Len(t, ns.Members, 1)
	assert.Equal(t, "Button", ns.Members[0].(*syntax.Class).Name)
}

func TestCacheReturnsSameUnit(t *testing.T) {
	p := New(WithCache(time.Minute))
	src := []byte("class A { }")

	a, err := p.Parse(context.Background(), "A.cs", src)
	require.NoError(t, err)
	b, err := p.Parse(context.Background(), "A.cs", src)
	require.NoError(t, err)
	assert.Same(t, a, b)

	stats := p.CacheStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, int64(1), stats["entries"])
	assert.Equal(t, int64(1), p.Stats().Parsed)
}

func TestCacheEntriesExpire(t *testing.T) {
	p := New(WithCache(10 * time.Millisecond))
	src := []byte("class A { }")

	a, err := p.Parse(context.Background(), "A.cs", src)
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	b, err := p.Parse(context.Background(), "A.cs", src)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, int64(2), p.CacheStats()["misses"])
	assert.Equal(t, int64(2), p.Stats().Parsed)
}

func TestConcurrentParse(t *testing.T) {
	p := New()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Parse(context.Background(), "A.cs", []byte("class A { int x; }"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats := p.Stats()
	assert.Equal(t, int64(8), stats.Parsed)
	assert.Equal(t, stats.BorrowCount, stats.ReturnCount)
	assert.Zero(t, stats.Active)
}
