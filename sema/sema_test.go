package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cs2hx/syntax"
)

func TestParseTypeName(t *testing.T) {
	tests := []struct {
		text     string
		generic  string
		str      string
		nullable bool
	}{
		{"int", "System.Int32", "Int32", false},
		{"int?", "System.Nullable<>", "Nullable<Int32>", true},
		{"Nullable<double>", "System.Nullable<>", "Nullable<Double>", true},
		{"string[]", "System.String[]", "String[]", false},
		{"int[,]", "System.Int32[,]", "Int32[,]", false},
		{"List<string>", "System.Collections.Generic.List<>", "List<String>", false},
		{"Dictionary<string, List<int>>", "System.Collections.Generic.Dictionary<,>", "Dictionary<String, List<Int32>>", false},
		{"IGrouping<string, int>", "System.Linq.IGrouping<,>", "IGrouping<String, Int32>", false},
		{"global::System.String", "System.String", "String", false},
		{"Game.Widget", "Game.Widget", "Widget", false},
		{"Widget?", "Widget", "Widget", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseTypeName(tt.text, nil)
			require.NotNil(t, got)
			assert.Equal(t, tt.generic, got.GenericName())
			assert.Equal(t, tt.str, got.String())
			assert.Equal(t, tt.nullable, got.IsNullable())
		})
	}
}

func TestParseTypeNameRejects(t *testing.T) {
	for _, text := range []string{"", "var", "dynamic", "List<int", "(int, string)", "int]"} {
		assert.Nil(t, ParseTypeName(text, nil), text)
	}
}

func TestParseTypeNameLookup(t *testing.T) {
	color := NewEnum("Game", "Color")
	lookup := func(name string) (*Type, bool) {
		if name == "Color" || name == "Game.Color" {
			return color, true
		}
		return nil, false
	}
	assert.Same(t, color, ParseTypeName("Color", lookup))
	assert.Same(t, color, ParseTypeName("Game.Color", lookup))
	got := ParseTypeName("Color?", lookup)
	assert.True(t, got.IsNullable())
	assert.True(t, got.Underlying().IsEnum())
}

func TestDelegates(t *testing.T) {
	fn := ParseTypeName("Func<int, string>", nil)
	require.NotNil(t, fn)
	assert.Equal(t, TypeDelegate, fn.Kind)
	assert.False(t, fn.ReturnsVoid())
	assert.True(t, fn.Return.IsString())

	action := ParseTypeName("Action<int>", nil)
	assert.True(t, action.ReturnsVoid())
	assert.True(t, (*Type)(nil).ReturnsVoid())
}

func TestElementType(t *testing.T) {
	assert.Same(t, Int32, ParseTypeName("int[]", nil).ElementType())
	assert.Same(t, Char, String.ElementType())
	assert.Same(t, String, ParseTypeName("List<string>", nil).ElementType())
	assert.Same(t, Int32, ParseTypeName("IGrouping<string, int>", nil).ElementType())
	assert.Equal(t, "KeyValuePair<String, Int32>", ParseTypeName("Dictionary<string, int>", nil).ElementType().String())
	assert.Nil(t, ParseTypeName("Widget", nil).ElementType())
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, Void.IsVoid())
	assert.True(t, Int32.IsNumeric())
	assert.False(t, String.IsNumeric())
	assert.True(t, NewArray(Int32, 0).IsArray())
	assert.Equal(t, 1, NewArray(Int32, 0).Rank)
	assert.Same(t, Int32, NewNullable(Int32).Underlying())
	assert.Same(t, String, String.Underlying())
	assert.Equal(t, "<unknown>", (*Type)(nil).String())
	assert.Equal(t, "", (*Type)(nil).FullName())
}

func TestStaticOracle(t *testing.T) {
	a := &syntax.Identifier{Name: "a"}
	b := &syntax.Identifier{Name: "b"}
	o := NewStaticOracle().
		SetType(a, Int32, NewNullable(Int32)).
		Typed(b, String).
		SetSymbol(b, &Symbol{Kind: SymbolLocal, Name: "b", Type: String})

	assert.Same(t, Int32, o.DeclaredType(a))
	assert.True(t, o.ConvertedType(a).IsNullable())
	assert.Same(t, String, o.ConvertedType(b))
	assert.Equal(t, SymbolLocal, o.Symbol(b).Kind)
	assert.Nil(t, o.Symbol(a))
	assert.Equal(t, 2, o.Len())

	declaredOnly := &syntax.Identifier{Name: "c"}
	o.SetType(declaredOnly, Double, nil)
	assert.Same(t, Double, o.ConvertedType(declaredOnly))

	assert.Nil(t, Null.DeclaredType(a))
	assert.Nil(t, Null.ConvertedType(a))
	assert.Nil(t, Null.Symbol(a))
}

func TestSymbolKinds(t *testing.T) {
	assert.True(t, (&Symbol{Kind: SymbolEvent}).IsEvent())
	assert.False(t, (*Symbol)(nil).IsEvent())
	assert.Equal(t, "event", SymbolEvent.String())
}
