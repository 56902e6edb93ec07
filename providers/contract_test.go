package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

// MockProvider for testing
type MockProvider struct {
	language   string
	extensions []string
}

func (m *MockProvider) Language() string     { return m.language }
func (m *MockProvider) Extensions() []string { return m.extensions }
func (m *MockProvider) Stats() Stats         { return Stats{} }

func (m *MockProvider) Parse(_ context.Context, path string, _ []byte) (*Unit, error) {
	return &Unit{Path: path, Tree: syntax.NewTree(&syntax.CompilationUnit{}), Oracle: sema.Null}, nil
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&MockProvider{language: "vbnet", extensions: []string{".vb"}})
	registry.Register(&MockProvider{language: "boo", extensions: []string{".boo"}})

	p, ok := registry.Get("vbnet")
	require.True(t, ok)
	assert.Equal(t, "vbnet", p.Language())

	_, ok = registry.Get("cobol")
	assert.False(t, ok)

	assert.Equal(t, []string{"boo", "vbnet"}, registry.Languages())
	assert.Len(t, registry.List(), 2)
}

func TestRegistryForPath(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&MockProvider{language: "vbnet", extensions: []string{".vb"}})

	p, ok := registry.ForPath("src/Module1.VB")
	require.True(t, ok)
	assert.Equal(t, "vbnet", p.Language())

	unit, err := p.Parse(context.Background(), "src/Module1.VB", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, unit.Tree.Len())

	_, ok = registry.ForPath("README")
	assert.False(t, ok)
}

func TestParseErrorMessage(t *testing.T) {
	assert.Equal(t, "A.cs: syntax error", (&ParseError{Path: "A.cs"}).Error())

	one := &ParseError{Path: "A.cs", Errors: []syntax.Location{{Line: 4, Column: 2}}}
	assert.Equal(t, "A.cs:4:2: syntax error", one.Error())

	many := &ParseError{Path: "A.cs", Errors: []syntax.Location{{Line: 4, Column: 2}, {Line: 9, Column: 1}}}
	assert.Equal(t, "A.cs:4:2: syntax error (and 1 more)", many.Error())
}
