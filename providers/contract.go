package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oxhq/cs2hx/providers/catalog"
	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

// Provider parses one source language into a typed syntax tree.
type Provider interface {
	// Metadata
	Language() string
	Extensions() []string

	// Parse builds the tree and oracle for one file. Syntax errors are
	// returned as *ParseError.
	Parse(ctx context.Context, path string, src []byte) (*Unit, error)

	// Observability
	Stats() Stats
}

// Unit is one parsed translation unit, ready for the translator.
type Unit struct {
	Path   string
	Tree   *syntax.Tree
	Oracle sema.Oracle
}

// ParseError reports source the frontend could not read: syntax errors or
// constructs it has no tree for.
type ParseError struct {
	Path   string
	Reason string // "syntax error" when empty
	Errors []syntax.Location
}

func (e *ParseError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "syntax error"
	}
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s: %s", e.Path, reason)
	}
	loc := e.Errors[0]
	loc.File = e.Path
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s: %s", loc, reason)
	}
	return fmt.Sprintf("%s: %s (and %d more)", loc, reason, len(e.Errors)-1)
}

// Registry manages all providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider and publishes its extensions to the catalog.
func (r *Registry) Register(provider Provider) {
	r.mu.Lock()
	r.providers[provider.Language()] = provider
	r.mu.Unlock()
	catalog.Register(catalog.LanguageInfo{
		ID:         provider.Language(),
		Extensions: provider.Extensions(),
	})
}

// Get retrieves provider by language
func (r *Registry) Get(language string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, exists := r.providers[language]
	return p, exists
}

// ForPath picks the provider registered for path's extension.
func (r *Registry) ForPath(path string) (Provider, bool) {
	info, ok := catalog.Detect(path)
	if !ok {
		return nil, false
	}
	return r.Get(info.ID)
}

// List returns all providers sorted by language.
func (r *Registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Language() < result[j].Language()
	})
	return result
}

// Languages returns all registered language identifiers
func (r *Registry) Languages() []string {
	list := r.List()
	langs := make([]string, len(list))
	for i, p := range list {
		langs[i] = p.Language()
	}
	return langs
}

// Stats captures parser-pool level metrics exposed by providers.
type Stats struct {
	BorrowCount int64 `json:"borrow_count"`
	ReturnCount int64 `json:"return_count"`
	Active      int64 `json:"active"`
	Parsed      int64 `json:"parsed"`
	Failed      int64 `json:"failed"`
}
