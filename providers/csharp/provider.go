// Package csharp reads C# source with tree-sitter and produces the syntax
// tree and type oracle the translator consumes.
package csharp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/oxhq/cs2hx/providers"
	"github.com/oxhq/cs2hx/syntax"
)

// Language is the registry identifier of this provider.
const Language = "csharp"

// Provider parses C# files. Parsers are pooled, so one Provider serves
// concurrent Parse calls.
type Provider struct {
	pool  sync.Pool
	cache *unitCache

	borrowed atomic.Int64
	returned atomic.Int64
	parsed   atomic.Int64
	failed   atomic.Int64
}

// Option configures a Provider.
type Option func(*Provider)

// WithCache keeps parsed units for maxAge; zero disables caching.
func WithCache(maxAge time.Duration) Option {
	return func(p *Provider) {
		if maxAge > 0 {
			p.cache = newUnitCache(maxAge)
		} else {
			p.cache = nil
		}
	}
}

// New creates a C# provider.
func New(opts ...Option) *Provider {
	lang := csharp.GetLanguage()
	if lang == nil {
		panic("failed to load csharp language for tree-sitter")
	}
	p := &Provider{}
	p.pool.New = func() any {
		parser := sitter.NewParser()
		parser.SetLanguage(lang)
		return parser
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Language() string     { return Language }
func (p *Provider) Extensions() []string { return []string{".cs"} }

// Stats reports parser pool usage.
func (p *Provider) Stats() providers.Stats {
	borrowed, returned := p.borrowed.Load(), p.returned.Load()
	return providers.Stats{
		BorrowCount: borrowed,
		ReturnCount: returned,
		Active:      borrowed - returned,
		Parsed:      p.parsed.Load(),
		Failed:      p.failed.Load(),
	}
}

// CacheStats returns unit cache counters, or nil without a cache.
func (p *Provider) CacheStats() map[string]int64 {
	if p.cache == nil {
		return nil
	}
	p.cache.sweep()
	return p.cache.stats()
}

// Parse builds the syntax tree and oracle for one C# file. Syntax errors and
// constructs with no syntax tree form fail with *providers.ParseError.
func (p *Provider) Parse(ctx context.Context, path string, src []byte) (*providers.Unit, error) {
	var key string
	if p.cache != nil {
		key = p.cache.key(path, src)
		if unit, ok := p.cache.get(key); ok {
			return unit, nil
		}
	}

	unit, err := p.parse(ctx, path, src)
	if err != nil {
		p.failed.Add(1)
		return nil, err
	}
	p.parsed.Add(1)
	if p.cache != nil {
		p.cache.put(key, unit)
	}
	return unit, nil
}

func (p *Provider) parse(ctx context.Context, path string, src []byte) (*providers.Unit, error) {
	parser := p.pool.Get().(*sitter.Parser)
	p.borrowed.Add(1)
	defer func() {
		p.pool.Put(parser)
		p.returned.Add(1)
	}()

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if tree == nil {
		return nil, &providers.ParseError{Path: path, Reason: "parser produced no tree"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &providers.ParseError{Path: path, Errors: syntaxErrors(root, path, nil)}
	}

	b := &builder{src: src, path: path}
	cu := b.compilationUnit(root)
	if b.err != nil {
		return nil, &providers.ParseError{
			Path:   path,
			Reason: "unsupported construct " + b.err.nodeType,
			Errors: []syntax.Location{b.err.loc},
		}
	}
	return &providers.Unit{Path: path, Tree: syntax.NewTree(cu), Oracle: resolve(cu)}, nil
}

// IsUnsupported reports whether err is a parse error for a construct the
// frontend does not represent, as opposed to invalid C#.
func IsUnsupported(err error) bool {
	var pe *providers.ParseError
	return errors.As(err, &pe) && pe.Reason != "" && pe.Reason != "syntax error"
}
