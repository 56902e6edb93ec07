package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/oxhq/cs2hx/emit"
	"github.com/oxhq/cs2hx/providers"
)

// ProviderRegistry finds the frontend for a source file.
type ProviderRegistry interface {
	Get(language string) (providers.Provider, bool)
	ForPath(path string) (providers.Provider, bool)
}

// Options configure one translate run.
type Options struct {
	Scope   FileScope
	OutDir  string // generated files go under OutDir/<package path>/
	Workers int    // 0 means runtime.NumCPU()
	DryRun  bool   // translate and diff, write nothing
	Diff    bool   // attach a unified diff to each output
	Indent  string // indent unit of the generated Haxe
}

// Processor translates source files to Haxe files in parallel.
type Processor struct {
	walker   *FileWalker
	registry ProviderRegistry
	writer   *AtomicWriter
	logger   *slog.Logger
}

// NewProcessor creates a processor. A nil logger discards log output.
func NewProcessor(registry ProviderRegistry, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{
		walker:   NewFileWalker(),
		registry: registry,
		writer:   NewAtomicWriter(DefaultAtomicConfig()),
		logger:   logger,
	}
}

// WithWriter replaces the atomic writer configuration.
func (p *Processor) WithWriter(config AtomicWriteConfig) *Processor {
	p.writer = NewAtomicWriter(config)
	return p
}

// Run discovers, translates and writes every unit in opts.Scope. Unit
// failures are reported in the result; the returned error is reserved for
// failures of the run itself, such as an unreadable scope.
func (p *Processor) Run(ctx context.Context, opts Options) (*RunResult, error) {
	start := time.Now()
	defer p.writer.Cleanup()

	files, err := p.walker.Collect(ctx, opts.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to walk files: %w", err)
	}
	p.logger.Debug("discovered units", "count", len(files), "path", opts.Scope.Path)

	units := p.translateAll(ctx, files, opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rejectCollisions(units)
	if !opts.DryRun {
		p.writeAll(ctx, units, opts)
	}

	result := &RunResult{Units: units, DryRun: opts.DryRun}
	for i := range units {
		u := &units[i]
		if u.Failed() {
			result.Failed++
			p.logger.Warn("unit failed", "path", u.Path, "code", u.Code, "error", u.Error)
			continue
		}
		result.Translated++
		for _, out := range u.Outputs {
			if out.Written {
				result.FilesWritten++
			}
		}
	}
	result.DurationMS = time.Since(start).Milliseconds()
	p.logger.Info("run finished",
		"translated", result.Translated,
		"failed", result.Failed,
		"written", result.FilesWritten,
		"duration_ms", result.DurationMS)
	return result, nil
}

func (p *Processor) translateAll(ctx context.Context, files []WalkResult, opts Options) []UnitResult {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	units := make([]UnitResult, len(files))
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				units[i] = failed(UnitResult{Path: f.Path, Language: f.Language}, ctx.Err())
				return
			}
			defer func() { <-semaphore }()
			units[i] = p.translateFile(ctx, f, opts)
		}()
	}
	wg.Wait()

	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })
	return units
}

func (p *Processor) translateFile(ctx context.Context, f WalkResult, opts Options) UnitResult {
	start := time.Now()
	unit := UnitResult{Path: f.Path, Language: f.Language}
	if f.Error != nil {
		unit = failed(unit, &ReadError{Path: f.Path, Err: f.Error})
	} else if src, err := os.ReadFile(f.Path); err != nil {
		unit = failed(unit, &ReadError{Path: f.Path, Err: err})
	} else if outputs, err := p.Translate(ctx, f.Path, f.Language, src, opts); err != nil {
		unit = failed(unit, err)
	} else {
		unit.Outputs = outputs
	}
	unit.DurationMS = time.Since(start).Milliseconds()
	return unit
}

// Translate turns one source file into its Haxe outputs without writing
// them. Output paths are joined onto opts.OutDir.
func (p *Processor) Translate(ctx context.Context, path, language string, src []byte, opts Options) ([]OutputFile, error) {
	provider, ok := p.registry.Get(language)
	if !ok {
		provider, ok = p.registry.ForPath(path)
	}
	if !ok {
		return nil, fmt.Errorf("no provider for %s", path)
	}

	unit, err := provider.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	files, err := emit.Emit(unit.Tree, unit.Oracle, emit.Options{Indent: opts.Indent})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	outputs := make([]OutputFile, len(files))
	for i, f := range files {
		out := OutputFile{
			Path:    filepath.Join(opts.OutDir, filepath.FromSlash(f.Path)),
			Size:    len(f.Content),
			Content: f.Content,
		}
		if opts.Diff || opts.DryRun {
			existing, _ := os.ReadFile(out.Path)
			out.Diff = generateDiff(filepath.ToSlash(out.Path), string(existing), f.Content)
		}
		outputs[i] = out
	}
	return outputs, nil
}

// rejectCollisions fails every unit that generates a path an earlier unit
// already claimed.
func rejectCollisions(units []UnitResult) {
	owner := make(map[string]string)
	for i := range units {
		u := &units[i]
		if u.Failed() {
			continue
		}
		for _, out := range u.Outputs {
			if prev, taken := owner[out.Path]; taken {
				*u = failed(*u, &WriteError{
					Path: out.Path,
					Err:  fmt.Errorf("also generated by %s", prev),
				})
				break
			}
		}
		if u.Failed() {
			continue
		}
		for _, out := range u.Outputs {
			owner[out.Path] = u.Path
		}
	}
}

func (p *Processor) writeAll(ctx context.Context, units []UnitResult, opts Options) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range units {
		if units[i].Failed() {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			u := &units[i]
			for j := range u.Outputs {
				if err := ctx.Err(); err != nil {
					*u = failed(*u, err)
					return
				}
				out := &u.Outputs[j]
				written, err := p.writer.WriteFile(out.Path, out.Content)
				if err != nil {
					*u = failed(*u, &WriteError{Path: out.Path, Err: err})
					return
				}
				out.Written = written
			}
		}()
	}
	wg.Wait()
}

func failed(u UnitResult, err error) UnitResult {
	u.Code = CodeOf(err)
	u.Error = err.Error()
	u.Outputs = nil
	return u
}
