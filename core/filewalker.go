package core

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/oxhq/cs2hx/providers/catalog"
)

// FileWalker discovers source files under a root in parallel.
type FileWalker struct {
	workers    int
	bufferSize int
}

// NewFileWalker creates a walker sized for I/O bound work.
func NewFileWalker() *FileWalker {
	return &FileWalker{
		workers:    runtime.NumCPU() * 2,
		bufferSize: 256,
	}
}

// WalkResult is one discovered file.
type WalkResult struct {
	Path     string
	Info     fs.FileInfo
	Language string // "" when no provider claims the extension
	Error    error
}

// Walk streams files under scope.Path that pass the include and exclude
// patterns. A Path naming a single file yields just that file. The channel
// closes once the scan finishes or ctx is cancelled.
func (fw *FileWalker) Walk(ctx context.Context, scope FileScope) (<-chan WalkResult, error) {
	info, err := fw.validateScope(scope)
	if err != nil {
		return nil, err
	}

	results := make(chan WalkResult, fw.bufferSize)
	paths := make(chan string, fw.bufferSize)

	var wg sync.WaitGroup
	for range fw.workers {
		wg.Add(1)
		go fw.worker(ctx, paths, results, scope, &wg)
	}

	go func() {
		defer close(paths)
		if !info.IsDir() {
			select {
			case <-ctx.Done():
			case paths <- scope.Path:
			}
			return
		}
		processed := 0
		var visited map[string]struct{}
		if scope.FollowSymlinks {
			visited = make(map[string]struct{})
			if resolved, err := filepath.EvalSymlinks(scope.Path); err == nil {
				visited[resolved] = struct{}{}
			} else {
				visited[scope.Path] = struct{}{}
			}
		}
		fw.scanDirectory(ctx, scope.Path, scope, paths, 0, &processed, visited, loadGitignore(scope))
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results, nil
}

func (fw *FileWalker) worker(
	ctx context.Context,
	paths <-chan string,
	results chan<- WalkResult,
	scope FileScope,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			result := fw.processFile(path, scope)
			select {
			case <-ctx.Done():
				return
			case results <- result:
			}
		}
	}
}

func (fw *FileWalker) scanDirectory(
	ctx context.Context,
	dirPath string,
	scope FileScope,
	paths chan<- string,
	depth int,
	processed *int,
	visited map[string]struct{},
	gitignore *ignore.GitIgnore,
) {
	if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
		return
	}
	if ctx.Err() != nil {
		return
	}
	if scope.MaxDepth > 0 && depth > scope.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return // unreadable directories are skipped
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		if fw.isExcluded(fullPath, scope.Exclude) {
			continue
		}

		isDir := entry.IsDir()
		realPath := fullPath
		if entry.Type()&os.ModeSymlink != 0 {
			if !scope.FollowSymlinks {
				continue
			}
			resolved, err := filepath.EvalSymlinks(fullPath)
			if err != nil {
				continue
			}
			info, err := os.Stat(resolved)
			if err != nil {
				continue
			}
			isDir, realPath = info.IsDir(), resolved
		}

		if isDir {
			if visited != nil {
				if _, seen := visited[realPath]; seen {
					continue
				}
				visited[realPath] = struct{}{}
			}
			fw.scanDirectory(ctx, fullPath, scope, paths, depth+1, processed, visited, gitignore)
			continue
		}

		if !fw.isIncluded(fullPath, scope.Include) {
			continue
		}
		if gitignore != nil {
			if rel, err := filepath.Rel(scope.Path, fullPath); err == nil && gitignore.MatchesPath(filepath.ToSlash(rel)) {
				continue
			}
		}
		if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
			return
		}
		select {
		case <-ctx.Done():
			return
		case paths <- fullPath:
			*processed++
		}
	}
}

func (fw *FileWalker) processFile(path string, scope FileScope) WalkResult {
	info, err := os.Stat(path)
	if err != nil {
		return WalkResult{Path: path, Error: err}
	}
	language := scope.Language
	if language == "" {
		language = detectLanguage(path)
	}
	return WalkResult{Path: path, Info: info, Language: language}
}

// loadGitignore compiles the .gitignore at the scope root when the scope asks
// for it. A missing or unreadable file means nothing is ignored.
func loadGitignore(scope FileScope) *ignore.GitIgnore {
	if !scope.Gitignore {
		return nil
	}
	gitignore, err := ignore.CompileIgnoreFile(filepath.Join(scope.Path, ".gitignore"))
	if err != nil {
		return nil
	}
	return gitignore
}

// detectLanguage asks the provider catalog which language owns the file's
// extension.
func detectLanguage(path string) string {
	if info, ok := catalog.Detect(path); ok {
		return info.ID
	}
	return ""
}

func (fw *FileWalker) isIncluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

func (fw *FileWalker) isExcluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchPattern matches a doublestar glob against the whole path, and against
// the base name for patterns without a separator.
func matchPattern(path, pattern string) bool {
	path = strings.TrimPrefix(filepath.ToSlash(path), "/")
	if matched, err := doublestar.Match(pattern, path); err == nil && matched {
		return true
	}
	if strings.HasPrefix(pattern, "**/") {
		// "**/x" should also match a relative "x" at the root
		if matched, err := doublestar.Match(pattern[3:], path); err == nil && matched {
			return true
		}
	}
	if !strings.Contains(pattern, "/") {
		if matched, err := doublestar.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}
	return false
}

func (fw *FileWalker) validateScope(scope FileScope) (fs.FileInfo, error) {
	if scope.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	info, err := os.Stat(scope.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot access path %s: %w", scope.Path, err)
	}
	return info, nil
}

// Collect walks scope and returns the discovered files of the scope's
// language, sorted by path. Files that could not be stat'ed are returned
// alongside as errors.
func (fw *FileWalker) Collect(ctx context.Context, scope FileScope) ([]WalkResult, error) {
	results, err := fw.Walk(ctx, scope)
	if err != nil {
		return nil, err
	}
	var files []WalkResult
	for r := range results {
		if r.Error == nil && r.Language == "" {
			continue
		}
		files = append(files, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
