package catalog

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// LanguageInfo captures metadata about a language provider.
type LanguageInfo struct {
	ID         string
	Extensions []string
}

var (
	mu     sync.RWMutex
	byLang = make(map[string]LanguageInfo)
	byExt  = make(map[string]LanguageInfo)
)

// Register stores language metadata for extension lookups. Registering the
// same language again replaces its extensions.
func Register(info LanguageInfo) {
	if info.ID == "" {
		return
	}

	info.Extensions = uniqueExtensions(info.Extensions)

	mu.Lock()
	defer mu.Unlock()

	id := strings.ToLower(info.ID)
	if prev, ok := byLang[id]; ok {
		for _, ext := range prev.Extensions {
			delete(byExt, ext)
		}
	}
	byLang[id] = info
	for _, ext := range info.Extensions {
		byExt[ext] = info
	}
}

// LookupByExtension returns the language info associated with a file extension.
func LookupByExtension(ext string) (LanguageInfo, bool) {
	normalized := normalizeExtension(ext)
	mu.RLock()
	defer mu.RUnlock()
	info, ok := byExt[normalized]
	return info, ok
}

// Detect looks up the language of a file by its extension.
func Detect(path string) (LanguageInfo, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return LanguageInfo{}, false
	}
	return LookupByExtension(ext)
}

// Languages returns all registered language infos sorted by language ID.
func Languages() []LanguageInfo {
	mu.RLock()
	defer mu.RUnlock()

	infos := make([]LanguageInfo, 0, len(byLang))
	for _, info := range byLang {
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}

func normalizeExtension(ext string) string {
	normalized := strings.ToLower(strings.TrimSpace(ext))
	if normalized != "" && !strings.HasPrefix(normalized, ".") {
		normalized = "." + normalized
	}
	return normalized
}

func uniqueExtensions(exts []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(exts))
	for _, ext := range exts {
		normalized := normalizeExtension(ext)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result
}
