package preview

import (
	"path/filepath"
	"strings"
)

// FileContext is the identity of the active document.
type FileContext struct {
	name string
	ext  string
}

// Refresh replaces the tracked file. The extension is always derived from the
// name: one leading separator is stripped, and a name without an extension
// yields an empty one.
func (f *FileContext) Refresh(rawFileName string) {
	ext := filepath.Ext(rawFileName)
	f.name = rawFileName
	f.ext = strings.TrimPrefix(ext, ".")
}

func (f *FileContext) Name() string {
	return f.name
}

func (f *FileContext) Extension() string {
	return f.ext
}

// IsEligible reports whether the extension is in allowed. Matching ignores
// case. An empty allowed list admits nothing.
func (f *FileContext) IsEligible(allowed []string) bool {
	for _, a := range allowed {
		a = strings.TrimPrefix(strings.TrimSpace(a), ".")
		if a != "" && strings.EqualFold(a, f.ext) {
			return true
		}
	}
	return false
}
