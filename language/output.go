package language

import (
	"path/filepath"
	"strings"
)

// IsCompiledOutput reports whether path names a class file or a jar.
func IsCompiledOutput(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".class", ".jar":
		return true
	}
	return false
}
