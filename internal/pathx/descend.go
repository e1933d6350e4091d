// Package pathx provides extensions to the [path] and [path/filepath] packages.
package pathx

import (
	"path/filepath"
	"strings"
)

// Descends reports whether the /-separated path b
// is equal to, or a descendant of a.
func Descends(a, b string) bool {
	a = strings.TrimSuffix(a, "/")
	if !strings.HasPrefix(b, a) {
		return false
	}
	b = b[len(a):]
	return b == "" || b[0] == '/'
}

// Within reports whether the file path target is dir itself
// or a file or directory below it.
// Both paths are cleaned first, and must both be absolute
// or both relative to the same directory.
func Within(dir, target string) bool {
	dir = filepath.ToSlash(filepath.Clean(dir))
	target = filepath.ToSlash(filepath.Clean(target))
	if dir == "/" {
		return strings.HasPrefix(target, "/")
	}
	return Descends(dir, target)
}
