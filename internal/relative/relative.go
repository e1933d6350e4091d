// Package relative builds relative links between files of a site
// with string manipulation exclusively.
package relative

import (
	"fmt"
	"path"
	"strings"
)

// Dir returns a path to dst, relative to the directory dir.
// Both paths must be relative or both paths must be absolute,
// and they must both be /-separated.
// An empty dir or "." is the root of the site.
//
// It returns "." if dst is dir itself.
func Dir(dir, dst string) string {
	if path.IsAbs(dir) != path.IsAbs(dst) {
		panic(fmt.Sprintf("Dir(%q, %q): both must be absolute, or both must be relative", dir, dst))
	}

	dirParts := split(dir)
	dstParts := split(dst)
	for len(dirParts) > 0 && len(dstParts) > 0 && dirParts[0] == dstParts[0] {
		dirParts, dstParts = dirParts[1:], dstParts[1:]
	}

	parts := make([]string, 0, len(dirParts)+len(dstParts))
	for range dirParts {
		parts = append(parts, "..")
	}
	parts = append(parts, dstParts...)
	if len(parts) == 0 {
		return "."
	}

	rel := strings.Join(parts, "/")
	if strings.HasSuffix(dst, "/") && len(dstParts) > 0 {
		// Keep links to directories pointing at directories.
		rel += "/"
	}
	return rel
}

// Page returns a link to dst from the page at the given path.
// Both are paths from the root of the site.
//
//	Page("guide/api.html", "_/docglow.css") == "../_/docglow.css"
func Page(page, dst string) string {
	return Dir(path.Dir(page), dst)
}

// split splits a /-separated path into its non-empty components,
// dropping "." components.
func split(p string) []string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}
	return parts
}
