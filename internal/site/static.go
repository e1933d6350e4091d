package site

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"braces.dev/errtrace"
	"go.abhg.dev/docglow/internal/errdefer"
	"go.abhg.dev/docglow/internal/page"
)

//go:embed static/*
var _staticFS embed.FS

// writeStatic writes docglow's assets into dir.
func (b *Builder) writeStatic(dir string) error {
	if err := os.MkdirAll(dir, 0o1755); err != nil {
		return errtrace.Wrap(err)
	}

	css, err := _staticFS.ReadFile("static/" + page.StylesheetName)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if b.HighlightCSS != nil {
		buf := bytes.NewBuffer(css)
		buf.WriteString("\n/* Syntax highlighting. */\n\n")
		if err := b.HighlightCSS(buf); err != nil {
			return errtrace.Wrap(fmt.Errorf("highlight CSS: %w", err))
		}
		css = buf.Bytes()
	}
	if err := os.WriteFile(filepath.Join(dir, page.StylesheetName), css, 0o644); err != nil {
		return errtrace.Wrap(err)
	}

	if b.RuntimeDir == "" {
		return nil
	}

	loader, err := _staticFS.ReadFile("static/" + page.LoaderName)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if err := os.WriteFile(filepath.Join(dir, page.LoaderName), loader, 0o644); err != nil {
		return errtrace.Wrap(err)
	}

	for _, name := range []string{page.WasmName, page.WasmExecName} {
		src := filepath.Join(b.RuntimeDir, name)
		if err := copyFile(filepath.Join(dir, name), src); err != nil {
			return errtrace.Wrap(fmt.Errorf("install runtime: %w", err))
		}
	}
	return nil
}

func copyFile(dst, src string) (err error) {
	r, err := os.Open(src)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, r)

	w, err := os.Create(dst)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, w)

	_, err = io.Copy(w, r)
	return errtrace.Wrap(err)
}
