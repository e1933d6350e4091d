// Package site builds a docglow site from a directory of pages.
package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"braces.dev/errtrace"
	"github.com/bmatcuk/doublestar/v4"
	"go.abhg.dev/docglow/internal/errdefer"
	"go.abhg.dev/docglow/internal/page"
	"go.abhg.dev/docglow/internal/pathx"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// Enhancer modifies a parsed page in place.
type Enhancer interface {
	Enhance(*html.Node, page.Info) (page.Report, error)
}

var _ Enhancer = (*page.Enhancer)(nil)

// Summary reports what a build did.
type Summary struct {
	Pages  int // pages enhanced
	Files  int // other files copied as-is
	Blocks int // code blocks highlighted

	Removed int // stale output files removed, if pruning
}

// Builder builds a site by enhancing every page under a source directory
// and writing the results to an output directory.
type Builder struct {
	// SourceDir holds the pages to enhance.
	SourceDir string

	// OutDir receives the built site.
	// It may be inside SourceDir, in which case it's not treated as input.
	OutDir string

	// Exclude lists doublestar patterns, relative to SourceDir,
	// of files and directories to leave out.
	Exclude []string

	// Jobs is the number of pages processed at the same time.
	// Defaults to GOMAXPROCS.
	Jobs int

	// Enhancer modifies every page.
	Enhancer Enhancer

	// StaticDir is the /-separated directory, relative to OutDir,
	// receiving docglow's assets.
	// It must match the Enhancer's. Defaults to page.DefaultStaticDir.
	StaticDir string

	// HighlightCSS, if set, writes stylesheet rules
	// for highlighted code.
	HighlightCSS func(io.Writer) error

	// RuntimeDir is a directory holding docglow.wasm and wasm_exec.js.
	// The browser runtime isn't installed if this is empty.
	RuntimeDir string

	// Prune removes files from OutDir that the build didn't write,
	// such as the output of pages deleted from SourceDir.
	// docglow's assets under StaticDir are kept.
	Prune bool

	// Log receives progress messages. Discarded if unset.
	Log *log.Logger
}

// Build builds the site.
// The first failure stops the build.
func (b *Builder) Build(ctx context.Context) (Summary, error) {
	logger := b.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	srcDir, err := filepath.Abs(b.SourceDir)
	if err != nil {
		return Summary{}, errtrace.Wrap(err)
	}
	outDir, err := filepath.Abs(b.OutDir)
	if err != nil {
		return Summary{}, errtrace.Wrap(err)
	}
	if srcDir == outDir {
		return Summary{}, errtrace.Wrap(fmt.Errorf("output directory %v is the source directory", b.OutDir))
	}
	if pathx.Within(outDir, srcDir) {
		return Summary{}, errtrace.Wrap(fmt.Errorf("source directory %v is inside the output directory", b.SourceDir))
	}
	for _, pat := range b.Exclude {
		if !doublestar.ValidatePattern(pat) {
			return Summary{}, errtrace.Wrap(fmt.Errorf("bad exclude pattern %q", pat))
		}
	}

	staticDir := b.StaticDir
	if staticDir == "" {
		staticDir = page.DefaultStaticDir
	}
	if err := b.writeStatic(filepath.Join(outDir, filepath.FromSlash(staticDir))); err != nil {
		return Summary{}, errtrace.Wrap(fmt.Errorf("write static files: %w", err))
	}

	jobs := b.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var (
		mu      sync.Mutex
		summary Summary

		written = make(map[string]struct{}) // rel paths; walk goroutine only
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == srcDir {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") ||
				pathx.Within(outDir, path) ||
				b.excluded(rel) {
				logger.Printf("Skipping %v", rel)
				return filepath.SkipDir
			}
			return nil
		}
		if b.excluded(rel) || !d.Type().IsRegular() {
			return nil
		}

		written[rel] = struct{}{}
		dst := filepath.Join(outDir, filepath.FromSlash(rel))
		if !isPage(rel) {
			g.Go(func() error {
				if err := copyAll(dst, path); err != nil {
					return errtrace.Wrap(fmt.Errorf("copy %v: %w", rel, err))
				}
				mu.Lock()
				summary.Files++
				mu.Unlock()
				return nil
			})
			return nil
		}

		g.Go(func() error {
			logger.Printf("Enhancing %v", rel)
			report, err := b.enhance(dst, path, rel)
			if err != nil {
				return errtrace.Wrap(fmt.Errorf("enhance %v: %w", rel, err))
			}
			mu.Lock()
			summary.Pages++
			summary.Blocks += report.Blocks
			mu.Unlock()
			return nil
		})
		return nil
	})

	// A failed page cancels the walk,
	// so its error takes precedence.
	if err := g.Wait(); err != nil {
		return summary, errtrace.Wrap(err)
	}
	if walkErr != nil {
		return summary, errtrace.Wrap(walkErr)
	}

	if b.Prune {
		removed, err := prune(outDir, staticDir, written, logger)
		summary.Removed = removed
		if err != nil {
			return summary, errtrace.Wrap(fmt.Errorf("prune: %w", err))
		}
	}
	return summary, nil
}

// prune removes files under outDir that aren't in keep
// or inside staticDir.
// keep and staticDir are /-separated and relative to outDir.
func prune(outDir, staticDir string, keep map[string]struct{}, logger *log.Logger) (removed int, err error) {
	err = filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && pathx.Descends(staticDir, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := keep[rel]; ok {
			return nil
		}

		logger.Printf("Removing %v", rel)
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	return removed, errtrace.Wrap(err)
}

func (b *Builder) excluded(rel string) bool {
	for _, pat := range b.Exclude {
		// Patterns were validated in Build.
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func isPage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}

func (b *Builder) enhance(dst, src, rel string) (_ page.Report, err error) {
	bs, err := os.ReadFile(src)
	if err != nil {
		return page.Report{}, errtrace.Wrap(err)
	}

	doc, err := html.Parse(bytes.NewReader(bs))
	if err != nil {
		return page.Report{}, errtrace.Wrap(fmt.Errorf("parse: %w", err))
	}

	report, err := b.Enhancer.Enhance(doc, page.Info{Path: rel})
	if err != nil {
		return report, errtrace.Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o1755); err != nil {
		return report, errtrace.Wrap(err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return report, errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	return report, errtrace.Wrap(html.Render(f, doc))
}

func copyAll(dst, src string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o1755); err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(copyFile(dst, src))
}
