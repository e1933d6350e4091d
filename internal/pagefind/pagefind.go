// Package pagefind runs the pagefind CLI
// to build a search index over a built site.
package pagefind

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"

	"braces.dev/errtrace"
	"go.abhg.dev/docglow/internal/linebuf"
)

// DefaultExcludeSelectors match the controls docglow adds to pages.
// Their text is not part of the documentation.
var DefaultExcludeSelectors = []string{
	".copy-button",
	".print-btn-container",
	".progress-bar",
	".menu-backdrop",
}

// CLI is a handle to the pagefind executable.
type CLI struct {
	// Path to the pagefind executable.
	// If unset, it's searched for on $PATH.
	Exe string

	// Log receives the output of pagefind, one line at a time.
	Log *log.Logger
}

// IndexRequest is a request to index a site.
type IndexRequest struct {
	// SiteDir is the built site to index.
	SiteDir string // required

	// AssetSubdir is the directory, relative to SiteDir,
	// receiving the index and pagefind's assets.
	AssetSubdir string

	// Glob selects the pages to index relative to SiteDir.
	// Pagefind indexes all HTML files if unset.
	Glob string

	// ExcludeSelectors are CSS selectors of elements
	// whose text doesn't get indexed.
	// Defaults to DefaultExcludeSelectors.
	ExcludeSelectors []string
}

func (r *IndexRequest) args() []string {
	args := []string{"--site", r.SiteDir, "--verbose"}
	if r.AssetSubdir != "" {
		args = append(args, "--output-subdir", r.AssetSubdir)
	}
	if r.Glob != "" {
		args = append(args, "--glob", r.Glob)
	}

	selectors := r.ExcludeSelectors
	if selectors == nil {
		selectors = DefaultExcludeSelectors
	}
	for _, sel := range selectors {
		args = append(args, "--exclude-selectors", sel)
	}
	return args
}

// Index builds a search index for a site.
func (c *CLI) Index(ctx context.Context, req IndexRequest) error {
	if req.SiteDir == "" {
		return errtrace.New("pagefind: site directory is required")
	}

	logger := c.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	exe := c.Exe
	if exe == "" {
		exe = "pagefind"
	}

	out, done := linebuf.Logger(logger, "pagefind: ")
	defer done()

	cmd := exec.CommandContext(ctx, exe, req.args()...)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return errtrace.Wrap(fmt.Errorf("pagefind: %w", err))
	}
	return nil
}
