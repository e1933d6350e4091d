package main

import (
	"context"
	"fmt"
	"log"
	"path"

	"braces.dev/errtrace"
	"go.abhg.dev/docglow/internal/page"
	"go.abhg.dev/docglow/internal/pagefind"
	"go.abhg.dev/docglow/internal/site"
)

// Builder builds the site.
type Builder interface {
	Build(context.Context) (site.Summary, error)
}

var _ Builder = (*site.Builder)(nil)

// Indexer builds a search index over a built site.
type Indexer interface {
	Index(context.Context, pagefind.IndexRequest) error
}

var _ Indexer = (*pagefind.CLI)(nil)

// siteBuild is a single build of the site,
// followed by indexing when requested.
//
// It's run once, and again on every change when watching.
type siteBuild struct {
	Log     *log.Logger
	Builder Builder
	Indexer Indexer // optional
	OutDir  string
}

// Run builds the site.
func (b *siteBuild) Run(ctx context.Context) error {
	summary, err := b.Builder.Build(ctx)
	if err != nil {
		return errtrace.Wrap(err)
	}
	b.Log.Printf("Built %v: %v", b.OutDir, describe(summary))

	if b.Indexer == nil {
		return nil
	}
	req := pagefind.IndexRequest{
		SiteDir:     b.OutDir,
		AssetSubdir: path.Join(page.DefaultStaticDir, "pagefind"),
		Glob:        "**/*.{html,htm}",
	}
	if err := b.Indexer.Index(ctx, req); err != nil {
		return errtrace.Wrap(fmt.Errorf("index: %w", err))
	}
	b.Log.Printf("Indexed %v", b.OutDir)
	return nil
}

func describe(s site.Summary) string {
	msg := fmt.Sprintf("%v, %v highlighted, %v copied",
		plural(s.Pages, "page"), plural(s.Blocks, "code block"), plural(s.Files, "file"))
	if s.Removed > 0 {
		msg += fmt.Sprintf(", %v removed", plural(s.Removed, "stale file"))
	}
	return msg
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %v", noun)
	}
	return fmt.Sprintf("%d %vs", n, noun)
}
