// docglow enhances the pages of a static documentation site.
//
// It highlights code blocks, adds copy and print buttons,
// marks the current page in the navigation,
// and installs an optional browser runtime
// for the mobile menu and scroll effects.
// Run docglow -help for usage.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"braces.dev/errtrace"
	"go.abhg.dev/docglow/internal/errdefer"
	"go.abhg.dev/docglow/internal/flagvalue"
	"go.abhg.dev/docglow/internal/highlight"
	"go.abhg.dev/docglow/internal/labels"
	"go.abhg.dev/docglow/internal/page"
	"go.abhg.dev/docglow/internal/pagefind"
	"go.abhg.dev/docglow/internal/serve"
	"go.abhg.dev/docglow/internal/site"
	"go.abhg.dev/docglow/internal/watch"
	"golang.org/x/sync/errgroup"
)

var _version = "dev"

func main() {
	cmd := mainCmd{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env:    true,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitCode := cmd.Run(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode)
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr
	Env    bool      // read DOCGLOW_* environment variables

	log *log.Logger
}

func (cmd *mainCmd) Run(ctx context.Context, args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
		Env:    cmd.Env,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	if err := cmd.run(ctx, opts); err != nil {
		cmd.log.Printf("docglow: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(ctx context.Context, opts *params) (err error) {
	debugw, closeDebug, err := opts.Debug.Create(cmd.Stderr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Run(&err, closeDebug)
	debugLog := log.New(debugw, "", 0)

	b := siteBuild{
		Log:    cmd.log,
		OutDir: opts.OutputDir,
	}

	var highlightCSS func(io.Writer) error
	enhancer := page.Enhancer{
		Labels:  &labels.Set{Default: opts.Lang},
		Runtime: opts.RuntimeDir != "",
		Settings: page.Settings{
			Breakpoint: opts.Breakpoint,
			CopyDelay:  opts.CopyDelay,
		},
		Log: debugLog,
	}
	switch opts.Highlight {
	case highlightOff:
		// Leave code blocks alone.
	case highlightPasses:
		passes := &highlight.Passes{Log: cmd.log}
		if err := passes.Compile(); err != nil {
			return errtrace.Wrap(err)
		}
		enhancer.Highlighter = passes
	default:
		enhancer.Highlighter = &highlight.Highlighter{Log: cmd.log}
	}
	if enhancer.Highlighter != nil {
		style, err := highlight.LookupStyle(opts.Style)
		if err != nil {
			return errtrace.Wrap(err)
		}
		highlightCSS = func(w io.Writer) error {
			return highlight.WriteCSS(w, style)
		}
	}

	b.Builder = &site.Builder{
		SourceDir:    opts.SourceDir,
		OutDir:       opts.OutputDir,
		Exclude:      flagvalue.ListOf(&opts.Exclude).Strings(),
		Jobs:         opts.Jobs,
		Enhancer:     &enhancer,
		HighlightCSS: highlightCSS,
		RuntimeDir:   opts.RuntimeDir,
		Prune:        opts.Watch,
		Log:          debugLog,
	}
	if opts.Pagefind.Enabled() {
		b.Indexer = &pagefind.CLI{
			Exe: opts.Pagefind.Value("pagefind"),
			Log: debugLog,
		}
	}

	if err := b.Run(ctx); err != nil {
		return errtrace.Wrap(err)
	}
	if opts.Serve == "" && !opts.Watch {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if opts.Serve != "" {
		srv := serve.Server{
			Dir:  opts.OutputDir,
			Addr: opts.Serve,
			Log:  cmd.log,
		}
		g.Go(func() error {
			return errtrace.Wrap(srv.Run(ctx))
		})
	}
	if opts.Watch {
		w := watch.Watcher{
			Dir:    opts.SourceDir,
			Ignore: []string{opts.OutputDir},
			OnChange: func(ctx context.Context) error {
				if err := b.Run(ctx); err != nil {
					cmd.log.Printf("docglow: %v", err)
				}
				return nil
			},
			Log: debugLog,
		}
		cmd.log.Printf("Watching %v for changes", opts.SourceDir)
		g.Go(func() error {
			return errtrace.Wrap(w.Run(ctx))
		})
	}
	return errtrace.Wrap(g.Wait())
}
