// Package watch triggers rebuilds when files in a directory change.
package watch

import (
	"context"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/fsnotify/fsnotify"
	"go.abhg.dev/docglow/internal/pathx"
)

// DefaultDebounce is how long Watcher waits for changes to settle
// before calling OnChange.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a directory tree,
// including directories created after it starts.
// Dot-directories are not watched.
type Watcher struct {
	// Dir is the root of the tree.
	Dir string // required

	// Ignore lists directories whose changes don't count.
	// The output directory of a build goes here.
	Ignore []string

	// Debounce is how long to wait after a change
	// for more changes before calling OnChange.
	// Defaults to DefaultDebounce.
	Debounce time.Duration

	// OnChange is called after changes settle. Errors are logged.
	OnChange func(context.Context) error // required

	// Log receives messages about changes and failures.
	// Discarded if unset.
	Log *log.Logger
}

// Run watches for changes until ctx ends.
func (w *Watcher) Run(ctx context.Context) (err error) {
	logger := w.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	root, err := filepath.Abs(w.Dir)
	if err != nil {
		return errtrace.Wrap(err)
	}
	ignore := make([]string, 0, len(w.Ignore))
	for _, dir := range w.Ignore {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return errtrace.Wrap(err)
		}
		ignore = append(ignore, abs)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = errtrace.Wrap(cerr)
		}
	}()

	t := tree{fw: fw, ignore: ignore, log: logger}
	if err := t.add(root); err != nil {
		return errtrace.Wrap(err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		timer   *time.Timer
		settled <-chan time.Time // nil until a change arrives
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if t.ignored(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// Watch new directories and their contents.
				// It may be gone already.
				_ = t.add(ev.Name)
			}

			logger.Printf("Changed: %v", ev.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Stop()
				timer.Reset(debounce)
			}
			settled = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watch: %v", err)

		case <-settled:
			settled = nil
			if err := w.OnChange(ctx); err != nil {
				logger.Printf("rebuild: %v", err)
			}
		}
	}
}

type tree struct {
	fw     *fsnotify.Watcher
	ignore []string // absolute paths
	log    *log.Logger
}

func (t *tree) ignored(path string) bool {
	for _, dir := range t.ignore {
		if pathx.Within(dir, path) {
			return true
		}
	}
	return false
}

// add watches dir and every directory below it.
func (t *tree) add(dir string) error {
	return errtrace.Wrap(filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if (path != dir && strings.HasPrefix(d.Name(), ".")) || t.ignored(path) {
			return filepath.SkipDir
		}
		if err := t.fw.Add(path); err != nil {
			return err
		}
		t.log.Printf("Watching %v", path)
		return nil
	}))
}
