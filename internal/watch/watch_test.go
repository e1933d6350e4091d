package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/docglow/internal/iotest"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type watchTest struct {
	t        *testing.T
	dir      string
	debounce time.Duration
	changes  chan struct{}
	done     chan error
	cancel   context.CancelFunc
}

func startWatch(t *testing.T, dir string, configure func(*Watcher)) *watchTest {
	t.Helper()

	changes := make(chan struct{}, 100)
	w := &Watcher{
		Dir:      dir,
		Debounce: 20 * time.Millisecond,
		OnChange: func(context.Context) error {
			changes <- struct{}{}
			return nil
		},
		Log: iotest.Logger(t),
	}
	if configure != nil {
		configure(w)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wt := &watchTest{
		t:        t,
		dir:      dir,
		debounce: w.Debounce,
		changes:  changes,
		done:     make(chan error, 1),
		cancel:   cancel,
	}
	go func() { wt.done <- w.Run(ctx) }()
	t.Cleanup(wt.stop)
	return wt
}

func (wt *watchTest) stop() {
	if wt.cancel == nil {
		return
	}
	wt.cancel()
	wt.cancel = nil
	assert.NoError(wt.t, <-wt.done)
}

// touchUntilChanged writes to a file inside the directory
// until a change is reported.
// The watcher registers directories concurrently with the test,
// so a single write could land too early.
func (wt *watchTest) touchUntilChanged(name string) {
	wt.t.Helper()

	path := filepath.Join(wt.dir, name)
	var n int
	require.Eventually(wt.t, func() bool {
		n++
		if err := os.WriteFile(path, []byte(strconv.Itoa(n)), 0o644); err != nil {
			return false
		}
		select {
		case <-wt.changes:
			return true
		case <-time.After(wt.debounce + 50*time.Millisecond):
			return false
		}
	}, 10*time.Second, 10*time.Millisecond)
}

// settle waits for pending changes to be reported and drops them.
func (wt *watchTest) settle() {
	time.Sleep(200 * time.Millisecond)
	for {
		select {
		case <-wt.changes:
		default:
			return
		}
	}
}

func TestWatcher_change(t *testing.T) {
	wt := startWatch(t, t.TempDir(), nil)
	wt.touchUntilChanged("index.html")
}

func TestWatcher_debounce(t *testing.T) {
	wt := startWatch(t, t.TempDir(), func(w *Watcher) {
		w.Debounce = 300 * time.Millisecond
	})
	wt.touchUntilChanged("index.html")
	wt.settle()
	time.Sleep(300 * time.Millisecond)
	wt.settle()

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(wt.dir, "page.html"), []byte(strconv.Itoa(i)), 0o644))
	}

	select {
	case <-wt.changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-wt.changes:
		t.Fatal("burst reported more than once")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_newDirectory(t *testing.T) {
	wt := startWatch(t, t.TempDir(), nil)
	wt.touchUntilChanged("index.html")

	require.NoError(t, os.Mkdir(filepath.Join(wt.dir, "guide"), 0o755))
	wt.touchUntilChanged(filepath.Join("guide", "api.html"))
}

func TestWatcher_ignored(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "_site")
	require.NoError(t, os.Mkdir(out, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	wt := startWatch(t, dir, func(w *Watcher) {
		w.Ignore = []string{out}
	})
	wt.touchUntilChanged("index.html")
	wt.settle()

	require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"), []byte("built"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644))

	select {
	case <-wt.changes:
		t.Fatal("change reported for ignored directory")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_changeError(t *testing.T) {
	dir := t.TempDir()
	calls := make(chan struct{}, 100)
	wt := startWatch(t, dir, func(w *Watcher) {
		w.OnChange = func(context.Context) error {
			calls <- struct{}{}
			return errors.New("great sadness")
		}
	})
	wt.changes = calls

	// Failures are logged, and the watcher keeps going.
	wt.touchUntilChanged("a.html")
	wt.settle()
	wt.touchUntilChanged("b.html")
}

func TestWatcher_missingDir(t *testing.T) {
	w := &Watcher{
		Dir:      filepath.Join(t.TempDir(), "nope"),
		OnChange: func(context.Context) error { return nil },
	}
	err := w.Run(context.Background())
	assert.Error(t, err)
}
