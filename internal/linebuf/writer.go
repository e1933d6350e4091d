// Package linebuf splits streams of output into lines.
package linebuf

import (
	"bytes"
	"io"
	"log"
	"sync"
)

// Writer returns an io.Writer that splits its input on newlines,
// calling fn for each line without its trailing "\n" or "\r\n".
//
// Text after the last newline is held until more input arrives
// or done is called.
// The returned writer is safe for concurrent use.
func Writer(fn func(line string)) (_ io.Writer, done func()) {
	w := writer{writeLine: fn}
	return &w, w.flush
}

// Logger returns an io.Writer that logs every line written to it
// with the given prefix.
// Blank lines are dropped.
func Logger(logger *log.Logger, prefix string) (_ io.Writer, done func()) {
	return Writer(func(line string) {
		if len(bytes.TrimSpace([]byte(line))) == 0 {
			return
		}
		logger.Print(prefix + line)
	})
}

type writer struct {
	writeLine func(string)

	mu      sync.Mutex
	partial []byte // text since the last newline
}

func (w *writer) Write(bs []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	total := len(bs)
	for {
		line, rest, ok := bytes.Cut(bs, []byte{'\n'})
		if !ok {
			w.partial = append(w.partial, bs...)
			break
		}
		bs = rest

		if len(w.partial) > 0 {
			line = append(w.partial, line...)
			w.partial = w.partial[:0]
		}
		w.writeLine(string(bytes.TrimSuffix(line, []byte{'\r'})))
	}
	return total, nil
}

// flush writes held text, even if it doesn't end with a newline.
func (w *writer) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.partial) > 0 {
		w.writeLine(string(w.partial))
		w.partial = nil
	}
}
