package main

import (
	_ "embed"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"braces.dev/errtrace"
)

// Help is docglow's -h/-help flag.
// Passing a topic prints help on that topic.
type Help string

// Well-known help topics.
const (
	NoHelp      Help = ""
	DefaultHelp Help = "default"
	UsageHelp   Help = "usage"
)

var (
	//go:embed help/default.txt
	_defaultHelp string

	//go:embed help/config.txt
	_configHelp string

	//go:embed help/highlight.txt
	_highlightHelp string

	//go:embed help/runtime.txt
	_runtimeHelp string

	_usageHelp = firstLineOf(_defaultHelp)

	_helpTopics = map[Help]string{
		"config":    _configHelp,
		"default":   _defaultHelp,
		"highlight": _highlightHelp,
		"runtime":   _runtimeHelp,
		"usage":     _usageHelp,
	}
)

func firstLineOf(s string) string {
	if idx := strings.IndexRune(s, '\n'); idx >= 0 {
		s = s[:idx+1]
	}
	return s
}

// Write writes the help on this topic to the writer.
// If this topic is not known, an error is returned.
func (h Help) Write(w io.Writer) error {
	if len(h) == 0 {
		return nil
	}

	if doc, ok := _helpTopics[h]; ok {
		_, err := io.WriteString(w, doc)
		return errtrace.Wrap(err)
	}

	return errtrace.Wrap(fmt.Errorf("unknown help topic %q: valid values are %q", string(h), helpTopics()))
}

// helpTopics lists the known topics in order.
func helpTopics() []string {
	return slices.Sorted(func(yield func(string) bool) {
		for h := range _helpTopics {
			if !yield(string(h)) {
				return
			}
		}
	})
}

var _ flag.Getter = (*Help)(nil)

// Get returns the topic.
func (h *Help) Get() any {
	return *h
}

// IsBoolFlag marks this as a boolean flag
// which allows it to be used without an argument.
func (*Help) IsBoolFlag() bool {
	return true
}

// String returns the name of this topic.
func (h Help) String() string {
	return string(h)
}

// Set receives a command line value.
func (h *Help) Set(s string) error {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "true":
		s = string(DefaultHelp)
	case "false":
		s = string(NoHelp)
	}
	*h = Help(s)
	return nil
}
