package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"braces.dev/errtrace"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/docglow/internal/flagvalue"
	"go.abhg.dev/docglow/internal/ui"
	"golang.org/x/text/language"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// _envPrefix is the prefix of environment variables
// that set options.
const _envPrefix = "DOCGLOW"

// params holds all arguments for docglow.
type params struct {
	version bool
	help    Help
	config  string

	Debug flagvalue.FileSwitch

	OutputDir string
	Exclude   []globPattern
	Jobs      int

	Highlight highlightMode
	Style     string

	Lang       language.Tag
	Breakpoint int
	CopyDelay  time.Duration
	RuntimeDir string

	Pagefind flagvalue.Switch
	Serve    string
	Watch    bool

	SourceDir string
}

// cliParser parses the command line arguments for docglow.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer

	// Env enables reading options from DOCGLOW_* environment variables.
	Env bool
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("docglow", flag.ContinueOnError)
	flag.SetOutput(cmd.Stderr)
	flag.Usage = func() {
		_ = DefaultHelp.Write(cmd.Stderr)
	}

	p := params{Lang: language.English}

	// Filesystem:
	flag.StringVar(&p.OutputDir, "out", "_site", "")
	flag.Var(flagvalue.ListOf(&p.Exclude), "exclude", "")
	flag.IntVar(&p.Jobs, "j", 0, "")

	// Highlighting:
	flag.Var(&p.Highlight, "highlight", "")
	flag.StringVar(&p.Style, "style", "plain", "")

	// Page controls:
	flag.Var(langFlag{&p.Lang}, "lang", "")
	flag.IntVar(&p.Breakpoint, "breakpoint", ui.DefaultBreakpoint, "")
	flag.DurationVar(&p.CopyDelay, "copy-delay", ui.DefaultFeedbackDelay, "")
	flag.StringVar(&p.RuntimeDir, "runtime", "", "")

	// After the build:
	flag.Var(&p.Pagefind, "pagefind", "")
	flag.StringVar(&p.Serve, "serve", "", "")
	flag.BoolVar(&p.Watch, "watch", false, "")

	// Program-level:
	flag.StringVar(&p.config, "config", "", "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, flag := cmd.newFlagSet()

	opts := []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	}
	if cmd.Env {
		opts = append(opts, ff.WithEnvVarPrefix(_envPrefix))
	}
	if err := ff.Parse(flag, args, opts...); err != nil {
		if !errors.Is(err, errHelp) {
			// Flag errors were already printed by the flag set.
			// Config file errors weren't.
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errtrace.Wrap(err)
	}
	args = flag.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "docglow", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		if _, ok := _helpTopics[Help(args[0])]; ok {
			p.help = Help(args[0])
		}
	}

	if p.help != NoHelp {
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	switch len(args) {
	case 0:
		fmt.Fprintln(cmd.Stderr, "Please provide a source directory.")
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	case 1:
		p.SourceDir = args[0]
	default:
		fmt.Fprintf(cmd.Stderr, "Expected one source directory, got %d: %q\n", len(args), args)
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	if p.Breakpoint <= 0 {
		fmt.Fprintf(cmd.Stderr, "-breakpoint must be positive, got %d\n", p.Breakpoint)
		return nil, errInvalidArguments
	}
	if p.CopyDelay <= 0 {
		fmt.Fprintf(cmd.Stderr, "-copy-delay must be positive, got %v\n", p.CopyDelay)
		return nil, errInvalidArguments
	}

	return p, nil
}

// globPattern is a doublestar pattern passed to -exclude.
type globPattern string

var _ flag.Getter = (*globPattern)(nil)

func (g *globPattern) Get() any { return string(*g) }

func (g *globPattern) String() string { return string(*g) }

func (g *globPattern) Set(s string) error {
	if !doublestar.ValidatePattern(s) {
		return errtrace.Wrap(fmt.Errorf("bad pattern %q", s))
	}
	*g = globPattern(s)
	return nil
}

// highlightMode selects how code blocks are highlighted.
type highlightMode string

// Highlighting modes.
const (
	highlightTokens highlightMode = "tokens"
	highlightPasses highlightMode = "passes"
	highlightOff    highlightMode = "off"
)

var _ flag.Getter = (*highlightMode)(nil)

func (m *highlightMode) Get() any { return *m }

// String returns the name of the mode.
// The zero value is the tokens mode.
func (m *highlightMode) String() string {
	if *m == "" {
		return string(highlightTokens)
	}
	return string(*m)
}

func (m *highlightMode) Set(s string) error {
	switch v := highlightMode(s); v {
	case highlightTokens, highlightPasses, highlightOff:
		*m = v
		return nil
	default:
		return errtrace.Wrap(fmt.Errorf("unknown mode %q: expected tokens, passes, or off", s))
	}
}

// langFlag receives a BCP 47 language tag.
type langFlag struct{ tag *language.Tag }

var _ flag.Getter = langFlag{}

func (f langFlag) Get() any { return *f.tag }

func (f langFlag) String() string {
	if f.tag == nil {
		return ""
	}
	return f.tag.String()
}

func (f langFlag) Set(s string) error {
	tag, err := language.Parse(s)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*f.tag = tag
	return nil
}
