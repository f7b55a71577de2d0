package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"

	"braces.dev/errtrace"
	"github.com/peterbourgon/ff/v3"

	"go.tlbx.dev/chromatex/internal/flagvalue"
	"go.tlbx.dev/chromatex/internal/latex"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// Names of the supported highlighter backends.
const (
	highlighterChroma     = "chroma"
	highlighterTreeSitter = "tree-sitter"
)

// params holds all arguments for chromatex.
type params struct {
	version bool
	help    Help
	config  string

	Input   string
	Output  string
	SwapExt bool
	Force   bool
	Trust   bool
	Dump    bool

	Highlighter string
	Style       string

	EscapeStart string
	EscapeEnd   string
	TabSize     int
	Raw         bool
	German      bool

	Caption        string
	Label          string
	HeaderComments []commentPrefix
	DefaultColor   string

	Debug flagvalue.FileSwitch
}

// headerPrefixes returns the comment prefixes to probe
// for a first-line header, as plain strings.
func (p *params) headerPrefixes() []string {
	prefixes := make([]string, len(p.HeaderComments))
	for i, c := range p.HeaderComments {
		prefixes[i] = string(c)
	}
	return prefixes
}

// cliParser parses the command line arguments for chromatex.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("chromatex", flag.ContinueOnError)
	flag.SetOutput(cmd.Stderr)
	flag.Usage = func() {
		DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Filesystem:
	flag.StringVar(&p.Input, "input", "", "")
	flag.StringVar(&p.Output, "output", "", "")
	flag.BoolVar(&p.SwapExt, "swap-ext", false, "")
	flag.BoolVar(&p.Force, "force", false, "")

	// Highlighting:
	flag.StringVar(&p.Highlighter, "highlighter", highlighterChroma, "")
	flag.StringVar(&p.Style, "style", "", "")
	flag.StringVar(&p.DefaultColor, "default-color", "000000", "")

	// LaTeX output:
	flag.StringVar(&p.EscapeStart, "escape-start", latex.DefaultEscapeStart, "")
	flag.StringVar(&p.EscapeEnd, "escape-end", latex.DefaultEscapeEnd, "")
	flag.IntVar(&p.TabSize, "tab-size", latex.DefaultTabSize, "")
	flag.BoolVar(&p.Raw, "raw", false, "")
	flag.BoolVar(&p.German, "german", false, "")
	flag.StringVar(&p.Caption, "caption", latex.DefaultCaption, "")
	flag.StringVar(&p.Label, "label", latex.DefaultLabel, "")
	flag.Var(flagvalue.ListOf(&p.HeaderComments), "header-comment", "")

	// Program-level:
	flag.BoolVar(&p.Trust, "trust", false, "")
	flag.BoolVar(&p.Dump, "dump", false, "")
	flag.StringVar(&p.config, "config", "", "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

var _hexColorArg = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, fset := cmd.newFlagSet()
	err := ff.Parse(fset, args,
		ff.WithEnvVarPrefix("CHROMATEX"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	args = fset.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "chromatex", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil {
			p.help = h
			args = args[1:]
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	// Positional arguments are a convenience
	// for -input and -output.
	switch len(args) {
	case 0:
	case 2:
		if p.Output == "" {
			p.Output = args[1]
		}
		fallthrough
	case 1:
		if p.Input == "" {
			p.Input = args[0]
		}
	default:
		fmt.Fprintf(cmd.Stderr, "unexpected arguments: %q\n", args[2:])
		UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	if err := p.validate(); err != nil {
		fmt.Fprintln(cmd.Stderr, err)
		return nil, errInvalidArguments
	}

	if len(p.HeaderComments) == 0 {
		p.HeaderComments = []commentPrefix{"#", "//"}
	}

	return p, nil
}

func (p *params) validate() error {
	switch p.Highlighter {
	case highlighterChroma, highlighterTreeSitter:
	default:
		return errtrace.Errorf("unknown highlighter %q: valid values are %q and %q",
			p.Highlighter, highlighterChroma, highlighterTreeSitter)
	}

	if p.EscapeStart == "" || p.EscapeEnd == "" {
		return errtrace.New("escape markers cannot be empty")
	}
	if p.TabSize < 0 {
		return errtrace.Errorf("tab size cannot be negative, got %d", p.TabSize)
	}
	if !_hexColorArg.MatchString(p.DefaultColor) {
		return errtrace.Errorf("default color must be six hex digits, got %q", p.DefaultColor)
	}
	return nil
}

// commentPrefix is a single -header-comment argument.
type commentPrefix string

var _ flag.Getter = (*commentPrefix)(nil)

func (c *commentPrefix) Get() any       { return string(*c) }
func (c *commentPrefix) String() string { return string(*c) }

func (c *commentPrefix) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errtrace.New("comment prefix cannot be empty")
	}
	*c = commentPrefix(s)
	return nil
}
