// chromatex generates LaTeX for highlighted code listings.
//
// It feeds a source file through a syntax highlighter, pulls the
// styled text back out of the highlighter's HTML, and re-emits it as
// markup that is safe to embed in a Verbatim environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"braces.dev/errtrace"

	"go.tlbx.dev/chromatex/internal/errdefer"
	"go.tlbx.dev/chromatex/internal/extract"
	"go.tlbx.dev/chromatex/internal/header"
	"go.tlbx.dev/chromatex/internal/highlight"
	"go.tlbx.dev/chromatex/internal/latex"
)

func main() {
	cmd := mainCmd{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdin  io.Reader // == os.Stdin
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	log     *log.Logger
	scanner *lineReader
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
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

	if err := cmd.run(opts); err != nil {
		cmd.log.Printf("chromatex: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(opts *params) (err error) {
	debugw, closeDebug, err := opts.Debug.Create(cmd.Stderr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer func() { err = errors.Join(err, closeDebug()) }()
	debugLog := log.New(debugw, "", 0)

	if !opts.Trust {
		if err := cmd.promptInput(opts); err != nil {
			return errtrace.Wrap(err)
		}
		if !opts.SwapExt {
			if err := cmd.promptOutput(opts); err != nil {
				return errtrace.Wrap(err)
			}
		}
	}

	if opts.SwapExt && opts.Output == "" {
		if err := cmd.swapExt(opts); err != nil {
			return errtrace.Wrap(err)
		}
	}

	if opts.Input == "" {
		return errtrace.New("no input file; pass -input or drop -trust")
	}
	if opts.Output == "" {
		return errtrace.New("no output file; pass -output or -swap-ext, or drop -trust")
	}

	source, err := os.ReadFile(opts.Input)
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("read input: %w", err))
	}

	caption, label := opts.Caption, opts.Label
	var skipFirstLine bool
	if info, ok := header.Parse(string(source), opts.headerPrefixes()); ok {
		debugLog.Printf("using header metadata: caption=%q label=%q", info.Caption, info.Label)
		if info.Caption != "" {
			caption = info.Caption
		}
		if info.Label != "" {
			label = info.Label
		}
		skipFirstLine = true
	}

	var hl Highlighter
	switch opts.Highlighter {
	case highlighterTreeSitter:
		hl = &highlight.TreeSitter{Log: cmd.log, Debug: debugLog}
	default:
		hl = &highlight.Chroma{Style: opts.Style, Debug: debugLog}
	}

	conv := Converter{
		Log:         cmd.log,
		Highlighter: hl,
		Extractor: &extract.Extractor{
			DefaultColor:  opts.DefaultColor,
			SkipFirstLine: skipFirstLine,
			Debug:         debugLog,
		},
		Renderer: &latex.Renderer{
			TabSize:     opts.TabSize,
			EscapeStart: opts.EscapeStart,
			EscapeEnd:   opts.EscapeEnd,
			German:      opts.German,
		},
	}

	out, err := conv.Convert(context.Background(), ConvertRequest{
		Path:    opts.Input,
		Source:  source,
		Caption: caption,
		Label:   label,
		Raw:     opts.Raw,
	})
	if err != nil {
		return errtrace.Wrap(err)
	}

	if opts.Dump {
		fmt.Fprint(cmd.Stdout, out)
		// Raw output may lack a final newline.
		if !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(cmd.Stdout)
		}
	}

	if err := writeOutput(opts.Output, out); err != nil {
		return errtrace.Wrap(fmt.Errorf("write output: %w", err))
	}
	debugLog.Printf("wrote %v", opts.Output)
	return nil
}

// swapExt derives the output path from the input path
// by swapping its extension to ".tex".
func (cmd *mainCmd) swapExt(opts *params) error {
	if opts.Input == "" {
		return errtrace.New("-swap-ext requires an input file")
	}

	ext := filepath.Ext(opts.Input)
	opts.Output = strings.TrimSuffix(opts.Input, ext) + ".tex"
	if fileExists(opts.Output) {
		if !opts.Force {
			return errtrace.Errorf("output file %v already exists; use -force to overwrite it", opts.Output)
		}
		cmd.log.Printf("output file %v already exists, overwriting it", opts.Output)
	}
	return nil
}

func writeOutput(path, text string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer errdefer.Close(&err, f)

	_, err = io.WriteString(f, text)
	return errtrace.Wrap(err)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
