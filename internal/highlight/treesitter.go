package highlight

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"

	"braces.dev/errtrace"

	"go.tlbx.dev/chromatex/internal/linebuf"
)

// ErrNoLanguage is returned when tree-sitter has no parser installed
// for the input file's language.
var ErrNoLanguage = errors.New("no language parser available")

// TreeSitter invokes the tree-sitter CLI to highlight source files.
// Its HTML output uses the line-table convention:
// one table row per source line.
type TreeSitter struct {
	// Exe is the path to the tree-sitter executable.
	// If unset, $PATH is searched.
	Exe string

	// Log receives warnings reported by tree-sitter on stderr.
	Log *log.Logger

	// Debug receives diagnostics about the invocation.
	Debug *log.Logger
}

// Highlight runs "tree-sitter highlight -H" on the file at req.Path
// and returns the HTML document it prints.
//
// tree-sitter sometimes exits zero while still complaining on stderr.
// A missing language parser surfaces as [ErrNoLanguage]; anything else
// is logged as a warning and the output is used as-is.
func (ts *TreeSitter) Highlight(ctx context.Context, req Request) ([]byte, error) {
	logger := ts.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	exe := ts.Exe
	if exe == "" {
		exe = "tree-sitter"
	}

	logLine, done := linebuf.Writer(func(line []byte) {
		logger.Printf("tree-sitter: %s", bytes.TrimSuffix(line, []byte{'\n'}))
	})
	defer done()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, "highlight", "-H", req.Path)
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr, logLine)
	if ts.Debug != nil {
		ts.Debug.Printf("running %v", cmd)
	}

	if err := cmd.Run(); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("tree-sitter highlight: %w", err))
	}

	if msg := stderr.String(); msg != "" {
		if strings.Contains(msg, "No language found for") {
			return nil, errtrace.Wrap(fmt.Errorf("%v: %w", req.Path, ErrNoLanguage))
		}
		logger.Printf("tree-sitter reported problems; the output may be incorrect")
	}

	return stdout.Bytes(), nil
}
