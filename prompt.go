package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"braces.dev/errtrace"
)

// The interactive fallback: when -trust is not set, missing or
// unusable paths are requested on stdin instead of failing outright.

// promptInput asks for an input path until it names an existing file.
func (cmd *mainCmd) promptInput(opts *params) error {
	for {
		if opts.Input != "" {
			if fileExists(opts.Input) {
				return nil
			}
			fmt.Fprintf(cmd.Stdout, "Input file %q does not exist.\n", opts.Input)
		}

		fmt.Fprint(cmd.Stdout, "Enter the input file path: ")
		line, err := cmd.readLine()
		if err != nil {
			return errtrace.Wrap(fmt.Errorf("read input path: %w", err))
		}
		opts.Input = line
	}
}

// promptOutput asks for an output path,
// and for permission before overwriting an existing file.
func (cmd *mainCmd) promptOutput(opts *params) error {
	for {
		if opts.Output == "" {
			fmt.Fprint(cmd.Stdout, "Enter the output file path: ")
			line, err := cmd.readLine()
			if err != nil {
				return errtrace.Wrap(fmt.Errorf("read output path: %w", err))
			}
			opts.Output = line
			continue
		}

		if opts.Force || !fileExists(opts.Output) {
			return nil
		}

		fmt.Fprintf(cmd.Stdout, "Output file %q already exists. Overwrite? [y/N] ", opts.Output)
		line, err := cmd.readLine()
		if err != nil {
			return errtrace.Wrap(fmt.Errorf("read confirmation: %w", err))
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return nil
		default:
			opts.Output = ""
		}
	}
}

// lineReader reads whole lines off the command's stdin.
// A single reader is shared across prompts
// so buffered input is not lost between them.
type lineReader struct {
	scan *bufio.Scanner
}

func (cmd *mainCmd) readLine() (string, error) {
	if cmd.scanner == nil {
		cmd.scanner = &lineReader{scan: bufio.NewScanner(cmd.Stdin)}
	}
	if !cmd.scanner.scan.Scan() {
		if err := cmd.scanner.scan.Err(); err != nil {
			return "", errtrace.Wrap(err)
		}
		return "", errtrace.Wrap(io.EOF)
	}
	return strings.TrimSpace(cmd.scanner.scan.Text()), nil
}
