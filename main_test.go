package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.tlbx.dev/chromatex/internal/iotest"
)

func TestMainCmd_help(t *testing.T) {
	t.Parallel()

	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"-h"})
	assert.Zero(t, exitCode, "-h should have zero status code")
}

func TestMainCmd_version(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &buff,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-version"})
	assert.Zero(t, exitCode, "-version should have zero status code")

	assert.Contains(t, buff.String(), "chromatex")
	assert.Contains(t, buff.String(), _version)
}

func TestMainCmd_unknownFlag(t *testing.T) {
	t.Parallel()

	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{"--this-flag-does-not-exist"})
	assert.NotZero(t, exitCode, "unknown flag should have non-zero status code")
}

func TestMainCmd_missingInput(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: &buff,
	}).Run([]string{"-trust"})
	assert.NotZero(t, exitCode)
	assert.Contains(t, buff.String(), "no input file")
}

func TestMainCmd_convert(t *testing.T) {
	t.Parallel()

	const source = "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"

	tests := []struct {
		desc         string
		flags        []string
		want         []string
		wantAbsent   []string
		wantInStdout []string
	}{
		{
			desc: "default wrapper",
			want: []string{
				`\begin{listing}[H]`,
				`\begin{Verbatim}[commandchars=\\\{\}]`,
				`\textcolor[HTML]{`,
				`\caption{Generated listing}`,
				`\label{lst:generated}`,
				`\end{listing}`,
			},
		},
		{
			desc:  "custom caption and label",
			flags: []string{"-caption", "My program", "-label", "lst:prog"},
			want: []string{
				`\caption{My program}`,
				`\label{lst:prog}`,
			},
		},
		{
			desc:       "raw",
			flags:      []string{"-raw"},
			want:       []string{`\textcolor[HTML]{`},
			wantAbsent: []string{`\begin{listing}`, `\begin{Verbatim}`, `\caption`, `\label`},
		},
		{
			desc:  "dump prints to stdout",
			flags: []string{"-dump"},
			wantInStdout: []string{
				`\begin{listing}[H]`,
				`\end{listing}`,
			},
		},
		{
			desc:  "tab expansion",
			flags: []string{"-tab-size", "2", "-raw"},
			// The tab before println becomes two spaces.
			wantAbsent: []string{"\t"},
		},
		{
			desc:  "zero tab size removes tabs",
			flags: []string{"-tab-size", "0", "-raw"},
			// The tab before println vanishes,
			// leaving no consecutive spaces anywhere.
			wantAbsent: []string{"\t", "  "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			input := filepath.Join(dir, "main.go")
			output := filepath.Join(dir, "main.tex")
			require.NoError(t, os.WriteFile(input, []byte(source), 0o644))

			var stdout bytes.Buffer
			args := append(tt.flags, "-trust", "-input", input, "-output", output)
			exitCode := (&mainCmd{
				Stdout: &stdout,
				Stderr: iotest.Writer(t),
			}).Run(args)
			require.Zero(t, exitCode, "expected success")

			got, err := os.ReadFile(output)
			require.NoError(t, err)

			for _, want := range tt.want {
				assert.Contains(t, string(got), want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, string(got), absent)
			}
			for _, want := range tt.wantInStdout {
				assert.Contains(t, stdout.String(), want)
			}
		})
	}
}

func TestMainCmd_dumpEndsWithNewline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "main.go")
	output := filepath.Join(dir, "main.tex")
	require.NoError(t, os.WriteFile(input, []byte("package main"), 0o644))

	var stdout bytes.Buffer
	exitCode := (&mainCmd{
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-trust", "-dump", "-raw", "-input", input, "-output", output})
	require.Zero(t, exitCode, "expected success")

	require.NotEmpty(t, stdout.String())
	assert.True(t, strings.HasSuffix(stdout.String(), "\n"),
		"dumped output must end with a newline, got:\n%v", stdout.String())
}

func TestMainCmd_headerOverridesMetadata(t *testing.T) {
	t.Parallel()

	const source = "// chromatex: caption: From header label: lst:header\n" +
		"package main\n"

	dir := t.TempDir()
	input := filepath.Join(dir, "main.go")
	output := filepath.Join(dir, "main.tex")
	require.NoError(t, os.WriteFile(input, []byte(source), 0o644))

	exitCode := (&mainCmd{
		Stdout: iotest.Writer(t),
		Stderr: iotest.Writer(t),
	}).Run([]string{
		"-trust",
		"-caption", "From flags",
		"-input", input,
		"-output", output,
	})
	require.Zero(t, exitCode, "expected success")

	got, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Contains(t, string(got), `\caption{From header}`)
	assert.Contains(t, string(got), `\label{lst:header}`)
	assert.NotContains(t, string(got), "From flags")
	assert.NotContains(t, string(got), "chromatex:",
		"the header line must not appear in the listing")
}

func TestMainCmd_swapExt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "main.go")
	output := filepath.Join(dir, "main.tex")
	require.NoError(t, os.WriteFile(input, []byte("package main\n"), 0o644))

	t.Run("derives output path", func(t *testing.T) {
		exitCode := (&mainCmd{
			Stdout: iotest.Writer(t),
			Stderr: iotest.Writer(t),
		}).Run([]string{"-trust", "-swap-ext", "-input", input})
		require.Zero(t, exitCode, "expected success")

		_, err := os.Stat(output)
		assert.NoError(t, err, "expected %v to exist", output)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		var buff bytes.Buffer
		exitCode := (&mainCmd{
			Stdout: iotest.Writer(t),
			Stderr: &buff,
		}).Run([]string{"-trust", "-swap-ext", "-input", input})
		assert.NotZero(t, exitCode)
		assert.Contains(t, buff.String(), "use -force")
	})

	t.Run("force overwrites", func(t *testing.T) {
		exitCode := (&mainCmd{
			Stdout: iotest.Writer(t),
			Stderr: iotest.Writer(t),
		}).Run([]string{"-trust", "-swap-ext", "-force", "-input", input})
		assert.Zero(t, exitCode, "expected success")
	})
}

func TestMainCmd_interactiveInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "main.go")
	output := filepath.Join(dir, "main.tex")
	require.NoError(t, os.WriteFile(input, []byte("package main\n"), 0o644))

	// The first path doesn't exist; the second does.
	stdin := strings.NewReader(
		filepath.Join(dir, "nope.go") + "\n" + input + "\n")

	var stdout bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  stdin,
		Stdout: &stdout,
		Stderr: iotest.Writer(t),
	}).Run([]string{"-output", output})
	require.Zero(t, exitCode, "expected success")

	assert.Contains(t, stdout.String(), "Enter the input file path")
	assert.Contains(t, stdout.String(), "does not exist")

	_, err := os.Stat(output)
	assert.NoError(t, err)
}

func TestMainCmd_interactiveStdinClosed(t *testing.T) {
	t.Parallel()

	var buff bytes.Buffer
	exitCode := (&mainCmd{
		Stdin:  strings.NewReader(""),
		Stdout: iotest.Writer(t),
		Stderr: &buff,
	}).Run(nil)
	assert.NotZero(t, exitCode, "EOF on stdin should fail the run")
}
