// Package linebuf provides line-buffered IO utilities.
package linebuf

import (
	"bytes"
	"io"
	"sync"
)

// Writer returns an io.Writer that splits its input on newlines,
// calling emit for each full line, trailing newline included.
// The done function flushes any text left over from a partial line;
// call it once no more writes are coming.
//
// Subprocesses write to their pipes in arbitrary chunks,
// so a single Write may carry part of a line or several lines at once.
func Writer(emit func(line []byte)) (_ io.Writer, done func()) {
	w := writer{emit: emit}
	return &w, w.flush
}

type writer struct {
	emit func([]byte)

	mu      sync.Mutex // guards partial
	partial bytes.Buffer
}

func (w *writer) Write(bs []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	total := len(bs)
	for len(bs) > 0 {
		idx := bytes.IndexByte(bs, '\n')
		if idx < 0 {
			// No newline yet. Hold on to the tail.
			w.partial.Write(bs)
			break
		}

		var line []byte
		line, bs = bs[:idx+1], bs[idx+1:]

		if w.partial.Len() > 0 {
			w.partial.Write(line)
			line = w.partial.Bytes()
		}
		w.emit(line)
		w.partial.Reset()
	}
	return total, nil
}

func (w *writer) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.partial.Len() > 0 {
		w.emit(w.partial.Bytes())
		w.partial.Reset()
	}
}
