package shell

import (
	"bytes"
	"strings"
	"sync"

	"go.trai.ch/tsbuild/internal/core/domain"
)

// lineWriter splits written bytes into lines and hands each one to a handler.
type lineWriter struct {
	mu      sync.Mutex
	handler domain.LineHandler
	buf     []byte
}

func newLineWriter(handler domain.LineHandler) *lineWriter {
	return &lineWriter{handler: handler}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush delivers a trailing line that had no newline.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *lineWriter) emit(line []byte) {
	// PTYs and Windows tools end lines with \r\n.
	w.handler(strings.TrimSuffix(string(line), "\r"))
}
