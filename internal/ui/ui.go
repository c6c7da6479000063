// Package ui is the side channel for human-readable status lines.
package ui

import (
	"fmt"
	"io"
	"sync"
)

// Sink receives status lines. It never influences control flow.
type Sink interface {
	WriteLine(text string)
}

type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteLine(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintln(w.w, text)
}

type discard struct{}

func (discard) WriteLine(string) {}

// Discard drops every line.
var Discard Sink = discard{}

// Recorder keeps lines in memory.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *Recorder) WriteLine(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
}

func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}
