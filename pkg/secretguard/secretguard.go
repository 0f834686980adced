// Package secretguard masks registered secret values in output.
//
// A Masker is created per invocation. Every secret that may reach the
// wrapped command or the step log is registered before anything is
// written, then all output passes through Masker.Writer.
package secretguard

import (
	"bytes"
	"io"
	"sort"
	"strings"
	"sync"
)

// Mask replaces every registered secret value.
const Mask = "****"

// minLineLength is the shortest line of a multi-line secret that is masked
// on its own.
const minLineLength = 4

// maxBuffered bounds how much output a Writer holds while waiting for a newline.
const maxBuffered = 64 * 1024

// Guard registers secret values for masking.
type Guard interface {
	Register(values ...string)
}

// Masker is a Guard that masks the registered values.
type Masker struct {
	mu       sync.RWMutex
	values   map[string]struct{}
	replacer *strings.Replacer
}

func New() *Masker {
	return &Masker{values: map[string]struct{}{}}
}

// Register adds values to the masked set. Empty values are ignored. The
// lines of a multi-line value (a PEM block) are masked individually too,
// since output is masked line by line.
func (m *Masker) Register(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	add := func(v string) {
		if _, ok := m.values[v]; !ok {
			m.values[v] = struct{}{}
			changed = true
		}
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		add(v)
		if !strings.Contains(v, "\n") {
			continue
		}
		for _, line := range strings.Split(v, "\n") {
			line = strings.TrimSpace(line)
			if len(line) >= minLineLength {
				add(line)
			}
		}
	}
	if changed {
		m.rebuild()
	}
}

// rebuild orders the values longest first so that a secret containing
// another secret is masked whole.
func (m *Masker) rebuild() {
	sorted := make([]string, 0, len(m.values))
	for v := range m.values {
		sorted = append(sorted, v)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	pairs := make([]string, 0, 2*len(sorted))
	for _, v := range sorted {
		pairs = append(pairs, v, Mask)
	}
	m.replacer = strings.NewReplacer(pairs...)
}

// Mask returns s with every registered value replaced by the mask token.
func (m *Masker) Mask(s string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.replacer == nil {
		return s
	}
	return m.replacer.Replace(s)
}

// Writer returns a writer masking everything written to w. Output is
// forwarded line by line; Close flushes a trailing partial line.
func (m *Masker) Writer(w io.Writer) io.WriteCloser {
	return &maskingWriter{masker: m, out: w}
}

type maskingWriter struct {
	mu     sync.Mutex
	masker *Masker
	out    io.Writer
	buf    bytes.Buffer
}

func (w *maskingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)

	if i := bytes.LastIndexByte(w.buf.Bytes(), '\n'); i >= 0 {
		lines := w.buf.Next(i + 1)
		if err := w.flush(lines); err != nil {
			return 0, err
		}
	}
	if w.buf.Len() > maxBuffered {
		if err := w.flush(w.buf.Next(w.buf.Len())); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (w *maskingWriter) flush(b []byte) error {
	_, err := io.WriteString(w.out, w.masker.Mask(string(b)))
	return err
}

func (w *maskingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() == 0 {
		return nil
	}
	return w.flush(w.buf.Next(w.buf.Len()))
}
