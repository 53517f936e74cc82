package inject

import (
	"sync"

	"github.com/chazuruo/rlfzf/internal/cstring"
)

// Recorder is an Editor that records calls instead of editing anything.
// Tests in this and dependent packages use it to check call order.
type Recorder struct {
	mu       sync.Mutex
	Calls    []string
	Inserted []cstring.Terminated
	// Fail makes the named primitive return Err.
	Fail string
	Err  error
}

func (r *Recorder) record(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, name)
	if r.Fail == name {
		return r.Err
	}
	return nil
}

// EndOfLine implements Editor.
func (r *Recorder) EndOfLine() error { return r.record("end-of-line") }

// DiscardLine implements Editor.
func (r *Recorder) DiscardLine() error { return r.record("discard-line") }

// Refresh implements Editor.
func (r *Recorder) Refresh() error { return r.record("refresh") }

// InsertText implements Editor.
func (r *Recorder) InsertText(text cstring.Terminated) error {
	if err := r.record("insert-text"); err != nil {
		return err
	}
	r.mu.Lock()
	r.Inserted = append(r.Inserted, text)
	r.mu.Unlock()
	return nil
}

// Count returns how many times the named primitive was called.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.Calls {
		if c == name {
			n++
		}
	}
	return n
}
