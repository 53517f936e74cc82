// Package inject rewrites the host editor's current line.
package inject

import (
	"github.com/chazuruo/rlfzf/internal/cstring"
	"github.com/chazuruo/rlfzf/internal/errors"
)

// Editor is the set of line-editing primitives rlfzf drives. Each call maps
// to one primitive of the host library; errors only arise when a primitive
// is unavailable.
type Editor interface {
	EndOfLine() error
	DiscardLine() error
	Refresh() error
	InsertText(text cstring.Terminated) error
}

// ReplaceLine clears the current line and inserts text in its place:
// end-of-line, discard, refresh, insert. The insert primitive redraws on
// its own, so no refresh follows it. The first failing step aborts.
func ReplaceLine(ed Editor, text cstring.Terminated) error {
	if !text.Valid() {
		return errors.Wrap(errors.ErrInvalid, "replace line: text is not terminated")
	}
	if err := ed.EndOfLine(); err != nil {
		return errors.Wrap(err, "end of line")
	}
	if err := ed.DiscardLine(); err != nil {
		return errors.Wrap(err, "discard line")
	}
	if err := ed.Refresh(); err != nil {
		return errors.Wrap(err, "refresh")
	}
	if err := ed.InsertText(text); err != nil {
		return errors.Wrap(err, "insert text")
	}
	return nil
}
