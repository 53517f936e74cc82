//go:build !cgo || !(linux || darwin)

package readline

import (
	"unsafe"

	"github.com/chazuruo/rlfzf/internal/cstring"
	"github.com/chazuruo/rlfzf/internal/errors"
	"github.com/chazuruo/rlfzf/internal/history"
	"github.com/chazuruo/rlfzf/internal/symbols"
)

// Supported reports whether this build can bind to readline.
const Supported = false

// NextSymbol always fails in this build.
func NextSymbol(name string) (unsafe.Pointer, error) {
	return nil, errors.Wrap(errors.ErrUnsupported, name)
}

// Host is not available in this build.
type Host struct{}

// Bind always fails in this build.
func Bind() (*Host, error) {
	return nil, errors.Wrap(errors.ErrUnsupported, "readline binding requires cgo on linux or darwin")
}

func (h *Host) EndOfLine() error   { return errors.ErrUnsupported }
func (h *Host) DiscardLine() error { return errors.ErrUnsupported }
func (h *Host) Refresh() error     { return errors.ErrUnsupported }

func (h *Host) InsertText(cstring.Terminated) error { return errors.ErrUnsupported }

func (h *Host) History() history.List { return nil }

// CallCommand reports failure in this build.
func CallCommand(symbols.Symbol, int, int) int { return 1 }

// SelfPath is unknown in this build.
func SelfPath() string { return "" }
