// Package intercept decides what happens when the host editor invokes one
// of the overridden history-search commands.
package intercept

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chazuruo/rlfzf/internal/errors"
	"github.com/chazuruo/rlfzf/internal/history"
	"github.com/chazuruo/rlfzf/internal/inject"
	"github.com/chazuruo/rlfzf/internal/selector"
	"github.com/chazuruo/rlfzf/internal/symbols"
)

// Return codes handed back to the host library.
const (
	Handled = 0
	Failed  = 1
)

// Direction is the search direction of the invoked command. The selector
// ignores it; it only picks which original to delegate to.
type Direction int

const (
	Reverse Direction = iota
	Forward
)

// Symbol returns the name of the command the direction overrides.
func (d Direction) Symbol() string {
	if d == Forward {
		return symbols.ForwardSearchHistory
	}
	return symbols.ReverseSearchHistory
}

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "reverse"
}

// CancelAction is what to do after the user dismisses the selector.
type CancelAction string

const (
	// CancelRefresh redraws the line and reports the command handled.
	CancelRefresh CancelAction = "refresh"
	// CancelOriginal redraws and then runs the original incremental search.
	CancelOriginal CancelAction = "original"
)

// ErrorAction is what to do when the selector cannot run.
type ErrorAction string

const (
	// ErrorOriginal falls back to the original incremental search.
	ErrorOriginal ErrorAction = "original"
	// ErrorFail reports failure to the host.
	ErrorFail ErrorAction = "fail"
)

// Policy configures an Interceptor.
type Policy struct {
	Enabled  bool
	OnCancel CancelAction
	OnError  ErrorAction
}

// DefaultPolicy refreshes on cancel and falls back to the original search
// when the selector cannot be run.
func DefaultPolicy() Policy {
	return Policy{Enabled: true, OnCancel: CancelRefresh, OnError: ErrorOriginal}
}

// Delegate calls the implementation an entry point shadows.
type Delegate interface {
	CallOriginal(name string, count, key int) (int, error)
}

// Interceptor routes history-search commands to the selector.
type Interceptor struct {
	runner   selector.Runner
	source   history.Source
	editor   inject.Editor
	delegate Delegate
	policy   Policy
	logger   *slog.Logger
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithPolicy sets the policy.
func WithPolicy(p Policy) Option {
	return func(i *Interceptor) {
		i.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interceptor) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New creates an Interceptor.
func New(runner selector.Runner, source history.Source, editor inject.Editor, delegate Delegate, opts ...Option) *Interceptor {
	i := &Interceptor{
		runner:   runner,
		source:   source,
		editor:   editor,
		delegate: delegate,
		policy:   DefaultPolicy(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Policy returns the active policy.
func (i *Interceptor) Policy() Policy {
	return i.policy
}

// Search handles one invocation of a history-search command and returns
// the host's expected status code. It never panics.
func (i *Interceptor) Search(ctx context.Context, d Direction, count, key int) (code int) {
	log := i.logger.With("direction", d.String(), "count", count, "key", key)

	defer func() {
		if r := recover(); r != nil {
			log.Error("search panicked", "panic", fmt.Sprint(r))
			code = Failed
		}
	}()

	if !i.policy.Enabled {
		return i.original(log, d, count, key)
	}

	out, err := i.runner.Run(ctx, i.source)
	if err != nil {
		log.Error("selector failed", "error", err, "on_error", string(i.policy.OnError))
		i.refresh(log)
		if i.policy.OnError == ErrorOriginal {
			return i.original(log, d, count, key)
		}
		return Failed
	}

	if out.Kind == selector.Selected {
		if err := inject.ReplaceLine(i.editor, out.Text); err != nil {
			log.Error("replacing line failed", "error", err)
			return Failed
		}
		return Handled
	}

	i.refresh(log)
	if i.policy.OnCancel == CancelOriginal {
		return i.original(log, d, count, key)
	}
	return Handled
}

func (i *Interceptor) refresh(log *slog.Logger) {
	if err := i.editor.Refresh(); err != nil {
		log.Warn("refresh failed", "error", err)
	}
}

func (i *Interceptor) original(log *slog.Logger, d Direction, count, key int) int {
	if i.delegate == nil {
		log.Error("original search unavailable", "error", errors.ErrUnresolved)
		return Failed
	}
	ret, err := i.delegate.CallOriginal(d.Symbol(), count, key)
	if err != nil {
		log.Error("original search unavailable", "error", err)
		return Failed
	}
	return ret
}

// Caller invokes a resolved C function with the (count, key) signature.
type Caller interface {
	Call(sym symbols.Symbol, count, key int) int
}

// SymbolDelegate resolves originals from a symbol table and calls them
// through caller. Unresolved symbols are reported, never called.
type SymbolDelegate struct {
	Table  *symbols.Table
	Caller Caller
}

// CallOriginal implements Delegate.
func (d SymbolDelegate) CallOriginal(name string, count, key int) (int, error) {
	sym, err := d.Table.Get(name)
	if err != nil {
		return Failed, err
	}
	if !sym.Valid() || d.Caller == nil {
		return Failed, errors.Wrap(errors.ErrUnresolved, name)
	}
	return d.Caller.Call(sym, count, key), nil
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(sym symbols.Symbol, count, key int) int

// Call implements Caller.
func (f CallerFunc) Call(sym symbols.Symbol, count, key int) int {
	return f(sym, count, key)
}
