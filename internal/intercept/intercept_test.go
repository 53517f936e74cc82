package intercept

import (
	"context"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/rlfzf/internal/cstring"
	"github.com/chazuruo/rlfzf/internal/errors"
	"github.com/chazuruo/rlfzf/internal/history"
	"github.com/chazuruo/rlfzf/internal/inject"
	"github.com/chazuruo/rlfzf/internal/selector"
	"github.com/chazuruo/rlfzf/internal/symbols"
)

type fakeRunner struct {
	out   selector.Outcome
	err   error
	calls int
	seen  history.Lines
}

func (r *fakeRunner) Run(_ context.Context, src history.Source) (selector.Outcome, error) {
	r.calls++
	r.seen = history.Collect(src)
	return r.out, r.err
}

type fakeDelegate struct {
	calls []string
	ret   int
	err   error
}

func (d *fakeDelegate) CallOriginal(name string, count, key int) (int, error) {
	d.calls = append(d.calls, name)
	return d.ret, d.err
}

func selected(s string) selector.Outcome {
	return selector.Outcome{Kind: selector.Selected, Text: cstring.FromString(s)}
}

func TestSearch_SelectedReplacesLine(t *testing.T) {
	for _, d := range []Direction{Reverse, Forward} {
		t.Run(d.String(), func(t *testing.T) {
			runner := &fakeRunner{out: selected("def")}
			ed := &inject.Recorder{}
			orig := &fakeDelegate{}
			i := New(runner, history.StringLines("abc", "def"), ed, orig)

			code := i.Search(context.Background(), d, 1, 18)

			assert.Equal(t, Handled, code)
			assert.Equal(t, 1, runner.calls)
			assert.Equal(t, history.StringLines("abc", "def"), runner.seen)
			assert.Equal(t, []string{"end-of-line", "discard-line", "refresh", "insert-text"}, ed.Calls)
			require.Len(t, ed.Inserted, 1)
			assert.Equal(t, []byte("def\x00"), ed.Inserted[0].Bytes())
			assert.Empty(t, orig.calls)
		})
	}
}

func TestSearch_CancelledRefreshesOnce(t *testing.T) {
	runner := &fakeRunner{out: selector.Outcome{Kind: selector.Cancelled, ExitCode: 130}}
	ed := &inject.Recorder{}
	orig := &fakeDelegate{}
	i := New(runner, history.Lines(nil), ed, orig)

	code := i.Search(context.Background(), Reverse, 1, 18)

	assert.Equal(t, Handled, code)
	assert.Equal(t, []string{"refresh"}, ed.Calls)
	assert.Empty(t, ed.Inserted)
	assert.Empty(t, orig.calls)
}

func TestSearch_CancelledFallsThroughWhenConfigured(t *testing.T) {
	runner := &fakeRunner{out: selector.Outcome{Kind: selector.Cancelled}}
	ed := &inject.Recorder{}
	orig := &fakeDelegate{ret: 7}
	i := New(runner, history.Lines(nil), ed, orig,
		WithPolicy(Policy{Enabled: true, OnCancel: CancelOriginal, OnError: ErrorFail}))

	code := i.Search(context.Background(), Forward, 1, 19)

	assert.Equal(t, 7, code)
	assert.Equal(t, 1, ed.Count("refresh"))
	assert.Equal(t, []string{symbols.ForwardSearchHistory}, orig.calls)
}

func TestSearch_ErrorPolicies(t *testing.T) {
	spawnErr := &errors.SessionError{Op: "spawn", Err: errors.ErrSpawn}

	t.Run("falls back to the original", func(t *testing.T) {
		ed := &inject.Recorder{}
		orig := &fakeDelegate{ret: 0}
		i := New(&fakeRunner{err: spawnErr}, history.Lines(nil), ed, orig)

		assert.Equal(t, 0, i.Search(context.Background(), Reverse, 1, 18))
		assert.Equal(t, []string{symbols.ReverseSearchHistory}, orig.calls)
		assert.Equal(t, []string{"refresh"}, ed.Calls)
	})

	t.Run("fails", func(t *testing.T) {
		ed := &inject.Recorder{}
		orig := &fakeDelegate{}
		i := New(&fakeRunner{err: spawnErr}, history.Lines(nil), ed, orig,
			WithPolicy(Policy{Enabled: true, OnCancel: CancelRefresh, OnError: ErrorFail}))

		assert.Equal(t, Failed, i.Search(context.Background(), Reverse, 1, 18))
		assert.Empty(t, orig.calls)
		assert.Empty(t, ed.Inserted)
	})

	t.Run("unresolved original", func(t *testing.T) {
		orig := &fakeDelegate{err: errors.ErrUnresolved}
		i := New(&fakeRunner{err: spawnErr}, history.Lines(nil), &inject.Recorder{}, orig)
		assert.Equal(t, Failed, i.Search(context.Background(), Reverse, 1, 18))
	})

	t.Run("nil delegate", func(t *testing.T) {
		i := New(&fakeRunner{err: spawnErr}, history.Lines(nil), &inject.Recorder{}, nil)
		assert.Equal(t, Failed, i.Search(context.Background(), Reverse, 1, 18))
	})
}

func TestSearch_Disabled(t *testing.T) {
	runner := &fakeRunner{}
	orig := &fakeDelegate{ret: 3}
	i := New(runner, history.Lines(nil), &inject.Recorder{}, orig,
		WithPolicy(Policy{Enabled: false}))

	assert.Equal(t, 3, i.Search(context.Background(), Reverse, 1, 18))
	assert.Zero(t, runner.calls)
	assert.Equal(t, []string{symbols.ReverseSearchHistory}, orig.calls)
}

func TestSearch_InjectFailure(t *testing.T) {
	ed := &inject.Recorder{Fail: "insert-text", Err: errors.ErrUnresolved}
	i := New(&fakeRunner{out: selected("x")}, history.Lines(nil), ed, &fakeDelegate{})
	assert.Equal(t, Failed, i.Search(context.Background(), Reverse, 1, 18))
}

type panicRunner struct{}

func (panicRunner) Run(context.Context, history.Source) (selector.Outcome, error) {
	panic("boom")
}

func TestSearch_RecoversPanics(t *testing.T) {
	i := New(panicRunner{}, history.Lines(nil), &inject.Recorder{}, &fakeDelegate{})
	assert.Equal(t, Failed, i.Search(context.Background(), Reverse, 1, 18))
}

type fakeCaller struct {
	got []symbols.Symbol
}

func (c *fakeCaller) Call(sym symbols.Symbol, count, key int) int {
	c.got = append(c.got, sym)
	return count + key
}

func TestSymbolDelegate(t *testing.T) {
	var target byte
	table := symbols.Load(func(name string) (unsafe.Pointer, error) {
		if name == symbols.ReverseSearchHistory {
			return unsafe.Pointer(&target), nil
		}
		return nil, nil
	}, symbols.ReverseSearchHistory, symbols.ForwardSearchHistory)

	caller := &fakeCaller{}
	d := SymbolDelegate{Table: table, Caller: caller}

	ret, err := d.CallOriginal(symbols.ReverseSearchHistory, 2, 18)
	require.NoError(t, err)
	assert.Equal(t, 20, ret)
	require.Len(t, caller.got, 1)
	assert.Equal(t, symbols.ReverseSearchHistory, caller.got[0].Name)

	_, err = d.CallOriginal(symbols.ForwardSearchHistory, 1, 19)
	assert.True(t, errors.IsUnresolved(err))
	assert.Len(t, caller.got, 1, "unresolved originals are never called")
}

func TestDirection(t *testing.T) {
	assert.Equal(t, symbols.ReverseSearchHistory, Reverse.Symbol())
	assert.Equal(t, symbols.ForwardSearchHistory, Forward.Symbol())
	assert.Equal(t, Policy{Enabled: true, OnCancel: CancelRefresh, OnError: ErrorOriginal}, DefaultPolicy())
}
