package errors_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	rlerrors "github.com/chazuruo/rlfzf/internal/errors"
)

// TestBaseErrors verifies that all base error types have correct messages.
func TestBaseErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrNotFound", rlerrors.ErrNotFound, "not found"},
		{"ErrInvalid", rlerrors.ErrInvalid, "invalid"},
		{"ErrIO", rlerrors.ErrIO, "I/O error"},
		{"ErrCanceled", rlerrors.ErrCanceled, "canceled"},
		{"ErrSpawn", rlerrors.ErrSpawn, "spawn failed"},
		{"ErrPipe", rlerrors.ErrPipe, "pipe I/O failed"},
		{"ErrUnresolved", rlerrors.ErrUnresolved, "symbol unresolved"},
		{"ErrUnsupported", rlerrors.ErrUnsupported, "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSessionError verifies SessionError formatting and unwrapping.
func TestSessionError(t *testing.T) {
	tests := []struct {
		name string
		err  *rlerrors.SessionError
		want string
	}{
		{
			name: "with command",
			err:  &rlerrors.SessionError{Op: "spawn", Err: rlerrors.ErrSpawn, Cmd: "fzf +m --tac --print0"},
			want: "selector spawn: spawn failed\n  cmd: fzf +m --tac --print0",
		},
		{
			name: "without command",
			err:  &rlerrors.SessionError{Op: "read", Err: rlerrors.ErrPipe},
			want: "selector read: pipe I/O failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("Unwrap returns original error", func(t *testing.T) {
		wrapped := &rlerrors.SessionError{Op: "write", Err: rlerrors.ErrPipe}
		if !errors.Is(wrapped, rlerrors.ErrPipe) {
			t.Error("Unwrap() did not return the original error for errors.Is")
		}
	})
}

// TestConfigError verifies ConfigError formatting and unwrapping.
func TestConfigError(t *testing.T) {
	withPath := &rlerrors.ConfigError{Path: "/home/me/.config/rlfzf/config.toml", Err: rlerrors.ErrInvalid}
	if got, want := withPath.Error(), "config /home/me/.config/rlfzf/config.toml: invalid"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	withoutPath := &rlerrors.ConfigError{Err: os.ErrNotExist}
	if got, want := withoutPath.Error(), "config: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(withoutPath, os.ErrNotExist) {
		t.Error("ConfigError does not unwrap to os.ErrNotExist")
	}
}

// TestJoin verifies that a joined error matches both its kind and cause.
func TestJoin(t *testing.T) {
	cause := fmt.Errorf("exec: \"fzf\": executable file not found in $PATH")
	err := rlerrors.Join(rlerrors.ErrSpawn, cause)

	if !rlerrors.IsSpawn(err) {
		t.Error("IsSpawn(joined) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(joined, cause) = false, want true")
	}
	want := "spawn failed: exec: \"fzf\": executable file not found in $PATH"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// TestIsHelpers verifies all Is<TYPE>() helper functions.
func TestIsHelpers(t *testing.T) {
	baseTests := []struct {
		name    string
		baseErr error
		isFunc  func(error) bool
	}{
		{"IsNotFound", rlerrors.ErrNotFound, rlerrors.IsNotFound},
		{"IsInvalid", rlerrors.ErrInvalid, rlerrors.IsInvalid},
		{"IsIO", rlerrors.ErrIO, rlerrors.IsIO},
		{"IsCanceled", rlerrors.ErrCanceled, rlerrors.IsCanceled},
		{"IsSpawn", rlerrors.ErrSpawn, rlerrors.IsSpawn},
		{"IsPipe", rlerrors.ErrPipe, rlerrors.IsPipe},
		{"IsUnresolved", rlerrors.ErrUnresolved, rlerrors.IsUnresolved},
		{"IsUnsupported", rlerrors.ErrUnsupported, rlerrors.IsUnsupported},
	}

	for _, tt := range baseTests {
		t.Run(tt.name+" direct", func(t *testing.T) {
			if !tt.isFunc(tt.baseErr) {
				t.Errorf("%s(%v) = false, want true", tt.name, tt.baseErr)
			}
		})
		t.Run(tt.name+" wrapped", func(t *testing.T) {
			if !tt.isFunc(rlerrors.Wrap(tt.baseErr, "outer")) {
				t.Errorf("%s(wrapped) = false, want true", tt.name)
			}
		})
	}

	t.Run("IsSpawn with different error", func(t *testing.T) {
		if rlerrors.IsSpawn(rlerrors.ErrPipe) {
			t.Error("IsSpawn(ErrPipe) = true, want false")
		}
	})
}

// TestAsHelpers verifies the As<TYPE>Error() helper functions.
func TestAsHelpers(t *testing.T) {
	t.Run("AsSessionError with wrapped", func(t *testing.T) {
		wrapped := rlerrors.Wrap(&rlerrors.SessionError{Op: "wait", Err: rlerrors.ErrIO}, "search")
		result, ok := rlerrors.AsSessionError(wrapped)
		if !ok {
			t.Fatal("AsSessionError(wrapped) = false, want true")
		}
		if result.Op != "wait" {
			t.Errorf("AsSessionError returned wrong Op: got %q, want 'wait'", result.Op)
		}
	})

	t.Run("AsSessionError with wrong type", func(t *testing.T) {
		if _, ok := rlerrors.AsSessionError(rlerrors.ErrSpawn); ok {
			t.Error("AsSessionError(ErrSpawn) = true, want false")
		}
	})

	t.Run("AsConfigError", func(t *testing.T) {
		ce := &rlerrors.ConfigError{Path: "/path/to/config", Err: rlerrors.ErrInvalid}
		result, ok := rlerrors.AsConfigError(ce)
		if !ok {
			t.Fatal("AsConfigError(valid) = false, want true")
		}
		if result.Path != "/path/to/config" {
			t.Errorf("AsConfigError returned wrong Path: got %q", result.Path)
		}
	})
}

// TestErrorChaining verifies that error chaining works correctly.
func TestErrorChaining(t *testing.T) {
	base := rlerrors.ErrUnresolved
	layer1 := rlerrors.Wrap(base, "rl_reverse_search_history")
	layer2 := rlerrors.Wrap(layer1, "call original")

	if !errors.Is(layer2, base) {
		t.Error("double-wrapped error does not match base via errors.Is")
	}

	expected := "call original: rl_reverse_search_history: symbol unresolved"
	if got := layer2.Error(); got != expected {
		t.Errorf("chained error message = %q, want %q", got, expected)
	}

	if rlerrors.Wrap(nil, "noop") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}
