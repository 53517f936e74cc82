// Package selector runs the external fuzzy filter over a history stream.
//
// A Session owns one selector process per Run: history is written to its
// stdin by one goroutine while another drains its stdout, so neither pipe can
// fill up and stall the other. The tool owns matching and the terminal UI;
// the session only moves bytes and classifies the outcome.
package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/chazuruo/rlfzf/internal/cstring"
	"github.com/chazuruo/rlfzf/internal/errors"
	"github.com/chazuruo/rlfzf/internal/history"
)

// DefaultCommand is the selector used when none is configured.
const DefaultCommand = "fzf"

// BaseArgs are always passed first: single selection, newest entry at the
// top, NUL-terminated output.
var BaseArgs = []string{"+m", "--tac", "--print0"}

// Kind classifies a finished session.
type Kind int

const (
	// Cancelled means the tool exited with a non-zero status.
	Cancelled Kind = iota
	// Selected means the tool exited successfully with a choice.
	Selected
)

func (k Kind) String() string {
	switch k {
	case Selected:
		return "selected"
	default:
		return "cancelled"
	}
}

// Outcome is the result of a session.
type Outcome struct {
	Kind Kind
	// Text is the selection; only set when Kind is Selected.
	Text cstring.Terminated
	// ExitCode is the tool's exit status.
	ExitCode int
}

// Runner runs a selection over src.
type Runner interface {
	Run(ctx context.Context, src history.Source) (Outcome, error)
}

// Session spawns the configured selector command.
type Session struct {
	command string
	args    []string
	env     []string
	stderr  io.Writer
	logger  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithCommand sets the selector executable.
func WithCommand(command string) Option {
	return func(s *Session) {
		if command != "" {
			s.command = command
		}
	}
}

// WithArgs appends arguments after BaseArgs.
func WithArgs(args ...string) Option {
	return func(s *Session) {
		s.args = append(s.args, args...)
	}
}

// WithEnv adds KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) Option {
	return func(s *Session) {
		s.env = append(s.env, env...)
	}
}

// WithStderr redirects the tool's stderr. The default is os.Stderr, where
// fzf draws its interface.
func WithStderr(w io.Writer) Option {
	return func(s *Session) {
		s.stderr = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Session.
func New(opts ...Option) *Session {
	s := &Session{
		command: DefaultCommand,
		stderr:  os.Stderr,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Args returns the full argument list passed to the command.
func (s *Session) Args() []string {
	return append(append([]string{}, BaseArgs...), s.args...)
}

// CommandLine returns the command and arguments for display.
func (s *Session) CommandLine() string {
	return strings.Join(append([]string{s.command}, s.Args()...), " ")
}

// Command returns the selector executable.
func (s *Session) Command() string {
	return s.command
}

// openPipes attaches stdin and stdout pipes to cmd. On failure nothing
// stays open.
func openPipes(cmd *exec.Cmd) (io.WriteCloser, io.ReadCloser, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		if f, ok := cmd.Stdin.(*os.File); ok {
			f.Close()
		}
		cmd.Stdin = nil
		return nil, nil, err
	}
	return stdin, stdout, nil
}

// Run spawns the selector, streams src into it and collects the choice.
// The process is always spawned, even for an empty source. A non-zero exit
// is reported as Cancelled with a nil error.
func (s *Session) Run(ctx context.Context, src history.Source) (Outcome, error) {
	startTime := time.Now()
	log := s.logger.With("session", uuid.NewString(), "cmd", s.command)

	cmd := exec.CommandContext(ctx, s.command, s.Args()...)
	cmd.Stderr = s.stderr
	if len(s.env) > 0 {
		cmd.Env = append(os.Environ(), s.env...)
	}

	stdin, stdout, err := openPipes(cmd)
	if err != nil {
		return Outcome{}, &errors.SessionError{Op: "spawn", Cmd: s.CommandLine(), Err: errors.Join(errors.ErrSpawn, err)}
	}

	// Writes to a selector that already exited must fail with EPIPE rather
	// than deliver SIGPIPE to the host process.
	sigpipe := make(chan os.Signal, 1)
	signal.Notify(sigpipe, syscall.SIGPIPE)
	defer signal.Stop(sigpipe)

	if err := cmd.Start(); err != nil {
		log.Error("selector failed to start", "error", err)
		return Outcome{}, &errors.SessionError{Op: "spawn", Cmd: s.CommandLine(), Err: errors.Join(errors.ErrSpawn, err)}
	}

	var (
		wg       sync.WaitGroup
		written  int
		writeErr error
		output   []byte
		readErr  error
	)
	wg.Add(2)

	// Feed history
	go func() {
		defer wg.Done()
		written, writeErr = writeLines(stdin, src)
		if cerr := stdin.Close(); writeErr == nil && cerr != nil && !isClosedPipe(cerr) {
			writeErr = cerr
		}
	}()

	// Drain the selection
	go func() {
		defer wg.Done()
		output, readErr = io.ReadAll(stdout)
	}()

	wg.Wait()
	waitErr := cmd.Wait()

	log = log.With("lines", written, "duration", time.Since(startTime))

	if waitErr != nil && ctx.Err() != nil {
		log.Warn("selector interrupted", "error", ctx.Err())
		return Outcome{}, &errors.SessionError{Op: "wait", Cmd: s.CommandLine(), Err: errors.Join(errors.ErrCanceled, ctx.Err())}
	}
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			code := getExitCode(exitErr)
			log.Info("selection cancelled", "exit_code", code)
			return Outcome{Kind: Cancelled, ExitCode: code}, nil
		}
		log.Error("selector wait failed", "error", waitErr)
		return Outcome{}, &errors.SessionError{Op: "wait", Cmd: s.CommandLine(), Err: waitErr}
	}

	if writeErr != nil {
		log.Error("writing history failed", "error", writeErr)
		return Outcome{}, &errors.SessionError{Op: "write", Cmd: s.CommandLine(), Err: errors.Join(errors.ErrPipe, writeErr)}
	}
	if readErr != nil {
		log.Error("reading selection failed", "error", readErr)
		return Outcome{}, &errors.SessionError{Op: "read", Cmd: s.CommandLine(), Err: errors.Join(errors.ErrPipe, readErr)}
	}

	log.Debug("selection made", "bytes", len(output))
	return Outcome{Kind: Selected, Text: cstring.Terminate(output)}, nil
}

// writeLines writes every line of src followed by '\n'. A broken pipe ends
// the stream quietly: the tool may accept a line, or quit, before reading
// everything.
func writeLines(w io.Writer, src history.Source) (int, error) {
	bw := bufio.NewWriterSize(w, 64*1024)
	var (
		n   int
		err error
	)
	src.Each(func(line []byte) {
		if err != nil {
			return
		}
		if _, err = bw.Write(line); err != nil {
			return
		}
		if err = bw.WriteByte('\n'); err != nil {
			return
		}
		n++
	})
	if err == nil {
		err = bw.Flush()
	}
	if err != nil && isClosedPipe(err) {
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("after %d lines: %w", n, err)
	}
	return n, nil
}

// isClosedPipe reports whether err means the reading end went away.
func isClosedPipe(err error) bool {
	return errors.Is(err, unix.EPIPE) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}

// getExitCode extracts the exit code from an exec.ExitError.
func getExitCode(err *exec.ExitError) int {
	if status, ok := err.Sys().(syscall.WaitStatus); ok {
		if status.Signaled() {
			return 128 + int(status.Signal())
		}
		return status.ExitStatus()
	}
	return 1
}
