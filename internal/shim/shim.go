// Package shim holds the process-wide state of the preload library.
//
// Init builds everything once, when the library is loaded into the host
// editor: configuration, the log sink, the table of original search
// functions and the interceptor. Bindings that fail at load are retried
// on later searches.
package shim

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/chazuruo/rlfzf/internal/config"
	"github.com/chazuruo/rlfzf/internal/history"
	"github.com/chazuruo/rlfzf/internal/inject"
	"github.com/chazuruo/rlfzf/internal/intercept"
	"github.com/chazuruo/rlfzf/internal/logging"
	"github.com/chazuruo/rlfzf/internal/readline"
	"github.com/chazuruo/rlfzf/internal/selector"
	"github.com/chazuruo/rlfzf/internal/shellenv"
	"github.com/chazuruo/rlfzf/internal/symbols"
)

// Host is what the interceptor needs from the bound line editor.
type Host interface {
	inject.Editor
	History() history.List
}

// Deps are the platform hooks Build uses.
type Deps struct {
	// LoadConfig returns the configuration.
	LoadConfig func() (*config.Config, error)
	// Lookup resolves the original search functions.
	Lookup symbols.Lookup
	// Bind attaches to the host's readline primitives.
	Bind func() (Host, error)
	// Caller calls resolved originals.
	Caller intercept.Caller
	// Runner overrides the selector built from config, for tests.
	Runner selector.Runner
}

// DefaultDeps binds to the readline of the current process.
func DefaultDeps() Deps {
	return Deps{
		LoadConfig: config.LoadWithDefaults,
		Lookup:     readline.NextSymbol,
		Bind: func() (Host, error) {
			h, err := readline.Bind()
			if err != nil {
				return nil, err
			}
			return h, nil
		},
		Caller: intercept.CallerFunc(readline.CallCommand),
	}
}

// State is the built library state.
//
// Configuration, logger and selector are fixed at load. The readline
// binding and the original search functions may not exist yet at that
// point (the host can dlopen readline later), so whatever is missing is
// resolved again on each search until everything is bound.
type State struct {
	Config *config.Config

	deps   Deps
	policy intercept.Policy
	runner selector.Runner
	log    *slog.Logger
	logger *logging.Logger

	mu          sync.Mutex
	table       *symbols.Table
	host        Host
	bindErr     error
	interceptor *intercept.Interceptor
}

// Build assembles the state. It does not fail: a broken configuration
// disables interception for good, and a host without readline primitives
// gets the original searches until the primitives appear.
func Build(deps Deps) *State {
	var problems []error

	cfg, err := deps.LoadConfig()
	if err != nil {
		problems = append(problems, err)
		cfg = config.DefaultConfig()
		cfg.Intercept.Enabled = false
	}

	logger, err := logging.New(LogConfig(cfg))
	if err != nil {
		problems = append(problems, err)
		logger, _ = logging.New(logging.DefaultConfig())
	}
	log := logger.Logger

	for _, p := range problems {
		log.Error("startup problem", "error", p)
	}

	runner := deps.Runner
	if runner == nil {
		runner = selector.New(SelectorOptions(cfg, log)...)
	}

	s := &State{
		Config: cfg,
		deps:   deps,
		policy: Policy(cfg),
		runner: runner,
		log:    log,
		logger: logger,
	}
	s.bind()

	_, missing := s.table.Resolved()
	log.Info("library loaded",
		"enabled", s.interceptor.Policy().Enabled,
		"selector", cfg.Selector.Command,
		"bound", s.host != nil,
		"missing", missing,
	)
	if s.bindErr != nil {
		log.Warn("readline not bound yet", "error", s.bindErr)
	}

	return s
}

// bound reports whether nothing is left to resolve. Callers hold s.mu.
func (s *State) bound() bool {
	if s.host == nil || s.table == nil {
		return false
	}
	_, missing := s.table.Resolved()
	return len(missing) == 0
}

// bind resolves what is still missing and rebuilds the interceptor.
// Callers hold s.mu, or own s exclusively.
func (s *State) bind() {
	if _, missing := s.currentMissing(); s.table == nil || len(missing) > 0 {
		s.table = symbols.Load(s.deps.Lookup,
			intercept.Reverse.Symbol(),
			intercept.Forward.Symbol(),
		)
	}
	if s.host == nil {
		host, err := s.deps.Bind()
		if err == nil {
			s.host, s.bindErr = host, nil
		} else {
			s.bindErr = err
		}
	}

	policy := s.policy
	var (
		editor inject.Editor
		source history.Source = history.Lines(nil)
	)
	if s.host != nil {
		editor = s.host
		source = history.Filter(history.ListSource{Access: s.host.History}, FilterOptions(s.Config))
	} else {
		policy.Enabled = false
	}

	s.interceptor = intercept.New(s.runner, source, editor,
		intercept.SymbolDelegate{Table: s.table, Caller: s.deps.Caller},
		intercept.WithPolicy(policy),
		intercept.WithLogger(s.log.With("subsystem", "intercept")),
	)
}

func (s *State) currentMissing() (ok, missing []string) {
	if s.table == nil {
		return nil, nil
	}
	return s.table.Resolved()
}

// current returns the interceptor, first retrying any binding that failed.
func (s *State) current() *intercept.Interceptor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.bound() {
		s.bind()
		if s.bound() {
			s.log.Info("readline bound", "enabled", s.interceptor.Policy().Enabled)
		} else {
			_, missing := s.table.Resolved()
			s.log.Debug("readline still unbound", "error", s.bindErr, "missing", missing)
		}
	}
	return s.interceptor
}

// Search runs one intercepted search.
func (s *State) Search(d intercept.Direction, count, key int) int {
	return s.current().Search(context.Background(), d, count, key)
}

// Interceptor returns the interceptor in use.
func (s *State) Interceptor() *intercept.Interceptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interceptor
}

// Symbols returns the table of original search functions.
func (s *State) Symbols() *symbols.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Close releases the log file.
func (s *State) Close() error {
	return s.logger.Close()
}

// Policy maps the [intercept] section to an interceptor policy.
func Policy(cfg *config.Config) intercept.Policy {
	return intercept.Policy{
		Enabled:  cfg.Intercept.Enabled,
		OnCancel: intercept.CancelAction(cfg.Intercept.OnCancel),
		OnError:  intercept.ErrorAction(cfg.Intercept.OnError),
	}
}

// FilterOptions maps the [history] section.
func FilterOptions(cfg *config.Config) history.FilterOptions {
	return history.FilterOptions{
		MaxLines:  cfg.History.MaxLines,
		RemoveDup: cfg.History.RemoveDuplicates,
	}
}

// SelectorOptions maps the [selector] section. The selector runs without
// the preload library in its environment.
func SelectorOptions(cfg *config.Config, logger *slog.Logger) []selector.Option {
	return []selector.Option{
		selector.WithCommand(cfg.Selector.Command),
		selector.WithArgs(cfg.Selector.ExtraArgs...),
		selector.WithEnv(shellenv.WithoutLibrary(runtime.GOOS, selfLibraries(), os.Environ())),
		selector.WithLogger(logger.With("subsystem", "selector")),
	}
}

// selfLibraries names this library as loaded, and its default file name.
func selfLibraries() []string {
	return []string{readline.SelfPath(), config.LibraryFileName(runtime.GOOS)}
}

// LogConfig maps the [log] section. Unknown values fall back to defaults;
// Validate has normally rejected them already.
func LogConfig(cfg *config.Config) *logging.Config {
	lc := logging.DefaultConfig()
	lc.Path = cfg.Log.Path
	if level, err := logging.ParseLevel(cfg.Log.Level); err == nil {
		lc.Level = level
	}
	if format, err := logging.ParseFormat(cfg.Log.Format); err == nil {
		lc.Format = format
	}
	return lc
}

var (
	once  sync.Once
	state *State
)

// Init builds the process state from DefaultDeps. Later calls are no-ops.
func Init() {
	once.Do(func() {
		defer func() {
			if recover() != nil {
				state = nil
			}
		}()
		state = Build(DefaultDeps())
	})
}

// Search is the entry point for the exported search functions. It returns
// intercept.Failed when the state could not be built.
func Search(d intercept.Direction, count, key int) int {
	Init()
	if state == nil {
		return intercept.Failed
	}
	return state.Search(d, count, key)
}
