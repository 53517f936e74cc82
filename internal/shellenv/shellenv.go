// Package shellenv generates shell integration for rlfzf: snippets that
// export the library location and alias readline programs through
// "rlfzf wrap", and the child environment that preloads the library.
package shellenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chazuruo/rlfzf/internal/config"
	"github.com/chazuruo/rlfzf/internal/errors"
)

// EnvLibrary names the library for "rlfzf wrap" when --lib is not given.
const EnvLibrary = "RLFZF_LIB"

// Shells lists the shells a snippet can be generated for.
var Shells = []string{"bash", "zsh", "fish"}

// Generator generates shell integration snippets.
type Generator struct {
	// Library is the absolute path of the preload library.
	Library string
	// Programs get a wrapper alias each.
	Programs []string
	// Binary is the rlfzf executable used in aliases (default "rlfzf").
	Binary string
}

// NewGenerator creates a new snippet generator.
func NewGenerator(library string, programs []string) *Generator {
	return &Generator{
		Library:  library,
		Programs: programs,
		Binary:   "rlfzf",
	}
}

func (g *Generator) wrapCommand(program string) string {
	return fmt.Sprintf("%s wrap -- %s", g.Binary, program)
}

// GenerateBash generates a bash snippet. It is also valid zsh.
func (g *Generator) GenerateBash() string {
	var b strings.Builder
	b.WriteString("# rlfzf shell integration\n")
	fmt.Fprintf(&b, "export %s=%s\n", EnvLibrary, posixQuote(g.Library))
	for _, p := range g.Programs {
		fmt.Fprintf(&b, "alias %s=%s\n", p, posixQuote(g.wrapCommand(p)))
	}
	return b.String()
}

// GenerateZsh generates a zsh snippet.
func (g *Generator) GenerateZsh() string {
	return g.GenerateBash()
}

// GenerateFish generates a fish snippet.
func (g *Generator) GenerateFish() string {
	var b strings.Builder
	b.WriteString("# rlfzf shell integration\n")
	fmt.Fprintf(&b, "set -gx %s %s\n", EnvLibrary, fishQuote(g.Library))
	for _, p := range g.Programs {
		fmt.Fprintf(&b, "alias %s %s\n", p, fishQuote(g.wrapCommand(p)))
	}
	return b.String()
}

// Generate generates the snippet for the given shell.
func (g *Generator) Generate(shell string) (string, error) {
	switch shell {
	case "bash":
		return g.GenerateBash(), nil
	case "zsh":
		return g.GenerateZsh(), nil
	case "fish":
		return g.GenerateFish(), nil
	default:
		return "", errors.Wrap(errors.ErrInvalid, fmt.Sprintf("unsupported shell: %s", shell))
	}
}

func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// DetectShell detects the user's shell from $SHELL, defaulting to bash.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		name := filepath.Base(shell)
		for _, s := range Shells {
			if s == name {
				return name
			}
		}
	}
	return "bash"
}

// PreloadVar is the dynamic loader variable for goos.
func PreloadVar(goos string) string {
	if goos == "darwin" {
		return "DYLD_INSERT_LIBRARIES"
	}
	return "LD_PRELOAD"
}

// Env returns environ with lib added to the preload variable of the
// running platform.
func Env(lib string, environ []string) []string {
	return EnvFor(runtime.GOOS, lib, environ)
}

// EnvFor returns a copy of environ with lib appended to the preload
// variable for goos. An existing value is kept and lib is not added twice.
func EnvFor(goos, lib string, environ []string) []string {
	key := PreloadVar(goos)
	prefix := key + "="

	out := make([]string, 0, len(environ)+1)
	found := false
	for _, kv := range environ {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
			continue
		}
		if found {
			continue
		}
		found = true
		out = append(out, prefix+appendPath(strings.TrimPrefix(kv, prefix), lib))
	}
	if !found {
		out = append(out, prefix+lib)
	}
	return out
}

// appendPath adds lib to a colon or space separated library list.
func appendPath(existing, lib string) string {
	fields := strings.FieldsFunc(existing, func(r rune) bool { return r == ':' || r == ' ' })
	for _, f := range fields {
		if f == lib {
			return strings.Join(fields, ":")
		}
	}
	return strings.Join(append(fields, lib), ":")
}

// FindLibrary resolves the preload library: an explicit path, then
// $RLFZF_LIB, then the configured path, then the default candidates next
// to the executable.
func FindLibrary(explicit string, cfg *config.Config) (string, error) {
	var tried []string
	check := func(p string) (string, bool) {
		if p == "" {
			return "", false
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		tried = append(tried, abs)
		if st, err := os.Stat(abs); err == nil && !st.IsDir() {
			return abs, true
		}
		return "", false
	}

	if explicit != "" {
		if p, ok := check(explicit); ok {
			return p, nil
		}
		return "", errors.Wrap(errors.ErrNotFound, "library "+explicit)
	}

	candidates := []string{os.Getenv(EnvLibrary)}
	if cfg != nil {
		candidates = append(candidates, cfg.Library.Path)
	}
	exe, _ := os.Executable()
	candidates = append(candidates, config.LibraryCandidates(runtime.GOOS, exe)...)

	for _, c := range candidates {
		if p, ok := check(c); ok {
			return p, nil
		}
	}
	return "", errors.Wrap(errors.ErrNotFound, "library (tried: "+strings.Join(tried, ", ")+")")
}

// WithoutLibrary returns the preload entry for goos with the given
// libraries removed, as a KEY=VALUE pair. The selector is spawned with it
// so the library is not loaded into the selector itself.
//
// A library given as a path matches entries naming the same file, through
// symlinks too. A bare file name matches entries with that base name.
func WithoutLibrary(goos string, libs []string, environ []string) string {
	key := PreloadVar(goos)
	prefix := key + "="

	var kept []string
	for _, kv := range environ {
		if !strings.HasPrefix(kv, prefix) {
			continue
		}
		fields := strings.FieldsFunc(strings.TrimPrefix(kv, prefix), func(r rune) bool { return r == ':' || r == ' ' })
		for _, f := range fields {
			if !matchesAny(f, libs) {
				kept = append(kept, f)
			}
		}
	}
	return prefix + strings.Join(kept, ":")
}

func matchesAny(entry string, libs []string) bool {
	for _, lib := range libs {
		switch {
		case lib == "":
		case !strings.ContainsRune(lib, '/'):
			if filepath.Base(entry) == lib {
				return true
			}
		case samePath(entry, lib):
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	a, b = absPath(a), absPath(b)
	if a == b {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
