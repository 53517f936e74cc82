// Package symbols resolves the implementations that rlfzf's exported
// functions shadow.
//
// A Table is built once, before any exported entry point can run, and is
// read-only afterwards. Each name is looked up exactly once; failures are
// recorded rather than returned so a missing original only matters if
// somebody actually tries to call it.
package symbols

import (
	"fmt"
	"unsafe"

	"github.com/chazuruo/rlfzf/internal/errors"
)

// Names of the readline entry points rlfzf overrides.
const (
	ReverseSearchHistory = "rl_reverse_search_history"
	ForwardSearchHistory = "rl_forward_search_history"
)

// Lookup finds the next definition of name in the loader's search order,
// skipping the caller's own definition.
type Lookup func(name string) (unsafe.Pointer, error)

// Symbol is a resolved function address.
type Symbol struct {
	Name string
	Addr unsafe.Pointer
}

// Valid reports whether the symbol has a callable address.
func (s Symbol) Valid() bool {
	return s.Addr != nil
}

type entry struct {
	sym Symbol
	err error
}

// Table holds the result of resolving a fixed set of names.
type Table struct {
	entries map[string]entry
}

// Load resolves every name with lookup. A nil lookup marks every name unresolved.
func Load(lookup Lookup, names ...string) *Table {
	t := &Table{entries: make(map[string]entry, len(names))}
	for _, name := range names {
		if _, done := t.entries[name]; done {
			continue
		}
		t.entries[name] = resolve(lookup, name)
	}
	return t
}

func resolve(lookup Lookup, name string) entry {
	if lookup == nil {
		return entry{sym: Symbol{Name: name}, err: errors.Wrap(errors.ErrUnresolved, name)}
	}
	addr, err := lookup(name)
	if err != nil {
		return entry{sym: Symbol{Name: name}, err: errors.Wrap(errors.Join(errors.ErrUnresolved, err), name)}
	}
	if addr == nil {
		return entry{sym: Symbol{Name: name}, err: errors.Wrap(errors.ErrUnresolved, name)}
	}
	return entry{sym: Symbol{Name: name, Addr: addr}}
}

// Get returns the resolved symbol for name.
func (t *Table) Get(name string) (Symbol, error) {
	if t == nil {
		return Symbol{Name: name}, errors.Wrap(errors.ErrUnresolved, name)
	}
	e, ok := t.entries[name]
	if !ok {
		return Symbol{Name: name}, fmt.Errorf("%s was not loaded: %w", name, errors.ErrUnresolved)
	}
	return e.sym, e.err
}

// Resolved lists the names that resolved successfully and those that did not.
func (t *Table) Resolved() (ok, missing []string) {
	if t == nil {
		return nil, nil
	}
	for name, e := range t.entries {
		if e.err == nil {
			ok = append(ok, name)
		} else {
			missing = append(missing, name)
		}
	}
	return ok, missing
}
