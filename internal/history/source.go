// Package history enumerates command history for the selector.
//
// Two kinds of history feed the same Source interface: the live, foreign
// owned readline list walked through a List, and history files parsed by
// BashParser and ZshParser for the rlfzf CLI.
package history

// List is a sentinel-terminated sequence of foreign history entries.
//
// Entry returns the line of the i-th entry. ok is false at the sentinel; a
// present entry with no line yields an empty, non-nil slice. The returned
// slice may alias foreign memory and is only valid until the next call.
type List interface {
	Entry(i int) (line []byte, ok bool)
}

// Accessor returns the current head of a foreign history list, or nil when
// the list is absent.
type Accessor func() List

// Walk fetches the list head once and calls fn for every entry in order,
// stopping at the sentinel. A nil accessor or an absent head is a no-op.
func Walk(access Accessor, fn func(line []byte)) {
	if access == nil {
		return
	}
	list := access()
	if list == nil {
		return
	}
	for i := 0; ; i++ {
		line, ok := list.Entry(i)
		if !ok {
			return
		}
		if line == nil {
			line = []byte{}
		}
		fn(line)
	}
}

// Source yields history lines. The slice passed to the callback must not be
// retained after it returns.
type Source interface {
	Each(fn func(line []byte))
}

// ListSource adapts a foreign list accessor to a Source. The head is
// re-fetched on every Each call since the list can change between searches.
type ListSource struct {
	Access Accessor
}

// Each implements Source.
func (s ListSource) Each(fn func(line []byte)) {
	Walk(s.Access, fn)
}

// Lines is an in-memory Source.
type Lines [][]byte

// Each implements Source.
func (l Lines) Each(fn func(line []byte)) {
	for _, line := range l {
		fn(line)
	}
}

// StringLines builds Lines from strings.
func StringLines(lines ...string) Lines {
	out := make(Lines, len(lines))
	for i, s := range lines {
		out[i] = []byte(s)
	}
	return out
}

// FileSource exposes parsed file history as a Source, oldest first.
func FileSource(lines []HistoryLine) Source {
	out := make(Lines, len(lines))
	for i, l := range lines {
		out[i] = []byte(l.Command)
	}
	return out
}

// Collect copies every line of src.
func Collect(src Source) Lines {
	var out Lines
	src.Each(func(line []byte) {
		out = append(out, append([]byte(nil), line...))
	})
	return out
}
