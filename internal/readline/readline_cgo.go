//go:build cgo && (linux || darwin)

package readline

/*
#cgo linux LDFLAGS: -ldl

#include "rlfzf.h"

static void *rlfzf_next(const char *name) {
	return dlsym(RTLD_NEXT, name);
}

static void *rlfzf_default(const char *name) {
	return dlsym(RTLD_DEFAULT, name);
}

// Looks name up in lib only if the host already loaded lib, with any
// visibility. The reference taken by dlopen is dropped again.
static void *rlfzf_loaded(const char *lib, const char *name) {
	void *h = dlopen(lib, RTLD_LAZY | RTLD_NOLOAD);
	if (h == NULL) {
		return NULL;
	}
	void *p = dlsym(h, name);
	dlclose(h);
	return p;
}

// Reports whether p lies inside this shared object.
static int rlfzf_is_self(void *p) {
	Dl_info a, b;
	if (p == NULL || !dladdr(p, &a) || !dladdr((void *)&rlfzf_is_self, &b)) {
		return 0;
	}
	return a.dli_fbase == b.dli_fbase;
}

// Path this shared object was loaded from, or NULL.
static const char *rlfzf_self_path(void) {
	Dl_info info;
	if (!dladdr((void *)&rlfzf_self_path, &info)) {
		return NULL;
	}
	return info.dli_fname;
}
*/
import "C"

import (
	"runtime"
	"strings"
	"unsafe"

	"github.com/chazuruo/rlfzf/internal/cstring"
	"github.com/chazuruo/rlfzf/internal/errors"
	"github.com/chazuruo/rlfzf/internal/history"
	"github.com/chazuruo/rlfzf/internal/symbols"
)

// Supported reports whether this build can bind to readline.
const Supported = true

// Libraries searched directly when a symbol is not in the global scope.
// Hosts such as CPython load readline late or with RTLD_LOCAL.
var readlineLibraries = map[string][]string{
	"linux": {
		"libreadline.so.8",
		"libreadline.so.7",
		"libreadline.so.6",
		"libreadline.so",
	},
	"darwin": {
		"libreadline.8.dylib",
		"/opt/homebrew/opt/readline/lib/libreadline.8.dylib",
		"/usr/local/opt/readline/lib/libreadline.8.dylib",
	},
}

type scope int

const (
	scopeNext scope = iota
	scopeDefault
)

// lookup finds name in the given scope, then in any readline library the
// host has already loaded. Definitions inside this library are skipped.
func lookup(name string, sc scope) unsafe.Pointer {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var p unsafe.Pointer
	if sc == scopeNext {
		p = C.rlfzf_next(cname)
	} else {
		p = C.rlfzf_default(cname)
	}
	if p != nil && C.rlfzf_is_self(p) == 0 {
		return p
	}
	for _, lib := range readlineLibraries[runtime.GOOS] {
		if q := loadedSymbol(lib, cname); q != nil {
			return q
		}
	}
	return nil
}

func loadedSymbol(lib string, cname *C.char) unsafe.Pointer {
	clib := C.CString(lib)
	defer C.free(unsafe.Pointer(clib))
	p := C.rlfzf_loaded(clib, cname)
	if p == nil || C.rlfzf_is_self(p) != 0 {
		return nil
	}
	return p
}

// NextSymbol finds the definition of name that this library overrides:
// the next one in load order, or the one inside an already loaded readline
// library. It implements symbols.Lookup.
func NextSymbol(name string) (unsafe.Pointer, error) {
	if p := lookup(name, scopeNext); p != nil {
		return p, nil
	}
	return nil, errors.Wrap(errors.ErrUnresolved, name)
}

// SelfPath is the file this code was loaded from, as the loader saw it.
func SelfPath() string {
	p := C.rlfzf_self_path()
	if p == nil {
		return ""
	}
	return C.GoString(p)
}

var _ symbols.Lookup = NextSymbol

// Host drives the readline primitives of the current process.
type Host struct {
	historyList unsafe.Pointer
	endOfLine   unsafe.Pointer
	lineDiscard unsafe.Pointer
	refreshLine unsafe.Pointer
	insertText  unsafe.Pointer
}

// Bind resolves the readline primitives in the global scope, or in a
// readline library the host loaded privately. It fails listing every
// missing name; the host may load readline later, so callers retry.
func Bind() (*Host, error) {
	h := &Host{}
	targets := map[string]*unsafe.Pointer{
		symHistoryList:     &h.historyList,
		symEndOfLine:       &h.endOfLine,
		symUnixLineDiscard: &h.lineDiscard,
		symRefreshLine:     &h.refreshLine,
		symInsertText:      &h.insertText,
	}
	var missing []string
	for _, name := range Primitives {
		p := lookup(name, scopeDefault)
		if p == nil {
			missing = append(missing, name)
			continue
		}
		*targets[name] = p
	}
	if len(missing) > 0 {
		return nil, errors.Wrap(errors.ErrUnresolved, "readline: "+strings.Join(missing, ", "))
	}
	return h, nil
}

func (h *Host) command(fn unsafe.Pointer, name string) error {
	if fn == nil {
		return errors.Wrap(errors.ErrUnresolved, name)
	}
	C.rlfzf_call_command(fn, 1, 0)
	return nil
}

// EndOfLine moves point to the end of the line.
func (h *Host) EndOfLine() error { return h.command(h.endOfLine, symEndOfLine) }

// DiscardLine kills from point back to the start of the line.
func (h *Host) DiscardLine() error { return h.command(h.lineDiscard, symUnixLineDiscard) }

// Refresh redraws the current line.
func (h *Host) Refresh() error { return h.command(h.refreshLine, symRefreshLine) }

// InsertText inserts text at point. Readline copies the string.
func (h *Host) InsertText(text cstring.Terminated) error {
	if h.insertText == nil {
		return errors.Wrap(errors.ErrUnresolved, symInsertText)
	}
	if !text.Valid() {
		return errors.Wrap(errors.ErrInvalid, "insert text: not terminated")
	}
	b := text.Bytes()
	C.rlfzf_call_insert(h.insertText, (*C.char)(unsafe.Pointer(&b[0])))
	return nil
}

// History returns the live history list, or nil when readline has none.
// It implements history.Accessor.
func (h *Host) History() history.List {
	if h.historyList == nil {
		return nil
	}
	head := C.rlfzf_call_history_list(h.historyList)
	if head == nil {
		return nil
	}
	return entryList{head: head}
}

var _ history.Accessor = (*Host)(nil).History

// CallCommand invokes a resolved command function such as an original
// search. sym must be valid.
func CallCommand(sym symbols.Symbol, count, key int) int {
	return int(C.rlfzf_call_command(sym.Addr, C.int(count), C.int(key)))
}

// entryList views a NULL-terminated HIST_ENTRY** array.
type entryList struct {
	head **C.rlfzf_hist_entry
}

// Entry returns a borrowed view of the i-th line without copying.
func (l entryList) Entry(i int) ([]byte, bool) {
	slot := *(**C.rlfzf_hist_entry)(unsafe.Add(unsafe.Pointer(l.head), uintptr(i)*unsafe.Sizeof(l.head)))
	if slot == nil {
		return nil, false
	}
	if slot.line == nil {
		return []byte{}, true
	}
	n := C.strlen(slot.line)
	if n == 0 {
		return []byte{}, true
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(slot.line)), int(n)), true
}
