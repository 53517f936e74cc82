//go:build cgo && (linux || darwin)

package readline

/*
#include "rlfzf.h"

static int rlfzf_fake_commands;
static char rlfzf_fake_text[256];
static rlfzf_hist_entry **rlfzf_fake_head;

static int rlfzf_fake_command(int count, int key) {
	rlfzf_fake_commands++;
	return 0;
}

static int rlfzf_fake_insert(const char *text) {
	size_t n = strlen(text);
	if (n >= sizeof rlfzf_fake_text) {
		n = sizeof rlfzf_fake_text - 1;
	}
	memcpy(rlfzf_fake_text, text, n);
	rlfzf_fake_text[n] = '\0';
	return (int)n;
}

static rlfzf_hist_entry **rlfzf_fake_history_list(void) {
	return rlfzf_fake_head;
}

static rlfzf_hist_entry **rlfzf_fake_alloc(int n) {
	rlfzf_hist_entry **list = calloc((size_t)n + 1, sizeof *list);
	for (int i = 0; i < n; i++) {
		list[i] = calloc(1, sizeof **list);
	}
	return list;
}

static void rlfzf_fake_set(rlfzf_hist_entry **list, int i, char *line) {
	list[i]->line = line;
}

static void rlfzf_fake_free(rlfzf_hist_entry **list) {
	for (int i = 0; list[i] != NULL; i++) {
		free(list[i]->line);
		free(list[i]);
	}
	free(list);
}

static void rlfzf_fake_reset(rlfzf_hist_entry **head) {
	rlfzf_fake_commands = 0;
	rlfzf_fake_text[0] = '\0';
	rlfzf_fake_head = head;
}

static void *rlfzf_fake_command_ptr(void) { return (void *)&rlfzf_fake_command; }
static void *rlfzf_fake_insert_ptr(void) { return (void *)&rlfzf_fake_insert; }
static void *rlfzf_fake_history_list_ptr(void) { return (void *)&rlfzf_fake_history_list; }
static int rlfzf_fake_command_count(void) { return rlfzf_fake_commands; }
static const char *rlfzf_fake_inserted(void) { return rlfzf_fake_text; }
*/
import "C"

import (
	"github.com/chazuruo/rlfzf/internal/history"
	"github.com/chazuruo/rlfzf/internal/symbols"
)

// fakeHistory is a HIST_ENTRY* array in C memory, laid out as readline
// lays out its own. A nil line is stored as NULL.
type fakeHistory struct {
	head **C.rlfzf_hist_entry
}

func newFakeHistory(lines []*string) *fakeHistory {
	head := C.rlfzf_fake_alloc(C.int(len(lines)))
	for i, l := range lines {
		var cline *C.char
		if l != nil {
			cline = C.CString(*l)
		}
		C.rlfzf_fake_set(head, C.int(i), cline)
	}
	return &fakeHistory{head: head}
}

func (f *fakeHistory) List() history.List { return entryList{head: f.head} }

func (f *fakeHistory) Free() { C.rlfzf_fake_free(f.head) }

// newFakeHost returns a Host whose primitives are C stand-ins that count
// commands, capture inserted text and serve f as the history list. f may
// be nil for an absent list.
func newFakeHost(f *fakeHistory) *Host {
	var head **C.rlfzf_hist_entry
	if f != nil {
		head = f.head
	}
	C.rlfzf_fake_reset(head)
	cmd := C.rlfzf_fake_command_ptr()
	return &Host{
		historyList: C.rlfzf_fake_history_list_ptr(),
		endOfLine:   cmd,
		lineDiscard: cmd,
		refreshLine: cmd,
		insertText:  C.rlfzf_fake_insert_ptr(),
	}
}

// fakeCommandSymbol is a resolved symbol for the counting stand-in.
func fakeCommandSymbol(name string) symbols.Symbol {
	return symbols.Symbol{Name: name, Addr: C.rlfzf_fake_command_ptr()}
}

func fakeCommandCount() int { return int(C.rlfzf_fake_command_count()) }

func fakeInserted() string { return C.GoString(C.rlfzf_fake_inserted()) }
