// Command librlfzf is the preload library that replaces readline's
// incremental history search with an external fuzzy filter.
//
// Build it as a shared object and load it ahead of the host program:
//
//	go build -buildmode=c-shared -o librlfzf.so ./cmd/librlfzf
//	LD_PRELOAD=$PWD/librlfzf.so python3
//
// On macOS use DYLD_INSERT_LIBRARIES and a .dylib output. "rlfzf wrap" and
// "rlfzf env" set the variable for you.
package main

import "C"

import (
	"github.com/chazuruo/rlfzf/internal/intercept"
	"github.com/chazuruo/rlfzf/internal/shim"
)

func init() {
	shim.Init()
}

//export rl_reverse_search_history
func rl_reverse_search_history(count, key C.int) C.int {
	return C.int(shim.Search(intercept.Reverse, int(count), int(key)))
}

//export rl_forward_search_history
func rl_forward_search_history(count, key C.int) C.int {
	return C.int(shim.Search(intercept.Forward, int(count), int(key)))
}

func main() {}
