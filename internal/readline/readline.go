// Package readline binds rlfzf to the GNU readline instance of the host
// process.
//
// Nothing here links against libreadline. Primitives are looked up in the
// global symbol scope when Bind is called, and the overridden search
// functions are found with NextSymbol, which skips past the preload library
// itself. Builds without cgo, or on platforms other than Linux and macOS,
// get a stub that reports errors.ErrUnsupported.
package readline

// Names of the readline primitives a Host needs.
const (
	symHistoryList     = "history_list"
	symEndOfLine       = "rl_end_of_line"
	symUnixLineDiscard = "rl_unix_line_discard"
	symRefreshLine     = "rl_refresh_line"
	symInsertText      = "rl_insert_text"
)

// Primitives lists every symbol Bind resolves.
var Primitives = []string{
	symHistoryList,
	symEndOfLine,
	symUnixLineDiscard,
	symRefreshLine,
	symInsertText,
}
