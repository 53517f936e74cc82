package history

// FilterLines applies opts to parsed history lines.
func FilterLines(lines []HistoryLine, opts FilterOptions) []HistoryLine {
	if opts.IsZero() {
		return lines
	}
	keep := selectNewest(len(lines), func(i int) string { return lines[i].Command }, opts)
	result := make([]HistoryLine, 0, len(keep))
	for _, i := range keep {
		result = append(result, lines[i])
	}
	return result
}

// Filter returns a Source applying opts to src. With zero options src is
// returned unchanged; otherwise the lines are copied once per Each call.
func Filter(src Source, opts FilterOptions) Source {
	if opts.IsZero() {
		return src
	}
	return filtered{src: src, opts: opts}
}

type filtered struct {
	src  Source
	opts FilterOptions
}

func (f filtered) Each(fn func(line []byte)) {
	lines := Collect(f.src)
	for _, i := range selectNewest(len(lines), func(i int) string { return string(lines[i]) }, f.opts) {
		fn(lines[i])
	}
}

// selectNewest returns the indices to keep in ascending order. It walks from
// the newest line backwards so that limits and de-duplication favour recent
// commands, then restores chronological order.
func selectNewest(n int, key func(int) string, opts FilterOptions) []int {
	var result []int
	seen := make(map[string]bool)

	for i := n - 1; i >= 0; i-- {
		if opts.RemoveDup {
			k := key(i)
			if seen[k] {
				continue
			}
			seen[k] = true
		}

		result = append(result, i)

		if opts.MaxLines > 0 && len(result) >= opts.MaxLines {
			break
		}
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return result
}

// FilterByLimit returns the last n commands from history
func FilterByLimit(lines []HistoryLine, limit int) []HistoryLine {
	if limit <= 0 || limit >= len(lines) {
		return lines
	}
	return lines[len(lines)-limit:]
}

// RemoveConsecutiveDuplicates removes consecutive duplicate commands
func RemoveConsecutiveDuplicates(lines []HistoryLine) []HistoryLine {
	if len(lines) == 0 {
		return lines
	}

	result := []HistoryLine{lines[0]}
	for i := 1; i < len(lines); i++ {
		if lines[i].Command != lines[i-1].Command {
			result = append(result, lines[i])
		}
	}
	return result
}
