package history

import (
	"testing"
	"time"
)

func TestFilterLines(t *testing.T) {
	baseTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	lines := []HistoryLine{
		{Timestamp: baseTime, Command: "kubectl get pods"},
		{Timestamp: baseTime.Add(1 * time.Minute), Command: "ls"},
		{Timestamp: baseTime.Add(2 * time.Minute), Command: "kubectl get pods"},
		{Timestamp: baseTime.Add(3 * time.Minute), Command: "git status"},
	}

	t.Run("zero options pass through", func(t *testing.T) {
		result := FilterLines(lines, FilterOptions{})
		if len(result) != len(lines) {
			t.Errorf("expected %d lines, got %d", len(lines), len(result))
		}
	})

	t.Run("filters by max lines", func(t *testing.T) {
		result := FilterLines(lines, FilterOptions{MaxLines: 2})
		if len(result) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(result))
		}
		if result[0].Command != "kubectl get pods" || result[1].Command != "git status" {
			t.Errorf("expected the newest two commands, got %v", result)
		}
	})

	t.Run("removes duplicates keeping the newest", func(t *testing.T) {
		result := FilterLines(lines, FilterOptions{RemoveDup: true})
		if len(result) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(result))
		}
		if result[0].Command != "ls" {
			t.Errorf("expected 'ls' first, got %q", result[0].Command)
		}
		if !result[1].Timestamp.Equal(baseTime.Add(2 * time.Minute)) {
			t.Errorf("kept the older duplicate: %v", result[1])
		}
	})
}

func TestFilter_Source(t *testing.T) {
	src := StringLines("a", "b", "a", "c", "b")

	if got := Filter(src, FilterOptions{}); got == nil {
		t.Fatal("Filter() returned nil")
	}

	got := Collect(Filter(src, FilterOptions{RemoveDup: true}))
	want := []string{"a", "c", "b"}
	if len(got) != len(want) {
		t.Fatalf("Filter() yielded %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if string(got[i]) != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	got = Collect(Filter(src, FilterOptions{MaxLines: 1}))
	if len(got) != 1 || string(got[0]) != "b" {
		t.Errorf("Filter(MaxLines: 1) = %q, want [b]", got)
	}
}

func TestRemoveConsecutiveDuplicates(t *testing.T) {
	lines := []HistoryLine{
		{Command: "kubectl get pods"},
		{Command: "kubectl get pods"},
		{Command: "git status"},
		{Command: "git status"},
		{Command: "kubectl get pods"}, // Not consecutive duplicate
	}

	result := RemoveConsecutiveDuplicates(lines)
	if len(result) != 3 {
		t.Errorf("expected 3 lines, got %d", len(result))
	}
}

func TestFilterByLimit(t *testing.T) {
	lines := []HistoryLine{
		{Command: "command1"},
		{Command: "command2"},
		{Command: "command3"},
		{Command: "command4"},
		{Command: "command5"},
	}

	result := FilterByLimit(lines, 3)
	if len(result) != 3 {
		t.Errorf("expected 3 lines, got %d", len(result))
	}
	if result[0].Command != "command3" {
		t.Errorf("expected first command to be 'command3', got '%s'", result[0].Command)
	}
}
