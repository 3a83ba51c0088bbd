package tail

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append %s: %v", path, err)
	}
}

func texts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		out = append(out, ln.Text)
	}
	return out
}

func TestPollReadsHistoryOnFirstSight(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "worker_1.log"), "one\ntwo\n")

	tl := New(filepath.Join(dir, "worker_*.log"))
	got := texts(tl.Poll())
	want := []string{"one", "two"}
	if len(got) != len(want) {
		t.Fatalf("Poll() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Poll()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPollIsIdempotentWithoutNewBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worker_1.log")
	writeFile(t, path, "one\n")

	tl := New(filepath.Join(dir, "worker_*.log"))
	if got := tl.Poll(); len(got) != 1 {
		t.Fatalf("first Poll() returned %d lines, want 1", len(got))
	}
	if got := tl.Poll(); len(got) != 0 {
		t.Errorf("second Poll() returned %d lines, want 0", len(got))
	}
	if got := tl.Poll(); len(got) != 0 {
		t.Errorf("third Poll() returned %d lines, want 0", len(got))
	}
}

func TestPollReturnsOnlyAppendedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worker_1.log")
	writeFile(t, path, "one\n")

	tl := New(filepath.Join(dir, "worker_*.log"))
	tl.Poll()

	appendFile(t, path, "two\nthree\n")
	got := texts(tl.Poll())
	if len(got) != 2 || got[0] != "two" || got[1] != "three" {
		t.Errorf("Poll() after append = %v, want [two three]", got)
	}
}

func TestPollSortsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "worker_2.log"), "from-two\n")
	writeFile(t, filepath.Join(dir, "worker_1.log"), "from-one\n")

	tl := New(filepath.Join(dir, "worker_*.log"))
	got := tl.Poll()
	if len(got) != 2 {
		t.Fatalf("Poll() returned %d lines, want 2", len(got))
	}
	if filepath.Base(got[0].Path) != "worker_1.log" {
		t.Errorf("first line came from %s, want worker_1.log", got[0].Path)
	}
	if filepath.Base(got[1].Path) != "worker_2.log" {
		t.Errorf("second line came from %s, want worker_2.log", got[1].Path)
	}
}

func TestPollResetsOnTruncation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worker_1.log")
	writeFile(t, path, "aaaaaaaaaa\nbbbbbbbbbb\n")

	tl := New(filepath.Join(dir, "worker_*.log"))
	tl.Poll()

	// Replace with a shorter file: size < offset triggers a reset to
	// zero and a full re-read.
	writeFile(t, path, "fresh\n")
	got := texts(tl.Poll())
	if len(got) != 1 || got[0] != "fresh" {
		t.Errorf("Poll() after truncation = %v, want [fresh]", got)
	}
}

func TestPollForgetsVanishedPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worker_1.log")
	writeFile(t, path, "one\n")

	tl := New(filepath.Join(dir, "worker_*.log"))
	tl.Poll()

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := tl.Poll(); len(got) != 0 {
		t.Fatalf("Poll() after remove returned %d lines, want 0", len(got))
	}

	// Reappearing path is treated as brand new.
	writeFile(t, path, "again\n")
	got := texts(tl.Poll())
	if len(got) != 1 || got[0] != "again" {
		t.Errorf("Poll() after reappearance = %v, want [again]", got)
	}
}

func TestPollHandlesPartialTrailingLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worker_1.log")
	writeFile(t, path, "complete\npartial")

	tl := New(filepath.Join(dir, "worker_*.log"))
	got := texts(tl.Poll())
	if len(got) != 2 || got[0] != "complete" || got[1] != "partial" {
		t.Errorf("Poll() = %v, want [complete partial]", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "a\n", []string{"a"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitLines(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
