package tail

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Line is one newly appended line together with the file it came from.
type Line struct {
	Path string
	Text string
}

// Tailer tracks per-file read offsets for every file matching a glob
// pattern and returns only bytes appended since the previous poll.
type Tailer struct {
	pattern   string
	positions map[string]int64
}

// New creates a Tailer for the given glob pattern. Tailing starts at
// offset zero on first sight of a path, so a dashboard attached to
// already-large files ingests their history on the first poll.
func New(pattern string) *Tailer {
	return &Tailer{
		pattern:   pattern,
		positions: make(map[string]int64),
	}
}

// Pattern returns the glob pattern this Tailer watches.
func (t *Tailer) Pattern() string { return t.pattern }

// Poll returns all lines appended since the last call, across every
// file currently matching the pattern, in path-sorted order. Transient
// I/O errors are swallowed; a poll never fails.
func (t *Tailer) Poll() []Line {
	matches, err := filepath.Glob(t.pattern)
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	current := make(map[string]struct{}, len(matches))
	var lines []Line
	for _, path := range matches {
		current[path] = struct{}{}
		lines = append(lines, t.pollFile(path)...)
	}

	// Paths that stopped matching are forgotten; if one reappears it
	// is treated as new.
	for path := range t.positions {
		if _, ok := current[path]; !ok {
			delete(t.positions, path)
		}
	}
	return lines
}

func (t *Tailer) pollFile(path string) []Line {
	info, err := os.Stat(path)
	if err != nil {
		delete(t.positions, path)
		return nil
	}

	size := info.Size()
	offset := t.positions[path]
	if size < offset {
		// Rotated or truncated: re-read from the start. If the file
		// was replaced rather than truncated this may repeat lines.
		offset = 0
	}
	if size == offset {
		t.positions[path] = size
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil
	}

	chunk, err := io.ReadAll(bufio.NewReaderSize(file, 64*1024))
	if len(chunk) == 0 && err != nil {
		return nil
	}
	t.positions[path] = offset + int64(len(chunk))

	var lines []Line
	for _, text := range splitLines(string(chunk)) {
		lines = append(lines, Line{Path: path, Text: text})
	}
	return lines
}

// splitLines splits on \n, tolerating \r\n and a missing trailing
// newline. An empty chunk yields no lines.
func splitLines(s string) []string {
	var out []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, trimCR(s))
			break
		}
		out = append(out, trimCR(s[:i]))
		s = s[i+1:]
	}
	return out
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}
