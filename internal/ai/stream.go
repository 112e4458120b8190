package ai

import "strings"

// lineBuffer reassembles newline-delimited protocol lines from transport
// fragments that may split a line anywhere. Feed returns only the lines a
// fragment completes; the trailing partial line is held until a later
// fragment closes it.
type lineBuffer struct {
	pending string
}

func (b *lineBuffer) Feed(fragment string) []string {
	b.pending += fragment
	if !strings.Contains(b.pending, "\n") {
		return nil
	}
	parts := strings.Split(b.pending, "\n")
	b.pending = parts[len(parts)-1]
	lines := parts[:len(parts)-1]
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
