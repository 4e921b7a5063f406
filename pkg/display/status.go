package display

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxHeaderBytes  = 31
	MaxBodyBytes    = 63
	MaxBodyLines    = 3
	LargeBodyMaxLen = 6
)

// StatusMessage is a bounded header and body pair.
type StatusMessage struct {
	Header string
	Body   string
}

// NewStatusMessage truncates header and body to their byte limits without
// splitting a UTF-8 sequence.
func NewStatusMessage(header, body string) StatusMessage {
	return StatusMessage{
		Header: Truncate(header, MaxHeaderBytes),
		Body:   Truncate(body, MaxBodyBytes),
	}
}

// Lines splits the body on newlines, dropping empty lines, keeping at most three.
func (m StatusMessage) Lines() []string {
	lines := make([]string, 0, MaxBodyLines)
	for _, line := range strings.Split(m.Body, "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == MaxBodyLines {
			break
		}
	}
	return lines
}

// LargeBody reports whether the body is short enough for the large font.
func (m StatusMessage) LargeBody() bool {
	lines := m.Lines()
	return len(lines) == 1 && len(lines[0]) <= LargeBodyMaxLen
}

// Truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
