// Package device provides the serial transport for the vitals sensor:
// port enumeration, an exclusively-owned line-oriented link, and the
// single-character command protocol.
package device

import "strings"

// lineSplitter reassembles complete text lines from a byte stream that
// arrives at arbitrary chunk boundaries. Lines are terminated by "\n",
// with an optional preceding "\r" which is stripped.
type lineSplitter struct {
	carry string
}

// push appends a chunk and returns every fully terminated line, in order.
// The trailing unterminated segment (if any) is retained as the new carry.
func (s *lineSplitter) push(chunk []byte) []string {
	s.carry += string(chunk)

	if !strings.Contains(s.carry, "\n") {
		return nil
	}

	parts := strings.Split(s.carry, "\n")
	s.carry = parts[len(parts)-1]

	lines := parts[:len(parts)-1]
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// pending returns the current unterminated carry.
func (s *lineSplitter) pending() string {
	return s.carry
}

// discard drops the carry. Called on end-of-stream: an unterminated trailing
// fragment is never delivered, so a truncated protocol message cannot leak
// through as a line.
func (s *lineSplitter) discard() {
	s.carry = ""
}
