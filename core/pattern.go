package core

import "io"

// PatternPrefix starts every test-pattern line
const PatternPrefix = "TEST_PATTERN:"

// PatternLine formats line i of the test pattern
func PatternLine(i, step int) string {
	return PatternPrefix + itoa(i) + ":" + itoa(i*step)
}

// WriteTestPattern prints lines i = 0..lines-1 of the form TEST_PATTERN:<i>:<i*step>.
// The output depends on nothing but its arguments, so host tooling can use it
// as a golden fixture.
func WriteTestPattern(w io.Writer, lines, step int) {
	for i := 0; i < lines; i++ {
		writeLine(w, PatternLine(i, step))
	}
}
