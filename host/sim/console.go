package sim

import (
	"bufio"
	"bytes"
	"io"
)

// lineConsole buffers console output and pushes it out at every newline,
// the way a UART console delivers each line as it is printed
type lineConsole struct {
	w *bufio.Writer
}

func newLineConsole(out io.Writer) *lineConsole {
	return &lineConsole{w: bufio.NewWriter(out)}
}

func (c *lineConsole) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if err != nil {
		return n, err
	}
	if bytes.IndexByte(p, '\n') >= 0 {
		return n, c.w.Flush()
	}
	return n, nil
}

func (c *lineConsole) Flush() error {
	return c.w.Flush()
}
