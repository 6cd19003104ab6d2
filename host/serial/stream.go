package serial

import "io"

// StreamPort adapts a read-only stream (stdin, a pipe from the simulator)
// to the Port interface.
type StreamPort struct {
	r io.Reader
}

// NewStreamPort wraps r
func NewStreamPort(r io.Reader) *StreamPort {
	return &StreamPort{r: r}
}

func (p *StreamPort) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

// Close closes the underlying stream if it can be closed
func (p *StreamPort) Close() error {
	if c, ok := p.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *StreamPort) Flush() error {
	return nil
}
