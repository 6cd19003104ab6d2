package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang/glog"

	"hellofw/transcript"
)

// ErrTimeout means the console went quiet before every boot completed
var ErrTimeout = errors.New("monitor: timed out waiting for boot to complete")

// Capture is what the monitor saw
type Capture struct {
	Result              transcript.Result
	Lines               int
	Started             time.Time
	Finished            time.Time
	FirstCounterLatency time.Duration // banner to first greeting, first boot
}

// timedLine is a console line stamped with its arrival time
type timedLine struct {
	text string
	at   time.Time
}

// Monitor reads console lines and feeds them to a transcript checker
// until the requested number of boots completed.
type Monitor struct {
	profile Profile
	now     func() time.Time
}

// New creates a monitor for profile
func New(profile Profile) *Monitor {
	return &Monitor{
		profile: profile,
		now:     time.Now,
	}
}

// Run reads from r until the profile's boots completed, the firmware
// aborted, r ended, or the timeout elapsed. r is read on its own goroutine;
// close it to unblock that goroutine after Run returns.
func (m *Monitor) Run(ctx context.Context, r io.Reader) (Capture, error) {
	if m.profile.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.profile.Timeout)
		defer cancel()
	}

	lines := make(chan timedLine, 64)
	readErr := make(chan error, 1)
	go func() {
		readErr <- m.readLines(ctx, r, lines)
		close(lines)
	}()

	checker := transcript.NewChecker(m.profile.Expect)
	capture := Capture{Started: m.now()}
	var bannerAt time.Time
	bootsSeen := 0

	finish := func(err error) (Capture, error) {
		capture.Finished = m.now()
		capture.Result = checker.Result()
		if capture.FirstCounterLatency > m.profile.FirstCounterWithin && m.profile.FirstCounterWithin > 0 {
			capture.Result.Failures = append(capture.Result.Failures,
				"first counter after "+capture.FirstCounterLatency.String()+", want within "+m.profile.FirstCounterWithin.String())
		}
		return capture, err
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return finish(ErrTimeout)
			}
			return finish(ctx.Err())

		case l, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return finish(err)
				}
				return finish(nil)
			}
			capture.Lines++
			glog.V(2).Infof("console: %s", l.text)

			parsed := transcript.Parse(l.text, m.profile.Expect.Banner)
			switch {
			case parsed.Kind == transcript.KindBanner:
				bootsSeen++
				if bootsSeen == 1 {
					bannerAt = l.at
				}
			case parsed.Kind == transcript.KindGreeting && bootsSeen == 1 && capture.FirstCounterLatency == 0:
				capture.FirstCounterLatency = l.at.Sub(bannerAt)
			}

			checker.Feed(l.text)
			if checker.Aborted() || checker.Completed() >= m.profile.Boots {
				return finish(nil)
			}
		}
	}
}

// readLines splits r into lines. io.EOF ends the stream; a (0, nil) read
// (a serial read timeout) is retried until ctx is done.
func (m *Monitor) readLines(ctx context.Context, r io.Reader, out chan<- timedLine) error {
	buf := make([]byte, 256)
	var pending []byte
	for {
		n, err := r.Read(buf)
		pending = append(pending, buf[:n]...)
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			line := timedLine{text: string(pending[:i]), at: m.now()}
			pending = pending[i+1:]
			select {
			case out <- line:
			case <-ctx.Done():
				return nil
			}
		}

		if err != nil {
			if len(pending) > 0 {
				select {
				case out <- timedLine{text: string(pending), at: m.now()}:
				case <-ctx.Done():
				}
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
