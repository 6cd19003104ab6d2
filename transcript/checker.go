package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hellofw/core"
)

// Expect describes what a correct boot transcript contains
type Expect struct {
	Banner       string `yaml:"banner"`
	Tag          string `yaml:"tag"`
	LoopCount    int    `yaml:"loop_count"`
	PatternLines int    `yaml:"pattern_lines"`
	PatternStep  int    `yaml:"pattern_step"`

	// Optional chip checks; zero values are not checked
	Model              string `yaml:"model"`
	Cores              int    `yaml:"cores"`
	MinFreeHeap        uint32 `yaml:"min_free_heap"`
	MinMinimumFreeHeap uint32 `yaml:"min_minimum_free_heap"`

	// AllowEqualHeap accepts a free heap equal to the minimum free heap.
	// By default free heap must be strictly above the low-water mark.
	AllowEqualHeap bool `yaml:"allow_equal_heap"`
}

// ExpectFromConfig derives the transcript expectations from a firmware config
func ExpectFromConfig(cfg core.Config) Expect {
	return Expect{
		Banner:       cfg.Banner,
		Tag:          cfg.Tag,
		LoopCount:    cfg.LoopCount,
		PatternLines: cfg.PatternLines,
		PatternStep:  cfg.PatternStep,
	}
}

// DefaultExpect matches the stock firmware
func DefaultExpect() Expect {
	return ExpectFromConfig(core.DefaultConfig())
}

// Boot is what one boot printed
type Boot struct {
	Model           string
	Cores           int
	Revision        int
	FreeHeap        uint32
	MinimumFreeHeap uint32
	Patterns        int
	MemoryPassed    bool
	GPIOPassed      bool
	Counters        []int
	Restarted       bool
}

// Result is the outcome of checking a transcript
type Result struct {
	Boots    []Boot
	Failures []string
	Aborted  bool
}

// Passed reports whether every boot completed without failures
func (r Result) Passed() bool {
	if len(r.Failures) > 0 || len(r.Boots) == 0 {
		return false
	}
	for _, b := range r.Boots {
		if !b.Restarted {
			return false
		}
	}
	return true
}

type stage int

const (
	stageBanner stage = iota
	stageChip
	stagePattern
	stageSelfTest
	stageLoop
	stageDone
)

var chipFields = []string{"Model", "Cores", "Revision", "Free Heap", "Minimum Free Heap"}

// Checker consumes console lines one at a time and tracks the boot
// sequence: banner, chip info block, test pattern, self-test log lines,
// greeting/log pairs and the restart notice. Output before a banner is
// ignored so bootloader noise is harmless.
type Checker struct {
	exp      Expect
	stage    stage
	boot     *Boot
	field    int
	awaitLog bool
	res      Result
}

// NewChecker creates a checker; empty fields of exp take stock defaults
func NewChecker(exp Expect) *Checker {
	d := DefaultExpect()
	if exp.Banner == "" {
		exp.Banner = d.Banner
	}
	if exp.Tag == "" {
		exp.Tag = d.Tag
	}
	if exp.LoopCount == 0 {
		exp.LoopCount = d.LoopCount
	}
	if exp.PatternLines == 0 {
		exp.PatternLines = d.PatternLines
	}
	if exp.PatternStep == 0 {
		exp.PatternStep = d.PatternStep
	}
	return &Checker{exp: exp}
}

// Completed returns how many boots reached the restart notice
func (c *Checker) Completed() int {
	n := 0
	for _, b := range c.res.Boots {
		if b.Restarted {
			n++
		}
	}
	return n
}

// Aborted reports whether the firmware printed an abort notice
func (c *Checker) Aborted() bool {
	return c.res.Aborted
}

// Result returns the checks so far. A boot still in progress is reported
// as not restarted.
func (c *Checker) Result() Result {
	res := Result{
		Boots:    append([]Boot(nil), c.res.Boots...),
		Failures: append([]string(nil), c.res.Failures...),
		Aborted:  c.res.Aborted,
	}
	if c.boot != nil && c.stage != stageDone && !c.res.Aborted {
		res.Failures = append(res.Failures, "boot "+strconv.Itoa(len(res.Boots))+": transcript ended during "+c.stage.String())
	}
	return res
}

func (s stage) String() string {
	switch s {
	case stageBanner:
		return "banner"
	case stageChip:
		return "chip info"
	case stagePattern:
		return "test pattern"
	case stageSelfTest:
		return "self-test"
	case stageLoop:
		return "run loop"
	default:
		return "restart"
	}
}

func (c *Checker) failf(format string, args ...interface{}) {
	prefix := "boot " + strconv.Itoa(len(c.res.Boots)) + ": "
	c.res.Failures = append(c.res.Failures, prefix+fmt.Sprintf(format, args...))
}

// Feed consumes one console line
func (c *Checker) Feed(raw string) {
	l := Parse(raw, c.exp.Banner)

	if l.Kind == KindBanner {
		if c.boot != nil && c.stage != stageDone {
			c.failf("banner during %s: boot restarted early", c.stage)
		}
		c.res.Boots = append(c.res.Boots, Boot{})
		c.boot = &c.res.Boots[len(c.res.Boots)-1]
		c.stage = stageChip
		c.field = -1
		c.awaitLog = false
		return
	}
	if l.Kind == KindAbort {
		c.failf("firmware aborted: %s", l.Msg)
		c.res.Aborted = true
		return
	}
	if c.boot == nil || c.stage == stageDone || l.Kind == KindBlank {
		return
	}
	// Other components may log with their own tags
	if l.Kind == KindLog && l.Tag != c.exp.Tag {
		return
	}
	// Debug and verbose lines come and go with the log level
	if l.Kind == KindLog && (l.Level == 'D' || l.Level == 'V') {
		return
	}

	switch c.stage {
	case stageChip:
		c.feedChip(l)
	case stagePattern:
		c.feedPattern(l)
	case stageSelfTest:
		c.feedSelfTest(l)
	case stageLoop:
		c.feedLoop(l)
	}
}

func (c *Checker) feedChip(l Line) {
	if c.field < 0 {
		if l.Kind != KindChipHeader {
			c.failf("expected chip info header, got %q", l.Raw)
			return
		}
		c.field = 0
		return
	}
	if l.Kind != KindChipField || l.Field != chipFields[c.field] {
		c.failf("expected chip field %q, got %q", chipFields[c.field], l.Raw)
		return
	}

	b := c.boot
	switch l.Field {
	case "Model":
		b.Model = l.Value
		if c.exp.Model != "" && b.Model != c.exp.Model {
			c.failf("model %q, want %q", b.Model, c.exp.Model)
		}
	case "Cores":
		b.Cores, _ = strconv.Atoi(l.Value)
		if c.exp.Cores != 0 && b.Cores != c.exp.Cores {
			c.failf("cores %d, want %d", b.Cores, c.exp.Cores)
		}
	case "Revision":
		b.Revision, _ = strconv.Atoi(l.Value)
	case "Free Heap":
		n, ok := heapBytes(l.Value)
		if !ok {
			c.failf("malformed free heap %q", l.Value)
		}
		b.FreeHeap = n
		if c.exp.MinFreeHeap != 0 && n <= c.exp.MinFreeHeap {
			c.failf("free heap %d bytes, want > %d", n, c.exp.MinFreeHeap)
		}
	case "Minimum Free Heap":
		n, ok := heapBytes(l.Value)
		if !ok {
			c.failf("malformed minimum free heap %q", l.Value)
		}
		b.MinimumFreeHeap = n
		if c.exp.MinMinimumFreeHeap != 0 && n <= c.exp.MinMinimumFreeHeap {
			c.failf("minimum free heap %d bytes, want > %d", n, c.exp.MinMinimumFreeHeap)
		}
		if b.FreeHeap < n || (b.FreeHeap == n && !c.exp.AllowEqualHeap) {
			c.failf("free heap %d bytes not above minimum free heap %d bytes", b.FreeHeap, n)
		}
	}

	c.field++
	if c.field == len(chipFields) {
		c.stage = stagePattern
	}
}

func (c *Checker) feedPattern(l Line) {
	b := c.boot
	if l.Kind != KindPattern {
		c.failf("expected %s%d line, got %q", core.PatternPrefix, b.Patterns, l.Raw)
		return
	}
	if l.Index != b.Patterns || l.Num != b.Patterns*c.exp.PatternStep {
		c.failf("pattern line %q out of order, want %s", l.Raw, core.PatternLine(b.Patterns, c.exp.PatternStep))
	}
	b.Patterns++
	if b.Patterns == c.exp.PatternLines {
		c.stage = stageSelfTest
	}
}

func (c *Checker) feedSelfTest(l Line) {
	b := c.boot
	switch {
	case l.Kind == KindLog && l.Msg == core.MsgRunningTests:
	case l.Kind == KindLog && l.Msg == core.MsgMemoryPassed:
		b.MemoryPassed = true
	case l.Kind == KindLog && l.Msg == core.MsgMemoryFailed:
		c.failf("memory allocation test failed")
	case l.Kind == KindLog && l.Msg == core.MsgGPIOCompleted:
		b.GPIOPassed = true
	case l.Kind == KindLog && strings.HasPrefix(l.Msg, core.MsgGPIOFailed):
		c.failf("GPIO test failed: %s", strings.TrimPrefix(l.Msg, core.MsgGPIOFailed))
	case l.Kind == KindGreeting || l.Kind == KindRestart:
		if !b.MemoryPassed && !b.GPIOPassed && len(c.res.Failures) == 0 {
			c.failf("self-test produced no result before the run loop")
		}
		c.stage = stageLoop
		c.feedLoop(l)
	default:
		c.failf("unexpected line during self-test: %q", l.Raw)
	}
}

func (c *Checker) feedLoop(l Line) {
	b := c.boot
	next := len(b.Counters)
	switch {
	case l.Kind == KindGreeting:
		if c.awaitLog {
			c.failf("missing log line for counter %d", next-1)
		}
		if l.Index != next {
			c.failf("counter %d, want %d", l.Index, next)
		}
		b.Counters = append(b.Counters, l.Index)
		c.awaitLog = true
	case l.Kind == KindLog && strings.HasPrefix(l.Msg, core.LogCounterMsg):
		want := core.LogCounterMsg + strconv.Itoa(next-1)
		if !c.awaitLog || l.Msg != want {
			c.failf("log line %q, want %q", l.Msg, want)
		}
		c.awaitLog = false
	case l.Kind == KindLog && l.Level == 'E':
		c.failf("error logged: %s", l.Msg)
	case l.Kind == KindRestart:
		if c.awaitLog {
			c.failf("missing log line for counter %d", next-1)
		}
		if len(b.Counters) != c.exp.LoopCount {
			c.failf("run loop printed %d counters, want %d", len(b.Counters), c.exp.LoopCount)
		}
		b.Restarted = true
		c.stage = stageDone
	default:
		c.failf("unexpected line during run loop: %q", l.Raw)
	}
}

// Verify checks a whole transcript read from r
func Verify(r io.Reader, exp Expect) (Result, error) {
	c := NewChecker(exp)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		c.Feed(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Result{}, err
	}
	return c.Result(), nil
}
