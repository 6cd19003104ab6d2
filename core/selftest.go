package core

// Self-test log messages
const (
	MsgRunningTests  = "Running tests..."
	MsgMemoryPassed  = "Memory allocation test passed"
	MsgMemoryFailed  = "Memory allocation test failed"
	MsgGPIOCompleted = "GPIO test completed"
	MsgGPIOFailed    = "GPIO test failed: "
)

// SelfTestResult records what the self-test observed
type SelfTestResult struct {
	MemoryOK bool
	GPIOErr  error
}

// Passed reports whether both probes succeeded
func (r SelfTestResult) Passed() bool {
	return r.MemoryOK && r.GPIOErr == nil
}

// SelfTest runs one allocation probe and one blink cycle
type SelfTest struct {
	heap    Heap
	blinker *Blinker
	log     *Logger
	size    int
	blink   BlinkSpec
}

// NewSelfTest creates a self-test probing size bytes and blinking per blink
func NewSelfTest(heap Heap, blinker *Blinker, log *Logger, size int, blink BlinkSpec) *SelfTest {
	return &SelfTest{
		heap:    heap,
		blinker: blinker,
		log:     log,
		size:    size,
		blink:   blink,
	}
}

// Run performs both probes. Failures are logged and never abort.
func (s *SelfTest) Run() SelfTestResult {
	var res SelfTestResult
	s.log.Info(MsgRunningTests)

	block, err := s.heap.Allocate(s.size)
	if err == nil {
		res.MemoryOK = len(block) >= s.size
		s.heap.Release(block)
	}
	if res.MemoryOK {
		s.log.Info(MsgMemoryPassed)
	} else {
		s.log.Error(MsgMemoryFailed)
	}

	res.GPIOErr = s.blinker.Blink(s.blink.Times, s.blink.HalfPeriod)
	if res.GPIOErr != nil {
		s.log.Error(MsgGPIOFailed + res.GPIOErr.Error())
	} else {
		s.log.Info(MsgGPIOCompleted)
	}
	return res
}
