package core

import (
	"context"
	"errors"
)

// Console lines printed by the lifecycle
const (
	GreetingPrefix = "Hello World! Counter: "
	LogCounterMsg  = "Log message - Counter: "
	RestartNotice  = "Restarting now."
)

// Phase is a step of the boot lifecycle. Each phase runs once, in order.
type Phase uint8

const (
	PhaseStorage Phase = iota
	PhaseBanner
	PhaseDiagnostics
	PhasePattern
	PhaseSelfTest
	PhaseRunLoop
	PhaseShutdown
)

func (p Phase) String() string {
	switch p {
	case PhaseStorage:
		return "storage"
	case PhaseBanner:
		return "banner"
	case PhaseDiagnostics:
		return "diagnostics"
	case PhasePattern:
		return "pattern"
	case PhaseSelfTest:
		return "self-test"
	case PhaseRunLoop:
		return "run-loop"
	case PhaseShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Lifecycle sequences a single boot: storage init, diagnostics, test
// pattern, self-test, the counting loop and the final restart.
type Lifecycle struct {
	cfg      Config
	p        Platform
	log      *Logger
	blinker  *Blinker
	selfTest *SelfTest

	// Observed results, kept for hosted callers
	storageRetried bool
	diagnostics    Diagnostics
	selfTestResult SelfTestResult
	counter        int
}

// NewLifecycle validates cfg and binds it to the platform capabilities.
// Panics if a capability is missing.
func NewLifecycle(cfg Config, p Platform) (*Lifecycle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p.mustBeComplete()

	log := NewLogger(cfg.Tag, p.Console, p.Clock)
	blinker := NewBlinker(p.Pins, p.Clock, cfg.LEDPin)
	return &Lifecycle{
		cfg:      cfg,
		p:        p,
		log:      log,
		blinker:  blinker,
		selfTest: NewSelfTest(p.Heap, blinker, log, cfg.AllocProbeSize, cfg.SelfTestBlink),
	}, nil
}

// Logger returns the tagged logger used for all log lines
func (l *Lifecycle) Logger() *Logger {
	return l.log
}

// StorageRetried reports whether storage init needed the erase-and-retry path
func (l *Lifecycle) StorageRetried() bool {
	return l.storageRetried
}

// Diagnostics returns the snapshot printed during boot
func (l *Lifecycle) Diagnostics() Diagnostics {
	return l.diagnostics
}

// SelfTestResult returns what the self-test observed
func (l *Lifecycle) SelfTestResult() SelfTestResult {
	return l.selfTestResult
}

// Iterations returns how many run-loop iterations completed
func (l *Lifecycle) Iterations() int {
	return l.counter
}

// Run executes every phase once and ends by restarting the chip.
// A *FatalError means storage could not be brought up and the boot must abort.
// ctx is only consulted between phases.
func (l *Lifecycle) Run(ctx context.Context) error {
	phases := []func() error{
		l.initStorage,
		l.printBanner,
		l.printDiagnostics,
		l.printPattern,
		l.runSelfTest,
		l.runLoop,
		l.shutdown,
	}
	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.log.Debug("phase " + Phase(i).String())
		if err := phase(); err != nil {
			return err
		}
	}
	return nil
}

// initStorage brings up persistent storage. The two corrupt-state codes get
// one erase and one retry; anything else is fatal.
func (l *Lifecycle) initStorage() error {
	err := l.p.Storage.Init()
	if errors.Is(err, ErrStorageNoFreePages) || errors.Is(err, ErrStorageNewVersion) {
		l.storageRetried = true
		l.log.Warn("storage needs erase: " + err.Error())
		if err := l.p.Storage.Erase(); err != nil {
			return &FatalError{Op: "storage erase", Err: err}
		}
		err = l.p.Storage.Init()
	}
	if err != nil {
		return &FatalError{Op: "storage init", Err: err}
	}
	return nil
}

func (l *Lifecycle) printBanner() error {
	writeLine(l.p.Console, "")
	writeLine(l.p.Console, l.cfg.Banner)
	return nil
}

func (l *Lifecycle) printDiagnostics() error {
	l.diagnostics = ReportDiagnostics(l.p.Console, l.p.System)
	return nil
}

func (l *Lifecycle) printPattern() error {
	WriteTestPattern(l.p.Console, l.cfg.PatternLines, l.cfg.PatternStep)
	return nil
}

func (l *Lifecycle) runSelfTest() error {
	l.selfTestResult = l.selfTest.Run()
	return nil
}

// runLoop prints the greeting and log line for each counter value,
// blinks once and waits. There is no early exit.
func (l *Lifecycle) runLoop() error {
	l.counter = 0
	for l.counter < l.cfg.LoopCount {
		writeLine(l.p.Console, GreetingPrefix+itoa(l.counter))
		l.log.Info(LogCounterMsg + itoa(l.counter))

		if err := l.blinker.Blink(l.cfg.LoopBlink.Times, l.cfg.LoopBlink.HalfPeriod); err != nil {
			l.log.Error("blink failed: " + err.Error())
		}

		l.counter++
		l.p.Clock.Delay(l.cfg.LoopDelay)
	}
	return nil
}

// shutdown prints the restart notice and hands control to the restarter.
// On hardware Restart does not return.
func (l *Lifecycle) shutdown() error {
	writeLine(l.p.Console, RestartNotice)
	flushConsole(l.p.Console)

	if err := l.blinker.Blink(l.cfg.ShutdownBlink.Times, l.cfg.ShutdownBlink.HalfPeriod); err != nil {
		l.log.Error("blink failed: " + err.Error())
	}

	l.p.Clock.Delay(l.cfg.RestartDelay)
	l.p.Restarter.Restart()
	return nil
}
