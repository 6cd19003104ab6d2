package sim

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hellofw/core"
	"hellofw/transcript"
)

func bootOnce(t *testing.T, m *Machine) (string, *core.Lifecycle, error) {
	t.Helper()
	var out bytes.Buffer
	lc, err := m.Boot(context.Background(), &out)
	return out.String(), lc, err
}

func check(t *testing.T, text string) transcript.Result {
	t.Helper()
	exp := transcript.DefaultExpect()
	exp.Model = "esp32s3"
	exp.Cores = 2
	exp.MinFreeHeap = 100000
	exp.MinMinimumFreeHeap = 80000
	res, err := transcript.Verify(bytes.NewBufferString(text), exp)
	require.NoError(t, err)
	return res
}

func TestBootPassesTranscriptCheck(t *testing.T) {
	m := NewMachine(DefaultConfig())
	out, lc, err := bootOnce(t, m)
	require.NoError(t, err)

	res := check(t, out)
	require.Empty(t, res.Failures)
	require.True(t, res.Passed())
	require.Equal(t, uint32(391204), res.Boots[0].FreeHeap)
	require.Equal(t, uint32(390112), res.Boots[0].MinimumFreeHeap)

	require.Equal(t, 1, m.Restarts())
	require.Equal(t, 5, lc.Iterations())
	// 3 self-test + 5 loop + 1 shutdown cycles, two level changes each
	require.Equal(t, 18, m.Pins().Toggles(core.DefaultLEDPin))
	require.False(t, m.Pins().Level(core.DefaultLEDPin))
}

func TestStorageSurvivesRestart(t *testing.T) {
	m := NewMachine(DefaultConfig())
	_, lc, err := bootOnce(t, m)
	require.NoError(t, err)
	require.False(t, lc.StorageRetried())

	_, lc, err = bootOnce(t, m)
	require.NoError(t, err)
	require.False(t, lc.StorageRetried())
	require.Equal(t, 2, m.Restarts())

	stats, err := m.Storage().Stats()
	require.NoError(t, err)
	require.Equal(t, uint32(1), stats.Seq)
}

func TestRecoverableStorageFaults(t *testing.T) {
	for _, f := range []Fault{FaultNoFreePages, FaultNewVersion} {
		m := NewMachine(DefaultConfig())
		require.NoError(t, m.InjectStorageFault(f))

		out, lc, err := bootOnce(t, m)
		require.NoError(t, err, string(f))
		require.True(t, lc.StorageRetried(), string(f))
		require.True(t, check(t, out).Passed(), string(f))
		require.True(t, m.Storage().Ready())
	}
}

func TestBrokenStorageAborts(t *testing.T) {
	m := NewMachine(DefaultConfig())
	require.NoError(t, m.InjectStorageFault(FaultBroken))

	out, _, err := bootOnce(t, m)
	var fatal *core.FatalError
	require.True(t, errors.As(err, &fatal))
	require.ErrorIs(t, err, ErrFlashBroken)
	require.Zero(t, m.Restarts())

	res := check(t, out)
	require.True(t, res.Aborted)
	require.Empty(t, res.Boots)
	require.NotContains(t, out, core.DefaultBanner)
}

func TestAllocationFaultIsReported(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.System().SetAllocFault(true)

	out, lc, err := bootOnce(t, m)
	require.NoError(t, err)
	require.False(t, lc.SelfTestResult().MemoryOK)
	require.Equal(t, 1, m.Restarts())

	res := check(t, out)
	require.False(t, res.Passed())
	require.Contains(t, res.Failures, "boot 1: memory allocation test failed")
}

func TestPinFaultIsReported(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.Pins().SetFault(true)

	out, lc, err := bootOnce(t, m)
	require.NoError(t, err)
	require.ErrorIs(t, lc.SelfTestResult().GPIOErr, ErrPinFault)
	require.Contains(t, out, "E (0) HELLO_WORLD: GPIO test failed: gpio2 configure: sim: pin fault")
	require.False(t, check(t, out).Passed())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
firmware:
  led_pin: 25
  loop_count: 3
  loop_delay: 250ms
chip:
  model: rp2040
  revision: 2
storage:
  pages: 4
`))
	require.NoError(t, err)
	require.Equal(t, core.GPIOPin(25), cfg.Firmware.LEDPin)
	require.Equal(t, 3, cfg.Firmware.LoopCount)
	require.Equal(t, 250*time.Millisecond, cfg.Firmware.LoopDelay)
	require.Equal(t, "HELLO_WORLD", cfg.Firmware.Tag)
	require.Equal(t, "rp2040", cfg.Chip.Model)
	require.Equal(t, uint8(2), cfg.Chip.Cores)
	require.Equal(t, 4, cfg.Storage.Pages)

	_, err = ParseConfig([]byte("storage:\n  pages: 1\n"))
	require.Error(t, err)

	_, err = ParseConfig([]byte("firmware: [not, a, map]"))
	require.Error(t, err)
}

func TestRealtimeClockSleeps(t *testing.T) {
	c := NewClock(true)
	start := time.Now()
	c.Delay(5 * time.Millisecond)
	require.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	require.Equal(t, 5*time.Millisecond, c.Uptime())

	c.Reset()
	require.Zero(t, c.Uptime())
}
