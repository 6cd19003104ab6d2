package transcript

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func loadBoot(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/esp32s3_boot.log")
	require.NoError(t, err)
	return string(data)
}

func verify(t *testing.T, text string, exp Expect) Result {
	t.Helper()
	res, err := Verify(strings.NewReader(text), exp)
	require.NoError(t, err)
	return res
}

func TestVerifyCapturedBoot(t *testing.T) {
	exp := DefaultExpect()
	exp.Model = "esp32s3"
	exp.Cores = 2
	exp.MinFreeHeap = 100000
	exp.MinMinimumFreeHeap = 80000

	res := verify(t, loadBoot(t), exp)
	require.Empty(t, res.Failures)
	require.True(t, res.Passed())
	require.Len(t, res.Boots, 1)

	b := res.Boots[0]
	require.Equal(t, "esp32s3", b.Model)
	require.Equal(t, 2, b.Cores)
	require.Equal(t, uint32(391204), b.FreeHeap)
	require.Equal(t, uint32(390112), b.MinimumFreeHeap)
	require.Equal(t, 10, b.Patterns)
	require.True(t, b.MemoryPassed)
	require.True(t, b.GPIOPassed)
	require.Equal(t, []int{0, 1, 2, 3, 4}, b.Counters)
}

func TestVerifyTwoBoots(t *testing.T) {
	boot := loadBoot(t)
	c := NewChecker(Expect{})
	for _, line := range strings.Split(boot+boot, "\n") {
		c.Feed(line)
	}
	require.Equal(t, 2, c.Completed())
	require.True(t, c.Result().Passed())
}

func TestVerifyRejects(t *testing.T) {
	testCases := []struct {
		name    string
		edit    func(string) string
		failure string
	}{
		{
			name:    "swapped pattern lines",
			edit:    func(s string) string { return swap(s, "TEST_PATTERN:3:300", "TEST_PATTERN:4:400") },
			failure: "out of order",
		},
		{
			name:    "skipped counter",
			edit:    func(s string) string { return strings.Replace(s, "Hello World! Counter: 2", "Hello World! Counter: 3", 1) },
			failure: "counter 3, want 2",
		},
		{
			name: "missing log line",
			edit: func(s string) string {
				return strings.Replace(s, "I (1842) HELLO_WORLD: Log message - Counter: 1\n", "", 1)
			},
			failure: "missing log line for counter 1",
		},
		{
			name:    "memory failure",
			edit:    func(s string) string { return strings.Replace(s, "I (342) HELLO_WORLD: Memory allocation test passed", "E (342) HELLO_WORLD: Memory allocation test failed", 1) },
			failure: "memory allocation test failed",
		},
		{
			name:    "missing chip field",
			edit:    func(s string) string { return strings.Replace(s, "  Revision: 0\n", "", 1) },
			failure: `expected chip field "Revision"`,
		},
		{
			name:    "no restart",
			edit:    func(s string) string { return s[:strings.Index(s, "Restarting now.")] },
			failure: "transcript ended during run loop",
		},
	}

	for _, tc := range testCases {
		res := verify(t, tc.edit(loadBoot(t)), DefaultExpect())
		require.False(t, res.Passed(), tc.name)
		require.Contains(t, strings.Join(res.Failures, "\n"), tc.failure, tc.name)
	}
}

func TestVerifyHeapThresholds(t *testing.T) {
	exp := DefaultExpect()
	exp.MinFreeHeap = 400000
	exp.Model = "esp32"

	res := verify(t, loadBoot(t), exp)
	require.False(t, res.Passed())
	require.Contains(t, res.Failures, "boot 1: free heap 391204 bytes, want > 400000")
	require.Contains(t, res.Failures, `boot 1: model "esp32s3", want "esp32"`)
}

func TestVerifyEmptyTranscript(t *testing.T) {
	res := verify(t, "rst:0x1 (POWERON_RESET)\n", DefaultExpect())
	require.False(t, res.Passed())
	require.Empty(t, res.Boots)
}

func TestParse(t *testing.T) {
	l := Parse("\x1b[0;32mI (1542) HELLO_WORLD: Log message - Counter: 0\x1b[0m\r", "")
	require.Equal(t, KindLog, l.Kind)
	require.Equal(t, byte('I'), l.Level)
	require.Equal(t, uint32(1542), l.Millis)
	require.Equal(t, "HELLO_WORLD", l.Tag)
	require.Equal(t, "Log message - Counter: 0", l.Msg)

	l = Parse("TEST_PATTERN:7:700", "")
	require.Equal(t, KindPattern, l.Kind)
	require.Equal(t, 7, l.Index)
	require.Equal(t, 700, l.Num)

	require.Equal(t, KindGreeting, Parse("Hello World! Counter: 3", "").Kind)
	require.Equal(t, KindOther, Parse("Hello World! Counter: x", "").Kind)
	require.Equal(t, KindChipField, Parse("  Free Heap: 1 bytes", "").Kind)
	require.Equal(t, KindBanner, Parse("=== B ===", "=== B ===").Kind)
}

func swap(s, a, b string) string {
	s = strings.Replace(s, a, "\x00", 1)
	s = strings.Replace(s, b, a, 1)
	return strings.Replace(s, "\x00", b, 1)
}

func TestVerifyAbort(t *testing.T) {
	text := "ESP_ERROR_CHECK failed: storage init: flash read failed\nabort() was called\n"
	res := verify(t, text, DefaultExpect())
	require.False(t, res.Passed())
	require.True(t, res.Aborted)
	require.Equal(t, []string{"boot 0: firmware aborted: storage init: flash read failed"}, res.Failures)
}

func TestVerifyIgnoresDebugLines(t *testing.T) {
	var b strings.Builder
	for _, line := range strings.Split(loadBoot(t), "\n") {
		b.WriteString(line + "\n")
		switch {
		case strings.HasPrefix(line, "=== ESP32"):
			b.WriteString("D (0) HELLO_WORLD: phase diagnostics\n")
		case strings.HasPrefix(line, "TEST_PATTERN:9"):
			b.WriteString("D (342) HELLO_WORLD: phase self-test\n")
		case strings.HasPrefix(line, "Hello World! Counter: 2"):
			b.WriteString("V (2142) HELLO_WORLD: blink\n")
		case strings.HasPrefix(line, "I (2742)"):
			b.WriteString("D (2742) HELLO_WORLD: phase shutdown\n")
		}
	}
	require.Contains(t, b.String(), "D (2742) HELLO_WORLD: phase shutdown")

	res := verify(t, b.String(), DefaultExpect())
	require.Empty(t, res.Failures)
	require.True(t, res.Passed())
}

func TestVerifyFreeHeapAboveMinimum(t *testing.T) {
	boot := strings.Replace(loadBoot(t), "Free Heap: 391204 bytes", "Free Heap: 390112 bytes", 1)
	res := verify(t, boot, DefaultExpect())
	require.False(t, res.Passed())
	require.Contains(t, res.Failures, "boot 1: free heap 390112 bytes not above minimum free heap 390112 bytes")

	exp := DefaultExpect()
	exp.AllowEqualHeap = true
	require.True(t, verify(t, boot, exp).Passed())

	boot = strings.Replace(loadBoot(t), "Free Heap: 391204 bytes", "Free Heap: 300000 bytes", 1)
	exp.AllowEqualHeap = true
	res = verify(t, boot, exp)
	require.Contains(t, res.Failures, "boot 1: free heap 300000 bytes not above minimum free heap 390112 bytes")
}
