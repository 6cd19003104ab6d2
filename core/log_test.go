package core

import (
	"bytes"
	"testing"
	"time"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{now: 1234 * time.Millisecond}
	log := NewLogger("HELLO_WORLD", &buf, clock)

	log.Info("Running tests...")
	log.Error("boom")
	log.Warn("careful")
	log.Debug("hidden")

	want := "I (1234) HELLO_WORLD: Running tests...\n" +
		"E (1234) HELLO_WORLD: boom\n" +
		"W (1234) HELLO_WORLD: careful\n"
	if buf.String() != want {
		t.Errorf("log output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("T", &buf, nil)

	log.SetLevel(LevelDebug)
	log.Debug("shown")
	if buf.String() != "D (0) T: shown\n" {
		t.Errorf("debug output = %q", buf.String())
	}

	buf.Reset()
	log.SetLevel(LevelError)
	log.Info("dropped")
	log.Warn("dropped")
	log.Error("kept")
	if buf.String() != "E (0) T: kept\n" {
		t.Errorf("error-level output = %q", buf.String())
	}

	buf.Reset()
	log.SetLevel(LevelNone)
	log.Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("LevelNone wrote %q", buf.String())
	}
	if log.Enabled(LevelNone) {
		t.Error("LevelNone must never be enabled")
	}
}
