package core

import (
	"errors"
	"testing"
	"time"
)

func TestBlinkTransitionsAndTiming(t *testing.T) {
	testCases := []struct {
		times      int
		halfPeriod time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 0},
		{1, 50 * time.Millisecond},
		{3, 200 * time.Millisecond},
		{7, 13 * time.Millisecond},
	}

	for _, tc := range testCases {
		clock := &fakeClock{}
		pins := &fakePins{clock: clock}
		b := NewBlinker(pins, clock, GPIOPin(2))

		if err := b.Blink(tc.times, tc.halfPeriod); err != nil {
			t.Fatalf("Blink(%d, %v): %v", tc.times, tc.halfPeriod, err)
		}

		if len(pins.events) != 1+2*tc.times {
			t.Fatalf("Blink(%d): %d pin events, want %d", tc.times, len(pins.events), 1+2*tc.times)
		}
		if !pins.events[0].configure {
			t.Errorf("Blink(%d): pin must be configured first", tc.times)
		}
		for i, e := range pins.events[1:] {
			if e.configure || e.pin != 2 || e.level != (i%2 == 0) {
				t.Errorf("Blink(%d): event %d = %+v", tc.times, i, e)
			}
		}
		if pins.highs() != tc.times {
			t.Errorf("Blink(%d): %d high levels", tc.times, pins.highs())
		}
		if want := 2 * time.Duration(tc.times) * tc.halfPeriod; clock.now < want {
			t.Errorf("Blink(%d, %v) waited %v, want at least %v", tc.times, tc.halfPeriod, clock.now, want)
		}
	}
}

func TestBlinkHoldsEachLevelForHalfPeriod(t *testing.T) {
	clock := &fakeClock{}
	pins := &fakePins{clock: clock}
	b := NewBlinker(pins, clock, GPIOPin(25))

	if err := b.Blink(2, 100*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	want := []time.Duration{0, 0, 100, 200, 300}
	for i, e := range pins.events {
		if e.at != want[i]*time.Millisecond {
			t.Errorf("event %d at %v, want %v", i, e.at, want[i]*time.Millisecond)
		}
	}
}

func TestBlinkConfigureFailure(t *testing.T) {
	clock := &fakeClock{}
	pins := &fakePins{clock: clock, failAt: 1}
	b := NewBlinker(pins, clock, GPIOPin(2))

	err := b.Blink(3, 10*time.Millisecond)
	var pinErr *PinError
	if !errors.As(err, &pinErr) || pinErr.Op != "configure" {
		t.Fatalf("expected configure PinError, got %v", err)
	}
	if !errors.Is(err, errPinFault) {
		t.Errorf("error %v does not wrap the driver error", err)
	}
	if len(pins.events) != 0 || clock.now != 0 {
		t.Errorf("blink continued after configure failed: %d events, %v waited", len(pins.events), clock.now)
	}
}

func TestBlinkStopsAtFirstSetFailure(t *testing.T) {
	clock := &fakeClock{}
	// configure, high, low, high(fails)
	pins := &fakePins{clock: clock, failAt: 4}
	b := NewBlinker(pins, clock, GPIOPin(2))

	err := b.Blink(3, 10*time.Millisecond)
	if !errors.Is(err, errPinFault) {
		t.Fatalf("expected pin fault, got %v", err)
	}
	if err.Error() != "gpio2 set: pin fault" {
		t.Errorf("error = %q", err.Error())
	}
	if len(pins.events) != 3 {
		t.Errorf("%d pin events, want 3", len(pins.events))
	}
	if clock.now != 20*time.Millisecond {
		t.Errorf("waited %v, want 20ms", clock.now)
	}
}
