package store

import (
	"testing"
	"time"
)

func TestPairKeySymmetric(t *testing.T) {
	if pairKey("a", "b") != pairKey("b", "a") {
		t.Fatal("pairKey is not symmetric")
	}
	if pairKey("a", "b") == pairKey("a", "c") {
		t.Fatal("pairKey collides across different pairs")
	}
}

func TestClockForSharedAcrossDirections(t *testing.T) {
	s := NewMessageDatabase(nil)

	ab := s.clockFor(pairKey("a", "b"))
	ba := s.clockFor(pairKey("b", "a"))
	if ab != ba {
		t.Fatal("both directions of a conversation must share one clock")
	}

	ac := s.clockFor(pairKey("a", "c"))
	if ab == ac {
		t.Fatal("distinct conversations share a clock")
	}
}

func TestPairClockNeverDecreases(t *testing.T) {
	clock := &pairClock{}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := clock.tick(base)
	if !first.Equal(base) {
		t.Fatalf("first tick = %v, want %v", first, base)
	}

	// Wall clock steps backwards; the assigned timestamp must not.
	second := clock.tick(base.Add(-time.Minute))
	if second.Before(first) {
		t.Fatalf("tick went backwards: %v after %v", second, first)
	}

	third := clock.tick(base.Add(time.Second))
	if third.Before(second) {
		t.Fatalf("tick went backwards: %v after %v", third, second)
	}
}
