package engine

import (
	"testing"
	"time"
)

func TestPacerSpacing(t *testing.T) {
	p := NewPacer(60, 30, 10) // 1/s, 0.5/s, 1/6s

	base := time.Now()

	// First token is available immediately, second only after the interval.
	if !p.search.AllowN(base, 1) {
		t.Fatal("first search token should be available")
	}
	if p.search.AllowN(base.Add(500*time.Millisecond), 1) {
		t.Error("second search token should not be available before 1s")
	}
	if !p.search.AllowN(base.Add(1100*time.Millisecond), 1) {
		t.Error("second search token should be available after 1s")
	}

	if !p.completion.AllowN(base, 1) {
		t.Fatal("first completion token should be available")
	}
	if p.completion.AllowN(base.Add(time.Second), 1) {
		t.Error("completion tokens should refill every 2s, not 1s")
	}
	if !p.completion.AllowN(base.Add(2100*time.Millisecond), 1) {
		t.Error("completion token should refill after 2s")
	}
}

func TestPacerUnlimited(t *testing.T) {
	p := NewPacer(0, -1, 0)
	base := time.Now()
	for i := 0; i < 100; i++ {
		if !p.search.AllowN(base, 1) {
			t.Fatalf("unpaced limiter denied token %d", i)
		}
		if !p.completion.AllowN(base, 1) {
			t.Fatalf("unpaced completion limiter denied token %d", i)
		}
	}
}
