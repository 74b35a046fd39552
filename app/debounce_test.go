package app

import (
	"testing"
	"time"
)

func TestDebouncer_FiresAfterDelay(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	select {
	case fired := <-d.Schedule():
		if !fired {
			t.Fatalf("expected schedule to fire")
		}
	case <-time.After(time.Second):
		t.Fatalf("debouncer never fired")
	}
	if d.Pending() {
		t.Fatalf("fired schedule should not stay pending")
	}
}

func TestDebouncer_RescheduleCancelsPrevious(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	first := d.Schedule()
	second := d.Schedule()

	if fired := <-first; fired {
		t.Fatalf("superseded schedule must report cancellation")
	}
	select {
	case fired := <-second:
		if !fired {
			t.Fatalf("latest schedule should fire")
		}
	case <-time.After(time.Second):
		t.Fatalf("latest schedule never fired")
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(time.Hour)
	ch := d.Schedule()
	d.Stop()
	if fired := <-ch; fired {
		t.Fatalf("stopped schedule must not fire")
	}
	d.Stop()
}
