package session

import (
	"testing"
	"time"
)

func TestNotifier_ClearsAfterDelay(t *testing.T) {
	var delays []time.Duration
	var pending []func()
	n := NewNotifier(time.Second)
	n.afterFunc = func(d time.Duration, f func()) {
		delays = append(delays, d)
		pending = append(pending, f)
	}

	n.Notify("Welcome, alice")
	if got := n.Message(); got != "Welcome, alice" {
		t.Fatalf("Message() = %q right after Notify", got)
	}
	if len(delays) != 1 || delays[0] != time.Second {
		t.Fatalf("scheduled delays = %v, want [1s]", delays)
	}

	pending[0]()
	if got := n.Message(); got != "" {
		t.Errorf("Message() = %q after the timer fired, want empty", got)
	}
}

func TestNotifier_OlderTimerKeepsNewerMessage(t *testing.T) {
	n, pending := manualNotifier()

	n.Notify("first")
	n.Notify("second")

	// The first notification's timer fires while "second" is showing.
	(*pending)[0]()
	if got := n.Message(); got != "second" {
		t.Fatalf("Message() = %q, want second", got)
	}

	(*pending)[1]()
	if got := n.Message(); got != "" {
		t.Errorf("Message() = %q, want empty", got)
	}
}

func TestNotifier_Changes(t *testing.T) {
	n, pending := manualNotifier()

	n.Notify("one")
	n.Notify("two")

	// Only the latest message is kept for a slow reader.
	if got := <-n.Changes(); got != "two" {
		t.Errorf("first change = %q, want two", got)
	}

	(*pending)[1]()
	if got := <-n.Changes(); got != "" {
		t.Errorf("change after expiry = %q, want empty", got)
	}
}

func TestNotifier_RealTimer(t *testing.T) {
	n := NewNotifier(10 * time.Millisecond)
	n.Notify("Logged out")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-n.Changes():
			if msg == "" {
				return
			}
		case <-deadline:
			t.Fatal("notification was never cleared")
		}
	}
}
