package session

import (
	"sync"
	"time"
)

// DefaultNotifyDelay is how long a notification stays visible.
const DefaultNotifyDelay = time.Second

// Notifier holds the transient notification shown to the operator. Each
// notification clears itself after the delay unless a newer one replaced it.
type Notifier struct {
	delay     time.Duration
	afterFunc func(time.Duration, func())

	mu         sync.Mutex
	message    string
	generation uint64
	changes    chan string
}

// NewNotifier creates a notifier whose messages clear after delay.
func NewNotifier(delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = DefaultNotifyDelay
	}
	return &Notifier{
		delay: delay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		changes: make(chan string, 1),
	}
}

// Notify shows msg immediately and schedules it to clear.
func (n *Notifier) Notify(msg string) {
	n.mu.Lock()
	n.generation++
	gen := n.generation
	n.message = msg
	n.publish(msg)
	n.mu.Unlock()

	n.afterFunc(n.delay, func() { n.expire(gen) })
}

// expire clears the message only if no newer notification took its place.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.generation || n.message == "" {
		return
	}
	n.message = ""
	n.publish("")
}

// Message returns the visible notification, or "" when none is shown.
func (n *Notifier) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

// Changes returns a channel that always holds the latest visible message.
// Intermediate messages are dropped if the reader falls behind.
func (n *Notifier) Changes() <-chan string {
	return n.changes
}

// publish must be called with n.mu held.
func (n *Notifier) publish(msg string) {
	for {
		select {
		case n.changes <- msg:
			return
		default:
		}
		select {
		case <-n.changes:
		default:
		}
	}
}
