package timer

import (
	"log/slog"
	"time"
)

type Action int

const (
	Reset Action = iota
	Stop
)

// Watchdog sends true on timeout whenever d elapses without a Reset. The
// bridge arms one per session to detect silent peers. Closing the action
// channel ends the goroutine and closes the timeout channel.
func Watchdog(d time.Duration, timeout chan<- bool, action <-chan Action) {
	t := time.NewTimer(d)
	for {
		select {
		case a, ok := <-action:
			if !ok {
				t.Stop()
				close(timeout)
				return
			}
			switch a {
			case Reset:
				resetTimer(t, d)
			case Stop:
				t.Stop()
			}
		case <-t.C:
			timeout <- true
			slog.Debug("watchdog fired", "after", d)
		}
	}
}

// Stops the timer and drains it before rearming.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
