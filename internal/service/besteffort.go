package service

import (
	"log"
	"time"
)

const backoffStep = 250 * time.Millisecond

// bestEffort runs fn, retrying failures with linear backoff. The first
// attempt runs inline; retries continue on a background goroutine so the
// caller never waits on backoff. Failures are logged and swallowed: callers
// must never fail because of them.
func bestEffort(op string, attempts int, fn func() error) {
	err := fn()
	if err == nil {
		return
	}
	if attempts <= 1 {
		log.Printf("%s failed after 1 attempt(s): %v", op, err)
		return
	}
	go func() {
		for i := 1; i < attempts; i++ {
			time.Sleep(time.Duration(i) * backoffStep)
			if err = fn(); err == nil {
				return
			}
		}
		log.Printf("%s failed after %d attempt(s): %v", op, attempts, err)
	}()
}
