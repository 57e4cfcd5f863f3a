package utils

import (
	"sync"
	"time"
)

// WaitTimeout waits on wg, at most timeout; it reports false when the wait timed out
func WaitTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	c := make(chan struct{})
	go func() {
		defer close(c)
		wg.Wait()
	}()
	select {
	case <-c:
		return true // completed normally
	case <-time.After(timeout):
		return false // timed out
	}
}
