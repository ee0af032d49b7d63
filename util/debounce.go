package util

import (
	"context"
	"time"
)

// DebounceEvent contains the last event fired to the input channel
type DebounceEvent struct {
	Counter int64
	Data    interface{}
}

// Debounce returns two channels for input and output. Events arriving within
// wait of each other are collapsed into one, delivered once the input is quiet.
func Debounce(haltCtx context.Context, wait time.Duration) (noisy chan interface{}, clean chan DebounceEvent) {
	noisy = make(chan interface{})
	clean = make(chan DebounceEvent, 1) // do not block our goroutine

	go func() {
		var lastTime time.Time
		var counter int64
		var data interface{}

		ticker := time.NewTicker(wait)
		defer ticker.Stop()

		for {
			select {
			case data = <-noisy:
				lastTime = time.Now()
				counter++
			case <-ticker.C:
				if !lastTime.IsZero() && time.Since(lastTime) > wait {
					select {
					case clean <- DebounceEvent{
						Counter: counter,
						Data:    data,
					}:
					case <-haltCtx.Done():
						return
					}

					lastTime = time.Time{}
					counter = 0
				}
			case <-haltCtx.Done():
				return
			}
		}
	}()

	return
}

// PassThrough has the same shape as Debounce but forwards every event immediately
func PassThrough(haltCtx context.Context) (noisy chan interface{}, clean chan DebounceEvent) {
	noisy = make(chan interface{})
	clean = make(chan DebounceEvent, 1)

	go func() {
		for {
			select {
			case data := <-noisy:
				select {
				case clean <- DebounceEvent{Counter: 1, Data: data}:
				case <-haltCtx.Done():
					return
				}
			case <-haltCtx.Done():
				return
			}
		}
	}()

	return
}
