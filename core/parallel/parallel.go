// Package parallel spreads independent per-column work over the CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the item count at or below which ForEach stays on the
// calling goroutine.
const DefaultThreshold = 8

// Range splits [0, items) into one contiguous chunk per core and runs fn on
// each chunk in its own goroutine. It returns when every chunk is done.
func Range(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := min(runtime.NumCPU(), items)
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := min(start+chunk, items)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForEach calls fn(i) for every i in [0, items). Above threshold the calls
// run concurrently, so fn must only write to state owned by index i.
func ForEach(items, threshold int, fn func(i int)) {
	if items <= threshold {
		for i := 0; i < items; i++ {
			fn(i)
		}
		return
	}
	Range(items, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
