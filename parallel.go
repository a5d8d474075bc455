package toonify

import (
	"runtime"
	"sync"
)

// forRows calls fn over [0,h) split into contiguous bands. With parallel
// set, bands run on up to GOMAXPROCS goroutines; rows must be independent.
func forRows(h int, parallel bool, fn func(y0, y1 int)) {
	workers := 1
	if parallel {
		workers = min(runtime.GOMAXPROCS(0), h)
	}
	if workers <= 1 {
		fn(0, h)
		return
	}
	band := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(y0, y1)
		}()
	}
	wg.Wait()
}
