package layer

import (
	"runtime"
	"sync"
)

// parallelMap fans fn out over items with at most NumCPU concurrent workers
// and joins before returning. Every task is a pure function of its input;
// results keep the input order. All tasks run to completion even when one
// fails, and the first error in input order is returned.
func parallelMap[T, R any](items []T, fn func(T) (R, error)) ([]R, error) {
	sem := make(chan struct{}, runtime.NumCPU())
	results := make([]R, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = fn(item)
		}(i, item)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
