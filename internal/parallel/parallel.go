// Package parallel provides data-parallel helpers for independent work items.
//
// Only pure per-element work may be dispatched through this package; shared
// state such as optimizer tables and layer parameters is written from the
// caller's goroutine.
package parallel

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Maximum number of worker goroutines.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults sized to the number of logical cores.
func DefaultConfig() Config {
	n := cpuid.CPU.LogicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// Partition splits size items into blocks of at least minPerThread items.
//
// threads is size/minPerThread, clamped to [1, maxThreads] (maxThreads <= 0
// means unbounded); block is the number of items per thread, rounded up so
// that threads*block >= size.
func Partition(size, minPerThread, maxThreads int) (threads, block int) {
	if size <= 0 {
		return 0, 0
	}
	if minPerThread <= 0 {
		minPerThread = 1
	}

	threads = size / minPerThread
	if threads < 1 {
		threads = 1
	}
	if maxThreads > 0 && threads > maxThreads {
		threads = maxThreads
	}
	block = (size + threads - 1) / threads
	return threads, block
}

// ForRange calls f(start, end) over consecutive chunks covering [0, n).
// Falls back to one sequential call if parallelism is disabled or n is small.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || n < 2*cfg.MinChunkSize {
		f(0, n)
		return
	}

	_, block := Partition(n, cfg.MinChunkSize, cfg.NumWorkers)

	var wg sync.WaitGroup
	for start := 0; start < n; start += block {
		end := min(start+block, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
