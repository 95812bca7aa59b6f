// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for
// row-parallel image passes. A Pool is created once and reused across
// passes, so a separable convolution pays the goroutine spawn cost once
// rather than once per pass.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	ranges, err := workerpool.Partition(height, pool.NumWorkers())
//	if err != nil {
//	    return err
//	}
//	pool.ParallelRanges(ranges, horizontalPass) // returns after every range is done
//	pool.ParallelRanges(ranges, verticalPass)
package workerpool

import (
	"runtime"
	"sync"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem

	// mu is held for reading while work is queued on workC and for writing
	// while workC is closed.
	mu     sync.RWMutex
	closed bool
}

// workItem represents a single parallel operation to execute.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe, and so is calling it while other
// goroutines are inside ParallelRanges.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.workC)
	}
}

// ParallelRanges runs fn once per range on the pool and blocks until every
// call has returned. Ranges are expected to be disjoint; each call may
// write only inside its own range.
//
// The return of ParallelRanges is the barrier between dependent passes:
// writes made by any fn happen before ParallelRanges returns.
func (p *Pool) ParallelRanges(ranges []RowRange, fn func(r RowRange)) {
	if len(ranges) == 0 {
		return
	}

	if len(ranges) == 1 {
		fn(ranges[0])
		return
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		// Closed pools run on the caller's goroutine
		for _, r := range ranges {
			fn(r)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(ranges))

	for _, r := range ranges {
		p.workC <- workItem{
			fn: func() {
				fn(r)
			},
			barrier: &wg,
		}
	}
	p.mu.RUnlock()

	wg.Wait()
}
