// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"errors"
	"fmt"
)

// ErrPartitionMismatch is returned when a set of row ranges does not cover
// [0, n) exactly once, or when a worker count cannot produce such a set.
var ErrPartitionMismatch = errors.New("workerpool: partition mismatch")

// RowRange is the half-open row interval [Start, End) owned by one worker.
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	return r.End - r.Start
}

func (r RowRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Partition splits [0, n) into contiguous ranges for workers workers.
//
// Every range holds ceil(n/workers) rows except the last, which takes the
// remainder. When workers exceeds n, or the chunking leaves trailing workers
// without rows, fewer ranges are returned; no range is ever empty. The
// result is checked with Validate before it is returned.
func Partition(n, workers int) ([]RowRange, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d rows", ErrPartitionMismatch, n)
	}
	if workers <= 0 {
		return nil, fmt.Errorf("%w: %d workers", ErrPartitionMismatch, workers)
	}

	workers = min(workers, n)
	chunkSize := (n + workers - 1) / workers

	ranges := make([]RowRange, 0, workers)
	for i := range workers {
		start := i * chunkSize
		if start >= n {
			break
		}
		ranges = append(ranges, RowRange{Start: start, End: min(start+chunkSize, n)})
	}

	if err := Validate(ranges, n); err != nil {
		return nil, err
	}
	return ranges, nil
}

// Validate checks that ranges are non-empty, ordered, and tile [0, n)
// with no gap and no overlap.
func Validate(ranges []RowRange, n int) error {
	next := 0
	for i, r := range ranges {
		if r.Start != next {
			return fmt.Errorf("%w: range %d starts at %d, want %d", ErrPartitionMismatch, i, r.Start, next)
		}
		if r.End <= r.Start {
			return fmt.Errorf("%w: range %d %v is empty", ErrPartitionMismatch, i, r)
		}
		next = r.End
	}
	if next != n {
		return fmt.Errorf("%w: ranges cover [0,%d), want [0,%d)", ErrPartitionMismatch, next, n)
	}
	return nil
}
