// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		n, workers int
		want       []RowRange
	}{
		{10, 1, []RowRange{{0, 10}}},
		{10, 2, []RowRange{{0, 5}, {5, 10}}},
		{10, 3, []RowRange{{0, 4}, {4, 8}, {8, 10}}},
		{10, 4, []RowRange{{0, 3}, {3, 6}, {6, 9}, {9, 10}}},
		{3, 8, []RowRange{{0, 1}, {1, 2}, {2, 3}}},
		{9, 6, []RowRange{{0, 2}, {2, 4}, {4, 6}, {6, 8}, {8, 9}}},
		{64, 8, []RowRange{{0, 8}, {8, 16}, {16, 24}, {24, 32}, {32, 40}, {40, 48}, {48, 56}, {56, 64}}},
	}
	for _, tc := range tests {
		got, err := Partition(tc.n, tc.workers)
		if err != nil {
			t.Errorf("Partition(%d, %d): %v", tc.n, tc.workers, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("Partition(%d, %d) = %v, want %v", tc.n, tc.workers, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Partition(%d, %d)[%d] = %v, want %v", tc.n, tc.workers, i, got[i], tc.want[i])
			}
		}
	}
}

func TestPartitionCoversAllRows(t *testing.T) {
	for n := 1; n <= 70; n++ {
		for workers := 1; workers <= 12; workers++ {
			ranges, err := Partition(n, workers)
			if err != nil {
				t.Fatalf("Partition(%d, %d): %v", n, workers, err)
			}
			seen := make([]int, n)
			for _, r := range ranges {
				for y := r.Start; y < r.End; y++ {
					seen[y]++
				}
			}
			for y, c := range seen {
				if c != 1 {
					t.Fatalf("Partition(%d, %d): row %d covered %d times", n, workers, y, c)
				}
			}
		}
	}
}

func TestPartitionInvalid(t *testing.T) {
	for _, tc := range [][2]int{{0, 4}, {-1, 4}, {10, 0}, {10, -2}} {
		if _, err := Partition(tc[0], tc[1]); !errors.Is(err, ErrPartitionMismatch) {
			t.Errorf("Partition(%d, %d) err = %v, want ErrPartitionMismatch", tc[0], tc[1], err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		ranges []RowRange
		n      int
		ok     bool
	}{
		{"exact", []RowRange{{0, 3}, {3, 5}}, 5, true},
		{"gap", []RowRange{{0, 2}, {3, 5}}, 5, false},
		{"overlap", []RowRange{{0, 3}, {2, 5}}, 5, false},
		{"short", []RowRange{{0, 3}}, 5, false},
		{"empty_range", []RowRange{{0, 0}, {0, 5}}, 5, false},
		{"none", nil, 5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.ranges, tc.n)
			if tc.ok && err != nil {
				t.Errorf("Validate: unexpected error %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrPartitionMismatch) {
				t.Errorf("Validate: err = %v, want ErrPartitionMismatch", err)
			}
		})
	}
}

func TestRowRange(t *testing.T) {
	r := RowRange{Start: 4, End: 9}
	if r.Len() != 5 {
		t.Errorf("Len() = %d, want 5", r.Len())
	}
	if r.String() != "[4,9)" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestParallelRanges(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)
	ranges, err := Partition(n, 4)
	if err != nil {
		t.Fatal(err)
	}

	pool.ParallelRanges(ranges, func(r RowRange) {
		for i := r.Start; i < r.End; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

// A second pass that reads outside its own range must observe every write
// of the first pass.
func TestParallelRangesBarrier(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	n := 256
	first := make([]int, n)
	second := make([]int, n)
	ranges, err := Partition(n, 8)
	if err != nil {
		t.Fatal(err)
	}

	for iter := 0; iter < 20; iter++ {
		pool.ParallelRanges(ranges, func(r RowRange) {
			for i := r.Start; i < r.End; i++ {
				first[i] = iter + 1
			}
		})
		pool.ParallelRanges(ranges, func(r RowRange) {
			for i := r.Start; i < r.End; i++ {
				second[i] = first[(i+n/2)%n]
			}
		})
		for i, v := range second {
			if v != iter+1 {
				t.Fatalf("iteration %d: second[%d] = %d, want %d", iter, i, v, iter+1)
			}
		}
	}
}

func TestParallelRangesSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	// Fewer rows than workers
	n := 3
	ranges, err := Partition(n, pool.NumWorkers())
	if err != nil {
		t.Fatal(err)
	}
	var count atomic.Int32

	pool.ParallelRanges(ranges, func(r RowRange) {
		count.Add(int32(r.Len()))
	})

	if count.Load() != int32(n) {
		t.Errorf("count = %d, want %d", count.Load(), n)
	}
}

func TestParallelRangesEmpty(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	pool.ParallelRanges(nil, func(r RowRange) {
		called = true
	})

	if called {
		t.Error("ParallelRanges with no ranges should not call fn")
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	n := 100
	results := make([]int, n)

	ranges, err := Partition(n, pool.NumWorkers())
	if err != nil {
		t.Fatal(err)
	}

	// Should still work (sequential fallback)
	pool.ParallelRanges(ranges, func(r RowRange) {
		for i := r.Start; i < r.End; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestCloseDuringParallelRanges(t *testing.T) {
	const (
		callers = 8
		calls   = 200
		n       = 64
	)
	pool := New(4)
	ranges, err := Partition(n, pool.NumWorkers())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var missing atomic.Int32
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range calls {
				var covered atomic.Int32
				pool.ParallelRanges(ranges, func(r RowRange) {
					covered.Add(int32(r.Len()))
				})
				if covered.Load() != n {
					missing.Add(1)
				}
			}
		}()
	}

	pool.Close()
	wg.Wait()

	if m := missing.Load(); m != 0 {
		t.Errorf("%d ParallelRanges calls did not cover all %d rows", m, n)
	}
}

func BenchmarkParallelRanges(b *testing.B) {
	pool := New(0) // Use GOMAXPROCS
	defer pool.Close()

	ranges, err := Partition(1000, pool.NumWorkers())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelRanges(ranges, func(r RowRange) {
			for j := r.Start; j < r.End; j++ {
				_ = j * j
			}
		})
	}
}
