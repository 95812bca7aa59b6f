// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package convolve

import (
	"fmt"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/gauss"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/image"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/workerpool"
)

// ThreadPool splits the rows into Workers contiguous ranges and runs each
// pass on a worker pool. The horizontal pass over every range completes
// before any range starts the vertical pass, since vertical sums near a
// range edge read temp rows owned by the neighbouring range.
type ThreadPool struct {
	// Workers is the number of row ranges. Zero uses Pool.NumWorkers()
	// when Pool is set.
	Workers int

	// Lanes selects the row kernel: zero runs ScalarRows, a positive
	// value runs LaneRows(Lanes) inside each range.
	Lanes int

	// Pool runs the ranges. If nil, a pool is created for the call and
	// closed before Convolve returns.
	Pool *workerpool.Pool
}

// Convolve implements Strategy.
func (s ThreadPool) Convolve(img, temp *image.Image, k gauss.Kernel) error {
	if err := checkBuffers(img, temp, k); err != nil {
		return err
	}

	workers := s.Workers
	if workers == 0 && s.Pool != nil {
		workers = s.Pool.NumWorkers()
	}
	ranges, err := workerpool.Partition(img.Height(), workers)
	if err != nil {
		return err
	}

	pool := s.Pool
	if pool == nil {
		pool = workerpool.New(len(ranges))
		defer pool.Close()
	}

	rows := RowFunc(ScalarRows)
	if s.Lanes > 0 {
		rows = LaneRows(s.Lanes)
	}

	pool.ParallelRanges(ranges, func(r workerpool.RowRange) {
		rows(img, temp, k, Horizontal, r)
	})
	// ParallelRanges has returned: every temp row is written.
	pool.ParallelRanges(ranges, func(r workerpool.RowRange) {
		rows(temp, img, k, Vertical, r)
	})
	return nil
}

func (s ThreadPool) String() string {
	name := fmt.Sprintf("threadPool(%d)", s.Workers)
	if s.Lanes > 0 {
		name += fmt.Sprintf("+vectorLane(%d)", s.Lanes)
	}
	return name
}
