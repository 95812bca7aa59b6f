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

// Package convolve applies a separable Gaussian blur to an image in place.
//
// The blur is two 1D passes with clamp-to-edge sampling:
//
//	temp[x,y] = sum_k img[clamp(x+k), y] * w_k   (horizontal)
//	img[x,y]  = sum_k temp[x, clamp(y+k)] * w_k  (vertical)
//
// How the passes are executed is chosen by a Strategy. Every strategy
// computes the same sums over row ranges with a RowFunc, and every strategy
// finishes the horizontal pass over all rows before any vertical read:
//
//	Scalar{}                           one loop, one sample per step
//	VectorLane{Width: 8}               8 adjacent columns per step, scalar tail
//	ThreadPool{Workers: 8}             row ranges on a worker pool, barrier between passes
//	Distributed{Workers: 4}            row slabs exchanged with independent workers
//
// Results agree across strategies within float32 rounding.
//
// # Usage
//
//	img, _ := image.New(512, 512)
//	eng := convolve.NewEngine(convolve.ThreadPool{Workers: 8})
//	if err := eng.Blur(img, 1.0); err != nil {
//	    return err
//	}
package convolve
