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
	"github.com/ajroetker/go-highway-dog/hwy"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/gauss"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/image"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/workerpool"
)

// Pass selects the direction of a 1D convolution pass.
type Pass uint8

const (
	// Horizontal convolves along x: dst[x,y] = sum src[clamp(x+k), y] * w_k.
	Horizontal Pass = iota
	// Vertical convolves along y: dst[x,y] = sum src[x, clamp(y+k)] * w_k.
	Vertical
)

func (p Pass) String() string {
	if p == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// RowFunc computes one pass for the output rows in rows, reading src and
// writing only dst rows inside rows. src and dst have the same dimensions.
type RowFunc func(src, dst *image.Image, k gauss.Kernel, pass Pass, rows workerpool.RowRange)

// horizontalAt returns the horizontal sum for column x of row in.
func horizontalAt(in []float32, x, width int, taps []float32, r int) float32 {
	var sum float32
	for i := -r; i <= r; i++ {
		sum += in[image.Clamp(x+i, width)] * taps[i+r]
	}
	return sum
}

// verticalAt returns the vertical sum for (x, y) reading src.
func verticalAt(src []float32, x, y, width, height int, taps []float32, r int) float32 {
	var sum float32
	for i := -r; i <= r; i++ {
		sum += src[image.Clamp(y+i, height)*width+x] * taps[i+r]
	}
	return sum
}

// ScalarRows is the reference RowFunc: one output sample per step.
func ScalarRows(src, dst *image.Image, k gauss.Kernel, pass Pass, rows workerpool.RowRange) {
	width, height := src.Width(), src.Height()
	taps, r := k.Taps(), k.Radius()

	switch pass {
	case Horizontal:
		for y := rows.Start; y < rows.End; y++ {
			in, out := src.Row(y), dst.Row(y)
			for x := range width {
				out[x] = horizontalAt(in, x, width, taps, r)
			}
		}
	case Vertical:
		pix := src.Pix()
		for y := rows.Start; y < rows.End; y++ {
			out := dst.Row(y)
			for x := range width {
				out[x] = verticalAt(pix, x, y, width, height, taps, r)
			}
		}
	}
}

// LaneRows returns a RowFunc that computes lanes adjacent output columns
// per step. lanes <= 0 uses the width of the detected SIMD target.
//
// Each lane clamps its own source column, so batches that straddle an
// image edge gather instead of loading contiguously. Columns past the last
// full batch are computed one at a time.
func LaneRows(lanes int) RowFunc {
	d := hwy.Lanes[float32](lanes)

	return func(src, dst *image.Image, k gauss.Kernel, pass Pass, rows workerpool.RowRange) {
		width, height := src.Width(), src.Height()
		taps, r := k.Taps(), k.Radius()
		n := d.N()

		// Per call, so concurrent callers never share accumulators.
		acc := d.Zero()
		px := d.Zero()
		idx := make([]int, n)

		switch pass {
		case Horizontal:
			var in, out []float32
			batch := func(x int) {
				hwy.Clear(acc)
				for i := -r; i <= r; i++ {
					lo := x + i
					if lo >= 0 && lo+n <= width {
						d.LoadTo(px, in[lo:])
					} else {
						for j := range idx {
							idx[j] = image.Clamp(lo+j, width)
						}
						d.GatherTo(px, in, idx)
					}
					hwy.MulAddTo(acc, px, taps[i+r])
				}
				hwy.Store(acc, out[x:])
			}
			tail := func(x, count int) {
				for end := x + count; x < end; x++ {
					out[x] = horizontalAt(in, x, width, taps, r)
				}
			}
			for y := rows.Start; y < rows.End; y++ {
				in, out = src.Row(y), dst.Row(y)
				hwy.ProcessWithTail(d, width, batch, tail)
			}
		case Vertical:
			pix := src.Pix()
			var y int
			var out []float32
			batch := func(x int) {
				hwy.Clear(acc)
				for i := -r; i <= r; i++ {
					d.LoadTo(px, src.Row(image.Clamp(y+i, height))[x:])
					hwy.MulAddTo(acc, px, taps[i+r])
				}
				hwy.Store(acc, out[x:])
			}
			tail := func(x, count int) {
				for end := x + count; x < end; x++ {
					out[x] = verticalAt(pix, x, y, width, height, taps, r)
				}
			}
			for y = rows.Start; y < rows.End; y++ {
				out = dst.Row(y)
				hwy.ProcessWithTail(d, width, batch, tail)
			}
		}
	}
}
