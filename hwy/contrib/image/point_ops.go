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

package image

import (
	"fmt"
	"unsafe"

	"github.com/viterin/vek/vek32"
)

// Sub computes out = a - b pixelwise. All three images must have the same
// dimensions. out may share its pixel buffer with a, with b, or with both.
func Sub(a, b, out *Image) error {
	if !SameSize(a, b) || !SameSize(a, out) {
		return fmt.Errorf("%w: sub %dx%d - %dx%d into %dx%d", ErrInvalidDimension,
			a.width, a.height, b.width, b.height, out.width, out.height)
	}
	// vek32 panics when the destination overlaps an operand of an _Into call.
	outA, outB := overlaps(out.data, a.data), overlaps(out.data, b.data)
	switch {
	case !outA && !outB:
		vek32.Sub_Into(out.data, a.data, b.data)
	case sameBuffer(out.data, a.data) && !outB:
		vek32.Sub_Inplace(out.data, b.data)
	case sameBuffer(out.data, b.data) && !outA:
		// out = -(b - a)
		vek32.Sub_Inplace(out.data, a.data)
		vek32.MulNumber_Inplace(out.data, -1)
	default:
		copy(out.data, vek32.Sub(a.data, b.data))
	}
	return nil
}

func sameBuffer(x, y []float32) bool {
	return len(x) > 0 && len(x) == len(y) && &x[0] == &y[0]
}

// overlaps reports whether x and y share any backing memory.
func overlaps(x, y []float32) bool {
	if len(x) == 0 || len(y) == 0 {
		return false
	}
	const size = unsafe.Sizeof(float32(0))
	x0 := uintptr(unsafe.Pointer(&x[0]))
	y0 := uintptr(unsafe.Pointer(&y[0]))
	x1 := x0 + uintptr(len(x))*size
	y1 := y0 + uintptr(len(y))*size
	return x0 < y1 && y0 < x1
}
