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

package hwy

// The operations below are written lane by lane in pure Go. The Go compiler
// keeps the lane loops tight enough that batching N columns per step pays off
// on the row kernels, and the results are bit-identical across platforms
// except where the compiler fuses a multiply-add.

// Zero creates a vector with all lanes set to zero.
func (d Desc[T]) Zero() Vec[T] {
	return Vec[T]{data: make([]T, d.n)}
}

// Load creates a vector from the first N elements of src.
// If src is shorter than N, the remaining lanes are zero.
func (d Desc[T]) Load(src []T) Vec[T] {
	v := d.Zero()
	d.LoadTo(v, src)
	return v
}

// LoadTo overwrites v with the first N elements of src without allocating.
// If src is shorter than N, the remaining lanes are zero.
func (d Desc[T]) LoadTo(v Vec[T], src []T) {
	n := copy(v.data, src)
	for i := n; i < len(v.data); i++ {
		v.data[i] = 0
	}
}

// GatherTo overwrites v with src[idx[i]] for each lane i.
// idx must hold at least N indices.
func (d Desc[T]) GatherTo(v Vec[T], src []T, idx []int) {
	for i := range v.data {
		v.data[i] = src[idx[i]]
	}
}

// Store writes a vector's data to a slice.
// At most min(len(dst), d.N()) elements are written.
func Store[T Floats](v Vec[T], dst []T) {
	n := min(len(dst), len(v.data))
	copy(dst[:n], v.data[:n])
}

// MulAddTo accumulates acc += a * w in place, broadcasting the scalar w.
func MulAddTo[T Floats](acc, a Vec[T], w T) {
	n := min(len(acc.data), len(a.data))
	for i := range n {
		acc.data[i] += a.data[i] * w
	}
}

// Clear sets every lane of v to zero in place.
func Clear[T Floats](v Vec[T]) {
	for i := range v.data {
		v.data[i] = 0
	}
}
