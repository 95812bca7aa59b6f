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

// Package hwy provides portable fixed-width lane operations.
//
// Vectors are created through a descriptor that fixes the lane count, so
// the same kernel can run 4, 8 or 16 lanes wide regardless of what the
// host CPU reports:
//
//	d := hwy.Lanes[float32](8)
//	acc := d.Zero()
//	px := d.Zero()
//	d.LoadTo(px, row[x:])
//	hwy.MulAddTo(acc, px, w) // acc += px * w
//	hwy.Store(acc, out[x:])
//
// A descriptor built with n <= 0 uses MaxLanes for the detected SIMD
// target (see CurrentLevel).
package hwy

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// Vec is a group of lanes of a fixed width.
//
// Vec instances should not be created directly; use a Desc.
type Vec[T Floats] struct {
	data []T
}

// Data returns the underlying slice representation of the vector.
// This is primarily for testing and should not be used in performance-critical code.
func (v Vec[T]) Data() []T {
	return v.data
}

// Desc describes a vector shape: element type and lane count.
type Desc[T Floats] struct {
	n int
}

// Lanes returns a descriptor for n lanes of T.
// If n <= 0, the width of the detected SIMD target is used.
func Lanes[T Floats](n int) Desc[T] {
	if n <= 0 {
		n = MaxLanes[T]()
	}
	return Desc[T]{n: n}
}

// N returns the lane count.
func (d Desc[T]) N() int {
	return d.n
}
