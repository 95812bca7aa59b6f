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

// Package gauss builds normalized 1D Gaussian kernels for separable blurs.
//
// A kernel for scale sigma has radius r = ceil(3*sigma) and 2r+1 weights
// w_i = exp(-i^2 / (2*sigma^2)) for i in [-r, r], scaled so they sum to 1.
//
//	k, err := gauss.NewKernel(1.0)
//	if err != nil {
//	    return err
//	}
//	for i := -k.Radius(); i <= k.Radius(); i++ {
//	    sum += src[image.Clamp(x+i, width)] * k.At(i)
//	}
package gauss

import (
	"errors"
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"
)

// ErrInvalidScale is returned for a sigma that is not a positive finite number.
var ErrInvalidScale = errors.New("gauss: invalid scale")

// MaxRadius caps the kernel radius. A sigma large enough to exceed it would
// allocate a kernel wider than any image this package is meant for.
const MaxRadius = 1 << 16

// Kernel is an immutable, symmetric, normalized 1D Gaussian kernel.
type Kernel struct {
	sigma   float64
	radius  int
	weights []float32
}

// Radius returns ceil(3*sigma) for a valid sigma. It does not validate sigma.
func Radius(sigma float64) int {
	return int(math.Ceil(3 * sigma))
}

// NewKernel builds the kernel for sigma.
func NewKernel(sigma float64) (Kernel, error) {
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return Kernel{}, fmt.Errorf("%w: sigma=%v", ErrInvalidScale, sigma)
	}
	if rf := math.Ceil(3 * sigma); rf > MaxRadius {
		return Kernel{}, fmt.Errorf("%w: sigma=%v gives radius %v > %d", ErrInvalidScale, sigma, rf, MaxRadius)
	}
	r := Radius(sigma)

	weights := make([]float32, 2*r+1)
	denom := 2 * sigma * sigma
	for i := -r; i <= r; i++ {
		weights[i+r] = float32(math.Exp(-float64(i*i) / denom))
	}

	// The centre weight is 1, so the sum is never zero.
	vek32.DivNumber_Inplace(weights, vek32.Sum(weights))

	return Kernel{sigma: sigma, radius: r, weights: weights}, nil
}

// MustKernel is like NewKernel but panics on error.
func MustKernel(sigma float64) Kernel {
	k, err := NewKernel(sigma)
	if err != nil {
		panic(err)
	}
	return k
}

// Sigma returns the scale the kernel was built for.
func (k Kernel) Sigma() float64 {
	return k.sigma
}

// Radius returns r; the kernel covers offsets [-r, r].
func (k Kernel) Radius() int {
	return k.radius
}

// Len returns the number of taps, 2r+1.
func (k Kernel) Len() int {
	return len(k.weights)
}

// At returns the weight for offset i in [-r, r].
func (k Kernel) At(i int) float32 {
	return k.weights[i+k.radius]
}

// Weights returns a copy of the taps ordered from offset -r to r.
func (k Kernel) Weights() []float32 {
	w := make([]float32, len(k.weights))
	copy(w, k.weights)
	return w
}

// Taps exposes the weights without copying, for row kernels that index
// them in their inner loop. Callers must not modify the result.
func (k Kernel) Taps() []float32 {
	return k.weights
}

// IsZero reports whether k is the zero Kernel returned alongside an error.
func (k Kernel) IsZero() bool {
	return k.weights == nil
}
