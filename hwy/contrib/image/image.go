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
	"math"
)

// MaxPixels bounds the number of samples a single image may hold.
// It keeps width*height away from int overflow and from allocations the
// runtime would reject.
const MaxPixels = 1 << 30

// Image is a single-channel 2D array of float32 samples in row-major order.
type Image struct {
	data   []float32
	width  int
	height int
}

// New creates a zero-initialised image with the specified dimensions.
//
// It returns ErrInvalidDimension if width or height is not positive and
// ErrAllocationFailure if the buffer would exceed MaxPixels. Running out of
// memory below that bound is fatal to the process, as for any Go allocation.
func New(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	if width > MaxPixels/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocationFailure, width, height, MaxPixels)
	}
	return &Image{data: make([]float32, width*height), width: width, height: height}, nil
}

// MustNew is like New but panics on error. Intended for tests and fixed-size
// scratch buffers.
func MustNew(width, height int) *Image {
	img, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return img
}

// FromPixels wraps pix as a width x height image. pix is used directly, not
// copied, and must hold exactly width*height samples.
func FromPixels(width, height int, pix []float32) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	if width > MaxPixels/height || len(pix) != width*height {
		return nil, fmt.Errorf("%w: %dx%d image needs %d samples, got %d",
			ErrInvalidDimension, width, height, width*height, len(pix))
	}
	return &Image{data: pix, width: width, height: height}, nil
}

// Width returns the image width in pixels.
func (img *Image) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image) Height() int {
	return img.height
}

// Pix returns the backing buffer, row-major, len == Width()*Height().
func (img *Image) Pix() []float32 {
	return img.data
}

// Row returns a mutable slice of exactly Width() samples for row y.
// Returns nil if y is out of range.
func (img *Image) Row(y int) []float32 {
	if y < 0 || y >= img.height {
		return nil
	}
	start := y * img.width
	return img.data[start : start+img.width : start+img.width]
}

// Rows returns the contiguous samples of rows [start, end).
// Returns nil if the range is empty or out of bounds.
func (img *Image) Rows(start, end int) []float32 {
	if start < 0 || end > img.height || start >= end {
		return nil
	}
	return img.data[start*img.width : end*img.width]
}

// At returns the value at position (x, y).
// Out-of-bounds coordinates return zero.
func (img *Image) At(x, y int) float32 {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return 0
	}
	return img.data[y*img.width+x]
}

// Set sets the value at position (x, y). Out-of-bounds writes are ignored.
func (img *Image) Set(x, y int, value float32) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return
	}
	img.data[y*img.width+x] = value
}

// SameSize returns true if both images have the same dimensions.
func SameSize(a, b *Image) bool {
	return a.width == b.width && a.height == b.height
}

// Clone creates a deep copy of the image.
func (img *Image) Clone() *Image {
	clone := &Image{
		data:   make([]float32, len(img.data)),
		width:  img.width,
		height: img.height,
	}
	copy(clone.data, img.data)
	return clone
}

// Fill sets all pixels to the specified value.
func (img *Image) Fill(value float32) {
	for i := range img.data {
		img.data[i] = value
	}
}

// MaxAbsDiff returns the largest |a-b| over all pixels, or +Inf if the
// images differ in size.
func MaxAbsDiff(a, b *Image) float64 {
	if !SameSize(a, b) {
		return math.Inf(1)
	}
	var worst float64
	for i, v := range a.data {
		if d := math.Abs(float64(v - b.data[i])); d > worst {
			worst = d
		}
	}
	return worst
}

// Rect defines a rectangular region within an image.
type Rect struct {
	X0, Y0 int // Top-left corner (inclusive)
	X1, Y1 int // Bottom-right corner (exclusive)
}

// Interior returns the bounds shrunk by border pixels on every side.
func (img *Image) Interior(border int) Rect {
	return Rect{X0: border, Y0: border, X1: img.width - border, Y1: img.height - border}
}

// Clamp returns index clamped to [0, size-1].
// Used for clamp-to-edge sampling in convolution.
func Clamp(index, size int) int {
	if index < 0 {
		return 0
	}
	if index >= size {
		return size - 1
	}
	return index
}
