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

// Scalar runs both passes over the whole image on the calling goroutine.
type Scalar struct{}

// Convolve implements Strategy.
func (Scalar) Convolve(img, temp *image.Image, k gauss.Kernel) error {
	if err := checkBuffers(img, temp, k); err != nil {
		return err
	}
	all := workerpool.RowRange{Start: 0, End: img.Height()}
	ScalarRows(img, temp, k, Horizontal, all)
	ScalarRows(temp, img, k, Vertical, all)
	return nil
}

func (Scalar) String() string { return "scalar" }

// VectorLane runs both passes over the whole image on the calling
// goroutine, Width output columns per step.
type VectorLane struct {
	// Width is the lane count. Zero selects the detected SIMD width.
	Width int
}

// Convolve implements Strategy.
func (s VectorLane) Convolve(img, temp *image.Image, k gauss.Kernel) error {
	if err := checkBuffers(img, temp, k); err != nil {
		return err
	}
	if s.Width < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLanes, s.Width)
	}
	rows := LaneRows(s.Width)
	all := workerpool.RowRange{Start: 0, End: img.Height()}
	rows(img, temp, k, Horizontal, all)
	rows(temp, img, k, Vertical, all)
	return nil
}

func (s VectorLane) String() string {
	if s.Width == 0 {
		return "vectorLane"
	}
	return fmt.Sprintf("vectorLane(%d)", s.Width)
}
