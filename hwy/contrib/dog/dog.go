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

package dog

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/convolve"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/gauss"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/image"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/workerpool"
)

// Error kinds of the pipeline, re-exported so callers can match every
// failure with errors.Is against this package alone.
var (
	ErrInvalidDimension  = image.ErrInvalidDimension
	ErrInvalidScale      = gauss.ErrInvalidScale
	ErrAllocationFailure = image.ErrAllocationFailure
	ErrPartitionMismatch = workerpool.ErrPartitionMismatch
)

// BuildDoG returns blur(img, sigma1) - blur(img, sigma2), with both blurs
// run by strategy. img is not modified. The two blurs run concurrently on
// their own copies of img. A nil strategy selects convolve.Scalar.
func BuildDoG(img *image.Image, sigma1, sigma2 float64, strategy convolve.Strategy) (*image.Image, error) {
	return NewBuilder(strategy).Build(img, sigma1, sigma2)
}

// Builder computes DoG images with a fixed convolution engine.
type Builder struct {
	engine *convolve.Engine
}

// NewBuilder creates a Builder running strategy. Options are passed to
// convolve.NewEngine.
func NewBuilder(strategy convolve.Strategy, opts ...convolve.Option) *Builder {
	return &Builder{engine: convolve.NewEngine(strategy, opts...)}
}

// Build is BuildDoG on the builder's engine.
func (b *Builder) Build(img *image.Image, sigma1, sigma2 float64) (*image.Image, error) {
	if img == nil || img.Width() <= 0 || img.Height() <= 0 {
		return nil, fmt.Errorf("dog: %w", ErrInvalidDimension)
	}

	// Reject bad scales before paying for two copies of the image.
	for _, sigma := range []float64{sigma1, sigma2} {
		if _, err := gauss.NewKernel(sigma); err != nil {
			return nil, fmt.Errorf("dog: sigma %v: %w", sigma, err)
		}
	}

	fine, coarse := img.Clone(), img.Clone()

	var g errgroup.Group
	g.Go(func() error { return b.engine.Blur(fine, sigma1) })
	g.Go(func() error { return b.engine.Blur(coarse, sigma2) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dog: %w", err)
	}

	if err := image.Sub(fine, coarse, fine); err != nil {
		return nil, fmt.Errorf("dog: %w", err)
	}
	return fine, nil
}

// Subtract returns a new image holding a - b.
func Subtract(a, b *image.Image) (*image.Image, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("dog: subtract: %w", ErrInvalidDimension)
	}
	out, err := image.New(a.Width(), a.Height())
	if err != nil {
		return nil, fmt.Errorf("dog: subtract: %w", err)
	}
	if err := image.Sub(a, b, out); err != nil {
		return nil, fmt.Errorf("dog: subtract: %w", err)
	}
	return out, nil
}
