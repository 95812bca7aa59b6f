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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/gauss"
	"github.com/ajroetker/go-highway-dog/hwy/contrib/image"
	"github.com/ajroetker/go-highway-dog/internal/logging"
)

var (
	// ErrProtocol is returned when a distributed worker answers with a frame
	// that does not match the request it was sent.
	ErrProtocol = errors.New("convolve: protocol error")

	// ErrInvalidLanes is returned by VectorLane for a negative lane width.
	ErrInvalidLanes = errors.New("convolve: invalid lane width")
)

// Strategy executes both passes of a separable convolution.
//
// Convolve reads img, writes the horizontal pass into temp, then writes the
// vertical pass back into img. temp has the same dimensions as img and its
// initial contents are undefined. Implementations must be safe for
// concurrent use on distinct images.
type Strategy interface {
	Convolve(img, temp *image.Image, k gauss.Kernel) error
	String() string
}

// Engine blurs images with a fixed Strategy.
type Engine struct {
	strategy Strategy
	logger   *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-blur debug records.
// If nil is passed, logging is disabled.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = logging.NoopLogger()
		}
		e.logger = l
	}
}

// NewEngine creates an Engine. A nil strategy selects Scalar.
func NewEngine(s Strategy, opts ...Option) *Engine {
	if s == nil {
		s = Scalar{}
	}
	e := &Engine{
		strategy: s,
		logger:   logging.NoopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithStrategy(s.String())
	return e
}

// Strategy returns the strategy the engine runs.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Blur applies a Gaussian blur of scale sigma to img in place.
//
// It returns image.ErrInvalidDimension for a nil or empty image,
// gauss.ErrInvalidScale for a non-positive sigma, image.ErrAllocationFailure
// if the scratch buffer cannot be created, and any error of the strategy.
func (e *Engine) Blur(img *image.Image, sigma float64) error {
	if img == nil || img.Width() <= 0 || img.Height() <= 0 {
		return fmt.Errorf("convolve: blur: %w", image.ErrInvalidDimension)
	}

	k, err := gauss.NewKernel(sigma)
	if err != nil {
		return fmt.Errorf("convolve: blur: %w", err)
	}

	// temp lives only for this call.
	temp, err := image.New(img.Width(), img.Height())
	if err != nil {
		return fmt.Errorf("convolve: blur scratch: %w", err)
	}

	start := time.Now()
	err = e.strategy.Convolve(img, temp, k)
	if err != nil {
		err = fmt.Errorf("convolve: %s: %w", e.strategy, err)
	}
	e.logger.LogBlur(context.Background(), img.Width(), img.Height(), sigma, k.Radius(), time.Since(start), err)
	return err
}

// Blur applies a Gaussian blur of scale sigma to img in place using s.
// A nil strategy selects Scalar.
func Blur(img *image.Image, sigma float64, s Strategy) error {
	return NewEngine(s).Blur(img, sigma)
}

// checkBuffers validates the arguments every Strategy.Convolve receives.
func checkBuffers(img, temp *image.Image, k gauss.Kernel) error {
	if img == nil || temp == nil || img.Width() <= 0 || img.Height() <= 0 {
		return image.ErrInvalidDimension
	}
	if !image.SameSize(img, temp) {
		return fmt.Errorf("%w: scratch %dx%d for image %dx%d", image.ErrInvalidDimension,
			temp.Width(), temp.Height(), img.Width(), img.Height())
	}
	if k.IsZero() {
		return gauss.ErrInvalidScale
	}
	return nil
}
