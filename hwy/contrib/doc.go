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

// Package contrib groups the image-processing packages built on hwy.
//
// # Subpackages
//
//   - image: single-channel float32 images, edge handling, point operations
//   - gauss: normalized 1D Gaussian kernels
//   - workerpool: persistent worker pool and row partitioning
//   - convolve: separable clamp-to-edge convolution under pluggable
//     execution strategies
//   - convolve/wire: frame format for the distributed strategy
//   - dog: Difference-of-Gaussians images and keypoint extraction
//
// # Pipeline
//
//	import (
//	    "github.com/ajroetker/go-highway-dog/hwy/contrib/convolve"
//	    "github.com/ajroetker/go-highway-dog/hwy/contrib/dog"
//	)
//
//	d, err := dog.BuildDoG(img, 1, 2, convolve.ThreadPool{Workers: 8})
//	if err != nil {
//	    return err
//	}
//	keypoints := dog.ExtractKeypoints(d)
//
// # Strategies
//
// Every strategy computes the same blur within floating-point tolerance:
//
//	convolve.Scalar{}                    // reference, one sample per step
//	convolve.VectorLane{Width: 8}        // 8 output columns per step
//	convolve.ThreadPool{Workers: 8}      // 8 row ranges on a worker pool
//	convolve.Distributed{Workers: 4}     // 4 ranks exchanging row slabs
package contrib
