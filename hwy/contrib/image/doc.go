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

// Package image provides the single-channel float32 image used by the
// convolution and Difference-of-Gaussians packages.
//
// Pixels are stored row-major with no padding, so len(Pix()) is always
// Width()*Height() and a contiguous range of rows is a single slice:
//
//	img, err := image.New(640, 480)
//	if err != nil {
//	    return err
//	}
//	img.Set(10, 20, 1.0)
//	rows := img.Rows(100, 200) // 100 rows, 64000 samples
//
// # Point Operations
//
//	Sub(a, b, out) // out = a - b
//	img.Fill(v)    // every pixel = v
//
// # Edge Handling
//
// Out-of-bounds taps are resolved by repeating the edge pixel:
//
//	Clamp(index, size)
package image
