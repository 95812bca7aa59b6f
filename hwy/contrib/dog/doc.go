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

// Package dog builds Difference-of-Gaussians images and extracts keypoint
// candidates from them.
//
// A DoG image is the difference of two Gaussian blurs of the same input at
// scales sigma1 < sigma2. Blobs whose size matches the band between the two
// scales show up as strict local maxima:
//
//	d, err := dog.BuildDoG(img, 1, 2, convolve.ThreadPool{Workers: 8})
//	if err != nil {
//	    return err
//	}
//	for kp := range dog.Keypoints(d) {
//	    fmt.Println(kp.X, kp.Y)
//	}
//
// Any convolve.Strategy can be used; all of them produce the same DoG
// image within floating-point tolerance, so the keypoints agree as well.
// KeypointMask and Agreement compare keypoint sets produced by different
// strategies.
package dog
