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
	"context"
	"iter"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ajroetker/go-highway-dog/hwy/contrib/image"
	"github.com/ajroetker/go-highway-dog/internal/logging"
)

// Keypoint is the position of a strict local maximum. X and Y are always
// interior: 1 <= X <= W-2 and 1 <= Y <= H-2.
type Keypoint struct {
	X, Y int
}

// Keypoints yields every interior pixel of img that is strictly greater
// than all 8 of its neighbours, in row-major order. A tie with any
// neighbour disqualifies the pixel. Border pixels are never yielded, so
// images narrower or shorter than 3 pixels yield nothing.
//
// The sequence reads img lazily and can be ranged over more than once.
func Keypoints(img *image.Image) iter.Seq[Keypoint] {
	return func(yield func(Keypoint) bool) {
		if img == nil {
			return
		}
		in := img.Interior(1)
		for y := in.Y0; y < in.Y1; y++ {
			above, row, below := img.Row(y-1), img.Row(y), img.Row(y+1)
			for x := in.X0; x < in.X1; x++ {
				v := row[x]
				if v > above[x-1] && v > above[x] && v > above[x+1] &&
					v > row[x-1] && v > row[x+1] &&
					v > below[x-1] && v > below[x] && v > below[x+1] {
					if !yield(Keypoint{X: x, Y: y}) {
						return
					}
				}
			}
		}
	}
}

// ExtractKeypoints collects Keypoints(img). It returns nil when there are
// none.
func ExtractKeypoints(img *image.Image) []Keypoint {
	var kps []Keypoint
	for kp := range Keypoints(img) {
		kps = append(kps, kp)
	}
	return kps
}

// ExtractKeypointsLogged is ExtractKeypoints with one info record
// reporting the count and the scan time.
func ExtractKeypointsLogged(ctx context.Context, img *image.Image, logger *logging.Logger) []Keypoint {
	start := time.Now()
	kps := ExtractKeypoints(img)
	if logger != nil {
		logger.LogKeypoints(ctx, len(kps), time.Since(start))
	}
	return kps
}

// KeypointMask returns the set of linear indices y*width+x of kps.
func KeypointMask(kps []Keypoint, width int) *roaring.Bitmap {
	bm := roaring.New()
	for _, kp := range kps {
		bm.Add(uint32(kp.Y*width + kp.X))
	}
	return bm
}

// Agreement returns the Jaccard index of two keypoint sets on an image of
// the given width: |a ∩ b| / |a ∪ b|. Two empty sets agree fully.
func Agreement(a, b []Keypoint, width int) float64 {
	ma, mb := KeypointMask(a, width), KeypointMask(b, width)
	union := ma.OrCardinality(mb)
	if union == 0 {
		return 1
	}
	return float64(ma.AndCardinality(mb)) / float64(union)
}
