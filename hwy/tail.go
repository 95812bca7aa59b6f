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

package hwy

// ProcessWithTail walks [0, size) in steps of d.N() lanes.
//
// It calls:
//   - fullFn(offset) for each full vector (offset is the starting index)
//   - tailFn(offset, count) once for the remainder, if size is not a
//     multiple of d.N()
//
// Example:
//
//	d := hwy.Lanes[float32](0)
//	hwy.ProcessWithTail(d, len(data),
//	    func(offset int) {
//	        acc := d.Zero()
//	        hwy.MulAddTo(acc, d.Load(data[offset:]), 2)
//	        hwy.Store(acc, output[offset:])
//	    },
//	    func(offset, count int) {
//	        for i := offset; i < offset+count; i++ {
//	            output[i] = 2 * data[i]
//	        }
//	    },
//	)
func ProcessWithTail[T Floats](d Desc[T], size int, fullFn func(offset int), tailFn func(offset, count int)) {
	n := d.N()

	fullVectors := size / n
	for i := range fullVectors {
		fullFn(i * n)
	}

	if remaining := size - fullVectors*n; remaining > 0 {
		tailFn(fullVectors*n, remaining)
	}
}
