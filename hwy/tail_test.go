package hwy

import "testing"

func TestProcessWithTail(t *testing.T) {
	tests := []struct {
		name       string
		lanes      int
		size       int
		wantFull   []int
		wantTail   [2]int
		expectTail bool
	}{
		{"exact", 4, 8, []int{0, 4}, [2]int{}, false},
		{"remainder", 4, 10, []int{0, 4}, [2]int{8, 2}, true},
		{"tail_only", 8, 5, nil, [2]int{0, 5}, true},
		{"empty", 4, 0, nil, [2]int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var full []int
			var tail [2]int
			tailCalls := 0
			ProcessWithTail(Lanes[float32](tt.lanes), tt.size,
				func(offset int) { full = append(full, offset) },
				func(offset, count int) {
					tail = [2]int{offset, count}
					tailCalls++
				},
			)

			if len(full) != len(tt.wantFull) {
				t.Fatalf("full offsets = %v, want %v", full, tt.wantFull)
			}
			for i := range full {
				if full[i] != tt.wantFull[i] {
					t.Errorf("full[%d] = %d, want %d", i, full[i], tt.wantFull[i])
				}
			}
			if tt.expectTail {
				if tailCalls != 1 || tail != tt.wantTail {
					t.Errorf("tail = %v (%d calls), want %v once", tail, tailCalls, tt.wantTail)
				}
			} else if tailCalls != 0 {
				t.Errorf("unexpected tail call %v", tail)
			}
		})
	}
}
