package image

import (
	"errors"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	img, err := New(100, 50)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if img.Width() != 100 {
		t.Errorf("Width: got %d, want 100", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Height: got %d, want 50", img.Height())
	}
	if len(img.Pix()) != 100*50 {
		t.Errorf("len(Pix): got %d, want %d", len(img.Pix()), 100*50)
	}
	for i, v := range img.Pix() {
		if v != 0 {
			t.Fatalf("Pix[%d] = %v, want zero-initialised", i, v)
		}
	}
}

func TestNew_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero", 0, 0},
		{"zero_width", 0, 10},
		{"negative_width", -1, 10},
		{"negative_height", 10, -3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img, err := New(tc.width, tc.height)
			if !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("err = %v, want ErrInvalidDimension", err)
			}
			if img != nil {
				t.Error("image should be nil on error")
			}
		})
	}
}

func TestNew_TooLarge(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"overflow", math.MaxInt / 2, 4},
		{"one_past_max", MaxPixels + 1, 1},
		{"rows_past_max", 1 << 15, 1<<15 + 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img, err := New(tc.width, tc.height)
			if !errors.Is(err, ErrAllocationFailure) {
				t.Errorf("err = %v, want ErrAllocationFailure", err)
			}
			if img != nil {
				t.Errorf("img = %p, want nil", img)
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew(0, 0) should panic")
		}
	}()
	MustNew(0, 0)
}

func TestFromPixels(t *testing.T) {
	pix := []float32{1, 2, 3, 4, 5, 6}
	img, err := FromPixels(3, 2, pix)
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	if got := img.At(2, 1); got != 6 {
		t.Errorf("At(2,1) = %v, want 6", got)
	}

	if _, err := FromPixels(4, 2, pix); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("short buffer: err = %v, want ErrInvalidDimension", err)
	}
}

func TestImage_Row(t *testing.T) {
	img := MustNew(10, 5)

	row0 := img.Row(0)
	if len(row0) != 10 {
		t.Fatalf("Row length: got %d, want 10", len(row0))
	}
	for i := range 10 {
		row0[i] = float32(i)
	}
	for i := range 10 {
		if got := img.At(i, 0); got != float32(i) {
			t.Errorf("At(%d,0): got %v, want %v", i, got, float32(i))
		}
	}

	// Different row should be independent
	row1 := img.Row(1)
	row1[0] = 999
	if row0[0] == 999 {
		t.Error("Rows should be independent")
	}

	// Appending to a row must not spill into the next one.
	_ = append(row0, 42)
	if img.At(0, 1) != 999 {
		t.Error("append to Row(0) overwrote Row(1)")
	}

	if img.Row(-1) != nil {
		t.Error("Row(-1) should return nil")
	}
	if img.Row(5) != nil {
		t.Error("Row(5) should return nil")
	}
}

func TestImage_Rows(t *testing.T) {
	img := MustNew(4, 6)
	for i := range img.Pix() {
		img.Pix()[i] = float32(i)
	}

	rows := img.Rows(2, 4)
	if len(rows) != 8 {
		t.Fatalf("Rows(2,4) length: got %d, want 8", len(rows))
	}
	if rows[0] != 8 || rows[7] != 15 {
		t.Errorf("Rows(2,4) = %v", rows)
	}

	for _, r := range [][2]int{{-1, 2}, {3, 3}, {4, 2}, {0, 7}} {
		if img.Rows(r[0], r[1]) != nil {
			t.Errorf("Rows(%d,%d) should be nil", r[0], r[1])
		}
	}
}

func TestImage_AtSet(t *testing.T) {
	img := MustNew(10, 10)

	img.Set(5, 7, 42.0)
	if got := img.At(5, 7); got != 42.0 {
		t.Errorf("At(5,7): got %v, want 42.0", got)
	}

	// Out of bounds should return zero
	if got := img.At(-1, 0); got != 0 {
		t.Errorf("At(-1,0): got %v, want 0", got)
	}
	if got := img.At(10, 0); got != 0 {
		t.Errorf("At(10,0): got %v, want 0", got)
	}

	// Set out of bounds should be no-op
	img.Set(-1, 0, 999)
	img.Set(10, 0, 999)
	for _, v := range img.Pix() {
		if v == 999 {
			t.Fatal("out-of-bounds Set wrote into the buffer")
		}
	}
}

func TestImage_Clone(t *testing.T) {
	img := MustNew(10, 10)
	img.Set(5, 5, 42.0)

	clone := img.Clone()
	if !SameSize(img, clone) {
		t.Error("Clone dimensions differ")
	}
	if clone.At(5, 5) != 42.0 {
		t.Errorf("Clone value: got %v, want 42.0", clone.At(5, 5))
	}

	clone.Set(5, 5, 0)
	if img.At(5, 5) != 42.0 {
		t.Error("Modifying clone affected original")
	}
}

func TestImage_Fill(t *testing.T) {
	img := MustNew(7, 3)
	img.Fill(2.5)
	for i, v := range img.Pix() {
		if v != 2.5 {
			t.Fatalf("Pix[%d] = %v, want 2.5", i, v)
		}
	}
}

func TestMaxAbsDiff(t *testing.T) {
	a := MustNew(3, 3)
	b := MustNew(3, 3)
	b.Set(1, 2, -0.5)
	if got := MaxAbsDiff(a, b); got != 0.5 {
		t.Errorf("MaxAbsDiff = %v, want 0.5", got)
	}
	if got := MaxAbsDiff(a, MustNew(3, 4)); !math.IsInf(got, 1) {
		t.Errorf("MaxAbsDiff of different sizes = %v, want +Inf", got)
	}
}

func TestInterior(t *testing.T) {
	img := MustNew(8, 6)
	want := Rect{X0: 1, Y0: 1, X1: 7, Y1: 5}
	if got := img.Interior(1); got != want {
		t.Errorf("Interior(1) = %+v, want %+v", got, want)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ index, size, want int }{
		{-5, 10, 0},
		{-1, 10, 0},
		{0, 10, 0},
		{9, 10, 9},
		{10, 10, 9},
		{42, 10, 9},
		{3, 1, 0},
	}
	for _, tc := range tests {
		if got := Clamp(tc.index, tc.size); got != tc.want {
			t.Errorf("Clamp(%d, %d) = %d, want %d", tc.index, tc.size, got, tc.want)
		}
	}
}
