package font

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMeasure(t *testing.T) {
	f := Default()

	w1, h1 := f.Measure("H1", 20)
	w2, h2 := f.Measure("H1", 40)
	if w1 <= 0 || h1 <= 0 {
		t.Fatalf("Measure = %v x %v", w1, h1)
	}
	if w2 <= w1 || h2 <= h1 {
		t.Errorf("doubling the size did not grow the box: %vx%v -> %vx%v", w1, h1, w2, h2)
	}

	wm, hm := f.Measure("H1\nwider line", 20)
	if hm < 2*h1-1e-9 {
		t.Errorf("two lines height = %v, want %v", hm, 2*h1)
	}
	if wm <= w1 {
		t.Errorf("multi-line width = %v, want the widest line", wm)
	}

	if w, _ := f.Measure("", 20); w != 0 {
		t.Errorf("empty width = %v", w)
	}
}

func TestFaceCache(t *testing.T) {
	f := Default()
	if f.Face(12) != f.Face(12) {
		t.Error("same size returned a new face")
	}
	if f.Face(0) != f.Face(0.5) {
		t.Error("sizes below 1pt are not clamped")
	}
	if _, err := NewFaces([]byte("not a font"), 96); err == nil {
		t.Error("NewFaces accepted garbage")
	}
}

func TestLines(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b", ""}, Lines("a\r\nb\n")); diff != "" {
		t.Errorf("Lines (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{""}, Lines("")); diff != "" {
		t.Errorf("Lines empty (-want +got):\n%s", diff)
	}
}
