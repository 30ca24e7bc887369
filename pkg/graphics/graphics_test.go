package graphics

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestMatrixMultiplyOrder(t *testing.T) {
	// Translate first, then scale.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	got := m.TransformPoint(Pt(1, 1))
	if diff := cmp.Diff(Pt(22, 2), got, approx); diff != "" {
		t.Errorf("TransformPoint (-want +got):\n%s", diff)
	}
}

func TestMatrixInverse(t *testing.T) {
	m := RectToRect(Rect{Width: 1, Height: 1}, Rect{X: 5, Y: 7, Width: 200, Height: 100})
	p := Pt(0.25, 0.5)
	q := m.TransformPoint(p)
	if diff := cmp.Diff(Pt(55, 57), q, approx); diff != "" {
		t.Errorf("forward (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p, m.Inverse().TransformPoint(q), approx); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	dx, dy := m.TransformVector(1, 1)
	if dx != 200 || dy != 100 {
		t.Errorf("TransformVector = %v,%v; translation must not apply", dx, dy)
	}
}

func TestRect(t *testing.T) {
	r := NewRect(30, 40, 10, 20)
	if diff := cmp.Diff(Rect{X: 10, Y: 20, Width: 20, Height: 20}, r); diff != "" {
		t.Errorf("NewRect normalizes (-want +got):\n%s", diff)
	}
	if got := r.Inset(5, 1); got != (Rect{X: 5, Y: 19, Width: 30, Height: 22}) {
		t.Errorf("Inset grows: %+v", got)
	}
	if !r.Contains(Pt(10, 40)) || r.Contains(Pt(9.9, 30)) {
		t.Error("Contains edges")
	}
	if got := RectFromPoints([]Point{{3, 9}, {-1, 2}, {5, 4}}); got != NewRect(-1, 2, 5, 9) {
		t.Errorf("RectFromPoints = %+v", got)
	}
	if c := r.Center(); c != Pt(20, 30) {
		t.Errorf("Center = %v", c)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"Red", color.NRGBA{R: 255, A: 255}},
		{"yellow", color.NRGBA{R: 255, G: 255, A: 255}},
		{" Black ", color.NRGBA{A: 255}},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}},
		{"#80ff0000", color.NRGBA{R: 255, A: 0x80}},
		{"transparent", color.NRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "Chartreusey", "#12", "#ggg"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrUnknownColor) {
			t.Errorf("ParseColor(%q) err = %v, want ErrUnknownColor", bad, err)
		}
	}
}

func TestHexString(t *testing.T) {
	if got := HexString(color.NRGBA{R: 1, G: 2, B: 3, A: 255}); got != "#010203" {
		t.Errorf("opaque = %s", got)
	}
	if got := HexString(color.NRGBA{R: 255, A: 128}); got != "#80ff0000" {
		t.Errorf("translucent = %s", got)
	}
	if got := ColorOr("nope", color.NRGBA{B: 9}); got.B != 9 {
		t.Errorf("ColorOr fallback = %v", got)
	}
}

func TestPathContains(t *testing.T) {
	p := NewPath()
	p.Rect(0, 0, 10, 10)
	p.Rect(2, 2, 6, 6)
	if !p.Contains(Pt(1, 1), FillRuleNonZero) {
		t.Error("outer area not contained")
	}
	if p.Contains(Pt(5, 5), FillRuleEvenOdd) {
		t.Error("even-odd hole contained")
	}
	if b := p.Bounds(); math.Abs(b.Width-10) > 1e-9 {
		t.Errorf("Bounds = %+v", b)
	}
}
