package path

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"sheetmark/pkg/graphics"
)

func TestArrowHeadPoints(t *testing.T) {
	got := ArrowHeadPoints(graphics.Pt(10, 0), graphics.Pt(0, 0), 4, 2)
	want := []graphics.Point{{X: 10, Y: 0}, {X: 6, Y: 1}, {X: 6, Y: -1}}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("ArrowHeadPoints (-want +got):\n%s", diff)
	}

	// Coincident points must not divide by zero.
	for _, p := range ArrowHeadPoints(graphics.Pt(3, 3), graphics.Pt(3, 3), 4, 2) {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("NaN head point %v", p)
		}
	}
}

func TestFlattenEllipse(t *testing.T) {
	p := NewBuilder().EllipseInRect(graphics.Rect{X: 0, Y: 0, Width: 20, Height: 10}).Build()
	lines := Flatten(p, DefaultTolerance)
	if len(lines) != 1 || !lines[0].Closed {
		t.Fatalf("Flatten = %d polylines", len(lines))
	}
	for _, pt := range lines[0].Points {
		// (x-10)²/100 + (y-5)²/25 ≈ 1
		v := (pt.X-10)*(pt.X-10)/100 + (pt.Y-5)*(pt.Y-5)/25
		if math.Abs(v-1) > 0.05 {
			t.Errorf("point %v off the ellipse (%.3f)", pt, v)
		}
	}
}

func TestDash(t *testing.T) {
	line := []Polyline{{Points: []graphics.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}}
	got := Dash(line, []float64{4, 2})
	if len(got) != 2 {
		t.Fatalf("Dash made %d runs, want 2", len(got))
	}
	want := []Polyline{
		{Points: []graphics.Point{{X: 0, Y: 0}, {X: 4, Y: 0}}},
		{Points: []graphics.Point{{X: 6, Y: 0}, {X: 10, Y: 0}}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Dash (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(line, Dash(line, nil)); diff != "" {
		t.Errorf("empty pattern changed lines:\n%s", diff)
	}
}

func TestStrokeContains(t *testing.T) {
	p := NewBuilder().Line(graphics.Pt(0, 0), graphics.Pt(100, 0)).Build()
	tests := []struct {
		pt   graphics.Point
		want bool
	}{
		{graphics.Pt(50, 0), true},
		{graphics.Pt(50, 4.9), true},
		{graphics.Pt(50, 5.1), false},
		{graphics.Pt(103, 0), true},
		{graphics.Pt(106, 0), false},
	}
	for _, tt := range tests {
		if got := StrokeContains(p, tt.pt, 10); got != tt.want {
			t.Errorf("StrokeContains(%v) = %v, want %v", tt.pt, got, tt.want)
		}
	}
}

func TestFillContains(t *testing.T) {
	tri := NewBuilder().Polygon([]graphics.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}).Build()
	if !FillContains(tri, graphics.Pt(2, 2)) {
		t.Error("inside point not contained")
	}
	if FillContains(tri, graphics.Pt(8, 8)) {
		t.Error("outside point contained")
	}
}

func TestOutlineCoversStroke(t *testing.T) {
	lines := Flatten(NewBuilder().Line(graphics.Pt(0, 0), graphics.Pt(20, 0)).Build(), DefaultTolerance)
	out := Outline(lines, 4, graphics.LineCapButt, graphics.LineJoinMiter)
	if !FillContains(out, graphics.Pt(10, 1.5)) {
		t.Error("outline misses a point inside the stroke")
	}
	if FillContains(out, graphics.Pt(10, 2.5)) {
		t.Error("outline covers a point outside the stroke")
	}
}
