package tool

import (
	"testing"

	"sheetmark/pkg/annotation"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.Active != Shape || s.ShapeKind != annotation.ShapeRect {
		t.Errorf("default tool = %v/%v, want SHAPE/RECT", s.Active, s.ShapeKind)
	}
	if s.StrokeWidth != 5 || s.StrokeColor != "Yellow" || s.FillColor != "" {
		t.Errorf("default stroke = %v %q fill %q", s.StrokeWidth, s.StrokeColor, s.FillColor)
	}
	if s.ArrowColor != "Red" || s.TextColor != "Black" || s.TextSize != 40 {
		t.Errorf("default arrow/text = %q %q %v", s.ArrowColor, s.TextColor, s.TextSize)
	}
}

func TestUseShapeToolLeavesOtherModes(t *testing.T) {
	for _, from := range []func(*State){
		(*State).UseSelectTool,
		(*State).UseArrowTool,
		(*State).UseTextTool,
	} {
		s := Default()
		from(s)
		s.UseShapeTool(annotation.ShapeStar)
		if s.Active != Shape || s.ShapeKind != annotation.ShapeStar {
			t.Errorf("after UseShapeTool: %v/%v", s.Active, s.ShapeKind)
		}
	}
}

func TestKindString(t *testing.T) {
	want := map[Kind]string{Select: "SELECT", Shape: "SHAPE", Arrow: "ARROW", Text: "TEXT", Kind(9): "UNKNOWN"}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("%d.String() = %q, want %q", int(k), k.String(), s)
		}
	}
}
