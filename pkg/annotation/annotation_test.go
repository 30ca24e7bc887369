package annotation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleSet() *Set {
	s := NewSet()
	s.SetMainPoint(NewText(Point{0.5, 0.05}, "MAIN", "Black", 40))

	rect := s.AddShape(NewShape(ShapeRect, []Point{{0.1, 0.1}, {0.4, 0.3}}, "Yellow", "", 5))
	rect.Z = 2
	star := s.AddShape(NewShape(ShapeStar, []Point{{0.5, 0.1}, {0.6, 0.2}, {0.5, 0.3}}, "Blue", "#80ff0000", 2))
	star.Visible = false
	s.AddShape(NewShape(ShapeDatumL, []Point{{0.95, 0.95}}, "Red", "", 1.5))

	arrow := s.AddArrow(NewArrow(Point{0.5, 0.5}, Point{0.8, 0.2}, "Red", 5))
	arrow.Text = "legacy"

	label := s.AddText(NewText(Point{0.8, 0.2}, "FEED DIRECTION", "Black", 40))
	label.ParentID = arrow.ID
	glued := s.AddText(NewText(Point{0.25, 0.2}, "A", "Black", 40))
	glued.ParentID = rect.ID
	glued.Z = -1
	return s
}

func TestSetRecordRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		set  *Set
	}{
		{"empty", NewSet()},
		{"mixed", sampleSet()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Marshal(tc.set)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.set.Record(), got.Record()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			if got.Len() != tc.set.Len() {
				t.Errorf("Len() = %d, want %d", got.Len(), tc.set.Len())
			}
		})
	}
}

func TestKindRecordRoundTrip(t *testing.T) {
	s := sampleSet()
	for _, want := range s.AllTexts() {
		got, err := TextFromRecord(want.Record())
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("text mismatch (-want +got):\n%s", diff)
		}
	}
	for _, want := range s.Arrows() {
		got, err := ArrowFromRecord(want.Record())
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("arrow mismatch (-want +got):\n%s", diff)
		}
	}
	for _, want := range s.Shapes() {
		got, err := ShapeFromRecord(want.Record())
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("shape mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestDecodeDefaults(t *testing.T) {
	data := []byte(`{
		"main_point": null,
		"texts": [{"position": {"x": 0.2, "y": 0.3}, "text": "hi"}],
		"arrows": [{"start": {"x": 0.1, "y": 0.1}, "end": {"x": 0.2, "y": 0.2}}],
		"shapes": [{"points": [{"x": 0, "y": 0}, {"x": 1, "y": 1}]}]
	}`)
	s, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}

	txt := s.Texts()[0]
	if txt.ID == "" || txt.Label != "TEXT" || !txt.Visible || txt.Color != "Red" || txt.FontSize != 30 || txt.ParentID != "" {
		t.Errorf("text defaults not applied: %+v", txt)
	}
	arr := s.Arrows()[0]
	if arr.LineWidth != 1.5 || arr.HeadSize != 0.02 || arr.TextSize != 30 || arr.Label != "ARROW" {
		t.Errorf("arrow defaults not applied: %+v", arr)
	}
	sh := s.Shapes()[0]
	if sh.ShapeKind != ShapeRect || sh.StrokeWidth != 1.5 || sh.StrokeColor != "Red" || sh.FillColor != "" || sh.Label != "SHAPE_RECT" {
		t.Errorf("shape defaults not applied: %+v", sh)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
		want error
	}{
		{"shape kind", `{"shapes": [{"shape_type": "HEXAGON", "points": []}]}`, ErrUnknownShapeKind},
		{"record kind", `{"texts": [{"kind": "ARROW"}]}`, ErrUnknownKind},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.data))
			if !errors.Is(err, tc.want) {
				t.Errorf("Unmarshal() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestIncompleteShapesAreNotSaved(t *testing.T) {
	s := NewSet()
	s.AddShape(NewShape(ShapeRect, []Point{{0.1, 0.1}}, "Red", "", 1))
	s.AddShape(NewShape(ShapeDatumL, []Point{{0.1, 0.1}, {0.2, 0.2}}, "Red", "", 1))
	s.AddShape(NewShape(ShapeTriangle, []Point{{0.1, 0.1}, {0.2, 0.2}, {0.3, 0.1}}, "Red", "", 1))

	if got := len(s.Record().Shapes); got != 1 {
		t.Errorf("saved %d shapes, want 1", got)
	}
	if err := s.Validate(); !errors.Is(err, ErrIncompleteShape) {
		t.Errorf("Validate() = %v, want ErrIncompleteShape", err)
	}
}

func TestRemoveCascades(t *testing.T) {
	s := NewSet()
	shape := s.AddShape(NewShape(ShapeRect, []Point{{0.1, 0.1}, {0.4, 0.3}}, "Red", "", 1))
	for _, label := range []string{"A", "B"} {
		txt := s.AddText(NewText(Point{0.2, 0.2}, label, "Black", 12))
		txt.ParentID = shape.ID
	}
	s.AddText(NewText(Point{0.9, 0.9}, "free", "Black", 12))

	before := s.Len()
	removed := s.Remove(shape.ID)
	if len(removed) != 3 {
		t.Errorf("removed %d annotations, want 3", len(removed))
	}
	if got := before - s.Len(); got != 3 {
		t.Errorf("Len() dropped by %d, want 3", got)
	}
	if s.Find(shape.ID) != nil {
		t.Error("shape still present")
	}
}

func TestRemoveTextKeepsParent(t *testing.T) {
	s := NewSet()
	arrow := s.AddArrow(NewArrow(Point{0.1, 0.1}, Point{0.5, 0.5}, "Red", 2))
	txt := s.AddText(NewText(Point{0.5, 0.5}, "label", "Black", 12))
	txt.ParentID = arrow.ID

	s.Remove(txt.ID)
	if s.Arrow(arrow.ID) == nil {
		t.Error("removing a text removed its parent arrow")
	}
	if len(s.Texts()) != 0 {
		t.Error("text not removed")
	}
}

func TestRemoveMainPoint(t *testing.T) {
	s := NewSet()
	mp := NewText(Point{0.5, 0.5}, "MAIN", "Black", 12)
	s.SetMainPoint(mp)
	s.Remove(mp.ID)
	if s.MainPoint != nil {
		t.Error("main point not cleared")
	}
}

func TestValidate(t *testing.T) {
	s := NewSet()
	a := s.AddText(NewText(Point{}, "a", "Black", 12))
	b := s.AddText(NewText(Point{}, "b", "Black", 12))
	b.ID = a.ID
	c := s.AddText(NewText(Point{}, "c", "Black", 12))
	c.ParentID = "missing"

	err := s.Validate()
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("want ErrDuplicateID in %v", err)
	}
	if !errors.Is(err, ErrDanglingParent) {
		t.Errorf("want ErrDanglingParent in %v", err)
	}
	if err := sampleSet().Validate(); err != nil {
		t.Errorf("sample set: %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleSet()
	c := s.Clone()
	c.Shapes()[0].Points[0] = Point{9, 9}
	c.MainPoint.Text = "changed"
	if s.Shapes()[0].Points[0] == (Point{9, 9}) {
		t.Error("clone shares shape points")
	}
	if s.MainPoint.Text == "changed" {
		t.Error("clone shares main point")
	}
}

func TestShapeComplete(t *testing.T) {
	for _, tc := range []struct {
		kind ShapeKind
		n    int
		want bool
	}{
		{ShapeRect, 1, false},
		{ShapeRect, 2, true},
		{ShapeEllipse, 2, true},
		{ShapeTriangle, 2, false},
		{ShapeTriangle, 3, true},
		{ShapeStar, 10, true},
		{ShapeDatumL, 1, true},
		{ShapeDatumL, 2, false},
	} {
		sh := NewShape(tc.kind, make([]Point, tc.n), "Red", "", 1)
		if got := sh.Complete(); got != tc.want {
			t.Errorf("%s with %d points: Complete() = %v, want %v", tc.kind, tc.n, got, tc.want)
		}
	}
}
