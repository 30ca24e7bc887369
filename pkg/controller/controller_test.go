package controller

import (
	"testing"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/graphics"
	"sheetmark/pkg/tool"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type fakeHost struct {
	set      *annotation.Set
	noImage  bool
	preview  *Preview
	previews int
	changed  int
	snapped  []string
}

func newFakeHost() *fakeHost {
	return &fakeHost{set: annotation.NewSet()}
}

func (h *fakeHost) HasImage() bool { return !h.noImage }

func (h *fakeHost) SceneRect() graphics.Rect {
	return graphics.Rect{X: -120, Y: -120, Width: 1240, Height: 1040}
}

func (h *fakeHost) ToNormalized(p graphics.Point) annotation.Point {
	return annotation.Point{X: p.X / 1000, Y: p.Y / 800}
}

func (h *fakeHost) Annotations() *annotation.Set { return h.set }

func (h *fakeHost) SetPreview(p *Preview) {
	h.preview = p
	if p != nil {
		h.previews++
	}
}

func (h *fakeHost) AnnotationsChanged() { h.changed++ }

func (h *fakeHost) SnapArrowToLabels(id string) { h.snapped = append(h.snapped, id) }

// answer returns a Prompter that replies synchronously.
func answer(text string, ok bool) Prompter {
	return PromptFunc(func(_, _ string, done func(string, bool)) {
		done(text, ok)
	})
}

func drag(c *Controller, from, to graphics.Point) Result {
	c.PointerDown(from)
	c.PointerMove(graphics.Pt((from.X+to.X)/2, (from.Y+to.Y)/2))
	c.PointerMove(to)
	return c.PointerUp(to)
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestShapeDegenerateRejection(t *testing.T) {
	for _, tc := range []struct {
		name   string
		from   graphics.Point
		to     graphics.Point
		reason Reason
	}{
		{"tiny", graphics.Pt(0, 0), graphics.Pt(2, 2), ReasonTooSmall},
		{"line-like", graphics.Pt(100, 100), graphics.Pt(300, 105), ReasonTooSmall},
		{"narrow", graphics.Pt(100, 100), graphics.Pt(111, 300), ReasonTooSmall},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newFakeHost()
			c := New(h, tool.Default(), nil)
			res := drag(c, tc.from, tc.to)
			if res.Outcome != NotCreated || res.Reason != tc.reason {
				t.Errorf("result = %+v, want NotCreated/%s", res, tc.reason)
			}
			if len(h.set.Shapes()) != 0 {
				t.Errorf("created %d shapes", len(h.set.Shapes()))
			}
			if h.preview != nil {
				t.Error("preview not cleared")
			}
		})
	}
}

func TestShapeCreated(t *testing.T) {
	h := newFakeHost()
	c := New(h, tool.Default(), nil)
	res := drag(c, graphics.Pt(400, 240), graphics.Pt(100, 80))
	if res.Outcome != Created || res.Kind != annotation.KindShape {
		t.Fatalf("result = %+v", res)
	}
	sh := h.set.Shape(res.ID)
	want := []annotation.Point{{X: 0.1, Y: 0.1}, {X: 0.4, Y: 0.3}}
	if diff := cmp.Diff(want, sh.Points, approx); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
	if sh.StrokeColor != "Yellow" || sh.StrokeWidth != 5 {
		t.Errorf("style = %q %v", sh.StrokeColor, sh.StrokeWidth)
	}
	if h.changed != 1 {
		t.Errorf("AnnotationsChanged called %d times, want 1", h.changed)
	}
	if h.previews == 0 {
		t.Error("no preview shown during drag")
	}
}

func TestPreviewKindAndClamp(t *testing.T) {
	h := newFakeHost()
	tools := tool.Default()
	tools.UseShapeTool(annotation.ShapeEllipse)
	c := New(h, tools, nil)

	c.PointerDown(graphics.Pt(10, 10))
	c.PointerMove(graphics.Pt(5000, 5000))
	if h.preview == nil || h.preview.Kind != PreviewEllipse {
		t.Fatalf("preview = %+v, want ellipse", h.preview)
	}
	if h.preview.To != graphics.Pt(1120, 920) {
		t.Errorf("preview end = %v, want clamped to the scene rect", h.preview.To)
	}
	if h.preview.Color != DefaultOptions().PreviewColor {
		t.Errorf("preview color = %v", h.preview.Color)
	}

	tools.UseTextTool()
	h.preview = nil
	c.PointerMove(graphics.Pt(20, 20))
	if h.preview != nil {
		t.Error("text tool drew a preview")
	}
}

func TestDatumIgnoresDragSize(t *testing.T) {
	h := newFakeHost()
	tools := tool.Default()
	tools.UseShapeTool(annotation.ShapeDatumL)
	c := New(h, tools, nil)

	res := drag(c, graphics.Pt(500, 400), graphics.Pt(501, 400))
	if res.Outcome != Created {
		t.Fatalf("result = %+v", res)
	}
	sh := h.set.Shape(res.ID)
	if diff := cmp.Diff([]annotation.Point{{X: 0.5, Y: 0.5}}, sh.Points, approx); diff != "" {
		t.Errorf("datum points (-want +got):\n%s", diff)
	}
}

func TestArrowTooShort(t *testing.T) {
	h := newFakeHost()
	tools := tool.Default()
	tools.UseArrowTool()
	c := New(h, tools, answer("never asked", true))

	res := drag(c, graphics.Pt(100, 100), graphics.Pt(101, 101))
	if res.Reason != ReasonTooShort || len(h.set.Arrows()) != 0 {
		t.Errorf("result = %+v, arrows = %d", res, len(h.set.Arrows()))
	}
}

func TestArrowLabelRollback(t *testing.T) {
	for _, tc := range []struct {
		name   string
		prompt Prompter
		reason Reason
	}{
		{"cancel", answer("ignored", false), ReasonCancelled},
		{"empty", answer("   ", true), ReasonEmptyText},
		{"no prompter", nil, ReasonCancelled},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := newFakeHost()
			h.set.AddArrow(annotation.NewArrow(annotation.Point{}, annotation.Point{X: 1, Y: 1}, "Red", 1))
			tools := tool.Default()
			tools.UseArrowTool()
			c := New(h, tools, tc.prompt)

			before := len(h.set.Arrows())
			res := drag(c, graphics.Pt(500, 400), graphics.Pt(800, 160))
			if res.Outcome != NotCreated || res.Reason != tc.reason {
				t.Errorf("result = %+v, want %s", res, tc.reason)
			}
			if got := len(h.set.Arrows()); got != before {
				t.Errorf("arrow count = %d, want %d", got, before)
			}
			if len(h.set.Texts()) != 0 {
				t.Error("label created")
			}
		})
	}
}

func TestArrowWithLabel(t *testing.T) {
	h := newFakeHost()
	tools := tool.Default()
	tools.UseArrowTool()
	c := New(h, tools, answer("  FEED DIRECTION ", true))

	res := drag(c, graphics.Pt(500, 400), graphics.Pt(800, 160))
	if res.Outcome != Created || res.Kind != annotation.KindArrow {
		t.Fatalf("result = %+v", res)
	}
	arrow := h.set.Arrow(res.ID)
	if diff := cmp.Diff(annotation.Point{X: 0.5, Y: 0.5}, arrow.Start, approx); diff != "" {
		t.Errorf("start (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(annotation.Point{X: 0.8, Y: 0.2}, arrow.End, approx); diff != "" {
		t.Errorf("end (-want +got):\n%s", diff)
	}
	if arrow.Color != "Red" {
		t.Errorf("arrow color = %q", arrow.Color)
	}

	label := h.set.Text(res.LabelID)
	if label == nil || label.Text != "FEED DIRECTION" || label.ParentID != arrow.ID {
		t.Fatalf("label = %+v", label)
	}
	if label.Position != arrow.End {
		t.Errorf("label at %v, want arrow end %v", label.Position, arrow.End)
	}
	if diff := cmp.Diff([]string{arrow.ID}, h.snapped); diff != "" {
		t.Errorf("snapped (-want +got):\n%s", diff)
	}
}

func TestAsyncPrompt(t *testing.T) {
	h := newFakeHost()
	tools := tool.Default()
	tools.UseTextTool()

	var pending func(string, bool)
	var completed []Result
	c := New(h, tools,
		PromptFunc(func(_, _ string, done func(string, bool)) { pending = done }),
		OnComplete(func(r Result) { completed = append(completed, r) }))

	res := drag(c, graphics.Pt(250, 200), graphics.Pt(260, 210))
	if res.Outcome != Pending {
		t.Fatalf("result = %+v, want Pending", res)
	}
	if len(h.set.Texts()) != 0 {
		t.Fatal("text created before the prompt was answered")
	}

	pending("hello", true)
	pending("again", true)
	if len(completed) != 1 || completed[0].Outcome != Created {
		t.Fatalf("completed = %+v", completed)
	}
	txt := h.set.Text(completed[0].ID)
	if diff := cmp.Diff(annotation.Point{X: 0.26, Y: 0.2625}, txt.Position, approx); diff != "" {
		t.Errorf("text position (-want +got):\n%s", diff)
	}
	if txt.Color != "Black" || txt.FontSize != 40 {
		t.Errorf("text style = %q %v", txt.Color, txt.FontSize)
	}
}

func TestTextNormalized(t *testing.T) {
	h := newFakeHost()
	tools := tool.Default()
	tools.UseTextTool()
	// "한" typed as decomposed jamo.
	c := New(h, tools, answer("\u1112\u1161\u11ab", true))

	res := drag(c, graphics.Pt(10, 10), graphics.Pt(10, 10))
	if got := h.set.Text(res.ID).Text; got != "\ud55c" {
		t.Errorf("text = %q, want NFC form", got)
	}
}

func TestNoImage(t *testing.T) {
	h := newFakeHost()
	h.noImage = true
	c := New(h, tool.Default(), nil)
	if c.PointerDown(graphics.Pt(1, 1)) {
		t.Error("PointerDown accepted without an image")
	}
	if res := c.PointerUp(graphics.Pt(100, 100)); res.Reason != ReasonIdle {
		t.Errorf("result = %+v, want idle", res)
	}
}

func TestSelectToolCreatesNothing(t *testing.T) {
	h := newFakeHost()
	tools := tool.Default()
	tools.UseSelectTool()
	c := New(h, tools, nil)
	if res := drag(c, graphics.Pt(0, 0), graphics.Pt(300, 300)); res.Reason != ReasonNoTool {
		t.Errorf("result = %+v", res)
	}
}

func TestShapePoints(t *testing.T) {
	a := annotation.Point{X: 0.6, Y: 0.5}
	b := annotation.Point{X: 0.2, Y: 0.1}
	for _, tc := range []struct {
		kind annotation.ShapeKind
		want []annotation.Point
	}{
		{annotation.ShapeRect, []annotation.Point{{X: 0.2, Y: 0.1}, {X: 0.6, Y: 0.5}}},
		{annotation.ShapeCircle, []annotation.Point{{X: 0.2, Y: 0.1}, {X: 0.6, Y: 0.5}}},
		{annotation.ShapeTriangle, []annotation.Point{{X: 0.4, Y: 0.1}, {X: 0.6, Y: 0.5}, {X: 0.2, Y: 0.5}}},
		{annotation.ShapePolygon, []annotation.Point{{X: 0.4, Y: 0.1}, {X: 0.6, Y: 0.3}, {X: 0.4, Y: 0.5}, {X: 0.2, Y: 0.3}}},
		{annotation.ShapeDatumL, []annotation.Point{a}},
	} {
		got := ShapePoints(tc.kind, a, b)
		if diff := cmp.Diff(tc.want, got, approx); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.kind, diff)
		}
	}

	star := ShapePoints(annotation.ShapeStar, a, b)
	if len(star) != 10 {
		t.Fatalf("star has %d points", len(star))
	}
	if diff := cmp.Diff(annotation.Point{X: 0.4, Y: 0.1}, star[0], cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("star tip (-want +got):\n%s", diff)
	}
	// Inner vertices sit at 0.4 of the outer radius.
	c := annotation.Point{X: 0.4, Y: 0.3}
	d := star[1].Sub(c)
	if r := d.X*d.X + d.Y*d.Y; r < 0.08*0.08-1e-12 || r > 0.08*0.08+1e-12 {
		t.Errorf("inner radius^2 = %v, want %v", r, 0.08*0.08)
	}
}
