// Package scene keeps the interactive items drawn over the background image
// and the annotation model consistent with each other.
//
// Scene coordinates are background image pixels with the image's top-left
// corner at the origin. The scene rect extends past the image by an editing
// margin so items can be drawn and dragged off the image. Items are rebuilt
// from the model on every structural change, and the model is re-derived
// from items once a drag or resize ends.
package scene

import (
	"image"
	"math"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/controller"
	"sheetmark/pkg/graphics"
	"sheetmark/pkg/tool"
)

// Scene is the annotation editor state for one background image. It is
// driven from the UI goroutine only.
type Scene struct {
	opts   Options
	tools  *tool.State
	prompt controller.Prompter
	ctrl   *controller.Controller

	set *annotation.Set

	img       image.Image
	imageRect graphics.Rect
	sceneRect graphics.Rect
	viewport  graphics.Point

	toScene graphics.Matrix
	toNorm  graphics.Matrix

	items   map[string]Item
	order   []Item
	preview *controller.Preview

	drag    dragState
	editing string
}

// New returns a scene with an empty annotation set and no image. prompt is
// shared by the controller and the double-click label action.
func New(tools *tool.State, prompt controller.Prompter, opts ...Option) *Scene {
	if tools == nil {
		tools = tool.Default()
	}
	s := &Scene{
		opts:    NewOptions(opts...),
		tools:   tools,
		prompt:  prompt,
		set:     annotation.NewSet(),
		items:   make(map[string]Item),
		toScene: graphics.Identity(),
		toNorm:  graphics.Identity(),
	}
	s.ctrl = controller.New(s, tools, prompt,
		controller.MinShapeSize(s.opts.MinShapeSize),
		controller.OnComplete(s.gestureCompleted))
	return s
}

func (s *Scene) gestureCompleted(r controller.Result) {
	if s.opts.OnResult != nil {
		s.opts.OnResult(r)
	}
}

func (s *Scene) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}

// Tools returns the tool state the scene creates annotations with.
func (s *Scene) Tools() *tool.State {
	return s.tools
}

// Controller returns the gesture controller.
func (s *Scene) Controller() *controller.Controller {
	return s.ctrl
}

// SetImage replaces the background image and rebuilds every item. A text
// edit in progress is committed first.
func (s *Scene) SetImage(img image.Image) {
	if s.editing != "" {
		s.CommitTextEdit()
	}
	s.img = img
	if img == nil {
		s.imageRect = graphics.Rect{}
	} else {
		b := img.Bounds()
		s.imageRect = graphics.Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}
	}
	s.updateMapping()
	s.Redraw(false)
}

// Image returns the background image.
func (s *Scene) Image() image.Image {
	return s.img
}

// HasImage reports whether a background image is loaded.
func (s *Scene) HasImage() bool {
	return s.img != nil && !s.imageRect.IsEmpty()
}

// ImageRect returns the background image's bounds in scene coordinates.
func (s *Scene) ImageRect() graphics.Rect {
	return s.imageRect
}

// SceneRect returns the editing surface: the image plus its margin.
func (s *Scene) SceneRect() graphics.Rect {
	return s.sceneRect
}

// SetViewport records the on-screen size of the editor so the margin can
// be widened to the viewport's aspect ratio.
func (s *Scene) SetViewport(width, height float64) {
	s.viewport = graphics.Pt(width, height)
	s.updateMapping()
}

func (s *Scene) updateMapping() {
	if !s.HasImage() {
		s.toScene, s.toNorm = graphics.Identity(), graphics.Identity()
		s.sceneRect = graphics.Rect{}
		return
	}
	unit := graphics.Rect{Width: 1, Height: 1}
	s.toScene = graphics.RectToRect(unit, s.imageRect)
	s.toNorm = s.toScene.Inverse()

	w, h := s.imageRect.Width, s.imageRect.Height
	base := math.Max(math.Max(w, h)*s.opts.MarginRatio, s.opts.MarginFloor)

	var extraX, extraY float64
	if s.viewport.X > 10 && s.viewport.Y > 10 {
		aspect := s.viewport.X / s.viewport.Y
		if want := h * aspect; want > w {
			extraX = (want - w) / 2
		}
		if want := w / aspect; want > h {
			extraY = (want - h) / 2
		}
	}
	s.sceneRect = s.imageRect.Inset(math.Max(base, extraX), math.Max(base, extraY))
}

// SetAnnotationSet replaces the model wholesale. A text edit in progress
// is dropped.
func (s *Scene) SetAnnotationSet(set *annotation.Set) {
	if set == nil {
		set = annotation.NewSet()
	}
	s.set = set
	s.editing = ""
	s.drag = dragState{}
	s.Redraw(false)
}

// Annotations returns the live model.
func (s *Scene) Annotations() *annotation.Set {
	return s.set
}

// Snapshot returns a copy of the model for read-only consumers.
func (s *Scene) Snapshot() *annotation.Set {
	return s.set.Clone()
}

// ToScene maps a normalized point to scene coordinates.
func (s *Scene) ToScene(p annotation.Point) graphics.Point {
	if !s.HasImage() {
		return graphics.Point{}
	}
	return s.toScene.TransformPoint(graphics.Pt(p.X, p.Y))
}

// ToNormalized maps a scene point to normalized coordinates.
func (s *Scene) ToNormalized(p graphics.Point) annotation.Point {
	if !s.HasImage() {
		return annotation.Point{}
	}
	q := s.toNorm.TransformPoint(p)
	return annotation.Point{X: q.X, Y: q.Y}
}

// normDelta converts a scene displacement to a normalized one.
func (s *Scene) normDelta(d graphics.Point) annotation.Point {
	if !s.HasImage() {
		return annotation.Point{}
	}
	dx, dy := s.toNorm.TransformVector(d.X, d.Y)
	return annotation.Point{X: dx, Y: dy}
}

// SetPreview implements controller.Host.
func (s *Scene) SetPreview(p *controller.Preview) {
	s.preview = p
	s.changed()
}

// Preview returns the rubber band being drawn, or nil.
func (s *Scene) Preview() *controller.Preview {
	return s.preview
}

// AnnotationsChanged implements controller.Host.
func (s *Scene) AnnotationsChanged() {
	s.Redraw(true)
}
