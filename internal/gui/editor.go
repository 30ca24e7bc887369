package gui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"sheetmark/pkg/controller"
	"sheetmark/pkg/graphics"
	"sheetmark/pkg/raster"
	"sheetmark/pkg/scene"
	"sheetmark/pkg/tool"
)

var editorBackground = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}

// Editor is the annotation canvas: it paints a scene and feeds it pointer
// and keyboard input. The middle button pans and the wheel zooms.
type Editor struct {
	widget.BaseWidget

	scene  *scene.Scene
	raster *canvas.Raster

	// View state; zoom is relative to fitting the scene rect.
	zoom    float64
	offsetX float64
	offsetY float64

	panning      bool
	panStart     fyne.Position
	startOffsetX float64
	startOffsetY float64

	pressed bool
	cursor  desktop.Cursor

	// OnStatus receives short messages for the status bar.
	OnStatus func(string)
	// OnZoom receives the zoom level after it changes.
	OnZoom func(float64)
}

var (
	_ fyne.Draggable         = (*Editor)(nil)
	_ fyne.Scrollable        = (*Editor)(nil)
	_ fyne.Tappable          = (*Editor)(nil)
	_ fyne.DoubleTappable    = (*Editor)(nil)
	_ fyne.SecondaryTappable = (*Editor)(nil)
	_ fyne.Focusable         = (*Editor)(nil)
	_ desktop.Mouseable      = (*Editor)(nil)
	_ desktop.Hoverable      = (*Editor)(nil)
	_ desktop.Cursorable     = (*Editor)(nil)
)

// NewEditor creates an editor over s.
func NewEditor(s *scene.Scene) *Editor {
	e := &Editor{scene: s, zoom: 1, cursor: desktop.DefaultCursor}
	e.ExtendBaseWidget(e)
	e.raster = canvas.NewRaster(e.draw)
	return e
}

// Scene returns the edited scene.
func (e *Editor) Scene() *scene.Scene {
	return e.scene
}

// view maps scene coordinates to widget coordinates.
func (e *Editor) view() graphics.Matrix {
	size := e.Size()
	sr := e.scene.SceneRect()
	if sr.IsEmpty() || size.Width <= 0 || size.Height <= 0 {
		return graphics.Identity()
	}
	fit := math.Min(float64(size.Width)/sr.Width, float64(size.Height)/sr.Height)
	z := fit * e.zoom
	c := sr.Center()
	return graphics.Translate(-c.X, -c.Y).
		Multiply(graphics.Scale(z, z)).
		Multiply(graphics.Translate(float64(size.Width)/2+e.offsetX, float64(size.Height)/2+e.offsetY))
}

func (e *Editor) toScene(p fyne.Position) graphics.Point {
	return e.view().Inverse().TransformPoint(graphics.Pt(float64(p.X), float64(p.Y)))
}

// draw renders the scene for the raster at pixel size w x h.
func (e *Editor) draw(w, h int) image.Image {
	c := raster.NewCanvas(w, h)
	c.SetBackground(editorBackground)
	c.Clear()
	if size := e.Size(); size.Width > 0 {
		px := float64(w) / float64(size.Width)
		e.scene.Paint(c, e.view().Multiply(graphics.Scale(px, px)))
	}
	return c.Image()
}

// Changed repaints the editor.
func (e *Editor) Changed() {
	if e.raster != nil {
		e.raster.Refresh()
	}
}

// Resize implements fyne.Widget.
func (e *Editor) Resize(size fyne.Size) {
	e.BaseWidget.Resize(size)
	e.scene.SetViewport(float64(size.Width), float64(size.Height))
	e.Changed()
}

// ResetView fits the scene rect into the widget.
func (e *Editor) ResetView() {
	e.zoom = 1
	e.offsetX, e.offsetY = 0, 0
	e.zoomed()
}

// ZoomIn increases zoom level.
func (e *Editor) ZoomIn() {
	e.zoom = math.Min(8.0, e.zoom*1.2)
	e.zoomed()
}

// ZoomOut decreases zoom level.
func (e *Editor) ZoomOut() {
	e.zoom = math.Max(0.2, e.zoom/1.2)
	e.zoomed()
}

func (e *Editor) zoomed() {
	if e.OnZoom != nil {
		e.OnZoom(e.zoom)
	}
	e.Changed()
}

// Zoom returns the zoom relative to the fitted view.
func (e *Editor) Zoom() float64 {
	return e.zoom
}

// Scrolled zooms toward the cursor.
func (e *Editor) Scrolled(ev *fyne.ScrollEvent) {
	delta := float64(ev.Scrolled.DY) / 100
	newZoom := math.Max(0.2, math.Min(8.0, e.zoom*(1+delta)))
	if newZoom == e.zoom {
		return
	}

	anchor := e.toScene(ev.Position)
	e.zoom = newZoom
	// keep the scene point under the cursor in place
	got := e.view().TransformPoint(anchor)
	e.offsetX += float64(ev.Position.X) - got.X
	e.offsetY += float64(ev.Position.Y) - got.Y
	e.zoomed()
}

// MouseDown starts a gesture, or a pan with the middle button.
func (e *Editor) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonTertiary {
		e.panning = true
		e.panStart = ev.Position
		e.startOffsetX, e.startOffsetY = e.offsetX, e.offsetY
		return
	}
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	e.focus()
	e.pressed = true
	e.scene.PointerDown(e.toScene(ev.Position), ev.Modifier&fyne.KeyModifierShift != 0)
}

// Dragged continues a gesture or a pan.
func (e *Editor) Dragged(ev *fyne.DragEvent) {
	if e.panning {
		e.panTo(ev.Position)
		return
	}
	if e.pressed {
		e.scene.PointerMove(e.toScene(ev.Position))
	}
}

func (e *Editor) panTo(p fyne.Position) {
	e.offsetX = e.startOffsetX + float64(p.X-e.panStart.X)
	e.offsetY = e.startOffsetY + float64(p.Y-e.panStart.Y)
	e.Changed()
}

// DragEnd implements fyne.Draggable. The gesture is finished by MouseUp.
func (e *Editor) DragEnd() {
	e.panning = false
}

// MouseUp finishes a gesture.
func (e *Editor) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonTertiary {
		e.panning = false
		return
	}
	if !e.pressed {
		return
	}
	e.pressed = false
	e.report(e.scene.PointerUp(e.toScene(ev.Position)))
}

func (e *Editor) report(r controller.Result) {
	if e.OnStatus == nil {
		return
	}
	if msg := describe(r); msg != "" {
		e.OnStatus(msg)
	}
}

// MouseIn implements desktop.Hoverable.
func (e *Editor) MouseIn(ev *desktop.MouseEvent) { e.hover(ev.Position) }

// MouseMoved implements desktop.Hoverable. Some drivers report middle
// button drags here rather than through Dragged.
func (e *Editor) MouseMoved(ev *desktop.MouseEvent) {
	if e.panning {
		e.panTo(ev.Position)
		return
	}
	e.hover(ev.Position)
}

// MouseOut implements desktop.Hoverable.
func (e *Editor) MouseOut() { e.cursor = desktop.DefaultCursor }

func (e *Editor) hover(p fyne.Position) {
	switch e.scene.CursorAt(e.toScene(p)) {
	case scene.CursorResize:
		e.cursor = desktop.HResizeCursor
	case scene.CursorMove:
		e.cursor = desktop.PointerCursor
	default:
		if e.scene.Tools().Active != tool.Select && e.scene.HasImage() {
			e.cursor = desktop.CrosshairCursor
		} else {
			e.cursor = desktop.DefaultCursor
		}
	}
}

// Cursor implements desktop.Cursorable.
func (e *Editor) Cursor() desktop.Cursor {
	return e.cursor
}

// Tapped takes keyboard focus.
func (e *Editor) Tapped(*fyne.PointEvent) {
	e.focus()
}

// DoubleTapped edits a label or labels a shape.
func (e *Editor) DoubleTapped(ev *fyne.PointEvent) {
	e.scene.DoubleClick(e.toScene(ev.Position))
}

// TappedSecondary opens the item menu.
func (e *Editor) TappedSecondary(ev *fyne.PointEvent) {
	m := e.scene.SecondaryClick(e.toScene(ev.Position))
	if m == nil {
		return
	}
	var items []*fyne.MenuItem
	if m.CanEdit {
		id := m.ID
		items = append(items, fyne.NewMenuItem("Edit Text", func() {
			e.focus()
			e.scene.BeginTextEdit(id)
		}))
	}
	if m.CanUngroup {
		id := m.ID
		items = append(items, fyne.NewMenuItem("Ungroup", func() { e.scene.Ungroup(id) }))
	}
	items = append(items, fyne.NewMenuItem("Delete", e.deleteSelected))

	c := fyne.CurrentApp().Driver().CanvasForObject(e)
	widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), c, ev.AbsolutePosition)
}

func (e *Editor) focus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(e); c != nil && c.Focused() != e {
		c.Focus(e)
	}
}

// FocusGained implements fyne.Focusable.
func (e *Editor) FocusGained() {}

// FocusLost commits a label being edited.
func (e *Editor) FocusLost() {
	if e.scene.Editing() != "" {
		e.scene.CommitTextEdit()
	}
}

// TypedRune types into the label being edited.
func (e *Editor) TypedRune(r rune) {
	if e.scene.Editing() != "" {
		e.scene.TypeText(string(r))
	}
}

// TypedKey handles editing and deletion keys.
func (e *Editor) TypedKey(ev *fyne.KeyEvent) {
	editing := e.scene.Editing() != ""
	switch ev.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		if editing {
			e.scene.CommitTextEdit()
		}
	case fyne.KeyEscape:
		if editing {
			e.scene.CancelTextEdit()
		} else {
			e.pressed = false
			e.scene.CancelGesture()
		}
	case fyne.KeyBackspace:
		if editing {
			e.scene.Backspace()
		} else {
			e.deleteSelected()
		}
	case fyne.KeyDelete:
		if !editing {
			e.deleteSelected()
		}
	}
}

func (e *Editor) deleteSelected() {
	if n := e.scene.DeleteSelected(); n > 0 && e.OnStatus != nil {
		e.OnStatus(deletedMessage(n))
	}
}

// CreateRenderer creates the renderer for this widget.
func (e *Editor) CreateRenderer() fyne.WidgetRenderer {
	return &editorRenderer{editor: e}
}

type editorRenderer struct {
	editor *Editor
}

func (r *editorRenderer) Layout(size fyne.Size) {
	r.editor.raster.Move(fyne.NewPos(0, 0))
	r.editor.raster.Resize(size)
}

func (r *editorRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *editorRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.editor.raster}
}

func (r *editorRenderer) Refresh() {
	r.editor.raster.Refresh()
}

func (r *editorRenderer) Destroy() {}
