// Package controller turns one pointer gesture (down, moves, up) into a new
// shape, arrow or text annotation, or into an explicit "not created" result.
//
// Pointer positions are scene coordinates (background image pixels). The
// controller converts them to normalized coordinates through its Host only
// when it creates an annotation.
package controller

import (
	"image/color"
	"strings"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/graphics"
	"sheetmark/pkg/tool"

	"golang.org/x/text/unicode/norm"
)

// Host is the scene side of the controller. All calls happen on the UI
// goroutine.
type Host interface {
	HasImage() bool
	// SceneRect is the editing surface, the image plus its margin.
	SceneRect() graphics.Rect
	ToNormalized(p graphics.Point) annotation.Point
	// Annotations returns the live set; it is read on every use.
	Annotations() *annotation.Set
	// SetPreview shows p, or removes the preview when p is nil.
	SetPreview(p *Preview)
	AnnotationsChanged()
	SnapArrowToLabels(arrowID string)
}

// Prompter asks the user for a line of text. done may be called before
// Prompt returns or later from the UI loop; ok is false on cancel.
type Prompter interface {
	Prompt(title, message string, done func(text string, ok bool))
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(title, message string, done func(text string, ok bool))

// Prompt implements Prompter.
func (f PromptFunc) Prompt(title, message string, done func(string, bool)) {
	f(title, message, done)
}

// Outcome says whether a gesture produced an annotation.
type Outcome int

const (
	NotCreated Outcome = iota
	Created
	// Pending means a prompt is still open; the final Result goes to the
	// OnComplete hook.
	Pending
)

// Reason explains a NotCreated outcome.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonIdle      Reason = "not drawing"
	ReasonNoImage   Reason = "no background image"
	ReasonNoTool    Reason = "tool does not draw"
	ReasonTooSmall  Reason = "shape below minimum size"
	ReasonTooShort  Reason = "arrow drag too short"
	ReasonCancelled Reason = "prompt cancelled"
	ReasonEmptyText Reason = "empty text"
)

// Result is the outcome of one gesture.
type Result struct {
	Outcome Outcome
	Reason  Reason
	Kind    annotation.Kind

	// ID is the created annotation. For arrows LabelID is the linked text.
	ID      string
	LabelID string
}

func notCreated(r Reason) Result {
	return Result{Outcome: NotCreated, Reason: r}
}

// Controller is the per-gesture state machine: Idle until a pointer-down
// over a loaded image, then Drawing until pointer-up.
type Controller struct {
	host   Host
	tools  *tool.State
	prompt Prompter
	opts   Options

	drawing bool
	start   graphics.Point
}

// New returns an idle controller.
func New(host Host, tools *tool.State, prompt Prompter, opts ...Option) *Controller {
	return &Controller{
		host:   host,
		tools:  tools,
		prompt: prompt,
		opts:   NewOptions(opts...),
	}
}

// Drawing reports whether a gesture is in progress.
func (c *Controller) Drawing() bool {
	return c.drawing
}

// Tools returns the tool state the controller reads.
func (c *Controller) Tools() *tool.State {
	return c.tools
}

// PointerDown starts a gesture at p. It returns false when no image is
// loaded.
func (c *Controller) PointerDown(p graphics.Point) bool {
	if !c.host.HasImage() {
		annotation.Logger().Debug("controller: ignoring press", "reason", ReasonNoImage)
		return false
	}
	c.drawing = true
	c.start = p
	c.host.SetPreview(nil)
	return true
}

// PointerMove updates the dashed preview.
func (c *Controller) PointerMove(p graphics.Point) {
	if !c.drawing {
		return
	}
	kind, ok := c.previewKind()
	if !ok {
		return
	}
	end := c.host.SceneRect().Clamp(p)
	c.host.SetPreview(&Preview{
		Kind:  kind,
		From:  c.start,
		To:    end,
		Color: c.opts.PreviewColor,
		Width: c.tools.StrokeWidth,
		Dash:  c.opts.PreviewDash,
	})
}

func (c *Controller) previewKind() (PreviewKind, bool) {
	switch c.tools.Active {
	case tool.Arrow:
		return PreviewLine, true
	case tool.Shape:
		switch c.tools.ShapeKind {
		case annotation.ShapeCircle, annotation.ShapeEllipse:
			return PreviewEllipse, true
		}
		return PreviewRect, true
	}
	return 0, false
}

// Cancel abandons the gesture without creating anything.
func (c *Controller) Cancel() {
	c.drawing = false
	c.host.SetPreview(nil)
}

// PointerUp ends the gesture at p and creates the annotation the active
// tool describes.
func (c *Controller) PointerUp(p graphics.Point) Result {
	if !c.drawing {
		return notCreated(ReasonIdle)
	}
	c.drawing = false
	c.host.SetPreview(nil)

	end := c.host.SceneRect().Clamp(p)
	delta := end.Sub(c.start)

	var res Result
	switch c.tools.Active {
	case tool.Text:
		res = c.createText(end)
	case tool.Shape:
		res = c.createShape(c.start, end, delta)
	case tool.Arrow:
		if delta.Manhattan() < c.opts.MinArrowDistance {
			res = notCreated(ReasonTooShort)
			break
		}
		res = c.createArrow(c.start, end)
	default:
		res = notCreated(ReasonNoTool)
	}

	if res.Outcome == NotCreated {
		annotation.Logger().Debug("controller: gesture discarded",
			"reason", res.Reason, "tool", c.tools.Active, "dx", delta.X, "dy", delta.Y)
	}
	return res
}

func (c *Controller) createShape(from, to, delta graphics.Point) Result {
	kind := c.tools.ShapeKind
	set := c.host.Annotations()

	if kind == annotation.ShapeDatumL {
		sh := set.AddShape(annotation.NewShape(kind,
			[]annotation.Point{c.host.ToNormalized(from)},
			c.tools.StrokeColor, "", c.tools.StrokeWidth))
		c.host.AnnotationsChanged()
		return Result{Outcome: Created, Kind: annotation.KindShape, ID: sh.ID}
	}

	if abs(delta.X) < c.opts.MinShapeSize || abs(delta.Y) < c.opts.MinShapeSize {
		return notCreated(ReasonTooSmall)
	}

	pts := ShapePoints(kind, c.host.ToNormalized(from), c.host.ToNormalized(to))
	sh := set.AddShape(annotation.NewShape(kind, pts, c.tools.StrokeColor, c.tools.FillColor, c.tools.StrokeWidth))
	c.host.AnnotationsChanged()
	return Result{Outcome: Created, Kind: annotation.KindShape, ID: sh.ID}
}

func (c *Controller) createText(at graphics.Point) Result {
	pos := c.host.ToNormalized(at)
	color, size := c.tools.TextColor, c.tools.TextSize

	return c.ask("Text", "Enter the text to display:", func(value string, ok bool) Result {
		if !ok {
			return notCreated(ReasonCancelled)
		}
		if value == "" {
			return notCreated(ReasonEmptyText)
		}
		t := c.host.Annotations().AddText(annotation.NewText(pos, value, color, size))
		c.host.AnnotationsChanged()
		return Result{Outcome: Created, Kind: annotation.KindText, ID: t.ID}
	})
}

func (c *Controller) createArrow(from, to graphics.Point) Result {
	arrow := annotation.NewArrow(c.host.ToNormalized(from), c.host.ToNormalized(to),
		c.tools.ArrowColor, c.tools.StrokeWidth)
	arrow.TextSize = c.tools.TextSize
	c.host.Annotations().AddArrow(arrow)
	c.host.AnnotationsChanged()

	color, size := c.tools.TextColor, c.tools.TextSize

	return c.ask("Arrow label", "Enter the text shown at the arrow's tail:", func(value string, ok bool) Result {
		set := c.host.Annotations()
		if !ok || value == "" {
			// Roll back so no unlabeled arrow is left behind.
			set.Remove(arrow.ID)
			c.host.AnnotationsChanged()
			if !ok {
				return notCreated(ReasonCancelled)
			}
			return notCreated(ReasonEmptyText)
		}

		label := annotation.NewText(arrow.End, value, color, size)
		label.ParentID = arrow.ID
		set.AddText(label)
		c.host.AnnotationsChanged()
		c.host.SnapArrowToLabels(arrow.ID)
		return Result{Outcome: Created, Kind: annotation.KindArrow, ID: arrow.ID, LabelID: label.ID}
	})
}

// ask runs the prompt and finish. A prompter that answers synchronously
// yields the final result; otherwise Pending is returned and the result
// goes to OnComplete.
func (c *Controller) ask(title, message string, finish func(string, bool) Result) Result {
	if c.prompt == nil {
		return finish("", false)
	}

	var (
		answered bool
		final    Result
		returned bool
	)
	c.prompt.Prompt(title, message, func(text string, ok bool) {
		if answered {
			return
		}
		answered = true
		final = finish(CleanText(text), ok)
		if returned && c.opts.OnComplete != nil {
			c.opts.OnComplete(final)
		}
	})
	returned = true
	if answered {
		return final
	}
	return Result{Outcome: Pending}
}

// CleanText trims surrounding space and composes the text to NFC.
func CleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Preview is the dashed rubber band shown while dragging.
type Preview struct {
	Kind  PreviewKind
	From  graphics.Point
	To    graphics.Point
	Color color.NRGBA
	Width float64
	Dash  []float64
}

// PreviewKind selects the preview primitive.
type PreviewKind int

const (
	PreviewLine PreviewKind = iota
	PreviewRect
	PreviewEllipse
)

// Bounds returns the box spanned by the drag.
func (p *Preview) Bounds() graphics.Rect {
	return graphics.NewRect(p.From.X, p.From.Y, p.To.X, p.To.Y)
}
