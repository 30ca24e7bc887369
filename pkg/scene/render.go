package scene

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/colornames"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/controller"
	"sheetmark/pkg/graphics"
	pathpkg "sheetmark/pkg/path"
	"sheetmark/pkg/raster"
)

// Surface is a 2D drawing target. *raster.Canvas implements it.
type Surface interface {
	Fill(path *graphics.Path, col color.Color)
	Stroke(path *graphics.Path, style raster.StrokeStyle)
	DrawText(text string, topLeft graphics.Point, size float64, col color.Color)
	DrawImage(img image.Image, dst graphics.Rect)
}

var (
	fallbackColor = nrgba(colornames.Red)
	outlineWhite  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	outlineBlack  = color.NRGBA{A: 255}
	outlineDash   = []float64{4, 2}
)

func nrgba(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Paint draws the background, every item in z order, selection outlines
// and the drawing preview. view maps scene coordinates to the surface.
func (s *Scene) Paint(surf Surface, view graphics.Matrix) {
	if !s.HasImage() {
		return
	}
	surf.DrawImage(s.img, s.imageRect.Transform(view))
	s.paintItems(surf, view, true)
	if s.preview != nil {
		s.paintPreview(surf, view, s.preview)
	}
}

// RenderTo draws the background and annotations into target, scaled to fit
// with the image's aspect ratio kept and centered. Selection and preview
// are not drawn. It returns the rectangle the image occupies.
func (s *Scene) RenderTo(surf Surface, target graphics.Rect) graphics.Rect {
	if !s.HasImage() || target.IsEmpty() {
		return graphics.Rect{}
	}
	k := math.Min(target.Width/s.imageRect.Width, target.Height/s.imageRect.Height)
	w, h := s.imageRect.Width*k, s.imageRect.Height*k
	dst := graphics.Rect{
		X:      target.X + (target.Width-w)/2,
		Y:      target.Y + (target.Height-h)/2,
		Width:  w,
		Height: h,
	}
	view := graphics.RectToRect(s.imageRect, dst)
	surf.DrawImage(s.img, dst)
	s.paintItems(surf, view, false)
	return dst
}

func (s *Scene) paintItems(surf Surface, view graphics.Matrix, chrome bool) {
	k := view.ScaleX()
	for _, it := range s.order {
		m := graphics.Translate(it.Offset().X, it.Offset().Y).Multiply(view)
		switch it := it.(type) {
		case *TextItem:
			s.paintText(surf, m, k, it, chrome)
		case *ArrowItem:
			paintArrow(surf, m, k, it)
		case *ShapeItem:
			paintShape(surf, m, k, it)
		}
		if chrome && it.Selected() {
			paintOutline(surf, it.Bounds().Inset(1.5, 1.5).Transform(view))
		}
	}
}

func (s *Scene) paintText(surf Surface, m graphics.Matrix, k float64, it *TextItem, chrome bool) {
	text := it.Shown()
	col := graphics.ColorOr(it.Color, fallbackColor)
	tl := m.TransformPoint(graphics.Pt(it.box.X+s.opts.TextMargin, it.box.Y+s.opts.TextMargin))
	if text != "" {
		surf.DrawText(text, tl, it.Size*k, col)
	}
	if chrome && it.editing {
		r := pathpkg.NewBuilder().Rect(it.box.X, it.box.Y, it.box.Width, it.box.Height).Build()
		surf.Stroke(r.Transform(m), raster.StrokeStyle{Color: outlineBlack, Width: 1})
	}
}

func paintArrow(surf Surface, m graphics.Matrix, k float64, it *ArrowItem) {
	col := graphics.ColorOr(it.Color, fallbackColor)
	head := it.head()
	// the shaft ends at the head's base so the tip stays sharp
	base := graphics.Pt((head[1].X+head[2].X)/2, (head[1].Y+head[2].Y)/2)
	shaft := pathpkg.NewBuilder().Line(it.End, base).Build()
	surf.Stroke(shaft.Transform(m), raster.StrokeStyle{
		Color: col,
		Width: it.Width * k,
		Cap:   graphics.LineCapRound,
	})
	surf.Fill(pathpkg.NewBuilder().Polygon(head).Build().Transform(m), col)
}

func paintShape(surf Surface, m graphics.Matrix, k float64, it *ShapeItem) {
	stroke := raster.StrokeStyle{
		Color: graphics.ColorOr(it.StrokeColor, fallbackColor),
		Width: it.StrokeWidth * k,
		Join:  graphics.LineJoinMiter,
	}

	if it.ShapeKind == annotation.ShapeDatumL {
		for _, arm := range it.datum {
			head := arm.head()
			base := graphics.Pt((head[1].X+head[2].X)/2, (head[1].Y+head[2].Y)/2)
			surf.Stroke(pathpkg.NewBuilder().Line(arm.From, base).Build().Transform(m), stroke)
			surf.Fill(pathpkg.NewBuilder().Polygon(head).Build().Transform(m), stroke.Color)
		}
		return
	}

	b := pathpkg.NewBuilder()
	switch {
	case it.ShapeKind == annotation.ShapeRect:
		b.Rect(it.rect.X, it.rect.Y, it.rect.Width, it.rect.Height)
	case it.ShapeKind.IsBox():
		b.EllipseInRect(it.rect)
	default:
		b.Polygon(it.poly)
	}
	p := b.Build().Transform(m)
	if it.FillColor != "" {
		if fill, err := graphics.ParseColor(it.FillColor); err == nil {
			surf.Fill(p, fill)
		}
	}
	surf.Stroke(p, stroke)
}

func paintOutline(surf Surface, r graphics.Rect) {
	p := pathpkg.NewBuilder().Rect(r.X, r.Y, r.Width, r.Height).Build()
	surf.Stroke(p, raster.StrokeStyle{Color: outlineWhite, Width: 2, Dash: outlineDash})
	surf.Stroke(p, raster.StrokeStyle{Color: outlineBlack, Width: 1, Dash: outlineDash})
}

func (s *Scene) paintPreview(surf Surface, view graphics.Matrix, p *controller.Preview) {
	b := pathpkg.NewBuilder()
	switch p.Kind {
	case controller.PreviewLine:
		b.Line(p.From, p.To)
	case controller.PreviewEllipse:
		b.EllipseInRect(p.Bounds())
	default:
		r := p.Bounds()
		b.Rect(r.X, r.Y, r.Width, r.Height)
	}
	surf.Stroke(b.Build().Transform(view), raster.StrokeStyle{
		Color: p.Color,
		Width: math.Max(1, p.Width*view.ScaleX()),
		Dash:  p.Dash,
	})
}
