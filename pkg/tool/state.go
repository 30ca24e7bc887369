// Package tool holds the active drawing tool and the style new annotations
// are created with.
package tool

import "sheetmark/pkg/annotation"

// Kind is the active tool.
type Kind int

const (
	Select Kind = iota
	Shape
	Arrow
	Text
)

func (k Kind) String() string {
	switch k {
	case Select:
		return "SELECT"
	case Shape:
		return "SHAPE"
	case Arrow:
		return "ARROW"
	case Text:
		return "TEXT"
	}
	return "UNKNOWN"
}

// State is the tool bar state read by the controller when it creates
// annotations. Colors are stored color names or hex values.
type State struct {
	Active      Kind
	ShapeKind   annotation.ShapeKind
	StrokeWidth float64
	StrokeColor string

	// FillColor is empty for unfilled shapes.
	FillColor  string
	ArrowColor string
	TextColor  string
	TextSize   float64
}

// Default returns the stock tool state: a yellow rectangle tool.
func Default() *State {
	return &State{
		Active:      Shape,
		ShapeKind:   annotation.ShapeRect,
		StrokeWidth: 5,
		StrokeColor: "Yellow",
		ArrowColor:  "Red",
		TextColor:   "Black",
		TextSize:    40,
	}
}

// UseShapeTool activates the shape tool with the given kind.
func (s *State) UseShapeTool(kind annotation.ShapeKind) {
	s.Active = Shape
	s.ShapeKind = kind
}

// UseArrowTool activates the arrow tool.
func (s *State) UseArrowTool() { s.Active = Arrow }

// UseTextTool activates the text tool.
func (s *State) UseTextTool() { s.Active = Text }

// UseSelectTool activates selection and dragging.
func (s *State) UseSelectTool() { s.Active = Select }

// SetStrokeWidth sets the shape and arrow line width.
func (s *State) SetStrokeWidth(w float64) { s.StrokeWidth = w }

// SetStrokeColor sets the shape outline color.
func (s *State) SetStrokeColor(c string) { s.StrokeColor = c }

// SetFillColor sets the shape fill. Empty disables filling.
func (s *State) SetFillColor(c string) { s.FillColor = c }

// SetArrowColor sets the arrow color.
func (s *State) SetArrowColor(c string) { s.ArrowColor = c }

// SetTextColor sets the label color.
func (s *State) SetTextColor(c string) { s.TextColor = c }

// SetTextSize sets the label point size.
func (s *State) SetTextSize(size float64) { s.TextSize = size }
