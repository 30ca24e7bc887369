package annotation

import (
	"encoding/json"
	"fmt"
)

// Defaults applied to keys missing from a stored record.
const (
	DefaultColor       = "Red"
	DefaultFontSize    = 30
	DefaultLineWidth   = 1.5
	DefaultHeadSize    = 0.02
	DefaultTextSize    = 30
	DefaultStrokeWidth = 1.5
)

// TextRecord is the stored form of a Text.
type TextRecord struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"kind"`
	Label    string  `json:"label"`
	Visible  bool    `json:"visible"`
	ZIndex   int     `json:"z_index"`
	Position Point   `json:"position"`
	Text     string  `json:"text"`
	Color    string  `json:"color"`
	FontSize float64 `json:"font_size"`
	ParentID *string `json:"parent_id"`
}

// ArrowRecord is the stored form of an Arrow.
type ArrowRecord struct {
	ID        string  `json:"id"`
	Kind      Kind    `json:"kind"`
	Label     string  `json:"label"`
	Visible   bool    `json:"visible"`
	ZIndex    int     `json:"z_index"`
	Start     Point   `json:"start"`
	End       Point   `json:"end"`
	Text      string  `json:"text"`
	Color     string  `json:"color"`
	LineWidth float64 `json:"line_width"`
	HeadSize  float64 `json:"head_size"`
	TextSize  float64 `json:"text_size"`
}

// ShapeRecord is the stored form of a Shape.
type ShapeRecord struct {
	ID          string  `json:"id"`
	Kind        Kind    `json:"kind"`
	Label       string  `json:"label"`
	Visible     bool    `json:"visible"`
	ZIndex      int     `json:"z_index"`
	ShapeType   string  `json:"shape_type"`
	Points      []Point `json:"points"`
	StrokeColor string  `json:"stroke_color"`
	FillColor   *string `json:"fill_color"`
	StrokeWidth float64 `json:"stroke_width"`
}

// SetRecord is the stored form of a Set.
type SetRecord struct {
	MainPoint *TextRecord   `json:"main_point"`
	Texts     []TextRecord  `json:"texts"`
	Arrows    []ArrowRecord `json:"arrows"`
	Shapes    []ShapeRecord `json:"shapes"`
}

// UnmarshalJSON decodes a text record, keeping defaults for missing keys.
func (r *TextRecord) UnmarshalJSON(data []byte) error {
	type plain TextRecord
	p := plain{
		Visible:  true,
		Position: Point{0.5, 0.5},
		Color:    DefaultColor,
		FontSize: DefaultFontSize,
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = TextRecord(p)
	return nil
}

// UnmarshalJSON decodes an arrow record, keeping defaults for missing keys.
func (r *ArrowRecord) UnmarshalJSON(data []byte) error {
	type plain ArrowRecord
	p := plain{
		Visible:   true,
		Start:     Point{0.4, 0.4},
		End:       Point{0.6, 0.6},
		Color:     DefaultColor,
		LineWidth: DefaultLineWidth,
		HeadSize:  DefaultHeadSize,
		TextSize:  DefaultTextSize,
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ArrowRecord(p)
	return nil
}

// UnmarshalJSON decodes a shape record, keeping defaults for missing keys.
func (r *ShapeRecord) UnmarshalJSON(data []byte) error {
	type plain ShapeRecord
	p := plain{
		Visible:     true,
		ShapeType:   string(ShapeRect),
		StrokeColor: DefaultColor,
		StrokeWidth: DefaultStrokeWidth,
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ShapeRecord(p)
	return nil
}

// Record returns the stored form of t.
func (t *Text) Record() TextRecord {
	r := TextRecord{
		ID:       t.ID,
		Kind:     KindText,
		Label:    t.Label,
		Visible:  t.Visible,
		ZIndex:   t.Z,
		Position: t.Position,
		Text:     t.Text,
		Color:    t.Color,
		FontSize: t.FontSize,
	}
	if t.ParentID != "" {
		parent := t.ParentID
		r.ParentID = &parent
	}
	return r
}

// TextFromRecord rebuilds a Text. A missing id is replaced by a fresh one.
func TextFromRecord(r TextRecord) (*Text, error) {
	if r.Kind != "" && r.Kind != KindText {
		return nil, fmt.Errorf("%w: %q where %s expected", ErrUnknownKind, r.Kind, KindText)
	}
	t := &Text{
		Base:     base(r.ID, r.Label, "TEXT", r.Visible, r.ZIndex),
		Position: r.Position,
		Text:     r.Text,
		Color:    r.Color,
		FontSize: r.FontSize,
	}
	if r.ParentID != nil {
		t.ParentID = *r.ParentID
	}
	return t, nil
}

// Record returns the stored form of a.
func (a *Arrow) Record() ArrowRecord {
	return ArrowRecord{
		ID:        a.ID,
		Kind:      KindArrow,
		Label:     a.Label,
		Visible:   a.Visible,
		ZIndex:    a.Z,
		Start:     a.Start,
		End:       a.End,
		Text:      a.Text,
		Color:     a.Color,
		LineWidth: a.LineWidth,
		HeadSize:  a.HeadSize,
		TextSize:  a.TextSize,
	}
}

// ArrowFromRecord rebuilds an Arrow.
func ArrowFromRecord(r ArrowRecord) (*Arrow, error) {
	if r.Kind != "" && r.Kind != KindArrow {
		return nil, fmt.Errorf("%w: %q where %s expected", ErrUnknownKind, r.Kind, KindArrow)
	}
	return &Arrow{
		Base:      base(r.ID, r.Label, "ARROW", r.Visible, r.ZIndex),
		Start:     r.Start,
		End:       r.End,
		Text:      r.Text,
		Color:     r.Color,
		LineWidth: r.LineWidth,
		HeadSize:  r.HeadSize,
		TextSize:  r.TextSize,
	}, nil
}

// Record returns the stored form of s.
func (s *Shape) Record() ShapeRecord {
	r := ShapeRecord{
		ID:          s.ID,
		Kind:        KindShape,
		Label:       s.Label,
		Visible:     s.Visible,
		ZIndex:      s.Z,
		ShapeType:   string(s.ShapeKind),
		Points:      append([]Point{}, s.Points...),
		StrokeColor: s.StrokeColor,
		StrokeWidth: s.StrokeWidth,
	}
	if s.FillColor != "" {
		fill := s.FillColor
		r.FillColor = &fill
	}
	return r
}

// ShapeFromRecord rebuilds a Shape.
func ShapeFromRecord(r ShapeRecord) (*Shape, error) {
	if r.Kind != "" && r.Kind != KindShape {
		return nil, fmt.Errorf("%w: %q where %s expected", ErrUnknownKind, r.Kind, KindShape)
	}
	kind, err := ParseShapeKind(r.ShapeType)
	if err != nil {
		return nil, err
	}
	s := &Shape{
		Base:        base(r.ID, r.Label, "SHAPE_"+string(kind), r.Visible, r.ZIndex),
		ShapeKind:   kind,
		Points:      append([]Point(nil), r.Points...),
		StrokeColor: r.StrokeColor,
		StrokeWidth: r.StrokeWidth,
	}
	if r.FillColor != nil {
		s.FillColor = *r.FillColor
	}
	return s, nil
}

func base(id, label, defLabel string, visible bool, z int) Base {
	if id == "" {
		id = NewID()
	}
	if label == "" {
		label = defLabel
	}
	return Base{ID: id, Label: label, Visible: visible, Z: z}
}

// Record returns the stored form of the set. Incomplete shapes are left
// out.
func (s *Set) Record() SetRecord {
	r := SetRecord{
		Texts:  make([]TextRecord, 0, len(s.texts)),
		Arrows: make([]ArrowRecord, 0, len(s.arrows)),
		Shapes: make([]ShapeRecord, 0, len(s.shapes)),
	}
	if s.MainPoint != nil {
		mp := s.MainPoint.Record()
		r.MainPoint = &mp
	}
	for _, t := range s.texts {
		r.Texts = append(r.Texts, t.Record())
	}
	for _, a := range s.arrows {
		r.Arrows = append(r.Arrows, a.Record())
	}
	for _, sh := range s.shapes {
		if !sh.Complete() {
			Logger().Debug("annotation: skipping incomplete shape", "id", sh.ID, "kind", sh.ShapeKind, "points", len(sh.Points))
			continue
		}
		r.Shapes = append(r.Shapes, sh.Record())
	}
	return r
}

// SetFromRecord rebuilds a set. Incomplete shapes are dropped and dangling
// parent links are kept but logged.
func SetFromRecord(r SetRecord) (*Set, error) {
	s := NewSet()
	if r.MainPoint != nil {
		mp, err := TextFromRecord(*r.MainPoint)
		if err != nil {
			return nil, fmt.Errorf("failed to decode main point: %w", err)
		}
		s.MainPoint = mp
	}
	for i, tr := range r.Texts {
		t, err := TextFromRecord(tr)
		if err != nil {
			return nil, fmt.Errorf("failed to decode text %d: %w", i, err)
		}
		s.texts = append(s.texts, t)
	}
	for i, ar := range r.Arrows {
		a, err := ArrowFromRecord(ar)
		if err != nil {
			return nil, fmt.Errorf("failed to decode arrow %d: %w", i, err)
		}
		s.arrows = append(s.arrows, a)
	}
	for i, sr := range r.Shapes {
		sh, err := ShapeFromRecord(sr)
		if err != nil {
			return nil, fmt.Errorf("failed to decode shape %d: %w", i, err)
		}
		if !sh.Complete() {
			Logger().Debug("annotation: dropping incomplete shape", "id", sh.ID, "kind", sh.ShapeKind, "points", len(sh.Points))
			continue
		}
		s.shapes = append(s.shapes, sh)
	}

	if err := s.Validate(); err != nil {
		Logger().Warn("annotation: loaded set has problems", "err", err)
	}
	return s, nil
}

// Marshal encodes the set as indented JSON.
func Marshal(s *Set) ([]byte, error) {
	data, err := json.MarshalIndent(s.Record(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotations: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a set from JSON. A null document is an empty set.
func Unmarshal(data []byte) (*Set, error) {
	var r SetRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode annotations: %w", err)
	}
	return SetFromRecord(r)
}
