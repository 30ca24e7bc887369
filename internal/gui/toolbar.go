package gui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/tool"
)

const noFill = "None"

var (
	colorChoices = []string{"Red", "Yellow", "Black", "White", "Blue", "Green", "Cyan", "Magenta", "Orange"}
	widthChoices = []string{"1", "1.5", "2", "3", "5", "8", "12"}
	sizeChoices  = []string{"16", "20", "30", "40", "50", "60", "80"}
	toolChoices  = []string{tool.Select.String(), tool.Shape.String(), tool.Arrow.String(), tool.Text.String()}
)

// Toolbar provides file, zoom, tool and style controls.
type Toolbar struct {
	container *fyne.Container

	// Callbacks
	OnOpenImage   func()
	OnOpenProject func()
	OnSave        func()
	OnSaveAs      func()
	OnExport      func()
	OnZoomIn      func()
	OnZoomOut     func()
	OnFit         func()
	OnDelete      func()

	OnTool        func(tool.Kind)
	OnShapeKind   func(annotation.ShapeKind)
	OnStrokeWidth func(float64)
	OnStrokeColor func(string)
	OnFillColor   func(string)
	OnArrowColor  func(string)
	OnTextColor   func(string)
	OnTextSize    func(float64)

	// Components
	tools *widget.RadioGroup
	shape *widget.Select
}

// NewToolbar creates a toolbar showing the values of st.
func NewToolbar(st *tool.State) *Toolbar {
	t := &Toolbar{}
	t.build(st)
	return t
}

func call(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}

func (t *Toolbar) build(st *tool.State) {
	openImage := widget.NewButtonWithIcon("Image", theme.FileImageIcon(), func() { call(t.OnOpenImage)() })
	openProject := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), func() { call(t.OnOpenProject)() })
	save := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() { call(t.OnSave)() })
	saveAs := widget.NewButtonWithIcon("Save As", theme.DocumentSaveIcon(), func() { call(t.OnSaveAs)() })
	export := widget.NewButtonWithIcon("Export", theme.DownloadIcon(), func() { call(t.OnExport)() })

	zoomOut := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { call(t.OnZoomOut)() })
	zoomIn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { call(t.OnZoomIn)() })
	fit := widget.NewButtonWithIcon("Fit", theme.ZoomFitIcon(), func() { call(t.OnFit)() })
	del := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() { call(t.OnDelete)() })

	t.tools = widget.NewRadioGroup(toolChoices, func(s string) {
		for i, name := range toolChoices {
			if name == s && t.OnTool != nil {
				t.OnTool(tool.Kind(i))
			}
		}
	})
	t.tools.Horizontal = true
	t.tools.Required = true
	t.tools.SetSelected(st.Active.String())

	kinds := make([]string, len(annotation.ShapeKinds))
	for i, k := range annotation.ShapeKinds {
		kinds[i] = string(k)
	}
	t.shape = widget.NewSelect(kinds, func(s string) {
		if k, err := annotation.ParseShapeKind(s); err == nil && t.OnShapeKind != nil {
			t.OnShapeKind(k)
		}
	})
	t.shape.SetSelected(string(st.ShapeKind))

	strokeWidth := widget.NewSelect(widthChoices, floatCallback(&t.OnStrokeWidth))
	strokeWidth.SetSelected(formatFloat(st.StrokeWidth))
	strokeColor := widget.NewSelect(colorChoices, stringCallback(&t.OnStrokeColor))
	strokeColor.SetSelected(st.StrokeColor)

	fill := widget.NewSelect(append([]string{noFill}, colorChoices...), func(s string) {
		if s == noFill {
			s = ""
		}
		if t.OnFillColor != nil {
			t.OnFillColor(s)
		}
	})
	if st.FillColor == "" {
		fill.SetSelected(noFill)
	} else {
		fill.SetSelected(st.FillColor)
	}

	arrowColor := widget.NewSelect(colorChoices, stringCallback(&t.OnArrowColor))
	arrowColor.SetSelected(st.ArrowColor)
	textColor := widget.NewSelect(colorChoices, stringCallback(&t.OnTextColor))
	textColor.SetSelected(st.TextColor)
	textSize := widget.NewSelect(sizeChoices, floatCallback(&t.OnTextSize))
	textSize.SetSelected(formatFloat(st.TextSize))

	files := container.NewHBox(
		openImage,
		openProject,
		save,
		saveAs,
		export,
		widget.NewSeparator(),
		zoomOut,
		zoomIn,
		fit,
		widget.NewSeparator(),
		del,
	)
	styles := container.NewHBox(
		t.tools,
		t.shape,
		widget.NewSeparator(),
		widget.NewLabel("Stroke"), strokeWidth, strokeColor,
		widget.NewLabel("Fill"), fill,
		widget.NewLabel("Arrow"), arrowColor,
		widget.NewLabel("Text"), textColor, textSize,
	)
	t.container = container.NewVBox(files, styles)
}

func floatCallback(fn *func(float64)) func(string) {
	return func(s string) {
		v, err := strconv.ParseFloat(s, 64)
		if err == nil && *fn != nil {
			(*fn)(v)
		}
	}
}

func stringCallback(fn *func(string)) func(string) {
	return func(s string) {
		if *fn != nil {
			(*fn)(s)
		}
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Container returns the toolbar container.
func (t *Toolbar) Container() *fyne.Container {
	return t.container
}

// SetTool shows k as the active tool without firing OnTool.
func (t *Toolbar) SetTool(k tool.Kind) {
	fn := t.OnTool
	t.OnTool = nil
	t.tools.SetSelected(k.String())
	t.OnTool = fn
}

// StatusBar provides status information.
type StatusBar struct {
	container *fyne.Container
	label     *widget.Label
	zoomLabel *widget.Label
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	s := &StatusBar{
		label:     widget.NewLabel("Ready"),
		zoomLabel: widget.NewLabel("100%"),
	}

	s.container = container.NewHBox(
		s.label,
		widget.NewSeparator(),
		s.zoomLabel,
	)

	return s
}

// Container returns the status bar container.
func (s *StatusBar) Container() *fyne.Container {
	return s.container
}

// SetStatus sets the status message.
func (s *StatusBar) SetStatus(msg string) {
	s.label.SetText(msg)
}

// SetZoom sets the zoom percentage display.
func (s *StatusBar) SetZoom(percent int) {
	s.zoomLabel.SetText(strconv.Itoa(percent) + "%")
}
