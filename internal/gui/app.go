// Package gui provides the desktop annotation editor using Fyne.
package gui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/api"
	"sheetmark/pkg/controller"
	"sheetmark/pkg/scene"
	"sheetmark/pkg/tool"
)

var (
	imageExtensions   = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
	projectExtensions = []string{".json"}
)

// App represents the annotation editor application.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	project *api.Project
	tools   *tool.State

	// UI components
	scene   *scene.Scene
	editor  *Editor
	toolbar *Toolbar
	status  *StatusBar
}

// NewApp creates a new editor application with an empty project.
func NewApp() *App {
	a := &App{
		fyneApp: app.New(),
		project: api.New(),
		tools:   tool.Default(),
	}

	a.fyneApp.Settings().SetTheme(theme.DarkTheme())
	a.window = a.fyneApp.NewWindow("Sheetmark")
	a.window.Resize(fyne.NewSize(1200, 800))

	a.status = NewStatusBar()
	a.scene = scene.New(a.tools, &dialogPrompter{win: a.window},
		scene.OnChange(func() {
			if a.editor != nil {
				a.editor.Changed()
			}
		}),
		scene.OnResult(a.gestureDone))
	a.scene.SetAnnotationSet(a.project.Annotations())
	a.editor = NewEditor(a.scene)
	a.editor.OnStatus = a.status.SetStatus
	a.editor.OnZoom = func(z float64) {
		a.status.SetZoom(int(math.Round(z * 100)))
	}

	return a
}

func (a *App) gestureDone(r controller.Result) {
	if msg := describe(r); msg != "" {
		a.status.SetStatus(msg)
	}
}

// Run starts the application.
func (a *App) Run() {
	a.buildUI()
	a.window.ShowAndRun()
}

// RunWithFile starts the application with an image or project loaded.
// Paths ending in .json are opened as projects.
func (a *App) RunWithFile(path string) {
	a.buildUI()

	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = a.loadProject(path)
	} else {
		err = a.loadImage(path)
	}
	if err != nil {
		dialog.ShowError(err, a.window)
	}

	a.window.ShowAndRun()
}

// buildUI constructs the user interface.
func (a *App) buildUI() {
	a.toolbar = NewToolbar(a.tools)
	a.bindToolbar()

	content := container.NewBorder(
		container.NewPadded(a.toolbar.Container()), // Top
		a.status.Container(),                       // Bottom
		nil,                                        // Left
		nil,                                        // Right
		a.editor,                                   // Center
	)
	a.window.SetContent(content)

	canvas := a.window.Canvas()
	canvas.SetOnTypedKey(a.handleKey)
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.save() })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.openImage() })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.export() })
}

func (a *App) bindToolbar() {
	t := a.toolbar
	t.OnOpenImage = a.openImage
	t.OnOpenProject = a.openProject
	t.OnSave = a.save
	t.OnSaveAs = a.saveAs
	t.OnExport = a.export
	t.OnZoomIn = a.editor.ZoomIn
	t.OnZoomOut = a.editor.ZoomOut
	t.OnFit = a.editor.ResetView
	t.OnDelete = a.deleteSelected

	t.OnTool = a.useTool
	t.OnShapeKind = func(k annotation.ShapeKind) {
		a.tools.UseShapeTool(k)
		t.SetTool(tool.Shape)
	}
	t.OnStrokeWidth = func(w float64) {
		a.tools.SetStrokeWidth(w)
		a.scene.SetSelectedStrokeWidth(w)
	}
	t.OnStrokeColor = func(c string) {
		a.tools.SetStrokeColor(c)
		a.scene.SetSelectedShapeStrokeColor(c)
	}
	t.OnFillColor = func(c string) {
		a.tools.SetFillColor(c)
		a.scene.SetSelectedShapeFillColor(c)
	}
	t.OnArrowColor = func(c string) {
		a.tools.SetArrowColor(c)
		a.scene.SetSelectedArrowColor(c)
	}
	t.OnTextColor = func(c string) {
		a.tools.SetTextColor(c)
		a.scene.SetSelectedTextColor(c)
	}
	t.OnTextSize = func(size float64) {
		a.tools.SetTextSize(size)
		a.scene.SetSelectedTextSize(size)
	}
}

func (a *App) useTool(k tool.Kind) {
	a.scene.CancelGesture()
	switch k {
	case tool.Select:
		a.tools.UseSelectTool()
	case tool.Shape:
		a.tools.UseShapeTool(a.tools.ShapeKind)
	case tool.Arrow:
		a.tools.UseArrowTool()
	case tool.Text:
		a.tools.UseTextTool()
	}
	a.status.SetStatus("Tool: " + strings.ToLower(k.String()))
}

// handleKey handles keys typed while the editor is not focused.
func (a *App) handleKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyDelete, fyne.KeyBackspace:
		a.deleteSelected()
	case fyne.KeyEscape:
		a.scene.CancelGesture()
		a.scene.ClearSelection()
	case fyne.KeyPlus, fyne.KeyEqual:
		a.editor.ZoomIn()
	case fyne.KeyMinus:
		a.editor.ZoomOut()
	case fyne.Key0:
		a.editor.ResetView()
	}
}

func (a *App) deleteSelected() {
	if n := a.scene.DeleteSelected(); n > 0 {
		a.status.SetStatus(deletedMessage(n))
	}
}

func (a *App) openImage() {
	a.showOpen(imageExtensions, a.loadImage)
}

func (a *App) openProject() {
	a.showOpen(projectExtensions, a.loadProject)
}

// showOpen shows a file dialog and passes the selected path to load.
func (a *App) showOpen(exts []string, load func(string) error) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return // Cancelled
		}
		path := reader.URI().Path()
		reader.Close()

		if err := load(path); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(exts))
	d.Show()
}

// loadImage starts a new project on the image at path.
func (a *App) loadImage(path string) error {
	p := api.New()
	if err := p.SetImage(path); err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	a.setProject(p, path)
	return nil
}

// loadProject opens a saved project. A project whose image is missing still
// opens so its annotations can be inspected.
func (a *App) loadProject(path string) error {
	p, err := api.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open project: %w", err)
	}
	a.setProject(p, path)
	if p.Image() == nil {
		a.status.SetStatus("Background image not found: " + p.ImagePath())
	}
	return nil
}

func (a *App) setProject(p *api.Project, path string) {
	a.project = p
	a.scene.SetImage(p.Image())
	a.scene.SetAnnotationSet(p.Annotations())
	a.editor.ResetView()

	a.window.SetTitle(fmt.Sprintf("Sheetmark - %s", filepath.Base(path)))
	a.status.SetStatus("Opened " + filepath.Base(path))
	annotation.Logger().Info("gui: opened", "path", path, "annotations", p.Annotations().Len())
}

func (a *App) commitEdit() {
	if a.scene.Editing() != "" {
		a.scene.CommitTextEdit()
	}
}

func (a *App) save() {
	a.commitEdit()
	if a.project.Path() == "" {
		a.saveAs()
		return
	}
	if err := a.project.Save(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.status.SetStatus("Saved " + filepath.Base(a.project.Path()))
}

func (a *App) saveAs() {
	a.commitEdit()
	a.showSave("annotations.json", func(path string) error {
		if filepath.Ext(path) == "" {
			path += ".json"
		}
		if err := a.project.SaveTo(path); err != nil {
			return err
		}
		a.window.SetTitle(fmt.Sprintf("Sheetmark - %s", filepath.Base(path)))
		a.status.SetStatus("Saved " + filepath.Base(path))
		return nil
	})
}

func (a *App) export() {
	if a.project.Image() == nil {
		dialog.ShowError(api.ErrNoImage, a.window)
		return
	}
	a.commitEdit()
	a.showSave("annotated.png", func(path string) error {
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		if err := a.project.ExportFile(path); err != nil {
			return err
		}
		a.status.SetStatus("Exported " + filepath.Base(path))
		return nil
	})
}

// showSave shows a save dialog and passes the chosen path to write. The
// dialog's writer is closed first so write can replace the file.
func (a *App) showSave(name string, write func(string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return // Cancelled
		}
		path := writer.URI().Path()
		writer.Close()

		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFileName(name)
	d.Show()
}
