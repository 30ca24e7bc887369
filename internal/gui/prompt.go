package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"sheetmark/pkg/controller"
)

// dialogPrompter asks for text with a modal form on win. The answer
// arrives after Prompt returns.
type dialogPrompter struct {
	win fyne.Window
}

var _ controller.Prompter = (*dialogPrompter)(nil)

func (p *dialogPrompter) Prompt(title, message string, done func(string, bool)) {
	entry := widget.NewEntry()
	form := dialog.NewForm(title, "OK", "Cancel",
		[]*widget.FormItem{widget.NewFormItem(message, entry)},
		func(ok bool) { done(entry.Text, ok) },
		p.win)
	entry.OnSubmitted = func(string) { form.Submit() }
	form.Resize(fyne.NewSize(360, form.MinSize().Height))
	form.Show()
	p.win.Canvas().Focus(entry)
}
