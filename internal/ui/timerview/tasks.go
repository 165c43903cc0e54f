package timerview

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"focustimer/internal/i18n"
	"focustimer/internal/logging"
	"focustimer/internal/tasks"
)

// TaskPanel lists tasks with add, complete, edit and delete controls.
type TaskPanel struct {
	list      *tasks.List
	localizer *i18n.Localizer
	window    fyne.Window
	details   *detailsForm
	items     []tasks.Task
	entry     *widget.Entry
	templates *widget.Select
	add       *widget.Button
	view      *widget.List
	empty     *widget.Label
	content   fyne.CanvasObject
}

// NewTaskPanel builds the panel over list.
func NewTaskPanel(list *tasks.List, localizer *i18n.Localizer) *TaskPanel {
	panel := &TaskPanel{list: list, localizer: localizer}

	panel.entry = widget.NewEntry()
	panel.entry.SetPlaceHolder(localizer.T("task.new"))
	panel.entry.OnSubmitted = func(string) { panel.addFromEntry() }
	panel.add = widget.NewButtonWithIcon("", theme.ContentAddIcon(), panel.addFromEntry)

	panel.templates = widget.NewSelect(localizer.TaskTemplates(), func(choice string) {
		if choice == "" {
			return
		}
		panel.entry.SetText(choice)
		panel.templates.ClearSelected()
	})

	panel.view = widget.NewList(
		func() int { return len(panel.items) },
		panel.createRow,
		panel.updateRow,
	)
	panel.empty = widget.NewLabel(localizer.T("task.empty"))

	header := container.NewVBox(
		widget.NewLabelWithStyle(localizer.T("task.title"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, panel.add, panel.entry),
		panel.templates,
		panel.empty,
	)
	panel.content = container.NewBorder(header, nil, nil, nil, panel.view)
	panel.Reload()
	return panel
}

// Content returns the panel's root object.
func (panel *TaskPanel) Content() fyne.CanvasObject {
	return panel.content
}

// SetWindow sets the parent of the details dialog.
func (panel *TaskPanel) SetWindow(window fyne.Window) {
	panel.window = window
}

// Reload refreshes the rows from the list.
func (panel *TaskPanel) Reload() {
	panel.items = panel.list.Tasks()
	if len(panel.items) == 0 {
		panel.empty.Show()
	} else {
		panel.empty.Hide()
	}
	panel.view.Refresh()
}

func (panel *TaskPanel) addFromEntry() {
	if _, err := panel.list.Add(panel.entry.Text); err != nil {
		logging.Debugf("add task: %v", err)
		return
	}
	panel.entry.SetText("")
	panel.Reload()
}

func (panel *TaskPanel) createRow() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewCheck("", nil),
		widget.NewLabel(""),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil),
		widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
	)
}

func (panel *TaskPanel) updateRow(index widget.ListItemID, object fyne.CanvasObject) {
	if index < 0 || index >= len(panel.items) {
		return
	}
	task := panel.items[index]
	row := object.(*fyne.Container)
	check := row.Objects[0].(*widget.Check)
	label := row.Objects[1].(*widget.Label)
	edit := row.Objects[3].(*widget.Button)
	remove := row.Objects[4].(*widget.Button)

	check.OnChanged = nil
	check.SetChecked(task.Completed)
	check.OnChanged = func(bool) {
		if _, err := panel.list.Toggle(task.ID); err != nil {
			logging.Warnf("toggle task %d: %v", task.ID, err)
		}
		panel.Reload()
	}

	label.SetText(panel.rowText(task))
	if task.Completed {
		label.TextStyle = fyne.TextStyle{Italic: true}
	} else {
		label.TextStyle = fyne.TextStyle{}
	}
	label.Refresh()

	edit.OnTapped = func() { panel.showDetails(task) }
	remove.OnTapped = func() {
		if err := panel.list.Delete(task.ID); err != nil {
			logging.Warnf("delete task %d: %v", task.ID, err)
		}
		panel.Reload()
	}
}

func (panel *TaskPanel) rowText(task tasks.Task) string {
	if task.DueDate == nil {
		return task.Text
	}
	return task.Text + " (" + panel.localizer.T("task.due_on", panel.localizer.Date(*task.DueDate)) + ")"
}
