package timerview

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"focustimer/internal/logging"
	"focustimer/internal/tasks"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var errClockWithoutDate = errors.New("a due time needs a due date")

// detailsForm holds the entries of an open task details dialog.
type detailsForm struct {
	id    int64
	text  *widget.Entry
	notes *widget.Entry
	date  *widget.Entry
	clock *widget.Entry
}

func (panel *TaskPanel) showDetails(task tasks.Task) {
	form := &detailsForm{
		id:    task.ID,
		text:  widget.NewEntry(),
		notes: widget.NewMultiLineEntry(),
		date:  widget.NewEntry(),
		clock: widget.NewEntry(),
	}
	form.text.SetText(task.Text)
	form.notes.SetText(task.Notes)
	form.date.SetPlaceHolder("YYYY-MM-DD")
	form.clock.SetPlaceHolder("HH:MM")
	if task.DueDate != nil {
		due := task.DueDate.Local()
		form.date.SetText(due.Format(dateLayout))
		if due.Hour() != 0 || due.Minute() != 0 {
			form.clock.SetText(due.Format(clockLayout))
		}
	}
	panel.details = form

	if panel.window == nil {
		logging.Debugf("task details for %d: no parent window", task.ID)
		return
	}
	items := []*widget.FormItem{
		widget.NewFormItem(panel.localizer.T("task.text"), form.text),
		widget.NewFormItem(panel.localizer.T("task.notes"), form.notes),
		widget.NewFormItem(panel.localizer.T("task.due"), form.date),
		widget.NewFormItem(panel.localizer.T("task.time"), form.clock),
	}
	dialog.NewForm(panel.localizer.T("task.details"), panel.localizer.T("prefs.save"), panel.localizer.T("prefs.cancel"),
		items, func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := panel.saveDetails(form); err != nil {
				dialog.ShowError(err, panel.window)
			}
		}, panel.window).Show()
}

// saveDetails validates the form and writes text, notes and due date. Nothing
// is written when any field is invalid.
func (panel *TaskPanel) saveDetails(form *detailsForm) error {
	text := strings.TrimSpace(form.text.Text)
	if text == "" {
		return tasks.ErrEmptyText
	}
	due, err := parseDue(form.date.Text, form.clock.Text)
	if err != nil {
		return err
	}

	defer panel.Reload()
	if _, err := panel.list.SetText(form.id, text); err != nil {
		logging.Warnf("rename task %d: %v", form.id, err)
		return err
	}
	if _, err := panel.list.SetNotes(form.id, form.notes.Text); err != nil {
		return err
	}
	if _, err := panel.list.SetDueDate(form.id, due); err != nil {
		return err
	}
	return nil
}

// parseDue reads a local date and optional time. An empty date clears the
// due date.
func parseDue(date, clock string) (*time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		if clock != "" {
			return nil, errClockWithoutDate
		}
		return nil, nil
	}
	if clock == "" {
		clock = "00:00"
	}
	due, err := time.ParseInLocation(dateLayout+" "+clockLayout, date+" "+clock, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse due date %q %q: %w", date, clock, err)
	}
	return &due, nil
}
