// Package notify shows a desktop notification when an interval ends.
package notify

import (
	"errors"

	"fyne.io/fyne/v2"

	"focustimer/internal/core/model"
	"focustimer/internal/i18n"
)

// ErrUnavailable is returned when no notification sender is configured.
var ErrUnavailable = errors.New("desktop notifications unavailable")

// Sender is the part of fyne.App that posts notifications.
type Sender interface {
	SendNotification(notification *fyne.Notification)
}

// Notifier implements timekeeper.Notifier with fyne notifications.
type Notifier struct {
	sender    Sender
	localizer *i18n.Localizer
	do        func(func())
}

// New creates a Notifier. Posting is marshalled onto the fyne thread.
func New(sender Sender, localizer *i18n.Localizer) *Notifier {
	return &Notifier{sender: sender, localizer: localizer, do: fyne.Do}
}

// NotifyIntervalComplete posts "<mode> finished" with a hint about next.
func (notifier *Notifier) NotifyIntervalComplete(completed, next model.Mode) error {
	if notifier == nil || notifier.sender == nil {
		return ErrUnavailable
	}
	title, body := notifier.localizer.Notification(completed, next)
	notification := fyne.NewNotification(title, body)
	notifier.do(func() {
		notifier.sender.SendNotification(notification)
	})
	return nil
}
