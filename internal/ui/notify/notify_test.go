package notify

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2"

	"focustimer/internal/core/model"
	"focustimer/internal/i18n"
)

type recordingSender struct {
	sent []*fyne.Notification
}

func (sender *recordingSender) SendNotification(notification *fyne.Notification) {
	sender.sent = append(sender.sent, notification)
}

func newNotifier(t *testing.T, sender Sender, locale string) *Notifier {
	t.Helper()
	localizer, err := i18n.NewLocalizer(locale)
	if err != nil {
		t.Fatalf("NewLocalizer: %v", err)
	}
	notifier := New(sender, localizer)
	notifier.do = func(fn func()) { fn() }
	return notifier
}

func TestWorkCompletionNotification(t *testing.T) {
	sender := &recordingSender{}
	notifier := newNotifier(t, sender, "en-US")

	if err := notifier.NotifyIntervalComplete(model.ModeWork, model.ModeShortBreak); err != nil {
		t.Fatalf("NotifyIntervalComplete: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d notifications", len(sender.sent))
	}
	got := sender.sent[0]
	if got.Title != "Work finished" || got.Content != "Time for a break: Short Break is next." {
		t.Fatalf("notification = %q / %q", got.Title, got.Content)
	}
}

func TestBreakCompletionNotification(t *testing.T) {
	sender := &recordingSender{}
	notifier := newNotifier(t, sender, "en-US")

	_ = notifier.NotifyIntervalComplete(model.ModeLongBreak, model.ModeWork)
	got := sender.sent[0]
	if got.Title != "Long Break finished" || got.Content != "Break is over. Back to Work." {
		t.Fatalf("notification = %q / %q", got.Title, got.Content)
	}
}

func TestMissingSender(t *testing.T) {
	notifier := newNotifier(t, nil, "en-US")
	err := notifier.NotifyIntervalComplete(model.ModeWork, model.ModeShortBreak)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
