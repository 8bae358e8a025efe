// Package notify sends desktop notifications for habit reminders. It shells
// out to the native mechanism: osascript on macOS and notify-send on Linux.
package notify

import (
	"fmt"
	"strings"
)

// Notifier sends desktop notifications.
type Notifier interface {
	// Send shows a notification, optionally asking for a sound.
	Send(title, message string, sound bool) error

	// IsSupported reports whether the platform mechanism is available.
	IsSupported() bool
}

type noopNotifier struct{}

func (noopNotifier) Send(title, message string, sound bool) error { return nil }
func (noopNotifier) IsSupported() bool { return false }

// New returns the platform notifier, or a no-op one when the platform
// mechanism is missing.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// Reminder is the notification for habits still open today.
type Reminder struct {
	Title   string
	Message string
}

// HabitReminder builds the reminder for pending habit names out of total
// habits. ok is false when nothing is pending.
func HabitReminder(pending []string, total int) (r Reminder, ok bool) {
	if len(pending) == 0 {
		return Reminder{}, false
	}
	done := total - len(pending)
	r.Title = fmt.Sprintf("Habits: %d/%d done today", done, total)

	const maxNames = 3
	names := pending
	if len(names) > maxNames {
		names = names[:maxNames]
	}
	r.Message = "Still to do: " + strings.Join(names, ", ")
	if extra := len(pending) - len(names); extra > 0 {
		r.Message += fmt.Sprintf(" and %d more", extra)
	}
	return r, true
}

// Send delivers r through n.
func (r Reminder) Send(n Notifier, sound bool) error {
	return n.Send(r.Title, r.Message, sound)
}
