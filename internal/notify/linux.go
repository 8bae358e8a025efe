//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

// linuxNotifier uses notify-send.
type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return linuxNotifier{}
}

func (linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// Send runs notify-send. Sound depends on the notification daemon; a normal
// urgency hint is the closest portable request.
func (linuxNotifier) Send(title, message string, sound bool) error {
	args := []string{"--app-name=journal"}
	if sound {
		args = append(args, "--urgency=normal")
	}
	args = append(args, title, message)

	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
