//go:build !darwin && !linux

package notify

func newPlatformNotifier() Notifier {
	return nil
}
