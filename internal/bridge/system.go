package bridge

import (
	"fmt"
	"os/exec"
	"runtime"

	goclip "github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// Clipboard abstracts the OS clipboard so tests can swap in a fake.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// SystemClipboard talks to the real OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Read() (string, error) {
	text, err := goclip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

func (SystemClipboard) Write(text string) error {
	if err := goclip.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// System abstracts desktop-level actions.
type System interface {
	OpenURL(rawURL string) error
	OpenPath(path string) error
	Notify(title, body string) error
	CloseWindow()
}

// DesktopSystem is the real desktop implementation. CloseWindow is a no-op
// here; the embedding host observes close requests through the session.
type DesktopSystem struct{}

func (DesktopSystem) OpenURL(rawURL string) error {
	if err := browser.OpenURL(rawURL); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	return nil
}

func (DesktopSystem) OpenPath(path string) error {
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("open path: %w", err)
	}
	return nil
}

func (DesktopSystem) Notify(title, body string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		return exec.Command("osascript", "-e", script).Run()
	case "linux":
		if _, err := exec.LookPath("notify-send"); err == nil {
			return exec.Command("notify-send", title, body).Run()
		}
	}
	// 没有通知通道时静默退化 / degrade silently without a notification channel
	return nil
}

func (DesktopSystem) CloseWindow() {}
