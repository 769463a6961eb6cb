package main

import (
	"os"
	"runtime"

	"github.com/gen2brain/beeep"
)

const notifyTitle = "Slayer"

// notifyDesktop shows a desktop notification, best-effort and non-fatal.
func notifyDesktop(title, body string) {
	if !gs.DesktopNotify || body == "" {
		return
	}
	// Skip on headless Linux without DISPLAY; beeep would error.
	if runtime.GOOS == "linux" && (os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "") {
		return
	}
	if err := beeep.Notify(title, body, ""); err != nil {
		logDebug("desktop notify: %v", err)
	}
}
