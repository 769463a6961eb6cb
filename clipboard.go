package main

import (
	"sync"

	clipboard "golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

// copyToClipboard places the last notification on the system clipboard so
// it can be pasted elsewhere.
func copyToClipboard(text string) {
	if !gs.CopyToClipboard || text == "" {
		return
	}
	clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			logWarn("clipboard init: %v", err)
			return
		}
		clipboardOK = true
	})
	if clipboardOK {
		clipboard.Write(clipboard.FmtText, []byte(text))
	}
}
