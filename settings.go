package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const SETTINGS_VERSION = 1

const settingsFile = "settings.json"

var gs settings = gsdef

// settingsLoaded reports whether settings were successfully loaded from disk.
var settingsLoaded bool

var gsdef settings = settings{
	Version: SETTINGS_VERSION,

	NotifyProgress:  false,
	DesktopNotify:   true,
	DiscordPresence: false,
	PresenceAppID:   "",
	CopyToClipboard: false,
	SaveScreenshots: true,
	FeedCharset:     "utf-8",
	WebhookTimeout:  20,
	WebhookPerMin:   25,
}

type settings struct {
	Version int

	// Webhook is the Discord webhook URL notifications are posted to.
	Webhook string

	// DeveloperMode enables the "task" command.
	DeveloperMode bool

	NotifyProgress  bool
	DesktopNotify   bool
	DiscordPresence bool
	PresenceAppID   string
	CopyToClipboard bool

	// FramePath is where the game client writes its latest frame. When
	// empty a text card is rendered instead.
	FramePath       string
	SaveScreenshots bool

	// FeedCharset is "utf-8" or "windows-1252".
	FeedCharset string

	// WebhookTimeout is in seconds.
	WebhookTimeout int
	WebhookPerMin  int
}

func loadSettings() bool {
	path := filepath.Join(dataDirPath, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}

	tmp := gsdef
	if err := json.Unmarshal(data, &tmp); err != nil {
		logWarn("load settings %v: %v", path, err)
		gs = gsdef
		settingsLoaded = false
		return false
	}
	if tmp.Version != SETTINGS_VERSION {
		gs = gsdef
		settingsLoaded = false
		return false
	}
	gs = tmp
	settingsLoaded = true

	gs.Webhook = strings.TrimSpace(gs.Webhook)
	if gs.WebhookTimeout <= 0 {
		gs.WebhookTimeout = gsdef.WebhookTimeout
	}
	if gs.WebhookPerMin <= 0 {
		gs.WebhookPerMin = gsdef.WebhookPerMin
	}
	if gs.FeedCharset == "" {
		gs.FeedCharset = gsdef.FeedCharset
	}
	return settingsLoaded
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		logError("save settings: %v", err)
		return
	}
	if err := os.MkdirAll(dataDirPath, 0o755); err != nil {
		logError("save settings: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, settingsFile)
	if err := os.WriteFile(path+".tmp", data, 0644); err != nil {
		logError("save settings: %v", err)
		return
	}
	if err := os.Rename(path+".tmp", path); err != nil {
		logError("save settings: %v", err)
	}
}
