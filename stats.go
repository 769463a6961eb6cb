package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"slayerhook/slayer"
)

// taskStats counts what the session has seen and sent.
type taskStats struct {
	Events       map[string]int `json:"events"`
	WebhookSent  int            `json:"webhook_sent"`
	WebhookFails int            `json:"webhook_failed"`
	ParseErrors  int            `json:"parse_errors"`
}

const statsFile = "stats.json"

// dataDirPath holds the directory for settings, profile storage, logs and
// screenshots.
var dataDirPath = defaultDataDir()

// defaultDataDir lives under Application Support on macOS and next to the
// executable elsewhere.
func defaultDataDir() string {
	if runtime.GOOS == "darwin" {
		if dir, err := os.UserConfigDir(); err == nil {
			dir = filepath.Join(dir, "slayerhook")
			_ = os.MkdirAll(dir, 0o755)
			return dir
		}
	}
	if exe, err := os.Executable(); err == nil {
		if dir, err := filepath.Abs(filepath.Dir(exe)); err == nil {
			return filepath.Join(dir, "data")
		}
	}
	return "data"
}

var (
	stats      taskStats
	statsMu    sync.Mutex
	statsDirty bool
)

func loadStats() {
	statsMu.Lock()
	defer statsMu.Unlock()
	stats = taskStats{}
	path := filepath.Join(dataDirPath, statsFile)
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &stats); err != nil {
			logWarn("load stats: %v", err)
		}
	}
	if stats.Events == nil {
		stats.Events = make(map[string]int)
	}
}

func saveStats() {
	statsMu.Lock()
	if !statsDirty {
		statsMu.Unlock()
		return
	}
	statsDirty = false
	data, err := json.MarshalIndent(stats, "", "  ")
	statsMu.Unlock()
	if err != nil {
		logError("save stats: %v", err)
		return
	}
	if err := os.MkdirAll(dataDirPath, 0o755); err != nil {
		logError("save stats: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, statsFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		logError("save stats: %v", err)
	}
}

func statEvent(k slayer.Kind) {
	statsMu.Lock()
	if stats.Events == nil {
		stats.Events = make(map[string]int)
	}
	stats.Events[k.String()]++
	statsDirty = true
	statsMu.Unlock()
}

func statParseError() {
	statsMu.Lock()
	stats.ParseErrors++
	statsDirty = true
	statsMu.Unlock()
}

func statWebhook(err error) {
	statsMu.Lock()
	if err != nil {
		stats.WebhookFails++
	} else {
		stats.WebhookSent++
	}
	statsDirty = true
	statsMu.Unlock()
}
