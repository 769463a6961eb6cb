package main

import (
	"fmt"
	"time"

	client "github.com/hugolgst/rich-go/client"

	"slayerhook/slayer"
)

var discordStart time.Time
var discordReady bool

func initDiscordRPC(appID string) {
	if !gs.DiscordPresence || appID == "" {
		return
	}
	if err := client.Login(appID); err != nil {
		logError("discord rpc login: %v", err)
		return
	}
	discordReady = true
	discordStart = time.Now()
	setDiscordStatus("Looking for a task")
}

func closeDiscordRPC() {
	if !discordReady {
		return
	}
	client.Logout()
	discordReady = false
}

func setDiscordStatus(detail string) {
	if !discordReady {
		return
	}
	if err := client.SetActivity(client.Activity{
		State:   "Slayer",
		Details: detail,
		Timestamps: &client.Timestamps{
			Start: &discordStart,
		},
	}); err != nil {
		logError("discord rpc activity: %v", err)
	}
}

// presenceDetail describes the current task for rich presence.
func presenceDetail(ev slayer.Event, task string) string {
	switch ev := ev.(type) {
	case slayer.Assigned:
		return fmt.Sprintf("Slaying %d %s", ev.Amount, ev.Name)
	case slayer.Progress:
		if task == "" {
			task = ev.Name
		}
		if task == "" {
			return fmt.Sprintf("%d kills left", ev.Remaining)
		}
		return fmt.Sprintf("Slaying %s, %d left", task, ev.Remaining)
	case slayer.Completed:
		return fmt.Sprintf("Completed task %d", ev.StreakCount)
	}
	return "Looking for a task"
}

func updateDiscordTask(ev slayer.Event, task string) {
	setDiscordStatus(presenceDetail(ev, task))
}
