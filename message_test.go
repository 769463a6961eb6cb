package main

import (
	"strings"
	"testing"
	"time"

	"slayerhook/slayer"
)

func TestXPForLevel(t *testing.T) {
	cases := []struct {
		level, want int
	}{
		{1, 0},
		{2, 83},
		{10, 1154},
		{50, 101333},
		{92, 6517253},
		{99, 13034431},
	}
	for _, c := range cases {
		if got := xpForLevel(c.level); got != c.want {
			t.Errorf("xpForLevel(%d) = %d; want %d", c.level, got, c.want)
		}
	}
}

func TestFormatCompletedMessage(t *testing.T) {
	msg := formatTaskMessage(taskMessage{
		Player: "Zezima",
		Event:  slayer.Completed{StreakCount: 6789, PreviousStreak: 6788},
		Skill:  skillSnapshot{XP: 1210421, Level: 74},
	})
	for _, want := range []string{"6789", "Slayer Level: 74", "Current XP: 1,210,421", "XP Till 75"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
	if strings.Contains(msg, "Task Time") {
		t.Errorf("message %q has a task time without a start", msg)
	}
}

func TestFormatCompletedUnknownStreak(t *testing.T) {
	msg := formatTaskMessage(taskMessage{
		Player: "Zezima",
		Event:  slayer.Completed{StreakCount: -1, PreviousStreak: -1},
		Skill:  skillSnapshot{XP: 0, Level: 1},
	})
	if !strings.HasPrefix(msg, "Zezima has completed a task!\n\nSlayer Level: 1") {
		t.Errorf("message = %q", msg)
	}
	if strings.Contains(msg, "-1") {
		t.Errorf("message %q shows an unknown streak", msg)
	}
}

func TestFormatCompletedTaskTime(t *testing.T) {
	msg := formatTaskMessage(taskMessage{
		Player:   "Zezima",
		Event:    slayer.Completed{StreakCount: 3},
		Skill:    skillSnapshot{XP: 0, Level: 1},
		TaskTime: 12*time.Minute + 30*time.Second,
	})
	if !strings.Contains(msg, "Task Time: 12") || !strings.Contains(msg, "30") {
		t.Errorf("message %q missing task time", msg)
	}
}

func TestFormatAssignedMessage(t *testing.T) {
	msg := formatTaskMessage(taskMessage{
		Player: "Zezima",
		Event:  slayer.Assigned{Name: "Cave Horrors", Amount: 120, InitialAmount: 120, Location: "Mos Le'Harmless Caves"},
		Skill:  skillSnapshot{XP: 100000, Level: 49},
		Streak: 9,
	})
	want := "Zezima has a new task!\n\nSlayer Level: 49\nCurrent XP: 100,000\nTask 10: 120 Cave Horrors\nLocation: Mos Le'Harmless Caves\n1,333 XP Till 50"
	if msg != want {
		t.Errorf("got %q\nwant %q", msg, want)
	}
}

func TestFormatCancelledMessage(t *testing.T) {
	msg := formatTaskMessage(taskMessage{
		Player: "Zezima",
		Event:  slayer.Cancelled{Reason: "cancelled"},
		Skill:  skillSnapshot{XP: 83, Level: 2},
	})
	want := "Zezima canceled their Task!!!\n\nSlayer Level: 2\nCurrent XP: 83\n91 XP Till 3"
	if msg != want {
		t.Errorf("got %q\nwant %q", msg, want)
	}
}

func TestFormatProgressMessage(t *testing.T) {
	msg := formatTaskMessage(taskMessage{Player: "Zezima", Event: slayer.Progress{Name: "goblins", Remaining: 12}})
	if msg != "Zezima has 12 goblins left to kill." {
		t.Errorf("got %q", msg)
	}
	msg = formatTaskMessage(taskMessage{Player: "Zezima", Event: slayer.Progress{Remaining: 30}})
	if msg != "Zezima has 30 kills left on their task." {
		t.Errorf("got %q", msg)
	}
}
