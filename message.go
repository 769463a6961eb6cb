package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"slayerhook/slayer"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

const maxVirtualLevel = 126

// xpTable[l] is the experience needed for level l.
var xpTable = func() [maxVirtualLevel + 1]int {
	var t [maxVirtualLevel + 1]int
	points := 0
	for lvl := 1; lvl < maxVirtualLevel; lvl++ {
		points += int(math.Floor(float64(lvl) + 300*math.Pow(2, float64(lvl)/7)))
		t[lvl+1] = points / 4
	}
	return t
}()

func xpForLevel(level int) int {
	if level < 1 {
		return 0
	}
	if level > maxVirtualLevel {
		level = maxVirtualLevel
	}
	return xpTable[level]
}

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// skillSnapshot is the player's slayer skill at the time of an event.
type skillSnapshot struct {
	XP    int
	Level int
}

func (s skillSnapshot) xpToNext() int {
	n := xpForLevel(s.Level+1) - s.XP
	if n < 0 {
		return 0
	}
	return n
}

// taskMessage carries everything the Discord message is built from.
type taskMessage struct {
	Player   string
	Event    slayer.Event
	Skill    skillSnapshot
	Streak   int
	TaskTime time.Duration
}

func formatTaskMessage(m taskMessage) string {
	var b strings.Builder
	xp := humanize.Comma(int64(m.Skill.XP))
	toNext := humanize.Comma(int64(m.Skill.xpToNext()))

	switch ev := m.Event.(type) {
	case slayer.Assigned:
		fmt.Fprintf(&b, "%s has a new task!\n\nSlayer Level: %d\nCurrent XP: %s\n", m.Player, m.Skill.Level, xp)
		fmt.Fprintf(&b, "Task %d: %d %s", m.Streak+1, ev.Amount, ev.Name)
		if ev.Location != "" {
			fmt.Fprintf(&b, "\nLocation: %s", ev.Location)
		}
		if ev.RewardPoints > 0 {
			fmt.Fprintf(&b, "\nReward Points: %s", humanize.Comma(int64(ev.RewardPoints)))
		}
		fmt.Fprintf(&b, "\n%s XP Till %d", toNext, m.Skill.Level+1)
	case slayer.Completed:
		if ev.StreakCount >= 0 {
			fmt.Fprintf(&b, "%s has completed task %d!", m.Player, ev.StreakCount)
		} else {
			fmt.Fprintf(&b, "%s has completed a task!", m.Player)
		}
		fmt.Fprintf(&b, "\n\nSlayer Level: %d\nCurrent XP: %s\n%s XP Till %d", m.Skill.Level, xp, toNext, m.Skill.Level+1)
		if m.TaskTime > 0 {
			fmt.Fprintf(&b, "\nTask Time: %s", durafmt.Parse(m.TaskTime.Round(time.Second)).LimitFirstN(2).Format(shortUnits))
		}
	case slayer.Cancelled:
		fmt.Fprintf(&b, "%s canceled their Task!!!\n\nSlayer Level: %d\nCurrent XP: %s\n%s XP Till %d",
			m.Player, m.Skill.Level, xp, toNext, m.Skill.Level+1)
	case slayer.Progress:
		if ev.Name != "" {
			fmt.Fprintf(&b, "%s has %d %s left to kill.", m.Player, ev.Remaining, ev.Name)
		} else {
			fmt.Fprintf(&b, "%s has %d kills left on their task.", m.Player, ev.Remaining)
		}
	}
	return b.String()
}
