package main

import (
	"errors"
	"strings"
	"time"

	"slayerhook/slayer"
)

const (
	configGroup = "slayerdiscord"
	streakKey   = "streak"

	taskCommand = "task"
	slayerSkill = "SLAYER"
)

// Chat message types the session listens to.
const (
	chatGameMessage = "GAMEMESSAGE"
	chatSpam        = "SPAM"
)

// notifier delivers a formatted message with a picture of the game.
type notifier interface {
	Send(player, content string, frames frameSource)
}

// session tracks one logged-in player. All methods are called from the
// feed goroutine.
type session struct {
	state  *slayer.State
	store  keyValueStore
	hook   notifier
	frames frameSource

	profile string
	player  string
	skill   skillSnapshot
	devMode bool

	task    string
	started time.Time

	now func() time.Time
}

func newSession(store keyValueStore, hook notifier, frames frameSource) *session {
	return &session{
		state:  slayer.NewState(),
		store:  store,
		hook:   hook,
		frames: frames,
		now:    time.Now,
	}
}

func (s *session) onLogin(profile, player string) {
	if profile != s.profile {
		s.state = slayer.NewState()
		s.clearTask()
	}
	s.profile = profile
	if player != "" {
		s.player = player
	}
	streak := -1
	if v, ok := s.store.GetInt(profile, configGroup, streakKey); ok {
		streak = v
	}
	s.state.StreakCount = streak
	logDebug("login %v: streak %d", player, streak)
}

func (s *session) onStatChanged(skill string, xp, level int) {
	if !strings.EqualFold(skill, slayerSkill) {
		return
	}
	s.skill = skillSnapshot{XP: xp, Level: level}
}

// onGameTick checks the NPC dialog box, if one is open.
func (s *session) onGameTick(dialog string) {
	if dialog == "" || s.state.DedupFlag {
		return
	}
	ev, err := slayer.ClassifyDialog(slayer.Sanitize(dialog), s.state)
	s.handle(ev, err)
}

func (s *session) onChatMessage(typ, msg string) {
	if typ != chatGameMessage && typ != chatSpam {
		return
	}
	ev, err := slayer.ClassifyChat(slayer.Sanitize(msg), s.state)
	s.handle(ev, err)
}

func (s *session) onCommand(name string, args []string) {
	name = strings.TrimPrefix(strings.ToLower(name), "!")
	if !s.devMode || name != taskCommand || len(args) == 0 {
		return
	}
	ev, err := slayer.DevTask(strings.Join(args, " "))
	if err != nil {
		logWarn("%s command: %v", taskCommand, err)
		return
	}
	logDebug("Set task to %s", ev.Name)
	s.handle(ev, nil)
}

func (s *session) handle(ev slayer.Event, err error) {
	if err != nil {
		var pe *slayer.ParseError
		if errors.As(err, &pe) {
			statParseError()
		}
		logWarn("discarding slayer message: %v", err)
		return
	}
	if ev == nil {
		return
	}
	statEvent(ev.Kind())
	logDebug("slayer %v: %+v", ev.Kind(), ev)

	msg := taskMessage{Player: s.player, Event: ev, Skill: s.skill, Streak: s.state.StreakCount}
	switch ev := ev.(type) {
	case slayer.Assigned:
		s.task = ev.Name
		s.started = s.now()
	case slayer.Progress:
		if s.task == "" {
			s.task = ev.Name
		}
		updateDiscordTask(ev, s.task)
		if !gs.NotifyProgress {
			return
		}
	case slayer.Completed:
		if ev.StreakCount >= 0 && s.profile != "" {
			s.store.SetInt(s.profile, configGroup, streakKey, ev.StreakCount)
		}
		if !s.started.IsZero() {
			msg.TaskTime = s.now().Sub(s.started)
		}
		s.clearTask()
	case slayer.Cancelled:
		s.clearTask()
	}

	content := formatTaskMessage(msg)
	s.hook.Send(s.player, content, s.frames)
	notifyDesktop(notifyTitle, content)
	copyToClipboard(content)
	if _, ok := ev.(slayer.Progress); !ok {
		updateDiscordTask(ev, s.task)
	}
}

func (s *session) clearTask() {
	s.task = ""
	s.started = time.Time{}
}
