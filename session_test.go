package main

import (
	"strings"
	"testing"
	"time"

	"slayerhook/slayer"
)

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(player, content string, frames frameSource) {
	f.sent = append(f.sent, content)
}

func newTestSession(t *testing.T) (*session, *fakeNotifier, *profileStores) {
	t.Helper()
	gs = gsdef
	store := newProfileStores(t.TempDir())
	hook := &fakeNotifier{}
	s := newSession(store, hook, nil)
	return s, hook, store
}

const completionLine = "You've completed 1,234 Slayer master tasks and received 5 points, giving you a total of 6,789 points."

func TestSessionLoginLoadsStreak(t *testing.T) {
	s, _, store := newTestSession(t)
	s.onLogin("profile-1", "Zezima")
	if s.state.StreakCount != -1 {
		t.Fatalf("streak = %d; want -1 for an empty profile", s.state.StreakCount)
	}
	store.SetInt("profile-1", configGroup, streakKey, 41)
	s.onLogin("profile-1", "Zezima")
	if s.state.StreakCount != 41 {
		t.Fatalf("streak = %d; want 41", s.state.StreakCount)
	}
}

func TestSessionTaskLifecycle(t *testing.T) {
	s, hook, store := newTestSession(t)
	store.SetInt("p", configGroup, streakKey, 41)
	s.onLogin("p", "Zezima")
	s.onStatChanged("Slayer", 100000, 49)

	assign := "<col=000080>Your new task is to kill 25 goblins.</col>"
	s.onGameTick(assign)
	s.onGameTick(assign)
	if len(hook.sent) != 1 {
		t.Fatalf("sent %d messages; want 1", len(hook.sent))
	}
	if !strings.Contains(hook.sent[0], "Task 42: 25 goblins") {
		t.Errorf("assignment message %q", hook.sent[0])
	}

	s.onChatMessage(chatGameMessage, completionLine)
	if len(hook.sent) != 2 {
		t.Fatalf("sent %d messages; want 2", len(hook.sent))
	}
	for _, want := range []string{"6789", "Slayer Level: 49"} {
		if !strings.Contains(hook.sent[1], want) {
			t.Errorf("completion message %q missing %q", hook.sent[1], want)
		}
	}
	if v, ok := store.GetInt("p", configGroup, streakKey); !ok || v != 6789 {
		t.Errorf("stored streak = %d, %v; want 6789", v, ok)
	}
	if s.state.DedupFlag {
		t.Errorf("dedup flag still set after completion")
	}

	s.onGameTick(assign)
	if len(hook.sent) != 3 || !strings.Contains(hook.sent[2], "Task 6790: 25 goblins") {
		t.Errorf("next assignment not sent: %q", hook.sent)
	}
}

func TestSessionIgnoresOtherChatTypes(t *testing.T) {
	s, hook, _ := newTestSession(t)
	s.state.DedupFlag = true
	s.onChatMessage("PUBLICCHAT", slayer.CancelMessage)
	if len(hook.sent) != 0 || !s.state.DedupFlag {
		t.Fatalf("public chat handled: sent=%v state=%+v", hook.sent, *s.state)
	}
	s.onChatMessage(chatSpam, slayer.CancelMessage)
	if len(hook.sent) != 1 || s.state.DedupFlag {
		t.Fatalf("spam cancel not handled: sent=%v state=%+v", hook.sent, *s.state)
	}
	if !strings.Contains(hook.sent[0], "canceled their Task") {
		t.Errorf("cancel message %q", hook.sent[0])
	}
}

func TestSessionMalformedStreak(t *testing.T) {
	s, hook, store := newTestSession(t)
	store.SetInt("p", configGroup, streakKey, 10)
	s.onLogin("p", "Zezima")
	s.state.DedupFlag = true

	s.onChatMessage(chatGameMessage, "You've completed 1,234 Slayer master tasks and received 5 points, giving you a total of 99999999999999999999 points.")
	if len(hook.sent) != 0 {
		t.Fatalf("sent %q for a malformed line", hook.sent)
	}
	if s.state.StreakCount != 10 || !s.state.DedupFlag {
		t.Fatalf("state = %+v; want unchanged", *s.state)
	}
	if v, _ := store.GetInt("p", configGroup, streakKey); v != 10 {
		t.Fatalf("stored streak = %d; want 10", v)
	}
}

func TestSessionDevCommand(t *testing.T) {
	s, hook, _ := newTestSession(t)
	s.onCommand("task", []string{"Hill", "Giants"})
	if len(hook.sent) != 0 {
		t.Fatalf("task command ran without developer mode")
	}
	s.devMode = true
	s.onCommand("!task", []string{"Hill", "Giants"})
	if len(hook.sent) != 1 || !strings.Contains(hook.sent[0], "42 Hill Giants") {
		t.Fatalf("sent %q", hook.sent)
	}
	s.onCommand("task", nil)
	if len(hook.sent) != 1 {
		t.Fatalf("task command without a name sent %q", hook.sent)
	}
}

func TestSessionProgress(t *testing.T) {
	s, hook, _ := newTestSession(t)
	line := "You're assigned to kill goblins; only 12 more to go."
	s.onChatMessage(chatGameMessage, line)
	if len(hook.sent) != 0 {
		t.Fatalf("progress sent with NotifyProgress off: %q", hook.sent)
	}
	gs.NotifyProgress = true
	s.onChatMessage(chatGameMessage, line)
	if len(hook.sent) != 1 || !strings.Contains(hook.sent[0], "12 goblins left") {
		t.Fatalf("sent %q", hook.sent)
	}
}

func TestSessionTaskTime(t *testing.T) {
	s, hook, _ := newTestSession(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.onLogin("p", "Zezima")
	s.onGameTick("Your new task is to kill 25 goblins.")
	now = now.Add(5 * time.Minute)
	s.onChatMessage(chatGameMessage, completionLine)
	if len(hook.sent) != 2 || !strings.Contains(hook.sent[1], "Task Time: 5") {
		t.Fatalf("sent %q", hook.sent)
	}
	if s.task != "" || !s.started.IsZero() {
		t.Fatalf("task not cleared: %q %v", s.task, s.started)
	}
}

func TestSessionNewProfileResetsState(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.onLogin("a", "Alice")
	s.onGameTick("Your new task is to kill 25 goblins.")
	if !s.state.DedupFlag {
		t.Fatalf("assignment not recorded")
	}
	s.onLogin("a", "Alice")
	if !s.state.DedupFlag {
		t.Fatalf("relogging the same profile cleared the task")
	}
	s.onLogin("b", "Bob")
	if s.state.DedupFlag || s.task != "" {
		t.Fatalf("switching profile kept the task")
	}
}
