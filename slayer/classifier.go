// Package slayer classifies sanitized game text into slayer task events.
package slayer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Dialog patterns, checked in the order below.

// npcAssign captures amount, name and an optional location. The location
// ends at the first full stop.
var npcAssign = regexp.MustCompile(`.*(?:Your new task is to kill|You are to bring balance to)\s*(?P<amount>\d+) (?P<name>.+?)(?: (?:in|on|south of) (?:the )?(?P<location>[^.]+))?\.`)

// npcAssignFirst captures name and amount.
var npcAssignFirst = regexp.MustCompile(`^We'll start you off (?:hunting|bringing balance to) (.*), you'll need to kill (\d*) of them\.$`)

// npcAssignBoss captures name, amount and the reward point tally.
var npcAssignBoss = regexp.MustCompile(`^(?:Excellent\. )?You're now assigned to (?:kill|bring balance to) (?:the )?(.*) (\d+) times.*Your reward point tally is (.*)\.$`)

// Chat patterns.
var (
	chatComplete         = regexp.MustCompile(`You've completed (?:at least )?(?P<tasks>[\d,]+) (?:Wilderness |Slayer master )?tasks?(?: and received \d+ points, giving you a total of (?P<points>[\d,]+)| and reached the maximum amount of Slayer points \((?P<points2>[\d,]+)\))?`)
	chatGemProgress      = regexp.MustCompile(`^(?:You're assigned to kill|You have received a new Slayer assignment from .*:) (?:[Tt]he )?(?P<name>.+?)(?: (?:in|on|south of) (?:the )?(?P<location>[^;]+))?(?:; only | \()(?P<amount>\d+)(?: more to go\.|\))$`)
	chatBraceletProgress = regexp.MustCompile(`^You still need to kill (\d+) monsters to complete your current Slayer assignment`)
)

const (
	completePrefix  = "You've completed"
	completeTrigger = "Slayer master"

	CancelMessage    = "Your task has been cancelled."
	CancelMessageJad = "You no longer have a slayer task as you left the fight cave."
	CancelMessageZuk = "You no longer have a slayer task as you left the Inferno."
)

var cancelReasons = map[string]string{
	CancelMessage:    "cancelled",
	CancelMessageJad: "left the fight cave",
	CancelMessageZuk: "left the Inferno",
}

// ClassifyDialog matches NPC dialog text against the assignment phrasings.
// Nothing is returned while a task is already active. A nil event with a
// nil error means the text was not an assignment.
func ClassifyDialog(text string, st *State) (Event, error) {
	if st.DedupFlag {
		return nil, nil
	}
	var ev Assigned
	if m := npcAssign.FindStringSubmatch(text); m != nil {
		amount, err := parseCount("amount", m[npcAssign.SubexpIndex("amount")])
		if err != nil {
			return nil, err
		}
		ev = Assigned{
			Name:          m[npcAssign.SubexpIndex("name")],
			Amount:        amount,
			InitialAmount: amount,
			Location:      m[npcAssign.SubexpIndex("location")],
		}
	} else if m := npcAssignFirst.FindStringSubmatch(text); m != nil {
		amount, err := parseCount("amount", m[2])
		if err != nil {
			return nil, err
		}
		ev = Assigned{Name: m[1], Amount: amount, InitialAmount: amount}
	} else if m := npcAssignBoss.FindStringSubmatch(text); m != nil {
		amount, err := parseCount("amount", m[2])
		if err != nil {
			return nil, err
		}
		points, err := parseCount("reward points", m[3])
		if err != nil {
			return nil, err
		}
		ev = Assigned{Name: m[1], Amount: amount, InitialAmount: amount, RewardPoints: points}
	} else {
		return nil, nil
	}
	st.DedupFlag = true
	return ev, nil
}

// ClassifyChat matches a game or spam chat line against the completion,
// cancellation and progress messages.
func ClassifyChat(text string, st *State) (Event, error) {
	if isCompletion(text) {
		return classifyCompletion(text, st)
	}
	if reason, ok := cancelReasons[text]; ok {
		st.DedupFlag = false
		return Cancelled{Reason: reason}, nil
	}
	if m := chatGemProgress.FindStringSubmatch(text); m != nil {
		n, err := parseCount("remaining", m[chatGemProgress.SubexpIndex("amount")])
		if err != nil {
			return nil, err
		}
		return Progress{Name: m[chatGemProgress.SubexpIndex("name")], Remaining: n}, nil
	}
	if m := chatBraceletProgress.FindStringSubmatch(text); m != nil {
		n, err := parseCount("remaining", m[1])
		if err != nil {
			return nil, err
		}
		return Progress{Remaining: n}, nil
	}
	return nil, nil
}

func isCompletion(text string) bool {
	if !strings.HasPrefix(text, completePrefix) {
		return false
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(text), fold.String(completeTrigger))
}

func classifyCompletion(text string, st *State) (Event, error) {
	ev := Completed{StreakCount: st.StreakCount, PreviousStreak: st.StreakCount}
	if m := chatComplete.FindStringSubmatch(text); m != nil {
		tasks, err := parseCount("tasks", m[chatComplete.SubexpIndex("tasks")])
		if err != nil {
			return nil, err
		}
		ev.Tasks = tasks
		streak := tasks
		if s := firstNonEmpty(m[chatComplete.SubexpIndex("points")], m[chatComplete.SubexpIndex("points2")]); s != "" {
			if streak, err = parseCount("streak", s); err != nil {
				return nil, err
			}
		}
		ev.StreakCount = streak
	}
	st.StreakCount = ev.StreakCount
	st.DedupFlag = false
	return ev, nil
}

var errEmptyCount = errors.New("empty number")

// parseCount converts a captured number, ignoring thousands separators.
func parseCount(field, s string) (int, error) {
	digits := strings.ReplaceAll(s, ",", "")
	if digits == "" {
		return 0, &ParseError{Field: field, Text: s, Err: errEmptyCount}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &ParseError{Field: field, Text: s, Err: err}
	}
	return n, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
