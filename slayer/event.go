package slayer

import "fmt"

// Kind identifies a task lifecycle event.
type Kind int

const (
	KindAssigned Kind = iota
	KindProgress
	KindCompleted
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindAssigned:
		return "assigned"
	case KindProgress:
		return "progress"
	case KindCompleted:
		return "completed"
	case KindCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one change in the player's task. The concrete types are
// Assigned, Progress, Completed and Cancelled.
type Event interface {
	Kind() Kind
}

// Assigned is a new task handed out by a slayer master.
type Assigned struct {
	Name          string
	Amount        int
	InitialAmount int
	// Location is empty when the master did not name one.
	Location string
	// RewardPoints is only reported by the boss task phrasing.
	RewardPoints int
}

// Progress reports how many kills remain on the current task.
type Progress struct {
	Name      string
	Remaining int
}

// Completed is reported when the master's completion line is seen.
// StreakCount equals PreviousStreak when the line carried no count.
type Completed struct {
	StreakCount    int
	PreviousStreak int
	Tasks          int
}

// Cancelled covers explicit cancellation and leaving a boss task fight.
type Cancelled struct {
	Reason string
}

func (Assigned) Kind() Kind  { return KindAssigned }
func (Progress) Kind() Kind  { return KindProgress }
func (Completed) Kind() Kind { return KindCompleted }
func (Cancelled) Kind() Kind { return KindCancelled }

// Phase is the two-state task machine driven by the dedup flag.
type Phase int

const (
	AwaitingTask Phase = iota
	TaskActive
)

func (p Phase) String() string {
	if p == TaskActive {
		return "task active"
	}
	return "awaiting task"
}

// State is the per-session classifier state. It is owned by a single
// dispatch goroutine and must not be shared.
type State struct {
	// StreakCount is -1 until a value is loaded or parsed.
	StreakCount int
	// DedupFlag suppresses assignment events until the task ends.
	DedupFlag bool
}

// NewState returns a state with an unknown streak.
func NewState() *State {
	return &State{StreakCount: -1}
}

func (s *State) Phase() Phase {
	if s.DedupFlag {
		return TaskActive
	}
	return AwaitingTask
}

// ParseError reports a numeric capture that could not be converted.
type ParseError struct {
	Field string
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("slayer: parse %s %q: %v", e.Field, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
