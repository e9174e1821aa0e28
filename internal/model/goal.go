package model

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

// Goal priority levels. Lower is more urgent.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// SuggestionPending marks a goal with an unresolved suggestion for today.
const SuggestionPending = "pending"

// SavingsGoal is a per-goal savings target. The advisor reads these; the
// store owns all mutations.
type SavingsGoal struct {
	ID          string
	Name        string
	Description string
	Icon        string

	TargetAmount  float64
	CurrentAmount float64
	TargetDate    string // optional YYYY-MM-DD deadline
	Priority      int    // 1 high, 2 medium, 3 low
	Status        GoalStatus

	// At most one outstanding suggestion per goal per day.
	LastSuggestionDate   string
	LastSuggestionAmount float64
	SuggestionStatus     string // "pending" or empty
}

// Remaining returns how much is still needed to complete the goal,
// floored at 0.
func (g SavingsGoal) Remaining() float64 {
	r := g.TargetAmount - g.CurrentAmount
	if r < 0 {
		return 0
	}
	return r
}

// Completed reports whether the goal has reached its target.
func (g SavingsGoal) Completed() bool {
	return g.CurrentAmount >= g.TargetAmount
}

// PriorityMultiplier scales suggestions by goal priority.
func (g SavingsGoal) PriorityMultiplier() float64 {
	switch g.Priority {
	case PriorityHigh:
		return 1.2
	case PriorityLow:
		return 0.8
	default:
		return 1.0
	}
}
