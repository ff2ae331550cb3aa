package stream

// State is the position of the orchestrator in the per-instance cycle.
type State int

// The per-instance cycle is AwaitingInstance -> Scoring -> Deciding -> LabelRevealed or
// LabelWithheld -> Retraining -> AwaitingInstance. Exhausted and Halted are terminal.
const (
	AwaitingInstance State = iota
	Scoring
	Deciding
	LabelRevealed
	LabelWithheld
	Retraining
	Exhausted
	Halted
)

var stateNames = [...]string{
	AwaitingInstance: "awaiting_instance",
	Scoring:          "scoring",
	Deciding:         "deciding",
	LabelRevealed:    "label_revealed",
	LabelWithheld:    "label_withheld",
	Retraining:       "retraining",
	Exhausted:        "exhausted",
	Halted:           "halted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further instance can be processed
func (s State) Terminal() bool {
	return s == Exhausted || s == Halted
}
