package dumper

// State is a step of a dump run.
type State int

const (
	Uninitialized State = iota
	Prepared
	ListGenerated
	Invoked
	CleanedUp
	Done
	Failed
)

var stateNames = [...]string{
	Uninitialized: "uninitialized",
	Prepared:      "prepared",
	ListGenerated: "list-generated",
	Invoked:       "invoked",
	CleanedUp:     "cleaned-up",
	Done:          "done",
	Failed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
