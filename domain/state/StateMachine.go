package state

type Category uint

const (
	InBacklog Category = iota + 1
	InProcess
	Done
)

type State struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Terminal states accept no further transitions.
func (s State) Terminal() bool {
	return s.Category == Done
}

type Transition struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

// stateless object, just used for state computing
type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

func NewStateMachine(states []State, transitions []Transition) *StateMachine {
	return &StateMachine{States: states, Transitions: transitions}
}

func (sm *StateMachine) FindState(stateName string) (State, bool) {
	for _, s := range sm.States {
		if s.Name == stateName {
			return s, true
		}
	}
	return State{}, false
}

func (sm *StateMachine) AvailableTransitions(fromState string, toState string) []Transition {
	r := []Transition{}
	for _, transition := range sm.Transitions {
		if (fromState == "" || fromState == transition.From) && (toState == "" || toState == transition.To) {
			r = append(r, transition)
		}
	}
	return r
}

// LegalTransition reports whether exactly one transition leads fromState to toState.
func (sm *StateMachine) LegalTransition(fromState string, toState string) bool {
	return len(sm.AvailableTransitions(fromState, toState)) == 1
}
