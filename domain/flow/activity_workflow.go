package flow

import "corework/domain/state"

var (
	ActivityStatusNew       = state.State{Name: "New", Category: state.InProcess}
	ActivityStatusCompleted = state.State{Name: "Completed", Category: state.Done}
)

// ActivityStateMachine is shared by every activity type: New goes to Completed
// by explicit request and Completed is terminal.
var ActivityStateMachine = state.NewStateMachine(
	[]state.State{ActivityStatusNew, ActivityStatusCompleted},
	[]state.Transition{
		{Name: "complete", From: ActivityStatusNew.Name, To: ActivityStatusCompleted.Name},
	})

func ActivityInitialState() state.State {
	return ActivityStatusNew
}
