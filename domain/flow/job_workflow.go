package flow

import "corework/domain/state"

const JobWorkflowID = "job-workflow"

var (
	StatusNew          = state.State{Name: "New", Category: state.InBacklog}
	StatusScheduledJob = state.State{Name: "ScheduledJob", Category: state.InProcess}
	StatusReview       = state.State{Name: "Review", Category: state.InProcess}
	StatusClosed       = state.State{Name: "Closed", Category: state.Done}
)

type triggeredTransition struct {
	from    string
	trigger Trigger
	to      string
}

// jobWorkflow is the reference work lifecycle: a new work is scheduled when its
// first activity appears, goes to review when every activity is completed, and is
// closed by an explicit review. A work without activities stays New indefinitely.
type jobWorkflow struct {
	stateMachine *state.StateMachine
	triggers     []triggeredTransition
}

func init() {
	RegisterWorkflow(newJobWorkflow())
}

func newJobWorkflow() *jobWorkflow {
	return &jobWorkflow{
		stateMachine: state.NewStateMachine(
			[]state.State{StatusNew, StatusScheduledJob, StatusReview, StatusClosed},
			[]state.Transition{
				{Name: "schedule", From: StatusNew.Name, To: StatusScheduledJob.Name},
				{Name: "ready-for-review", From: StatusScheduledJob.Name, To: StatusReview.Name},
				{Name: "close", From: StatusReview.Name, To: StatusClosed.Name},
			}),
		triggers: []triggeredTransition{
			{from: StatusNew.Name, trigger: TriggerActivityCreated, to: StatusScheduledJob.Name},
			{from: StatusScheduledJob.Name, trigger: TriggerActivitiesAllCompleted, to: StatusReview.Name},
			{from: StatusReview.Name, trigger: TriggerWorkReviewed, to: StatusClosed.Name},
		},
	}
}

func (w *jobWorkflow) Identifier() string {
	return JobWorkflowID
}

func (w *jobWorkflow) StateMachine() *state.StateMachine {
	return w.stateMachine
}

func (w *jobWorkflow) InitialState() state.State {
	return StatusNew
}

func (w *jobWorkflow) NextState(current state.State, trigger Trigger) (state.State, bool) {
	if current.Terminal() {
		return state.State{}, false
	}
	for _, t := range w.triggers {
		if t.from == current.Name && t.trigger == trigger {
			next, found := w.stateMachine.FindState(t.to)
			return next, found
		}
	}
	return state.State{}, false
}
