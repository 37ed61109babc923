package flow_test

import (
	"corework/domain/flow"
	"corework/domain/state"
	"testing"

	. "github.com/onsi/gomega"
)

func TestWorkflowRegistry(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should find the job workflow", func(t *testing.T) {
		w, found := flow.FindWorkflow(flow.JobWorkflowID)
		Expect(found).To(BeTrue())
		Expect(w.Identifier()).To(Equal(flow.JobWorkflowID))
		Expect(flow.RegisteredWorkflows()).To(ContainElement(flow.JobWorkflowID))
	})

	t.Run("should not find unregistered workflows", func(t *testing.T) {
		_, found := flow.FindWorkflow("no-such-workflow")
		Expect(found).To(BeFalse())
	})
}

func TestJobWorkflowNextState(t *testing.T) {
	RegisterTestingT(t)

	w, found := flow.FindWorkflow(flow.JobWorkflowID)
	Expect(found).To(BeTrue())

	t.Run("should start at New", func(t *testing.T) {
		Expect(w.InitialState()).To(Equal(flow.StatusNew))
	})

	t.Run("should walk the full lifecycle through triggers", func(t *testing.T) {
		next, ok := w.NextState(flow.StatusNew, flow.TriggerActivityCreated)
		Expect(ok).To(BeTrue())
		Expect(next).To(Equal(flow.StatusScheduledJob))

		next, ok = w.NextState(flow.StatusScheduledJob, flow.TriggerActivitiesAllCompleted)
		Expect(ok).To(BeTrue())
		Expect(next).To(Equal(flow.StatusReview))

		next, ok = w.NextState(flow.StatusReview, flow.TriggerWorkReviewed)
		Expect(ok).To(BeTrue())
		Expect(next).To(Equal(flow.StatusClosed))
	})

	t.Run("should lead nowhere on mismatched triggers", func(t *testing.T) {
		_, ok := w.NextState(flow.StatusNew, flow.TriggerWorkReviewed)
		Expect(ok).To(BeFalse())
		_, ok = w.NextState(flow.StatusNew, flow.TriggerActivitiesAllCompleted)
		Expect(ok).To(BeFalse())
		_, ok = w.NextState(flow.StatusScheduledJob, flow.TriggerActivityCreated)
		Expect(ok).To(BeFalse())
	})

	t.Run("should lead nowhere from the terminal state", func(t *testing.T) {
		_, ok := w.NextState(flow.StatusClosed, flow.TriggerWorkReviewed)
		Expect(ok).To(BeFalse())
		_, ok = w.NextState(flow.StatusClosed, flow.TriggerActivityCreated)
		Expect(ok).To(BeFalse())
	})

	t.Run("should only declare forward transitions in the state machine", func(t *testing.T) {
		sm := w.StateMachine()
		Expect(sm.LegalTransition(flow.StatusNew.Name, flow.StatusScheduledJob.Name)).To(BeTrue())
		Expect(sm.LegalTransition(flow.StatusScheduledJob.Name, flow.StatusReview.Name)).To(BeTrue())
		Expect(sm.LegalTransition(flow.StatusReview.Name, flow.StatusClosed.Name)).To(BeTrue())
		Expect(sm.LegalTransition(flow.StatusScheduledJob.Name, flow.StatusNew.Name)).To(BeFalse())
		Expect(sm.LegalTransition(flow.StatusNew.Name, flow.StatusClosed.Name)).To(BeFalse())
	})
}

func TestActivityStateMachine(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should start at New and end at Completed", func(t *testing.T) {
		Expect(flow.ActivityInitialState()).To(Equal(flow.ActivityStatusNew))
		Expect(flow.ActivityStatusNew.Terminal()).To(BeFalse())
		Expect(flow.ActivityStatusCompleted.Terminal()).To(BeTrue())
	})

	t.Run("should only allow completing a new activity", func(t *testing.T) {
		Expect(flow.ActivityStateMachine.LegalTransition(
			flow.ActivityStatusNew.Name, flow.ActivityStatusCompleted.Name)).To(BeTrue())
		Expect(flow.ActivityStateMachine.LegalTransition(
			flow.ActivityStatusCompleted.Name, flow.ActivityStatusNew.Name)).To(BeFalse())
		Expect(flow.ActivityStateMachine.LegalTransition(
			flow.ActivityStatusNew.Name, flow.ActivityStatusNew.Name)).To(BeFalse())
	})

	t.Run("should be registered state names", func(t *testing.T) {
		s, found := flow.ActivityStateMachine.FindState("New")
		Expect(found).To(BeTrue())
		Expect(s.Category).To(Equal(state.InProcess))
		_, found = flow.ActivityStateMachine.FindState("Cancelled")
		Expect(found).To(BeFalse())
	})
}
