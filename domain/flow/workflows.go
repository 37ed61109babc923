package flow

import (
	"corework/domain/state"
	"sort"
	"sync"
)

// Trigger is an event a workflow may react to, either a direct user action
// or an implicit one derived from child activity changes.
type Trigger string

const (
	TriggerActivityCreated        = Trigger("activity-created")
	TriggerActivitiesAllCompleted = Trigger("activities-all-completed")
	TriggerWorkReviewed           = Trigger("work-reviewed")
)

// Workflow is the capability interface a work type binds to through its WorkflowID.
// Implementations are stateless; all of them live in the compile time registry below.
type Workflow interface {
	Identifier() string
	StateMachine() *state.StateMachine
	InitialState() state.State

	// NextState returns the state the trigger leads to from the current state,
	// or false when the trigger leads nowhere from there.
	NextState(current state.State, trigger Trigger) (state.State, bool)
}

var (
	registryMutex    sync.RWMutex
	workflowRegistry = map[string]Workflow{}
)

func RegisterWorkflow(w Workflow) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if _, existed := workflowRegistry[w.Identifier()]; existed {
		panic("workflow already registered: " + w.Identifier())
	}
	workflowRegistry[w.Identifier()] = w
}

func FindWorkflow(identifier string) (Workflow, bool) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	w, found := workflowRegistry[identifier]
	return w, found
}

func RegisteredWorkflows() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	names := make([]string, 0, len(workflowRegistry))
	for name := range workflowRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
