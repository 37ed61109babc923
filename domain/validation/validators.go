package validation

import (
	"corework/domain"
	"corework/domain/worktype"
	"sync"
)

// Validator is the capability interface a work type binds to through its
// ValidatorName. Implementations run structural and business checks before a
// create or update is committed; they return every violation found.
type Validator interface {
	Name() string
	ValidateWorkCreation(c *domain.WorkCreation, workTypeDef *worktype.WorkType) Results
	ValidateWorkUpdating(u *domain.WorkUpdating, workTypeDef *worktype.WorkType) Results
	ValidateActivityCreation(c *domain.ActivityCreation, workTypeDef *worktype.WorkType,
		activityTypeDef *worktype.ActivityType) Results
}

var (
	registryMutex     sync.RWMutex
	validatorRegistry = map[string]Validator{}
)

func RegisterValidator(v Validator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if _, existed := validatorRegistry[v.Name()]; existed {
		panic("validator already registered: " + v.Name())
	}
	validatorRegistry[v.Name()] = v
}

func FindValidator(name string) (Validator, bool) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	v, found := validatorRegistry[name]
	return v, found
}
