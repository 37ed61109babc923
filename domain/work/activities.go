package work

import (
	"corework/bizerror"
	"corework/domain"
	"corework/domain/flow"
	"corework/domain/state"
	"corework/domain/validation"
	"corework/domain/worktype"
	"corework/event"
	"corework/history"
	"corework/idgen"
	"corework/persistence"
	"corework/session"
	"errors"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	activityIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateActivityFunc    = CreateActivity
	SetActivityStatusFunc = SetActivityStatus
	ListActivitiesFunc    = ListActivities
)

func CreateActivity(c *domain.ActivityCreation, sec *session.Context) (*domain.ActivityDetail, error) {
	var activityDetail *domain.ActivityDetail
	var events []*event.EventRecord

	db := persistence.ActiveDataSourceManager.GormDB()
	var err1 error
	for attempt := 0; attempt < transitionRetryLimit; attempt++ {
		events = nil
		err1 = db.Transaction(func(tx *gorm.DB) error {
			work, err := findWorkAndCheckPerms(tx, c.WorkID, sec)
			if err != nil {
				return err
			}
			if work.StatusCategory == state.Done {
				return bizerror.ErrStateCategoryInvalid
			}

			workTypeDef, err := worktype.DetailWorkTypeFunc(work.TypeID)
			if err != nil {
				return err
			}
			activityTypeDef, err := worktype.DetailActivityTypeFunc(c.TypeID)
			if err != nil {
				return err
			}
			if !workTypeDef.ChildTypeIDs.Contains(activityTypeDef.ID) {
				return bizerror.ErrChildTypeNotPermitted
			}

			validator, found := validation.FindValidator(workTypeDef.ValidatorName)
			if !found {
				return errors.New("validator not registered: " + workTypeDef.ValidatorName)
			}
			if err := validator.ValidateActivityCreation(c, workTypeDef, activityTypeDef).Error(); err != nil {
				return err
			}

			now := types.CurrentTimestamp()
			initialState := flow.ActivityInitialState()
			activityDetail = &domain.ActivityDetail{
				Activity: domain.Activity{
					ID:      idgen.NextID(activityIdWorker),
					WorkID:  work.ID,
					TypeID:  activityTypeDef.ID,
					Subtype: c.Subtype,

					Title:        c.Title,
					Description:  c.Description,
					CustomFields: c.CustomFields,

					StatusName:      initialState.Name,
					StatusCategory:  initialState.Category,
					StatusBeginTime: now,
					Version:         1,

					CreateTime:  now,
					CreatorID:   sec.Identity.ID,
					CreatorName: sec.Identity.Name,

					Status: initialState,
				},
			}

			if err := tx.Create(&activityDetail.Activity).Error; err != nil {
				return err
			}

			if _, err := history.AppendStatusRecordFunc(history.SourceTypeActivity, activityDetail.ID,
				"", initialState.Name, "", &sec.Identity, now, tx); err != nil {
				return err
			}

			ev, err := event.CreateEvent(history.SourceTypeActivity, activityDetail.ID, c.Title,
				event.EventCategoryCreated, nil, &sec.Identity, now, tx)
			if err != nil {
				return err
			}
			events = append(events, ev)

			// first activity schedules the owning work
			promotionEv, err := evaluateWorkPromotion(tx, work, flow.TriggerActivityCreated, sec)
			if err != nil {
				return err
			}
			if promotionEv != nil {
				events = append(events, promotionEv)
			} else if err := contendWorkVersion(tx, work); err != nil {
				// a sibling decision made on a snapshot without this activity must not commit
				return err
			}
			return nil
		})
		if !errors.Is(err1, bizerror.ErrConcurrentModification) {
			break
		}
	}
	if err1 != nil {
		return nil, err1
	}

	invokeEventHandlers(events)
	return activityDetail, nil
}

// SetActivityStatus applies an explicit status change to one activity, then
// re-evaluates the owning work against the full set of sibling activities.
// Every command writes the work row under its version token, promotion or not,
// so two commands deciding on stale sibling snapshots conflict on the work row
// and the loser retries on a fresh one.
func SetActivityStatus(workId, activityId types.ID, u *domain.ActivityStatusUpdating, sec *session.Context) error {
	var events []*event.EventRecord

	db := persistence.ActiveDataSourceManager.GormDB()
	var err1 error
	for attempt := 0; attempt < transitionRetryLimit; attempt++ {
		events = nil
		err1 = db.Transaction(func(tx *gorm.DB) error {
			work, err := findWorkAndCheckPerms(tx, workId, sec)
			if err != nil {
				return err
			}

			activity := domain.Activity{}
			if err := tx.Where(&domain.Activity{ID: activityId}).First(&activity).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return bizerror.ErrReferenceNotFound
				}
				return err
			}
			if activity.WorkID != work.ID {
				return bizerror.ErrReferenceNotFound
			}

			currentState, found := flow.ActivityStateMachine.FindState(activity.StatusName)
			if !found {
				return bizerror.ErrUnknownState
			}
			targetState, found := flow.ActivityStateMachine.FindState(u.NewStatus)
			if !found {
				return bizerror.ErrUnknownState
			}
			if !flow.ActivityStateMachine.LegalTransition(currentState.Name, targetState.Name) {
				return &bizerror.IllegalTransition{Subject: "activity " + activityId.String(),
					FromStatus: currentState.Name, ToStatus: targetState.Name}
			}

			now := types.CurrentTimestamp()
			query := tx.Model(&domain.Activity{}).Where("id = ? AND version = ?", activity.ID, activity.Version).
				Updates(map[string]interface{}{
					"status_name":       targetState.Name,
					"status_category":   targetState.Category,
					"status_comment":    u.FollowUpComment,
					"status_begin_time": now,
					"version":           activity.Version + 1,
				})
			if query.Error != nil {
				return query.Error
			}
			if query.RowsAffected != 1 {
				return bizerror.ErrConcurrentModification
			}

			if _, err := history.AppendStatusRecordFunc(history.SourceTypeActivity, activity.ID,
				currentState.Name, targetState.Name, u.FollowUpComment, &sec.Identity, now, tx); err != nil {
				return err
			}

			ev, err := event.CreateEvent(history.SourceTypeActivity, activity.ID, activity.Title,
				event.EventCategoryStatusUpdated,
				[]event.UpdatedProperty{{
					PropertyName: "Status", PropertyDesc: "Status",
					OldValue: currentState.Name, OldValueDesc: currentState.Name,
					NewValue: targetState.Name, NewValueDesc: targetState.Name,
				}},
				&sec.Identity, now, tx)
			if err != nil {
				return err
			}
			events = append(events, ev)

			// rescan every sibling within this transaction: the work only moves on
			// when ALL of them are terminal at the same time
			promoted := false
			if targetState.Terminal() {
				allDone, err := allActivitiesTerminal(tx, work.ID)
				if err != nil {
					return err
				}
				if allDone {
					promotionEv, err := evaluateWorkPromotion(tx, work, flow.TriggerActivitiesAllCompleted, sec)
					if err != nil {
						return err
					}
					if promotionEv != nil {
						events = append(events, promotionEv)
						promoted = true
					}
				}
			}
			if !promoted {
				if err := contendWorkVersion(tx, work); err != nil {
					return err
				}
			}
			return nil
		})
		if !errors.Is(err1, bizerror.ErrConcurrentModification) {
			break
		}
	}
	if err1 != nil {
		return err1
	}

	invokeEventHandlers(events)
	return nil
}

func ListActivities(workId types.ID, sec *session.Context) ([]domain.Activity, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	if _, err := findWorkAndCheckPerms(db, workId, sec); err != nil {
		return nil, err
	}

	activities := []domain.Activity{}
	if err := db.Where(&domain.Activity{WorkID: workId}).Order("id ASC").Find(&activities).Error; err != nil {
		return nil, err
	}
	for i := range activities {
		statusFound, found := flow.ActivityStateMachine.FindState(activities[i].StatusName)
		if !found {
			return nil, bizerror.ErrUnknownState
		}
		activities[i].Status = statusFound
	}
	return activities, nil
}

// LoadActivityHistory returns the status trail of the activity, newest first.
func LoadActivityHistory(workId, activityId types.ID, sec *session.Context) ([]history.StatusRecord, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	if _, err := findWorkAndCheckPerms(db, workId, sec); err != nil {
		return nil, err
	}
	activity := domain.Activity{}
	if err := db.Where(&domain.Activity{ID: activityId, WorkID: workId}).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrReferenceNotFound
		}
		return nil, err
	}
	return history.LoadStatusRecordsFunc(history.SourceTypeActivity, activityId)
}

// contendWorkVersion advances the work's version token without changing any
// other column. Activity commands that do not move the work still pass through
// here, so the version guard fires in both directions: a concurrent writer that
// decided on a stale sibling snapshot loses the row update and retries.
func contendWorkVersion(tx *gorm.DB, work *domain.Work) error {
	query := tx.Model(&domain.Work{}).Where("id = ? AND version = ?", work.ID, work.Version).
		Update("version", work.Version+1)
	if query.Error != nil {
		return query.Error
	}
	if query.RowsAffected != 1 {
		return bizerror.ErrConcurrentModification
	}
	return nil
}

func allActivitiesTerminal(tx *gorm.DB, workId types.ID) (bool, error) {
	activities := []domain.Activity{}
	if err := tx.Where(&domain.Activity{WorkID: workId}).Find(&activities).Error; err != nil {
		return false, err
	}
	if len(activities) == 0 {
		return false, nil
	}
	for _, activity := range activities {
		statusFound, found := flow.ActivityStateMachine.FindState(activity.StatusName)
		if !found {
			return false, bizerror.ErrUnknownState
		}
		if !statusFound.Terminal() {
			return false, nil
		}
	}
	return true, nil
}

// evaluateWorkPromotion applies the automatic transition the trigger leads to,
// if any. A trigger that leads nowhere from the current state is not an error:
// the work simply stays where it is.
func evaluateWorkPromotion(tx *gorm.DB, work *domain.Work, trigger flow.Trigger,
	sec *session.Context) (*event.EventRecord, error) {

	typeDef, err := worktype.DetailWorkTypeFunc(work.TypeID)
	if err != nil {
		return nil, err
	}
	workflow, found := flow.FindWorkflow(typeDef.WorkflowID)
	if !found {
		return nil, bizerror.ErrUnknownState
	}
	currentState, found := workflow.StateMachine().FindState(work.StatusName)
	if !found {
		return nil, bizerror.ErrUnknownState
	}

	nextState, ok := workflow.NextState(currentState, trigger)
	if !ok {
		return nil, nil
	}
	return applyWorkTransition(tx, work, currentState, nextState, "", sec)
}

func invokeEventHandlers(events []*event.EventRecord) {
	if event.InvokeHandlersFunc == nil {
		return
	}
	for _, ev := range events {
		event.InvokeHandlersFunc(ev)
	}
}
