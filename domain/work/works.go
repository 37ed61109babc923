package work

import (
	"corework/bizerror"
	"corework/domain"
	"corework/domain/facility"
	"corework/domain/flow"
	"corework/domain/state"
	"corework/domain/validation"
	"corework/domain/worktype"
	"corework/event"
	"corework/history"
	"corework/idgen"
	"corework/persistence"
	"corework/sequence"
	"corework/session"
	"errors"
	"strconv"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	workIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateWorkFunc      = CreateWork
	DetailWorkFunc      = DetailWork
	UpdateWorkFunc      = UpdateWork
	ReviewWorkFunc      = ReviewWork
	LoadWorkHistoryFunc = LoadWorkHistory
)

// transitionRetryLimit bounds internal retries of version conflicts before
// ErrConcurrentModification is surfaced to the caller.
const transitionRetryLimit = 3

func workNumberCounter(typeId types.ID) string {
	return "work_number_" + typeId.String()
}

func CreateWork(c *domain.WorkCreation, sec *session.Context) (*domain.WorkDetail, error) {
	if !sec.HasRoleSuffix("_" + c.DomainID.String()) {
		return nil, bizerror.ErrForbidden
	}

	typeDef, err := worktype.DetailWorkTypeFunc(c.TypeID)
	if err != nil {
		return nil, err
	}
	if typeDef.DomainID != c.DomainID {
		return nil, bizerror.ErrReferenceNotFound
	}
	workflow, found := flow.FindWorkflow(typeDef.WorkflowID)
	if !found {
		return nil, bizerror.ErrUnknownState
	}
	validator, found := validation.FindValidator(typeDef.ValidatorName)
	if !found {
		return nil, errors.New("validator not registered: " + typeDef.ValidatorName)
	}
	if err := validator.ValidateWorkCreation(c, typeDef).Error(); err != nil {
		return nil, err
	}

	var workDetail *domain.WorkDetail
	var ev *event.EventRecord

	db := persistence.ActiveDataSourceManager.GormDB()
	err1 := db.Transaction(func(tx *gorm.DB) error {
		if err := facility.CheckDomainRef(c.DomainID, tx); err != nil {
			return err
		}
		if err := facility.CheckLocationRef(c.LocationID, tx); err != nil {
			return err
		}
		if err := facility.CheckShopGroupRef(c.ShopGroupID, tx); err != nil {
			return err
		}
		if c.ParentWorkID != 0 {
			parent := domain.Work{}
			if err := tx.Where(&domain.Work{ID: c.ParentWorkID}).First(&parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return bizerror.ErrReferenceNotFound
				}
				return err
			}
		}

		// the number is allocated inside this transaction: a failed insert rolls the
		// increment back, so no orphan increment and no work without a number
		number, err := sequence.NextFunc(workNumberCounter(typeDef.ID), tx)
		if err != nil {
			return err
		}

		now := types.CurrentTimestamp()
		initialState := workflow.InitialState()
		workDetail = &domain.WorkDetail{
			Work: domain.Work{
				ID:     idgen.NextID(workIdWorker),
				Number: number,

				DomainID:     c.DomainID,
				TypeID:       typeDef.ID,
				Title:        c.Title,
				Description:  c.Description,
				LocationID:   c.LocationID,
				ShopGroupID:  c.ShopGroupID,
				ParentWorkID: c.ParentWorkID,
				BucketSlotID: c.BucketSlotID,
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
			Type: *typeDef,
		}

		if err := tx.Create(&workDetail.Work).Error; err != nil {
			return err
		}

		if _, err := history.AppendStatusRecordFunc(history.SourceTypeWork, workDetail.ID,
			"", initialState.Name, "", &sec.Identity, now, tx); err != nil {
			return err
		}

		ev, err = event.CreateEvent(history.SourceTypeWork, workDetail.ID, workDesc(&workDetail.Work),
			event.EventCategoryCreated, nil, &sec.Identity, now, tx)
		return err
	})
	if err1 != nil {
		return nil, err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return workDetail, nil
}

func DetailWork(id types.ID, withHistory bool, sec *session.Context) (*domain.WorkDetail, error) {
	workDetail := domain.WorkDetail{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&domain.Work{ID: id}).First(&workDetail.Work).Error; err != nil {
		return nil, err
	}

	if !sec.HasDomainViewPerm(workDetail.DomainID) {
		return nil, bizerror.ErrForbidden
	}

	typeDef, err := worktype.DetailWorkTypeFunc(workDetail.TypeID)
	if err != nil {
		return nil, err
	}
	workDetail.Type = *typeDef

	workflow, found := flow.FindWorkflow(typeDef.WorkflowID)
	if !found {
		return nil, bizerror.ErrUnknownState
	}
	statusFound, found := workflow.StateMachine().FindState(workDetail.StatusName)
	if !found {
		return nil, bizerror.ErrUnknownState
	}
	workDetail.Status = statusFound

	if withHistory {
		records, err := history.LoadStatusRecordsFunc(history.SourceTypeWork, workDetail.ID)
		if err != nil {
			return nil, err
		}
		workDetail.History = records
	}

	return &workDetail, nil
}

// LoadWorkHistory returns the status trail of the work, newest first.
func LoadWorkHistory(id types.ID, sec *session.Context) ([]history.StatusRecord, error) {
	work, err := findWorkAndCheckPerms(persistence.ActiveDataSourceManager.GormDB(), id, sec)
	if err != nil {
		return nil, err
	}
	return history.LoadStatusRecordsFunc(history.SourceTypeWork, work.ID)
}

// ReviewWork closes a work currently under review, recording the follow-up
// description on the terminal status entry. A work in any other state is a
// documented failure, never a silent no-op.
func ReviewWork(id types.ID, review *domain.WorkReview, sec *session.Context) error {
	var ev *event.EventRecord

	db := persistence.ActiveDataSourceManager.GormDB()
	var err1 error
	for attempt := 0; attempt < transitionRetryLimit; attempt++ {
		ev = nil
		err1 = db.Transaction(func(tx *gorm.DB) error {
			work, err := findWorkAndCheckPerms(tx, id, sec)
			if err != nil {
				return err
			}

			typeDef, err := worktype.DetailWorkTypeFunc(work.TypeID)
			if err != nil {
				return err
			}
			workflow, found := flow.FindWorkflow(typeDef.WorkflowID)
			if !found {
				return bizerror.ErrUnknownState
			}
			currentState, found := workflow.StateMachine().FindState(work.StatusName)
			if !found {
				return bizerror.ErrUnknownState
			}

			nextState, ok := workflow.NextState(currentState, flow.TriggerWorkReviewed)
			if !ok {
				return &bizerror.IllegalTransition{Subject: "work " + id.String(),
					FromStatus: currentState.Name, ToStatus: flow.StatusClosed.Name}
			}

			ev, err = applyWorkTransition(tx, work, currentState, nextState, review.FollowUpDescription, sec)
			return err
		})
		if !errors.Is(err1, bizerror.ErrConcurrentModification) {
			break
		}
	}
	if err1 != nil {
		return err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return nil
}

func UpdateWork(id types.ID, u *domain.WorkUpdating, sec *session.Context) (*domain.Work, error) {
	var updatedWork domain.Work
	var ev *event.EventRecord

	db := persistence.ActiveDataSourceManager.GormDB()
	err1 := db.Transaction(func(tx *gorm.DB) error {
		originWork, err := findWorkAndCheckPerms(tx, id, sec)
		if err != nil {
			return err
		}

		typeDef, err := worktype.DetailWorkTypeFunc(originWork.TypeID)
		if err != nil {
			return err
		}
		validator, found := validation.FindValidator(typeDef.ValidatorName)
		if !found {
			return errors.New("validator not registered: " + typeDef.ValidatorName)
		}
		if err := validator.ValidateWorkUpdating(u, typeDef).Error(); err != nil {
			return err
		}

		query := tx.Model(&domain.Work{}).Where("id = ? AND version = ?", id, originWork.Version).
			Updates(map[string]interface{}{
				"title":       u.Title,
				"description": u.Description,
				"version":     originWork.Version + 1,
			})
		if query.Error != nil {
			return query.Error
		}
		if query.RowsAffected != 1 {
			return bizerror.ErrConcurrentModification
		}

		ev, err = event.CreateEvent(history.SourceTypeWork, originWork.ID, workDesc(originWork),
			event.EventCategoryPropertyUpdated,
			[]event.UpdatedProperty{{
				PropertyName: "Title", PropertyDesc: "Title",
				OldValue: originWork.Title, OldValueDesc: originWork.Title,
				NewValue: u.Title, NewValueDesc: u.Title,
			}},
			&sec.Identity, types.CurrentTimestamp(), tx)
		if err != nil {
			return err
		}

		return tx.Where(&domain.Work{ID: id}).First(&updatedWork).Error
	})
	if err1 != nil {
		return nil, err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &updatedWork, nil
}

// applyWorkTransition moves the work to nextState under the optimistic version
// guard and appends the matching status record in the same transaction.
func applyWorkTransition(tx *gorm.DB, work *domain.Work, fromState, toState state.State, comment string,
	sec *session.Context) (*event.EventRecord, error) {

	now := types.CurrentTimestamp()
	query := tx.Model(&domain.Work{}).Where("id = ? AND version = ?", work.ID, work.Version).
		Updates(map[string]interface{}{
			"status_name":       toState.Name,
			"status_category":   toState.Category,
			"status_comment":    comment,
			"status_begin_time": now,
			"version":           work.Version + 1,
		})
	if query.Error != nil {
		return nil, query.Error
	}
	if query.RowsAffected != 1 {
		return nil, bizerror.ErrConcurrentModification
	}

	if _, err := history.AppendStatusRecordFunc(history.SourceTypeWork, work.ID,
		fromState.Name, toState.Name, comment, &sec.Identity, now, tx); err != nil {
		return nil, err
	}

	return event.CreateEvent(history.SourceTypeWork, work.ID, workDesc(work),
		event.EventCategoryStatusUpdated,
		[]event.UpdatedProperty{{
			PropertyName: "Status", PropertyDesc: "Status",
			OldValue: fromState.Name, OldValueDesc: fromState.Name,
			NewValue: toState.Name, NewValueDesc: toState.Name,
		}},
		&sec.Identity, now, tx)
}

func findWorkAndCheckPerms(db *gorm.DB, id types.ID, sec *session.Context) (*domain.Work, error) {
	var work domain.Work
	if err := db.Where(&domain.Work{ID: id}).First(&work).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrReferenceNotFound
		}
		return nil, err
	}
	if sec == nil || !sec.HasRoleSuffix("_"+work.DomainID.String()) {
		return nil, bizerror.ErrForbidden
	}
	return &work, nil
}

func workDesc(work *domain.Work) string {
	return work.Title + " #" + strconv.FormatInt(work.Number, 10)
}
