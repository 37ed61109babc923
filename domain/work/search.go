package work

import (
	"corework/bizerror"
	"corework/domain"
	"corework/domain/flow"
	"corework/domain/worktype"
	"corework/persistence"
	"corework/session"
	"errors"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

const defaultSearchLimit = 50

var SearchWorksFunc = SearchWorks

// SearchWorks pages over works in creation sequence (ascending work id) around an
// anchor: up to ContextSize rows before the anchor, the anchor itself, then up to
// Limit rows after it. Without an anchor the newest Limit works are returned,
// newest first. Keyset paging keeps the order stable: repeated forward or backward
// paging never duplicates or skips an entry.
func SearchWorks(q *domain.WorkSearch, sec *session.Context) ([]domain.Work, error) {
	visibleDomains := sec.VisibleDomains()
	if len(visibleDomains) == 0 {
		return []domain.Work{}, nil
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	filtered := func() *gorm.DB {
		query := db.Model(&domain.Work{}).Where("domain_id in (?)", visibleDomains)
		if q.SearchText != "" {
			pattern := "%" + q.SearchText + "%"
			query = query.Where("title like ? OR description like ?", pattern, pattern)
		}
		return query
	}

	if q.AnchorID == 0 {
		limit := q.Limit
		if limit <= 0 {
			limit = defaultSearchLimit
		}
		works := []domain.Work{}
		if err := filtered().Order("id DESC").Limit(limit).Find(&works).Error; err != nil {
			return nil, err
		}
		if err := ExtendWorks(works); err != nil {
			return nil, err
		}
		return works, nil
	}

	anchor := domain.Work{}
	if err := filtered().Where("id = ?", q.AnchorID).First(&anchor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrReferenceNotFound
		}
		return nil, err
	}

	before := []domain.Work{}
	if q.ContextSize > 0 {
		if err := filtered().Where("id < ?", q.AnchorID).Order("id DESC").
			Limit(q.ContextSize).Find(&before).Error; err != nil {
			return nil, err
		}
	}
	after := []domain.Work{}
	if q.Limit > 0 {
		if err := filtered().Where("id > ?", q.AnchorID).Order("id ASC").
			Limit(q.Limit).Find(&after).Error; err != nil {
			return nil, err
		}
	}

	works := make([]domain.Work, 0, len(before)+1+len(after))
	for i := len(before) - 1; i >= 0; i-- {
		works = append(works, before[i])
	}
	works = append(works, anchor)
	works = append(works, after...)

	if err := ExtendWorks(works); err != nil {
		return nil, err
	}
	return works, nil
}

// ExtendWorks fills Work.Status from each work's bound workflow.
func ExtendWorks(works []domain.Work) error {
	workflowCache := map[types.ID]flow.Workflow{}
	for i := range works {
		workflow := workflowCache[works[i].TypeID]
		if workflow == nil {
			typeDef, err := worktype.DetailWorkTypeFunc(works[i].TypeID)
			if err != nil {
				return err
			}
			found := false
			workflow, found = flow.FindWorkflow(typeDef.WorkflowID)
			if !found {
				return bizerror.ErrUnknownState
			}
			workflowCache[works[i].TypeID] = workflow
		}

		statusFound, found := workflow.StateMachine().FindState(works[i].StatusName)
		if !found {
			return bizerror.ErrUnknownState
		}
		works[i].Status = statusFound
	}
	return nil
}
