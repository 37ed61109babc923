package worktype

import (
	"corework/bizerror"
	"corework/idgen"
	"corework/persistence"
	"corework/session"
	"errors"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/patrickmn/go-cache"
	"github.com/sony/sonyflake"
)

var (
	typeIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	// work/activity type definitions are read-mostly, cache entries are dropped on update
	typeCache = cache.New(10*time.Minute, 1*time.Minute)

	CreateWorkTypeFunc     = CreateWorkType
	DetailWorkTypeFunc     = DetailWorkType
	UpdateWorkTypeFunc     = UpdateWorkType
	DeleteWorkTypeFunc     = DeleteWorkType
	CreateActivityTypeFunc = CreateActivityType
	DetailActivityTypeFunc = DetailActivityType
)

func CreateWorkType(c *WorkTypeCreation, sec *session.Context) (*WorkType, error) {
	if !sec.HasRoleSuffix(session.RoleManager + "_" + c.DomainID.String()) {
		return nil, bizerror.ErrForbidden
	}

	record := &WorkType{
		ID:            idgen.NextID(typeIdWorker),
		DomainID:      c.DomainID,
		Title:         c.Title,
		Description:   c.Description,
		CustomFields:  c.CustomFields,
		ChildTypeIDs:  c.ChildTypeIDs,
		WorkflowID:    c.WorkflowID,
		ValidatorName: c.ValidatorName,
		Version:       1,
		CreateTime:    types.CurrentTimestamp(),
		CreatorID:     sec.Identity.ID,
		CreatorName:   sec.Identity.Name,
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func DetailWorkType(id types.ID) (*WorkType, error) {
	cacheKey := "work_type_" + id.String()
	if cached, found := typeCache.Get(cacheKey); found {
		record := cached.(WorkType)
		return &record, nil
	}

	record := WorkType{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&WorkType{ID: id}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrReferenceNotFound
		}
		return nil, err
	}

	typeCache.Set(cacheKey, record, cache.DefaultExpiration)
	return &record, nil
}

// UpdateWorkType applies the updating under the optimistic version token:
// the update only lands when the stored version still equals BaseVersion.
func UpdateWorkType(id types.ID, u *WorkTypeUpdating, sec *session.Context) (*WorkType, error) {
	var updated WorkType
	db := persistence.ActiveDataSourceManager.GormDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		origin := WorkType{}
		if err := tx.Where(&WorkType{ID: id}).First(&origin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrReferenceNotFound
			}
			return err
		}
		if !sec.HasRoleSuffix(session.RoleManager + "_" + origin.DomainID.String()) {
			return bizerror.ErrForbidden
		}

		query := tx.Model(&WorkType{}).Where("id = ? AND version = ?", id, u.BaseVersion).
			Updates(map[string]interface{}{
				"title":          u.Title,
				"description":    u.Description,
				"custom_fields":  u.CustomFields,
				"child_type_ids": u.ChildTypeIDs,
				"version":        u.BaseVersion + 1,
			})
		if query.Error != nil {
			return query.Error
		}
		if query.RowsAffected != 1 {
			return bizerror.ErrConcurrentModification
		}

		if err := tx.Where(&WorkType{ID: id}).First(&updated).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	typeCache.Delete("work_type_" + id.String())
	return &updated, nil
}

// DeleteWorkType refuses to remove a type still referenced by existing works.
func DeleteWorkType(id types.ID, sec *session.Context) error {
	db := persistence.ActiveDataSourceManager.GormDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		record := WorkType{}
		if err := tx.Where(&WorkType{ID: id}).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if !sec.HasRoleSuffix(session.RoleManager + "_" + record.DomainID.String()) {
			return bizerror.ErrForbidden
		}

		var referencing int
		if err := tx.Table("works").Where("type_id = ?", id).Count(&referencing).Error; err != nil {
			return err
		}
		if referencing > 0 {
			return bizerror.ErrTypeIsReferenced
		}

		return tx.Delete(&WorkType{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	typeCache.Delete("work_type_" + id.String())
	return nil
}

func CreateActivityType(c *ActivityTypeCreation, sec *session.Context) (*ActivityType, error) {
	if !sec.HasRoleSuffix(session.RoleManager + "_" + c.DomainID.String()) {
		return nil, bizerror.ErrForbidden
	}

	record := &ActivityType{
		ID:           idgen.NextID(typeIdWorker),
		DomainID:     c.DomainID,
		Title:        c.Title,
		Description:  c.Description,
		CustomFields: c.CustomFields,
		Version:      1,
		CreateTime:   types.CurrentTimestamp(),
		CreatorID:    sec.Identity.ID,
		CreatorName:  sec.Identity.Name,
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func DetailActivityType(id types.ID) (*ActivityType, error) {
	cacheKey := "activity_type_" + id.String()
	if cached, found := typeCache.Get(cacheKey); found {
		record := cached.(ActivityType)
		return &record, nil
	}

	record := ActivityType{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&ActivityType{ID: id}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrReferenceNotFound
		}
		return nil, err
	}

	typeCache.Set(cacheKey, record, cache.DefaultExpiration)
	return &record, nil
}

// InvalidateTypeCache drops every cached type definition, used by tests.
func InvalidateTypeCache() {
	typeCache.Flush()
}
