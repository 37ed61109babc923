package domain

import (
	"corework/domain/state"
	"corework/domain/worktype"
	"corework/history"

	"github.com/fundwit/go-commons/types"
)

type Work struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	// Number is assigned exactly once from the per-type sequence counter and never reused.
	Number int64 `json:"number"`

	DomainID    types.ID `json:"domainId"`
	TypeID      types.ID `json:"typeId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`

	LocationID   types.ID `json:"locationId"`
	ShopGroupID  types.ID `json:"shopGroupId"`
	ParentWorkID types.ID `json:"parentWorkId"`
	BucketSlotID types.ID `json:"bucketSlotId"`

	CustomFields CustomFieldValues `json:"customFields" sql:"type:TEXT"`

	StatusName      string          `json:"statusName"`
	StatusCategory  state.Category  `json:"statusCategory"`
	StatusComment   string          `json:"statusComment"`
	StatusBeginTime types.Timestamp `json:"statusBeginTime" sql:"type:DATETIME(6)"`

	Version int `json:"version"`

	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	CreatorID   types.ID        `json:"creatorId"`
	CreatorName string          `json:"creatorName"`

	Status state.State `json:"status" gorm:"-"`
}

type WorkDetail struct {
	Work

	Type    worktype.WorkType      `json:"type" gorm:"-"`
	History []history.StatusRecord `json:"history,omitempty" gorm:"-"`
}

type WorkCreation struct {
	DomainID    types.ID `json:"domainId" binding:"required"`
	TypeID      types.ID `json:"typeId" binding:"required"`
	LocationID  types.ID `json:"locationId" binding:"required"`
	ShopGroupID types.ID `json:"shopGroupId" binding:"required"`

	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`

	ParentWorkID types.ID          `json:"parentWorkId"`
	BucketSlotID types.ID          `json:"bucketSlotId"`
	CustomFields CustomFieldValues `json:"customFields"`
}

type WorkUpdating struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type WorkReview struct {
	FollowUpDescription string `json:"followUpDescription"`
}

// WorkSearch is an anchor based cursor over works ordered by creation sequence.
type WorkSearch struct {
	AnchorID    types.ID `json:"anchorId" form:"anchorId"`
	ContextSize int      `json:"contextSize" form:"contextSize" validate:"min=0"`
	Limit       int      `json:"limit" form:"limit" validate:"min=0"`
	SearchText  string   `json:"searchText" form:"searchText"`
}

type WorkTypeStatusStatistics struct {
	TypeID     types.ID `json:"typeId"`
	StatusName string   `json:"statusName"`
	Count      int64    `json:"count"`
}
