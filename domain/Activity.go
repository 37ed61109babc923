package domain

import (
	"corework/domain/state"
	"corework/history"

	"github.com/fundwit/go-commons/types"
)

type ActivitySubtype string

const (
	ActivitySubtypeMaintenance  = ActivitySubtype("MAINTENANCE")
	ActivitySubtypeRepair       = ActivitySubtype("REPAIR")
	ActivitySubtypeInspection   = ActivitySubtype("INSPECTION")
	ActivitySubtypeInstallation = ActivitySubtype("INSTALLATION")
	ActivitySubtypeCalibration  = ActivitySubtype("CALIBRATION")
	ActivitySubtypeOther        = ActivitySubtype("OTHER")
)

var ActivitySubtypes = []ActivitySubtype{ActivitySubtypeMaintenance, ActivitySubtypeRepair,
	ActivitySubtypeInspection, ActivitySubtypeInstallation, ActivitySubtypeCalibration, ActivitySubtypeOther}

type Activity struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	// WorkID is immutable after creation.
	WorkID  types.ID        `json:"workId"`
	TypeID  types.ID        `json:"typeId"`
	Subtype ActivitySubtype `json:"subtype"`

	Title       string `json:"title"`
	Description string `json:"description"`

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

type ActivityDetail struct {
	Activity

	History []history.StatusRecord `json:"history,omitempty" gorm:"-"`
}

type ActivityCreation struct {
	WorkID  types.ID        `json:"workId" binding:"required"`
	TypeID  types.ID        `json:"typeId" binding:"required"`
	Subtype ActivitySubtype `json:"subtype" binding:"required"`

	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`

	CustomFields CustomFieldValues `json:"customFields"`
}

type ActivityStatusUpdating struct {
	NewStatus       string `json:"newStatus" binding:"required"`
	FollowUpComment string `json:"followUpComment"`
}
