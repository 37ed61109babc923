package history

import (
	"corework/idgen"
	"corework/persistence"
	"corework/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

const (
	SourceTypeWork     = "WORK"
	SourceTypeActivity = "ACTIVITY"
)

var (
	statusRecordIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	AppendStatusRecordFunc = AppendStatusRecord
	LoadStatusRecordsFunc  = LoadStatusRecords
)

// StatusRecord is one entry of the append-only status trail of a work or activity.
// Records are only ever inserted, in the same transaction as the status update they describe.
type StatusRecord struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	SourceType string   `json:"sourceType"`
	SourceID   types.ID `json:"sourceId"`

	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
	Comment    string `json:"comment"`

	ActorID   types.ID `json:"actorId"`
	ActorName string   `json:"actorName"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (r *StatusRecord) TableName() string {
	return "status_records"
}

func AppendStatusRecord(sourceType string, sourceId types.ID, fromStatus, toStatus, comment string,
	identity *session.Identity, timestamp types.Timestamp, tx *gorm.DB) (*StatusRecord, error) {

	record := StatusRecord{
		ID:         idgen.NextID(statusRecordIdWorker),
		SourceType: sourceType,
		SourceID:   sourceId,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		Comment:    comment,
		ActorID:    identity.ID,
		ActorName:  identity.Name,
		CreateTime: timestamp,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// LoadStatusRecords returns the status trail of one entity, newest first.
func LoadStatusRecords(sourceType string, sourceId types.ID) ([]StatusRecord, error) {
	records := []StatusRecord{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&StatusRecord{SourceType: sourceType, SourceID: sourceId}).
		Order("create_time DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
