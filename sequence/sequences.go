package sequence

import (
	"corework/bizerror"

	"github.com/jinzhu/gorm"
)

var NextFunc = Next

// Counter holds the last issued value of one named sequence.
// It is mutated only through the atomic in-database increment of Next.
type Counter struct {
	Name  string `json:"name" gorm:"primary_key"`
	Value int64  `json:"value"`
}

func (c *Counter) TableName() string {
	return "sequences"
}

// Next issues the next value of the named counter inside the caller's transaction.
// The increment runs in the database, never as an application side read-modify-write,
// and the touched row stays locked until the transaction ends, so concurrent callers
// are serialized and every issued value is unique. Because allocation shares the
// caller's transaction, a failed caller rolls the increment back: gaps can only be
// observed as skipped values, never as orphaned entities.
func Next(counterName string, tx *gorm.DB) (int64, error) {
	for attempt := 0; attempt < 2; attempt++ {
		db := tx.Model(&Counter{}).Where("name = ?", counterName).
			UpdateColumn("value", gorm.Expr("value + 1"))
		if db.Error != nil {
			return 0, bizerror.ErrAllocationFailure
		}
		if db.RowsAffected == 1 {
			counter := Counter{}
			if err := tx.Where(&Counter{Name: counterName}).First(&counter).Error; err != nil {
				return 0, bizerror.ErrAllocationFailure
			}
			return counter.Value, nil
		}

		// first use of the counter; a duplicate-key race falls through to retry the increment
		if err := tx.Create(&Counter{Name: counterName, Value: 1}).Error; err == nil {
			return 1, nil
		}
	}
	return 0, bizerror.ErrAllocationFailure
}
