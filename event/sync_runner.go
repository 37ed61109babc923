package event

import (
	"context"
	"corework/persistence"

	cron "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const syncBatchSize = 500

// dispatching is throttled so a large backlog cannot starve request handling
var syncLimiter = rate.NewLimiter(rate.Limit(50), 10)

var SyncUnsyncedEventsFunc = SyncUnsyncedEvents

// StartCron schedules the periodic re-dispatch of events whose handlers have not
// run yet, e.g. events persisted while a handler was failing or the process died.
func StartCron() *cron.Cron {
	crontab := cron.New(cron.WithSeconds())
	crontab.AddFunc("0 */5 * * * ?", func() {
		if err := SyncUnsyncedEventsFunc(); err != nil {
			logrus.Errorf("event sync: %v", err)
		}
	})
	crontab.Start()
	return crontab
}

func SyncUnsyncedEvents() error {
	db := persistence.ActiveDataSourceManager.GormDB()

	for {
		records := []EventRecord{}
		if err := db.Where("synced = ?", false).Order("timestamp ASC").
			Limit(syncBatchSize).Find(&records).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		syncedCount := 0
		for i := range records {
			if err := syncLimiter.Wait(context.Background()); err != nil {
				return err
			}

			record := records[i]
			results := InvokeHandlersFunc(&record)
			failed := false
			for _, r := range results {
				if !r.Success {
					failed = true
				}
			}
			if failed {
				continue
			}

			if err := db.Model(&EventRecord{}).
				Where("source_id = ? AND timestamp = ?", record.SourceId, record.Timestamp).
				Update("synced", true).Error; err != nil {
				return err
			}
			syncedCount++
		}

		// failed records stay unsynced for the next run, do not spin on them
		if syncedCount == 0 || len(records) < syncBatchSize {
			return nil
		}
	}
}
