package work

import (
	"corework/domain"
	"corework/persistence"

	"github.com/fundwit/go-commons/types"
)

var WorkStatusStatisticsFunc = WorkStatusStatistics

// WorkStatusStatistics counts works per type and status.
func WorkStatusStatistics() ([]domain.WorkTypeStatusStatistics, error) {
	stats := []domain.WorkTypeStatusStatistics{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Table("works").
		Select("type_id, status_name, count(*) as count").
		Group("type_id, status_name").
		Order("type_id ASC, status_name ASC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// WorkStatusStatisticsByDomain counts works per type and status within one facility domain.
func WorkStatusStatisticsByDomain(domainId types.ID) ([]domain.WorkTypeStatusStatistics, error) {
	stats := []domain.WorkTypeStatusStatistics{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Table("works").
		Select("type_id, status_name, count(*) as count").
		Where("domain_id = ?", domainId).
		Group("type_id, status_name").
		Order("type_id ASC, status_name ASC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
