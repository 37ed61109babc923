package facility

import (
	"corework/bizerror"
	"corework/idgen"
	"corework/persistence"
	"corework/session"
	"errors"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	facilityIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateDomainFunc    = CreateDomain
	CreateLocationFunc  = CreateLocation
	CreateShopGroupFunc = CreateShopGroup
)

// Domain is a facility operation area that scopes locations, shop groups and work types.
type Domain struct {
	ID          types.ID        `json:"id" gorm:"primary_key"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type Location struct {
	ID          types.ID        `json:"id" gorm:"primary_key"`
	DomainID    types.ID        `json:"domainId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

// ShopGroup is a named group of users with operational responsibility over works.
type ShopGroup struct {
	ID          types.ID        `json:"id" gorm:"primary_key"`
	DomainID    types.ID        `json:"domainId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type DomainCreation struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type LocationCreation struct {
	DomainID    types.ID `json:"domainId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
}

type ShopGroupCreation struct {
	DomainID    types.ID `json:"domainId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
}

func CreateDomain(c *DomainCreation, sec *session.Context) (*Domain, error) {
	record := &Domain{ID: idgen.NextID(facilityIdWorker), Name: c.Name, Description: c.Description,
		CreateTime: types.CurrentTimestamp()}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func CreateLocation(c *LocationCreation, sec *session.Context) (*Location, error) {
	if !sec.HasRoleSuffix(session.RoleManager + "_" + c.DomainID.String()) {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := CheckDomainRef(c.DomainID, db); err != nil {
		return nil, err
	}
	record := &Location{ID: idgen.NextID(facilityIdWorker), DomainID: c.DomainID,
		Name: c.Name, Description: c.Description, CreateTime: types.CurrentTimestamp()}
	if err := db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func CreateShopGroup(c *ShopGroupCreation, sec *session.Context) (*ShopGroup, error) {
	if !sec.HasRoleSuffix(session.RoleManager + "_" + c.DomainID.String()) {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := CheckDomainRef(c.DomainID, db); err != nil {
		return nil, err
	}
	record := &ShopGroup{ID: idgen.NextID(facilityIdWorker), DomainID: c.DomainID,
		Name: c.Name, Description: c.Description, CreateTime: types.CurrentTimestamp()}
	if err := db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func CheckDomainRef(id types.ID, db *gorm.DB) error {
	return checkRef(&Domain{}, id, db)
}

func CheckLocationRef(id types.ID, db *gorm.DB) error {
	return checkRef(&Location{}, id, db)
}

func CheckShopGroupRef(id types.ID, db *gorm.DB) error {
	return checkRef(&ShopGroup{}, id, db)
}

func checkRef(model interface{}, id types.ID, db *gorm.DB) error {
	if err := db.Where("id = ?", id).First(model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrReferenceNotFound
		}
		return err
	}
	return nil
}

func QueryLocations(domainId types.ID, sec *session.Context) ([]Location, error) {
	if !sec.HasDomainViewPerm(domainId) {
		return nil, bizerror.ErrForbidden
	}
	records := []Location{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&Location{DomainID: domainId}).Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func QueryShopGroups(domainId types.ID, sec *session.Context) ([]ShopGroup, error) {
	if !sec.HasDomainViewPerm(domainId) {
		return nil, bizerror.ErrForbidden
	}
	records := []ShopGroup{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&ShopGroup{DomainID: domainId}).Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
