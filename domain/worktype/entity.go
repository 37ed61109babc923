package worktype

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fundwit/go-commons/types"
)

type ValueType string

const (
	ValueTypeString  = ValueType("string")
	ValueTypeNumber  = ValueType("number")
	ValueTypeBoolean = ValueType("boolean")
	ValueTypeDate    = ValueType("date")
)

// CustomFieldDef declares one custom field of a work or activity type.
type CustomFieldDef struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`

	ValueType   ValueType `json:"valueType"`
	LOVGroupRef string    `json:"lovGroupRef,omitempty"`
	Mandatory   bool      `json:"mandatory"`
}

type CustomFieldDefs []CustomFieldDef

func (d CustomFieldDefs) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&d)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (d *CustomFieldDefs) Scan(src interface{}) error {
	jsonString, ok := src.(string)
	if !ok {
		jsonByte, ok := src.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", src, src)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), d)
}

func (d CustomFieldDefs) Find(name string) (CustomFieldDef, bool) {
	for _, def := range d {
		if def.Name == name {
			return def, true
		}
	}
	return CustomFieldDef{}, false
}

type IDList []types.ID

func (l IDList) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&l)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (l *IDList) Scan(src interface{}) error {
	jsonString, ok := src.(string)
	if !ok {
		jsonByte, ok := src.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", src, src)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), l)
}

func (l IDList) Contains(id types.ID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

type WorkType struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	DomainID types.ID `json:"domainId"`

	Title       string `json:"title"`
	Description string `json:"description"`

	CustomFields CustomFieldDefs `json:"customFields" sql:"type:TEXT"`

	// ChildTypeIDs lists the activity types permitted below works of this type.
	ChildTypeIDs IDList `json:"childTypeIds" sql:"type:TEXT"`

	WorkflowID    string `json:"workflowId"`
	ValidatorName string `json:"validatorName"`

	Version int `json:"version"`

	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	CreatorID   types.ID        `json:"creatorId"`
	CreatorName string          `json:"creatorName"`
}

func (t *WorkType) TableName() string {
	return "work_types"
}

type ActivityType struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	DomainID types.ID `json:"domainId"`

	Title       string `json:"title"`
	Description string `json:"description"`

	CustomFields CustomFieldDefs `json:"customFields" sql:"type:TEXT"`

	Version int `json:"version"`

	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	CreatorID   types.ID        `json:"creatorId"`
	CreatorName string          `json:"creatorName"`
}

func (t *ActivityType) TableName() string {
	return "activity_types"
}

type WorkTypeCreation struct {
	DomainID    types.ID `json:"domainId" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`

	CustomFields  CustomFieldDefs `json:"customFields"`
	ChildTypeIDs  IDList          `json:"childTypeIds"`
	WorkflowID    string          `json:"workflowId" binding:"required"`
	ValidatorName string          `json:"validatorName" binding:"required"`
}

type WorkTypeUpdating struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`

	CustomFields CustomFieldDefs `json:"customFields"`
	ChildTypeIDs IDList          `json:"childTypeIds"`

	// BaseVersion is the optimistic concurrency token the caller read.
	BaseVersion int `json:"baseVersion"`
}

type ActivityTypeCreation struct {
	DomainID    types.ID `json:"domainId" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`

	CustomFields CustomFieldDefs `json:"customFields"`
}
