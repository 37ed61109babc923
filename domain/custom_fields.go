package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CustomFieldValue is one typed value assigned to a custom field declared on a work or activity type.
type CustomFieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type CustomFieldValues []CustomFieldValue

func (v CustomFieldValues) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&v)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (v *CustomFieldValues) Scan(src interface{}) error {
	jsonString, ok := src.(string)
	if !ok {
		jsonByte, ok := src.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", src, src)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), v)
}

func (v CustomFieldValues) Find(name string) (CustomFieldValue, bool) {
	for _, value := range v {
		if value.Name == name {
			return value, true
		}
	}
	return CustomFieldValue{}, false
}
