package validation

import (
	"corework/domain"
	"corework/domain/worktype"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

func CheckStringField(value, fieldName string) Result {
	if value == "" {
		return Failure(fieldName, "the field '"+fieldName+"' is required")
	}
	return Success(fieldName)
}

// CheckCustomFields verifies the provided values against the declared custom fields:
// every mandatory field must be present, every provided value must match its declared
// value type, and values for undeclared fields are rejected.
func CheckCustomFields(defs worktype.CustomFieldDefs, values domain.CustomFieldValues) Results {
	results := Results{}

	for _, def := range defs {
		value, provided := values.Find(def.Name)
		if !provided {
			if def.Mandatory {
				results = append(results, Failure(def.Name, "the custom field '"+def.Name+"' is required"))
			}
			continue
		}
		results = append(results, CheckValueType(def, value.Value))
	}

	for _, value := range values {
		if _, declared := defs.Find(value.Name); !declared {
			results = append(results, Failure(value.Name, "the custom field '"+value.Name+"' is not declared"))
		}
	}

	return results
}

func CheckValueType(def worktype.CustomFieldDef, value string) Result {
	switch def.ValueType {
	case worktype.ValueTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return Failure(def.Name, "the custom field '"+def.Name+"' must be a number")
		}
	case worktype.ValueTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return Failure(def.Name, "the custom field '"+def.Name+"' must be a boolean")
		}
	case worktype.ValueTypeDate:
		if _, err := time.Parse(dateLayout, value); err != nil {
			return Failure(def.Name, "the custom field '"+def.Name+"' must be a date of form "+dateLayout)
		}
	}
	return Success(def.Name)
}
