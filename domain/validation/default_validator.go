package validation

import (
	"corework/domain"
	"corework/domain/worktype"
)

const DefaultValidatorName = "default"

// defaultValidator implements the reference rules: required title, known
// activity subtype, mandatory custom fields and declared value types.
type defaultValidator struct {
}

func init() {
	RegisterValidator(&defaultValidator{})
}

func (v *defaultValidator) Name() string {
	return DefaultValidatorName
}

func (v *defaultValidator) ValidateWorkCreation(c *domain.WorkCreation, workTypeDef *worktype.WorkType) Results {
	results := Results{CheckStringField(c.Title, "title")}
	results = append(results, CheckCustomFields(workTypeDef.CustomFields, c.CustomFields)...)
	return results
}

func (v *defaultValidator) ValidateWorkUpdating(u *domain.WorkUpdating, workTypeDef *worktype.WorkType) Results {
	return Results{CheckStringField(u.Title, "title")}
}

func (v *defaultValidator) ValidateActivityCreation(c *domain.ActivityCreation, workTypeDef *worktype.WorkType,
	activityTypeDef *worktype.ActivityType) Results {

	results := Results{CheckStringField(c.Title, "title"), checkSubtype(c.Subtype)}
	results = append(results, CheckCustomFields(activityTypeDef.CustomFields, c.CustomFields)...)
	return results
}

func checkSubtype(subtype domain.ActivitySubtype) Result {
	for _, known := range domain.ActivitySubtypes {
		if subtype == known {
			return Success("subtype")
		}
	}
	return Failure("subtype", "unknown activity subtype '"+string(subtype)+"'")
}
