package validation_test

import (
	"corework/bizerror"
	"corework/domain"
	"corework/domain/validation"
	"corework/domain/worktype"
	"testing"

	. "github.com/onsi/gomega"
)

var fieldDefs = worktype.CustomFieldDefs{
	{Name: "radiationLevel", ValueType: worktype.ValueTypeNumber, Mandatory: true},
	{Name: "lockoutRequired", ValueType: worktype.ValueTypeBoolean},
	{Name: "plannedDate", ValueType: worktype.ValueTypeDate},
	{Name: "notes", ValueType: worktype.ValueTypeString},
}

func TestCheckStringField(t *testing.T) {
	RegisterTestingT(t)

	Expect(validation.CheckStringField("some value", "title").Passed).To(BeTrue())

	r := validation.CheckStringField("", "title")
	Expect(r.Passed).To(BeFalse())
	Expect(r.Field).To(Equal("title"))
}

func TestCheckCustomFields(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should pass a fully conforming value set", func(t *testing.T) {
		results := validation.CheckCustomFields(fieldDefs, domain.CustomFieldValues{
			{Name: "radiationLevel", Value: "0.35"},
			{Name: "lockoutRequired", Value: "true"},
			{Name: "plannedDate", Value: "2026-03-01"},
			{Name: "notes", Value: "north wall"},
		})
		Expect(results.Passed()).To(BeTrue())
		Expect(results.Error()).To(BeNil())
	})

	t.Run("should accumulate every failure instead of stopping at the first", func(t *testing.T) {
		results := validation.CheckCustomFields(fieldDefs, domain.CustomFieldValues{
			{Name: "lockoutRequired", Value: "not-a-bool"},
			{Name: "plannedDate", Value: "tomorrow"},
			{Name: "undeclaredField", Value: "x"},
		})
		// missing mandatory, two bad value types and one undeclared field
		Expect(len(results.Failures())).To(Equal(4))

		err := results.Error()
		Expect(err).ToNot(BeNil())
		validationFailed, ok := err.(*bizerror.ValidationFailed)
		Expect(ok).To(BeTrue())
		Expect(len(validationFailed.Failures)).To(Equal(4))
	})

	t.Run("should allow absent optional fields", func(t *testing.T) {
		results := validation.CheckCustomFields(fieldDefs, domain.CustomFieldValues{
			{Name: "radiationLevel", Value: "12"},
		})
		Expect(results.Passed()).To(BeTrue())
	})
}

func TestCheckValueType(t *testing.T) {
	RegisterTestingT(t)

	numberDef := worktype.CustomFieldDef{Name: "n", ValueType: worktype.ValueTypeNumber}
	boolDef := worktype.CustomFieldDef{Name: "b", ValueType: worktype.ValueTypeBoolean}
	dateDef := worktype.CustomFieldDef{Name: "d", ValueType: worktype.ValueTypeDate}
	stringDef := worktype.CustomFieldDef{Name: "s", ValueType: worktype.ValueTypeString}

	Expect(validation.CheckValueType(numberDef, "3.14").Passed).To(BeTrue())
	Expect(validation.CheckValueType(numberDef, "abc").Passed).To(BeFalse())
	Expect(validation.CheckValueType(boolDef, "false").Passed).To(BeTrue())
	Expect(validation.CheckValueType(boolDef, "yes?").Passed).To(BeFalse())
	Expect(validation.CheckValueType(dateDef, "2026-01-31").Passed).To(BeTrue())
	Expect(validation.CheckValueType(dateDef, "31/01/2026").Passed).To(BeFalse())
	Expect(validation.CheckValueType(stringDef, "anything").Passed).To(BeTrue())
}

func TestDefaultValidator(t *testing.T) {
	RegisterTestingT(t)

	validator, found := validation.FindValidator(validation.DefaultValidatorName)
	Expect(found).To(BeTrue())
	Expect(validator.Name()).To(Equal(validation.DefaultValidatorName))

	workTypeDef := &worktype.WorkType{Title: "job", CustomFields: fieldDefs}
	activityTypeDef := &worktype.ActivityType{Title: "general task"}

	t.Run("should validate work creation", func(t *testing.T) {
		results := validator.ValidateWorkCreation(&domain.WorkCreation{
			Title:        "repair cooling pump",
			CustomFields: domain.CustomFieldValues{{Name: "radiationLevel", Value: "0.1"}},
		}, workTypeDef)
		Expect(results.Passed()).To(BeTrue())

		results = validator.ValidateWorkCreation(&domain.WorkCreation{Title: ""}, workTypeDef)
		// empty title plus missing mandatory custom field
		Expect(len(results.Failures())).To(Equal(2))
	})

	t.Run("should validate work updating", func(t *testing.T) {
		Expect(validator.ValidateWorkUpdating(&domain.WorkUpdating{Title: "new title"}, workTypeDef).
			Passed()).To(BeTrue())
		Expect(validator.ValidateWorkUpdating(&domain.WorkUpdating{}, workTypeDef).Passed()).To(BeFalse())
	})

	t.Run("should validate activity creation", func(t *testing.T) {
		results := validator.ValidateActivityCreation(&domain.ActivityCreation{
			Title: "replace seals", Subtype: domain.ActivitySubtypeRepair}, workTypeDef, activityTypeDef)
		Expect(results.Passed()).To(BeTrue())

		results = validator.ValidateActivityCreation(&domain.ActivityCreation{
			Title: "replace seals", Subtype: domain.ActivitySubtype("DEMOLITION")}, workTypeDef, activityTypeDef)
		failures := results.Failures()
		Expect(len(failures)).To(Equal(1))
		Expect(failures[0].Field).To(Equal("subtype"))
	})
}
