package work_test

import (
	"corework/domain"
	"corework/domain/facility"
	"corework/domain/flow"
	"corework/domain/validation"
	"corework/domain/work"
	"corework/domain/worktype"
	"corework/session"
	"corework/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

// facilityFixture is a self-consistent facility domain with one location, one shop
// group and a job work type permitting one activity type.
type facilityFixture struct {
	Domain       *facility.Domain
	Location     *facility.Location
	ShopGroup    *facility.ShopGroup
	WorkType     *worktype.WorkType
	ActivityType *worktype.ActivityType
}

// buildFacilityFixture creates the fixture records and returns a session context
// holding the manager role of the created domain.
func buildFacilityFixture(uid types.ID) (*facilityFixture, *session.Context) {
	domainRecord, err := facility.CreateDomainFunc(&facility.DomainCreation{Name: "accelerator"},
		testinfra.BuildSecCtx(uid))
	Expect(err).To(BeNil())

	sec := testinfra.BuildSecCtx(uid, "manager_"+domainRecord.ID.String())

	location, err := facility.CreateLocationFunc(&facility.LocationCreation{
		DomainID: domainRecord.ID, Name: "tunnel section 1"}, sec)
	Expect(err).To(BeNil())

	shopGroup, err := facility.CreateShopGroupFunc(&facility.ShopGroupCreation{
		DomainID: domainRecord.ID, Name: "mechanical"}, sec)
	Expect(err).To(BeNil())

	activityType, err := worktype.CreateActivityTypeFunc(&worktype.ActivityTypeCreation{
		DomainID: domainRecord.ID, Title: "general task"}, sec)
	Expect(err).To(BeNil())

	workType, err := worktype.CreateWorkTypeFunc(&worktype.WorkTypeCreation{
		DomainID: domainRecord.ID, Title: "job",
		ChildTypeIDs:  worktype.IDList{activityType.ID},
		WorkflowID:    flow.JobWorkflowID,
		ValidatorName: validation.DefaultValidatorName,
	}, sec)
	Expect(err).To(BeNil())

	return &facilityFixture{
		Domain: domainRecord, Location: location, ShopGroup: shopGroup,
		WorkType: workType, ActivityType: activityType,
	}, sec
}

// buildWork build work detail
func buildWork(f *facilityFixture, title string, sec *session.Context) *domain.WorkDetail {
	detail, err := work.CreateWorkFunc(&domain.WorkCreation{
		DomainID: f.Domain.ID, TypeID: f.WorkType.ID,
		LocationID: f.Location.ID, ShopGroupID: f.ShopGroup.ID,
		Title: title,
	}, sec)
	Expect(err).To(BeNil())
	Expect(detail).ToNot(BeNil())
	Expect(detail.StatusName).To(Equal(flow.StatusNew.Name))
	return detail
}

// buildActivity build activity detail
func buildActivity(f *facilityFixture, workId types.ID, title string, sec *session.Context) *domain.ActivityDetail {
	detail, err := work.CreateActivityFunc(&domain.ActivityCreation{
		WorkID: workId, TypeID: f.ActivityType.ID,
		Subtype: domain.ActivitySubtypeMaintenance, Title: title,
	}, sec)
	Expect(err).To(BeNil())
	Expect(detail).ToNot(BeNil())
	Expect(detail.StatusName).To(Equal(flow.ActivityStatusNew.Name))
	return detail
}
