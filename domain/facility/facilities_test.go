package facility_test

import (
	"corework/bizerror"
	"corework/domain/facility"
	"corework/persistence"
	"corework/testinfra"
	"testing"

	. "github.com/onsi/gomega"
)

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("corework")
	*testDatabase = db
	Expect(db.DS.GormDB().AutoMigrate(&facility.Domain{}, &facility.Location{}, &facility.ShopGroup{}).Error).To(BeNil())
	persistence.ActiveDataSourceManager = db.DS
}

func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func TestCreateFacilityRecords(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should create domain, location and shop group", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		domainRecord, err := facility.CreateDomain(&facility.DomainCreation{Name: "accelerator"},
			testinfra.BuildSecCtx(10))
		Expect(err).To(BeNil())
		Expect(domainRecord.ID).ToNot(BeZero())
		Expect(domainRecord.CreateTime).ToNot(BeZero())

		sec := testinfra.BuildSecCtx(10, "manager_"+domainRecord.ID.String())

		location, err := facility.CreateLocation(&facility.LocationCreation{
			DomainID: domainRecord.ID, Name: "tunnel section 1"}, sec)
		Expect(err).To(BeNil())
		Expect(location.DomainID).To(Equal(domainRecord.ID))

		shopGroup, err := facility.CreateShopGroup(&facility.ShopGroupCreation{
			DomainID: domainRecord.ID, Name: "mechanical"}, sec)
		Expect(err).To(BeNil())
		Expect(shopGroup.DomainID).To(Equal(domainRecord.ID))
	})

	t.Run("should require the domain manager role", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		domainRecord, err := facility.CreateDomain(&facility.DomainCreation{Name: "accelerator"},
			testinfra.BuildSecCtx(10))
		Expect(err).To(BeNil())

		outsider := testinfra.BuildSecCtx(20, "member_"+domainRecord.ID.String())
		_, err = facility.CreateLocation(&facility.LocationCreation{
			DomainID: domainRecord.ID, Name: "tunnel section 1"}, outsider)
		Expect(err).To(Equal(bizerror.ErrForbidden))
		_, err = facility.CreateShopGroup(&facility.ShopGroupCreation{
			DomainID: domainRecord.ID, Name: "mechanical"}, outsider)
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("should reject references to absent domains", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		sec := testinfra.BuildSecCtx(10, "manager_404")
		_, err := facility.CreateLocation(&facility.LocationCreation{DomainID: 404, Name: "x"}, sec)
		Expect(err).To(Equal(bizerror.ErrReferenceNotFound))
	})
}

func TestCheckFacilityRefs(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should tell existing refs from missing ones", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB()

		domainRecord, err := facility.CreateDomain(&facility.DomainCreation{Name: "accelerator"},
			testinfra.BuildSecCtx(10))
		Expect(err).To(BeNil())

		Expect(facility.CheckDomainRef(domainRecord.ID, db)).To(BeNil())
		Expect(facility.CheckDomainRef(404, db)).To(Equal(bizerror.ErrReferenceNotFound))
		Expect(facility.CheckLocationRef(404, db)).To(Equal(bizerror.ErrReferenceNotFound))
		Expect(facility.CheckShopGroupRef(404, db)).To(Equal(bizerror.ErrReferenceNotFound))
	})
}

func TestQueryFacilityRecords(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should list locations and shop groups of a visible domain by name", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		domainRecord, err := facility.CreateDomain(&facility.DomainCreation{Name: "accelerator"},
			testinfra.BuildSecCtx(10))
		Expect(err).To(BeNil())
		sec := testinfra.BuildSecCtx(10, "manager_"+domainRecord.ID.String())

		_, err = facility.CreateLocation(&facility.LocationCreation{DomainID: domainRecord.ID, Name: "zone b"}, sec)
		Expect(err).To(BeNil())
		_, err = facility.CreateLocation(&facility.LocationCreation{DomainID: domainRecord.ID, Name: "zone a"}, sec)
		Expect(err).To(BeNil())

		locations, err := facility.QueryLocations(domainRecord.ID, sec)
		Expect(err).To(BeNil())
		Expect(len(locations)).To(Equal(2))
		Expect(locations[0].Name).To(Equal("zone a"))
		Expect(locations[1].Name).To(Equal("zone b"))

		shopGroups, err := facility.QueryShopGroups(domainRecord.ID, sec)
		Expect(err).To(BeNil())
		Expect(shopGroups).To(Equal([]facility.ShopGroup{}))
	})

	t.Run("should hide domains the session cannot view", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		domainRecord, err := facility.CreateDomain(&facility.DomainCreation{Name: "accelerator"},
			testinfra.BuildSecCtx(10))
		Expect(err).To(BeNil())

		_, err = facility.QueryLocations(domainRecord.ID, testinfra.BuildSecCtx(20, "manager_999"))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}
