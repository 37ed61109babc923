package sequence_test

import (
	"corework/persistence"
	"corework/sequence"
	"corework/testinfra"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
)

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("corework")
	*testDatabase = db
	Expect(db.DS.GormDB().AutoMigrate(&sequence.Counter{}).Error).To(BeNil())
	persistence.ActiveDataSourceManager = db.DS
}

func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func TestNext(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should issue 1 on first use and count up from there", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB()

		for want := int64(1); want <= 3; want++ {
			value, err := sequence.Next("work_number_100", db)
			Expect(err).To(BeNil())
			Expect(value).To(Equal(want))
		}
	})

	t.Run("should keep independent counters independent", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB()

		value, err := sequence.Next("work_number_100", db)
		Expect(err).To(BeNil())
		Expect(value).To(Equal(int64(1)))
		value, err = sequence.Next("work_number_100", db)
		Expect(err).To(BeNil())
		Expect(value).To(Equal(int64(2)))

		value, err = sequence.Next("work_number_200", db)
		Expect(err).To(BeNil())
		Expect(value).To(Equal(int64(1)))
	})

	t.Run("should roll the increment back with the enclosing transaction", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB()

		value, err := sequence.Next("work_number_100", db)
		Expect(err).To(BeNil())
		Expect(value).To(Equal(int64(1)))

		tx := db.Begin()
		value, err = sequence.Next("work_number_100", tx)
		Expect(err).To(BeNil())
		Expect(value).To(Equal(int64(2)))
		Expect(tx.Rollback().Error).To(BeNil())

		// the rolled back value is issued again
		value, err = sequence.Next("work_number_100", db)
		Expect(err).To(BeNil())
		Expect(value).To(Equal(int64(2)))
	})

	t.Run("should issue unique values to concurrent allocators", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		const workers = 50
		values := make(chan int64, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tx := testDatabase.DS.GormDB().Begin()
				value, err := sequence.Next("work_number_100", tx)
				Expect(err).To(BeNil())
				Expect(tx.Commit().Error).To(BeNil())
				values <- value
			}()
		}
		wg.Wait()
		close(values)

		seen := map[int64]bool{}
		for value := range values {
			Expect(value >= 1 && value <= workers).To(BeTrue())
			Expect(seen[value]).To(BeFalse())
			seen[value] = true
		}
		Expect(len(seen)).To(Equal(workers))
	})
}
