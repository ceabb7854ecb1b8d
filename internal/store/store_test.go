package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/tenderdesk/rfp-analyzer/internal/config"
	st "github.com/tenderdesk/rfp-analyzer/internal/store"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

// openTestStore backs the suite with an in-memory sqlite database shared
// across the pool's connections.
func openTestStore() (st.Store, *gorm.DB) {
	cfg, err := config.New()
	Expect(err).To(BeNil())
	cfg.Database.Type = "sqlite"
	cfg.Database.Name = "file::memory:?cache=shared&_busy_timeout=5000"

	db, err := st.InitDB(cfg)
	Expect(err).To(BeNil())

	s := st.NewStore(db)
	Expect(s.InitialMigration()).To(BeNil())
	return s, db
}

var _ = Describe("store", Ordered, func() {
	var (
		s      st.Store
		gormDB *gorm.DB
	)

	BeforeAll(func() {
		s, gormDB = openTestStore()
	})

	AfterAll(func() {
		_ = s.Close()
	})

	AfterEach(func() {
		gormDB.Exec("DELETE FROM work_items;")
		gormDB.Exec("DELETE FROM job_results;")
		gormDB.Exec("DELETE FROM job_events;")
		gormDB.Exec("DELETE FROM jobs;")
	})

	Context("transaction", func() {
		It("commits an inserted job", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.Job().Create(ctx, model.Job{
				ID:     uuid.New(),
				Name:   "doc",
				OrgID:  "org",
				Format: model.JobFormatTxt,
			})
			Expect(err).To(BeNil())

			_, cerr := st.Commit(ctx)
			Expect(cerr).To(BeNil())

			count := 0
			err = gormDB.Raw("SELECT COUNT(*) FROM jobs;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("rolls back an inserted job", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.Job().Create(ctx, model.Job{
				ID:     uuid.New(),
				Name:   "doc",
				OrgID:  "org",
				Format: model.JobFormatTxt,
			})
			Expect(err).To(BeNil())

			jobs, err := s.Job().List(ctx, st.NewJobQueryFilter())
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))

			_, cerr := st.Rollback(ctx)
			Expect(cerr).To(BeNil())

			count := 0
			err = gormDB.Raw("SELECT COUNT(*) FROM jobs;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(0))
		})
	})
})
