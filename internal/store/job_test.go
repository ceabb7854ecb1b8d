package store_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	st "github.com/tenderdesk/rfp-analyzer/internal/store"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

const (
	insertJobStm = "INSERT INTO jobs (id, name, org_id, username, format, object_key, status) VALUES ('%s', '%s', '%s', '%s', 'txt', 'key', '%s');"
)

var _ = Describe("job store", Ordered, func() {
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
		gormDB.Exec("DELETE FROM jobs;")
	})

	Context("create and get", func() {
		It("creates a job defaulting to queued", func() {
			job, err := s.Job().Create(context.TODO(), model.Job{
				ID:        uuid.New(),
				Name:      "rfp.txt",
				OrgID:     "org-1",
				Username:  "admin",
				Format:    model.JobFormatTxt,
				ObjectKey: "docs/rfp.txt",
			})
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusQueued))

			got, err := s.Job().Get(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(got.Name).To(Equal("rfp.txt"))
		})

		It("returns ErrRecordNotFound for an unknown id", func() {
			_, err := s.Job().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("filters by org", func() {
			tx := gormDB.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "a", "org-1", "admin", "queued"))
			Expect(tx.Error).To(BeNil())
			tx = gormDB.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "b", "org-2", "admin", "queued"))
			Expect(tx.Error).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), st.NewJobQueryFilter().ByOrgID("org-1"))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Name).To(Equal("a"))
		})

		It("filters by status", func() {
			tx := gormDB.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "a", "org-1", "admin", "queued"))
			Expect(tx.Error).To(BeNil())
			tx = gormDB.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "b", "org-1", "admin", "failed"))
			Expect(tx.Error).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), st.NewJobQueryFilter().ByStatus(model.JobStatusFailed))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Name).To(Equal("b"))
		})
	})

	Context("claim", func() {
		It("claims a queued job", func() {
			jobID := uuid.New()
			tx := gormDB.Exec(fmt.Sprintf(insertJobStm, jobID, "a", "org-1", "admin", "queued"))
			Expect(tx.Error).To(BeNil())

			outcome, err := s.Job().Claim(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(outcome).To(Equal(st.ClaimOutcomeClaimed))

			job, err := s.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusProcessing))
		})

		It("reports the current state on a second claim", func() {
			jobID := uuid.New()
			tx := gormDB.Exec(fmt.Sprintf(insertJobStm, jobID, "a", "org-1", "admin", "queued"))
			Expect(tx.Error).To(BeNil())

			outcome, err := s.Job().Claim(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(outcome).To(Equal(st.ClaimOutcomeClaimed))

			outcome, err = s.Job().Claim(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(outcome).To(Equal(st.ClaimOutcomeAlreadyClaimed))
		})

		It("reports done and failed terminal states", func() {
			doneID := uuid.New()
			failedID := uuid.New()
			tx := gormDB.Exec(fmt.Sprintf(insertJobStm, doneID, "a", "org-1", "admin", "done"))
			Expect(tx.Error).To(BeNil())
			tx = gormDB.Exec(fmt.Sprintf(insertJobStm, failedID, "b", "org-1", "admin", "failed"))
			Expect(tx.Error).To(BeNil())

			outcome, err := s.Job().Claim(context.TODO(), doneID)
			Expect(err).To(BeNil())
			Expect(outcome).To(Equal(st.ClaimOutcomeAlreadyDone))

			outcome, err = s.Job().Claim(context.TODO(), failedID)
			Expect(err).To(BeNil())
			Expect(outcome).To(Equal(st.ClaimOutcomeAlreadyFailed))
		})

		It("lets exactly one concurrent claimer win", func() {
			jobID := uuid.New()
			tx := gormDB.Exec(fmt.Sprintf(insertJobStm, jobID, "a", "org-1", "admin", "queued"))
			Expect(tx.Error).To(BeNil())

			const claimers = 8
			outcomes := make([]st.ClaimOutcome, claimers)
			errs := make([]error, claimers)

			var wg sync.WaitGroup
			for i := 0; i < claimers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					outcomes[i], errs[i] = s.Job().Claim(context.TODO(), jobID)
				}(i)
			}
			wg.Wait()

			winners := 0
			for i := 0; i < claimers; i++ {
				Expect(errs[i]).To(BeNil())
				if outcomes[i] == st.ClaimOutcomeClaimed {
					winners++
				} else {
					Expect(outcomes[i]).To(Equal(st.ClaimOutcomeAlreadyClaimed))
				}
			}
			Expect(winners).To(Equal(1))
		})
	})

	Context("retry", func() {
		It("resets a failed job to queued", func() {
			jobID := uuid.New()
			tx := gormDB.Exec(fmt.Sprintf(insertJobStm, jobID, "a", "org-1", "admin", "failed"))
			Expect(tx.Error).To(BeNil())

			job, err := s.Job().Retry(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusQueued))
		})

		It("rejects retry on a non-failed job", func() {
			for _, status := range []string{"queued", "processing", "done"} {
				jobID := uuid.New()
				tx := gormDB.Exec(fmt.Sprintf(insertJobStm, jobID, "a", "org-1", "admin", status))
				Expect(tx.Error).To(BeNil())

				_, err := s.Job().Retry(context.TODO(), jobID)
				Expect(err).To(MatchError(st.ErrInvalidStatus))
			}
		})

		It("returns not found for an unknown job", func() {
			_, err := s.Job().Retry(context.TODO(), uuid.New())
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})

	Context("update status", func() {
		It("persists the new status", func() {
			jobID := uuid.New()
			tx := gormDB.Exec(fmt.Sprintf(insertJobStm, jobID, "a", "org-1", "admin", "processing"))
			Expect(tx.Error).To(BeNil())

			job, err := s.Job().UpdateStatus(context.TODO(), jobID, model.JobStatusDone)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusDone))
		})
	})
})
