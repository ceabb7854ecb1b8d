package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	st "github.com/tenderdesk/rfp-analyzer/internal/store"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

var _ = Describe("job result store", Ordered, func() {
	var (
		s      st.Store
		gormDB *gorm.DB
		jobID  uuid.UUID
	)

	BeforeAll(func() {
		s, gormDB = openTestStore()
	})

	AfterAll(func() {
		_ = s.Close()
	})

	BeforeEach(func() {
		jobID = uuid.New()
		_, err := s.Job().Create(context.TODO(), model.Job{
			ID:     jobID,
			Name:   "doc",
			OrgID:  "org-1",
			Format: model.JobFormatTxt,
		})
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		gormDB.Exec("DELETE FROM job_results;")
		gormDB.Exec("DELETE FROM jobs;")
	})

	It("stores extracted text before any analysis exists", func() {
		result, err := s.JobResult().UpsertText(context.TODO(), jobID, "the extracted text")
		Expect(err).To(BeNil())
		Expect(result.ExtractedText).To(Equal("the extracted text"))
		Expect(result.Analysis).To(BeNil())
	})

	It("attaches the analysis without losing the text", func() {
		_, err := s.JobResult().UpsertText(context.TODO(), jobID, "the extracted text")
		Expect(err).To(BeNil())

		analysis := api.Analysis{
			Requirements: []api.Requirement{{Level: api.RequirementMust, Text: "Provide ISO 27001 evidence"}},
		}
		result, err := s.JobResult().UpsertAnalysis(context.TODO(), jobID, analysis)
		Expect(err).To(BeNil())
		Expect(result.ExtractedText).To(Equal("the extracted text"))
		Expect(result.Analysis).ToNot(BeNil())
		Expect(result.Analysis.Data.Requirements).To(HaveLen(1))
	})

	It("replaces the text on re-extraction", func() {
		_, err := s.JobResult().UpsertText(context.TODO(), jobID, "first")
		Expect(err).To(BeNil())

		result, err := s.JobResult().UpsertText(context.TODO(), jobID, "second")
		Expect(err).To(BeNil())
		Expect(result.ExtractedText).To(Equal("second"))

		count := 0
		err = gormDB.Raw("SELECT COUNT(*) FROM job_results;").Scan(&count).Error
		Expect(err).To(BeNil())
		Expect(count).To(Equal(1))
	})

	It("returns ErrRecordNotFound when no result exists", func() {
		_, err := s.JobResult().Get(context.TODO(), uuid.New())
		Expect(err).To(MatchError(st.ErrRecordNotFound))
	})

	It("appends and lists job events in order", func() {
		for _, msg := range []string{"one", "two", "three"} {
			err := s.JobEvent().Append(context.TODO(), model.JobEvent{
				JobID:   jobID,
				Level:   model.EventLevelInfo,
				Message: msg,
			})
			Expect(err).To(BeNil())
		}

		events, err := s.JobEvent().List(context.TODO(), jobID)
		Expect(err).To(BeNil())
		Expect(events).To(HaveLen(3))
		Expect(events[0].Message).To(Equal("one"))
		Expect(events[2].Message).To(Equal("three"))
	})
})
