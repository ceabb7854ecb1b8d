package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	st "github.com/tenderdesk/rfp-analyzer/internal/store"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

var _ = Describe("work item store", Ordered, func() {
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
		gormDB.Exec("DELETE FROM work_items;")
		gormDB.Exec("DELETE FROM jobs;")
	})

	Context("upsert", func() {
		It("creates a row defaulting to todo", func() {
			item, err := s.WorkItem().Upsert(context.TODO(), model.WorkItem{
				JobID:    jobID,
				ItemType: model.WorkItemTypeRequirement,
				RefKey:   "abc123",
				Title:    "Provide ISO 27001 evidence",
			})
			Expect(err).To(BeNil())
			Expect(item.Status).To(Equal(model.WorkItemStatusTodo))
		})

		It("overwrites the tracked fields on conflict", func() {
			due := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

			_, err := s.WorkItem().Upsert(context.TODO(), model.WorkItem{
				JobID:    jobID,
				ItemType: model.WorkItemTypeRequirement,
				RefKey:   "abc123",
				Title:    "Provide ISO 27001 evidence",
				Owner:    "Maria",
				Status:   model.WorkItemStatusDoing,
			})
			Expect(err).To(BeNil())

			item, err := s.WorkItem().Upsert(context.TODO(), model.WorkItem{
				JobID:    jobID,
				ItemType: model.WorkItemTypeRequirement,
				RefKey:   "abc123",
				Title:    "Provide ISO 27001 evidence",
				Owner:    "Jonas",
				Status:   model.WorkItemStatusBlocked,
				DueDate:  &due,
				Notes:    "escalated",
			})
			Expect(err).To(BeNil())
			Expect(item.Owner).To(Equal("Jonas"))
			Expect(item.Status).To(Equal(model.WorkItemStatusBlocked))
			Expect(item.Notes).To(Equal("escalated"))

			count := 0
			err = gormDB.Raw("SELECT COUNT(*) FROM work_items;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("keeps rows with the same ref key apart per item type", func() {
			_, err := s.WorkItem().Upsert(context.TODO(), model.WorkItem{
				JobID:    jobID,
				ItemType: model.WorkItemTypeRequirement,
				RefKey:   "abc123",
				Title:    "req",
			})
			Expect(err).To(BeNil())

			_, err = s.WorkItem().Upsert(context.TODO(), model.WorkItem{
				JobID:    jobID,
				ItemType: model.WorkItemTypeRisk,
				RefKey:   "abc123",
				Title:    "risk",
			})
			Expect(err).To(BeNil())

			items, err := s.WorkItem().List(context.TODO(), jobID, st.NewWorkItemQueryFilter())
			Expect(err).To(BeNil())
			Expect(items).To(HaveLen(2))
		})
	})

	Context("list", func() {
		BeforeEach(func() {
			for _, seed := range []model.WorkItem{
				{JobID: jobID, ItemType: model.WorkItemTypeRequirement, RefKey: "aa11", Title: "r1"},
				{JobID: jobID, ItemType: model.WorkItemTypeRequirement, RefKey: "ab22", Title: "r2"},
				{JobID: jobID, ItemType: model.WorkItemTypeRisk, RefKey: "cc33", Title: "k1"},
			} {
				_, err := s.WorkItem().Upsert(context.TODO(), seed)
				Expect(err).To(BeNil())
			}
		})

		It("filters by item type", func() {
			items, err := s.WorkItem().List(context.TODO(), jobID,
				st.NewWorkItemQueryFilter().ByItemType(model.WorkItemTypeRisk))
			Expect(err).To(BeNil())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Title).To(Equal("k1"))
		})

		It("filters by ref key prefix", func() {
			items, err := s.WorkItem().List(context.TODO(), jobID,
				st.NewWorkItemQueryFilter().ByRefKeyPrefix("a"))
			Expect(err).To(BeNil())
			Expect(items).To(HaveLen(2))
		})

		It("escapes like wildcards in the prefix", func() {
			items, err := s.WorkItem().List(context.TODO(), jobID,
				st.NewWorkItemQueryFilter().ByRefKeyPrefix("%"))
			Expect(err).To(BeNil())
			Expect(items).To(BeEmpty())
		})

		It("scopes rows to the job", func() {
			items, err := s.WorkItem().List(context.TODO(), uuid.New(), st.NewWorkItemQueryFilter())
			Expect(err).To(BeNil())
			Expect(items).To(BeEmpty())
		})
	})

	Context("get", func() {
		It("returns ErrRecordNotFound for a missing triple", func() {
			_, err := s.WorkItem().Get(context.TODO(), jobID, model.WorkItemTypeRequirement, "missing")
			Expect(err).To(MatchError(st.ErrRecordNotFound))
		})
	})
})
