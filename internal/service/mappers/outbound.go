package mappers

import (
	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/refkey"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

func JobToApi(j model.Job, events model.JobEventList) api.Job {
	job := api.Job{
		Id:        j.ID,
		Name:      j.Name,
		Format:    j.Format,
		Status:    j.Status,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}

	for _, e := range events {
		job.Events = append(job.Events, JobEventToApi(e))
	}
	return job
}

func JobListToApi(jobs model.JobList) api.JobList {
	jobList := []api.Job{}
	for _, j := range jobs {
		jobList = append(jobList, JobToApi(j, nil))
	}
	return jobList
}

func JobEventToApi(e model.JobEvent) api.JobEvent {
	event := api.JobEvent{
		Level:     e.Level,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
	if e.Metadata != nil {
		event.Metadata = e.Metadata.Data
	}
	return event
}

// JobResultToApi maps the stored result onto the wire, filling in the ref
// key of every finding so clients can address overlay rows without
// reimplementing the derivation.
func JobResultToApi(r model.JobResult) api.JobResult {
	result := api.JobResult{
		JobId:         r.JobID,
		ExtractedText: r.ExtractedText,
	}

	if r.Analysis == nil {
		return result
	}

	analysis := r.Analysis.Data
	for i := range analysis.Requirements {
		req := &analysis.Requirements[i]
		req.RefKey = refkey.Derive(r.JobID, model.WorkItemTypeRequirement, req.Text, string(req.Level))
	}
	for i := range analysis.Risks {
		risk := &analysis.Risks[i]
		risk.RefKey = refkey.Derive(r.JobID, model.WorkItemTypeRisk, risk.Title, string(risk.Severity))
	}
	for i := range analysis.Clarifications {
		c := &analysis.Clarifications[i]
		c.RefKey = refkey.Derive(r.JobID, model.WorkItemTypeClarification, c.Question)
	}
	for i := range analysis.Outline {
		s := &analysis.Outline[i]
		s.RefKey = refkey.Derive(r.JobID, model.WorkItemTypeOutline, s.Title)
	}

	result.Analysis = &analysis
	return result
}

func WorkItemToApi(w model.WorkItem) api.WorkItem {
	return api.WorkItem{
		JobId:    w.JobID,
		ItemType: w.ItemType,
		RefKey:   w.RefKey,
		Title:    w.Title,
		Status:   w.Status,
		Owner:    w.Owner,
		DueDate:  w.DueDate,
		Notes:    w.Notes,
	}
}

func WorkItemListToApi(items model.WorkItemList) api.WorkItemList {
	itemList := []api.WorkItem{}
	for _, w := range items {
		itemList = append(itemList, WorkItemToApi(w))
	}
	return itemList
}
