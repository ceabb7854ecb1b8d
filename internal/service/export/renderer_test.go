package export_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/refkey"
	"github.com/tenderdesk/rfp-analyzer/internal/service/export"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

func exportFixture(t *testing.T) *export.ExportData {
	t.Helper()

	jobID := uuid.MustParse("9a2b7c10-43a1-4df0-a1c4-8f3de2b0a5c1")
	job := model.Job{
		ID:        jobID,
		Name:      "City Hall RFP",
		OrgID:     "org-1",
		Format:    model.JobFormatTxt,
		Status:    model.JobStatusDone,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	analysis := api.Analysis{
		Requirements: []api.Requirement{
			{Level: api.RequirementMust, Text: "Provide ISO 27001 evidence", EvidenceIDs: []string{"ev-1"}},
			{Level: api.RequirementShould, Text: "Offer a sandbox environment"},
		},
		Risks: []api.Risk{
			{Severity: api.RiskHigh, Title: "Vendor lock-in", Detail: "Proprietary export format"},
		},
		Clarifications: []api.Clarification{
			{Question: "Is the deadline extendable?"},
		},
		Outline: []api.OutlineSection{
			{Title: "Executive Summary", Bullets: []string{"scope", "timeline"}},
		},
		Evidence: []api.EvidenceCandidate{
			{ID: "ev-1", Excerpt: "certified to ISO 27001", Location: "chars 120-480"},
		},
	}

	due := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	trackedKey := refkey.Derive(jobID, model.WorkItemTypeRequirement, "Provide ISO 27001 evidence", string(api.RequirementMust))
	overlay := export.BuildOverlayIndex(model.WorkItemList{
		{
			JobID:    jobID,
			ItemType: model.WorkItemTypeRequirement,
			RefKey:   trackedKey,
			Owner:    "Maria",
			Status:   model.WorkItemStatusDoing,
			DueDate:  &due,
			Notes:    "waiting on the security team",
		},
	})

	return &export.ExportData{Job: job, Analysis: analysis, Overlay: overlay}
}

func parseCSV(t *testing.T, raw string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRenderRequirementsJoinsOverlay(t *testing.T) {
	data := exportFixture(t)

	out, err := export.NewRenderer().Render(export.ExportTypeRequirements, data)
	require.NoError(t, err)

	rows := parseCSV(t, out)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Ref Key", "Level", "Requirement", "Owner", "Status", "Due Date", "Notes", "Evidence IDs", "Evidence Locations"}, rows[0])

	tracked := rows[1]
	require.Len(t, tracked[0], refkey.KeyLength)
	require.Equal(t, "MUST", tracked[1])
	require.Equal(t, "Provide ISO 27001 evidence", tracked[2])
	require.Equal(t, "Maria", tracked[3])
	require.Equal(t, "doing", tracked[4])
	require.Equal(t, "2026-04-15", tracked[5])
	require.Equal(t, "waiting on the security team", tracked[6])
	require.Equal(t, "ev-1", tracked[7])
	require.Equal(t, "chars 120-480", tracked[8])
}

func TestRenderRequirementsWithoutOverlayHasEmptyTrackingColumns(t *testing.T) {
	data := exportFixture(t)

	out, err := export.NewRenderer().Render(export.ExportTypeRequirements, data)
	require.NoError(t, err)

	rows := parseCSV(t, out)
	untracked := rows[2]
	require.Len(t, untracked[0], refkey.KeyLength)
	require.Equal(t, "Offer a sandbox environment", untracked[2])
	require.Empty(t, untracked[3])
	require.Empty(t, untracked[4])
	require.Empty(t, untracked[5])
	require.Empty(t, untracked[6])
}

func TestRenderRisks(t *testing.T) {
	data := exportFixture(t)

	out, err := export.NewRenderer().Render(export.ExportTypeRisks, data)
	require.NoError(t, err)

	rows := parseCSV(t, out)
	require.Len(t, rows, 2)
	require.Equal(t, "high", rows[1][1])
	require.Equal(t, "Vendor lock-in", rows[1][2])
	require.Equal(t, "Proprietary export format", rows[1][3])
}

func TestRenderClarificationsAndOutline(t *testing.T) {
	data := exportFixture(t)
	renderer := export.NewRenderer()

	out, err := renderer.Render(export.ExportTypeClarifications, data)
	require.NoError(t, err)
	rows := parseCSV(t, out)
	require.Len(t, rows, 2)
	require.Equal(t, "Is the deadline extendable?", rows[1][1])

	out, err = renderer.Render(export.ExportTypeOutline, data)
	require.NoError(t, err)
	rows = parseCSV(t, out)
	require.Len(t, rows, 2)
	require.Equal(t, "Executive Summary", rows[1][1])
	require.Equal(t, "scope; timeline", rows[1][2])
}

func TestRenderOverviewCounts(t *testing.T) {
	data := exportFixture(t)

	out, err := export.NewRenderer().Render(export.ExportTypeOverview, data)
	require.NoError(t, err)
	require.Contains(t, out, "City Hall RFP")
	require.Contains(t, out, "Requirements,2")
	require.Contains(t, out, "Risks,1")
	require.Contains(t, out, "Tracked Work Items,1")
}

func TestRenderUnknownType(t *testing.T) {
	_, err := export.NewRenderer().Render(export.ExportType("pdf"), exportFixture(t))
	require.Error(t, err)
}

func TestRenderIsDeterministic(t *testing.T) {
	data := exportFixture(t)
	renderer := export.NewRenderer()

	first, err := renderer.Render(export.ExportTypeRequirements, data)
	require.NoError(t, err)
	second, err := renderer.Render(export.ExportTypeRequirements, data)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestValidType(t *testing.T) {
	for _, allowed := range export.AllowedTypes() {
		require.True(t, export.ValidType(allowed))
	}
	require.False(t, export.ValidType("pdf"))
	require.False(t, export.ValidType(""))
}
