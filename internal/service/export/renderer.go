// Package export joins AI findings with their overlay rows and renders flat
// CSV tables. Output is deterministic: findings keep their original list
// order and overlay state never reorders rows.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/refkey"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(exportType ExportType, data *ExportData) (string, error) {
	var csvRows [][]string

	switch exportType {
	case ExportTypeOverview:
		csvRows = r.overviewRows(data)
	case ExportTypeRequirements:
		csvRows = r.requirementRows(data)
	case ExportTypeRisks:
		csvRows = r.riskRows(data)
	case ExportTypeClarifications:
		csvRows = r.clarificationRows(data)
	case ExportTypeOutline:
		csvRows = r.outlineRows(data)
	default:
		return "", fmt.Errorf("unsupported export type: %s", exportType)
	}

	return r.convertRowsToCSV(csvRows)
}

func (r *Renderer) overviewRows(data *ExportData) [][]string {
	return [][]string{
		{"TENDER ANALYSIS OVERVIEW"},
		{""},
		{"Field", "Value"},
		{"Document", data.Job.Name},
		{"Job ID", data.Job.ID.String()},
		{"Format", data.Job.Format},
		{"Status", data.Job.Status},
		{"Created At", data.Job.CreatedAt.Format(time.RFC3339)},
		{""},
		{"Category", "Count"},
		{"Requirements", fmt.Sprintf("%d", len(data.Analysis.Requirements))},
		{"Risks", fmt.Sprintf("%d", len(data.Analysis.Risks))},
		{"Clarifications", fmt.Sprintf("%d", len(data.Analysis.Clarifications))},
		{"Outline Sections", fmt.Sprintf("%d", len(data.Analysis.Outline))},
		{"Evidence Excerpts", fmt.Sprintf("%d", len(data.Analysis.Evidence))},
		{"Tracked Work Items", fmt.Sprintf("%d", len(data.Overlay))},
	}
}

func (r *Renderer) requirementRows(data *ExportData) [][]string {
	csvRows := [][]string{
		{"Ref Key", "Level", "Requirement", "Owner", "Status", "Due Date", "Notes", "Evidence IDs", "Evidence Locations"},
	}

	for _, req := range data.Analysis.Requirements {
		key := refkey.Derive(data.Job.ID, model.WorkItemTypeRequirement, req.Text, string(req.Level))
		overlay := data.Overlay[OverlayKey{ItemType: model.WorkItemTypeRequirement, RefKey: key}]

		csvRows = append(csvRows, []string{
			key,
			string(req.Level),
			req.Text,
			overlay.Owner,
			overlay.Status,
			formatDueDate(overlay.DueDate),
			overlay.Notes,
			strings.Join(req.EvidenceIDs, " "),
			evidenceLocations(data.Analysis, req.EvidenceIDs),
		})
	}

	return csvRows
}

func (r *Renderer) riskRows(data *ExportData) [][]string {
	csvRows := [][]string{
		{"Ref Key", "Severity", "Title", "Detail", "Owner", "Status", "Due Date", "Notes", "Evidence IDs", "Evidence Locations"},
	}

	for _, risk := range data.Analysis.Risks {
		key := refkey.Derive(data.Job.ID, model.WorkItemTypeRisk, risk.Title, string(risk.Severity))
		overlay := data.Overlay[OverlayKey{ItemType: model.WorkItemTypeRisk, RefKey: key}]

		csvRows = append(csvRows, []string{
			key,
			string(risk.Severity),
			risk.Title,
			risk.Detail,
			overlay.Owner,
			overlay.Status,
			formatDueDate(overlay.DueDate),
			overlay.Notes,
			strings.Join(risk.EvidenceIDs, " "),
			evidenceLocations(data.Analysis, risk.EvidenceIDs),
		})
	}

	return csvRows
}

func (r *Renderer) clarificationRows(data *ExportData) [][]string {
	csvRows := [][]string{
		{"Ref Key", "Question", "Owner", "Status", "Due Date", "Notes"},
	}

	for _, c := range data.Analysis.Clarifications {
		key := refkey.Derive(data.Job.ID, model.WorkItemTypeClarification, c.Question)
		overlay := data.Overlay[OverlayKey{ItemType: model.WorkItemTypeClarification, RefKey: key}]

		csvRows = append(csvRows, []string{
			key,
			c.Question,
			overlay.Owner,
			overlay.Status,
			formatDueDate(overlay.DueDate),
			overlay.Notes,
		})
	}

	return csvRows
}

func (r *Renderer) outlineRows(data *ExportData) [][]string {
	csvRows := [][]string{
		{"Ref Key", "Section", "Bullets", "Owner", "Status", "Due Date", "Notes"},
	}

	for _, s := range data.Analysis.Outline {
		key := refkey.Derive(data.Job.ID, model.WorkItemTypeOutline, s.Title)
		overlay := data.Overlay[OverlayKey{ItemType: model.WorkItemTypeOutline, RefKey: key}]

		csvRows = append(csvRows, []string{
			key,
			s.Title,
			strings.Join(s.Bullets, "; "),
			overlay.Owner,
			overlay.Status,
			formatDueDate(overlay.DueDate),
			overlay.Notes,
		})
	}

	return csvRows
}

func evidenceLocations(analysis api.Analysis, evidenceIDs []string) string {
	var locations []string
	for _, id := range evidenceIDs {
		for _, ev := range analysis.Evidence {
			if ev.ID == id && ev.Location != "" {
				locations = append(locations, ev.Location)
			}
		}
	}
	return strings.Join(locations, " ")
}

func formatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func (r *Renderer) convertRowsToCSV(csvRows [][]string) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, row := range csvRows {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buf.String(), nil
}
