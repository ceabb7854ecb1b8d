package export

import (
	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

type ExportType string

const (
	ExportTypeOverview       ExportType = "overview"
	ExportTypeRequirements   ExportType = "requirements"
	ExportTypeRisks          ExportType = "risks"
	ExportTypeClarifications ExportType = "clarifications"
	ExportTypeOutline        ExportType = "outline"
)

// AllowedTypes lists the valid export type values in presentation order.
func AllowedTypes() []string {
	return []string{
		string(ExportTypeOverview),
		string(ExportTypeRequirements),
		string(ExportTypeRisks),
		string(ExportTypeClarifications),
		string(ExportTypeOutline),
	}
}

func ValidType(t string) bool {
	switch ExportType(t) {
	case ExportTypeOverview, ExportTypeRequirements, ExportTypeRisks, ExportTypeClarifications, ExportTypeOutline:
		return true
	}
	return false
}

// ExportData is everything a renderer needs: the job, its findings and the
// overlay rows indexed by (item type, ref key).
type ExportData struct {
	Job      model.Job
	Analysis api.Analysis
	Overlay  map[OverlayKey]model.WorkItem
}

type OverlayKey struct {
	ItemType string
	RefKey   string
}

// BuildOverlayIndex maps overlay rows by their (item type, ref key) pair for
// the join against recomputed finding keys.
func BuildOverlayIndex(items model.WorkItemList) map[OverlayKey]model.WorkItem {
	index := make(map[OverlayKey]model.WorkItem, len(items))
	for _, item := range items {
		index[OverlayKey{ItemType: item.ItemType, RefKey: item.RefKey}] = item
	}
	return index
}
