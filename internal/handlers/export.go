package handlers

import (
	"fmt"
	"net/http"

	"github.com/tenderdesk/rfp-analyzer/internal/auth"
	"github.com/tenderdesk/rfp-analyzer/internal/service"
)

// ExportJob streams one finding category joined with its overlay rows as a
// downloadable CSV file.
func (h *ServiceHandler) ExportJob(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobID, ok := jobIDFromRequest(w, r)
	if !ok {
		return
	}

	exportType := r.URL.Query().Get("type")

	result, err := h.exportSrv.Export(r.Context(), jobID, exportType, user)
	if err != nil {
		switch err.(type) {
		case *service.ErrInvalidExportType:
			renderError(w, r, http.StatusBadRequest, err.Error())
		default:
			renderJobError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.Content))
}
