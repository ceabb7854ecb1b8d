// Package handlers exposes the service layer over HTTP.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tenderdesk/rfp-analyzer/internal/handlers/validator"
	"github.com/tenderdesk/rfp-analyzer/internal/service"
)

type ServiceHandler struct {
	jobSrv      *service.JobService
	workItemSrv *service.WorkItemService
	exportSrv   *service.ExportService
	validator   *validator.Validator
}

func NewServiceHandler(jobSrv *service.JobService, workItemSrv *service.WorkItemService, exportSrv *service.ExportService) *ServiceHandler {
	return &ServiceHandler{
		jobSrv:      jobSrv,
		workItemSrv: workItemSrv,
		exportSrv:   exportSrv,
		validator:   validator.NewValidator(),
	}
}

// RegisterApi wires the user-facing routes. The processing trigger is
// registered separately because it carries its own privileged authenticator.
func (h *ServiceHandler) RegisterApi(router chi.Router) {
	router.Post("/api/v1/jobs", h.CreateJob)
	router.Get("/api/v1/jobs", h.ListJobs)
	router.Get("/api/v1/jobs/{id}", h.GetJob)
	router.Get("/api/v1/jobs/{id}/result", h.GetJobResult)
	router.Post("/api/v1/jobs/{id}/retry", h.RetryJob)
	router.Get("/api/v1/jobs/{id}/export", h.ExportJob)
	router.Put("/api/v1/jobs/{id}/workitems", h.UpsertWorkItem)
	router.Get("/api/v1/jobs/{id}/workitems", h.ListWorkItems)
}

// RegisterTriggerApi wires the privileged processing trigger.
func (h *ServiceHandler) RegisterTriggerApi(router chi.Router) {
	router.Post("/api/v1/jobs/process", h.ProcessJob)
}

type ErrorReply struct {
	Error string `json:"error"`
}

func (e ErrorReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	_ = render.Render(w, r, ErrorReply{Error: message})
}
