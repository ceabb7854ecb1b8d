package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/auth"
	"github.com/tenderdesk/rfp-analyzer/internal/service"
)

type JobReply struct {
	api.Job
}

func (j JobReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type JobListReply struct {
	Jobs api.JobList `json:"jobs"`
}

func (j JobListReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type JobResultReply struct {
	api.JobResult
}

func (j JobResultReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ProcessReply struct {
	Ok     bool   `json:"ok"`
	Status string `json:"status"`
}

func (p ProcessReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type RetryReply struct {
	Ok bool `json:"ok"`
}

func (p RetryReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	var request api.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobSrv.CreateJob(r.Context(), &request, user)
	if err != nil {
		zap.S().Named("job_handler").Errorf("failed to create job: %s", err)
		renderError(w, r, http.StatusInternalServerError, "failed to create job")
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, JobReply{Job: *job})
}

func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobID, ok := jobIDFromRequest(w, r)
	if !ok {
		return
	}

	job, err := h.jobSrv.GetJob(r.Context(), jobID, user)
	if err != nil {
		renderJobError(w, r, err)
		return
	}

	_ = render.Render(w, r, JobReply{Job: *job})
}

func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobs, err := h.jobSrv.ListJobs(r.Context(), user)
	if err != nil {
		zap.S().Named("job_handler").Errorf("failed to list jobs: %s", err)
		renderError(w, r, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	_ = render.Render(w, r, JobListReply{Jobs: jobs})
}

func (h *ServiceHandler) GetJobResult(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobID, ok := jobIDFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.jobSrv.GetJobResult(r.Context(), jobID, user)
	if err != nil {
		renderJobError(w, r, err)
		return
	}

	_ = render.Render(w, r, JobResultReply{JobResult: *result})
}

// ProcessJob is the privileged trigger. It claims the job and processes it
// synchronously; repeated deliveries for the same job are reported as their
// existing terminal or in-flight state.
func (h *ServiceHandler) ProcessJob(w http.ResponseWriter, r *http.Request) {
	var request api.ProcessJobRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.JobId == nil {
		renderError(w, r, http.StatusBadRequest, "job_id is required")
		return
	}

	outcome, err := h.jobSrv.Process(r.Context(), *request.JobId)
	if err != nil {
		switch err.(type) {
		case *service.ErrJobNotFound:
			renderError(w, r, http.StatusNotFound, err.Error())
		default:
			zap.S().Named("job_handler").Errorf("failed to process job %s: %s", request.JobId, err)
			renderError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	_ = render.Render(w, r, ProcessReply{Ok: true, Status: string(outcome)})
}

func (h *ServiceHandler) RetryJob(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobID, ok := jobIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.jobSrv.Retry(r.Context(), jobID, user); err != nil {
		switch err.(type) {
		case *service.ErrRetryNotAllowed:
			renderError(w, r, http.StatusConflict, err.Error())
		default:
			renderJobError(w, r, err)
		}
		return
	}

	_ = render.Render(w, r, RetryReply{Ok: true})
}

func jobIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid job id")
		return uuid.UUID{}, false
	}
	return jobID, true
}

func renderJobError(w http.ResponseWriter, r *http.Request, err error) {
	switch err.(type) {
	case *service.ErrJobNotFound, *service.ErrJobAccessForbidden:
		renderError(w, r, http.StatusNotFound, err.Error())
	case *service.ErrResultNotFound:
		renderError(w, r, http.StatusNotFound, err.Error())
	default:
		zap.S().Named("job_handler").Errorf("request failed: %s", err)
		renderError(w, r, http.StatusInternalServerError, "internal error")
	}
}
