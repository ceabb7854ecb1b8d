package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
	"github.com/tenderdesk/rfp-analyzer/internal/auth"
)

type WorkItemReply struct {
	api.WorkItem
}

func (w WorkItemReply) Render(rw http.ResponseWriter, r *http.Request) error {
	return nil
}

type WorkItemListReply struct {
	Items api.WorkItemList `json:"items"`
}

func (w WorkItemListReply) Render(rw http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *ServiceHandler) UpsertWorkItem(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobID, ok := jobIDFromRequest(w, r)
	if !ok {
		return
	}

	var request api.UpsertWorkItemRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.workItemSrv.UpsertWorkItem(r.Context(), jobID, &request, user)
	if err != nil {
		renderJobError(w, r, err)
		return
	}

	_ = render.Render(w, r, WorkItemReply{WorkItem: *item})
}

func (h *ServiceHandler) ListWorkItems(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobID, ok := jobIDFromRequest(w, r)
	if !ok {
		return
	}

	itemType := r.URL.Query().Get("item_type")
	refKeyPrefix := r.URL.Query().Get("ref_key_prefix")

	items, err := h.workItemSrv.ListWorkItems(r.Context(), jobID, itemType, refKeyPrefix, user)
	if err != nil {
		renderJobError(w, r, err)
		return
	}

	_ = render.Render(w, r, WorkItemListReply{Items: items})
}
