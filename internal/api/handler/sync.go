package handler

import (
	"context"
	"net/http"
	"strings"

	temporalclient "go.temporal.io/sdk/client"

	"github.com/halvard/cms/internal/api/response"
	"github.com/halvard/cms/internal/core"
	"github.com/halvard/cms/internal/model"
)

// WorkflowStarter is the slice of the Temporal client the sync handler needs.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options temporalclient.StartWorkflowOptions, workflow interface{}, args ...interface{}) (temporalclient.WorkflowRun, error)
}

type Sync struct {
	svc *core.SyncStatusService
	tc  WorkflowStarter
}

func NewSync(svc *core.SyncStatusService, tc WorkflowStarter) *Sync {
	return &Sync{svc: svc, tc: tc}
}

func (h *Sync) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.Get(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, status)
}

// Trigger starts a full sync run out of schedule. A fixed workflow ID keeps
// manual triggers from stacking on top of an already running sync.
func (h *Sync) Trigger(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.Get(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if status.Status == model.SyncRunning {
		response.WriteError(w, http.StatusConflict, "a sync is already running")
		return
	}

	run, err := h.tc.ExecuteWorkflow(r.Context(), temporalclient.StartWorkflowOptions{
		ID:        "domain-sync-manual",
		TaskQueue: "cms-tasks",
	}, "SyncDomainsWorkflow")
	if err != nil {
		if strings.Contains(err.Error(), "already started") || strings.Contains(err.Error(), "AlreadyStarted") {
			response.WriteError(w, http.StatusConflict, "a sync is already running")
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]string{
		"workflow_id": run.GetID(),
		"run_id":      run.GetRunID(),
	})
}
