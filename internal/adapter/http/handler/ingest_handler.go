package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditapproval/internal/adapter/http/dto"
	"github.com/iho/creditapproval/internal/domain"
)

// IngestService defines the behavior needed by IngestHandler.
type IngestService interface {
	Dispatch(ctx context.Context, kind domain.IngestKind) (*domain.IngestJob, error)
	GetJob(ctx context.Context, id string) (*domain.IngestJob, error)
}

// IngestHandler queues spreadsheet loads and reports their progress.
type IngestHandler struct {
	ingestUC IngestService
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingestUC IngestService) *IngestHandler {
	return &IngestHandler{ingestUC: ingestUC}
}

// Dispatch queues an ingestion job. An empty body means "all".
func (h *IngestHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dto.IngestRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	job, err := h.ingestUC.Dispatch(r.Context(), req.IngestKind())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to queue ingestion", err.Error())
		return
	}

	w.Header().Set("Location", "/ingest/"+job.ID)
	writeJSON(w, http.StatusAccepted, dto.JobFromDomain(job))
}

// Get returns the status of an ingestion job.
func (h *IngestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "job_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job ID", "")
		return
	}

	job, err := h.ingestUC.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get job", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JobFromDomain(job))
}
