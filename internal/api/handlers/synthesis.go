package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/litsynth/internal/api/middleware"
	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/Harshitk-cp/litsynth/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxDocumentBody caps a single document upload.
const maxDocumentBody = 4 << 20

// UpdateReader reads journaled updates back. It is optional.
type UpdateReader interface {
	Updates(ctx context.Context, sessionID string) ([]domain.SynthesisUpdate, error)
}

type SynthesisHandler struct {
	svc     *service.SessionService
	history UpdateReader
	logger  *zap.Logger
}

func NewSynthesisHandler(svc *service.SessionService, history UpdateReader, logger *zap.Logger) *SynthesisHandler {
	return &SynthesisHandler{svc: svc, history: history, logger: logger}
}

type createSynthesisRequest struct {
	CreatedBy string `json:"created_by,omitempty"`
	// Config fields override the server defaults one by one.
	Config json.RawMessage `json:"config,omitempty"`
}

type processDocumentRequest struct {
	Document domain.DocumentInfo       `json:"document"`
	Findings []domain.ExtractedFinding `json:"findings"`
}

func (h *SynthesisHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSynthesisRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	createdBy := middleware.ClientFromContext(r.Context())
	if createdBy == "" {
		createdBy = req.CreatedBy
	}

	var cfg *service.EngineConfig
	if len(req.Config) > 0 {
		merged := h.svc.Defaults()
		if err := json.Unmarshal(req.Config, &merged); err != nil {
			writeError(w, http.StatusBadRequest, "invalid config")
			return
		}
		cfg = &merged
	}

	sess, err := h.svc.Create(r.Context(), createdBy, cfg)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *SynthesisHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SynthesisHandler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req processDocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Document.ID) == "" {
		writeError(w, http.StatusBadRequest, "document.id is required")
		return
	}
	for _, f := range req.Findings {
		if strings.TrimSpace(f.Text) == "" {
			writeError(w, http.StatusBadRequest, "findings must not be empty")
			return
		}
	}

	update, err := h.svc.Process(r.Context(), chi.URLParam(r, "id"), req.Findings, req.Document)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

func (h *SynthesisHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Finalize(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *SynthesisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Updates returns the journaled update history of a run. It also works for
// sessions no longer held in memory.
func (h *SynthesisHandler) Updates(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotImplemented, "journal is disabled")
		return
	}
	updates, err := h.history.Updates(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("failed to read journal", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read journal")
		return
	}
	if updates == nil {
		updates = []domain.SynthesisUpdate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"updates": updates})
}

func (h *SynthesisHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "synthesis not found")
	case errors.Is(err, domain.ErrEngineFinalized):
		writeError(w, http.StatusConflict, "synthesis already finalized")
	case errors.Is(err, domain.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmbeddingCountMismatch):
		h.logger.Error("embedding provider contract violation", zap.Error(err))
		writeError(w, http.StatusBadGateway, "embedding provider returned a mismatched batch")
	default:
		h.logger.Error("synthesis request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "synthesis failed")
	}
}
