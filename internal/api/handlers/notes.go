package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/macrolog-ai/macrolog/internal/api"
	"github.com/macrolog-ai/macrolog/internal/domain"
)

type NoteService interface {
	ListNotes(ctx context.Context) ([]*domain.Note, error)
	AddNote(ctx context.Context, text string) (*domain.Note, error)
	DeleteNote(ctx context.Context, id int) error
}

type ContextService interface {
	BuildContext(ctx context.Context, text string) (string, error)
}

type NoteHandler struct {
	svc      NoteService
	contexts ContextService
}

func NewNoteHandler(svc NoteService, contexts ContextService) *NoteHandler {
	return &NoteHandler{svc: svc, contexts: contexts}
}

type AddNoteRequest struct {
	Text string `json:"text"`
}

type NoteResponse struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Name string `json:"name"`
}

func noteToResponse(n *domain.Note) NoteResponse {
	return NoteResponse{ID: n.ID, Text: n.Text, Name: n.Name}
}

type BuildContextRequest struct {
	Text string `json:"text"`
}

type BuildContextResponse struct {
	Context string `json:"context"`
}

// List handles GET /notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, noteToResponse(note))
	}
	api.Success(w, http.StatusOK, out)
}

// Add handles POST /notes
func (h *NoteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.svc.AddNote(r.Context(), req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, noteToResponse(note))
}

// Delete handles DELETE /notes/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "id must be a number")
		return
	}

	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": id})
}

// BuildContext handles POST /context
func (h *NoteHandler) BuildContext(w http.ResponseWriter, r *http.Request) {
	var req BuildContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	block, err := h.contexts.BuildContext(r.Context(), req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, BuildContextResponse{Context: block})
}
