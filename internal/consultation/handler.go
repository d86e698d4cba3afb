package consultation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the conversation service over HTTP. This is transport for
// the external conversational session, not a public API product.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type StartConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	id, welcome := h.svc.StartConversation()

	writeJSON(w, StartConversationResponse{
		ConversationID: id.String(),
		Message:        welcome,
	})
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(req.ConversationID)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	reply, err := h.svc.ProcessUtterance(r.Context(), id, req.Text)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			http.Error(w, "Conversation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Processing failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, ChatResponse{Response: reply})
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	snap, ok := h.svc.Snapshot(id)
	if !ok {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}

	writeJSON(w, snap)
}

func (h *Handler) EndConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	if !h.svc.Discard(id) {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/consultation", h.StartConversation)
	r.Post("/consultation/chat", h.HandleChat)
	r.Get("/consultation/{id}", h.GetConversation)
	r.Delete("/consultation/{id}", h.EndConversation)
}
