package api

import (
	"net/http"

	"github.com/example/artisan-market/internal/assistant"
)

// AssistantHandlers serves the shop-assistant chat over plain HTTP and
// websocket. Both transports answer through the same Responder.
type AssistantHandlers struct {
	responder  assistant.Responder
	chatServer *assistant.ChatServer
}

func NewAssistantHandlers(responder assistant.Responder) *AssistantHandlers {
	return &AssistantHandlers{
		responder:  responder,
		chatServer: assistant.NewChatServer(responder),
	}
}

// Chat answers a single message, for clients that don't hold a socket
// open.
func (h *AssistantHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.responder.Respond(r.Context(), req.Message)
	if err != nil {
		respondError(w, "assistant unavailable", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, reply)
}

// ChatSocket upgrades to a websocket chat session.
func (h *AssistantHandlers) ChatSocket(w http.ResponseWriter, r *http.Request) {
	h.chatServer.ServeWS(w, r)
}
