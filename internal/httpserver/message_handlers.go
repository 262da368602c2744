package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"interviewhub/internal/service"
)

// handleDirectHistory serves GET /api/messages/{peerID}?page=&limit=.
// The page is returned oldest-first; hasMore signals older pages.
func handleDirectHistory(reader *service.ConversationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		peerID := chi.URLParam(r, "peerID")

		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 0)

		history, err := reader.GetDirectHistory(r.Context(), currentUser.ID, peerID, page, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

type markReadRequest struct {
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
}

// handleMarkRead serves POST /api/messages/read. Only the recipient may
// acknowledge a conversation, and doing so pushes nothing live.
func handleMarkRead(reader *service.ConversationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var req markReadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.RecipientID != currentUser.ID {
			writeError(w, http.StatusForbidden, "only the recipient can mark messages read")
			return
		}
		if err := reader.MarkAsRead(r.Context(), req.SenderID, req.RecipientID); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// handleDeleteMessage serves DELETE /api/messages/{messageID}. Idempotent:
// deleting an absent id still reports success.
func handleDeleteMessage(reader *service.ConversationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "messageID")
		if err := reader.DeleteDirectMessage(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// handleSendMessage serves POST /api/messages: the REST path into the
// delivery router, for clients without an open socket.
func handleSendMessage(router *service.DeliveryRouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		msg, err := router.SendDirect(r.Context(), service.DirectSendInput{
			SenderID:    currentUser.ID,
			RecipientID: req.RecipientID,
			Content:     req.Content,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
