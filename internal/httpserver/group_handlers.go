package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"interviewhub/internal/service"
)

// handleListGroups serves GET /api/groups: the groups the current user
// belongs to.
func handleListGroups(reader *service.ConversationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		groups, err := reader.GroupsFor(r.Context(), currentUser.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, groups)
	}
}

// handleGroupHistory serves GET /api/groups/{groupID}/messages: the full
// group history, oldest first. Members only.
func handleGroupHistory(reader *service.ConversationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		groupID := chi.URLParam(r, "groupID")
		messages, err := reader.GetGroupHistory(r.Context(), currentUser.ID, groupID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messages)
	}
}

type sendGroupMessageRequest struct {
	Content string `json:"content"`
}

// handleSendGroupMessage serves POST /api/groups/{groupID}/messages. The
// REST send goes through the same delivery router as the socket path, so
// live members still receive the fan-out.
func handleSendGroupMessage(router *service.DeliveryRouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		groupID := chi.URLParam(r, "groupID")

		var req sendGroupMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		msg, err := router.SendGroup(r.Context(), service.GroupSendInput{
			SenderID: currentUser.ID,
			GroupID:  groupID,
			Content:  req.Content,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// handleDeleteGroupMessage serves DELETE /api/groups/messages/{messageID}.
func handleDeleteGroupMessage(reader *service.ConversationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "messageID")
		if err := reader.DeleteGroupMessage(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
