package ws

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"interviewhub/internal/domain"
	"interviewhub/internal/service"
)

// inboundFrame is the union of all client-to-server events. Type selects
// which fields matter.
type inboundFrame struct {
	Type string `json:"type"`

	UserID      string `json:"userId"`      // register
	RecipientID string `json:"recipientId"` // send_message
	GroupID     string `json:"groupId"`     // send_group_message
	Content     string `json:"content"`     // send_message, send_group_message
	To          string `json:"to"`          // typing

	// Accepted for wire compatibility, ignored: the server resolves the
	// sender's display name and assigns every timestamp itself.
	SenderName string `json:"senderName,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func normalizeAllowedOrigins(origins []string) map[string]struct{} {
	res := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		o := strings.TrimSpace(strings.ToLower(origin))
		if o != "" {
			res[o] = struct{}{}
		}
	}
	return res
}

func makeCheckOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowed := normalizeAllowedOrigins(allowedOrigins)
	if len(allowed) == 0 {
		return func(r *http.Request) bool {
			return false
		}
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(strings.ToLower(r.Header.Get("Origin")))
		if origin == "" {
			return false
		}
		if _, ok := allowed[origin]; ok {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		normalized := strings.ToLower(fmt.Sprintf("%s://%s", u.Scheme, u.Host))
		_, ok := allowed[normalized]
		return ok
	}
}

// MakeHandler returns the HTTP handler for the /ws endpoint.
//
// Per-connection lifecycle: Connected (anonymous) -> Identified -> Closed.
// The first frame must be `register`; it resolves the claimed identity,
// registers the connection and joins the caller to every group it belongs
// to. After that the read loop dispatches:
//   - send_message        -> persist + push to recipient and sender echo
//   - send_group_message  -> persist + fan out to the group room
//   - typing              -> forward to the recipient if connected
func MakeHandler(
	hub *Hub,
	users domain.UserRepository,
	groups domain.GroupRepository,
	router *service.DeliveryRouter,
	allowedOrigins []string,
	sendQueueSize int,
	log zerolog.Logger,
) http.HandlerFunc {
	checkOrigin := makeCheckOrigin(allowedOrigins)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !checkOrigin(r) {
			http.Error(w, "origin not allowed", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx := r.Context()
		var client *Client
		defer func() {
			if client != nil {
				hub.Unregister(client)
			}
		}()

		for {
			var frame inboundFrame
			if err := conn.ReadJSON(&frame); err != nil {
				break
			}

			// Anonymous connections may only identify themselves.
			if client == nil && frame.Type != "register" {
				_ = conn.WriteJSON(errorEvent{Type: "error", Message: "register first"})
				continue
			}

			switch frame.Type {

			case "register":
				if client != nil {
					if frame.UserID == client.UserID {
						continue
					}
					// One identification per connection.
					client.Send(errorEvent{Type: "error", Message: "already registered"})
					return
				}
				user, err := users.GetByID(ctx, frame.UserID)
				if err != nil {
					_ = conn.WriteJSON(errorEvent{Type: "error", Message: "unknown user"})
					return
				}

				client = NewClient(user.ID, conn, sendQueueSize, log)
				hub.Register(client)

				memberships, err := groups.GroupsOf(ctx, user.ID)
				if err != nil {
					log.Error().Err(err).Str("user_id", user.ID).Msg("resolve group memberships")
				}
				groupIDs := make([]string, 0, len(memberships))
				for _, g := range memberships {
					groupIDs = append(groupIDs, g.ID)
				}
				hub.JoinGroups(client, groupIDs)

				go client.WritePump()

			case "send_message":
				_, err := router.SendDirect(ctx, service.DirectSendInput{
					SenderID:    client.UserID,
					RecipientID: frame.RecipientID,
					Content:     frame.Content,
				})
				if err != nil {
					log.Warn().Err(err).Str("user_id", client.UserID).Msg("direct send rejected")
					client.Send(errorEvent{Type: "error", Message: "failed to send message"})
				}

			case "send_group_message":
				_, err := router.SendGroup(ctx, service.GroupSendInput{
					SenderID: client.UserID,
					GroupID:  frame.GroupID,
					Content:  frame.Content,
				})
				if err != nil {
					log.Warn().Err(err).Str("user_id", client.UserID).Msg("group send rejected")
					client.Send(errorEvent{Type: "error", Message: "failed to send group message"})
				}

			case "typing":
				router.Typing(client.UserID, frame.To)

			default:
				log.Debug().Str("type", frame.Type).Str("user_id", client.UserID).Msg("unknown ws event")
			}
		}
	}
}
