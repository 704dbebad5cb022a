package collab

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/canvas-go/internal/auth"
)

// ServeWS upgrades GET /ws/board/{boardId} and attaches the connection to
// the board's room. When auth is enabled the token comes from the "token"
// query parameter, since browsers cannot set headers on websockets.
func ServeWS(hub *Hub, authSvc *auth.Service, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := mux.Vars(r)["boardId"]
		if !hub.boards.Exists(r.Context(), boardID) {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}

		userID := "anon-" + uuid.New().String()[:8]
		displayName := r.URL.Query().Get("name")
		if authSvc.Enabled() {
			id, err := authSvc.ValidateToken(r.URL.Query().Get("token"))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			userID = id.ClientID
			if id.Name != "" {
				displayName = id.Name
			}
		}
		if displayName == "" {
			displayName = "Anonymous"
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, userID, displayName, boardID, uuid.New().String())
		hub.Register(client)

		client.Serve(r.Context())
	}
}
