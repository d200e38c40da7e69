package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// MemberFunc reports which member owns the request, if any.
type MemberFunc func(r *http.Request) string

// Handler upgrades requests to WebSocket connections served by hub.
// originPatterns lists extra allowed origins; same-origin is always allowed.
func Handler(hub *Hub, logger *slog.Logger, originPatterns []string, member MemberFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{OriginPatterns: originPatterns})
		if err != nil {
			logger.Warn("accept websocket", "error", err, "remote", r.RemoteAddr)
			return
		}
		defer conn.CloseNow()

		var who string
		if member != nil {
			who = member(r)
		}
		NewClient(hub, conn, who).Run(r.Context())
	}
}
