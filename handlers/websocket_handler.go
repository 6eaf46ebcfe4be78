package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/multiplayer-tournament/brackets"
	"github.com/Dosada05/multiplayer-tournament/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub               *brackets.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
	logger            *slog.Logger
}

// NewWebSocketHandler accepts connections from the given origins; "*"
// allows any origin.
func NewWebSocketHandler(hub *brackets.Hub, ts services.TournamentService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		logger:            logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// ServeWs streams updates of one tournament. Clients connect to
// /ws/tournaments/{tournamentID}; the current state is sent right away.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	id := tournamentID(r)
	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("websocket upgrade failed", slog.String("tournament_id", id), slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.RoomFor(id),
	}
	if !client.Hub.Join(client) {
		h.logger.Warn("websocket hub stopped, dropping connection", slog.String("tournament_id", id))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.hub.SendTo(client, brackets.WebSocketMessage{
		Type:    brackets.EventTournamentUpdated,
		Payload: tournament,
		RoomID:  client.Room,
	})
}
