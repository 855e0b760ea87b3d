package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/CrowderSoup/todo-group-api/services"
)

// EventsHandler upgrades authenticated clients to a websocket and feeds them
// mutation events from the hub.
type EventsHandler struct {
	authService *services.AuthService
	hub         *services.Hub
	upgrader    websocket.Upgrader
}

func NewEventsHandler(authService *services.AuthService, hub *services.Hub) *EventsHandler {
	return &EventsHandler{
		authService: authService,
		hub:         hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve authenticates the request and upgrades it. Browsers cannot set
// headers on websocket dials, so the token may also come in as ?token=.
func (h *EventsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header missing")
			return
		}
		authParts := strings.Split(authHeader, " ")
		if len(authParts) != 2 || authParts[0] != "Bearer" {
			respondError(w, http.StatusForbidden, "Invalid token")
			return
		}
		tokenString = authParts[1]
	}

	claims, err := h.authService.VerifyToken(tokenString)
	if err != nil {
		respondError(w, http.StatusForbidden, "Invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "err", err)
		return
	}

	client := &services.Client{
		Hub:   h.hub,
		Conn:  conn,
		Send:  make(chan []byte, 256),
		Email: claims.Email,
	}
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
