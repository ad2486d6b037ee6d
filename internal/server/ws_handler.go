package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const wsIdHeader = "WS-ID"

func (s *server) handleDashboardWs(w http.ResponseWriter, r *http.Request) {
	clientId := uuid.NewString()
	h := http.Header{}
	h.Add(wsIdHeader, clientId)
	conn, err := upgrader.Upgrade(w, r, h)
	if err != nil {
		s.logger.Error("Error while upgrading connection", "error", err)
		return
	}
	client := &WsClient{
		Conn:     conn,
		ID:       ClientID(clientId),
		Messages: make(chan []byte, 8),
	}
	s.wsClientHandler(client)
}

func (s *server) wsClientHandler(client *WsClient) {
	defer client.Conn.Close()

	if !s.broker.register(client) {
		return
	}
	// Remove this client from the registry when this handler exits.
	defer s.broker.unregister(client)

	go func() {
		for msgBytes := range client.Messages {
			err := client.Conn.WriteMessage(websocket.TextMessage, msgBytes)
			if err != nil {
				s.logger.Error("failed to write ws msg", "error", err)
				break
			}
		}
	}()

	for {
		_, _, err := client.Conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Error("error reading ws msg", "error", err)
			}
			break
		}
	}
}
