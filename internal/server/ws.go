package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/bjarke-xyz/startup-dashboard/internal/dashboard"
	"github.com/bjarke-xyz/startup-dashboard/internal/metrics"
)

type ClientID string // UUID

type WsClient struct {
	Conn *websocket.Conn
	ID   ClientID
	// Messages receives broadcasts until the broker closes it.
	Messages chan []byte
}

// WsBroker fans board notifications out to every connected dashboard page.
type WsBroker struct {
	// Events are pushed to this channel by Notify
	Notifier chan []byte

	// New client connections
	newClients chan *WsClient

	// Closed client connections
	closingClients chan *WsClient

	// Client connections registry, only touched by Listen
	clients map[ClientID]*WsClient

	// Closed when Listen returns
	done chan struct{}

	logger *slog.Logger
}

func NewWsBroker(logger *slog.Logger) *WsBroker {
	return &WsBroker{
		Notifier:       make(chan []byte, 16),
		newClients:     make(chan *WsClient),
		closingClients: make(chan *WsClient),
		clients:        make(map[ClientID]*WsClient),
		done:           make(chan struct{}),
		logger:         logger,
	}
}

// Listen runs the broker until ctx is done.
func (b *WsBroker) Listen(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			for id, client := range b.clients {
				close(client.Messages)
				delete(b.clients, id)
			}
			metrics.WebsocketClients.Set(0)
			return
		case client := <-b.newClients:
			b.clients[client.ID] = client
			metrics.WebsocketClients.Set(float64(len(b.clients)))
			b.logger.Info("Client added", "clients", len(b.clients), "clientId", client.ID)
		case client := <-b.closingClients:
			if _, ok := b.clients[client.ID]; ok {
				delete(b.clients, client.ID)
				close(client.Messages)
			}
			metrics.WebsocketClients.Set(float64(len(b.clients)))
			b.logger.Info("Removed client", "clients", len(b.clients), "clientId", client.ID)
		case event := <-b.Notifier:
			for _, client := range b.clients {
				select {
				case client.Messages <- event:
				default:
					b.logger.Warn("dropping ws message for slow client", "clientId", client.ID)
				}
			}
		}
	}
}

type boardEvent struct {
	Status dashboard.Status `json:"status"`
	Query  string           `json:"query"`
	Count  int              `json:"count"`
	Error  string           `json:"error,omitempty"`
}

func (b *WsBroker) register(client *WsClient) bool {
	select {
	case b.newClients <- client:
		return true
	case <-b.done:
		return false
	}
}

func (b *WsBroker) unregister(client *WsClient) {
	select {
	case b.closingClients <- client:
	case <-b.done:
	}
}

func newBoardEvent(snap dashboard.Snapshot) boardEvent {
	ev := boardEvent{Status: snap.Status, Query: snap.Query, Count: len(snap.Apps)}
	if snap.Err != nil {
		ev.Error = snap.Err.Error()
	}
	return ev
}

// NotifyBoard queues a board transition for broadcast. It never blocks.
func (b *WsBroker) NotifyBoard(snap dashboard.Snapshot) {
	payload, err := json.Marshal(newBoardEvent(snap))
	if err != nil {
		b.logger.Error("failed to encode board event", "error", err)
		return
	}
	select {
	case b.Notifier <- payload:
	default:
		b.logger.Warn("ws notifier full, dropping board event", "status", snap.Status)
	}
}

const (
	readBuffSize  = 2 << 10
	writeBuffSize = 2 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  readBuffSize,
	WriteBufferSize: writeBuffSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
