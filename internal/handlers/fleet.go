package handlers

import (
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-simulator/internal/hub"
	"github.com/ukydev/fleet-simulator/internal/middleware"
)

const writeWait = 10 * time.Second

// Registry is the part of the broadcast hub the handlers use.
type Registry interface {
	Subscribe(sub hub.Subscriber) hub.Handle
	Unsubscribe(id hub.Handle)
	Count() int
}

// wsSubscriber serializes writes to one websocket connection.
type wsSubscriber struct {
	mu   sync.Mutex
	conn *ws.Conn
}

func (s *wsSubscriber) Send(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(ws.TextMessage, msg)
}

// FleetHandler upgrades /fleet requests and streams every broadcast to the
// client until it disconnects.
type FleetHandler struct {
	registry Registry
	upgrader ws.Upgrader
}

func NewFleetHandler(registry Registry) *FleetHandler {
	return &FleetHandler{
		registry: registry,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *FleetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		log.WithError(err).WithField("ip", middleware.RemoteIP(r)).Debug("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	id := h.registry.Subscribe(&wsSubscriber{conn: conn})
	logger := log.WithFields(log.Fields{
		"session": id,
		"ip":      middleware.RemoteIP(r),
	})
	logger.Debug("WebSocket session opened")

	// Inbound frames carry nothing; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.registry.Unsubscribe(id)
	logger.Debug("WebSocket session closed")
}
