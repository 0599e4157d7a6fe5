package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/jaylee-quant/divscan/internal/collector"
	"github.com/jaylee-quant/divscan/pkg/logger"
)

// Stream fans collection/analysis progress events out to websocket
// subscribers. Slow or dead subscribers are dropped, never block a run.
type Stream struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewStream creates a new progress stream
func NewStream(log *logger.Logger) *Stream {
	return &Stream{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The stream is read-only telemetry
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log.WithField("module", "stream"),
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the connection and keeps it registered until the
// client goes away.
// GET /api/stream
func (s *Stream) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	count := len(s.conns)
	s.mu.Unlock()

	s.logger.WithField("subscribers", count).Debug("Stream subscriber connected")

	// Drain incoming frames; the read loop also detects disconnects
	go func() {
		defer s.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish sends a progress event to every subscriber
func (s *Stream) Publish(ev collector.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

// Close drops all subscribers
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		conn.Close()
		delete(s.conns, conn)
	}
}

func (s *Stream) remove(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conns[conn]; ok {
		conn.Close()
		delete(s.conns, conn)
	}
}
