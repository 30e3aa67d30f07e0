package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// statsHub fans visitor stats out to every footer widget holding a
// websocket open, replacing the old 30 second HTTP polling.
type statsHub struct {
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	clients    map[*websocket.Conn]bool
}

func newStatsHub() *statsHub {
	h := &statsHub{
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 8),
		clients:    make(map[*websocket.Conn]bool),
	}
	go h.run()
	return h
}

func (h *statsHub) run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
		case conn := <-h.unregister:
			if h.clients[conn] {
				delete(h.clients, conn)
				conn.Close()
			}
		case payload := <-h.broadcast:
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

func (h *statsHub) push(stats visitorStats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// A full buffer means a fresher snapshot is already queued.
	}
}

var statsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleVisitorStatsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := statsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// First frame carries the current snapshot so the widget paints
	// without waiting for the next tick.
	if stats, err := s.fetchVisitorStats(r.Context()); err == nil {
		if payload, err := json.Marshal(stats); err == nil {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			_ = conn.WriteMessage(websocket.TextMessage, payload)
		}
	}

	s.statsHub.register <- conn

	// Drain reads to notice the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.statsHub.unregister <- conn
				return
			}
		}
	}()
}

func (s *Server) runStatsPushLoop() {
	interval := s.cfg.StatsPushInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		stats, err := s.fetchVisitorStats(ctx)
		cancel()
		if err != nil {
			log.Printf("visitas: error refrescando estadísticas: %v", err)
			continue
		}
		s.statsHub.push(stats)
	}
}
