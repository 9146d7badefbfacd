package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
)

// event is one message pushed to connected clients: a content reload, a
// module status change, or a toast.
type event struct {
	Type      string    `json:"type"`
	Slug      string    `json:"slug,omitempty"`
	Message   string    `json:"message,omitempty"`
	Level     string    `json:"level,omitempty"`
	Dismiss   int64     `json:"dismissMs,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// client is one connected browser.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (s *DocServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: false,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 256),
	}

	go c.writePump(s)
	// Clients only listen; CloseRead surfaces disconnects.
	go func() {
		ctx := conn.CloseRead(context.Background())
		<-ctx.Done()
		s.unregister <- conn
	}()

	s.register <- c
}

// checkOrigin validates the request origin against the bind address and any
// configured extra origins.
func (s *DocServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	allowed := append([]string{
		s.config.Addr(),
		fmt.Sprintf("localhost:%d", s.config.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", s.config.Server.Port),
	}, s.config.Server.AllowedOrigins...)

	for _, host := range allowed {
		if originURL.Host == host {
			return true
		}
	}
	return false
}

// runHub owns the client map: registrations, disconnects, and broadcasts
// all flow through here so no lock is held during sends.
func (s *DocServer) runHub(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-s.register:
			s.clientsMutex.Lock()
			s.clients[c.conn] = c
			s.clientsMutex.Unlock()
		case conn := <-s.unregister:
			s.clientsMutex.Lock()
			if c, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				close(c.send)
			}
			s.clientsMutex.Unlock()
		case message := <-s.broadcast:
			s.clientsMutex.RLock()
			for conn, c := range s.clients {
				select {
				case c.send <- message:
				default:
					// Slow client: drop it rather than block the hub.
					conn.Close(websocket.StatusPolicyViolation, "send buffer full")
				}
			}
			s.clientsMutex.RUnlock()
		}
	}
}

func (c *client) writePump(s *DocServer) {
	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			s.unregister <- c.conn
			return
		}
	}
	c.conn.Close(websocket.StatusNormalClosure, "")
}

// broadcastEvent serializes an event and queues it for every client.
func (s *DocServer) broadcastEvent(ctx context.Context, ev event) {
	ev.Timestamp = time.Now()
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error(ctx, err, "marshal event failed", "type", ev.Type)
		return
	}
	select {
	case s.broadcast <- data:
	default:
		s.logger.Warn(ctx, nil, "broadcast queue full, dropping event", "type", ev.Type)
	}
}

func (s *DocServer) clientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}
