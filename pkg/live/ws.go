package live

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 16
)

// pushMessage is the frame sent on every committed transition.
type pushMessage struct {
	Type     string     `json:"type"`
	State    *stateJSON `json:"state"`
	Previous *stateJSON `json:"previous,omitempty"`
}

func marshalPush(ev router.TransitionEvent) ([]byte, error) {
	return json.Marshal(pushMessage{
		Type:     "transition",
		State:    toStateJSON(ev.ToState),
		Previous: toStateJSON(ev.FromState),
	})
}

// client is one WebSocket subscriber. Writes go through a buffered
// channel; a slow client that fills it gets disconnected rather than
// blocking the broadcast.
type client struct {
	conn *websocket.Conn
	out  chan []byte
	quit chan struct{}
}

func (c *client) send(payload []byte) {
	select {
	case c.out <- payload:
	default:
		c.close()
	}
}

func (c *client) close() {
	select {
	case <-c.quit:
	default:
		close(c.quit)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade", "error", err)
		return
	}
	c := &client{
		conn: conn,
		out:  make(chan []byte, sendBufferSize),
		quit: make(chan struct{}),
	}
	s.addClient(c)

	// Snapshot the current state first so a client never renders blind.
	if st := s.router.GetState(); st != nil {
		if payload, err := json.Marshal(pushMessage{Type: "state", State: toStateJSON(st)}); err == nil {
			c.send(payload)
		}
	}

	go s.writeLoop(c)
	go s.readLoop(c)
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		s.removeClient(c)
	}()
	for {
		select {
		case payload := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.quit:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		}
	}
}

// readLoop drains the connection. Clients may send navigate frames with
// the same shape as POST /navigate.
func (s *Server) readLoop(c *client) {
	defer c.close()
	c.conn.SetReadLimit(1 << 16)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var req navigateRequest
		if err := json.Unmarshal(payload, &req); err != nil || req.Name == "" {
			continue
		}
		s.router.Navigate(req.Name, req.Params, router.NavigationOptions{
			Replace: req.Options.Replace,
			Reload:  req.Options.Reload,
			Force:   req.Options.Force,
			Source:  "live",
		}, nil)
	}
}
