package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer     = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 4096
)

var (
	errObserverClosed = errors.New("observer closed")
	errObserverSlow   = errors.New("observer send buffer full")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// wsObserver queues frames for one WebSocket client. Send never blocks: a
// full queue fails the send and the hub drops the client.
type wsObserver struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newWSObserver(conn *websocket.Conn) *wsObserver {
	return &wsObserver{conn: conn, send: make(chan []byte, sendBuffer)}
}

func (o *wsObserver) Send(msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return errObserverClosed
	}
	select {
	case o.send <- msg:
		return nil
	default:
		return errObserverSlow
	}
}

func (o *wsObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.closed = true
		close(o.send)
	}
}

// writeLoop is the only writer on the connection
func (o *wsObserver) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = o.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-o.send:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = o.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := o.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := o.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleThreats(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}

	obs := newWSObserver(conn)
	s.hub.Connect(obs)
	go obs.writeLoop()
	s.log.Debug("Observer connected", map[string]interface{}{"remote": c.Request.RemoteAddr, "observers": s.hub.Len()})

	conn.SetReadLimit(maxInboundSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Inbound frames carry nothing; reading keeps control frames flowing and
	// surfaces the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.Disconnect(obs)
	s.log.Debug("Observer disconnected", map[string]interface{}{"remote": c.Request.RemoteAddr, "observers": s.hub.Len()})
}
