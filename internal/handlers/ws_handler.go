package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"fast-vote-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// wsClient implements realtime.Client by wrapping a websocket connection.
type wsClient struct {
	mu   sync.Mutex // gorilla allows at most one concurrent writer
	conn *websocket.Conn
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return false
	}
	return true
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

// PollWebSocket handles GET /ws/poll/:id
// Upgrades the connection and subscribes it to the poll's tally updates.
// A connection views exactly one poll and stays open until the client
// disconnects or a write to it fails.
func PollWebSocket(c *gin.Context) {
	pollID := c.Param("id")

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}

	client := &wsClient{conn: conn}
	if err := LiveHub.Subscribe(pollID, client); err != nil {
		// Unknown poll: reject with a policy-violation close before the
		// connection ever joins a subscriber set.
		if errors.Is(err, realtime.ErrPollNotFound) {
			msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "poll not found")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(5*time.Second))
		} else {
			log.Println("websocket subscribe error:", err)
		}
		client.Close()
		return
	}

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(30 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					// ping failed; reader loop will exit on next error
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		LiveHub.Unsubscribe(client)
		client.Close()
	}()

	// Reader loop: viewers send nothing meaningful, so inbound frames are
	// drained and discarded; disconnect is the sole termination signal.
	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			// Normal close or error; exit loop
			return
		}
	}
}
