package service

import (
	"context"
	"encoding/json"
	"net/http"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/pkg/logger"
	"python_tutor_backend/pkg/monitoring"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32

	notificationChannel = "notifications"
)

const (
	NotifyAnnouncement    = "ANNOUNCEMENT"
	NotifyNewMessage      = "NEW_MESSAGE"
	NotifyMessageAnswered = "MESSAGE_ANSWERED"
	notifyPing            = "PING"
	notifyPong            = "PONG"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Notification struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// envelope travels over Redis so that every instance can deliver to its own clients.
// Empty TargetUsers and TargetRole means everyone.
type envelope struct {
	TargetUsers []uint          `json:"targetUsers,omitempty"`
	TargetRole  model.UserRole  `json:"targetRole,omitempty"`
	Payload     json.RawMessage `json:"payload"`
}

type Client struct {
	Hub     *NotificationHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	Role    model.UserRole
	Limiter *rate.Limiter
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.ctx.Done():
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		var msg Notification
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		monitoring.NotificationCounter.WithLabelValues(msg.Type, "in").Inc()

		// clients behind proxies that drop control frames keep the session alive this way
		if msg.Type == notifyPing {
			pong, _ := json.Marshal(Notification{Type: notifyPong})
			select {
			case c.Send <- pong:
			default:
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[uint]*Client
	mu      sync.RWMutex
}

// NotificationHub keeps at most one live connection per user and fans notifications out to them.
type NotificationHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	Redis      *redis.Client
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewNotificationHub(rdb *redis.Client) *NotificationHub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &NotificationHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Redis:      rdb,
		ctx:        ctx,
		cancel:     cancel,
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{clients: make(map[uint]*Client)}
	}
	return h
}

func (h *NotificationHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

func (h *NotificationHub) Run() {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(h.ctx, notificationChannel)
		defer pubsub.Close()
		go func() {
			for msg := range pubsub.Channel() {
				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					logger.Log.Error("PubSub unmarshal error", zap.Error(err))
					continue
				}
				h.deliver(env)
			}
		}()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if old, ok := s.clients[client.UserID]; ok {
				close(old.Send)
			} else {
				monitoring.OnlineClients.Inc()
			}
			s.clients[client.UserID] = client
			s.mu.Unlock()

		case client := <-h.unregister:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if current, ok := s.clients[client.UserID]; ok && current == client {
				delete(s.clients, client.UserID)
				close(client.Send)
				monitoring.OnlineClients.Dec()
			}
			s.mu.Unlock()
		}
	}
}

// Stop closes every local connection.
func (h *NotificationHub) Stop() {
	h.cancel()

	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for userID, client := range s.clients {
			close(client.Send)
			delete(s.clients, userID)
			closed++
		}
		s.mu.Unlock()
	}

	monitoring.OnlineClients.Set(0)
	logger.Log.Info("Notification hub stopped", zap.Int("closedConnections", closed))
}

func (h *NotificationHub) PushToUsers(userIDs []uint, msg Notification) {
	if len(userIDs) == 0 {
		return
	}
	h.publish(envelope{TargetUsers: userIDs}, msg)
}

// PushToRole reaches every client with the role; admins receive role-targeted notifications too.
func (h *NotificationHub) PushToRole(role model.UserRole, msg Notification) {
	h.publish(envelope{TargetRole: role}, msg)
}

func (h *NotificationHub) Broadcast(msg Notification) {
	h.publish(envelope{}, msg)
}

func (h *NotificationHub) publish(env envelope, msg Notification) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("Notification marshal error", zap.Error(err))
		return
	}
	env.Payload = payload
	monitoring.NotificationCounter.WithLabelValues(msg.Type, "out").Inc()

	if h.Redis != nil {
		data, _ := json.Marshal(env)
		err := h.Redis.Publish(h.ctx, notificationChannel, data).Err()
		if err == nil {
			return
		}
		logger.Log.Warn("Notification publish failed, delivering locally", zap.Error(err))
	}
	h.deliver(env)
}

func (h *NotificationHub) deliver(env envelope) {
	send := func(client *Client) {
		select {
		case client.Send <- env.Payload:
		default:
		}
	}

	if len(env.TargetUsers) > 0 {
		for _, id := range env.TargetUsers {
			s := h.getShard(id)
			s.mu.RLock()
			if client, ok := s.clients[id]; ok {
				send(client)
			}
			s.mu.RUnlock()
		}
		return
	}

	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for _, client := range s.clients {
			if env.TargetRole == "" || client.Role == env.TargetRole || client.Role == model.Admin {
				send(client)
			}
		}
		s.mu.RUnlock()
	}
}

func (h *NotificationHub) IsOnline(userID uint) bool {
	s := h.getShard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.clients[userID]
	return ok
}

func ServeWs(hub *NotificationHub, w http.ResponseWriter, r *http.Request, userID uint, role model.UserRole) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 64),
		UserID:  userID,
		Role:    role,
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	select {
	case hub.register <- client:
	case <-hub.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
