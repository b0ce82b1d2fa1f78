package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	pkglogger "github.com/pickboard/pickboard-backend/pkg/logger"
)

// FeedChannel is the redis pub/sub channel shared by all instances
const FeedChannel = "pickboard:feed"

var connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "pickboard_ws_clients",
	Help: "Number of connected live feed clients",
})

// Event is a live feed message sent to every client
type Event struct {
	Type    string      `json:"type"`    // "post_created", "like_updated", ...
	Payload interface{} `json:"payload"` // event-specific data
}

// Hub manages WebSocket clients and broadcasts feed events to all of them
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu          sync.RWMutex
	redisClient *redis.Client
	instanceID  string
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewHub creates a new Hub. redisClient may be nil for a single instance.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan []byte, 256),
		redisClient: redisClient,
		instanceID:  uuid.New().String(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			connectedClients.Inc()

		case client := <-h.unregister:
			h.remove(client)

		case data := <-h.broadcast:
			var slow []*Client
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				h.remove(client)
			}

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		connectedClients.Dec()
	}
}

// Publish sends an event to local clients and to other instances through redis
func (h *Hub) Publish(eventType string, payload interface{}) {
	event := &Event{Type: eventType, Payload: payload}
	data, err := json.Marshal(event)
	if err != nil {
		pkglogger.Warn("ws: marshal %s event: %v", eventType, err)
		return
	}

	h.local(data)

	if h.redisClient != nil {
		msg, err := json.Marshal(&redisMessage{Origin: h.instanceID, Event: data})
		if err == nil {
			h.redisClient.Publish(h.ctx, FeedChannel, msg) //nolint:errcheck
		}
	}
}

func (h *Hub) local(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		pkglogger.Warn("ws: broadcast queue full, dropping event")
	}
}

type redisMessage struct {
	Origin string          `json:"origin"`
	Event  json.RawMessage `json:"event"`
}

// subscribeRedis relays events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, FeedChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil || rm.Origin == h.instanceID {
				continue
			}
			h.local(rm.Event)
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
