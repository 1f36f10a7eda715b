// Package stream implements an in-process pub/sub hub for broadcasting article
// lifecycle events to connected clients. Whenever a record is created, updated,
// or deleted through the API, the handlers publish an event; clients following
// the stream endpoint see the change the moment it happens, without polling.
//
// Events are routed by topic. Each article tag is a topic, and the special
// firehose topic receives every event regardless of tags — a client either
// follows one tag or follows everything.
package stream

import (
	"sync"

	"github.com/google/uuid"
)

// TopicFirehose is the catch-all topic: every published event is delivered to
// its subscribers in addition to the subscribers of the event's own topics.
const TopicFirehose = "*"

// Client represents a single connected stream consumer.
// Each open stream connection has one Client instance on the server.
type Client struct {
	ID    uuid.UUID   // Unique identity for this connection, useful in logs
	Topic string      // The tag this client follows, or TopicFirehose for everything
	Send  chan []byte // Buffered channel of outgoing events; the Hub writes here, the HTTP writer drains it
}

// NewClient builds a Client subscribed to the given topic with a small send
// buffer. The buffer absorbs short bursts; a client that can't keep up beyond
// that starts losing events (see the broadcast loop below).
func NewClient(topic string) *Client {
	return &Client{
		ID:    uuid.New(),
		Topic: topic,
		Send:  make(chan []byte, 16),
	}
}

// Event is a unit of data to broadcast. Topics lists every topic the event
// belongs to (typically the article's tags plus TopicFirehose); Data is the
// raw bytes to deliver (JSON-encoded article event).
type Event struct {
	Topics []string
	Data   []byte
}

// Hub manages all active stream subscriptions, grouped by topic.
// It runs in its own goroutine and processes registration, unregistration, and
// broadcast events through channels — this keeps all map mutation on a single
// goroutine, which avoids data races (concurrent map writes panic in Go).
type Hub struct {
	// clients is a nested map: topic -> set of Client pointers.
	// Using a map[*Client]bool as a "set" is a common Go idiom because Go has
	// no built-in set type.
	clients map[string]map[*Client]bool

	broadcast  chan *Event  // Incoming events to fan out to subscribers
	register   chan *Client // Signals that a new client connected and should be tracked
	unregister chan *Client // Signals that a client disconnected and should be removed

	// mu protects the clients map when broadcasts read it (RLock) while the
	// main loop modifies it (Lock). A RWMutex allows multiple concurrent
	// readers OR one exclusive writer — broadcasts only read the client sets.
	mu sync.RWMutex
}

// NewHub creates and initializes a Hub with empty channels and maps.
// The broadcast channel has a buffer of 256 so publishers don't block
// immediately if the Hub goroutine is briefly busy. register and unregister
// are unbuffered because those operations need to complete synchronously.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the Hub's main event loop. It must be called in a goroutine
// ("go hub.Run()"). It blocks forever, processing one event at a time.
func (h *Hub) Run() {
	for {
		select {

		// A new client has connected — add it to the clients map under its topic
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Topic] == nil {
				h.clients[client.Topic] = make(map[*Client]bool)
			}
			h.clients[client.Topic][client] = true
			h.mu.Unlock()

		// A client has disconnected — remove it and close its Send channel
		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.Topic]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send) // Closing the channel signals the stream writer to stop
					// Clean up the topic's map entry if no clients are left
					if len(clients) == 0 {
						delete(h.clients, client.Topic)
					}
				}
			}
			h.mu.Unlock()

		// An event arrived — deliver it to every subscriber of its topics.
		case ev := <-h.broadcast:
			h.mu.RLock()
			// An article usually carries several tags, and a client must see the
			// event at most once even if it matches more than one of them — the
			// seen set deduplicates across topics.
			seen := make(map[*Client]bool)
			for _, topic := range ev.Topics {
				for client := range h.clients[topic] {
					if seen[client] {
						continue
					}
					seen[client] = true
					select {
					case client.Send <- ev.Data:
					default:
						// Buffer full: the client is too slow. Drop this event for
						// it rather than blocking the loop for everyone else. The
						// client stays subscribed and catches later events.
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast publishes an event to all clients subscribed to any of the given
// topics. Handlers call this after a successful create/update/delete.
func (h *Hub) Broadcast(topics []string, data []byte) {
	h.broadcast <- &Event{Topics: topics, Data: data}
}

// Register adds a client to the Hub so it starts receiving events for its topic.
// Called when a stream connection is opened.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the Hub when its connection closes.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
