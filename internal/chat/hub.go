package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/careline-api/internal/models"
)

const (
	EventJoin             = "join"
	EventGetPrevious      = "get-previous-messages"
	EventPrivateMessage   = "private-message"
	EventPreviousMessages = "previous-messages"
	EventReceiveMessage   = "receive-message"
	EventError            = "error"
)

type Options struct {
	BatchSize     int
	BatchInterval time.Duration
	// DrainTimeout bounds the final flush on shutdown.
	DrainTimeout time.Duration
}

func (o *Options) defaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.BatchInterval <= 0 {
		o.BatchInterval = 5 * time.Second
	}
	if o.DrainTimeout <= 0 {
		o.DrainTimeout = 10 * time.Second
	}
}

// Hub owns the participant registry and the write-behind queue of one
// instance. Messages reach other instances through the Broadcaster.
type Hub struct {
	id    string
	store Store
	bc    Broadcaster
	log   zerolog.Logger
	opts  Options
	nowFn func() time.Time

	mu      sync.RWMutex
	clients map[string]*Client

	queueMu sync.Mutex
	queue   []Message
}

// NewHub wires a hub. bc may be nil for a single instance deployment.
func NewHub(store Store, bc Broadcaster, log zerolog.Logger, opts Options) *Hub {
	opts.defaults()
	return &Hub{
		id:      uuid.NewString(),
		store:   store,
		bc:      bc,
		log:     log.With().Str("component", "chat").Logger(),
		opts:    opts,
		nowFn:   time.Now,
		clients: make(map[string]*Client),
	}
}

func (h *Hub) ID() string {
	return h.id
}

// ======================================================
// Registry
// ======================================================

// Register binds participantID to c. The latest registration wins.
func (h *Hub) Register(participantID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[participantID] = c
}

// Unregister drops every participant bound to c.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, registered := range h.clients {
		if registered == c {
			delete(h.clients, id)
			h.log.Debug().Str("participant", id).Msg("participant disconnected")
		}
	}
}

func (h *Hub) Lookup(participantID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[participantID]
	return c, ok
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ======================================================
// Events
// ======================================================

type conversation struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
}

// Dispatch routes one inbound event from c.
func (h *Hub) Dispatch(ctx context.Context, c *Client, event string, data json.RawMessage) {
	switch event {
	case EventJoin:
		h.join(ctx, c, data)
	case EventGetPrevious:
		var conv conversation
		if err := json.Unmarshal(data, &conv); err != nil || conv.PatientID == "" || conv.DoctorID == "" {
			c.Emit(EventError, errorPayload("patientId and doctorId are required"))
			return
		}
		h.sendHistory(ctx, c, conv.PatientID, conv.DoctorID, "Failed to load conversation history")
	case EventPrivateMessage:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil || msg.Sender == "" || msg.Receiver == "" {
			c.Emit(EventError, errorPayload("sender and receiver are required"))
			return
		}
		h.PrivateMessage(ctx, msg)
	default:
		c.Emit(EventError, errorPayload("unknown event "+event))
	}
}

// join accepts either a bare participant id or {patientId, doctorId}.
func (h *Hub) join(ctx context.Context, c *Client, data json.RawMessage) {
	var participant string
	var conv conversation

	if err := json.Unmarshal(data, &participant); err != nil {
		if err := json.Unmarshal(data, &conv); err != nil {
			c.Emit(EventError, errorPayload("invalid join payload"))
			return
		}
		participant = conv.PatientID
	}
	if participant == "" {
		c.Emit(EventError, errorPayload("participant id is required"))
		return
	}

	h.Register(participant, c)
	h.log.Debug().Str("participant", participant).Msg("participant joined")

	h.sendHistory(ctx, c, participant, conv.DoctorID, "Failed to load previous messages")
}

// sendHistory emits the conversation between a and b, or every message
// of a when b is empty.
func (h *Hub) sendHistory(ctx context.Context, c *Client, a, b, failure string) {
	var (
		msgs []models.Message
		err  error
	)
	if b != "" {
		msgs, err = h.store.ChatHistory(ctx, ChatID(a, b))
	} else {
		msgs, err = h.store.ParticipantHistory(ctx, a)
	}
	if err != nil {
		h.log.Error().Err(err).Str("participant", a).Msg("load chat history")
		c.Emit(EventError, errorPayload(failure))
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	c.Emit(EventPreviousMessages, msgs)
}

// PrivateMessage delivers locally, fans out to other instances and
// queues the message for persistence. Delivery is best effort.
func (h *Hub) PrivateMessage(ctx context.Context, msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = h.nowFn()
	}

	h.Deliver(msg)

	if h.bc != nil {
		if err := h.bc.Publish(ctx, Envelope{Origin: h.id, Message: msg}); err != nil {
			h.log.Warn().Err(err).Msg("publish chat message")
		}
	}

	h.Enqueue(msg)
}

// Deliver pushes msg to its receiver if connected here. An offline
// receiver is not an error.
func (h *Hub) Deliver(msg Message) bool {
	c, ok := h.Lookup(msg.Receiver)
	if !ok {
		return false
	}
	return c.Emit(EventReceiveMessage, Received{
		Sender:     msg.Sender,
		Message:    msg.Message,
		FileURL:    msg.FileURL,
		FileType:   msg.FileType,
		Timestamp:  h.nowFn(),
		SenderName: msg.SenderName,
		PatientID:  msg.PatientID,
	})
}

func (h *Hub) handleRemote(env Envelope) {
	if env.Origin == h.id {
		return
	}
	h.Deliver(env.Message)
}

func errorPayload(message string) map[string]string {
	return map[string]string{"message": message}
}

// ======================================================
// Write-behind queue
// ======================================================

func (h *Hub) Enqueue(msg Message) {
	h.queueMu.Lock()
	defer h.queueMu.Unlock()
	h.queue = append(h.queue, msg)
}

func (h *Hub) Pending() int {
	h.queueMu.Lock()
	defer h.queueMu.Unlock()
	return len(h.queue)
}

func (h *Hub) take(n int) []Message {
	h.queueMu.Lock()
	defer h.queueMu.Unlock()
	if n > len(h.queue) {
		n = len(h.queue)
	}
	batch := make([]Message, n)
	copy(batch, h.queue[:n])
	h.queue = h.queue[n:]
	return batch
}

func (h *Hub) requeue(msgs []Message) {
	if len(msgs) == 0 {
		return
	}
	h.queueMu.Lock()
	defer h.queueMu.Unlock()
	h.queue = append(append([]Message{}, msgs...), h.queue...)
}

// Flush persists up to one batch in FIFO order and returns how many were
// written. A failed message is dropped; the rest of its batch goes back
// to the front of the queue for the next cycle.
func (h *Hub) Flush(ctx context.Context) int {
	batch := h.take(h.opts.BatchSize)
	saved := 0

	for i, msg := range batch {
		if err := ctx.Err(); err != nil {
			h.requeue(batch[i:])
			return saved
		}
		if err := h.store.SaveMessage(ctx, msg); err != nil {
			h.log.Error().
				Err(err).
				Str("chat_id", ChatID(msg.Sender, msg.Receiver)).
				Msg("persist chat message, dropping")
			h.requeue(batch[i+1:])
			return saved
		}
		saved++
	}

	if saved > 0 {
		h.log.Debug().Int("saved", saved).Msg("chat batch persisted")
	}
	return saved
}

// Run drives the flush loop and the cross-instance subscriber until ctx
// is cancelled, then drains the queue.
func (h *Hub) Run(ctx context.Context) error {
	if h.bc != nil {
		go func() {
			if err := h.bc.Subscribe(ctx, h.handleRemote); err != nil && ctx.Err() == nil {
				h.log.Error().Err(err).Msg("chat subscriber stopped")
			}
		}()
	}

	ticker := time.NewTicker(h.opts.BatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.drain()
			return nil
		case <-ticker.C:
			h.Flush(ctx)
		}
	}
}

func (h *Hub) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), h.opts.DrainTimeout)
	defer cancel()

	for h.Pending() > 0 && ctx.Err() == nil {
		h.Flush(ctx)
	}
	if n := h.Pending(); n > 0 {
		h.log.Warn().Int("pending", n).Msg("chat queue not fully drained")
	}
}
