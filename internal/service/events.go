package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const (
	EventAssessmentSaved   = "assessment.saved"
	EventAssessmentDeleted = "assessment.deleted"
	EventResponseStarted   = "response.started"
	EventResponseSubmitted = "response.submitted"
	EventResponseScored    = "response.scored"
)

// Event is the payload pushed to dashboard clients whenever an assessment or
// response changes. Clients re-fetch on receipt instead of polling.
type Event struct {
	Type         string    `json:"type"`
	AssessmentID string    `json:"assessmentId,omitempty"`
	ResponseID   string    `json:"responseId,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// EventPublisher is the write side used by the other services. Publishing is
// best-effort: a lost event means a client refreshes slightly later.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

type EventService interface {
	EventPublisher
	ServeConnection(conn *websocket.Conn)
	Start(ctx context.Context)
}

type eventService struct {
	nats    *nats.Conn
	subject string
	hub     *eventHub
	logger  zerolog.Logger
	now     func() time.Time
}

func NewEventService(natsConn *nats.Conn, subject string, logger zerolog.Logger) EventService {
	return &eventService{
		nats:    natsConn,
		subject: subject,
		hub:     newEventHub(logger),
		logger:  logger.With().Str("component", "event_service").Logger(),
		now:     time.Now,
	}
}

// Start subscribes to the NATS subject and fans incoming events out to the
// connected websocket clients. It returns once the subscription is set up;
// the subscription is torn down when ctx is cancelled.
func (s *eventService) Start(ctx context.Context) {
	if s.nats == nil {
		s.logger.Info().Msg("event stream running without nats; broadcasting locally only")
		return
	}

	sub, err := s.nats.Subscribe(s.subject, func(msg *nats.Msg) {
		s.hub.broadcast(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("subject", s.subject).Msg("failed to subscribe to event subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to unsubscribe from event subject")
		}
	}()
}

func (s *eventService) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Str("type", event.Type).Msg("failed to marshal event")
		return
	}

	if s.nats != nil {
		// The subscription loops the message back, which covers the
		// local websocket clients too.
		if err := s.nats.Publish(s.subject, payload); err != nil {
			s.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish event")
		}
		return
	}

	s.hub.broadcast(payload)
}

func (s *eventService) ServeConnection(conn *websocket.Conn) {
	client := newEventClient(conn)
	s.hub.register(client)
	defer func() {
		s.hub.unregister(client)
		client.close()
	}()

	go client.writer()

	// The read loop exists only to detect disconnects; clients never send.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

type eventHub struct {
	mu      sync.RWMutex
	clients map[*eventClient]struct{}
	logger  zerolog.Logger
}

func newEventHub(logger zerolog.Logger) *eventHub {
	return &eventHub{
		clients: make(map[*eventClient]struct{}),
		logger:  logger.With().Str("component", "event_hub").Logger(),
	}
}

func (h *eventHub) register(client *eventClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *eventHub) unregister(client *eventClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *eventHub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		case <-client.done:
		default:
			// Slow consumers drop events rather than stalling the hub.
			h.logger.Debug().Msg("dropping event for slow websocket client")
		}
	}
}

type eventClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newEventClient(conn *websocket.Conn) *eventClient {
	return &eventClient{
		conn: conn,
		send: make(chan []byte, 16),
		done: make(chan struct{}),
	}
}

func (c *eventClient) writer() {
	for {
		select {
		case payload := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *eventClient) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
