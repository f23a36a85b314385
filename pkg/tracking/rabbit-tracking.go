package tracking

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-discovery/pkg/common"
	"github.com/matst80/slask-discovery/pkg/events"
	"github.com/matst80/slask-discovery/pkg/messaging"
	"github.com/matst80/slask-discovery/pkg/state"
	"github.com/matst80/slask-discovery/pkg/types"
)

const prefix = "discovery"

const (
	SearchEventType uint16 = 1
	PageEventType   uint16 = 2
)

type RabbitTracking struct {
	sessionId   string
	connection  *amqp.Connection
	channel     messaging.Channel
	queue       *common.QueueHandler[SearchEventData]
	unsubscribe []func()
}

func NewRabbitTracking(url string) (*RabbitTracking, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err = messaging.DefineTopic(ch, prefix, messaging.TrackingTopic); err != nil {
		conn.Close()
		return nil, err
	}
	t := newTracking(ch)
	t.connection = conn
	return t, nil
}

func newTracking(ch messaging.Channel) *RabbitTracking {
	t := &RabbitTracking{
		sessionId: uuid.New().String(),
		channel:   ch,
	}
	t.queue = common.NewQueueHandler(t.send, 50, time.Second)
	return t
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
}

type SearchEventData struct {
	*BaseEvent
	Terms           []types.FilterTerm `json:"terms"`
	NumberOfResults int                `json:"noi"`
	Visible         int                `json:"visible"`
	Query           string             `json:"query"`
	Page            int                `json:"page"`
	Time            int64              `json:"ts"`
}

// Attach queues one event per merged search result and appended page.
func (t *RabbitTracking) Attach(bus *events.Bus, searchState *state.SearchState) {
	t.unsubscribe = append(t.unsubscribe,
		bus.Subscribe(state.SearchTopic, func(payload any) {
			if event, ok := payload.(state.SearchEvent); ok {
				t.track(SearchEventType, searchState, event.Query, 0)
			}
		}),
		bus.Subscribe(state.NextTopic, func(payload any) {
			if event, ok := payload.(state.NextEvent); ok {
				t.track(PageEventType, searchState, searchState.Query(), event.Page)
			}
		}),
	)
}

func (t *RabbitTracking) track(eventType uint16, searchState *state.SearchState, query string, page int) {
	t.queue.Add(SearchEventData{
		BaseEvent:       &BaseEvent{SessionId: t.sessionId, Context: "discovery", Event: eventType},
		Terms:           searchState.Terms(),
		NumberOfResults: searchState.TotalCount(),
		Visible:         searchState.LatestCount(),
		Query:           query,
		Page:            page,
		Time:            time.Now().Unix(),
	})
}

func (t *RabbitTracking) send(items []SearchEventData) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, item := range items {
		if err := messaging.Send(ctx, t.channel, prefix, messaging.TrackingTopic, item); err != nil {
			log.Println("Error sending search event: ", err)
		}
	}
}

// Close stops listening, flushes queued events and closes the connection.
func (t *RabbitTracking) Close() error {
	for _, cancel := range t.unsubscribe {
		cancel()
	}
	t.unsubscribe = nil
	t.queue.Close()
	if t.connection == nil {
		return nil
	}
	return t.connection.Close()
}
