package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"homehelp-server/models"
)

// AMQP publishes lifecycle events to a topic exchange for external
// consumers (push delivery, chat, dashboards). Routing key is the event
// kind, e.g. "booking.job_accepted".
type AMQP struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Event is the wire shape of one published lifecycle event.
type Event struct {
	UserID    uint                `json:"user_id"`
	Event     models.BookingEvent `json:"event"`
	BookingID uint                `json:"booking_id"`
	At        time.Time           `json:"at"`
}

// NewAMQP dials the broker and declares the topic exchange.
func NewAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQP{conn: conn, ch: ch, exchange: exchange}, nil
}

func (g *AMQP) Notify(ctx context.Context, userID uint, event models.BookingEvent, bookingID uint) error {
	body, err := json.Marshal(Event{
		UserID:    userID,
		Event:     event,
		BookingID: bookingID,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return g.ch.PublishWithContext(ctx, g.exchange, "booking."+string(event), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// Close releases the channel and connection.
func (g *AMQP) Close() error {
	if g.ch != nil {
		_ = g.ch.Close()
	}
	if g.conn != nil {
		return g.conn.Close()
	}
	return nil
}
