// Package service publishes marketplace domain events to RabbitMQ.
// Publishing is best-effort: errors are logged and swallowed so a
// broker outage never fails a bid or a close.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/textbooktown/backend/internal/model"
	"github.com/textbooktown/backend/internal/queue"
	"github.com/textbooktown/backend/internal/utils"
	"github.com/textbooktown/backend/internal/validate"
)

// EventPublisher publishes bid.placed and auction.closed events. A
// fresh connection is dialed per publish; event volume here is a
// handful per request at most, and short-lived connections keep the
// publisher free of channel state across broker restarts.
type EventPublisher struct {
	URL string
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{URL: queue.BrokerURL()}
}

// BidPlaced publishes a bid.placed event.
func (p *EventPublisher) BidPlaced(ctx context.Context, ev queue.BidPlacedEvent) {
	p.publish(ctx, queue.BidPlacedQueue, ev)
}

// AuctionClosed publishes an auction.closed event. Satisfies
// auction.Publisher.
func (p *EventPublisher) AuctionClosed(ctx context.Context, a model.Auction) {
	p.publish(ctx, queue.AuctionClosedQueue, queue.AuctionClosedEvent{
		AuctionID:   a.ID,
		TextbookID:  a.TextbookID,
		SalePrice:   a.SalePrice,
		MinimumBid:  a.MinimumBid,
		ClosingDate: a.ClosingDate.Format(validate.DateLayout),
		ClosedAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (p *EventPublisher) publish(ctx context.Context, queueName string, event any) {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		utils.Warn("rabbitmq dial failed", map[string]any{"queue": queueName, "error": err.Error()})
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		utils.Warn("rabbitmq channel open failed", map[string]any{"queue": queueName, "error": err.Error()})
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		utils.Warn("rabbitmq queue declare failed", map[string]any{"queue": queueName, "error": err.Error()})
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		utils.Error("event marshal failed", map[string]any{"queue": queueName, "error": err.Error()})
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		utils.Warn("rabbitmq publish failed", map[string]any{"queue": queueName, "error": err.Error()})
	}
}
