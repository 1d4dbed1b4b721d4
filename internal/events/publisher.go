package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
)

// Publisher emits storefront events to the shared topic exchange. Events are
// partitioned by user id and stamped with a per-partition sequence number.
type Publisher struct {
	ch  *amqp.Channel
	seq SequenceRepository
}

func NewPublisher(conn *amqp.Connection, seq SequenceRepository) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{ch: ch, seq: seq}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishCartItemAdded(ctx context.Context, userID, cartID, lineID, productID string, quantity int) error {
	payload := CartItemAdded{UserID: userID, CartID: cartID, LineID: lineID, ProductID: productID, Quantity: quantity}
	return publish(ctx, p, "CartItemAdded", CartItemAddedRoutingKey, userID, payload)
}

func (p *Publisher) PublishCartItemUpdated(ctx context.Context, userID, cartID, lineID, productID string, quantity int) error {
	payload := CartItemUpdated{UserID: userID, CartID: cartID, LineID: lineID, ProductID: productID, Quantity: quantity}
	return publish(ctx, p, "CartItemUpdated", CartItemUpdatedRoutingKey, userID, payload)
}

func (p *Publisher) PublishCartItemRemoved(ctx context.Context, userID, lineID string) error {
	payload := CartItemRemoved{UserID: userID, LineID: lineID}
	return publish(ctx, p, "CartItemRemoved", CartItemRemovedRoutingKey, userID, payload)
}

func (p *Publisher) PublishProductFavorited(ctx context.Context, userID, lineID, productID string) error {
	payload := ProductFavorited{UserID: userID, LineID: lineID, ProductID: productID}
	return publish(ctx, p, "ProductFavorited", ProductFavoritedRoutingKey, userID, payload)
}

func (p *Publisher) PublishProductUnfavorited(ctx context.Context, userID, lineID string) error {
	payload := ProductUnfavorited{UserID: userID, LineID: lineID}
	return publish(ctx, p, "ProductUnfavorited", ProductUnfavoritedRoutingKey, userID, payload)
}

func publish[T any](ctx context.Context, p *Publisher, eventName, routingKey, partitionKey string, payload T) error {
	correlationID := middleware.GetCorrelationID(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	env := EventEnvelope[T]{
		EventName:     eventName,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      producerName,
		PartitionKey:  partitionKey,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}

	// A sequence gap is better than a lost event; publish unsequenced if the
	// counter is unreachable.
	if seq, err := p.seq.NextSequence(ctx, partitionKey); err == nil {
		env.Sequence = &seq
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventName, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
