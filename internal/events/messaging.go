package events

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "ecommerce.events"

	CartItemAddedRoutingKey      = "storefront.cart.item_added.v1"
	CartItemUpdatedRoutingKey    = "storefront.cart.item_updated.v1"
	CartItemRemovedRoutingKey    = "storefront.cart.item_removed.v1"
	ProductFavoritedRoutingKey   = "storefront.favorite.added.v1"
	ProductUnfavoritedRoutingKey = "storefront.favorite.removed.v1"

	producerName = "storefront-service-go"
)

// SequenceRepository hands out a monotonically increasing sequence per
// partition key so consumers can order events from one user.
type SequenceRepository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
