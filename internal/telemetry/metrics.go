package telemetry

import (
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	OrdersCreated   metric.Int64Counter
	OrdersDeleted   metric.Int64Counter
	OrderValue      metric.Float64Histogram
	EventsPublished metric.Int64Counter
	UsersRegistered metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	ordersCreated, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Total orders created"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	ordersDeleted, err := meter.Int64Counter("orders_deleted_total",
		metric.WithDescription("Total orders deleted"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	orderValue, err := meter.Float64Histogram("order_value",
		metric.WithDescription("Order total price at creation"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 50, 100, 500, 1000, 5000),
	)
	if err != nil {
		return nil, err
	}

	eventsPublished, err := meter.Int64Counter("order_events_published_total",
		metric.WithDescription("Total order events published to Kafka"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	usersRegistered, err := meter.Int64Counter("users_registered_total",
		metric.WithDescription("Total users registered"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		OrdersCreated:   ordersCreated,
		OrdersDeleted:   ordersDeleted,
		OrderValue:      orderValue,
		EventsPublished: eventsPublished,
		UsersRegistered: usersRegistered,
	}, nil
}
