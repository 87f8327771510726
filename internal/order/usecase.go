// Package order implements order composition: turning requested line
// items into persisted order-item records and a priced order, plus the
// cascade delete and the sales aggregation layered on the same store.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"eshop-api/internal/events"
	"eshop-api/internal/httpx"
	"eshop-api/internal/models"
	"eshop-api/internal/storage"
	"eshop-api/internal/telemetry"
)

// joinTimeout bounds each fan-out join. Created items are never rolled
// back, so an unbounded wait would leave the request hanging over
// already-committed writes.
const joinTimeout = 10 * time.Second

// Store is the slice of the storage layer the order usecase needs.
// Absence is reported as storage.ErrNotFound.
type Store interface {
	InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	FindOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, user primitive.ObjectID) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	SumOrderTotals(ctx context.Context) (float64, error)

	InsertOrderItem(ctx context.Context, item *models.OrderItem) (primitive.ObjectID, error)
	FindOrderItemByID(ctx context.Context, id primitive.ObjectID) (*models.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id primitive.ObjectID) error

	FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Publisher emits order lifecycle events. Publishing is best-effort; a
// failed publish never fails the order.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, evt events.OrderCreated) error
}

type UseCase struct {
	store     Store
	publisher Publisher
	metrics   *telemetry.Metrics
	log       *zap.Logger
	tracer    trace.Tracer
}

func NewUseCase(store Store, publisher Publisher, metrics *telemetry.Metrics, log *zap.Logger, tracer trace.Tracer) *UseCase {
	return &UseCase{store: store, publisher: publisher, metrics: metrics, log: log, tracer: tracer}
}

type CreateItem struct {
	Product  primitive.ObjectID
	Quantity int
}

type CreateRequest struct {
	Items            []CreateItem
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
	Status           string
	User             primitive.ObjectID
}

// Create persists one order-item record per requested line, prices every
// item against the product catalog as observed right now, and persists
// the order with the summed total. Items created before a failing step
// are NOT removed; the failure is surfaced and the ids logged.
func (uc *UseCase) Create(ctx context.Context, req CreateRequest) (*models.Order, error) {
	ctx, span := uc.tracer.Start(ctx, "CreateOrder",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("order.user_id", req.User.Hex()),
			attribute.Int("order.items_count", len(req.Items)),
		),
	)
	defer span.End()

	if len(req.Items) == 0 {
		span.SetStatus(codes.Error, "empty item list")
		return nil, httpx.Validationf("the order has no items")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			span.SetStatus(codes.Error, "non-positive quantity")
			return nil, httpx.Validationf("the item quantity must be positive")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, joinTimeout)
	defer cancel()

	itemIDs, err := uc.createItems(ctx, req.Items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		return nil, httpx.Persistencef("the order items cannot be created")
	}

	totalPrice, err := uc.priceItems(ctx, itemIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.log.Error("order pricing failed, created items are kept",
			zap.Strings("item_ids", hexIDs(itemIDs)), zap.Error(err))
		uc.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		return nil, httpx.Persistencef("the order cannot be priced")
	}

	order := &models.Order{
		OrderItems:       itemIDs,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           req.Status,
		TotalPrice:       totalPrice,
		User:             req.User,
		DateOrdered:      time.Now(),
	}
	id, err := uc.store.InsertOrder(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.log.Error("order persistence failed, created items are kept",
			zap.Strings("item_ids", hexIDs(itemIDs)), zap.Error(err))
		uc.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		return nil, httpx.Persistencef("the order cannot be created")
	}
	order.ID = id
	span.SetAttributes(attribute.String("order.id", id.Hex()))

	evt := events.OrderCreated{
		EventID:    uuid.NewString(),
		OrderID:    id.Hex(),
		UserID:     req.User.Hex(),
		TotalPrice: totalPrice,
		OccurredAt: time.Now(),
	}
	if err := uc.publisher.PublishOrderCreated(ctx, evt); err != nil {
		uc.log.Warn("failed to publish order created event", zap.String("order_id", id.Hex()), zap.Error(err))
	} else {
		uc.metrics.EventsPublished.Add(ctx, 1)
	}

	uc.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "ok")))
	uc.metrics.OrderValue.Record(ctx, totalPrice)

	span.SetStatus(codes.Ok, "")
	uc.log.Info("order created",
		zap.String("order_id", id.Hex()),
		zap.String("user_id", req.User.Hex()),
		zap.Float64("total_price", totalPrice),
		zap.Int("items", len(itemIDs)),
	)

	return order, nil
}

// createItems inserts one order-item record per line concurrently and
// joins before returning. On partial failure the ids that did get created
// are logged; nothing is compensated.
func (uc *UseCase) createItems(ctx context.Context, items []CreateItem) ([]primitive.ObjectID, error) {
	itemIDs := make([]primitive.ObjectID, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, it := range items {
		g.Go(func() error {
			id, err := uc.store.InsertOrderItem(gctx, &models.OrderItem{Product: it.Product, Quantity: it.Quantity})
			if err != nil {
				return err
			}
			itemIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		created := make([]primitive.ObjectID, 0, len(itemIDs))
		for _, id := range itemIDs {
			if !id.IsZero() {
				created = append(created, id)
			}
		}
		uc.log.Error("order item creation failed, created items are kept",
			zap.Strings("created_item_ids", hexIDs(created)), zap.Error(err))
		return nil, err
	}
	return itemIDs, nil
}

// priceItems computes the price snapshot: every line total uses the
// product price observed here, and the sum is fixed into the order.
// Pricing starts only after every item exists.
func (uc *UseCase) priceItems(ctx context.Context, itemIDs []primitive.ObjectID) (float64, error) {
	lineTotals := make([]float64, len(itemIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range itemIDs {
		g.Go(func() error {
			item, err := uc.store.FindOrderItemByID(gctx, id)
			if err != nil {
				return err
			}
			product, err := uc.store.FindProductByID(gctx, item.Product)
			if err != nil {
				return err
			}
			lineTotals[i] = product.Price * float64(item.Quantity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total float64
	for _, lt := range lineTotals {
		total += lt
	}
	return total, nil
}

// Delete removes the order and cascades over its items. Every item delete
// is attempted; failures leave orphaned items behind, which is logged,
// not hidden, and never fails the call since the order is already gone.
func (uc *UseCase) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := uc.tracer.Start(ctx, "DeleteOrder",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("order.id", id.Hex())),
	)
	defer span.End()

	order, err := uc.store.DeleteOrder(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		span.SetStatus(codes.Error, "order not found")
		return httpx.NotFoundf("the order with the given ID was not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return httpx.Persistencef("the order cannot be deleted")
	}

	for _, itemID := range order.OrderItems {
		if err := uc.store.DeleteOrderItem(ctx, itemID); err != nil {
			uc.log.Error("failed to cascade delete order item, item is orphaned",
				zap.String("order_id", id.Hex()),
				zap.String("item_id", itemID.Hex()),
				zap.Error(err))
		}
	}

	uc.metrics.OrdersDeleted.Add(ctx, 1)
	span.SetStatus(codes.Ok, "")
	uc.log.Info("order deleted", zap.String("order_id", id.Hex()), zap.Int("items", len(order.OrderItems)))
	return nil
}

// TotalSales sums totalPrice over all orders. Zero orders yields 0.
func (uc *UseCase) TotalSales(ctx context.Context) (float64, error) {
	total, err := uc.store.SumOrderTotals(ctx)
	if err != nil {
		return 0, httpx.Persistencef("the total sales cannot be calculated")
	}
	return total, nil
}

// UpdateStatus changes the status label, nothing else.
func (uc *UseCase) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	order, err := uc.store.UpdateOrderStatus(ctx, id, status)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.NotFoundf("the order cannot be updated")
	}
	if err != nil {
		return nil, httpx.Persistencef("the order cannot be updated")
	}
	return order, nil
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
