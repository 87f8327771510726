package order

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eshop-api/internal/httpx"
	"eshop-api/internal/models"
	"eshop-api/internal/storage"
)

// The read side replaces mongoose-style populate chains with explicit
// fetch functions: the join graph (order -> user name, order -> item ->
// product -> category) is spelled out here and nowhere else.

// Get returns one order with user name and all item details resolved.
func (uc *UseCase) Get(ctx context.Context, id primitive.ObjectID) (*models.OrderDetail, error) {
	order, err := uc.store.FindOrderByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.NotFoundf("the order with the given ID was not found")
	}
	if err != nil {
		return nil, httpx.Persistencef("the order cannot be retrieved")
	}
	return uc.fetchOrderDetail(ctx, *order, true)
}

// List returns all orders with the user name resolved, without item
// expansion.
func (uc *UseCase) List(ctx context.Context) ([]models.OrderDetail, error) {
	orders, err := uc.store.ListOrders(ctx)
	if err != nil {
		return nil, httpx.Persistencef("the order list cannot be retrieved")
	}
	details := make([]models.OrderDetail, 0, len(orders))
	for _, o := range orders {
		d, err := uc.fetchOrderDetail(ctx, o, false)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// ListByUser returns the user's orders, newest first, fully expanded.
func (uc *UseCase) ListByUser(ctx context.Context, user primitive.ObjectID) ([]models.OrderDetail, error) {
	orders, err := uc.store.ListOrdersByUser(ctx, user)
	if err != nil {
		return nil, httpx.Persistencef("the user orders cannot be retrieved")
	}
	details := make([]models.OrderDetail, 0, len(orders))
	for _, o := range orders {
		d, err := uc.fetchOrderDetail(ctx, o, true)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (uc *UseCase) fetchOrderDetail(ctx context.Context, order models.Order, withItems bool) (*models.OrderDetail, error) {
	detail := &models.OrderDetail{Order: order}

	user, err := uc.store.FindUserByID(ctx, order.User)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// deleted user; the order keeps the dangling reference
		uc.log.Debug("order references unknown user", zap.String("order_id", order.ID.Hex()))
	case err != nil:
		return nil, httpx.Persistencef("the order cannot be retrieved")
	default:
		detail.UserName = user.Name
	}

	if !withItems {
		return detail, nil
	}

	detail.Items = make([]models.OrderItemDetail, 0, len(order.OrderItems))
	for _, itemID := range order.OrderItems {
		item, err := uc.fetchItemDetail(ctx, itemID)
		if err != nil {
			return nil, err
		}
		detail.Items = append(detail.Items, *item)
	}
	return detail, nil
}

func (uc *UseCase) fetchItemDetail(ctx context.Context, id primitive.ObjectID) (*models.OrderItemDetail, error) {
	item, err := uc.store.FindOrderItemByID(ctx, id)
	if err != nil {
		return nil, httpx.Persistencef("the order items cannot be retrieved")
	}
	detail := &models.OrderItemDetail{ID: item.ID, Quantity: item.Quantity}

	product, err := uc.store.FindProductByID(ctx, item.Product)
	if errors.Is(err, storage.ErrNotFound) {
		return detail, nil
	}
	if err != nil {
		return nil, httpx.Persistencef("the order items cannot be retrieved")
	}
	detail.Product = &models.ProductDetail{Product: *product}

	category, err := uc.store.FindCategoryByID(ctx, product.Category)
	if err == nil {
		detail.Product.CategoryDetail = category
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, httpx.Persistencef("the order items cannot be retrieved")
	}
	return detail, nil
}
