package order

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"eshop-api/internal/httpx"
)

type Controller struct {
	useCase *UseCase
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewController(useCase *UseCase, log *zap.Logger, tracer trace.Tracer) *Controller {
	return &Controller{useCase: useCase, log: log, tracer: tracer}
}

type createOrderItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type createOrderRequest struct {
	OrderItems       []createOrderItem `json:"orderItems"`
	ShippingAddress1 string            `json:"shippingAddress1"`
	ShippingAddress2 string            `json:"shippingAddress2"`
	City             string            `json:"city"`
	Zip              string            `json:"zip"`
	Country          string            `json:"country"`
	Phone            string            `json:"phone"`
	Status           string            `json:"status"`
	User             string            `json:"user"`
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.CreateOrder",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		return httpx.Validationf("invalid request body")
	}

	user, err := primitive.ObjectIDFromHex(req.User)
	if err != nil {
		span.SetStatus(codes.Error, "invalid user id")
		return httpx.Validationf("invalid user ID")
	}

	items := make([]CreateItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		product, err := primitive.ObjectIDFromHex(it.Product)
		if err != nil {
			span.SetStatus(codes.Error, "invalid product id")
			return httpx.Validationf("invalid product ID")
		}
		items = append(items, CreateItem{Product: product, Quantity: it.Quantity})
	}

	order, err := ct.useCase.Create(ctx, CreateRequest{
		Items:            items,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           req.Status,
		User:             user,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return c.Status(fiber.StatusOK).JSON(order)
}

func (ct *Controller) List(c *fiber.Ctx) error {
	orders, err := ct.useCase.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(orders)
}

func (ct *Controller) Get(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.Validationf("invalid order ID")
	}
	order, err := ct.useCase.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(order)
}

type updateOrderRequest struct {
	Status string `json:"status"`
}

func (ct *Controller) UpdateStatus(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.Validationf("invalid order ID")
	}
	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validationf("invalid request body")
	}
	order, err := ct.useCase.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(order)
}

func (ct *Controller) Delete(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.DeleteOrder",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid order id")
		return httpx.Validationf("invalid order ID")
	}
	if err := ct.useCase.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "the order is deleted"})
}

func (ct *Controller) TotalSales(c *fiber.Ctx) error {
	total, err := ct.useCase.TotalSales(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"totalSales": total})
}

func (ct *Controller) UserOrders(c *fiber.Ctx) error {
	user, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return httpx.Validationf("invalid user ID")
	}
	orders, err := ct.useCase.ListByUser(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(orders)
}
