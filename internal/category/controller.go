package category

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eshop-api/internal/httpx"
	"eshop-api/internal/models"
)

type Controller struct {
	useCase *UseCase
	log     *zap.Logger
}

func NewController(useCase *UseCase, log *zap.Logger) *Controller {
	return &Controller{useCase: useCase, log: log}
}

type categoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validationf("invalid request body")
	}
	category, err := ct.useCase.Create(c.UserContext(), &models.Category{Name: req.Name, Icon: req.Icon, Color: req.Color})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(category)
}

func (ct *Controller) List(c *fiber.Ctx) error {
	categories, err := ct.useCase.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(categories)
}

func (ct *Controller) Get(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.Validationf("invalid category ID")
	}
	category, err := ct.useCase.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(category)
}

func (ct *Controller) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.Validationf("invalid category ID")
	}
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validationf("invalid request body")
	}
	category, err := ct.useCase.Update(c.UserContext(), id, &models.Category{Name: req.Name, Icon: req.Icon, Color: req.Color})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(category)
}

func (ct *Controller) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.Validationf("invalid category ID")
	}
	if err := ct.useCase.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "the category is deleted"})
}
