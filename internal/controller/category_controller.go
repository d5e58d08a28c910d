package controller

import (
	"pcru-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICategoryController interface {
	RegisterRoutes(r fiber.Router)
	PublicCategories(ctx *fiber.Ctx) error
}

type categoryController struct {
	service service.ICategoryService
}

func NewCategoryController(service service.ICategoryService) ICategoryController {
	return &categoryController{service: service}
}

func (c *categoryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/public")
	h.Get("/categories", c.PublicCategories)
}

// PublicCategories answers with the bare payload the frontend tree expects.
func (c *categoryController) PublicCategories(ctx *fiber.Ctx) error {
	res, err := c.service.PublicCategories(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"success":    true,
		"categories": res.Categories,
		"count":      res.Count,
	})
}
