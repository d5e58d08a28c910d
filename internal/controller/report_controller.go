package controller

import (
	"pcru-chatbot-be/internal/dto"
	"pcru-chatbot-be/internal/pkg/serverutils"
	"pcru-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Organizations(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reports")
	h.Get("/organizations", c.Organizations)
}

func (c *reportController) Organizations(ctx *fiber.Ctx) error {
	var req dto.OrganizationReportRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Organizations(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get organizations", res))
}
