package controller

import (
	"errors"

	"pcru-chatbot-be/internal/dto"
	"pcru-chatbot-be/internal/pkg/logger"
	"pcru-chatbot-be/internal/pkg/serverutils"
	"pcru-chatbot-be/internal/service"
	"pcru-chatbot-be/pkg/exclusion"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	sessionBlockedKeywords = "blockedKeywords"
	sessionBlockedDomains  = "blockedDomains"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Respond(ctx *fiber.Ctx) error
}

type chatController struct {
	service  service.IChatService
	sessions *session.Store
	logger   logger.ILogger
}

func NewChatController(service service.IChatService, sessions *session.Store, log logger.ILogger) IChatController {
	return &chatController{
		service:  service,
		sessions: sessions,
		logger:   log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/respond", c.Respond)
}

func (c *chatController) Respond(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid payload"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sess, sc := c.hydrate(ctx)

	res, err := c.service.Respond(ctx.UserContext(), sc, &req)
	c.writeBack(sess, sc)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPayload):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid payload"))
		case errors.Is(err, service.ErrQuestionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "ไม่พบข้อมูล"))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
		}
	}

	return ctx.JSON(res)
}

// hydrate builds the turn's session context. Without a usable session the
// client address keys the process tier.
func (c *chatController) hydrate(ctx *fiber.Ctx) (*session.Session, *exclusion.SessionContext) {
	sc := &exclusion.SessionContext{SessionKey: ctx.IP()}
	if sc.SessionKey == "" {
		sc.SessionKey = exclusion.AnonymousSessionKey
	}

	if c.sessions == nil {
		return nil, sc
	}
	sess, err := c.sessions.Get(ctx)
	if err != nil {
		c.logger.Warn("CHAT", "Session unavailable, falling back to client address", map[string]interface{}{
			"ip":    ctx.IP(),
			"error": err.Error(),
		})
		return nil, sc
	}

	sc.SessionKey = sess.ID()
	sc.BlockedKeywords = stringSlice(sess.Get(sessionBlockedKeywords))
	sc.BlockedDomains = stringSlice(sess.Get(sessionBlockedDomains))
	return sess, sc
}

func (c *chatController) writeBack(sess *session.Session, sc *exclusion.SessionContext) {
	if sess == nil {
		return
	}
	sess.Set(sessionBlockedKeywords, sc.BlockedKeywords)
	sess.Set(sessionBlockedDomains, sc.BlockedDomains)
	if err := sess.Save(); err != nil {
		c.logger.Warn("CHAT", "Failed to save session", map[string]interface{}{
			"session_key": sc.SessionKey,
			"error":       err.Error(),
		})
	}
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]string)
	if !ok {
		return nil
	}
	return items
}
