package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pcru-chatbot-be/internal/dto"
	"pcru-chatbot-be/internal/pkg/logger"
	"pcru-chatbot-be/internal/pkg/serverutils"
	"pcru-chatbot-be/internal/service"
	"pcru-chatbot-be/pkg/exclusion"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	seen []exclusion.SessionContext
	err  error
}

func (s *stubChatService) Respond(ctx context.Context, sc *exclusion.SessionContext, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.seen = append(s.seen, *sc)
	if s.err != nil {
		return nil, s.err
	}
	msg, _ := req.Query()
	if strings.HasPrefix(msg, "ไม่เอา") {
		sc.BlockedKeywords = append(sc.BlockedKeywords, "หอพัก")
		sc.BlockedDomains = append(sc.BlockedDomains, "dorm")
	}
	return &dto.ChatResponse{Success: true, Found: dto.BoolPtr(false), Message: msg}, nil
}

func newChatApp(svc service.IChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatController(svc, session.New(), logger.NewNopLogger()).RegisterRoutes(app.Group("/api"))
	return app
}

func postChat(t *testing.T, app *fiber.App, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/respond", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestChatController_PersistsExclusionsInSession(t *testing.T) {
	svc := &stubChatService{}
	app := newChatApp(svc)

	first := postChat(t, app, `{"message":"ไม่เอาหอพัก"}`)
	require.Equal(t, fiber.StatusOK, first.StatusCode)
	cookies := first.Cookies()
	require.NotEmpty(t, cookies)

	second := postChat(t, app, `{"message":"หอพัก"}`, cookies...)
	require.Equal(t, fiber.StatusOK, second.StatusCode)

	require.Len(t, svc.seen, 2)
	assert.Equal(t, svc.seen[0].SessionKey, svc.seen[1].SessionKey)
	assert.Equal(t, []string{"หอพัก"}, svc.seen[1].BlockedKeywords)
	assert.Equal(t, []string{"dorm"}, svc.seen[1].BlockedDomains)
}

func TestChatController_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{name: "malformed json", body: `{"message":`, wantCode: fiber.StatusBadRequest},
		{name: "non string message", body: `{"message":42}`, wantCode: fiber.StatusBadRequest},
		{name: "zero id", body: `{"id":0}`, wantCode: fiber.StatusBadRequest},
		{name: "missing message", body: `{}`, err: service.ErrInvalidPayload, wantCode: fiber.StatusBadRequest},
		{name: "unknown id", body: `{"id":9}`, err: service.ErrQuestionNotFound, wantCode: fiber.StatusNotFound},
		{name: "datastore", body: `{"message":"x"}`, err: service.ErrDatastore, wantCode: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newChatApp(&stubChatService{err: tt.err})

			resp := postChat(t, app, tt.body)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}

func TestChatController_NotFoundBody(t *testing.T) {
	app := newChatApp(&stubChatService{err: service.ErrQuestionNotFound})

	resp := postChat(t, app, `{"id":9}`)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "ไม่พบข้อมูล", body["message"])
}
