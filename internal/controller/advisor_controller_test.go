package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connector-selector/internal/dto"
	"connector-selector/internal/pkg/logger"
	"connector-selector/internal/pkg/serverutils"
	"connector-selector/internal/repository/memory"
	"connector-selector/pkg/advisor"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/decision"
	"connector-selector/pkg/events"
	"connector-selector/pkg/interpreter"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newApp(t *testing.T, secret string) *fiber.App {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	qs, err := catalog.DefaultQuestions()
	require.NoError(t, err)

	log := logger.NewNopLogger()
	svc := advisor.NewService(cat, qs, decision.DefaultPolicy(), interpreter.NewResilient(nil, log),
		memory.NewSessionRepository(time.Hour), events.Nop, log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewAdvisorController(svc, cat).RegisterRoutes(app.Group("/api"), serverutils.JwtMiddleware(secret))
	return app
}

func do[T any](t *testing.T, app *fiber.App, method, path, body, token string) (int, serverutils.BaseResponse[T]) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out serverutils.BaseResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func beginSession(t *testing.T, app *fiber.App, token string) string {
	t.Helper()
	code, res := do[dto.BeginSessionResponse](t, app, http.MethodPost, "/api/advisor/v1/sessions", "", token)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, res.Data.SessionId)
	return res.Data.SessionId
}

func TestConversationOverHTTP(t *testing.T) {
	app := newApp(t, "")
	id := beginSession(t, app, "")
	base := "/api/advisor/v1/sessions/" + id

	code, res := do[dto.OutcomeResponse](t, app, http.MethodPost, base+"/opening", `{"message":"hello"}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.Success)
	assert.Equal(t, "continue", res.Data.Kind)
	require.NotNil(t, res.Data.Question)
	assert.Equal(t, "connection_types", res.Data.Question.Attribute)

	code, res = do[dto.OutcomeResponse](t, app, http.MethodPost, base+"/answers", `{"answer":"board to board"}`, "")
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, res.Data.Question)
	assert.Equal(t, "housing_material", res.Data.Question.Attribute)

	code, answers := do[[]dto.AnswerResponse](t, app, http.MethodGet, base+"/answers", "", "")
	require.Equal(t, http.StatusOK, code)
	attrs := make([]string, len(answers.Data))
	for i, a := range answers.Data {
		attrs[i] = a.Attribute
	}
	assert.Contains(t, attrs, "connection_types")
	assert.Contains(t, attrs, "location")

	code, res = do[dto.OutcomeResponse](t, app, http.MethodPost, base+"/restart", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.Data.Restarted)

	code, _ = do[any](t, app, http.MethodDelete, base, "", "")
	require.Equal(t, http.StatusOK, code)

	code, errRes := do[any](t, app, http.MethodPost, base+"/answers", `{"answer":"pcb to cable"}`, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, errRes.Success)
	assert.Equal(t, "Session not found", errRes.Message)
}

func TestRequestValidation(t *testing.T) {
	app := newApp(t, "")
	id := beginSession(t, app, "")

	code, res := do[any](t, app, http.MethodPost, "/api/advisor/v1/sessions/"+id+"/opening", `{"message":""}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Message, "message failed on required")

	code, res = do[any](t, app, http.MethodPost, "/api/advisor/v1/sessions/"+id+"/answers", `{"answer":`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", res.Message)
}

func TestCatalogListing(t *testing.T) {
	app := newApp(t, "")
	cat, err := catalog.Default()
	require.NoError(t, err)

	code, res := do[[]dto.CandidateResponse](t, app, http.MethodGet, "/api/advisor/v1/catalog", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, res.Data, cat.Len())
}

func TestJwtRequiredWhenSecretSet(t *testing.T) {
	app := newApp(t, testSecret)

	code, res := do[any](t, app, http.MethodPost, "/api/advisor/v1/sessions", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Missing token", res.Message)

	bad, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "desk"}).SignedString([]byte("other"))
	require.NoError(t, err)
	code, res = do[any](t, app, http.MethodPost, "/api/advisor/v1/sessions", "", bad)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", res.Message)

	good, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "desk",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	beginSession(t, app, good)
}
