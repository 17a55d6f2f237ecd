package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-contact-api/internal/config"
	"github.com/noah-isme/portfolio-contact-api/internal/database"
	"github.com/noah-isme/portfolio-contact-api/internal/handler"
	"github.com/noah-isme/portfolio-contact-api/internal/middleware"
	"github.com/noah-isme/portfolio-contact-api/internal/models"
	"github.com/noah-isme/portfolio-contact-api/internal/repository"
	"github.com/noah-isme/portfolio-contact-api/internal/router"
	"github.com/noah-isme/portfolio-contact-api/internal/service"
)

const adminSecret = "router-secret"

func newApp(t *testing.T, withAdmin bool) *fiber.App {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := database.Connect("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContactMessage{}))

	logger := zerolog.Nop()
	repo := repository.NewContactRepository(db)
	composer := service.NewEmailComposer("Portfolio <from@example.com>", "owner@example.com")
	contactService := service.NewContactService(repo, composer, service.NewLogEmailSender(logger), nil, logger)

	cfg := config.Config{AppName: "Portfolio Contact API", AppEnv: "test"}
	deps := router.Dependencies{
		ContactHandler:      handler.NewContactHandler(contactService, logger),
		AdminContactHandler: handler.NewAdminContactHandler(service.NewAdminContactService(repo, logger), logger),
	}
	if withAdmin {
		deps.JWTMiddleware = middleware.JWTProtected(adminSecret)
	}

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)
	return app
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "owner",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(adminSecret))
	require.NoError(t, err)
	return token
}

func TestRouterContactFlow(t *testing.T) {
	app := newApp(t, true)

	body := `{"name":"Ada","email":"ada@example.com","message":"Hello, I would like to collaborate."}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))

	var created struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.True(t, created.Success)
	require.True(t, strings.HasPrefix(created.ID, "log-"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/contacts", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed struct {
		Data []struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed.Data, 1)
	require.Equal(t, "ada@example.com", listed.Data[0].Email)
}

func TestRouterAdminRequiresToken(t *testing.T) {
	app := newApp(t, true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/contacts", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouterAdminDisabledWithoutSecret(t *testing.T) {
	app := newApp(t, false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/contacts", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouterOperationalEndpoints(t *testing.T) {
	app := newApp(t, false)

	for _, path := range []string{"/api/v1/health", "/api/v1/health/ready", middleware.MetricsPath} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
