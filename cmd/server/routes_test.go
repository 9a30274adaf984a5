package main

import (
	"net/http"
	"testing"

	"pfm-api/internal/handlers"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func registeredRoutes(t *testing.T, withDev bool) map[string]bool {
	t.Helper()

	h := &routeHandlers{
		health:      &handlers.HealthCheckHandler{},
		docs:        &handlers.DocsHandler{},
		format:      &handlers.FormatHandler{},
		auth:        &handlers.AuthHandler{},
		admin:       &handlers.AdminHandler{},
		account:     &handlers.AccountHandler{},
		transaction: &handlers.TransactionHandler{},
		category:    &handlers.CategoryHandler{},
		chart:       &handlers.ChartHandler{},
		fire:        &handlers.FireHandler{},
		investment:  &handlers.InvestmentHandler{},
		quote:       &handlers.QuoteHandler{},
		settings:    &handlers.SettingsHandler{},
		dashboard:   &handlers.DashboardHandler{},
		workspace:   &handlers.WorkspaceHandler{},
	}
	if withDev {
		h.dev = &handlers.DevHandler{}
	}

	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	e := echo.New()
	registerRoutes(e, h, passthrough)

	routes := make(map[string]bool)
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	return routes
}

func TestRegisterRoutes_OperationalEndpointsAtRoot(t *testing.T) {
	routes := registeredRoutes(t, false)

	assert.True(t, routes[http.MethodGet+" /health"])
	assert.True(t, routes[http.MethodGet+" /docs"])
	assert.False(t, routes[http.MethodGet+" /api/v1/health"])
}

func TestRegisterRoutes_APIUnderVersionPrefix(t *testing.T) {
	routes := registeredRoutes(t, false)

	for _, route := range []string{
		"POST /api/v1/auth/login",
		"GET /api/v1/data/initial",
		"DELETE /api/v1/accounts/:id",
		"GET /api/v1/charts/cash-flow",
		"POST /api/v1/workspace/actions",
		"POST /api/v1/admin/users/:userId/unlock",
	} {
		assert.True(t, routes[route], route)
	}
	assert.False(t, routes["POST /api/v1/dev/seed"])
}

func TestRegisterRoutes_DevSeedOnlyWhenEnabled(t *testing.T) {
	assert.True(t, registeredRoutes(t, true)["POST /api/v1/dev/seed"])
}
