package main

import (
	"pfm-api/internal/handlers"
	"pfm-api/internal/middleware"

	"github.com/labstack/echo/v4"
)

type routeHandlers struct {
	health      *handlers.HealthCheckHandler
	docs        *handlers.DocsHandler
	format      *handlers.FormatHandler
	auth        *handlers.AuthHandler
	admin       *handlers.AdminHandler
	account     *handlers.AccountHandler
	transaction *handlers.TransactionHandler
	category    *handlers.CategoryHandler
	chart       *handlers.ChartHandler
	fire        *handlers.FireHandler
	investment  *handlers.InvestmentHandler
	quote       *handlers.QuoteHandler
	settings    *handlers.SettingsHandler
	dashboard   *handlers.DashboardHandler
	workspace   *handlers.WorkspaceHandler
	dev         *handlers.DevHandler
}

func registerRoutes(e *echo.Echo, h *routeHandlers, requireAuth echo.MiddlewareFunc) {
	e.GET("/health", h.health.HealthCheck)
	e.GET("/docs", h.docs.ServeUI)
	e.GET("/docs/openapi.json", h.docs.ServeOpenAPI)

	api := e.Group("/api/v1")
	api.GET("/format", h.format.Format)

	auth := api.Group("/auth")
	auth.POST("/register", h.auth.Register)
	auth.POST("/login", h.auth.Login)
	auth.POST("/logout", h.auth.Logout)
	auth.GET("/me", h.auth.Me, requireAuth)
	auth.GET("/me/activity", h.admin.GetMyActivity, requireAuth)

	protected := api.Group("", requireAuth)

	protected.GET("/data/initial", h.dashboard.GetInitialData)

	accounts := protected.Group("/accounts")
	accounts.GET("", h.account.ListAccounts)
	accounts.POST("", h.account.CreateAccount)
	accounts.PUT("/:id/balance", h.account.UpdateBalance)
	accounts.DELETE("/:id", h.account.DeleteAccount)

	transactions := protected.Group("/transactions")
	transactions.GET("", h.transaction.ListTransactions)
	transactions.DELETE("", h.transaction.ClearTransactions)
	transactions.GET("/months", h.transaction.ListMonths)
	transactions.POST("/import", h.transaction.ImportTransactions)
	transactions.POST("/apply-rules", h.transaction.ApplyRules)
	transactions.GET("/suggestions", h.transaction.GetSuggestion)
	transactions.POST("/:id/categorize", h.transaction.CategorizeTransaction)

	categories := protected.Group("/categories")
	categories.GET("", h.category.ListCategories)
	categories.POST("", h.category.CreateCategory)
	categories.POST("/:id/rules", h.category.AddRule)
	categories.DELETE("/:id", h.category.DeleteCategory)

	charts := protected.Group("/charts")
	charts.GET("/monthly-spending", h.chart.MonthlySpending)
	charts.GET("/cash-flow", h.chart.CashFlow)
	charts.GET("/net-worth", h.chart.NetWorthHistory)
	charts.POST("/net-worth/snapshot", h.chart.TakeSnapshot)

	fire := protected.Group("/fire")
	fire.GET("/data", h.fire.GetData)
	fire.POST("/projection", h.fire.Project)
	fire.POST("/monte-carlo", h.fire.MonteCarlo)

	investments := protected.Group("/investments")
	investments.GET("", h.investment.ListInvestments)
	investments.POST("", h.investment.CreateInvestment)
	investments.GET("/fees", h.investment.FeeAnalysis)
	investments.PUT("/:id", h.investment.UpdateInvestment)
	investments.DELETE("/:id", h.investment.DeleteInvestment)

	protected.GET("/quotes", h.quote.GetQuotes)

	protected.GET("/settings", h.settings.GetSettings)
	protected.PUT("/settings", h.settings.UpdateSettings)

	workspace := protected.Group("/workspace")
	workspace.GET("", h.workspace.GetWorkspace)
	workspace.DELETE("", h.workspace.ResetWorkspace)
	workspace.POST("/actions", h.workspace.DispatchAction)
	workspace.GET("/export", h.workspace.ExportWorkspace)
	workspace.POST("/import", h.workspace.ImportWorkspace)

	admin := protected.Group("/admin", middleware.RequireAdmin())
	admin.GET("/users/:userId", h.admin.GetUserByID)
	admin.DELETE("/users/:userId", h.admin.DeleteUser)
	admin.GET("/users/:userId/activity", h.admin.GetUserActivity)
	admin.POST("/users/:userId/unlock", h.admin.UnlockUser)

	if h.dev != nil {
		protected.POST("/dev/seed", h.dev.SeedDemoData)
	}
}
