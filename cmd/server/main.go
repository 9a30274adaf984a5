package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pfm-api/internal/config"
	"pfm-api/internal/database"
	"pfm-api/internal/handlers"
	"pfm-api/internal/middleware"
	"pfm-api/internal/repositories"
	"pfm-api/internal/rules"
	"pfm-api/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBody = "10M"

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	keywordTable, err := rules.LoadKeywordRulesFile(cfg.Categorizer.RulesFile)
	if err != nil {
		return fmt.Errorf("failed to load keyword rules: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	blacklistRepo := repositories.NewBlacklistedTokenRepository(db.DB)
	auditRepo := repositories.NewAuditLogRepository(db.DB)
	accountRepo := repositories.NewAccountRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	categoryRepo := repositories.NewCategoryRepository(db.DB)
	suggestionRepo := repositories.NewSuggestionRepository(db.DB)
	snapshotRepo := repositories.NewNetWorthSnapshotRepository(db.DB)
	investmentRepo := repositories.NewInvestmentRepository(db.DB)
	settingsRepo := repositories.NewSettingsRepository(db.DB)
	workspaceRepo := repositories.NewWorkspaceRepository(db.DB)

	// Services
	metrics := services.NewPrometheusMetrics(reg)
	auditLogger := services.NewAuditLogger(logger)
	auditService := services.NewAuditService(auditRepo, logger)
	passwordService := services.NewPasswordService(&cfg.Security)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(userRepo, auditRepo, blacklistRepo, settingsRepo,
		passwordService, tokenService, metrics, logger,
		services.WithMaxFailedAttempts(cfg.Security.MaxFailedAttempts))
	accountService := services.NewAccountService(accountRepo, auditService, logger)
	transactionService := services.NewTransactionService(transactionRepo, accountRepo, auditService, auditLogger, metrics, logger)
	categorizationService := services.NewCategorizationService(categoryRepo, transactionRepo, suggestionRepo,
		keywordTable, auditService, auditLogger, metrics, logger)
	chartService := services.NewChartService(transactionRepo, accountRepo, snapshotRepo, logger)
	settingsService := services.NewSettingsService(settingsRepo, auditService, logger)
	fireService := services.NewFireService(accountRepo, settingsService, auditLogger, metrics, logger)
	investmentService := services.NewInvestmentService(investmentRepo, auditService, logger)
	dashboardService := services.NewDashboardService(accountRepo, transactionRepo, categoryRepo, investmentRepo, logger)
	quoteCache := services.NewQuoteCache(cfg.Cache, logger)
	quoteService := services.NewQuoteService(&cfg.Quotes, quoteCache, auditLogger, metrics, logger)
	workspaceService := services.NewWorkspaceService(workspaceRepo, auditService, auditLogger, metrics, logger)

	h := &routeHandlers{
		health:      handlers.NewHealthCheckHandler(db.DB),
		docs:        handlers.NewDocsHandler("docs"),
		format:      handlers.NewFormatHandler(),
		auth:        handlers.NewAuthHandler(authService, tokenService, &cfg.JWT),
		admin:       handlers.NewAdminHandler(userRepo, auditService),
		account:     handlers.NewAccountHandler(accountService),
		transaction: handlers.NewTransactionHandler(transactionService, categorizationService),
		category:    handlers.NewCategoryHandler(categorizationService),
		chart:       handlers.NewChartHandler(chartService),
		fire:        handlers.NewFireHandler(fireService),
		investment:  handlers.NewInvestmentHandler(investmentService),
		quote:       handlers.NewQuoteHandler(quoteService),
		settings:    handlers.NewSettingsHandler(settingsService),
		dashboard:   handlers.NewDashboardHandler(dashboardService),
		workspace:   handlers.NewWorkspaceHandler(workspaceService),
	}
	if cfg.IsDevelopment() {
		h.dev = handlers.NewDevHandler(accountService, transactionService, categorizationService, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewIPRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst)
	go limiter.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(reg)

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.PanicRecovery(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.CORSAllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.TraceIDHeader},
		ExposeHeaders:    []string{middleware.TraceIDHeader},
		AllowCredentials: !containsWildcard(cfg.Server.CORSAllowOrigins),
	}))
	e.Use(echomw.BodyLimit(maxRequestBody))
	e.Use(limiter.Middleware())

	authMiddleware := middleware.RequireAuth(tokenService, blacklistRepo, cfg.JWT.CookieName)
	registerRoutes(e, h, authMiddleware)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	go runCleanup(ctx, cfg.Security, blacklistRepo, auditRepo, logger)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting API server", "addr", server.Addr, "environment", cfg.Server.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}

// runCleanup drops expired blacklist entries and audit rows past retention
// until ctx is cancelled.
func runCleanup(
	ctx context.Context,
	cfg config.SecurityConfig,
	blacklistRepo repositories.BlacklistedTokenRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	logger *slog.Logger,
) {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := blacklistRepo.DeleteExpired(); err != nil {
				logger.Warn("failed to purge expired tokens", "error", err)
			} else if n > 0 {
				logger.Info("purged expired tokens", "count", n)
			}

			if cfg.AuditRetention <= 0 {
				continue
			}
			if n, err := auditRepo.DeleteOlderThan(cfg.AuditRetention); err != nil {
				logger.Warn("failed to purge audit logs", "error", err)
			} else if n > 0 {
				logger.Info("purged audit logs", "count", n, "retention", cfg.AuditRetention.String())
			}
		}
	}
}
