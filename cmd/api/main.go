// Command api serves the finance, analytics and insight endpoints over
// HTTP. Owner identity comes from the X-Owner-ID header; token verification
// is expected in front of this service.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nehalnetha/budgetbuddy-backend/internal/api/handlers"
	"github.com/nehalnetha/budgetbuddy-backend/internal/api/middleware"
	"github.com/nehalnetha/budgetbuddy-backend/internal/cache"
	"github.com/nehalnetha/budgetbuddy-backend/internal/config"
	"github.com/nehalnetha/budgetbuddy-backend/internal/finance"
	"github.com/nehalnetha/budgetbuddy-backend/internal/insight"
	"github.com/nehalnetha/budgetbuddy-backend/internal/logger"
	"github.com/nehalnetha/budgetbuddy-backend/internal/store/firestore"
)

func main() {
	port := flag.String("port", "8080", "HTTP server port")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if cfg.ProjectID == "" {
		log.Fatal().Msg("GOOGLE_CLOUD_PROJECT must be set")
	}

	ctx := context.Background()

	store, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Connecting to Firestore failed")
	}
	defer store.Close()

	sessions, err := insight.NewGeminiSessionFactory(ctx, cfg.ModelName)
	if err != nil {
		log.Fatal().Err(err).Msg("Creating the Gemini client failed")
	}

	opts := []insight.Option{insight.WithRecentWindow(cfg.RecentInsights)}
	if cfg.DailyGuard {
		opts = append(opts, insight.WithDailyGuard())
	}
	if cfg.RedisAddr != "" {
		c, err := cache.New(ctx, cfg.RedisAddr, logger.WithComponent(log, "cache"))
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, running without cache")
		} else {
			defer c.Close()
			opts = append(opts, insight.WithCache(c))
		}
	}

	svc := finance.NewService(store.Transactions(), store.Incomes(), logger.WithComponent(log, "finance"))
	gen := insight.NewGenerator(
		store.Transactions(),
		store.Budgets(),
		store.Insights(),
		sessions,
		logger.WithComponent(log, "insight"),
		opts...,
	)

	expensesHandler := handlers.NewExpensesHandler(svc, log)
	analyticsHandler := handlers.NewAnalyticsHandler(svc, store.Budgets(), log)
	budgetsHandler := handlers.NewBudgetsHandler(store.Budgets(), log)
	insightsHandler := handlers.NewInsightsHandler(gen, log)

	// Create router
	mux := http.NewServeMux()

	// Expenses endpoints
	mux.HandleFunc("/api/expenses", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			expensesHandler.CreateExpense(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses/daily", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			expensesHandler.DailyExpenses(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses/months", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			expensesHandler.MonthlyExpenses(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses/", func(w http.ResponseWriter, r *http.Request) {
		// Extract expense ID from path
		id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
		if id == "" || strings.Contains(id, "/") {
			middleware.WriteError(w, http.StatusBadRequest, "Expense ID is required")
			return
		}
		switch r.Method {
		case http.MethodPut:
			expensesHandler.UpdateExpense(w, r, id)
		case http.MethodDelete:
			expensesHandler.DeleteExpense(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Incomes endpoints
	mux.HandleFunc("/api/incomes", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			expensesHandler.ListIncomes(w, r)
		case http.MethodPost:
			expensesHandler.CreateIncome(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Analytics endpoints
	mux.HandleFunc("/api/analytics/buckets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyticsHandler.Buckets(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/analytics/budget", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyticsHandler.Budget(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/analytics/growth", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyticsHandler.Growth(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/analytics/forecast", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyticsHandler.Forecast(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Budget settings endpoints
	mux.HandleFunc("/api/budget", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			budgetsHandler.GetBudget(w, r)
		case http.MethodPut:
			budgetsHandler.SaveBudget(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Insights endpoints
	mux.HandleFunc("/api/insights", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			insightsHandler.ListInsights(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/insights/generate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			insightsHandler.GenerateInsight(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware; /health stays outside Auth
	authed := middleware.Auth(mux)
	root := http.NewServeMux()
	root.Handle("/health", mux)
	root.Handle("/", authed)

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(root),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
