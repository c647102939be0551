package main

import (
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"scholarflow/internal/config"
	"scholarflow/internal/handler"
	"scholarflow/internal/httputil"
	"scholarflow/internal/middleware"
	"scholarflow/internal/provider"
	"scholarflow/internal/provider/anthropic"
	"scholarflow/internal/provider/gemini"
	"scholarflow/internal/provider/lorem"
	"scholarflow/internal/research"
	"scholarflow/internal/service"
	"scholarflow/internal/session"
	"scholarflow/internal/store"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"default_model", cfg.DefaultModel,
	)

	// Open the project database
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	logger.Info("database opened", "path", cfg.DatabasePath)

	// Setup providers: the catalog is embedded, adapters register only when
	// their credential is present. Submissions against an unregistered
	// provider fail as configuration errors, not panics.
	registry, err := provider.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}

	registry.Register(lorem.NewProvider())

	if cfg.AnthropicAPIKey != "" {
		p, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			log.Fatalf("Failed to create anthropic provider: %v", err)
		}
		registry.Register(p)
		logger.Info("provider registered", "provider", p.Name())
	}
	if cfg.GeminiAPIKey != "" {
		p, err := gemini.NewProvider(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create gemini provider: %v", err)
		}
		registry.Register(p)
		logger.Info("provider registered", "provider", p.Name())
	}

	// Research augmentation wraps the dispatcher; without a Tavily key the
	// augmentor passes requests through untouched.
	var search research.SearchClient
	if cfg.TavilyAPIKey != "" {
		search = research.NewTavilyClient(cfg.TavilyAPIKey)
		logger.Info("web search enabled")
	}
	backend := research.NewAugmentor(provider.NewDispatcher(registry), search, logger)

	// Create repositories and services
	projectRepo := store.NewProjectRepository(db)
	projectService := service.NewProjectService(projectRepo, logger)
	outlineService := service.NewOutlineService(projectRepo, backend, cfg.DefaultModel, logger)
	plagiarismService := service.NewPlagiarismService(projectRepo, rand.New(rand.NewSource(time.Now().UnixNano())), logger)

	// Session manager
	sessionManager := session.NewManager(backend, cfg.DefaultModel, logger)

	// Create handlers
	projectHandler := handler.NewProjectHandler(projectService, outlineService, plagiarismService, logger)
	sessionHandler := handler.NewSessionHandler(sessionManager, projectService, logger)
	citeHandler := handler.NewCiteHandler(registry, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.List)
	mux.HandleFunc("POST /api/projects", projectHandler.Create)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.Get)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.Update)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.Delete)
	mux.HandleFunc("POST /api/projects/{id}/outline", projectHandler.GenerateOutline)
	mux.HandleFunc("POST /api/projects/{id}/plagiarism", projectHandler.CheckPlagiarism)

	// Session routes
	mux.HandleFunc("POST /api/sessions", sessionHandler.Create)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.Get)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.Delete)
	mux.HandleFunc("POST /api/sessions/{id}/messages", sessionHandler.SubmitMessage)
	mux.HandleFunc("PUT /api/sessions/{id}/mode", sessionHandler.SetMode)
	mux.HandleFunc("GET /api/sessions/{id}/stream", sessionHandler.Stream) // SSE streaming endpoint

	// Citation and model catalog routes
	mux.HandleFunc("POST /api/citations", citeHandler.FormatCitation)
	mux.HandleFunc("GET /api/models", citeHandler.ListModels)

	// Build middleware chain
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)

	// CORS - must wrap everything to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Last-Event-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
