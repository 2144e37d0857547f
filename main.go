package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-vault/internal/database"
	"video-vault/internal/handlers"
	"video-vault/internal/indexer"
	"video-vault/internal/logging"
	"video-vault/internal/middleware"
	"video-vault/internal/scanner"
	"video-vault/internal/startup"
	"video-vault/internal/thumbs"
	"video-vault/internal/workers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	dbStart := time.Now()
	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	gen := thumbs.NewGenerator(config.ThumbDir, config.SmartThumbnails)
	sc := scanner.New(config.VideoDir, startup.CacheDirName)

	startup.LogIndexerInit(workers.PoolSize())
	idx := indexer.New(db, sc, gen, config.ThumbDir, startup.ThumbRelDir)

	h := handlers.New(db, idx, config.VideoDir, config.ThumbDir)

	router := setupRouter(h)

	loggedHandler := middleware.Logger(middleware.DefaultLoggingConfig())(router)
	handler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	srv := &http.Server{
		Addr:        ":" + config.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// Streaming responses run as long as the client keeps reading.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/videos", h.ListVideos).Methods("GET")
	api.HandleFunc("/video-info", h.GetVideoInfo).Methods("GET")
	api.HandleFunc("/video", h.StreamVideo).Methods("GET", "HEAD")
	api.HandleFunc("/thumbnail", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/reindex", h.Reindex).Methods("POST")

	return r
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
