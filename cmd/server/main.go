package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/canvas-go/internal/asset"
	"github.com/inamate/canvas-go/internal/auth"
	"github.com/inamate/canvas-go/internal/board"
	"github.com/inamate/canvas-go/internal/collab"
	"github.com/inamate/canvas-go/internal/config"
	"github.com/inamate/canvas-go/internal/export"
	mw "github.com/inamate/canvas-go/internal/middleware"
	"github.com/inamate/canvas-go/internal/store"
)

func main() {
	// `server hash-key <key>` prints the bcrypt hash for API_KEY_HASH.
	if len(os.Args) == 3 && os.Args[1] == "hash-key" {
		hash, err := auth.HashAPIKey(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st store.Store = store.NewMemory()
	if cfg.DatabaseURL != "" {
		pool, err := store.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg, err := store.NewPostgres(ctx, pool)
		if err != nil {
			slog.Error("prepare schema", "error", err)
			os.Exit(1)
		}
		st = pg
	} else {
		slog.Warn("DATABASE_URL not set, boards are kept in memory")
	}

	assets, err := asset.NewStore(cfg.AssetDir)
	if err != nil {
		slog.Error("open asset store", "error", err, "dir", cfg.AssetDir)
		os.Exit(1)
	}

	authService := auth.NewService(cfg.APIKeyHash, cfg.JWTSecret)
	if !authService.Enabled() {
		slog.Warn("API_KEY_HASH not set, API is open")
	}
	authHandler := auth.NewHandler(authService)

	boardService := board.NewService(st, assets, cfg.CanvasWidth, cfg.CanvasHeight)
	boardHandler := board.NewHandler(boardService)
	assetHandler := asset.NewHandler(assets)
	exportHandler := export.NewHandler(boardService, board.ErrNotFound)

	hub := collab.NewHub(boardService)
	go hub.Run(ctx)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/auth/token", authHandler.Token).Methods("POST", "OPTIONS")

	// Assets are public so image shapes can reference them by URL.
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/assets/{assetId}", assetHandler.Delete).Methods("DELETE", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	boardHandler.Routes(api)
	api.HandleFunc("/boards/{boardId}/render.{format}", exportHandler.Render).Methods("GET")

	r.HandleFunc("/ws/board/{boardId}", collab.ServeWS(hub, authService, cfg.OriginHosts()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := boardService.SaveAll(shutdownCtx); err != nil {
			slog.Error("save boards", "error", err)
		}
		cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
