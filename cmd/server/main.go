package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vectorpad/vectorpad/internal/auth"
	"github.com/vectorpad/vectorpad/internal/collab"
	"github.com/vectorpad/vectorpad/internal/config"
	"github.com/vectorpad/vectorpad/internal/controller"
	"github.com/vectorpad/vectorpad/internal/drawing"
	"github.com/vectorpad/vectorpad/internal/editor"
	"github.com/vectorpad/vectorpad/internal/export"
	mw "github.com/vectorpad/vectorpad/internal/middleware"
	"github.com/vectorpad/vectorpad/internal/session"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level, err := cfg.Level()
	if err != nil {
		slog.Error("parse log level", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	defaultColor, err := drawing.ParseColor(cfg.DefaultColor)
	if err != nil {
		slog.Error("parse default color", "error", err)
		os.Exit(1)
	}
	drawing.HandleRadius = cfg.HandleRadius

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := session.NewRegistry(editor.Options{
		Zoom:      cfg.DefaultZoom,
		Tolerance: cfg.HitTolerance,
		Color:     defaultColor,
		Tool:      controller.KindSelect,
		Logger:    slog.Default(),
	})
	registry.Playground()

	authService := auth.NewService(cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)
	sessionHandler := session.NewHandler(registry, authService)
	exportHandler := export.NewHandler(registry, cfg.PreviewWidth, cfg.PreviewHeight)

	hub := collab.NewHub(registry)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Auth routes (public)
	r.HandleFunc("/auth/guest", authHandler.Guest).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Playground preview (public)
	r.HandleFunc("/playground/preview.png", exportHandler.Preview).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/sessions", sessionHandler.List).Methods("GET")
	api.HandleFunc("/sessions", sessionHandler.Create).Methods("POST")
	api.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET")
	api.HandleFunc("/sessions/{sessionId}", sessionHandler.Delete).Methods("DELETE")
	api.HandleFunc("/sessions/{sessionId}/render", sessionHandler.Render).Methods("GET")
	api.HandleFunc("/sessions/{sessionId}/tokens", sessionHandler.Share).Methods("POST")
	api.HandleFunc("/sessions/{sessionId}/preview.png", exportHandler.Preview).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/session/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, registry, authService, cfg.Origins())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so websocket clients are told to go away
		cancel()
		<-hubDone

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "playground", session.PlaygroundID)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, registry *session.Registry, authSvc *auth.Service, origins []string) {
	sessionID := mux.Vars(r)["sessionId"]

	var (
		userID      string
		displayName string
		role        auth.Role
	)

	// Playground session allows anonymous access
	if sessionID == session.PlaygroundID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
		role = auth.RoleEditor
	} else {
		// Auth via query param for real sessions
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		_, role, err = registry.Get(sessionID, claims)
		switch {
		case errors.Is(err, session.ErrNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "no access to session", http.StatusForbidden)
			return
		}
		userID = claims.UserID
		displayName = guestName(userID)
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, sessionID, clientID, role)

	if !hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// guestName derives a short display name from the tail of a user ID.
func guestName(userID string) string {
	if len(userID) > 6 {
		userID = userID[len(userID)-6:]
	}
	return "Guest " + userID
}
