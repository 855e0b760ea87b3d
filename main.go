package main

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/cors"

	"github.com/CrowderSoup/todo-group-api/config"
	"github.com/CrowderSoup/todo-group-api/database"
	"github.com/CrowderSoup/todo-group-api/handlers"
	"github.com/CrowderSoup/todo-group-api/services"
)

func main() {
	// Load environment variables from .env file
	if err := config.LoadEnv(".env"); err != nil {
		log.Fatal("failed to load .env file", "err", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	if cfg.UsingDevSecret() {
		log.Warn("JWT_SECRET not set, using development secret; do not run this in production")
	}

	// Initialize database
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database", "err", err)
	}
	defer db.Close()

	// Initialize services
	store := database.NewStore(db)
	authService := services.NewAuthService(cfg.JWTSecret)

	// Initialize event hub
	hub := services.NewHub()
	go hub.Run()

	// Setup router
	router := handlers.NewRouter(store, authService, hub)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	log.Fatal("server stopped", "err", server.ListenAndServe())
}
