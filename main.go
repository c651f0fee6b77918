package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/recallr/recallr-api/auth"
	"github.com/recallr/recallr-api/config"
	"github.com/recallr/recallr-api/handlers"
	"github.com/recallr/recallr-api/middleware"
	"github.com/recallr/recallr-api/services"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		if err := godotenv.Load(); err != nil {
			// environment variables may still be set by the host
			return
		}
	}
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error", zap.Error(err))
	}

	db, err := config.Connect(cfg)
	if err != nil {
		log.Fatal("database error", zap.Error(err))
	}

	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, log)
	if err != nil {
		log.Fatal("auth error", zap.Error(err))
	}

	deckService := services.NewDeckService(db, services.NewCountsClient(db), log)
	cardService := services.NewCardService(db, log, cfg.EnforceDeckOwnership)
	h := handlers.New(deckService, cardService, log)

	// Sweep multiple-choice parents whose choice insert never landed.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := cardService.ReapOrphans(ctx, cfg.OrphanMaxAge); err != nil {
			log.Warn("orphan sweep failed", zap.Error(err))
		}
	}()

	protected := middleware.EnsureValidToken(verifier, log)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)

	// Decks
	mux.HandleFunc("GET /decks", protected(h.ListDecks))
	mux.HandleFunc("POST /decks", protected(h.CreateDeck))
	mux.HandleFunc("PUT /decks/finish/{deckID}", protected(h.FinishStudyDeck))
	mux.HandleFunc("PUT /decks/{deckID}", protected(h.UpdateDeck))
	mux.HandleFunc("DELETE /decks/{deckID}", protected(h.DeleteDeck))

	// Cards
	mux.HandleFunc("POST /cards", protected(h.CreateCard))
	mux.HandleFunc("GET /cards", protected(h.ListCards))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(middleware.RequestID(middleware.WithLogging(log, mux)))

	addr := "0.0.0.0:" + cfg.Port
	log.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
