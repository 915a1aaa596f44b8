package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashy/internal/api"
	"github.com/vytor/flashy/internal/config"
	"github.com/vytor/flashy/internal/db"
	"github.com/vytor/flashy/internal/events"
	"github.com/vytor/flashy/internal/logger"
	"github.com/vytor/flashy/internal/repository/sqlstore"
	"github.com/vytor/flashy/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Flashy Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_driver=%s", cfg.DBDriver)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("export_dir=%s", cfg.ExportDir)
	log.Debug("log_level=%s", cfg.LogLevel)

	ctx := logger.NewContext(context.Background(), log)

	database, err := db.Open(ctx, db.Options{Driver: cfg.DBDriver, DSN: cfg.DBPath})
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	store := sqlstore.NewStore(database)
	bus := events.NewBus()
	flashcardService := services.NewFlashcardService(store, bus, cfg.ExportDir)
	studyService := services.NewStudySessionService(store, bus)

	deckMirror := events.NewDeckMirror()
	flashcardMirror := events.NewFlashcardMirror()
	decks, err := flashcardService.GetAllDecks(ctx)
	if err != nil {
		log.Error("failed to load decks: %v", err)
		os.Exit(1)
	}
	cards, err := flashcardService.GetAllFlashcards(ctx)
	if err != nil {
		log.Error("failed to load flashcards: %v", err)
		os.Exit(1)
	}
	deckMirror.Reset(decks)
	flashcardMirror.Reset(cards)
	log.Info("loaded %d decks and %d flashcards", len(decks), len(cards))

	hub := api.NewHub()
	bus.Subscribe(deckMirror)
	bus.Subscribe(flashcardMirror)
	bus.Subscribe(hub)

	srv := api.NewServer(api.Deps{
		Store:           store,
		Flashcards:      flashcardService,
		Study:           studyService,
		Stats:           services.NewStatsService(store),
		DeckMirror:      deckMirror,
		FlashcardMirror: flashcardMirror,
		Hub:             hub,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}
	bus.Unsubscribe(hub)
	hub.Close()

	log.Info("===========================================")
	log.Info("Flashy Server Stopped")
	log.Info("===========================================")
}
