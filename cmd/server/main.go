package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codyseavey/card-stash/backend/internal/api"
	"github.com/codyseavey/card-stash/backend/internal/collection"
	"github.com/codyseavey/card-stash/backend/internal/config"
	"github.com/codyseavey/card-stash/backend/internal/gallery"
	"github.com/codyseavey/card-stash/backend/internal/imaging"
	"github.com/codyseavey/card-stash/backend/internal/metrics"
	"github.com/codyseavey/card-stash/backend/internal/models"
	"github.com/codyseavey/card-stash/backend/internal/stats"
	"github.com/codyseavey/card-stash/backend/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the local store. Both collections live in it under their own
	// fixed keys; a missing or corrupt value just means starting empty.
	store, err := storage.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("path", cfg.DBPath), zap.Error(err))
	}

	initialCards := store.LoadCards()
	initialGallery := store.LoadGallery()
	logger.Info("loaded persisted state",
		zap.Int("cards", len(initialCards)),
		zap.Int("gallery_items", len(initialGallery)))

	// Controllers mirror every mutation straight back to the store. The
	// in-memory list stays authoritative: a failed write is logged and
	// counted, never rolled back.
	cards := collection.New(initialCards, logger, collection.WithOnChange(func(snapshot []models.Card) {
		if err := store.SaveCards(snapshot); err != nil {
			metrics.StorageWriteFailures.WithLabelValues("cards").Inc()
		}
		observeCollection(snapshot)
	}))

	gal := gallery.New(initialGallery, imaging.NewIngester(), logger, gallery.WithOnChange(func(snapshot []models.GalleryItem) error {
		err := store.SaveGallery(snapshot)
		if err != nil {
			metrics.StorageWriteFailures.WithLabelValues("gallery").Inc()
		}
		metrics.GalleryItemsTotal.Set(float64(len(snapshot)))
		return err
	}))

	observeCollection(initialCards)
	metrics.GalleryItemsTotal.Set(float64(len(initialGallery)))

	engine := stats.NewEngine(cards)

	router := api.SetupRouter(cards, gal, engine, cfg, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// observeCollection refreshes the collection gauges from a snapshot.
func observeCollection(snapshot []models.Card) {
	s := stats.Summarize(snapshot)
	metrics.CollectionCardsTotal.Set(float64(s.TotalCards))
	metrics.CollectionSoldCards.Set(float64(s.SoldCount))
	metrics.PortfolioCost.Set(s.TotalInvested)
	metrics.RealizedProfit.Set(s.RealizedProfit)
}
