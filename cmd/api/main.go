package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/juscash/djetracker/internal/auth"
	"github.com/juscash/djetracker/internal/config"
	"github.com/juscash/djetracker/internal/crawl"
	"github.com/juscash/djetracker/internal/database"
	djeHttp "github.com/juscash/djetracker/internal/http"
	authHandler "github.com/juscash/djetracker/internal/http/auth"
	pubHandler "github.com/juscash/djetracker/internal/http/publication"
	scrapeHandler "github.com/juscash/djetracker/internal/http/scrape"
	"github.com/juscash/djetracker/internal/publication"
	pubStore "github.com/juscash/djetracker/internal/publication/store"
	"github.com/juscash/djetracker/internal/scraper"
	"github.com/juscash/djetracker/internal/user"
	userStore "github.com/juscash/djetracker/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	startDate, err := time.Parse("2006-01-02", cfg.Crawl.StartDate)
	if err != nil {
		slog.Error("invalid CRAWL_START_DATE", "error", err)
		os.Exit(1)
	}

	var (
		publicationService = publication.NewService(pubStore.New(db))
		userService        = user.NewService(userStore.New(db))
		tokens             = auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		scraperClient      = scraper.NewClient(cfg.Scraper.BaseURL, cfg.Scraper.Timeout)
		runner             = crawl.NewRunner(scraperClient, publicationService, crawl.Config{
			StartDate:  startDate,
			DayPause:   cfg.Crawl.DayPause,
			ErrorPause: cfg.Crawl.ErrorPause,
		}, slog.Default())
	)

	var (
		authH   = authHandler.NewHandler(userService, tokens)
		pubH    = pubHandler.NewHandler(publicationService)
		scrapeH = scrapeHandler.NewHandler(runner, scraperClient, publicationService)
	)

	router := djeHttp.New(tokens, authH, pubH, scrapeH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
