package main // Entry point package

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/textbooktown/backend/internal/auction"
	"github.com/textbooktown/backend/internal/config"
	"github.com/textbooktown/backend/internal/database"
	"github.com/textbooktown/backend/internal/handler"
	"github.com/textbooktown/backend/internal/queue"
	"github.com/textbooktown/backend/internal/repository"
	"github.com/textbooktown/backend/internal/router"
	"github.com/textbooktown/backend/internal/service"
	"github.com/textbooktown/backend/internal/upload"
	"github.com/textbooktown/backend/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		utils.Fatal("database connect failed", map[string]any{"error": err.Error()})
	}
	if err := database.Bootstrap(context.Background(), db); err != nil {
		utils.Fatal("schema bootstrap failed", map[string]any{"error": err.Error()})
	}

	photos, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		utils.Fatal("upload dir unavailable", map[string]any{"dir": cfg.UploadDir, "error": err.Error()})
	}

	users := repository.NewUserRepo(db)
	books := repository.NewTextbookRepo(db)
	auctions := repository.NewAuctionRepo(db)
	bids := repository.NewBidRepo(db)

	events := service.NewEventPublisher()
	lifecycle := auction.NewLifecycle(auctions, events)
	search := auction.NewSearch(books, auctions, lifecycle)

	// Background workers: the audit consumer mirrors marketplace events
	// into a log file, the sweeper closes expired auctions that the
	// lazy search-time check never touches.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			utils.Error("audit consumer stopped", map[string]any{"error": err.Error()})
		}
	}()
	sweeper := auction.NewSweeper(auctions, events, cfg.SweepInterval)
	go sweeper.Run(context.Background())

	rdb := config.NewRedisClient()
	if rdb == nil {
		utils.Warn("redis unavailable; rate limiting and caching disabled", nil)
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth:  handler.NewAuthHandler(cfg, users),
		Books: handler.NewBookHandler(books, auctions, photos, search),
		Bids:  handler.NewBidHandler(bids, auctions, auctions, lifecycle, events),
		Image: handler.NewImageHandler(photos),
		Users: users,
	}, rdb)

	addr := ":" + cfg.Port
	utils.Info("listening", map[string]any{"addr": addr, "env": cfg.Env})
	if err := e.Start(addr); err != nil {
		utils.Fatal("server stopped", map[string]any{"error": err.Error()})
	}
}
