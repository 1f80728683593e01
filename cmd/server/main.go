package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/hoanvu/room-rental/internal/auth"
	"github.com/hoanvu/room-rental/internal/config"
	"github.com/hoanvu/room-rental/internal/database"
	"github.com/hoanvu/room-rental/internal/handler"
	"github.com/hoanvu/room-rental/internal/oauth"
	"github.com/hoanvu/room-rental/internal/queue"
	"github.com/hoanvu/room-rental/internal/repository"
	"github.com/hoanvu/room-rental/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass,
		Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpen,
		MaxIdleConns:    cfg.DBMaxIdle,
		ConnMaxLifetime: time.Duration(cfg.DBConnLifeMin) * time.Minute,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)

	refreshTTL := time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour
	authSvc := auth.NewService(auth.Config{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     time.Duration(cfg.AccessTTLMin) * time.Minute,
		RefreshTTL:    refreshTTL,
		BcryptCost:    cfg.BcryptCost,
	}, users, tokens)

	// Purge expired refresh tokens hourly; lookups already ignore them, the
	// sweeper just keeps the table from growing without bound.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	tokens.StartSweeper(sweepCtx, time.Hour)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: caching and rate limiting disabled")
	}

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth: handler.NewAuthHandler(authSvc,
			oauth.NewGoogleVerifier(cfg.GoogleClientID),
			cfg.FrontendURL, refreshTTL, cfg.Env == "prod"),
		Users:    handler.NewUserHandler(users),
		Rooms:    handler.NewRoomHandler(rooms),
		Bookings: handler.NewBookingHandler(bookings, rooms),
		Location: handler.NewLocationHandler(),
		Home:     handler.NewHomeHandler(rooms),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
