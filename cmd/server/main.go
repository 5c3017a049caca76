package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kinohub/cinema-api/internal/config"
	"github.com/kinohub/cinema-api/internal/database"
	"github.com/kinohub/cinema-api/internal/handler"
	"github.com/kinohub/cinema-api/internal/media"
	"github.com/kinohub/cinema-api/internal/queue"
	"github.com/kinohub/cinema-api/internal/repository"
	"github.com/kinohub/cinema-api/internal/router"
	queuepublisher "github.com/kinohub/cinema-api/internal/service"
)

func main() {
	// A missing .env is fine; containers pass real env vars.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	posters, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		log.Fatalf("media store: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	genres := repository.NewGenreRepo(db)
	actors := repository.NewActorRepo(db)
	halls := repository.NewHallRepo(db)
	movies := repository.NewMovieRepo(db)
	sessions := repository.NewSessionRepo(db)
	orders := repository.NewOrderRepo(db)

	var publisher handler.BookingPublisher
	if cfg.BrokerURL != "" {
		publisher = queuepublisher.New(cfg.BrokerURL)
		go queue.StartBookingConsumer(cfg.BrokerURL)
	}

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens),
		Catalog:  handler.NewCatalogHandler(genres, actors, halls),
		Movies:   handler.NewMovieHandler(movies, posters),
		Sessions: handler.NewSessionHandler(sessions),
		Orders:   handler.NewOrderHandler(orders, sessions, publisher),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg, rdb)
	// Uploaded posters are reachable under /media/<stored path>.
	e.Static("/media", posters.Root())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
