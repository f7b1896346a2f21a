package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/trogers1052/portfolio-service/internal/api"
	"github.com/trogers1052/portfolio-service/internal/cache"
	"github.com/trogers1052/portfolio-service/internal/config"
	"github.com/trogers1052/portfolio-service/internal/database"
	"github.com/trogers1052/portfolio-service/internal/holdings"
	"github.com/trogers1052/portfolio-service/internal/kafka"
	"github.com/trogers1052/portfolio-service/internal/models"
	"github.com/trogers1052/portfolio-service/internal/portfolio"
	"github.com/trogers1052/portfolio-service/internal/quotes"
	"github.com/trogers1052/portfolio-service/internal/refresher"
)

func main() {
	cfg := config.Load()

	// Cache store: Redis in deployments, in-process otherwise.
	var store cache.Store
	if cfg.Redis.Addr == "memory" {
		log.Println("using in-process cache")
		store = cache.NewMemory()
	} else {
		redisStore := cache.NewRedis(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisStore.Ping(pingCtx); err != nil {
			// Not fatal: reads degrade to the live-fetch fallback and
			// Redis may come up later.
			log.Printf("warning: redis unreachable at startup: %v", err)
		}
		cancel()
		defer redisStore.Close()
		store = redisStore
	}

	// Holdings are loaded once and read-only afterwards.
	var (
		defs []models.Holding
		err  error
	)
	if cfg.Holdings.Source == "postgres" {
		db, dbErr := database.New(cfg.Database.ConnectionString())
		if dbErr != nil {
			log.Fatalf("database: %v", dbErr)
		}
		defer db.Close()
		defs, err = holdings.LoadDatabase(db)
	} else {
		defs, err = holdings.LoadFile(cfg.Holdings.File)
	}
	if err != nil {
		log.Fatalf("holdings: %v", err)
	}
	log.Printf("loaded %d holdings", len(defs))

	symbols := make([]string, 0, len(defs))
	for _, h := range defs {
		symbols = append(symbols, h.Symbol)
	}

	gateway := quotes.NewYahoo(cfg.Quotes)

	var publisher refresher.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Printf("publishing quote events to topic %s", cfg.Kafka.Topic)
	}

	job := refresher.New(store, gateway, symbols, publisher)
	job.Start(time.Duration(cfg.Refresh.IntervalMinutes) * time.Minute)
	defer job.Stop()

	svc := portfolio.NewService(defs, portfolio.NewReader(store), gateway)
	handler := api.NewHandler(svc, store)
	router := api.SetupRoutes(handler)

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
