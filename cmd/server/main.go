package main // Entry point package

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/flight-price-watch/internal/config"
	"github.com/iliyamo/flight-price-watch/internal/database"
	"github.com/iliyamo/flight-price-watch/internal/handler"
	"github.com/iliyamo/flight-price-watch/internal/provider"
	"github.com/iliyamo/flight-price-watch/internal/queue"
	"github.com/iliyamo/flight-price-watch/internal/repository"
	"github.com/iliyamo/flight-price-watch/internal/router"
	"github.com/iliyamo/flight-price-watch/internal/service"
)

func main() {
	tickOnce := flag.Bool("tick-once", false, "run a single tick, print the results as JSON and exit")
	flag.Parse()

	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("db: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis) // nil when Redis is disabled or unreachable
	if rdb != nil {
		defer rdb.Close()
	}

	providers, err := provider.New(cfg.Provider)
	if err != nil {
		log.Fatalf("providers: %v", err)
	}
	log.Printf("providers: offers=%s booking=%s", providers.Offers.Name(), providers.Booking.Name())

	var publisher service.AlertPublisher = service.NopPublisher{}
	if cfg.Alerts.URL != "" {
		publisher = service.RabbitPublisher{URL: cfg.Alerts.URL, Queue: cfg.Alerts.Queue}
	}

	repos := repository.New(db)
	watcher := service.NewWatcher(repos, providers,
		service.WithPublisher(publisher),
		service.WithLock(service.NewRedisLock(rdb, "fpw:tick:lock", cfg.TickLockTTL)),
	)

	if *tickOnce {
		results, err := watcher.Tick(ctx)
		if err != nil {
			log.Fatalf("tick: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
		return
	}

	if cfg.Alerts.ConsumerEnabled && cfg.Alerts.URL != "" {
		go func() {
			if err := queue.StartAlertConsumer(ctx, cfg.Alerts); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("alert-consumer: stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	router.RegisterRoutes(e, db, rdb)
	router.RegisterAPI(e, cfg, handler.NewHandler(repos, watcher), handler.NewAuthHandler(cfg), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
