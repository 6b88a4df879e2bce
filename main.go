package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"freegamewatch/config"
	"freegamewatch/internal/extractor"
	"freegamewatch/logger"
	"freegamewatch/services/cache"
	"freegamewatch/services/notifier"
	"freegamewatch/services/publisher"
	"freegamewatch/services/store"
	"freegamewatch/services/worker"
	"freegamewatch/web"
)

var cli struct {
	Check CheckCmd `cmd:"" help:"Run one check cycle and print the current listings."`
	Run   RunCmd   `cmd:"" help:"Run check cycles on the configured interval."`
	Serve ServeCmd `cmd:"" help:"Run the admin API alongside the check loop."`
}

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	ctx := kong.Parse(&cli,
		kong.Name("freegamewatch"),
		kong.Description("Watches storefronts for games that are temporarily free."),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// Services holds all the initialized services
type Services struct {
	Config    config.Config
	Store     store.Store
	Cache     cache.Service
	Publisher publisher.Publisher
	Notifier  notifier.Notifier
	Worker    *worker.Worker
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices loads the configuration and wires every service the
// worker needs. Redis, memcache and mail are optional; each is skipped
// when its configuration is absent.
func initializeServices(ctx context.Context) (*Services, error) {
	log := logger.Default

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	services := &Services{Config: cfg}

	st, err := store.NewSqliteStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	services.Store = st
	log.Info().Str("path", cfg.DBPath).Msg("Opened database")

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcache(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
	}

	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMax,
		)
		log.Info().
			Str("addr", cfg.RedisAddr).
			Str("stream", cfg.RedisStream).
			Msg("Connected to Redis")
	}

	if cfg.EmailSender != "" {
		services.Notifier = notifier.NewEmailNotifier(&cfg)
	}

	extractors := extractor.CreateExtractors(&cfg, services.Cache, cfg.EnabledStores)
	if len(extractors) == 0 {
		services.Cleanup()
		return nil, fmt.Errorf("no extractors were created")
	}
	log.Info().Int("extractor_count", len(extractors)).Msg("Created extractors")

	services.Worker = worker.NewWorker(ctx, extractors, st, services.Publisher, services.Notifier, &cfg)
	return services, nil
}

type CheckCmd struct {
	JSON bool `help:"Print the current listings as JSON."`
}

func (c *CheckCmd) Run() error {
	ctx, cancel := signalContext()
	defer cancel()

	services, err := initializeServices(ctx)
	if err != nil {
		return err
	}
	defer services.Cleanup()

	services.Worker.RunCycle()

	listings, err := services.Worker.CurrentListings()
	if err != nil {
		return err
	}

	if c.JSON {
		return json.NewEncoder(os.Stdout).Encode(listings)
	}
	for _, l := range listings {
		fmt.Printf("[%s] %s (%s) %s\n", l.Storefront, l.Title, l.Platform, l.ListingURL)
	}
	fmt.Printf("%d free games right now\n", len(listings))
	return nil
}

type RunCmd struct{}

func (r *RunCmd) Run() error {
	ctx, cancel := signalContext()
	defer cancel()

	services, err := initializeServices(ctx)
	if err != nil {
		return err
	}
	defer services.Cleanup()

	log := logger.Default
	log.Info().
		Str("environment", services.Config.Environment).
		Dur("check_interval", services.Config.CheckInterval).
		Msg("Starting watcher")

	if err := services.Worker.Start(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Msg("Shutting down gracefully...")
	return nil
}

type ServeCmd struct {
	Addr string `help:"Listen address for the admin API." default:""`
}

func (s *ServeCmd) Run() error {
	ctx, cancel := signalContext()
	defer cancel()

	services, err := initializeServices(ctx)
	if err != nil {
		return err
	}
	defer services.Cleanup()

	addr := s.Addr
	if addr == "" {
		addr = services.Config.HTTPAddr
	}

	server := web.NewServer(&services.Config, services.Store, services.Worker)

	workerDone := make(chan error, 1)
	go func() {
		workerDone <- services.Worker.Start()
	}()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Listen(addr)
	}()

	log := logger.Default
	select {
	case <-ctx.Done():
		log.Info().Msg("Received shutdown signal")
	case err := <-workerDone:
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("Worker exited with error")
		}
	case err := <-serverDone:
		if err != nil {
			return err
		}
	}

	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Shutting down gracefully...")
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
