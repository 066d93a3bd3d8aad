package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"auctionhunter/config"
	"auctionhunter/internal/api"
	"auctionhunter/internal/estimator"
	"auctionhunter/internal/fetcher"
	"auctionhunter/internal/listing"
	"auctionhunter/internal/pipeline"
	"auctionhunter/internal/scoring"
	"auctionhunter/logger"
	pkgerr "auctionhunter/pkg/errors"
	"auctionhunter/services/cache"
	"auctionhunter/services/notifier"
	"auctionhunter/services/publisher"
	"auctionhunter/services/seen"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "usage: auctionhunter [flags] <query>")
		os.Exit(2)
	}

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if opts.interval == 0 {
		opts.interval = cfg.CrawlInterval
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("query", opts.query).
		Dur("interval", opts.interval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	searchOpts := fetcher.Options{
		MaxResults:  cfg.MaxResults,
		MaxPrice:    opts.maxPrice,
		Condition:   opts.condition,
		AuctionOnly: true,
	}

	hunter := pipeline.NewHunter(pipeline.Deps{
		Fetcher:   fetcher.New(&cfg, services.BlockList),
		Parser:    listing.NewParser(),
		Estimator: estimator.New(estimator.DefaultTable),
		Scorer:    scoring.NewScorer(cfg.FeePercent),
		Store:     services.Store,
		Publisher: services.Publisher,
		Notifier:  notifier.NewLogNotifier(),
		Feed:      services.Feed,
	}, searchOpts, cfg.MaxConcurrency)

	// Serve the read-only API while hunting
	apiServer := &http.Server{
		Addr:    cfg.APIAddr,
		Handler: api.NewServer(services.Feed, hunter).Router(),
	}
	go func() {
		log.Info().Str("addr", cfg.APIAddr).Msg("API listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("API server exited")
		}
	}()

	runDone := make(chan error, 1)
	go func() {
		runDone <- runLoop(ctx, hunter, services.Publisher, opts.query, opts.minProfit, opts.notify, opts.interval)
	}()

	// Wait for shutdown signal or run completion
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		<-runDone
	case err := <-runDone:
		if err != nil {
			log.Error().Err(err).Msg("Hunt exited with error")
			shutdownAPI(apiServer)
			services.Cleanup()
			os.Exit(1)
		}
		log.Info().Msg("Hunt finished")
	}

	shutdownAPI(apiServer)
	log.Info().Msg("Shutting down gracefully...")
}

// cliOptions is the parsed command line.
type cliOptions struct {
	query     string
	minProfit listing.Cents
	maxPrice  listing.Cents
	condition listing.Condition
	notify    bool
	interval  time.Duration
}

// parseArgs parses flags and the query argument. min-profit defaults
// to 0: every scored deal is emitted unless a floor is asked for.
func parseArgs(args []string) (*cliOptions, error) {
	fs := flag.NewFlagSet("auctionhunter", flag.ContinueOnError)
	minProfitDollars := fs.Float64("min-profit", 0, "minimum estimated profit in dollars; 0 emits every scored deal")
	notify := fs.Bool("notify", false, "send alerts through the notifier")
	interval := fs.Duration("interval", 0, "re-run interval; 0 runs once")
	maxPriceDollars := fs.Float64("max-price", 0, "maximum current price in dollars; 0 means no cap")
	condition := fs.String("condition", "", "item condition filter: new, used or for-parts")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	query := fs.Arg(0)
	if query == "" {
		return nil, fmt.Errorf("query argument is required")
	}

	cond := listing.Condition(*condition)
	switch cond {
	case "", listing.ConditionNew, listing.ConditionUsed, listing.ConditionForParts:
	default:
		return nil, fmt.Errorf("unknown condition %q", *condition)
	}

	return &cliOptions{
		query:     query,
		minProfit: listing.FromDollars(*minProfitDollars),
		maxPrice:  listing.FromDollars(*maxPriceDollars),
		condition: cond,
		notify:    *notify,
		interval:  *interval,
	}, nil
}

// runLoop runs one hunt, then keeps re-running on the interval when
// one is configured. A blocked or store error ends the loop.
func runLoop(ctx context.Context, hunter *pipeline.Hunter, pub publisher.Publisher, query string, minProfit listing.Cents, notify bool, interval time.Duration) error {
	for {
		result, err := hunter.Hunt(ctx, query, minProfit, notify)
		switch {
		case err == nil:
			logger.Info("Run %s emitted %d deals", result.Summary.RunID, result.Summary.Emitted)
			if pub != nil {
				if err := pub.TrimStreams(); err != nil {
					logger.Warn("Stream trim failed: %v", err)
				}
			}
		case pkgerr.IsBlocked(err), pkgerr.IsStore(err):
			return err
		case ctx.Err() != nil:
			return nil
		default:
			logger.Error("Run failed: %v", err)
			if interval == 0 {
				return err
			}
		}

		if interval == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

func shutdownAPI(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

// Services holds all the initialized services
type Services struct {
	BlockList *cache.BlockList
	Store     seen.Store
	Publisher publisher.Publisher
	Feed      *api.Feed
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

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Block cache keeps challenge embargoes across runs
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	services.BlockList = cache.NewBlockList(cacheService, cfg.BlockWindow)
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	// Seen store is required; alerts cannot be deduped without it
	store, err := seen.NewPostgresStore(cfg.DSN())
	if err != nil {
		return nil, err
	}
	services.Store = store
	logger.Info("Connected to Postgres at %s:%s", cfg.PostgresHost, cfg.PostgresPort)

	// Feed publisher
	redisPublisher := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	services.Publisher = redisPublisher
	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	services.Feed = api.NewFeed(cfg.FeedSize)

	return services, nil
}
