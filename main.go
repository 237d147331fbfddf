package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/winedealworker/config"
	"sjsage522/winedealworker/helpers"
	"sjsage522/winedealworker/internal/dedup"
	"sjsage522/winedealworker/internal/enrich"
	"sjsage522/winedealworker/internal/extract"
	"sjsage522/winedealworker/logger"
	"sjsage522/winedealworker/services/cache"
	"sjsage522/winedealworker/services/notifier"
	"sjsage522/winedealworker/services/pagesource"
	"sjsage522/winedealworker/services/rating"
	"sjsage522/winedealworker/services/watcher"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const rateLimitCacheKey = "lastbottle_rate_limited"

func main() {
	// Load environment variables
	godotenv.Load()

	app := &cli.App{
		Name:  "winedealworker",
		Usage: "watch a daily wine deal page and broadcast new offers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "deal page URL (overrides LASTBOTTLE_URL)",
			},
			&cli.DurationFlag{
				Name:  "poll-interval",
				Usage: "time between page polls (overrides POLL_INTERVAL_SECONDS)",
			},
			&cli.DurationFlag{
				Name:  "dedup-window",
				Usage: "duplicate suppression window (overrides DEAL_DEDUP_MINUTES)",
			},
			&cli.BoolFlag{
				Name:  "safe-mode",
				Usage: "skip all outbound enrichment traffic",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "force debug logging",
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "run a single check and exit",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("Application failed: %v", err)
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		os.Setenv("LOG_LEVEL", "debug")
	}
	logger.Init()
	log := logger.Default

	cfg := config.LoadConfig()
	if c.IsSet("url") {
		cfg.DealURL = c.String("url")
	}
	if c.IsSet("poll-interval") {
		cfg.PollInterval = c.Duration("poll-interval")
	}
	if c.IsSet("dedup-window") {
		cfg.DedupWindow = c.Duration("dedup-window")
	}
	if c.IsSet("safe-mode") {
		cfg.SafeMode = c.Bool("safe-mode")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("deal_url", cfg.DealURL).
		Dur("poll_interval", cfg.PollInterval).
		Bool("safe_mode", cfg.SafeMode).
		Msg("Starting application")

	if cfg.KeepAwake {
		ka := helpers.NewKeepAwake()
		ka.Start()
		defer ka.Stop()
	}

	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	log.Info().Str("addr", cfg.MemcacheAddr).Msg("Using Memcache for rate-limit blocks")

	source := pagesource.New(cfg.DealURL,
		pagesource.WithUserAgent(cfg.UserAgent),
		pagesource.WithCache(cacheService, rateLimitCacheKey),
	)

	deduplicator := dedup.NewDeduplicator(
		dedup.WithWindow(cfg.DedupWindow),
		dedup.WithMaxEntries(cfg.DedupMaxEntries),
	)

	enricher := buildEnricher(cfg)

	sink := buildNotifier(cfg)
	defer sink.Close()

	w := watcher.New(source, deduplicator, enricher, sink,
		watcher.WithPollInterval(cfg.PollInterval),
		watcher.WithExtractOptions(extract.Options{BaseURL: cfg.DealURL}),
	)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if c.Bool("once") {
		w.CheckOnce(ctx)
		return nil
	}

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	watcherDone := make(chan error, 1)
	go func() {
		watcherDone <- w.Run(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-watcherDone
	case err := <-watcherDone:
		if err != nil {
			log.Error().Err(err).Msg("Watcher exited with error")
			return err
		}
	}

	log.Info().Msg("Shutting down gracefully...")
	return nil
}

// buildEnricher wires the rating provider. Safe mode and the enrichment
// flag both collapse to a disabled adapter rather than a nil one, so the
// watcher never branches on configuration.
func buildEnricher(cfg *config.Config) *enrich.Adapter {
	if cfg.SafeMode || !cfg.EnrichEnabled {
		logger.Default.Info().Msg("Enrichment disabled, deals go out unenriched")
		return enrich.NewAdapter(nil)
	}

	provider := rating.NewVivinoProvider(
		rating.WithTimeout(cfg.VivinoTimeout),
		rating.WithUserAgent(cfg.UserAgent),
	)
	return enrich.NewAdapter(provider, enrich.WithTimeout(cfg.EnrichTimeout))
}

// buildNotifier assembles the configured delivery channels. With nothing
// configured, deals still land in the log.
func buildNotifier(cfg *config.Config) notifier.Notifier {
	var sinks []notifier.Notifier

	if cfg.TelegramBotToken != "" {
		sinks = append(sinks, notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
		logger.Default.Info().Str("chat_id", cfg.TelegramChatID).Msg("Telegram notifications enabled")
	}

	if cfg.RedisEnabled {
		rn := notifier.NewRedisNotifier(
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMax,
		)
		if err := rn.TrimStreams(context.Background()); err != nil {
			logger.Default.Warn().Err(err).Msg("Trimming Redis streams failed")
		}
		sinks = append(sinks, rn)
		logger.Default.Info().
			Str("addr", cfg.RedisAddr).
			Str("stream", cfg.RedisStream).
			Msg("Redis stream notifications enabled")
	}

	if len(sinks) == 0 {
		return notifier.NewLogNotifier()
	}
	if len(sinks) == 1 {
		return sinks[0]
	}
	return notifier.NewMulti(sinks...)
}
