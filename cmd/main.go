package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/sportscast/internal/adapters/feed"
	"github.com/okian/sportscast/internal/adapters/settings"
	"github.com/okian/sportscast/internal/adapters/sinks"
	"github.com/okian/sportscast/internal/app"
	"github.com/okian/sportscast/internal/commentary"
	"github.com/okian/sportscast/internal/config"
	"github.com/okian/sportscast/internal/domain/model"
	"github.com/okian/sportscast/internal/domain/scoring"
	"github.com/okian/sportscast/internal/domain/tracker"
	"github.com/okian/sportscast/internal/scheduler"
	"github.com/okian/sportscast/pkg/logger"
)

// Metrics listener timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Open the persistence collaborator and overlay saved user choices.
	store, err := settings.NewFileStore(cfg.SettingsPath)
	if err != nil {
		log.Warn(ctx, "settings unavailable, continuing in memory", logger.Error(err))
		store, _ = settings.NewFileStore("")
	}
	applySavedSettings(ctx, cfg, store)

	eng := buildEngine(cfg, store, log)

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, log)
	}

	log.Info(ctx, "sportscast on air",
		logger.String("scope", cfg.ScopeType),
		logger.String("value", cfg.ScopeValue),
		logger.Int("poll_interval_s", cfg.PollIntervalSeconds))

	_ = eng.Run(ctx)
	log.Info(context.Background(), "sportscast signing off")
}

// applySavedSettings overlays values the user persisted in earlier
// sessions onto the loaded config. Read once at startup, per contract.
func applySavedSettings(ctx context.Context, cfg *config.Config, store settings.Store) {
	if v, ok := store.Get(ctx, settings.KeyScopeType); ok {
		cfg.ScopeType = v
	}
	if v, ok := store.Get(ctx, settings.KeyScopeValue); ok {
		cfg.ScopeValue = v
	}
	if v, ok := store.Get(ctx, settings.KeyEventFilter); ok {
		cfg.EventFilter = v
	}
	if v, ok := store.Get(ctx, settings.KeyCommentaryEndpoint); ok {
		cfg.CommentaryEndpoint = v
	}
	if v, ok := store.Get(ctx, settings.KeyCommentaryKey); ok {
		cfg.CommentaryKey = v
	}
	if v, ok := store.Get(ctx, settings.KeyCommentaryModel); ok {
		cfg.CommentaryModel = v
	}
}

func buildEngine(cfg *config.Config, store settings.Store, log logger.Logger) *app.Engine {
	weights := make(map[model.Kind]int, len(cfg.KindWeights))
	for kind, w := range cfg.KindWeights {
		weights[model.Kind(kind)] = w
	}

	track := tracker.New(
		tracker.WithScorer(scoring.New(
			scoring.WithKindWeights(weights),
			scoring.WithDefaultWeight(cfg.DefaultKindWeight),
		)),
		tracker.WithAudioSink(&sinks.LogAudioSink{Log: log.Named("audio")}),
		tracker.WithLogger(log.Named("tracker")),
	)

	sched := scheduler.New(
		scheduler.WithBaseInterval(time.Duration(cfg.PollIntervalSeconds)*time.Second),
		scheduler.WithAutoProtect(cfg.AutoProtect),
		scheduler.WithLogger(log.Named("scheduler")),
	)

	casterOpts := []commentary.Option{
		commentary.WithLogger(log.Named("commentary")),
	}
	if cfg.CommentaryEnabled {
		casterOpts = append(casterOpts, commentary.WithRemote(cfg.CommentaryEndpoint, cfg.CommentaryKey, cfg.CommentaryModel))
	}
	if cfg.SpeechEnabled {
		casterOpts = append(casterOpts, commentary.WithSpeechSink(&sinks.LogSpeechSink{Log: log.Named("speech")}))
	}

	return app.New(
		app.WithLogger(log.Named("engine")),
		app.WithFeed(feed.NewGitHubSource(
			feed.WithToken(cfg.GithubToken),
			feed.WithGitHubLogger(log.Named("feed")),
		)),
		app.WithDemoFeed(feed.NewDemoSource()),
		app.WithTracker(track),
		app.WithScheduler(sched),
		app.WithCommentary(commentary.New(casterOpts...)),
		app.WithSettings(store),
		app.WithScope(cfg.Scope()),
		app.WithEventFilter(cfg.EventFilter),
	)
}

// serveMetrics exposes Prometheus metrics until ctx is canceled.
func serveMetrics(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "metrics listening", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(ctx, "metrics listener failed", logger.Error(err))
	}
}
