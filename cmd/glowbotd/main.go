package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/glowbotai/glowbot/internal/api"
	"github.com/glowbotai/glowbot/internal/config"
	"github.com/glowbotai/glowbot/internal/delegate"
	"github.com/glowbotai/glowbot/internal/eventlog"
	"github.com/glowbotai/glowbot/internal/gateway"
	"github.com/glowbotai/glowbot/internal/intake"
	"github.com/glowbotai/glowbot/internal/lang"
	"github.com/glowbotai/glowbot/internal/orchestrator"
	"github.com/glowbotai/glowbot/internal/state"
)

func main() {
	cfg := config.Load()
	log := newLogger()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create data dir")
	}

	db, err := state.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	store := state.NewStore(db)
	events := eventlog.New(db)

	dlg, err := delegate.NewClient(delegate.Config{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		APIKey:   cfg.LLMAPIKey,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configure delegate")
	}

	orch := orchestrator.New(store, dlg, events, lang.RangeDetector{}, orchestrator.Options{
		ChunkLimit:      cfg.ChunkLimit,
		HistoryPairs:    cfg.HistoryPairs,
		ReviewThreshold: cfg.ReviewThreshold,
	}, log)

	var sender gateway.Sender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioNumber != "" {
		sender = gateway.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioNumber, log)
	} else {
		log.Warn().Msg("twilio credentials missing; outbound messages will only be logged")
		sender = logSender{log: log}
	}

	// Each flushed batch runs on its own goroutine so one slow model call
	// never delays other conversations.
	buffer := intake.NewBuffer(cfg.DebounceWindow, func(batch intake.Batch) {
		go deliverTurn(orch, sender, batch, log)
	}, log)
	defer buffer.Stop()

	apiServer := &api.Server{
		Store:      store,
		Events:     events,
		Buffer:     buffer,
		Normalizer: gateway.NewNormalizer(cfg.DedupeTTL),
		StartedAt:  time.Now(),
		Log:        log,
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(apiServer.Handler(), log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("glowbotd listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	_ = httpServer.Close()
}

func deliverTurn(orch *orchestrator.Orchestrator, sender gateway.Sender, batch intake.Batch, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	chunks, err := orch.HandleTurn(ctx, orchestrator.Inbound{
		Identity:    batch.Identity,
		DisplayName: batch.DisplayName,
		Text:        batch.Text,
		MediaURL:    batch.MediaURL,
	})
	if err != nil {
		log.Error().Err(err).Str("identity", batch.Identity).Msg("turn failed before reply")
		return
	}
	for _, chunk := range chunks {
		if err := sender.Send(ctx, batch.Identity, chunk); err != nil {
			// Stop on the first failure; sending later chunks without
			// earlier ones would garble the reply.
			log.Error().Err(err).Str("identity", batch.Identity).Msg("outbound send failed")
			return
		}
	}
}

// logSender stands in when Twilio is not configured (local development).
type logSender struct {
	log zerolog.Logger
}

func (s logSender) Send(_ context.Context, identity, text string) error {
	s.log.Info().Str("identity", identity).Str("text", text).Msg("outbound (dry run)")
	return nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := os.Getenv("GLOWBOT_LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

func loggingMiddleware(next http.Handler, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
