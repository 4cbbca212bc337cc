package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/PiyushDatta/senseboard/internal/aiengine"
	"github.com/PiyushDatta/senseboard/internal/aiprovider"
	"github.com/PiyushDatta/senseboard/internal/config"
	"github.com/PiyushDatta/senseboard/internal/health"
	"github.com/PiyushDatta/senseboard/internal/logging"
	"github.com/PiyushDatta/senseboard/internal/metrics"
	"github.com/PiyushDatta/senseboard/internal/personalization"
	"github.com/PiyushDatta/senseboard/internal/ratelimit"
	"github.com/PiyushDatta/senseboard/internal/room"
	"github.com/PiyushDatta/senseboard/internal/scheduler"
	"github.com/PiyushDatta/senseboard/internal/transcription"
	"github.com/PiyushDatta/senseboard/internal/transport"
)

const roomGracePeriod = 10 * time.Second

func main() {
	envPaths := []string{".env", "../../.env", "../../../.env"}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	cfg, err := config.Load(os.Getenv("SENSEBOARD_CONFIG"))
	if err != nil {
		panic(err)
	}

	development := cfg.LogLevel == "debug"
	if err := logging.Initialize(development); err != nil {
		panic(err)
	}
	logger := logging.GetLogger()
	defer logger.Sync()

	logging.Info(context.Background(), "starting senseboard",
		zap.String("aiProvider", cfg.AI.Provider),
		zap.Int("serverPort", cfg.Server.Port),
		zap.String("logLevel", cfg.LogLevel))

	provider := buildProvider(cfg)
	engine := aiengine.NewEngine(provider, cfg.AI.ReviewMaxRevisions, cfg.AI.ReviewConfidenceThresh)

	store := room.NewStore(roomGracePeriod)
	sched := scheduler.New(store, engine, scheduler.DefaultMinInterval, scheduler.DefaultMainQueueWaitTimeout, scheduler.DefaultDebounce, aiengine.DefaultWindowSeconds)
	defer sched.Stop()

	transcriber := buildTranscriptionProvider(cfg)
	personalStore := buildPersonalizationStore()
	defer personalStore.Close()

	healthHandler := health.NewHandler(provider)
	limiter, err := ratelimit.New(ratelimit.DefaultAPIGlobalRate, ratelimit.DefaultAPIRoomsRate, ratelimit.DefaultWsConnectRate)
	if err != nil {
		logging.Fatal(context.Background(), "failed to build rate limiter", zap.Error(err))
	}

	router := transport.New(store, sched, healthHandler, limiter, transcriber, personalStore, 20*time.Second)

	listener, boundPort, err := transport.Bind("0.0.0.0", cfg.Server.Port, cfg.Server.PortScanSpan)
	if err != nil {
		logging.Fatal(context.Background(), "failed to bind server port", zap.Error(err))
	}

	srv := &http.Server{Handler: router.Engine()}

	go func() {
		logging.Info(context.Background(), "server listening", zap.Int("port", boundPort))
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Error(context.Background(), "server stopped unexpectedly", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info(context.Background(), "shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error(context.Background(), "server forced to shutdown", zap.Error(err))
	}

	logging.Info(context.Background(), "server exiting")
}

// buildProvider selects the AI provider named by cfg.AI.Provider, wrapping
// every hosted candidate with a circuit breaker that feeds the
// senseboard_circuit_breaker_state gauge.
func buildProvider(cfg *config.Config) aiprovider.Provider {
	hook := func(providerName string, _, to gobreaker.State) {
		metrics.CircuitBreakerState.WithLabelValues(providerName).Set(float64(to))
	}

	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		if cfg.AI.OpenAIAPIKey == "" {
			logging.Warn(context.Background(), "ai.provider=openai but ai.openai_api_key is empty")
		}
		return aiprovider.WithBreaker(aiprovider.NewOpenAI(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel), hook)
	case config.ProviderAnthropic:
		if cfg.AI.AnthropicAPIKey == "" {
			logging.Warn(context.Background(), "ai.provider=anthropic but ai.anthropic_api_key is empty")
		}
		return aiprovider.WithBreaker(aiprovider.NewAnthropic(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel), hook)
	case config.ProviderCodexCLI:
		return aiprovider.WithBreaker(aiprovider.NewCodexCLI("", nil), hook)
	case config.ProviderAuto:
		candidates := []aiprovider.Provider{}
		if cfg.AI.OpenAIAPIKey != "" {
			candidates = append(candidates, aiprovider.WithBreaker(aiprovider.NewOpenAI(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel), hook))
		}
		if cfg.AI.AnthropicAPIKey != "" {
			candidates = append(candidates, aiprovider.WithBreaker(aiprovider.NewAnthropic(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel), hook))
		}
		return aiprovider.NewAuto(candidates...)
	default:
		return nil
	}
}

func buildTranscriptionProvider(cfg *config.Config) transcription.Provider {
	if cfg.AI.Provider == config.ProviderOpenAI && cfg.AI.OpenAIAPIKey != "" {
		return transcription.NewOpenAI(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAITranscriptionModel)
	}
	return transcription.Deterministic{}
}

// buildPersonalizationStore defaults to an in-memory store; setting
// SENSEBOARD_PERSONALIZATION_DB opts into sqlite-backed persistence across
// restarts.
func buildPersonalizationStore() personalization.Store {
	if path := os.Getenv("SENSEBOARD_PERSONALIZATION_DB"); path != "" {
		store, err := personalization.OpenSQLiteStore(path)
		if err != nil {
			logging.Fatal(context.Background(), "failed to open personalization store", zap.Error(err), zap.String("path", path))
		}
		return store
	}
	return personalization.NewMemoryStore()
}
