package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/api/handlers"
	"github.com/macrolog-ai/macrolog/internal/config"
	"github.com/macrolog-ai/macrolog/internal/llm"
	"github.com/macrolog-ai/macrolog/internal/repository"
	"github.com/macrolog-ai/macrolog/internal/server"
	"github.com/macrolog-ai/macrolog/internal/service"
	"github.com/macrolog-ai/macrolog/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the macrolog API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().String("data-dir", "", "Data directory (overrides MACROLOG_DATA_DIR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}
	if dataDirFlag, _ := cmd.Flags().GetString("data-dir"); dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}

	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	noteRepo := repository.NewNoteRepository(cfg.DataDir, repository.NewNoteCache(), logger)
	ledgerRepo, err := repository.NewLedgerRepository(cfg.DataDir, cfg.LedgerCacheSize, logger)
	if err != nil {
		return fmt.Errorf("failed to create ledger repository: %w", err)
	}
	targetRepo := repository.NewTargetRepository(cfg.DataDir)

	retrievalSvc := service.NewRetrievalService(noteRepo, service.RetrievalConfig{
		TopK:              cfg.Retrieval.TopK,
		MinScore:          cfg.Retrieval.MinScore,
		CutoffRatio:       cfg.Retrieval.CutoffRatio,
		CollapseScore:     cfg.Retrieval.CollapseScore,
		CollapseMaxTokens: cfg.Retrieval.CollapseMaxTokens,
	}, logger)
	contextSvc := service.NewContextService(retrievalSvc, logger)
	noteSvc := service.NewNoteService(noteRepo, logger)
	ledgerSvc := service.NewLedgerService(ledgerRepo, logger)
	targetSvc := service.NewTargetService(targetRepo, logger)

	if !cfg.HasOpenAI() {
		return fmt.Errorf("MACROLOG_OPENAI_API_KEY is required to run the server")
	}
	normalizer := llm.NewNormalizer(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, logger)

	mealSvc := service.NewMealService(normalizer, contextSvc, ledgerSvc, targetSvc, cfg.LLMTimeout, logger)

	router := server.NewRouter(server.RouterConfig{
		Logger:        logger,
		MealHandler:   handlers.NewMealHandler(mealSvc),
		LedgerHandler: handlers.NewLedgerHandler(ledgerSvc),
		NoteHandler:   handlers.NewNoteHandler(noteSvc, contextSvc),
		TargetHandler: handlers.NewTargetHandler(targetSvc),
		StatsHandler:  handlers.NewStatsHandler(ledgerSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("data_dir", cfg.DataDir))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
