package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/safetykb/msharag/internal/ai"
	"github.com/safetykb/msharag/internal/config"
	"github.com/safetykb/msharag/internal/corpus"
	"github.com/safetykb/msharag/internal/handler"
	"github.com/safetykb/msharag/internal/job"
	"github.com/safetykb/msharag/internal/mcpserver"
	"github.com/safetykb/msharag/internal/middleware"
	"github.com/safetykb/msharag/internal/schedule"
	"github.com/safetykb/msharag/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "msharag",
		Short: "MSHA regulation retrieval backend",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, false)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "serve retrieval tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Console logging would corrupt the stdio transport.
			cfg, err := loadConfig(configPath, true)
			if err != nil {
				return err
			}
			return runMCP(cfg)
		},
	}

	rootCmd.AddCommand(runCmd, mcpCmd)
	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(path string, muteConsole bool) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	console := cfg.LogConfig.Console && !muteConsole
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", path))
	return cfg, nil
}

func buildSearchService(ctx context.Context, cfg *config.Config) (*service.SearchService, corpus.Fetcher, error) {
	fetcher, err := corpus.NewFetcher(cfg.Corpus)
	if err != nil {
		return nil, nil, fmt.Errorf("init corpus source: %w", err)
	}
	snap, err := corpus.Load(ctx, fetcher)
	if err != nil {
		return nil, nil, fmt.Errorf("load corpus: %w", err)
	}
	return service.NewSearchService(corpus.NewStore(snap)), fetcher, nil
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	searchService, fetcher, err := buildSearchService(ctx, cfg)
	if err != nil {
		return err
	}

	provider, err := ai.NewProvider(cfg.Chat.Provider, cfg.Chat.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	answerService := service.NewAnswerService(
		searchService,
		provider,
		cfg.Chat.Model,
		cfg.Chat.TopK,
		time.Duration(cfg.Chat.TimeoutSeconds)*time.Second,
	)

	deps := handler.RouterDeps{
		Search: handler.NewSearchHandler(searchService),
		Chat:   handler.NewChatHandler(answerService),
	}

	engine, err := webapi.NewEngine(
		"/",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	if cfg.Corpus.ReloadCron != "" {
		scheduler := schedule.NewCronScheduler()
		if err := scheduler.AddJob(job.NewCorpusReloadJob(searchService, fetcher), cfg.Corpus.ReloadCron); err != nil {
			return err
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	logutil.GetLogger(ctx).Info("http server listening",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", provider.Name()),
	)
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

func runMCP(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	searchService, _, err := buildSearchService(ctx, cfg)
	if err != nil {
		return err
	}
	return mcpserver.NewServer(searchService).Run(ctx)
}
