package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/resumechat/internal/ai"
	"github.com/xxxsen/resumechat/internal/config"
	"github.com/xxxsen/resumechat/internal/filestore"
	"github.com/xxxsen/resumechat/internal/handler"
	"github.com/xxxsen/resumechat/internal/job"
	"github.com/xxxsen/resumechat/internal/middleware"
	"github.com/xxxsen/resumechat/internal/model"
	"github.com/xxxsen/resumechat/internal/repo"
	"github.com/xxxsen/resumechat/internal/schedule"
	"github.com/xxxsen/resumechat/internal/service"
	"github.com/xxxsen/resumechat/internal/trainer"
)

func main() {
	_ = godotenv.Load()

	var configPath string

	rootCmd := &cobra.Command{
		Use:   "resumechat",
		Short: "resume question answering pipeline and chat server",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	loadConfig := func() (*config.Config, error) {
		if configPath == "" {
			return nil, fmt.Errorf("--config is required")
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(
			cfg.LogConfig.File,
			cfg.LogConfig.Level,
			int(cfg.LogConfig.FileCount),
			int(cfg.LogConfig.FileSize),
			int(cfg.LogConfig.KeepDays),
			cfg.LogConfig.Console,
		)
		logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
		return cfg, nil
	}

	var fileKey string
	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "extract the resume pdf into a structured profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runExtract(cmd.Context(), cfg, fileKey)
		},
	}
	extractCmd.Flags().StringVar(&fileKey, "file", "", "resume key in the document store (default: first pdf)")

	prepareCmd := &cobra.Command{
		Use:   "prepare",
		Short: "merge the profile with authored qa pairs into the training dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runPrepare(cmd.Context(), cfg)
		},
	}

	finetuneCmd := &cobra.Command{
		Use:   "finetune",
		Short: "fine tune the base model on the prepared dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return runFinetune(cmd.Context(), cfg, db)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the chat api and web page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return runServer(cfg, db)
		},
	}

	pipelineCmd := &cobra.Command{
		Use:   "pipeline",
		Short: "run extract, prepare and finetune, then serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := runExtract(ctx, cfg, ""); err != nil {
				return err
			}
			if err := runPrepare(ctx, cfg); err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := runFinetune(ctx, cfg, db); err != nil {
				return err
			}
			return runServer(cfg, db)
		},
	}

	rootCmd.AddCommand(extractCmd, prepareCmd, finetuneCmd, serveCmd, pipelineCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := repo.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := repo.ApplyMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

func runExtract(ctx context.Context, cfg *config.Config, fileKey string) error {
	store, err := filestore.New(cfg.DocumentStore)
	if err != nil {
		return fmt.Errorf("init document store: %w", err)
	}
	if err := os.MkdirAll(cfg.Pipeline.DataDir, 0o755); err != nil {
		return err
	}
	extracts := service.NewExtractService(store)
	datasets := service.NewDatasetService(cfg.Pipeline)
	var profile *model.ResumeProfile
	if fileKey != "" {
		profile, err = extracts.Extract(ctx, fileKey)
	} else {
		profile, err = extracts.ExtractFirst(ctx)
	}
	if err != nil {
		return err
	}
	return datasets.SaveProfile(ctx, profile)
}

func runPrepare(ctx context.Context, cfg *config.Config) error {
	datasets := service.NewDatasetService(cfg.Pipeline)
	_, err := datasets.Prepare(ctx)
	return err
}

func runFinetune(ctx context.Context, cfg *config.Config, db *sql.DB) error {
	tr, err := trainer.New(cfg.Trainer.Type, cfg.Trainer.Data)
	if err != nil {
		return fmt.Errorf("init trainer: %w", err)
	}
	if err := os.MkdirAll(cfg.Pipeline.ModelsDir, 0o755); err != nil {
		return err
	}
	datasets := service.NewDatasetService(cfg.Pipeline)
	training := service.NewTrainingService(repo.NewTrainingRunRepo(db), tr, datasets, cfg.Pipeline.BaseModel)
	_, err = training.StartRun(ctx)
	return err
}

func runServer(cfg *config.Config, db *sql.DB) error {
	rootLogger := logutil.GetLogger(context.Background())
	rootLogger.Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_path", cfg.DBPath),
		zap.String("document_store", cfg.DocumentStore.Type),
		zap.String("inference", cfg.Inference.Type),
	)

	store, err := filestore.New(cfg.DocumentStore)
	if err != nil {
		return fmt.Errorf("init document store: %w", err)
	}
	provider, err := ai.NewProvider(cfg.Inference.Type, cfg.Inference.Data)
	if err != nil {
		return fmt.Errorf("init inference provider: %w", err)
	}
	tr, err := trainer.New(cfg.Trainer.Type, cfg.Trainer.Data)
	if err != nil {
		return fmt.Errorf("init trainer: %w", err)
	}

	runRepo := repo.NewTrainingRunRepo(db)
	chatLogRepo := repo.NewChatLogRepo(db)

	extracts := service.NewExtractService(store)
	datasets := service.NewDatasetService(cfg.Pipeline)
	training := service.NewTrainingService(runRepo, tr, datasets, cfg.Pipeline.BaseModel)

	// the model server reads the installed artifact; refuse to serve a
	// model that was never trained
	if cfg.Inference.Type == "modelserver" {
		if _, statErr := os.Stat(datasets.ArtifactDir()); statErr != nil {
			if _, runErr := runRepo.LatestSucceeded(context.Background()); runErr != nil {
				return fmt.Errorf("no fine tuned artifact at %s, run finetune first", datasets.ArtifactDir())
			}
		}
	}

	profiles := service.NewProfileHolder()
	pairs := loadChatCorpus(datasets, profiles)
	answerer := ai.NewAnswerer(provider, cfg.Inference.Model, time.Duration(cfg.Inference.TimeoutSeconds)*time.Second)
	chat := service.NewChatService(answerer, chatLogRepo, profiles, pairs, cfg.Inference.MaxQuestionChars)

	var similarityHandler *handler.SimilarityHandler
	if !cfg.DisableSimilarity {
		similarityHandler = handler.NewSimilarityHandler(service.NewSimilarityService(profiles))
	}

	deps := handler.RouterDeps{
		Page:            handler.NewPageHandler(),
		Chat:            handler.NewChatHandler(chat),
		Similarity:      similarityHandler,
		Resumes:         handler.NewResumeHandler(extracts, datasets, profiles),
		Runs:            handler.NewRunHandler(training),
		Version:         handler.NewVersionHandler(),
		RateLimitWindow: time.Duration(cfg.RateLimitSeconds) * time.Second,
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.Schedule.RetrainSpec != "" {
		if err := scheduler.AddJob(job.NewRetrainJob(training), cfg.Schedule.RetrainSpec); err != nil {
			return err
		}
	}
	if cfg.Schedule.ChatLogCleanSpec != "" {
		if err := scheduler.AddJob(job.NewChatLogCleanupJob(chatLogRepo, cfg.Schedule.ChatLogKeepDays), cfg.Schedule.ChatLogCleanSpec); err != nil {
			return err
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	rootLogger.Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			rootLogger.Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	rootLogger.Info("server stopping...")
	return nil
}

// loadChatCorpus seeds the profile holder and loads the authored QA
// pairs. The server still starts without them so resumes can be uploaded
// and extracted over the api.
func loadChatCorpus(datasets *service.DatasetService, profiles *service.ProfileHolder) []model.QAPair {
	ctx := context.Background()
	logger := logutil.GetLogger(ctx)
	if profile, err := datasets.LoadProfile(ctx); err == nil {
		profiles.Update(profile)
	} else {
		logger.Warn("resume profile not loaded, chat disabled until extraction runs", zap.Error(err))
	}
	pairs, err := datasets.LoadQAPairs(ctx)
	if err != nil {
		logger.Warn("qa pairs not loaded", zap.Error(err))
	}
	return pairs
}
