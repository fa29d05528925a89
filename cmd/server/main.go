package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
	"github.com/rdmkit/recordfiles/pkg/recordfiles/api"
	"github.com/rdmkit/recordfiles/pkg/recordfiles/config"
)

type Config struct {
	Port               string `env:"PORT" env-default:"8080"`
	Environment        string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL        string `env:"DATABASE_URL" env-default:""`
	PIDType            string `env:"PID_TYPE" env-default:"recid"`
	HideForbiddenFiles bool   `env:"HIDE_FORBIDDEN_FILES" env-default:"false"`
	Storage            StorageConfig
}

type StorageConfig struct {
	Backend   string `env:"STORAGE_BACKEND" env-default:"memory"`
	FsBaseDir string `env:"FS_BASE_DIR" env-default:"./data/storage"`
	S3        S3Config
}

type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	BucketName      string `env:"AWS_S3_BUCKET" env-default:"record-files"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UseSSL          bool   `env:"AWS_S3_USE_SSL" env-default:"true"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverConfig, err := buildServerConfig(cfg)
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	svc, err := serverConfig.BuildService(recordfiles.RecordAccessPolicy{}, nil)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	recordsHandler := api.NewRecordsHandler(svc, serverConfig.PIDType, serverConfig.HideForbiddenFiles)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	RoutesHealthz(r)
	r.Mount("/records", recordsHandler.Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Record files server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"storage_backend", serverConfig.DefaultStorageBackend,
			"pid_type", serverConfig.PIDType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func buildServerConfig(cfg Config) (*config.ServerConfig, error) {
	opts := []config.Option{
		config.WithPort(cfg.Port),
		config.WithEnvironment(cfg.Environment),
		config.WithPIDType(cfg.PIDType),
		config.WithHideForbiddenFiles(cfg.HideForbiddenFiles),
	}

	if cfg.DatabaseURL != "" {
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			return nil, fmt.Errorf("unsupported DATABASE_URL scheme in %q", cfg.DatabaseURL)
		}
		opts = append(opts, config.WithDatabase("postgres", cfg.DatabaseURL))
	}

	switch cfg.Storage.Backend {
	case "memory":
		// library default
	case "fs":
		opts = append(opts, config.WithStorageBackend(config.StorageBackendConfig{
			Name: "fs",
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir": cfg.Storage.FsBaseDir,
			},
		}))
	case "s3":
		opts = append(opts, config.WithStorageBackend(config.StorageBackendConfig{
			Name: "s3",
			Type: "s3",
			Config: map[string]interface{}{
				"bucket":            cfg.Storage.S3.BucketName,
				"region":            cfg.Storage.S3.Region,
				"endpoint":          cfg.Storage.S3.Endpoint,
				"access_key_id":     cfg.Storage.S3.AccessKeyID,
				"secret_access_key": cfg.Storage.S3.SecretAccessKey,
				"use_ssl":           cfg.Storage.S3.UseSSL,
				"use_path_style":    cfg.Storage.S3.UsePathStyle,
			},
		}))
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}

	return config.Load(opts...)
}

func RoutesHealthz(r *chi.Mux) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
	r.Get("/healthz/ready", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
}
