package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gosmtp "github.com/emersion/go-smtp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"msgstg/backend/internal/archive"
	"msgstg/backend/internal/config"
	"msgstg/backend/internal/logger"
	"msgstg/backend/internal/mapi"
	"msgstg/backend/internal/monitoring"
	"msgstg/backend/internal/msgwriter"
	"msgstg/backend/internal/smtp"
)

// main 启动 SMTP 归档网关：接收邮件并编码为结构化存储容器树。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     cfg.Log.File,
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	metrics := monitoring.NewMetrics()

	writer := msgwriter.NewWriter()
	if cfg.Archive.FileNameTag == "display-name" {
		writer.UseFileNameTag(mapi.Lookup("PR_DISPLAY_NAME_UNICODE"))
	}

	archiver := archive.NewService(writer, cfg.Archive.OutputDir, log, metrics)
	limiter := smtp.NewConnectionLimiter(cfg.SMTP.MaxConnections, cfg.SMTP.MaxConnRate)
	backend := smtp.NewBackend(
		archiver,
		cfg.SMTP.AllowedDomains,
		limiter,
		int64(cfg.SMTP.MaxMessageMB)<<20,
		log,
		metrics,
	)

	server := gosmtp.NewServer(backend)
	server.Addr = cfg.SMTP.BindAddr
	server.Domain = cfg.SMTP.Domain
	server.MaxMessageBytes = int64(cfg.SMTP.MaxMessageMB) << 20
	server.ReadTimeout = 60 * time.Second
	server.WriteTimeout = 60 * time.Second
	server.AllowInsecureAuth = true

	metricsServer := &http.Server{
		Addr:    cfg.Metrics.BindAddr,
		Handler: monitoring.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting smtp archive gateway",
			zap.String("addr", cfg.SMTP.BindAddr),
			zap.String("output_dir", cfg.Archive.OutputDir),
			zap.Strings("allowed_domains", cfg.SMTP.AllowedDomains),
		)
		if err := server.ListenAndServe(); err != nil {
			return fmt.Errorf("smtp server: %w", err)
		}
		return nil
	})

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			log.Info("starting metrics endpoint", zap.String("addr", cfg.Metrics.BindAddr))
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_ = metricsServer.Shutdown(shutdownCtx)
		return server.Close()
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Fatal("gateway exited", zap.Error(err))
	}
	log.Info("gateway stopped")
}
