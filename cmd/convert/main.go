package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"msgstg/backend/internal/archive"
	"msgstg/backend/internal/config"
	"msgstg/backend/internal/logger"
	"msgstg/backend/internal/mapi"
	"msgstg/backend/internal/msgwriter"
	"msgstg/backend/internal/smtp"
)

// main 批量把 .eml 文件转换为结构化存储容器树。
//
// 用法: convert <file.eml> [file.eml ...]
// 输出目录与附件文件名属性取自 MSGSTG_ 环境变量（见 internal/config）。
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: convert <file.eml> [file.eml ...]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	writer := msgwriter.NewWriter()
	if cfg.Archive.FileNameTag == "display-name" {
		writer.UseFileNameTag(mapi.Lookup("PR_DISPLAY_NAME_UNICODE"))
	}
	archiver := archive.NewService(writer, cfg.Archive.OutputDir, log, nil)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, path := range os.Args[1:] {
		g.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			message, err := smtp.ParseEmail(raw)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			dir, err := archiver.Archive(message)
			if err != nil {
				return fmt.Errorf("convert %s: %w", path, err)
			}

			log.Info("converted",
				zap.String("input", path),
				zap.String("output", dir),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal("conversion failed", zap.Error(err))
	}
}
