package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/screenshot-differ/internal/config"
	"github.com/anime-shed/screenshot-differ/internal/container"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	root := flag.String("root", cfg.CaptureRoot, "capture root holding run directories")
	exploreDir := flag.String("explore", cfg.ExploreDir, "explicit explore-side capture directory")
	scriptDir := flag.String("script", cfg.ScriptDir, "explicit script-side capture directory")
	flatDir := flag.String("flat", cfg.FlatDir, "single directory with explore-/script- prefixed files")
	out := flag.String("out", cfg.OutputRoot, "output root for diff images and reports")
	matchThreshold := flag.Float64("match-threshold", cfg.MatchThreshold, "RMS below this is rendering noise")
	reviewThreshold := flag.Float64("review-threshold", cfg.ReviewThreshold, "RMS at or above this is a major diff")
	workers := flag.Int("workers", cfg.Workers, "parallel pair comparisons (0 = CPU count)")
	serve := flag.Bool("serve", false, "run the HTTP results server instead of a one-shot comparison")
	addr := flag.String("addr", cfg.ServeAddr, "listen address for -serve")
	flag.Parse()

	cfg.CaptureRoot = *root
	cfg.ExploreDir = *exploreDir
	cfg.ScriptDir = *scriptDir
	cfg.FlatDir = *flatDir
	cfg.OutputRoot = *out
	cfg.MatchThreshold = *matchThreshold
	cfg.ReviewThreshold = *reviewThreshold
	cfg.Workers = *workers
	cfg.ServeAddr = *addr

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})

	c, err := container.NewContainer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize")
	}
	defer c.Service().Close()

	if *serve {
		runServer(c, cfg)
		return
	}

	rep, err := c.Service().Run(context.Background())
	if err != nil {
		logrus.WithError(err).Fatal("Comparison failed")
	}

	logrus.WithFields(logrus.Fields{
		"run_id":      rep.RunID,
		"pairs":       rep.Summary.Total,
		"matches":     rep.Summary.Matches,
		"minor_diffs": rep.Summary.MinorDiffs,
		"major_diffs": rep.Summary.MajorDiffs,
		"outcome":     rep.Summary.Outcome,
		"report":      rep.ReportPath,
	}).Info("Report written")
}

func runServer(c *container.Container, cfg *config.Config) {
	server := &http.Server{
		Addr:         cfg.ServeAddr,
		Handler:      c.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"address": cfg.ServeAddr,
			"timeout": cfg.RequestTimeout,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
