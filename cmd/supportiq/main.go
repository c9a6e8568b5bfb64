package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vishalk7890/Support-IQ/pkg/config"
	"github.com/vishalk7890/Support-IQ/pkg/dashboard"
	http_server "github.com/vishalk7890/Support-IQ/pkg/http"
	"github.com/vishalk7890/Support-IQ/pkg/ingest"
	"github.com/vishalk7890/Support-IQ/pkg/messaging"
	"github.com/vishalk7890/Support-IQ/pkg/metrics"
	"github.com/vishalk7890/Support-IQ/pkg/store"
)

var (
	logger     = logrus.New()
	appConfig  *config.Config
	notifier   *messaging.AMQPNotifier
	httpServer *http_server.Server

	// Context for graceful shutdown
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

func main() {
	// Set up logger with basic configuration (will be updated after config is loaded)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logger.SetOutput(os.Stdout)

	// Initialize the root context for graceful shutdown
	rootCtx, rootCancel = context.WithCancel(context.Background())
	defer rootCancel()

	if err := initialize(); err != nil {
		logger.WithError(err).Fatal("Failed to initialize application")
	}

	httpServer.Start()
	logger.Info("HTTP server started")

	// Graceful shutdown handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("Received shutdown signal, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), appConfig.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	// Cancel the root context to signal shutdown to all goroutines
	rootCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Error shutting down HTTP server")
	}

	if notifier != nil {
		notifier.Disconnect()
	}

	logger.Info("Shutdown complete")
}

func initialize() error {
	var err error

	appConfig, err = config.Load(logger)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Apply logging configuration
	if level, parseErr := logrus.ParseLevel(appConfig.Logging.Level); parseErr == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("level", appConfig.Logging.Level).Warn("Invalid log level, using info")
		logger.SetLevel(logrus.InfoLevel)
	}
	if appConfig.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.WithField("level", logger.GetLevel().String()).Info("Log level set")

	// Initialize metrics system
	metrics.Init(logger)
	metrics.SetMetricsEnabled(appConfig.HTTP.EnableMetrics)
	logger.Info("Metrics system initialized")

	// Initialize AWS-backed stores
	awsCfg, err := store.NewAWSConfig(rootCtx, &appConfig.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS configuration: %w", err)
	}

	transcripts := store.NewS3TranscriptStore(logger, awsCfg, appConfig.Storage.TranscriptBucket)
	insights := store.NewDynamoInsightStore(logger, awsCfg, appConfig.Storage.InsightTable)

	// Initialize AMQP notifier if configured
	if appConfig.Messaging.Enabled {
		notifier = messaging.NewAMQPNotifier(logger, messaging.AMQPConfig{
			URL:       appConfig.Messaging.URL,
			QueueName: appConfig.Messaging.QueueName,
			Durable:   true,
		})
		if err := notifier.Connect(); err != nil {
			logger.WithError(err).Warn("Failed to connect to AMQP, notifications disabled")
			notifier = nil
		} else {
			logger.Info("AMQP notifier connected")
		}
	}

	// Initialize dashboard service
	cache := dashboard.NewResultCache()
	dashboardService := dashboard.NewService(
		logger,
		transcripts,
		cache,
		appConfig.Storage.TranscriptPrefix,
		int32(appConfig.Dashboard.MaxTranscripts),
		appConfig.Dashboard.CacheTTL,
	)

	// Initialize ingest processor
	var ingestNotifier messaging.Notifier
	if notifier != nil {
		ingestNotifier = notifier
	}
	ingestProcessor := ingest.NewProcessor(
		logger,
		transcripts,
		insights,
		ingestNotifier,
		appConfig.Storage.TranscriptPrefix,
	)

	// Initialize HTTP server
	httpConfig := &http_server.Config{
		Port:          appConfig.HTTP.Port,
		EnableMetrics: appConfig.HTTP.EnableMetrics,
		ReadTimeout:   appConfig.HTTP.ReadTimeout,
		WriteTimeout:  appConfig.HTTP.WriteTimeout,
	}
	httpServer = http_server.NewServer(logger, httpConfig, dashboardService, ingestProcessor)
	if notifier != nil {
		httpServer.SetNotifier(notifier)
	}

	logger.WithFields(logrus.Fields{
		"bucket": appConfig.Storage.TranscriptBucket,
		"prefix": appConfig.Storage.TranscriptPrefix,
		"table":  appConfig.Storage.InsightTable,
		"port":   appConfig.HTTP.Port,
	}).Info("Application initialized")

	return nil
}
