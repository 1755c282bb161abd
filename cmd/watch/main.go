package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"numwatch/internal/app"
	"numwatch/internal/bus"
	"numwatch/internal/config"
	"numwatch/internal/detector"
	"numwatch/internal/domain"
	"numwatch/internal/feed"
	"numwatch/internal/logging"
	"numwatch/internal/notifications"
	"numwatch/internal/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("run watch tool", "error", err)
		os.Exit(1)
	}
}

func run() error {
	serverURL := flag.String("url", "", "feed server url, e.g. ws://localhost:8000")
	listenFor := flag.Duration("listen-for", 0, "listen duration, e.g. 30s")
	notify := flag.Bool("notify", false, "send desktop notifications for detected numbers")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := app.ResolvePaths()
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(*serverURL) != "" {
		cfg.Connection.ServerURL = strings.TrimSpace(*serverURL)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logMgr := logging.NewManager()
	cfg.Logging.LogToFile = false
	if err := logMgr.Configure(cfg.Logging, paths.LogFile); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer func() {
		if closeErr := logMgr.Close(); closeErr != nil {
			slog.Warn("close log manager", "error", closeErr)
		}
	}()
	logger := logMgr.Logger("cli")
	logger.Info("starting numwatch watch", "version", app.BuildVersion(), "url", cfg.Connection.ServerURL)

	b := bus.New(logMgr.Logger("bus"))
	defer b.Close()

	store := domain.NewFeedStore()
	store.Start(ctx, b)

	if *notify {
		sender := notifications.NewBeeepSender(logMgr.Logger("notifications"))
		svc := app.NewNotificationService(b, func() config.AppConfig { return cfg }, nil, sender, logMgr.Logger("app.notifications"))
		svc.Start(ctx)
	}

	tr := transport.NewWSTransport(cfg.Connection.ServerURL)
	feedSvc := detector.NewService(logMgr.Logger("detector"), b, tr, detector.NewCodec())

	watch(ctx, b, logger)
	feedSvc.Start(ctx)
	defer feedSvc.Shutdown()

	if *listenFor > 0 {
		logger.Info("listen mode", "duration", *listenFor)
		select {
		case <-ctx.Done():
		case <-feedSvc.Done():
		case <-time.After(*listenFor):
		}

		return nil
	}

	logger.Info("listening until interrupt or session end")
	select {
	case <-ctx.Done():
	case <-feedSvc.Done():
	}

	return nil
}

func watch(ctx context.Context, b bus.MessageBus, logger *slog.Logger) {
	connSub := b.Subscribe(feed.TopicConnStatus)
	readingSub := b.Subscribe(feed.TopicReading)
	rawSub := b.Subscribe(feed.TopicRawMessage)

	go func() {
		defer b.Unsubscribe(connSub, feed.TopicConnStatus)
		defer b.Unsubscribe(readingSub, feed.TopicReading)
		defer b.Unsubscribe(rawSub, feed.TopicRawMessage)

		for {
			select {
			case <-ctx.Done():
				return
			case raw := <-connSub:
				if status, ok := raw.(feed.ConnStatus); ok {
					logger.Info("conn", "state", status.State, "endpoint", status.Endpoint, "error", status.Err)
				}
			case raw := <-readingSub:
				if reading, ok := raw.(domain.Reading); ok {
					logger.Info("reading", "number", reading.Number, "detected_at", reading.DetectedAt.Format(time.RFC3339))
				}
			case raw := <-rawSub:
				if frame, ok := raw.(feed.RawMessage); ok {
					logger.Debug("raw-in", "len", frame.Len, "payload", previewPayload(frame.Payload))
				}
			}
		}
	}()
}

func previewPayload(payload string) string {
	const maxPreviewLen = 120
	payload = strings.TrimSpace(payload)
	if len(payload) <= maxPreviewLen {
		return payload
	}

	return payload[:maxPreviewLen] + "..."
}
