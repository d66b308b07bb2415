package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/routedesk/internal/adapters/messaging"
	natsadapter "github.com/samirrijal/routedesk/internal/adapters/nats"
	"github.com/samirrijal/routedesk/internal/adapters/postgres"
	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/usecases"
	"github.com/samirrijal/routedesk/internal/pkg/config"
	"github.com/samirrijal/routedesk/internal/pkg/logging"
	"github.com/samirrijal/routedesk/internal/pkg/telemetry"
	"github.com/samirrijal/routedesk/internal/workflows"
)

func main() {
	cfg, err := config.Load("routedesk-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	sender := messaging.NewSender(messaging.Config{
		BaseURL:   cfg.Messaging.URL,
		APIKey:    cfg.Messaging.APIKey,
		APISecret: cfg.Messaging.APISecret,
		Sender:    cfg.Messaging.Sender,
		ProfileID: cfg.Messaging.ProfileID,
	})
	notices := usecases.NewNoticeService(postgres.NewTemplateRepo(db), sender)

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.DeliveryNoticeWorkflow)
	w.RegisterActivity(&workflows.NoticeActivities{Notices: notices})

	// Delivery events from the API become notice workflows.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	dispatcher := workflows.NewDispatcher(c, cfg.Temporal.TaskQueue)
	err = sub.SubscribeDeliveryEvents(ctx, func(ctx context.Context, event *domain.DeliveryEvent) error {
		if !event.Status.Notifies() {
			return nil
		}
		return dispatcher.DispatchNotice(ctx, event)
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("notifier worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
