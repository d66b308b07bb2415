package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/usecases"
)

// DeliveryNoticeWorkflow tells the customer that their delivery has left or
// arrived: it looks up the template for the status, builds the link, and
// sends the message. Nothing is sent when no template is active.
func DeliveryNoticeWorkflow(ctx workflow.Context, event domain.DeliveryEvent) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting delivery notice workflow", "orderID", event.OrderID, "status", event.Status)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var templateID string
	if err := workflow.ExecuteActivity(ctx, "LookupTemplate", event.Status).Get(ctx, &templateID); err != nil {
		logger.Warn("no template, notice dropped", "orderID", event.OrderID, "error", err)
		return err
	}

	var link string
	if err := workflow.ExecuteActivity(ctx, "BuildLink", event).Get(ctx, &link); err != nil {
		return err
	}

	msg := usecases.Compose(&event, templateID, link)
	if err := workflow.ExecuteActivity(ctx, "SendNotice", msg).Get(ctx, nil); err != nil {
		return err
	}

	logger.Info("Delivery notice sent", "orderID", event.OrderID)
	return nil
}
