package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// Dispatcher implements ports.NoticeDispatcher by starting a
// DeliveryNoticeWorkflow per event.
type Dispatcher struct {
	client    client.Client
	taskQueue string
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(c client.Client, taskQueue string) *Dispatcher {
	return &Dispatcher{client: c, taskQueue: taskQueue}
}

// WorkflowID is stable per order and status, so a redelivered event
// collapses onto the workflow already started for it. Only a failed run
// frees the ID for another attempt; a completed notice is never resent.
func WorkflowID(event *domain.DeliveryEvent) string {
	return fmt.Sprintf("notice-%s-%s", event.OrderID, strings.ToLower(string(event.Status)))
}

func (d *Dispatcher) DispatchNotice(ctx context.Context, event *domain.DeliveryEvent) error {
	opts := client.StartWorkflowOptions{
		ID:                    WorkflowID(event),
		TaskQueue:             d.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
	}
	_, err := d.client.ExecuteWorkflow(ctx, opts, DeliveryNoticeWorkflow, *event)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			return nil
		}
		return fmt.Errorf("start notice workflow: %w", err)
	}
	return nil
}
