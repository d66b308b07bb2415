package workflows

import (
	"context"
	"errors"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/usecases"
)

// NoticeActivities holds the activity implementations for the delivery notice workflow.
type NoticeActivities struct {
	Notices *usecases.NoticeService
}

// LookupTemplate returns the active template id for the status. A missing
// template is not retried.
func (a *NoticeActivities) LookupTemplate(ctx context.Context, status domain.DeliveryStatus) (string, error) {
	id, err := a.Notices.TemplateFor(ctx, status)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateAbsent) || errors.Is(err, domain.ErrInvalidStatus) {
			return "", temporal.NewNonRetryableApplicationError(err.Error(), "TemplateAbsent", err)
		}
		return "", err
	}
	return id, nil
}

// BuildLink returns the URL variable for the notice.
func (a *NoticeActivities) BuildLink(ctx context.Context, event domain.DeliveryEvent) (string, error) {
	return a.Notices.Link(ctx, &event)
}

// SendNotice delivers the composed message. A message without a recipient
// is not retried.
func (a *NoticeActivities) SendNotice(ctx context.Context, msg domain.CustomerMessage) error {
	if err := a.Notices.Send(ctx, msg); err != nil {
		if errors.Is(err, domain.ErrNoRecipient) {
			return temporal.NewNonRetryableApplicationError(err.Error(), "NoRecipient", err)
		}
		return err
	}
	slog.InfoContext(ctx, "notice sent", "template_id", msg.TemplateID)
	return nil
}
