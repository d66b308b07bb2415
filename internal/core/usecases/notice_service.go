package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
	"github.com/samirrijal/routedesk/internal/pkg/metrics"
)

// Template codes for customer notices.
const (
	TemplateDeliveryStart    = "DELIVERY_START"
	TemplateDeliveryComplete = "DELIVERY_COMPLETE"
)

// NoticeService builds and sends customer notices for delivery events.
type NoticeService struct {
	templates ports.TemplateRepository
	sender    ports.MessageSender
}

// NewNoticeService creates a new NoticeService.
func NewNoticeService(templates ports.TemplateRepository, sender ports.MessageSender) *NoticeService {
	return &NoticeService{templates: templates, sender: sender}
}

// TemplateFor returns the provider template id for a status.
func (s *NoticeService) TemplateFor(ctx context.Context, status domain.DeliveryStatus) (string, error) {
	var code string
	switch status {
	case domain.StatusStart:
		code = TemplateDeliveryStart
	case domain.StatusComplete:
		code = TemplateDeliveryComplete
	default:
		return "", fmt.Errorf("%w: %s sends no notice", domain.ErrInvalidStatus, status)
	}
	id, err := s.templates.ActiveTemplateID(ctx, code)
	if err != nil {
		return "", fmt.Errorf("template %s: %w", code, err)
	}
	return id, nil
}

// Link returns the URL variable for the notice, without scheme. START links
// to the driver's position on a map; COMPLETE links to the delivery photo,
// falling back to the latest stored photo for the order.
func (s *NoticeService) Link(ctx context.Context, ev *domain.DeliveryEvent) (string, error) {
	switch ev.Status {
	case domain.StatusStart:
		if ev.Position == nil {
			return "", nil
		}
		return fmt.Sprintf("map.kakao.com/link/map/%s,%g,%g",
			url.PathEscape("driver location"), ev.Position.Lat, ev.Position.Lng), nil
	case domain.StatusComplete:
		photo := ev.ImageURL
		if photo == "" {
			p, err := s.templates.LatestPhoto(ctx, ev.OrderID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return "", fmt.Errorf("latest photo: %w", err)
			}
			photo = p
		}
		return stripScheme(photo), nil
	}
	return "", nil
}

// Compose fills the template variables for the event.
func Compose(ev *domain.DeliveryEvent, templateID, link string) domain.CustomerMessage {
	items := ev.Items
	if items == "" {
		items = "ordered goods"
	}
	vars := map[string]string{
		"#{cust_name}":  ev.Customer,
		"#{cust_ordno}": ev.OrderID,
		"#{url}":        link,
	}
	if ev.Status == domain.StatusStart {
		driver := ev.DriverName
		if driver == "" {
			driver = "delivery staff"
		}
		vars["#{item_name}"] = items
		vars["#{driver_name}"] = driver
		vars["#{driver_hpno}"] = ev.DriverTel
	} else {
		vars["#{cust_setname}"] = items
	}
	return domain.CustomerMessage{
		To:         digitsOnly(ev.Phone),
		TemplateID: templateID,
		Variables:  vars,
	}
}

// Send delivers the message.
func (s *NoticeService) Send(ctx context.Context, msg domain.CustomerMessage) error {
	if msg.To == "" {
		metrics.NoticesSent.WithLabelValues("skipped").Inc()
		return fmt.Errorf("%w: template %s", domain.ErrNoRecipient, msg.TemplateID)
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		metrics.NoticesSent.WithLabelValues("failed").Inc()
		return fmt.Errorf("send notice: %w", err)
	}
	metrics.NoticesSent.WithLabelValues("sent").Inc()
	return nil
}

func stripScheme(u string) string {
	for _, p := range []string{"https://", "http://"} {
		if strings.HasPrefix(u, p) {
			return strings.TrimPrefix(u, p)
		}
	}
	return u
}

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
