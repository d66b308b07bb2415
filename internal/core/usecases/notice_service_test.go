package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/usecases"
)

func TestNoticeService_TemplateFor(t *testing.T) {
	templates := &mockTemplates{activeFn: func(ctx context.Context, code string) (string, error) {
		if code == usecases.TemplateDeliveryStart {
			return "KA01TP-start", nil
		}
		return "", domain.ErrTemplateAbsent
	}}
	svc := usecases.NewNoticeService(templates, &mockSender{})

	id, err := svc.TemplateFor(context.Background(), domain.StatusStart)
	if err != nil || id != "KA01TP-start" {
		t.Errorf("expected start template, got %q, %v", id, err)
	}
	if _, err := svc.TemplateFor(context.Background(), domain.StatusComplete); !errors.Is(err, domain.ErrTemplateAbsent) {
		t.Errorf("expected ErrTemplateAbsent, got %v", err)
	}
	if _, err := svc.TemplateFor(context.Background(), domain.StatusPending); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestNoticeService_Link(t *testing.T) {
	templates := &mockTemplates{photoFn: func(ctx context.Context, orderID string) (string, error) {
		return "https://cdn.example.com/photos/" + orderID + ".jpg", nil
	}}
	svc := usecases.NewNoticeService(templates, &mockSender{})
	ctx := context.Background()

	link, err := svc.Link(ctx, &domain.DeliveryEvent{Status: domain.StatusStart, Position: coord(37.5, 127.25)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link != "map.kakao.com/link/map/driver%20location,37.5,127.25" {
		t.Errorf("unexpected start link %q", link)
	}

	link, _ = svc.Link(ctx, &domain.DeliveryEvent{Status: domain.StatusStart})
	if link != "" {
		t.Errorf("expected no link without a position, got %q", link)
	}

	link, _ = svc.Link(ctx, &domain.DeliveryEvent{Status: domain.StatusComplete, OrderID: "o1"})
	if link != "cdn.example.com/photos/o1.jpg" {
		t.Errorf("unexpected complete link %q", link)
	}

	link, _ = svc.Link(ctx, &domain.DeliveryEvent{Status: domain.StatusComplete, ImageURL: "http://img/x.png"})
	if link != "img/x.png" {
		t.Errorf("expected supplied photo without scheme, got %q", link)
	}
}

func TestCompose(t *testing.T) {
	ev := &domain.DeliveryEvent{
		OrderID:  "o1",
		Status:   domain.StatusStart,
		Customer: "Kim",
		Phone:    "010-1234-5678",
	}
	msg := usecases.Compose(ev, "tpl", "map.kakao.com/x")

	if msg.To != "01012345678" {
		t.Errorf("expected digits-only phone, got %q", msg.To)
	}
	if msg.Variables["#{driver_name}"] != "delivery staff" || msg.Variables["#{item_name}"] != "ordered goods" {
		t.Errorf("expected defaults, got %v", msg.Variables)
	}
	if _, ok := msg.Variables["#{cust_setname}"]; ok {
		t.Error("start notice should not carry the completion item variable")
	}

	ev.Status = domain.StatusComplete
	ev.Items = "Rice 10kg"
	msg = usecases.Compose(ev, "tpl", "")
	if msg.Variables["#{cust_setname}"] != "Rice 10kg" {
		t.Errorf("unexpected completion variables %v", msg.Variables)
	}
}

func TestNoticeService_Send(t *testing.T) {
	sender := &mockSender{}
	svc := usecases.NewNoticeService(&mockTemplates{}, sender)

	if err := svc.Send(context.Background(), domain.CustomerMessage{TemplateID: "tpl"}); !errors.Is(err, domain.ErrNoRecipient) {
		t.Errorf("expected ErrNoRecipient, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("message without recipient reached the sender")
	}
	if err := svc.Send(context.Background(), domain.CustomerMessage{To: "0101", TemplateID: "tpl"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected one message sent, got %d", len(sender.sent))
	}

	sender.err = errors.New("gateway 503")
	if err := svc.Send(context.Background(), domain.CustomerMessage{To: "0101"}); !errors.Is(err, sender.err) {
		t.Errorf("expected wrapped gateway error, got %v", err)
	}
}
