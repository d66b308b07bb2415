package workflows_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/usecases"
	"github.com/samirrijal/routedesk/internal/workflows"
)

type templates struct {
	id  string
	err error
}

func (t templates) ActiveTemplateID(ctx context.Context, code string) (string, error) {
	return t.id, t.err
}

func (t templates) LatestPhoto(ctx context.Context, orderID string) (string, error) {
	return "", domain.ErrNotFound
}

func TestLookupTemplate_AbsentIsNonRetryable(t *testing.T) {
	a := &workflows.NoticeActivities{Notices: usecases.NewNoticeService(templates{err: domain.ErrTemplateAbsent}, nil)}

	_, err := a.LookupTemplate(context.Background(), domain.StatusComplete)

	var appErr *temporal.ApplicationError
	if assert.True(t, errors.As(err, &appErr)) {
		assert.True(t, appErr.NonRetryable())
	}
}

func TestLookupTemplate_TransientIsRetryable(t *testing.T) {
	a := &workflows.NoticeActivities{Notices: usecases.NewNoticeService(templates{err: errors.New("conn reset")}, nil)}

	_, err := a.LookupTemplate(context.Background(), domain.StatusStart)

	var appErr *temporal.ApplicationError
	assert.Error(t, err)
	assert.False(t, errors.As(err, &appErr))
}

type sender struct {
	sent int
	err  error
}

func (s *sender) Send(ctx context.Context, msg domain.CustomerMessage) error {
	s.sent++
	return s.err
}

func TestSendNotice_NoRecipientIsNonRetryable(t *testing.T) {
	out := &sender{}
	a := &workflows.NoticeActivities{Notices: usecases.NewNoticeService(templates{}, out)}

	err := a.SendNotice(context.Background(), domain.CustomerMessage{TemplateID: "tpl"})

	var appErr *temporal.ApplicationError
	if assert.True(t, errors.As(err, &appErr)) {
		assert.True(t, appErr.NonRetryable())
		assert.Equal(t, "NoRecipient", appErr.Type())
	}
	assert.Zero(t, out.sent)
}

func TestSendNotice_GatewayFailureIsRetryable(t *testing.T) {
	out := &sender{err: errors.New("gateway 503")}
	a := &workflows.NoticeActivities{Notices: usecases.NewNoticeService(templates{}, out)}

	err := a.SendNotice(context.Background(), domain.CustomerMessage{To: "01012345678", TemplateID: "tpl"})

	var appErr *temporal.ApplicationError
	assert.Error(t, err)
	assert.False(t, errors.As(err, &appErr))
	assert.Equal(t, 1, out.sent)
}
