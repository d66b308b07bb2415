package natsadapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	natsadapter "github.com/samirrijal/routedesk/internal/adapters/nats"
	"github.com/samirrijal/routedesk/internal/core/domain"
)

func TestDeliverySubject(t *testing.T) {
	assert.Equal(t, "dispatch.delivery.start", natsadapter.DeliverySubject(domain.StatusStart))
	assert.Equal(t, "dispatch.delivery.complete", natsadapter.DeliverySubject(domain.StatusComplete))
}
