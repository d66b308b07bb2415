package valkey

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/routedesk/internal/core/ports"
)

func TestDraftKey_SeparatorInIDs(t *testing.T) {
	a := ports.DraftKey{UserID: "u1:d1", DriverID: "d2", Date: "2026-03-02"}
	b := ports.DraftKey{UserID: "u1", DriverID: "d1:d2", Date: "2026-03-02"}

	assert.NotEqual(t, draftKey(a), draftKey(b))
	assert.Equal(t, "draft:u1%3Ad1:d2:2026-03-02", draftKey(a))
}

func TestDraftKey_Plain(t *testing.T) {
	k := ports.DraftKey{UserID: "admin", DriverID: "d1", Date: "2026-03-02"}
	assert.Equal(t, "draft:admin:d1:2026-03-02", draftKey(k))
}
