package domain

import (
	"fmt"
	"time"
)

// DateLayout is the civil-date format used for delivery dates.
const DateLayout = "2006-01-02"

// Order is one delivery commitment for a driver on a date.
type Order struct {
	ID           string         `json:"id"`
	CustomerName string         `json:"customer_name"`
	Address      string         `json:"address"`
	Phone        string         `json:"phone,omitempty"`
	Items        string         `json:"items,omitempty"`
	Coordinate   *Coordinate    `json:"coordinate,omitempty"` // nil until geocoded
	DriverID     string         `json:"driver_id"`
	DeliveryDate string         `json:"delivery_date"`
	Sequence     int            `json:"sequence"` // 0 = unassigned
	Status       DeliveryStatus `json:"status"`
	Center       string         `json:"center,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Stop is a deduplicated visiting point holding every order at one coordinate.
type Stop struct {
	Coordinate Coordinate `json:"coordinate"`
	Orders     []Order    `json:"orders"`
	Label      string     `json:"label"`
	Position   int        `json:"position"`
}

// OrderIDs returns the ids of the stop's orders in group order.
func (s Stop) OrderIDs() []string {
	ids := make([]string, len(s.Orders))
	for i, o := range s.Orders {
		ids[i] = o.ID
	}
	return ids
}

// StopLabel builds the display label for a group of orders.
func StopLabel(orders []Order) string {
	if len(orders) == 0 {
		return ""
	}
	if len(orders) == 1 {
		return orders[0].CustomerName
	}
	return fmt.Sprintf("%s +%d", orders[0].CustomerName, len(orders)-1)
}

// Route is the ordered set of stops for one driver on one date.
type Route struct {
	DriverID   string     `json:"driver_id"`
	Date       string     `json:"date"`
	Depot      Coordinate `json:"depot"`
	Stops      []Stop     `json:"stops"`
	Unresolved []Order    `json:"unresolved"`
	NoData     bool       `json:"no_data"`
	Revision   int        `json:"revision"`
	PlannedAt  time.Time  `json:"planned_at"`
}

// Empty reports whether the route has nothing to visit.
func (r *Route) Empty() bool {
	return len(r.Stops) == 0
}

// OrderCount returns the number of orders placed on the route.
func (r *Route) OrderCount() int {
	n := 0
	for _, s := range r.Stops {
		n += len(s.Orders)
	}
	return n
}

// Reassignment moves orders onto another driver and, optionally, another
// delivery date. An empty Date keeps each order's date.
type Reassignment struct {
	OrderIDs []string `json:"order_ids"`
	DriverID string   `json:"driver_id"`
	Date     string   `json:"date,omitempty"`
}

// Menu is one navigation entry a user may be granted.
type Menu struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Sort    int    `json:"sort"`
	Enabled bool   `json:"-"`
}

// SequenceAssignment is one row of a route save.
type SequenceAssignment struct {
	OrderID  string `json:"order_id"`
	Sequence int    `json:"sequence"`
}

// Driver is a delivery driver belonging to a distribution center.
type Driver struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Center string `json:"center"`
}

// DeliveryStatus is the lifecycle state of an order on the road.
type DeliveryStatus string

const (
	StatusPending  DeliveryStatus = "PENDING"
	StatusStart    DeliveryStatus = "START"
	StatusComplete DeliveryStatus = "COMPLETE"
)

// ParseDeliveryStatus validates a status string.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch DeliveryStatus(s) {
	case StatusPending, StatusStart, StatusComplete:
		return DeliveryStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Notifies reports whether entering this status sends a customer notice.
func (s DeliveryStatus) Notifies() bool {
	return s == StatusStart || s == StatusComplete
}

// StatusUpdate is what a driver reports when an order changes state.
type StatusUpdate struct {
	Status   DeliveryStatus `json:"status"`
	Position *Coordinate    `json:"position,omitempty"`
	ImageURL string         `json:"image_url,omitempty"`
}

// DeliveryEvent is published whenever an order's status changes.
type DeliveryEvent struct {
	EventID    string         `json:"event_id"`
	OrderID    string         `json:"order_id"`
	Status     DeliveryStatus `json:"status"`
	Customer   string         `json:"customer"`
	Phone      string         `json:"phone"`
	Items      string         `json:"items,omitempty"`
	DriverID   string         `json:"driver_id"`
	DriverName string         `json:"driver_name,omitempty"`
	DriverTel  string         `json:"driver_phone,omitempty"`
	Position   *Coordinate    `json:"position,omitempty"`
	ImageURL   string         `json:"image_url,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// RouteSavedEvent is published after sequence numbers are persisted.
type RouteSavedEvent struct {
	EventID    string    `json:"event_id"`
	DriverID   string    `json:"driver_id"`
	Date       string    `json:"date"`
	SavedBy    string    `json:"saved_by"`
	StopCount  int       `json:"stop_count"`
	OrderCount int       `json:"order_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ValidateDate checks a YYYY-MM-DD delivery date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// CustomerMessage is a templated notice sent to a customer's phone.
type CustomerMessage struct {
	To         string            `json:"to"`
	TemplateID string            `json:"template_id"`
	Variables  map[string]string `json:"variables"`
}
