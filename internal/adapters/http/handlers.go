package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/pkg/geospatial"
)

// RouteResponse is a planned or edited route plus display extras.
type RouteResponse struct {
	*domain.Route
	// DistanceMeters is the straight-line length depot → stops, for display.
	DistanceMeters float64 `json:"distance_meters"`
}

func routeResponse(r *domain.Route) RouteResponse {
	return RouteResponse{Route: r, DistanceMeters: geospatial.RouteLength(r.Depot, r.Stops)}
}

// SaveResponse reports the sequence numbers written by a save.
type SaveResponse struct {
	DriverID    string                      `json:"driver_id"`
	Date        string                      `json:"date"`
	Saved       int                         `json:"saved"`
	Assignments []domain.SequenceAssignment `json:"assignments"`
}

// MoveRequest is a drag of one stop. Positions are zero-based.
type MoveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

// StatusRequest is a driver's status report for one order.
type StatusRequest struct {
	Status   string   `json:"status"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	ImageURL string   `json:"image_url"`
}

// ReassignRequest moves selected orders to another driver. Date is
// optional and keeps each order's date when empty.
type ReassignRequest struct {
	OrderIDs []string `json:"order_ids"`
	DriverID string   `json:"driver_id"`
	Date     string   `json:"date"`
}

// ListDriversHandler returns the drivers visible to the caller.
func ListDriversHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c, 50, 200)

		drivers, total, err := deps.Drivers.List(c.UserContext(), sessionOf(c), limit, offset)
		if err != nil {
			return errFromDomain(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: drivers, Pagination: pg})
	}
}

// GetDriverHandler returns one driver.
func GetDriverHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := deps.Drivers.GetByID(c.UserContext(), sessionOf(c), c.Params("driverID"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(d)
	}
}

// PlanRouteHandler geocodes, groups and sequences the driver's day and
// starts a fresh draft for the caller.
func PlanRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.Plan(c.UserContext(), sessionOf(c), c.Params("driverID"), c.Params("date"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(routeResponse(route))
	}
}

// CurrentRouteHandler returns the caller's draft without replanning.
func CurrentRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.Current(c.UserContext(), sessionOf(c), c.Params("driverID"), c.Params("date"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(routeResponse(route))
	}
}

// MoveStopHandler applies one drag-and-drop to the draft.
func MoveStopHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req MoveRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.From == nil || req.To == nil {
			return errBadRequest(c, "from and to are required")
		}

		route, err := deps.Routes.MoveStop(c.UserContext(), sessionOf(c), c.Params("driverID"), c.Params("date"), *req.From, *req.To)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(routeResponse(route))
	}
}

// SaveRouteHandler writes the draft's sequence numbers.
func SaveRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		driverID, date := c.Params("driverID"), c.Params("date")
		as, err := deps.Routes.Save(c.UserContext(), sessionOf(c), driverID, date)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(SaveResponse{DriverID: driverID, Date: date, Saved: len(as), Assignments: as})
	}
}

// DiscardRouteHandler drops the caller's draft.
func DiscardRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Routes.Discard(c.UserContext(), sessionOf(c), c.Params("driverID"), c.Params("date")); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RoutePathHandler returns the map overlay for the draft. It always
// succeeds once a draft exists; provider trouble yields straight lines.
func RoutePathHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Routes.Current(c.UserContext(), sessionOf(c), c.Params("driverID"), c.Params("date"))
		if err != nil {
			return errFromDomain(c, err)
		}
		line := deps.Directions.Overlay(c.UserContext(), route.Stops)
		bounds, _ := domain.BoundsOf(append([]domain.Coordinate{route.Depot}, line.Points...)...)
		return c.JSON(fiber.Map{
			"points":   line.Points,
			"fallback": line.Fallback,
			"bounds":   bounds,
			"meters":   geospatial.PathLength(line.Points),
		})
	}
}

// GetOrderHandler returns one order.
func GetOrderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := deps.Status.GetOrder(c.UserContext(), sessionOf(c), c.Params("orderID"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(order)
	}
}

// UpdateStatusHandler records a delivery status. The customer notice is
// sent asynchronously; the response only acknowledges the update.
func UpdateStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req StatusRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		status, err := domain.ParseDeliveryStatus(req.Status)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if (req.Lat == nil) != (req.Lng == nil) {
			return errBadRequest(c, "lat and lng must be sent together")
		}

		upd := domain.StatusUpdate{Status: status, ImageURL: req.ImageURL}
		if req.Lat != nil {
			upd.Position = &domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
		}

		order, err := deps.Status.Update(c.UserContext(), sessionOf(c), c.Params("orderID"), upd)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"order_id": order.ID,
			"status":   order.Status,
			"notified": status.Notifies(),
		})
	}
}

// ListOrdersHandler returns the day board for ?date=YYYY-MM-DD.
func ListOrdersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date == "" {
			return errBadRequest(c, "date is required")
		}
		orders, err := deps.Orders.ListForDay(c.UserContext(), sessionOf(c), date)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"date": date, "count": len(orders), "data": orders})
	}
}

// ReassignOrdersHandler moves a selection of orders to another driver.
func ReassignOrdersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ReassignRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		ra := domain.Reassignment{OrderIDs: req.OrderIDs, DriverID: req.DriverID, Date: req.Date}
		if err := deps.Orders.Reassign(c.UserContext(), sessionOf(c), ra); err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"driver_id": ra.DriverID, "reassigned": len(ra.OrderIDs)})
	}
}

// MenusHandler returns the navigation menus granted to the caller.
func MenusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		menus, err := deps.Menus.Resolve(c.UserContext(), sessionOf(c))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"data": menus})
	}
}
