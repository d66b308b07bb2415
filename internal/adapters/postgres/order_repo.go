package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// OrderRepo implements ports.OrderRepository with pgx.
type OrderRepo struct {
	db *DB
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `
	id, customer_name, address, COALESCE(phone, ''), COALESCE(items, ''),
	lat, lng, driver_id, to_char(delivery_date, 'YYYY-MM-DD'),
	sequence, status, COALESCE(center, ''), updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o        domain.Order
		lat, lng *float64
		status   string
	)
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.Address, &o.Phone, &o.Items,
		&lat, &lng, &o.DriverID, &o.DeliveryDate,
		&o.Sequence, &status, &o.Center, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		o.Coordinate = &domain.Coordinate{Lat: *lat, Lng: *lng}
	}
	o.Status = domain.DeliveryStatus(status)
	return &o, nil
}

// ListForDriverDay returns the driver's orders for one date. Previously
// sequenced orders come first so a re-plan sees them in saved order.
func (r *OrderRepo) ListForDriverDay(ctx context.Context, driverID, date string) ([]domain.Order, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE driver_id = $1 AND delivery_date = $2::date
		ORDER BY sequence = 0, sequence, id
	`, driverID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// GetByID returns one order.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.db.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

// UpsertSequences writes all assignments in one transaction. An unknown
// order id aborts the whole batch.
func (r *OrderRepo) UpsertSequences(ctx context.Context, assignments []domain.SequenceAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, a := range assignments {
		batch.Queue(`
			UPDATE orders SET sequence = $2, updated_at = now()
			WHERE id = $1
		`, a.OrderID, a.Sequence)
	}

	br := tx.SendBatch(ctx, batch)
	for _, a := range assignments {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return fmt.Errorf("batch exec %s: %w", a.OrderID, err)
		}
		if tag.RowsAffected() != 1 {
			br.Close()
			return fmt.Errorf("order %s: %w", a.OrderID, domain.ErrNotFound)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("batch close: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateStatus sets an order's delivery status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1
	`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListForDay returns the day board: every order on a date, grouped by
// center and driver. nil centers means every center.
func (r *OrderRepo) ListForDay(ctx context.Context, date string, centers []string) ([]domain.Order, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE delivery_date = $1::date
		  AND ($2::text[] IS NULL OR center = ANY($2))
		ORDER BY center, driver_id, sequence = 0, sequence, id
	`, date, centers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// AssignDriver moves orders to another driver in one statement. The order
// ids must all exist; otherwise nothing changes.
func (r *OrderRepo) AssignDriver(ctx context.Context, ra domain.Reassignment) error {
	if len(ra.OrderIDs) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET driver_id = $2,
		    delivery_date = COALESCE(NULLIF($3::text, '')::date, delivery_date),
		    sequence = 0,
		    updated_at = now()
		WHERE id = ANY($1)
	`, ra.OrderIDs, ra.DriverID, ra.Date)
	if err != nil {
		return fmt.Errorf("assign driver: %w", err)
	}
	if int(tag.RowsAffected()) != distinct(ra.OrderIDs) {
		return fmt.Errorf("reassign %d orders: %w", len(ra.OrderIDs), domain.ErrNotFound)
	}
	return tx.Commit(ctx)
}

func distinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
