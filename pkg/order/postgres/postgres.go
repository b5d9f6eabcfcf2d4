package postgres

import (
	"context"
	"database/sql"
	"errors"

	"deliveryflow/pkg/database"
	"deliveryflow/pkg/fault"
	"deliveryflow/pkg/order"
	"deliveryflow/pkg/pricing"

	"github.com/lib/pq"
)

const codeForeignKeyViolation = "23503"

const selectOrder = `
SELECT o.id, c.name, o.customer_id, o.order_date, o.delivery_type,
       o.distance_km, o.weight_kg, o.rate_distance, o.rate_weight,
       d.distance_charge, d.weight_charge, d.surcharge, d.discount,
       d.extra_fee, d.final_total, d.status
FROM orders o
INNER JOIN deliveries d ON d.order_id = o.id
INNER JOIN customers c ON c.id = o.customer_id`

// Repository persists orders and their pricing records in PostgreSQL.
type Repository struct {
	db database.Provider
}

// New creates a PostgreSQL repository.
func New(db database.Provider) *Repository {
	return &Repository{db: db}
}

// Insert stores the order and, in the same transaction, the pricing record
// that references the generated order ID.
func (r *Repository) Insert(ctx context.Context, d order.Details, p pricing.Result) (string, error) {
	var id string
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (customer_id, order_date, delivery_type, distance_km, weight_kg, rate_distance, rate_weight)
			 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
			d.CustomerID, d.OrderDate, d.DeliveryType, d.DistanceKm, d.WeightKg, d.RateDistance, d.RateWeight).Scan(&id)
		if err != nil {
			return mapError("insert order", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO deliveries (order_id, distance_charge, weight_charge, surcharge, discount, extra_fee, final_total, status)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			id, p.DistanceCharge, p.WeightCharge, p.Surcharge, p.Discount, p.ExtraFee, p.Total, p.Status)
		if err != nil {
			return mapError("insert delivery", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update rewrites the order and its pricing record in one transaction.
func (r *Repository) Update(ctx context.Context, id string, d order.Details, p pricing.Result) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE orders
			 SET customer_id=$2, order_date=$3, delivery_type=$4, distance_km=$5, weight_kg=$6, rate_distance=$7, rate_weight=$8
			 WHERE id=$1`,
			id, d.CustomerID, d.OrderDate, d.DeliveryType, d.DistanceKm, d.WeightKg, d.RateDistance, d.RateWeight)
		if err != nil {
			return mapError("update order", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return order.ErrNotFound
		}

		res, err = tx.ExecContext(ctx,
			`UPDATE deliveries
			 SET distance_charge=$2, weight_charge=$3, surcharge=$4, discount=$5, extra_fee=$6, final_total=$7, status=$8
			 WHERE order_id=$1`,
			id, p.DistanceCharge, p.WeightCharge, p.Surcharge, p.Discount, p.ExtraFee, p.Total, p.Status)
		if err != nil {
			return mapError("update delivery", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return order.ErrNotFound
		}
		return nil
	})
}

// Delete removes the order and its pricing record in one transaction.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, id)
		if err != nil {
			return mapError("delete order", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return order.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM deliveries WHERE order_id=$1`, id); err != nil {
			return mapError("delete delivery", err)
		}
		return nil
	})
}

// FindOne retrieves an order with its pricing record and customer name.
func (r *Repository) FindOne(ctx context.Context, id string) (order.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return order.Order{}, order.ErrNotFound
	}
	if err != nil {
		return order.Order{}, fault.Persistence("query order", err)
	}
	return o, nil
}

// FindAll fetches all orders in insertion order.
func (r *Repository) FindAll(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrder+` ORDER BY o.seq`)
	if err != nil {
		return nil, fault.Persistence("query orders", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fault.Persistence("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Persistence("iterate orders", err)
	}
	return orders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (order.Order, error) {
	var o order.Order
	err := s.Scan(
		&o.ID, &o.CustomerName, &o.CustomerID, &o.OrderDate, &o.DeliveryType,
		&o.DistanceKm, &o.WeightKg, &o.RateDistance, &o.RateWeight,
		&o.DistanceCharge, &o.WeightCharge, &o.Surcharge, &o.Discount,
		&o.ExtraFee, &o.Total, &o.Status,
	)
	return o, err
}

func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == codeForeignKeyViolation && pqErr.Table == "orders" {
		return order.ErrCustomerNotFound
	}
	return fault.Persistence(op, err)
}
