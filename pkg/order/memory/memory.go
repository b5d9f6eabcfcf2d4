// Package memory implements an in-memory order repository.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"deliveryflow/pkg/customer"
	"deliveryflow/pkg/order"
	"deliveryflow/pkg/pricing"

	"github.com/google/uuid"
)

type record struct {
	details order.Details
	pricing pricing.Result
}

// Repository provides an in-memory implementation of order.Repository.
// Orders must reference a customer known to the customer repository.
type Repository struct {
	mu        sync.RWMutex
	orders    map[string]record
	seq       []string
	customers customer.Repository
}

// New creates a new in-memory repository backed by customers for the
// customer reference.
func New(customers customer.Repository) *Repository {
	return &Repository{orders: make(map[string]record), customers: customers}
}

// Insert stores the order and its pricing record under a new ID.
func (r *Repository) Insert(ctx context.Context, d order.Details, p pricing.Result) (string, error) {
	if err := r.checkCustomer(ctx, d.CustomerID); err != nil {
		return "", err
	}
	d.CustomerID = strings.ToLower(d.CustomerID)

	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.orders[id] = record{details: d, pricing: p}
	r.seq = append(r.seq, id)
	return id, nil
}

// Update replaces an existing order and its pricing record.
func (r *Repository) Update(ctx context.Context, id string, d order.Details, p pricing.Result) error {
	if err := r.checkCustomer(ctx, d.CustomerID); err != nil {
		return err
	}
	d.CustomerID = strings.ToLower(d.CustomerID)

	r.mu.Lock()
	defer r.mu.Unlock()
	id = strings.ToLower(id)
	if _, ok := r.orders[id]; !ok {
		return order.ErrNotFound
	}
	r.orders[id] = record{details: d, pricing: p}
	return nil
}

// Delete removes an order and its pricing record.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id = strings.ToLower(id)
	if _, ok := r.orders[id]; !ok {
		return order.ErrNotFound
	}
	delete(r.orders, id)
	for i, existing := range r.seq {
		if existing == id {
			r.seq = append(r.seq[:i], r.seq[i+1:]...)
			break
		}
	}
	return nil
}

// FindOne retrieves an order by ID.
func (r *Repository) FindOne(ctx context.Context, id string) (order.Order, error) {
	r.mu.RLock()
	id = strings.ToLower(id)
	rec, ok := r.orders[id]
	r.mu.RUnlock()
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return r.view(ctx, id, rec)
}

// FindAll returns all orders in insertion order.
func (r *Repository) FindAll(ctx context.Context) ([]order.Order, error) {
	r.mu.RLock()
	ids := append([]string(nil), r.seq...)
	recs := make([]record, len(ids))
	for i, id := range ids {
		recs[i] = r.orders[id]
	}
	r.mu.RUnlock()

	out := make([]order.Order, 0, len(ids))
	for i, id := range ids {
		o, err := r.view(ctx, id, recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// HasCustomer reports whether any order references the customer.
func (r *Repository) HasCustomer(ctx context.Context, customerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customerID = strings.ToLower(customerID)
	for _, rec := range r.orders {
		if rec.details.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) checkCustomer(ctx context.Context, id string) error {
	_, err := r.customers.FindOne(ctx, id)
	if errors.Is(err, customer.ErrNotFound) {
		return order.ErrCustomerNotFound
	}
	return err
}

func (r *Repository) view(ctx context.Context, id string, rec record) (order.Order, error) {
	c, err := r.customers.FindOne(ctx, rec.details.CustomerID)
	if err != nil && !errors.Is(err, customer.ErrNotFound) {
		return order.Order{}, err
	}
	return order.Order{ID: id, CustomerName: c.Name, Details: rec.details, Result: rec.pricing}, nil
}
