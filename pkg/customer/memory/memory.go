// Package memory implements an in-memory customer repository.
package memory

import (
	"context"
	"strings"
	"sync"

	"deliveryflow/pkg/customer"

	"github.com/google/uuid"
)

// ReferenceChecker reports whether anything still points at a customer.
type ReferenceChecker interface {
	HasCustomer(ctx context.Context, customerID string) (bool, error)
}

// Repository provides an in-memory implementation of customer.Repository.
type Repository struct {
	mu        sync.RWMutex
	customers map[string]customer.Customer
	order     []string
	refs      ReferenceChecker
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{customers: make(map[string]customer.Customer)}
}

// GuardWith makes Delete fail with customer.ErrInUse while refs still
// reports the customer as referenced, mirroring the foreign key of the
// relational store.
func (r *Repository) GuardWith(refs ReferenceChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs = refs
}

// FindAll returns all customers in insertion order.
func (r *Repository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]customer.Customer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.customers[id])
	}
	return out, nil
}

// FindOne retrieves a customer by ID.
func (r *Repository) FindOne(ctx context.Context, id string) (customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[strings.ToLower(id)]
	if !ok {
		return customer.Customer{}, customer.ErrNotFound
	}
	return c, nil
}

// FindByCPFOrEmail returns customers using either value.
func (r *Repository) FindByCPFOrEmail(ctx context.Context, cpf, email string) ([]customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []customer.Customer
	for _, id := range r.order {
		c := r.customers[id]
		if c.CPF == cpf || c.Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

// Insert stores a customer under a new ID.
func (r *Repository) Insert(ctx context.Context, d customer.Details) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.CPF == d.CPF || c.Email == d.Email {
			return "", customer.ErrDuplicate
		}
	}
	id := uuid.NewString()
	r.customers[id] = customer.Customer{ID: id, Details: d}
	r.order = append(r.order, id)
	return id, nil
}

// Update replaces the details of an existing customer.
func (r *Repository) Update(ctx context.Context, id string, d customer.Details) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id = strings.ToLower(id)
	if _, ok := r.customers[id]; !ok {
		return customer.ErrNotFound
	}
	for otherID, c := range r.customers {
		if otherID != id && (c.CPF == d.CPF || c.Email == d.Email) {
			return customer.ErrDuplicate
		}
	}
	r.customers[id] = customer.Customer{ID: id, Details: d}
	return nil
}

// Delete removes a customer by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id = strings.ToLower(id)
	if _, ok := r.customers[id]; !ok {
		return customer.ErrNotFound
	}
	if r.refs != nil {
		used, err := r.refs.HasCustomer(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return customer.ErrInUse
		}
	}
	delete(r.customers, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
