package customer

import (
	"context"
	"errors"

	"deliveryflow/pkg/fault"
	"deliveryflow/pkg/logger"
	"deliveryflow/pkg/otel"
	"deliveryflow/pkg/validate"

	"go.opentelemetry.io/otel/attribute"
)

// Service validates customer requests before they reach the repository.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// NewService creates a customer service.
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns every customer, or the single customer with the given id when
// id is not empty. An unknown id yields an empty list.
func (s *Service) List(ctx context.Context, id string) ([]Customer, error) {
	ctx, span := otel.AddSpan(ctx, "customer.List")
	defer span.End()

	if id == "" {
		customers, err := s.repo.FindAll(ctx)
		if err != nil {
			s.log.Error(ctx, "list customers", "error", err)
			return nil, err
		}
		return customers, nil
	}

	c, err := s.Get(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return []Customer{}, nil
	case err != nil:
		return nil, err
	}
	return []Customer{c}, nil
}

// Get returns the customer with the given id.
func (s *Service) Get(ctx context.Context, id string) (Customer, error) {
	if err := validate.ID(id); err != nil {
		return Customer{}, err
	}
	c, err := s.repo.FindOne(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Error(ctx, "get customer", "customer_id", id, "error", err)
	}
	return c, err
}

// Exists reports whether a customer with the given id is stored.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.FindOne(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Create stores a new customer. Every field is required and the CPF and
// email must not belong to another customer.
func (s *Service) Create(ctx context.Context, in Input) (Customer, error) {
	ctx, span := otel.AddSpan(ctx, "customer.Create")
	defer span.End()

	if missing := in.Missing(); len(missing) > 0 {
		return Customer{}, fault.Missing(missing...)
	}
	d := in.Merge(Details{})
	if err := validate.Struct(d); err != nil {
		return Customer{}, err
	}

	if err := s.ensureUnique(ctx, "", d); err != nil {
		return Customer{}, err
	}

	id, err := s.repo.Insert(ctx, d)
	if err != nil {
		s.log.Error(ctx, "insert customer", "error", err)
		return Customer{}, err
	}
	span.SetAttributes(attribute.String("customer.id", id))
	s.log.Info(ctx, "customer created", "customer_id", id)

	return Customer{ID: id, Details: d}, nil
}

// Update overlays the supplied fields on the stored customer.
func (s *Service) Update(ctx context.Context, id string, in Input) (Customer, error) {
	ctx, span := otel.AddSpan(ctx, "customer.Update", attribute.String("customer.id", id))
	defer span.End()

	current, err := s.Get(ctx, id)
	if err != nil {
		return Customer{}, err
	}

	d := in.Merge(current.Details)
	if err := validate.Struct(d); err != nil {
		return Customer{}, err
	}
	if err := s.ensureUnique(ctx, current.ID, d); err != nil {
		return Customer{}, err
	}

	if err := s.repo.Update(ctx, current.ID, d); err != nil {
		s.log.Error(ctx, "update customer", "customer_id", id, "error", err)
		return Customer{}, err
	}
	s.log.Info(ctx, "customer updated", "customer_id", id)

	return Customer{ID: current.ID, Details: d}, nil
}

// Delete removes a customer that no order references.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := otel.AddSpan(ctx, "customer.Delete", attribute.String("customer.id", id))
	defer span.End()

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, current.ID); err != nil {
		if !errors.Is(err, ErrInUse) {
			s.log.Error(ctx, "delete customer", "customer_id", id, "error", err)
		}
		return err
	}
	s.log.Info(ctx, "customer deleted", "customer_id", id)
	return nil
}

// ensureUnique fails with ErrDuplicate when a customer other than self
// already uses the CPF or email.
func (s *Service) ensureUnique(ctx context.Context, self string, d Details) error {
	found, err := s.repo.FindByCPFOrEmail(ctx, d.CPF, d.Email)
	if err != nil {
		s.log.Error(ctx, "lookup cpf/email", "error", err)
		return err
	}
	for _, c := range found {
		if c.ID != self {
			return ErrDuplicate
		}
	}
	return nil
}
