package order

import (
	"context"
	"errors"

	"deliveryflow/pkg/fault"
	"deliveryflow/pkg/logger"
	"deliveryflow/pkg/otel"
	"deliveryflow/pkg/pricing"
	"deliveryflow/pkg/validate"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// Service validates order requests, prices them and hands them to the
// repository.
type Service struct {
	repo      Repository
	customers CustomerChecker
	log       *logger.Logger
}

// NewService creates an order service.
func NewService(repo Repository, customers CustomerChecker, log *logger.Logger) *Service {
	return &Service{repo: repo, customers: customers, log: log}
}

// List returns every order, or the single order with the given id when id is
// not empty. An unknown id yields an empty list.
func (s *Service) List(ctx context.Context, id string) ([]Order, error) {
	ctx, span := otel.AddSpan(ctx, "order.List")
	defer span.End()

	if id == "" {
		orders, err := s.repo.FindAll(ctx)
		if err != nil {
			s.log.Error(ctx, "list orders", "error", err)
			return nil, err
		}
		return orders, nil
	}

	o, err := s.Get(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return []Order{}, nil
	case err != nil:
		return nil, err
	}
	return []Order{o}, nil
}

// Get returns the order with the given id.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	if err := validate.ID(id); err != nil {
		return Order{}, err
	}
	o, err := s.repo.FindOne(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Error(ctx, "get order", "order_id", id, "error", err)
	}
	return o, err
}

// Create prices and stores a new order. All seven order fields are required.
func (s *Service) Create(ctx context.Context, in Input) (Order, error) {
	ctx, span := otel.AddSpan(ctx, "order.Create")
	defer span.End()

	if missing := in.Missing(); len(missing) > 0 {
		return Order{}, fault.Missing(missing...)
	}
	d := in.Merge(Details{})
	if err := s.check(ctx, d); err != nil {
		return Order{}, err
	}

	p, err := price(d)
	if err != nil {
		return Order{}, err
	}

	id, err := s.repo.Insert(ctx, d, p)
	if err != nil {
		s.log.Error(ctx, "insert order", "error", err)
		return Order{}, err
	}
	span.SetAttributes(attribute.String("order.id", id))
	s.log.Info(ctx, "order created", "order_id", id, "final_total", p.Total.StringFixed(2))

	return s.stored(ctx, id, d, p)
}

// Update overlays the supplied fields on the stored order and reprices it
// from the merged values. The delivery status is kept unless supplied.
func (s *Service) Update(ctx context.Context, id string, in Input) (Order, error) {
	ctx, span := otel.AddSpan(ctx, "order.Update", attribute.String("order.id", id))
	defer span.End()

	current, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}

	d := in.Merge(current.Details)
	if err := s.check(ctx, d); err != nil {
		return Order{}, err
	}

	p, err := price(d)
	if err != nil {
		return Order{}, err
	}
	p.Status = current.Status
	if in.DeliveryStatus != nil {
		p.Status = *in.DeliveryStatus
	}
	if len(p.Status) > maxStatusLen {
		return Order{}, fault.Invalid("deliveryStatus")
	}

	if err := s.repo.Update(ctx, current.ID, d, p); err != nil {
		if !errors.Is(err, fault.ErrNotFound) {
			s.log.Error(ctx, "update order", "order_id", id, "error", err)
		}
		return Order{}, err
	}
	s.log.Info(ctx, "order updated", "order_id", id, "final_total", p.Total.StringFixed(2))

	return s.stored(ctx, current.ID, d, p)
}

// Delete removes an order together with its pricing record.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := otel.AddSpan(ctx, "order.Delete", attribute.String("order.id", id))
	defer span.End()

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, current.ID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error(ctx, "delete order", "order_id", id, "error", err)
		}
		return err
	}
	s.log.Info(ctx, "order deleted", "order_id", id)
	return nil
}

// Column bounds: quantities and amounts are NUMERIC(10,2), status VARCHAR(20).
const (
	quantityPlaces = 2
	maxStatusLen   = 20
)

var quantityLimit = decimal.New(1, 8)

// check validates field formats and the customer reference.
func (s *Service) check(ctx context.Context, d Details) error {
	var invalid []string
	if err := validate.ID(d.CustomerID); err != nil {
		invalid = append(invalid, "customerId")
	}
	if err := validate.Struct(d); err != nil {
		var fe *fault.FieldError
		if !errors.As(err, &fe) {
			return err
		}
		invalid = append(invalid, fe.Fields...)
	}
	if d.OrderDate.IsZero() {
		invalid = append(invalid, "orderDate")
	}
	for _, q := range quantities(d) {
		if !storable(q.value) {
			invalid = append(invalid, q.name)
		}
	}
	if len(invalid) > 0 {
		return fault.Invalid(invalid...)
	}

	ok, err := s.customers.Exists(ctx, d.CustomerID)
	if err != nil {
		s.log.Error(ctx, "check customer", "customer_id", d.CustomerID, "error", err)
		return err
	}
	if !ok {
		return ErrCustomerNotFound
	}
	return nil
}

// price computes the pricing record and rejects results the money columns
// cannot hold.
func price(d Details) (pricing.Result, error) {
	p := pricing.Compute(d.PricingInput())
	for _, amount := range []decimal.Decimal{
		p.DistanceCharge, p.WeightCharge, p.Surcharge, p.Discount, p.ExtraFee, p.Total,
	} {
		if amount.Abs().GreaterThanOrEqual(quantityLimit) {
			var fields []string
			for _, q := range quantities(d) {
				fields = append(fields, q.name)
			}
			return pricing.Result{}, fault.Invalid(fields...)
		}
	}
	return p, nil
}

type quantity struct {
	name  string
	value decimal.Decimal
}

func quantities(d Details) []quantity {
	return []quantity{
		{"distanceKm", d.DistanceKm},
		{"weightKg", d.WeightKg},
		{"rateDistance", d.RateDistance},
		{"rateWeight", d.RateWeight},
	}
}

// storable reports whether v is non-negative, has at most two decimal places
// and fits the column, so the priced value is exactly the stored one.
func storable(v decimal.Decimal) bool {
	return !v.IsNegative() &&
		v.Equal(v.Round(quantityPlaces)) &&
		v.LessThan(quantityLimit)
}

// stored reads back the written order so the caller sees the joined view.
func (s *Service) stored(ctx context.Context, id string, d Details, p pricing.Result) (Order, error) {
	o, err := s.repo.FindOne(ctx, id)
	if err != nil {
		s.log.Warn(ctx, "read back order", "order_id", id, "error", err)
		return Order{ID: id, Details: d, Result: p}, nil
	}
	return o, nil
}
