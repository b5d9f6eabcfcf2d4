package order

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"deliveryflow/pkg/fault"
	"deliveryflow/pkg/pricing"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of an order date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. RFC 3339 timestamps are accepted and
// truncated.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: expected %s", s, DateLayout)
	}
	return NewDate(t), nil
}

func (d Date) String() string { return d.Format(DateLayout) }

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted date.
func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		return d.UnmarshalJSON(v)
	case string:
		return d.UnmarshalJSON([]byte(v))
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Details are the caller-controlled attributes of an order.
type Details struct {
	CustomerID   string          `json:"customerId"`
	OrderDate    Date            `json:"orderDate"`
	DeliveryType string          `json:"deliveryType" validate:"max=10"`
	DistanceKm   decimal.Decimal `json:"distanceKm"`
	WeightKg     decimal.Decimal `json:"weightKg"`
	RateDistance decimal.Decimal `json:"rateDistance"`
	RateWeight   decimal.Decimal `json:"rateWeight"`
}

// PricingInput projects the attributes the price depends on.
func (d Details) PricingInput() pricing.Input {
	return pricing.Input{
		DistanceKm:   d.DistanceKm,
		WeightKg:     d.WeightKg,
		RateDistance: d.RateDistance,
		RateWeight:   d.RateWeight,
		DeliveryType: d.DeliveryType,
	}
}

// Order represents a delivery order with its pricing record.
type Order struct {
	ID           string `json:"id"`
	CustomerName string `json:"customerName,omitempty"`
	Details
	pricing.Result
}

// Input carries caller-supplied order fields. A nil field was not supplied;
// a supplied zero or empty value is a real value.
type Input struct {
	CustomerID     *string          `json:"customerId"`
	OrderDate      *Date            `json:"orderDate"`
	DeliveryType   *string          `json:"deliveryType"`
	DistanceKm     *decimal.Decimal `json:"distanceKm"`
	WeightKg       *decimal.Decimal `json:"weightKg"`
	RateDistance   *decimal.Decimal `json:"rateDistance"`
	RateWeight     *decimal.Decimal `json:"rateWeight"`
	DeliveryStatus *string          `json:"deliveryStatus"`
}

// Missing lists the fields required on creation that were not supplied.
func (in Input) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"customerId", in.CustomerID != nil},
		{"orderDate", in.OrderDate != nil},
		{"deliveryType", in.DeliveryType != nil},
		{"distanceKm", in.DistanceKm != nil},
		{"weightKg", in.WeightKg != nil},
		{"rateDistance", in.RateDistance != nil},
		{"rateWeight", in.RateWeight != nil},
	} {
		if !f.set {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Merge overlays the supplied fields on d field by field.
func (in Input) Merge(d Details) Details {
	if in.CustomerID != nil {
		d.CustomerID = *in.CustomerID
	}
	if in.OrderDate != nil {
		d.OrderDate = *in.OrderDate
	}
	if in.DeliveryType != nil {
		d.DeliveryType = *in.DeliveryType
	}
	if in.DistanceKm != nil {
		d.DistanceKm = *in.DistanceKm
	}
	if in.WeightKg != nil {
		d.WeightKg = *in.WeightKg
	}
	if in.RateDistance != nil {
		d.RateDistance = *in.RateDistance
	}
	if in.RateWeight != nil {
		d.RateWeight = *in.RateWeight
	}
	return d
}

// Repository defines behavior for persisting orders together with their
// pricing record. Writes touch both records atomically.
type Repository interface {
	Insert(ctx context.Context, d Details, p pricing.Result) (string, error)
	Update(ctx context.Context, id string, d Details, p pricing.Result) error
	Delete(ctx context.Context, id string) error
	FindOne(ctx context.Context, id string) (Order, error)
	FindAll(ctx context.Context) ([]Order, error)
}

// CustomerChecker reports whether a customer exists.
type CustomerChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

var (
	// ErrNotFound indicates the requested order does not exist.
	ErrNotFound = fmt.Errorf("order %w", fault.ErrNotFound)
	// ErrCustomerNotFound indicates the order references an unknown customer.
	ErrCustomerNotFound = fmt.Errorf("customer %w", fault.ErrNotFound)
)
