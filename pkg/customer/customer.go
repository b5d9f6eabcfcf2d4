// Package customer manages the customers orders are placed for.
package customer

import (
	"context"
	"fmt"

	"deliveryflow/pkg/fault"
)

// Details are the customer attributes a caller controls.
type Details struct {
	Name    string `json:"name" validate:"required,max=100"`
	CPF     string `json:"cpf" validate:"required,len=11,numeric"`
	Phone   string `json:"phone" validate:"required,max=20"`
	Email   string `json:"email" validate:"required,email,max=50"`
	Address string `json:"address" validate:"required,max=250"`
}

// Customer is a stored customer.
type Customer struct {
	ID string `json:"id"`
	Details
}

// Input carries caller-supplied fields. A nil field was not supplied.
type Input struct {
	Name    *string `json:"name"`
	CPF     *string `json:"cpf"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// Missing lists the fields required on creation that were not supplied.
func (in Input) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"name", in.Name != nil},
		{"cpf", in.CPF != nil},
		{"phone", in.Phone != nil},
		{"email", in.Email != nil},
		{"address", in.Address != nil},
	} {
		if !f.set {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Merge overlays the supplied fields on d.
func (in Input) Merge(d Details) Details {
	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.CPF != nil {
		d.CPF = *in.CPF
	}
	if in.Phone != nil {
		d.Phone = *in.Phone
	}
	if in.Email != nil {
		d.Email = *in.Email
	}
	if in.Address != nil {
		d.Address = *in.Address
	}
	return d
}

// Repository defines behavior for persisting customers.
type Repository interface {
	FindAll(ctx context.Context) ([]Customer, error)
	FindOne(ctx context.Context, id string) (Customer, error)
	FindByCPFOrEmail(ctx context.Context, cpf, email string) ([]Customer, error)
	Insert(ctx context.Context, d Details) (string, error)
	Update(ctx context.Context, id string, d Details) error
	Delete(ctx context.Context, id string) error
}

var (
	// ErrNotFound indicates the requested customer does not exist.
	ErrNotFound = fmt.Errorf("customer %w", fault.ErrNotFound)
	// ErrDuplicate indicates another customer already uses the CPF or email.
	ErrDuplicate = fmt.Errorf("cpf or email already registered: %w", fault.ErrConflict)
	// ErrInUse indicates orders still reference the customer.
	ErrInUse = fmt.Errorf("customer is referenced by orders: %w", fault.ErrConflict)
)
