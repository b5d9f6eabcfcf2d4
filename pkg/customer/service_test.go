package customer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"deliveryflow/pkg/customer"
	"deliveryflow/pkg/customer/memory"
	"deliveryflow/pkg/fault"
	"deliveryflow/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func input(cpf, email string) customer.Input {
	return customer.Input{
		Name:    ptr("Maria Lima"),
		CPF:     ptr(cpf),
		Phone:   ptr("21 3333-4444"),
		Email:   ptr(email),
		Address: ptr("Rua das Flores, 10"),
	}
}

func newService() *customer.Service {
	return customer.NewService(memory.New(), logger.NewNop())
}

func TestCreateAndList(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	c, err := svc.Create(ctx, input("12345678901", "maria@example.com"))
	require.NoError(t, err)
	assert.Len(t, c.ID, 36)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, c, all[0])

	one, err := svc.List(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []customer.Customer{c}, one)

	none, err := svc.List(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)

	ok, err := svc.Exists(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, customer.Input{Name: ptr("x")})
	require.ErrorIs(t, err, fault.ErrMissingField)
	var fe *fault.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"cpf", "phone", "email", "address"}, fe.Fields)

	_, err = svc.Create(ctx, input("123", "not-an-email"))
	require.ErrorIs(t, err, fault.ErrInvalidField)
	require.True(t, errors.As(err, &fe))
	assert.ElementsMatch(t, []string{"cpf", "email"}, fe.Fields)

	in := input("12345678901", "a@example.com")
	in.Name = ptr(strings.Repeat("n", 101))
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, fault.ErrInvalidField)
}

func TestCreateDuplicate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, input("12345678901", "a@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, input("12345678901", "b@example.com"))
	assert.ErrorIs(t, err, customer.ErrDuplicate)
	assert.ErrorIs(t, err, fault.ErrConflict)

	_, err = svc.Create(ctx, input("99999999999", "a@example.com"))
	assert.ErrorIs(t, err, customer.ErrDuplicate)
}

func TestUpdate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	a, err := svc.Create(ctx, input("11111111111", "a@example.com"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("22222222222", "b@example.com"))
	require.NoError(t, err)

	// upper-case id still matches the stored customer
	updated, err := svc.Update(ctx, strings.ToUpper(a.ID), customer.Input{Phone: ptr("21 0000-0000")})
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)
	assert.Equal(t, "21 0000-0000", updated.Phone)
	assert.Equal(t, a.Email, updated.Email)

	_, err = svc.Update(ctx, a.ID, customer.Input{Email: ptr("b@example.com")})
	assert.ErrorIs(t, err, customer.ErrDuplicate)

	_, err = svc.Update(ctx, a.ID, customer.Input{Email: ptr("")})
	assert.ErrorIs(t, err, fault.ErrInvalidField)

	_, err = svc.Update(ctx, uuid.NewString(), customer.Input{})
	assert.ErrorIs(t, err, customer.ErrNotFound)

	_, err = svc.Update(ctx, "abc", customer.Input{})
	assert.ErrorIs(t, err, fault.ErrInvalidID)
}

type alwaysUsed struct{}

func (alwaysUsed) HasCustomer(context.Context, string) (bool, error) { return true, nil }

func TestDelete(t *testing.T) {
	repo := memory.New()
	svc := customer.NewService(repo, logger.NewNop())
	ctx := context.Background()

	c, err := svc.Create(ctx, input("11111111111", "a@example.com"))
	require.NoError(t, err)

	repo.GuardWith(alwaysUsed{})
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), customer.ErrInUse)

	repo.GuardWith(nil)
	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), customer.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ""), fault.ErrInvalidID)
}
