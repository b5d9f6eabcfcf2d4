package memory

import (
	"context"
	"strings"
	"testing"

	"deliveryflow/pkg/customer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refs map[string]bool

func (r refs) HasCustomer(_ context.Context, id string) (bool, error) { return r[id], nil }

func sample(cpf, email string) customer.Details {
	return customer.Details{Name: "Caio", CPF: cpf, Phone: "11 5555-0000", Email: email, Address: "Av. B, 20"}
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()

	id, err := repo.Insert(ctx, sample("11111111111", "caio@example.com"))
	require.NoError(t, err)

	got, err := repo.FindOne(ctx, strings.ToUpper(id))
	require.NoError(t, err)
	assert.Equal(t, "Caio", got.Name)

	d := got.Details
	d.Phone = "11 5555-9999"
	require.NoError(t, repo.Update(ctx, id, d))

	found, err := repo.FindByCPFOrEmail(ctx, "00000000000", "caio@example.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "11 5555-9999", found[0].Phone)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.FindOne(ctx, id)
	assert.ErrorIs(t, err, customer.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, id, d), customer.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), customer.ErrNotFound)
}

func TestRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := New()

	a, err := repo.Insert(ctx, sample("11111111111", "a@example.com"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, sample("22222222222", "b@example.com"))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, sample("11111111111", "c@example.com"))
	assert.ErrorIs(t, err, customer.ErrDuplicate)

	err = repo.Update(ctx, a, sample("11111111111", "b@example.com"))
	assert.ErrorIs(t, err, customer.ErrDuplicate)

	// rewriting its own values is not a conflict
	assert.NoError(t, repo.Update(ctx, a, sample("11111111111", "a@example.com")))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, a, all[0].ID)
}

func TestRepositoryGuard(t *testing.T) {
	ctx := context.Background()
	repo := New()
	id, err := repo.Insert(ctx, sample("11111111111", "a@example.com"))
	require.NoError(t, err)

	used := refs{id: true}
	repo.GuardWith(used)
	assert.ErrorIs(t, repo.Delete(ctx, id), customer.ErrInUse)

	used[id] = false
	assert.NoError(t, repo.Delete(ctx, id))
}
