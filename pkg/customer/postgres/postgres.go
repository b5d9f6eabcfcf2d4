package postgres

import (
	"context"
	"database/sql"
	"errors"

	"deliveryflow/pkg/customer"
	"deliveryflow/pkg/database"
	"deliveryflow/pkg/fault"

	"github.com/lib/pq"
)

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

const selectCustomer = `SELECT id, name, cpf, phone, email, address FROM customers`

// Repository persists customers in PostgreSQL.
type Repository struct {
	db database.Provider
}

// New creates a PostgreSQL repository.
func New(db database.Provider) *Repository {
	return &Repository{db: db}
}

// FindAll fetches all customers.
func (r *Repository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.db.QueryContext(ctx, selectCustomer+" ORDER BY name, id")
	if err != nil {
		return nil, fault.Persistence("query customers", err)
	}
	return scanAll(rows)
}

// FindOne retrieves a customer by ID.
func (r *Repository) FindOne(ctx context.Context, id string) (customer.Customer, error) {
	var c customer.Customer
	err := r.db.QueryRowContext(ctx, selectCustomer+" WHERE id = $1", id).
		Scan(&c.ID, &c.Name, &c.CPF, &c.Phone, &c.Email, &c.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return customer.Customer{}, customer.ErrNotFound
	}
	if err != nil {
		return customer.Customer{}, fault.Persistence("query customer", err)
	}
	return c, nil
}

// FindByCPFOrEmail returns customers using either value.
func (r *Repository) FindByCPFOrEmail(ctx context.Context, cpf, email string) ([]customer.Customer, error) {
	rows, err := r.db.QueryContext(ctx, selectCustomer+" WHERE cpf = $1 OR email = $2", cpf, email)
	if err != nil {
		return nil, fault.Persistence("query customers by cpf/email", err)
	}
	return scanAll(rows)
}

// Insert stores a new customer and returns its generated ID.
func (r *Repository) Insert(ctx context.Context, d customer.Details) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO customers (name, cpf, phone, email, address) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		d.Name, d.CPF, d.Phone, d.Email, d.Address).Scan(&id)
	if err != nil {
		return "", mapError("insert customer", err)
	}
	return id, nil
}

// Update updates an existing customer.
func (r *Repository) Update(ctx context.Context, id string, d customer.Details) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name=$2, cpf=$3, phone=$4, email=$5, address=$6 WHERE id=$1`,
		id, d.Name, d.CPF, d.Phone, d.Email, d.Address)
	if err != nil {
		return mapError("update customer", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Delete removes a customer by ID. Orders still referencing the customer
// make the foreign key reject the delete.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id=$1", id)
	if err != nil {
		return mapError("delete customer", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func scanAll(rows *sql.Rows) ([]customer.Customer, error) {
	defer rows.Close()
	customers := []customer.Customer{}
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.CPF, &c.Phone, &c.Email, &c.Address); err != nil {
			return nil, fault.Persistence("scan customer", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Persistence("iterate customers", err)
	}
	return customers, nil
}

func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return customer.ErrDuplicate
		case codeForeignKeyViolation:
			return customer.ErrInUse
		}
	}
	return fault.Persistence(op, err)
}
