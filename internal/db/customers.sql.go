package db

import "context"

const getCustomer = `
SELECT id, name, email, phone, address
FROM customers
WHERE id = $1
`

func (q *Queries) GetCustomer(ctx context.Context, id string) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomer, id)
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Address,
	)
	return i, err
}

const upsertCustomer = `
INSERT INTO customers (id, name, email, phone, address)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone, address = EXCLUDED.address
`

type UpsertCustomerParams struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
}

func (q *Queries) UpsertCustomer(ctx context.Context, arg UpsertCustomerParams) error {
	_, err := q.db.Exec(ctx, upsertCustomer,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Address,
	)
	return err
}
