package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ddshop/reports-manager/internal/dependency"
	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/shopspring/decimal"
)

type customersStore struct {
	*MYSQLStore
}

// Customers returns an object implementing Customers interface
func (ms *MYSQLStore) Customers() dependency.Customers {
	return &customersStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) AddCustomer(ctx context.Context, email, name string) (int, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return 0, fmt.Errorf("customer email is empty")
	}

	var customerID int
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		id, err := ExecNamedLastId(ctx, rep.DB(), `
		INSERT INTO customers (email, name, purchase_count, purchase_value, date_created)
		VALUES (:email, :name, 0, 0, :dateCreated)`, map[string]any{
			"email":       email,
			"name":        name,
			"dateCreated": rep.Now(),
		})
		if err != nil {
			return fmt.Errorf("can't insert customer: %w", err)
		}
		err = ExecNamed(ctx, rep.DB(), `
		INSERT INTO customer_email_addresses (customer_id, email, type)
		VALUES (:customerId, :email, :type)`, map[string]any{
			"customerId": id,
			"email":      email,
			"type":       entity.EmailAddressPrimary,
		})
		if err != nil {
			return fmt.Errorf("can't insert primary email address: %w", err)
		}
		customerID = id
		return nil
	})
	if err != nil {
		if ms.IsErrUniqueViolation(err) {
			return 0, fmt.Errorf("customer already exists: %s", email)
		}
		return 0, fmt.Errorf("failed to add customer: %w", err)
	}
	return customerID, nil
}

func (ms *MYSQLStore) GetCustomerByID(ctx context.Context, id int) (*entity.Customer, error) {
	customer, err := QueryNamedOne[entity.Customer](ctx, ms.DB(), `
	SELECT * FROM customers WHERE id = :id`, map[string]any{
		"id": id,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer not found: %d", id)
		}
		return nil, fmt.Errorf("can't get customer by id: %w", err)
	}
	return &customer, nil
}

// GetCustomerByEmail matches against both the primary column and secondary
// addresses.
func (ms *MYSQLStore) GetCustomerByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	customer, err := QueryNamedOne[entity.Customer](ctx, ms.DB(), `
	SELECT c.* FROM customers c
	LEFT JOIN customer_email_addresses cea ON cea.customer_id = c.id
	WHERE c.email = :email OR cea.email = :email
	LIMIT 1`, map[string]any{
		"email": strings.ToLower(strings.TrimSpace(email)),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer not found: %s", email)
		}
		return nil, fmt.Errorf("can't get customer by email: %w", err)
	}
	return &customer, nil
}

// AttachOrder increments the denormalized purchase counters.
func (ms *MYSQLStore) AttachOrder(ctx context.Context, customerID int, total decimal.Decimal) error {
	err := ExecNamed(ctx, ms.DB(), `
	UPDATE customers
	SET purchase_count = purchase_count + 1,
		purchase_value = purchase_value + :total
	WHERE id = :id`, map[string]any{
		"id":    customerID,
		"total": total,
	})
	if err != nil {
		return fmt.Errorf("can't attach order: %w", err)
	}
	return nil
}

// DetachOrder decrements the denormalized purchase counters, clamping at zero.
func (ms *MYSQLStore) DetachOrder(ctx context.Context, customerID int, total decimal.Decimal) error {
	err := ExecNamed(ctx, ms.DB(), `
	UPDATE customers
	SET purchase_count = GREATEST(purchase_count - 1, 0),
		purchase_value = GREATEST(purchase_value - :total, 0)
	WHERE id = :id`, map[string]any{
		"id":    customerID,
		"total": total,
	})
	if err != nil {
		return fmt.Errorf("can't detach order: %w", err)
	}
	return nil
}

// RecalculateCounters rebuilds the purchase counters from the orders table.
// Counts sale orders in revenue-bearing statuses; refund rows reduce the value
// but not the count.
func (ms *MYSQLStore) RecalculateCounters(ctx context.Context, customerID int) error {
	return ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		err := ExecNamed(ctx, rep.DB(), `
		UPDATE customers c
		SET purchase_count = (
			SELECT COUNT(*) FROM orders o
			WHERE o.customer_id = c.id
				AND o.type = 'sale'
				AND o.status IN (:statuses)
		),
		purchase_value = (
			SELECT COALESCE(SUM(CASE WHEN o.type = 'refund' THEN -(o.total) ELSE o.total END), 0)
			FROM orders o
			WHERE o.customer_id = c.id
				AND o.type IN ('sale', 'refund')
				AND o.status IN (:statuses)
		)
		WHERE c.id = :id`, map[string]any{
			"id":       customerID,
			"statuses": entity.NetOrderStatuses(),
		})
		if err != nil {
			return fmt.Errorf("can't recalculate customer counters: %w", err)
		}
		return nil
	})
}

func (ms *MYSQLStore) AddEmailAddress(ctx context.Context, customerID int, email string) error {
	err := ExecNamed(ctx, ms.DB(), `
	INSERT INTO customer_email_addresses (customer_id, email, type)
	VALUES (:customerId, :email, :type)`, map[string]any{
		"customerId": customerID,
		"email":      strings.ToLower(strings.TrimSpace(email)),
		"type":       entity.EmailAddressSecondary,
	})
	if err != nil {
		if ms.IsErrUniqueViolation(err) {
			return fmt.Errorf("email address already registered: %s", email)
		}
		return fmt.Errorf("can't add email address: %w", err)
	}
	return nil
}
