package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ddshop/reports-manager/internal/dependency"
	"github.com/ddshop/reports-manager/internal/entity"
	"github.com/google/uuid"
)

type ordersStore struct {
	*MYSQLStore
}

// Orders returns an object implementing Orders interface
func (ms *MYSQLStore) Orders() dependency.Orders {
	return &ordersStore{
		MYSQLStore: ms,
	}
}

// InsertOrder records an order with its items, adjustments and address in a
// single transaction and keeps the customer purchase counters in sync.
func (ms *MYSQLStore) InsertOrder(ctx context.Context, orderNew *entity.OrderNew) (int, error) {
	if orderNew == nil || len(orderNew.Items) == 0 {
		return 0, fmt.Errorf("order must have at least one item")
	}
	if !entity.ValidOrderStatusNames[orderNew.Order.Status] {
		return 0, fmt.Errorf("invalid order status: %s", orderNew.Order.Status)
	}
	if !entity.ValidOrderTypeNames[orderNew.Order.Type] {
		return 0, fmt.Errorf("invalid order type: %s", orderNew.Order.Type)
	}
	if orderNew.Order.UUID == "" {
		orderNew.Order.UUID = uuid.New().String()
	}

	var orderID int
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		var err error
		orderID, err = insertOrderRow(ctx, rep, &orderNew.Order)
		if err != nil {
			return err
		}
		if err := insertOrderItems(ctx, rep, orderID, orderNew.Items); err != nil {
			return err
		}
		if err := insertOrderAdjustments(ctx, rep, orderID, orderNew.Adjustments); err != nil {
			return err
		}
		if orderNew.Address != nil {
			if err := insertOrderAddress(ctx, rep, orderID, orderNew.Address); err != nil {
				return err
			}
		}
		if orderNew.Order.Type == entity.OrderTypeSale && orderNew.Order.CustomerID != 0 {
			if err := rep.Customers().AttachOrder(ctx, orderNew.Order.CustomerID, orderNew.Order.Total); err != nil {
				return fmt.Errorf("can't attach order to customer: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	return orderID, nil
}

func insertOrderRow(ctx context.Context, rep dependency.Repository, order *entity.Order) (int, error) {
	query := `
	INSERT INTO orders
		(uuid, status, type, customer_id, email, gateway, currency, rate,
		subtotal, discount, tax, total, date_created, date_completed)
	VALUES
		(:uuid, :status, :type, :customerId, :email, :gateway, :currency, :rate,
		:subtotal, :discount, :tax, :total, :dateCreated, :dateCompleted)`

	id, err := ExecNamedLastId(ctx, rep.DB(), query, map[string]any{
		"uuid":          order.UUID,
		"status":        order.Status,
		"type":          order.Type,
		"customerId":    order.CustomerID,
		"email":         order.Email,
		"gateway":       order.Gateway,
		"currency":      order.Currency,
		"rate":          order.Rate,
		"subtotal":      order.Subtotal,
		"discount":      order.Discount,
		"tax":           order.Tax,
		"total":         order.Total,
		"dateCreated":   rep.Now(),
		"dateCompleted": order.DateCompleted,
	})
	if err != nil {
		return 0, fmt.Errorf("can't insert order row: %w", err)
	}
	return id, nil
}

func insertOrderItems(ctx context.Context, rep dependency.Repository, orderID int, items []entity.OrderItem) error {
	for _, item := range items {
		err := ExecNamed(ctx, rep.DB(), `
		INSERT INTO order_items
			(order_id, product_id, price_id, status, quantity, amount, subtotal, discount, tax, total)
		VALUES
			(:orderId, :productId, :priceId, :status, :quantity, :amount, :subtotal, :discount, :tax, :total)`,
			map[string]any{
				"orderId":   orderID,
				"productId": item.ProductID,
				"priceId":   item.PriceID,
				"status":    item.Status,
				"quantity":  item.Quantity,
				"amount":    item.Amount,
				"subtotal":  item.Subtotal,
				"discount":  item.Discount,
				"tax":       item.Tax,
				"total":     item.Total,
			})
		if err != nil {
			return fmt.Errorf("can't insert order item: %w", err)
		}
	}
	return nil
}

func insertOrderAdjustments(ctx context.Context, rep dependency.Repository, orderID int, adjustments []entity.OrderAdjustment) error {
	for _, adj := range adjustments {
		objectID := adj.ObjectID
		if adj.ObjectType == entity.ObjectTypeOrder || objectID == 0 {
			objectID = orderID
		}
		err := ExecNamed(ctx, rep.DB(), `
		INSERT INTO order_adjustments
			(object_id, object_type, type, type_id, description, subtotal, tax, total)
		VALUES
			(:objectId, :objectType, :type, :typeId, :description, :subtotal, :tax, :total)`,
			map[string]any{
				"objectId":    objectID,
				"objectType":  adj.ObjectType,
				"type":        adj.Type,
				"typeId":      adj.TypeID,
				"description": adj.Description,
				"subtotal":    adj.Subtotal,
				"tax":         adj.Tax,
				"total":       adj.Total,
			})
		if err != nil {
			return fmt.Errorf("can't insert order adjustment: %w", err)
		}
	}
	return nil
}

func insertOrderAddress(ctx context.Context, rep dependency.Repository, orderID int, addr *entity.OrderAddress) error {
	err := ExecNamed(ctx, rep.DB(), `
	INSERT INTO order_addresses (order_id, country, region, city, postal_code)
	VALUES (:orderId, :country, :region, :city, :postalCode)`,
		map[string]any{
			"orderId":    orderID,
			"country":    addr.Country,
			"region":     addr.Region,
			"city":       addr.City,
			"postalCode": addr.PostalCode,
		})
	if err != nil {
		return fmt.Errorf("can't insert order address: %w", err)
	}
	return nil
}

func (ms *MYSQLStore) GetOrderByUUID(ctx context.Context, orderUUID string) (*entity.Order, error) {
	order, err := QueryNamedOne[entity.Order](ctx, ms.DB(), `
	SELECT * FROM orders WHERE uuid = :uuid`, map[string]any{
		"uuid": orderUUID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order not found: %s", orderUUID)
		}
		return nil, fmt.Errorf("can't get order by uuid: %w", err)
	}
	return &order, nil
}

func (ms *MYSQLStore) GetOrderItems(ctx context.Context, orderID int) ([]entity.OrderItem, error) {
	items, err := QueryListNamed[entity.OrderItem](ctx, ms.DB(), `
	SELECT * FROM order_items WHERE order_id = :orderId ORDER BY id`, map[string]any{
		"orderId": orderID,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get order items: %w", err)
	}
	return items, nil
}

// UpdateOrderStatus moves an order to a new status, stamping date_completed
// on the first transition to complete and keeping the customer counters in
// sync when a sale is revoked.
func (ms *MYSQLStore) UpdateOrderStatus(ctx context.Context, orderID int, status entity.OrderStatusName) error {
	if !entity.ValidOrderStatusNames[status] {
		return fmt.Errorf("invalid order status: %s", status)
	}
	return ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		order, err := QueryNamedOne[entity.Order](ctx, rep.DB(), `
		SELECT * FROM orders WHERE id = :id`, map[string]any{
			"id": orderID,
		})
		if err != nil {
			return fmt.Errorf("can't get order: %w", err)
		}
		if order.Status == status {
			return nil
		}

		params := map[string]any{
			"id":     orderID,
			"status": status,
		}
		query := `UPDATE orders SET status = :status WHERE id = :id`
		if status == entity.OrderStatusComplete && !order.DateCompleted.Valid {
			query = `UPDATE orders SET status = :status, date_completed = :completed WHERE id = :id`
			params["completed"] = rep.Now()
		}
		if err := ExecNamed(ctx, rep.DB(), query, params); err != nil {
			return fmt.Errorf("can't update order status: %w", err)
		}
		if err := ExecNamed(ctx, rep.DB(), `
		UPDATE order_items SET status = :status WHERE order_id = :id`, params); err != nil {
			return fmt.Errorf("can't update order items status: %w", err)
		}

		if status == entity.OrderStatusRevoked && order.Type == entity.OrderTypeSale && order.CustomerID != 0 {
			if err := rep.Customers().DetachOrder(ctx, order.CustomerID, order.Total); err != nil {
				return fmt.Errorf("can't detach order from customer: %w", err)
			}
		}
		return nil
	})
}
