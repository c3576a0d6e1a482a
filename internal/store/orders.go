package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pratoexpress/delivery/pkg/models"
)

// CreateOrder persists one order header plus its line items in a single
// transaction. Either every row lands or none do: a failed item insert rolls
// back the header and everything inserted before it, so concurrent readers
// never observe a partial order. The returned timestamp is the row's
// database-assigned created_at.
func (s *Store) CreateOrder(ctx context.Context, userID int, items []models.OrderItem, deliveryAddress string, totalPrice float64) (int, time.Time, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, time.Time{}, err
	}
	defer tx.Rollback()

	var orderID int
	var createdAt time.Time
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, total_price, delivery_address)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID, totalPrice, deliveryAddress).Scan(&orderID, &createdAt)
	if err != nil {
		return 0, time.Time{}, err
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price)
			 VALUES ($1, $2, $3, $4)`,
			orderID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return 0, time.Time{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, time.Time{}, err
	}
	return orderID, createdAt, nil
}

// OrdersByUser returns the user's orders, newest first, each annotated with
// its line items. The per-item product name/description reflect the catalog
// as it is now, not as it was at order time; price and quantity come from
// the order_items rows and stay historically accurate.
func (s *Store) OrdersByUser(ctx context.Context, userID int) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, total_price, delivery_address, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.DeliveryAddress, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := s.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *Store) orderItems(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT oi.product_id, oi.quantity, oi.price, p.name, p.description
		 FROM order_items oi
		 LEFT JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = $1`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		var name, description sql.NullString
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price, &name, &description); err != nil {
			return nil, err
		}
		if name.Valid {
			item.Product = &models.ProductSnapshot{
				Name:        name.String,
				Description: description.String,
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
