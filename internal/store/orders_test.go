package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratoexpress/delivery/pkg/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return New(db, logger), mock
}

var (
	insertOrderRe = regexp.QuoteMeta(`INSERT INTO orders (user_id, total_price, delivery_address)
		 VALUES ($1, $2, $3) RETURNING id, created_at`)
	insertItemRe = regexp.QuoteMeta(`INSERT INTO order_items (order_id, product_id, quantity, price)
			 VALUES ($1, $2, $3, $4)`)
)

func TestCreateOrderCommitsHeaderAndAllItems(t *testing.T) {
	s, mock := newMockStore(t)

	items := []models.OrderItem{
		{ProductID: 1, Quantity: 2, Price: 15.00},
		{ProductID: 2, Quantity: 1, Price: 9.90},
	}
	rowTime := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(insertOrderRe).
		WithArgs(7, 39.90, "Rua Example, 123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(55, rowTime))
	mock.ExpectExec(insertItemRe).
		WithArgs(55, 1, 2, 15.00).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertItemRe).
		WithArgs(55, 2, 1, 9.90).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	orderID, createdAt, err := s.CreateOrder(context.Background(), 7, items, "Rua Example, 123", 39.90)
	require.NoError(t, err)
	assert.Equal(t, 55, orderID)
	assert.Equal(t, rowTime, createdAt, "timestamp comes from the inserted row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRollsBackWhenItemInsertFails(t *testing.T) {
	s, mock := newMockStore(t)

	items := []models.OrderItem{
		{ProductID: 1, Quantity: 1, Price: 10.00},
		{ProductID: 999, Quantity: 1, Price: 5.00},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(insertOrderRe).
		WithArgs(7, 15.00, "Rua Example, 123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(56, time.Now()))
	mock.ExpectExec(insertItemRe).
		WithArgs(56, 1, 1, 10.00).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertItemRe).
		WithArgs(56, 999, 1, 5.00).
		WillReturnError(errors.New("violates foreign key constraint"))
	mock.ExpectRollback()

	_, _, err := s.CreateOrder(context.Background(), 7, items, "Rua Example, 123", 15.00)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "header insert must be rolled back with the failed item")
}

func TestCreateOrderRollsBackWhenHeaderInsertFails(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertOrderRe).
		WithArgs(7, 10.00, "Rua Example, 123").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, _, err := s.CreateOrder(context.Background(), 7,
		[]models.OrderItem{{ProductID: 1, Quantity: 1, Price: 10.00}},
		"Rua Example, 123", 10.00)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderFailsWhenCommitFails(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(insertOrderRe).
		WithArgs(7, 10.00, "Rua Example, 123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(57, time.Now()))
	mock.ExpectExec(insertItemRe).
		WithArgs(57, 1, 1, 10.00).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	_, _, err := s.CreateOrder(context.Background(), 7,
		[]models.OrderItem{{ProductID: 1, Quantity: 1, Price: 10.00}},
		"Rua Example, 123", 10.00)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrdersByUserReturnsNewestFirstWithSnapshots(t *testing.T) {
	s, mock := newMockStore(t)

	newer := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	older := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, total_price, delivery_address, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_price", "delivery_address", "created_at"}).
			AddRow(2, 7, 30.00, "Rua B", newer).
			AddRow(1, 7, 25.00, "Rua A", older))

	itemsRe := regexp.QuoteMeta(`SELECT oi.product_id, oi.quantity, oi.price, p.name, p.description
		 FROM order_items oi
		 LEFT JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = $1`)

	mock.ExpectQuery(itemsRe).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "price", "name", "description"}).
			AddRow(5, 2, 15.00, "Feijoada", "Completa"))
	mock.ExpectQuery(itemsRe).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "price", "name", "description"}).
			AddRow(9, 1, 25.00, nil, nil))

	orders, err := s.OrdersByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, 2, orders[0].ID, "newest order comes first")
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].Items[0].Product)
	assert.Equal(t, "Feijoada", orders[0].Items[0].Product.Name)

	assert.Equal(t, 1, orders[1].ID)
	require.Len(t, orders[1].Items, 1)
	assert.Nil(t, orders[1].Items[0].Product, "no snapshot when the product is gone")

	assert.NoError(t, mock.ExpectationsWereMet())
}
