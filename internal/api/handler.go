package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pratoexpress/delivery/internal/auth"
	"github.com/pratoexpress/delivery/internal/events"
	"github.com/pratoexpress/delivery/pkg/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, name, email, hashedPassword string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProductStore interface {
	Products(ctx context.Context, category string) ([]models.Product, error)
	ProductByID(ctx context.Context, id int) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, userID int, items []models.OrderItem, deliveryAddress string, totalPrice float64) (int, time.Time, error)
	OrdersByUser(ctx context.Context, userID int) ([]models.Order, error)
}

// EventPublisher is satisfied by events.Producer. A nil publisher disables
// event publishing.
type EventPublisher interface {
	PublishOrderCreated(event events.OrderCreatedEvent) error
}

// OrderNotifier is satisfied by ws.Hub.
type OrderNotifier interface {
	NotifyOrderCreated(data interface{})
}

type Pinger interface {
	Ping() error
}

type Handler struct {
	users     UserStore
	products  ProductStore
	orders    OrderStore
	db        Pinger
	issuer    *auth.TokenIssuer
	publisher EventPublisher
	notifier  OrderNotifier
	logger    *logrus.Logger
}

func NewHandler(users UserStore, products ProductStore, orders OrderStore, db Pinger, issuer *auth.TokenIssuer, logger *logrus.Logger) *Handler {
	return &Handler{
		users:    users,
		products: products,
		orders:   orders,
		db:       db,
		issuer:   issuer,
		logger:   logger,
	}
}

func (h *Handler) SetEventPublisher(p EventPublisher) {
	h.publisher = p
}

func (h *Handler) SetOrderNotifier(n OrderNotifier) {
	h.notifier = n
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
