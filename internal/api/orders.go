package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pratoexpress/delivery/internal/auth"
	"github.com/pratoexpress/delivery/internal/events"
	"github.com/pratoexpress/delivery/pkg/models"
)

// CreateOrder validates the submitted items and runs the all-or-nothing
// order transaction. The client-supplied total is stored as-is; see the
// trust-boundary note in DESIGN.md.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Token não fornecido")
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Erro ao criar pedido")
		return
	}

	if len(req.Items) == 0 {
		respondWithError(w, http.StatusBadRequest, "Erro ao criar pedido")
		return
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			respondWithError(w, http.StatusBadRequest, "Erro ao criar pedido")
			return
		}
	}

	orderID, createdAt, err := h.orders.CreateOrder(r.Context(), identity.UserID, req.Items, req.DeliveryAddress, req.TotalPrice)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", identity.UserID).Error("Failed to create order")
		respondWithError(w, http.StatusBadRequest, "Erro ao criar pedido")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":    orderID,
		"user_id":     identity.UserID,
		"total_price": req.TotalPrice,
		"items_count": len(req.Items),
	}).Info("Order created")

	if h.publisher != nil {
		event := events.OrderCreatedEvent{
			OrderID:    orderID,
			UserID:     identity.UserID,
			TotalPrice: req.TotalPrice,
			ItemsCount: len(req.Items),
			CreatedAt:  createdAt,
		}
		if err := h.publisher.PublishOrderCreated(event); err != nil {
			// The order is committed; a lost event is a monitoring problem,
			// not a request failure.
			h.logger.WithError(err).Error("Failed to publish order created event")
		}
	}

	if h.notifier != nil {
		h.notifier.NotifyOrderCreated(map[string]interface{}{
			"order_id":    orderID,
			"total_price": req.TotalPrice,
			"items_count": len(req.Items),
		})
	}

	respondWithJSON(w, http.StatusCreated, models.CreateOrderResponse{
		ID:      orderID,
		Message: "Pedido criado com sucesso",
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Token não fornecido")
		return
	}

	orders, err := h.orders.OrdersByUser(r.Context(), identity.UserID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", identity.UserID).Error("Failed to list orders")
		respondWithError(w, http.StatusBadRequest, "Erro ao listar pedidos")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}
