package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/pratoexpress/delivery/internal/auth"
)

// NewRouter assembles the public and token-protected routes. Route order
// matters: public routes are matched before the catch-all authenticated
// subrouter.
func NewRouter(h *Handler, issuer *auth.TokenIssuer, wsHandler http.HandlerFunc, logger *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(logger))

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/users/register", h.Register).Methods("POST")
	r.HandleFunc("/users/login", h.Login).Methods("POST")
	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")

	if wsHandler != nil {
		r.HandleFunc("/ws", wsHandler)
	}

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(auth.Middleware(issuer, logger))
	protected.HandleFunc("/profile", h.Profile).Methods("GET")
	protected.HandleFunc("/products", h.CreateProduct).Methods("POST")
	protected.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders", h.ListOrders).Methods("GET")

	return r
}
