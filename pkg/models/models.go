package models

import (
	"time"
)

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"user_id"`
	TotalPrice      float64     `json:"total_price"`
	DeliveryAddress string      `json:"delivery_address"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items"`
}

type OrderItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	// Product carries the current catalog name/description when listing
	// orders. Price and quantity above are the values captured at order
	// time; the prose fields are not.
	Product *ProductSnapshot `json:"product,omitempty"`
}

type ProductSnapshot struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CartItem is client-side state only. It never reaches the server except
// flattened into OrderItems at checkout.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

type CreateOrderRequest struct {
	Items           []OrderItem `json:"items"`
	DeliveryAddress string      `json:"delivery_address"`
	TotalPrice      float64     `json:"total_price"`
}

type CreateOrderResponse struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}
