package cart

import (
	"github.com/pratoexpress/delivery/pkg/models"
)

// Config holds the delivery pricing rules. Orders at or above MinOrderValue
// ship free.
type Config struct {
	DeliveryFee   float64
	MinOrderValue float64
}

var DefaultConfig = Config{
	DeliveryFee:   5.00,
	MinOrderValue: 20.00,
}

// Storage mirrors the cart after every mutation, so the persisted copy is
// never more than one mutation behind the in-memory one.
type Storage interface {
	Save(items []models.CartItem) error
	Load() ([]models.CartItem, error)
	Clear() error
}

// Cart is the client-side aggregate of selected products. It is owned by a
// single session and mutated from a single goroutine.
type Cart struct {
	items   []models.CartItem
	storage Storage
	config  Config
}

func New(storage Storage, config Config) (*Cart, error) {
	items, err := storage.Load()
	if err != nil {
		return nil, err
	}
	return &Cart{items: items, storage: storage, config: config}, nil
}

// Add inserts the product at quantity 1, or bumps the quantity when the
// product is already in the cart.
func (c *Cart) Add(product models.Product) error {
	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity++
			return c.persist()
		}
	}
	c.items = append(c.items, models.CartItem{Product: product, Quantity: 1})
	return c.persist()
}

// Decrement lowers the quantity by one but never below one; removing a line
// entirely is Remove's job.
func (c *Cart) Decrement(productID int) error {
	for i := range c.items {
		if c.items[i].Product.ID == productID && c.items[i].Quantity > 1 {
			c.items[i].Quantity--
			return c.persist()
		}
	}
	return nil
}

// Remove deletes the line regardless of its quantity.
func (c *Cart) Remove(productID int) error {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

func (c *Cart) Clear() error {
	c.items = nil
	return c.persist()
}

// Items returns a copy so callers cannot mutate the cart behind its back.
func (c *Cart) Items() []models.CartItem {
	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.items {
		sum += item.Product.Price * float64(item.Quantity)
	}
	return sum
}

func (c *Cart) DeliveryFee() float64 {
	if c.Subtotal() >= c.config.MinOrderValue {
		return 0
	}
	return c.config.DeliveryFee
}

func (c *Cart) Total() float64 {
	return c.Subtotal() + c.DeliveryFee()
}

// OrderItems flattens the cart into the line items the order endpoint
// expects, capturing each product's current price.
func (c *Cart) OrderItems() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, models.OrderItem{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}
	return items
}

func (c *Cart) persist() error {
	return c.storage.Save(c.items)
}
