package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pratoexpress/delivery/pkg/models"
)

// Client is a typed HTTP client for the delivery API. After Login (or
// SetToken) it sends the bearer token on every request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) Register(name, email, password string) (*models.User, error) {
	var user models.User
	err := c.post("/users/register", models.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and remembers the returned token for subsequent
// requests.
func (c *Client) Login(email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.post("/users/login", models.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Profile returns the authenticated user's id as reported by the API.
func (c *Client) Profile() (int, error) {
	var resp struct {
		UserID int `json:"userId"`
	}
	if err := c.get("/profile", &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

func (c *Client) Products(category string) ([]models.Product, error) {
	path := "/products"
	if category != "" {
		path += "?category=" + category
	}
	var products []models.Product
	if err := c.get(path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(id int) (*models.Product, error) {
	var product models.Product
	if err := c.get("/products/"+strconv.Itoa(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateOrder(req models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	var resp models.CreateOrderResponse
	if err := c.post("/orders", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Orders() ([]models.Order, error) {
	var orders []models.Order
	if err := c.get("/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) get(path string, out interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}
