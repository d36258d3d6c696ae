// Package client talks to the storefront HTTP API on behalf of a shopper.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
)

// Client calls the storefront API using Fiber's HTTP agent.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New returns a client for baseURL, e.g. "http://localhost:5000".
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Session is the result of register or login.
type Session struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
	Token   string            `json:"token"`
}

// Products fetches the catalog.
func (c *Client) Products() ([]models.Product, error) {
	var products []models.Product
	if err := c.do(fiber.Get(c.baseURL+"/api/products"), fiber.StatusOK, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches a single catalog entry.
func (c *Client) Product(id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(fiber.Get(c.baseURL+"/api/products/"+id), fiber.StatusOK, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Register creates an account.
func (c *Client) Register(name, email, password string) (*Session, error) {
	agent := fiber.Post(c.baseURL + "/api/users/register").JSON(fiber.Map{
		"name": name, "email": email, "password": password,
	})
	var s Session
	if err := c.do(agent, fiber.StatusCreated, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Login authenticates an existing account.
func (c *Client) Login(email, password string) (*Session, error) {
	agent := fiber.Post(c.baseURL + "/api/users/login").JSON(fiber.Map{
		"email": email, "password": password,
	})
	var s Session
	if err := c.do(agent, fiber.StatusOK, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) do(agent *fiber.Agent, want int, out interface{}) error {
	agent.Timeout(c.timeout)
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("failed to prepare request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errors.Join(errs...))
	}
	if code != want {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &payload)
		return &APIError{Status: code, Message: payload.Message}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
