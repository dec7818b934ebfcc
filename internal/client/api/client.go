// Package api is the storefront's HTTP client for the flipmart API.
// It implements the cart sync adapter's Remote interface and the auth
// calls used by the shop CLI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	cartdom "flipmart/internal/domain/cart"
	proddom "flipmart/internal/domain/product"
)

type Client struct {
	baseURL string
	client  *http.Client
}

// New builds a client for baseURL (e.g. http://localhost:4000).
// No request timeout is set here; cart sync relies on the transport's
// default and is abandoned, not cancelled, by the caller.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{},
	}
}

// ---- auth ----

// Register creates an account and returns the minted credential.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	return c.credentialCall(ctx, "/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

// Login exchanges email/password for a credential.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.credentialCall(ctx, "/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

func (c *Client) credentialCall(ctx context.Context, path string, body map[string]string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, path, "", body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("api: empty token in response")
	}
	return out.Token, nil
}

// ---- cart (sync adapter's Remote) ----

func (c *Client) FetchCart(ctx context.Context, credential string) ([]cartdom.Line, error) {
	var out struct {
		Items []cartdom.Line `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/cart", credential, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) AddLine(ctx context.Context, credential, productID string, qty int) error {
	return c.do(ctx, http.MethodPost, "/cart", credential,
		map[string]any{"productId": productID, "quantity": qty}, nil)
}

func (c *Client) SetLine(ctx context.Context, credential, productID string, qty int) error {
	return c.do(ctx, http.MethodPut, "/cart/"+url.PathEscape(productID), credential,
		map[string]any{"quantity": qty}, nil)
}

func (c *Client) RemoveLine(ctx context.Context, credential, productID string) error {
	return c.do(ctx, http.MethodPut, "/cart/remove/"+url.PathEscape(productID), credential, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, credential, subjectID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/clear/"+url.PathEscape(subjectID), credential, nil, nil)
}

// ---- catalog ----

func (c *Client) ListProducts(ctx context.Context, category string) ([]proddom.Product, error) {
	path := "/products"
	if cat := strings.TrimSpace(category); cat != "" {
		path += "?category=" + url.QueryEscape(cat)
	}
	var out struct {
		Products []proddom.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// ---- plumbing ----

func (c *Client) do(ctx context.Context, method, path, credential string, body, out any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("api: client baseURL is empty")
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("api: %s %s: %s", method, path, apiError(res.Body, res.StatusCode))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func apiError(body io.Reader, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Sprintf("status %d: %s", status, payload.Error)
	}
	return fmt.Sprintf("status %d", status)
}
