// Package gateway is the single seam between the application and its three
// remote collaborators: the application backend, the public product
// database, and the recipe workflow webhook. Every operation is a plain
// request/response call; nothing is retried or cached here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mkravets/pantrypal/internal/models"
)

// Identity exposes the read-only part of the session the gateway needs for
// its write guard. Implemented by session.Manager.
type Identity interface {
	IsGuest() bool
}

// ErrInvalidCredentials is returned for every failed login, regardless of
// which field was wrong.
var ErrInvalidCredentials = &ValidationError{Reason: "invalid username or password"}

// Client wraps HTTP access to the backend, the product database, and the
// workflow webhook. The zero value is not usable; construct with New.
type Client struct {
	http       *http.Client
	backendURL string
	lookupURL  string
	webhookURL string
	identity   Identity
	log        *zap.Logger
}

// New constructs a gateway Client. httpClient may carry whatever transport
// timeouts the caller wants; the gateway itself enforces none.
func New(httpClient *http.Client, backendURL, lookupURL, webhookURL string, identity Identity, log *zap.Logger) *Client {
	return &Client{
		http:       httpClient,
		backendURL: strings.TrimRight(backendURL, "/"),
		lookupURL:  strings.TrimRight(lookupURL, "/"),
		webhookURL: webhookURL,
		identity:   identity,
		log:        log,
	}
}

// ListAllProducts returns every stored product. This is the guest,
// read-only path.
func (c *Client) ListAllProducts(ctx context.Context) ([]models.ProductRecord, error) {
	var out []models.ProductRecord
	if err := c.doJSON(ctx, http.MethodGet, c.backendURL+"/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProductsForUser returns the products owned by userID.
func (c *Client) ListProductsForUser(ctx context.Context, userID string) ([]models.ProductRecord, error) {
	if userID == "" {
		return nil, &ValidationError{Reason: "user id is missing, please log in"}
	}
	var out []models.ProductRecord
	if err := c.doJSON(ctx, http.MethodGet, c.backendURL+"/products/user/"+userID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveProduct normalizes the draft and stores it for userID. The guest
// guard runs before any network call; it is a client-side safety net, not
// a security boundary.
func (c *Client) SaveProduct(ctx context.Context, userID string, draft models.ProductDraft) (*models.ProductRecord, error) {
	if err := c.assertNotGuest(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, &ValidationError{Reason: "user id is missing, please log in"}
	}

	rec := normalizeDraft(draft)
	c.log.Debug("saving product",
		zap.String("barcode", rec.Barcode),
		zap.String("name", rec.Name),
		zap.String("date", rec.Date),
	)

	var saved models.ProductRecord
	if err := c.doJSON(ctx, http.MethodPost, c.backendURL+"/products/user/"+userID, rec, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteProduct removes one product owned by userID.
func (c *Client) DeleteProduct(ctx context.Context, userID, productID string) error {
	if err := c.assertNotGuest(); err != nil {
		return err
	}
	if userID == "" {
		return &ValidationError{Reason: "user id is missing, please log in"}
	}
	if productID == "" {
		return &ValidationError{Reason: "product id is missing"}
	}
	return c.doJSON(ctx, http.MethodDelete, c.backendURL+"/products/user/"+userID+"/"+productID, nil, nil)
}

// RegisterUser creates a new account. The payload passes through to the
// backend untouched.
func (c *Client) RegisterUser(ctx context.Context, draft models.UserDraft) error {
	return c.doJSON(ctx, http.MethodPost, c.backendURL+"/users/register", draft, nil)
}

// LoginUser exchanges credentials for a user id. Any failure collapses
// into ErrInvalidCredentials so the UI cannot leak which field was wrong.
func (c *Client) LoginUser(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var out struct {
		ID json.Number `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.backendURL+"/users/login", body, &out); err != nil {
		c.log.Info("login rejected", zap.String("username", username))
		return "", ErrInvalidCredentials
	}
	if out.ID == "" {
		return "", ErrInvalidCredentials
	}
	return out.ID.String(), nil
}

// LookupProductByBarcode queries the public product database. A response
// whose status flag is not 1 means the barcode is unknown.
func (c *Client) LookupProductByBarcode(ctx context.Context, barcode string) (*LookupResult, error) {
	if barcode == "" {
		return nil, &ValidationError{Reason: "barcode is empty"}
	}
	var env lookupEnvelope
	if err := c.doJSON(ctx, http.MethodGet, c.lookupURL+"/"+barcode+".json", nil, &env); err != nil {
		return nil, err
	}
	if env.Status != 1 || env.Product == nil {
		return nil, &NotFoundError{Barcode: barcode}
	}
	return env.Product, nil
}

// TriggerRecipeWorkflow posts the user id to the workflow webhook. The
// response body is ignored beyond the success check; results arrive later
// through the backend message queue.
func (c *Client) TriggerRecipeWorkflow(ctx context.Context, userID string) error {
	if userID == "" {
		return &ValidationError{Reason: "user id is missing, please log in"}
	}
	return c.doJSON(ctx, http.MethodPost, c.webhookURL, map[string]string{"userId": userID}, nil)
}

// FetchRecipeMessages reads the queue of asynchronously produced recipe
// messages.
func (c *Client) FetchRecipeMessages(ctx context.Context) ([]models.RecipeMessage, error) {
	var out []models.RecipeMessage
	if err := c.doJSON(ctx, http.MethodGet, c.backendURL+"/messages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearRecipeMessages empties the message queue.
func (c *Client) ClearRecipeMessages(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, c.backendURL+"/messages", nil, nil)
}

// assertNotGuest rejects write operations while guest mode is active.
func (c *Client) assertNotGuest() error {
	if c.identity != nil && c.identity.IsGuest() {
		return &ValidationError{Reason: "guest mode is read-only, please log in to perform this action"}
	}
	return nil
}

// doJSON performs one HTTP round trip. A network failure becomes a
// TransportError, a non-2xx status a RequestError carrying the response
// body, and when out is non-nil the response is decoded into it.
func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RequestError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Status: resp.StatusCode, Detail: "malformed response body"}
	}
	return nil
}
