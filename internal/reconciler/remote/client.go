// Package remote talks to the ledger HTTP API on behalf of the sync client.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/you-humble/stockledger/internal/model"
)

const apiPrefix = "/api/v1"

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for the server at baseURL. Every request carries
// token as a bearer credential.
func New(baseURL, token string, hc *http.Client) *client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    hc,
	}
}

// Ping probes the unauthenticated health endpoint.
func (c *client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *client) Pull(ctx context.Context) (*model.Snapshot, error) {
	var s model.Snapshot
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/sync/full", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *client) Push(ctx context.Context, s model.Snapshot) error {
	return c.do(ctx, http.MethodPost, apiPrefix+"/sync/full", s, nil)
}

func (c *client) CreateProduct(ctx context.Context, p model.CreateProductParams) (*model.ProductSummary, error) {
	var res model.ProductSummary
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/products", p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) UpdateProduct(ctx context.Context, p model.UpdateProductParams) (*model.ProductSummary, error) {
	var res model.ProductSummary
	if err := c.do(ctx, http.MethodPut, entity("products", p.ID), p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, entity("products", id), nil, nil)
}

func (c *client) CreateOperation(ctx context.Context, p model.CreateOperationParams) (*model.OperationView, error) {
	var res model.OperationView
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/operations", p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) DeleteOperation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, entity("operations", id), nil, nil)
}

func (c *client) UpdateReservation(ctx context.Context, p model.UpdateReservationParams) (*model.ReservationView, error) {
	var res model.ReservationView
	if err := c.do(ctx, http.MethodPut, entity("reservations", p.ID), p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) CreateReminder(ctx context.Context, p model.CreateReminderParams) (*model.Reminder, error) {
	var res model.Reminder
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/reminders", p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) UpdateReminder(ctx context.Context, p model.UpdateReminderParams) (*model.Reminder, error) {
	var res model.Reminder
	if err := c.do(ctx, http.MethodPut, entity("reminders", p.ID), p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func entity(collection string, id int64) string {
	return apiPrefix + "/" + collection + "/" + strconv.FormatInt(id, 10)
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// do sends body as JSON and decodes a 2xx response into out. Transport
// failures and 5xx answers are reported as model.ErrUnavailable.
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %s", model.ErrUnavailable, method, path, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %s", model.ErrUnavailable, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(code int, raw []byte) error {
	var body errorBody
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		msg = body.Message
	}

	var base error
	switch {
	case code == http.StatusBadRequest:
		base = model.ErrInvalidInput
	case code == http.StatusUnauthorized:
		base = model.ErrUnauthorized
	case code == http.StatusForbidden:
		base = model.ErrForbidden
	case code == http.StatusNotFound:
		base = model.ErrNotFound
	case code == http.StatusConflict:
		base = model.ErrConflict
	default:
		base = model.ErrUnavailable
	}
	return fmt.Errorf("%w: remote %d: %s", base, code, msg)
}
