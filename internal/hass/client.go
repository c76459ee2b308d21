// Package hass implements the Host interface against a Home Assistant
// instance over its REST API.
package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okvist/hatodo/internal/model"
)

// Client talks to one Home Assistant instance. All todo mutations funnel
// through the generic service-call endpoint; listing prefers the dedicated
// item route with a service-call fallback for older hosts.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the instance at baseURL using a long-lived
// access token. Timeouts and retries are owned by the transport; the card
// adds none of its own.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type wireItem struct {
	UID         string `json:"uid"`
	Summary     string `json:"summary"`
	Status      string `json:"status"`
	Due         string `json:"due,omitempty"`
	Description string `json:"description,omitempty"`
}

func (w wireItem) toModel() model.Item {
	return model.Item{
		UID:         w.UID,
		Summary:     w.Summary,
		Status:      model.Status(w.Status),
		Due:         w.Due,
		Description: w.Description,
	}
}

// ListItems fetches the entity's items. The dedicated route is preferred;
// when the host doesn't support it the generic get_items service call is
// used and the entity-keyed response unwrapped.
func (c *Client) ListItems(ctx context.Context, entityID string) ([]model.Item, error) {
	var resp struct {
		Items []wireItem `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/api/todo/"+entityID+"/items", nil, &resp)
	if err == nil {
		return toItems(resp.Items), nil
	}
	if !isUnsupported(err) {
		return nil, err
	}

	var fallback struct {
		ServiceResponse map[string]struct {
			Items []wireItem `json:"items"`
		} `json:"service_response"`
	}
	body := map[string]any{"entity_id": entityID}
	if err := c.do(ctx, http.MethodPost, "/api/services/todo/get_items?return_response", body, &fallback); err != nil {
		return nil, err
	}
	entry, ok := fallback.ServiceResponse[entityID]
	if !ok {
		return nil, fmt.Errorf("hass: get_items response has no entry for %s", entityID)
	}
	return toItems(entry.Items), nil
}

func toItems(ws []wireItem) []model.Item {
	items := make([]model.Item, len(ws))
	for i, w := range ws {
		items[i] = w.toModel()
	}
	return items
}

// AddItem creates a new item on the entity.
func (c *Client) AddItem(ctx context.Context, entityID string, p model.AddItemParams) error {
	body := map[string]any{
		"entity_id": entityID,
		"item":      p.Summary,
	}
	if p.Description != "" {
		body["description"] = p.Description
	}
	if p.DueDateTime != "" {
		body["due_datetime"] = p.DueDateTime
	} else if p.DueDate != "" {
		body["due_date"] = p.DueDate
	}
	return c.do(ctx, http.MethodPost, "/api/services/todo/add_item", body, nil)
}

// UpdateItem mutates an existing item. ClearDue sends an explicit null
// due_date so the host removes any stored due date.
func (c *Client) UpdateItem(ctx context.Context, entityID string, p model.UpdateItemParams) error {
	body := map[string]any{
		"entity_id": entityID,
		"item":      p.UID,
	}
	if p.Rename != nil {
		body["rename"] = *p.Rename
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Status != nil {
		body["status"] = string(*p.Status)
	}
	switch {
	case p.DueDateTime != nil:
		body["due_datetime"] = *p.DueDateTime
	case p.DueDate != nil:
		body["due_date"] = *p.DueDate
	case p.ClearDue:
		body["due_date"] = nil
	}
	return c.do(ctx, http.MethodPost, "/api/services/todo/update_item", body, nil)
}

// RemoveItems deletes one or more items in a single call.
func (c *Client) RemoveItems(ctx context.Context, entityID string, uids []string) error {
	body := map[string]any{
		"entity_id": entityID,
		"item":      uids,
	}
	return c.do(ctx, http.MethodPost, "/api/services/todo/remove_item", body, nil)
}

// callError is a failed host call, carrying the HTTP status for the
// unsupported-route check.
type callError struct {
	status  int
	message string
}

func (e *callError) Error() string {
	return fmt.Sprintf("hass: call failed (%d): %s", e.status, e.message)
}

func isUnsupported(err error) bool {
	ce, ok := err.(*callError)
	return ok && (ce.status == http.StatusNotFound || ce.status == http.StatusMethodNotAllowed)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("hass: encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("hass: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hass: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &callError{status: resp.StatusCode, message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("hass: decode response: %w", err)
	}
	return nil
}
