// internal/repository/ords/client.go
package ords

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"vantage-console/internal/domain/directory"
	xerrors "vantage-console/internal/pkg/errors"
)

// Client talks to the ORDS views that expose the user directory. It is the
// default directory.Directory implementation; transport errors are wrapped
// as ErrUpstreamUnavailable so callers can degrade per their own policy.
type Client struct {
	base   string
	bearer string
	http   *http.Client
	logger *zap.Logger
}

func NewClient(baseURL, bearer string, logger *zap.Logger) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		bearer: bearer,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (c *Client) FindUserByEmail(ctx context.Context, email string) (*directory.UserRecord, error) {
	return c.findUser(ctx, url.Values{"email": {email}})
}

func (c *Client) FindUserByID(ctx context.Context, id string) (*directory.UserRecord, error) {
	return c.findUser(ctx, url.Values{"user_id": {id}})
}

func (c *Client) findUser(ctx context.Context, query url.Values) (*directory.UserRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/Users?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build users request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		c.logger.Warn("directory returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body_preview", preview),
		)
		return nil, fmt.Errorf("%w: status %d", xerrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", xerrors.ErrUpstreamUnavailable, err)
	}
	if len(payload.Items) == 0 {
		return nil, nil
	}

	return recordFromItem(payload.Items[0]), nil
}

// recordFromItem converts a loosely typed ORDS row. The view serves numbers
// and flag columns inconsistently ("1" vs 1), so every field goes through
// string coercion the way the view's consumers always have.
func recordFromItem(item map[string]interface{}) *directory.UserRecord {
	rec := &directory.UserRecord{
		ID:           asString(item["user_id"]),
		Email:        asString(item["email"]),
		FullName:     asString(item["full_name"]),
		Role:         asString(item["role"]),
		IsActive:     asString(item["isactive"]) == "1",
		IsLocked:     asString(item["is_locked"]) == "1",
		PasswordHash: asString(item["password_hash"]),
	}
	if v, ok := item["tenant_id"]; ok && v != nil {
		if f, ok := v.(float64); ok {
			id := int64(f)
			rec.TenantID = &id
		}
	}
	return rec
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool:
		if t {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ActivateRequest is the account-activation call proxied to the directory:
// the user sets a first password against a tenant-scoped invite token.
type ActivateRequest struct {
	TenantCode string
	Token      string
	Password   string
	Username   string
	Email      string
}

// ActivateResult relays the upstream verdict without interpretation.
type ActivateResult struct {
	Status int
	Body   map[string]interface{}
}

// Activate posts to the directory's /Activate endpoint and unwraps the two
// response shapes ORDS produces (direct JSON vs AutoREST payload column).
func (c *Client) Activate(ctx context.Context, ar ActivateRequest) (*ActivateResult, error) {
	payload := map[string]interface{}{
		"p_tenant_code": ar.TenantCode,
		"p_token":       ar.Token,
		"p_password":    ar.Password,
		"p_created_by":  "set-password-page",
	}
	if ar.Username != "" {
		payload["p_username"] = ar.Username
	}
	if ar.Email != "" {
		payload["p_email"] = ar.Email
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal activation payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/Activate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build activation request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", xerrors.ErrUpstreamUnavailable, err)
	}

	return &ActivateResult{Status: resp.StatusCode, Body: unwrapActivation(raw)}, nil
}

func unwrapActivation(raw []byte) map[string]interface{} {
	var outer map[string]interface{}
	if err := json.Unmarshal(raw, &outer); err != nil {
		return map[string]interface{}{"raw": string(raw)}
	}

	// AutoREST wraps the handler's JSON in items[0].payload as a string.
	if items, ok := outer["items"].([]interface{}); ok && len(items) > 0 {
		if item, ok := items[0].(map[string]interface{}); ok {
			if s, ok := item["payload"].(string); ok {
				var inner map[string]interface{}
				if err := json.Unmarshal([]byte(s), &inner); err == nil {
					return inner
				}
				return map[string]interface{}{"raw": s}
			}
		}
	}

	return outer
}
