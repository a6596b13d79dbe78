package ords

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	xerrors "vantage-console/internal/pkg/errors"
)

func TestFindUserByEmailParsesItems(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/Users", r.URL.Path)
		assert.Equal(t, "ada@example.com", r.URL.Query().Get("email"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{{
				"user_id":       1001,
				"email":         "ada@example.com",
				"full_name":     "Ada Lovelace",
				"role":          "owner",
				"tenant_id":     3,
				"isactive":      "1",
				"is_locked":     0,
				"password_hash": "ABC123",
			}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sekrit", zap.NewNop())

	rec, err := client.FindUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Bearer sekrit", gotAuth)
	assert.Equal(t, "1001", rec.ID)
	assert.Equal(t, "ada@example.com", rec.Email)
	assert.Equal(t, "Ada Lovelace", rec.FullName)
	assert.Equal(t, "owner", rec.Role)
	require.NotNil(t, rec.TenantID)
	assert.Equal(t, int64(3), *rec.TenantID)
	assert.True(t, rec.IsActive)
	assert.False(t, rec.IsLocked)
	assert.Equal(t, "ABC123", rec.PasswordHash)
}

func TestFindUserByIDQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1001", r.URL.Query().Get("user_id"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{{
				"user_id": "1001",
				"email":   "ada@example.com",
				"role":    "TENANT",
			}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", zap.NewNop())

	rec, err := client.FindUserByID(context.Background(), "1001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "TENANT", rec.Role)
	assert.Nil(t, rec.TenantID)
}

func TestFindUserNoMatchReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", zap.NewNop())

	rec, err := client.FindUserByEmail(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFindUserUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ORA-00000", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", zap.NewNop())

	_, err := client.FindUserByEmail(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, xerrors.ErrUpstreamUnavailable)
}

func TestFindUserUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed immediately: connection refused

	client := NewClient(srv.URL, "", zap.NewNop())

	_, err := client.FindUserByEmail(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, xerrors.ErrUpstreamUnavailable)
}

func TestActivateUnwrapsAutoRESTPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Activate", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "acme", body["p_tenant_code"])
		assert.Equal(t, "invite-token", body["p_token"])
		assert.Equal(t, "set-password-page", body["p_created_by"])
		_, hasUsername := body["p_username"]
		assert.False(t, hasUsername)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{{
				"payload": `{"status":"activated","user_id":9}`,
			}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", zap.NewNop())

	result, err := client.Activate(context.Background(), ActivateRequest{
		TenantCode: "acme",
		Token:      "invite-token",
		Password:   "new-password",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, "activated", result.Body["status"])
}

func TestActivateRelaysDirectJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "token already used"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", zap.NewNop())

	result, err := client.Activate(context.Background(), ActivateRequest{
		TenantCode: "acme",
		Token:      "stale",
		Password:   "pw",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, result.Status)
	assert.Equal(t, "token already used", result.Body["error"])
}
