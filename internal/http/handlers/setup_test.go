package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"expense-tracker-api/internal/config"
	"expense-tracker-api/internal/models/dto"
	"expense-tracker-api/internal/server"
)

func testConfig() config.Config {
	return config.Config{
		Port:        "0",
		JWTSecret:   "test-secret",
		JWTIssuer:   "expense-tracker-api-test",
		JWTTTL:      time.Hour,
		CORSOrigins: []string{"*"},
	}
}

// newTestServer spins up the fully wired router over an in-memory store.
func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := newMemStore()
	srv := server.New(testConfig(), store)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerUser onboards a user via the API and returns the auth response.
func registerUser(t *testing.T, baseURL, username, email, password string) dto.AuthResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register %s", email)
	out := decodeBody[dto.AuthResponse](t, resp)
	require.NotEmpty(t, out.Token)
	require.NotEmpty(t, out.User.ID)
	return out
}

func addExpense(t *testing.T, baseURL, token string, payload map[string]any) map[string]any {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/api/expenses", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "add expense %v", payload)
	return decodeBody[map[string]any](t, resp)
}

func expensePath(baseURL, id string) string {
	return fmt.Sprintf("%s/api/expenses/%s", baseURL, id)
}
