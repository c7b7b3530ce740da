package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"Mansoor88-6/nagster-console/internal/models"
	"Mansoor88-6/nagster-console/internal/obs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*APIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL, 2*time.Second, nil, obs.NewMetrics(), zap.NewNop()), srv
}

func TestCall_SetsHeadersAndMergesCallerHeaders(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "custom", r.Header.Get("X-Trace"))
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"ok":true}`))
	})
	c.SetToken("tok")

	raw, err := c.Call(context.Background(), "/overview",
		WithHeader("X-Trace", "custom"),
		WithHeader("Accept", "text/plain"),
	)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestCall_EmptySuccessBodyIsNull(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	raw, err := c.Call(context.Background(), "/employees/E1", WithMethod(http.MethodDelete))
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestCall_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		status   int
		body     string
		wantKind Kind
		wantMsg  string
	}{
		{"unauthorized data call", "/overview", 401, `{"detail":"nope"}`, KindAuth, "HTTP error! status: 401"},
		{"forbidden", "/overview", 403, ``, KindAuth, "HTTP error! status: 403"},
		{"rate limited", "/overview", 429, ``, KindRateLimit, "HTTP error! status: 429"},
		{"bad request", "/employees", 400, `{"detail":"Employee already exists"}`, KindBadRequest, "HTTP error! status: 400"},
		{"not found", "/summary/E9", 404, `{"detail":"Employee not found"}`, KindNotFound, "HTTP error! status: 404"},
		{"server error", "/overview", 500, `oops`, KindHTTP, "HTTP error! status: 500"},
		{"auth detail wins", "/auth/login", 401, `{"detail":"Invalid credentials"}`, KindAuth, "Invalid credentials"},
		{"auth validation list", "/auth/signup", 422, `{"detail":[{"msg":"field required"}]}`, KindBadRequest, "field required"},
		{"auth without detail", "/auth/me", 500, `{}`, KindHTTP, "HTTP error! status: 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Call(context.Background(), tt.endpoint)
			require.Error(t, err)
			apiErr := AsError(err)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestCall_InvalidJSONIsDecodeError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})

	_, err := c.Call(context.Background(), "/overview")
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestCall_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewAPIClient(url, time.Second, nil, nil, zap.NewNop())
	_, err := c.Call(context.Background(), "/health")
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestCall_Canceled(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Call(ctx, "/overview")
	assert.True(t, IsCanceled(err))
}

func TestEndpoints_QueryAndPaths(t *testing.T) {
	var seen atomic.Value
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Method + " " + r.URL.RequestURI())
		switch r.URL.Path {
		case "/overview":
			w.Write([]byte(`[{"employee_id":"E1","name":"Ana","status":"Active","suspicious_flag_count":2}]`))
		case "/summary/E 1":
			w.Write([]byte(`{"employee_id":"E 1","active":{"hours":1,"minutes":2,"seconds":3}}`))
		case "/activity/E1":
			w.Write([]byte(`[{"type":"idle","title":"t","duration":null}]`))
		case "/auth/me":
			w.Write([]byte(`{"username":"boss","role":"admin"}`))
		default:
			w.Write([]byte(`{"message":"ok"}`))
		}
	})
	ctx := context.Background()

	rows, err := c.Overview(ctx, "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, "GET /overview?date_str=2025-01-02", seen.Load())
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsActive())

	sum, err := c.Summary(ctx, "E 1", "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, "GET /summary/E%201?date_str=2025-01-02", seen.Load())
	assert.Equal(t, models.DurationParts{Hours: 1, Minutes: 2, Seconds: 3}, sum.Active)

	entries, err := c.Activity(ctx, "E1", "")
	require.NoError(t, err)
	assert.Equal(t, "GET /activity/E1", seen.Load())
	assert.Equal(t, "", entries[0].Duration)

	profile, err := c.Me(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "GET /auth/me?token=abc", seen.Load())
	assert.Equal(t, "boss", profile.Username)

	_, err = c.DeleteEmployee(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, "DELETE /employees/E1", seen.Load())

	_, err = c.ListEmployees(ctx, "Active")
	require.NoError(t, err)
	assert.Equal(t, "GET /employees?status=Active", seen.Load())
}

func TestCreateEmployee_SendsPayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var got models.NewEmployee
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "E7", got.EmployeeID)
		assert.Equal(t, "Hybrid", got.WorkMode)
		w.Write([]byte(`{"message":"Employee added"}`))
	})

	ack, err := c.CreateEmployee(context.Background(), models.NewEmployee{EmployeeID: "E7", Name: "Zed", WorkMode: "Hybrid"})
	require.NoError(t, err)
	assert.Equal(t, "Employee added", ack.Message)
}

func TestLogin_DoesNotSendBearer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"access_token":"t","role":"admin"}`))
	})
	c.SetToken("stale")

	resp, err := c.Login(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "t", resp.AccessToken)
}

func TestHealthCheck(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","service":"nagster"}`))
	})
	assert.NoError(t, c.HealthCheck(context.Background()))

	bad, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"degraded"}`))
	})
	assert.Error(t, bad.HealthCheck(context.Background()))
}
