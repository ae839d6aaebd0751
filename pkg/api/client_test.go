package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.Host = server.URL
	cfg.Token = "dapi-test-token"

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client, server
}

func TestClient_GetSerializesQuery(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/2.0/clusters/get", r.URL.Path)
		assert.Equal(t, "0712-123003-rail519", r.URL.Query().Get("cluster_id"))
		assert.Equal(t, "Bearer dapi-test-token", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("User-Agent"), "lakeport-go/")
		assert.Empty(t, r.Header.Get("Content-Type"), "GET must not carry a body")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"cluster_id": "0712-123003-rail519",
			"state":      "RUNNING",
		})
	}))

	ep := Endpoint{Method: http.MethodGet, Path: "clusters/get"}
	payload := NewPayload().Force("cluster_id", "0712-123003-rail519")

	envelope, err := client.Call(context.Background(), ep, payload)
	require.NoError(t, err)
	assert.Equal(t, "RUNNING", envelope["state"])
}

func TestClient_PostSerializesJSONBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ContentTypeJSON, r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0712-123003-rail519", body["cluster_id"])

		w.WriteHeader(http.StatusOK)
	}))

	ep := Endpoint{Method: http.MethodPost, Path: "clusters/start"}
	payload := NewPayload().Force("cluster_id", "0712-123003-rail519")

	envelope, err := client.Call(context.Background(), ep, payload)
	require.NoError(t, err)
	assert.Empty(t, envelope, "empty response body decodes to an empty envelope")
}

func TestClient_VersionSelection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/2.1/jobs/list", r.URL.Path)
		w.Write([]byte(`{}`))
	}))

	ep := Endpoint{Method: http.MethodGet, Path: "jobs/list", Version: "2.1"}
	_, err := client.Call(context.Background(), ep, nil)
	require.NoError(t, err)
}

func TestClient_SCIMContentType(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ContentTypeSCIM, r.Header.Get("Content-Type"))
		w.Write([]byte(`{"id": "u-1"}`))
	}))

	ep := Endpoint{Method: http.MethodPost, Path: "scim/v2/users"}
	payload := NewPayload().Force("userName", "jane@example.com")

	_, err := client.Call(context.Background(), ep, payload, WithContentType(ContentTypeSCIM))
	require.NoError(t, err)
}

func TestClient_APIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"forbidden"}`))
	}))

	ep := Endpoint{Method: http.MethodGet, Path: "permissions/clusters/x"}
	_, err := client.Call(context.Background(), ep, nil, WithOp("permissions.Get"))
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "forbidden", apiErr.Msg)
	assert.Equal(t, "permissions.Get", apiErr.Op)
	assert.True(t, errors.Is(err, ErrAPIResponse))
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestClient_APIErrorWithCode(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error_code":"RESOURCE_DOES_NOT_EXIST","message":"Cluster abc does not exist"}`))
	}))

	ep := Endpoint{Method: http.MethodGet, Path: "clusters/get"}
	_, err := client.Call(context.Background(), ep, nil)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "RESOURCE_DOES_NOT_EXIST", apiErr.ErrorCode)
	assert.Equal(t, "Cluster abc does not exist", apiErr.Msg)
}

func TestClient_APIErrorUnparseableBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))

	ep := Endpoint{Method: http.MethodGet, Path: "clusters/list"}
	_, err := client.Call(context.Background(), ep, nil)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Msg, "raw body passes through verbatim")
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := DefaultConfig()
	cfg.Host = server.URL
	cfg.Token = "dapi-test-token"
	client, err := NewClient(cfg)
	require.NoError(t, err)

	// Closing the server before the call leaves nothing listening.
	server.Close()

	ep := Endpoint{Method: http.MethodGet, Path: "clusters/list"}
	_, err = client.Call(context.Background(), ep, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, 0, StatusCode(err))
}

func TestClient_SingleRoundTrip(t *testing.T) {
	// The dispatcher must not retry on its own, even for server errors.
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))

	ep := Endpoint{Method: http.MethodGet, Path: "clusters/list"}
	_, err := client.Call(context.Background(), ep, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	// No host or token set.
	_, err := NewClient(cfg)
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}
