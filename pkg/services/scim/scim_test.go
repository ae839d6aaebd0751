package scim

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeport-io/lakeport-go/pkg/api"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := api.DefaultConfig()
	cfg.Host = server.URL
	cfg.Token = "dapi-test-token"

	client, err := api.NewClient(cfg)
	require.NoError(t, err)
	return NewService(client)
}

func TestService_ListUsersUnwrapsResources(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/2.0/scim/v2/users", r.URL.Path)
		assert.Equal(t, `userName eq "jane@example.com"`, r.URL.Query().Get("filter"))
		json.NewEncoder(w).Encode(map[string]any{
			"totalResults": 1,
			"Resources": []map[string]any{
				{
					"id":          "u-100",
					"userName":    "jane@example.com",
					"displayName": "Jane Doe",
					"active":      true,
					"emails":      []map[string]any{{"value": "jane@example.com", "primary": true}},
				},
			},
		})
	}))

	users, err := svc.ListUsers(context.Background(), ListOptions{Filter: `userName eq "jane@example.com"`})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u-100", users[0].ID)
	assert.True(t, users[0].Active)
	assert.Equal(t, "jane@example.com", users[0].Emails[0].Value)
}

func TestService_ListUsersEmptyFilterOmitted(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("filter"))
		json.NewEncoder(w).Encode(map[string]any{"Resources": []map[string]any{}})
	}))

	users, err := svc.ListUsers(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestService_ListUsersRawKeepsEnvelope(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"totalResults": 2,
			"Resources":    []map[string]any{{"id": "u-1"}, {"id": "u-2"}},
		})
	}))

	envelope, err := svc.ListUsersRaw(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, float64(2), envelope["totalResults"])
	assert.Contains(t, envelope, "Resources")
}

func TestService_CreateUserSendsSCIMContentType(t *testing.T) {
	var gotBody map[string]any
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, api.ContentTypeSCIM, r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "u-101",
			"userName": gotBody["userName"],
		})
	}))

	created, err := svc.CreateUser(context.Background(), User{
		UserName:    "sam@example.com",
		DisplayName: "Sam Li",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-101", created.ID)
	assert.Equal(t, []any{UserSchema}, gotBody["schemas"])
	assert.Equal(t, "Sam Li", gotBody["displayName"])
	assert.NotContains(t, gotBody, "emails", "empty optional fields are omitted")
}

func TestService_CreateUserRequiresUserName(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := svc.CreateUser(context.Background(), User{DisplayName: "No Name"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrMissingRequiredField))
}

func TestService_GetUserEscapesID(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/2.0/scim/v2/users/u-100", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"id": "u-100", "userName": "jane@example.com"})
	}))

	user, err := svc.GetUser(context.Background(), "u-100")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.UserName)
}

func TestService_DeleteUser(t *testing.T) {
	var gotMethod, gotPath string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, svc.DeleteUser(context.Background(), "u-100"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/2.0/scim/v2/users/u-100", gotPath)
}

func TestService_Groups(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/2.0/scim/v2/groups":
			json.NewEncoder(w).Encode(map[string]any{
				"Resources": []map[string]any{
					{"id": "g-1", "displayName": "data-eng", "members": []map[string]any{{"value": "u-100"}}},
				},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/2.0/scim/v2/groups":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, []any{GroupSchema}, body["schemas"])
			json.NewEncoder(w).Encode(map[string]any{"id": "g-2", "displayName": body["displayName"]})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))

	groups, err := svc.ListGroups(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "data-eng", groups[0].DisplayName)
	assert.Equal(t, "u-100", groups[0].Members[0].Value)

	created, err := svc.CreateGroup(context.Background(), Group{DisplayName: "platform"})
	require.NoError(t, err)
	assert.Equal(t, "g-2", created.ID)
}
