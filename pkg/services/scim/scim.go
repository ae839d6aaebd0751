// Package scim wraps the identity endpoints, which speak SCIM 2.0: requests
// carry the application/scim+json content type and list responses wrap their
// items in a "Resources" field.
package scim

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lakeport-io/lakeport-go/pkg/api"
)

// SCIM schema URNs attached to create requests.
const (
	UserSchema  = "urn:ietf:params:scim:schemas:core:2.0:User"
	GroupSchema = "urn:ietf:params:scim:schemas:core:2.0:Group"
)

var (
	epListUsers  = api.Endpoint{Method: http.MethodGet, Path: "scim/v2/users"}
	epGetUser    = api.Endpoint{Method: http.MethodGet, Path: "scim/v2/users/%s"}
	epCreateUser = api.Endpoint{Method: http.MethodPost, Path: "scim/v2/users"}
	epDeleteUser = api.Endpoint{Method: http.MethodDelete, Path: "scim/v2/users/%s"}

	epListGroups  = api.Endpoint{Method: http.MethodGet, Path: "scim/v2/groups"}
	epGetGroup    = api.Endpoint{Method: http.MethodGet, Path: "scim/v2/groups/%s"}
	epCreateGroup = api.Endpoint{Method: http.MethodPost, Path: "scim/v2/groups"}
	epDeleteGroup = api.Endpoint{Method: http.MethodDelete, Path: "scim/v2/groups/%s"}
)

// Service exposes identity operations on one client.
type Service struct {
	client *api.Client
}

// NewService returns an identity service backed by client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// User is a SCIM user resource.
type User struct {
	ID           string        `json:"id"`
	UserName     string        `json:"userName"`
	DisplayName  string        `json:"displayName"`
	Active       bool          `json:"active"`
	Emails       []Email       `json:"emails"`
	Groups       []MemberRef   `json:"groups"`
	Entitlements []Entitlement `json:"entitlements"`
}

// Group is a SCIM group resource.
type Group struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"displayName"`
	Members     []MemberRef `json:"members"`
}

// Email is one email address of a user.
type Email struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

// MemberRef points at a user or group by id.
type MemberRef struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

// Entitlement is one workspace entitlement of a user or group.
type Entitlement struct {
	Value string `json:"value"`
}

// ListOptions filter a SCIM list with a filter expression like
// `userName eq "jane@example.com"`. An empty filter lists everything.
type ListOptions struct {
	Filter string
}

// ListUsers returns users matching opts, unwrapping the SCIM "Resources"
// field.
func (s *Service) ListUsers(ctx context.Context, opts ListOptions) ([]User, error) {
	envelope, err := s.ListUsersRaw(ctx, opts)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := envelope.DecodeField("Resources", &users); err != nil {
		return nil, fmt.Errorf("failed to decode user list: %w", err)
	}
	return users, nil
}

// ListUsersRaw returns the full SCIM list envelope, including "totalResults"
// and paging fields.
func (s *Service) ListUsersRaw(ctx context.Context, opts ListOptions) (api.Envelope, error) {
	payload := api.NewPayload().Set("filter", opts.Filter)
	return s.client.Call(ctx, epListUsers, payload,
		api.WithOp("scim.ListUsers"), api.WithContentType(api.ContentTypeSCIM))
}

// GetUser retrieves a user by SCIM id.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, api.MissingField("scim.GetUser", "id")
	}

	envelope, err := s.client.Call(ctx, epGetUser.Format(id), nil,
		api.WithOp("scim.GetUser"), api.WithContentType(api.ContentTypeSCIM))
	if err != nil {
		return nil, err
	}

	var user User
	if err := envelope.Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// CreateUser provisions a user and returns it with the server-assigned id.
func (s *Service) CreateUser(ctx context.Context, user User) (*User, error) {
	if user.UserName == "" {
		return nil, api.MissingField("scim.CreateUser", "userName")
	}

	payload := api.NewPayload().
		Force("schemas", []string{UserSchema}).
		Force("userName", user.UserName).
		Set("displayName", user.DisplayName).
		Set("emails", user.Emails).
		Set("entitlements", user.Entitlements)

	envelope, err := s.client.Call(ctx, epCreateUser, payload,
		api.WithOp("scim.CreateUser"), api.WithContentType(api.ContentTypeSCIM))
	if err != nil {
		return nil, err
	}

	var created User
	if err := envelope.Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created user: %w", err)
	}
	return &created, nil
}

// DeleteUser removes a user by SCIM id.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return api.MissingField("scim.DeleteUser", "id")
	}
	_, err := s.client.Call(ctx, epDeleteUser.Format(id), nil,
		api.WithOp("scim.DeleteUser"), api.WithContentType(api.ContentTypeSCIM))
	return err
}

// ListGroups returns groups matching opts, unwrapping the SCIM "Resources"
// field.
func (s *Service) ListGroups(ctx context.Context, opts ListOptions) ([]Group, error) {
	payload := api.NewPayload().Set("filter", opts.Filter)
	envelope, err := s.client.Call(ctx, epListGroups, payload,
		api.WithOp("scim.ListGroups"), api.WithContentType(api.ContentTypeSCIM))
	if err != nil {
		return nil, err
	}

	var groups []Group
	if err := envelope.DecodeField("Resources", &groups); err != nil {
		return nil, fmt.Errorf("failed to decode group list: %w", err)
	}
	return groups, nil
}

// GetGroup retrieves a group by SCIM id.
func (s *Service) GetGroup(ctx context.Context, id string) (*Group, error) {
	if id == "" {
		return nil, api.MissingField("scim.GetGroup", "id")
	}

	envelope, err := s.client.Call(ctx, epGetGroup.Format(id), nil,
		api.WithOp("scim.GetGroup"), api.WithContentType(api.ContentTypeSCIM))
	if err != nil {
		return nil, err
	}

	var group Group
	if err := envelope.Decode(&group); err != nil {
		return nil, fmt.Errorf("failed to decode group: %w", err)
	}
	return &group, nil
}

// CreateGroup provisions a group and returns it with the server-assigned id.
func (s *Service) CreateGroup(ctx context.Context, group Group) (*Group, error) {
	if group.DisplayName == "" {
		return nil, api.MissingField("scim.CreateGroup", "displayName")
	}

	payload := api.NewPayload().
		Force("schemas", []string{GroupSchema}).
		Force("displayName", group.DisplayName).
		Set("members", group.Members)

	envelope, err := s.client.Call(ctx, epCreateGroup, payload,
		api.WithOp("scim.CreateGroup"), api.WithContentType(api.ContentTypeSCIM))
	if err != nil {
		return nil, err
	}

	var created Group
	if err := envelope.Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created group: %w", err)
	}
	return &created, nil
}

// DeleteGroup removes a group by SCIM id. Members are not deleted.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	if id == "" {
		return api.MissingField("scim.DeleteGroup", "id")
	}
	_, err := s.client.Call(ctx, epDeleteGroup.Format(id), nil,
		api.WithOp("scim.DeleteGroup"), api.WithContentType(api.ContentTypeSCIM))
	return err
}
