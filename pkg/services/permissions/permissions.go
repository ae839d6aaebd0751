// Package permissions wraps the permission administration endpoints. Targets
// are resolved through the target package, so one set of operations covers
// clusters, jobs, SQL warehouses, workspace objects and authorization
// resources alike.
package permissions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lakeport-io/lakeport-go/pkg/api"
	"github.com/lakeport-io/lakeport-go/pkg/target"
)

// Service exposes permission operations on one client.
type Service struct {
	client *api.Client
}

// NewService returns a permission service backed by client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// AccessControlEntry is one grant as returned by the API.
type AccessControlEntry struct {
	UserName             string       `json:"user_name"`
	GroupName            string       `json:"group_name"`
	ServicePrincipalName string       `json:"service_principal_name"`
	AllPermissions       []Permission `json:"all_permissions"`
}

// Permission is one permission level within an entry, possibly inherited from
// a parent object.
type Permission struct {
	PermissionLevel     string   `json:"permission_level"`
	Inherited           bool     `json:"inherited"`
	InheritedFromObject []string `json:"inherited_from_object"`
}

// AccessControlRequest is one grant to apply. Exactly one principal field
// should be set; empty principal fields are omitted from the request.
type AccessControlRequest struct {
	UserName             string `json:"user_name,omitempty"`
	GroupName            string `json:"group_name,omitempty"`
	ServicePrincipalName string `json:"service_principal_name,omitempty"`
	PermissionLevel      string `json:"permission_level"`
}

// Get returns the access control list of a target, unwrapping the
// "access_control_list" field. Normalizer failures (missing id, unsupported
// type) surface before any request is sent.
func (s *Service) Get(ctx context.Context, t target.Target) ([]AccessControlEntry, error) {
	envelope, err := s.GetRaw(ctx, t)
	if err != nil {
		return nil, err
	}

	var entries []AccessControlEntry
	if err := envelope.DecodeField("access_control_list", &entries); err != nil {
		return nil, fmt.Errorf("failed to decode access control list: %w", err)
	}
	return entries, nil
}

// GetRaw returns the full permissions envelope without unwrapping, including
// the object id and type fields.
func (s *Service) GetRaw(ctx context.Context, t target.Target) (api.Envelope, error) {
	suffix, err := t.Path()
	if err != nil {
		return nil, err
	}

	ep := api.Endpoint{Method: http.MethodGet, Path: "permissions/" + suffix}
	return s.client.Call(ctx, ep, nil, api.WithOp("permissions.Get"))
}

// Set replaces the full access control list of a target. Grants absent from
// entries are revoked.
func (s *Service) Set(ctx context.Context, t target.Target, entries []AccessControlRequest) error {
	return s.write(ctx, http.MethodPut, "permissions.Set", t, entries)
}

// Update adds or modifies grants on a target without touching other entries.
func (s *Service) Update(ctx context.Context, t target.Target, entries []AccessControlRequest) error {
	return s.write(ctx, http.MethodPatch, "permissions.Update", t, entries)
}

// Levels returns the permission levels a target's type supports, unwrapping
// the "permission_levels" field.
func (s *Service) Levels(ctx context.Context, t target.Target) ([]PermissionLevel, error) {
	suffix, err := t.Path()
	if err != nil {
		return nil, err
	}

	ep := api.Endpoint{Method: http.MethodGet, Path: "permissions/" + suffix + "/levels"}
	envelope, err := s.client.Call(ctx, ep, nil, api.WithOp("permissions.Levels"))
	if err != nil {
		return nil, err
	}

	var levels []PermissionLevel
	if err := envelope.DecodeField("permission_levels", &levels); err != nil {
		return nil, fmt.Errorf("failed to decode permission levels: %w", err)
	}
	return levels, nil
}

// PermissionLevel describes one level a resource type supports.
type PermissionLevel struct {
	PermissionLevel string `json:"permission_level"`
	Description     string `json:"description"`
}

func (s *Service) write(ctx context.Context, method, op string, t target.Target, entries []AccessControlRequest) error {
	suffix, err := t.Path()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return api.MissingField(op, "access_control_list")
	}

	// The list is the whole point of the call, so it is written
	// unconditionally even though it can never be empty here.
	payload := api.NewPayload().Force("access_control_list", entries)

	ep := api.Endpoint{Method: method, Path: "permissions/" + suffix}
	_, err = s.client.Call(ctx, ep, payload, api.WithOp(op))
	return err
}
