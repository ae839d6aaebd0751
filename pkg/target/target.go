// Package target implements the parameter normalizer of the Lakeport client:
// it maps a sparse set of caller inputs onto exactly one canonical resource
// path. Each supported parameter set is an explicit variant type; callers
// either construct a variant directly or hand a sparse Spec to Resolve, which
// picks the variant by a documented precedence order. Variant selection never
// inspects which fields are non-nil through reflection.
package target

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/lakeport-io/lakeport-go/pkg/api"
)

// Target is one resolved parameter set. Path returns the lowercase,
// slash-joined suffix identifying the resource, e.g.
// "clusters/0712-123003-rail519" or "authorization/tokens". Resolution is
// pure: same input, same path, no side effects.
type Target interface {
	// Path builds the path suffix for this target. It fails with
	// api.ErrMissingRequiredField when a required id is absent and with
	// api.ErrUnsupportedOperation when the resource type has no permission
	// model. No network I/O happens in either case.
	Path() (string, error)
}

// Cluster addresses a resource by cluster id.
type Cluster struct {
	ID string
}

func (t Cluster) Path() (string, error) {
	if t.ID == "" {
		return "", api.MissingField("target.Cluster", "cluster_id")
	}
	return "clusters/" + t.ID, nil
}

// Job addresses a resource by job id.
type Job struct {
	ID string
}

func (t Job) Path() (string, error) {
	if t.ID == "" {
		return "", api.MissingField("target.Job", "job_id")
	}
	return "jobs/" + t.ID, nil
}

// SQLWarehouse addresses a resource by SQL warehouse id.
type SQLWarehouse struct {
	ID string
}

func (t SQLWarehouse) Path() (string, error) {
	if t.ID == "" {
		return "", api.MissingField("target.SQLWarehouse", "warehouse_id")
	}
	return "sql/warehouses/" + t.ID, nil
}

// Generic addresses a resource by object type and id. Authorization-rooted
// types (tokens, passwords) have no per-object id: the path is built from the
// type alone and any supplied id is ignored.
type Generic struct {
	Type string
	ID   string
}

func (t Generic) Path() (string, error) {
	if t.Type == "" {
		return "", api.MissingField("target.Generic", "object_type")
	}
	token := normalizeType(t.Type)
	if isAuthorizationType(token) {
		return "authorization/" + token, nil
	}
	if t.ID == "" {
		return "", api.MissingField("target.Generic", "object_id")
	}
	return token + "/" + t.ID, nil
}

// WorkspaceObject addresses a workspace item (notebook, directory, repo) by
// type and id. Types with no permission model (libraries, files) reject the
// operation before any request is sent.
type WorkspaceObject struct {
	Type string
	ID   string
}

func (t WorkspaceObject) Path() (string, error) {
	if t.Type == "" {
		return "", api.MissingField("target.WorkspaceObject", "workspace_object_type")
	}
	token := normalizeType(t.Type)
	plural, ok := workspaceObjectTypes[token]
	if !ok {
		return "", api.Unsupported("target.WorkspaceObject",
			"workspace object type "+strings.ToUpper(token)+" has no permission model")
	}
	if t.ID == "" {
		return "", api.MissingField("target.WorkspaceObject", "workspace_object_id")
	}
	return plural + "/" + t.ID, nil
}

// normalizeType turns a caller-supplied object type ("TOKENS",
// "SqlWarehouses") into the lowercase path token the API expects
// ("tokens", "sql_warehouses").
func normalizeType(t string) string {
	return strings.ToLower(strcase.ToSnake(strings.TrimSpace(t)))
}
