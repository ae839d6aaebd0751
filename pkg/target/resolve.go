package target

import "github.com/lakeport-io/lakeport-go/pkg/api"

// Spec is the sparse caller input when no explicit variant is constructed:
// each field belongs to exactly one parameter set, and only the fields of the
// intended set should be supplied.
type Spec struct {
	ClusterID      string
	JobID          string
	SQLWarehouseID string

	// Generic object addressing.
	ObjectType string
	ObjectID   string

	// Workspace item addressing.
	WorkspaceObjectType string
	WorkspaceObjectID   string
}

// Resolve picks exactly one variant from the supplied fields. When fields
// from more than one parameter set are present, the most specific set wins,
// in this fixed precedence order:
//
//	ClusterID > JobID > SQLWarehouseID > WorkspaceObjectType > ObjectType
//
// Resolution is deterministic: the same Spec always yields the same variant.
// A Spec with no recognizable parameter set fails with
// api.ErrMissingRequiredField.
func (s Spec) Resolve() (Target, error) {
	switch {
	case s.ClusterID != "":
		return Cluster{ID: s.ClusterID}, nil
	case s.JobID != "":
		return Job{ID: s.JobID}, nil
	case s.SQLWarehouseID != "":
		return SQLWarehouse{ID: s.SQLWarehouseID}, nil
	case s.WorkspaceObjectType != "":
		return WorkspaceObject{Type: s.WorkspaceObjectType, ID: s.WorkspaceObjectID}, nil
	case s.ObjectType != "":
		return Generic{Type: s.ObjectType, ID: s.ObjectID}, nil
	}
	return nil, api.MissingField("target.Resolve", "no parameter set supplied")
}
