// Package warehouses wraps the SQL warehouse administration endpoints.
package warehouses

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lakeport-io/lakeport-go/pkg/api"
)

var (
	epList  = api.Endpoint{Method: http.MethodGet, Path: "sql/warehouses"}
	epGet   = api.Endpoint{Method: http.MethodGet, Path: "sql/warehouses/%s"}
	epStart = api.Endpoint{Method: http.MethodPost, Path: "sql/warehouses/%s/start"}
	epStop  = api.Endpoint{Method: http.MethodPost, Path: "sql/warehouses/%s/stop"}
	epEdit  = api.Endpoint{Method: http.MethodPost, Path: "sql/warehouses/%s/edit"}
)

// Service exposes SQL warehouse operations on one client.
type Service struct {
	client *api.Client
}

// NewService returns a warehouse service backed by client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Warehouse describes one SQL warehouse as returned by the API.
type Warehouse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ClusterSize    string `json:"cluster_size"`
	MinNumClusters int64  `json:"min_num_clusters"`
	MaxNumClusters int64  `json:"max_num_clusters"`
	AutoStopMins   int64  `json:"auto_stop_mins"`
	State          string `json:"state"`
	CreatorName    string `json:"creator_name"`
}

// List returns all warehouses in the workspace, unwrapping the "warehouses"
// field of the response envelope.
func (s *Service) List(ctx context.Context) ([]Warehouse, error) {
	envelope, err := s.ListRaw(ctx)
	if err != nil {
		return nil, err
	}

	var warehouses []Warehouse
	if err := envelope.DecodeField("warehouses", &warehouses); err != nil {
		return nil, fmt.Errorf("failed to decode warehouse list: %w", err)
	}
	return warehouses, nil
}

// ListRaw returns the full list envelope without unwrapping.
func (s *Service) ListRaw(ctx context.Context) (api.Envelope, error) {
	return s.client.Call(ctx, epList, nil, api.WithOp("warehouses.List"))
}

// Get retrieves a single warehouse by id, returning the envelope decoded
// as-is.
func (s *Service) Get(ctx context.Context, id string) (*Warehouse, error) {
	if id == "" {
		return nil, api.MissingField("warehouses.Get", "id")
	}

	envelope, err := s.client.Call(ctx, epGet.Format(id), nil, api.WithOp("warehouses.Get"))
	if err != nil {
		return nil, err
	}

	var warehouse Warehouse
	if err := envelope.Decode(&warehouse); err != nil {
		return nil, fmt.Errorf("failed to decode warehouse: %w", err)
	}
	return &warehouse, nil
}

// Start starts a stopped warehouse.
func (s *Service) Start(ctx context.Context, id string) error {
	return s.lifecycle(ctx, epStart, "warehouses.Start", id)
}

// Stop stops a running warehouse.
func (s *Service) Stop(ctx context.Context, id string) error {
	return s.lifecycle(ctx, epStop, "warehouses.Stop", id)
}

// EditRequest changes a warehouse's configuration. Zero-valued fields are
// omitted; AutoStopMins uses -1 as the "not supplied" sentinel because zero
// is the legitimate value meaning "never auto-stop".
type EditRequest struct {
	ID             string
	Name           string
	ClusterSize    string
	MinNumClusters int64
	MaxNumClusters int64
	AutoStopMins   int64
}

// NewEditRequest returns an EditRequest for id with AutoStopMins marked
// unset.
func NewEditRequest(id string) EditRequest {
	return EditRequest{ID: id, AutoStopMins: -1}
}

// Edit applies the non-empty fields of req to a warehouse.
func (s *Service) Edit(ctx context.Context, req EditRequest) error {
	if req.ID == "" {
		return api.MissingField("warehouses.Edit", "id")
	}

	payload := api.NewPayload().
		Set("name", req.Name).
		Set("cluster_size", req.ClusterSize).
		SetSentinel("min_num_clusters", req.MinNumClusters, 0).
		SetSentinel("max_num_clusters", req.MaxNumClusters, 0).
		SetSentinel("auto_stop_mins", req.AutoStopMins, -1)

	_, err := s.client.Call(ctx, epEdit.Format(req.ID), payload, api.WithOp("warehouses.Edit"))
	return err
}

// IDs returns the ids of all warehouses, shaped as an advisory validation-set
// source.
func (s *Service) IDs(ctx context.Context) ([]string, error) {
	warehouses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(warehouses))
	for _, w := range warehouses {
		ids = append(ids, w.ID)
	}
	return ids, nil
}

func (s *Service) lifecycle(ctx context.Context, ep api.Endpoint, op, id string) error {
	if id == "" {
		return api.MissingField(op, "id")
	}
	_, err := s.client.Call(ctx, ep.Format(id), nil, api.WithOp(op))
	return err
}
