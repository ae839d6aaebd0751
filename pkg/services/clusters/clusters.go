// Package clusters wraps the cluster administration endpoints.
package clusters

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lakeport-io/lakeport-go/pkg/api"
)

// Endpoint descriptors for the clusters resource family.
var (
	epList      = api.Endpoint{Method: http.MethodGet, Path: "clusters/list"}
	epGet       = api.Endpoint{Method: http.MethodGet, Path: "clusters/get"}
	epStart     = api.Endpoint{Method: http.MethodPost, Path: "clusters/start"}
	epRestart   = api.Endpoint{Method: http.MethodPost, Path: "clusters/restart"}
	epTerminate = api.Endpoint{Method: http.MethodPost, Path: "clusters/delete"}
	epResize    = api.Endpoint{Method: http.MethodPost, Path: "clusters/resize"}
	epPin       = api.Endpoint{Method: http.MethodPost, Path: "clusters/pin"}
	epUnpin     = api.Endpoint{Method: http.MethodPost, Path: "clusters/unpin"}
)

// Service exposes cluster operations on one client.
type Service struct {
	client *api.Client
}

// NewService returns a cluster service backed by client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Info describes one cluster as returned by the API.
type Info struct {
	ClusterID    string            `json:"cluster_id"`
	ClusterName  string            `json:"cluster_name"`
	State        string            `json:"state"`
	StateMessage string            `json:"state_message"`
	SparkVersion string            `json:"spark_version"`
	NodeTypeID   string            `json:"node_type_id"`
	NumWorkers   int               `json:"num_workers"`
	AutoScale    *AutoScale        `json:"autoscale"`
	CreatorName  string            `json:"creator_user_name"`
	CustomTags   map[string]string `json:"custom_tags"`
	PinnedByName string            `json:"pinned_by_user_name"`
}

// AutoScale bounds a cluster's worker count.
type AutoScale struct {
	MinWorkers int `json:"min_workers"`
	MaxWorkers int `json:"max_workers"`
}

// List returns all clusters in the workspace, unwrapping the "clusters" field
// of the response envelope.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	envelope, err := s.ListRaw(ctx)
	if err != nil {
		return nil, err
	}

	var infos []Info
	if err := envelope.DecodeField("clusters", &infos); err != nil {
		return nil, fmt.Errorf("failed to decode cluster list: %w", err)
	}
	return infos, nil
}

// ListRaw returns the full list envelope without unwrapping.
func (s *Service) ListRaw(ctx context.Context) (api.Envelope, error) {
	return s.client.Call(ctx, epList, nil, api.WithOp("clusters.List"))
}

// Get retrieves a single cluster by id. Addressing a single resource returns
// the full envelope decoded as-is, not an unwrapped sub-field.
func (s *Service) Get(ctx context.Context, clusterID string) (*Info, error) {
	if clusterID == "" {
		return nil, api.MissingField("clusters.Get", "cluster_id")
	}

	payload := api.NewPayload().Force("cluster_id", clusterID)
	envelope, err := s.client.Call(ctx, epGet, payload, api.WithOp("clusters.Get"))
	if err != nil {
		return nil, err
	}

	var info Info
	if err := envelope.Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode cluster: %w", err)
	}
	return &info, nil
}

// Start starts a terminated cluster.
func (s *Service) Start(ctx context.Context, clusterID string) error {
	return s.lifecycle(ctx, epStart, "clusters.Start", clusterID)
}

// Restart restarts a running cluster.
func (s *Service) Restart(ctx context.Context, clusterID string) error {
	return s.lifecycle(ctx, epRestart, "clusters.Restart", clusterID)
}

// Terminate stops a cluster. The cluster configuration is retained and the
// cluster can be started again later.
func (s *Service) Terminate(ctx context.Context, clusterID string) error {
	return s.lifecycle(ctx, epTerminate, "clusters.Terminate", clusterID)
}

// Pin keeps the cluster configuration after termination.
func (s *Service) Pin(ctx context.Context, clusterID string) error {
	return s.lifecycle(ctx, epPin, "clusters.Pin", clusterID)
}

// Unpin removes the pin from a cluster.
func (s *Service) Unpin(ctx context.Context, clusterID string) error {
	return s.lifecycle(ctx, epUnpin, "clusters.Unpin", clusterID)
}

// UnsetWorkers marks NumWorkers as not supplied. The sentinel is -1 rather
// than 0 because zero workers (driver only) is a legitimate cluster size.
const UnsetWorkers int64 = -1

// ResizeRequest changes a cluster's size. Exactly one of NumWorkers or
// AutoScale should be supplied; set NumWorkers to UnsetWorkers when resizing
// by autoscale bounds.
type ResizeRequest struct {
	ClusterID  string
	NumWorkers int64
	AutoScale  *AutoScale
}

// Resize changes the number of workers of a running cluster.
func (s *Service) Resize(ctx context.Context, req ResizeRequest) error {
	if req.ClusterID == "" {
		return api.MissingField("clusters.Resize", "cluster_id")
	}

	payload := api.NewPayload().
		Force("cluster_id", req.ClusterID).
		SetSentinel("num_workers", req.NumWorkers, UnsetWorkers).
		Set("autoscale", req.AutoScale)

	_, err := s.client.Call(ctx, epResize, payload, api.WithOp("clusters.Resize"))
	return err
}

// IDs returns the ids of all clusters in the workspace, shaped as an advisory
// validation-set source.
func (s *Service) IDs(ctx context.Context) ([]string, error) {
	infos, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.ClusterID)
	}
	return ids, nil
}

func (s *Service) lifecycle(ctx context.Context, ep api.Endpoint, op, clusterID string) error {
	if clusterID == "" {
		return api.MissingField(op, "cluster_id")
	}
	payload := api.NewPayload().Force("cluster_id", clusterID)
	_, err := s.client.Call(ctx, ep, payload, api.WithOp(op))
	return err
}
