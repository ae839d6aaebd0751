package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_DecodeField(t *testing.T) {
	var envelope Envelope
	err := json.Unmarshal([]byte(`{
		"clusters": [
			{"cluster_id": "0712-123003-rail519", "cluster_name": "etl", "num_workers": 4},
			{"cluster_id": "0831-211403-brim742", "cluster_name": "adhoc", "num_workers": 0}
		],
		"has_more": false
	}`), &envelope)
	require.NoError(t, err)

	type cluster struct {
		ClusterID   string `json:"cluster_id"`
		ClusterName string `json:"cluster_name"`
		NumWorkers  int    `json:"num_workers"`
	}

	var clusters []cluster
	require.NoError(t, envelope.DecodeField("clusters", &clusters))
	require.Len(t, clusters, 2)
	assert.Equal(t, "0712-123003-rail519", clusters[0].ClusterID)
	assert.Equal(t, 4, clusters[0].NumWorkers)
	assert.Equal(t, "adhoc", clusters[1].ClusterName)
}

func TestEnvelope_DecodeFieldMissing(t *testing.T) {
	// The API omits empty list fields entirely; decoding them yields the
	// zero value rather than an error.
	envelope := Envelope{}

	var items []string
	require.NoError(t, envelope.DecodeField("jobs", &items))
	assert.Nil(t, items)
}

func TestEnvelope_Decode(t *testing.T) {
	envelope := Envelope{
		"cluster_id": "0712-123003-rail519",
		"state":      "RUNNING",
	}

	var out struct {
		ClusterID string `json:"cluster_id"`
		State     string `json:"state"`
	}
	require.NoError(t, envelope.Decode(&out))
	assert.Equal(t, "0712-123003-rail519", out.ClusterID)
	assert.Equal(t, "RUNNING", out.State)
}

func TestEnvelope_Field(t *testing.T) {
	envelope := Envelope{"has_more": true}

	v, ok := envelope.Field("has_more")
	assert.True(t, ok)
	assert.Equal(t, true, v)

	_, ok = envelope.Field("absent")
	assert.False(t, ok)
}
