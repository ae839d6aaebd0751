// Package advisory implements optional pre-dispatch validation sets: known
// resource ids (existing clusters, jobs, warehouses) fetched ahead of a call
// so obviously wrong input can be caught early. Lookups are advisory only —
// a fetch failure or a stale set never blocks a dispatch, and nothing in the
// dispatch path depends on this package.
package advisory

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	cache "github.com/patrickmn/go-cache"
)

// Source fetches the current set of valid ids for one resource family.
type Source func(ctx context.Context) ([]string, error)

// Registry holds named validation sets with a shared TTL. Fetched sets are
// cached so repeated validations in a command loop don't refetch per call.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	sets    *cache.Cache
	log     hclog.Logger
}

// NewRegistry returns a Registry whose cached sets expire after ttl.
func NewRegistry(ttl time.Duration, log hclog.Logger) *Registry {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Registry{
		sources: map[string]Source{},
		sets:    cache.New(ttl, 2*ttl),
		log:     log.Named("advisory"),
	}
}

// Register adds or replaces the source for a named resource family, e.g.
// "clusters".
func (r *Registry) Register(name string, src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = src
}

// Known reports whether id appears in the named validation set. When the set
// cannot be fetched the lookup degrades to known=true: an advisory check must
// never reject input the API might accept.
func (r *Registry) Known(ctx context.Context, name, id string) bool {
	set, err := r.set(ctx, name)
	if err != nil {
		r.log.Debug("validation set unavailable, skipping check", "set", name, "error", err)
		return true
	}
	return set[id]
}

// Validate checks each id against the named set and returns one aggregated
// error naming every unknown id, or nil when all ids pass (or the set is
// unavailable).
func (r *Registry) Validate(ctx context.Context, name string, ids ...string) error {
	set, err := r.set(ctx, name)
	if err != nil {
		r.log.Debug("validation set unavailable, skipping check", "set", name, "error", err)
		return nil
	}

	var result *multierror.Error
	for _, id := range ids {
		if !set[id] {
			result = multierror.Append(result,
				&UnknownIDError{Set: name, ID: id})
		}
	}
	return result.ErrorOrNil()
}

// Invalidate drops the cached set so the next lookup refetches.
func (r *Registry) Invalidate(name string) {
	r.sets.Delete(name)
}

func (r *Registry) set(ctx context.Context, name string) (map[string]bool, error) {
	if cached, ok := r.sets.Get(name); ok {
		return cached.(map[string]bool), nil
	}

	r.mu.RLock()
	src, ok := r.sources[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownSetError{Set: name}
	}

	ids, err := src(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	r.sets.SetDefault(name, set)
	return set, nil
}

// UnknownIDError reports an id absent from a fetched validation set.
type UnknownIDError struct {
	Set string
	ID  string
}

func (e *UnknownIDError) Error() string {
	return "id " + e.ID + " not found in " + e.Set + " validation set"
}

// UnknownSetError reports a lookup against a set with no registered source.
type UnknownSetError struct {
	Set string
}

func (e *UnknownSetError) Error() string {
	return "no source registered for validation set " + e.Set
}
