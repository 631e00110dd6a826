package query

import "context"

// Mutation couples a write against the backend with the cache keys it makes
// stale. Mutations are never deduplicated or retried; every call reaches the
// backend exactly once.
type Mutation struct {
	// Run performs the write and returns the server's view of the result.
	Run func(ctx context.Context) (any, error)

	// Invalidates lists key prefixes to drop after a successful Run.
	Invalidates []Key

	// OnSuccess, if set, runs after invalidation with Run's result.
	OnSuccess func(result any)

	// OnError, if set, observes a failed Run. The cache is left untouched:
	// a failed write proves nothing about the cached reads.
	OnError func(err error)
}

// Mutate executes m against the cache's invariants: invalidation happens
// only on success, and before OnSuccess so any refetch the callback triggers
// sees post-mutation state.
func (c *Cache) Mutate(ctx context.Context, m Mutation) (any, error) {
	result, err := m.Run(ctx)
	if err != nil {
		c.log.Error(ctx, "mutation failed", "error", err)
		if m.OnError != nil {
			m.OnError(err)
		}
		return nil, err
	}

	for _, prefix := range m.Invalidates {
		c.Invalidate(prefix)
	}
	if m.OnSuccess != nil {
		m.OnSuccess(result)
	}
	return result, nil
}
