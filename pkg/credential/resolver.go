package credential

import (
	"context"
	"fmt"
	"sort"
)

// Resolver maps an opaque credential ID to its bundle.
// Implementations return an error wrapping ErrNotFound for unknown IDs.
type Resolver interface {
	Resolve(ctx context.Context, id string) (Bundle, error)
}

// Store is a Resolver that can also be written to.
type Store interface {
	Resolver
	Put(ctx context.Context, id string, b Bundle) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// Static resolves credentials from memory.
type Static map[string]Bundle

func (s Static) Resolve(ctx context.Context, id string) (Bundle, error) {
	b, ok := s[id]
	if !ok {
		return nil, notFound(id)
	}
	return b, nil
}

func (s Static) Put(ctx context.Context, id string, b Bundle) error {
	s[id] = b
	return nil
}

func (s Static) Remove(ctx context.Context, id string) error {
	if _, ok := s[id]; !ok {
		return notFound(id)
	}
	delete(s, id)
	return nil
}

func (s Static) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}
