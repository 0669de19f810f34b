package client

import (
	"context"
	"errors"
)

// Mutation describes one optimistic write: a local projection applied
// to the cache before the network call, the call itself, and how to
// fold the server's authoritative payload back in.
type Mutation struct {
	Key Key

	// Projection computes the optimistic next state from the current
	// cached value (nil when the key is empty). It must be pure.
	Projection func(old interface{}) interface{}

	// Call performs the write. Its result, if non-nil, is the server's
	// authoritative payload.
	Call func(ctx context.Context) (interface{}, error)

	// Merge folds the authoritative payload over the optimistic value.
	// Nil means the payload replaces the cached value wholesale; a nil
	// payload (e.g. a 204 delete) commits the optimistic value as is.
	Merge func(optimistic, authoritative interface{}) interface{}

	// Dependents are additional keys to revalidate after settlement.
	Dependents []Key
}

// Mutator applies optimistic mutations with rollback against one cache.
type Mutator struct {
	cache *Cache
}

func NewMutator(cache *Cache) *Mutator {
	return &Mutator{cache: cache}
}

// Do applies the mutation. Between the optimistic write and settlement
// every read of the key observes the projected value; on failure the
// exact pre-mutation snapshot is restored, unless a later mutation has
// already written over the projection. Either way the key and its
// dependents are marked for revalidation.
func (m *Mutator) Do(ctx context.Context, mut Mutation) (interface{}, error) {
	snapshot, existed := m.cache.snapshot(mut.Key)

	optimistic := mut.Projection(snapshot)
	generation := m.cache.Put(mut.Key, optimistic)

	defer m.cache.Invalidate(append([]Key{mut.Key}, mut.Dependents...)...)

	authoritative, err := m.call(ctx, mut)
	if err != nil {
		if existed {
			m.cache.restoreIfUnchanged(mut.Key, snapshot, generation)
		} else {
			m.cache.dropIfUnchanged(mut.Key, generation)
		}
		return nil, err
	}

	// Server wins on every field it returns.
	committed := optimistic
	if authoritative != nil {
		if mut.Merge != nil {
			current, _, _ := m.cache.Lookup(mut.Key)
			committed = mut.Merge(current, authoritative)
		} else {
			committed = authoritative
		}
		m.cache.Put(mut.Key, committed)
	}

	return committed, nil
}

// call runs the server call with the retry policy: authorization
// failures are never retried, transient failures exactly once, and
// anything else not at all.
func (m *Mutator) call(ctx context.Context, mut Mutation) (interface{}, error) {
	result, err := mut.Call(ctx)
	if err == nil {
		return result, nil
	}

	var transient *TransientError
	if !errors.As(err, &transient) {
		return nil, err
	}

	return mut.Call(ctx)
}
