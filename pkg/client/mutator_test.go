package client

import (
	"context"
	"errors"
	"testing"
)

func TestMutationOptimisticThenAuthoritative(t *testing.T) {
	cache := NewCache()
	cache.Put(TasksKey("p1"), []string{"a"})
	mutator := NewMutator(cache)

	var observedDuringCall interface{}
	result, err := mutator.Do(context.Background(), Mutation{
		Key: TasksKey("p1"),
		Projection: func(old interface{}) interface{} {
			return append(old.([]string), "pending")
		},
		Call: func(ctx context.Context) (interface{}, error) {
			observedDuringCall, _, _ = cache.Lookup(TasksKey("p1"))
			return []string{"a", "b"}, nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	during := observedDuringCall.([]string)
	if len(during) != 2 || during[1] != "pending" {
		t.Fatalf("reads during the call must see the projection, got %v", during)
	}

	committed := result.([]string)
	if len(committed) != 2 || committed[1] != "b" {
		t.Fatalf("server payload must win after settlement, got %v", committed)
	}
	if v, _, _ := cache.Lookup(TasksKey("p1")); v.([]string)[1] != "b" {
		t.Fatalf("cache must hold the authoritative value, got %v", v)
	}
}

func TestMutationRollbackRestoresExactSnapshot(t *testing.T) {
	cache := NewCache()
	cache.Put(TasksKey("p1"), []string{"a", "b"})
	mutator := NewMutator(cache)

	_, err := mutator.Do(context.Background(), Mutation{
		Key: TasksKey("p1"),
		Projection: func(old interface{}) interface{} {
			return []string{"a"}
		},
		Call: func(ctx context.Context) (interface{}, error) {
			return nil, &APIError{StatusCode: 404, Message: "task not found"}
		},
	})
	if err == nil {
		t.Fatal("expected the mutation to fail")
	}

	v, ok, fresh := cache.Lookup(TasksKey("p1"))
	if !ok {
		t.Fatal("snapshot must be restored")
	}
	restored := v.([]string)
	if len(restored) != 2 || restored[0] != "a" || restored[1] != "b" {
		t.Fatalf("expected the exact pre-mutation value, got %v", restored)
	}
	if fresh {
		t.Fatal("restored entry must be marked stale for revalidation")
	}
}

func TestMutationRollbackDropsEntryItCreated(t *testing.T) {
	cache := NewCache()
	mutator := NewMutator(cache)

	_, err := mutator.Do(context.Background(), Mutation{
		Key: TasksKey("p1"),
		Projection: func(old interface{}) interface{} {
			if old != nil {
				t.Fatalf("expected an empty key, got %v", old)
			}
			return []string{"pending"}
		},
		Call: func(ctx context.Context) (interface{}, error) {
			return nil, &APIError{StatusCode: 400, Message: "bad request"}
		},
	})
	if err == nil {
		t.Fatal("expected the mutation to fail")
	}

	if _, ok, _ := cache.Lookup(TasksKey("p1")); ok {
		t.Fatal("a key the mutation itself created must be removed on rollback")
	}
}

func TestTransientErrorRetriesExactlyOnce(t *testing.T) {
	cache := NewCache()
	mutator := NewMutator(cache)

	calls := 0
	result, err := mutator.Do(context.Background(), Mutation{
		Key:        TasksKey("p1"),
		Projection: func(old interface{}) interface{} { return "optimistic" },
		Call: func(ctx context.Context) (interface{}, error) {
			calls++
			if calls == 1 {
				return nil, &TransientError{StatusCode: 503}
			}
			return "authoritative", nil
		},
	})
	if err != nil {
		t.Fatalf("retry should have succeeded: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", calls)
	}
	if result != "authoritative" {
		t.Fatalf("expected the retry's payload, got %v", result)
	}
}

func TestTransientErrorDoesNotRetryTwice(t *testing.T) {
	cache := NewCache()
	mutator := NewMutator(cache)

	calls := 0
	_, err := mutator.Do(context.Background(), Mutation{
		Key:        TasksKey("p1"),
		Projection: func(old interface{}) interface{} { return "optimistic" },
		Call: func(ctx context.Context) (interface{}, error) {
			calls++
			return nil, &TransientError{StatusCode: 503}
		},
	})
	if err == nil {
		t.Fatal("expected the mutation to fail after the single retry")
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", calls)
	}
}

func TestAuthorizationErrorIsNeverRetried(t *testing.T) {
	cache := NewCache()
	cache.Put(TasksKey("p1"), "base")
	mutator := NewMutator(cache)

	calls := 0
	_, err := mutator.Do(context.Background(), Mutation{
		Key:        TasksKey("p1"),
		Projection: func(old interface{}) interface{} { return "optimistic" },
		Call: func(ctx context.Context) (interface{}, error) {
			calls++
			return nil, &AuthorizationError{StatusCode: 403, Message: "not a member"}
		},
	})

	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected an authorization error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("authorization failures must not be retried, got %d calls", calls)
	}
	if v, _, _ := cache.Lookup(TasksKey("p1")); v != "base" {
		t.Fatalf("expected a full rollback, got %v", v)
	}
}

func TestInterleavedMutationsRollBackIndependently(t *testing.T) {
	cache := NewCache()
	cache.Put(TasksKey("p1"), "base")
	mutator := NewMutator(cache)

	// The first mutation fails only after a second mutation has already
	// projected and settled over the same key. Its rollback must not
	// clobber the second mutation's result.
	release := make(chan struct{})
	firstDone := make(chan struct{})

	go func() {
		defer close(firstDone)
		_, _ = mutator.Do(context.Background(), Mutation{
			Key:        TasksKey("p1"),
			Projection: func(old interface{}) interface{} { return "first-optimistic" },
			Call: func(ctx context.Context) (interface{}, error) {
				<-release
				return nil, &APIError{StatusCode: 409, Message: "conflict"}
			},
		})
	}()

	// Wait for the first projection to land before starting the second.
	deadline := make(chan struct{})
	go func() {
		for {
			if v, _, _ := cache.Lookup(TasksKey("p1")); v == "first-optimistic" {
				close(deadline)
				return
			}
		}
	}()
	<-deadline

	result, err := mutator.Do(context.Background(), Mutation{
		Key:        TasksKey("p1"),
		Projection: func(old interface{}) interface{} { return "second-optimistic" },
		Call: func(ctx context.Context) (interface{}, error) {
			return "second-committed", nil
		},
	})
	if err != nil {
		t.Fatalf("second mutation failed: %v", err)
	}
	if result != "second-committed" {
		t.Fatalf("unexpected second result: %v", result)
	}

	close(release)
	<-firstDone

	if v, _, _ := cache.Lookup(TasksKey("p1")); v != "second-committed" {
		t.Fatalf("first mutation's rollback clobbered the later write: %v", v)
	}
}

func TestDependentsInvalidatedAfterSettlement(t *testing.T) {
	cache := NewCache()
	cache.Put(FocusKey("p1", "mine"), "focus")
	cache.Put(FocusKey("p1", "team"), "team-focus")
	mutator := NewMutator(cache)

	_, err := mutator.Do(context.Background(), Mutation{
		Key:        TasksKey("p1"),
		Projection: func(old interface{}) interface{} { return "optimistic" },
		Call: func(ctx context.Context) (interface{}, error) {
			return "committed", nil
		},
		Dependents: []Key{FocusKey("p1", "mine"), FocusKey("p1", "team")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []Key{FocusKey("p1", "mine"), FocusKey("p1", "team")} {
		if _, _, fresh := cache.Lookup(key); fresh {
			t.Fatalf("dependent %v should be stale after the mutation", key)
		}
	}
}
