package client

import (
	"testing"
	"time"
)

func seedProjectKeys(cache *Cache, projectID string) {
	for _, key := range pollKeys(projectID) {
		cache.Put(key, "cached")
	}
}

func assertAllFresh(t *testing.T, cache *Cache, projectID string) {
	t.Helper()
	for _, key := range pollKeys(projectID) {
		if _, _, fresh := cache.Lookup(key); !fresh {
			t.Fatalf("key %v/%v should still be fresh", key.Kind, key.Scope)
		}
	}
}

func assertAllStale(t *testing.T, cache *Cache, projectID string) {
	t.Helper()
	for _, key := range pollKeys(projectID) {
		if _, _, fresh := cache.Lookup(key); fresh {
			t.Fatalf("key %v/%v should be stale", key.Kind, key.Scope)
		}
	}
}

func TestIdleRoundsTouchNothing(t *testing.T) {
	cache := NewCache()
	seedProjectKeys(cache, "p1")
	poller := NewPoller(cache, time.Hour)

	for i := 0; i < 5; i++ {
		poller.runRound()
	}

	assertAllFresh(t, cache, "p1")
}

func TestRoundInvalidatesSubscribedProjectsOnly(t *testing.T) {
	cache := NewCache()
	seedProjectKeys(cache, "p1")
	seedProjectKeys(cache, "p2")
	poller := NewPoller(cache, time.Hour)

	release := poller.Subscribe("p1")
	defer release()

	poller.runRound()

	assertAllStale(t, cache, "p1")
	assertAllFresh(t, cache, "p2")
}

func TestReleaseStopsInvalidation(t *testing.T) {
	cache := NewCache()
	poller := NewPoller(cache, time.Hour)

	release := poller.Subscribe("p1")
	release()
	release() // double release is safe

	seedProjectKeys(cache, "p1")
	poller.runRound()

	assertAllFresh(t, cache, "p1")
}

func TestRefcountedSubscriptions(t *testing.T) {
	cache := NewCache()
	poller := NewPoller(cache, time.Hour)

	releaseA := poller.Subscribe("p1")
	releaseB := poller.Subscribe("p1")
	releaseA()

	seedProjectKeys(cache, "p1")
	poller.runRound()
	assertAllStale(t, cache, "p1")

	releaseB()
	seedProjectKeys(cache, "p1")
	poller.runRound()
	assertAllFresh(t, cache, "p1")
}

func TestForceSyncBypassesInterval(t *testing.T) {
	cache := NewCache()
	seedProjectKeys(cache, "p1")
	poller := NewPoller(cache, time.Hour)

	poller.ForceSync("p1")

	assertAllStale(t, cache, "p1")
}

func TestStopIsDeterministic(t *testing.T) {
	cache := NewCache()
	poller := NewPoller(cache, time.Millisecond)
	poller.Start()
	poller.Subscribe("p1")

	poller.Stop()

	// No round may run after Stop returns.
	seedProjectKeys(cache, "p1")
	time.Sleep(20 * time.Millisecond)
	assertAllFresh(t, cache, "p1")
}

func TestStopWithoutStartDoesNotBlock(t *testing.T) {
	poller := NewPoller(NewCache(), time.Hour)

	done := make(chan struct{})
	go func() {
		poller.Stop()
		poller.Stop() // idempotent
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a poller that never started")
	}
}
