package client

import (
	"sync"
	"time"
)

// DefaultPollInterval matches the cadence of task-scoped views.
const DefaultPollInterval = 5 * time.Second

// Poller approximates real-time collaboration without a push channel:
// a recurring timer marks a project's cache keys stale so the normal
// read path refetches lazily. Rounds run only while at least one
// consumer is subscribed to the project; an idle poller does no cache
// writes at all.
type Poller struct {
	cache    *Cache
	interval time.Duration

	mu     sync.Mutex
	active map[string]int

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func NewPoller(cache *Cache, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		cache:    cache,
		interval: interval,
		active:   make(map[string]int),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the polling loop. Calling it more than once is a no-op.
func (p *Poller) Start() {
	p.startOnce.Do(func() {
		p.mu.Lock()
		p.started = true
		p.mu.Unlock()
		go p.loop()
	})
}

// Stop tears the loop down deterministically: when it returns, no
// further rounds will run.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})

	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		<-p.doneCh
	}
}

// Subscribe registers an active consumer for a project's keys and
// returns a release function. Releasing twice is safe.
func (p *Poller) Subscribe(projectID string) func() {
	p.mu.Lock()
	p.active[projectID]++
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.active[projectID]--
			if p.active[projectID] <= 0 {
				delete(p.active, projectID)
			}
			p.mu.Unlock()
		})
	}
}

// ForceSync invalidates a project's keys immediately, bypassing the
// interval. Mutation call sites use it right after a write settles to
// shrink the window other sessions observe stale data in.
func (p *Poller) ForceSync(projectID string) {
	p.cache.Invalidate(pollKeys(projectID)...)
}

func (p *Poller) loop() {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.runRound()
		}
	}
}

// runRound invalidates the key set of every actively viewed project.
// With no subscribers the round is skipped entirely.
func (p *Poller) runRound() {
	p.mu.Lock()
	projects := make([]string, 0, len(p.active))
	for projectID, count := range p.active {
		if count > 0 {
			projects = append(projects, projectID)
		}
	}
	p.mu.Unlock()

	for _, projectID := range projects {
		p.cache.Invalidate(pollKeys(projectID)...)
	}
}
