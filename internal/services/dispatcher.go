package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"task-board-system.com/task-board-system/internal/events"
)

// Dispatcher drains the event queue with a small worker pool and hands
// each event to the fan-out engine. It runs detached from the HTTP
// request lifecycle: a fan-out failure is logged and the event dropped,
// the triggering mutation is long since committed.
type Dispatcher struct {
	queue  events.Queue
	fanout *FanoutService
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewDispatcher(queue events.Queue, fanout *FanoutService, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		queue:  queue,
		fanout: fanout,
		cancel: cancel,
	}

	for i := 1; i <= workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}

	return d
}

func (d *Dispatcher) worker(ctx context.Context, workerID int) {
	defer d.wg.Done()

	log.Printf("fanout worker %d started", workerID)

	for {
		ev, err := d.queue.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Printf("fanout worker %d stopped", workerID)
				return
			}
			log.Printf("fanout worker %d: consume failed: %v", workerID, err)
			time.Sleep(time.Second)
			continue
		}

		if err := d.fanout.Deliver(ctx, ev); err != nil {
			log.Printf("fanout worker %d: dropping %s event: %v", workerID, ev.Type, err)
		}
	}
}

func (d *Dispatcher) Shutdown(ctx context.Context) {
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("fanout dispatcher shut down cleanly")
	case <-ctx.Done():
		log.Println("fanout dispatcher shutdown timed out")
	}
}
