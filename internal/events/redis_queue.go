package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/rueidis"
)

// consumePollInterval is how long a consumer sleeps after finding the
// list empty before trying again.
const consumePollInterval = 250 * time.Millisecond

// RedisQueue persists events in a Redis list so fan-out survives a
// process restart and can be consumed by a separate worker.
type RedisQueue struct {
	client rueidis.Client
	key    string
}

func NewRedisQueue(client rueidis.Client, key string) *RedisQueue {
	return &RedisQueue{
		client: client,
		key:    key,
	}
}

func (q *RedisQueue) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	cmd := q.client.B().Rpush().Key(q.key).Element(string(payload)).Build()
	return q.client.Do(ctx, cmd).Error()
}

func (q *RedisQueue) Consume(ctx context.Context) (Event, error) {
	for {
		cmd := q.client.B().Lpop().Key(q.key).Build()
		result := q.client.Do(ctx, cmd)

		if err := result.Error(); err != nil {
			if rueidis.IsRedisNil(err) {
				select {
				case <-time.After(consumePollInterval):
					continue
				case <-ctx.Done():
					return Event{}, ctx.Err()
				}
			}
			return Event{}, err
		}

		raw, err := result.ToString()
		if err != nil {
			return Event{}, err
		}

		var ev Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return Event{}, err
		}
		return ev, nil
	}
}
