package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/creditapproval/internal/domain"
)

// JobQueue implements usecase.JobQueue as a FIFO Redis list.
type JobQueue struct {
	client *redis.Client
	key    string
}

// NewJobQueue creates a queue stored at keyspace+"queue:"+name.
func NewJobQueue(client *redis.Client, keyspace, name string) *JobQueue {
	return &JobQueue{
		client: client,
		key:    keyspace + "queue:" + name,
	}
}

// Enqueue appends job to the tail of the queue.
func (q *JobQueue) Enqueue(ctx context.Context, job *domain.IngestJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	return q.client.LPush(ctx, q.key, payload).Err()
}

// Dequeue pops the oldest job, waiting up to timeout. It returns nil, nil
// when the queue stayed empty.
func (q *JobQueue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.IngestJob, error) {
	result, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	// BRPOP replies with [key, value].
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d elements", len(result))
	}

	var job domain.IngestJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}

	return &job, nil
}

// Len returns the number of waiting jobs.
func (q *JobQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
