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

// JobStore implements usecase.JobStore with one JSON value per job.
type JobStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewJobStore creates a JobStore whose entries expire after ttl.
func NewJobStore(client *redis.Client, keyspace string, ttl time.Duration) *JobStore {
	return &JobStore{
		client: client,
		prefix: keyspace + "job:",
		ttl:    ttl,
	}
}

// Save writes the job and refreshes its expiry.
func (s *JobStore) Save(ctx context.Context, job *domain.IngestJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	return s.client.Set(ctx, s.prefix+job.ID, payload, s.ttl).Err()
}

// Get loads a job by ID.
func (s *JobStore) Get(ctx context.Context, id string) (*domain.IngestJob, error) {
	payload, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}

	var job domain.IngestJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}

	return &job, nil
}
