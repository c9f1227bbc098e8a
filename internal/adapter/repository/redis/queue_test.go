package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditapproval/internal/domain"
)

func TestJobQueue_FIFO(t *testing.T) {
	client, _ := newTestRedisClient(t)

	queue := NewJobQueue(client, testKeyspace, "ingest")
	ctx := context.Background()

	for _, id := range []string{"first", "second"} {
		require.NoError(t, queue.Enqueue(ctx, &domain.IngestJob{ID: id, Kind: domain.IngestKindAll, Status: domain.JobStatusQueued}))
	}

	n, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	job, err := queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "first", job.ID)
	assert.Equal(t, domain.IngestKindAll, job.Kind)

	job, err = queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "second", job.ID)
}

func TestJobQueue_DequeueEmpty(t *testing.T) {
	client, _ := newTestRedisClient(t)

	queue := NewJobQueue(client, testKeyspace, "ingest")

	job, err := queue.Dequeue(context.Background(), 100*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestJobQueue_DequeueGarbage(t *testing.T) {
	client, mr := newTestRedisClient(t)

	queue := NewJobQueue(client, testKeyspace, "ingest")
	_, err := mr.Lpush(testKeyspace+"queue:ingest", "not json")
	require.NoError(t, err)

	_, err = queue.Dequeue(context.Background(), time.Second)
	assert.Error(t, err)
}

func TestJobStore_SaveAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewJobStore(client, testKeyspace, time.Hour)
	ctx := context.Background()

	created := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	job := &domain.IngestJob{
		ID:        "01JOB",
		Kind:      domain.IngestKindLoans,
		Status:    domain.JobStatusSucceeded,
		Loans:     12,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, store.Save(ctx, job))

	got, err := store.Get(ctx, "01JOB")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Loans)
	assert.Equal(t, domain.JobStatusSucceeded, got.Status)
	assert.True(t, got.CreatedAt.Equal(created))

	assert.Equal(t, time.Hour, mr.TTL(testKeyspace+"job:01JOB"))

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, "01JOB")
	assert.True(t, errors.Is(err, domain.ErrJobNotFound), "got %v", err)
}

func TestJobIDGenerator(t *testing.T) {
	gen := NewJobIDGenerator()
	fixed := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return fixed }

	first := gen.Generate()
	second := gen.Generate()

	a, err := ulid.Parse(first)
	require.NoError(t, err)
	b, err := ulid.Parse(second)
	require.NoError(t, err)

	assert.Equal(t, ulid.Timestamp(fixed), a.Time())
	assert.Less(t, first, second)
	assert.Equal(t, -1, a.Compare(b))
}
