package redis

import (
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// JobIDGenerator hands out ULIDs for ingestion jobs. IDs from one
// generator sort in creation order, even within a millisecond.
type JobIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewJobIDGenerator creates a JobIDGenerator.
func NewJobIDGenerator() *JobIDGenerator {
	return &JobIDGenerator{
		entropy: ulid.DefaultEntropy(),
		now:     time.Now,
	}
}

// Generate returns a new ULID string.
func (g *JobIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}
