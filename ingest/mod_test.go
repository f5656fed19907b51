package ingest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xor-shift/mcprng/common"
)

var testEntropy = []uint32{0xb76a074c, 0x23c70376, 0x7710e1d7, 0x56f73ae9}

type fakePublisher struct {
	mu      sync.Mutex
	results []common.JobResult
	err     error
}

func (p *fakePublisher) Publish(result common.JobResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.results = append(p.results, result)
	return p.err
}

func TestDrawPCG(t *testing.T) {
	result, err := Draw(common.JobSpec{
		BatchKey:     "b",
		Entropy:      testEntropy,
		StreamNumber: 1,
		NumRows:      1,
		NumColumns:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, "pcg64dxsm", result.Generator)
	assert.Equal(t, "b76a074c23c703767710e1d756f73ae9", result.SeedWords)
	assert.Equal(t, [][]float64{{0.6510289522336302, 0.2841071237762609}}, result.Result)
}

func TestDrawStreamBound(t *testing.T) {
	for _, generator := range []string{"pcg64dxsm", "xoshiro256pp"} {
		_, err := Draw(common.JobSpec{
			BatchKey:     "b",
			Seed:         "s",
			Generator:    generator,
			StreamNumber: common.MaxStreamNumber + 1,
			NumRows:      1,
			NumColumns:   1,
		})
		assert.ErrorIs(t, err, common.ErrInvalidJob, generator)
	}
}

func TestDrawXoshiro(t *testing.T) {
	result, err := Draw(common.JobSpec{
		BatchKey:   "b",
		Entropy:    testEntropy,
		Generator:  "xoshiro256pp",
		NumRows:    2,
		NumColumns: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{0.9435857481108928}, {0.8419844143012823}}, result.Result)
}

func TestDrawInvalid(t *testing.T) {
	result, err := Draw(common.JobSpec{BatchKey: "b", Seed: "x", NumRows: 0, NumColumns: 1})
	assert.ErrorIs(t, err, common.ErrInvalidJob)
	assert.Equal(t, "b", result.BatchKey)
	assert.Nil(t, result.Result)
}

func TestIngestPublishesEveryJob(t *testing.T) {
	publisher := &fakePublisher{}
	in := NewIngester(publisher, zerolog.Nop())
	in.Start(3)

	for stream := 0; stream < 4; stream++ {
		require.NoError(t, in.NewJobs(context.Background(), []common.JobSpec{
			{BatchKey: "ok", Seed: "seed", StreamNumber: stream, NumRows: 2, NumColumns: 2},
			{BatchKey: "bad", Seed: "seed", StreamNumber: stream, NumRows: 0, NumColumns: 2},
		}))
	}

	in.Stop()

	require.Len(t, publisher.results, 8)
	assert.Equal(t, Stats{Processed: 4, Failed: 4}, in.Stats())

	var okStreams []int
	for _, r := range publisher.results {
		if r.BatchKey == "ok" {
			assert.Empty(t, r.Error)
			assert.Len(t, r.Result, 2)
			okStreams = append(okStreams, r.StreamNumber)
		} else {
			assert.NotEmpty(t, r.Error)
		}
	}
	sort.Ints(okStreams)
	assert.Equal(t, []int{0, 1, 2, 3}, okStreams)
}

func TestIngestStreamsAreIndependentOfWorkers(t *testing.T) {
	spec := common.JobSpec{BatchKey: "k", Seed: "seed", Generator: "xoshiro256pp", StreamNumber: 2, NumRows: 1, NumColumns: 3}

	direct, err := Draw(spec)
	require.NoError(t, err)

	publisher := &fakePublisher{}
	in := NewIngester(publisher, zerolog.Nop())
	in.Start(2)
	require.NoError(t, in.NewJobs(context.Background(), []common.JobSpec{spec}))
	in.Stop()

	require.Len(t, publisher.results, 1)
	assert.Equal(t, direct, publisher.results[0])
}

func TestIngestStopped(t *testing.T) {
	in := NewIngester(&fakePublisher{}, zerolog.Nop())
	in.Start(1)
	in.Stop()
	in.Stop()

	err := in.NewJobs(context.Background(), nil)
	assert.ErrorIs(t, err, ErrStopped)
}

func TestIngestNewJobsContext(t *testing.T) {
	in := NewIngester(&fakePublisher{}, zerolog.Nop())

	// no workers: fill the queue, then the next send must give up
	for i := 0; i < cap(in.incomingJobs); i++ {
		require.NoError(t, in.NewJobs(context.Background(), nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, in.NewJobs(ctx, nil), context.Canceled)
}

func TestProcessJobBatchPublishError(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	in := NewIngester(publisher, zerolog.Nop())

	err := in.processJobBatch([]common.JobSpec{
		{BatchKey: "a", Seed: "s", NumRows: 1, NumColumns: 1},
		{BatchKey: "b", Seed: "s", NumRows: 1, NumColumns: 1},
	})
	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, publisher.results, 2)
}
