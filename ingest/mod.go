package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/xor-shift/mcprng/common"
	"github.com/xor-shift/mcprng/util/rng"
)

var ErrStopped = errors.New("ingester is stopped")

type Publisher interface {
	Publish(result common.JobResult) error
}

// Draw runs a single job synchronously.
func Draw(spec common.JobSpec) (common.JobResult, error) {
	result := common.JobResult{
		BatchKey:     spec.BatchKey,
		StreamNumber: spec.StreamNumber,
		Generator:    spec.Generator,
		SeedWords:    spec.SeedWords(),
	}

	if err := spec.Validate(); err != nil {
		return result, err
	}

	kind, err := rng.ParseKind(spec.Generator)
	if err != nil {
		return result, err
	}
	result.Generator = string(kind)

	seq, err := spec.SeedSequence()
	if err != nil {
		return result, err
	}

	bits, err := rng.NewStream(kind, seq, spec.StreamNumber)
	if err != nil {
		return result, err
	}

	result.Result = rng.NewDistributions(bits).Fill(spec.NumRows, spec.NumColumns)

	return result, nil
}

type Stats struct {
	Processed uint64
	Failed    uint64
}

// Ingest draws queued job batches on a pool of workers and publishes every
// result, failed jobs included.
type Ingest struct {
	publisher Publisher
	log       zerolog.Logger

	mu      sync.RWMutex
	stopped bool

	processed atomic.Uint64
	failed    atomic.Uint64

	jobProcessorWG *sync.WaitGroup
	incomingJobs   chan []common.JobSpec
}

func NewIngester(publisher Publisher, logger zerolog.Logger) *Ingest {
	return &Ingest{
		publisher: publisher,
		log:       logger,

		jobProcessorWG: &sync.WaitGroup{},
		incomingJobs:   make(chan []common.JobSpec, 128),
	}
}

// NewJobs queues a batch, blocking while the queue is full.
func (ingest *Ingest) NewJobs(ctx context.Context, jobs []common.JobSpec) error {
	ingest.mu.RLock()
	defer ingest.mu.RUnlock()

	if ingest.stopped {
		return ErrStopped
	}

	select {
	case ingest.incomingJobs <- jobs:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start starts a certain number of worker goroutines for incoming job batches.
// Results of different batches are published in no particular order when
// `numThreads` is greater than 1.
func (ingest *Ingest) Start(numThreads uint) {
	ingest.jobProcessorWG.Add(int(numThreads))

	for i := uint(0); i < numThreads; i++ {
		go ingest.task(i)
	}
}

// Stop drains the queue and waits for the workers to finish.
func (ingest *Ingest) Stop() {
	ingest.mu.Lock()
	if !ingest.stopped {
		ingest.stopped = true
		close(ingest.incomingJobs)
	}
	ingest.mu.Unlock()

	ingest.jobProcessorWG.Wait()
}

func (ingest *Ingest) Stats() Stats {
	return Stats{
		Processed: ingest.processed.Load(),
		Failed:    ingest.failed.Load(),
	}
}

func (ingest *Ingest) processJobBatch(batch []common.JobSpec) error {
	ingest.log.Debug().Int("jobs", len(batch)).Msg("new batch")

	var errs []error

	for _, spec := range batch {
		result, err := Draw(spec)
		if err != nil {
			ingest.failed.Add(1)
			result.Error = err.Error()
			ingest.log.Warn().Err(err).Str("batch", spec.BatchKey).Int("stream", spec.StreamNumber).Msg("job failed")
		} else {
			ingest.processed.Add(1)
		}

		if err = ingest.publisher.Publish(result); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (ingest *Ingest) task(worker uint) {
	defer ingest.jobProcessorWG.Done()

	log := ingest.log.With().Uint("worker", worker).Logger()

	for batch := range ingest.incomingJobs {
		if err := ingest.processJobBatch(batch); err != nil {
			log.Error().Err(err).Int("jobs", len(batch)).Msg("error while publishing a batch")
		}
	}
}
