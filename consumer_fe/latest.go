package main

import (
	"sort"
	"sync"

	"github.com/xor-shift/mcprng/common"
)

// latestResults keeps the most recent result per batch and stream.
type latestResults struct {
	mu      sync.RWMutex
	batches map[string]map[int]common.JobResult
}

func newLatestResults() *latestResults {
	return &latestResults{batches: map[string]map[int]common.JobResult{}}
}

func (l *latestResults) Put(result common.JobResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	streams, ok := l.batches[result.BatchKey]
	if !ok {
		streams = map[int]common.JobResult{}
		l.batches[result.BatchKey] = streams
	}
	streams[result.StreamNumber] = result

	return nil
}

// Get returns the batch's results ordered by stream number.
func (l *latestResults) Get(batchKey string) ([]common.JobResult, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	streams, ok := l.batches[batchKey]
	if !ok {
		return nil, false
	}

	ret := make([]common.JobResult, 0, len(streams))
	for _, r := range streams {
		ret = append(ret, r)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].StreamNumber < ret[j].StreamNumber })

	return ret, true
}
