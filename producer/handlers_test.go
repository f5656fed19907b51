package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xor-shift/mcprng/common"
	"github.com/xor-shift/mcprng/ingest"
)

type fakeQueue struct {
	jobs [][]common.JobSpec
	err  error
}

func (q *fakeQueue) NewJobs(_ context.Context, jobs []common.JobSpec) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, jobs)
	return nil
}

func TestHandleDraw(t *testing.T) {
	body := []byte(`[
		{"batchKey": "k", "entropy": [3077179212, 600245110, 1997595095, 1459043049], "streamNumber": 2, "numRows": 1, "numColumns": 2},
		{"batchKey": "k", "entropy": [3077179212, 600245110, 1997595095, 1459043049], "streamNumber": 0, "numRows": 1, "numColumns": 1}
	]`)

	status, payload := handleDraw(body)
	require.Equal(t, http.StatusOK, status)

	results, ok := payload.([]common.JobResult)
	require.True(t, ok)
	require.Len(t, results, 2)
	assert.Equal(t, [][]float64{{0.008892279114241952, 0.9111996685712294}}, results[0].Result)
	assert.Equal(t, [][]float64{{0.26429361078319313}}, results[1].Result)
}

func TestHandleDrawBadRequest(t *testing.T) {
	status, payload := handleDraw([]byte(`[{"batchKey": ""}]`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.IsType(t, errorResponse{}, payload)
}

func TestHandleJobs(t *testing.T) {
	queue := &fakeQueue{}
	body := []byte(`[{"batchKey": "k", "seed": "s", "numRows": 1, "numColumns": 1}]`)

	status, payload := handleJobs(context.Background(), queue, body)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, acceptedResponse{Queued: 1}, payload)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "k", queue.jobs[0][0].BatchKey)

	status, _ = handleJobs(context.Background(), queue, []byte(`nope`))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = handleJobs(context.Background(), &fakeQueue{err: ingest.ErrStopped}, body)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = handleJobs(context.Background(), &fakeQueue{err: errors.New("boom")}, body)
	assert.Equal(t, http.StatusInternalServerError, status)
}
