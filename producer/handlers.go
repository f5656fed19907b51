package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/xor-shift/mcprng/common"
	"github.com/xor-shift/mcprng/ingest"
)

type errorResponse struct {
	Error string `json:"error"`
}

type acceptedResponse struct {
	Queued int `json:"queued"`
}

type jobQueue interface {
	NewJobs(ctx context.Context, jobs []common.JobSpec) error
}

// handleDraw runs every job in body and returns the grids in request order.
func handleDraw(body []byte) (int, interface{}) {
	specs, err := common.ParseJobSpecs(body)
	if err != nil {
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	results := make([]common.JobResult, len(specs))
	for i, spec := range specs {
		if results[i], err = ingest.Draw(spec); err != nil {
			return http.StatusBadRequest, errorResponse{Error: err.Error()}
		}
	}

	return http.StatusOK, results
}

// handleJobs queues body for the worker pool.
func handleJobs(ctx context.Context, queue jobQueue, body []byte) (int, interface{}) {
	specs, err := common.ParseJobSpecs(body)
	if err != nil {
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	if err = queue.NewJobs(ctx, specs); err != nil {
		if errors.Is(err, ingest.ErrStopped) {
			return http.StatusServiceUnavailable, errorResponse{Error: err.Error()}
		}
		return http.StatusInternalServerError, errorResponse{Error: err.Error()}
	}

	return http.StatusAccepted, acceptedResponse{Queued: len(specs)}
}
