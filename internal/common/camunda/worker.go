// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/metrics"
	"financial-clinic-workers/internal/common/observability"
)

// Job outcomes as seen by the instrumented client.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeBPMNError = "bpmn_error"
	OutcomeNone      = "none"
)

type WorkerConfig struct {
	TaskType      string
	Name          string
	MaxJobsActive int
	Timeout       time.Duration
}

type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for cfg.TaskType. Every job is counted and
// timed by outcome.
func NewWorker(client zbc.Client, cfg WorkerConfig, handler worker.JobHandler, obs *observability.Observability, log logger.Logger) *Worker {
	step := client.NewJobWorker().
		JobType(cfg.TaskType).
		Handler(Instrument(cfg.TaskType, handler, obs))

	builder := step.MaxJobsActive(cfg.MaxJobsActive)
	if cfg.Name != "" {
		builder = builder.Name(cfg.Name)
	}
	if cfg.Timeout > 0 {
		builder = builder.Timeout(cfg.Timeout)
	}

	w := &Worker{
		worker:   builder.Open(),
		logger:   log.WithFields(map[string]interface{}{"taskType": cfg.TaskType}),
		taskType: cfg.TaskType,
	}
	w.logger.Info("worker started", map[string]interface{}{
		"maxJobsActive": cfg.MaxJobsActive,
		"timeout":       cfg.Timeout.String(),
	})
	return w
}

func (w *Worker) TaskType() string { return w.taskType }

func (w *Worker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}

// Instrument wraps handler with the worker metrics. obs may be nil.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		rc := &recordingClient{JobClient: client}
		start := time.Now()
		handler(rc, job)
		elapsed := time.Since(start)

		outcome := rc.Outcome()
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if outcome == OutcomeCompleted {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		} else {
			metrics.WorkerJobsFailed.WithLabelValues(taskType, outcome).Inc()
		}
		if obs != nil {
			ctx := context.Background()
			obs.RecordJobProcessed(ctx, taskType, outcome)
			obs.RecordJobDuration(ctx, taskType, elapsed, outcome)
		}
	}
}

// recordingClient notes which terminal command a handler delivered. A
// command whose Send fails leaves the outcome unchanged.
type recordingClient struct {
	worker.JobClient

	mu      sync.Mutex
	outcome string
}

func (c *recordingClient) set(outcome string) {
	c.mu.Lock()
	c.outcome = outcome
	c.mu.Unlock()
}

func (c *recordingClient) Outcome() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == "" {
		return OutcomeNone
	}
	return c.outcome
}

func (c *recordingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return completeStep1{CompleteJobCommandStep1: c.JobClient.NewCompleteJobCommand(), rc: c}
}

func (c *recordingClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return failStep1{FailJobCommandStep1: c.JobClient.NewFailJobCommand(), rc: c}
}

func (c *recordingClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return throwStep1{ThrowErrorCommandStep1: c.JobClient.NewThrowErrorCommand(), rc: c}
}
