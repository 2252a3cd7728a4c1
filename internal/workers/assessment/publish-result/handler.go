// internal/workers/assessment/publish-result/handler.go
package publishresult

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "financial-clinic-workers/internal/common/errors"
	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/observability"
)

const (
	TaskType = "publish-assessment-result"
)

// Publisher sends a JSON payload to the event topic. *aws.SNSClient
// satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, subject string, payload interface{}, attributes map[string]string) (string, error)
}

type Handler struct {
	config     *Config
	publisher  Publisher
	tracer     *observability.Tracer
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
	now        func() time.Time
}

func NewHandler(config *Config, publisher Publisher, tracer *observability.Tracer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		publisher:  publisher,
		tracer:     tracer,
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, apperrors.NewParseError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.config.Enabled || h.publisher == nil {
		h.logger.Info("event publishing disabled, skipping", map[string]interface{}{
			"assessmentId": input.AssessmentID,
		})
		return &Output{Published: false}, nil
	}

	event := Event{
		EventID:    uuid.NewString(),
		EventType:  h.config.EventType,
		OccurredAt: h.now().UTC(),
		Source:     h.config.Source,
		Data:       *input,
	}
	attrs := map[string]string{
		"eventType":  event.EventType,
		"statusBand": input.StatusBand,
	}
	if input.Variant != "" {
		attrs["variant"] = string(input.Variant)
	}

	ctx, span := h.tracer.StartSpan(ctx, observability.SpanPublish,
		attribute.String("assessment_id", input.AssessmentID),
		attribute.String("event_id", event.EventID),
	)
	defer span.End()

	messageID, err := h.publisher.PublishJSON(ctx, event.EventType, event, attrs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperrors.NewEventPublishFailedError(err)
	}

	h.logger.Info("assessment event published", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"eventId":      event.EventID,
		"messageId":    messageID,
	})

	return &Output{
		Published: true,
		MessageID: messageID,
		EventID:   event.EventID,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
