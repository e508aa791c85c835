package emailsend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"plana-backend/internal/common/camunda"
	"plana-backend/internal/common/config"
	"plana-backend/internal/common/errors"
	"plana-backend/internal/common/logger"
	"plana-backend/internal/common/metrics"
	"plana-backend/internal/common/validation"
	"plana-backend/internal/email"
)

const TaskType = "email.send"

// Mailer sends one email through the fallback chain.
type Mailer interface {
	SendTransactionalEmail(ctx context.Context, req email.SendRequest) email.SendResult
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	mailer       Mailer
	errorHandler *errors.ErrorHandler
	jobWorker    *camunda.Worker
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Mailer       Mailer
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for email-send: %w", err)
	}
	if opts.Mailer == nil {
		return nil, fmt.Errorf("email-send requires a mailer")
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		mailer:       opts.Mailer,
		errorHandler: errors.NewErrorHandler(loggerInstance),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	metrics.EmailJobsActive.Inc()
	defer metrics.EmailJobsActive.Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing email job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output := h.process(ctx, input)
	h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	raw := job.GetVariables()
	if raw == "" {
		raw = "{}"
	}

	result := validation.ValidateJSON(GetInputSchema(), []byte(raw))
	if !result.Valid {
		return nil, errors.NewValidationError(result.Summary())
	}

	var input Input
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return nil, errors.NewInputParsingError(err)
	}
	return &input, nil
}

// process hands the request to the chain; the chain reports every outcome
// through its result, so the job always completes.
func (h *Handler) process(ctx context.Context, input *Input) *Output {
	start := time.Now()
	result := h.mailer.SendTransactionalEmail(ctx, input.SendRequest)

	fields := map[string]interface{}{
		"bookingId": input.BookingID,
		"success":   result.Success,
		"provider":  string(result.Provider),
		"emailId":   result.ID,
		"duration":  time.Since(start).String(),
	}
	if result.Success {
		h.logger.Info("email job processed", fields)
	} else {
		fields["error"] = result.Error
		h.logger.Warn("email job processed without delivery", fields)
	}

	return &Output{
		EmailSent:     result.Success,
		EmailID:       result.ID,
		EmailProvider: string(result.Provider),
		EmailResult:   result,
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
	}
}

// Register opens the job worker subscription when the worker is enabled.
func (h *Handler) Register(client *camunda.Client) {
	if !h.config.Enabled {
		h.logger.Info("worker is disabled, skipping registration", nil)
		return
	}

	h.jobWorker = camunda.NewWorker(client.GetClient(), camunda.WorkerOptions{
		TaskType:      TaskType,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}, h, h.logger)
}

func (h *Handler) Close() {
	if h.jobWorker != nil {
		h.jobWorker.Stop()
		h.jobWorker = nil
	}
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}
