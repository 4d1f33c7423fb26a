// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"career-guide/internal/common/config"
	"career-guide/internal/common/errors"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/metrics"
	"career-guide/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every worker package.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// RegisterJob opens a job worker for taskType. It returns nil when the worker
// is disabled in configuration.
func RegisterJob(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	w := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return w
}

// Executor runs one operation on decoded job variables.
type Executor[I any, O any] func(ctx context.Context, input *I) (*O, error)

// RunJob decodes variables into I, validates them against schema when one is
// given and runs exec.
func RunJob[I any, O any](ctx context.Context, variables string, schema *validation.JSONSchema, exec Executor[I, O]) (*O, error) {
	if schema != nil {
		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(variables), &raw); err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("parse input: %v", err))
		}
		if result := validation.ValidateInput(raw, *schema); !result.Valid {
			return nil, errors.NewValidationError(strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	var input I
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("parse input: %v", err))
	}
	return exec(ctx, &input)
}

// HandleJob runs exec for job and completes it with the output, or fails it
// with BPMN retry semantics.
func HandleJob[I any, O any](client worker.JobClient, job entities.Job, taskType string, timeout time.Duration, schema *validation.JSONSchema, exec Executor[I, O], log logger.Logger) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

	log.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	output, err := RunJob(ctx, job.Variables, schema, exec)
	metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	if err != nil {
		stdErr := errors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(taskType, string(stdErr.Code)).Inc()
		errors.NewErrorHandler(log).HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	log.Info("job completed successfully", map[string]interface{}{"jobKey": job.Key})
}
