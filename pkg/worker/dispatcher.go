/*
 * Copyright 2026 the chiaSWARM Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package worker

import (
	"context"

	"github.com/Jsewill/chiaSWARM/pkg/devices"
	"github.com/Jsewill/chiaSWARM/pkg/logger"
	"github.com/Jsewill/chiaSWARM/pkg/models"
	"github.com/google/uuid"
)

// ComputeFunc is the external computation collaborator. It may take
// arbitrarily long and must not be assumed side-effect-free on failure.
type ComputeFunc func(ctx context.Context, job models.Job, device devices.Device) (models.WorkResult, error)

// ResultSubmitter posts one job result to the hive.
type ResultSubmitter interface {
	SubmitResult(ctx context.Context, result models.WorkResult) error
}

// Dispatcher runs one job on a leased device and submits the result.
// Every failure is contained here: a failing job must not abort the
// device's iteration, touch sibling jobs, or crash the process.
type Dispatcher struct {
	compute    ComputeFunc
	hive       ResultSubmitter
	logger     logger.Logger
	instanceID string
}

// NewDispatcher creates a dispatcher around the computation collaborator
// and the hive's results endpoint. Every result it submits is stamped
// with a fresh per-process instance identity.
func NewDispatcher(compute ComputeFunc, hive ResultSubmitter, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		compute:    compute,
		hive:       hive,
		logger:     log,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies this worker process in logs and submitted results.
func (d *Dispatcher) InstanceID() string {
	return d.instanceID
}

// Dispatch processes one job on the leased device.
func (d *Dispatcher) Dispatch(ctx context.Context, job models.Job, device devices.Device) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Int("device_id", device.ID).
				Str("job_id", job.ID()).
				Interface("panic", r).
				Msg("Computation panicked while processing job")
		}
	}()

	d.logger.Info().Int("device_id", device.ID).Str("job_id", job.ID()).Msg("Device got work")

	result, err := d.compute(ctx, job, device)
	if err != nil {
		d.logger.Error().Err(err).
			Int("device_id", device.ID).
			Str("job_id", job.ID()).
			Msg("Computation failed for job")

		return
	}

	if result == nil {
		result = models.WorkResult{}
	}

	result["worker_instance"] = d.instanceID

	if err := d.hive.SubmitResult(ctx, result); err != nil {
		d.logger.Error().Err(err).
			Int("device_id", device.ID).
			Str("job_id", job.ID()).
			Msg("Failed to submit job result")
	}
}
