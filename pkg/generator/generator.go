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

// Package generator is the computation side of the worker: DoWork takes
// a job descriptor and a leased device and produces a result for the
// hive. The polling core treats it as an opaque collaborator.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jsewill/chiaSWARM/pkg/devices"
	"github.com/Jsewill/chiaSWARM/pkg/models"
	"github.com/Jsewill/chiaSWARM/pkg/version"
)

var errEmptyJob = fmt.Errorf("job descriptor is empty")

// DoWork executes one job on the leased device. Model pipelines register
// themselves against the descriptor's workflow field; descriptors with no
// matching pipeline fail the job, which the dispatcher contains.
func DoWork(ctx context.Context, job models.Job, device devices.Device) (models.WorkResult, error) {
	raw := job.Raw()
	if len(raw) == 0 {
		return nil, errEmptyJob
	}

	var descriptor struct {
		ID       string `json:"id"`
		Workflow string `json:"workflow"`
	}

	if err := json.Unmarshal(raw, &descriptor); err != nil {
		return nil, fmt.Errorf("failed to decode job descriptor: %w", err)
	}

	pipeline, err := pipelineFor(descriptor.Workflow)
	if err != nil {
		return nil, err
	}

	started := time.Now()

	artifacts, err := pipeline(ctx, raw, device)
	if err != nil {
		return nil, fmt.Errorf("workflow %q failed: %w", descriptor.Workflow, err)
	}

	return models.WorkResult{
		"id":               descriptor.ID,
		"worker_version":   version.GetVersion(),
		"device_id":        device.ID,
		"duration_seconds": time.Since(started).Seconds(),
		"artifacts":        artifacts,
	}, nil
}
