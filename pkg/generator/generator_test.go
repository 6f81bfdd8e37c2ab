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

package generator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Jsewill/chiaSWARM/pkg/devices"
	"github.com/Jsewill/chiaSWARM/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoWorkEcho(t *testing.T) {
	job := models.NewJob([]byte(`{"id":"j1","workflow":"echo"}`))
	device := devices.Device{ID: 1, Name: "accel-1"}

	result, err := DoWork(context.Background(), job, device)
	require.NoError(t, err)

	assert.Equal(t, "j1", result["id"])
	assert.Equal(t, 1, result["device_id"])
	assert.NotNil(t, result["artifacts"])
}

func TestDoWorkDefaultsToEcho(t *testing.T) {
	job := models.NewJob([]byte(`{"id":"j2"}`))

	result, err := DoWork(context.Background(), job, devices.Device{})
	require.NoError(t, err)
	assert.Equal(t, "j2", result["id"])
}

func TestDoWorkUnknownWorkflow(t *testing.T) {
	job := models.NewJob([]byte(`{"id":"j3","workflow":"fold-proteins"}`))

	_, err := DoWork(context.Background(), job, devices.Device{})
	require.ErrorIs(t, err, errUnknownWorkflow)
}

func TestDoWorkEmptyJob(t *testing.T) {
	_, err := DoWork(context.Background(), models.Job{}, devices.Device{})
	require.ErrorIs(t, err, errEmptyJob)
}

func TestRegisteredPipelineFailurePropagates(t *testing.T) {
	errPipeline := errors.New("sampler diverged")

	Register("failing", func(context.Context, json.RawMessage, devices.Device) (map[string]interface{}, error) {
		return nil, errPipeline
	})

	job := models.NewJob([]byte(`{"id":"j4","workflow":"failing"}`))

	_, err := DoWork(context.Background(), job, devices.Device{})
	require.ErrorIs(t, err, errPipeline)
}
