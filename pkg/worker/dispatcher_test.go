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
	"errors"
	"testing"

	"github.com/Jsewill/chiaSWARM/pkg/devices"
	"github.com/Jsewill/chiaSWARM/pkg/logger"
	"github.com/Jsewill/chiaSWARM/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDispatchSubmitsResult(t *testing.T) {
	submitter := &MockResultSubmitter{}

	compute := func(_ context.Context, j models.Job, d devices.Device) (models.WorkResult, error) {
		return models.WorkResult{"id": j.ID(), "device": d.ID}, nil
	}

	dispatcher := NewDispatcher(compute, submitter, logger.NewTestLogger())

	submitter.On("SubmitResult", mock.Anything, models.WorkResult{
		"id":              "j1",
		"device":          2,
		"worker_instance": dispatcher.InstanceID(),
	}).Return(nil).Once()

	dispatcher.Dispatch(context.Background(), job(t, `{"id":"j1"}`), devices.Device{ID: 2})

	submitter.AssertExpectations(t)
}

func TestDispatchStampsWorkerInstance(t *testing.T) {
	submitter := &MockResultSubmitter{}

	// A nil result map is still submitted, carrying the identity.
	compute := func(context.Context, models.Job, devices.Device) (models.WorkResult, error) {
		return nil, nil
	}

	dispatcher := NewDispatcher(compute, submitter, logger.NewTestLogger())
	assert.NotEmpty(t, dispatcher.InstanceID())

	submitter.On("SubmitResult", mock.Anything, models.WorkResult{
		"worker_instance": dispatcher.InstanceID(),
	}).Return(nil).Once()

	dispatcher.Dispatch(context.Background(), job(t, `{"id":"j1"}`), devices.Device{ID: 0})

	submitter.AssertExpectations(t)
}

func TestDispatchContainsComputeFailure(t *testing.T) {
	submitter := &MockResultSubmitter{}

	compute := func(context.Context, models.Job, devices.Device) (models.WorkResult, error) {
		return nil, errors.New("model weights missing")
	}

	dispatcher := NewDispatcher(compute, submitter, logger.NewTestLogger())

	// Must not panic or submit anything.
	dispatcher.Dispatch(context.Background(), job(t, `{"id":"j1"}`), devices.Device{ID: 0})

	submitter.AssertNotCalled(t, "SubmitResult", mock.Anything, mock.Anything)
}

func TestDispatchContainsSubmitFailure(t *testing.T) {
	submitter := &MockResultSubmitter{}

	compute := func(_ context.Context, j models.Job, _ devices.Device) (models.WorkResult, error) {
		return models.WorkResult{"id": j.ID()}, nil
	}

	dispatcher := NewDispatcher(compute, submitter, logger.NewTestLogger())

	submitter.On("SubmitResult", mock.Anything, mock.Anything).
		Return(errors.New("connection reset")).Once()

	dispatcher.Dispatch(context.Background(), job(t, `{"id":"j1"}`), devices.Device{ID: 0})

	submitter.AssertExpectations(t)
}

func TestDispatchContainsPanic(t *testing.T) {
	submitter := &MockResultSubmitter{}

	compute := func(context.Context, models.Job, devices.Device) (models.WorkResult, error) {
		panic("driver wedged")
	}

	dispatcher := NewDispatcher(compute, submitter, logger.NewTestLogger())

	dispatcher.Dispatch(context.Background(), job(t, `{"id":"j1"}`), devices.Device{ID: 0})

	submitter.AssertNotCalled(t, "SubmitResult", mock.Anything, mock.Anything)
}
