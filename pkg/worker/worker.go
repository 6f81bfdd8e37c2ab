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

// Package worker runs the adaptive work-polling loops over the node's
// device lease pool.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/Jsewill/chiaSWARM/pkg/devices"
	"github.com/Jsewill/chiaSWARM/pkg/hive"
	"github.com/Jsewill/chiaSWARM/pkg/logger"
)

// defaultFailureWait is the wait applied when an iteration fails in a
// way the hive client did not already classify.
const defaultFailureWait = 121 * time.Second

// WorkSource asks the coordinator for work sized to a leased device.
type WorkSource interface {
	RequestWork(ctx context.Context, device devices.Device, freeVRAM uint64) (hive.Assignment, error)
}

// Worker owns one polling loop per enumerated device. Each loop leases a
// device from the shared pool, asks the hive for work, dispatches any
// returned jobs, releases the lease, and waits according to the outcome.
// The loops run until shutdown; transient failures never stop them.
type Worker struct {
	config     Config
	pool       *devices.Pool
	runtime    devices.Runtime
	source     WorkSource
	dispatcher *Dispatcher
	clock      Clock
	logger     logger.Logger

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a worker. A nil clock defaults to the real clock.
func New(
	config *Config,
	pool *devices.Pool,
	runtime devices.Runtime,
	source WorkSource,
	dispatcher *Dispatcher,
	clock Clock,
	log logger.Logger,
) *Worker {
	if clock == nil {
		clock = realClock{}
	}

	return &Worker{
		config:     *config,
		pool:       pool,
		runtime:    runtime,
		source:     source,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     log,
		done:       make(chan struct{}),
	}
}

// InstanceID identifies this worker process in logs and on every
// submitted result.
func (w *Worker) InstanceID() string {
	return w.dispatcher.InstanceID()
}

// Start implements the lifecycle.Service interface. It launches one poll
// loop per device in the pool and blocks until all loops have stopped.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Str("instance_id", w.InstanceID()).
		Str("worker_name", w.config.WorkerName).
		Int("devices", w.pool.Size()).
		Msg("Starting poll loops")

	for i := 0; i < w.pool.Size(); i++ {
		w.wg.Add(1)

		go func(loop int) {
			defer w.wg.Done()
			w.runLoop(ctx, loop)
		}(i)
	}

	w.wg.Wait()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Stop implements the lifecycle.Service interface. Loops finish their
// current iteration and skip the next acquire.
func (w *Worker) Stop(ctx context.Context) error {
	w.closeOnce.Do(func() {
		close(w.done)
	})

	stopped := make(chan struct{})

	go func() {
		w.wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop is the poll state machine: one mutable value, the current wait,
// carried between otherwise independent iterations.
func (w *Worker) runLoop(ctx context.Context, loop int) {
	log := w.logger.WithFields(map[string]interface{}{"loop": loop})

	wait := time.Duration(0)

	for {
		if !w.sleep(ctx, wait) {
			log.Info().Msg("Poll loop stopping")
			return
		}

		next, err := w.pollOnce(ctx)
		if err != nil {
			if w.shuttingDown(ctx) {
				log.Info().Msg("Poll loop stopping")
				return
			}

			log.Error().Err(err).Msg("Poll iteration failed")

			next = defaultFailureWait
		}

		wait = next
	}
}

// pollOnce runs one iteration: lease a device, query its live free
// memory, ask for work, dispatch any jobs in order, release the lease.
// The deferred release guarantees a failed iteration cannot leak the
// device.
func (w *Worker) pollOnce(ctx context.Context) (time.Duration, error) {
	lease, err := w.pool.Acquire(ctx)
	if err != nil {
		return defaultFailureWait, err
	}
	defer lease.Release()

	free, _, err := w.runtime.MemoryInfo(ctx, lease.Device.ID)
	if err != nil {
		return defaultFailureWait, err
	}

	assignment, err := w.source.RequestWork(ctx, lease.Device, free)
	if err != nil {
		return defaultFailureWait, err
	}

	for _, job := range assignment.Jobs {
		w.dispatcher.Dispatch(ctx, job, lease.Device)
	}

	return assignment.Outcome.Wait(), nil
}

// sleep suspends for d, returning false if shutdown was requested first.
func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	if w.shuttingDown(ctx) {
		return false
	}

	if d <= 0 {
		return true
	}

	select {
	case <-w.clock.After(d):
		return true
	case <-ctx.Done():
		return false
	case <-w.done:
		return false
	}
}

func (w *Worker) shuttingDown(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-w.done:
		return true
	default:
		return false
	}
}
