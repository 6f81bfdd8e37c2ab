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

package devices

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDevices(n int) []Device {
	devs := make([]Device, 0, n)
	for i := 0; i < n; i++ {
		devs = append(devs, Device{ID: i, Name: "accel"})
	}

	return devs
}

func TestPoolAcquireExclusive(t *testing.T) {
	const devices = 4

	const acquirers = 32

	pool := NewPool(testDevices(devices))

	var mu sync.Mutex

	leased := make(map[int]bool)

	var wg sync.WaitGroup

	for i := 0; i < acquirers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			lease, err := pool.Acquire(context.Background())
			if err != nil {
				t.Error(err)
				return
			}

			mu.Lock()
			if leased[lease.Device.ID] {
				t.Errorf("device %d leased twice concurrently", lease.Device.ID)
			}
			leased[lease.Device.ID] = true
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			leased[lease.Device.ID] = false
			mu.Unlock()

			lease.Release()
		}()
	}

	wg.Wait()

	assert.Equal(t, devices, pool.Available(), "all devices returned after every lease released")
}

func TestPoolReleaseThenAcquireReturnsSameDevice(t *testing.T) {
	pool := NewPool(testDevices(1))

	lease, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pool.Available())

	lease.Release()
	require.Equal(t, 1, pool.Available())

	again, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lease.Device, again.Device)

	again.Release()
}

func TestPoolReleaseIdempotent(t *testing.T) {
	pool := NewPool(testDevices(2))

	lease, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	lease.Release()
	lease.Release()
	lease.Release()

	// A double release must not grow the available set.
	assert.Equal(t, 2, pool.Available())
	assert.Equal(t, 2, pool.Size())
}

func TestPoolAcquireBlocksUntilRelease(t *testing.T) {
	pool := NewPool(testDevices(1))

	first, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	acquired := make(chan *Lease)

	go func() {
		lease, acquireErr := pool.Acquire(context.Background())
		require.NoError(t, acquireErr)
		acquired <- lease
	}()

	select {
	case <-acquired:
		t.Fatal("acquire returned while device was leased")
	case <-time.After(50 * time.Millisecond):
	}

	first.Release()

	select {
	case lease := <-acquired:
		assert.Equal(t, first.Device, lease.Device)
		lease.Release()
	case <-time.After(time.Second):
		t.Fatal("acquire did not unblock after release")
	}
}

func TestPoolAcquireHonorsContext(t *testing.T) {
	pool := NewPool(testDevices(1))

	lease, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	defer lease.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = pool.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
