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
)

// Pool hands out exclusive leases on the registry's devices. The set of
// available plus leased devices is constant for the process lifetime; no
// device is ever leased twice concurrently.
type Pool struct {
	available chan Device
	size      int
}

// NewPool seeds a pool with the enumerated devices.
func NewPool(devs []Device) *Pool {
	p := &Pool{
		available: make(chan Device, len(devs)),
		size:      len(devs),
	}

	for _, d := range devs {
		p.available <- d
	}

	return p
}

// Acquire removes one available device from the pool, blocking without
// busy-waiting until a device is free or the context is canceled. Order
// of hand-out is not specified.
func (p *Pool) Acquire(ctx context.Context) (*Lease, error) {
	select {
	case d := <-p.available:
		return &Lease{Device: d, pool: p}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the fixed number of devices the pool was seeded with.
func (p *Pool) Size() int {
	return p.size
}

// Available returns the number of devices currently free.
func (p *Pool) Available() int {
	return len(p.available)
}

// Lease binds one device to one poll iteration. Release returns the
// device to the pool; callers defer it so a failed iteration cannot leak
// the device.
type Lease struct {
	Device Device

	pool *Pool
	once sync.Once
}

// Release returns the leased device to the pool. Safe to call more than
// once; only the first call puts the device back. Never blocks: the
// channel capacity equals the device count.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.pool.available <- l.Device
	})
}
