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
	"fmt"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemRuntime exposes accelerators that share host memory (integrated
// and unified-memory devices) through the Runtime interface, backed by
// gopsutil. Device memory telemetry is the host's available memory.
type SystemRuntime struct {
	count int
}

// NewSystemRuntime creates a host-backed runtime exposing count devices.
func NewSystemRuntime(count int) *SystemRuntime {
	if count <= 0 {
		count = 1
	}

	return &SystemRuntime{count: count}
}

func (*SystemRuntime) Available(ctx context.Context) bool {
	_, err := mem.VirtualMemoryWithContext(ctx)
	return err == nil
}

func (*SystemRuntime) Version(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}

	return info.KernelVersion, nil
}

func (r *SystemRuntime) DeviceCount(_ context.Context) (int, error) {
	return r.count, nil
}

func (r *SystemRuntime) DeviceName(ctx context.Context, id int) (string, error) {
	if id < 0 || id >= r.count {
		return "", fmt.Errorf("%w: ordinal %d", ErrNoDevices, id)
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/accel%d", info.Hostname, id), nil
}

func (r *SystemRuntime) MemoryInfo(ctx context.Context, id int) (free, total uint64, err error) {
	if id < 0 || id >= r.count {
		return 0, 0, fmt.Errorf("%w: ordinal %d", ErrNoDevices, id)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}

	return vm.Available, vm.Total, nil
}
