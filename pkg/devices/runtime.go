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
	"strings"

	"github.com/Jsewill/chiaSWARM/pkg/logger"
	"golang.org/x/mod/semver"
)

// Runtime is the accelerator runtime collaborator. It answers device
// discovery and live telemetry questions; the worker never manages the
// driver itself.
type Runtime interface {
	// Available reports whether the runtime is usable on this node.
	Available(ctx context.Context) bool
	// Version returns the runtime version string.
	Version(ctx context.Context) (string, error)
	// DeviceCount returns the number of devices exposed by the runtime.
	DeviceCount(ctx context.Context) (int, error)
	// DeviceName returns the human-readable name for a device ordinal.
	DeviceName(ctx context.Context, id int) (string, error)
	// MemoryInfo returns the current free and total memory for a device
	// ordinal. Queried live before every work request, never cached.
	MemoryInfo(ctx context.Context, id int) (free, total uint64, err error)
}

// Enumerate discovers the node's devices once at startup. The returned
// set is fixed for the process lifetime. Failures here are startup
// preconditions: the caller is expected to abort, not retry.
func Enumerate(ctx context.Context, rt Runtime, minVersion string, log logger.Logger) ([]Device, error) {
	if !rt.Available(ctx) {
		return nil, ErrRuntimeUnavailable
	}

	rtVersion, err := rt.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntimeUnavailable, err)
	}

	if minVersion != "" && semver.Compare(canonical(rtVersion), canonical(minVersion)) < 0 {
		return nil, fmt.Errorf("%w: need %s or greater, found %s", ErrRuntimeVersion, minVersion, rtVersion)
	}

	count, err := rt.DeviceCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count devices: %w", err)
	}

	if count == 0 {
		return nil, ErrNoDevices
	}

	log.Info().Str("runtime_version", rtVersion).Int("device_count", count).Msg("Enumerating compute devices")

	devs := make([]Device, 0, count)

	for i := 0; i < count; i++ {
		name, err := rt.DeviceName(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("failed to name device %d: %w", i, err)
		}

		log.Info().Int("device_id", i).Str("name", name).Msg("Adding compute device")

		devs = append(devs, Device{ID: i, Name: name})
	}

	return devs, nil
}

// canonical coerces loose runtime version strings ("2.0", "v2.0.1+cu118")
// into a form semver.Compare accepts.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}

	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}

	// Strip any local build suffix the driver appends.
	if i := strings.IndexAny(v, "+ "); i >= 0 {
		v = v[:i]
	}

	return v
}
