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
	"fmt"
	"sync"

	"github.com/Jsewill/chiaSWARM/pkg/devices"
)

// Pipeline turns one raw job descriptor into result artifacts on the
// leased device. Implementations are registered by workflow name.
type Pipeline func(ctx context.Context, descriptor json.RawMessage, device devices.Device) (map[string]interface{}, error)

var (
	errUnknownWorkflow = fmt.Errorf("unknown workflow")

	pipelineMu sync.RWMutex
	pipelines  = map[string]Pipeline{
		// echo is always present so the hive can probe a worker end to end.
		"echo": echoPipeline,
	}
)

// Register makes a pipeline available under the given workflow name.
// Later registrations replace earlier ones.
func Register(workflow string, p Pipeline) {
	pipelineMu.Lock()
	defer pipelineMu.Unlock()

	pipelines[workflow] = p
}

func pipelineFor(workflow string) (Pipeline, error) {
	if workflow == "" {
		workflow = "echo"
	}

	pipelineMu.RLock()
	defer pipelineMu.RUnlock()

	p, ok := pipelines[workflow]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownWorkflow, workflow)
	}

	return p, nil
}

// echoPipeline reflects the descriptor back; used for worker probes.
func echoPipeline(_ context.Context, descriptor json.RawMessage, device devices.Device) (map[string]interface{}, error) {
	return map[string]interface{}{
		"descriptor": json.RawMessage(append([]byte(nil), descriptor...)),
		"device":     device.Name,
	}, nil
}
