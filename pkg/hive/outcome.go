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

package hive

import "time"

// Outcome is the normalized classification of one work-request exchange.
// It maps deterministically onto the fixed three-tier wait policy.
type Outcome int

const (
	// WorkAssigned means the hive returned at least one job.
	WorkAssigned Outcome = iota
	// NoWorkAvailable means the hive answered with an empty jobs list.
	NoWorkAvailable
	// TransientServerError means the hive rejected or failed the request.
	TransientServerError
	// ConnectivityError means the hive could not be reached in time.
	ConnectivityError
	// ProtocolError means the hive's response body was not understood.
	ProtocolError
)

const (
	// waitImmediate re-polls right away; more work is likely queued.
	waitImmediate = 0
	// waitShort checks again soon without hammering the hive.
	waitShort = 11 * time.Second
	// waitBackoff holds off after connectivity or server trouble to
	// avoid retry storms. No exponential growth or jitter is applied.
	waitBackoff = 121 * time.Second
)

// Wait returns the inter-poll wait the outcome selects.
func (o Outcome) Wait() time.Duration {
	switch o {
	case WorkAssigned:
		return waitImmediate
	case NoWorkAvailable, ProtocolError:
		return waitShort
	case TransientServerError, ConnectivityError:
		return waitBackoff
	default:
		return waitBackoff
	}
}

func (o Outcome) String() string {
	switch o {
	case WorkAssigned:
		return "work_assigned"
	case NoWorkAvailable:
		return "no_work_available"
	case TransientServerError:
		return "transient_server_error"
	case ConnectivityError:
		return "connectivity_error"
	case ProtocolError:
		return "protocol_error"
	default:
		return "unknown"
	}
}
