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

package models

import "encoding/json"

// Job is one unit of work assigned by the hive. The worker does not
// interpret the payload; it is carried opaquely to the computation.
type Job struct {
	raw json.RawMessage
}

// UnmarshalJSON keeps the raw descriptor bytes untouched.
func (j *Job) UnmarshalJSON(b []byte) error {
	j.raw = append(j.raw[:0], b...)
	return nil
}

// MarshalJSON forwards the descriptor exactly as received.
func (j Job) MarshalJSON() ([]byte, error) {
	if j.raw == nil {
		return []byte("null"), nil
	}

	return j.raw, nil
}

// Raw returns the opaque job descriptor bytes.
func (j Job) Raw() json.RawMessage {
	return j.raw
}

// ID extracts the job's "id" field when present, for log correlation only.
func (j Job) ID() string {
	var probe struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal(j.raw, &probe); err != nil {
		return ""
	}

	return probe.ID
}

// NewJob builds a Job from raw descriptor bytes. Used by tests and
// by callers that replay stored descriptors.
func NewJob(raw json.RawMessage) Job {
	return Job{raw: raw}
}

// WorkResult is the structure produced by the computation for one job,
// forwarded verbatim to the hive's results endpoint.
type WorkResult map[string]interface{}
