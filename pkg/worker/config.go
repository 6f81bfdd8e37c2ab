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
	"os"
	"time"

	"github.com/Jsewill/chiaSWARM/pkg/logger"
	"github.com/Jsewill/chiaSWARM/pkg/models"
)

const defaultRequestTimeout = 10 * time.Second

// Config represents worker configuration, loaded once at startup and
// immutable thereafter.
type Config struct {
	HiveURI           string          `json:"hive_uri"`
	Token             string          `json:"token"`
	WorkerName        string          `json:"worker_name"`
	DeviceCount       int             `json:"device_count,omitempty"`
	RuntimeMinVersion string          `json:"runtime_min_version,omitempty"`
	RequestTimeout    models.Duration `json:"request_timeout,omitempty"`
	Logging           *logger.Config  `json:"logging,omitempty"`
}

// Validate implements config.Validator interface.
func (c *Config) Validate() error {
	if c.HiveURI == "" {
		return errHiveURIRequired
	}

	if c.Token == "" {
		return errTokenRequired
	}

	if c.WorkerName == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "worker"
		}

		c.WorkerName = hostname
	}

	if time.Duration(c.RequestTimeout) == 0 {
		c.RequestTimeout = models.Duration(defaultRequestTimeout)
	}

	return nil
}
