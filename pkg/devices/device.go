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

// Package devices enumerates the node's compute devices and hands out
// exclusive leases on them.
package devices

// Device is one compute device discovered at startup. Devices are
// immutable once enumerated; ownership stays with the registry and a
// device is only loaned out through a pool lease.
type Device struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
