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

// Package hive speaks the coordinator's work and results HTTP endpoints.
package hive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Jsewill/chiaSWARM/pkg/devices"
	"github.com/Jsewill/chiaSWARM/pkg/logger"
	"github.com/Jsewill/chiaSWARM/pkg/models"
	"github.com/Jsewill/chiaSWARM/pkg/version"
)

const defaultRequestTimeout = 10 * time.Second

// Assignment is the normalized result of one work-request exchange.
type Assignment struct {
	Outcome Outcome
	Jobs    []models.Job
}

// Client issues work requests and result submissions against the hive.
type Client struct {
	apiRoot    string
	token      string
	workerName string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient builds a hive client. baseURI is the coordinator's base URI;
// the API root is baseURI with trailing slashes stripped plus "/api".
// A zero timeout selects the default 10 seconds.
func NewClient(baseURI, token, workerName string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Client{
		apiRoot:    strings.TrimRight(baseURI, "/") + "/api",
		token:      token,
		workerName: workerName,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// APIRoot returns the resolved hive API root.
func (c *Client) APIRoot() string {
	return c.apiRoot
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", version.UserAgent())
}

// RequestWork asks the hive for work sized to the leased device. The
// worker identity is the configured name plus the device ordinal, and
// freeVRAM is the device's live free memory in bytes.
//
// Transport failures (unreachable server, timeout, anything else below
// HTTP) are classified as ConnectivityError and logged, not returned: the
// outcome's wait already encodes the backoff. Only server-level
// rejections (400, unexpected statuses) produce an error.
func (c *Client) RequestWork(ctx context.Context, device devices.Device, freeVRAM uint64) (Assignment, error) {
	identity := fmt.Sprintf("%s:%d", c.workerName, device.ID)

	c.logger.Info().
		Int("device_id", device.ID).
		Str("worker_name", identity).
		Str("hive", c.apiRoot).
		Msg("Asking for work from the hive")

	params := url.Values{}
	params.Set("worker_version", version.GetVersion())
	params.Set("worker_name", identity)
	params.Set("vram", strconv.FormatUint(freeVRAM, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiRoot+"/work?"+params.Encode(), http.NoBody)
	if err != nil {
		return Assignment{Outcome: ConnectivityError}, fmt.Errorf("failed to build work request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("hive", c.apiRoot).Msg("Could not reach the hive")
		return Assignment{Outcome: ConnectivityError}, nil
	}
	defer c.closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return c.classifyWorkBody(resp.Body), nil
	case http.StatusBadRequest:
		return Assignment{Outcome: TransientServerError}, c.workerRejected(resp.Body)
	default:
		c.logger.Error().Int("status", resp.StatusCode).Str("hive", c.apiRoot).Msg("Hive returned unexpected status")
		return Assignment{Outcome: TransientServerError}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
}

// classifyWorkBody maps a 200 response body onto an outcome. A body that
// cannot be decoded, or whose jobs field is missing or not a list, is a
// protocol error and backs off like an empty answer.
func (c *Client) classifyWorkBody(body io.Reader) Assignment {
	data, err := io.ReadAll(body)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to read hive response")
		return Assignment{Outcome: ProtocolError}
	}

	var envelope map[string]json.RawMessage

	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logger.Error().Err(err).Str("body", string(data)).Msg("Unable to decode hive response")
		return Assignment{Outcome: ProtocolError}
	}

	rawJobs, ok := envelope["jobs"]
	if !ok {
		c.logger.Error().Msg("'jobs' field is missing in the hive response")
		return Assignment{Outcome: ProtocolError}
	}

	// A JSON null unmarshals into a slice as a silent no-op; reject it
	// like any other non-list value.
	if string(bytes.TrimSpace(rawJobs)) == "null" {
		c.logger.Error().Msg("'jobs' field is not a list in the hive response")
		return Assignment{Outcome: ProtocolError}
	}

	var jobs []models.Job

	if err := json.Unmarshal(rawJobs, &jobs); err != nil {
		c.logger.Error().Err(err).Msg("'jobs' field is not a list in the hive response")
		return Assignment{Outcome: ProtocolError}
	}

	if len(jobs) == 0 {
		return Assignment{Outcome: NoWorkAvailable}
	}

	return Assignment{Outcome: WorkAssigned, Jobs: jobs}
}

// workerRejected surfaces a 400 answer as an error carrying the hive's message.
func (c *Client) workerRejected(body io.Reader) error {
	message := "bad worker"

	var parsed struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(body).Decode(&parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
	}

	c.logger.Error().Str("hive", c.apiRoot).Str("message", message).Msg("Hive rejected the work request")

	return fmt.Errorf("%w: %s", ErrWorkerRejected, message)
}

// SubmitResult posts one job result to the hive. A 500 from the hive is
// logged and swallowed; the job is not retried. Transport failures are
// returned for the dispatcher to contain.
func (c *Client) SubmitResult(ctx context.Context, result models.WorkResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiRoot+"/results", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build results request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit result: %w", err)
	}
	defer c.closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read results response: %w", err)
	}

	if resp.StatusCode == http.StatusInternalServerError {
		c.logger.Error().Str("body", string(body)).Msg("The hive returned an error for a submitted result")
		return nil
	}

	c.logger.Debug().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Result accepted by the hive")

	return nil
}

func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to close response body")
	}
}
