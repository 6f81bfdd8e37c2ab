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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jsewill/chiaSWARM/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	HiveURI    string         `json:"hive_uri"`
	Token      string         `json:"token"`
	WorkerName string         `json:"worker_name"`
	Logging    *logger.Config `json:"logging,omitempty"`
}

var errMissingHiveURI = errors.New("hive_uri is required")

func (c *testConfig) Validate() error {
	if c.HiveURI == "" {
		return errMissingHiveURI
	}

	if c.WorkerName == "" {
		c.WorkerName = "worker"
	}

	return nil
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "worker.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidateFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"hive_uri": "https://hive.example.net",
		"token": "secret",
		"logging": {"level": "debug"}
	}`)

	var cfg testConfig

	loader := NewConfig(logger.NewTestLogger())
	require.NoError(t, loader.LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "https://hive.example.net", cfg.HiveURI)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, "worker", cfg.WorkerName) // defaulted by Validate
	require.NotNil(t, cfg.Logging)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadAndValidateMissingFile(t *testing.T) {
	var cfg testConfig

	loader := NewConfig(logger.NewTestLogger())
	err := loader.LoadAndValidate(context.Background(), "/nonexistent/worker.json", &cfg)
	assert.Error(t, err)
}

func TestLoadAndValidateRejectsInvalidConfig(t *testing.T) {
	path := writeConfigFile(t, `{"token": "secret"}`)

	var cfg testConfig

	loader := NewConfig(logger.NewTestLogger())
	err := loader.LoadAndValidate(context.Background(), path, &cfg)
	require.ErrorIs(t, err, errMissingHiveURI)
}

func TestLoadAndValidateInvalidSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "carrier-pigeon")

	var cfg testConfig

	loader := NewConfig(logger.NewTestLogger())
	err := loader.LoadAndValidate(context.Background(), "ignored.json", &cfg)
	require.ErrorIs(t, err, errInvalidConfigSource)
}

func TestEnvLoaderFlatFields(t *testing.T) {
	t.Setenv("SWARM_HIVE_URI", "https://hive.example.net")
	t.Setenv("SWARM_TOKEN", "from-env")
	t.Setenv("SWARM_LOGGING_LEVEL", "warn")

	var cfg testConfig

	loader := NewEnvConfigLoader(logger.NewTestLogger(), "SWARM_")
	require.NoError(t, loader.Load(context.Background(), "", &cfg))

	assert.Equal(t, "https://hive.example.net", cfg.HiveURI)
	assert.Equal(t, "from-env", cfg.Token)
	require.NotNil(t, cfg.Logging)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvLoaderConfigJSON(t *testing.T) {
	t.Setenv("SWARM_CONFIG_JSON", `{"hive_uri": "https://hive.example.net", "token": "blob"}`)

	var cfg testConfig

	loader := NewEnvConfigLoader(logger.NewTestLogger(), "SWARM_")
	require.NoError(t, loader.Load(context.Background(), "", &cfg))

	assert.Equal(t, "https://hive.example.net", cfg.HiveURI)
	assert.Equal(t, "blob", cfg.Token)
}

func TestEnvLoaderRequiresStructPointer(t *testing.T) {
	loader := NewEnvConfigLoader(logger.NewTestLogger(), "SWARM_")

	var notAStruct int

	assert.ErrorIs(t, loader.Load(context.Background(), "", &notAStruct), ErrDstMustBePointerToStruct)
	assert.ErrorIs(t, loader.Load(context.Background(), "", nil), ErrDstMustBeNonNilPointer)
}

func TestEnvLoaderViaConfigSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("SWARM_HIVE_URI", "https://hive.example.net")

	var cfg testConfig

	loader := NewConfig(logger.NewTestLogger())
	require.NoError(t, loader.LoadAndValidate(context.Background(), "", &cfg))
	assert.Equal(t, "https://hive.example.net", cfg.HiveURI)
}
