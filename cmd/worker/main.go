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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Jsewill/chiaSWARM/pkg/config"
	"github.com/Jsewill/chiaSWARM/pkg/devices"
	"github.com/Jsewill/chiaSWARM/pkg/generator"
	"github.com/Jsewill/chiaSWARM/pkg/hive"
	"github.com/Jsewill/chiaSWARM/pkg/lifecycle"
	"github.com/Jsewill/chiaSWARM/pkg/logger"
	"github.com/Jsewill/chiaSWARM/pkg/version"
	"github.com/Jsewill/chiaSWARM/pkg/worker"
)

var (
	errFailedToLoadConfig = fmt.Errorf("failed to load config")
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/chiaswarm/worker.json", "Path to worker config file")
	flag.Parse()

	ctx := context.Background()

	// Step 1: Load configuration
	cfgLoader := config.NewConfig(nil)

	var cfg worker.Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	// Step 2: Create logger from loaded config
	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	workerLogger, err := lifecycle.CreateComponentLogger("worker", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	workerLogger.Info().Str("version", version.GetFullVersion()).Msg("chiaSWARM worker")

	// Step 3: Enumerate devices. Failures here are startup preconditions.
	runtime := devices.NewSystemRuntime(cfg.DeviceCount)

	devs, err := devices.Enumerate(ctx, runtime, cfg.RuntimeMinVersion, workerLogger)
	if err != nil {
		return fmt.Errorf("device enumeration failed: %w", err)
	}

	pool := devices.NewPool(devs)

	// Step 4: Wire the hive client and the poll loops.
	client := hive.NewClient(cfg.HiveURI, cfg.Token, cfg.WorkerName, time.Duration(cfg.RequestTimeout), workerLogger)
	dispatcher := worker.NewDispatcher(generator.DoWork, client, workerLogger)

	w := worker.New(&cfg, pool, runtime, client, dispatcher, nil, workerLogger)

	return lifecycle.Run(ctx, w, workerLogger)
}
