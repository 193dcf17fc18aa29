/*
 * Copyright 2025 The Router Authors.
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

// Command routerctl lexes, parses, and runs a router configuration:
// load a .click-style configuration file (or an inline expression),
// validate and instantiate it, and enter the scheduler loop until
// interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bittoy/router/driver"

	_ "github.com/bittoy/router/elements/classify"
	_ "github.com/bittoy/router/elements/mqttio"
	_ "github.com/bittoy/router/elements/standard"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := driver.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(status)
}
