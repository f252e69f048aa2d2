// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command searchtrace runs instrumented classic search algorithms and
// prints their traces.
//
// Usage:
//
//	searchtrace astar                          # A* over the Romania map
//	searchtrace traverse --order bfs           # BFS over the sample tree
//	searchtrace csp --format text              # class scheduling, one line per event
//	searchtrace climb --restarts 20 --seed 7   # random-restart hill climbing
//	searchtrace minimax --pruning              # alpha-beta over [3,5,2,9]
//	searchtrace scenarios run                  # every built-in scenario in parallel
//	searchtrace astar --problem map.yaml       # a declarative problem document
//	searchtrace validate map.yaml csp.yaml
//
// Traces go to stdout as JSON (default) or text; logs, spans (--otel-stdout)
// and metrics (--metrics) go to stderr.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "searchtrace:", err)
		os.Exit(1)
	}
}
