// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package algorithms holds what the search procedures share: the invocation
// error type and the runner that executes independent runs in parallel.
//
// Architecture:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                            Runner                            │
//	│   one goroutine, one Recorder and one span per Job            │
//	└───────────────┬───────────────┬───────────────┬──────────────┘
//	                ▼               ▼               ▼
//	         uninformed        informed       constraints ...
//	        (DFS / BFS)          (A*)        (backtracking)
//	                │               │               │
//	                ▼               ▼               ▼
//	           trace.Recorder  trace.Recorder  trace.Recorder
//	                │               │               │
//	                └───────────────┴───────────────┘
//	                                ▼
//	                         []Report (traces)
//
// Algorithm Contract:
//
//	The search procedures in the sub-packages MUST:
//	1. Be synchronous and deterministic: identical inputs give identical traces
//	2. Emit every decision to the Recorder they are given, failure paths included
//	3. Never mutate the problem model
//	4. Report terminal outcomes (exhausted, unreachable, local optimum) as
//	   trace.Outcome values, and return an error only for invalid invocations
//
//	They MUST NOT:
//	1. Start goroutines
//	2. Keep package-level mutable state
//	3. Perform I/O
//
// Example Usage:
//
//	runner := algorithms.NewRunner(algorithms.WithParallelism(4))
//	reports, err := runner.RunAll(ctx, []algorithms.Job{
//	    {Name: "romania", Algorithm: informed.Name, Run: func(rec *trace.Recorder) (trace.Outcome, error) {
//	        res, err := informed.Search(g, h, "Arad", "Bucharest", rec)
//	        return res.Outcome, err
//	    }},
//	})
package algorithms
