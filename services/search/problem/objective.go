// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package problem

import (
	"fmt"
	"math"
)

// Objective is a one-dimensional function explored by local search.
type Objective func(x float64) float64

// Bump is one Gaussian term: Height * exp(-(x-Center)^2 / Spread).
type Bump struct {
	Height float64
	Center float64
	Spread float64
}

// Bumps returns the objective that sums the given Gaussian terms.
//
// Outputs:
//
//	Objective - The summed function.
//	error - ErrMalformedProblem wrapped if no bumps are given or a spread is not positive.
func Bumps(bumps ...Bump) (Objective, error) {
	if len(bumps) == 0 {
		return nil, fmt.Errorf("%w: objective has no bumps", ErrMalformedProblem)
	}
	terms := make([]Bump, len(bumps))
	for i, b := range bumps {
		if !(b.Spread > 0) || math.IsInf(b.Spread, 0) {
			return nil, fmt.Errorf("%w: bump %d has spread %v", ErrMalformedProblem, i, b.Spread)
		}
		terms[i] = b
	}
	return func(x float64) float64 {
		sum := 0.0
		for _, b := range terms {
			d := x - b.Center
			sum += b.Height * math.Exp(-d*d/b.Spread)
		}
		return sum
	}, nil
}
