// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package algorithms

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/AleutianAI/searchtrace/services/search/problem"
)

// Sentinel errors for invalid invocations.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid config")
	ErrUnknownNode   = errors.New("unknown node")
)

// AlgorithmError describes a rejected invocation of a search procedure.
//
// Terminal search outcomes are never reported through this type.
type AlgorithmError struct {
	Algorithm string
	Operation string
	Err       error
}

func (e *AlgorithmError) Error() string {
	return e.Algorithm + "." + e.Operation + ": " + e.Err.Error()
}

// Unwrap allows errors.Is against the sentinels.
func (e *AlgorithmError) Unwrap() error {
	return e.Err
}

// Invalid builds an AlgorithmError wrapping sentinel with a formatted detail.
func Invalid(algorithm, operation string, sentinel error, format string, args ...any) error {
	return &AlgorithmError{
		Algorithm: algorithm,
		Operation: operation,
		Err:       fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// FormatPath renders a node path as "A -> B -> C".
func FormatPath(path []problem.NodeID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = string(id)
	}
	return strings.Join(parts, " -> ")
}

// PathLabel is the trace label carrying a path.
func PathLabel(path []problem.NodeID) string {
	return "path=" + FormatPath(path)
}

// Reconstruct follows parent pointers from goal back to the root.
func Reconstruct(parent map[problem.NodeID]problem.NodeID, goal problem.NodeID) []problem.NodeID {
	path := []problem.NodeID{goal}
	for n := goal; ; {
		p, ok := parent[n]
		if !ok {
			break
		}
		path = append(path, p)
		n = p
	}
	slices.Reverse(path)
	return path
}
