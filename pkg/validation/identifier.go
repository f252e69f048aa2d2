// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation checks user-provided names before they reach a search.
//
// Problem documents are parsed by splitting lines on whitespace, and every
// node and variable name ends up in trace labels such as "parent=Arad" or
// "path=A -> C". Names are therefore restricted to a conservative set of
// characters that survives both.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern matches valid node and variable names.
// Allows: letters, digits, underscore, dots (v1.2), hyphens (St-Louis)
// Max length: 64 characters
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]{0,63}$`)

// ValidateIdentifier validates a node or variable name.
//
// Valid identifiers:
//   - 1-64 characters
//   - Letters, digits and underscores
//   - Dots and hyphens, but not as the first character
//
// Returns an error if the identifier is invalid.
//
// Example:
//
//	if err := validation.ValidateIdentifier(start); err != nil {
//	    return fmt.Errorf("--start: %w", err)
//	}
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("invalid identifier: %q (must be 1-64 letters, digits, underscores, dots or hyphens)", id)
	}

	return nil
}

// ValidateIdentifiers validates multiple names.
// Returns an error listing all invalid names if any fail validation.
func ValidateIdentifiers[T ~string](ids []T) error {
	var invalid []string
	for _, id := range ids {
		if err := ValidateIdentifier(string(id)); err != nil {
			invalid = append(invalid, string(id))
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid identifiers: %q", invalid)
	}
	return nil
}

// SanitizeIdentifier trims surrounding whitespace and validates the result.
//
// Use this for names typed on the command line:
//
//	root, err := validation.SanitizeIdentifier(opts.root)
//	if err != nil {
//	    return err
//	}
func SanitizeIdentifier(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if err := ValidateIdentifier(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}
