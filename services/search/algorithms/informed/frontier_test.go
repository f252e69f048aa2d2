// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package informed

import (
	"testing"

	"github.com/AleutianAI/searchtrace/services/search/problem"
)

func TestFrontier_SupersededEntriesAreSkipped(t *testing.T) {
	q := newFrontier()
	q.push("A", 5, 5)
	q.push("B", 3, 3)
	q.push("A", 1, 2)

	if got := q.size(); got != 2 {
		t.Fatalf("size = %d, want 2", got)
	}
	if got := q.heap.Len(); got != 3 {
		t.Fatalf("heap holds %d entries, want 3 (one stale)", got)
	}

	want := []struct {
		id problem.NodeID
		f  float64
	}{{"A", 2}, {"B", 3}}
	for _, w := range want {
		it, ok := q.pop()
		if !ok {
			t.Fatalf("pop: frontier empty, want %s", w.id)
		}
		if it.id != w.id || it.f != w.f {
			t.Errorf("pop = %s f=%v, want %s f=%v", it.id, it.f, w.id, w.f)
		}
	}
	if _, ok := q.pop(); ok {
		t.Error("stale entry for A was returned")
	}
	if got := q.size(); got != 0 {
		t.Errorf("size = %d after draining, want 0", got)
	}
}

func TestFrontier_TiesBreakByInsertion(t *testing.T) {
	q := newFrontier()
	q.push("C", 0, 4)
	q.push("D", 0, 4)
	q.push("E", 0, 4)

	for _, want := range []problem.NodeID{"C", "D", "E"} {
		it, _ := q.pop()
		if it.id != want {
			t.Errorf("pop = %s, want %s", it.id, want)
		}
	}
}
