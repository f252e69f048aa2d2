// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scenarios

import (
	"testing"

	"github.com/AleutianAI/searchtrace/services/search/algorithms/local"
	"github.com/AleutianAI/searchtrace/services/search/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_RunToSuccess(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range All() {
		t.Run(s.Name, func(t *testing.T) {
			assert.False(t, seen[s.Name], "duplicate scenario name")
			seen[s.Name] = true
			assert.NotEmpty(t, s.Algorithm)
			assert.NotEmpty(t, s.Description)

			rec := trace.NewRecorder()
			outcome, err := s.Run(rec)
			require.NoError(t, err)
			assert.True(t, outcome.Succeeded(), "outcome %s", outcome)
			assert.Positive(t, rec.Len())
		})
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("romania-astar")
	require.True(t, ok)
	assert.Equal(t, "astar", s.Algorithm)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestJobs(t *testing.T) {
	all, unknown := Jobs()
	assert.Len(t, all, len(All()))
	assert.Empty(t, unknown)

	jobs, unknown := Jobs("tree-bfs", "missing", "game-alphabeta")
	require.Len(t, jobs, 2)
	assert.Equal(t, "tree-bfs", jobs[0].Name)
	assert.Equal(t, "alphabeta", jobs[1].Algorithm)
	assert.Equal(t, []string{"missing"}, unknown)
}

func TestClassScheduling_ProfessorsShareTime(t *testing.T) {
	p := ClassScheduling()
	assert.Len(t, p.Variables(), 4)
	assert.Len(t, p.Domain("AI"), 8)
	assert.Equal(t, "Mon 9AM", Slot("Mon 9AM", "Room 101").Field(0))
}

func TestRomania_Heuristics(t *testing.T) {
	g := Romania()
	assert.Equal(t, 14, g.Len())

	h := RomaniaHeuristic(g)
	bad := InadmissibleRomaniaHeuristic(g)
	assert.Equal(t, 366.0, h.Estimate("Arad"))
	assert.Equal(t, 400.0, bad.Estimate("Pitesti"))
	assert.Zero(t, h.Estimate("Bucharest"))
}

func TestObjectives_TrapAndLectureCurveDiffer(t *testing.T) {
	f := TwoPeaks()
	assert.Greater(t, f(5), f(2.8), "the global peak is at 5")
	assert.Greater(t, f(2.8), f(2.7))
	assert.Greater(t, f(2.8), f(2.9))

	trapped, err := local.Climb(f, TwoPeaksConfig(), trace.NewRecorder())
	require.NoError(t, err)
	assert.Equal(t, trace.OutcomeLocalOptimum, trapped.Outcome)
	assert.InDelta(t, 2.8, trapped.X, 1e-6)

	// From the same start the lecture curve climbs left, so it cannot
	// demonstrate the trap near 2.8.
	lecture, err := local.Climb(LectureCurve(), LectureCurveConfig(), trace.NewRecorder())
	require.NoError(t, err)
	assert.InDelta(t, 0.6, lecture.X, 1e-6)
	assert.Less(t, lecture.X, LectureCurveConfig().Start)
}
