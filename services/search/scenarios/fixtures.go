// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scenarios builds the lecture problems as fresh model instances.
//
// Nothing here is package-level state: every constructor builds a new,
// independent model, so callers (tests included) never share fixtures.
// The fixtures are static, so a build error is a programming error and the
// constructors panic on it.
package scenarios

import (
	"fmt"
	"math"

	"github.com/AleutianAI/searchtrace/services/search/algorithms/local"
	"github.com/AleutianAI/searchtrace/services/search/problem"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("scenarios: static fixture failed to build: %v", err))
	}
	return v
}

func check(err error) {
	if err != nil {
		panic(fmt.Sprintf("scenarios: static fixture failed to build: %v", err))
	}
}

// -----------------------------------------------------------------------------
// Romania (A*)
// -----------------------------------------------------------------------------

type arc struct {
	to   problem.NodeID
	cost float64
}

// Romania returns the undirected road map of Romania, with each city's
// roads in the order the lecture lists them.
func Romania() *problem.Graph {
	roads := []struct {
		from  problem.NodeID
		roads []arc
	}{
		{"Arad", []arc{{"Sibiu", 140}, {"Timisoara", 118}, {"Zerind", 75}}},
		{"Sibiu", []arc{{"Arad", 140}, {"Fagaras", 99}, {"Oradea", 151}, {"Rimnicu", 80}}},
		{"Timisoara", []arc{{"Arad", 118}, {"Lugoj", 111}}},
		{"Zerind", []arc{{"Arad", 75}, {"Oradea", 71}}},
		{"Fagaras", []arc{{"Sibiu", 99}, {"Bucharest", 211}}},
		{"Oradea", []arc{{"Zerind", 71}, {"Sibiu", 151}}},
		{"Rimnicu", []arc{{"Sibiu", 80}, {"Pitesti", 97}, {"Craiova", 146}}},
		{"Lugoj", []arc{{"Timisoara", 111}, {"Mehadia", 70}}},
		{"Mehadia", []arc{{"Lugoj", 70}, {"Drobeta", 75}}},
		{"Drobeta", []arc{{"Mehadia", 75}, {"Craiova", 120}}},
		{"Craiova", []arc{{"Drobeta", 120}, {"Rimnicu", 146}, {"Pitesti", 138}}},
		{"Pitesti", []arc{{"Rimnicu", 97}, {"Craiova", 138}, {"Bucharest", 101}}},
		{"Bucharest", []arc{{"Fagaras", 211}, {"Pitesti", 101}, {"Giurgiu", 90}}},
		{"Giurgiu", []arc{{"Bucharest", 90}}},
	}

	b := problem.NewGraphBuilder(problem.Undirected)
	for _, city := range roads {
		check(b.AddNode(city.from))
		for _, r := range city.roads {
			check(b.AddArc(city.from, r.to, r.cost))
		}
	}
	return must(b.Build())
}

// RomaniaHeuristic returns the straight-line distances to Bucharest.
func RomaniaHeuristic(g *problem.Graph) problem.Heuristic {
	return must(problem.NewHeuristic(g, map[problem.NodeID]float64{
		"Arad": 366, "Bucharest": 0, "Craiova": 160,
		"Drobeta": 242, "Fagaras": 176, "Giurgiu": 77,
		"Lugoj": 244, "Mehadia": 241, "Oradea": 380,
		"Pitesti": 100, "Rimnicu": 193, "Sibiu": 253,
		"Timisoara": 329, "Zerind": 374,
	}))
}

// InadmissibleRomaniaHeuristic overestimates Pitesti (400 against a true
// remaining cost of 101), which makes A* settle for the Fagaras route.
func InadmissibleRomaniaHeuristic(g *problem.Graph) problem.Heuristic {
	return must(RomaniaHeuristic(g).With("Pitesti", 400))
}

// -----------------------------------------------------------------------------
// Sample tree (DFS / BFS)
// -----------------------------------------------------------------------------

// SampleTree returns the 9-node directed tree of the traversal lecture,
// rooted at A with goal I:
//
//	     A
//	   /   \
//	  B     C
//	 / \   / \
//	D   E F   G
//	    |     |
//	    H     I
func SampleTree() *problem.Graph {
	b := problem.NewGraphBuilder(problem.Directed)
	for _, e := range [][2]problem.NodeID{
		{"A", "B"}, {"A", "C"},
		{"B", "D"}, {"B", "E"},
		{"C", "F"}, {"C", "G"},
		{"E", "H"},
		{"G", "I"},
	} {
		check(b.AddEdge(e[0], e[1], 1))
	}
	return must(b.Build())
}

// -----------------------------------------------------------------------------
// Class scheduling (CSP)
// -----------------------------------------------------------------------------

// Class scheduling vocabulary.
var (
	classes    = []problem.Variable{"AI", "Database", "Networks", "OS"}
	timeSlots  = []string{"Mon 9AM", "Mon 11AM", "Tue 9AM", "Tue 11AM"}
	rooms      = []string{"Room 101", "Room 102"}
	professors = map[problem.Variable]string{
		"AI":       "Prof. Smith",
		"Database": "Prof. Smith",
		"Networks": "Prof. Jones",
		"OS":       "Prof. Jones",
	}
)

// Slot is the Tuple value of a (time slot, room) pair.
func Slot(time, room string) problem.Value {
	return problem.Tuple(time, room)
}

// Professor returns who teaches class.
func Professor(class problem.Variable) string {
	return professors[class]
}

// ClassScheduling returns the 4-class timetabling CSP.
//
// Description:
//
//	Each class takes a (time slot, room) value; values are listed time
//	slot first: (Mon 9AM, Room 101), (Mon 9AM, Room 102), (Mon 11AM,
//	Room 101) and so on. The room constraints "room(X,Y)" forbid two
//	classes sharing a slot and room; they are declared first, for every
//	pair. The professor constraints "professor(X,Y)" forbid one
//	professor teaching two classes at the same time and follow, for each
//	pair with a shared professor.
func ClassScheduling() *problem.CSP {
	b := problem.NewCSPBuilder()

	domain := make([]problem.Value, 0, len(timeSlots)*len(rooms))
	for _, t := range timeSlots {
		for _, r := range rooms {
			domain = append(domain, Slot(t, r))
		}
	}
	for _, c := range classes {
		check(b.AddVariable(c, domain...))
	}

	for i, x := range classes {
		for _, y := range classes[i+1:] {
			check(b.AddConstraint(problem.Distinct(fmt.Sprintf("room(%s,%s)", x, y), x, y)))
		}
	}
	for i, x := range classes {
		for _, y := range classes[i+1:] {
			if professors[x] != professors[y] {
				continue
			}
			check(b.AddConstraint(problem.DistinctField(fmt.Sprintf("professor(%s,%s)", x, y), 0, x, y)))
		}
	}
	return must(b.Build())
}

// -----------------------------------------------------------------------------
// Game tree (minimax)
// -----------------------------------------------------------------------------

// SampleGameTree returns the 2-ply tree with leaves [3, 5, 2, 9]:
//
//	        A (MAX)
//	      /        \
//	  B (MIN)     C (MIN)
//	  /    \      /    \
//	D=3   E=5   F=2   G=9
func SampleGameTree() *problem.GameTree {
	b := problem.NewGameTreeBuilder()
	check(b.AddMax("A"))
	check(b.AddMin("B"))
	check(b.AddMin("C"))
	for _, leaf := range []struct {
		id    problem.NodeID
		value float64
	}{{"D", 3}, {"E", 5}, {"F", 2}, {"G", 9}} {
		check(b.AddTerminal(leaf.id, leaf.value))
	}
	for _, e := range [][2]problem.NodeID{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"B", "E"}, {"C", "F"}, {"C", "G"}} {
		check(b.AddChild(e[0], e[1]))
	}
	return must(b.Build())
}

// -----------------------------------------------------------------------------
// Objectives (hill climbing)
// -----------------------------------------------------------------------------

// TwoPeaks returns f(x) = 2·exp(-(x-2.8)²/0.8) + 3·exp(-(x-5)²/0.8): a
// local maximum at x ≈ 2.8 and the global maximum at x ≈ 5.
func TwoPeaks() problem.Objective {
	return must(problem.Bumps(
		problem.Bump{Height: 2, Center: 2.8, Spread: 0.8},
		problem.Bump{Height: 3, Center: 5, Spread: 0.8},
	))
}

// TwoPeaksConfig starts at x = 1.0 with step 0.1 on [0, 10]. Climbing
// stops at the local maximum near 2.8.
func TwoPeaksConfig() local.Config {
	return local.Config{Start: 1.0, StepSize: 0.1, Lower: 0, Upper: 10}
}

// LectureCurve returns the curve plotted in the hill-climbing lecture,
// f(x) = sin(x)·exp(-0.1(x-5)²) + 0.5·sin(3x) + 2.
func LectureCurve() problem.Objective {
	return func(x float64) float64 {
		return math.Sin(x)*math.Exp(-0.1*(x-5)*(x-5)) + 0.5*math.Sin(3*x) + 2
	}
}

// LectureCurveConfig uses the same start, step and bounds as TwoPeaksConfig.
func LectureCurveConfig() local.Config {
	return TwoPeaksConfig()
}
