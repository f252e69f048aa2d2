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
	"container/heap"

	"github.com/AleutianAI/searchtrace/services/search/problem"
)

// item is one frontier entry. A node re-inserted after a g improvement gets
// a new item with a new seq; the old item goes stale and is skipped on pop.
type item struct {
	id  problem.NodeID
	g   float64
	f   float64
	seq uint64
}

// entries implements heap.Interface ordered by (f, seq), which makes the
// queue stable: among equal f the earliest insertion wins.
type entries []item

func (e entries) Len() int { return len(e) }

func (e entries) Less(i, j int) bool {
	if e[i].f != e[j].f {
		return e[i].f < e[j].f
	}
	return e[i].seq < e[j].seq
}

func (e entries) Swap(i, j int) { e[i], e[j] = e[j], e[i] }

func (e *entries) Push(x any) { *e = append(*e, x.(item)) }

func (e *entries) Pop() any {
	old := *e
	n := len(old)
	it := old[n-1]
	*e = old[:n-1]
	return it
}

// frontier is a stable priority queue with lazy deletion of superseded entries.
type frontier struct {
	heap   entries
	latest map[problem.NodeID]uint64
	next   uint64
	live   int
}

func newFrontier() *frontier {
	return &frontier{latest: make(map[problem.NodeID]uint64)}
}

// push inserts id, superseding any earlier entry for it.
func (q *frontier) push(id problem.NodeID, g, f float64) {
	if _, queued := q.latest[id]; !queued {
		q.live++
	}
	q.next++
	q.latest[id] = q.next
	heap.Push(&q.heap, item{id: id, g: g, f: f, seq: q.next})
}

// pop removes the live entry with the lowest (f, seq).
func (q *frontier) pop() (item, bool) {
	for q.heap.Len() > 0 {
		it := heap.Pop(&q.heap).(item)
		if q.latest[it.id] != it.seq {
			continue
		}
		delete(q.latest, it.id)
		q.live--
		return it, true
	}
	return item{}, false
}

// size is the number of distinct nodes waiting in the frontier.
func (q *frontier) size() int {
	return q.live
}
