package optimizer

import (
	"sort"

	"github.com/bytearena/raceline/optimizer/state"
)

type transition int

const (
	transitionAdvance transition = iota
	transitionRetry
	transitionBacktrack
	transitionFail
)

func (t transition) String() string {
	switch t {
	case transitionAdvance:
		return "advance"
	case transitionRetry:
		return "retry"
	case transitionBacktrack:
		return "backtrack"
	case transitionFail:
		return "fail"
	}

	return "unknown"
}

type limits struct {
	maxRetries int
	// 0 is unbounded
	maxBacktracks int
}

// nextTransition is the retry/backtrack rule of the search
func nextTransition(solved bool, current int, retriesLeft int, backtracks int, l limits) transition {
	if solved {
		return transitionAdvance
	}

	if retriesLeft > 0 {
		return transitionRetry
	}

	if current == 0 {
		return transitionFail
	}

	if l.maxBacktracks > 0 && backtracks >= l.maxBacktracks {
		return transitionFail
	}

	return transitionBacktrack
}

// backtrackTarget is the closest earlier segment that may still be solved
// again. Every segment can be backtracked into maxRetries times (at least
// once); ok is false when segment 0 is exhausted too.
func backtrackTarget(current int, revisits map[int]int, maxRetries int) (target int, ok bool) {
	budget := maxRetries
	if budget < 1 {
		budget = 1
	}

	for target = current - 1; target >= 0; target-- {
		if revisits[target] < budget {
			return target, true
		}
	}

	return -1, false
}

// search walks the segment indices, keeping the winning result of every
// segment solved so far
type search struct {
	count  int
	limits limits

	current     int
	retriesLeft int
	backtracks  int

	results  map[int]*state.SegmentResult
	revisits map[int]int
}

func newSearch(count int, l limits) *search {
	return &search{
		count:       count,
		limits:      l,
		retriesLeft: l.maxRetries,
		results:     make(map[int]*state.SegmentResult),
		revisits:    make(map[int]int),
	}
}

func (s *search) done() bool {
	return s.current >= s.count
}

// startState is the hand-off of the previous segment, spawn for the first one
func (s *search) startState(spawn state.VehicleState) state.VehicleState {
	if s.current == 0 {
		return spawn
	}

	return s.results[s.current-1].Handoff
}

// apply records the outcome of an attempt at the current segment; result is
// nil when the attempt failed
func (s *search) apply(result *state.SegmentResult) transition {
	t := nextTransition(result != nil, s.current, s.retriesLeft, s.backtracks, s.limits)

	var target int
	if t == transitionBacktrack {
		var ok bool
		if target, ok = backtrackTarget(s.current, s.revisits, s.limits.maxRetries); !ok {
			t = transitionFail
		}
	}

	switch t {
	case transitionAdvance:
		s.results[s.current] = result
		s.current++
		s.retriesLeft = s.limits.maxRetries

	case transitionRetry:
		s.retriesLeft--

	case transitionBacktrack:
		for index := target; index <= s.current; index++ {
			delete(s.results, index)
		}
		for index := range s.revisits {
			if index > target {
				delete(s.revisits, index)
			}
		}

		s.revisits[target]++
		s.current = target
		s.retriesLeft = s.limits.maxRetries
		s.backtracks++

	case transitionFail:
		s.results = make(map[int]*state.SegmentResult)
		s.revisits = make(map[int]int)
	}

	return t
}

// ordered returns the results sorted by segment index
func (s *search) ordered() []*state.SegmentResult {
	indices := make([]int, 0, len(s.results))
	for index := range s.results {
		indices = append(indices, index)
	}

	sort.Ints(indices)

	res := make([]*state.SegmentResult, len(indices))
	for i, index := range indices {
		res[i] = s.results[index]
	}

	return res
}

// flatten chains the part of every result driven up to its goal
func (s *search) flatten() state.Trace {
	trace := make(state.Trace, 0)

	for _, result := range s.ordered() {
		trace = append(trace, result.ChainedTrace()...)
	}

	return trace
}
