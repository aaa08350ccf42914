package engine

import (
	"container/heap"
	"math/rand"

	"godesign/domain/core"
)

// Frontier is the strategy-ordered collection of pending candidates.
// Implementations are not safe for concurrent use; the explorer owns them.
type Frontier interface {
	Push(c *Candidate)
	Pop() (*Candidate, bool)
	Len() int
}

// NewFrontier builds the frontier discipline for a strategy. heuristic is
// only consulted by best_first; rng only by random.
func NewFrontier(strategy Strategy, heuristic Heuristic, rng *rand.Rand) (Frontier, error) {
	switch strategy {
	case StrategyBreadthFirst:
		return &fifoFrontier{}, nil
	case StrategyDepthFirst:
		return &lifoFrontier{}, nil
	case StrategyBestFirst:
		if heuristic == nil {
			heuristic = DefaultHeuristic
		}
		f := &bestFrontier{heuristic: heuristic}
		heap.Init(&f.entries)
		return f, nil
	case StrategyRandom:
		return &randomFrontier{rng: rng}, nil
	}
	return nil, core.ConfigurationError("strategy", core.ErrConfiguration)
}

// fifoFrontier visits all candidates at depth k before depth k+1
type fifoFrontier struct {
	items []*Candidate
	head  int
}

func (f *fifoFrontier) Push(c *Candidate) {
	f.items = append(f.items, c)
}

func (f *fifoFrontier) Pop() (*Candidate, bool) {
	if f.head >= len(f.items) {
		return nil, false
	}
	c := f.items[f.head]
	f.items[f.head] = nil
	f.head++
	if f.head > 64 && f.head*2 > len(f.items) {
		f.items = append([]*Candidate(nil), f.items[f.head:]...)
		f.head = 0
	}
	return c, true
}

func (f *fifoFrontier) Len() int { return len(f.items) - f.head }

// lifoFrontier drives one branch to completion before touching siblings
type lifoFrontier struct {
	items []*Candidate
}

func (f *lifoFrontier) Push(c *Candidate) {
	f.items = append(f.items, c)
}

func (f *lifoFrontier) Pop() (*Candidate, bool) {
	n := len(f.items)
	if n == 0 {
		return nil, false
	}
	c := f.items[n-1]
	f.items[n-1] = nil
	f.items = f.items[:n-1]
	return c, true
}

func (f *lifoFrontier) Len() int { return len(f.items) }

// bestFrontier orders by heuristic score, then depth, then fingerprint, then
// insertion order so the ordering is total and deterministic
type bestFrontier struct {
	heuristic Heuristic
	entries   bestHeap
	counter   uint64
}

type bestEntry struct {
	candidate *Candidate
	score     float64
	order     uint64
}

type bestHeap []bestEntry

func (h bestHeap) Len() int { return len(h) }

func (h bestHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	if h[i].candidate.Depth != h[j].candidate.Depth {
		return h[i].candidate.Depth < h[j].candidate.Depth
	}
	if h[i].candidate.Fingerprint != h[j].candidate.Fingerprint {
		return h[i].candidate.Fingerprint < h[j].candidate.Fingerprint
	}
	return h[i].order < h[j].order
}

func (h bestHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *bestHeap) Push(x interface{}) { *h = append(*h, x.(bestEntry)) }

func (h *bestHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

func (f *bestFrontier) Push(c *Candidate) {
	f.counter++
	heap.Push(&f.entries, bestEntry{candidate: c, score: f.heuristic(c), order: f.counter})
}

func (f *bestFrontier) Pop() (*Candidate, bool) {
	if f.entries.Len() == 0 {
		return nil, false
	}
	e := heap.Pop(&f.entries).(bestEntry)
	return e.candidate, true
}

func (f *bestFrontier) Len() int { return f.entries.Len() }

// randomFrontier removes a uniformly random element from the whole frontier
// each step; every pending candidate is equally eligible every step
type randomFrontier struct {
	items []*Candidate
	rng   *rand.Rand
}

func (f *randomFrontier) Push(c *Candidate) {
	f.items = append(f.items, c)
}

func (f *randomFrontier) Pop() (*Candidate, bool) {
	n := len(f.items)
	if n == 0 {
		return nil, false
	}
	i := 0
	if f.rng != nil {
		i = f.rng.Intn(n)
	}
	c := f.items[i]
	f.items[i] = f.items[n-1]
	f.items[n-1] = nil
	f.items = f.items[:n-1]
	return c, true
}

func (f *randomFrontier) Len() int { return len(f.items) }
