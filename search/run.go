package search

import (
	"container/heap"
	"sort"
	"sync/atomic"

	"github.com/ringingworks/monument/compgraph"
)

// engine holds all search data and policy, following the dedicated-struct
// pattern used for bounded search elsewhere in this codebase: explicit
// dependencies, a predictable hot path, and no captured closures to reason
// about.
type engine struct {
	graph  *compgraph.Graph
	bounds Bounds
	config Config

	frontier   frontierHeap
	nextSeq    uint64
	generation uint64
}

// NewEngine builds a search engine over graph, ready to Run.
func NewEngine(graph *compgraph.Graph, bounds Bounds, config Config) *engine {
	return &engine{graph: graph, bounds: bounds, config: config}
}

// Run executes the best-first search to completion (or abort), invoking
// updateFn with an ordered stream of Updates and returning only once the
// frontier empties, num_comps compositions have been emitted, or
// abortFlag becomes true.
func (e *engine) Run(updateFn func(Update), abortFlag *atomic.Bool) {
	e.seedStarts()

	iterCount := 0
	numComps := 0
	aborting := false

	cfg := e.config
	if cfg.ItersBetweenAbortChecks == 0 {
		cfg.ItersBetweenAbortChecks = DefaultConfig().ItersBetweenAbortChecks
	}
	if cfg.ItersBetweenProgressUpdates == 0 {
		cfg.ItersBetweenProgressUpdates = DefaultConfig().ItersBetweenProgressUpdates
	}

	for e.frontier.Len() > 0 {
		prefix := heap.Pop(&e.frontier).(*Prefix)
		comp := e.expand(prefix, updateFn)
		if comp != nil {
			updateFn(Update{Comp: comp})
			numComps++
			if e.bounds.NumComps > 0 && numComps >= e.bounds.NumComps {
				break
			}
		}

		if e.memUsage() >= e.config.MemLimit && e.config.MemLimit > 0 {
			e.sendProgress(updateFn, iterCount, numComps, true, false)
			e.truncate()
			e.sendProgress(updateFn, iterCount, numComps, false, false)
		}

		iterCount++
		if iterCount%cfg.ItersBetweenAbortChecks == 0 && abortFlag != nil && abortFlag.Load() {
			aborting = true
			e.sendProgress(updateFn, iterCount, numComps, false, true)
			break
		}
		if iterCount%cfg.ItersBetweenProgressUpdates == 0 {
			e.sendProgress(updateFn, iterCount, numComps, false, false)
		}
	}

	if !aborting {
		e.sendProgress(updateFn, iterCount, numComps, false, false)
	}
	updateFn(Update{Complete: true})

	if !e.config.LeakSearchMemory {
		// Drop the frontier so the garbage collector can reclaim it. With
		// LeakSearchMemory set (the original's mem::forget) e.frontier is
		// simply not cleared; there is no equivalent of opting a slice out
		// of GC, so the setting is advisory only.
		e.frontier = nil
	}
}

// seedStarts initialises the frontier with one Prefix per graph start.
func (e *engine) seedStarts() {
	heap.Init(&e.frontier)
	numMethods := 0
	for _, c := range e.graph.Chunks {
		if len(c.MethodCounts) > numMethods {
			numMethods = len(c.MethodCounts)
		}
	}
	for _, s := range e.graph.Starts {
		chunk := e.graph.Chunks[s.Chunk]
		if chunk == nil {
			continue
		}
		p := &Prefix{
			head:         &pathNode{chunk: s.Chunk, link: s.Link},
			Chunk:        s.Chunk,
			MethodCounts: make([]int, numMethods),
			seq:          e.nextSeq,
		}
		e.nextSeq++
		for mi, c := range chunk.MethodCounts {
			p.MethodCounts[mi] += c
		}
		p.Length += chunk.TotalLength
		p.Score += chunk.Music.Score
		p.MusicCounts = append([]uint64(nil), chunk.Music.Counts...)
		if chunk.Duffer {
			p.DufferRun = chunk.TotalLength
			p.TotalDuffer = chunk.TotalLength
		}
		if idx, ok := e.bounds.RequiredIndex[s.Chunk]; ok {
			p.requiredMask |= 1 << uint(idx)
		}
		heap.Push(&e.frontier, p)
	}
}

// memUsage estimates the frontier's heap footprint, used by the
// memory-bound truncation check.
func (e *engine) memUsage() int {
	total := 0
	for _, p := range e.frontier {
		total += p.approxSize()
	}
	// Every Prefix's path necessarily threads back through at least one
	// pathNode, and the arena's total size is bounded by (at most) one
	// node per Prefix per expansion step so far; approximate it as one
	// node per live Prefix, which undercounts shared ancestry but never
	// more than the true shared-tree size.
	total += len(e.frontier) * approxPathNodeSize
	return total
}

// truncate halves the frontier, keeping the top half by density. Since
// Go's garbage collector reclaims any pathNode no longer reachable from a
// surviving Prefix's head automatically, there is no separate GC pass to
// run afterward (unlike the Rust original's explicit Paths.gc sweep) —
// dropping the losing Prefixes is itself the collection trigger.
func (e *engine) truncate() {
	sort.Slice(e.frontier, func(i, j int) bool {
		return e.frontier[i].density() > e.frontier[j].density()
	})
	newLen := len(e.frontier) / 2
	for i := newLen; i < len(e.frontier); i++ {
		e.frontier[i] = nil
	}
	e.frontier = e.frontier[:newLen]
	heap.Init(&e.frontier)
}

func (e *engine) sendProgress(updateFn func(Update), iterCount, numComps int, truncating, aborting bool) {
	var totalLen, maxLen int
	for _, p := range e.frontier {
		totalLen += p.Length
		if p.Length > maxLen {
			maxLen = p.Length
		}
	}
	avg := 0.0
	if len(e.frontier) > 0 {
		avg = float64(totalLen) / float64(len(e.frontier))
	}
	updateFn(Update{Progress: &Progress{
		IterCount:       iterCount,
		NumComps:        numComps,
		QueueLen:        len(e.frontier),
		AvgLength:       avg,
		MaxLength:       maxLen,
		TruncatingQueue: truncating,
		Aborting:        aborting,
	}})
}
