package compgraph

import "container/heap"

// Pass is a named transformation over a Graph. Passes must be monotone
// under composition: they may only remove chunks/links or tighten bounds,
// never add or loosen.
type Pass interface {
	Name() string
	Run(g *Graph) error
}

// MaxOptimiseIterations bounds the fixed-point loop so a bug in a pass
// (one that keeps finding something to shrink forever) can't hang the
// optimiser; in practice every standard pass set converges in a handful of
// iterations.
const MaxOptimiseIterations = 1000

// Optimise repeatedly runs every pass over g until Size stops strictly
// shrinking (or becomes incomparable, or MaxOptimiseIterations is hit).
func Optimise(g *Graph, passes []Pass) error {
	sizePrev := SizeOf(g)
	for iter := 0; iter < MaxOptimiseIterations; iter++ {
		for _, p := range passes {
			if err := p.Run(g); err != nil {
				return err
			}
		}
		sizeNew := SizeOf(g)
		if !sizeNew.StrictlySmaller(sizePrev) {
			return nil
		}
		sizePrev = sizeNew
	}
	return nil
}

// StandardPasses returns the passes table in the spec's recommended order:
// distance propagation, length prune, required-chunk detection, method
// count prune, falseness prune, start/end trim, dead link prune.
func StandardPasses(lengthMax, lengthMin int, methodCountMax []int) []Pass {
	return []Pass{
		DistancePropagationPass{},
		LengthPrunePass{Max: lengthMax, Min: lengthMin},
		RequiredChunksPass{},
		MethodCountPrunePass{Max: methodCountMax},
		FalsenessPrunePass{},
		StartEndTrimPass{},
		DeadLinkPrunePass{},
	}
}

// --- Distance propagation ---------------------------------------------

// DistancePropagationPass runs Dijkstra from the starts forward to set
// LBDistFromRounds, and from the ends backward to set LBDistToRounds.
type DistancePropagationPass struct{}

func (DistancePropagationPass) Name() string { return "distance-propagation" }

func (DistancePropagationPass) Run(g *Graph) error {
	forward := shortestDistances(g, startSeeds(g), func(id ChunkID) []LinkID { return g.SuccLinks(id) }, func(l *Link) ChunkID { return l.To.Chunk })
	backward := shortestDistances(g, endSeeds(g), func(id ChunkID) []LinkID { return g.PredLinks(id) }, func(l *Link) ChunkID { return l.From.Chunk })
	for id, chunk := range g.Chunks {
		if d, ok := forward[id]; ok {
			chunk.LBDistFromRounds = d
		}
		if d, ok := backward[id]; ok {
			chunk.LBDistToRounds = d
		}
	}
	return nil
}

func startSeeds(g *Graph) map[ChunkID]int {
	seeds := make(map[ChunkID]int)
	for _, s := range g.Starts {
		if _, ok := g.Chunks[s.Chunk]; ok {
			seeds[s.Chunk] = 0
		}
	}
	return seeds
}

func endSeeds(g *Graph) map[ChunkID]int {
	seeds := make(map[ChunkID]int)
	for _, e := range g.Ends {
		if _, ok := g.Chunks[e.Chunk]; ok {
			seeds[e.Chunk] = 0
		}
	}
	return seeds
}

type distItem struct {
	id   ChunkID
	dist int
}
type distHeap []distItem

func (h distHeap) Len() int            { return len(h) }
func (h distHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x interface{}) { *h = append(*h, x.(distItem)) }
func (h *distHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// shortestDistances runs Dijkstra over g from seeds (id -> initial
// distance), walking edges via links(id) and resolving each link's
// opposite endpoint via otherEnd.
func shortestDistances(g *Graph, seeds map[ChunkID]int, links func(ChunkID) []LinkID, otherEnd func(*Link) ChunkID) map[ChunkID]int {
	dist := make(map[ChunkID]int, len(seeds))
	h := &distHeap{}
	heap.Init(h)
	for id, d := range seeds {
		dist[id] = d
		heap.Push(h, distItem{id: id, dist: d})
	}
	for h.Len() > 0 {
		item := heap.Pop(h).(distItem)
		if best, ok := dist[item.id]; ok && best < item.dist {
			continue
		}
		chunk := g.Chunks[item.id]
		if chunk == nil {
			continue
		}
		for _, lid := range links(item.id) {
			link := g.Links[lid]
			if link == nil {
				continue
			}
			next := otherEnd(link)
			if _, ok := g.Chunks[next]; !ok {
				continue
			}
			// Advancing from item.id to next always costs item.id's own
			// PerPartLength, regardless of direction: forward, that's the
			// rows rung to get from item.id's start to next's start;
			// backward, it's the rows rung from next's end (this walk's
			// start) through item.id to reach whatever lies beyond it.
			nd := item.dist + chunk.PerPartLength
			if existing, ok := dist[next]; !ok || nd < existing {
				dist[next] = nd
				heap.Push(h, distItem{id: next, dist: nd})
			}
		}
	}
	return dist
}

// --- Length prune --------------------------------------------------------

// LengthPrunePass removes chunks whose MinCompLength exceeds Max. Min is
// carried but not used: no chunk is removed for being unable to reach Min.
type LengthPrunePass struct{ Max, Min int }

func (LengthPrunePass) Name() string { return "length-prune" }

func (p LengthPrunePass) Run(g *Graph) error {
	for id, chunk := range g.Chunks {
		if chunk.MinCompLength() > p.Max {
			g.RemoveChunk(id)
		}
	}
	return nil
}

// --- Required-chunk detection -------------------------------------------

// RequiredChunksPass marks a chunk required if every start-to-end path in
// the graph visits it: equivalently, removing it disconnects every start
// from every end.
type RequiredChunksPass struct{}

func (RequiredChunksPass) Name() string { return "required-chunks" }

func (RequiredChunksPass) Run(g *Graph) error {
	for id, chunk := range g.Chunks {
		chunk.Required = !canReachEndWithout(g, id)
	}
	return nil
}

// reachableFromStarts returns the set of chunks reachable from any start,
// optionally skipping the chunk named by skip.
func reachableFromStarts(g *Graph, skip ChunkID) map[ChunkID]struct{} {
	seen := make(map[ChunkID]struct{})
	var stack []ChunkID
	for _, s := range g.Starts {
		if s.Chunk != skip {
			stack = append(stack, s.Chunk)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[id]; ok {
			continue
		}
		if id == skip {
			continue
		}
		if _, ok := g.Chunks[id]; !ok {
			continue
		}
		seen[id] = struct{}{}
		for _, lid := range g.SuccLinks(id) {
			link := g.Links[lid]
			if link == nil || link.IsEnd {
				continue
			}
			stack = append(stack, link.To.Chunk)
		}
	}
	return seen
}

// canReachEndWithout reports whether some start-to-end path avoiding
// "without" still exists.
func canReachEndWithout(g *Graph, without ChunkID) bool {
	reached := reachableFromStarts(g, without)
	for _, e := range g.Ends {
		if e.Chunk == without {
			continue
		}
		if _, ok := reached[e.Chunk]; ok {
			return true
		}
	}
	return false
}

// --- Method count prune --------------------------------------------------

// MethodCountPrunePass removes chunks that would force some method's row
// count above Max, using the required chunks' own counts as a baseline
// lower bound. A zero Max entry leaves that method unbounded, as it does in
// package search.
type MethodCountPrunePass struct{ Max []int }

func (MethodCountPrunePass) Name() string { return "method-count-prune" }

func (p MethodCountPrunePass) Run(g *Graph) error {
	if len(p.Max) == 0 {
		return nil
	}
	baseline := make([]int, len(p.Max))
	for _, chunk := range g.Chunks {
		if !chunk.Required {
			continue
		}
		for mi, c := range chunk.MethodCounts {
			if mi < len(baseline) {
				baseline[mi] += c
			}
		}
	}
	for id, chunk := range g.Chunks {
		for mi, c := range chunk.MethodCounts {
			if mi >= len(p.Max) {
				continue
			}
			if p.Max[mi] > 0 && baseline[mi]+c > p.Max[mi] && !chunk.Required {
				g.RemoveChunk(id)
				break
			}
		}
	}
	return nil
}

// --- Falseness prune ------------------------------------------------------

// FalsenessPrunePass removes any chunk false against a required chunk; if
// two required chunks are mutually false the graph is infeasible and is
// emptied.
type FalsenessPrunePass struct{}

func (FalsenessPrunePass) Name() string { return "falseness-prune" }

func (p FalsenessPrunePass) Run(g *Graph) error {
	var required []ChunkID
	for id, chunk := range g.Chunks {
		if chunk.Required {
			required = append(required, id)
		}
	}
	for i, a := range required {
		for j, b := range required {
			if i == j {
				continue
			}
			if chunkListContains(g.Chunks[a].FalseChunks, b) {
				emptyGraph(g)
				return nil
			}
		}
	}
	for _, req := range required {
		falseSet := g.Chunks[req]
		if falseSet == nil {
			continue
		}
		for id := range g.Chunks {
			if chunkListContains(falseSet.FalseChunks, id) && id != req {
				g.RemoveChunk(id)
			}
		}
	}
	return nil
}

func chunkListContains(list []ChunkID, id ChunkID) bool {
	for _, c := range list {
		if c == id {
			return true
		}
	}
	return false
}

func emptyGraph(g *Graph) {
	g.Chunks = make(map[ChunkID]*Chunk)
	g.Links = make(map[LinkID]*Link)
	g.Starts = nil
	g.Ends = nil
}

// --- Start/end trim -------------------------------------------------------

// StartEndTrimPass removes start or end entries whose target chunk has
// been removed.
type StartEndTrimPass struct{}

func (StartEndTrimPass) Name() string { return "start-end-trim" }

func (StartEndTrimPass) Run(g *Graph) error {
	starts := g.Starts[:0]
	for _, s := range g.Starts {
		if _, ok := g.Chunks[s.Chunk]; ok {
			starts = append(starts, s)
		}
	}
	g.Starts = starts

	ends := g.Ends[:0]
	for _, e := range g.Ends {
		if _, ok := g.Chunks[e.Chunk]; ok {
			ends = append(ends, e)
		}
	}
	g.Ends = ends
	return nil
}

// --- Dead link prune -------------------------------------------------------

// DeadLinkPrunePass removes links whose chunk-valued endpoint is absent.
type DeadLinkPrunePass struct{}

func (DeadLinkPrunePass) Name() string { return "dead-link-prune" }

func (DeadLinkPrunePass) Run(g *Graph) error {
	for id, link := range g.Links {
		if !link.IsStart {
			if _, ok := g.Chunks[link.From.Chunk]; !ok {
				g.RemoveLink(id)
				continue
			}
		}
		if !link.IsEnd {
			if _, ok := g.Chunks[link.To.Chunk]; !ok {
				g.RemoveLink(id)
			}
		}
	}
	return nil
}
