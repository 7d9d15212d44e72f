package monument

import (
	"container/heap"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ringingworks/monument/compgraph"
	"github.com/ringingworks/monument/method"
	"github.com/ringingworks/monument/pattern"
	"github.com/ringingworks/monument/row"
	isearch "github.com/ringingworks/monument/search"
)

// Search is a constructed, ready-to-run query: the graph has already been
// built, optimised, and (if requested) expanded for multiple parts. NewSearch
// is the single gate every construction-time error surfaces through; once a
// Search exists, Run cannot fail.
type Search struct {
	graph    *compgraph.Graph
	methods  []*method.Method
	calls    []method.Call
	startRow row.Row
	partHead row.Row
	numParts int

	params Parameters
	bounds isearch.Bounds
	config isearch.Config
	logger zerolog.Logger
}

// NewSearch validates params, builds the composition graph, optimises it to
// a fixed point, expands it for multiple parts if params.PartHead isn't the
// identity, and returns a Search ready to run. Every error this package
// defines (ErrGraphTooLarge, ErrIncompatibleStages,
// ErrNoValidCompositions, ErrMethodCountRangeExceedsLength,
// ErrStartOrEndUnreachable, ErrNoMethods) can only be returned here.
func NewSearch(params Parameters, config Config) (*Search, error) {
	if len(params.Methods) == 0 {
		return nil, ErrNoMethods
	}
	stage := params.Methods[0].Stage()
	for _, m := range params.Methods {
		if m.Stage() != stage {
			return nil, fmt.Errorf("%w: method %q", ErrIncompatibleStages, m.Name())
		}
	}
	if params.StartRow.Stage() != stage || params.EndRow.Stage() != stage {
		return nil, fmt.Errorf("%w: start/end row", ErrIncompatibleStages)
	}
	partHead := params.PartHead
	if partHead == "" {
		partHead = row.Rounds(stage)
	}
	if partHead.Stage() != stage {
		return nil, fmt.Errorf("%w: part head", ErrIncompatibleStages)
	}
	for _, r := range params.MethodCountRanges {
		if params.Length.Max > 0 && r.Min > params.Length.Max {
			return nil, ErrMethodCountRangeExceedsLength
		}
	}

	scorer, err := newMusicScorer(params.MusicTypes, stage)
	if err != nil {
		return nil, err
	}

	graph, err := compgraph.BuildGraph(compgraph.BuildParams{
		Methods:        params.Methods,
		Calls:          params.Calls,
		StartRow:       params.StartRow,
		EndRow:         params.EndRow,
		LengthMax:      params.Length.Max,
		GraphSizeLimit: config.GraphSizeLimit,
		MusicScorer:    scorer,
	})
	if err != nil {
		return nil, translateGraphErr(err)
	}
	config.Logger.Debug().
		Int(`chunks`, len(graph.Chunks)).
		Int(`starts`, len(graph.Starts)).
		Int(`ends`, len(graph.Ends)).
		Msg(`built composition graph`)
	if len(graph.Starts) == 0 || len(graph.Ends) == 0 {
		return nil, ErrStartOrEndUnreachable
	}

	classes := graph.Classes()
	table, err := compgraph.BuildFalsenessTable(params.Methods, classes)
	if err != nil {
		return nil, translateGraphErr(err)
	}
	config.Logger.Debug().Int(`classes`, len(classes)).Msg(`built falseness table`)
	compgraph.ApplyFalseness(graph, table)

	methodCountMax := make([]int, len(params.Methods))
	methodCountMin := make([]int, len(params.Methods))
	for i, r := range params.MethodCountRanges {
		if i >= len(params.Methods) {
			break
		}
		methodCountMin[i] = r.Min
		methodCountMax[i] = r.Max
	}

	if err := compgraph.Optimise(graph, compgraph.StandardPasses(params.Length.Max, params.Length.Min, methodCountMax)); err != nil {
		return nil, translateGraphErr(err)
	}
	config.Logger.Debug().Int(`chunks`, len(graph.Chunks)).Msg(`optimiser converged`)

	numParts := 1
	if !partHead.IsRounds() {
		if err := compgraph.ExpandMultiPart(graph, partHead); err != nil {
			return nil, translateGraphErr(err)
		}
		numParts = graph.NumParts
		config.Logger.Debug().Int(`parts`, numParts).Int(`chunks`, len(graph.Chunks)).Msg(`expanded multi-part graph`)
	}

	if len(graph.Chunks) == 0 {
		return nil, ErrNoValidCompositions
	}

	nonDufferMasks := params.NonDufferCourses
	markDuffers(graph, params.Methods, nonDufferMasks)
	if err := markDistancesToNonDuffer(graph); err != nil {
		return nil, translateGraphErr(err)
	}
	if params.MaxContiguousDuffer >= 0 || params.MaxTotalDuffer >= 0 {
		if infeasibleDuffer(graph, params.MaxContiguousDuffer, params.MaxTotalDuffer) {
			return nil, ErrNoValidCompositions
		}
	}

	requiredIndex := make(map[compgraph.ChunkID]int)
	idx := 0
	for id, chunk := range graph.Chunks {
		if chunk.Required {
			requiredIndex[id] = idx
			idx++
		}
	}

	bounds := isearch.Bounds{
		LengthMin:           params.Length.Min,
		LengthMax:           params.Length.Max,
		MethodCountMin:      methodCountMin,
		MethodCountMax:      methodCountMax,
		MaxContiguousDuffer: params.MaxContiguousDuffer,
		MaxTotalDuffer:      params.MaxTotalDuffer,
		NumParts:            numParts,
		NumComps:            params.NumComps,
		RequiredIndex:       requiredIndex,
	}

	searchConfig := isearch.DefaultConfig()
	searchConfig.MemLimit = config.MemLimit
	searchConfig.LeakSearchMemory = config.LeakSearchMemory

	return &Search{
		graph:    graph,
		methods:  params.Methods,
		calls:    params.Calls,
		startRow: params.StartRow,
		partHead: partHead,
		numParts: numParts,
		params:   params,
		bounds:   bounds,
		config:   searchConfig,
		logger:   config.Logger,
	}, nil
}

// translateGraphErr maps a compgraph sentinel error onto this package's own,
// preserving the wrapped detail via errors.Is/errors.As compatibility.
func translateGraphErr(err error) error {
	switch {
	case errors.Is(err, compgraph.ErrGraphTooLarge):
		return fmt.Errorf("%w: %v", ErrGraphTooLarge, err)
	case errors.Is(err, compgraph.ErrIncompatibleStages):
		return fmt.Errorf("%w: %v", ErrIncompatibleStages, err)
	case errors.Is(err, compgraph.ErrNoValidCompositions):
		return fmt.Errorf("%w: %v", ErrNoValidCompositions, err)
	default:
		return err
	}
}

// Update is one event in the ordered stream Search.Run delivers to its
// caller: either a completed Composition, a Progress snapshot, or the
// final "search complete" signal.
type Update struct {
	Comp     *Composition
	Progress *isearch.Progress
	Complete bool
}

// Run explores the search space best-first, calling updateFn with an
// ordered stream of Updates until the frontier empties, params.NumComps
// compositions have been emitted, or abortFlag becomes true. It logs a
// Debug message every config.ItersBetweenProgressUpdates iterations (the
// same cadence the frontier itself reports Progress on) and an Info
// message once the search completes.
func (s *Search) Run(updateFn func(Update), abortFlag *atomic.Bool) {
	engine := isearch.NewEngine(s.graph, s.bounds, s.config)
	engine.Run(func(u isearch.Update) {
		out := Update{Complete: u.Complete, Progress: u.Progress}
		if u.Comp != nil {
			out.Comp = &Composition{owner: s, inner: u.Comp}
		}
		if u.Progress != nil {
			s.logger.Debug().
				Int(`iters`, u.Progress.IterCount).
				Int(`comps`, u.Progress.NumComps).
				Int(`queueLen`, u.Progress.QueueLen).
				Float64(`avgLength`, u.Progress.AvgLength).
				Bool(`truncating`, u.Progress.TruncatingQueue).
				Bool(`aborting`, u.Progress.Aborting).
				Msg(`search progress`)
		}
		if u.Complete {
			s.logger.Info().Msg(`search complete`)
		}
		updateFn(out)
	}, abortFlag)
}

// partHeadPower returns partHead raised to the given Rotation, i.e. the row
// reached after that many applications of the part-head transposition.
func (s *Search) partHeadPower(rotation compgraph.Rotation) row.Row {
	result := row.Rounds(s.partHead.Stage())
	for i := compgraph.Rotation(0); i < rotation; i++ {
		result = result.MustMul(s.partHead)
	}
	return result
}

// markDuffers sets Chunk.Duffer on every chunk whose actual course (the
// lead head transposed by every method's own course structure) matches none
// of nonDuffer. A chunk with no nonDuffer masks at all is never a duffer.
func markDuffers(g *compgraph.Graph, methods []*method.Method, nonDuffer []pattern.Mask) {
	if len(nonDuffer) == 0 {
		return
	}
	for id, chunk := range g.Chunks {
		actual := id.LeadHead.MustMul(methods[id.Method].RowAt(id.SubLeadIdx))
		chunk.Duffer = true
		for _, mask := range nonDuffer {
			if mask.Matches(actual) {
				chunk.Duffer = false
				break
			}
		}
	}
}

// markDistancesToNonDuffer runs the same two-directional shortest-distance
// sweep as compgraph's distance-propagation pass, seeded from non-duffer
// chunks instead of starts/ends, to populate
// LBDistFromNonDuffer/LBDistToNonDuffer.
func markDistancesToNonDuffer(g *compgraph.Graph) error {
	seeds := make(map[compgraph.ChunkID]int)
	for id, chunk := range g.Chunks {
		if !chunk.Duffer {
			seeds[id] = 0
		}
	}
	if len(seeds) == 0 {
		return nil
	}
	forward := shortestDistances(g, seeds, func(id compgraph.ChunkID) []compgraph.LinkID { return g.SuccLinks(id) }, func(l *compgraph.Link) compgraph.ChunkID { return l.To.Chunk })
	backward := shortestDistances(g, seeds, func(id compgraph.ChunkID) []compgraph.LinkID { return g.PredLinks(id) }, func(l *compgraph.Link) compgraph.ChunkID { return l.From.Chunk })
	for id, chunk := range g.Chunks {
		if d, ok := forward[id]; ok {
			chunk.LBDistFromNonDuffer = d
		}
		if d, ok := backward[id]; ok {
			chunk.LBDistToNonDuffer = d
		}
	}
	return nil
}

type distItem struct {
	id   compgraph.ChunkID
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

// shortestDistances runs Dijkstra over g from seeds (chunk id -> initial
// distance), walking edges via links(id) and resolving each link's opposite
// endpoint via otherEnd. Mirrors compgraph's own DistancePropagationPass,
// generalised to an arbitrary seed set.
func shortestDistances(g *compgraph.Graph, seeds map[compgraph.ChunkID]int, links func(compgraph.ChunkID) []compgraph.LinkID, otherEnd func(*compgraph.Link) compgraph.ChunkID) map[compgraph.ChunkID]int {
	dist := make(map[compgraph.ChunkID]int, len(seeds))
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
			nd := item.dist + chunk.PerPartLength
			if existing, ok := dist[next]; !ok || nd < existing {
				dist[next] = nd
				heap.Push(h, distItem{id: next, dist: nd})
			}
		}
	}
	return dist
}

// infeasibleDuffer reports whether every chunk's own duffer-run bounds
// already exceed the configured maxima, proving no composition can satisfy
// them regardless of path chosen.
func infeasibleDuffer(g *compgraph.Graph, maxContiguous, maxTotal int) bool {
	if len(g.Chunks) == 0 {
		return false
	}
	for _, chunk := range g.Chunks {
		if !chunk.Duffer {
			return false
		}
		if maxContiguous >= 0 && chunk.PerPartLength > maxContiguous {
			continue
		}
		if maxTotal >= 0 && chunk.TotalLength > maxTotal {
			continue
		}
		return false
	}
	return true
}
