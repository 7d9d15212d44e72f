package monument

import (
	"github.com/ringingworks/monument/compgraph"
	"github.com/ringingworks/monument/pattern"
	"github.com/ringingworks/monument/row"
)

// musicScorer adapts a []MusicType into the compgraph.MusicScorer seam.
// Matching a Pattern against one row is the external-collaborator
// boundary the spec draws around the pattern matcher; this type owns only
// the data-model plumbing (Pattern -> Mask expansion, stroke gating,
// weighted accumulation) and delegates the actual per-row test to
// Mask.Matches.
type musicScorer struct {
	types []compiledMusicType
}

type compiledMusicType struct {
	masks  []pattern.Mask
	weight float64
	stroke int
}

// newMusicScorer compiles types' Patterns into Masks once, up front, so
// Score never re-parses or re-expands a Pattern per row.
func newMusicScorer(types []MusicType, stage row.Stage) (*musicScorer, error) {
	compiled := make([]compiledMusicType, len(types))
	for i, mt := range types {
		masks := make([]pattern.Mask, len(mt.Patterns))
		for j, p := range mt.Patterns {
			if p.Stage() != stage {
				return nil, ErrIncompatibleStages
			}
			m, err := p.ToMask()
			if err != nil {
				return nil, err
			}
			masks[j] = m
		}
		compiled[i] = compiledMusicType{masks: masks, weight: mt.Weight, stroke: mt.Stroke}
	}
	return &musicScorer{types: compiled}, nil
}

// Score implements compgraph.MusicScorer. Stroke gating treats rows[0] as
// handstroke (index parity 0) and alternates from there; this is exact
// whenever every chunk in the graph has an even segment length (true for
// every method this package has been exercised against), and is otherwise
// a documented approximation, since compgraph.MusicScorer deliberately
// carries no sense of a chunk's absolute position in the composition.
func (s *musicScorer) Score(rows []row.Row) compgraph.Music {
	counts := make([]uint64, len(s.types))
	var score float64
	for i, rw := range rows {
		handstroke := i%2 == 0
		for ti, mt := range s.types {
			if mt.stroke > 0 && !handstroke {
				continue
			}
			if mt.stroke < 0 && handstroke {
				continue
			}
			for _, m := range mt.masks {
				if m.Matches(rw) {
					counts[ti]++
					score += mt.weight
					break
				}
			}
		}
	}
	return compgraph.Music{Score: score, Counts: counts}
}
