package search

// frontierHeap is a max-heap of *Prefix ordered by score density, with
// insertion sequence as a deterministic tie-break: lower seq (inserted
// earlier) wins ties, so composition emission order is reproducible given
// identical inputs.
type frontierHeap []*Prefix

func (h frontierHeap) Len() int { return len(h) }

func (h frontierHeap) Less(i, j int) bool {
	di, dj := h[i].density(), h[j].density()
	if di != dj {
		return di > dj // max-heap: higher density pops first
	}
	return h[i].seq < h[j].seq
}

func (h frontierHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap) Push(x interface{}) {
	*h = append(*h, x.(*Prefix))
}

func (h *frontierHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
