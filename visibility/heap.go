package visibility

// inactive marks a segment that is not in the heap.
const inactive = -1

// activeHeap is an indexed binary min-heap of segment indices. slot maps a
// segment index to its position in heap (or inactive), which makes removal
// of an arbitrary segment O(log n). The ordering is supplied by less and may
// change between operations (the sweep ray moves); the heap is only ever
// repaired along the path of the element being inserted or removed.
type activeHeap struct {
	heap []int
	slot []int
	less func(a, b int) bool
}

func newActiveHeap(segments int, less func(a, b int) bool) *activeHeap {
	slot := make([]int, segments)
	for i := range slot {
		slot[i] = inactive
	}
	return &activeHeap{
		heap: make([]int, 0, segments),
		slot: slot,
		less: less,
	}
}

// Len returns the number of active segments.
func (h *activeHeap) Len() int {
	return len(h.heap)
}

// Top returns the nearest active segment, or inactive when the heap is empty.
func (h *activeHeap) Top() int {
	if len(h.heap) == 0 {
		return inactive
	}
	return h.heap[0]
}

// Contains reports whether segment is active.
func (h *activeHeap) Contains(segment int) bool {
	return h.slot[segment] != inactive
}

// Push activates segment.
func (h *activeHeap) Push(segment int) {
	cur := len(h.heap)
	h.heap = append(h.heap, segment)
	h.slot[segment] = cur
	h.up(cur)
}

// Remove deactivates segment. Removing an inactive segment is a no-op.
func (h *activeHeap) Remove(segment int) {
	index := h.slot[segment]
	if index == inactive {
		return
	}
	h.slot[segment] = inactive

	last := len(h.heap) - 1
	if index == last {
		h.heap = h.heap[:last]
		return
	}

	h.heap[index] = h.heap[last]
	h.heap = h.heap[:last]
	h.slot[h.heap[index]] = index

	if index != 0 && h.less(h.heap[index], h.heap[parent(index)]) {
		h.up(index)
		return
	}
	h.down(index)
}

func (h *activeHeap) up(cur int) {
	for cur > 0 {
		p := parent(cur)
		if !h.less(h.heap[cur], h.heap[p]) {
			break
		}
		h.swap(cur, p)
		cur = p
	}
}

func (h *activeHeap) down(cur int) {
	n := len(h.heap)
	for {
		left := child(cur)
		right := left + 1
		switch {
		case left < n && h.less(h.heap[left], h.heap[cur]) &&
			(right == n || h.less(h.heap[left], h.heap[right])):
			h.swap(cur, left)
			cur = left
		case right < n && h.less(h.heap[right], h.heap[cur]):
			h.swap(cur, right)
			cur = right
		default:
			return
		}
	}
}

func (h *activeHeap) swap(i, j int) {
	h.slot[h.heap[i]] = j
	h.slot[h.heap[j]] = i
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
}

func parent(index int) int {
	return (index - 1) / 2
}

func child(index int) int {
	return 2*index + 1
}
