package sample

//frameState records, for one frame, the wrapped center of mass, radial bin
//index and distance to the pore axis of every residue observed inside the
//pore. Residue ids are dense, so the records are flat slices guarded by a
//presence flag instead of keyed maps.
type frameState struct {
	present []bool
	com     [][3]float64
	idx     []int
	dist    []float64
}

func newFrameState(nres int) *frameState {
	return &frameState{
		present: make([]bool, nres),
		com:     make([][3]float64, nres),
		idx:     make([]int, nres),
		dist:    make([]float64, nres),
	}
}

func (f *frameState) set(id int, com [3]float64, idx int, dist float64) {
	f.present[id] = true
	f.com[id] = com
	f.idx[id] = idx
	f.dist[id] = dist
}

func (f *frameState) clear() {
	for i := range f.present {
		f.present[i] = false
	}
}

//history is the bounded FIFO of frame states behind the windowed MSD
//sampler. Slot 0 is the oldest frame; evicted states are recycled so the
//hot loop allocates nothing once the window is full.
type history struct {
	frames []*frameState
	size   int
	nres   int
}

func newHistory(size, nres int) *history {
	return &history{frames: make([]*frameState, 0, size), size: size, nres: nres}
}

//push appends a state for the next frame, evicting the oldest one when the
//bound is reached, and returns the fresh state.
func (h *history) push() *frameState {
	var f *frameState
	if len(h.frames) == h.size {
		f = h.frames[0]
		copy(h.frames, h.frames[1:])
		h.frames[len(h.frames)-1] = f
		f.clear()
	} else {
		f = newFrameState(h.nres)
		h.frames = append(h.frames, f)
	}
	return f
}

func (h *history) full() bool {
	return len(h.frames) == h.size
}

func (h *history) at(i int) *frameState {
	return h.frames[i]
}

//intHistory is the shorter FIFO behind the transition-matrix sampler: one
//bin index per residue per frame. Every residue is classified every frame,
//so no presence flags are needed.
type intHistory struct {
	frames [][]int
	size   int
	nres   int
}

func newIntHistory(size, nres int) *intHistory {
	return &intHistory{frames: make([][]int, 0, size), size: size, nres: nres}
}

func (h *intHistory) push() []int {
	var f []int
	if len(h.frames) == h.size {
		f = h.frames[0]
		copy(h.frames, h.frames[1:])
		h.frames[len(h.frames)-1] = f
	} else {
		f = make([]int, h.nres)
		h.frames = append(h.frames, f)
	}
	return f
}

func (h *intHistory) len() int {
	return len(h.frames)
}

//fromEnd returns the frame k positions before the newest one.
func (h *intHistory) fromEnd(k int) []int {
	return h.frames[len(h.frames)-1-k]
}
