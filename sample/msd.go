package sample

import pore "github.com/aklein/gopore"

//sampleMSD advances the windowed MSD state machine for one residue in the
//newest frame. Molecules are tracked only while inside the pore and not
//broken; a residue missing from a frame simply stays absent from that
//frame's state. While the history is still filling no displacement is
//emitted. Once it is full, the oldest slot is the reference of the window
//ending at the current frame, and the walk below visits the history at the
//configured stride.
//
//The walk stops at the first offset where the residue is absent or has
//drifted more than binStepSize bins from its reference bin. Offsets
//accumulated before the stop still count toward the total curves (the
//drifted offset itself included); the bin-restricted curves only receive
//windows whose walk completed all offsets within the drift bound. Both are
//indexed by the reference bin. This asymmetry is deliberate: the total
//curves measure unconditional mobility out of each starting bin, the
//restricted ones isolate diffusion local to one radial shell.
func (s *Sampler) sampleMSD(d *msdData, h *history, st *frameState, id int, region pore.Region, broken bool, dist float64, com [3]float64) {
	if region != pore.RegionIn || broken {
		return
	}
	in := s.msd
	st.set(id, com, in.desc.Index(dist), dist)
	if !h.full() {
		return
	}
	ref := h.at(0)
	if !ref.present[id] {
		return
	}
	refCom := ref.com[id]
	refIdx := ref.idx[id]
	refDist := ref.dist[id]
	if refIdx > in.binNum {
		return
	}

	walked := 0 //offsets that count toward the total curves
	clean := 0  //offsets that stayed within the allowed drift
	for w := 0; w < in.lenWindow; w++ {
		fs := h.at(w * in.lenStep)
		if !fs.present[id] {
			break
		}
		dz := refCom[2] - fs.com[id][2]
		dr := refDist - fs.dist[id]
		d.scratchZ[w] = dz * dz
		d.scratchR[w] = dr * dr
		walked = w + 1
		drift := fs.idx[id] - refIdx
		if drift < 0 {
			drift = -drift
		}
		if drift > in.binStepSize {
			break
		}
		clean++
	}

	restricted := clean == in.lenWindow
	for w := 0; w < walked; w++ {
		d.zTot[refIdx][w] += d.scratchZ[w]
		d.rTot[refIdx][w] += d.scratchR[w]
		d.nTot[refIdx][w]++
		if restricted {
			d.z[refIdx][w] += d.scratchZ[w]
			d.r[refIdx][w] += d.scratchR[w]
			d.n[refIdx][w]++
		}
	}
}
