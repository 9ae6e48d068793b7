package sample

//sampleMC classifies one residue into the padded axial descriptor and, for
//every configured lag with a deep enough history, counts the transition
//from the bin occupied lag frames ago to the current one. Broken molecules
//are classified like any other; the padding cells absorb anything outside
//the box.
//
//Workers after the first hold back until their history is built entirely
//from frames at or past their official chunk start: the frame-id guard
//keeps boundary-adjacent transitions from being counted by two workers.
func (s *Sampler) sampleMC(d *mcData, h *intHistory, st []int, id int, com [3]float64, c chunk, frameID int) {
	in := s.mc
	st[id] = in.desc.Digitize(com[2])
	if c.start != 0 && frameID < c.start+in.maxStep {
		return
	}
	for _, step := range in.lenSteps {
		if h.len() < step+1 {
			continue
		}
		start := h.fromEnd(step)[id]
		end := st[id]
		m := d.mats[step]
		m.Set(end, start, m.At(end, start)+1)
	}
}
