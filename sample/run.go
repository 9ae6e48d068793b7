package sample

import (
	"fmt"
	"io"

	pore "github.com/aklein/gopore"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

//chunk is one worker's share of the trajectory. start/end is the official,
//exclusive frame range the worker's statistics belong to; readStart/readEnd
//is the range it actually reads, extended backward to pre-fill the MSD
//sliding window and forward to complete the last transition-matrix lags.
type chunk struct {
	start, end         int
	readStart, readEnd int
}

//partition splits [0, frames) into contiguous, as-even-as-possible chunks,
//one per worker, and applies the window/lag overlap of the enabled
//statistics. Workers beyond the frame count are dropped.
func (s *Sampler) partition(frames, workers int) []chunk {
	if workers > frames {
		workers = frames
	}
	if workers < 1 {
		workers = 1
	}
	size := frames / workers
	chunks := make([]chunk, workers)
	for i := range chunks {
		c := chunk{start: size * i, end: size * (i + 1)}
		if i == workers-1 {
			c.end = frames
		}
		c.readStart = c.start
		c.readEnd = c.end
		if s.msd != nil && i > 0 {
			c.readStart = c.start - s.msd.fill() + 1
			if c.readStart < 0 {
				c.readStart = 0
			}
		}
		if s.mc != nil && i < workers-1 {
			c.readEnd = c.end + s.mc.maxStep
			if c.readEnd > frames {
				c.readEnd = frames
			}
		}
		chunks[i] = c
	}
	return chunks
}

//Sample runs all enabled sampling routines over the trajectory and returns
//the merged, configuration-tagged results. Every worker opens its own
//reader through opener; frames is the total frame count of the trajectory.
//The job fails as a whole on the first worker error: partial results are
//never returned.
func (s *Sampler) Sample(opener pore.Opener, frames int, options ...*Options) (*Results, error) {
	o := DefaultOptions()
	if len(options) > 0 {
		o = options[0]
	}
	if err := s.prepare(opener, frames, o); err != nil {
		return nil, err
	}
	chunks := s.partition(frames, o.cpus)
	o.log.Info("sampling trajectory",
		zap.Int("frames", frames),
		zap.Int("residues", len(s.res)),
		zap.Int("workers", len(chunks)))

	type workerOut struct {
		part *partial
		err  error
	}
	out := make(chan workerOut, len(chunks))
	for i, c := range chunks {
		go func(i int, c chunk) {
			p, err := s.runWorker(c, opener, o, i)
			out <- workerOut{part: p, err: err}
		}(i, c)
	}
	parts := make([]*partial, 0, len(chunks))
	var firstErr error
	for range chunks { //join before merge
		w := <-out
		if w.err != nil && firstErr == nil {
			firstErr = w.err
		}
		parts = append(parts, w.part)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	total := s.merge(parts)
	o.log.Info("sampling finished", zap.Int("frames", frames))
	return s.results(total, frames, o), nil
}

func (s *Sampler) runWorker(c chunk, opener pore.Opener, o *Options, worker int) (*partial, error) {
	t, err := opener()
	if err != nil {
		return nil, fmt.Errorf("sample: worker %d: opening trajectory: %w", worker, err)
	}
	defer closeTraj(t)
	if t.Len() != s.natoms {
		return nil, fmt.Errorf("sample: worker %d: reader reports %d atoms, expected %d", worker, t.Len(), s.natoms)
	}
	for i := 0; i < c.readStart; i++ {
		if err := t.Next(nil); err != nil {
			return nil, workerReadErr(worker, i, err)
		}
	}

	p := s.newPartial()
	var msdH *history
	var mcH *intHistory
	if s.msd != nil {
		msdH = newHistory(s.msd.fill(), len(s.res))
	}
	if s.mc != nil {
		mcH = newIntHistory(s.mc.maxStep+1, len(s.res))
	}
	shift := [3]float64{o.shift[0], o.shift[1], o.shift[2]}
	box := s.geom.Box()
	masses := s.mol.Masses()
	needBroken := s.density != nil || s.msd != nil
	frame := mat.NewDense(s.natoms, 3, nil)

	for id := c.readStart; id < c.readEnd; id++ {
		if err := t.Next(frame); err != nil {
			return nil, workerReadErr(worker, id, err)
		}
		var msdSt *frameState
		var mcSt []int
		if msdH != nil {
			msdSt = msdH.push()
		}
		if mcH != nil {
			mcSt = mcH.push()
		}
		//Boundary frames read for window backfill or lag lookahead fill
		//the histories but are counted only by the worker owning them.
		isSample := id >= c.start && id < c.end

		for _, r := range s.res {
			com := pore.COM(frame, r, masses, shift)
			broken := needBroken && pore.Broken(frame, r, com, box, shift)
			wrapped := com
			if o.pbc {
				wrapped = pore.Wrap(com, box)
			}
			dist := s.geom.DistanceToAxis(wrapped)
			region := pore.ClassifyRegion(s.geom, s.entry, wrapped)

			if isSample {
				if s.density != nil && !broken {
					p.density.add(s.geom, s.density, region, dist, wrapped, 1)
				}
				if s.gyration != nil {
					rg := pore.RadiusOfGyration(frame, r, masses, com, shift)
					p.gyration.add(s.geom, s.gyration, region, dist, wrapped, rg)
				}
			}
			if s.msd != nil {
				s.sampleMSD(p.msd, msdH, msdSt, r.ID, region, broken, dist, wrapped)
			}
			if s.mc != nil {
				s.sampleMC(p.mc, mcH, mcSt, r.ID, wrapped, c, id)
			}
		}
		if (id+1)%5000 == 0 {
			o.log.Debug("sampling progress", zap.Int("worker", worker), zap.Int("frame", id+1))
		}
	}
	o.log.Debug("worker finished",
		zap.Int("worker", worker),
		zap.Int("from", c.readStart),
		zap.Int("to", c.readEnd))
	return p, nil
}

func workerReadErr(worker, frame int, err error) error {
	if e, ok := err.(pore.Error); ok {
		e.Decorate(fmt.Sprintf("sample: worker %d at frame %d", worker, frame))
		return e
	}
	return fmt.Errorf("sample: worker %d: reading frame %d: %w", worker, frame, err)
}

func closeTraj(t pore.Traj) {
	if c, ok := t.(io.Closer); ok {
		c.Close()
	}
}
