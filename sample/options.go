package sample

import (
	"runtime"

	"go.uber.org/zap"
)

//Options holds the run-time knobs of a sampling job. The zero value is not
//usable; obtain one from DefaultOptions.
type Options struct {
	cpus  int
	pbc   bool
	shift []float64
	log   *zap.Logger
}

//DefaultOptions returns an Options with the default settings: one worker
//per logical CPU, periodic boundary conditions applied, no coordinate
//shift and a no-op logger.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.cpus = runtime.NumCPU()
	ret.pbc = true
	ret.log = zap.NewNop()
	return ret
}

//Cpus returns the number of workers the trajectory is split across and
//sets it, if a valid value is given. One worker gives the sequential mode,
//which produces accumulators numerically identical to any parallel split.
func (o *Options) Cpus(cpus ...int) int {
	ret := o.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		o.cpus = cpus[0]
	}
	return ret
}

//PBC returns whether centers of mass are wrapped into the box before
//classification and sets it, if a value is given.
func (o *Options) PBC(pbc ...bool) bool {
	ret := o.pbc
	if len(pbc) > 0 {
		o.pbc = pbc[0]
	}
	return ret
}

//Shift returns the translation applied to every position before any other
//processing and sets it, if a vector is given. The vector must have 3
//components; the length is validated when sampling starts.
func (o *Options) Shift(shift ...[]float64) []float64 {
	ret := o.shift
	if len(shift) > 0 {
		o.shift = shift[0]
	}
	return ret
}

//Logger returns the logger progress and diagnostics are written to and
//sets it, if one is given.
func (o *Options) Logger(log ...*zap.Logger) *zap.Logger {
	ret := o.log
	if len(log) > 0 && log[0] != nil {
		o.log = log[0]
	}
	return ret
}
