/*
 * ptf_test.go, part of gopore.
 *
 * Copyright 2023 A. Klein
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package ptf

import (
	"math"
	"path/filepath"
	"testing"

	pore "github.com/aklein/gopore"

	"gonum.org/v1/gonum/mat"
)

//writes a little trajectory of nframes frames and natoms atoms, with
//coordinates that identify frame, atom and axis.
func writeTestTraj(t *testing.T, name string, nframes, natoms int, withBox bool) {
	t.Helper()
	w, err := NewWriter(name, natoms)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	frame := mat.NewDense(natoms, 3, nil)
	box := []float64{10, 10, 20}
	for f := 0; f < nframes; f++ {
		for i := 0; i < natoms; i++ {
			for j := 0; j < 3; j++ {
				frame.Set(i, j, float64(100*f+10*i+j)+0.125)
			}
		}
		if withBox {
			err = w.WNext(frame, box)
		} else {
			err = w.WNext(frame)
		}
		if err != nil {
			t.Fatal(err)
		}
	}
}

func roundTrip(t *testing.T, name string) {
	const nframes, natoms = 4, 3
	writeTestTraj(t, name, nframes, natoms, true)

	r, err := New(name)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.Len() != natoms {
		t.Errorf("got %d atoms, wrote %d", r.Len(), natoms)
	}
	frame := mat.NewDense(natoms, 3, nil)
	box := make([]float64, 3)
	read := 0
	for {
		err := r.Next(frame, box)
		if err != nil {
			if _, ok := err.(pore.LastFrameError); ok {
				break
			}
			t.Fatal(err)
		}
		for i := 0; i < natoms; i++ {
			for j := 0; j < 3; j++ {
				want := float64(100*read+10*i+j) + 0.125
				if math.Abs(frame.At(i, j)-want) > 1e-3 {
					t.Errorf("frame %d atom %d axis %d: got %v want %v", read, i, j, frame.At(i, j), want)
				}
			}
		}
		if box[2] != 20 {
			t.Errorf("frame %d: box z = %v, want 20", read, box[2])
		}
		read++
	}
	if read != nframes {
		t.Errorf("read %d frames, wrote %d", read, nframes)
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"test.ptf", "test.zst", "test.gz", "test.flate"} {
		t.Run(name, func(t *testing.T) {
			roundTrip(t, filepath.Join(dir, name))
		})
	}
}

func TestCountAndRewind(t *testing.T) {
	name := filepath.Join(t.TempDir(), "count.ptf")
	writeTestTraj(t, name, 7, 2, false)
	r, err := New(name)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	n, err := r.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Errorf("counted %d frames, wrote 7", n)
	}
	//after counting, the handle must read from the first frame again
	frame := mat.NewDense(2, 3, nil)
	if err := r.Next(frame); err != nil {
		t.Fatal(err)
	}
	if frame.At(0, 0) != 0.125 {
		t.Errorf("first frame after rewind starts at %v, want 0.125", frame.At(0, 0))
	}
}

func TestOpenerGivesIndependentReaders(t *testing.T) {
	name := filepath.Join(t.TempDir(), "indep.ptf")
	writeTestTraj(t, name, 3, 2, false)
	open := Opener(name)
	a, err := open()
	if err != nil {
		t.Fatal(err)
	}
	b, err := open()
	if err != nil {
		t.Fatal(err)
	}
	fa := mat.NewDense(2, 3, nil)
	fb := mat.NewDense(2, 3, nil)
	//advance a by two frames, b by one: they must not share state
	if err := a.Next(nil); err != nil {
		t.Fatal(err)
	}
	if err := a.Next(fa); err != nil {
		t.Fatal(err)
	}
	if err := b.Next(fb); err != nil {
		t.Fatal(err)
	}
	if fa.At(0, 0) != 100.125 {
		t.Errorf("reader a at %v, want frame 1 (100.125)", fa.At(0, 0))
	}
	if fb.At(0, 0) != 0.125 {
		t.Errorf("reader b at %v, want frame 0 (0.125)", fb.At(0, 0))
	}
}

func TestSkippedFramesStillChecked(t *testing.T) {
	name := filepath.Join(t.TempDir(), "skip.ptf")
	writeTestTraj(t, name, 2, 2, true)
	r, err := New(name)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if err := r.Next(nil); err != nil {
		t.Fatal(err)
	}
	frame := mat.NewDense(2, 3, nil)
	if err := r.Next(frame); err != nil {
		t.Fatal(err)
	}
	if frame.At(1, 2) != 112.125 {
		t.Errorf("second frame atom 1 z = %v, want 112.125", frame.At(1, 2))
	}
}

func TestWriterRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewWriter(filepath.Join(dir, "bad.ptf"), 0); err == nil {
		t.Error("writer accepted 0 atoms")
	}
	w, err := NewWriter(filepath.Join(dir, "ok.ptf"), 3)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.WNext(nil); err == nil {
		t.Error("writer accepted nil coordinates")
	}
	if err := w.WNext(mat.NewDense(2, 3, nil)); err == nil {
		t.Error("writer accepted a frame with the wrong atom count")
	}
}
