package ptf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pore "github.com/aklein/gopore"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//Write!
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
}

//NewWriter creates a ptf trajectory file and writes its header. The
//compressor is chosen from the file extension (see the package doc).
//precision, if given, is the number of decimals written per coordinate;
//the default is 3.
func NewWriter(name string, natoms int, precision ...int) (*Writer, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("can't write a trajectory of %d atoms", natoms), name, []string{"NewWriter"}, true}
	}
	w := new(Writer)
	var err error
	w.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	w.h, err = newCompressor(name)(w.f)
	if err != nil {
		w.f.Close()
		return nil, Error{"can't set up the compressor: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	w.natoms = natoms
	w.filename = name
	w.prec = 3
	if len(precision) > 0 && precision[0] > 0 {
		w.prec = precision[0]
	}
	if _, err := fmt.Fprintf(w.h, "** %d\n", natoms); err != nil {
		w.Close()
		return nil, Error{"can't write the header: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	w.writeable = true
	return w, nil
}

//WNext writes the next frame of the trajectory and, if given, the box
//extents of that frame.
func (w *Writer) WNext(coord *mat.Dense, box ...[]float64) error {
	if !w.writeable {
		return Error{TrajUnIniWrite, w.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, w.filename, []string{"WNext"}, true}
	}
	r, _ := coord.Dims()
	if r != w.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", r, w.natoms), w.filename, []string{"WNext"}, true}
	}
	for i := 0; i < r; i++ {
		_, err := fmt.Fprintf(w.h, "%.*f %.*f %.*f\n",
			w.prec, coord.At(i, 0), w.prec, coord.At(i, 1), w.prec, coord.At(i, 2))
		if err != nil {
			return Error{"can't write coordinates: " + err.Error(), w.filename, []string{"WNext"}, true}
		}
	}
	var err error
	if len(box) > 0 && len(box[0]) >= 3 {
		b := box[0]
		_, err = fmt.Fprintf(w.h, "* %.*f %.*f %.*f\n", w.prec, b[0], w.prec, b[1], w.prec, b[2])
	} else {
		_, err = fmt.Fprintln(w.h, "*")
	}
	if err != nil {
		return Error{"can't write the frame termination mark: " + err.Error(), w.filename, []string{"WNext"}, true}
	}
	return nil
}

//Len returns the number of atoms per frame.
func (w *Writer) Len() int {
	return w.natoms
}

//Close flushes the compressor and closes the file. The writer can not be
//used after this call.
func (w *Writer) Close() {
	if w == nil {
		return
	}
	if w.h != nil {
		w.h.Close()
	}
	if w.f != nil {
		w.f.Close()
	}
	w.writeable = false
}

//Read!
type Reader struct {
	f        *os.File
	z        io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	readable bool
}

//New opens a ptf trajectory for reading and parses its header.
func New(name string) (*Reader, error) {
	r := new(Reader)
	r.natoms = -1 //just so we know if things don't work
	r.filename = name
	var err error
	r.f, err = os.Open(name)
	if err != nil {
		return nil, err
	}
	if err := r.initRead(); err != nil {
		r.f.Close()
		return nil, err
	}
	return r, nil
}

//Opener returns a factory over the file, handing every caller its own
//independent reader. The sampling engine uses one per worker.
func Opener(name string) pore.Opener {
	return func() (pore.Traj, error) {
		return New(name)
	}
}

//initRead builds the decompression chain on top of the (fresh) file
//handle and consumes the header.
func (r *Reader) initRead() error {
	var err error
	r.z, err = newDecompressor(r.filename)(bufio.NewReader(r.f))
	if err != nil {
		return Error{"can't set up the decompressor: " + err.Error(), r.filename, []string{"New"}, true}
	}
	r.h = bufio.NewReader(r.z)
	str, err := r.h.ReadString('\n')
	if err != nil {
		return Error{"can't read the header: " + err.Error(), r.filename, []string{"New"}, true}
	}
	fields := strings.Fields(str)
	if len(fields) != 2 || fields[0] != "**" {
		return Error{fmt.Sprintf("malformed header %q", strings.TrimSpace(str)), r.filename, []string{"New"}, true}
	}
	r.natoms, err = strconv.Atoi(fields[1])
	if err != nil || r.natoms <= 0 {
		return Error{fmt.Sprintf("can't read the atom number from %q", fields[1]), r.filename, []string{"New"}, true}
	}
	r.readable = true
	return nil
}

//Readable returns true if it is possible to call Next on the handle.
func (r *Reader) Readable() bool {
	return r.readable
}

//Next puts the coordinates of the next frame in dst, or discards the
//frame if dst is nil (the frame is still checked for correctness). If the
//frame carries box extents and box is given, they are put there. After
//the last frame a LastFrameError is returned and the handle is closed.
func (r *Reader) Next(dst *mat.Dense, box ...[]float64) error {
	if !r.readable {
		return Error{TrajUnIniRead, r.filename, []string{"Next"}, true}
	}
	if dst != nil {
		if rows, _ := dst.Dims(); rows < r.natoms {
			return Error{NotEnoughSpace, r.filename, []string{"Next"}, true}
		}
	}
	for i := 0; i < r.natoms; i++ {
		str, err := r.h.ReadString('\n')
		if err != nil {
			//EOF on the first atom is just the end of the trajectory
			if err == io.EOF && i == 0 && strings.TrimSpace(str) == "" {
				r.Close()
				return newLastFrameError(r.filename, "Next")
			}
			return Error{"can't read a coordinate line: " + err.Error(), r.filename, []string{"Next"}, true}
		}
		fields := strings.Fields(str)
		if len(fields) != 3 {
			return Error{fmt.Sprintf("ill-formed coordinate line %q", strings.TrimSpace(str)), r.filename, []string{"Next"}, true}
		}
		for j, v := range fields {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Error{fmt.Sprintf("can't parse coordinate %d (%s): %s", j, v, err.Error()), r.filename, []string{"Next"}, true}
			}
			if dst != nil {
				dst.Set(i, j, f)
			}
		}
	}
	str, err := r.h.ReadString('\n')
	if err != nil && err != io.EOF {
		return Error{"can't read the frame termination mark: " + err.Error(), r.filename, []string{"Next"}, true}
	}
	if len(str) == 0 || str[0] != '*' {
		return Error{fmt.Sprintf("wrong number of atoms in frame: got %q instead of the termination mark", strings.TrimSpace(str)), r.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && len(box[0]) >= 3 {
		fields := strings.Fields(strings.TrimSpace(str))
		if len(fields) >= 4 { //the "*" and the 3 extents
			for j, v := range fields[1:4] {
				box[0][j], err = strconv.ParseFloat(v, 64)
				if err != nil {
					return Error{fmt.Sprintf("can't parse box extent %q", v), r.filename, []string{"Next"}, true}
				}
			}
		}
	}
	return nil
}

//Len returns the number of atoms in each frame of the trajectory.
func (r *Reader) Len() int {
	return r.natoms
}

//Count reads through the whole trajectory, returns the number of frames
//it holds and rewinds the handle, so the caller can start reading frames
//right away.
func (r *Reader) Count() (int, error) {
	n := 0
	for {
		err := r.Next(nil)
		if err != nil {
			if _, ok := err.(pore.LastFrameError); ok {
				break
			}
			return 0, err
		}
		n++
	}
	if err := r.Rewind(); err != nil {
		return n, err
	}
	return n, nil
}

//Rewind reopens the trajectory at its first frame.
func (r *Reader) Rewind() error {
	r.Close()
	f, err := os.Open(r.filename)
	if err != nil {
		return Error{"can't reopen the trajectory: " + err.Error(), r.filename, []string{"Rewind"}, true}
	}
	r.f = f
	if err := r.initRead(); err != nil {
		r.f.Close()
		return err
	}
	return nil
}

//Close closes the handle and marks it as unreadable.
func (r *Reader) Close() {
	if !r.readable {
		return
	}
	r.z.Close()
	r.f.Close()
	r.readable = false
}

//zstd.Decoder.Close returns nothing, so it does not satisfy io.ReadCloser
//on its own.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func newCompressor(name string) func(io.Writer) (io.WriteCloser, error) {
	switch filepath.Ext(strings.ToLower(name)) {
	case ".gz":
		return func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(a), nil }
	case ".flate":
		return func(a io.Writer) (io.WriteCloser, error) { return flate.NewWriter(a, flate.DefaultCompression) }
	default:
		return func(a io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		}
	}
}

func newDecompressor(name string) func(io.Reader) (io.ReadCloser, error) {
	switch filepath.Ext(strings.ToLower(name)) {
	case ".gz":
		return func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	case ".flate":
		return func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	default:
		return func(a io.Reader) (io.ReadCloser, error) {
			r, err := zstd.NewReader(a)
			if err != nil {
				return nil, err
			}
			return zstdReadCloser{r}, nil
		}
	}
}

//Errors

//Error is the general structure for ptf trajectory errors. It fulfills
//pore.Error and pore.TrajError.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("ptf file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	//The receiver is not a pointer, but err.deco is a slice, hence a
	//pointer itself, so the append sticks.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file to which the failing trajectory was associated.
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file associated to the error.
func (err Error) Format() string { return "ptf" }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilCoordinates = "Given nil coordinates"
	NotEnoughSpace = "Not enough space in passed matrix"
)

//lastFrameError implements pore.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing
func (e lastFrameError) NormalLastFrameTermination() {}

func (e lastFrameError) FileName() string { return e.fileName }

func (e lastFrameError) Error() string { return "EOF" }

func (e lastFrameError) Critical() bool { return false }

func (e lastFrameError) Format() string { return "ptf" }

func (e lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		e.deco = append(e.deco, deco)
	}
	return e.deco
}

func newLastFrameError(filename, caller string) lastFrameError {
	return lastFrameError{fileName: filename, deco: []string{caller}}
}
