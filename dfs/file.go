package dfs

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/hydroscale/meshts/eum"
	"github.com/hydroscale/meshts/mesh"
)

// File is an open container handle. A handle is exclusively owned by one
// operation; concurrent use requires external serialization.
type File struct {
	f        *os.File
	path     string
	writable bool
	created  bool
	closed   bool

	fileType    FileType
	title       string
	projection  string
	zUnit       eum.Unit
	deleteValue float64
	startTime   time.Time
	dtSeconds   float64

	nodeCount     int
	elementCount  int
	itemCount     int
	timeStepCount int

	items []eum.ItemInfo
	msh   *mesh.Mesh

	dataStart int64

	// Sequential write cursor, nested (time step, item) order
	cursorTime int
	cursorItem int
}

// Open opens an existing container read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrContainerOpen, path, err)
	}
	df := &File{f: f, path: path}
	if err = df.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return df, nil
}

// OpenEdit opens an existing container for in-place overwrite of the data
// section. Header and geometry are untouched; the time axis keeps its
// declared length.
func OpenEdit(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrContainerOpen, path, err)
	}
	df := &File{f: f, path: path, writable: true}
	if err = df.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return df, nil
}

func (df *File) ItemCount() int         { return df.itemCount }
func (df *File) TimeStepCount() int     { return df.timeStepCount }
func (df *File) ElementCount() int      { return df.elementCount }
func (df *File) NodeCount() int         { return df.nodeCount }
func (df *File) DeleteValue() float64   { return df.deleteValue }
func (df *File) StartTime() time.Time   { return df.startTime }
func (df *File) DtSeconds() float64     { return df.dtSeconds }
func (df *File) FileType() FileType     { return df.fileType }
func (df *File) Title() string          { return df.title }
func (df *File) Projection() string     { return df.projection }
func (df *File) Items() []eum.ItemInfo  { return df.items }

// Mesh returns the mesh definition stored in the container.
func (df *File) Mesh() *mesh.Mesh { return df.msh }

// ReadItemTimeStep reads the sample row of one item at one time step.
// itemNumber is 1-based; for 3D kinds item number 1 is the dynamic Z
// pseudo-item. Returns the step's elapsed seconds since the start time and
// the raw row, delete values included.
func (df *File) ReadItemTimeStep(itemNumber, timeStep int) (elapsed float64, row []float64, err error) {
	if df.closed {
		err = ErrClosed
		return
	}
	if itemNumber < 1 || itemNumber > df.itemCount {
		err = fmt.Errorf("item number %d out of range 1..%d", itemNumber, df.itemCount)
		return
	}
	if timeStep < 0 || timeStep >= df.timeStepCount {
		err = fmt.Errorf("time step %d out of range 0..%d", timeStep, df.timeStepCount-1)
		return
	}
	offset := df.dataStart + int64(timeStep)*df.stepBlockSize()
	buf := make([]byte, 8)
	if _, err = df.f.ReadAt(buf, offset); err != nil {
		err = fmt.Errorf("%w: reading time stamp: %v", ErrCorruptFile, err)
		return
	}
	elapsed = math.Float64frombits(binary.LittleEndian.Uint64(buf))

	offset += 8 + int64(itemNumber-1)*int64(df.elementCount)*8
	raw := make([]byte, df.elementCount*8)
	if _, err = df.f.ReadAt(raw, offset); err != nil {
		err = fmt.Errorf("%w: reading item %d step %d: %v", ErrCorruptFile, itemNumber, timeStep, err)
		return
	}
	row = make([]float64, df.elementCount)
	for i := range row {
		row[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return
}

// WriteItemTimeStepNext appends or overwrites the next sample row. Rows must
// arrive in strict nested (time step, item) order; there is no random access.
// On a handle from CreateFile the time axis grows; on a handle from OpenEdit
// writing past the declared axis fails with ErrWriteOrder.
func (df *File) WriteItemTimeStepNext(row []float64) error {
	if df.closed {
		return ErrClosed
	}
	if !df.writable {
		return ErrReadOnly
	}
	if len(row) != df.elementCount {
		return fmt.Errorf("%w: row has %d values, container has %d elements",
			ErrWriteOrder, len(row), df.elementCount)
	}
	// A fixed axis (edit mode) cannot grow
	if df.timeStepCountFixed() && df.cursorTime >= df.timeStepCount {
		return fmt.Errorf("%w: write past declared time axis of %d steps",
			ErrWriteOrder, df.timeStepCount)
	}

	offset := df.dataStart + int64(df.cursorTime)*df.stepBlockSize()
	if df.cursorItem == 0 {
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(df.dtSeconds*float64(df.cursorTime)))
		if _, err := df.f.WriteAt(buf, offset); err != nil {
			return err
		}
	}
	offset += 8 + int64(df.cursorItem)*int64(df.elementCount)*8
	raw := make([]byte, df.elementCount*8)
	for i, val := range row {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(val))
	}
	if _, err := df.f.WriteAt(raw, offset); err != nil {
		return err
	}

	df.cursorItem++
	if df.cursorItem == df.itemCount {
		df.cursorItem = 0
		df.cursorTime++
		if !df.timeStepCountFixed() {
			df.timeStepCount = df.cursorTime
		}
	}
	return nil
}

// timeStepCountFixed reports whether the time axis length came from the file
// header (edit mode) rather than from writes on a freshly created file.
func (df *File) timeStepCountFixed() bool {
	return !df.created
}

// Close releases the handle. On a created file the time step count is
// patched into the header first. Close is idempotent.
func (df *File) Close() error {
	if df.closed {
		return nil
	}
	df.closed = true
	if df.writable && df.created {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(df.timeStepCount))
		if _, err := df.f.WriteAt(buf, timeStepCountOffset); err != nil {
			df.f.Close()
			return err
		}
	}
	return df.f.Close()
}

func (df *File) stepBlockSize() int64 {
	return 8 + int64(df.itemCount)*int64(df.elementCount)*8
}
