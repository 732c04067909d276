package dfs

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/hydroscale/meshts/eum"
	"github.com/hydroscale/meshts/mesh"
)

// Builder assembles the header and geometry of a new container. Call the
// Set methods, add the dynamic items, then CreateFile. The returned handle
// accepts sequential WriteItemTimeStepNext calls; the time axis length is
// fixed on Close.
type Builder struct {
	fileType   FileType
	title      string
	projection string
	zUnit      eum.Unit

	x, y, z []float64
	code    []int32

	elements []mesh.Element
	items    []eum.ItemInfo

	startTime time.Time
	dtSeconds float64
}

// NewBuilder starts a builder for the given geometry kind. Only FileType2D
// is supported for creation.
func NewBuilder(ft FileType) *Builder {
	return &Builder{
		fileType:  ft,
		zUnit:     eum.UnitMeter,
		startTime: time.Now().UTC(),
		dtSeconds: 1,
	}
}

// SetNodes sets the node coordinate and code arrays. Slices are borrowed,
// not copied.
func (b *Builder) SetNodes(x, y, z []float64, code []int32) *Builder {
	b.x, b.y, b.z, b.code = x, y, z, code
	return b
}

// SetElements sets the element connectivity table.
func (b *Builder) SetElements(elements []mesh.Element) *Builder {
	b.elements = elements
	return b
}

// SetMesh sets nodes, elements, projection and z unit from a mesh in one go.
func (b *Builder) SetMesh(msh *mesh.Mesh) *Builder {
	b.SetNodes(msh.X, msh.Y, msh.Z, msh.Code)
	b.SetElements(msh.Elements)
	b.SetProjection(msh.Projection)
	b.SetZUnit(msh.ZUnit)
	return b
}

func (b *Builder) SetProjection(projection string) *Builder {
	b.projection = projection
	return b
}

func (b *Builder) SetZUnit(unit eum.Unit) *Builder {
	b.zUnit = unit
	return b
}

func (b *Builder) SetTitle(title string) *Builder {
	b.title = title
	return b
}

// SetTimeInfo sets the equidistant time axis: absolute start plus step in
// seconds.
func (b *Builder) SetTimeInfo(start time.Time, dtSeconds float64) *Builder {
	b.startTime = start
	b.dtSeconds = dtSeconds
	return b
}

// AddDynamicItem declares one time-varying item.
func (b *Builder) AddDynamicItem(item eum.ItemInfo) *Builder {
	b.items = append(b.items, item)
	return b
}

func (b *Builder) validate() error {
	if b.fileType.Is3D() {
		return fmt.Errorf("geometry kind %s is not supported for creation", b.fileType)
	}
	n := len(b.x)
	if n == 0 {
		return fmt.Errorf("no nodes set")
	}
	if len(b.y) != n || len(b.z) != n || len(b.code) != n {
		return fmt.Errorf("node arrays disagree in length: x=%d y=%d z=%d code=%d",
			n, len(b.y), len(b.z), len(b.code))
	}
	if len(b.elements) == 0 {
		return fmt.Errorf("no elements set")
	}
	for j, el := range b.elements {
		for _, nidx := range el.NodeIndices() {
			if nidx < 0 || nidx >= n {
				return fmt.Errorf("element %d references node %d, mesh has %d nodes", j, nidx, n)
			}
		}
	}
	if len(b.items) == 0 {
		return fmt.Errorf("no dynamic items declared")
	}
	return nil
}

// CreateFile writes the header and geometry to path and returns a writable
// handle positioned at the first item time step.
func (b *Builder) CreateFile(path string) (*File, error) {
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCreateFailed, path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCreateFailed, path, err)
	}

	w := &headerWriter{w: bufio.NewWriter(f)}
	w.bytes([]byte(magic))
	w.uint32(formatVersion)
	w.int32(int32(b.fileType))
	w.int32(0) // time step count, patched on Close
	w.int32(int32(len(b.items)))
	w.int32(int32(len(b.x)))
	w.int32(int32(len(b.elements)))
	w.float64(DeleteValue)
	w.int64(b.startTime.UnixNano())
	w.float64(b.dtSeconds)
	w.int32(int32(b.zUnit))

	w.string(b.title)
	w.string(b.projection)
	w.float64s(b.x)
	w.float64s(b.y)
	w.float64s(b.z)
	w.int32s(b.code)
	for _, el := range b.elements {
		ids := el.NodeIndices()
		w.int32(int32(len(ids)))
		for _, nidx := range ids {
			w.int32(int32(nidx + 1)) // stored 1-based
		}
	}
	for _, item := range b.items {
		w.string(item.Name)
		w.int32(int32(item.Quantity))
		w.int32(int32(item.Unit))
	}
	if w.err == nil {
		w.err = w.w.Flush()
	}
	if w.err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: %s: %v", ErrCreateFailed, path, w.err)
	}

	msh := &mesh.Mesh{
		X: b.x, Y: b.y, Z: b.z, Code: b.code,
		Elements:   b.elements,
		Projection: b.projection,
		ZUnit:      b.zUnit,
	}
	df := &File{
		f:            f,
		path:         path,
		writable:     true,
		created:      true,
		fileType:     b.fileType,
		title:        b.title,
		projection:   b.projection,
		zUnit:        b.zUnit,
		deleteValue:  DeleteValue,
		startTime:    b.startTime,
		dtSeconds:    b.dtSeconds,
		nodeCount:    len(b.x),
		elementCount: len(b.elements),
		itemCount:    len(b.items),
		items:        append([]eum.ItemInfo(nil), b.items...),
		msh:          msh,
		dataStart:    w.pos,
	}
	return df, nil
}
