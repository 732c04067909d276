package dfsu

import (
	"time"

	"github.com/hydroscale/meshts/dfs"
	"github.com/hydroscale/meshts/eum"
	"github.com/hydroscale/meshts/mesh"
	"github.com/hydroscale/meshts/utils"
)

// File is an open container session. It owns the underlying handle and the
// mesh loaded from it; geometry queries run against the session instead of
// any ambient "current file" state. Close when done.
type File struct {
	df  *dfs.File
	msh *mesh.Mesh
}

// Open opens a container for geometry queries and repeated reads.
func Open(filename string) (*File, error) {
	df, err := dfs.Open(filename)
	if err != nil {
		return nil, err
	}
	return &File{df: df, msh: df.Mesh()}, nil
}

// Close releases the container handle. Idempotent.
func (f *File) Close() error { return f.df.Close() }

// Read loads a selection from the open container without closing it.
func (f *File) Read(sel *Selection) (*Dataset, error) {
	return readFrom(f.df, sel)
}

func (f *File) NumTimeSteps() int      { return f.df.TimeStepCount() }
func (f *File) NumElements() int       { return f.df.ElementCount() }
func (f *File) NumNodes() int          { return f.df.NodeCount() }
func (f *File) StartTime() time.Time   { return f.df.StartTime() }
func (f *File) Items() []eum.ItemInfo  { return f.df.Items() }
func (f *File) FileType() dfs.FileType { return f.df.FileType() }

// Mesh returns the mesh definition the container was built on.
func (f *File) Mesh() *mesh.Mesh { return f.msh }

// IsGeographic reports whether the container's mesh is defined on
// longitude/latitude coordinates.
func (f *File) IsGeographic() bool { return f.msh.IsGeographic() }

// NodeCoordinates returns the (x, y, z) of every node as an [N,3] matrix.
func (f *File) NodeCoordinates() utils.Matrix { return f.msh.NodeCoordinates() }

// NodeCoordinatesByCode returns the coordinates of the nodes carrying the
// given boundary code, e.g. 1 for land. Fails with ErrInvalidCode if no node
// carries the code.
func (f *File) NodeCoordinatesByCode(code int32) (utils.Matrix, error) {
	return f.msh.NodeCoordinatesByCode(code)
}

// ElementCoordinates returns the center of each element as an [E,3] matrix.
func (f *File) ElementCoordinates() utils.Matrix { return f.msh.ElementCoordinates() }

// FindClosestElementIndex returns the element whose center is closest to
// (x, y).
func (f *File) FindClosestElementIndex(x, y float64) int {
	return f.msh.FindClosestElement(x, y)
}

// FindClosestElementIndex3D includes the z coordinate in the distance.
func (f *File) FindClosestElementIndex3D(x, y, z float64) int {
	return f.msh.FindClosestElement3D(x, y, z)
}

// ElementArea returns the horizontal area of each element in m2, geographic
// meshes converted through the tangent-plane approximation documented on
// mesh.ElementAreas.
func (f *File) ElementArea() utils.Vector { return f.msh.ElementAreas() }
