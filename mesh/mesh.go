// Package mesh models an unstructured flexible 2D mesh: nodes with boundary
// codes, triangular/quadrilateral elements and a map projection, plus the
// geometry queries defined on it.
package mesh

import (
	"errors"
	"fmt"

	"github.com/hydroscale/meshts/eum"
)

// ErrInvalidCode is returned when a node code filter does not occur among the
// mesh's node codes.
var ErrInvalidCode = errors.New("node code not present in mesh")

// ProjectionLongLat identifies an unprojected longitude/latitude system.
// Coordinates of meshes carrying this projection are in degrees.
const ProjectionLongLat = "LONG/LAT"

// ElementType distinguishes the supported element shapes.
type ElementType int

const (
	Triangle ElementType = iota
	Quad
)

func (e ElementType) String() string {
	return [...]string{"Triangle", "Quad"}[e]
}

// Element is one mesh cell. Nodes holds 0-based node indices; for triangles
// only the first three entries are meaningful.
type Element struct {
	Type  ElementType
	Nodes [4]int
}

// NewTriangle builds a triangular element from 0-based node indices.
func NewTriangle(a, b, c int) Element {
	return Element{Type: Triangle, Nodes: [4]int{a, b, c, -1}}
}

// NewQuad builds a quadrilateral element from 0-based node indices.
func NewQuad(a, b, c, d int) Element {
	return Element{Type: Quad, Nodes: [4]int{a, b, c, d}}
}

// Count returns the number of nodes in the element, 3 or 4.
func (e Element) Count() int {
	if e.Type == Quad {
		return 4
	}
	return 3
}

// NodeIndices returns the 0-based node indices, length 3 or 4.
func (e Element) NodeIndices() []int {
	return e.Nodes[:e.Count()]
}

// Mesh is an immutable flexible mesh definition: parallel per-node coordinate
// and code arrays plus the element connectivity table.
type Mesh struct {
	X, Y, Z  []float64
	Code     []int32
	Elements []Element

	// Projection is the WKT projection string, or ProjectionLongLat for
	// geographic meshes.
	Projection string

	// ZUnit is the unit of the node Z coordinate, meters unless stated.
	ZUnit eum.Unit
}

func (m *Mesh) NumNodes() int    { return len(m.X) }
func (m *Mesh) NumElements() int { return len(m.Elements) }

// IsGeographic reports whether the mesh is defined on longitude/latitude
// coordinates rather than a projected planar system.
func (m *Mesh) IsGeographic() bool {
	return m.Projection == ProjectionLongLat
}

// Validate checks the structural invariants: parallel node arrays of equal
// length, and every element node index resolving to a valid node.
func (m *Mesh) Validate() error {
	n := len(m.X)
	if len(m.Y) != n || len(m.Z) != n || len(m.Code) != n {
		return fmt.Errorf("node arrays disagree in length: x=%d y=%d z=%d code=%d",
			len(m.X), len(m.Y), len(m.Z), len(m.Code))
	}
	for j, el := range m.Elements {
		for _, nidx := range el.NodeIndices() {
			if nidx < 0 || nidx >= n {
				return fmt.Errorf("element %d references node %d, mesh has %d nodes", j, nidx, n)
			}
		}
	}
	return nil
}
