package mesh

import (
	"fmt"
	"math"

	"github.com/hydroscale/meshts/utils"
)

const (
	// EarthRadius is the spherical earth radius in meters used for the
	// degree-to-meter conversion on geographic meshes.
	EarthRadius = 6366707.0

	degToRad = math.Pi / 180.0
)

// NodeCoordinates returns the (x, y, z) of every node as an [N,3] matrix.
func (m *Mesh) NodeCoordinates() (R utils.Matrix) {
	R = utils.NewMatrix(m.NumNodes(), 3)
	for i := range m.X {
		R.Set(i, 0, m.X[i])
		R.Set(i, 1, m.Y[i])
		R.Set(i, 2, m.Z[i])
	}
	return
}

// NodeCoordinatesByCode returns the coordinates of the nodes whose code
// equals code, preserving node order. Fails with ErrInvalidCode if no node
// carries the code.
func (m *Mesh) NodeCoordinatesByCode(code int32) (R utils.Matrix, err error) {
	var count int
	for _, c := range m.Code {
		if c == code {
			count++
		}
	}
	if count == 0 {
		err = fmt.Errorf("code %d (valid codes: %v): %w", code, m.validCodes(), ErrInvalidCode)
		return
	}
	R = utils.NewMatrix(count, 3)
	var row int
	for i, c := range m.Code {
		if c != code {
			continue
		}
		R.Set(row, 0, m.X[i])
		R.Set(row, 1, m.Y[i])
		R.Set(row, 2, m.Z[i])
		row++
	}
	return
}

func (m *Mesh) validCodes() (codes []int32) {
	seen := make(map[int32]bool)
	for _, c := range m.Code {
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	return
}

// ElementCoordinates returns the center of each element as an [E,3] matrix.
// The center is the unweighted mean of the element's node coordinates.
func (m *Mesh) ElementCoordinates() (R utils.Matrix) {
	R = utils.NewMatrix(m.NumElements(), 3)
	for j, el := range m.Elements {
		var xc, yc, zc float64
		nn := el.NodeIndices()
		for _, nidx := range nn {
			xc += m.X[nidx]
			yc += m.Y[nidx]
			zc += m.Z[nidx]
		}
		n := float64(len(nn))
		R.Set(j, 0, xc/n)
		R.Set(j, 1, yc/n)
		R.Set(j, 2, zc/n)
	}
	return
}

// FindClosestElement returns the index of the element whose center is
// closest to (x, y) in squared Euclidean distance. Ties go to the lowest
// index.
func (m *Mesh) FindClosestElement(x, y float64) int {
	return m.findClosest(x, y, 0, false)
}

// FindClosestElement3D is FindClosestElement with the z coordinate included
// in the distance.
func (m *Mesh) FindClosestElement3D(x, y, z float64) int {
	return m.findClosest(x, y, z, true)
}

func (m *Mesh) findClosest(x, y, z float64, useZ bool) (idx int) {
	var (
		ec   = m.ElementCoordinates()
		best = math.Inf(1)
	)
	for j := 0; j < m.NumElements(); j++ {
		dx := ec.At(j, 0) - x
		dy := ec.At(j, 1) - y
		d := dx*dx + dy*dy
		if useZ {
			dz := ec.At(j, 2) - z
			d += dz * dz
		}
		if d < best {
			best = d
			idx = j
		}
	}
	return
}

// ElementAreas returns the horizontal area of each element in m2.
//
// Areas are computed from edge vectors out of the first node: a triangle is
// half the cross product of its two edges, a quad is the fan sum of two such
// triangles. On geographic meshes every edge component is first converted
// from degrees to meters on a tangent plane at the element's mean latitude.
// That conversion is a first-order approximation; it loses accuracy for very
// large elements and at high latitudes.
func (m *Mesh) ElementAreas() (area utils.Vector) {
	var (
		geo = m.IsGeographic()
		rdr = EarthRadius * degToRad
	)
	area = utils.NewVector(m.NumElements())
	data := area.Data()
	for j, el := range m.Elements {
		nn := el.NodeIndices()
		a := nn[0]

		// Edge vectors from corner a to corners b, c (and d for quads)
		abx := m.X[nn[1]] - m.X[a]
		aby := m.Y[nn[1]] - m.Y[a]
		acx := m.X[nn[2]] - m.X[a]
		acy := m.Y[nn[2]] - m.Y[a]

		var adx, ady float64
		isQuad := el.Type == Quad
		if isQuad {
			adx = m.X[nn[3]] - m.X[a]
			ady = m.Y[nn[3]] - m.Y[a]
		}

		if geo {
			var ye float64
			for _, nidx := range nn {
				ye += m.Y[nidx]
			}
			ye /= float64(len(nn))
			cosYe := math.Cos(ye * degToRad)

			abx = rdr * abx * cosYe
			aby = rdr * aby
			acx = rdr * acx * cosYe
			acy = rdr * acy
			if isQuad {
				adx = rdr * adx * cosYe
				ady = rdr * ady
			}
		}

		s := 0.5 * (abx*acy - aby*acx)
		if isQuad {
			s += 0.5 * (acx*ady - acy*adx)
		}
		data[j] = math.Abs(s)
	}
	return
}
