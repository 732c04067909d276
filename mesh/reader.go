package mesh

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hydroscale/meshts/eum"
)

// Element type codes carried in the mesh file's element section header.
const (
	elementCodeTri   = 21
	elementCodeMixed = 25
)

// ReadMeshFile reads a flexible mesh from the DHI-style text format.
//
// The file starts with a header line holding the bathymetry quantity code,
// the z unit code, the node count and the projection string. One line per
// node follows: id x y z code (ids 1-based). Then an element section header
// (element count, max nodes per element, element type code) and one line per
// element: id followed by maxNodes node ids, triangles padded with 0 in
// mixed files.
func ReadMeshFile(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return nil, fmt.Errorf("mesh file %s: missing header", filename)
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) < 3 {
		return nil, fmt.Errorf("mesh file %s: malformed header: %q", filename, scanner.Text())
	}
	zUnit, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("mesh file %s: invalid z unit code: %v", filename, err)
	}
	nNodes, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("mesh file %s: invalid node count: %v", filename, err)
	}
	projection := "NON-UTM"
	if len(fields) > 3 {
		projection = strings.Join(fields[3:], " ")
	}

	msh := &Mesh{
		X:          make([]float64, nNodes),
		Y:          make([]float64, nNodes),
		Z:          make([]float64, nNodes),
		Code:       make([]int32, nNodes),
		Projection: projection,
		ZUnit:      eum.Unit(zUnit),
	}

	for i := 0; i < nNodes; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("mesh file %s: unexpected EOF reading nodes", filename)
		}
		fields = strings.Fields(scanner.Text())
		if len(fields) < 5 {
			return nil, fmt.Errorf("mesh file %s: malformed node line: %q", filename, scanner.Text())
		}
		id, _ := strconv.Atoi(fields[0])
		if id < 1 || id > nNodes {
			return nil, fmt.Errorf("mesh file %s: node id %d out of range 1..%d", filename, id, nNodes)
		}
		idx := id - 1
		if msh.X[idx], err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, fmt.Errorf("mesh file %s: invalid x coordinate: %v", filename, err)
		}
		if msh.Y[idx], err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, fmt.Errorf("mesh file %s: invalid y coordinate: %v", filename, err)
		}
		if msh.Z[idx], err = strconv.ParseFloat(fields[3], 64); err != nil {
			return nil, fmt.Errorf("mesh file %s: invalid z coordinate: %v", filename, err)
		}
		code, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("mesh file %s: invalid node code: %v", filename, err)
		}
		msh.Code[idx] = int32(code)
	}

	if !scanner.Scan() {
		return nil, fmt.Errorf("mesh file %s: missing element section header", filename)
	}
	fields = strings.Fields(scanner.Text())
	if len(fields) < 3 {
		return nil, fmt.Errorf("mesh file %s: malformed element header: %q", filename, scanner.Text())
	}
	nElements, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("mesh file %s: invalid element count: %v", filename, err)
	}
	maxNodes, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("mesh file %s: invalid element width: %v", filename, err)
	}
	if maxNodes < 3 || maxNodes > 4 {
		return nil, fmt.Errorf("mesh file %s: unsupported element width %d, want 3 or 4", filename, maxNodes)
	}

	msh.Elements = make([]Element, 0, nElements)
	for j := 0; j < nElements; j++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("mesh file %s: unexpected EOF reading elements", filename)
		}
		fields = strings.Fields(scanner.Text())
		if len(fields) < 1+maxNodes {
			return nil, fmt.Errorf("mesh file %s: malformed element line: %q", filename, scanner.Text())
		}
		ids := make([]int, maxNodes)
		for k := 0; k < maxNodes; k++ {
			if ids[k], err = strconv.Atoi(fields[1+k]); err != nil {
				return nil, fmt.Errorf("mesh file %s: invalid node id in element line: %v", filename, err)
			}
		}
		// A zero fourth id marks a triangle in a mixed file
		var el Element
		if maxNodes == 4 && ids[3] != 0 {
			el = NewQuad(ids[0]-1, ids[1]-1, ids[2]-1, ids[3]-1)
		} else {
			el = NewTriangle(ids[0]-1, ids[1]-1, ids[2]-1)
		}
		msh.Elements = append(msh.Elements, el)
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("mesh file %s: %v", filename, err)
	}

	if err = msh.Validate(); err != nil {
		return nil, fmt.Errorf("mesh file %s: %v", filename, err)
	}
	return msh, nil
}
