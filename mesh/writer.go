package mesh

import (
	"bufio"
	"fmt"
	"os"

	"github.com/hydroscale/meshts/eum"
)

// WriteMeshFile writes the mesh in the same text format ReadMeshFile reads.
// Triangles are padded with a zero fourth node id when the mesh also holds
// quads.
func WriteMeshFile(filename string, msh *Mesh) error {
	if err := msh.Validate(); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	maxNodes := 3
	for _, el := range msh.Elements {
		if el.Type == Quad {
			maxNodes = 4
			break
		}
	}
	elementCode := elementCodeTri
	if maxNodes == 4 {
		elementCode = elementCodeMixed
	}

	fmt.Fprintf(w, "%d  %d  %d  %s\n",
		int32(eum.QuantityBathymetry), int32(msh.ZUnit), msh.NumNodes(), msh.Projection)
	for i := range msh.X {
		fmt.Fprintf(w, "%d %.15g %.15g %.15g %d\n",
			i+1, msh.X[i], msh.Y[i], msh.Z[i], msh.Code[i])
	}
	fmt.Fprintf(w, "%d %d %d\n", msh.NumElements(), maxNodes, elementCode)
	for j, el := range msh.Elements {
		fmt.Fprintf(w, "%d", j+1)
		for _, nidx := range el.NodeIndices() {
			fmt.Fprintf(w, " %d", nidx+1)
		}
		if maxNodes == 4 && el.Type == Triangle {
			fmt.Fprintf(w, " 0")
		}
		fmt.Fprintf(w, "\n")
	}
	return w.Flush()
}
