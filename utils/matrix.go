package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a thin wrapper over gonum's dense matrix. Time series data is
// stored with one row per time step and one column per element/node.
type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }

func (m Matrix) Set(i, j int, val float64) { m.M.Set(i, j, val) }

// Row returns a view of row i, backed by the matrix storage.
func (m Matrix) Row(i int) []float64 { return m.M.RawRowView(i) }

func (m Matrix) SetRow(i int, row []float64) { m.M.SetRow(i, row) }

// Data returns the backing slice in row-major order.
func (m Matrix) Data() []float64 { return m.M.RawMatrix().Data }

func (m Matrix) Copy() (R Matrix) {
	var (
		nr, nc = m.Dims()
		data   = m.Data()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, data)
	R = NewMatrix(nr, nc, dataR)
	return
}

// EqualNaN reports elementwise equality, treating NaN == NaN as true.
func (m Matrix) EqualNaN(a Matrix) bool {
	mr, mc := m.Dims()
	ar, ac := a.Dims()
	if mr != ar || mc != ac {
		return false
	}
	mD, aD := m.Data(), a.Data()
	for i, val := range mD {
		if math.IsNaN(val) && math.IsNaN(aD[i]) {
			continue
		}
		if val != aD[i] {
			return false
		}
	}
	return true
}
