package dfsu

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hydroscale/meshts/eum"
	"github.com/hydroscale/meshts/utils"
)

const unitQuadMesh = `100079  1000  4  UTM-33
1 0.0 0.0 -10.0 1
2 1.0 0.0 -10.0 1
3 1.0 1.0 -10.0 1
4 0.0 1.0 -10.0 1
1 4 25
1 1 2 3 4
`

const twoTriMesh = `100079  1000  4  UTM-33
1 0.0 0.0 -10.0 1
2 1.0 0.0 -10.0 0
3 1.0 1.0 -10.0 1
4 0.0 1.0 -10.0 1
2 3 21
1 1 2 3
2 1 3 4
`

func writeMeshFixture(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "fixture.mesh")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create mesh fixture: %v", err)
	}
	return tmpFile
}

// End-to-end scenario: one quad element, one item, two steps, second value
// missing.
func TestCreateReadScenario(t *testing.T) {
	var (
		meshFile = writeMeshFixture(t, unitQuadMesh)
		outFile  = filepath.Join(t.TempDir(), "scenario.dfsu")
		start    = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
		data     = []utils.Matrix{utils.NewMatrix(2, 1, []float64{1.0, math.NaN()})}
	)

	err := Create(meshFile, outFile, data, &CreateConfig{
		StartTime: start,
		Dt:        1,
		TimeUnit:  eum.StepSecond,
		Items:     []eum.ItemInfo{{Name: "Water Level", Quantity: eum.QuantityWaterLevel, Unit: eum.UnitMeter}},
	})
	assert.NoError(t, err)

	ds, err := Read(outFile, nil)
	assert.NoError(t, err)
	assert.NoError(t, ds.Validate())
	assert.Equal(t, 1, ds.NumItems())
	assert.Equal(t, 2, ds.NumTimeSteps())
	assert.Equal(t, 1, ds.NumElements())

	assert.Equal(t, 1.0, ds.Data[0].At(0, 0))
	assert.True(t, math.IsNaN(ds.Data[0].At(1, 0)))
	assert.Equal(t, "Water Level", ds.Items[0].Name)

	assert.True(t, ds.Time[0].Equal(start))
	assert.True(t, ds.Time[1].Equal(start.Add(time.Second)))

	f, err := Open(outFile)
	assert.NoError(t, err)
	defer f.Close()
	area := f.ElementArea()
	assert.Equal(t, 1, area.Len())
	assert.InDelta(t, 1.0, area.AtVec(0), 1.e-12)
}

func TestRoundTripMasking(t *testing.T) {
	var (
		meshFile = writeMeshFixture(t, twoTriMesh)
		outFile  = filepath.Join(t.TempDir(), "mask.dfsu")
		nan      = math.NaN()
		data     = []utils.Matrix{
			utils.NewMatrix(3, 2, []float64{
				1.5, nan,
				nan, 2.5,
				3.5, 4.5,
			}),
			utils.NewMatrix(3, 2, []float64{
				nan, nan,
				10, 20,
				nan, 30,
			}),
		}
	)

	err := Create(meshFile, outFile, data, nil)
	assert.NoError(t, err)

	ds, err := Read(outFile, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, ds.NumItems())
	for i := range data {
		assert.True(t, ds.Data[i].EqualNaN(data[i]), "item %d differs after round trip", i)
	}
}

func TestReadSelection(t *testing.T) {
	var (
		meshFile = writeMeshFixture(t, twoTriMesh)
		outFile  = filepath.Join(t.TempDir(), "sel.dfsu")
		items    = []eum.ItemInfo{
			{Name: "Water Level", Quantity: eum.QuantityWaterLevel, Unit: eum.UnitMeter},
			{Name: "Current Speed", Quantity: eum.QuantityCurrentSpeed, Unit: eum.UnitMeterPerSec},
			{Name: "Salinity", Quantity: eum.QuantitySalinity, Unit: eum.UnitPSU},
		}
		data = []utils.Matrix{
			utils.NewMatrix(4, 2, []float64{0, 1, 2, 3, 4, 5, 6, 7}),
			utils.NewMatrix(4, 2, []float64{10, 11, 12, 13, 14, 15, 16, 17}),
			utils.NewMatrix(4, 2, []float64{20, 21, 22, 23, 24, 25, 26, 27}),
		}
		start = time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	)
	err := Create(meshFile, outFile, data, &CreateConfig{
		StartTime: start, Dt: 30, TimeUnit: eum.StepMinute, Items: items,
	})
	assert.NoError(t, err)

	// By item number
	ds, err := Read(outFile, &Selection{ItemNumbers: []int{2, 0}})
	assert.NoError(t, err)
	assert.Equal(t, 2, ds.NumItems())
	assert.Equal(t, "Salinity", ds.Items[0].Name)
	assert.Equal(t, "Water Level", ds.Items[1].Name)
	assert.Equal(t, 20.0, ds.Data[0].At(0, 0))
	assert.Equal(t, 0.0, ds.Data[1].At(0, 0))

	// By name, taking precedence over numbers
	ds, err = Read(outFile, &Selection{ItemNumbers: []int{0}, ItemNames: []string{"Current Speed"}})
	assert.NoError(t, err)
	assert.Equal(t, 1, ds.NumItems())
	assert.Equal(t, "Current Speed", ds.Items[0].Name)
	assert.Equal(t, 10.0, ds.Data[0].At(0, 0))

	// Subset of time steps
	ds, err = Read(outFile, &Selection{TimeSteps: []int{1, 3}})
	assert.NoError(t, err)
	assert.Equal(t, 2, ds.NumTimeSteps())
	assert.Equal(t, 2.0, ds.Data[0].At(0, 0))
	assert.Equal(t, 6.0, ds.Data[0].At(1, 0))
	assert.True(t, ds.Time[0].Equal(start.Add(30*time.Minute)))
	assert.True(t, ds.Time[1].Equal(start.Add(90*time.Minute)))

	// Unknown name
	_, err = Read(outFile, &Selection{ItemNames: []string{"Bogus"}})
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Item number out of range
	_, err = Read(outFile, &Selection{ItemNumbers: []int{3}})
	assert.Error(t, err)
}

func TestReadShapeAndTimeInvariants(t *testing.T) {
	var (
		meshFile = writeMeshFixture(t, twoTriMesh)
		outFile  = filepath.Join(t.TempDir(), "inv.dfsu")
		start    = time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)
		data     = []utils.Matrix{utils.NewMatrix(5, 2), utils.NewMatrix(5, 2)}
	)
	err := Create(meshFile, outFile, data, &CreateConfig{StartTime: start, Dt: 2, TimeUnit: eum.StepHour})
	assert.NoError(t, err)

	ds, err := Read(outFile, nil)
	assert.NoError(t, err)
	assert.NoError(t, ds.Validate())
	assert.Equal(t, len(ds.Items), len(ds.Data))
	for _, m := range ds.Data {
		nr, nc := m.Dims()
		assert.Equal(t, len(ds.Time), nr)
		assert.Equal(t, 2, nc)
	}
	assert.True(t, ds.Time[0].Equal(start))
	for i := 1; i < len(ds.Time); i++ {
		assert.False(t, ds.Time[i].Before(ds.Time[i-1]))
		assert.Equal(t, 2*time.Hour, ds.Time[i].Sub(ds.Time[i-1]))
	}
}

func TestWriteOverwrite(t *testing.T) {
	var (
		meshFile = writeMeshFixture(t, twoTriMesh)
		outFile  = filepath.Join(t.TempDir(), "over.dfsu")
		nan      = math.NaN()
	)
	orig := []utils.Matrix{utils.NewMatrix(2, 2, []float64{1, 2, 3, 4})}
	assert.NoError(t, Create(meshFile, outFile, orig, nil))

	repl := []utils.Matrix{utils.NewMatrix(2, 2, []float64{9, nan, 7, 6})}
	assert.NoError(t, Write(outFile, repl))

	ds, err := Read(outFile, nil)
	assert.NoError(t, err)
	assert.True(t, ds.Data[0].EqualNaN(repl[0]))
}

func TestWriteShapeMismatch(t *testing.T) {
	var (
		meshFile = writeMeshFixture(t, twoTriMesh)
		outFile  = filepath.Join(t.TempDir(), "shape.dfsu")
	)
	assert.NoError(t, Create(meshFile, outFile,
		[]utils.Matrix{utils.NewMatrix(2, 2)}, nil))

	// Wrong item count
	err := Write(outFile, []utils.Matrix{utils.NewMatrix(2, 2), utils.NewMatrix(2, 2)})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// Wrong time step count
	err = Write(outFile, []utils.Matrix{utils.NewMatrix(3, 2)})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// Wrong element count
	err = Write(outFile, []utils.Matrix{utils.NewMatrix(2, 5)})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestCreateDefaults(t *testing.T) {
	var (
		meshFile = writeMeshFixture(t, twoTriMesh)
		outFile  = filepath.Join(t.TempDir(), "defaults.dfsu")
		before   = time.Now().Add(-time.Minute)
	)
	data := []utils.Matrix{utils.NewMatrix(1, 2), utils.NewMatrix(1, 2)}
	assert.NoError(t, Create(meshFile, outFile, data, nil))

	ds, err := Read(outFile, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Item 1", ds.Items[0].Name)
	assert.Equal(t, "Item 2", ds.Items[1].Name)
	assert.Equal(t, eum.QuantityUndefined, ds.Items[0].Quantity)
	assert.Equal(t, eum.UnitUndefined, ds.Items[0].Unit)
	assert.True(t, ds.Time[0].After(before))
}

func TestCreateErrors(t *testing.T) {
	var (
		meshFile = writeMeshFixture(t, twoTriMesh)
		dir      = t.TempDir()
	)

	// Missing mesh file
	err := Create(filepath.Join(dir, "missing.mesh"), filepath.Join(dir, "out.dfsu"),
		[]utils.Matrix{utils.NewMatrix(1, 2)}, nil)
	assert.Error(t, err)

	// Data column count disagrees with the mesh
	err = Create(meshFile, filepath.Join(dir, "out.dfsu"),
		[]utils.Matrix{utils.NewMatrix(1, 7)}, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// Item count disagrees with data
	err = Create(meshFile, filepath.Join(dir, "out.dfsu"),
		[]utils.Matrix{utils.NewMatrix(1, 2)},
		&CreateConfig{Items: []eum.ItemInfo{eum.NewItemInfo("a"), eum.NewItemInfo("b")}})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// Unwritable target
	err = Create(meshFile, filepath.Join(dir, "no", "such", "dir", "out.dfsu"),
		[]utils.Matrix{utils.NewMatrix(1, 2)}, nil)
	assert.ErrorIs(t, err, ErrCreateFailed)
}

func TestOpenGeometryQueries(t *testing.T) {
	var (
		meshFile = writeMeshFixture(t, twoTriMesh)
		outFile  = filepath.Join(t.TempDir(), "geom.dfsu")
	)
	assert.NoError(t, Create(meshFile, outFile,
		[]utils.Matrix{utils.NewMatrix(3, 2)}, nil))

	f, err := Open(outFile)
	assert.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 3, f.NumTimeSteps())
	assert.Equal(t, 2, f.NumElements())
	assert.Equal(t, 4, f.NumNodes())
	assert.False(t, f.IsGeographic())

	nc := f.NodeCoordinates()
	nr, cols := nc.Dims()
	assert.Equal(t, 4, nr)
	assert.Equal(t, 3, cols)

	// Code filter: node 2 (0-based 1) is the only code 0 node
	sea, err := f.NodeCoordinatesByCode(0)
	assert.NoError(t, err)
	nr, _ = sea.Dims()
	assert.Equal(t, 1, nr)
	assert.Equal(t, 1.0, sea.At(0, 0))

	_, err = f.NodeCoordinatesByCode(42)
	assert.ErrorIs(t, err, ErrInvalidCode)

	assert.Equal(t, 0, f.FindClosestElementIndex(0.7, 0.3))
	assert.Equal(t, 1, f.FindClosestElementIndex(0.3, 0.7))

	area := f.ElementArea()
	assert.Equal(t, 2, area.Len())
	assert.InDelta(t, 0.5, area.AtVec(0), 1.e-12)
	assert.InDelta(t, 0.5, area.AtVec(1), 1.e-12)

	// A second read on the same session
	ds, err := f.Read(&Selection{TimeSteps: []int{0}})
	assert.NoError(t, err)
	assert.Equal(t, 1, ds.NumTimeSteps())
}
