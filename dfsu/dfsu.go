// Package dfsu reads, writes and creates flexible-mesh time-series
// containers and exposes the mesh geometry queries defined on an open
// container.
package dfsu

import (
	"fmt"
	"time"

	"github.com/hydroscale/meshts/dfs"
	"github.com/hydroscale/meshts/eum"
	"github.com/hydroscale/meshts/mesh"
	"github.com/hydroscale/meshts/utils"
)

// Selection narrows a Read to a subset of items and time steps. A nil
// Selection, or a nil field, means all. ItemNames takes precedence over
// ItemNumbers; both count user-visible items only (the dynamic Z pseudo-item
// of 3D kinds is never addressable).
type Selection struct {
	ItemNumbers []int
	ItemNames   []string
	TimeSteps   []int
}

// Read loads the selected items and time steps of a container into a
// Dataset. The container is closed before returning, on every path.
func Read(filename string, sel *Selection) (ds *Dataset, err error) {
	df, err := dfs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer df.Close()
	return readFrom(df, sel)
}

func readFrom(df *dfs.File, sel *Selection) (ds *Dataset, err error) {
	// 3D kinds reserve physical item 1 for the dynamic Z pseudo-item
	itemOffset := 0
	nItems := df.ItemCount()
	switch df.FileType() {
	case dfs.FileType2D:
	case dfs.FileType3DSigma, dfs.FileType3DSigmaZ:
		itemOffset = 1
		nItems--
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, df.FileType())
	}

	var itemNumbers, timeSteps []int
	if sel != nil {
		itemNumbers = sel.ItemNumbers
		timeSteps = sel.TimeSteps
		if len(sel.ItemNames) > 0 {
			if itemNumbers, err = findItems(df.Items()[itemOffset:], sel.ItemNames); err != nil {
				return nil, err
			}
		}
	}
	if itemNumbers == nil {
		itemNumbers = make([]int, nItems)
		for i := range itemNumbers {
			itemNumbers[i] = i
		}
	}
	for _, num := range itemNumbers {
		if num < 0 || num >= nItems {
			return nil, fmt.Errorf("item number %d out of range 0..%d", num, nItems-1)
		}
	}
	if timeSteps == nil {
		timeSteps = make([]int, df.TimeStepCount())
		for i := range timeSteps {
			timeSteps[i] = i
		}
	}

	var (
		nElements   = df.ElementCount()
		deleteValue = df.DeleteValue()
		data        = make([]utils.Matrix, len(itemNumbers))
		tSeconds    = make([]float64, len(timeSteps))
	)
	for i := range data {
		data[i] = utils.NewMatrix(len(timeSteps), nElements)
	}

	for i, it := range timeSteps {
		for item, num := range itemNumbers {
			elapsed, row, err := df.ReadItemTimeStep(num+itemOffset+1, it)
			if err != nil {
				return nil, err
			}
			maskToNaN(row, deleteValue)
			data[item].SetRow(i, row)
			tSeconds[i] = elapsed
		}
	}

	var (
		start    = df.StartTime()
		timeAxis = make([]time.Time, len(timeSteps))
		items    = make([]eum.ItemInfo, len(itemNumbers))
	)
	for i, tsec := range tSeconds {
		timeAxis[i] = start.Add(time.Duration(tsec * float64(time.Second)))
	}
	for i, num := range itemNumbers {
		items[i] = df.Items()[num+itemOffset]
	}

	return &Dataset{Items: items, Time: timeAxis, Data: data}, nil
}

// findItems resolves item names against the user-visible item metadata,
// preserving request order.
func findItems(items []eum.ItemInfo, names []string) ([]int, error) {
	numbers := make([]int, 0, len(names))
	for _, name := range names {
		found := -1
		for i, item := range items {
			if item.Name == name {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("%w: %q", ErrItemNotFound, name)
		}
		numbers = append(numbers, found)
	}
	return numbers, nil
}

// Write overwrites the data section of an existing container. data must hold
// one (timeStepCount × elementCount) matrix per item, in the container's
// item order; shapes are validated up front and rows are written in the
// strict nested (time step, item) order the container requires.
func Write(filename string, data []utils.Matrix) (err error) {
	df, err := dfs.OpenEdit(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	return writeTo(df, data)
}

func writeTo(df *dfs.File, data []utils.Matrix) error {
	var (
		nItems      = df.ItemCount()
		nTimeSteps  = df.TimeStepCount()
		nElements   = df.ElementCount()
		deleteValue = df.DeleteValue()
	)
	if len(data) != nItems {
		return fmt.Errorf("%w: %d matrices supplied, container has %d items",
			ErrShapeMismatch, len(data), nItems)
	}
	for i, m := range data {
		nr, nc := m.Dims()
		if nr != nTimeSteps || nc != nElements {
			return fmt.Errorf("%w: item %d is (%d,%d), container wants (%d,%d)",
				ErrShapeMismatch, i, nr, nc, nTimeSteps, nElements)
		}
	}

	buf := make([]float64, nElements)
	for i := 0; i < nTimeSteps; i++ {
		for item := 0; item < nItems; item++ {
			maskFromNaN(buf, data[item].Row(i), deleteValue)
			if err := df.WriteItemTimeStepNext(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateConfig carries the optional parameters of Create. The zero value
// means: start now, one-second steps, synthesized item names, no title.
type CreateConfig struct {
	StartTime time.Time
	Dt        float64
	TimeUnit  eum.TimeStepUnit
	Items     []eum.ItemInfo
	Title     string
}

// Create builds a new 2D container at filename from the mesh in meshFilename
// and the supplied data, one (timeSteps × elements) matrix per item.
func Create(meshFilename, filename string, data []utils.Matrix, cfg *CreateConfig) (err error) {
	if cfg == nil {
		cfg = &CreateConfig{}
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: no data matrices supplied", ErrShapeMismatch)
	}

	msh, err := mesh.ReadMeshFile(meshFilename)
	if err != nil {
		return err
	}

	nTimeSteps, nElements := data[0].Dims()
	if nElements != msh.NumElements() {
		return fmt.Errorf("%w: data has %d columns, mesh has %d elements",
			ErrShapeMismatch, nElements, msh.NumElements())
	}
	for i, m := range data {
		nr, nc := m.Dims()
		if nr != nTimeSteps || nc != nElements {
			return fmt.Errorf("%w: item %d is (%d,%d), item 0 is (%d,%d)",
				ErrShapeMismatch, i, nr, nc, nTimeSteps, nElements)
		}
	}

	items := cfg.Items
	if items == nil {
		items = make([]eum.ItemInfo, len(data))
		for i := range items {
			items[i] = eum.NewItemInfo(fmt.Sprintf("Item %d", i+1))
		}
	}
	if len(items) != len(data) {
		return fmt.Errorf("%w: %d items declared for %d data matrices",
			ErrShapeMismatch, len(items), len(data))
	}

	start := cfg.StartTime
	if start.IsZero() {
		start = time.Now().UTC()
	}
	dt := cfg.Dt
	if dt == 0 {
		dt = 1
	}

	b := dfs.NewBuilder(dfs.FileType2D).
		SetMesh(msh).
		SetTitle(cfg.Title).
		SetTimeInfo(start, dt*cfg.TimeUnit.Seconds())
	for _, item := range items {
		b.AddDynamicItem(item)
	}

	df, err := b.CreateFile(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()

	deleteValue := df.DeleteValue()
	buf := make([]float64, nElements)
	for i := 0; i < nTimeSteps; i++ {
		for item := range data {
			maskFromNaN(buf, data[item].Row(i), deleteValue)
			if err = df.WriteItemTimeStepNext(buf); err != nil {
				return err
			}
		}
	}
	return nil
}
