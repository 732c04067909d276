package dfsu

import (
	"fmt"
	"math"
	"time"

	"github.com/hydroscale/meshts/eum"
	"github.com/hydroscale/meshts/utils"
)

// Dataset is the in-memory form of a container selection: one (time step ×
// element) matrix per item, the absolute time axis and the item metadata.
// Missing samples are NaN; the container's delete value never leaks into a
// Dataset.
type Dataset struct {
	Items []eum.ItemInfo
	Time  []time.Time
	Data  []utils.Matrix
}

func (ds *Dataset) NumItems() int { return len(ds.Items) }

func (ds *Dataset) NumTimeSteps() int { return len(ds.Time) }

func (ds *Dataset) NumElements() int {
	if len(ds.Data) == 0 {
		return 0
	}
	_, nc := ds.Data[0].Dims()
	return nc
}

// Validate checks the shape invariant: one matrix per item, all matrices
// (len(Time) × E) with a shared E, and a non-decreasing time axis.
func (ds *Dataset) Validate() error {
	if len(ds.Items) != len(ds.Data) {
		return fmt.Errorf("%d items but %d data matrices", len(ds.Items), len(ds.Data))
	}
	for i, m := range ds.Data {
		nr, nc := m.Dims()
		if nr != len(ds.Time) {
			return fmt.Errorf("item %d has %d rows, time axis has %d steps", i, nr, len(ds.Time))
		}
		if nc != ds.NumElements() {
			return fmt.Errorf("item %d has %d columns, item 0 has %d", i, nc, ds.NumElements())
		}
	}
	for i := 1; i < len(ds.Time); i++ {
		if ds.Time[i].Before(ds.Time[i-1]) {
			return fmt.Errorf("time axis decreases at step %d", i)
		}
	}
	return nil
}

func (ds *Dataset) String() string {
	return fmt.Sprintf("Dataset(%d items, %d steps, %d elements)",
		ds.NumItems(), ds.NumTimeSteps(), ds.NumElements())
}

// maskToNaN replaces the container's delete value with NaN in place. The
// inverse of maskFromNaN; together they keep the sentinel conversion total
// and confined to the read/write boundary.
func maskToNaN(row []float64, deleteValue float64) {
	for i, v := range row {
		if v == deleteValue {
			row[i] = math.NaN()
		}
	}
}

// maskFromNaN copies src to dst replacing NaN with the delete value.
func maskFromNaN(dst, src []float64, deleteValue float64) {
	for i, v := range src {
		if math.IsNaN(v) {
			dst[i] = deleteValue
		} else {
			dst[i] = v
		}
	}
}
