// Package eum holds the engineering-unit metadata attached to dynamic items:
// physical quantity codes, unit codes and time step units.
package eum

import "fmt"

// Quantity is the physical quantity code of an item.
type Quantity int32

const (
	QuantityUndefined        Quantity = 999
	QuantityWaterLevel       Quantity = 100000
	QuantityCurrentSpeed     Quantity = 100002
	QuantityCurrentDirection Quantity = 100003
	QuantityTemperature      Quantity = 100006
	QuantitySalinity         Quantity = 100007
	QuantitySurfaceElevation Quantity = 100078
	QuantityBathymetry       Quantity = 100079
)

var quantityNames = map[Quantity]string{
	QuantityUndefined:        "Undefined",
	QuantityWaterLevel:       "Water Level",
	QuantityCurrentSpeed:     "Current Speed",
	QuantityCurrentDirection: "Current Direction",
	QuantityTemperature:      "Temperature",
	QuantitySalinity:         "Salinity",
	QuantitySurfaceElevation: "Surface Elevation",
	QuantityBathymetry:       "Bathymetry",
}

func (q Quantity) String() string {
	if name, ok := quantityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quantity(%d)", int32(q))
}

// Unit is the engineering unit code of an item.
type Unit int32

const (
	UnitUndefined   Unit = 0
	UnitMeter       Unit = 1000
	UnitSecond      Unit = 1400
	UnitMeterPerSec Unit = 2000
	UnitDegree      Unit = 2401
	UnitDegreeC     Unit = 2800
	UnitPSU         Unit = 3200
)

var unitNames = map[Unit]string{
	UnitUndefined:   "undefined",
	UnitMeter:       "meter",
	UnitSecond:      "sec",
	UnitMeterPerSec: "meter pr sec",
	UnitDegree:      "degree",
	UnitDegreeC:     "degree Celsius",
	UnitPSU:         "PSU",
}

func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Unit(%d)", int32(u))
}

// TimeStepUnit is the unit of the equidistant time axis step.
type TimeStepUnit int32

const (
	StepSecond TimeStepUnit = iota
	StepMinute
	StepHour
	StepDay
)

func (ts TimeStepUnit) String() string {
	return [...]string{"second", "minute", "hour", "day"}[ts]
}

// Seconds returns the number of seconds in one step unit.
func (ts TimeStepUnit) Seconds() float64 {
	return [...]float64{1, 60, 3600, 86400}[ts]
}

// ItemInfo describes one dynamic item: its name, physical quantity and unit.
type ItemInfo struct {
	Name     string
	Quantity Quantity
	Unit     Unit
}

// NewItemInfo returns an ItemInfo with undefined quantity and unit.
func NewItemInfo(name string) ItemInfo {
	return ItemInfo{Name: name, Quantity: QuantityUndefined, Unit: UnitUndefined}
}

func (it ItemInfo) String() string {
	return fmt.Sprintf("%s <%s> (%s)", it.Name, it.Quantity, it.Unit)
}
