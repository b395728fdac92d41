// Package vitals defines the vital-sign reading model and the wire-line
// parser for the sensor's NDJSON protocol.
package vitals

import (
	"math"
	"time"
)

// Metric identifies one of the five vital-sign channels carried by a Reading.
type Metric int

const (
	MetricPulse Metric = iota
	MetricOxygenSaturation
	MetricTemperature
	MetricSystolic
	MetricDiastolic
)

// Metrics lists all channels in display order.
var Metrics = []Metric{
	MetricPulse,
	MetricOxygenSaturation,
	MetricTemperature,
	MetricSystolic,
	MetricDiastolic,
}

// String returns a human-readable label for the metric.
func (m Metric) String() string {
	switch m {
	case MetricPulse:
		return "pulse"
	case MetricOxygenSaturation:
		return "SpO2"
	case MetricTemperature:
		return "temp"
	case MetricSystolic:
		return "systolic"
	case MetricDiastolic:
		return "diastolic"
	default:
		return "unknown"
	}
}

// Unit returns the display unit for the metric.
func (m Metric) Unit() string {
	switch m {
	case MetricPulse:
		return "bpm"
	case MetricOxygenSaturation:
		return "%"
	case MetricTemperature:
		return "°C"
	case MetricSystolic, MetricDiastolic:
		return "mmHg"
	default:
		return ""
	}
}

// Reading is one validated sensor measurement. It is immutable once
// constructed; the timestamp is the local receipt time (the device protocol
// carries no time field).
type Reading struct {
	Timestamp        time.Time
	Pulse            float64
	OxygenSaturation float64
	TemperatureC     float64
	Systolic         float64
	Diastolic        float64
}

// Value returns the reading's value for the given metric.
func (r Reading) Value(m Metric) float64 {
	switch m {
	case MetricPulse:
		return r.Pulse
	case MetricOxygenSaturation:
		return r.OxygenSaturation
	case MetricTemperature:
		return r.TemperatureC
	case MetricSystolic:
		return r.Systolic
	case MetricDiastolic:
		return r.Diastolic
	default:
		return math.NaN()
	}
}

// Range is a closed interval of clinically plausible values for one metric.
type Range struct {
	Min float64
	Max float64
}

// PlausibleRanges are the bounds applied before a reading is forwarded to
// persistence. Live display always shows raw values; clamping only protects
// the durable record from transient sensor glitches.
var PlausibleRanges = map[Metric]Range{
	MetricPulse:            {Min: 20, Max: 240},
	MetricOxygenSaturation: {Min: 50, Max: 100},
	MetricTemperature:      {Min: 30, Max: 45},
	MetricSystolic:         {Min: 50, Max: 260},
	MetricDiastolic:        {Min: 30, Max: 200},
}

// Clamp limits v to the range.
func (rg Range) Clamp(v float64) float64 {
	if v < rg.Min {
		return rg.Min
	}
	if v > rg.Max {
		return rg.Max
	}
	return v
}

// Clamped returns a copy of the reading with every channel limited to its
// clinically plausible range.
func (r Reading) Clamped() Reading {
	return Reading{
		Timestamp:        r.Timestamp,
		Pulse:            PlausibleRanges[MetricPulse].Clamp(r.Pulse),
		OxygenSaturation: PlausibleRanges[MetricOxygenSaturation].Clamp(r.OxygenSaturation),
		TemperatureC:     PlausibleRanges[MetricTemperature].Clamp(r.TemperatureC),
		Systolic:         PlausibleRanges[MetricSystolic].Clamp(r.Systolic),
		Diastolic:        PlausibleRanges[MetricDiastolic].Clamp(r.Diastolic),
	}
}
