package vitals

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// fieldAliases maps each logical field to its accepted wire spellings,
// resolved in priority order. Older firmware sends the short names; newer
// firmware sends the long ones.
var fieldAliases = map[Metric][]string{
	MetricPulse:            {"pulse", "bpm"},
	MetricOxygenSaturation: {"spo2", "oxygenSaturation"},
	MetricTemperature:      {"temp", "temperatureC"},
	MetricSystolic:         {"sys", "systolic"},
	MetricDiastolic:        {"dia", "diastolic"},
}

// ParseLine converts one raw line from the device into a Reading.
// The second return value reports whether the line was a valid reading;
// anything else (log noise, malformed JSON, missing or non-numeric fields)
// is rejected without error. The function never panics and has no side
// effects, so callers can feed it arbitrary wire garbage.
//
// The reading is stamped with receivedAt, not a device-supplied time: the
// wire protocol carries no time field.
func ParseLine(line string, receivedAt time.Time) (Reading, bool) {
	line = strings.TrimSpace(line)

	// Devices interleave plain-text status/log lines on the same channel;
	// only object-shaped lines are candidate readings.
	if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
		return Reading{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Reading{}, false
	}

	// All five fields must resolve to finite numbers, or the whole line is
	// rejected. Partial readings are never produced.
	values := make(map[Metric]float64, len(fieldAliases))
	for metric, aliases := range fieldAliases {
		v, ok := resolveField(fields, aliases)
		if !ok {
			return Reading{}, false
		}
		values[metric] = v
	}

	return Reading{
		Timestamp:        receivedAt,
		Pulse:            values[MetricPulse],
		OxygenSaturation: values[MetricOxygenSaturation],
		TemperatureC:     values[MetricTemperature],
		Systolic:         values[MetricSystolic],
		Diastolic:        values[MetricDiastolic],
	}, true
}

// resolveField finds the first alias present in the decoded object and
// coerces its value to a finite float64.
func resolveField(fields map[string]json.RawMessage, aliases []string) (float64, bool) {
	for _, name := range aliases {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		return coerceNumber(raw)
	}
	return 0, false
}

// coerceNumber accepts JSON numbers and numeric strings; everything else
// (null, booleans, objects, arrays, non-numeric strings) fails coercion.
func coerceNumber(raw json.RawMessage) (float64, bool) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, isFinite(num)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		num, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return num, isFinite(num)
	}

	return 0, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
