package observations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// HourlyRecord is one aggregated observation for a station at a given hour.
// Beyond the fixed fields, stations report an open set of measurements
// (temperature, humidity, ...) whose keys depend on the sensor configuration,
// so those are kept in a map rather than modeled statically.
type HourlyRecord struct {
	StationCode     string
	Year            int
	DayOfYear       int
	RepresentedDate string // ISO YYYY-MM-DD
	RepresentedHour int    // 0-23
	RecordCount     int

	// Measurements holds every non-fixed key from the wire object.
	// Values are json.Number for numerics and string otherwise.
	Measurements map[string]any
}

var fixedKeys = map[string]bool{
	"stationCode":     true,
	"year":            true,
	"dayOfYear":       true,
	"representedDate": true,
	"representedHour": true,
	"recordCount":     true,
}

// UnmarshalJSON splits the wire object into the fixed fields and the
// open-ended measurement map.
func (r *HourlyRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	getStr := func(key string) (string, error) {
		v, ok := raw[key]
		if !ok {
			return "", nil
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("field %s: expected string, got %T", key, v)
		}
		return s, nil
	}
	getInt := func(key string) (int, error) {
		v, ok := raw[key]
		if !ok {
			return 0, nil
		}
		n, ok := v.(json.Number)
		if !ok {
			return 0, fmt.Errorf("field %s: expected number, got %T", key, v)
		}
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("field %s: %w", key, err)
		}
		return int(i), nil
	}

	var err error
	if r.StationCode, err = getStr("stationCode"); err != nil {
		return err
	}
	if r.RepresentedDate, err = getStr("representedDate"); err != nil {
		return err
	}
	if r.Year, err = getInt("year"); err != nil {
		return err
	}
	if r.DayOfYear, err = getInt("dayOfYear"); err != nil {
		return err
	}
	if r.RepresentedHour, err = getInt("representedHour"); err != nil {
		return err
	}
	if r.RecordCount, err = getInt("recordCount"); err != nil {
		return err
	}

	r.Measurements = make(map[string]any)
	for k, v := range raw {
		if fixedKeys[k] {
			continue
		}
		r.Measurements[k] = v
	}
	return nil
}

// MeasurementValue returns the named measurement as a float64 when it is
// numeric on the wire.
func (r HourlyRecord) MeasurementValue(name string) (float64, bool) {
	v, ok := r.Measurements[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	}
	return 0, false
}

// MeasurementString renders the named measurement for display; empty when absent.
func (r HourlyRecord) MeasurementString(name string) string {
	v, ok := r.Measurements[name]
	if !ok {
		return ""
	}
	switch n := v.(type) {
	case json.Number:
		return n.String()
	case string:
		return n
	}
	return fmt.Sprintf("%v", v)
}

// Time places the record on the timeline in the display zone.
func (r HourlyRecord) Time() time.Time {
	t, err := time.ParseInLocation(dayFormat, r.RepresentedDate, displayZone)
	if err != nil {
		return time.Time{}
	}
	return t.Add(time.Duration(r.RepresentedHour) * time.Hour)
}

// MeasurementNames collects the union of measurement keys across records,
// sorted so table columns stay stable as the window grows.
func MeasurementNames(records []HourlyRecord) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range r.Measurements {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
