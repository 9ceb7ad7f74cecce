/*
Package classification is the record one classification produces
and the next one carries over.
*/
package classification

import (
	"encoding/json"
	"github.com/rotblauer/mobility/types/activity"
	"math"
	"slices"
)

// SpectrumBins is the number of Goertzel bins; bin i is integer frequency i+1.
const SpectrumBins = 10

// WifiReport is the Wi-Fi sub-classifier output.
// Total is the number of significant access points in the current scan,
// Matched is how many of those were also significant in the recent history.
type WifiReport struct {
	Mode    activity.Activity `json:"mode"`
	Total   int               `json:"total"`
	Matched int               `json:"matched"`
}

// Ratio returns Matched/Total, or NaN when there were no significant access points.
func (w WifiReport) Ratio() float64 {
	if w.Total == 0 {
		return math.NaN()
	}
	return float64(w.Matched) / float64(w.Total)
}

// MarshalJSON adds the match ratio, null when there is none.
func (w WifiReport) MarshalJSON() ([]byte, error) {
	type Alias WifiReport
	aux := struct {
		Alias
		Ratio *float64 `json:"ratio"`
	}{Alias: Alias(w)}
	if r := w.Ratio(); !math.IsNaN(r) {
		aux.Ratio = &r
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// A missing mode decodes as Unknown, not as the zero Activity.
func (w *WifiReport) UnmarshalJSON(data []byte) error {
	type Alias WifiReport
	aux := Alias{Mode: activity.Unknown}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = WifiReport(aux)
	return nil
}

// LocationReport is the location sub-classifier output. Radius and Travelled are in meters.
type LocationReport struct {
	Mode      activity.Activity `json:"mode"`
	Radius    float64           `json:"radius"`
	Travelled float64           `json:"travelled"`
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// A missing mode decodes as Unknown, not as the zero Activity.
func (l *LocationReport) UnmarshalJSON(data []byte) error {
	type Alias LocationReport
	aux := Alias{Mode: activity.Unknown}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = LocationReport(aux)
	return nil
}

// Result is a classification of one sensing window into a mode and, when computed, features.
type Result struct {
	Mode        activity.Activity `json:"mode"`
	HasFeatures bool              `json:"hasFeatures"`
	Average     float64           `json:"average"`
	Variance    float64           `json:"variance"`
	Spectrum    []float64         `json:"spectrum,omitempty"`

	Wifi     WifiReport     `json:"wifi"`
	Location LocationReport `json:"location"`
}

// Default is the carried-over record for a first call.
func Default() Result {
	return Result{
		Mode:     activity.Unknown,
		Wifi:     WifiReport{Mode: activity.Unknown},
		Location: LocationReport{Mode: activity.Unknown},
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Missing modes and reports decode as in Default.
func (r *Result) UnmarshalJSON(data []byte) error {
	type Alias Result
	aux := Alias(Default())
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Result(aux)
	return nil
}

// Normalized returns a copy of r safe for reuse as a previous classification:
// sub-modes other than Still or Drive become Unknown.
// A zero-valued report is unset and becomes Unknown too; the zero Activity is Still,
// but no sub-classifier emits a zero report.
func (r Result) Normalized() Result {
	out := r
	out.Spectrum = slices.Clone(r.Spectrum)
	out.Wifi.Mode = r.Wifi.Mode.AsSubMode()
	if r.Wifi == (WifiReport{}) {
		out.Wifi.Mode = activity.Unknown
	}
	out.Location.Mode = r.Location.Mode.AsSubMode()
	if r.Location == (LocationReport{}) {
		out.Location.Mode = activity.Unknown
	}
	return out
}
