package classification

import (
	"encoding/json"
	"github.com/rotblauer/mobility/types/activity"
	"math"
	"testing"
)

func TestWifiReport_Ratio(t *testing.T) {
	if r := (WifiReport{}).Ratio(); !math.IsNaN(r) {
		t.Errorf("zero total: expected NaN, but got %v", r)
	}
	if r := (WifiReport{Total: 5, Matched: 4}).Ratio(); r != 0.8 {
		t.Errorf("Expected 0.8, but got %v", r)
	}
}

func TestResult_Normalized(t *testing.T) {
	r := Result{
		Mode:     activity.Walk,
		Spectrum: []float64{1, 2, 3},
		Wifi:     WifiReport{Mode: activity.Walk, Total: 3, Matched: 1},
		Location: LocationReport{Mode: activity.Run, Radius: 12},
	}
	n := r.Normalized()
	if n.Wifi.Mode != activity.Unknown || n.Location.Mode != activity.Unknown {
		t.Errorf("Unexpected wifi=%v location=%v", n.Wifi.Mode, n.Location.Mode)
	}
	if n.Wifi.Total != 3 || n.Wifi.Matched != 1 || n.Location.Radius != 12 {
		t.Errorf("counters changed: %+v", n)
	}
	if n.Mode != activity.Walk {
		t.Errorf("mode changed: %v", n.Mode)
	}
	n.Spectrum[0] = 99
	if r.Spectrum[0] != 1 {
		t.Error("Normalized aliases the spectrum of its receiver")
	}
	if r.Wifi.Mode != activity.Walk {
		t.Error("Normalized mutated its receiver")
	}

	keep := Result{Wifi: WifiReport{Mode: activity.Drive, Total: 2}, Location: LocationReport{Mode: activity.Still, Radius: 5}}.Normalized()
	if keep.Wifi.Mode != activity.Drive || keep.Location.Mode != activity.Still {
		t.Errorf("Unexpected %+v", keep)
	}
}

func TestResult_JSONCarryOver(t *testing.T) {
	data := `{"mode":"drive","hasFeatures":true,"wifi":{"mode":"walk","total":4,"matched":1},"location":{"mode":"drive","radius":150.5}}`
	var r Result
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatal(err)
	}
	n := r.Normalized()
	if n.Wifi.Mode != activity.Unknown {
		t.Errorf("aberrant wifi mode survived: %v", n.Wifi.Mode)
	}
	if n.Location.Mode != activity.Drive || n.Location.Radius != 150.5 {
		t.Errorf("Unexpected %+v", n.Location)
	}
}

func TestResult_NormalizedZeroReports(t *testing.T) {
	for _, r := range []Result{{}, {Mode: activity.Walk, HasFeatures: true}} {
		n := r.Normalized()
		if n.Wifi.Mode != activity.Unknown || n.Location.Mode != activity.Unknown {
			t.Errorf("Expected unset reports to be unknown, but got wifi=%v location=%v", n.Wifi.Mode, n.Location.Mode)
		}
	}
}

func TestResult_JSONMissingModes(t *testing.T) {
	for _, data := range []string{
		`{"mode":"walk"}`,
		`{"mode":"walk","wifi":{"total":0},"location":{"radius":0}}`,
		`{"mode":"walk","wifi":null,"location":{}}`,
	} {
		var r Result
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			t.Fatal(err)
		}
		if r.Mode != activity.Walk {
			t.Errorf("%s: expected %v, but got %v", data, activity.Walk, r.Mode)
		}
		if r.Wifi.Mode != activity.Unknown || r.Location.Mode != activity.Unknown {
			t.Errorf("%s: expected unknown sub-modes, but got wifi=%v location=%v", data, r.Wifi.Mode, r.Location.Mode)
		}
	}

	var r Result
	if err := json.Unmarshal([]byte(`{}`), &r); err != nil {
		t.Fatal(err)
	}
	if r.Mode != activity.Unknown {
		t.Errorf("Expected %v, but got %v", activity.Unknown, r.Mode)
	}
}

func TestWifiReport_JSONRatio(t *testing.T) {
	b, err := json.Marshal(WifiReport{Mode: activity.Still, Total: 5, Matched: 4})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"mode":"still","total":5,"matched":4,"ratio":0.8}`; string(b) != want {
		t.Errorf("Expected %s, but got %s", want, b)
	}

	b, err = json.Marshal(Default().Wifi)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"mode":"unknown","total":0,"matched":0,"ratio":null}`; string(b) != want {
		t.Errorf("Expected %s, but got %s", want, b)
	}

	var w WifiReport
	if err := json.Unmarshal([]byte(`{"mode":"drive","total":3,"matched":1,"ratio":0.333}`), &w); err != nil {
		t.Fatal(err)
	}
	if w != (WifiReport{Mode: activity.Drive, Total: 3, Matched: 1}) {
		t.Errorf("Unexpected %+v", w)
	}
}
