package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/rotblauer/mobility/classifier"
	"github.com/rotblauer/mobility/common"
	"github.com/rotblauer/mobility/params"
	"github.com/rotblauer/mobility/stream"
	"github.com/rotblauer/mobility/types/activity"
	"github.com/rotblauer/mobility/types/classification"
	"github.com/rotblauer/mobility/types/sensor"
	"github.com/spf13/viper"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var t0 = time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC)

func samplesJSON(t *testing.T, shake bool) string {
	t.Helper()
	samples := make([]sensor.Sample, 20)
	for i := range samples {
		samples[i] = sensor.Sample{Z: common.StandardGravity}
		if shake && i%2 == 0 {
			samples[i].Z = 0
		}
	}
	b, err := json.Marshal(samples)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func scanJSON(at time.Duration, ssids ...string) string {
	aps := make([]string, len(ssids))
	for i, ssid := range ssids {
		aps[i] = fmt.Sprintf(`{"ssid":%q,"strength":-50}`, ssid)
	}
	return fmt.Sprintf(`{"time":%q,"accessPoints":[%s]}`,
		t0.Add(at).Format(time.RFC3339), strings.Join(aps, ","))
}

func classifyLines(t *testing.T, session *classifySession, lines ...string) []classification.Result {
	t.Helper()
	meter := stream.NewTickMeter("test", 0)
	defer meter.Stop()

	out := new(bytes.Buffer)
	err := runClassify(context.Background(), session, strings.NewReader(strings.Join(lines, "\n")), out, meter)
	if err != nil {
		t.Fatal(err)
	}

	var results []classification.Result
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var r classification.Result
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("decode %q: %v", scanner.Text(), err)
		}
		results = append(results, r)
	}
	return results
}

func TestRunClassify(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()

	still, shake := samplesJSON(t, false), samplesJSON(t, true)
	session := newClassifySession(classifier.New(nil), 8, 8, time.Hour)
	results := classifyLines(t, session,
		fmt.Sprintf(`{"samples":%s,"wifi":%s}`, still, scanJSON(0, "a", "b", "c")),
		fmt.Sprintf(`{"samples":%s,"wifi":%s}`, still, scanJSON(time.Minute, "x", "y", "z")),
		// The same scan again: nothing new to compare.
		fmt.Sprintf(`{"samples":%s,"wifi":%s}`, still, scanJSON(time.Minute, "x", "y", "z")),
		`{"speed":1}`,
		`{"samples":`,
		fmt.Sprintf(`{"samples":%s,"speed":-1}`, shake),
	)

	want := []activity.Activity{activity.Still, activity.Drive, activity.Drive, activity.Walk}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, but got %d", len(want), len(results))
	}
	for i, r := range results {
		if r.Mode != want[i] {
			t.Errorf("window %d: expected %v, but got %v", i, want[i], r.Mode)
		}
		if !r.HasFeatures || len(r.Spectrum) != classification.SpectrumBins {
			t.Errorf("window %d: missing features %+v", i, r)
		}
	}
	if r := results[2].Wifi; r.Mode != activity.Drive || r.Total != 3 || r.Matched != 0 {
		t.Errorf("Expected carried Wi-Fi report, but got %+v", r)
	}
	if session.skipped != 2 {
		t.Errorf("Expected 2 skipped lines, but got %d", session.skipped)
	}
	if n := session.wifis.Len(); n != 2 {
		t.Errorf("Expected repeated scan to be remembered once, but have %d scans", n)
	}
	if top := session.tracker.Sorted(true)[0]; top.Activity != activity.Drive || top.Scalar != 2 {
		t.Errorf("Expected drive to dominate, but got %+v", top)
	}
	session.logSummary()
}

func TestRunClassify_HistoryOverride(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()

	still := samplesJSON(t, false)
	session := newClassifySession(classifier.New(nil), 8, 8, time.Hour)
	results := classifyLines(t, session,
		fmt.Sprintf(`{"samples":%s,"wifi":%s}`, still, scanJSON(0, "a", "b", "c")),
		fmt.Sprintf(`{"samples":%s,"wifi":%s,"wifiHistory":[]}`, still, scanJSON(time.Minute, "a", "b", "c")),
		fmt.Sprintf(`{"samples":%s,"wifi":%s,"wifiHistory":[%s]}`, still, scanJSON(2*time.Minute, "a", "b", "c"), scanJSON(90*time.Second, "a", "b")),
	)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, but got %d", len(results))
	}
	if r := results[1].Wifi; r.Mode != activity.Unknown || r.Total != 0 {
		t.Errorf("Expected empty history to give no report, but got %+v", r)
	}
	if r := results[2].Wifi; r.Mode != activity.Still || r.Total != 3 || r.Matched != 2 {
		t.Errorf("Expected report against the given history, but got %+v", r)
	}
}

func TestClassifySession_RecentLocations(t *testing.T) {
	session := newClassifySession(classifier.New(nil), 1, 4, time.Hour)
	for _, at := range []time.Duration{-10 * time.Minute, -5 * time.Minute, -7 * time.Minute, -time.Minute, -time.Minute} {
		loc := sensor.NewLocation(t0.Add(at), 46.87, -113.99)
		session.remember(classifyWindow{Location: &loc})
	}
	if n := session.locations.Len(); n != 4 {
		t.Fatalf("Expected 4 locations, but got %d", n)
	}

	cur := sensor.NewLocation(t0, 46.87, -113.99)
	got := session.recentLocations(&cur)
	if len(got) != 2 || !got[0].Time.Equal(t0.Add(-5*time.Minute)) || !got[1].Time.Equal(t0.Add(-time.Minute)) {
		t.Errorf("Expected the two locations within the window, but got %v", got)
	}
	if got := session.recentLocations(nil); len(got) != 4 {
		t.Errorf("Expected all locations without a current one, but got %d", len(got))
	}

	later := sensor.NewLocation(t0.Add(time.Hour), 46.87, -113.99)
	if got := session.recentLocations(&later); len(got) != 0 {
		t.Errorf("Expected no recent locations, but got %v", got)
	}
}

func TestClassifierConfig(t *testing.T) {
	defer viper.Set("tree", string(params.TreeFused))

	viper.Set("tree", "legacy")
	config, err := classifierConfig()
	if err != nil {
		t.Fatal(err)
	}
	if config.Tree != params.TreeLegacy {
		t.Errorf("Expected %v, but got %v", params.TreeLegacy, config.Tree)
	}
	if config.WifiWindow != params.DefaultClassifierConfig.WifiWindow {
		t.Errorf("Expected default Wi-Fi window, but got %v", config.WifiWindow)
	}

	viper.Set("tree", "random-forest")
	if _, err := classifierConfig(); err == nil {
		t.Error("Expected an unknown tree to fail")
	}
}
