/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/rotblauer/mobility/classifier"
	"github.com/rotblauer/mobility/common"
	"github.com/rotblauer/mobility/params"
	"github.com/rotblauer/mobility/stream"
	"github.com/rotblauer/mobility/types/activity"
	"github.com/rotblauer/mobility/types/classification"
	"github.com/rotblauer/mobility/types/sensor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"log/slog"
	"math"
	"os"
	"time"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify NDJSON sensing windows from stdin",
	Long: `Reads one sensing window per line from stdin and writes one classification per line to stdout.

A window looks like:

  {"samples":[{"x":0.1,"y":0.2,"z":9.7}, ...],
   "speed":1.2,
   "wifi":{"time":"2024-11-20T10:00:00Z","accessPoints":[{"ssid":"home","strength":-61}]},
   "location":{"time":"2024-11-20T10:00:00Z","lat":46.87,"lon":-113.99}}

Only samples is required. Past scans and locations are remembered between lines,
up to --wifi-history and --location-history of them; a window may instead carry
its own "wifiHistory" and "locationHistory" arrays. The previous classification
is carried into the next, so lines must be in time order.

Lines that fail to decode are logged and skipped.

Flags:

  --wifi              Consult Wi-Fi scans. (Default is true.)
  --location          Consult location history. (Default is true.)
  --tree              Decision tree: fused or legacy. Only legacy yields run. (Default is fused.)
  --wifi-history      Number of past scans remembered.
  --location-history  Number of past locations remembered.
  --meter-interval    How often to log throughput; 0 disables.
  --summary-window    Span of the dominant modes summary logged at EOF.

Examples:

  cat windows.ndjson | mobility classify --tree legacy > modes.ndjson
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)

		config, err := classifierConfig()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		ctx, stop := common.NotifyInterrupt(context.Background())
		defer stop()

		session := newClassifySession(classifier.New(config),
			viper.GetInt("wifi-history"), viper.GetInt("location-history"),
			viper.GetDuration("summary-window"))
		meter := stream.NewTickMeter("windows", viper.GetDuration("meter-interval"))
		defer meter.Stop()

		slog.Info("Classifying windows from stdin",
			"version", classifier.Version(),
			"tree", config.Tree,
			"wifi", config.WifiChecking,
			"location", config.LocationChecking)

		err = runClassify(ctx, session, os.Stdin, cmd.OutOrStdout(), meter)
		meter.Log()
		session.logSummary()
		return err
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	flags := classifyCmd.Flags()
	flags.Bool("wifi", params.DefaultClassifierConfig.WifiChecking, "Consult Wi-Fi scans")
	flags.Bool("location", params.DefaultClassifierConfig.LocationChecking, "Consult location history")
	flags.String("tree", string(params.DefaultClassifierConfig.Tree), "Decision tree: fused or legacy")
	flags.Int("wifi-history", params.DefaultWifiHistorySize, "Number of past Wi-Fi scans remembered")
	flags.Int("location-history", params.DefaultLocationHistorySize, "Number of past locations remembered")
	flags.Duration("meter-interval", params.DefaultMeterInterval, "Throughput log interval, 0 disables")
	flags.Duration("summary-window", params.DefaultSummaryWindow, "Span of the dominant modes summary")
	for _, key := range []string{"wifi", "location", "tree", "wifi-history", "location-history", "meter-interval", "summary-window"} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

func classifierConfig() (*params.ClassifierConfig, error) {
	tree, err := params.ParseTreeKind(viper.GetString("tree"))
	if err != nil {
		return nil, err
	}
	config := *params.DefaultClassifierConfig
	config.WifiChecking = viper.GetBool("wifi")
	config.LocationChecking = viper.GetBool("location")
	config.Tree = tree
	return &config, nil
}

// classifyWindow is one input line.
type classifyWindow struct {
	Samples []sensor.Sample `json:"samples"`
	// Speed is nil when the line has no GPS speed.
	Speed    *float64         `json:"speed"`
	Wifi     *sensor.WifiScan `json:"wifi"`
	Location *sensor.Location `json:"location"`

	// Histories, when present, replace the remembered ones for this window.
	WifiHistory     []sensor.WifiScan `json:"wifiHistory"`
	LocationHistory []sensor.Location `json:"locationHistory"`
}

func (w classifyWindow) speed() float64 {
	if w.Speed == nil {
		return math.NaN()
	}
	return *w.Speed
}

// sensed returns the latest sensor time of the window, if any.
func (w classifyWindow) sensed() (time.Time, bool) {
	var t time.Time
	if w.Wifi != nil {
		t = w.Wifi.Time
	}
	if w.Location != nil && w.Location.Time.After(t) {
		t = w.Location.Time
	}
	return t, !t.IsZero()
}

// classifySession threads state from one window to the next.
type classifySession struct {
	classifier *classifier.Classifier
	previous   *classification.Result
	wifis      *common.RingBuffer[sensor.WifiScan]
	locations  *common.RingBuffer[sensor.Location]
	tracker    *activity.ModeTracker

	// clock is the latest sensor time seen; windows without one are tracked at it.
	clock      time.Time
	classified int64
	skipped    int64
}

func newClassifySession(c *classifier.Classifier, wifiHistory, locationHistory int, summaryWindow time.Duration) *classifySession {
	return &classifySession{
		classifier: c,
		wifis: common.NewSortingRingBuffer[sensor.WifiScan](wifiHistory, func(a, b sensor.WifiScan) bool {
			return a.Time.Before(b.Time)
		}),
		locations: common.NewSortingRingBuffer[sensor.Location](locationHistory, func(a, b sensor.Location) bool {
			return a.Time.Before(b.Time)
		}),
		tracker: activity.NewModeTracker(summaryWindow),
	}
}

// step classifies w against the remembered state, then remembers w.
func (s *classifySession) step(w classifyWindow) classification.Result {
	in := classifier.Input{
		Samples:         w.Samples,
		Speed:           w.speed(),
		Wifi:            w.Wifi,
		WifiHistory:     w.WifiHistory,
		Location:        w.Location,
		LocationHistory: w.LocationHistory,
		Previous:        s.previous,
	}
	if in.WifiHistory == nil {
		in.WifiHistory = s.wifis.Get()
	}
	if in.LocationHistory == nil {
		in.LocationHistory = s.recentLocations(w.Location)
	}

	result := s.classifier.Classify(in)
	s.previous = &result
	s.remember(w)
	s.classified++

	if t, ok := w.sensed(); ok && t.After(s.clock) {
		s.clock = t
	}
	at := s.clock
	if at.IsZero() {
		at = time.Now()
	}
	s.tracker.Push(result.Mode, at, 1)
	return result
}

// recentLocations returns the remembered locations within the location window of loc.
func (s *classifySession) recentLocations(loc *sensor.Location) []sensor.Location {
	all := s.locations.Get()
	if loc == nil {
		return all
	}
	oldest := loc.Time.Add(-s.classifier.Config().LocationWindow)
	for i, l := range all {
		if !l.Time.Before(oldest) {
			return all[i:]
		}
	}
	return all[:0]
}

func (s *classifySession) remember(w classifyWindow) {
	if w.Wifi != nil && !s.sameAsLastScan(*w.Wifi) {
		s.wifis.Add(*w.Wifi)
	}
	if w.Location != nil {
		if last, ok := s.locations.Last(); !ok || !last.Time.Equal(w.Location.Time) {
			s.locations.Add(*w.Location)
		}
	}
}

func (s *classifySession) sameAsLastScan(scan sensor.WifiScan) bool {
	last, ok := s.wifis.Last()
	if !ok {
		return false
	}
	a, err := last.Hash()
	if err != nil {
		slog.Warn("Failed to hash scan", "error", err)
		return false
	}
	b, err := scan.Hash()
	if err != nil {
		slog.Warn("Failed to hash scan", "error", err)
		return false
	}
	return a == b
}

func (s *classifySession) logSummary() {
	attrs := []any{
		"windows", humanize.Comma(s.classified),
		"skipped", humanize.Comma(s.skipped),
		"span", s.tracker.Span().Round(time.Second),
	}
	modes := s.tracker.Sorted(false)
	attrs = append(attrs,
		"active", common.DecimalToFixed(modes.Share(activity.Activity.IsActive), 3),
		"human", common.DecimalToFixed(modes.Share(activity.Activity.IsActiveHuman), 3))
	for _, m := range modes.RelWeights() {
		attrs = append(attrs, m.Activity.String(), common.DecimalToFixed(m.Scalar, 3))
	}
	slog.Info("Dominant modes", attrs...)
}

// runClassify writes one result line to out for each window line read from in.
// It returns on EOF, cancellation, or a read or write failure.
func runClassify(ctx context.Context, session *classifySession, in io.Reader, out io.Writer, meter *stream.TickMeter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, errs := stream.NDJSON[classifyWindow](ctx, in, "samples")
	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			slog.Warn("Classify interrupted", "windows", session.classified)
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-errs; err != nil {
					return fmt.Errorf("read windows: %w", err)
				}
				return nil
			}
			if err := classifyLine(session, enc, line); err != nil {
				return err
			}
			meter.Mark(len(line.Raw))
		}
	}
}

func classifyLine(session *classifySession, enc *json.Encoder, line stream.Line[classifyWindow]) error {
	if line.Err != nil {
		slog.Warn("Skipping window", "line", line.N, "error", line.Err)
		session.skipped++
		return nil
	}
	result := session.step(line.Value)
	if err := enc.Encode(result); err != nil {
		var unsupported *json.UnsupportedValueError
		if errors.As(err, &unsupported) {
			slog.Warn("Skipping unencodable result", "line", line.N, "error", err)
			return nil
		}
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
