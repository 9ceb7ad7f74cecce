package classifier

import (
	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/rotblauer/mobility/types/activity"
	"github.com/rotblauer/mobility/types/classification"
	"github.com/rotblauer/mobility/types/sensor"
	"log/slog"
	"time"
)

// SignificantAccessPoints returns the SSIDs of the access points heard at least
// as strongly as the mean strength of the scan, in scan order.
func SignificantAccessPoints(aps []sensor.AccessPoint) []string {
	if len(aps) == 0 {
		return []string{}
	}
	strengths := make(stats.Float64Data, len(aps))
	for i, ap := range aps {
		strengths[i] = ap.Strength
	}
	avg, _ := stats.Mean(strengths)
	out := make([]string, 0, len(aps))
	for _, ap := range aps {
		if ap.Strength >= avg {
			out = append(out, ap.SSID)
		}
	}
	return out
}

// wifiDriveThreshold is the largest number of recognized access points still considered Drive.
func wifiDriveThreshold(total int) int {
	switch {
	case total == 1:
		return 0
	case total <= 3:
		return 1
	}
	return 2
}

// CheckWifi compares the significant access points of scan to those of the scans in history
// no older than window, and classifies Still when enough of them are recognized, else Drive.
// History is ordered by time, most recent last.
// When the latest historical scan is the current scan, the previous report is returned unchanged.
func CheckWifi(scan *sensor.WifiScan, history []sensor.WifiScan, previous classification.WifiReport, window time.Duration) classification.WifiReport {
	if scan == nil || len(history) == 0 {
		return classification.WifiReport{Mode: activity.Unknown}
	}
	last := history[len(history)-1]
	if last.Time.Equal(scan.Time) {
		slog.Debug("No new Wi-Fi scan, carrying previous", "mode", previous.Mode)
		return previous
	}
	oldest := scan.Time.Add(-window)
	if last.Time.Before(oldest) {
		slog.Debug("Wi-Fi history is stale",
			"last", humanize.RelTime(last.Time, scan.Time, "before scan", "after scan"))
		return classification.WifiReport{Mode: activity.Unknown}
	}

	seenTimes := map[int64]struct{}{}
	recent := map[string]struct{}{}
	for _, h := range history {
		if h.Time.Before(oldest) {
			continue
		}
		if _, ok := seenTimes[h.Time.UnixNano()]; ok {
			continue
		}
		seenTimes[h.Time.UnixNano()] = struct{}{}
		for _, ssid := range SignificantAccessPoints(h.AccessPoints) {
			recent[ssid] = struct{}{}
		}
	}

	report := classification.WifiReport{Mode: activity.Unknown}
	for _, ssid := range SignificantAccessPoints(scan.AccessPoints) {
		if _, ok := recent[ssid]; ok {
			report.Matched++
		}
		report.Total++
	}
	if report.Total == 0 {
		return report
	}
	if report.Matched <= wifiDriveThreshold(report.Total) {
		report.Mode = activity.Drive
	} else {
		report.Mode = activity.Still
	}
	return report
}
