/*
Package classifier infers a transport mode from one window of accelerometer samples,
optionally refined by Wi-Fi scans and location history.

A Classifier holds only its immutable configuration; every call is a pure function
of its Input, so calls may run concurrently. Temporal smoothing is the caller's
business: the Result of one call goes back in as Input.Previous of the next.
*/
package classifier

import (
	"github.com/rotblauer/mobility/params"
	"github.com/rotblauer/mobility/types/activity"
	"github.com/rotblauer/mobility/types/classification"
	"github.com/rotblauer/mobility/types/sensor"
	"log/slog"
	"math"
)

// ClassifierVersion identifies the fitted model, for provenance only.
const ClassifierVersion = "1.4.7"

func Version() string {
	return ClassifierVersion
}

// Input is everything one classification looks at.
// Histories are ordered by time, most recent last, and exclude the current reading.
type Input struct {
	Samples []sensor.Sample
	// Speed is the GPS speed in m/s. Negative or NaN means unknown.
	Speed float64

	Wifi        *sensor.WifiScan
	WifiHistory []sensor.WifiScan

	Location        *sensor.Location
	LocationHistory []sensor.Location

	// Previous is the result of the last call, or nil on the first.
	Previous *classification.Result
}

type Classifier struct {
	config params.ClassifierConfig
}

// New returns a Classifier using a copy of config, or the defaults if config is nil.
func New(config *params.ClassifierConfig) *Classifier {
	if config == nil {
		config = params.DefaultClassifierConfig
	}
	return &Classifier{config: *config}
}

// Config returns a copy of the classifier configuration.
func (c *Classifier) Config() params.ClassifierConfig {
	return c.config
}

// Classify classifies in with the default configuration.
func Classify(in Input) classification.Result {
	return New(nil).Classify(in)
}

// Classify takes the raw sensor values and returns a classification with the
// transport mode and, when the window is long enough, its features.
func (c *Classifier) Classify(in Input) classification.Result {
	speed := in.Speed
	if speed < 0 {
		speed = math.NaN()
	}

	previous := classification.Default()
	if in.Previous != nil {
		previous = in.Previous.Normalized()
	}

	magnitudes := Magnitudes(in.Samples)

	result := classification.Default()
	if len(magnitudes) <= c.config.MinSamples {
		slog.Debug("Too few samples for features", "samples", len(magnitudes))
		result.Mode = activity.Still
		return result
	}

	if c.config.WifiChecking {
		result.Wifi = CheckWifi(in.Wifi, in.WifiHistory, previous.Wifi, c.config.WifiWindow)
	}
	if c.config.LocationChecking {
		result.Location = CheckLocation(in.Location, in.LocationHistory, previous.Location,
			c.config.LocationWindow, c.config.RadiusSeparation)
	}

	result.Spectrum = Spectrum(magnitudes)
	result.Average, result.Variance = MeanVariance(magnitudes)
	result.HasFeatures = true

	features := Features{
		Speed:       speed,
		Average:     result.Average,
		Variance:    result.Variance,
		Spectrum:    result.Spectrum,
		WifiMatched: result.Wifi.Matched,
		WifiRatio:   result.Wifi.Ratio(),
		Radius:      result.Location.Radius,
	}
	switch c.config.Tree {
	case params.TreeLegacy:
		result.Mode = LegacyTree(features)
	default:
		result.Mode = FusedTree(features)
	}
	return result
}
