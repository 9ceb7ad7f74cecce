package params

import (
	"fmt"
	"time"
)

// TreeKind selects the decision tree fusing the features into a mode.
type TreeKind string

const (
	// TreeFused consults variance, Wi-Fi and location. It never yields Run.
	TreeFused TreeKind = "fused"
	// TreeLegacy is the earlier generation consulting variance, spectrum and GPS speed.
	TreeLegacy TreeKind = "legacy"
)

func ParseTreeKind(s string) (TreeKind, error) {
	switch TreeKind(s) {
	case TreeFused, "":
		return TreeFused, nil
	case TreeLegacy:
		return TreeLegacy, nil
	}
	return "", fmt.Errorf("unknown decision tree %q (want %q or %q)", s, TreeFused, TreeLegacy)
}

type ClassifierConfig struct {
	// WifiChecking enables the Wi-Fi proximity sub-classifier.
	WifiChecking bool
	// LocationChecking enables the location radius sub-classifier.
	LocationChecking bool
	Tree             TreeKind

	// MinSamples is the window size at or below which a window is Still without features.
	MinSamples int
	// WifiWindow bounds the age of scans compared against the current scan.
	WifiWindow time.Duration
	// LocationWindow bounds the age of the newest historical location.
	LocationWindow time.Duration
	// RadiusSeparation is the minimum time between the two points a radius is measured from.
	RadiusSeparation time.Duration
}

var DefaultClassifierConfig = &ClassifierConfig{
	WifiChecking:     true,
	LocationChecking: true,
	Tree:             TreeFused,
	MinSamples:       10,
	WifiWindow:       10 * time.Minute,
	LocationWindow:   6 * time.Minute,
	RadiusSeparation: 60 * time.Second,
}
