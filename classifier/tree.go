package classifier

import (
	"github.com/rotblauer/mobility/types/activity"
	"math"
)

// Thresholds below come from offline model fitting. Do not re-derive them.
const (
	fusedStillVarianceMax = 0.038625
	fusedWifiMatchedMax   = 3
	fusedWifiRatioMax     = 0.380952
	fusedDriveRadiusMin   = 108.0

	legacyStillVarianceMax = 0.016791
	legacySpeedStillMax    = 0.791462
	legacyWalkEnergy3Max   = 16.840921
)

// Features are the per-window inputs to a decision tree.
// WifiRatio is NaN when no significant access points were compared.
// Speed is NaN when unknown.
type Features struct {
	Speed       float64
	Average     float64
	Variance    float64
	Spectrum    []float64
	WifiMatched int
	WifiRatio   float64
	Radius      float64
}

// FusedTree is the active decision tree. It yields Still, Walk or Drive.
func FusedTree(f Features) activity.Activity {
	if f.Variance <= fusedStillVarianceMax {
		if (f.WifiMatched <= fusedWifiMatchedMax && f.WifiRatio <= fusedWifiRatioMax) || f.Radius > fusedDriveRadiusMin {
			return activity.Drive
		}
		return activity.Still
	}
	return activity.Walk
}

// LegacyTree is the earlier, speed-aware tree, the only one that yields Run.
// Spectrum must hold all bins.
func LegacyTree(f Features) activity.Activity {
	slow := math.IsNaN(f.Speed) || f.Speed <= legacySpeedStillMax
	if f.Variance <= legacyStillVarianceMax {
		// The fitted tree also split on frequency 6 here; both sides agree.
		if slow {
			return activity.Still
		}
		return activity.Drive
	}
	if f.Spectrum[2] <= legacyWalkEnergy3Max {
		return activity.Walk
	}
	return activity.Run
}
