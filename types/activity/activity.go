package activity

import (
	"fmt"
	"regexp"
	"slices"
	"time"
)

type Activity int

const (
	Still Activity = iota
	Walk
	Run
	Drive
	Unknown Activity = -1
)

var AllActivityNames = []string{
	Unknown.String(),
	Still.String(),
	Walk.String(),
	Run.String(),
	Drive.String(),
}

var (
	activityStill   = regexp.MustCompile(`(?i)^(still|stationary)$`)
	activityWalking = regexp.MustCompile(`(?i)^walk(ing)?$`)
	activityRunning = regexp.MustCompile(`(?i)^run(ning)?$`)
	activityDriving = regexp.MustCompile(`(?i)^(drive|driving|automotive)$`)
)

// IsActive returns whether the activity is moving.
func (a Activity) IsActive() bool {
	return a > Still && a <= Drive
}

// IsKnown returns true if the activity is not Unknown.
func (a Activity) IsKnown() bool {
	return a >= Still && a <= Drive
}

// IsActiveHuman returns whether the activity is human-powered.
func (a Activity) IsActiveHuman() bool {
	return a == Walk || a == Run
}

// AsSubMode restricts a to the values a sub-classifier may emit.
// Anything but Still or Drive is Unknown.
func (a Activity) AsSubMode() Activity {
	if a == Still || a == Drive {
		return a
	}
	return Unknown
}

// String implements the Stringer interface.
// The lowercase names are the wire values.
func (a Activity) String() string {
	switch a {
	case Still:
		return "still"
	case Walk:
		return "walk"
	case Run:
		return "run"
	case Drive:
		return "drive"
	}
	return "unknown"
}

func (a Activity) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText never fails; unrecognized names decode to Unknown.
func (a *Activity) UnmarshalText(text []byte) error {
	*a = FromString(string(text))
	return nil
}

func FromAny(a any) Activity {
	if a == nil {
		return Unknown
	}
	switch v := a.(type) {
	case string:
		return FromString(v)
	case Activity:
		if v.IsKnown() {
			return v
		}
	case fmt.Stringer:
		return FromString(v.String())
	}
	return Unknown
}

func FromString(str string) Activity {
	switch {
	case activityStill.MatchString(str):
		return Still
	case activityWalking.MatchString(str):
		return Walk
	case activityRunning.MatchString(str):
		return Run
	case activityDriving.MatchString(str):
		return Drive
	}
	return Unknown
}

// Mode implements basic reasoning about Activity frequency or weighting.
type Mode struct {
	Activity Activity
	Scalar   float64
}

// SortModes describes the sorting order of modes.
// Greater scalar values are ordered first, less scalar values last.
// In case of scalar ties, the "lesser" activity is preferred first.
func SortModes(a, b Mode) int {
	if a.Scalar > b.Scalar {
		return -1
	} else if a.Scalar < b.Scalar {
		return 1
	} else if int(a.Activity) < int(b.Activity) {
		return -1
	} else if int(a.Activity) > int(b.Activity) {
		return 1
	}
	return 0
}

// Modes is a slice of Mode.
type Modes []Mode

// RelWeights mutates the Modes slice to have relative scalar weights (0 to 1).
func (s Modes) RelWeights() Modes {
	totalWeight := 0.0
	for _, m := range s {
		totalWeight += m.Scalar
	}
	if totalWeight == 0 {
		return s
	}
	for i := range s {
		s[i].Scalar /= totalWeight
	}
	return s
}

// Share returns the fraction of the total scalar held by modes whose activity matches,
// or 0 when the total is 0.
func (s Modes) Share(match func(Activity) bool) float64 {
	total, matched := 0.0, 0.0
	for _, m := range s {
		total += m.Scalar
		if match(m.Activity) {
			matched += m.Scalar
		}
	}
	if total == 0 {
		return 0
	}
	return matched / total
}

// ModeTracker tracks the activity modes over a sliding, time interval-based window.
type ModeTracker struct {
	IntervalLimit time.Duration
	Acts          []ActRecord

	Unknown Mode
	Still   Mode
	Walk    Mode
	Run     Mode
	Drive   Mode
}

type ActRecord struct {
	A Activity
	T time.Time
	W float64
}

// NewModeTracker creates a new ModeTracker with the given interval.
// The constructor must be used; a zero-value ModeTracker has no mode labels.
func NewModeTracker(interval time.Duration) *ModeTracker {
	return &ModeTracker{
		IntervalLimit: interval,
		Acts:          []ActRecord{},
		Unknown:       Mode{Unknown, 0},
		Still:         Mode{Still, 0},
		Walk:          Mode{Walk, 0},
		Run:           Mode{Run, 0},
		Drive:         Mode{Drive, 0},
	}
}

// Push adds an activity record to the ModeTracker.
// It will drop any expired act records.
func (mt *ModeTracker) Push(a Activity, t time.Time, weight float64) {
	for len(mt.Acts) > 0 && t.Sub(mt.Acts[0].T) > mt.IntervalLimit {
		mt.adjust(mt.Acts[0].A, -mt.Acts[0].W)
		mt.Acts = mt.Acts[1:]
	}
	mt.Acts = append(mt.Acts, ActRecord{a, t, weight})
	mt.adjust(a, weight)
}

// Sorted returns the modes sorted by scalar value, with greatest scalars first.
func (mt *ModeTracker) Sorted(onlyKnown bool) Modes {
	modes := Modes{mt.Still, mt.Walk, mt.Run, mt.Drive}
	if !onlyKnown {
		modes = append(modes, mt.Unknown)
	}
	slices.SortStableFunc(modes, SortModes)
	return modes
}

func (mt *ModeTracker) Reset() {
	mt.Acts = []ActRecord{}
	mt.Unknown.Scalar = 0
	mt.Still.Scalar = 0
	mt.Walk.Scalar = 0
	mt.Run.Scalar = 0
	mt.Drive.Scalar = 0
}

func (mt *ModeTracker) Span() time.Duration {
	if len(mt.Acts) < 2 {
		return 0
	}
	return mt.Acts[len(mt.Acts)-1].T.Sub(mt.Acts[0].T)
}

func (mt *ModeTracker) adjust(a Activity, weight float64) {
	switch a {
	case Still:
		mt.Still.Scalar += weight
	case Walk:
		mt.Walk.Scalar += weight
	case Run:
		mt.Run.Scalar += weight
	case Drive:
		mt.Drive.Scalar += weight
	default:
		mt.Unknown.Scalar += weight
	}
}
