/*
Package sensor holds the raw readings a sensing window is built from.
Values are constructed once and treated as immutable afterwards.
*/
package sensor

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/paulmach/orb"
	"strings"
	"time"
)

var (
	ErrMissingSSID         = errors.New("an SSID is required")
	ErrMissingTime         = errors.New("time is required")
	ErrMissingAccessPoints = errors.New("access points are required")
)

// Sample is a single triaxial accelerometer reading, in device acceleration units (m/s^2 on Android).
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AccessPoint is a reading from a Wi-Fi access point.
// Strength is usually a (negative) dBm-like value.
type AccessPoint struct {
	SSID     string  `json:"ssid"`
	Strength float64 `json:"strength"`
}

// NewAccessPoint validates that the SSID is not blank.
func NewAccessPoint(ssid string, strength float64) (AccessPoint, error) {
	if strings.TrimSpace(ssid) == "" {
		return AccessPoint{}, ErrMissingSSID
	}
	return AccessPoint{SSID: ssid, Strength: strength}, nil
}

// MustAccessPoint is like NewAccessPoint but panics on invalid input.
func MustAccessPoint(ssid string, strength float64) AccessPoint {
	ap, err := NewAccessPoint(ssid, strength)
	if err != nil {
		panic(err)
	}
	return ap
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Decoded access points are validated the same as constructed ones.
func (ap *AccessPoint) UnmarshalJSON(data []byte) error {
	type Alias AccessPoint
	aux := Alias{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v, err := NewAccessPoint(aux.SSID, aux.Strength)
	if err != nil {
		return err
	}
	*ap = v
	return nil
}

// Hash returns a structural hash of the access point.
// It satisfies hashstructure.Hashable, so it must not hash ap itself.
func (ap AccessPoint) Hash() (uint64, error) {
	return hashstructure.Hash(struct {
		SSID     string
		Strength float64
	}{ap.SSID, ap.Strength}, hashstructure.FormatV2, nil)
}

// WifiScan is the set of access points heard at Time.
// Access point order is irrelevant for classification.
type WifiScan struct {
	Time         time.Time     `json:"time"`
	AccessPoints []AccessPoint `json:"accessPoints"`
}

// NewWifiScan requires a non-zero time and a non-nil (possibly empty) access point list.
func NewWifiScan(t time.Time, accessPoints []AccessPoint) (WifiScan, error) {
	if t.IsZero() {
		return WifiScan{}, ErrMissingTime
	}
	if accessPoints == nil {
		return WifiScan{}, ErrMissingAccessPoints
	}
	return WifiScan{Time: t, AccessPoints: accessPoints}, nil
}

// MustWifiScan is like NewWifiScan but panics on invalid input.
func MustWifiScan(t time.Time, accessPoints []AccessPoint) WifiScan {
	s, err := NewWifiScan(t, accessPoints)
	if err != nil {
		panic(err)
	}
	return s
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *WifiScan) UnmarshalJSON(data []byte) error {
	type Alias WifiScan
	aux := Alias{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v, err := NewWifiScan(aux.Time, aux.AccessPoints)
	if err != nil {
		return fmt.Errorf("wifi scan: %w", err)
	}
	*s = v
	return nil
}

// Hash returns a structural hash of the scan.
// Time is hashed by instant, so monotonic clock readings and locations do not matter.
func (s WifiScan) Hash() (uint64, error) {
	return hashstructure.Hash(struct {
		UnixNano     int64
		AccessPoints []AccessPoint
	}{s.Time.UnixNano(), s.AccessPoints}, hashstructure.FormatV2, nil)
}

// Location is a timestamped position. Point is orb order: [lon, lat].
type Location struct {
	Time  time.Time
	Point orb.Point
}

func NewLocation(t time.Time, lat, lon float64) Location {
	return Location{Time: t, Point: orb.Point{lon, lat}}
}

func (l Location) Lat() float64 { return l.Point.Lat() }
func (l Location) Lon() float64 { return l.Point.Lon() }

type locationJSON struct {
	Time time.Time `json:"time"`
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
}

// MarshalJSON implements the json.Marshaler interface.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(locationJSON{Time: l.Time, Lat: l.Lat(), Lon: l.Lon()})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (l *Location) UnmarshalJSON(data []byte) error {
	aux := locationJSON{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = NewLocation(aux.Time, aux.Lat, aux.Lon)
	return nil
}
