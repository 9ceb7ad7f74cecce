package common

// All units are in metric:
// - Acceleration is in m/s^2
// - Distance is in meters
// - Speed is in m/s

// StandardGravity is the gravity value used by the Android sensor API.
const StandardGravity = 9.80665

// EarthRadiusMobility is the (spherical) earth radius the mobility distance metrics were fitted with.
// The radius thresholds of the decision tree assume it.
const EarthRadiusMobility = 6366000.0
