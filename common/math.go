package common

import "math"

// DecimalToFixed rounds num half away from zero to precision decimal places.
// For logs; not for the classification features.
func DecimalToFixed(num float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(num*scale) / scale
}
