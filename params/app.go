package params

import (
	"time"
)

// CLI defaults for the classify command.
var (
	// DefaultWifiHistorySize bounds the scans kept between windows.
	// Scans arrive every minute or so, comfortably covering the Wi-Fi window.
	DefaultWifiHistorySize = 32

	// DefaultLocationHistorySize bounds the fixes kept between windows.
	DefaultLocationHistorySize = 128

	DefaultMeterInterval = 30 * time.Second

	// DefaultSummaryWindow is the span the mode tracker summarizes at EOF.
	DefaultSummaryWindow = 10 * time.Minute
)

// ConfigFileName is looked for in the user's home directory.
const ConfigFileName = ".mobility"

const EnvPrefix = "MOBILITY"
