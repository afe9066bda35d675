package weather

import (
	"strconv"
	"time"
)

// Units selects the unit system used for the feed request and the temperature suffix.
type Units int

const (
	UnitsMetric   Units = 0
	UnitsImperial Units = 1
)

// QueryValue returns the value of the "units" query parameter for the feed endpoint.
func (u Units) QueryValue() string {
	if u == UnitsImperial {
		return "imperial"
	}
	return "metric"
}

// TemperatureSuffix returns the suffix appended to whole-degree temperatures.
func (u Units) TemperatureSuffix() string {
	if u == UnitsImperial {
		return "°F"
	}
	return "°C"
}

func (u Units) String() string {
	return u.QueryValue()
}

// DisplayMode selects which field of a snapshot is shown.
type DisplayMode int

const (
	ModeSummary     DisplayMode = 0
	ModeTemperature DisplayMode = 1
	ModeRainChance  DisplayMode = 2
	ModeCloudCover  DisplayMode = 3

	displayModeCount = 4
)

// Valid reports whether m is one of the four known modes.
func (m DisplayMode) Valid() bool {
	return m >= ModeSummary && m <= ModeCloudCover
}

// Next returns the cyclic successor of m. Invalid modes restart at ModeSummary.
func (m DisplayMode) Next() DisplayMode {
	if !m.Valid() {
		return ModeSummary
	}
	return (m + 1) % displayModeCount
}

func (m DisplayMode) String() string {
	switch m {
	case ModeSummary:
		return "summary"
	case ModeTemperature:
		return "temperature"
	case ModeRainChance:
		return "rain-chance"
	case ModeCloudCover:
		return "cloud-cover"
	default:
		return "invalid(" + strconv.Itoa(int(m)) + ")"
	}
}

// Location represents the coordinates the feed is requested for.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns a canonical string key for this location, used in logs.
func (l Location) Key() string {
	return strconv.FormatFloat(l.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

// FeedSnapshot is one successful fetch of the feed. Each field is nil when the feed
// did not carry it. Snapshots are replaced, never modified.
type FeedSnapshot struct {
	FetchedAt time.Time `json:"fetchedAt"` // always UTC
	Location  Location  `json:"location"`
	Units     Units     `json:"units"`

	ConditionSummary   *string  `json:"conditionSummary,omitempty"`
	CurrentTempWhole   *int     `json:"currentTemp,omitempty"`
	HourlyPopFraction0 *float64 `json:"hourlyPop,omitempty"`
	CloudCoverPercent  *float64 `json:"cloudCoverPercent,omitempty"`
}

// Config is the consistent view of the settings the schedulers are built from.
type Config struct {
	Location        Location
	APIKey          string
	Units           Units
	DisplayMode     DisplayMode
	RotationEnabled bool
}
