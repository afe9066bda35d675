package weather

import (
	"fmt"
	"math"
	"strconv"
)

// Placeholder texts shown instead of feed values.
const (
	TextFetching   = "Fetching…"
	TextError      = "Error"
	TextNoAPIKey   = "No API key"
	TextBadAPICall = "Bad API call"
)

// Format returns the display text for snapshot in the given mode.
// A nil snapshot yields TextFetching; a missing field or invalid mode yields TextError.
func Format(snapshot *FeedSnapshot, mode DisplayMode, units Units) string {
	text, _ := Render(snapshot, mode, units)
	return text
}

// Render is Format that also reports why a placeholder was returned
// (ErrMissingField or ErrInvalidMode). The text is always usable.
func Render(snapshot *FeedSnapshot, mode DisplayMode, units Units) (string, error) {
	if snapshot == nil {
		return TextFetching, nil
	}

	switch mode {
	case ModeSummary:
		if snapshot.ConditionSummary == nil {
			return TextError, fmt.Errorf("%w: %s", ErrMissingField, mode)
		}
		return *snapshot.ConditionSummary, nil

	case ModeTemperature:
		if snapshot.CurrentTempWhole == nil {
			return TextError, fmt.Errorf("%w: %s", ErrMissingField, mode)
		}
		return strconv.Itoa(*snapshot.CurrentTempWhole) + units.TemperatureSuffix(), nil

	case ModeRainChance:
		if snapshot.HourlyPopFraction0 == nil {
			return TextError, fmt.Errorf("%w: %s", ErrMissingField, mode)
		}
		pct := int(math.Round(*snapshot.HourlyPopFraction0 * 100))
		return strconv.Itoa(pct) + "% Chance", nil

	case ModeCloudCover:
		if snapshot.CloudCoverPercent == nil {
			return TextError, fmt.Errorf("%w: %s", ErrMissingField, mode)
		}
		return "Cloud: " + strconv.FormatFloat(*snapshot.CloudCoverPercent, 'f', -1, 64) + "%", nil

	default:
		return TextError, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
}
