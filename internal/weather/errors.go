package weather

import "errors"

var (
	// ErrMissingKey is returned when no API key is configured; no request is made.
	ErrMissingKey = errors.New("api key is not configured")

	// ErrNetwork covers transport failures, timeouts and non-2xx responses.
	ErrNetwork = errors.New("feed request failed")

	// ErrParse is returned when the response body is not a decodable feed envelope.
	ErrParse = errors.New("feed response could not be parsed")

	// ErrMissingField is returned by Render when the field needed by a mode is absent.
	ErrMissingField = errors.New("snapshot is missing the field for this mode")

	// ErrInvalidMode is returned by Render for a mode outside the known range.
	ErrInvalidMode = errors.New("invalid display mode")
)
