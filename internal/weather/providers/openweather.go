package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-ticker/internal/weather"
)

// DefaultOneCallURL is the OpenWeatherMap one-call endpoint.
const DefaultOneCallURL = "https://api.openweathermap.org/data/2.5/onecall"

// OpenWeatherProvider implements the weather.Provider interface for the OpenWeatherMap one-call API.
type OpenWeatherProvider struct {
	name    string
	baseURL string
	client  *http.Client

	mu      sync.RWMutex
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider. An empty baseURL selects DefaultOneCallURL.
func NewOpenWeatherProvider(client *http.Client, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOneCallURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		baseURL: baseURL,
		client:  client,
		circuit: newOneCallCircuit(),
	}
}

func newOneCallCircuit() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         "openweather-onecall",
		MaxRequests:  1,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: countsAsSuccess,
	})
}

// ResetCircuit replaces the breaker with a closed one.
func (p *OpenWeatherProvider) ResetCircuit() {
	cb := newOneCallCircuit()
	p.mu.Lock()
	p.circuit = cb
	p.mu.Unlock()
}

func (p *OpenWeatherProvider) breaker() *gobreaker.CircuitBreaker {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.circuit
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// oneCallPayload keeps the leaves raw so a single field of an unexpected type
// only drops that field instead of failing the whole fetch.
type oneCallPayload struct {
	Current struct {
		Temp    json.RawMessage `json:"temp"`
		Clouds  json.RawMessage `json:"clouds"`
		Weather json.RawMessage `json:"weather"`
	} `json:"current"`
	Hourly json.RawMessage `json:"hourly"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location, apiKey string, units weather.Units) (weather.FeedSnapshot, error) {
	if apiKey == "" {
		return weather.FeedSnapshot{}, weather.ErrMissingKey
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
		values.Set("appid", apiKey)
		values.Set("units", units.QueryValue())

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.breaker(), buildRequest)
	if err != nil {
		return weather.FeedSnapshot{}, err
	}
	defer resp.Body.Close()

	var payload *oneCallPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.FeedSnapshot{}, fmt.Errorf("%w: %v", weather.ErrParse, err)
	}
	if payload == nil {
		return weather.FeedSnapshot{}, fmt.Errorf("%w: empty feed document", weather.ErrParse)
	}

	snapshot := weather.FeedSnapshot{
		FetchedAt: time.Now().UTC(),
		Location:  loc,
		Units:     units,
	}

	var conditions []struct {
		Main json.RawMessage `json:"main"`
	}
	if decodeOptional(payload.Current.Weather, &conditions) && len(conditions) > 0 {
		var main string
		if decodeOptional(conditions[0].Main, &main) {
			snapshot.ConditionSummary = &main
		}
	}

	var temp float64
	if decodeOptional(payload.Current.Temp, &temp) {
		whole := int(math.Round(temp))
		snapshot.CurrentTempWhole = &whole
	}

	var clouds float64
	if decodeOptional(payload.Current.Clouds, &clouds) {
		snapshot.CloudCoverPercent = &clouds
	}

	var hourly []struct {
		Pop json.RawMessage `json:"pop"`
	}
	if decodeOptional(payload.Hourly, &hourly) && len(hourly) > 0 {
		var pop float64
		if decodeOptional(hourly[0].Pop, &pop) {
			snapshot.HourlyPopFraction0 = &pop
		}
	}

	return snapshot, nil
}

// decodeOptional decodes raw into v and reports whether a value was present and well-typed.
func decodeOptional(raw json.RawMessage, v any) bool {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
