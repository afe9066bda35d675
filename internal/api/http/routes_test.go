package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-ticker/internal/scheduler"
	"github.com/i474232898/weather-ticker/internal/store"
	"github.com/i474232898/weather-ticker/internal/weather"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) Fetch(ctx context.Context, loc weather.Location, apiKey string, units weather.Units) (weather.FeedSnapshot, error) {
	summary, temp := "Clouds", 14
	return weather.FeedSnapshot{
		FetchedAt:        time.Now().UTC(),
		Location:         loc,
		Units:            units,
		ConditionSummary: &summary,
		CurrentTempWhole: &temp,
	}, nil
}

func newTestApp(t *testing.T) (*fiber.App, *scheduler.Controller) {
	t.Helper()
	app := fiber.New()

	ctrl := scheduler.NewController(stubProvider{}, store.NewMemoryStore(), scheduler.Options{
		RefreshInterval:  time.Hour,
		RotationInterval: time.Hour,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(ctrl.Shutdown)

	RegisterRoutes(app, ctrl)
	return app, ctrl
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, out any) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestDisplayBeforeConfigure(t *testing.T) {
	app, _ := newTestApp(t)

	var st scheduler.Status
	if code := doJSON(t, app, http.MethodGet, "/api/v1/display", "", &st); code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, code)
	}
	if st.Text != weather.TextFetching {
		t.Fatalf("text = %q, want %q", st.Text, weather.TextFetching)
	}
}

func TestSnapshotAndSettingsNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/api/v1/snapshot", "/api/v1/settings"} {
		if code := doJSON(t, app, http.MethodGet, path, "", nil); code != http.StatusNotFound {
			t.Errorf("GET %s: expected status %d, got %d", path, http.StatusNotFound, code)
		}
	}
}

func TestPutSettingsValidation(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"latitude": `},
		{name: "latitude out of range", body: `{"latitude": 95, "longitude": 0, "units": 0, "displayMode": -1}`},
		{name: "units out of range", body: `{"latitude": 0, "longitude": 0, "units": 4, "displayMode": -1}`},
		{name: "display mode out of range", body: `{"latitude": 0, "longitude": 0, "units": 0, "displayMode": 4}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := doJSON(t, app, http.MethodPut, "/api/v1/settings", tt.body, nil); code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, code)
			}
		})
	}
}

func TestPutSettingsConfiguresController(t *testing.T) {
	app, ctrl := newTestApp(t)

	body := `{"latitude": 51.507222, "longitude": -0.1275, "apiKey": "secret", "units": 1, "displayMode": 1}`
	if code := doJSON(t, app, http.MethodPut, "/api/v1/settings", body, nil); code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for ctrl.CurrentDisplayText() != "14°F" {
		if time.Now().After(deadline) {
			t.Fatalf("display = %q, want %q", ctrl.CurrentDisplayText(), "14°F")
		}
		time.Sleep(5 * time.Millisecond)
	}

	var settings map[string]any
	if code := doJSON(t, app, http.MethodGet, "/api/v1/settings", "", &settings); code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, code)
	}
	if _, ok := settings["apiKey"]; ok {
		t.Errorf("settings response leaks apiKey: %v", settings)
	}
	if settings["hasApiKey"] != true {
		t.Errorf("hasApiKey = %v, want true", settings["hasApiKey"])
	}
	if settings["displayMode"] != float64(1) {
		t.Errorf("displayMode = %v, want 1", settings["displayMode"])
	}

	var snap weather.FeedSnapshot
	if code := doJSON(t, app, http.MethodGet, "/api/v1/snapshot", "", &snap); code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, code)
	}
	if snap.ConditionSummary == nil || *snap.ConditionSummary != "Clouds" {
		t.Errorf("snapshot summary = %v, want Clouds", snap.ConditionSummary)
	}
}

func TestPutSettingsWithoutKey(t *testing.T) {
	app, _ := newTestApp(t)

	var st scheduler.Status
	body := `{"latitude": 51.5, "longitude": -0.12, "apiKey": "", "units": 0, "displayMode": -1}`
	if code := doJSON(t, app, http.MethodPut, "/api/v1/settings", body, &st); code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, code)
	}
	if st.Text != weather.TextNoAPIKey {
		t.Errorf("text = %q, want %q", st.Text, weather.TextNoAPIKey)
	}
	if !st.Rotating {
		t.Errorf("rotating = false, want true for displayMode -1")
	}
}
