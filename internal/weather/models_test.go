package weather

import "testing"

func TestDisplayModeNextCycles(t *testing.T) {
	seen := make(map[DisplayMode]int)
	m := ModeSummary
	for i := 0; i < 4; i++ {
		seen[m]++
		m = m.Next()
	}
	if m != ModeSummary {
		t.Fatalf("after 4 steps mode = %s, want %s", m, ModeSummary)
	}
	for want := ModeSummary; want <= ModeCloudCover; want++ {
		if seen[want] != 1 {
			t.Errorf("mode %s visited %d times, want 1", want, seen[want])
		}
	}

	if got := DisplayMode(9).Next(); got != ModeSummary {
		t.Errorf("DisplayMode(9).Next() = %s, want %s", got, ModeSummary)
	}
}

func TestUnits(t *testing.T) {
	if UnitsMetric.QueryValue() != "metric" || UnitsImperial.QueryValue() != "imperial" {
		t.Errorf("unexpected query values %q %q", UnitsMetric.QueryValue(), UnitsImperial.QueryValue())
	}
	if UnitsMetric.TemperatureSuffix() != "°C" || UnitsImperial.TemperatureSuffix() != "°F" {
		t.Errorf("unexpected suffixes %q %q", UnitsMetric.TemperatureSuffix(), UnitsImperial.TemperatureSuffix())
	}
}

func TestSettingsConfig(t *testing.T) {
	tests := []struct {
		name         string
		displayMode  int
		wantMode     DisplayMode
		wantRotation bool
	}{
		{name: "rotate", displayMode: -1, wantMode: ModeSummary, wantRotation: true},
		{name: "summary", displayMode: 0, wantMode: ModeSummary},
		{name: "temperature", displayMode: 1, wantMode: ModeTemperature},
		{name: "rain", displayMode: 2, wantMode: ModeRainChance},
		{name: "clouds", displayMode: 3, wantMode: ModeCloudCover},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.DisplayMode = tt.displayMode

			cfg := s.Config()
			if cfg.DisplayMode != tt.wantMode {
				t.Errorf("DisplayMode = %s, want %s", cfg.DisplayMode, tt.wantMode)
			}
			if cfg.RotationEnabled != tt.wantRotation {
				t.Errorf("RotationEnabled = %v, want %v", cfg.RotationEnabled, tt.wantRotation)
			}
			if back := SettingsFromConfig(cfg); back != s {
				t.Errorf("SettingsFromConfig() = %+v, want %+v", back, s)
			}
		})
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() error = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{name: "latitude", mutate: func(s *Settings) { s.Latitude = 91 }},
		{name: "longitude", mutate: func(s *Settings) { s.Longitude = -181 }},
		{name: "units", mutate: func(s *Settings) { s.Units = 2 }},
		{name: "display mode low", mutate: func(s *Settings) { s.DisplayMode = -2 }},
		{name: "display mode high", mutate: func(s *Settings) { s.DisplayMode = 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Fatalf("Validate() error = nil, want non-nil")
			}
		})
	}
}
