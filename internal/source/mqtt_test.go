package source

import (
	"strings"
	"testing"
	"time"

	"github.com/filipsPL/aprs-is-wx/internal/wx"
)

func fptr(v float64) *float64 { return &v }

func TestValidateTelemetry(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		t       Telemetry
		wantErr string
	}{
		{
			name: "valid full reading",
			t: Telemetry{
				StationID:   "outdoor",
				Timestamp:   now,
				Temperature: fptr(21.5),
				Humidity:    fptr(60),
				Pressure:    fptr(1001.3),
			},
		},
		{
			name: "temperature alone is enough",
			t:    Telemetry{StationID: "outdoor", Timestamp: now, Temperature: fptr(-3)},
		},
		{
			name:    "missing station id",
			t:       Telemetry{Timestamp: now, Temperature: fptr(1)},
			wantErr: "station_id",
		},
		{
			name:    "missing timestamp",
			t:       Telemetry{StationID: "outdoor", Temperature: fptr(1)},
			wantErr: "timestamp",
		},
		{
			name:    "humidity out of range",
			t:       Telemetry{StationID: "outdoor", Timestamp: now, Humidity: fptr(120)},
			wantErr: "humidity_pct out of range",
		},
		{
			name:    "non-positive pressure",
			t:       Telemetry{StationID: "outdoor", Timestamp: now, Pressure: fptr(0)},
			wantErr: "pressure_hpa must be positive",
		},
		{
			name:    "no sensor readings",
			t:       Telemetry{StationID: "outdoor", Timestamp: now},
			wantErr: "at least one sensor reading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTelemetry(tt.t)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validateTelemetry() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("validateTelemetry() error = nil, want non-nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want message containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestObservationFromTelemetry(t *testing.T) {
	in := Telemetry{
		StationID:   "outdoor",
		Timestamp:   time.Now(),
		Temperature: fptr(21.5),
		Humidity:    fptr(60),
		Pressure:    fptr(1001.3),
	}

	obs := observationFromTelemetry(in)

	if obs.Temperature == nil || obs.Temperature.Value != 21.5 || obs.Temperature.Unit != wx.Celsius {
		t.Errorf("Temperature = %+v, want 21.5 C", obs.Temperature)
	}
	if obs.Humidity == nil || *obs.Humidity != 60 {
		t.Errorf("Humidity = %v, want 60", obs.Humidity)
	}
	if obs.Pressure == nil || obs.Pressure.Value != 1001.3 || obs.Pressure.Unit != wx.Hectopascals {
		t.Errorf("Pressure = %+v, want 1001.3 hPa", obs.Pressure)
	}
	if obs.WindSpeed != nil || obs.WindGust != nil || obs.WindDirection != nil || obs.RainSinceMidnight != nil {
		t.Error("telemetry carries no wind or rain; those fields must stay nil")
	}
}

func TestObservationFromTelemetry_PartialReading(t *testing.T) {
	obs := observationFromTelemetry(Telemetry{
		StationID: "outdoor",
		Timestamp: time.Now(),
		Pressure:  fptr(990),
	})

	if obs.Pressure == nil {
		t.Fatal("Pressure = nil, want value")
	}
	if obs.Temperature != nil || obs.Humidity != nil {
		t.Error("absent telemetry readings must map to nil observation fields")
	}
}
