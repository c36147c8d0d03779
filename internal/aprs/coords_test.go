package aprs

import (
	"strings"
	"testing"
)

func TestFormatLatitude(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		want string
	}{
		{name: "northern hemisphere", lat: 53.2320230, want: "5313.92N"},
		{name: "southern hemisphere whole degrees", lat: -33.0, want: "3300.00S"},
		{name: "equator is north", lat: 0, want: "0000.00N"},
		{name: "minutes round and carry into degrees", lat: 89.999999, want: "9000.00N"},
		{name: "pole", lat: 90, want: "9000.00N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatLatitude(tt.lat)
			if err != nil {
				t.Fatalf("FormatLatitude(%v) error = %v, want nil", tt.lat, err)
			}
			if got != tt.want {
				t.Errorf("FormatLatitude(%v) = %q, want %q", tt.lat, got, tt.want)
			}
		})
	}
}

func TestFormatLongitude(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		want string
	}{
		{name: "eastern hemisphere", lon: 20.0713454, want: "02004.28E"},
		{name: "western hemisphere", lon: -122.1392, want: "12208.35W"},
		{name: "prime meridian is east", lon: 0, want: "00000.00E"},
		{name: "minutes round and carry into degrees", lon: 179.999999, want: "18000.00E"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatLongitude(tt.lon)
			if err != nil {
				t.Fatalf("FormatLongitude(%v) error = %v, want nil", tt.lon, err)
			}
			if got != tt.want {
				t.Errorf("FormatLongitude(%v) = %q, want %q", tt.lon, got, tt.want)
			}
		})
	}
}

func TestFormatCoordinates_OutOfRange(t *testing.T) {
	if _, err := FormatLatitude(90.5); err == nil || !strings.Contains(err.Error(), "latitude") {
		t.Errorf("FormatLatitude(90.5) error = %v, want latitude range error", err)
	}
	if _, err := FormatLatitude(-91); err == nil {
		t.Error("FormatLatitude(-91) error = nil, want range error")
	}
	if _, err := FormatLongitude(180.5); err == nil || !strings.Contains(err.Error(), "longitude") {
		t.Errorf("FormatLongitude(180.5) error = %v, want longitude range error", err)
	}
	if _, err := FormatLongitude(-181); err == nil {
		t.Error("FormatLongitude(-181) error = nil, want range error")
	}
}
