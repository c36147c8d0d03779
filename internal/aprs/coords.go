package aprs

import (
	"fmt"
	"math"
)

// APRS positions are fixed-width degrees + decimal minutes:
// latitude DDMM.mmN/S, longitude DDDMM.mmE/W.

// FormatLatitude converts a signed decimal-degree latitude to DDMM.mmN/S.
func FormatLatitude(lat float64) (string, error) {
	if math.Abs(lat) > 90 {
		return "", fmt.Errorf("latitude %.6f out of range [-90, 90]", lat)
	}
	hemi := byte('N')
	if lat < 0 {
		hemi = 'S'
	}
	deg, min := degreesMinutes(math.Abs(lat))
	return fmt.Sprintf("%02d%05.2f%c", deg, min, hemi), nil
}

// FormatLongitude converts a signed decimal-degree longitude to DDDMM.mmE/W.
func FormatLongitude(lon float64) (string, error) {
	if math.Abs(lon) > 180 {
		return "", fmt.Errorf("longitude %.6f out of range [-180, 180]", lon)
	}
	hemi := byte('E')
	if lon < 0 {
		hemi = 'W'
	}
	deg, min := degreesMinutes(math.Abs(lon))
	return fmt.Sprintf("%03d%05.2f%c", deg, min, hemi), nil
}

// degreesMinutes splits an absolute coordinate into whole degrees and
// minutes rounded to hundredths, carrying into degrees when the minutes
// round up to 60.00.
func degreesMinutes(abs float64) (int, float64) {
	deg := int(abs)
	hundredths := math.Round((abs - float64(deg)) * 60 * 100)
	if hundredths >= 6000 {
		deg++
		hundredths -= 6000
	}
	return deg, hundredths / 100
}
