package aprs

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/filipsPL/aprs-is-wx/internal/wx"
)

const (
	symbolTable = '/' // primary symbol table
	symbolCode  = '_' // weather station

	// Practical ceiling for an APRS information field. When the fixed
	// weather fields leave less room than the comment needs, the comment
	// is truncated; weather fields never are.
	maxPacketLen = 256
)

// Station describes the transmitting station: where it is and how its
// packets are signed.
type Station struct {
	Callsign  string
	Latitude  float64
	Longitude float64
	Elevation *float64 // meters; nil leaves pressure uncorrected
	Comment   string   // free-text station type, appended to weather packets
}

// EncodeWeather builds the body of an APRS position report with weather
// data (the "@DDHHMMz" complete-weather form). Absent observation fields
// are encoded as runs of dots filling their exact width; present fields
// are converted to APRS canonical units and zero-padded. The field order
// is fixed by the APRS weather-report grammar.
func EncodeWeather(st Station, obs wx.Observation, now time.Time) (string, error) {
	latStr, err := FormatLatitude(st.Latitude)
	if err != nil {
		return "", err
	}
	lonStr, err := FormatLongitude(st.Longitude)
	if err != nil {
		return "", err
	}

	windDir := optionalInt(obs.WindDirection)

	var windSpeed *int
	if obs.WindSpeed != nil {
		mph, err := wx.ToMilesPerHour(obs.WindSpeed.Value, obs.WindSpeed.Unit)
		if err != nil {
			return "", fmt.Errorf("wind speed: %w", err)
		}
		windSpeed = intPtr(wx.RoundToInt(mph))
	}

	var windGust *int
	if obs.WindGust != nil {
		mph, err := wx.ToMilesPerHour(obs.WindGust.Value, obs.WindGust.Unit)
		if err != nil {
			return "", fmt.Errorf("wind gust: %w", err)
		}
		windGust = intPtr(wx.RoundToInt(mph))
	}

	var temperature *int
	if obs.Temperature != nil {
		f, err := wx.ToFahrenheit(obs.Temperature.Value, obs.Temperature.Unit)
		if err != nil {
			return "", fmt.Errorf("temperature: %w", err)
		}
		temperature = intPtr(wx.RoundToInt(f))
	}

	var rain *int
	if obs.RainSinceMidnight != nil {
		hundredths, err := wx.ToHundredthsInch(obs.RainSinceMidnight.Value, obs.RainSinceMidnight.Unit)
		if err != nil {
			return "", fmt.Errorf("rain since midnight: %w", err)
		}
		rain = intPtr(wx.RoundToInt(hundredths))
	}

	var humidity *int
	if obs.Humidity != nil {
		if *obs.Humidity < 0 || *obs.Humidity > 100 {
			return "", fmt.Errorf("humidity %g out of range [0, 100]", *obs.Humidity)
		}
		humidity = intPtr(encodeHumidity(*obs.Humidity))
	}

	var pressure *int
	if obs.Pressure != nil {
		hpa, err := wx.ToHectopascals(obs.Pressure.Value, obs.Pressure.Unit)
		if err != nil {
			return "", fmt.Errorf("pressure: %w", err)
		}
		if st.Elevation != nil {
			hpa = wx.SeaLevelPressure(hpa, *st.Elevation)
		}
		pressure = intPtr(wx.RoundToInt(hpa * 10)) // tenths of hPa
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%sz", now.UTC().Format("021504"))
	b.WriteString(latStr)
	b.WriteByte(symbolTable)
	b.WriteString(lonStr)
	b.WriteByte(symbolCode)
	b.WriteString(numOrDots(windDir, 3))
	b.WriteByte('/')
	b.WriteString(numOrDots(windSpeed, 3))
	b.WriteByte('g')
	b.WriteString(numOrDots(windGust, 3))
	b.WriteByte('t')
	b.WriteString(numOrDots(temperature, 3))
	b.WriteByte('P')
	b.WriteString(numOrDots(rain, 3))
	b.WriteByte('h')
	b.WriteString(numOrDots(humidity, 2))
	b.WriteByte('b')
	b.WriteString(numOrDots(pressure, 5))

	b.WriteString(truncateComment(st.Comment, maxPacketLen-b.Len()))

	return b.String(), nil
}

// truncateComment cuts a comment down to room bytes without splitting a
// multi-byte rune at the edge.
func truncateComment(comment string, room int) string {
	if room <= 0 {
		return ""
	}
	if len(comment) <= room {
		return comment
	}
	for room > 0 && !utf8.RuneStart(comment[room]) {
		room--
	}
	return comment[:room]
}

// EncodeStatus builds the body of an APRS status report: ">" followed by
// free text.
func EncodeStatus(text string) string {
	return ">" + text
}

// encodeHumidity maps an in-range percentage to the 2-digit APRS field,
// where 00 stands for 100%.
func encodeHumidity(pct float64) int {
	h := wx.RoundToInt(pct)
	if h >= 100 {
		return 0
	}
	return h
}

// numOrDots renders a fixed-width zero-padded numeric field, or width-many
// dots when the value is absent. A negative value's sign consumes one pad
// position.
func numOrDots(n *int, width int) string {
	if n == nil {
		return strings.Repeat(".", width)
	}
	return fmt.Sprintf("%0*d", width, *n)
}

func optionalInt(v *float64) *int {
	if v == nil {
		return nil
	}
	return intPtr(wx.RoundToInt(*v))
}

func intPtr(n int) *int { return &n }
