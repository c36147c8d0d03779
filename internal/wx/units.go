package wx

import (
	"fmt"
	"math"
)

// Conversion factors to the canonical APRS units.
const (
	mmHgToHPa  = 1.33322
	inHgToHPa  = 33.8639
	kmhToMph   = 0.621371
	msToMph    = 2.23694
	knotsToMph = 1.15078
	mmToInches = 0.0393701
)

// UnitError reports a unit token no conversion exists for.
type UnitError struct {
	Quantity string
	Unit     string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unsupported %s unit %q", e.Quantity, e.Unit)
}

// ToFahrenheit converts a temperature to degrees Fahrenheit.
func ToFahrenheit(value float64, unit TemperatureUnit) (float64, error) {
	switch unit {
	case Celsius:
		return value*9/5 + 32, nil
	case Fahrenheit:
		return value, nil
	default:
		return 0, &UnitError{Quantity: "temperature", Unit: string(unit)}
	}
}

// ToHectopascals converts a pressure to hectopascals.
func ToHectopascals(value float64, unit PressureUnit) (float64, error) {
	switch unit {
	case Hectopascals:
		return value, nil
	case MillimetersHg:
		return value * mmHgToHPa, nil
	case InchesHg:
		return value * inHgToHPa, nil
	default:
		return 0, &UnitError{Quantity: "pressure", Unit: string(unit)}
	}
}

// ToMilesPerHour converts a wind speed to miles per hour.
func ToMilesPerHour(value float64, unit SpeedUnit) (float64, error) {
	switch unit {
	case MilesPerHour:
		return value, nil
	case KilometersPerHour:
		return value * kmhToMph, nil
	case MetersPerSecond:
		return value * msToMph, nil
	case Knots:
		return value * knotsToMph, nil
	default:
		return 0, &UnitError{Quantity: "wind speed", Unit: string(unit)}
	}
}

// ToHundredthsInch converts a rain amount to hundredths of an inch.
func ToHundredthsInch(value float64, unit RainUnit) (float64, error) {
	switch unit {
	case Inches:
		return value * 100, nil
	case Millimeters:
		return value * mmToInches * 100, nil
	default:
		return 0, &UnitError{Quantity: "rainfall", Unit: string(unit)}
	}
}

// SeaLevelPressure adjusts a station pressure (hPa) to its sea-level
// equivalent using the barometric formula approximation
// P0 = P / (1 - h/44330)^5.255 for an elevation h in meters.
func SeaLevelPressure(hpa float64, elevationMeters float64) float64 {
	return hpa / math.Pow(1-elevationMeters/44330.0, 5.255)
}

// RoundToInt rounds half away from zero, the rounding every fixed-width
// APRS numeric field uses.
func RoundToInt(v float64) int {
	return int(math.Round(v))
}
